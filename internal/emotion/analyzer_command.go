package emotion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// imagePlaceholder is replaced with the transient image path in command arguments.
const imagePlaceholder = "{image}"

// CommandAnalyzer runs an external program that prints DeepFace JSON to stdout.
type CommandAnalyzer struct {
	argv []string
}

// NewCommandAnalyzer creates an analyzer from argv. If no argument contains
// {image}, the path is appended as the last argument.
func NewCommandAnalyzer(argv []string) (*CommandAnalyzer, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return nil, errors.New("detector command is empty")
	}
	return &CommandAnalyzer{argv: append([]string(nil), argv...)}, nil
}

// Analyze runs the command and parses its stdout.
func (a *CommandAnalyzer) Analyze(ctx context.Context, imagePath string) (Analysis, error) {
	args := a.args(imagePath)

	cmd := exec.CommandContext(ctx, a.argv[0], args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return Analysis{}, fmt.Errorf("running %s: %w: %s", a.argv[0], err, truncate([]byte(msg), 200))
		}
		return Analysis{}, fmt.Errorf("running %s: %w", a.argv[0], err)
	}

	analysis, err := parseAnalysis(stdout.Bytes())
	if err == nil {
		return analysis, nil
	}
	// Some wrappers print progress lines before the JSON.
	if last := lastLine(stdout.Bytes()); last != nil {
		if analysis, lastErr := parseAnalysis(last); lastErr == nil {
			return analysis, nil
		}
	}
	return Analysis{}, err
}

func (a *CommandAnalyzer) args(imagePath string) []string {
	args := make([]string, 0, len(a.argv))
	substituted := false
	for _, arg := range a.argv[1:] {
		if strings.Contains(arg, imagePlaceholder) {
			arg = strings.ReplaceAll(arg, imagePlaceholder, imagePath)
			substituted = true
		}
		args = append(args, arg)
	}
	if !substituted {
		args = append(args, imagePath)
	}
	return args
}

func lastLine(b []byte) []byte {
	lines := bytes.Split(bytes.TrimSpace(b), []byte("\n"))
	if len(lines) < 2 {
		return nil
	}
	return lines[len(lines)-1]
}
