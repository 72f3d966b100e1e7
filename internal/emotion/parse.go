package emotion

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// analysisEnvelope covers the single-object and {"results": [...]} shapes.
type analysisEnvelope struct {
	Analysis
	Results []Analysis `json:"results"`
	Error   string     `json:"error"`
}

// parseAnalysis decodes model JSON. It accepts a bare list of per-face results,
// an object with a "results" list, or a single result object. The first face wins.
func parseAnalysis(data []byte) (Analysis, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Analysis{}, errors.New("empty model output")
	}

	switch data[0] {
	case '[':
		var list []Analysis
		if err := json.Unmarshal(data, &list); err != nil {
			return Analysis{}, fmt.Errorf("decoding model output: %w", err)
		}
		if len(list) == 0 {
			return Analysis{}, errors.New("model returned no faces")
		}
		return list[0], nil
	case '{':
		var env analysisEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return Analysis{}, fmt.Errorf("decoding model output: %w", err)
		}
		if env.Error != "" {
			return Analysis{}, fmt.Errorf("model error: %s", env.Error)
		}
		if len(env.Results) > 0 {
			return env.Results[0], nil
		}
		return env.Analysis, nil
	default:
		return Analysis{}, fmt.Errorf("unexpected model output %q", truncate(data, 80))
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
