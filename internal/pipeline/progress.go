package pipeline

// Stage identifies a step of a run.
type Stage string

// Run stages in order.
const (
	StageProcessing Stage = "processing"
	StageAnalyzing  Stage = "analyzing"
	StageDetected   Stage = "detected"
	StageSearching  Stage = "searching"
	StageDone       Stage = "done"
)

// Progress is a single progress event.
type Progress struct {
	Stage   Stage
	Percent int
	Message string
}

// Observer receives progress events. It is called synchronously on the run's goroutine.
type Observer func(Progress)

type progressReporter struct {
	observe Observer
}

func newReporter(observe Observer) progressReporter {
	return progressReporter{observe: observe}
}

func (r progressReporter) report(stage Stage, percent int, message string) {
	if r.observe == nil {
		return
	}
	r.observe(Progress{Stage: stage, Percent: percent, Message: message})
}
