package entity

import "time"

type StepStatus string

const (
	StepOK       StepStatus = "ok"
	StepSkipped  StepStatus = "skipped"
	StepAbsorbed StepStatus = "absorbed"
	StepTerminal StepStatus = "terminal"
)

type StepOutcome struct {
	Name     string
	Status   StepStatus
	Detail   string
	Duration time.Duration
}

// RunReport accumulates what each pipeline step did.
type RunReport struct {
	RunID string
	URL   string

	TriggerSelector string
	TriggerClicked  bool

	Mapping FieldMapping
	Filled  []string
	Skipped map[string]string

	SubmitSelector string
	Submitted      bool

	ScreenshotPath string

	Usage  map[string]Usage
	Steps  []StepOutcome
	Errors []*StepError
}

func NewRunReport(runID, url string) *RunReport {
	return &RunReport{
		RunID:   runID,
		URL:     url,
		Skipped: make(map[string]string),
		Usage:   make(map[string]Usage),
	}
}

func (r *RunReport) AddStep(o StepOutcome) {
	r.Steps = append(r.Steps, o)
}

func (r *RunReport) AddError(e *StepError) {
	r.Errors = append(r.Errors, e)
}

func (r *RunReport) TotalUsage() Usage {
	var total Usage
	for _, u := range r.Usage {
		total = total.Add(u)
	}
	return total
}

// Failed reports whether any step ended the run early.
func (r *RunReport) Failed() bool {
	for _, e := range r.Errors {
		if e.Terminal {
			return true
		}
	}
	return false
}
