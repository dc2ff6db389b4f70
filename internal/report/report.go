package report

import (
	"encoding/json" // For the optional machine-readable run report
	"os"

	"devstrap/internal/logger"
)

// Status classifies the outcome of a single provisioning step.
type Status string

const (
	// StatusInstalled means the step performed a mutating action successfully.
	StatusInstalled Status = "installed"
	// StatusSkipped means the existence probe reported the target satisfied,
	// or the operator declined an optional component.
	StatusSkipped Status = "skipped"
	// StatusFailed means the step's external command returned an error.
	// Whether a failed result ends the run is the orchestrator's decision,
	// not this package's.
	StatusFailed Status = "failed"
)

// Result records the outcome of one provisioning step.
// Err is kept for the orchestrator; Error carries its text into report.json.
type Result struct {
	Step   string `json:"step"`             // e.g. "package", "binary", "runtime"
	Target string `json:"target"`           // e.g. "git", "jesseduffield/lazygit"
	Status Status `json:"status"`           // installed, skipped, or failed
	Detail string `json:"detail,omitempty"` // human-readable context
	Error  string `json:"error,omitempty"`  // error text, empty unless failed
	Err    error  `json:"-"`
}

// Installed builds a successful mutating result.
func Installed(step, target, detail string) Result {
	return Result{Step: step, Target: target, Status: StatusInstalled, Detail: detail}
}

// Skipped builds a no-op result for an already satisfied (or declined) target.
func Skipped(step, target, detail string) Result {
	return Result{Step: step, Target: target, Status: StatusSkipped, Detail: detail}
}

// Failed builds a failed result carrying the causing error.
func Failed(step, target string, err error) Result {
	r := Result{Step: step, Target: target, Status: StatusFailed, Err: err}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// Report aggregates the results of a provisioning run.
// The orchestrator appends every step outcome here and renders the summary
// once at the end; nothing in this package decides fatality.
type Report struct {
	Results []Result `json:"results"`
}

// Add records a result and returns it unchanged so call sites can append and
// inspect in one expression.
func (r *Report) Add(res Result) Result {
	r.Results = append(r.Results, res)
	return res
}

// AddAll records a batch of results, as produced by the list-shaped steps
// (language packages, database selections).
func (r *Report) AddAll(results []Result) {
	r.Results = append(r.Results, results...)
}

// HasFailures reports whether any recorded step failed.
func (r *Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Mutations counts the steps that actually changed the machine. On a repeat
// run over a fully provisioned machine this is zero.
func (r *Report) Mutations() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == StatusInstalled {
			n++
		}
	}
	return n
}

// Summary prints the verification output: one color-coded line per step
// outcome, then the run totals.
func (r *Report) Summary() {
	installed, skipped, failed := 0, 0, 0
	for _, res := range r.Results {
		line := "  %-10s %-28s %s\n"
		switch res.Status {
		case StatusInstalled:
			installed++
			logger.Info(line, res.Step, res.Target, res.Detail)
		case StatusSkipped:
			skipped++
			logger.Debug(line, res.Step, res.Target, res.Detail)
		case StatusFailed:
			failed++
			logger.Error(line, res.Step, res.Target, res.Error)
		}
	}
	logger.Info("[INFO] Provisioning summary: %d installed, %d already satisfied, %d failed\n",
		installed, skipped, failed)
}

// WriteJSON writes the full run report as indented JSON.
// Errors are logged but not propagated; the report file is a convenience,
// never a reason to fail a run that otherwise succeeded.
func WriteJSON(path string, r *Report) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		logger.Error("[ERROR] Failed to marshal run report: %v\n", err)
		return
	}

	logger.Debug("[DEBUG] Writing run report to %s\n", path)

	if err := os.WriteFile(path, data, 0644); err != nil {
		logger.Error("[ERROR] Failed to write run report %s: %v\n", path, err)
	}
}
