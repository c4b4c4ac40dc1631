package startup

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Outcome of one extension in a recorded phase.
type Outcome struct {
	Implementer string `json:"implementer"`
	Stage       Stage  `json:"stage,omitempty"`
	Error       string `json:"error,omitempty"`
}

func (o Outcome) Failed() bool { return o.Error != "" }

// PhaseReport covers one capability run over one module.
type PhaseReport struct {
	Module     string        `json:"module"`
	Capability string        `json:"capability"`
	Elapsed    time.Duration `json:"elapsedNs"`
	Done       bool          `json:"done"`
	Outcomes   []Outcome     `json:"outcomes"`
}

// Report is everything a Recorder has seen.
type Report struct {
	ID     string        `json:"id"`
	Phases []PhaseReport `json:"phases"`
}

// Failures counts failed outcomes across all phases.
func (r Report) Failures() int {
	n := 0
	for _, p := range r.Phases {
		for _, o := range p.Outcomes {
			if o.Failed() {
				n++
			}
		}
	}
	return n
}

// Recorder is an Observer that keeps a structured Report of what ran.
// It is safe for concurrent use; the actuator reads it while serving.
type Recorder struct {
	mu     sync.RWMutex
	report Report
}

func NewRecorder() *Recorder {
	return &Recorder{report: Report{ID: uuid.NewString()}}
}

func (r *Recorder) current() *PhaseReport {
	if len(r.report.Phases) == 0 {
		return nil
	}
	return &r.report.Phases[len(r.report.Phases)-1]
}

func (r *Recorder) Started(module, capability string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.Phases = append(r.report.Phases, PhaseReport{Module: module, Capability: capability})
}

func (r *Recorder) Running(_, implementer string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.current(); p != nil {
		p.Outcomes = append(p.Outcomes, Outcome{Implementer: implementer})
	}
}

func (r *Recorder) Failed(err error, _, implementer string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.current()
	if p == nil {
		return
	}
	stage := StageInvoke
	var se *Error
	if errors.As(err, &se) {
		stage = se.Stage
	}
	if stage == StageInvoke {
		// Running already added the outcome.
		for i := len(p.Outcomes) - 1; i >= 0; i-- {
			if p.Outcomes[i].Implementer == implementer {
				p.Outcomes[i].Stage = stage
				p.Outcomes[i].Error = err.Error()
				return
			}
		}
	}
	p.Outcomes = append(p.Outcomes, Outcome{Implementer: implementer, Stage: stage, Error: err.Error()})
}

func (r *Recorder) Completed(_, _ string, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.current(); p != nil {
		p.Elapsed = elapsed
		p.Done = true
	}
}

// Report returns a copy of what was recorded so far.
func (r *Recorder) Report() Report {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := Report{ID: r.report.ID, Phases: make([]PhaseReport, len(r.report.Phases))}
	for i, p := range r.report.Phases {
		p.Outcomes = append([]Outcome(nil), p.Outcomes...)
		out.Phases[i] = p
	}
	return out
}
