package harness

import "github.com/roach88/orb/internal/flow"

// Result is the outcome of running a scenario.
type Result struct {
	// Pass indicates overall scenario success.
	Pass bool `json:"pass"`

	// Graph is the compiled graph; nil when compilation failed.
	Graph *flow.Graph `json:"graph,omitempty"`

	// Err is the compilation error, if any.
	Err error `json:"-"`

	// Errors contains mismatch messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a mismatch message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
