package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrIndexUnavailable      = errors.New("vector index unavailable")
	ErrGradingUnavailable    = errors.New("relevance grader unavailable")
	ErrWebSearchUnavailable  = errors.New("web search unavailable")
	ErrGenerationUnavailable = errors.New("generation model unavailable")
	ErrGenerationParse       = errors.New("generation output did not match recommendation shape")
	ErrPersistence           = errors.New("failed to record message")
)

// StepError aborts a run. Steps holds the audit trail up to the failure so
// callers can log how far the run got.
type StepError struct {
	Step  Step
	Steps []Step
	Err   error
}

func (e *StepError) Error() string {
	trail := make([]string, len(e.Steps))
	for i, s := range e.Steps {
		trail[i] = string(s)
	}
	return fmt.Sprintf("workflow failed at %s (steps: [%s]): %v", e.Step, strings.Join(trail, ", "), e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
