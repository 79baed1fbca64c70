package llm

import "fmt"

// GenerationError reports a failed or timed-out completion call. It is
// recoverable at the request level: callers abort the attempt and surface the
// error instead of fabricating output.
type GenerationError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *GenerationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("generation failed (provider=%s, status=%d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("generation failed (provider=%s): %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
