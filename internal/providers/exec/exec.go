package exec

import "context"

// Result is what the external execution service reports for one run.
type Result struct {
	Output  string
	Error   string
	CPUTime float64 // seconds, as reported by the service
}

// Provider executes a code snippet against an external execution service.
// Calls are synchronous and never retried; the upstream is quota limited.
type Provider interface {
	Execute(ctx context.Context, code, language string) (*Result, error)
}
