package llm

import "context"

// Provider is the generative-AI collaborator used for code analysis and
// interviewer assistance. Implementations are opaque request/response
// services; callers never retry on failure.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}
