package ai

import "context"

// Request carries one backend invocation: the system instruction, the user
// prompt, and the generation parameters. Backends differ only in how this is
// wrapped for the target model and how the transport response is reduced to
// text.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Provider sends a prompt to an LLM backend and returns the raw text response.
// Used only by Ranker; not exported to the rest of the system.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}
