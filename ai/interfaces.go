package ai

import "context"

// Generator produces a text completion from a remote text-generation
// service. Implementations perform exactly one bare attempt per call: no
// retry logic lives here. Implementations must be thread-safe for
// concurrent use.
type Generator interface {
	// Generate sends one prompt to the remote service identified by the
	// request's Model and returns the response text.
	// Failures are reported as *core.RemoteCallError carrying the
	// underlying cause: transport errors, non-success statuses, and
	// malformed or empty response bodies all classify the same way.
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}
