package ai

// GenerationRequest carries the inputs for one remote generation call.
type GenerationRequest struct {
	// Prompt is the resolved prompt text to send.
	Prompt string

	// Model is the opaque service identifier used on the wire.
	// Example: "meta-llama/llama-3.3-70b-instruct"
	Model string

	// MaxTokens is the response-size ceiling.
	MaxTokens int

	// Temperature is the sampling temperature.
	Temperature float64
}
