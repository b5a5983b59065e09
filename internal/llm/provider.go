package llm

import "context"

// Provider is the language-model capability the tutor depends on: given a
// prompt (optionally with inline images), return a text response. Concrete
// providers are constructed once at startup and passed by dependency
// injection; there is no global client.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate performs a completion request
	Generate(ctx context.Context, req *Request) (*Response, error)

	// SupportsVision reports whether image inputs are accepted
	SupportsVision() bool
}

// Request represents an LLM request
type Request struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	System      string // System prompt (some providers handle this separately)
}

// Message represents a chat message
type Message struct {
	Role    Role
	Content string
	Images  []Image // inline image payloads, for vision-capable providers
}

// Image is an inline image payload sent alongside a message.
type Image struct {
	MediaType string // e.g. image/png
	Data      string // base64-encoded bytes
}

// Role represents the role of a message sender
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response represents an LLM response
type Response struct {
	Content      string
	FinishReason string
	Usage        Usage
}

// Usage tracks token usage
type Usage struct {
	InputTokens  int
	OutputTokens int
}
