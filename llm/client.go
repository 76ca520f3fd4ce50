package llm

import (
	"context"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// Role values for conversation messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCall is a structured function invocation requested by the model.
type ToolCall struct {
	// ID links a later tool result message back to this call
	ID string
	// Name of the declared function
	Name string
	// Arguments is the JSON-encoded arguments string as returned by the model
	Arguments string
}

// Message is a single entry in a conversation transcript.
// Content may be empty when the message carries tool calls instead.
type Message struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
	Name       string
}

// SystemMessage creates a system message.
func SystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: text}
}

// UserMessage creates a user message.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// AssistantMessage creates a plain-text assistant message.
func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: text}
}

// ToolResultMessage creates a tool result message linked to a tool call.
func ToolResultMessage(callID, name, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: callID, Name: name}
}

// Tool declares a function the model may elect to call.
type Tool struct {
	Name        string
	Description string
	Parameters  jsonschema.Definition
}

// CompleteOptions holds per-call options for a completion request.
type CompleteOptions struct {
	Model string
	Tools []Tool
}

// CompleteOption configures a completion request.
type CompleteOption func(*CompleteOptions)

// WithModel overrides the client's default model for this call.
func WithModel(model string) CompleteOption {
	return func(o *CompleteOptions) {
		o.Model = model
	}
}

// WithTools declares tools the model may call.
func WithTools(tools []Tool) CompleteOption {
	return func(o *CompleteOptions) {
		o.Tools = tools
	}
}

// Client is the completion interface the chat engine depends on.
// Implementations own their own retry and timeout policy; the engine
// surfaces any returned error as terminal for the current turn.
type Client interface {
	// Complete sends the transcript and returns the model's next message.
	Complete(ctx context.Context, messages []Message, opts ...CompleteOption) (Message, error)
	// CompleteStream sends the transcript and returns an incremental response.
	CompleteStream(ctx context.Context, messages []Message, opts ...CompleteOption) (*Stream, error)
}
