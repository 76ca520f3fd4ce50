// Package conversation holds the append-only transcript threaded through the
// chat engine's model turns.
package conversation

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/corpusai/corpuschat/llm"
)

// ErrOrphanToolResult is returned when a tool result doesn't immediately
// follow the assistant message carrying the matching tool call.
var ErrOrphanToolResult = errors.New("conversation: tool result has no matching tool call")

// Conversation is an append-only, order-preserving message transcript.
// The system message is always the first element and is never mutated after
// construction; a roster refresh requires a new conversation. Callers append
// user and final assistant turns; the tool bookkeeping appends are reserved
// for the chat engine. Conversations are not safe for concurrent use - each
// caller owns its own.
type Conversation struct {
	id       string
	messages []llm.Message
}

// New creates a conversation seeded with the given system message.
func New(systemMessage string) *Conversation {
	return &Conversation{
		id:       uuid.New().String(),
		messages: []llm.Message{llm.SystemMessage(systemMessage)},
	}
}

// ID returns the conversation's unique identifier.
func (c *Conversation) ID() string {
	return c.id
}

// Len returns the number of messages, including the system message.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Messages returns a copy of the transcript in order.
func (c *Conversation) Messages() []llm.Message {
	out := make([]llm.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Last returns the most recent message.
func (c *Conversation) Last() llm.Message {
	return c.messages[len(c.messages)-1]
}

// AppendUser appends a user turn.
func (c *Conversation) AppendUser(text string) {
	c.messages = append(c.messages, llm.UserMessage(text))
}

// AppendAssistantText appends a final assistant turn. A prefix of a
// partially-consumed incremental response is a valid argument.
func (c *Conversation) AppendAssistantText(text string) {
	c.messages = append(c.messages, llm.AssistantMessage(text))
}

// AppendAssistantToolCall appends the assistant message that elected a tool.
// Reserved for the chat engine.
func (c *Conversation) AppendAssistantToolCall(msg llm.Message) error {
	if msg.Role != llm.RoleAssistant {
		return fmt.Errorf("conversation: tool call message has role %q, want %q", msg.Role, llm.RoleAssistant)
	}
	if len(msg.ToolCalls) == 0 {
		return errors.New("conversation: assistant message carries no tool calls")
	}
	c.messages = append(c.messages, msg)
	return nil
}

// AppendToolResult appends a tool result linked to the immediately preceding
// assistant tool call. Reserved for the chat engine.
func (c *Conversation) AppendToolResult(callID, name, content string) error {
	last := c.Last()
	if last.Role != llm.RoleAssistant || !hasToolCall(last, callID) {
		return ErrOrphanToolResult
	}
	c.messages = append(c.messages, llm.ToolResultMessage(callID, name, content))
	return nil
}

func hasToolCall(msg llm.Message, callID string) bool {
	for _, tc := range msg.ToolCalls {
		if tc.ID == callID {
			return true
		}
	}
	return false
}
