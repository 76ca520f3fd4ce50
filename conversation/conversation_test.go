package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpusai/corpuschat/llm"
)

func TestNewSeedsSystemMessage(t *testing.T) {
	conv := New("you are a helpful bot")

	assert.NotEmpty(t, conv.ID())
	require.Equal(t, 1, conv.Len())
	assert.Equal(t, llm.RoleSystem, conv.Last().Role)
	assert.Equal(t, "you are a helpful bot", conv.Last().Content)
}

func TestAppendPreservesOrder(t *testing.T) {
	conv := New("sys")
	conv.AppendUser("first question")
	conv.AppendAssistantText("first answer")
	conv.AppendUser("second question")

	msgs := conv.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Equal(t, "first question", msgs[1].Content)
	assert.Equal(t, "first answer", msgs[2].Content)
	assert.Equal(t, "second question", msgs[3].Content)
}

func TestMessagesReturnsCopy(t *testing.T) {
	conv := New("sys")
	conv.AppendUser("hello")

	msgs := conv.Messages()
	msgs[0].Content = "mutated"

	assert.Equal(t, "sys", conv.Messages()[0].Content)
}

func TestAppendToolCallAndResult(t *testing.T) {
	conv := New("sys")
	conv.AppendUser("question")

	toolMsg := llm.Message{
		Role:      llm.RoleAssistant,
		ToolCalls: []llm.ToolCall{{ID: "call_1", Name: "lookup", Arguments: "{}"}},
	}
	require.NoError(t, conv.AppendAssistantToolCall(toolMsg))
	require.NoError(t, conv.AppendToolResult("call_1", "lookup", "evidence"))

	last := conv.Last()
	assert.Equal(t, llm.RoleTool, last.Role)
	assert.Equal(t, "call_1", last.ToolCallID)
	assert.Equal(t, "evidence", last.Content)
}

func TestAppendToolCallRejectsWrongShape(t *testing.T) {
	conv := New("sys")

	err := conv.AppendAssistantToolCall(llm.UserMessage("not assistant"))
	assert.Error(t, err)

	err = conv.AppendAssistantToolCall(llm.AssistantMessage("no tool calls"))
	assert.Error(t, err)
}

func TestAppendToolResultRequiresMatchingCall(t *testing.T) {
	conv := New("sys")
	conv.AppendUser("question")

	err := conv.AppendToolResult("call_1", "lookup", "evidence")
	assert.ErrorIs(t, err, ErrOrphanToolResult)

	toolMsg := llm.Message{
		Role:      llm.RoleAssistant,
		ToolCalls: []llm.ToolCall{{ID: "call_1", Name: "lookup"}},
	}
	require.NoError(t, conv.AppendAssistantToolCall(toolMsg))

	err = conv.AppendToolResult("call_other", "lookup", "evidence")
	assert.ErrorIs(t, err, ErrOrphanToolResult)
}

func TestIDsAreUnique(t *testing.T) {
	assert.NotEqual(t, New("a").ID(), New("b").ID())
}
