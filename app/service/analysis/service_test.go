package analysis

import (
	"testing"

	"leadchat/app/service/conversation"
	"leadchat/app/service/visitor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptForSelectsTemplateByOutcome(t *testing.T) {
	assert.Contains(t, promptFor(conversation.OutcomeTransferred), "handed them off to WhatsApp")
	assert.Contains(t, promptFor(conversation.OutcomeScheduled), "scheduled meeting")
	assert.Contains(t, promptFor(conversation.OutcomeFinalized), "ENDED the chat")
	assert.Contains(t, promptFor(conversation.OutcomeAbandoned), "ABANDONED the chat")
}

func TestFormatHistory(t *testing.T) {
	history := conversation.History{
		{Role: conversation.RoleAssistant, Content: "Hi, what's your name?"},
		{Role: conversation.RoleUser, Content: "Maria, Clínica Azul"},
	}

	formatted := formatHistory(history)

	assert.Equal(t, "assistant: Hi, what's your name?\nuser: Maria, Clínica Azul", formatted)
}

func TestFormatVisitorContextToleratesNil(t *testing.T) {
	assert.Equal(t, "No visitor data was collected.", formatVisitorContext(nil))
}

func TestFormatVisitorContextSerializesKnownFields(t *testing.T) {
	formatted := formatVisitorContext(&visitor.Context{
		Technical: &visitor.Technical{Device: "Mobile"},
	})

	assert.Contains(t, formatted, `"device": "Mobile"`)
}

func TestParseResult(t *testing.T) {
	result, err := parseResult(`{"summary": "hot lead", "temperature": "Hot"}`)
	require.NoError(t, err)

	assert.Equal(t, "hot lead", result.Summary)
	assert.Equal(t, "Hot", result.Temperature)
}

func TestParseResultStripsCodeFence(t *testing.T) {
	result, err := parseResult("```json\n{\"summary\": \"left after pricing\"}\n```")
	require.NoError(t, err)

	assert.Equal(t, "left after pricing", result.Summary)
}

func TestParseResultRejectsProse(t *testing.T) {
	_, err := parseResult("I could not produce JSON, sorry.")
	require.Error(t, err)
}
