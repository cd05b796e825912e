package ai

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindcare/backend/internal/config"
	"github.com/mindcare/backend/internal/model/chat"
)

type echoModel struct {
	lastInput []*schema.Message
}

func (m *echoModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.lastInput = input
	return schema.AssistantMessage("  That sounds like a lot to carry.  ", nil), nil
}

func (m *echoModel) Stream(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	m.lastInput = input
	return schema.StreamReaderFromArray([]*schema.Message{schema.AssistantMessage("ok", nil)}), nil
}

func (m *echoModel) BindTools(_ []*schema.ToolInfo) error { return nil }

func TestComposeRunsChain(t *testing.T) {
	fake := &echoModel{}
	svc, err := newService(context.Background(), fake, config.AIConfig{}, nil)
	require.NoError(t, err)

	history := []chat.Message{
		{Role: chat.RoleAssistant, Content: "How are you feeling today?"},
		{Role: chat.RoleUser, Content: "not sure"},
	}
	reply, err := svc.Compose(context.Background(), history, "work has been weird")
	require.NoError(t, err)
	assert.Equal(t, "That sounds like a lot to carry.", reply)

	require.Len(t, fake.lastInput, 4)
	assert.Equal(t, schema.System, fake.lastInput[0].Role)
	assert.Equal(t, "work has been weird", fake.lastInput[3].Content)
}

func TestBuildHistoryMessagesKeepsRecentTurns(t *testing.T) {
	messages := make([]chat.Message, 0, 15)
	for i := 0; i < 15; i++ {
		messages = append(messages, chat.Message{Role: chat.RoleUser, Content: "m"})
	}
	assert.Len(t, buildHistoryMessages(messages), historyLimit)
	assert.Nil(t, buildHistoryMessages(nil))
}
