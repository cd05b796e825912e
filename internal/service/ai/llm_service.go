package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/mindcare/backend/internal/config"
	"github.com/mindcare/backend/internal/model/chat"
)

const historyLimit = 10

// Service writes supportive replies for messages no rule recognised.
type Service struct {
	chain  compose.Runnable[map[string]any, *schema.Message]
	cfg    config.AIConfig
	logger *zap.Logger
}

// NewService creates a composer backed by the configured Ark model.
func NewService(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return newService(ctx, chatModel, cfg, logger)
}

func newService(ctx context.Context, chatModel model.ChatModel, cfg config.AIConfig, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile support chain: %w", err)
	}

	return &Service{chain: runnable, cfg: cfg, logger: logger}, nil
}

// Compose runs the chain for one user message.
func (s *Service) Compose(ctx context.Context, history []chat.Message, userMessage string) (string, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	input := map[string]any{
		"history": buildHistoryMessages(history),
		"query":   userMessage,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run support chain: %w", err)
	}
	if response == nil {
		return "", fmt.Errorf("empty model response")
	}

	s.logger.Debug("composed support reply", zap.Int("length", len(response.Content)))
	return strings.TrimSpace(response.Content), nil
}

func buildHistoryMessages(messages []chat.Message) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	startIdx := 0
	if len(messages) > historyLimit {
		startIdx = len(messages) - historyLimit
	}

	history := make([]*schema.Message, 0, len(messages)-startIdx)
	for _, msg := range messages[startIdx:] {
		switch msg.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(msg.Content))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		}
	}

	return history
}

const systemPrompt = `You are MindCare's support assistant. Reply in two to four sentences with warmth and without judgment.
Acknowledge what the user shared, offer one gentle coping idea or question, and never give a diagnosis or medication advice.
If the user mentions self-harm, tell them to call or text 988 or go to the nearest emergency room.`
