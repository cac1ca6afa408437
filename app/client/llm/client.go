package llm

import (
	"context"
	"fmt"
	"strings"

	"leadchat/app/config"
	"leadchat/app/service/conversation"

	"github.com/samber/do"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const maxReplyTokens = 500

var _ conversation.Engine = (*Client)(nil)

// Client drives the dialogue model through an OpenAI-compatible endpoint.
type Client struct {
	model *openai.LLM
}

func New(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di).OpenAI.Dialogue

	model, err := openai.New(
		openai.WithToken(cfg.Token),
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai llm: %w", err)
	}

	return &Client{model: model}, nil
}

func (c *Client) Complete(ctx context.Context, system string, history conversation.History) (string, error) {
	messages := make([]llms.MessageContent, 0, len(history)+1)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, system))

	for _, turn := range history {
		role := llms.ChatMessageTypeHuman
		if turn.Role == conversation.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}

		messages = append(messages, llms.TextParts(role, turn.Content))
	}

	resp, err := c.model.GenerateContent(ctx, messages,
		llms.WithMaxTokens(maxReplyTokens),
		llms.WithTemperature(0.7),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no chat completion found")
	}

	return strings.TrimSpace(resp.Choices[0].Content), nil
}
