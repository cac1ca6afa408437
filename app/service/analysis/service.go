package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"leadchat/app/config"
	"leadchat/app/service/conversation"
	"leadchat/app/service/visitor"

	_ "embed"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
	"github.com/sashabaranov/go-openai"
)

const maxAnalysisDuration = 30 * time.Second

//go:embed prompt_transferred.txt
var promptTransferred string

//go:embed prompt_scheduled.txt
var promptScheduled string

//go:embed prompt_finalized.txt
var promptFinalized string

//go:embed prompt_abandoned.txt
var promptAbandoned string

// Service asks the analysis model for a structured read of a concluded
// transcript. One prompt template per outcome kind.
type Service struct {
	client *openai.Client
	model  string
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di).OpenAI.Analysis

	clientConfig := openai.DefaultConfig(cfg.Token)
	clientConfig.BaseURL = cfg.BaseURL
	clientConfig.HTTPClient = &http.Client{
		Timeout: maxAnalysisDuration,
	}

	return &Service{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}, nil
}

func promptFor(outcome conversation.Outcome) string {
	switch outcome {
	case conversation.OutcomeTransferred:
		return promptTransferred
	case conversation.OutcomeScheduled:
		return promptScheduled
	case conversation.OutcomeAbandoned:
		return promptAbandoned
	default:
		return promptFinalized
	}
}

func formatHistory(history conversation.History) string {
	lines := pie.Map(history, func(turn conversation.Turn) string {
		return fmt.Sprintf("%s: %s", turn.Role, turn.Content)
	})

	return strings.Join(lines, "\n")
}

func formatVisitorContext(visitorCtx *visitor.Context) string {
	if visitorCtx == nil {
		return "No visitor data was collected."
	}

	data, err := json.MarshalIndent(visitorCtx, "", "  ")
	if err != nil {
		return "No visitor data was collected."
	}

	return string(data)
}

func (s *Service) Analyze(
	ctx context.Context,
	history conversation.History,
	visitorCtx *visitor.Context,
	outcome conversation.Outcome,
) (*Result, error) {
	templateValues := map[string]any{
		"history":         formatHistory(history),
		"visitor_context": formatVisitorContext(visitorCtx),
	}

	prompt := promptFor(outcome)
	for key, value := range templateValues {
		prompt = strings.ReplaceAll(prompt, "{"+key+"}", fmt.Sprint(value))
	}

	ctx, cancel := context.WithTimeout(ctx, maxAnalysisDuration)
	defer cancel()

	aiResponse, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxCompletionTokens: 1000,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(aiResponse.Choices) == 0 {
		return nil, fmt.Errorf("no chat completion found")
	}

	return parseResult(aiResponse.Choices[0].Message.Content)
}

// parseResult tolerates markdown code fences some models wrap JSON output in.
func parseResult(raw string) (*Result, error) {
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "json")
	raw = strings.TrimSpace(raw)

	var response Result
	if err := json.Unmarshal([]byte(raw), &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &response, nil
}
