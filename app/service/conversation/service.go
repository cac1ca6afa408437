package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"leadchat/app/config"
	"leadchat/app/service/visitor"

	_ "embed"

	"github.com/samber/do"
)

const maxReplyDuration = 30 * time.Second

//go:embed system_prompt.txt
var systemPromptTemplate string

// Engine is the text-completion oracle producing the next assistant reply.
type Engine interface {
	Complete(ctx context.Context, system string, history History) (string, error)
}

// Dispatcher receives concluded transcripts. Implementations must be
// fire-and-forget: the chat path never waits on them and never sees their
// failures.
type Dispatcher interface {
	Dispatch(history History, visitorCtx *visitor.Context, outcome Outcome)
}

type Service struct {
	engine     Engine
	dispatcher Dispatcher

	systemPrompt string
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return &Service{
		engine:       do.MustInvoke[Engine](di),
		dispatcher:   do.MustInvoke[Dispatcher](di),
		systemPrompt: strings.ReplaceAll(systemPromptTemplate, "{handoff_link}", cfg.Chat.HandoffLink),
	}, nil
}

// Reply runs one turn: invoke the engine over the full transcript, strip
// control tokens, classify, and hand terminal conversations to the
// dispatcher. Stateless between calls; the engine failure is fatal to the
// turn and is not retried.
func (s *Service) Reply(ctx context.Context, history History, visitorCtx *visitor.Context) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, maxReplyDuration)
	defer cancel()

	raw, err := s.engine.Complete(ctx, s.systemPrompt, history)
	if err != nil {
		return nil, fmt.Errorf("engine.Complete: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("engine returned an empty reply")
	}

	cleaned, outcome, err := extractOutcome(raw)
	if err != nil {
		return nil, fmt.Errorf("extractOutcome: %w", err)
	}

	final := history.WithAssistant(cleaned)

	if outcome != OutcomeNone {
		slog.Info("Conversation reached terminal outcome",
			"outcome", outcome,
			"turns", len(final),
			"telegram", true)

		s.dispatcher.Dispatch(final, visitorCtx, outcome)
	}

	return &Result{
		Reply:   cleaned,
		Outcome: outcome,
		History: final,
	}, nil
}
