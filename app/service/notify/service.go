package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"leadchat/app/client/mailer"
	"leadchat/app/service/analysis"
	"leadchat/app/service/conversation"
	"leadchat/app/service/visitor"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

const (
	reportTopic = "lead-reports"
	bufferSize  = 64
	workerCount = 4
)

var (
	_ conversation.Dispatcher = (*Service)(nil)
	_ do.Shutdownable         = (*Service)(nil)
)

type analyzer interface {
	Analyze(ctx context.Context, history conversation.History, visitorCtx *visitor.Context, outcome conversation.Outcome) (*analysis.Result, error)
}

type deliverer interface {
	Send(subject, htmlBody string) error
}

// Service turns concluded transcripts into delivered lead reports. Dispatch
// only enqueues; a consumer started from main does the oracle and delivery
// work, so request handlers never wait on either. Failures on this path are
// logged and swallowed: the chat must never fail because a notification did.
type Service struct {
	pubSub    *gochannel.GoChannel
	analyzer  analyzer
	deliverer deliverer
}

type dispatchJob struct {
	History        conversation.History `json:"history"`
	VisitorContext *visitor.Context     `json:"visitorContext,omitempty"`
	Outcome        conversation.Outcome `json:"outcome"`
}

func New(di *do.Injector) (*Service, error) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: bufferSize,
	}, watermill.NewSlogLogger(slog.Default()))

	return &Service{
		pubSub:    pubSub,
		analyzer:  do.MustInvoke[*analysis.Service](di),
		deliverer: do.MustInvoke[*mailer.Client](di),
	}, nil
}

// Dispatch enqueues one report job. It performs no deduplication: at-most-once
// per conversation is the caller's contract.
func (s *Service) Dispatch(history conversation.History, visitorCtx *visitor.Context, outcome conversation.Outcome) {
	payload, err := json.Marshal(dispatchJob{
		History:        history,
		VisitorContext: visitorCtx,
		Outcome:        outcome,
	})
	if err != nil {
		slog.Error("Failed to marshal report job", "outcome", outcome, "error", err)
		return
	}

	if err := s.pubSub.Publish(reportTopic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		slog.Error("Failed to enqueue report job", "outcome", outcome, "error", err)
	}
}

// Start subscribes to the report topic and launches the consumer workers.
// The subscription is established before Start returns: call it before the
// HTTP server accepts traffic and no dispatched job can find an empty topic.
// Workers run until ctx is cancelled or Shutdown closes the queue.
func (s *Service) Start(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, reportTopic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", reportTopic, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	for range workerCount {
		g.Go(func() error {
			for msg := range messages {
				s.process(ctx, msg)
			}

			return nil
		})
	}

	go func() {
		if err := g.Wait(); err != nil {
			slog.Error("Report consumer stopped", "error", err)
		}
	}()

	return nil
}

func (s *Service) process(ctx context.Context, msg *message.Message) {
	// Always ack: this path never retries, a lost report is acceptable
	defer msg.Ack()

	var job dispatchJob
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		slog.Error("Failed to unmarshal report job", "error", err)
		return
	}

	result, err := s.analyzer.Analyze(ctx, job.History, job.VisitorContext, job.Outcome)
	if err != nil {
		slog.Error("Transcript analysis failed, report dropped",
			"outcome", job.Outcome,
			"error", err)
		return
	}

	subject, body, err := renderReport(result, job.History, job.VisitorContext, job.Outcome)
	if err != nil {
		slog.Error("Report rendering failed, report dropped",
			"outcome", job.Outcome,
			"error", err)
		return
	}

	if err := s.deliverer.Send(subject, body); err != nil {
		slog.Error("Report delivery failed",
			"outcome", job.Outcome,
			"error", err)
		return
	}

	slog.Info("Lead report delivered",
		"outcome", job.Outcome,
		"turns", len(job.History),
		"telegram", true)
}

func (s *Service) Shutdown() error {
	return s.pubSub.Close()
}
