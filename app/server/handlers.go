package server

import (
	"encoding/json"
	"log/slog"

	"leadchat/app/service/conversation"
	"leadchat/app/service/visitor"

	"github.com/gofiber/fiber/v2"
)

type chatRequest struct {
	History        conversation.History `json:"history"`
	VisitorContext *visitor.Context     `json:"visitorContext"`
}

type chatResponse struct {
	Reply string `json:"reply"`
	// Outcome is the single authoritative terminal signal: clients suppress
	// their abandonment beacon on a non-null value, never by scanning Reply.
	Outcome *conversation.Outcome `json:"outcome"`
}

type errorResponse struct {
	Error string `json:"error"`
}

const genericChatError = "Something went wrong while processing your message. Please try again."

func (s *Server) handleWidgetConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"greeting": s.cfg.Chat.Greeting,
	})
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil || req.History == nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Error: "conversation history is required",
		})
	}

	visitorCtx := s.enrich(c, req.VisitorContext)

	result, err := s.replier.Reply(c.UserContext(), req.History, visitorCtx)
	if err != nil {
		slog.Error("Chat turn failed", "error", err)

		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
			Error: genericChatError,
		})
	}

	resp := chatResponse{Reply: result.Reply}
	if result.Outcome != conversation.OutcomeNone {
		resp.Outcome = &result.Outcome
	}

	return c.JSON(resp)
}

// handleNotifyAbandoned receives the best-effort unload beacon. The body
// arrives as raw text so the browser can skip the CORS preflight during page
// teardown. Always responds 204: the sender is already gone.
func (s *Server) handleNotifyAbandoned(c *fiber.Ctx) error {
	var req chatRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		slog.Warn("Discarding malformed abandonment beacon", "error", err)
		return c.SendStatus(fiber.StatusNoContent)
	}

	// A history holding only the seed greeting is not a conversation
	if len(req.History) <= 1 {
		slog.Debug("Abandonment beacon without a real conversation, ignored")
		return c.SendStatus(fiber.StatusNoContent)
	}

	s.dispatcher.Dispatch(req.History, s.enrich(c, req.VisitorContext), conversation.OutcomeAbandoned)

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) enrich(c *fiber.Ctx, visitorCtx *visitor.Context) *visitor.Context {
	fallback := visitor.FromRequest(
		c.Get(fiber.HeaderUserAgent),
		c.Get(fiber.HeaderReferer),
		c.Hostname(),
	)

	merged := visitor.WithFallback(visitorCtx, fallback)
	visitor.Normalize(merged)

	return merged
}
