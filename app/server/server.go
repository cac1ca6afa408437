package server

import (
	"context"

	"leadchat/app/config"
	"leadchat/app/service/conversation"
	"leadchat/app/service/visitor"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/samber/do"
)

type replier interface {
	Reply(ctx context.Context, history conversation.History, visitorCtx *visitor.Context) (*conversation.Result, error)
}

type Server struct {
	app        *fiber.App
	cfg        *config.Config
	replier    replier
	dispatcher conversation.Dispatcher
}

func New(di *do.Injector) (*Server, error) {
	return newServer(
		do.MustInvoke[*config.Config](di),
		do.MustInvoke[*conversation.Service](di),
		do.MustInvoke[conversation.Dispatcher](di),
	), nil
}

func newServer(cfg *config.Config, replier replier, dispatcher conversation.Dispatcher) *Server {
	s := &Server{
		cfg:        cfg,
		replier:    replier,
		dispatcher: dispatcher,
	}

	app := fiber.New(fiber.Config{
		BodyLimit:             1 * 1024 * 1024,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Static("/", "./public")

	api := app.Group("/api")
	api.Get("/widget-config", s.handleWidgetConfig)
	api.Post("/chat", s.handleChat)
	api.Post("/notify-abandoned", s.handleNotifyAbandoned)

	s.app = app

	return s
}

func (s *Server) Run() error {
	return s.app.Listen(s.cfg.Server.Addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
