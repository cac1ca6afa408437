package main

import (
	"context"
	"leadchat/app/client/llm"
	"leadchat/app/client/mailer"
	"leadchat/app/config"
	"leadchat/app/server"
	"leadchat/app/service/analysis"
	"leadchat/app/service/conversation"
	"leadchat/app/service/notify"
	"leadchat/app/util/mylog"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, mailer.New)
	do.Provide(di, analysis.New)
	do.Provide(di, notify.New)
	do.Provide(di, llm.New)
	do.Provide(di, conversation.New)
	do.Provide(di, server.New)

	do.Provide(di, func(di *do.Injector) (conversation.Engine, error) {
		return do.MustInvoke[*llm.Client](di), nil
	})
	do.Provide(di, func(di *do.Injector) (conversation.Dispatcher, error) {
		return do.MustInvoke[*notify.Service](di), nil
	})

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	// The report consumer must outlive request handlers: dispatch is detached
	// from the HTTP lifecycle and finishes after the response is sent. Start
	// it before the server listens so no job is published to an empty topic.
	if err := do.MustInvoke[*notify.Service](di).Start(appCtx); err != nil {
		log.Fatalf("report consumer start failed: %v", err)
	}

	srv := do.MustInvoke[*server.Server](di)
	go func() {
		if err := srv.Run(); err != nil {
			slog.Error("HTTP server stopped", "error", err)
			cancel()
		}
	}()

	<-appCtx.Done()

	_ = srv.Shutdown()
}
