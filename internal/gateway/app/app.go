package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"

	"readmegen/internal/gateway/config"
	"readmegen/internal/gateway/handler"
	"readmegen/internal/gateway/server"
	"readmegen/internal/llm"
	"readmegen/internal/logging"
)

type App struct {
	server *server.Server
	client llm.LLMClient
	stores *documentStores
	log    logger.FieldLogger
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logging.Setup(cfg.Env, cfg.LogLevel, os.Stderr)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Dependencies
	client, err := NewLLMClient(context.Background(), cfg.LLM, log)
	if err != nil {
		return nil, err
	}
	stores, err := initStores(cfg.Document, log)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	svc := NewService(cfg, client, stores.store, log)
	readmeHandler := handler.NewReadmeHandler(svc, logging.IsDevelopment(cfg.Env), log)

	// Routing & Server
	mux := server.NewMux(readmeHandler, log)
	srv := server.New(cfg.Port, mux, log)

	log.WithFields(logger.Fields{"env": cfg.Env, "model": client.Name()}).Info("gateway initialized")
	return &App{
		server: srv,
		client: client,
		stores: stores,
		log:    log,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	a.stores.logMetrics(a.log)
	return errors.Join(err, a.client.Close(), a.stores.Close())
}
