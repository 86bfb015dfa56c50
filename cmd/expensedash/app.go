package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/garyjia/expense-dashboard/internal/attachment"
	"github.com/garyjia/expense-dashboard/internal/config"
	"github.com/garyjia/expense-dashboard/internal/domain/category"
	"github.com/garyjia/expense-dashboard/internal/export"
	"github.com/garyjia/expense-dashboard/internal/infrastructure/external/api"
	"github.com/garyjia/expense-dashboard/internal/infrastructure/persistence/localstore"
	"github.com/garyjia/expense-dashboard/internal/session"
	"github.com/garyjia/expense-dashboard/internal/storage"
	"github.com/garyjia/expense-dashboard/pkg/utils"
)

// errNotSignedIn is returned by commands that need a session
var errNotSignedIn = errors.New("not signed in, run 'expensedash login' first")

// app wires every component one command invocation needs
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	store      *localstore.Store
	client     *api.Client
	session    *session.Session
	gate       *session.Gate
	exporter   *export.Exporter
	validator  *attachment.Validator
	classifier category.Classifier

	stdin  io.Reader
	prompt *prompter
	stdout io.Writer
	stderr io.Writer
}

func newApp(ctx context.Context, cfg *config.Config, stdin io.Reader, stdout, stderr io.Writer) (*app, error) {
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	classifier, err := category.ForScheme(cfg.Dashboard.CategoryScheme)
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(api.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	store, err := localstore.Open(ctx, cfg.Storage.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open local storage: %w", err)
	}

	sess := session.New(store, client, logger)

	return &app{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		client:     client,
		session:    sess,
		gate:       session.NewGate(sess, logger),
		exporter:   export.NewExporter(storage.NewLocalFileStorage(cfg.Export.Dir, logger), logger),
		validator:  attachment.NewValidator(logger),
		classifier: classifier,
		stdin:      stdin,
		prompt:     newPrompter(stdin, stderr),
		stdout:     stdout,
		stderr:     stderr,
	}, nil
}

// Close releases the local store and flushes the logger
func (a *app) Close() error {
	_ = a.logger.Sync()
	return a.store.Close()
}

// requireSession runs the session gate and fails when the user must sign in
func (a *app) requireSession(ctx context.Context) (session.Decision, error) {
	decision, err := a.gate.Check(ctx)
	if err != nil {
		return decision, err
	}
	if !decision.Admitted() {
		if decision.Reason != "" && decision.Reason != "no stored token" {
			return decision, fmt.Errorf("%w (%s)", errNotSignedIn, decision.Reason)
		}
		return decision, errNotSignedIn
	}
	return decision, nil
}

func (a *app) pageSize() int {
	return a.cfg.Listing.PageSize
}
