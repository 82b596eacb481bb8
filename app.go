package yoinker

import (
	"context"
	"fmt"
	"strings"

	"github.com/pevans/yoinker/config"
	"github.com/pevans/yoinker/gateway"
	"github.com/pevans/yoinker/history"
	"github.com/pevans/yoinker/llm"
	"github.com/pevans/yoinker/logging"
	"github.com/pevans/yoinker/votd"
)

// HistoryDisabled as the history DSN turns the history store off.
const HistoryDisabled = "none"

// App holds everything the CLI and the API server are built from.
type App struct {
	Config  *config.Config
	Service *Service
	History *history.Store
	VOTD    *votd.Client
	// LLMErr explains why the GPT method is unavailable, if it is.
	LLMErr error
}

// NewApp wires the fetcher, resolver, LLM provider, history store and
// verse of the day client from cfg.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	fetcher, err := gateway.NewFetcher(cfg.FetcherConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}
	resolver := gateway.NewResolver(fetcher, cfg.Passage)

	app := &App{
		Config: cfg,
		VOTD:   votd.NewClient(cfg.VOTDURL),
	}

	// The GPT method is optional; BG lookups work without a key
	var provider llm.Provider
	if err := cfg.ValidateLLM(); err != nil {
		app.LLMErr = err
		logging.Debug("GPT method disabled", "reason", err)
	} else {
		provider, err = llm.New(ctx, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM provider: %w", err)
		}
	}

	var recorder Recorder
	if dsn := strings.TrimSpace(cfg.HistoryDSN); dsn != "" && dsn != HistoryDisabled {
		store, err := history.NewStore(dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open history store: %w", err)
		}
		app.History = store
		recorder = store
	}

	app.Service = NewService(resolver, provider, recorder)
	return app, nil
}

// APIServer returns the HTTP API over the app's components.
func (a *App) APIServer() *APIServer {
	var lister HistoryLister
	if a.History != nil {
		lister = a.History
	}
	return NewAPIServer(a.Service, lister, a.VOTD, a.Config)
}

// Close releases the history store.
func (a *App) Close() error {
	if a.History != nil {
		return a.History.Close()
	}
	return nil
}
