package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	handler "github.com/vncsmyrnk/ballotbinder/internal/adapters/handler/http"
	"github.com/vncsmyrnk/ballotbinder/internal/adapters/nostr"
	"github.com/vncsmyrnk/ballotbinder/internal/adapters/remote/graphql"
	"github.com/vncsmyrnk/ballotbinder/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/ballotbinder/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/ballotbinder/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/ballotbinder/internal/config"
	"github.com/vncsmyrnk/ballotbinder/internal/core/ports"
	"github.com/vncsmyrnk/ballotbinder/internal/core/services"
)

// App holds the wired services shared by the server and the CLI.
type App struct {
	Log      *slog.Logger
	Config   *config.Config
	Binders  *services.BinderStore
	Keys     nostr.KeyResolver
	Remote   *graphql.Client
	Resolver ports.BallotResolver
	Ballots  ports.BinderService
	Sessions *services.SessionService
	Results  ports.ResultsService

	closeStorage func() error
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	kv, closeStorage, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	remote, err := graphql.NewClient(cfg.Remote.GraphQLURL, cfg.Remote.Timeout)
	if err != nil {
		closeStorage()
		return nil, err
	}

	binders := services.NewBinderStore(kv, cfg.Storage.Namespace)
	keys := nostr.NewKeyResolver()
	resolver := services.NewBallotResolver(remote, cfg.Remote.MaxConcurrency)

	sessions, err := services.NewSessionService(log, keys, binders, kv, services.SessionConfig{
		Secret: []byte(cfg.Session.Secret),
		TTL:    cfg.Session.TTL,
	})
	if err != nil {
		closeStorage()
		return nil, err
	}

	return &App{
		Log:          log,
		Config:       cfg,
		Binders:      binders,
		Keys:         keys,
		Remote:       remote,
		Resolver:     resolver,
		Ballots:      services.NewBinderService(log, binders, resolver, remote),
		Sessions:     sessions,
		Results:      services.NewResultsService(remote, cfg.Results.OtherThreshold),
		closeStorage: closeStorage,
	}, nil
}

func (a *App) Handler() http.Handler {
	return handler.NewHandler(a.Log, a.Sessions, handler.Handlers{
		Sessions: handler.NewSessionHandler(a.Sessions, a.Sessions.TTL(), a.Config.Session.CookieDomain, a.Config.Session.CookieSecure),
		Ballots:  handler.NewBallotHandler(a.Ballots),
		Results:  handler.NewResultsHandler(a.Results),
	}, a.Config.HTTP.AllowedOrigins)
}

func (a *App) Close() error {
	if a.closeStorage == nil {
		return nil
	}
	return a.closeStorage()
}

// OpenStorage opens the key/value backend selected by STORAGE_DRIVER.
func OpenStorage(ctx context.Context, cfg *config.Config) (ports.KeyValueStore, func() error, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		kv := memory.NewKVStore(cfg.Storage.MaxBytes)
		return kv, kv.Close, nil

	case config.DriverSQLite:
		kv, err := sqlite.Open(cfg.StorageDSN())
		if err != nil {
			return nil, nil, err
		}
		return kv, kv.Close, nil

	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.StorageDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to reach postgres: %w", err)
		}
		return postgres.NewKVStore(db), db.Close, nil
	}
	return nil, nil, errors.New("unknown storage driver " + cfg.Storage.Driver)
}
