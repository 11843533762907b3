// Package app builds the client's object graph from configuration. One App is created per
// process and handed to whatever drives it.
package app

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"careerlens/internal/common/auth"
	"careerlens/internal/common/config"
	"careerlens/internal/common/database"
	"careerlens/internal/common/errors"
	"careerlens/internal/common/logger"
	"careerlens/internal/common/observability"
	"careerlens/internal/common/validation"
	"careerlens/internal/gateway"
	"careerlens/internal/listing"
	"careerlens/internal/models"
	"careerlens/internal/tracker"
	"careerlens/pkg/contracts"
)

// Options tweaks how New builds the graph. The zero value is what the CLI uses.
type Options struct {
	// Profile names the stored session, so several accounts can share one Redis.
	Profile string
	// Opener receives apply links. Nil means the system browser.
	Opener listing.Opener
	// Registerer receives the OpenTelemetry exporter. Nil means the default registry.
	Registerer prometheus.Registerer
}

type App struct {
	Config      *config.Config
	Logger      logger.Logger
	Auth        *auth.Client
	Gateway     *gateway.Gateway
	Store       *listing.Store
	Coordinator *listing.Coordinator
	Tracker     *tracker.Tracker

	obs   *observability.Observability
	redis *database.RedisClient
}

// New wires every component. A Redis session store is pinged up front so a bad address
// fails here rather than on the first sign-in.
func New(ctx context.Context, cfg *config.Config, log logger.Logger, opts Options) (*App, error) {
	obs, err := observability.New(cfg.App.Name, opts.Registerer)
	if err != nil {
		return nil, err
	}

	var validator *validation.ContractValidator
	if cfg.API.ValidateContracts {
		reg, err := loadContracts(cfg.API.ContractsPath)
		if err != nil {
			obs.Shutdown(ctx)
			return nil, err
		}
		validator = validation.NewContractValidator(reg)
	}

	a := &App{Config: cfg, Logger: log, obs: obs}

	var store auth.SessionStore
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		a.redis = database.NewRedis(cfg.Database.Redis)
		if err := a.redis.Ping(ctx); err != nil {
			a.redis.Close()
			obs.Shutdown(ctx)
			return nil, err
		}
		store = database.NewRedisSessionStore(a.redis.Client, cfg.Session.KeyPrefix, opts.Profile,
			time.Duration(cfg.Session.TTL)*time.Second)
	default:
		store = auth.NewMemoryStore()
	}

	a.Auth = auth.NewClient(cfg.Auth, store, log)
	a.Gateway = gateway.New(gateway.Options{
		BaseURL:       cfg.API.BaseURL,
		Timeout:       config.GetDuration(cfg.API.Timeout),
		Validator:     validator,
		Tokens:        a.Auth,
		Logger:        log,
		Observability: obs,
	})

	opener := opts.Opener
	if opener == nil {
		opener = listing.BrowserOpener
	}
	a.Store = listing.NewStore(a.Gateway, cfg.API.RecommendationLimit, log)
	a.Coordinator = listing.NewCoordinator(a.Store, a.Gateway, opener, log)
	a.Tracker = tracker.New(a.Gateway, log)

	log.Debug("client ready", map[string]interface{}{
		"apiBaseUrl":   cfg.API.BaseURL,
		"sessionStore": cfg.Session.Store,
		"contracts":    validator != nil,
	})
	return a, nil
}

// RequireUser returns the signed-in user or a NOT_AUTHENTICATED error.
func (a *App) RequireUser(ctx context.Context) (*models.User, error) {
	user, err := a.Auth.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NewNotAuthenticatedError()
	}
	return user, nil
}

// LoadListings loads recommendations and membership for the signed-in user.
func (a *App) LoadListings(ctx context.Context) (*models.User, error) {
	user, err := a.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	a.Logger.Debug("loading listings", map[string]interface{}{"url": a.Config.API.RecommendationsURL(user.ID)})
	if err := a.Store.Load(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// LoadTracker loads the application board for the signed-in user.
func (a *App) LoadTracker(ctx context.Context) (*models.User, error) {
	user, err := a.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.Tracker.Load(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// Close waits for background writes, then releases connections and flushes metrics.
func (a *App) Close(ctx context.Context) error {
	a.Coordinator.Wait()
	a.Tracker.Wait()

	var firstErr error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			firstErr = err
		}
	}
	if err := a.obs.Shutdown(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	_ = a.Logger.Sync()
	return firstErr
}

func loadContracts(path string) (*contracts.Registry, error) {
	if path == "" {
		return contracts.Default()
	}
	reg, err := contracts.LoadRegistry(path)
	if err != nil {
		return nil, errors.NewConfigInvalidError("api.contracts_path: " + err.Error())
	}
	return reg, nil
}
