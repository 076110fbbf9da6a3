package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"fintrack-go/internal/assistant"
	"fintrack-go/internal/config"
	"fintrack-go/internal/db"
	analyticsdomain "fintrack-go/internal/domain/analytics"
	budgetsdomain "fintrack-go/internal/domain/budgets"
	categoriesdomain "fintrack-go/internal/domain/categories"
	goalsdomain "fintrack-go/internal/domain/goals"
	identitydomain "fintrack-go/internal/domain/identity"
	inboxdomain "fintrack-go/internal/domain/inbox"
	"fintrack-go/internal/domain/materializer"
	preferencesdomain "fintrack-go/internal/domain/preferences"
	transactionsdomain "fintrack-go/internal/domain/transactions"
	"fintrack-go/internal/repository/inmemory"
	"fintrack-go/internal/repository/rediscache"
	"fintrack-go/internal/transport/httpserver"
	"fintrack-go/internal/transport/httpserver/handler"
	"fintrack-go/internal/transport/httpserver/handler/chat"
	"fintrack-go/internal/transport/httpserver/handler/common"
	"fintrack-go/internal/transport/httpserver/handler/ledger"
	"fintrack-go/internal/understanding"
	"fintrack-go/pkg/logger"
)

type Services struct {
	Categories   *categoriesdomain.Service
	Transactions *transactionsdomain.Service
	Analytics    *analyticsdomain.Service
	Budgets      *budgetsdomain.Service
	Goals        *goalsdomain.Service
	Preferences  *preferencesdomain.Service
	Identity     *identitydomain.Service
	Inbox        *inboxdomain.Service
	Materializer *materializer.Service
}

type App struct {
	cfg        config.Config
	log        logger.Logger
	services   Services
	assistant  *assistant.Handler
	httpServer *http.Server
	closers    []io.Closer
}

// New wires the store selected by cfg.Store, the caches and the understanding
// client into the assistant and the HTTP server.
func New(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	log.Info("app: initializing store", "store", cfg.Store)
	repos, err := a.openRepositories(cfg, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing caches", "backend", cfg.Cache.Backend)
	categoryCache, err := a.categoryCache(ctx, cfg.Cache, log)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	log.Info("app: initializing understanding client", "provider", cfg.Understanding.Provider)
	client, closer, err := understanding.New(ctx, understanding.Config{
		Provider: cfg.Understanding.Provider,
		BaseURL:  cfg.Understanding.BaseURL,
		APIKey:   cfg.Understanding.APIKey,
		Model:    cfg.Understanding.Model,
		Timeout:  cfg.Understanding.Timeout,
	})
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("understanding client: %w", err)
	}
	a.closers = append(a.closers, closer)

	a.services = newServices(cfg, repos, categoryCache, log)
	a.assistant = assistant.NewHandler(assistant.Services{
		Identity:     a.services.Identity,
		Inbox:        a.services.Inbox,
		Preferences:  a.services.Preferences,
		Categories:   a.services.Categories,
		Materializer: a.services.Materializer,
		Budgets:      a.services.Budgets,
		Goals:        a.services.Goals,
	}, client, cfg.Defaults.Language, log)

	log.Info("app: initializing router")
	handlers := handler.New(
		common.New(a.services.Identity, a.services.Preferences, log),
		ledger.New(ledger.Services{
			Categories:   a.services.Categories,
			Transactions: a.services.Transactions,
			Budgets:      a.services.Budgets,
			Goals:        a.services.Goals,
			Analytics:    a.services.Analytics,
			Preferences:  a.services.Preferences,
		}, log),
		chat.New(a.assistant, log),
	)
	a.httpServer = httpserver.New(cfg, httpserver.NewRouter(cfg, handlers, log))
	return a, nil
}

func newServices(cfg config.Config, repos repositories, categoryCache categoriesdomain.Cache, log logger.Logger) Services {
	categories := categoriesdomain.NewService(repos.categories, categoryCache, cfg.Cache.CategoriesTTL)
	transactions := transactionsdomain.NewService(repos.transactions)
	analytics := analyticsdomain.NewService(repos.analytics)
	budgets := budgetsdomain.NewService(repos.budgets, transactions, analytics)

	return Services{
		Categories:   categories,
		Transactions: transactions,
		Analytics:    analytics,
		Budgets:      budgets,
		Goals:        goalsdomain.NewService(repos.goals, categories, transactions),
		Preferences: preferencesdomain.NewService(repos.preferences, preferencesdomain.Defaults{
			Currency:       cfg.Defaults.Currency,
			Language:       cfg.Defaults.Language,
			Timezone:       cfg.Defaults.Timezone,
			AutoCategorize: cfg.Defaults.AutoCategorize,
		}),
		Identity:     identitydomain.NewService(repos.identity, inmemory.NewInMemoryLinkCache(), cfg.Identity.CacheTTL, cfg.Identity.CodeTTL),
		Inbox:        inboxdomain.NewService(repos.inbox),
		Materializer: materializer.NewService(categories, transactions, budgets, log),
	}
}

func (a *App) categoryCache(ctx context.Context, cfg config.CacheConfig, log logger.Logger) (categoriesdomain.Cache, error) {
	switch cfg.Backend {
	case config.CacheRedis:
		client, err := rediscache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client)
		return rediscache.NewCategoriesCache(client, log), nil
	case config.CacheMemory, "":
		return inmemory.NewInMemoryCategoriesCache(), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Backend)
	}
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Assistant() *assistant.Handler {
	return a.assistant
}

func (a *App) Services() Services {
	return a.services
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Migrate applies pending SQL migrations to the configured database.
func Migrate(cfg config.Config, log logger.Logger) ([]string, error) {
	conn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	defer sqlDB.Close()
	return db.Migrate(conn, log)
}
