package app

import (
	"fmt"

	"fintrack-go/internal/config"
	"fintrack-go/internal/db"
	analyticsdomain "fintrack-go/internal/domain/analytics"
	budgetsdomain "fintrack-go/internal/domain/budgets"
	categoriesdomain "fintrack-go/internal/domain/categories"
	goalsdomain "fintrack-go/internal/domain/goals"
	identitydomain "fintrack-go/internal/domain/identity"
	inboxdomain "fintrack-go/internal/domain/inbox"
	preferencesdomain "fintrack-go/internal/domain/preferences"
	transactionsdomain "fintrack-go/internal/domain/transactions"
	"fintrack-go/internal/repository/memory"
	analyticsrepo "fintrack-go/internal/repository/postgres/analytics"
	budgetsrepo "fintrack-go/internal/repository/postgres/budgets"
	categoriesrepo "fintrack-go/internal/repository/postgres/categories"
	goalsrepo "fintrack-go/internal/repository/postgres/goals"
	identityrepo "fintrack-go/internal/repository/postgres/identity"
	inboxrepo "fintrack-go/internal/repository/postgres/inbox"
	preferencesrepo "fintrack-go/internal/repository/postgres/preferences"
	transactionsrepo "fintrack-go/internal/repository/postgres/transactions"
	"fintrack-go/pkg/logger"
)

type repositories struct {
	categories   categoriesdomain.Repository
	transactions transactionsdomain.Repository
	analytics    analyticsdomain.Repository
	budgets      budgetsdomain.Repository
	goals        goalsdomain.Repository
	preferences  preferencesdomain.Repository
	identity     identitydomain.Repository
	inbox        inboxdomain.Repository
}

func (a *App) openRepositories(cfg config.Config, log logger.Logger) (repositories, error) {
	switch cfg.Store {
	case config.StoreMemory:
		log.Warn("app: using in-memory store; data is lost on exit")
		return memoryRepositories(memory.NewStore()), nil
	case config.StorePostgres, "":
		conn, err := db.NewPostgres(cfg.DB, log)
		if err != nil {
			return repositories{}, err
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return repositories{}, err
		}
		a.closers = append(a.closers, sqlDB)

		return repositories{
			categories:   categoriesrepo.NewPostgres(conn),
			transactions: transactionsrepo.NewPostgres(conn),
			analytics:    analyticsrepo.NewPostgres(conn),
			budgets:      budgetsrepo.NewPostgres(conn),
			goals:        goalsrepo.NewPostgres(conn),
			preferences:  preferencesrepo.NewPostgres(conn),
			identity:     identityrepo.NewPostgres(conn),
			inbox:        inboxrepo.NewPostgres(conn),
		}, nil
	default:
		return repositories{}, fmt.Errorf("unsupported store: %s", cfg.Store)
	}
}

func memoryRepositories(store *memory.Store) repositories {
	return repositories{
		categories:   store.Categories(),
		transactions: store.Transactions(),
		analytics:    store.Analytics(),
		budgets:      store.Budgets(),
		goals:        store.Goals(),
		preferences:  store.Preferences(),
		identity:     store.Identity(),
		inbox:        store.Inbox(),
	}
}
