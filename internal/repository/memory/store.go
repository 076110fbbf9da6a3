// Package memory is an in-process store implementing every domain
// repository. It backs the local chat mode and cross-domain tests; nothing
// survives a restart.
package memory

import (
	"context"
	"sync"
	"time"

	budgetsdomain "fintrack-go/internal/domain/budgets"
	categoriesdomain "fintrack-go/internal/domain/categories"
	goalsdomain "fintrack-go/internal/domain/goals"
	identitydomain "fintrack-go/internal/domain/identity"
	inboxdomain "fintrack-go/internal/domain/inbox"
	preferencesdomain "fintrack-go/internal/domain/preferences"
	transactionsdomain "fintrack-go/internal/domain/transactions"
	"fintrack-go/internal/repository/inmemory"
)

// Store serializes Transaction callbacks and restores a snapshot when one
// fails, which gives the same all-or-nothing behaviour as the SQL store.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	now  func() time.Time
	data data
}

type data struct {
	categories   map[string]categoriesdomain.Category
	transactions map[string]transactionsdomain.Transaction
	budgets      map[string]budgetsdomain.Budget
	goals        map[string]goalsdomain.Goal
	boosts       []goalsdomain.Boost
	plans        map[string]goalsdomain.SavingsPlan
	preferences  map[string]preferencesdomain.Preferences
	links        map[string]identitydomain.Link
	codes        map[string]identitydomain.ActivationCode
	inbox        map[string]inboxdomain.Record
}

func NewStore() *Store {
	return &Store{
		now: time.Now,
		data: data{
			categories:   make(map[string]categoriesdomain.Category),
			transactions: make(map[string]transactionsdomain.Transaction),
			budgets:      make(map[string]budgetsdomain.Budget),
			goals:        make(map[string]goalsdomain.Goal),
			plans:        make(map[string]goalsdomain.SavingsPlan),
			preferences:  make(map[string]preferencesdomain.Preferences),
			links:        make(map[string]identitydomain.Link),
			codes:        make(map[string]identitydomain.ActivationCode),
			inbox:        make(map[string]inboxdomain.Record),
		},
	}
}

func (s *Store) snapshot() data {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := data{
		categories:   make(map[string]categoriesdomain.Category, len(s.data.categories)),
		transactions: make(map[string]transactionsdomain.Transaction, len(s.data.transactions)),
		budgets:      make(map[string]budgetsdomain.Budget, len(s.data.budgets)),
		goals:        make(map[string]goalsdomain.Goal, len(s.data.goals)),
		boosts:       append([]goalsdomain.Boost(nil), s.data.boosts...),
		plans:        make(map[string]goalsdomain.SavingsPlan, len(s.data.plans)),
		preferences:  make(map[string]preferencesdomain.Preferences, len(s.data.preferences)),
		links:        make(map[string]identitydomain.Link, len(s.data.links)),
		codes:        make(map[string]identitydomain.ActivationCode, len(s.data.codes)),
		inbox:        make(map[string]inboxdomain.Record, len(s.data.inbox)),
	}
	for k, v := range s.data.categories {
		snap.categories[k] = inmemory.CloneCategories([]categoriesdomain.Category{v})[0]
	}
	for k, v := range s.data.transactions {
		snap.transactions[k] = v
	}
	for k, v := range s.data.budgets {
		snap.budgets[k] = v
	}
	for k, v := range s.data.goals {
		snap.goals[k] = v
	}
	for k, v := range s.data.plans {
		snap.plans[k] = v
	}
	for k, v := range s.data.preferences {
		snap.preferences[k] = v
	}
	for k, v := range s.data.links {
		snap.links[k] = v
	}
	for k, v := range s.data.codes {
		snap.codes[k] = v
	}
	for k, v := range s.data.inbox {
		snap.inbox[k] = v
	}
	return snap
}

func (s *Store) restore(snap data) {
	s.mu.Lock()
	s.data = snap
	s.mu.Unlock()
}

func (s *Store) inTransaction(fn func() error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *Store) Categories() categoriesdomain.Repository {
	return &categoryRepo{store: s}
}

func (s *Store) Transactions() transactionsdomain.Repository {
	return &transactionRepo{store: s}
}

func (s *Store) Budgets() budgetsdomain.Repository {
	return &budgetRepo{store: s}
}

func (s *Store) Goals() goalsdomain.Repository {
	return &goalRepo{store: s}
}

func (s *Store) Analytics() *AnalyticsRepository {
	return &AnalyticsRepository{store: s}
}

func (s *Store) Preferences() preferencesdomain.Repository {
	return &preferenceRepo{store: s}
}

func (s *Store) Identity() identitydomain.Repository {
	return &identityRepo{store: s}
}

func (s *Store) Inbox() inboxdomain.Repository {
	return &inboxRepo{store: s}
}

// txRunner is embedded by every repository that supports Transaction. Inside
// a callback the repository runs fn directly so nesting cannot deadlock.
type txRunner struct {
	store *Store
	inTx  bool
}

func (r txRunner) run(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.inTx {
		return fn()
	}
	return r.store.inTransaction(fn)
}
