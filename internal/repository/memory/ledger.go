package memory

import (
	"context"
	"sort"

	budgetsdomain "fintrack-go/internal/domain/budgets"
	categoriesdomain "fintrack-go/internal/domain/categories"
	"fintrack-go/internal/domain/names"
	transactionsdomain "fintrack-go/internal/domain/transactions"
	"fintrack-go/internal/repository/inmemory"

	"github.com/shopspring/decimal"
)

type categoryRepo struct {
	store *Store
	inTx  bool
}

func (r *categoryRepo) Transaction(ctx context.Context, fn func(categoriesdomain.Repository) error) error {
	tx := &categoryRepo{store: r.store, inTx: true}
	return txRunner{store: r.store, inTx: r.inTx}.run(ctx, func() error { return fn(tx) })
}

func (r *categoryRepo) ListCategories(ctx context.Context, userID string) ([]categoriesdomain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var items []categoriesdomain.Category
	for _, c := range r.store.data.categories {
		if c.UserID == userID {
			items = append(items, c)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Kind != items[j].Kind {
			return items[i].Kind < items[j].Kind
		}
		return names.Key(items[i].Name) < names.Key(items[j].Name)
	})
	return inmemory.CloneCategories(items), nil
}

func (r *categoryRepo) GetCategoryByID(ctx context.Context, userID, categoryID string) (*categoriesdomain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.data.categories[categoryID]
	if !ok || c.UserID != userID {
		return nil, categoriesdomain.ErrCategoryNotFound
	}
	clone := inmemory.CloneCategories([]categoriesdomain.Category{c})[0]
	return &clone, nil
}

func (r *categoryRepo) GetCategoryByName(ctx context.Context, userID, name string) (*categoriesdomain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, c := range r.store.data.categories {
		if c.UserID == userID && names.Equal(c.Name, name) {
			clone := inmemory.CloneCategories([]categoriesdomain.Category{c})[0]
			return &clone, nil
		}
	}
	return nil, categoriesdomain.ErrCategoryNotFound
}

func (r *categoryRepo) CreateCategory(ctx context.Context, category *categoriesdomain.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	category.CreatedAt = now
	category.UpdatedAt = now
	r.store.data.categories[category.ID] = inmemory.CloneCategories([]categoriesdomain.Category{*category})[0]
	return nil
}

func (r *categoryRepo) UpdateCategory(ctx context.Context, category *categoriesdomain.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.data.categories[category.ID]
	if !ok || existing.UserID != category.UserID {
		return categoriesdomain.ErrCategoryNotFound
	}
	category.UpdatedAt = r.store.now()
	r.store.data.categories[category.ID] = inmemory.CloneCategories([]categoriesdomain.Category{*category})[0]
	return nil
}

func (r *categoryRepo) CountCategoriesByName(ctx context.Context, userID, name, excludeID string) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, c := range r.store.data.categories {
		if c.UserID == userID && c.ID != excludeID && names.Equal(c.Name, name) {
			count++
		}
	}
	return count, nil
}

func (r *categoryRepo) DeleteCategory(ctx context.Context, userID, categoryID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.data.categories[categoryID]
	if !ok || c.UserID != userID {
		return false, nil
	}
	delete(r.store.data.categories, categoryID)
	for id, b := range r.store.data.budgets {
		if b.CategoryID == categoryID {
			delete(r.store.data.budgets, id)
		}
	}
	return true, nil
}

func (r *categoryRepo) CountTransactionsByCategoryID(ctx context.Context, userID, categoryID string) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, t := range r.store.data.transactions {
		if t.UserID == userID && t.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

type transactionRepo struct {
	store *Store
}

func (s *Store) insertTransaction(transaction *transactionsdomain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	transaction.CreatedAt = now
	transaction.UpdatedAt = now
	s.data.transactions[transaction.ID] = *transaction
}

func (r *transactionRepo) CreateTransaction(ctx context.Context, transaction *transactionsdomain.Transaction) error {
	r.store.insertTransaction(transaction)
	return nil
}

func (s *Store) matchingTransactions(userID string, filter transactionsdomain.ListFilter) []transactionsdomain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []transactionsdomain.Transaction
	for _, t := range s.data.transactions {
		if t.UserID != userID {
			continue
		}
		if filter.From != nil && t.OccurredAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !t.OccurredAt.Before(*filter.To) {
			continue
		}
		if filter.CategoryID != "" && t.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Kind != "" && t.Kind != filter.Kind {
			continue
		}
		items = append(items, t)
	}
	return items
}

func (r *transactionRepo) ListTransactions(ctx context.Context, userID string, filter transactionsdomain.ListFilter) ([]transactionsdomain.Transaction, int64, error) {
	items := r.store.matchingTransactions(userID, filter)
	sort.Slice(items, func(i, j int) bool {
		if !items[i].OccurredAt.Equal(items[j].OccurredAt) {
			return items[i].OccurredAt.After(items[j].OccurredAt)
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	total := int64(len(items))
	if filter.Offset > 0 {
		if filter.Offset >= len(items) {
			return []transactionsdomain.Transaction{}, total, nil
		}
		items = items[filter.Offset:]
	}
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, total, nil
}

func (r *transactionRepo) SumTransactions(ctx context.Context, userID string, filter transactionsdomain.ListFilter) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range r.store.matchingTransactions(userID, filter) {
		sum = sum.Add(t.Amount)
	}
	return sum, nil
}

type budgetRepo struct {
	store *Store
	inTx  bool
}

func (r *budgetRepo) Transaction(ctx context.Context, fn func(budgetsdomain.Repository) error) error {
	tx := &budgetRepo{store: r.store, inTx: true}
	return txRunner{store: r.store, inTx: r.inTx}.run(ctx, func() error { return fn(tx) })
}

func (r *budgetRepo) ListBudgets(ctx context.Context, userID string) ([]budgetsdomain.Budget, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var items []budgetsdomain.Budget
	for _, b := range r.store.data.budgets {
		if b.UserID == userID {
			items = append(items, b)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (r *budgetRepo) GetBudgetByCategoryID(ctx context.Context, userID, categoryID string) (*budgetsdomain.Budget, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, b := range r.store.data.budgets {
		if b.UserID == userID && b.CategoryID == categoryID {
			found := b
			return &found, nil
		}
	}
	return nil, budgetsdomain.ErrBudgetNotFound
}

func (r *budgetRepo) CreateBudget(ctx context.Context, budget *budgetsdomain.Budget) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	budget.CreatedAt = now
	budget.UpdatedAt = now
	r.store.data.budgets[budget.ID] = *budget
	return nil
}

func (r *budgetRepo) UpdateBudget(ctx context.Context, budget *budgetsdomain.Budget) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.data.budgets[budget.ID]; !ok {
		return budgetsdomain.ErrBudgetNotFound
	}
	budget.UpdatedAt = r.store.now()
	r.store.data.budgets[budget.ID] = *budget
	return nil
}

func (r *budgetRepo) DeleteBudget(ctx context.Context, userID, budgetID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.data.budgets[budgetID]
	if !ok || b.UserID != userID {
		return false, nil
	}
	delete(r.store.data.budgets, budgetID)
	return true, nil
}
