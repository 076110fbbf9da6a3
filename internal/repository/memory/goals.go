package memory

import (
	"context"
	"sort"

	goalsdomain "fintrack-go/internal/domain/goals"
	transactionsdomain "fintrack-go/internal/domain/transactions"
)

type goalRepo struct {
	store *Store
	inTx  bool
}

func (r *goalRepo) Transaction(ctx context.Context, fn func(goalsdomain.Repository) error) error {
	tx := &goalRepo{store: r.store, inTx: true}
	return txRunner{store: r.store, inTx: r.inTx}.run(ctx, func() error { return fn(tx) })
}

func (r *goalRepo) ListGoals(ctx context.Context, userID string) ([]goalsdomain.Goal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var items []goalsdomain.Goal
	for _, g := range r.store.data.goals {
		if g.UserID == userID {
			items = append(items, g)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (r *goalRepo) GetGoalForUpdate(ctx context.Context, userID, goalID string) (*goalsdomain.Goal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	g, ok := r.store.data.goals[goalID]
	if !ok || g.UserID != userID {
		return nil, goalsdomain.ErrGoalNotFound
	}
	return &g, nil
}

func (r *goalRepo) CreateGoal(ctx context.Context, goal *goalsdomain.Goal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	goal.CreatedAt = now
	goal.UpdatedAt = now
	r.store.data.goals[goal.ID] = *goal
	return nil
}

func (r *goalRepo) UpdateGoal(ctx context.Context, goal *goalsdomain.Goal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.data.goals[goal.ID]
	if !ok || existing.UserID != goal.UserID {
		return goalsdomain.ErrGoalNotFound
	}
	goal.UpdatedAt = r.store.now()
	r.store.data.goals[goal.ID] = *goal
	return nil
}

func (r *goalRepo) DeleteGoal(ctx context.Context, userID, goalID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	g, ok := r.store.data.goals[goalID]
	if !ok || g.UserID != userID {
		return false, nil
	}
	delete(r.store.data.goals, goalID)
	for id, p := range r.store.data.plans {
		if p.GoalID == goalID {
			delete(r.store.data.plans, id)
		}
	}
	kept := r.store.data.boosts[:0]
	for _, b := range r.store.data.boosts {
		if b.GoalID != goalID {
			kept = append(kept, b)
		}
	}
	r.store.data.boosts = kept
	return true, nil
}

func (r *goalRepo) CreateBoost(ctx context.Context, boost *goalsdomain.Boost) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	boost.CreatedAt = r.store.now()
	r.store.data.boosts = append(r.store.data.boosts, *boost)
	return nil
}

func (r *goalRepo) CreateTransaction(ctx context.Context, transaction *transactionsdomain.Transaction) error {
	r.store.insertTransaction(transaction)
	return nil
}

func (r *goalRepo) GetActivePlan(ctx context.Context, userID, goalID string) (*goalsdomain.SavingsPlan, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, p := range r.store.data.plans {
		if p.UserID == userID && p.GoalID == goalID && p.IsActive {
			found := p
			return &found, nil
		}
	}
	return nil, goalsdomain.ErrPlanNotFound
}

func (r *goalRepo) DeactivatePlans(ctx context.Context, userID, goalID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, p := range r.store.data.plans {
		if p.UserID == userID && p.GoalID == goalID && p.IsActive {
			p.IsActive = false
			p.UpdatedAt = r.store.now()
			r.store.data.plans[id] = p
		}
	}
	return nil
}

func (r *goalRepo) CreatePlan(ctx context.Context, plan *goalsdomain.SavingsPlan) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	r.store.data.plans[plan.ID] = *plan
	return nil
}

// Boosts returns the contribution history of a goal, oldest first.
func (s *Store) Boosts(goalID string) []goalsdomain.Boost {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []goalsdomain.Boost
	for _, b := range s.data.boosts {
		if b.GoalID == goalID {
			out = append(out, b)
		}
	}
	return out
}
