package categories

import (
	"context"
	"sort"
	"testing"
	"time"

	"fintrack-go/internal/domain/apperror"
	"fintrack-go/internal/domain/names"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "11111111-1111-1111-1111-111111111111"

type fakeRepo struct {
	categories   map[string]*Category
	transactions map[string]int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		categories:   make(map[string]*Category),
		transactions: make(map[string]int64),
	}
}

func (r *fakeRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) ListCategories(ctx context.Context, userID string) ([]Category, error) {
	items := make([]Category, 0)
	for _, c := range r.categories {
		if c.UserID == userID {
			items = append(items, *c)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (r *fakeRepo) GetCategoryByID(ctx context.Context, userID, categoryID string) (*Category, error) {
	c, ok := r.categories[categoryID]
	if !ok || c.UserID != userID {
		return nil, ErrCategoryNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeRepo) GetCategoryByName(ctx context.Context, userID, name string) (*Category, error) {
	for _, c := range r.categories {
		if c.UserID == userID && names.Equal(c.Name, name) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, ErrCategoryNotFound
}

func (r *fakeRepo) CreateCategory(ctx context.Context, category *Category) error {
	copied := *category
	r.categories[category.ID] = &copied
	return nil
}

func (r *fakeRepo) UpdateCategory(ctx context.Context, category *Category) error {
	copied := *category
	r.categories[category.ID] = &copied
	return nil
}

func (r *fakeRepo) CountCategoriesByName(ctx context.Context, userID, name, excludeID string) (int64, error) {
	var count int64
	for _, c := range r.categories {
		if c.UserID == userID && c.ID != excludeID && names.Equal(c.Name, name) {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) DeleteCategory(ctx context.Context, userID, categoryID string) (bool, error) {
	c, ok := r.categories[categoryID]
	if !ok || c.UserID != userID {
		return false, nil
	}
	delete(r.categories, categoryID)
	return true, nil
}

func (r *fakeRepo) CountTransactionsByCategoryID(ctx context.Context, userID, categoryID string) (int64, error) {
	return r.transactions[categoryID], nil
}

type countingCache struct {
	items   map[string][]Category
	deletes int
}

func (c *countingCache) GetByUserID(userID string) ([]Category, bool) {
	items, ok := c.items[userID]
	return items, ok
}

func (c *countingCache) SetByUserID(userID string, categories []Category, ttl time.Duration) {
	c.items[userID] = categories
}

func (c *countingCache) DeleteByUserID(userID string) {
	c.deletes++
	delete(c.items, userID)
}

func strPtr(v string) *string { return &v }

func TestEnsureDefaultsIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, 0)
	ctx := context.Background()

	require.NoError(t, svc.EnsureDefaults(ctx, testUserID))
	require.NoError(t, svc.EnsureDefaults(ctx, testUserID))

	items, err := svc.List(ctx, testUserID)
	require.NoError(t, err)
	assert.Len(t, items, len(defaultSeeds))
	for _, c := range items {
		assert.True(t, c.IsDefault, c.Name)
	}
}

func TestCreateRejectsDuplicateNameCaseInsensitive(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, 0)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{UserID: testUserID, Name: "Kopi", Kind: KindExpense})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{UserID: testUserID, Name: "  kopi ", Kind: KindExpense})
	require.ErrorIs(t, err, ErrNameTaken)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestCreateValidatesIconColorAndReservedNames(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, 0)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{UserID: testUserID, Name: "Pets", Color: strPtr("red")})
	require.ErrorIs(t, err, ErrInvalidColor)

	_, err = svc.Create(ctx, CreateInput{UserID: testUserID, Name: "Pets", Icon: strPtr("dog")})
	require.ErrorIs(t, err, ErrInvalidIcon)

	_, err = svc.Create(ctx, CreateInput{UserID: testUserID, Name: "savings"})
	require.ErrorIs(t, err, ErrNameTaken)

	created, err := svc.Create(ctx, CreateInput{UserID: testUserID, Name: "Pets", Icon: strPtr("🐶"), Color: strPtr("#AABBCC")})
	require.NoError(t, err)
	assert.Equal(t, KindExpense, created.Kind)
	assert.Equal(t, "#aabbcc", *created.Color)
}

func TestDeleteProtections(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, 0)
	ctx := context.Background()
	require.NoError(t, svc.EnsureDefaults(ctx, testUserID))

	_, err := svc.Delete(ctx, testUserID, "food & drink")
	require.ErrorIs(t, err, ErrDefaultProtected)

	pets, err := svc.Create(ctx, CreateInput{UserID: testUserID, Name: "Pets"})
	require.NoError(t, err)
	repo.transactions[pets.ID] = 2

	_, err = svc.Delete(ctx, testUserID, "Pets")
	require.ErrorIs(t, err, ErrCategoryInUse)

	repo.transactions[pets.ID] = 0
	deleted, err := svc.Delete(ctx, testUserID, "pets")
	require.NoError(t, err)
	assert.Equal(t, pets.ID, deleted.ID)
}

func TestFindSuggestsNearMatches(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, 0)
	ctx := context.Background()
	require.NoError(t, svc.EnsureDefaults(ctx, testUserID))

	_, err := svc.Find(ctx, testUserID, "Shoping")
	require.ErrorIs(t, err, ErrCategoryNotFound)
	assert.Contains(t, apperror.SuggestionsOf(err), "Shopping")
}

func TestUpdateRenamesAndBlocksReserved(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, 0)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{UserID: testUserID, Name: "Kopi"})
	require.NoError(t, err)
	_, err = svc.Reserved(ctx, testUserID, ReservedSavings)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, UpdateInput{UserID: testUserID, Name: "kopi", NewName: "Coffee", Icon: OptionalNullableString{Set: true, Value: strPtr("☕")}})
	require.NoError(t, err)
	assert.Equal(t, "Coffee", updated.Name)
	assert.Equal(t, "☕", *updated.Icon)

	_, err = svc.Update(ctx, UpdateInput{UserID: testUserID, Name: "Savings", NewName: "Stash"})
	require.ErrorIs(t, err, ErrReservedProtected)

	_, err = svc.Update(ctx, UpdateInput{UserID: testUserID, Name: "Coffee", NewName: "Savings"})
	require.ErrorIs(t, err, ErrReservedProtected)
}

func TestReservedCreatedOnce(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, 0)
	ctx := context.Background()

	first, err := svc.Reserved(ctx, testUserID, ReservedGoalRefund)
	require.NoError(t, err)
	second, err := svc.Reserved(ctx, testUserID, ReservedGoalRefund)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, KindIncome, first.Kind)
	assert.True(t, first.IsDefault)
	assert.Len(t, repo.categories, 1)
}

func TestResolveOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("exact match wins", func(t *testing.T) {
		svc := NewService(newFakeRepo(), nil, 0)
		require.NoError(t, svc.EnsureDefaults(ctx, testUserID))

		res, err := svc.Resolve(ctx, ResolveInput{
			UserID: testUserID, Name: "SHOPPING", Kind: KindExpense, AutoCategorize: true,
			Suggested: &Suggestion{Name: "Clothes"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Shopping", res.Category.Name)
		assert.False(t, res.Created)
	})

	t.Run("suggestion created when auto-categorize on", func(t *testing.T) {
		svc := NewService(newFakeRepo(), nil, 0)
		require.NoError(t, svc.EnsureDefaults(ctx, testUserID))

		res, err := svc.Resolve(ctx, ResolveInput{
			UserID: testUserID, Name: "Kopi", Kind: KindExpense, AutoCategorize: true,
			Suggested: &Suggestion{Name: "Kopi", Icon: strPtr("☕"), Color: strPtr("not-a-color")},
		})
		require.NoError(t, err)
		assert.True(t, res.Created)
		assert.Equal(t, "Kopi", res.Category.Name)
		assert.Equal(t, "☕", *res.Category.Icon)
		assert.Nil(t, res.Category.Color)
	})

	t.Run("fallback to other when auto-categorize off", func(t *testing.T) {
		svc := NewService(newFakeRepo(), nil, 0)
		require.NoError(t, svc.EnsureDefaults(ctx, testUserID))

		res, err := svc.Resolve(ctx, ResolveInput{
			UserID: testUserID, Name: "Kopi", Kind: KindIncome,
			Suggested: &Suggestion{Name: "Kopi"},
		})
		require.NoError(t, err)
		assert.True(t, res.Fallback)
		assert.Equal(t, OtherIncomeName, res.Category.Name)
	})

	t.Run("name of the other kind is skipped", func(t *testing.T) {
		svc := NewService(newFakeRepo(), nil, 0)
		require.NoError(t, svc.EnsureDefaults(ctx, testUserID))

		res, err := svc.Resolve(ctx, ResolveInput{
			UserID: testUserID, Name: "Shopping", Kind: KindIncome, AutoCategorize: true,
			Suggested: &Suggestion{Name: "Shopping", Kind: KindExpense},
		})
		require.NoError(t, err)
		assert.True(t, res.Fallback)
		assert.Equal(t, OtherIncomeName, res.Category.Name)
		assert.Equal(t, KindIncome, res.Category.Kind)
	})

	t.Run("suggestion takes the transaction kind", func(t *testing.T) {
		svc := NewService(newFakeRepo(), nil, 0)
		require.NoError(t, svc.EnsureDefaults(ctx, testUserID))

		res, err := svc.Resolve(ctx, ResolveInput{
			UserID: testUserID, Kind: KindIncome, AutoCategorize: true,
			Suggested: &Suggestion{Name: "Freelance", Kind: KindExpense},
		})
		require.NoError(t, err)
		assert.True(t, res.Created)
		assert.Equal(t, KindIncome, res.Category.Kind)
	})

	t.Run("income without an income fallback is unresolved", func(t *testing.T) {
		repo := newFakeRepo()
		require.NoError(t, repo.CreateCategory(ctx, &Category{ID: "c-other", UserID: testUserID, Name: OtherExpenseName, Kind: KindExpense}))
		svc := NewService(repo, nil, 0)

		_, err := svc.Resolve(ctx, ResolveInput{UserID: testUserID, Name: "Bonus", Kind: KindIncome})
		require.ErrorIs(t, err, ErrCategoryUnresolved)
	})

	t.Run("unresolved without fallback", func(t *testing.T) {
		svc := NewService(newFakeRepo(), nil, 0)

		_, err := svc.Resolve(ctx, ResolveInput{UserID: testUserID, Name: "Kopi", Kind: KindExpense})
		require.ErrorIs(t, err, ErrCategoryUnresolved)
		assert.Equal(t, apperror.KindCategoryUnresolved, apperror.KindOf(err))
	})
}

func TestMutationsInvalidateCache(t *testing.T) {
	cache := &countingCache{items: make(map[string][]Category)}
	svc := NewService(newFakeRepo(), cache, time.Minute)
	ctx := context.Background()

	_, err := svc.List(ctx, testUserID)
	require.NoError(t, err)
	_, ok := cache.GetByUserID(testUserID)
	require.True(t, ok)

	_, err = svc.Create(ctx, CreateInput{UserID: testUserID, Name: "Pets"})
	require.NoError(t, err)
	_, ok = cache.GetByUserID(testUserID)
	assert.False(t, ok)

	items, err := svc.List(ctx, testUserID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
