package categories

import (
	"context"
	"errors"
	"time"

	"fintrack-go/internal/domain/names"

	"github.com/google/uuid"
)

const suggestionLimit = 3

type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
}

func NewService(repo Repository, cache Cache, cacheTTL time.Duration) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{repo: repo, cache: cache, cacheTTL: cacheTTL}
}

func (s *Service) List(ctx context.Context, userID string) ([]Category, error) {
	if cached, ok := s.cache.GetByUserID(userID); ok {
		return cached, nil
	}

	items, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.SetByUserID(userID, items, s.cacheTTL)
	return items, nil
}

// EnsureDefaults seeds the default set the first time a user is seen. Users
// that already own any default category are left untouched.
func (s *Service) EnsureDefaults(ctx context.Context, userID string) error {
	existing, err := s.List(ctx, userID)
	if err != nil {
		return err
	}
	for _, c := range existing {
		if c.IsDefault {
			return nil
		}
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		for _, sd := range defaultSeeds {
			if findByName(existing, sd.name) != nil {
				continue
			}
			category := fromSeed(userID, sd)
			if err := tx.CreateCategory(ctx, &category); err != nil {
				return err
			}
		}
		return nil
	})
	s.cache.DeleteByUserID(userID)
	return err
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Category, error) {
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}
	if isReservedName(name) {
		return nil, ErrNameTaken.Withf("%q is reserved", name)
	}

	kind := input.Kind
	if kind == "" {
		kind = KindExpense
	}
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}

	icon, err := normalizeIcon(input.Icon)
	if err != nil {
		return nil, err
	}
	color, err := normalizeColor(input.Color)
	if err != nil {
		return nil, err
	}

	category := Category{
		ID:     uuid.NewString(),
		UserID: input.UserID,
		Name:   name,
		Kind:   kind,
		Icon:   icon,
		Color:  color,
	}
	if err := s.createUnique(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *Service) Update(ctx context.Context, input UpdateInput) (*Category, error) {
	var updated Category
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		category, err := s.find(ctx, tx, input.UserID, input.Name)
		if err != nil {
			return err
		}

		if input.NewName != "" {
			name, err := validateName(input.NewName)
			if err != nil {
				return err
			}
			if !equalName(name, category.Name) && (isReservedName(category.Name) || isReservedName(name)) {
				return ErrReservedProtected
			}
			count, err := tx.CountCategoriesByName(ctx, input.UserID, name, category.ID)
			if err != nil {
				return err
			}
			if count > 0 {
				return ErrNameTaken
			}
			category.Name = name
		}
		if input.Icon.Set {
			icon, err := normalizeIcon(input.Icon.Value)
			if err != nil {
				return err
			}
			category.Icon = icon
		}
		if input.Color.Set {
			color, err := normalizeColor(input.Color.Value)
			if err != nil {
				return err
			}
			category.Color = color
		}

		if err := tx.UpdateCategory(ctx, category); err != nil {
			return err
		}
		updated = *category
		return nil
	})
	s.cache.DeleteByUserID(input.UserID)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a user category by name. Budgets on it go with it.
func (s *Service) Delete(ctx context.Context, userID, name string) (*Category, error) {
	var deleted Category
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		category, err := s.find(ctx, tx, userID, name)
		if err != nil {
			return err
		}
		if category.IsDefault {
			return ErrDefaultProtected
		}

		inUse, err := tx.CountTransactionsByCategoryID(ctx, userID, category.ID)
		if err != nil {
			return err
		}
		if inUse > 0 {
			return ErrCategoryInUse.Withf("category %q has %d transactions", category.Name, inUse)
		}

		ok, err := tx.DeleteCategory(ctx, userID, category.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCategoryNotFound
		}
		deleted = *category
		return nil
	})
	s.cache.DeleteByUserID(userID)
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

// Find looks a category up by case-insensitive name. Misses carry near-match
// suggestions.
func (s *Service) Find(ctx context.Context, userID, name string) (*Category, error) {
	return s.find(ctx, s.repo, userID, name)
}

func (s *Service) find(ctx context.Context, repo Repository, userID, name string) (*Category, error) {
	category, err := repo.GetCategoryByName(ctx, userID, names.Normalize(name))
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, ErrCategoryNotFound) {
		return nil, err
	}

	all, listErr := repo.ListCategories(ctx, userID)
	if listErr != nil {
		return nil, listErr
	}
	candidates := make([]string, 0, len(all))
	for _, c := range all {
		candidates = append(candidates, c.Name)
	}
	return nil, ErrCategoryNotFound.
		Withf("category %q not found", names.Normalize(name)).
		WithSuggestions(names.Suggest(name, candidates, suggestionLimit)...)
}

func (s *Service) Get(ctx context.Context, userID, categoryID string) (*Category, error) {
	return s.repo.GetCategoryByID(ctx, userID, categoryID)
}

// Reserved returns the reserved category, creating it on first use.
func (s *Service) Reserved(ctx context.Context, userID string, reserved Reserved) (*Category, error) {
	sd, ok := reservedSeeds[reserved]
	if !ok {
		return nil, ErrCategoryNotFound
	}

	category, err := s.repo.GetCategoryByName(ctx, userID, sd.name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, ErrCategoryNotFound) {
		return nil, err
	}

	created := fromSeed(userID, sd)
	if err := s.createUnique(ctx, &created); err != nil {
		if errors.Is(err, ErrNameTaken) {
			return s.repo.GetCategoryByName(ctx, userID, sd.name)
		}
		return nil, err
	}
	return &created, nil
}

type Suggestion struct {
	Name  string
	Icon  *string
	Color *string
	Kind  Kind
}

type ResolveInput struct {
	UserID         string
	Name           string
	Kind           Kind
	AutoCategorize bool
	Suggested      *Suggestion
}

type Resolution struct {
	Category *Category
	Created  bool
	Fallback bool
}

// Resolve picks the category for a new transaction: exact name match, then an
// auto-created suggestion, then the "Other" category of the same kind. A name
// owned by a category of the other kind never matches.
func (s *Service) Resolve(ctx context.Context, input ResolveInput) (Resolution, error) {
	all, err := s.List(ctx, input.UserID)
	if err != nil {
		return Resolution{}, err
	}
	if input.Kind == "" {
		input.Kind = KindExpense
	}
	if !input.Kind.Valid() {
		return Resolution{}, ErrInvalidKind
	}

	if input.Name != "" {
		if c := findByNameAndKind(all, input.Name, input.Kind); c != nil {
			return Resolution{Category: c}, nil
		}
	}

	if sg := input.Suggested; sg != nil && input.AutoCategorize {
		if c := findByNameAndKind(all, sg.Name, input.Kind); c != nil {
			return Resolution{Category: c}, nil
		}
		if c, err := s.createSuggested(ctx, input.UserID, input.Kind, *sg); err == nil {
			return Resolution{Category: c, Created: true}, nil
		} else if !isValidationError(err) {
			return Resolution{}, err
		}
	}

	if c := fallback(all, input.Kind); c != nil {
		return Resolution{Category: c, Fallback: true}, nil
	}
	return Resolution{}, ErrCategoryUnresolved
}

func (s *Service) createSuggested(ctx context.Context, userID string, kind Kind, sg Suggestion) (*Category, error) {
	name, err := validateName(sg.Name)
	if err != nil {
		return nil, err
	}
	if isReservedName(name) {
		return nil, ErrNameTaken
	}
	category := Category{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
		Kind:   kind,
		Icon:   lenientIcon(sg.Icon),
		Color:  lenientColor(sg.Color),
	}
	if err := s.createUnique(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *Service) createUnique(ctx context.Context, category *Category) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		count, err := tx.CountCategoriesByName(ctx, category.UserID, category.Name, "")
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrNameTaken
		}
		return tx.CreateCategory(ctx, category)
	})
	s.cache.DeleteByUserID(category.UserID)
	return err
}

func findByName(items []Category, name string) *Category {
	for i := range items {
		if equalName(items[i].Name, name) {
			c := items[i]
			return &c
		}
	}
	return nil
}

func findByNameAndKind(items []Category, name string, kind Kind) *Category {
	c := findByName(items, name)
	if c == nil || c.Kind != kind {
		return nil
	}
	return c
}

func fallback(items []Category, kind Kind) *Category {
	if kind == KindIncome {
		return findByNameAndKind(items, OtherIncomeName, KindIncome)
	}
	return findByNameAndKind(items, OtherExpenseName, KindExpense)
}

func fromSeed(userID string, sd seed) Category {
	icon, color := sd.icon, sd.color
	return Category{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      sd.name,
		Kind:      sd.kind,
		Icon:      &icon,
		Color:     &color,
		IsDefault: true,
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, ErrNameTaken) || errors.Is(err, ErrNameRequired) || errors.Is(err, ErrNameTooLong)
}
