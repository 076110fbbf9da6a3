package inmemory

import (
	"sync"
	"time"

	categoriesdomain "fintrack-go/internal/domain/categories"
)

type InMemoryCategoriesCache struct {
	mu    sync.RWMutex
	items map[string]categoriesItem
}

type categoriesItem struct {
	value     []categoriesdomain.Category
	expiresAt time.Time
}

func NewInMemoryCategoriesCache() *InMemoryCategoriesCache {
	return &InMemoryCategoriesCache{
		items: make(map[string]categoriesItem),
	}
}

func (c *InMemoryCategoriesCache) GetByUserID(userID string) ([]categoriesdomain.Category, bool) {
	now := time.Now()

	c.mu.RLock()
	item, ok := c.items[userID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[userID]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, userID)
		}
		c.mu.Unlock()
		return nil, false
	}

	return CloneCategories(item.value), true
}

func (c *InMemoryCategoriesCache) SetByUserID(userID string, categories []categoriesdomain.Category, ttl time.Duration) {
	if ttl <= 0 {
		c.DeleteByUserID(userID)
		return
	}

	c.mu.Lock()
	c.items[userID] = categoriesItem{
		value:     CloneCategories(categories),
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *InMemoryCategoriesCache) DeleteByUserID(userID string) {
	c.mu.Lock()
	delete(c.items, userID)
	c.mu.Unlock()
}

// CloneCategories copies the optional icon and color so callers never share
// pointers with the cache.
func CloneCategories(categories []categoriesdomain.Category) []categoriesdomain.Category {
	if categories == nil {
		return nil
	}
	cloned := make([]categoriesdomain.Category, len(categories))
	for i := range categories {
		cloned[i] = categories[i]
		if categories[i].Color != nil {
			color := *categories[i].Color
			cloned[i].Color = &color
		}
		if categories[i].Icon != nil {
			icon := *categories[i].Icon
			cloned[i].Icon = &icon
		}
	}
	return cloned
}
