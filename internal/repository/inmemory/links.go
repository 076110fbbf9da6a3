package inmemory

import (
	"sync"
	"time"

	identitydomain "fintrack-go/internal/domain/identity"
)

type InMemoryLinkCache struct {
	mu    sync.RWMutex
	items map[string]linkItem
}

type linkItem struct {
	value     identitydomain.Link
	expiresAt time.Time
}

func NewInMemoryLinkCache() *InMemoryLinkCache {
	return &InMemoryLinkCache{
		items: make(map[string]linkItem),
	}
}

func (c *InMemoryLinkCache) GetByChannel(channelIdentity string) (*identitydomain.Link, bool) {
	now := time.Now()

	c.mu.RLock()
	item, ok := c.items[channelIdentity]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[channelIdentity]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, channelIdentity)
		}
		c.mu.Unlock()
		return nil, false
	}

	value := item.value
	return &value, true
}

func (c *InMemoryLinkCache) SetByChannel(channelIdentity string, link *identitydomain.Link, ttl time.Duration) {
	if link == nil || ttl <= 0 {
		c.DeleteByChannel(channelIdentity)
		return
	}

	c.mu.Lock()
	c.items[channelIdentity] = linkItem{
		value:     *link,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *InMemoryLinkCache) DeleteByChannel(channelIdentity string) {
	c.mu.Lock()
	delete(c.items, channelIdentity)
	c.mu.Unlock()
}

func (c *InMemoryLinkCache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]linkItem)
	c.mu.Unlock()
}
