package inmemory

import (
	"testing"
	"time"

	categoriesdomain "fintrack-go/internal/domain/categories"
	identitydomain "fintrack-go/internal/domain/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoriesCacheClonesAndExpires(t *testing.T) {
	cache := NewInMemoryCategoriesCache()
	icon := "☕"
	cache.SetByUserID("u1", []categoriesdomain.Category{{ID: "c1", Name: "Kopi", Icon: &icon}}, time.Minute)

	got, ok := cache.GetByUserID("u1")
	require.True(t, ok)
	require.Len(t, got, 1)
	*got[0].Icon = "🍵"

	again, ok := cache.GetByUserID("u1")
	require.True(t, ok)
	assert.Equal(t, "☕", *again[0].Icon)

	cache.DeleteByUserID("u1")
	_, ok = cache.GetByUserID("u1")
	assert.False(t, ok)

	cache.SetByUserID("u2", []categoriesdomain.Category{{ID: "c2"}}, time.Nanosecond)
	time.Sleep(time.Millisecond)
	_, ok = cache.GetByUserID("u2")
	assert.False(t, ok)
}

func TestLinkCache(t *testing.T) {
	cache := NewInMemoryLinkCache()
	cache.SetByChannel("wa:62811", &identitydomain.Link{ChannelIdentity: "wa:62811", UserID: "u1"}, time.Minute)

	link, ok := cache.GetByChannel("wa:62811")
	require.True(t, ok)
	assert.Equal(t, "u1", link.UserID)

	cache.SetByChannel("wa:62811", nil, time.Minute)
	_, ok = cache.GetByChannel("wa:62811")
	assert.False(t, ok)

	cache.SetByChannel("wa:62822", &identitydomain.Link{UserID: "u2"}, time.Minute)
	cache.Clear()
	_, ok = cache.GetByChannel("wa:62822")
	assert.False(t, ok)
}
