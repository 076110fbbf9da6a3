package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"fintrack-go/internal/app"
	"fintrack-go/internal/config"
	"fintrack-go/internal/domain/transactions"
	"fintrack-go/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatLinksAndRecords(t *testing.T) {
	ctx := context.Background()
	application, err := app.New(ctx, config.Config{
		Store:         config.StoreMemory,
		Understanding: config.UnderstandingConfig{Provider: "local"},
		Cache:         config.CacheConfig{Backend: config.CacheMemory, CategoriesTTL: time.Minute},
		Identity:      config.IdentityConfig{CodeTTL: time.Minute, CacheTTL: time.Minute},
		Defaults:      config.DefaultsConfig{Currency: "IDR", Language: "en", Timezone: "UTC", AutoCategorize: true},
	}, logger.Nop())
	require.NoError(t, err)
	defer application.Close()

	require.NoError(t, ensureLinked(ctx, application, "cli:test", ""))
	userID, linked, err := application.Services().Identity.ResolveUser(ctx, "cli:test")
	require.NoError(t, err)
	require.True(t, linked)

	require.NoError(t, ensureLinked(ctx, application, "cli:test", ""))
	again, _, err := application.Services().Identity.ResolveUser(ctx, "cli:test")
	require.NoError(t, err)
	assert.Equal(t, userID, again)

	var out bytes.Buffer
	in := strings.NewReader("coffee 25000\n\n/quit\nbus 5000\n")
	require.NoError(t, repl(ctx, application.Assistant(), "cli:test", in, &out))

	_, total, err := application.Services().Transactions.List(ctx, userID, transactions.ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.NotEmpty(t, strings.TrimPrefix(out.String(), "> "))
}
