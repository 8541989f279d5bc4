package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hati-ai/hati-agent/internal/domain"
)

func TestProfileStoreGetMissing(t *testing.T) {
	store := NewProfileStore()

	_, err := store.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestProfileStoreRoundTripCopies(t *testing.T) {
	store := NewProfileStore()
	ctx := context.Background()

	p := domain.NewSessionProfile("user-1", time.Now())
	p.PreferredGenres = []string{"indie"}
	require.NoError(t, store.Update(ctx, p))

	// Mutating the caller's copy must not leak into the store.
	p.PreferredGenres[0] = "metal"

	got, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"indie"}, got.PreferredGenres)

	// And mutating what Get returned must not either.
	got.PreferredGenres[0] = "metal"
	again, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"indie"}, again.PreferredGenres)
}

func TestConversationStoreHistoryLimit(t *testing.T) {
	store := NewConversationStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.SaveTurn(ctx, &domain.ConversationTurn{
			SessionID:   "sess-1",
			UserID:      "user-1",
			UserMessage: fmt.Sprintf("pesan %d", i),
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	turns, err := store.History(ctx, "sess-1", 3)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, "pesan 2", turns[0].UserMessage)
	assert.Equal(t, "pesan 4", turns[2].UserMessage, "newest turn comes last")

	empty, err := store.History(ctx, "no-session", 3)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCacheExpiry(t *testing.T) {
	cache := NewCache()
	ctx := context.Background()

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.SetNow(func() time.Time { return clock })

	cache.Set(ctx, "k", []byte("v"), time.Hour)

	got, ok := cache.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	clock = clock.Add(2 * time.Hour)
	_, ok = cache.Get(ctx, "k")
	assert.False(t, ok, "entries expire after their ttl")

	assert.Equal(t, 1, cache.PurgeExpired(ctx))
	assert.Equal(t, 0, cache.PurgeExpired(ctx))
}
