package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hati-ai/hati-agent/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "hati.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestProfileRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p := domain.NewSessionProfile("user-1", now)
	p.DisplayName = "Rani"
	p.PreferredGenres = []string{"indie", "ambient"}
	p.Preferences["language"] = "id"
	p.RecordTurn(domain.TurnOutcome{Mood: "sedih", AgentUsed: domain.AgentReflection, At: now})

	require.NoError(t, store.Update(ctx, p))

	got, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Rani", got.DisplayName)
	assert.Equal(t, []string{"indie", "ambient"}, got.PreferredGenres)
	assert.Equal(t, "id", got.Preferences["language"])
	require.Len(t, got.MoodHistory, 1)
	assert.Equal(t, domain.Mood("sedih"), got.MoodHistory[0].Mood)

	// Upsert replaces the row.
	got.DisplayName = "Rani S."
	require.NoError(t, store.Update(ctx, got))
	again, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Rani S.", again.DisplayName)
}

func TestConversationHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		require.NoError(t, store.SaveTurn(ctx, &domain.ConversationTurn{
			SessionID:    "sess-1",
			UserID:       "user-1",
			UserMessage:  fmt.Sprintf("pesan %d", i),
			BotResponse:  "balasan",
			MoodDetected: "sedih",
			AgentUsed:    domain.AgentReflection,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}))
	}

	turns, err := store.History(ctx, "sess-1", 2)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "pesan 2", turns[0].UserMessage)
	assert.Equal(t, "pesan 3", turns[1].UserMessage, "newest turn comes last")
}

func TestCacheExpiry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }
	cache := store.Cache()

	cache.Set(ctx, "k", []byte(`{"cached":true}`), time.Hour)

	got, ok := cache.Get(ctx, "k")
	require.True(t, ok)
	assert.JSONEq(t, `{"cached":true}`, string(got))

	clock = clock.Add(2 * time.Hour)
	_, ok = cache.Get(ctx, "k")
	assert.False(t, ok)

	assert.Equal(t, 1, cache.PurgeExpired(ctx))
	assert.Equal(t, 0, cache.PurgeExpired(ctx))
}
