package specialists

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hati-ai/hati-agent/internal/adapters/storage/memory"
	"github.com/hati-ai/hati-agent/internal/domain"
)

type fakeCatalog struct {
	tracks []domain.Track
	err    error
	calls  int
}

func (f *fakeCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]domain.Track, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.tracks, nil
}

func makeTracks(n, popularity int) []domain.Track {
	out := make([]domain.Track, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Track{
			ID:         fmt.Sprintf("track-%d", i),
			Title:      fmt.Sprintf("Song %d", i),
			Artist:     "Artist",
			Popularity: popularity,
		})
	}
	return out
}

func TestMusicAgentCapsRecommendations(t *testing.T) {
	catalog := &fakeCatalog{tracks: makeTracks(20, 80)}
	agent := NewMusicAgent(catalog, nil, 0)

	payload, err := agent.Process(context.Background(), "rekomendasikan musik", domain.Parameters{Mood: "tenang"})
	require.NoError(t, err)

	music, ok := payload.(*domain.MusicPayload)
	require.True(t, ok)
	assert.LessOrEqual(t, len(music.Recommendations), 5)
	assert.Equal(t, len(music.Recommendations), music.TotalFound)
}

func TestMusicAgentDedupesTracks(t *testing.T) {
	dup := domain.Track{ID: "same", Title: "Same Song", Popularity: 50}
	catalog := &fakeCatalog{tracks: []domain.Track{dup, dup, dup}}
	agent := NewMusicAgent(catalog, nil, 0)

	payload, err := agent.Process(context.Background(), "musik dong", domain.Parameters{Mood: "sedih"})
	require.NoError(t, err)

	music := payload.(*domain.MusicPayload)
	assert.Len(t, music.Recommendations, 1)
}

func TestMusicAgentFiltersLowPopularity(t *testing.T) {
	catalog := &fakeCatalog{tracks: makeTracks(10, 5)}
	agent := NewMusicAgent(catalog, nil, 0)

	payload, err := agent.Process(context.Background(), "musik", domain.Parameters{Mood: "senang"})
	require.NoError(t, err)

	music := payload.(*domain.MusicPayload)
	assert.Empty(t, music.Recommendations)
}

func TestMusicAgentPrefersProfileGenre(t *testing.T) {
	catalog := &fakeCatalog{tracks: makeTracks(6, 70)}
	agent := NewMusicAgent(catalog, nil, 0)

	profile := domain.NewSessionProfile("user-1", time.Now())
	profile.PreferredGenres = []string{"jazz"}

	payload, err := agent.Process(context.Background(), "musik", domain.Parameters{
		Mood:    "sedih",
		Profile: profile,
	})
	require.NoError(t, err)

	music := payload.(*domain.MusicPayload)
	assert.Equal(t, "jazz", music.Genre)
	assert.True(t, music.Personalized)
}

func TestMusicAgentMoodGenreFallback(t *testing.T) {
	catalog := &fakeCatalog{tracks: makeTracks(6, 70)}
	agent := NewMusicAgent(catalog, nil, 0)

	payload, err := agent.Process(context.Background(), "musik", domain.Parameters{Mood: "sedih"})
	require.NoError(t, err)

	music := payload.(*domain.MusicPayload)
	assert.Equal(t, "indie", music.Genre)
	assert.False(t, music.Personalized)
}

func TestMusicAgentAllSearchesFail(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("spotify down")}
	agent := NewMusicAgent(catalog, nil, 0)

	_, err := agent.Process(context.Background(), "musik", domain.Parameters{Mood: "tenang"})
	require.Error(t, err)

	var provErr *domain.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "spotify", provErr.Provider)
}

func TestMusicAgentDoesNotRewrapProviderError(t *testing.T) {
	catalog := &fakeCatalog{err: &domain.ProviderError{
		Provider: "spotify",
		Err:      errors.New("rate limited"),
	}}
	agent := NewMusicAgent(catalog, nil, 0)

	_, err := agent.Process(context.Background(), "musik", domain.Parameters{Mood: "tenang"})
	require.Error(t, err)

	var provErr *domain.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "spotify", provErr.Provider)
	assert.Equal(t, 1, strings.Count(err.Error(), "provider spotify"))
}

func TestMusicAgentUsesCache(t *testing.T) {
	catalog := &fakeCatalog{tracks: makeTracks(6, 70)}
	cache := memory.NewCache()
	agent := NewMusicAgent(catalog, cache, time.Hour)

	params := domain.Parameters{Mood: "tenang"}
	_, err := agent.Process(context.Background(), "musik", params)
	require.NoError(t, err)
	firstCalls := catalog.calls

	payload, err := agent.Process(context.Background(), "musik", params)
	require.NoError(t, err)
	assert.Equal(t, firstCalls, catalog.calls, "second turn should be served from cache")

	music := payload.(*domain.MusicPayload)
	assert.NotEmpty(t, music.Recommendations)
}
