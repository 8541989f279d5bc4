package specialists

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hati-ai/hati-agent/internal/domain"
)

type fakeGifSource struct {
	gifs []domain.Gif
	err  error
}

func (f *fakeGifSource) SearchGifs(ctx context.Context, term string, limit, offset int) ([]domain.Gif, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.gifs, nil
}

type fakeMovieSource struct {
	movies []domain.Movie
	err    error
}

func (f *fakeMovieSource) DiscoverMovies(ctx context.Context, genreID, sortBy string, page, limit int) ([]domain.Movie, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.movies, nil
}

func newTestEntertainmentAgent(gifs GifSource, movies MovieSource) *EntertainmentAgent {
	return NewEntertainmentAgent(gifs, movies, rand.New(rand.NewSource(1)))
}

func TestEntertainmentAgentMixedContent(t *testing.T) {
	agent := newTestEntertainmentAgent(
		&fakeGifSource{gifs: []domain.Gif{{Title: "happy dance", URL: "https://giphy.example/1", Source: "giphy"}}},
		&fakeMovieSource{movies: []domain.Movie{{Title: "Comedy Night", Rating: 7.5, Source: "tmdb"}}},
	)

	payload, err := agent.Process(context.Background(), "hiburan dong", domain.Parameters{Mood: "senang"})
	require.NoError(t, err)

	ent, ok := payload.(*domain.EntertainmentPayload)
	require.True(t, ok)
	assert.Equal(t, "mixed", ent.ContentType)
	assert.Len(t, ent.Content.Gifs, 1)
	assert.Len(t, ent.Content.Movies, 1)
	assert.NotEmpty(t, ent.Content.Jokes)
	assert.Equal(t, len(ent.Content.Gifs)+len(ent.Content.Movies)+len(ent.Content.Jokes), ent.TotalItems)
}

func TestEntertainmentAgentPartialSourceFailure(t *testing.T) {
	agent := newTestEntertainmentAgent(
		&fakeGifSource{err: errors.New("giphy down")},
		&fakeMovieSource{movies: []domain.Movie{{Title: "Still Works", Rating: 8.0, Source: "tmdb"}}},
	)

	payload, err := agent.Process(context.Background(), "hibur aku", domain.Parameters{Mood: "sedih"})
	require.NoError(t, err, "one failed sub-source must not fail the turn")

	ent := payload.(*domain.EntertainmentPayload)
	assert.Empty(t, ent.Content.Gifs)
	assert.Len(t, ent.Content.Movies, 1)
	assert.NotEmpty(t, ent.Content.Jokes, "curated jokes survive remote failures")
}

func TestEntertainmentAgentAllSourcesFail(t *testing.T) {
	agent := newTestEntertainmentAgent(
		&fakeGifSource{err: errors.New("giphy down")},
		&fakeMovieSource{err: errors.New("tmdb down")},
	)

	payload, err := agent.Process(context.Background(), "hibur aku", domain.Parameters{Mood: "stressed"})
	require.NoError(t, err)

	ent := payload.(*domain.EntertainmentPayload)
	assert.Empty(t, ent.Content.Gifs)
	assert.Empty(t, ent.Content.Movies)
	assert.NotEmpty(t, ent.Content.Jokes)
}

func TestEntertainmentAgentContentTypeFilter(t *testing.T) {
	agent := newTestEntertainmentAgent(
		&fakeGifSource{gifs: []domain.Gif{{Title: "gif", URL: "https://giphy.example/1"}}},
		&fakeMovieSource{movies: []domain.Movie{{Title: "movie"}}},
	)

	payload, err := agent.Process(context.Background(), "kasih jokes", domain.Parameters{
		Mood:        "sedih",
		ContentType: "jokes",
	})
	require.NoError(t, err)

	ent := payload.(*domain.EntertainmentPayload)
	assert.Equal(t, "jokes", ent.ContentType)
	assert.Empty(t, ent.Content.Gifs)
	assert.Empty(t, ent.Content.Movies)
	assert.NotEmpty(t, ent.Content.Jokes)
}

func TestEntertainmentAgentConcurrentTurns(t *testing.T) {
	agent := newTestEntertainmentAgent(
		&fakeGifSource{gifs: []domain.Gif{
			{Title: "a", URL: "https://giphy.example/a"},
			{Title: "b", URL: "https://giphy.example/b"},
			{Title: "c", URL: "https://giphy.example/c"},
		}},
		&fakeMovieSource{movies: []domain.Movie{{Title: "Comedy Night"}}},
	)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				payload, err := agent.Process(context.Background(), "hibur aku", domain.Parameters{Mood: "sedih"})
				assert.NoError(t, err)
				assert.NotNil(t, payload)
			}
		}()
	}
	wg.Wait()
}

func TestMoodJokesFallsBackToDefault(t *testing.T) {
	jokes := moodJokes("mood-nobody-curated")
	require.NotEmpty(t, jokes)
	for _, j := range jokes {
		assert.Equal(t, "joke", j.Type)
		assert.NotEmpty(t, j.Text)
	}
}
