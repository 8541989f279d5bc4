package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hati-ai/hati-agent/internal/domain"
)

const (
	discoverURL   = "https://api.themoviedb.org/3/discover/movie"
	posterBaseURL = "https://image.tmdb.org/t/p/w500"
)

// Client fetches movie recommendations from the TMDb discover API.
type Client struct {
	apiKey string
	http   *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		http:   &http.Client{Timeout: 15 * time.Second},
	}
}

type discoverResponse struct {
	Results []struct {
		Title       string  `json:"title"`
		Overview    string  `json:"overview"`
		VoteAverage float64 `json:"vote_average"`
		ReleaseDate string  `json:"release_date"`
		PosterPath  string  `json:"poster_path"`
	} `json:"results"`
}

// DiscoverMovies returns up to limit well-rated movies for a TMDb genre id,
// ordered by sortBy ("popularity.desc", "vote_average.desc", ...).
func (c *Client) DiscoverMovies(ctx context.Context, genreID, sortBy string, page, limit int) ([]domain.Movie, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("with_genres", genreID)
	q.Set("sort_by", sortBy)
	q.Set("vote_average.gte", "6.0")
	q.Set("vote_count.gte", "100")
	q.Set("page", strconv.Itoa(page))
	q.Set("language", "en-US")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discoverURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, &domain.ProviderError{Provider: "tmdb", Err: err}
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.ProviderError{Provider: "tmdb", Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, &domain.ProviderError{
			Provider: "tmdb",
			Err:      fmt.Errorf("discover returned status %d", res.StatusCode),
		}
	}

	var body discoverResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, &domain.ProviderError{Provider: "tmdb", Err: fmt.Errorf("decode discover response: %w", err)}
	}

	movies := make([]domain.Movie, 0, limit)
	for _, m := range body.Results {
		if len(movies) >= limit {
			break
		}
		overview := truncateOverview(m.Overview, 150)
		posterURL := ""
		if m.PosterPath != "" {
			posterURL = posterBaseURL + m.PosterPath
		}
		movies = append(movies, domain.Movie{
			Title:       m.Title,
			Overview:    overview,
			Rating:      m.VoteAverage,
			ReleaseDate: m.ReleaseDate,
			PosterURL:   posterURL,
			Source:      "tmdb",
		})
	}
	return movies, nil
}

// truncateOverview shortens an overview to max runes, never splitting a
// multi-byte character.
func truncateOverview(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
