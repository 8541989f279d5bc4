package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/hati-ai/hati-agent/internal/domain"
)

const (
	tokenURL  = "https://accounts.spotify.com/api/token"
	searchURL = "https://api.spotify.com/v1/search"
)

// Client searches the Spotify catalog using the client-credentials flow.
// The oauth2 transport refreshes the app token transparently.
type Client struct {
	http *http.Client
}

func NewClient(ctx context.Context, clientID, clientSecret string) *Client {
	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	return &Client{http: conf.Client(ctx)}
}

type searchResponse struct {
	Tracks struct {
		Items []trackItem `json:"items"`
	} `json:"tracks"`
}

type trackItem struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name   string `json:"name"`
		Images []struct {
			URL    string `json:"url"`
			Height int    `json:"height"`
		} `json:"images"`
	} `json:"album"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
	PreviewURL string `json:"preview_url"`
	Popularity int    `json:"popularity"`
	DurationMS int    `json:"duration_ms"`
}

// SearchTracks runs one track search query against the catalog.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]domain.Track, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("type", "track")
	q.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, &domain.ProviderError{Provider: "spotify", Err: err}
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.ProviderError{Provider: "spotify", Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, &domain.ProviderError{
			Provider: "spotify",
			Err:      fmt.Errorf("search returned status %d", res.StatusCode),
		}
	}

	var body searchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, &domain.ProviderError{Provider: "spotify", Err: fmt.Errorf("decode search response: %w", err)}
	}

	tracks := make([]domain.Track, 0, len(body.Tracks.Items))
	for _, item := range body.Tracks.Items {
		tracks = append(tracks, domain.Track{
			ID:         item.ID,
			Title:      item.Name,
			Artist:     joinArtists(item),
			Album:      item.Album.Name,
			URL:        item.ExternalURLs.Spotify,
			PreviewURL: item.PreviewURL,
			CoverURL:   coverURL(item),
			Popularity: item.Popularity,
			DurationMS: item.DurationMS,
		})
	}
	return tracks, nil
}

func joinArtists(item trackItem) string {
	out := ""
	for i, a := range item.Artists {
		if i > 0 {
			out += ", "
		}
		out += a.Name
	}
	return out
}

// coverURL prefers a medium album image, falling back to the first one.
func coverURL(item trackItem) string {
	for _, img := range item.Album.Images {
		if img.Height >= 200 && img.Height <= 400 {
			return img.URL
		}
	}
	if len(item.Album.Images) > 0 {
		return item.Album.Images[0].URL
	}
	return ""
}
