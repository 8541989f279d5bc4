package giphy

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

const searchURL = "https://api.giphy.com/v1/gifs/search"

// Client fetches family-friendly GIFs from the Giphy search API.
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

type searchResponse struct {
	Data []struct {
		Title  string `json:"title"`
		Images struct {
			Original struct {
				URL string `json:"url"`
			} `json:"original"`
			FixedHeightSmall struct {
				URL string `json:"url"`
			} `json:"fixed_height_small"`
		} `json:"images"`
	} `json:"data"`
}

// SearchGifs returns up to limit GIFs for a search term. offset shifts the
// result window so repeated turns do not show the same GIFs.
func (c *Client) SearchGifs(ctx context.Context, term string, limit, offset int) ([]domain.Gif, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("q", term)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("rating", "g")
	q.Set("lang", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, &domain.ProviderError{Provider: "giphy", Err: err}
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.ProviderError{Provider: "giphy", Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, &domain.ProviderError{
			Provider: "giphy",
			Err:      fmt.Errorf("search returned status %d", res.StatusCode),
		}
	}

	var body searchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, &domain.ProviderError{Provider: "giphy", Err: fmt.Errorf("decode search response: %w", err)}
	}

	gifs := make([]domain.Gif, 0, len(body.Data))
	for _, g := range body.Data {
		title := g.Title
		if title == "" {
			title = "Fun GIF"
		}
		gifs = append(gifs, domain.Gif{
			Title:      title,
			URL:        g.Images.Original.URL,
			PreviewURL: g.Images.FixedHeightSmall.URL,
			Source:     "giphy",
		})
	}
	return gifs, nil
}
