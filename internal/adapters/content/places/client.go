package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hati-ai/hati-agent/internal/domain"
)

const searchURL = "https://api.foursquare.com/v3/places/search"

// Client searches calming places near a locality using the Foursquare
// Places API.
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
	Results []struct {
		Name     string `json:"name"`
		Location struct {
			FormattedAddress string `json:"formatted_address"`
			Locality         string `json:"locality"`
			Region           string `json:"region"`
		} `json:"location"`
		Categories []struct {
			Name string `json:"name"`
		} `json:"categories"`
		Geocodes struct {
			Main struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"main"`
		} `json:"geocodes"`
		Rating float64 `json:"rating"`
	} `json:"results"`
}

// SearchPlaces returns up to limit places near a locality, filtered by
// Foursquare category ids.
func (c *Client) SearchPlaces(ctx context.Context, near string, categoryIDs []string, limit int) ([]domain.Place, error) {
	q := url.Values{}
	q.Set("near", near)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("fields", "name,location,categories,geocodes,rating")
	if len(categoryIDs) > 0 {
		q.Set("categories", strings.Join(categoryIDs, ","))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, &domain.ProviderError{Provider: "foursquare", Err: err}
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.ProviderError{Provider: "foursquare", Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, &domain.ProviderError{
			Provider: "foursquare",
			Err:      fmt.Errorf("search returned status %d", res.StatusCode),
		}
	}

	var body searchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, &domain.ProviderError{Provider: "foursquare", Err: fmt.Errorf("decode search response: %w", err)}
	}

	out := make([]domain.Place, 0, len(body.Results))
	for _, r := range body.Results {
		category := ""
		if len(r.Categories) > 0 {
			category = r.Categories[0].Name
		}
		address := r.Location.FormattedAddress
		if address == "" {
			address = strings.TrimSpace(strings.Join([]string{r.Location.Locality, r.Location.Region}, " "))
		}
		out = append(out, domain.Place{
			Name:     r.Name,
			Address:  address,
			Category: category,
			Rating:   r.Rating,
			Lat:      r.Geocodes.Main.Latitude,
			Lng:      r.Geocodes.Main.Longitude,
		})
	}
	return out, nil
}
