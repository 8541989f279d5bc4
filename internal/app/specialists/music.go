package specialists

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hati-ai/hati-agent/internal/domain"
	"github.com/hati-ai/hati-agent/internal/observability"
)

// maxTrackRecommendations caps how many tracks a turn returns.
const maxTrackRecommendations = 5

// TrackCatalog is the music agent's content source.
type TrackCatalog interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]domain.Track, error)
}

// MusicAgent recommends tracks for the detected mood. A preferred genre
// from the session profile wins over the mood-derived genre.
type MusicAgent struct {
	catalog  TrackCatalog
	cache    domain.ResponseCache
	cacheTTL time.Duration
}

func NewMusicAgent(catalog TrackCatalog, cache domain.ResponseCache, cacheTTL time.Duration) *MusicAgent {
	return &MusicAgent{
		catalog:  catalog,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func (a *MusicAgent) Kind() domain.AgentKind {
	return domain.AgentMusic
}

func (a *MusicAgent) Process(ctx context.Context, userMessage string, params domain.Parameters) (domain.SpecialistPayload, error) {
	if a.catalog == nil {
		return nil, &domain.ProviderError{Provider: "spotify", Err: fmt.Errorf("catalog not configured")}
	}

	log := observability.WithAgent("music")

	mood := params.Mood
	if mood == "" {
		mood = domain.MoodNeutral
	}
	intensity := params.Intensity
	if intensity == "" {
		intensity = "medium"
	}

	genre := params.Genre
	personalized := false
	if params.Profile != nil && len(params.Profile.PreferredGenres) > 0 {
		genre = params.Profile.PreferredGenres[0]
		personalized = true
	}
	if genre == "" {
		genre = moodToGenre(mood)
	}

	cacheKey := a.cacheKey(mood, genre, intensity, personalized)
	if a.cache != nil {
		if raw, ok := a.cache.Get(ctx, cacheKey); ok {
			var cached domain.MusicPayload
			if err := json.Unmarshal(raw, &cached); err == nil {
				log.Info("returning cached music recommendations", "mood", mood)
				return &cached, nil
			}
		}
	}

	log.Info("searching tracks", "mood", mood, "genre", genre, "personalized", personalized)

	tracks, err := a.searchByMood(ctx, mood, genre, intensity)
	if err != nil {
		return nil, err
	}

	payload := &domain.MusicPayload{
		Recommendations: tracks,
		Genre:           genre,
		MoodAnalysis:    mood,
		TotalFound:      len(tracks),
		Personalized:    personalized,
	}

	if a.cache != nil {
		if raw, err := json.Marshal(payload); err == nil {
			a.cache.Set(ctx, cacheKey, raw, a.cacheTTL)
		}
	}

	return payload, nil
}

// searchByMood tries progressively looser queries until it has enough
// candidates, then dedupes and caps the list. All queries failing is a
// provider failure; some failing is just less variety.
func (a *MusicAgent) searchByMood(ctx context.Context, mood domain.Mood, genre, intensity string) ([]domain.Track, error) {
	moodEnglish := translateMood(mood)
	queries := []string{
		"genre:" + genre,
		genre + " " + intensity,
		moodEnglish + " " + genre,
		moodEnglish + " music",
		genre,
	}

	log := observability.WithAgent("music")

	var (
		candidates []domain.Track
		lastErr    error
		failures   int
	)
	for _, q := range queries {
		tracks, err := a.catalog.SearchTracks(ctx, q, 20)
		if err != nil {
			log.Warn("track search failed", "query", q, "error", err)
			lastErr = err
			failures++
			continue
		}
		for _, t := range tracks {
			if t.Popularity > 15 {
				candidates = append(candidates, t)
			}
		}
		if len(candidates) >= maxTrackRecommendations*2 {
			break
		}
	}

	if failures == len(queries) {
		var provErr *domain.ProviderError
		if errors.As(lastErr, &provErr) {
			return nil, lastErr
		}
		return nil, &domain.ProviderError{Provider: "spotify", Err: lastErr}
	}

	seen := make(map[string]bool, len(candidates))
	out := make([]domain.Track, 0, maxTrackRecommendations)
	for _, t := range candidates {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
		if len(out) == maxTrackRecommendations {
			break
		}
	}
	return out, nil
}

func (a *MusicAgent) cacheKey(mood domain.Mood, genre, intensity string, personalized bool) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s|%s|%s|%t", mood, genre, intensity, personalized)))
	return fmt.Sprintf("music_%x", sum)
}

// moodToGenre maps mood labels (Indonesian and English) to a search genre.
func moodToGenre(mood domain.Mood) string {
	genres := map[string]string{
		"sedih":       "indie",
		"senang":      "pop",
		"bahagia":     "pop",
		"gembira":     "dance",
		"ceria":       "pop",
		"marah":       "rock",
		"tenang":      "ambient",
		"rileks":      "chill",
		"energik":     "electronic",
		"romantis":    "soul",
		"nostalgia":   "classic rock",
		"fokus":       "instrumental",
		"melankolis":  "alternative",
		"happy":       "pop",
		"sad":         "indie",
		"energetic":   "electronic",
		"calm":        "ambient",
		"romantic":    "soul",
		"angry":       "rock",
		"nostalgic":   "classic rock",
		"focused":     "instrumental",
		"relaxed":     "chill",
		"excited":     "dance",
		"cheerful":    "pop",
		"melancholic": "alternative",
	}
	if g, ok := genres[strings.ToLower(string(mood))]; ok {
		return g
	}
	return "pop"
}

// translateMood maps Indonesian mood labels to English search terms.
func translateMood(mood domain.Mood) string {
	translations := map[string]string{
		"sedih":      "sad",
		"senang":     "happy",
		"bahagia":    "happy",
		"gembira":    "happy",
		"marah":      "angry",
		"tenang":     "calm",
		"rileks":     "relaxed",
		"energik":    "energetic",
		"romantis":   "romantic",
		"nostalgia":  "nostalgic",
		"fokus":      "focused",
		"ceria":      "cheerful",
		"melankolis": "melancholic",
	}
	if t, ok := translations[strings.ToLower(string(mood))]; ok {
		return t
	}
	return string(mood)
}
