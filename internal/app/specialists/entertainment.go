package specialists

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"github.com/hati-ai/hati-agent/internal/domain"
	"github.com/hati-ai/hati-agent/internal/observability"
)

const (
	maxGifs   = 5
	maxMovies = 3
)

// GifSource and MovieSource are the entertainment agent's content
// sources. Each sub-source fails independently: a failed source
// contributes an empty list to the payload, never a turn error.
type GifSource interface {
	SearchGifs(ctx context.Context, term string, limit, offset int) ([]domain.Gif, error)
}

type MovieSource interface {
	DiscoverMovies(ctx context.Context, genreID, sortBy string, page, limit int) ([]domain.Movie, error)
}

// EntertainmentAgent assembles gifs, movies and jokes for the detected
// mood. Jokes are curated locally, so the agent always has something to
// return even when both remote sources are down.
type EntertainmentAgent struct {
	gifs   GifSource
	movies MovieSource

	// rand.Rand is not safe for concurrent use; turns for different
	// sessions run in parallel.
	mu  sync.Mutex
	rng *rand.Rand
}

func NewEntertainmentAgent(gifs GifSource, movies MovieSource, rng *rand.Rand) *EntertainmentAgent {
	return &EntertainmentAgent{gifs: gifs, movies: movies, rng: rng}
}

func (a *EntertainmentAgent) randIntn(n int) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rng.Intn(n)
}

func (a *EntertainmentAgent) randShuffle(n int, swap func(i, j int)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rng.Shuffle(n, swap)
}

func (a *EntertainmentAgent) Kind() domain.AgentKind {
	return domain.AgentEntertainment
}

func (a *EntertainmentAgent) Process(ctx context.Context, userMessage string, params domain.Parameters) (domain.SpecialistPayload, error) {
	log := observability.WithAgent("entertainment")

	mood := params.Mood
	if mood == "" {
		mood = domain.MoodNeutral
	}
	contentType := params.ContentType
	if contentType == "" {
		contentType = "mixed"
	}
	intensity := params.Intensity
	if intensity == "" {
		intensity = "medium"
	}

	log.Info("finding entertainment", "mood", mood, "content_type", contentType)

	content := domain.EntertainmentContent{
		Gifs:   []domain.Gif{},
		Movies: []domain.Movie{},
		Jokes:  []domain.Joke{},
	}

	if contentType == "mixed" || contentType == "gifs" {
		content.Gifs = a.moodGifs(ctx, mood, intensity)
	}
	if contentType == "mixed" || contentType == "movies" {
		content.Movies = a.moodMovies(ctx, mood)
	}
	if contentType == "mixed" || contentType == "jokes" {
		content.Jokes = moodJokes(mood)
	}

	total := len(content.Gifs) + len(content.Movies) + len(content.Jokes)
	log.Info("entertainment assembled",
		"gifs", len(content.Gifs), "movies", len(content.Movies), "jokes", len(content.Jokes))

	return &domain.EntertainmentPayload{
		Content:      content,
		MoodAnalysis: mood,
		ContentType:  contentType,
		TotalItems:   total,
	}, nil
}

func (a *EntertainmentAgent) moodGifs(ctx context.Context, mood domain.Mood, intensity string) []domain.Gif {
	if a.gifs == nil {
		return []domain.Gif{}
	}

	terms := moodGifTerms(mood, intensity)
	term := terms[a.randIntn(len(terms))]
	// Random offset so repeated turns in the same mood see fresh gifs.
	offset := a.randIntn(46)

	gifs, err := a.gifs.SearchGifs(ctx, term, maxGifs*2, offset)
	if err != nil {
		observability.WithAgent("entertainment").Warn("gif search failed", "term", term, "error", err)
		return []domain.Gif{}
	}

	a.randShuffle(len(gifs), func(i, j int) { gifs[i], gifs[j] = gifs[j], gifs[i] })
	if len(gifs) > maxGifs {
		gifs = gifs[:maxGifs]
	}
	return gifs
}

func (a *EntertainmentAgent) moodMovies(ctx context.Context, mood domain.Mood) []domain.Movie {
	if a.movies == nil {
		return []domain.Movie{}
	}

	genreIDs := moodMovieGenres(mood)
	genreID := genreIDs[a.randIntn(len(genreIDs))]
	sortBy := moodMovieSort(mood, a.randIntn)
	page := 1 + a.randIntn(3)

	movies, err := a.movies.DiscoverMovies(ctx, genreID, sortBy, page, maxMovies)
	if err != nil {
		observability.WithAgent("entertainment").Warn("movie search failed", "genre", genreID, "error", err)
		return []domain.Movie{}
	}
	return movies
}

// moodJokes returns curated Indonesian jokes for the mood.
func moodJokes(mood domain.Mood) []domain.Joke {
	curated := map[string][]string{
		"sad": {
			"Kenapa ikan nggak pernah sedih? Soalnya dia selalu swimming in the good vibes!",
			"Hari yang buruk bukan berarti hidup yang buruk. Besok adalah halaman baru!",
		},
		"sedih": {
			"Kenapa ikan nggak pernah sedih? Soalnya dia selalu swimming in the good vibes!",
			"Hari yang buruk bukan berarti hidup yang buruk. Besok adalah halaman baru!",
		},
		"happy": {
			"Kenapa senyum itu gratis? Karena kebahagiaan nggak boleh dikenakan pajak!",
			"Hari ini adalah hari yang sempurna untuk bahagia!",
		},
		"senang": {
			"Kenapa senyum itu gratis? Karena kebahagiaan nggak boleh dikenakan pajak!",
			"Hari ini adalah hari yang sempurna untuk bahagia!",
		},
		"angry": {
			"Marah itu kayak memegang bara api untuk dilempar ke orang lain - yang kepanasan duluan kita sendiri.",
			"Take a deep breath... Sekarang hitung sampai 10... Masih marah? Hitung lagi!",
		},
		"marah": {
			"Marah itu kayak memegang bara api untuk dilempar ke orang lain - yang kepanasan duluan kita sendiri.",
			"Take a deep breath... Sekarang hitung sampai 10... Masih marah? Hitung lagi!",
		},
		"stressed": {
			"Kenapa komputer nggak pernah stress? Soalnya dia bisa di-restart! Kita juga bisa kok.",
			"Stress itu kayak rocking chair - banyak gerakan tapi nggak kemana-mana.",
		},
	}

	texts, ok := curated[strings.ToLower(string(mood))]
	if !ok {
		texts = []string{
			"Hidup itu seperti kopi - bisa pahit, tapi bisa juga dibuat manis sesuai selera!",
			"Senyum adalah makeup terbaik yang bisa kamu pakai hari ini!",
		}
	}

	jokes := make([]domain.Joke, 0, len(texts))
	for _, t := range texts {
		jokes = append(jokes, domain.Joke{Text: t, Type: "joke"})
	}
	return jokes
}

// moodGifTerms maps mood to gif search terms; intensity prepends
// softer or stronger variants.
func moodGifTerms(mood domain.Mood, intensity string) []string {
	terms := map[string][]string{
		"happy":     {"happy", "celebration", "joy", "dance", "smile", "cheerful"},
		"senang":    {"happy", "celebration", "joy", "dance", "smile", "cheerful"},
		"sad":       {"comfort", "hug", "cute animals", "support", "cheer up", "hope"},
		"sedih":     {"comfort", "hug", "cute animals", "support", "cheer up", "hope"},
		"angry":     {"calm down", "chill", "relax", "breathe", "peace", "zen"},
		"marah":     {"calm down", "chill", "relax", "breathe", "peace", "zen"},
		"excited":   {"excited", "party", "celebration", "wow", "amazing", "victory"},
		"tired":     {"coffee", "sleep", "rest", "cozy", "nap", "energy"},
		"lelah":     {"coffee", "sleep", "rest", "cozy", "nap", "energy"},
		"stressed":  {"relax", "meditation", "calm", "peace", "stress relief", "breathe"},
		"bored":     {"fun", "entertainment", "interesting", "surprise", "random", "funny"},
		"bosan":     {"fun", "entertainment", "interesting", "surprise", "random", "funny"},
		"anxious":   {"calm", "relax", "peace", "breathe", "comfort", "safe"},
		"cemas":     {"calm", "relax", "peace", "breathe", "comfort", "safe"},
		"romantic":  {"love", "romance", "heart", "sweet", "adorable"},
		"romantis":  {"love", "romance", "heart", "sweet", "adorable"},
		"nostalgic": {"memories", "nostalgia", "vintage", "classic", "throwback"},
		"nostalgia": {"memories", "nostalgia", "vintage", "classic", "throwback"},
	}

	out, ok := terms[strings.ToLower(string(mood))]
	if !ok {
		out = []string{"good vibes", "positive", "nice", "pleasant", "fine"}
	}

	switch intensity {
	case "high":
		var boosted []string
		for _, t := range out[:3] {
			boosted = append(boosted, "very "+t)
		}
		out = append(boosted, out...)
	case "low":
		var softened []string
		for _, t := range out[:3] {
			softened = append(softened, "gentle "+t)
		}
		out = append(softened, out...)
	}
	return out
}

// moodMovieGenres maps mood to candidate TMDb genre ids.
func moodMovieGenres(mood domain.Mood) []string {
	genres := map[string][]string{
		"happy":     {"35", "16", "10751"},
		"senang":    {"35", "16", "10751"},
		"sad":       {"18", "10749"},
		"sedih":     {"18", "10749"},
		"excited":   {"28", "12", "878"},
		"romantic":  {"10749", "35"},
		"romantis":  {"10749", "35"},
		"nostalgic": {"36", "10402", "18"},
		"nostalgia": {"36", "10402", "18"},
		"energetic": {"28", "80", "9648"},
		"energik":   {"28", "80", "9648"},
		"relaxed":   {"35", "10770"},
		"rileks":    {"35", "10770"},
		"bored":     {"28", "12", "878"},
		"bosan":     {"28", "12", "878"},
		"anxious":   {"35", "16"},
		"cemas":     {"35", "16"},
		"angry":     {"28", "80"},
		"marah":     {"28", "80"},
		"neutral":   {"35", "18", "28"},
	}
	if g, ok := genres[strings.ToLower(string(mood))]; ok {
		return g
	}
	return genres["happy"]
}

func moodMovieSort(mood domain.Mood, intn func(int) int) string {
	switch strings.ToLower(string(mood)) {
	case "excited", "energetic", "energik":
		return "popularity.desc"
	case "thoughtful", "sad", "sedih":
		return "vote_average.desc"
	case "happy", "senang", "relaxed", "rileks":
		return "release_date.desc"
	}
	options := []string{"popularity.desc", "vote_average.desc", "release_date.desc", "revenue.desc"}
	return options[intn(len(options))]
}
