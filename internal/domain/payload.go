package domain

// SpecialistPayload is the tagged union of per-agent result shapes. Each
// variant is a fixed struct that marshals to a JSON mapping, so the
// personalizer and the HTTP layer never touch untyped fields.
type SpecialistPayload interface {
	Kind() AgentKind
}

// EmptyPayload returns the minimal payload for an agent kind. Used when a
// specialist fails: the reply still carries a well-formed specialist_data
// mapping for that kind, never a missing key.
func EmptyPayload(kind AgentKind, mood Mood) SpecialistPayload {
	switch kind {
	case AgentMusic:
		return &MusicPayload{Recommendations: []Track{}, MoodAnalysis: mood}
	case AgentEntertainment:
		return &EntertainmentPayload{
			Content:      EntertainmentContent{Gifs: []Gif{}, Movies: []Movie{}, Jokes: []Joke{}},
			MoodAnalysis: mood,
			ContentType:  "fallback",
		}
	case AgentRelaxation:
		return &RelaxationPayload{
			Places:       []Place{},
			MoodAnalysis: mood,
		}
	default:
		return &ReflectionPayload{MoodAnalysis: mood}
	}
}

// ─────────────────────────────────────────────
// Music
// ─────────────────────────────────────────────

// Track is one recommended song from the music catalog.
type Track struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	URL        string `json:"url"`
	PreviewURL string `json:"preview_url,omitempty"`
	CoverURL   string `json:"cover_url,omitempty"`
	Popularity int    `json:"popularity"`
	DurationMS int    `json:"duration_ms,omitempty"`
}

type MusicPayload struct {
	Recommendations []Track `json:"recommendations"`
	Genre           string  `json:"genre,omitempty"`
	MoodAnalysis    Mood    `json:"mood_analysis"`
	TotalFound      int     `json:"total_found"`
	Personalized    bool    `json:"personalized"`
}

func (*MusicPayload) Kind() AgentKind { return AgentMusic }

// ─────────────────────────────────────────────
// Entertainment
// ─────────────────────────────────────────────

type Gif struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	PreviewURL string `json:"preview_url,omitempty"`
	Source     string `json:"source"`
}

type Movie struct {
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	Rating      float64 `json:"rating"`
	ReleaseDate string  `json:"release_date,omitempty"`
	PosterURL   string  `json:"poster_url,omitempty"`
	Source      string  `json:"source"`
}

type Joke struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// EntertainmentContent groups the three independent sub-sources. A failed
// sub-source contributes an empty list, never a failed payload.
type EntertainmentContent struct {
	Gifs   []Gif   `json:"gifs"`
	Movies []Movie `json:"movies"`
	Jokes  []Joke  `json:"jokes"`
}

type EntertainmentPayload struct {
	Content      EntertainmentContent `json:"content"`
	MoodAnalysis Mood                 `json:"mood_analysis"`
	ContentType  string               `json:"content_type"`
	TotalItems   int                  `json:"total_items"`
}

func (*EntertainmentPayload) Kind() AgentKind { return AgentEntertainment }

// ─────────────────────────────────────────────
// Relaxation
// ─────────────────────────────────────────────

type Place struct {
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Category string  `json:"category"`
	Rating   float64 `json:"rating,omitempty"`
	Lat      float64 `json:"lat,omitempty"`
	Lng      float64 `json:"lng,omitempty"`
}

type IndoorActivity struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DurationMin int    `json:"duration_min"`
}

type BreathingExercise struct {
	Name    string `json:"name"`
	Steps   string `json:"steps"`
	Minutes int    `json:"minutes"`
}

type RelaxationPayload struct {
	Places             []Place             `json:"places"`
	IndoorActivities   []IndoorActivity    `json:"indoor_activities,omitempty"`
	BreathingExercises []BreathingExercise `json:"breathing_exercises,omitempty"`
	LocationContext    string              `json:"location_context,omitempty"`
	MoodAnalysis       Mood                `json:"mood_analysis"`
}

func (*RelaxationPayload) Kind() AgentKind { return AgentRelaxation }

// ─────────────────────────────────────────────
// Reflection
// ─────────────────────────────────────────────

// ReflectionPayload is deliberately minimal: the reflective content is
// produced entirely by the personalizer call.
type ReflectionPayload struct {
	MoodAnalysis     Mood   `json:"mood_analysis"`
	ConversationType string `json:"conversation_type,omitempty"`
}

func (*ReflectionPayload) Kind() AgentKind { return AgentReflection }
