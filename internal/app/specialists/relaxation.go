package specialists

import (
	"context"
	"strings"

	"github.com/hati-ai/hati-agent/internal/domain"
	"github.com/hati-ai/hati-agent/internal/observability"
)

const defaultLocation = "Jakarta"

// PlaceSource is the relaxation agent's place-search backend.
type PlaceSource interface {
	SearchPlaces(ctx context.Context, near string, categoryIDs []string, limit int) ([]domain.Place, error)
}

// RelaxationAgent suggests calming places near the user plus curated
// indoor activities and breathing exercises. The curated parts never
// depend on the remote source, so a place-search failure still leaves
// the user with something actionable.
type RelaxationAgent struct {
	places PlaceSource
}

func NewRelaxationAgent(places PlaceSource) *RelaxationAgent {
	return &RelaxationAgent{places: places}
}

func (a *RelaxationAgent) Kind() domain.AgentKind {
	return domain.AgentRelaxation
}

func (a *RelaxationAgent) Process(ctx context.Context, userMessage string, params domain.Parameters) (domain.SpecialistPayload, error) {
	log := observability.WithAgent("relaxation")

	mood := params.Mood
	if mood == "" {
		mood = domain.MoodNeutral
	}
	intensity := params.Intensity
	if intensity == "" {
		intensity = "medium"
	}

	location := params.Location
	if location == "" {
		location = extractLocation(userMessage)
	}
	if location == "" {
		location = defaultLocation
	}

	log.Info("finding relaxation options", "mood", mood, "location", location)

	places := []domain.Place{}
	if a.places != nil {
		categories := moodPlaceCategories(mood)
		found, err := a.places.SearchPlaces(ctx, location, categories, 5)
		if err != nil {
			log.Warn("place search failed", "location", location, "error", err)
		} else {
			places = found
		}
	}

	return &domain.RelaxationPayload{
		Places:             places,
		IndoorActivities:   indoorActivities(mood, intensity),
		BreathingExercises: breathingExercises(intensity),
		LocationContext:    location,
		MoodAnalysis:       mood,
	}, nil
}

// moodPlaceCategories maps mood to Foursquare category ids: parks
// (16032), cafes (13065), spas (12040), museums (12053), bookstores
// (13383), shopping (10030), entertainment venues (10032).
func moodPlaceCategories(mood domain.Mood) []string {
	categories := map[string][]string{
		"stressed": {"16032", "13065", "12040"},
		"stress":   {"16032", "13065", "12040"},
		"sedih":    {"13065", "12053", "13383"},
		"sad":      {"13065", "12053", "13383"},
		"bored":    {"10030", "10032", "13065"},
		"bosan":    {"10030", "10032", "13065"},
		"lelah":    {"16032", "12040", "13065"},
		"tired":    {"16032", "12040", "13065"},
	}
	if c, ok := categories[strings.ToLower(string(mood))]; ok {
		return c
	}
	return categories["stressed"]
}

// indoorActivities returns curated activities for the mood. Low
// intensity keeps the list short and easy.
func indoorActivities(mood domain.Mood, intensity string) []domain.IndoorActivity {
	byMood := map[string][]domain.IndoorActivity{
		"stressed": {
			{Name: "Meditation 10 menit", Description: "Duduk tenang, fokus pada napas", DurationMin: 10},
			{Name: "Menggambar atau mewarnai", Description: "Aktivitas kreatif untuk mengalihkan pikiran", DurationMin: 30},
			{Name: "Membaca buku favorit", Description: "Waktu tenang tanpa layar", DurationMin: 30},
			{Name: "Aromaterapi dengan lilin wangi", Description: "Ciptakan suasana menenangkan di rumah", DurationMin: 20},
		},
		"anxious": {
			{Name: "Journaling", Description: "Tulis perasaanmu di atas kertas", DurationMin: 15},
			{Name: "Yoga ringan", Description: "Gerakan pelan untuk melepas ketegangan", DurationMin: 20},
			{Name: "Mendengarkan podcast menenangkan", Description: "Suara tenang membantu pikiran melambat", DurationMin: 30},
			{Name: "Merajut atau kerajinan tangan", Description: "Aktivitas berulang yang menenangkan", DurationMin: 45},
		},
		"sad": {
			{Name: "Mandi air hangat", Description: "Relaksasi otot dan pikiran", DurationMin: 20},
			{Name: "Menonton film komedi ringan", Description: "Tertawa itu obat", DurationMin: 90},
			{Name: "Memasak makanan favorit", Description: "Manjakan dirimu dengan makanan enak", DurationMin: 60},
			{Name: "Video call dengan teman dekat", Description: "Kamu tidak harus sendirian", DurationMin: 30},
		},
		"tired": {
			{Name: "Power nap 20 menit", Description: "Tidur singkat mengembalikan energi", DurationMin: 20},
			{Name: "Stretching ringan", Description: "Regangkan otot yang kaku", DurationMin: 10},
			{Name: "Minum air putih yang cukup", Description: "Dehidrasi bikin makin lelah", DurationMin: 5},
			{Name: "Matikan gadget 30 menit", Description: "Istirahatkan mata dan pikiran", DurationMin: 30},
		},
	}
	// Indonesian labels share the curated lists.
	byMood["stress"] = byMood["stressed"]
	byMood["cemas"] = byMood["anxious"]
	byMood["sedih"] = byMood["sad"]
	byMood["lelah"] = byMood["tired"]

	activities, ok := byMood[strings.ToLower(string(mood))]
	if !ok {
		activities = byMood["stressed"]
	}
	if intensity != "high" && len(activities) > 3 {
		activities = activities[:3]
	}
	return activities
}

// breathingExercises returns curated exercises scaled by intensity.
func breathingExercises(intensity string) []domain.BreathingExercise {
	simple := domain.BreathingExercise{
		Name:    "Simple Deep Breathing",
		Steps:   "Letakkan satu tangan di dada, satu di perut. Tarik napas dalam melalui hidung, pastikan perut mengembang. Buang napas perlahan melalui mulut. Ulangi 5-10 kali.",
		Minutes: 3,
	}
	technique478 := domain.BreathingExercise{
		Name:    "4-7-8 Technique",
		Steps:   "Duduk dengan nyaman, punggung tegak. Tarik napas melalui hidung sambil hitung 4, tahan sambil hitung 7, buang napas melalui mulut sambil hitung 8. Ulangi 3-4 kali.",
		Minutes: 5,
	}
	box := domain.BreathingExercise{
		Name:    "Box Breathing",
		Steps:   "Tarik napas 4 hitungan, tahan 4 hitungan, buang napas 4 hitungan, tahan kosong 4 hitungan. Ulangi 5-10 kali.",
		Minutes: 8,
	}

	switch intensity {
	case "low":
		return []domain.BreathingExercise{simple}
	case "high":
		return []domain.BreathingExercise{technique478, box, simple}
	default:
		return []domain.BreathingExercise{technique478, simple}
	}
}

// knownLocations are Indonesian cities recognized in free text.
var knownLocations = []string{
	"jakarta", "bandung", "surabaya", "yogyakarta", "yogya", "jogja",
	"semarang", "medan", "palembang", "makassar", "denpasar", "bali",
	"solo", "surakarta", "malang", "bogor", "depok", "tangerang",
	"bekasi", "cirebon", "pontianak", "balikpapan", "manado",
	"pekanbaru", "bandar lampung", "lampung", "tasikmalaya",
	"sukabumi", "kediri", "madiun", "ubud", "sanur", "kuta",
}

// extractLocation scans the message for a known city name. Returns ""
// when nothing matches.
func extractLocation(message string) string {
	padded := " " + strings.ToLower(message) + " "
	for _, loc := range knownLocations {
		if strings.Contains(padded, " "+loc+" ") ||
			strings.Contains(padded, " ke "+loc) ||
			strings.Contains(padded, " di "+loc) {
			return titleCase(loc)
		}
	}
	return ""
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
