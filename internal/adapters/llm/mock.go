package llm

import (
	"context"
	"fmt"
	"strings"
)

// MockLLM is a deterministic, network-free LLMClient for local mode and
// tests. The JSON path mimics the classifier contract with simple keyword
// rules; the text path echoes the input so assertions stay stable.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) GenerateText(ctx context.Context, system, user string) (string, error) {
	echo := user
	if runes := []rune(echo); len(runes) > 60 {
		echo = string(runes[:60])
	}
	return fmt.Sprintf("Aku mendengarkan kamu. Kamu bilang %q. Aku di sini untukmu.", echo), nil
}

func (m *MockLLM) GenerateJSON(ctx context.Context, system, user string) ([]byte, error) {
	msg := strings.ToLower(user)
	// Classify the message itself, not the appended session context.
	if i := strings.Index(msg, "konteks sesi:"); i >= 0 {
		msg = msg[:i]
	}

	mood := "neutral"
	switch {
	case containsAny(msg, "sedih", "sad", "galau", "kecewa"):
		mood = "sedih"
	case containsAny(msg, "senang", "happy", "bahagia"):
		mood = "happy"
	case containsAny(msg, "stress", "stres", "cemas", "anxious"):
		mood = "stressed"
	case containsAny(msg, "menenangkan", "tenang", "calm"):
		mood = "calm"
	}

	agent := "reflection"
	params := `{}`
	switch {
	case containsAny(msg, "musik", "music", "lagu", "song"):
		agent = "music"
		params = `{"intensity":"medium"}`
	case containsAny(msg, "jokes", "joke", "lucu", "meme", "gif", "film", "movie", "nonton", "hibur"):
		agent = "entertainment"
		contentType := "mixed"
		switch {
		case containsAny(msg, "jokes", "joke", "lucu"):
			contentType = "jokes"
		case containsAny(msg, "film", "movie", "nonton"):
			contentType = "movies"
		case containsAny(msg, "gif", "meme"):
			contentType = "gifs"
		}
		params = fmt.Sprintf(`{"type":%q}`, contentType)
	case containsAny(msg, "tempat", "jalan-jalan", "wisata", "lokasi", "place"):
		agent = "relaxation"
		params = `{"location":"Jakarta","place_type":"mixed"}`
	}

	out := fmt.Sprintf(
		`{"agent":%q,"mood":%q,"parameters":%s,"reasoning":"keyword match"}`,
		agent, mood, params,
	)
	return []byte(out), nil
}

func (m *MockLLM) Ping(ctx context.Context) error {
	return nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
