package manager_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hati-ai/hati-agent/internal/adapters/llm"
	"github.com/hati-ai/hati-agent/internal/adapters/storage/memory"
	"github.com/hati-ai/hati-agent/internal/app/manager"
	"github.com/hati-ai/hati-agent/internal/app/specialists"
	"github.com/hati-ai/hati-agent/internal/domain"
)

// funcLLM lets a test fail individual LLM calls.
type funcLLM struct {
	generateText func(ctx context.Context, system, user string) (string, error)
	generateJSON func(ctx context.Context, system, user string) ([]byte, error)
}

func (f *funcLLM) GenerateText(ctx context.Context, system, user string) (string, error) {
	if f.generateText != nil {
		return f.generateText(ctx, system, user)
	}
	return llm.NewMockLLM().GenerateText(ctx, system, user)
}

func (f *funcLLM) GenerateJSON(ctx context.Context, system, user string) ([]byte, error) {
	if f.generateJSON != nil {
		return f.generateJSON(ctx, system, user)
	}
	return llm.NewMockLLM().GenerateJSON(ctx, system, user)
}

func (f *funcLLM) Ping(ctx context.Context) error { return nil }

type stubCatalog struct {
	tracks []domain.Track
	err    error
}

func (s *stubCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]domain.Track, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.tracks, nil
}

func calmTracks(n int) []domain.Track {
	out := make([]domain.Track, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Track{
			ID:         fmt.Sprintf("t%d", i),
			Title:      fmt.Sprintf("Calm %d", i),
			Artist:     "Ambient Artist",
			Popularity: 60,
		})
	}
	return out
}

func newTestService(t *testing.T, client domain.LLMClient, catalog specialists.TrackCatalog) (*manager.Service, *memory.ProfileStore, *memory.ConversationStore) {
	t.Helper()

	profiles := memory.NewProfileStore()
	conversations := memory.NewConversationStore()

	svc := manager.NewService(
		client,
		profiles,
		conversations,
		nil,
		specialists.NewMusicAgent(catalog, nil, 0),
		specialists.NewReflectionAgent(),
	)
	return svc, profiles, conversations
}

func TestHandleTurnSadMessageGoesToReflection(t *testing.T) {
	svc, _, _ := newTestService(t, llm.NewMockLLM(), &stubCatalog{})

	reply, err := svc.HandleTurn(context.Background(), manager.TurnInput{
		Text:      "Aku sedang sedih hari ini",
		UserID:    "user-1",
		SessionID: "sess-1",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.AgentReflection, reply.AgentUsed)
	assert.Equal(t, domain.Mood("sedih"), reply.MoodDetected)
	assert.NotEmpty(t, reply.Response)
	require.IsType(t, &domain.ReflectionPayload{}, reply.SpecialistData)
}

func TestHandleTurnMusicRequest(t *testing.T) {
	svc, _, _ := newTestService(t, llm.NewMockLLM(), &stubCatalog{tracks: calmTracks(12)})

	reply, err := svc.HandleTurn(context.Background(), manager.TurnInput{
		Text:      "Rekomendasikan musik yang menenangkan",
		UserID:    "user-1",
		SessionID: "sess-1",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.AgentMusic, reply.AgentUsed)
	music, ok := reply.SpecialistData.(*domain.MusicPayload)
	require.True(t, ok)
	assert.NotEmpty(t, music.Recommendations)
	assert.LessOrEqual(t, len(music.Recommendations), 5)
}

func TestHandleTurnValidation(t *testing.T) {
	svc, _, _ := newTestService(t, llm.NewMockLLM(), &stubCatalog{})
	ctx := context.Background()

	_, err := svc.HandleTurn(ctx, manager.TurnInput{Text: "   ", UserID: "u", SessionID: "s"})
	assert.True(t, domain.IsValidation(err), "blank message must be rejected")

	tooLong := strings.Repeat("a", domain.MaxMessageChars+1)
	_, err = svc.HandleTurn(ctx, manager.TurnInput{Text: tooLong, UserID: "u", SessionID: "s"})
	assert.True(t, domain.IsValidation(err), "2001 runes must be rejected")

	exact := strings.Repeat("a", domain.MaxMessageChars)
	_, err = svc.HandleTurn(ctx, manager.TurnInput{Text: exact, UserID: "u", SessionID: "s"})
	assert.NoError(t, err, "2000 runes is within bounds")
}

func TestHandleTurnGeneratesIDsWhenMissing(t *testing.T) {
	svc, _, _ := newTestService(t, llm.NewMockLLM(), &stubCatalog{})

	reply, err := svc.HandleTurn(context.Background(), manager.TurnInput{Text: "halo"})
	require.NoError(t, err)
	assert.NotEmpty(t, reply.SessionID)
}

func TestHandleTurnClassificationFailureFallsBackToReflection(t *testing.T) {
	client := &funcLLM{
		generateJSON: func(ctx context.Context, system, user string) ([]byte, error) {
			return nil, errors.New("llm unavailable")
		},
	}
	svc, _, _ := newTestService(t, client, &stubCatalog{})

	reply, err := svc.HandleTurn(context.Background(), manager.TurnInput{
		Text:      "cariin musik dong",
		UserID:    "user-1",
		SessionID: "sess-1",
	})
	require.NoError(t, err, "classification failure must not fail the turn")

	assert.Equal(t, domain.AgentReflection, reply.AgentUsed)
	assert.Equal(t, domain.MoodNeutral, reply.MoodDetected)
	assert.NotEmpty(t, reply.Response)
}

func TestHandleTurnUnparseableClassification(t *testing.T) {
	client := &funcLLM{
		generateJSON: func(ctx context.Context, system, user string) ([]byte, error) {
			return []byte("not json at all"), nil
		},
	}
	svc, _, _ := newTestService(t, client, &stubCatalog{})

	reply, err := svc.HandleTurn(context.Background(), manager.TurnInput{
		Text:      "apa kabar",
		UserID:    "user-1",
		SessionID: "sess-1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AgentReflection, reply.AgentUsed)
}

func TestHandleTurnSpecialistFailureUsesEmptyPayload(t *testing.T) {
	svc, _, _ := newTestService(t, llm.NewMockLLM(), &stubCatalog{err: errors.New("spotify down")})

	reply, err := svc.HandleTurn(context.Background(), manager.TurnInput{
		Text:      "cariin musik buat nemenin kerja",
		UserID:    "user-1",
		SessionID: "sess-1",
	})
	require.NoError(t, err, "specialist failure must not fail the turn")

	assert.Equal(t, domain.AgentMusic, reply.AgentUsed, "the selected agent is still reported")
	music, ok := reply.SpecialistData.(*domain.MusicPayload)
	require.True(t, ok, "payload shape matches the selected agent")
	assert.Empty(t, music.Recommendations)
	assert.NotEmpty(t, reply.Response)
}

func TestHandleTurnPersonalizationFailureUsesTemplate(t *testing.T) {
	client := &funcLLM{
		generateText: func(ctx context.Context, system, user string) (string, error) {
			return "", errors.New("llm unavailable")
		},
	}
	svc, _, _ := newTestService(t, client, &stubCatalog{tracks: calmTracks(3)})

	reply, err := svc.HandleTurn(context.Background(), manager.TurnInput{
		Text:      "minta lagu yang tenang",
		UserID:    "user-1",
		SessionID: "sess-1",
	})
	require.NoError(t, err)

	assert.False(t, reply.Personalized)
	assert.NotEmpty(t, reply.Response, "templated fallback still answers")
	music := reply.SpecialistData.(*domain.MusicPayload)
	assert.NotEmpty(t, music.Recommendations, "specialist data is preserved")
}

func TestHandleTurnPersistsProfileAndConversation(t *testing.T) {
	svc, profiles, conversations := newTestService(t, llm.NewMockLLM(), &stubCatalog{})
	ctx := context.Background()

	_, err := svc.HandleTurn(ctx, manager.TurnInput{
		Text:      "Aku sedang sedih hari ini",
		UserID:    "user-1",
		SessionID: "sess-1",
	})
	require.NoError(t, err)

	profile, err := profiles.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, profile.MoodHistory, 1)
	assert.Equal(t, domain.Mood("sedih"), profile.MoodHistory[0].Mood)

	turns, err := conversations.History(ctx, "sess-1", 10)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "Aku sedang sedih hari ini", turns[0].UserMessage)
	assert.Equal(t, domain.AgentReflection, turns[0].AgentUsed)
}

func TestHandleTurnMoodHistoryStaysBounded(t *testing.T) {
	svc, profiles, _ := newTestService(t, llm.NewMockLLM(), &stubCatalog{})
	ctx := context.Background()

	for i := 0; i < domain.MoodHistoryCap+1; i++ {
		_, err := svc.HandleTurn(ctx, manager.TurnInput{
			Text:      fmt.Sprintf("hari ini aku sedih, cerita ke-%d", i),
			UserID:    "user-1",
			SessionID: "sess-1",
		})
		require.NoError(t, err)
	}

	profile, err := profiles.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, profile.MoodHistory, domain.MoodHistoryCap)
}

func TestMusicTurnRecordsPreferredGenre(t *testing.T) {
	svc, profiles, _ := newTestService(t, llm.NewMockLLM(), &stubCatalog{tracks: calmTracks(4)})
	ctx := context.Background()

	_, err := svc.HandleTurn(ctx, manager.TurnInput{
		Text:      "Rekomendasikan musik yang menenangkan",
		UserID:    "user-1",
		SessionID: "sess-1",
	})
	require.NoError(t, err)

	profile, err := profiles.Get(ctx, "user-1")
	require.NoError(t, err)
	// "menenangkan" classifies as calm, which maps to ambient.
	assert.Contains(t, profile.PreferredGenres, "ambient")
}

func TestRecordFeedback(t *testing.T) {
	svc, profiles, _ := newTestService(t, llm.NewMockLLM(), &stubCatalog{})
	ctx := context.Background()

	// Seed the session so feedback can resolve its user.
	_, err := svc.HandleTurn(ctx, manager.TurnInput{
		Text:      "halo",
		UserID:    "user-1",
		SessionID: "sess-1",
	})
	require.NoError(t, err)

	err = svc.RecordFeedback(ctx, manager.FeedbackInput{
		SessionID: "sess-1",
		AgentType: "music",
		Feedback:  "love",
		Genre:     "jazz",
	})
	require.NoError(t, err)

	profile, err := profiles.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Contains(t, profile.PreferredGenres, "jazz", "the genre lands on the session's user")

	_, err = profiles.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound, "the session id itself must not grow a profile")

	err = svc.RecordFeedback(ctx, manager.FeedbackInput{
		SessionID: "sess-1",
		Feedback:  "dislike",
		Genre:     "metal",
	})
	require.NoError(t, err)

	profile, err = profiles.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.NotContains(t, profile.PreferredGenres, "metal")
}

func TestRecordFeedbackUnknownSession(t *testing.T) {
	svc, _, _ := newTestService(t, llm.NewMockLLM(), &stubCatalog{})

	err := svc.RecordFeedback(context.Background(), manager.FeedbackInput{
		SessionID: "no-such-session",
		Feedback:  "like",
		Genre:     "jazz",
	})
	assert.True(t, domain.IsValidation(err))
}

func TestSessionAnalytics(t *testing.T) {
	svc, _, _ := newTestService(t, llm.NewMockLLM(), &stubCatalog{})
	ctx := context.Background()

	for _, text := range []string{"Aku sedih banget", "masih sedih", "hari ini lumayan"} {
		_, err := svc.HandleTurn(ctx, manager.TurnInput{
			Text:      text,
			UserID:    "user-1",
			SessionID: "sess-1",
		})
		require.NoError(t, err)
	}

	analytics, err := svc.SessionAnalytics(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 3, analytics.TotalConversations)
	assert.Equal(t, 2, analytics.MoodCounts["sedih"])
	assert.Equal(t, 3, analytics.AgentCounts["reflection"])
	require.NotNil(t, analytics.UserProfile)
	assert.Equal(t, domain.UserID("user-1"), analytics.UserProfile.UserID)
}

func TestHandleTurnMergesCallerProfileFields(t *testing.T) {
	svc, profiles, _ := newTestService(t, llm.NewMockLLM(), &stubCatalog{})
	ctx := context.Background()

	_, err := svc.HandleTurn(ctx, manager.TurnInput{
		Text:        "halo, apa kabar",
		UserID:      "user-1",
		SessionID:   "sess-1",
		UserName:    "Rani",
		Preferences: map[string]string{"language": "id"},
	})
	require.NoError(t, err)

	profile, err := profiles.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Rani", profile.DisplayName)
	assert.Equal(t, "id", profile.Preferences["language"])
}

func TestHandleTurnDeterministicWithMock(t *testing.T) {
	svc, _, _ := newTestService(t, llm.NewMockLLM(), &stubCatalog{})
	ctx := context.Background()

	in := manager.TurnInput{Text: "Aku sedang sedih hari ini", UserID: "user-1", SessionID: "sess-1"}

	first, err := svc.HandleTurn(ctx, in)
	require.NoError(t, err)
	second, err := svc.HandleTurn(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, first.Response, second.Response)
	assert.Equal(t, first.AgentUsed, second.AgentUsed)
}
