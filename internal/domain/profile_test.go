package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTurnEvictsOldestMoods(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p := NewSessionProfile("user-1", now)

	for i := 0; i < MoodHistoryCap+5; i++ {
		p.RecordTurn(TurnOutcome{
			Mood:      Mood(fmt.Sprintf("mood-%d", i)),
			AgentUsed: AgentReflection,
			At:        now.Add(time.Duration(i) * time.Minute),
		})
	}

	require.Len(t, p.MoodHistory, MoodHistoryCap)
	assert.Equal(t, Mood("mood-5"), p.MoodHistory[0].Mood, "oldest entries are evicted first")
	assert.Equal(t, Mood(fmt.Sprintf("mood-%d", MoodHistoryCap+4)), p.LastMood())
}

func TestRecordTurnEmptyMoodSkipsHistory(t *testing.T) {
	now := time.Now()
	p := NewSessionProfile("user-1", now)

	p.RecordTurn(TurnOutcome{AgentUsed: AgentMusic, At: now})
	assert.Empty(t, p.MoodHistory)
	assert.Equal(t, now, p.LastActive)
}

func TestAddPreferredGenreDedupes(t *testing.T) {
	p := NewSessionProfile("user-1", time.Now())

	p.AddPreferredGenre("jazz")
	p.AddPreferredGenre("indie")
	p.AddPreferredGenre("jazz")

	assert.Equal(t, []string{"jazz", "indie"}, p.PreferredGenres)
}

func TestParseAgentKindFallsBackToReflection(t *testing.T) {
	assert.Equal(t, AgentMusic, ParseAgentKind("music"))
	assert.Equal(t, AgentReflection, ParseAgentKind("weather"))
	assert.Equal(t, AgentReflection, ParseAgentKind(""))
}

func TestEmptyPayloadMatchesKind(t *testing.T) {
	for _, kind := range AgentKinds {
		payload := EmptyPayload(kind, "sedih")
		assert.Equal(t, kind, payload.Kind())
	}
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(&ValidationError{Field: "message", Reason: "empty"}))
	assert.False(t, IsValidation(&ClassificationError{Err: fmt.Errorf("boom")}))
}
