package domain

import "time"

// MoodHistoryCap bounds the per-user mood history. Oldest entries are
// evicted first once the cap is reached.
const MoodHistoryCap = 30

// MoodEntry is one observed mood with the agent that handled the turn.
type MoodEntry struct {
	Mood      Mood      `json:"mood"`
	AgentUsed AgentKind `json:"agent_used"`
	At        time.Time `json:"at"`
}

// SessionProfile is the long-lived per-user state used to bias
// classification and greetings. Keyed by UserID; mutated once per turn,
// after the personalizer succeeds or falls back.
type SessionProfile struct {
	UserID          UserID            `json:"user_id"`
	DisplayName     string            `json:"display_name,omitempty"`
	PreferredGenres []string          `json:"preferred_genres,omitempty"`
	MoodHistory     []MoodEntry       `json:"mood_history"`
	Preferences     map[string]string `json:"preferences,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	LastActive      time.Time         `json:"last_active"`
}

// NewSessionProfile returns the default profile for a user.
func NewSessionProfile(userID UserID, now time.Time) *SessionProfile {
	return &SessionProfile{
		UserID:      userID,
		Preferences: make(map[string]string),
		CreatedAt:   now,
		LastActive:  now,
	}
}

// TurnOutcome is what a finished turn contributes back to the profile.
type TurnOutcome struct {
	Mood          Mood
	AgentUsed     AgentKind
	ObservedGenre string
	DisplayName   string
	Preferences   map[string]string
	At            time.Time
}

// RecordTurn merges a turn outcome into the profile: mood history is
// appended with FIFO eviction at MoodHistoryCap, preference fields are
// last-writer-wins.
func (p *SessionProfile) RecordTurn(out TurnOutcome) {
	if out.Mood != "" {
		p.MoodHistory = append(p.MoodHistory, MoodEntry{
			Mood:      out.Mood,
			AgentUsed: out.AgentUsed,
			At:        out.At,
		})
		if n := len(p.MoodHistory) - MoodHistoryCap; n > 0 {
			p.MoodHistory = append(p.MoodHistory[:0:0], p.MoodHistory[n:]...)
		}
	}
	if out.DisplayName != "" {
		p.DisplayName = out.DisplayName
	}
	if out.ObservedGenre != "" {
		p.AddPreferredGenre(out.ObservedGenre)
	}
	for k, v := range out.Preferences {
		if p.Preferences == nil {
			p.Preferences = make(map[string]string)
		}
		p.Preferences[k] = v
	}
	p.LastActive = out.At
}

// AddPreferredGenre records a genre signal, keeping the set duplicate-free
// with the most recent signal first.
func (p *SessionProfile) AddPreferredGenre(genre string) {
	genres := []string{genre}
	for _, g := range p.PreferredGenres {
		if g != genre {
			genres = append(genres, g)
		}
	}
	p.PreferredGenres = genres
}

// LastMood returns the most recent mood entry, or "" when history is empty.
func (p *SessionProfile) LastMood() Mood {
	if len(p.MoodHistory) == 0 {
		return ""
	}
	return p.MoodHistory[len(p.MoodHistory)-1].Mood
}
