package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hati-ai/hati-agent/internal/domain"
)

// Store is the GCP backend: profiles in a top-level collection keyed by
// user id, turns in a per-session subcollection. One store implements
// ProfileStore and ConversationStore.
type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store for the given project
// (HATI_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) profileDoc(userID domain.UserID) *firestore.DocumentRef {
	return s.client.Collection("profiles").Doc(string(userID))
}

func (s *Store) turnsCol(sessionID domain.SessionID) *firestore.CollectionRef {
	return s.client.Collection("sessions").Doc(string(sessionID)).Collection("turns")
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type moodEntryDoc struct {
	Mood      string    `firestore:"mood"`
	AgentUsed string    `firestore:"agent_used"`
	At        time.Time `firestore:"at"`
}

type profileDoc struct {
	DisplayName     string            `firestore:"display_name"`
	PreferredGenres []string          `firestore:"preferred_genres"`
	MoodHistory     []moodEntryDoc    `firestore:"mood_history"`
	Preferences     map[string]string `firestore:"preferences"`
	CreatedAt       time.Time         `firestore:"created_at"`
	LastActive      time.Time         `firestore:"last_active"`
}

type turnDoc struct {
	UserID       string    `firestore:"user_id"`
	UserMessage  string    `firestore:"user_message"`
	BotResponse  string    `firestore:"bot_response"`
	MoodDetected string    `firestore:"mood_detected"`
	AgentUsed    string    `firestore:"agent_used"`
	AgentData    string    `firestore:"agent_data"`
	CreatedAt    time.Time `firestore:"created_at"`
}

// ─────────────────────────────────────────
// ProfileStore implementation
// ─────────────────────────────────────────

func (s *Store) Get(ctx context.Context, userID domain.UserID) (*domain.SessionProfile, error) {
	snap, err := s.profileDoc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("firestore get profile: %w", err)
	}

	var doc profileDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore decode profile: %w", err)
	}

	history := make([]domain.MoodEntry, 0, len(doc.MoodHistory))
	for _, e := range doc.MoodHistory {
		history = append(history, domain.MoodEntry{
			Mood:      domain.Mood(e.Mood),
			AgentUsed: domain.AgentKind(e.AgentUsed),
			At:        e.At,
		})
	}

	return &domain.SessionProfile{
		UserID:          userID,
		DisplayName:     doc.DisplayName,
		PreferredGenres: doc.PreferredGenres,
		MoodHistory:     history,
		Preferences:     doc.Preferences,
		CreatedAt:       doc.CreatedAt,
		LastActive:      doc.LastActive,
	}, nil
}

func (s *Store) Update(ctx context.Context, profile *domain.SessionProfile) error {
	history := make([]moodEntryDoc, 0, len(profile.MoodHistory))
	for _, e := range profile.MoodHistory {
		history = append(history, moodEntryDoc{
			Mood:      string(e.Mood),
			AgentUsed: string(e.AgentUsed),
			At:        e.At,
		})
	}

	doc := profileDoc{
		DisplayName:     profile.DisplayName,
		PreferredGenres: profile.PreferredGenres,
		MoodHistory:     history,
		Preferences:     profile.Preferences,
		CreatedAt:       profile.CreatedAt,
		LastActive:      profile.LastActive,
	}

	_, err := s.profileDoc(profile.UserID).Set(ctx, doc)
	if err != nil {
		return fmt.Errorf("firestore update profile: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────
// ConversationStore implementation
// ─────────────────────────────────────────

func (s *Store) SaveTurn(ctx context.Context, turn *domain.ConversationTurn) error {
	doc := turnDoc{
		UserID:       string(turn.UserID),
		UserMessage:  turn.UserMessage,
		BotResponse:  turn.BotResponse,
		MoodDetected: string(turn.MoodDetected),
		AgentUsed:    string(turn.AgentUsed),
		AgentData:    string(turn.AgentData),
		CreatedAt:    turn.CreatedAt,
	}

	_, _, err := s.turnsCol(turn.SessionID).Add(ctx, doc)
	if err != nil {
		return fmt.Errorf("firestore save turn: %w", err)
	}
	return nil
}

func (s *Store) History(ctx context.Context, sessionID domain.SessionID, limit int) ([]*domain.ConversationTurn, error) {
	q := s.turnsCol(sessionID).OrderBy("created_at", firestore.Asc)
	if limit > 0 {
		q = s.turnsCol(sessionID).OrderBy("created_at", firestore.Desc).Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.ConversationTurn
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore history: %w", err)
		}

		var doc turnDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("firestore decode turn: %w", err)
		}

		out = append(out, &domain.ConversationTurn{
			SessionID:    sessionID,
			UserID:       domain.UserID(doc.UserID),
			UserMessage:  doc.UserMessage,
			BotResponse:  doc.BotResponse,
			MoodDetected: domain.Mood(doc.MoodDetected),
			AgentUsed:    domain.AgentKind(doc.AgentUsed),
			AgentData:    []byte(doc.AgentData),
			CreatedAt:    doc.CreatedAt,
		})
	}

	// The limited query runs newest-first; callers expect newest last.
	if limit > 0 {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}
