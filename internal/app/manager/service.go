package manager

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hati-ai/hati-agent/internal/domain"
	"github.com/hati-ai/hati-agent/internal/observability"
)

// Service is the orchestrator: one HandleTurn call runs the full
// classify → specialist → personalize pipeline for a message. Every
// stage after validation degrades instead of failing, so a caller with
// a well-formed message always gets a Reply.
type Service struct {
	llm           domain.LLMClient
	specialists   map[domain.AgentKind]domain.Specialist
	profiles      domain.ProfileStore
	conversations domain.ConversationStore
	metrics       *observability.Metrics
	now           func() time.Time
}

func NewService(
	llm domain.LLMClient,
	profiles domain.ProfileStore,
	conversations domain.ConversationStore,
	metrics *observability.Metrics,
	specialists ...domain.Specialist,
) *Service {
	registry := make(map[domain.AgentKind]domain.Specialist, len(specialists))
	for _, sp := range specialists {
		registry[sp.Kind()] = sp
	}

	return &Service{
		llm:           llm,
		specialists:   registry,
		profiles:      profiles,
		conversations: conversations,
		metrics:       metrics,
		now:           time.Now,
	}
}

// AgentsRegistered backs the health endpoint.
func (s *Service) AgentsRegistered() int {
	return len(s.specialists)
}

// PingLLM backs the health endpoint's llm_connected flag.
func (s *Service) PingLLM(ctx context.Context) error {
	return s.llm.Ping(ctx)
}

type TurnInput struct {
	Text      string
	UserID    domain.UserID
	SessionID domain.SessionID

	// Optional caller-supplied profile fields, merged at end of turn.
	UserName    string
	Preferences map[string]string
}

// HandleTurn processes one user message end to end. Only a
// *ValidationError ever reaches the caller; every downstream failure is
// absorbed by a stage fallback and logged.
func (s *Service) HandleTurn(ctx context.Context, in TurnInput) (*domain.Reply, error) {
	start := s.now()

	if err := validateTurn(&in); err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With(
		"session_id", in.SessionID,
		"user_id", in.UserID,
	)
	log.Info("handling turn", "message_chars", utf8.RuneCountInString(in.Text))

	degraded := false

	profile := s.loadProfile(ctx, in.UserID, log)

	// Stage 1: classify.
	cls, err := s.classify(ctx, in.Text, profile)
	if err != nil {
		log.Warn("classification failed, defaulting to reflection", "error", err)
		cls = defaultClassification()
		degraded = true
	}
	cls.Parameters.Profile = profile
	log.Info("message classified", "agent", cls.Agent, "mood", cls.Mood, "rationale", cls.Rationale)

	// Stage 2: specialist.
	payload := s.invokeSpecialist(ctx, cls, in.Text, log, &degraded)

	// Stage 3: personalize.
	response, err := s.personalize(ctx, in.Text, payload, profile)
	personalized := err == nil
	if err != nil {
		log.Warn("personalization failed, using templated response", "error", err)
		response = fallbackResponse(payload)
		degraded = true
	}

	elapsed := s.now().Sub(start).Seconds()

	s.finishTurn(ctx, in, cls, payload, response, profile, log)
	s.metrics.ObserveTurn(string(cls.Agent), elapsed, degraded)

	return &domain.Reply{
		Response:       response,
		AgentUsed:      cls.Agent,
		MoodDetected:   cls.Mood,
		SpecialistData: payload,
		ProcessingTime: elapsed,
		SessionID:      in.SessionID,
		Personalized:   personalized,
	}, nil
}

func validateTurn(in *TurnInput) error {
	if strings.TrimSpace(in.Text) == "" {
		return &domain.ValidationError{Field: "message", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(in.Text) > domain.MaxMessageChars {
		return &domain.ValidationError{Field: "message", Reason: "exceeds maximum length"}
	}
	if in.UserID == "" {
		in.UserID = domain.UserID(uuid.NewString())
	}
	if in.SessionID == "" {
		in.SessionID = domain.SessionID(uuid.NewString())
	}
	return nil
}

// loadProfile is get-or-create: a missing or unreadable profile becomes
// a fresh default, never a turn error.
func (s *Service) loadProfile(ctx context.Context, userID domain.UserID, log *slog.Logger) *domain.SessionProfile {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) {
			log.Warn("profile load failed, using default", "error", err)
		}
		profile = domain.NewSessionProfile(userID, s.now())
	}
	return profile
}

func (s *Service) invokeSpecialist(ctx context.Context, cls *domain.Classification, text string, log *slog.Logger, degraded *bool) domain.SpecialistPayload {
	specialist, ok := s.specialists[cls.Agent]
	if !ok {
		log.Warn("no specialist registered, using empty payload", "agent", cls.Agent)
		*degraded = true
		return domain.EmptyPayload(cls.Agent, cls.Mood)
	}

	payload, err := specialist.Process(ctx, text, cls.Parameters)
	if err != nil || payload == nil {
		log.Warn("specialist failed, using empty payload", "agent", cls.Agent, "error", err)
		*degraded = true
		return domain.EmptyPayload(cls.Agent, cls.Mood)
	}
	return payload
}

// finishTurn persists the turn and updates the profile. Both writes are
// best-effort: storage trouble never fails a turn that already produced
// a response.
func (s *Service) finishTurn(
	ctx context.Context,
	in TurnInput,
	cls *domain.Classification,
	payload domain.SpecialistPayload,
	response string,
	profile *domain.SessionProfile,
	log *slog.Logger,
) {
	now := s.now()

	outcome := domain.TurnOutcome{
		Mood:        cls.Mood,
		AgentUsed:   cls.Agent,
		DisplayName: in.UserName,
		Preferences: in.Preferences,
		At:          now,
	}
	if music, ok := payload.(*domain.MusicPayload); ok && music.Genre != "" && music.TotalFound > 0 {
		outcome.ObservedGenre = music.Genre
	}
	profile.RecordTurn(outcome)
	if err := s.profiles.Update(ctx, profile); err != nil {
		log.Warn("profile update failed", "error", err)
	}

	agentData, err := json.Marshal(payload)
	if err != nil {
		agentData = []byte("{}")
	}
	turn := &domain.ConversationTurn{
		SessionID:    in.SessionID,
		UserID:       in.UserID,
		UserMessage:  in.Text,
		BotResponse:  response,
		MoodDetected: cls.Mood,
		AgentUsed:    cls.Agent,
		AgentData:    agentData,
		CreatedAt:    now,
	}
	if err := s.conversations.SaveTurn(ctx, turn); err != nil {
		log.Warn("turn save failed", "error", err)
	}
}

// ─────────────────────────────────────────
// Feedback
// ─────────────────────────────────────────

type FeedbackInput struct {
	SessionID domain.SessionID
	AgentType string
	TrackID   string
	Feedback  string
	Genre     string
}

var positiveFeedback = map[string]bool{"like": true, "love": true, "great": true}

// RecordFeedback folds explicit feedback back into the profile of the
// user who spoke last in the session. Positive music feedback with a
// genre becomes a preferred-genre signal.
func (s *Service) RecordFeedback(ctx context.Context, in FeedbackInput) error {
	if in.SessionID == "" {
		return &domain.ValidationError{Field: "session_id", Reason: "must not be empty"}
	}

	log := observability.LoggerFromContext(ctx).With("session_id", in.SessionID)

	userID, err := s.sessionUser(ctx, in.SessionID)
	if err != nil {
		return err
	}
	log.Info("recording feedback", "user_id", userID, "agent_type", in.AgentType, "feedback", in.Feedback)

	if !positiveFeedback[strings.ToLower(in.Feedback)] || in.Genre == "" {
		return nil
	}

	profile := s.loadProfile(ctx, userID, log)
	profile.AddPreferredGenre(in.Genre)
	profile.LastActive = s.now()

	if err := s.profiles.Update(ctx, profile); err != nil {
		log.Warn("profile update from feedback failed", "error", err)
	}
	return nil
}

// sessionUser resolves a session to the user who spoke last in it.
func (s *Service) sessionUser(ctx context.Context, sessionID domain.SessionID) (domain.UserID, error) {
	turns, err := s.conversations.History(ctx, sessionID, 1)
	if err != nil {
		return "", err
	}
	if len(turns) == 0 {
		return "", &domain.ValidationError{Field: "session_id", Reason: "unknown session"}
	}
	return turns[len(turns)-1].UserID, nil
}

// ─────────────────────────────────────────
// Analytics
// ─────────────────────────────────────────

type Analytics struct {
	SessionID          domain.SessionID       `json:"session_id"`
	TotalConversations int                    `json:"total_conversations"`
	MoodCounts         map[domain.Mood]int    `json:"mood_counts"`
	AgentCounts        map[string]int         `json:"agent_counts"`
	LastMood           domain.Mood            `json:"last_mood,omitempty"`
	UserProfile        *domain.SessionProfile `json:"user_profile,omitempty"`
}

// SessionAnalytics aggregates persisted turns for one session, plus the
// profile of the user who spoke last in it.
func (s *Service) SessionAnalytics(ctx context.Context, sessionID domain.SessionID) (*Analytics, error) {
	turns, err := s.conversations.History(ctx, sessionID, 1000)
	if err != nil {
		return nil, err
	}

	out := &Analytics{
		SessionID:   sessionID,
		MoodCounts:  make(map[domain.Mood]int),
		AgentCounts: make(map[string]int),
	}
	var lastUser domain.UserID
	for _, t := range turns {
		out.TotalConversations++
		if t.MoodDetected != "" {
			out.MoodCounts[t.MoodDetected]++
			out.LastMood = t.MoodDetected
		}
		if t.AgentUsed != "" {
			out.AgentCounts[string(t.AgentUsed)]++
		}
		lastUser = t.UserID
	}

	if lastUser != "" {
		if profile, err := s.profiles.Get(ctx, lastUser); err == nil {
			out.UserProfile = profile
		}
	}
	return out, nil
}
