package domain

import "time"

type UserID string
type SessionID string

// AgentKind identifies one of the fixed specialist agents.
type AgentKind string

const (
	AgentMusic         AgentKind = "music"
	AgentEntertainment AgentKind = "entertainment"
	AgentRelaxation    AgentKind = "relaxation"
	AgentReflection    AgentKind = "reflection"
)

// AgentKinds lists every registered specialist, in dispatch order.
var AgentKinds = []AgentKind{AgentMusic, AgentEntertainment, AgentRelaxation, AgentReflection}

// ParseAgentKind maps free-form classifier output onto the fixed agent set.
// Anything unrecognized falls back to reflection, never an error.
func ParseAgentKind(s string) AgentKind {
	switch AgentKind(s) {
	case AgentMusic, AgentEntertainment, AgentRelaxation, AgentReflection:
		return AgentKind(s)
	default:
		return AgentReflection
	}
}

// Mood is an open label set: the classifier emits free-form labels
// ("sedih", "happy", "stressed", ...) and specialists map them onto
// their own vocabularies. Only the agent set is closed.
type Mood string

const MoodNeutral Mood = "neutral"

// Message is one inbound user message. Immutable once received.
type Message struct {
	Text      string
	UserID    UserID
	SessionID SessionID
	CreatedAt time.Time
}

// MaxMessageChars bounds inbound message length, counted in runes.
const MaxMessageChars = 2000

// Classification is the result of the first LLM call: which specialist
// handles the turn, the detected mood and any extracted parameters.
// Produced once per message, never persisted.
type Classification struct {
	Agent      AgentKind
	Mood       Mood
	Parameters Parameters
	Rationale  string
}

// Parameters carries what the classifier extracted from the message for
// the selected specialist. Fields the specialist does not need stay zero.
type Parameters struct {
	Mood      Mood
	Genre     string
	Location  string
	PlaceType string // outdoor/indoor/mixed

	// ContentType narrows the entertainment agent: jokes/movies/gifs/mixed.
	ContentType string
	Intensity   string // low/medium/high

	// Profile is the caller's session profile, when available.
	Profile *SessionProfile
}

// Reply is the full envelope returned for one turn.
type Reply struct {
	Response       string            `json:"response"`
	AgentUsed      AgentKind         `json:"agent_used"`
	MoodDetected   Mood              `json:"mood_detected"`
	SpecialistData SpecialistPayload `json:"specialist_data"`
	ProcessingTime float64           `json:"processing_time"`
	SessionID      SessionID         `json:"session_id"`
	Personalized   bool              `json:"personalized"`
}

// ConversationTurn is one persisted request/response cycle.
type ConversationTurn struct {
	SessionID    SessionID
	UserID       UserID
	UserMessage  string
	BotResponse  string
	MoodDetected Mood
	AgentUsed    AgentKind
	AgentData    []byte // marshaled SpecialistPayload
	CreatedAt    time.Time
}
