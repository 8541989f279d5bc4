package domain

import (
	"context"
	"time"
)

// LLMClient defines how the application talks to the LLM service. Two
// call shapes: free text for the personalizer, strict JSON for the
// classifier. Ping backs the health endpoint's llm_connected flag.
type LLMClient interface {
	GenerateText(ctx context.Context, system, user string) (string, error)
	GenerateJSON(ctx context.Context, system, user string) ([]byte, error)
	Ping(ctx context.Context) error
}

// Specialist is one content-fetching agent invoked by the orchestrator.
// Process returns the agent's payload variant or a *ProviderError; on
// error the orchestrator substitutes EmptyPayload and the turn continues.
type Specialist interface {
	Kind() AgentKind
	Process(ctx context.Context, userMessage string, params Parameters) (SpecialistPayload, error)
}

// ProfileStore persists per-user session profiles. Get returns
// ErrProfileNotFound for unknown users; the manager creates the default.
// Update must be atomic per user.
type ProfileStore interface {
	Get(ctx context.Context, userID UserID) (*SessionProfile, error)
	Update(ctx context.Context, profile *SessionProfile) error
}

// ConversationStore persists finished turns.
type ConversationStore interface {
	SaveTurn(ctx context.Context, turn *ConversationTurn) error
	History(ctx context.Context, sessionID SessionID, limit int) ([]*ConversationTurn, error)
}

// ResponseCache is a best-effort TTL cache for provider responses.
// Misses and backend failures both surface as ok=false.
type ResponseCache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	PurgeExpired(ctx context.Context) int
}
