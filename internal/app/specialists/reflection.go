package specialists

import (
	"context"

	"github.com/hati-ai/hati-agent/internal/domain"
	"github.com/hati-ai/hati-agent/internal/observability"
)

// ReflectionAgent is the default specialist for emotional conversation.
// It returns a minimal payload; the empathetic text itself comes from
// the personalization step.
type ReflectionAgent struct{}

func NewReflectionAgent() *ReflectionAgent {
	return &ReflectionAgent{}
}

func (a *ReflectionAgent) Kind() domain.AgentKind {
	return domain.AgentReflection
}

func (a *ReflectionAgent) Process(ctx context.Context, userMessage string, params domain.Parameters) (domain.SpecialistPayload, error) {
	mood := params.Mood
	if mood == "" {
		mood = domain.MoodNeutral
	}

	observability.WithAgent("reflection").Info("handling reflective turn", "mood", mood)

	return &domain.ReflectionPayload{
		MoodAnalysis:     mood,
		ConversationType: "emotional_support",
	}, nil
}
