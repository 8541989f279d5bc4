package manager

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hati-ai/hati-agent/internal/domain"
)

// classificationDTO is the wire shape of the first LLM call.
type classificationDTO struct {
	Agent      string `json:"agent"`
	Mood       string `json:"mood"`
	Parameters struct {
		Location  string `json:"location"`
		PlaceType string `json:"place_type"`
		Type      string `json:"type"`
		Intensity string `json:"intensity"`
	} `json:"parameters"`
	Reasoning string `json:"reasoning"`
}

// classify runs the first LLM call. Known session context (name, last
// mood) rides along with the message so the mood read is stable across
// turns. Errors come back as *ClassificationError; the caller
// substitutes the reflection default.
func (s *Service) classify(ctx context.Context, userMessage string, profile *domain.SessionProfile) (*domain.Classification, error) {
	user := userMessage
	if hints := profileHints(profile); hints != "" {
		user = userMessage + "\n\n" + hints
	}

	raw, err := s.llm.GenerateJSON(ctx, classifySystemPrompt, user)
	if err != nil {
		return nil, &domain.ClassificationError{Err: err}
	}

	var dto classificationDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, &domain.ClassificationError{Err: fmt.Errorf("decoding delegation response: %w", err)}
	}

	mood := domain.Mood(strings.ToLower(strings.TrimSpace(dto.Mood)))
	if mood == "" {
		mood = domain.MoodNeutral
	}

	return &domain.Classification{
		Agent: domain.ParseAgentKind(strings.ToLower(strings.TrimSpace(dto.Agent))),
		Mood:  mood,
		Parameters: domain.Parameters{
			Mood:        mood,
			Location:    dto.Parameters.Location,
			PlaceType:   dto.Parameters.PlaceType,
			ContentType: dto.Parameters.Type,
			Intensity:   dto.Parameters.Intensity,
		},
		Rationale: dto.Reasoning,
	}, nil
}

// profileHints renders the session context lines appended to both LLM
// calls. Empty for a fresh profile.
func profileHints(profile *domain.SessionProfile) string {
	if profile == nil {
		return ""
	}

	var parts []string
	if profile.DisplayName != "" {
		parts = append(parts, "Nama user: "+profile.DisplayName)
	}
	if last := profile.LastMood(); last != "" {
		parts = append(parts, "Mood terakhir user: "+string(last))
	}
	if len(parts) == 0 {
		return ""
	}
	return "Konteks sesi:\n" + strings.Join(parts, "\n")
}

// defaultClassification is the safe stand-in when the first call fails:
// the reflective agent with a neutral mood.
func defaultClassification() *domain.Classification {
	return &domain.Classification{
		Agent:      domain.AgentReflection,
		Mood:       domain.MoodNeutral,
		Parameters: domain.Parameters{Mood: domain.MoodNeutral},
		Rationale:  "fallback after classification failure",
	}
}
