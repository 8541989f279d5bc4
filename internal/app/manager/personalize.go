package manager

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hati-ai/hati-agent/internal/domain"
)

// personalize runs the second LLM call: turn the specialist payload into
// warm conversational Indonesian. Errors come back as
// *PersonalizationError; the caller substitutes a templated fallback.
func (s *Service) personalize(ctx context.Context, userMessage string, payload domain.SpecialistPayload, profile *domain.SessionProfile) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", &domain.PersonalizationError{Err: fmt.Errorf("encoding specialist data: %w", err)}
	}

	user := fmt.Sprintf(
		"User berkata: %q\nAgent yang digunakan: %s\nData specialist: %s",
		userMessage, payload.Kind(), data)
	if hints := profileHints(profile); hints != "" {
		user += "\n" + hints
	}
	user += "\n\nPersonalisasikan data ini untuk respons ke pengguna."

	text, err := s.llm.GenerateText(ctx, personalizeSystemPrompt, user)
	if err != nil {
		return "", &domain.PersonalizationError{Err: err}
	}
	if text == "" {
		return "", &domain.PersonalizationError{Err: fmt.Errorf("empty completion")}
	}
	return text, nil
}

// fallbackResponse is the templated reply when personalization fails.
// Still Indonesian, still references the payload kind, never an error
// message.
func fallbackResponse(payload domain.SpecialistPayload) string {
	switch p := payload.(type) {
	case *domain.MusicPayload:
		if len(p.Recommendations) > 0 {
			return "Aku sudah siapkan beberapa lagu yang cocok untuk mood kamu. Semoga bisa menemani harimu!"
		}
		return "Maaf, aku lagi kesulitan mencari lagu. Tapi aku tetap di sini untukmu, cerita saja dulu."
	case *domain.EntertainmentPayload:
		if p.TotalItems > 0 {
			return "Aku punya beberapa hiburan yang mungkin bisa bikin kamu tersenyum. Coba lihat ya!"
		}
		return "Koneksi hiburan sedang gangguan, tapi senyuman kamu tetap gratis kok!"
	case *domain.RelaxationPayload:
		if len(p.Places) > 0 {
			return "Aku menemukan beberapa tempat yang tenang untukmu. Semoga bisa membantu kamu rileks!"
		}
		return "Aku siapkan beberapa aktivitas menenangkan yang bisa kamu coba di rumah. Pelan-pelan saja ya."
	default:
		return "Aku di sini untuk mendengarkan kamu. Ceritakan saja apa yang kamu rasakan."
	}
}
