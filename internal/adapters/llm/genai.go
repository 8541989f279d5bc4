package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient implements domain.LLMClient on Vertex AI (Gemini). The
// classifier path requests strict JSON output; the personalizer path is
// plain text with a higher temperature.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

type GeminiConfig struct {
	ProjectID string
	Location  string
	ModelName string
}

// NewGeminiClient creates a Gemini-backed LLM client.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.ProjectID == "" || cfg.Location == "" {
		return nil, fmt.Errorf("gemini client requires project and location")
	}

	modelName := cfg.ModelName
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.ProjectID,
		Location: cfg.Location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// GenerateText runs a plain completion for the personalizer.
func (g *GeminiClient) GenerateText(ctx context.Context, system, user string) (string, error) {
	temp := float32(0.8)
	topP := float32(0.9)
	outputTokens := int32(1024)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   outputTokens,
	}

	contents := []*genai.Content{genai.NewContentFromText(user, genai.RoleUser)}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return text, nil
}

// GenerateJSON runs a completion constrained to a JSON object, used by the
// classifier. Low temperature keeps delegation stable.
func (g *GeminiClient) GenerateJSON(ctx context.Context, system, user string) ([]byte, error) {
	temp := float32(0.3)
	outputTokens := int32(512)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       &temp,
		MaxOutputTokens:   outputTokens,
		ResponseMIMEType:  "application/json",
	}

	contents := []*genai.Content{genai.NewContentFromText(user, genai.RoleUser)}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate json: %w", err)
	}

	text := res.Text()
	if text == "" {
		return nil, fmt.Errorf("gemini returned empty json")
	}
	return []byte(text), nil
}

// Ping issues a tiny completion so the health endpoint can report whether
// the LLM service is reachable.
func (g *GeminiClient) Ping(ctx context.Context) error {
	outputTokens := int32(8)
	cfg := &genai.GenerateContentConfig{MaxOutputTokens: outputTokens}
	contents := []*genai.Content{genai.NewContentFromText("ping", genai.RoleUser)}

	_, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return fmt.Errorf("gemini ping: %w", err)
	}
	return nil
}
