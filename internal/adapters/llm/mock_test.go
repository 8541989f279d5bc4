package llm

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClassification(t *testing.T) {
	mock := NewMockLLM()
	ctx := context.Background()

	cases := []struct {
		message string
		agent   string
		mood    string
	}{
		{"Aku sedang sedih hari ini", "reflection", "sedih"},
		{"Rekomendasikan musik yang menenangkan", "music", "calm"},
		{"kasih aku jokes dong", "entertainment", "neutral"},
		{"rekomendasi tempat jalan-jalan di Bandung", "relaxation", "neutral"},
	}

	for _, tc := range cases {
		raw, err := mock.GenerateJSON(ctx, "system", tc.message)
		require.NoError(t, err)

		var out struct {
			Agent string `json:"agent"`
			Mood  string `json:"mood"`
		}
		require.NoError(t, json.Unmarshal(raw, &out), "mock must emit valid JSON")
		assert.Equal(t, tc.agent, out.Agent, tc.message)
		assert.Equal(t, tc.mood, out.Mood, tc.message)
	}
}

func TestMockGenerateText(t *testing.T) {
	mock := NewMockLLM()

	text, err := mock.GenerateText(context.Background(), "system", "halo")
	require.NoError(t, err)
	assert.NotEmpty(t, text)
}

func TestMockGenerateTextKeepsRunesIntact(t *testing.T) {
	mock := NewMockLLM()

	long := strings.Repeat("Aduh 😔", 15)
	text, err := mock.GenerateText(context.Background(), "system", long)
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(text), "long multi-byte input must not be cut mid-rune")
}
