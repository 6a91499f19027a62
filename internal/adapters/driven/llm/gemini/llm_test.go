package gemini

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

func TestNewLLMService_RequiresKey(t *testing.T) {
	_, err := NewLLMService(context.Background(), Config{})
	assert.Error(t, err)
}

func TestSafetySettings(t *testing.T) {
	settings := SafetySettings()
	require.Len(t, settings, 4)

	categories := make([]genai.HarmCategory, len(settings))
	for i, s := range settings {
		assert.Equal(t, genai.HarmBlockMediumAndAbove, s.Threshold)
		categories[i] = s.Category
	}
	assert.ElementsMatch(t, []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}, categories)
}

func TestClassify_Blocked(t *testing.T) {
	err := classify(fmt.Errorf("generate: %w", &genai.BlockedError{}))
	assert.ErrorIs(t, err, domain.ErrContentBlocked)
	assert.NotErrorIs(t, err, domain.ErrUpstream)
}

func TestClassify_Transport(t *testing.T) {
	err := classify(errors.New("connection reset"))
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.NotErrorIs(t, err, domain.ErrContentBlocked)
}

func TestClassify_Cancelled(t *testing.T) {
	err := classify(context.Canceled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrUpstream)
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("The video "), genai.Text("explains cats.")}},
		}},
	}
	text, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, "The video explains cats.", text)
}

func TestResponseText_Errors(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want error
	}{
		{"nil response", nil, domain.ErrUpstream},
		{"no candidates", &genai.GenerateContentResponse{}, domain.ErrUpstream},
		{"nil content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}, domain.ErrUpstream},
		{"no text parts", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}},
		}}}, domain.ErrUpstream},
		{"safety finish", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
			FinishReason: genai.FinishReasonSafety,
		}}}, domain.ErrContentBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := responseText(tt.resp)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
