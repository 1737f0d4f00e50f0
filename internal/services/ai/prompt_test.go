package ai

import (
	"encoding/json"
	"testing"

	"github.com/campus-assistant-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKnowledgeBaseExcludesDrafts(t *testing.T) {
	faqs := []models.Faq{
		{Question: "Q1", Answer: "A1", Status: models.StatusPublished},
		{Question: "Q2", Answer: "A2", Status: models.StatusDraft},
		{Question: "Q3", Answer: "A3", Status: models.StatusReview},
	}

	var entries []knowledgeEntry
	require.NoError(t, json.Unmarshal([]byte(BuildKnowledgeBase(faqs)), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "Q1", entries[0].Intent)
	assert.Equal(t, models.StatusPublished, entries[0].Status)
	assert.Equal(t, "Q3", entries[1].Intent)
	assert.Equal(t, models.StatusReview, entries[1].Status)
}

func TestBuildKnowledgeBaseFallback(t *testing.T) {
	tests := []struct {
		name string
		faqs []models.Faq
	}{
		{"empty", nil},
		{"all drafts", []models.Faq{{Question: "Q", Answer: "A", Status: models.StatusDraft}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := BuildKnowledgeBase(tt.faqs)
			assert.Contains(t, kb, `"Fallback"`)
			assert.Contains(t, kb, "I don't have information about that")
		})
	}
}

func TestBuildChatSystemPromptLanguage(t *testing.T) {
	faqs := []models.Faq{{Question: "Q", Answer: "A", Status: models.StatusPublished}}

	auto := BuildChatSystemPrompt(faqs, "auto")
	assert.Contains(t, auto, "automatically detected")
	assert.NotContains(t, auto, "regardless of the user's input language")

	// Empty language behaves like auto.
	assert.Contains(t, BuildChatSystemPrompt(faqs, ""), "automatically detected")

	hindi := BuildChatSystemPrompt(faqs, "Hindi")
	assert.Contains(t, hindi, "Your final response MUST be in Hindi, regardless of the user's input language.")
}

func TestBuildChatSystemPromptEmbedsKnowledgeBase(t *testing.T) {
	faqs := []models.Faq{{Question: "Library hours?", Answer: "8 AM to 11 PM.", Status: models.StatusPublished}}

	prompt := BuildChatSystemPrompt(faqs, "auto")
	assert.Contains(t, prompt, "Library hours?")
	assert.Contains(t, prompt, "8 AM to 11 PM.")
	assert.Contains(t, prompt, `Special Rule for 'In Review' Content`)
	assert.Contains(t, prompt, `"detected_language"`)
}

func TestBuildTranslationPrompt(t *testing.T) {
	withInstructions := BuildTranslationPrompt("Keep a formal tone.")
	assert.Contains(t, withInstructions, "Keep a formal tone.")
	assert.Contains(t, withInstructions, "English and Hindi")
	assert.Contains(t, withInstructions, "[USER REVIEW NEEDED:")

	without := BuildTranslationPrompt("")
	assert.Contains(t, without, "---\nNone\n---")
}

func TestResponseSchemas(t *testing.T) {
	chat := chatResponseSchema()
	assert.Equal(t, "OBJECT", chat.Type)
	assert.ElementsMatch(t, []string{"detected_language", "intent", "response"}, chat.Required)

	translation := translationResponseSchema()
	assert.Equal(t, "OBJECT", translation.Type)
	assert.ElementsMatch(t, []string{"detected_language", "translated_text"}, translation.Required)
	assert.Equal(t, "STRING", translation.Properties["translated_text"].Type)
}
