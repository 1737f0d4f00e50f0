package ai

import (
	"encoding/json"
	"fmt"

	"github.com/campus-assistant-go/internal/models"
)

// fallbackKnowledgeBase is used when no usable FAQ entries exist.
const fallbackKnowledgeBase = `[
    { "intent": "Fallback", "response": "I'm sorry, I don't have information about that. For more complex questions, please contact the university's main information desk." }
]`

type knowledgeEntry struct {
	Intent   string           `json:"intent"`
	Response string           `json:"response"`
	Status   models.FaqStatus `json:"status"`
}

// BuildKnowledgeBase serializes the FAQ set handed to the model as grounding
// context. Draft entries are excluded; Published and Review entries carry
// their status so the model can apply the review disclaimer rule.
func BuildKnowledgeBase(faqs []models.Faq) string {
	var usable []knowledgeEntry
	for _, faq := range faqs {
		if faq.Status == models.StatusDraft {
			continue
		}
		usable = append(usable, knowledgeEntry{
			Intent:   faq.Question,
			Response: faq.Answer,
			Status:   faq.Status,
		})
	}

	if len(usable) == 0 {
		return fallbackKnowledgeBase
	}

	data, err := json.MarshalIndent(usable, "", "  ")
	if err != nil {
		return fallbackKnowledgeBase
	}
	return string(data)
}

// BuildChatSystemPrompt builds the assistant system prompt. language is either
// "auto" (detect and mirror the user's language) or a fixed target language.
func BuildChatSystemPrompt(faqs []models.Faq, language string) string {
	knowledgeBase := BuildKnowledgeBase(faqs)

	languageInstruction := fmt.Sprintf("Your final response MUST be in %s, regardless of the user's input language.", language)
	if language == "" || language == "auto" {
		languageInstruction = "The user's language will be automatically detected. Your final response MUST be in that detected language."
	}

	return fmt.Sprintf(`You are a helpful and friendly university campus assistant chatbot.
Your primary goal is to answer student questions based on the provided knowledge base. The answers in the knowledge base are in English.

**Core Workflow:**
1.  **Analyze Query:** Understand the student's question and detect their language.
2.  **Match Intent:** Match the query to the most relevant 'intent' (question) from the knowledge base.
3.  **Retrieve English Answer:** Get the corresponding English 'response' (answer) from the matched knowledge base entry.
4.  **Translate and Respond:** Translate the English answer into the student's language and provide it in the final JSON output. If the student's language is English, no translation is needed.
5.  **Out of Scope:** If the query is outside the scope of the knowledge base, use the 'Fallback' intent and translate its response as well.

**Language Mandate:**
%s

**Special Rule for 'In Review' Content:**
If you use a response from a knowledge base item where the `+"`status`"+` is "Review", you MUST prepend your final answer (after translation) with the translated equivalent of: "Please note: This information is not completely certain and may change.\n\n"

**Knowledge Base (FAQ - All answers are in English):**
---
%s
---

**JSON Output Mandate:**
You MUST provide your answer in a single, minified JSON object. Do not add any text, markdown, or commentary before or after the JSON object. The JSON object must have these exact keys:
*   `+"`\"detected_language\"`"+`: The language you detected from the user's input (e.g., "English", "Hindi"). This should reflect the user's language.
*   `+"`\"intent\"`"+`: The 'intent' you identified from the knowledge base.
*   `+"`\"response\"`"+`: The final, student-friendly answer, which MUST be in the student's language.
`, languageInstruction, knowledgeBase)
}

// BuildTranslationPrompt builds the document translation system prompt.
func BuildTranslationPrompt(instructions string) string {
	if instructions == "" {
		instructions = "None"
	}

	return fmt.Sprintf(`You are a professional document translation assistant. Your task is to translate documents between English and Hindi.

**Core Instructions:**
1.  **Auto-Detect Language:** Automatically detect if the provided document is primarily in English or Hindi.
2.  **Translate:**
    *   If the document is English, translate it to Hindi.
    *   If it's Hindi, translate it to English.
3.  **Preserve Formatting:** Critically, preserve the original document's structure and formatting (paragraphs, headings, lists, indentation) as best as possible in the plain text output.
4.  **Follow User Instructions:** Adhere carefully to any specific instructions provided by the user.
5.  **Accuracy:** Ensure the translation is accurate and natural.
6.  **Untranslatable Content:** If a section is ambiguous, translate it as best you can and mark it clearly for user review, like: `+"`[USER REVIEW NEEDED: ...original text...]`"+`.

**User's Specific Instructions:**
---
%s
---

**JSON Output Mandate:**
Return the result as a single, minified JSON object. Do not add any extra commentary before or after the JSON.
*   `+"`\"detected_language\"`"+`: The language you detected in the source document (either "English" or "Hindi").
*   `+"`\"translated_text\"`"+`: The translated text.
`, instructions)
}

// chatResponseSchema is the response contract for assistant chat turns.
func chatResponseSchema() *Schema {
	return &Schema{
		Type: "OBJECT",
		Properties: map[string]*Schema{
			"detected_language": {Type: "STRING"},
			"intent":            {Type: "STRING"},
			"response":          {Type: "STRING"},
		},
		Required: []string{"detected_language", "intent", "response"},
	}
}

// translationResponseSchema is the response contract for translate calls.
func translationResponseSchema() *Schema {
	return &Schema{
		Type: "OBJECT",
		Properties: map[string]*Schema{
			"detected_language": {Type: "STRING"},
			"translated_text":   {Type: "STRING"},
		},
		Required: []string{"detected_language", "translated_text"},
	}
}
