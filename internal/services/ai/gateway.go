package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/campus-assistant-go/internal/config"
	"github.com/campus-assistant-go/internal/models"
	"github.com/sirupsen/logrus"
)

// Service represents the AI gateway interface
type Service interface {
	NewChat(faqs []models.Faq, history []Content, language string) *Chat
	SendMessage(ctx context.Context, chat *Chat, text string) (ChatResult, error)
	TranslateText(ctx context.Context, text, instructions string) (TranslationResult, error)
	TranslateFile(ctx context.Context, base64Data, mimeType, instructions string) (TranslationResult, error)
}

// Part is one piece of a content turn: text or inline file data.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData carries base64-encoded file bytes with their MIME type.
type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Content is one turn in a conversation, role "user" or "model".
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Schema describes the JSON shape the model is required to return.
type Schema struct {
	Type       string             `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

// Chat is an opaque handle for a grounded conversation. The system prompt and
// response contract are fixed at creation; history accumulates across sends.
type Chat struct {
	SystemInstruction string
	History           []Content
	schema            *Schema
}

// ChatReply is the structured assistant answer.
type ChatReply struct {
	DetectedLanguage string `json:"detected_language"`
	Intent           string `json:"intent"`
	Response         string `json:"response"`
}

// ChatResult is the outcome of one chat turn. Malformed marks model output
// that failed to parse against the contract; Raw then holds the original
// text and callers substitute their fallback reply.
type ChatResult struct {
	Reply     ChatReply
	Malformed bool
	Raw       string
}

// FallbackReply is the fixed substitute for malformed model output.
func FallbackReply() ChatReply {
	return ChatReply{
		DetectedLanguage: "unknown",
		Intent:           "error",
		Response:         "Sorry, I encountered an issue processing the response. Please try again.",
	}
}

// TranslationResult is the structured translate answer.
type TranslationResult struct {
	DetectedLanguage string `json:"detected_language"`
	TranslatedText   string `json:"translated_text"`
}

// Gateway implements the AI service against a Gemini-style REST endpoint
type Gateway struct {
	config     *config.AIConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewGateway creates a new AI gateway
func NewGateway(cfg *config.AIConfig, logger *logrus.Logger) (*Gateway, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ai api key is not configured")
	}

	return &Gateway{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}, nil
}

// NewChat builds a chat handle grounded on the FAQ knowledge base, seeded
// with prior conversation turns.
func (g *Gateway) NewChat(faqs []models.Faq, history []Content, language string) *Chat {
	return &Chat{
		SystemInstruction: BuildChatSystemPrompt(faqs, language),
		History:           history,
		schema:            chatResponseSchema(),
	}
}

// SendMessage sends one user turn and parses the structured reply. Parse
// failure is reported as a malformed result, not an error; transport and
// endpoint failures reject.
func (g *Gateway) SendMessage(ctx context.Context, chat *Chat, text string) (ChatResult, error) {
	contents := append(append([]Content{}, chat.History...), Content{
		Role:  "user",
		Parts: []Part{{Text: text}},
	})

	raw, err := g.generate(ctx, chat.SystemInstruction, contents, chat.schema)
	if err != nil {
		return ChatResult{}, err
	}

	var reply ChatReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		g.logger.WithField("raw", raw).Warn("Model returned malformed JSON")
		return ChatResult{Malformed: true, Raw: raw}, nil
	}

	chat.History = append(contents, Content{
		Role:  "model",
		Parts: []Part{{Text: raw}},
	})

	return ChatResult{Reply: reply}, nil
}

// TranslateText translates a raw text document in a one-shot request.
func (g *Gateway) TranslateText(ctx context.Context, text, instructions string) (TranslationResult, error) {
	contents := []Content{{
		Role:  "user",
		Parts: []Part{{Text: fmt.Sprintf("**Document to Translate:**\n---\n%s\n---", text)}},
	}}
	return g.translate(ctx, contents, instructions)
}

// TranslateFile translates an uploaded document passed as base64 inline data.
func (g *Gateway) TranslateFile(ctx context.Context, base64Data, mimeType, instructions string) (TranslationResult, error) {
	contents := []Content{{
		Role: "user",
		Parts: []Part{{InlineData: &InlineData{
			MimeType: mimeType,
			Data:     base64Data,
		}}},
	}}
	return g.translate(ctx, contents, instructions)
}

func (g *Gateway) translate(ctx context.Context, contents []Content, instructions string) (TranslationResult, error) {
	raw, err := g.generate(ctx, BuildTranslationPrompt(instructions), contents, translationResponseSchema())
	if err != nil {
		return TranslationResult{}, err
	}

	var result TranslationResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return TranslationResult{}, fmt.Errorf("failed to parse translation response: %w", err)
	}

	return result, nil
}

// generate performs a single generateContent request. No automatic retries;
// errors propagate to the caller as a single error value.
func (g *Gateway) generate(ctx context.Context, systemInstruction string, contents []Content, schema *Schema) (string, error) {
	reqBody := map[string]interface{}{
		"systemInstruction": Content{Parts: []Part{{Text: systemInstruction}}},
		"contents":          contents,
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"responseSchema":   schema,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimSuffix(g.config.BaseURL, "/"), g.config.Model, g.config.APIKey)
	req, err := http.NewRequestWithContext(reqCtx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	g.logger.WithFields(logrus.Fields{
		"model": g.config.Model,
		"turns": len(contents),
	}).Debug("Sending AI request")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		g.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(body),
		}).Error("AI request failed")
		return "", fmt.Errorf("AI request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Error.Message != "" {
		return "", fmt.Errorf("AI error: %s", result.Error.Message)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from AI")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}

// HistoryFromMessages maps stored chat messages onto wire turns. The seeded
// greeting (first message) is excluded, matching how sessions are replayed.
func HistoryFromMessages(messages []models.Message) []Content {
	if len(messages) <= 1 {
		return nil
	}

	history := make([]Content, 0, len(messages)-1)
	for _, msg := range messages[1:] {
		role := "model"
		if msg.Sender == models.SenderUser {
			role = "user"
		}
		history = append(history, Content{
			Role:  role,
			Parts: []Part{{Text: msg.Text}},
		})
	}
	return history
}
