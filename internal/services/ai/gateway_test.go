package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campus-assistant-go/internal/config"
	"github.com/campus-assistant-go/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGatewayLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeModel serves a generateContent endpoint returning the given candidate
// text, capturing the last request body.
type fakeModel struct {
	server   *httptest.Server
	lastBody map[string]interface{}
}

func newFakeModel(t *testing.T, candidateText string, status int) *fakeModel {
	t.Helper()
	f := &fakeModel{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &f.lastBody)

		if status != http.StatusOK {
			w.WriteHeader(status)
			fmt.Fprint(w, `{"error": {"message": "backend unavailable"}}`)
			return
		}

		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{{
				"content": map[string]interface{}{
					"parts": []map[string]string{{"text": candidateText}},
				},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func newTestGateway(t *testing.T, f *fakeModel) *Gateway {
	t.Helper()
	g, err := NewGateway(&config.AIConfig{
		APIKey:  "test-key",
		BaseURL: f.server.URL,
		Model:   "gemini-2.5-flash",
		Timeout: 5 * time.Second,
	}, testGatewayLogger())
	require.NoError(t, err)
	return g
}

func TestNewGatewayRequiresAPIKey(t *testing.T) {
	_, err := NewGateway(&config.AIConfig{}, testGatewayLogger())
	assert.Error(t, err)
}

func TestSendMessage(t *testing.T) {
	f := newFakeModel(t, `{"detected_language":"English","intent":"Library hours","response":"8 AM to 11 PM."}`, http.StatusOK)
	g := newTestGateway(t, f)

	faqs := []models.Faq{{Question: "Library hours", Answer: "8 AM to 11 PM.", Status: models.StatusPublished}}
	chat := g.NewChat(faqs, nil, "auto")

	result, err := g.SendMessage(context.Background(), chat, "When is the library open?")
	require.NoError(t, err)
	assert.False(t, result.Malformed)
	assert.Equal(t, "English", result.Reply.DetectedLanguage)
	assert.Equal(t, "Library hours", result.Reply.Intent)
	assert.Equal(t, "8 AM to 11 PM.", result.Reply.Response)

	// The user turn and the model turn are both appended to the history.
	require.Len(t, chat.History, 2)
	assert.Equal(t, "user", chat.History[0].Role)
	assert.Equal(t, "model", chat.History[1].Role)

	// The request carries the structured-output contract.
	genCfg, ok := f.lastBody["generationConfig"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "application/json", genCfg["responseMimeType"])
	assert.NotNil(t, genCfg["responseSchema"])
	assert.NotNil(t, f.lastBody["systemInstruction"])
}

func TestSendMessageMalformedOutput(t *testing.T) {
	f := newFakeModel(t, "I will not speak JSON today.", http.StatusOK)
	g := newTestGateway(t, f)

	chat := g.NewChat(nil, nil, "auto")
	result, err := g.SendMessage(context.Background(), chat, "hello")
	require.NoError(t, err)
	assert.True(t, result.Malformed)
	assert.Equal(t, "I will not speak JSON today.", result.Raw)

	// A malformed turn is not added to the history.
	assert.Empty(t, chat.History)

	fallback := FallbackReply()
	assert.Equal(t, "unknown", fallback.DetectedLanguage)
	assert.Equal(t, "error", fallback.Intent)
}

func TestSendMessageEndpointError(t *testing.T) {
	f := newFakeModel(t, "", http.StatusInternalServerError)
	g := newTestGateway(t, f)

	chat := g.NewChat(nil, nil, "auto")
	_, err := g.SendMessage(context.Background(), chat, "hello")
	assert.Error(t, err)
}

func TestTranslateText(t *testing.T) {
	f := newFakeModel(t, `{"detected_language":"English","translated_text":"नमस्ते"}`, http.StatusOK)
	g := newTestGateway(t, f)

	result, err := g.TranslateText(context.Background(), "Hello", "formal")
	require.NoError(t, err)
	assert.Equal(t, "English", result.DetectedLanguage)
	assert.Equal(t, "नमस्ते", result.TranslatedText)
}

func TestTranslateTextMalformedOutput(t *testing.T) {
	f := newFakeModel(t, "plain text, not JSON", http.StatusOK)
	g := newTestGateway(t, f)

	_, err := g.TranslateText(context.Background(), "Hello", "")
	assert.Error(t, err)
}

func TestTranslateFileSendsInlineData(t *testing.T) {
	f := newFakeModel(t, `{"detected_language":"Hindi","translated_text":"translated"}`, http.StatusOK)
	g := newTestGateway(t, f)

	_, err := g.TranslateFile(context.Background(), "aGVsbG8=", "text/plain", "")
	require.NoError(t, err)

	contents, ok := f.lastBody["contents"].([]interface{})
	require.True(t, ok)
	require.Len(t, contents, 1)
	turn := contents[0].(map[string]interface{})
	parts := turn["parts"].([]interface{})
	inline := parts[0].(map[string]interface{})["inlineData"].(map[string]interface{})
	assert.Equal(t, "text/plain", inline["mimeType"])
	assert.Equal(t, "aGVsbG8=", inline["data"])
}

func TestHistoryFromMessages(t *testing.T) {
	messages := []models.Message{
		{Sender: models.SenderBot, Text: "Hello! How can I help you today?"},
		{Sender: models.SenderUser, Text: "Library hours?"},
		{Sender: models.SenderBot, Text: `{"response":"8 AM to 11 PM."}`},
	}

	history := HistoryFromMessages(messages)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "Library hours?", history[0].Parts[0].Text)
	assert.Equal(t, "model", history[1].Role)

	// The seeded greeting alone produces no history.
	assert.Nil(t, HistoryFromMessages(messages[:1]))
	assert.Nil(t, HistoryFromMessages(nil))
}
