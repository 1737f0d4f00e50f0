package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/campus-assistant-go/internal/i18n"
	"github.com/campus-assistant-go/internal/middleware"
	"github.com/campus-assistant-go/internal/models"
	"github.com/campus-assistant-go/internal/services/ai"
	"github.com/campus-assistant-go/internal/services/cache"
	"github.com/campus-assistant-go/internal/services/chat"
	"github.com/campus-assistant-go/internal/services/dashboard"
	"github.com/campus-assistant-go/internal/services/storage"
	"github.com/campus-assistant-go/pkg/markdown"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// inFlightKey is the user-state flag guarding duplicate chat submissions.
// The guard is advisory: it suppresses concurrent duplicates, it is not a queue.
const inFlightKey = "chat_in_flight"

// ChatHandler serves the chat session API
type ChatHandler struct {
	sessions    *chat.Manager
	dashboard   *dashboard.Service
	gateway     ai.Service
	cache       cache.Service
	store       *storage.Manager
	rateLimiter middleware.RateLimiter
	localizer   *i18n.Localizer
	metrics     *middleware.Metrics
	logger      *logrus.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(
	sessions *chat.Manager,
	dashboardService *dashboard.Service,
	gateway ai.Service,
	cacheService cache.Service,
	store *storage.Manager,
	rateLimiter middleware.RateLimiter,
	localizer *i18n.Localizer,
	metrics *middleware.Metrics,
	logger *logrus.Logger,
) *ChatHandler {
	return &ChatHandler{
		sessions:    sessions,
		dashboard:   dashboardService,
		gateway:     gateway,
		cache:       cacheService,
		store:       store,
		rateLimiter: rateLimiter,
		localizer:   localizer,
		metrics:     metrics,
		logger:      logger,
	}
}

type sessionListResponse struct {
	Sessions []models.ChatSession `json:"sessions"`
	ActiveID string               `json:"activeId,omitempty"`
}

type sendMessageRequest struct {
	Text     string `json:"text" validate:"required"`
	Language string `json:"language"`
}

type sendMessageResponse struct {
	Session models.ChatSession `json:"session"`
	Reply   ai.ChatReply       `json:"reply"`
	HTML    string             `json:"html"`
}

// ListSessions handles GET /api/chat/sessions
func (h *ChatHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	h.sessions.EnsureSession(r.Context(), user)

	sessions := h.sessions.Sessions(r.Context(), user)
	h.metrics.SetActiveSessions(float64(len(sessions)))

	respondJSON(w, http.StatusOK, sessionListResponse{
		Sessions: sessions,
		ActiveID: h.sessions.ActiveSessionID(r.Context(), user),
	})
}

// CreateSession handles POST /api/chat/sessions
func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	session := h.sessions.CreateSession(r.Context(), user)
	respondJSON(w, http.StatusCreated, session)
}

// ActivateSession handles PUT /api/chat/sessions/{id}/activate
func (h *ChatHandler) ActivateSession(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	h.sessions.SelectSession(r.Context(), user, mux.Vars(r)["id"])
	respondJSON(w, http.StatusNoContent, nil)
}

// SendMessage handles POST /api/chat/sessions/{id}/messages. The exchange is
// appended even when the gateway fails: the bot turn then carries the static
// error text instead of a model reply.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := middleware.UserFrom(ctx)
	sessionID := mux.Vars(r)["id"]

	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.rateLimiter.Allow(user.Name) {
		h.metrics.RecordRateLimitExceeded(user.Name)
		respondError(w, http.StatusTooManyRequests, h.localizer.Get("en", i18n.MsgRateLimitReached, nil))
		return
	}

	// Advisory duplicate-submission guard
	if state, err := h.store.GetUserState(ctx, user.Name, inFlightKey); err == nil && state != "" {
		respondError(w, http.StatusConflict, h.localizer.Get("en", i18n.MsgRequestInFlight, nil))
		return
	}
	h.store.SetUserState(ctx, user.Name, inFlightKey, "1")
	defer h.store.DeleteUserState(ctx, user.Name, inFlightKey)

	sessions := h.sessions.Sessions(ctx, user)
	var session models.ChatSession
	found := false
	for _, s := range sessions {
		if s.ID == sessionID {
			session = s
			found = true
			break
		}
	}
	if !found {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}

	userMessage := models.Message{Sender: models.SenderUser, Text: req.Text}
	messages := append(append([]models.Message{}, session.Messages...), userMessage)

	reply, ok := h.resolveReply(ctx, session, req)
	if !ok {
		// Transport error: degrade to the static connection-trouble message.
		reply = ai.ChatReply{
			DetectedLanguage: "unknown",
			Intent:           "error",
			Response:         h.localizer.Get("en", i18n.MsgConnectionError, nil),
		}
	}

	messages = append(messages, models.Message{Sender: models.SenderBot, Text: reply.Response})
	updated, ok := h.sessions.AppendExchange(ctx, user, sessionID, messages)
	if !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}

	respondJSON(w, http.StatusOK, sendMessageResponse{
		Session: updated,
		Reply:   reply,
		HTML:    markdown.ToWidgetHTML(reply.Response),
	})
}

// resolveReply answers from cache when possible, otherwise asks the gateway.
// Reports false only on transport failure; malformed model output resolves
// to the fixed fallback reply.
func (h *ChatHandler) resolveReply(ctx context.Context, session models.ChatSession, req sendMessageRequest) (ai.ChatReply, bool) {
	if cached, hit := h.cache.Get(ctx, req.Text, req.Language); hit {
		h.metrics.RecordCacheHit()
		var reply ai.ChatReply
		if err := json.Unmarshal([]byte(cached), &reply); err == nil {
			return reply, true
		}
	}
	h.metrics.RecordCacheMiss()

	handle := h.gateway.NewChat(h.dashboard.Faqs(), ai.HistoryFromMessages(session.Messages), req.Language)

	start := time.Now()
	result, err := h.gateway.SendMessage(ctx, handle, req.Text)
	if err != nil {
		h.metrics.RecordAIRequest("chat", "error", time.Since(start))
		h.logger.WithError(err).Error("Chat request failed")
		return ai.ChatReply{}, false
	}
	h.metrics.RecordAIRequest("chat", "success", time.Since(start))

	if result.Malformed {
		return ai.FallbackReply(), true
	}

	if data, err := json.Marshal(result.Reply); err == nil {
		h.cache.Set(ctx, req.Text, req.Language, string(data))
	}
	return result.Reply, true
}
