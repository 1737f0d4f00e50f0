package chat

import (
	"context"
	"time"

	"github.com/campus-assistant-go/internal/models"
	"github.com/campus-assistant-go/internal/services/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultTitle is the title a session keeps until its first user message.
const DefaultTitle = "New Chat"

// Manager owns the per-user chat session list and active selection. All
// state is restored from and persisted to the store on every operation.
type Manager struct {
	store    *storage.Manager
	greeting string
	logger   *logrus.Logger
}

// NewManager creates a new chat session manager
func NewManager(store *storage.Manager, greeting string, logger *logrus.Logger) *Manager {
	return &Manager{
		store:    store,
		greeting: greeting,
		logger:   logger,
	}
}

// Sessions returns the user's session list, newest first.
func (m *Manager) Sessions(ctx context.Context, user models.User) []models.ChatSession {
	var sessions []models.ChatSession
	m.store.Load(ctx, storage.UserKey(storage.BaseChatHistories, user.Name), &sessions)
	return sessions
}

// ActiveSessionID returns the persisted active session id, or "".
func (m *Manager) ActiveSessionID(ctx context.Context, user models.User) string {
	var id string
	m.store.Load(ctx, storage.UserKey(storage.BaseActiveChatID, user.Name), &id)
	return id
}

// ActiveSession resolves the active session. The stored id wins when it still
// names an existing session; otherwise the most recent session is used.
func (m *Manager) ActiveSession(ctx context.Context, user models.User) (models.ChatSession, bool) {
	sessions := m.Sessions(ctx, user)
	if len(sessions) == 0 {
		return models.ChatSession{}, false
	}

	id := m.ActiveSessionID(ctx, user)
	for _, s := range sessions {
		if s.ID == id {
			return s, true
		}
	}
	return sessions[0], true
}

// CreateSession produces a new session with the seeded greeting, inserts it
// at the front of the list and marks it active.
func (m *Manager) CreateSession(ctx context.Context, user models.User) models.ChatSession {
	session := models.ChatSession{
		ID:        "chat-" + uuid.NewString(),
		Title:     DefaultTitle,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Messages:  []models.Message{{Sender: models.SenderBot, Text: m.greeting}},
	}

	sessions := append([]models.ChatSession{session}, m.Sessions(ctx, user)...)
	m.persist(ctx, user, sessions, session.ID)

	m.logger.WithFields(logrus.Fields{
		"user":    user.Name,
		"session": session.ID,
	}).Debug("Created chat session")

	return session
}

// SelectSession marks a session active. A no-op when the id is absent.
func (m *Manager) SelectSession(ctx context.Context, user models.User, id string) {
	for _, s := range m.Sessions(ctx, user) {
		if s.ID == id {
			m.store.Save(ctx, storage.UserKey(storage.BaseActiveChatID, user.Name), id)
			return
		}
	}
}

// AppendExchange replaces the session's message sequence and stamps it with
// the current time. While the title is still the default and a first user
// message now exists, the session is retitled to that message's text.
// Reports false when the session id is absent.
func (m *Manager) AppendExchange(ctx context.Context, user models.User, sessionID string, messages []models.Message) (models.ChatSession, bool) {
	sessions := m.Sessions(ctx, user)

	for i, s := range sessions {
		if s.ID != sessionID {
			continue
		}

		s.Messages = messages
		s.Timestamp = time.Now().UTC().Format(time.RFC3339)

		if s.Title == DefaultTitle {
			for _, msg := range messages {
				if msg.Sender == models.SenderUser {
					s.Title = msg.Text
					break
				}
			}
		}

		sessions[i] = s
		m.persist(ctx, user, sessions, sessionID)
		return s, true
	}

	return models.ChatSession{}, false
}

// EnsureSession restores the user's sessions on login, creating the first
// session when none exist.
func (m *Manager) EnsureSession(ctx context.Context, user models.User) models.ChatSession {
	if session, ok := m.ActiveSession(ctx, user); ok {
		return session
	}
	return m.CreateSession(ctx, user)
}

func (m *Manager) persist(ctx context.Context, user models.User, sessions []models.ChatSession, activeID string) {
	m.store.Save(ctx, storage.UserKey(storage.BaseChatHistories, user.Name), sessions)
	if activeID != "" {
		m.store.Save(ctx, storage.UserKey(storage.BaseActiveChatID, user.Name), activeID)
	}
}
