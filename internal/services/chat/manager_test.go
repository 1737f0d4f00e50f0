package chat

import (
	"context"
	"io"
	"testing"

	"github.com/campus-assistant-go/internal/config"
	"github.com/campus-assistant-go/internal/models"
	"github.com/campus-assistant-go/internal/services/storage"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGreeting = "Hello! How can I help you today?"

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	store := storage.NewManagerWith(storage.NewMemoryStorage(&config.Config{}, log), log)
	return NewManager(store, testGreeting, log)
}

func testUser() models.User {
	return models.User{Name: "Jane Doe"}
}

func TestCreateSession(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	user := testUser()

	first := m.CreateSession(ctx, user)
	assert.Equal(t, DefaultTitle, first.Title)
	require.Len(t, first.Messages, 1)
	assert.Equal(t, models.SenderBot, first.Messages[0].Sender)
	assert.Equal(t, testGreeting, first.Messages[0].Text)

	second := m.CreateSession(ctx, user)

	// Newest session is prepended and becomes the active one.
	sessions := m.Sessions(ctx, user)
	require.Len(t, sessions, 2)
	assert.Equal(t, second.ID, sessions[0].ID)
	assert.Equal(t, first.ID, sessions[1].ID)
	assert.Equal(t, second.ID, m.ActiveSessionID(ctx, user))
}

func TestSelectSession(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	user := testUser()

	first := m.CreateSession(ctx, user)
	m.CreateSession(ctx, user)

	m.SelectSession(ctx, user, first.ID)
	active, ok := m.ActiveSession(ctx, user)
	require.True(t, ok)
	assert.Equal(t, first.ID, active.ID)

	// Selecting an unknown id changes nothing.
	m.SelectSession(ctx, user, "chat-missing")
	active, ok = m.ActiveSession(ctx, user)
	require.True(t, ok)
	assert.Equal(t, first.ID, active.ID)
}

func TestActiveSessionFallsBackToNewest(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	user := testUser()

	m.CreateSession(ctx, user)
	newest := m.CreateSession(ctx, user)

	// A stale stored id falls back to the most recent session.
	m.store.Save(ctx, storage.UserKey(storage.BaseActiveChatID, user.Name), "chat-gone")
	active, ok := m.ActiveSession(ctx, user)
	require.True(t, ok)
	assert.Equal(t, newest.ID, active.ID)
}

func TestAppendExchangeRetitles(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	user := testUser()

	session := m.CreateSession(ctx, user)
	messages := append(session.Messages,
		models.Message{Sender: models.SenderUser, Text: "Where is the library?"},
		models.Message{Sender: models.SenderBot, Text: "Open 8 AM to 11 PM on weekdays."},
	)

	updated, ok := m.AppendExchange(ctx, user, session.ID, messages)
	require.True(t, ok)
	assert.Equal(t, "Where is the library?", updated.Title)
	assert.Len(t, updated.Messages, 3)

	// Later exchanges never change the title again.
	messages = append(updated.Messages,
		models.Message{Sender: models.SenderUser, Text: "And the hostel?"},
		models.Message{Sender: models.SenderBot, Text: "Apply on the student portal."},
	)
	updated, ok = m.AppendExchange(ctx, user, session.ID, messages)
	require.True(t, ok)
	assert.Equal(t, "Where is the library?", updated.Title)
}

func TestAppendExchangeAbsentSession(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_, ok := m.AppendExchange(ctx, testUser(), "chat-missing", nil)
	assert.False(t, ok)
}

func TestEnsureSession(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	user := testUser()

	created := m.EnsureSession(ctx, user)
	assert.NotEmpty(t, created.ID)

	// A second call returns the existing active session.
	again := m.EnsureSession(ctx, user)
	assert.Equal(t, created.ID, again.ID)
	assert.Len(t, m.Sessions(ctx, user), 1)
}

func TestSessionsIsolatedPerUser(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	m.CreateSession(ctx, models.User{Name: "Jane Doe"})
	assert.Empty(t, m.Sessions(ctx, models.User{Name: "John Smith"}))
}
