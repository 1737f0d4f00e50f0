package translation

import (
	"context"
	"sync"
	"time"

	"github.com/campus-assistant-go/internal/models"
	"github.com/campus-assistant-go/internal/services/ai"
	"github.com/campus-assistant-go/internal/services/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Source names where the translated document came from. Exactly one field
// is set: Text for raw input, FileName for an upload.
type Source struct {
	Text     string
	FileName string
}

// Manager owns the per-user translation history. Records are append-only
// except for explicit deletion. The active selection is per-user UI state
// and is not persisted.
type Manager struct {
	store  *storage.Manager
	logger *logrus.Logger

	mu     sync.Mutex
	active map[string]string // normalized user -> active record id
}

// NewManager creates a new translation history manager
func NewManager(store *storage.Manager, logger *logrus.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger,
		active: make(map[string]string),
	}
}

// Records returns the user's translation history, newest first.
func (m *Manager) Records(ctx context.Context, user models.User) []models.TranslationRecord {
	var records []models.TranslationRecord
	m.store.Load(ctx, storage.UserKey(storage.BaseTranslationHistory, user.Name), &records)
	return records
}

// ActiveRecordID returns the active record id, or "".
func (m *Manager) ActiveRecordID(user models.User) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active[storage.NormalizeUserName(user.Name)]
}

// RecordResult builds a record from a successful translate call, prepends it
// to the history and marks it active.
func (m *Manager) RecordResult(ctx context.Context, user models.User, result ai.TranslationResult, source Source, instructions string) models.TranslationRecord {
	record := models.TranslationRecord{
		ID:             "trans-" + uuid.NewString(),
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		TranslatedText: result.TranslatedText,
		Instructions:   instructions,
	}
	if source.FileName != "" {
		record.OriginalFileName = source.FileName
	} else {
		record.OriginalText = source.Text
	}

	records := append([]models.TranslationRecord{record}, m.Records(ctx, user)...)
	m.store.Save(ctx, storage.UserKey(storage.BaseTranslationHistory, user.Name), records)

	m.mu.Lock()
	m.active[storage.NormalizeUserName(user.Name)] = record.ID
	m.mu.Unlock()

	m.logger.WithFields(logrus.Fields{
		"user":   user.Name,
		"record": record.ID,
	}).Debug("Recorded translation")

	return record
}

// DeleteRecord removes a record from the history. When it was the active
// selection, the selection is cleared.
func (m *Manager) DeleteRecord(ctx context.Context, user models.User, id string) {
	records := m.Records(ctx, user)
	kept := records[:0]
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	m.store.Save(ctx, storage.UserKey(storage.BaseTranslationHistory, user.Name), kept)

	m.mu.Lock()
	if m.active[storage.NormalizeUserName(user.Name)] == id {
		delete(m.active, storage.NormalizeUserName(user.Name))
	}
	m.mu.Unlock()
}
