package translation

import (
	"context"
	"io"
	"testing"

	"github.com/campus-assistant-go/internal/config"
	"github.com/campus-assistant-go/internal/models"
	"github.com/campus-assistant-go/internal/services/ai"
	"github.com/campus-assistant-go/internal/services/storage"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	store := storage.NewManagerWith(storage.NewMemoryStorage(&config.Config{}, log), log)
	return NewManager(store, log)
}

func TestRecordResultFromText(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	user := models.User{Name: "Jane Doe"}

	record := m.RecordResult(ctx, user,
		ai.TranslationResult{TranslatedText: "पुस्तकालय कहाँ है?"},
		Source{Text: "Where is the library?"},
		"formal tone")

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "Where is the library?", record.OriginalText)
	assert.Empty(t, record.OriginalFileName)
	assert.Equal(t, "पुस्तकालय कहाँ है?", record.TranslatedText)
	assert.Equal(t, "formal tone", record.Instructions)
	assert.Equal(t, record.ID, m.ActiveRecordID(user))
}

func TestRecordResultFromFile(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	user := models.User{Name: "Jane Doe"}

	record := m.RecordResult(ctx, user,
		ai.TranslationResult{TranslatedText: "translated"},
		Source{FileName: "notice.pdf"},
		"")

	assert.Equal(t, "notice.pdf", record.OriginalFileName)
	assert.Empty(t, record.OriginalText)
}

func TestRecordsNewestFirst(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	user := models.User{Name: "Jane Doe"}

	first := m.RecordResult(ctx, user, ai.TranslationResult{TranslatedText: "a"}, Source{Text: "one"}, "")
	second := m.RecordResult(ctx, user, ai.TranslationResult{TranslatedText: "b"}, Source{Text: "two"}, "")

	records := m.Records(ctx, user)
	require.Len(t, records, 2)
	assert.Equal(t, second.ID, records[0].ID)
	assert.Equal(t, first.ID, records[1].ID)
}

func TestDeleteRecordClearsActive(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	user := models.User{Name: "Jane Doe"}

	kept := m.RecordResult(ctx, user, ai.TranslationResult{TranslatedText: "a"}, Source{Text: "one"}, "")
	active := m.RecordResult(ctx, user, ai.TranslationResult{TranslatedText: "b"}, Source{Text: "two"}, "")

	m.DeleteRecord(ctx, user, active.ID)

	records := m.Records(ctx, user)
	require.Len(t, records, 1)
	assert.Equal(t, kept.ID, records[0].ID)
	assert.Empty(t, m.ActiveRecordID(user))
}

func TestDeleteRecordKeepsUnrelatedActive(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	user := models.User{Name: "Jane Doe"}

	older := m.RecordResult(ctx, user, ai.TranslationResult{TranslatedText: "a"}, Source{Text: "one"}, "")
	newest := m.RecordResult(ctx, user, ai.TranslationResult{TranslatedText: "b"}, Source{Text: "two"}, "")

	m.DeleteRecord(ctx, user, older.ID)
	assert.Equal(t, newest.ID, m.ActiveRecordID(user))
}
