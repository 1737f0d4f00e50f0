package dashboard

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/campus-assistant-go/internal/config"
	"github.com/campus-assistant-go/internal/models"
	"github.com/campus-assistant-go/internal/services/storage"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, seed bool) *Service {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	store := storage.NewManagerWith(storage.NewMemoryStorage(&config.Config{}, log), log)
	return NewService(context.Background(), store, "English", seed, log)
}

func TestCreateFaqDefaults(t *testing.T) {
	s := newTestService(t, false)

	faq := s.CreateFaq(context.Background(), FaqDraft{
		Question: "Where is the admissions office?",
		Answer:   "Block A, ground floor.",
		Category: "admissions",
		Status:   models.StatusDraft,
	})

	assert.NotEmpty(t, faq.ID)
	assert.Equal(t, []string{"English"}, faq.Languages)
	assert.Equal(t, models.StatusDraft, faq.Status)
	assert.Equal(t, "Current User", faq.Editor)
	assert.NotEmpty(t, faq.LastUpdated)

	// New entries are prepended.
	faqs := s.Faqs()
	require.Len(t, faqs, 1)
	assert.Equal(t, faq.ID, faqs[0].ID)
}

func TestEditFaqStampsLastUpdated(t *testing.T) {
	s := newTestService(t, false)
	ctx := context.Background()

	created := s.CreateFaq(ctx, FaqDraft{
		Question: "Q", Answer: "A", Category: "academics", Status: models.StatusPublished,
	})
	createdAt, err := time.Parse(time.RFC3339, created.LastUpdated)
	require.NoError(t, err)

	created.Answer = "Updated answer"
	updated, ok := s.EditFaq(ctx, created)
	require.True(t, ok)

	updatedAt, err := time.Parse(time.RFC3339, updated.LastUpdated)
	require.NoError(t, err)
	assert.False(t, updatedAt.Before(createdAt), "last_updated must be monotonically non-decreasing")
	assert.Equal(t, "Updated answer", updated.Answer)
	assert.Equal(t, "Current User", updated.Editor)
}

func TestEditFaqKeepsLanguagesWhenOmitted(t *testing.T) {
	s := newTestService(t, false)
	ctx := context.Background()

	created := s.CreateFaq(ctx, FaqDraft{
		Question: "Q", Answer: "A", Category: "academics", Status: models.StatusPublished,
	})
	_, ok := s.SetFaqLanguages(ctx, created.ID, []string{"English", "Hindi"})
	require.True(t, ok)

	updated, ok := s.EditFaq(ctx, models.Faq{
		ID: created.ID, Question: "Q2", Answer: "A2", Category: "academics", Status: models.StatusPublished,
	})
	require.True(t, ok)
	assert.Equal(t, []string{"English", "Hindi"}, updated.Languages)
}

func TestEditFaqAbsent(t *testing.T) {
	s := newTestService(t, false)

	_, ok := s.EditFaq(context.Background(), models.Faq{ID: "faq-missing"})
	assert.False(t, ok)
}

func TestDeleteFaqIdempotent(t *testing.T) {
	s := newTestService(t, false)
	ctx := context.Background()

	faq := s.CreateFaq(ctx, FaqDraft{Question: "Q", Answer: "A", Category: "c", Status: models.StatusDraft})
	other := s.CreateFaq(ctx, FaqDraft{Question: "Q2", Answer: "A2", Category: "c", Status: models.StatusDraft})

	assert.True(t, s.DeleteFaq(ctx, faq.ID))
	assert.Len(t, s.Faqs(), 1)
	assert.Equal(t, other.ID, s.Faqs()[0].ID)

	// Repeating the delete is a no-op.
	assert.False(t, s.DeleteFaq(ctx, faq.ID))
	assert.Len(t, s.Faqs(), 1)
}

func TestTwoPhaseDelete(t *testing.T) {
	s := newTestService(t, false)
	ctx := context.Background()

	faq := s.CreateFaq(ctx, FaqDraft{Question: "Q", Answer: "A", Category: "c", Status: models.StatusDraft})

	s.RequestDelete(faq.ID)
	s.CancelDelete()
	assert.False(t, s.ConfirmDelete(ctx), "cancelled request must not delete")
	assert.Len(t, s.Faqs(), 1)

	s.RequestDelete(faq.ID)
	assert.True(t, s.ConfirmDelete(ctx))
	assert.Empty(t, s.Faqs())
}

func TestSetFaqLanguagesCanonicalOrder(t *testing.T) {
	s := newTestService(t, false)
	ctx := context.Background()

	faq := s.CreateFaq(ctx, FaqDraft{Question: "Q", Answer: "A", Category: "c", Status: models.StatusPublished})

	updated, ok := s.SetFaqLanguages(ctx, faq.ID, []string{"Malayalam", "English", "Telugu", "Hindi"})
	require.True(t, ok)
	assert.Equal(t, []string{"English", "Hindi", "Telugu", "Malayalam"}, updated.Languages)

	// Input order never matters.
	updated, ok = s.SetFaqLanguages(ctx, faq.ID, []string{"Tamil", "English"})
	require.True(t, ok)
	assert.Equal(t, []string{"English", "Tamil"}, updated.Languages)
}

func TestAddCategorySlug(t *testing.T) {
	s := newTestService(t, false)
	ctx := context.Background()

	cat := s.AddCategory(ctx, "Student Life", "book-open")
	assert.Equal(t, "student-life", cat.ID)
	assert.Equal(t, "Student Life", cat.Name)
}

func TestAddCategorySlugCollision(t *testing.T) {
	s := newTestService(t, false)
	ctx := context.Background()

	first := s.AddCategory(ctx, "Student Life", "")
	second := s.AddCategory(ctx, "Student  Life", "") // double space

	// Near-duplicate names collide on the same slug; no uniqueness check.
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, s.Categories(), 2)
}

func TestFaqsByCategory(t *testing.T) {
	s := newTestService(t, true)

	all := s.FaqsByCategory("")
	assert.Len(t, all, 8)

	services := s.FaqsByCategory("campus-services")
	require.NotEmpty(t, services)
	for _, f := range services {
		assert.Equal(t, "campus-services", f.Category)
	}

	assert.Empty(t, s.FaqsByCategory("nonexistent"))
}

func TestCounts(t *testing.T) {
	s := newTestService(t, true)

	counts := Counts(s.Faqs())
	assert.Equal(t, 8, counts.Total)
	assert.Equal(t, 7, counts.Published)
	assert.Equal(t, 1, counts.Review)
	assert.Equal(t, 0, counts.Draft)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "student-life", Slug("  Student Life  "))
	assert.Equal(t, "a-b-c", Slug("A  B\tC"))
}
