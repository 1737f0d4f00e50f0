package dashboard

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/campus-assistant-go/internal/models"
	"github.com/campus-assistant-go/internal/services/storage"
	"github.com/sirupsen/logrus"
)

// editorPlaceholder stamps mutations until real editor identities exist.
const editorPlaceholder = "Current User"

var whitespaceRun = regexp.MustCompile(`\s+`)

// Service is the single authority over the FAQ list and category list. All
// mutation funnels through named commands; every mutation persists the
// affected list.
type Service struct {
	store        *storage.Manager
	baseLanguage string
	logger       *logrus.Logger

	mu            sync.Mutex
	faqs          []models.Faq
	categories    []models.Category
	pendingDelete string
}

// NewService restores FAQ and category state from the store, seeding the
// defaults when nothing has been persisted yet.
func NewService(ctx context.Context, store *storage.Manager, baseLanguage string, seed bool, logger *logrus.Logger) *Service {
	s := &Service{
		store:        store,
		baseLanguage: baseLanguage,
		logger:       logger,
	}

	if !store.Load(ctx, storage.KeyFaqs, &s.faqs) && seed {
		s.faqs = seedFaqs()
		store.Save(ctx, storage.KeyFaqs, s.faqs)
	}
	if !store.Load(ctx, storage.KeyCategories, &s.categories) && seed {
		s.categories = seedCategories()
		store.Save(ctx, storage.KeyCategories, s.categories)
	}

	logger.WithFields(logrus.Fields{
		"faqs":       len(s.faqs),
		"categories": len(s.categories),
	}).Info("Dashboard state loaded")

	return s
}

// Faqs returns a copy of the FAQ list, newest first.
func (s *Service) Faqs() []models.Faq {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Faq(nil), s.faqs...)
}

// Categories returns a copy of the category list.
func (s *Service) Categories() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Category(nil), s.categories...)
}

// FaqDraft carries the caller-supplied fields for a new FAQ.
type FaqDraft struct {
	Question string
	Answer   string
	Category string
	Status   models.FaqStatus
}

// CreateFaq assigns a time-based id, defaults language coverage to the base
// language and prepends the entry.
func (s *Service) CreateFaq(ctx context.Context, draft FaqDraft) models.Faq {
	faq := models.Faq{
		ID:          fmt.Sprintf("faq-%d", time.Now().UnixMilli()),
		Question:    draft.Question,
		Answer:      draft.Answer,
		Category:    draft.Category,
		Languages:   []string{s.baseLanguage},
		Status:      draft.Status,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Editor:      editorPlaceholder,
	}

	s.mu.Lock()
	s.faqs = append([]models.Faq{faq}, s.faqs...)
	s.persistFaqs(ctx)
	s.mu.Unlock()

	return faq
}

// EditFaq replaces the entry with the same id, stamping LastUpdated and
// Editor. A nil Languages keeps the existing coverage. Last write wins;
// there is no conflict detection.
func (s *Service) EditFaq(ctx context.Context, updated models.Faq) (models.Faq, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, f := range s.faqs {
		if f.ID == updated.ID {
			if updated.Languages == nil {
				updated.Languages = f.Languages
			}
			updated.LastUpdated = time.Now().UTC().Format(time.RFC3339)
			updated.Editor = editorPlaceholder
			s.faqs[i] = updated
			s.persistFaqs(ctx)
			return updated, true
		}
	}
	return models.Faq{}, false
}

// RequestDelete stages an id for deletion, pending confirmation.
func (s *Service) RequestDelete(id string) {
	s.mu.Lock()
	s.pendingDelete = id
	s.mu.Unlock()
}

// CancelDelete clears the staged deletion.
func (s *Service) CancelDelete() {
	s.mu.Lock()
	s.pendingDelete = ""
	s.mu.Unlock()
}

// ConfirmDelete removes the staged entry. Idempotent on absence: confirming
// an id that no longer exists removes nothing.
func (s *Service) ConfirmDelete(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pendingDelete == "" {
		return false
	}
	id := s.pendingDelete
	s.pendingDelete = ""

	for i, f := range s.faqs {
		if f.ID == id {
			s.faqs = append(s.faqs[:i], s.faqs[i+1:]...)
			s.persistFaqs(ctx)
			return true
		}
	}
	return false
}

// DeleteFaq runs both phases in one call for API clients that confirm
// client-side.
func (s *Service) DeleteFaq(ctx context.Context, id string) bool {
	s.RequestDelete(id)
	return s.ConfirmDelete(ctx)
}

// SetFaqLanguages replaces an entry's language coverage, sorted into the
// fixed canonical order, and stamps the entry.
func (s *Service) SetFaqLanguages(ctx context.Context, id string, languages []string) (models.Faq, bool) {
	sorted := append([]string(nil), languages...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return canonicalIndex(sorted[i]) < canonicalIndex(sorted[j])
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, f := range s.faqs {
		if f.ID == id {
			f.Languages = sorted
			f.LastUpdated = time.Now().UTC().Format(time.RFC3339)
			f.Editor = editorPlaceholder
			s.faqs[i] = f
			s.persistFaqs(ctx)
			return f, true
		}
	}
	return models.Faq{}, false
}

// AddCategory derives the id from the trimmed name and appends the category.
// Duplicate slugs are not rejected; near-duplicate names silently collide.
func (s *Service) AddCategory(ctx context.Context, name, icon string) models.Category {
	category := models.Category{
		ID:   Slug(name),
		Name: strings.TrimSpace(name),
		Icon: icon,
	}

	s.mu.Lock()
	s.categories = append(s.categories, category)
	s.store.Save(ctx, storage.KeyCategories, s.categories)
	s.mu.Unlock()

	return category
}

// FaqsByCategory filters by exact category id; "" means all.
func (s *Service) FaqsByCategory(categoryID string) []models.Faq {
	faqs := s.Faqs()
	if categoryID == "" {
		return faqs
	}

	filtered := make([]models.Faq, 0, len(faqs))
	for _, f := range faqs {
		if f.Category == categoryID {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// Counts summarizes a FAQ list by status. Pure function of its input.
func Counts(faqs []models.Faq) models.StatusCounts {
	counts := models.StatusCounts{Total: len(faqs)}
	for _, f := range faqs {
		switch f.Status {
		case models.StatusPublished:
			counts.Published++
		case models.StatusReview:
			counts.Review++
		case models.StatusDraft:
			counts.Draft++
		}
	}
	return counts
}

// Slug lowercases a trimmed name and turns whitespace runs into hyphens.
func Slug(name string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "-"))
}

func canonicalIndex(language string) int {
	for i, l := range models.CanonicalLanguages {
		if l == language {
			return i
		}
	}
	return len(models.CanonicalLanguages)
}

// persistFaqs must be called with the lock held.
func (s *Service) persistFaqs(ctx context.Context) {
	s.store.Save(ctx, storage.KeyFaqs, s.faqs)
}
