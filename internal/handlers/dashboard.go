package handlers

import (
	"net/http"

	"github.com/campus-assistant-go/internal/models"
	"github.com/campus-assistant-go/internal/services/dashboard"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// DashboardHandler serves the FAQ content-management API
type DashboardHandler struct {
	service *dashboard.Service
	logger  *logrus.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service *dashboard.Service, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger,
	}
}

type createFaqRequest struct {
	Question string           `json:"question" validate:"required"`
	Answer   string           `json:"answer" validate:"required"`
	Category string           `json:"category" validate:"required"`
	Status   models.FaqStatus `json:"status" validate:"required,oneof=Published Review Draft"`
}

type editFaqRequest struct {
	Question string           `json:"question" validate:"required"`
	Answer   string           `json:"answer" validate:"required"`
	Category string           `json:"category" validate:"required"`
	Status   models.FaqStatus `json:"status" validate:"required,oneof=Published Review Draft"`
}

type setLanguagesRequest struct {
	Languages []string `json:"languages" validate:"required"`
}

type addCategoryRequest struct {
	Name string `json:"name" validate:"required"`
	Icon string `json:"icon"`
}

type faqListResponse struct {
	Faqs   []models.Faq        `json:"faqs"`
	Counts models.StatusCounts `json:"counts"`
}

// ListFaqs handles GET /api/faqs?category=
func (h *DashboardHandler) ListFaqs(w http.ResponseWriter, r *http.Request) {
	faqs := h.service.FaqsByCategory(r.URL.Query().Get("category"))
	respondJSON(w, http.StatusOK, faqListResponse{
		Faqs:   faqs,
		Counts: dashboard.Counts(faqs),
	})
}

// Summary handles GET /api/faqs/summary
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	faqs := h.service.FaqsByCategory(r.URL.Query().Get("category"))
	respondJSON(w, http.StatusOK, dashboard.Counts(faqs))
}

// CreateFaq handles POST /api/faqs
func (h *DashboardHandler) CreateFaq(w http.ResponseWriter, r *http.Request) {
	var req createFaqRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	faq := h.service.CreateFaq(r.Context(), dashboard.FaqDraft{
		Question: req.Question,
		Answer:   req.Answer,
		Category: req.Category,
		Status:   req.Status,
	})

	h.logger.WithField("faq", faq.ID).Info("FAQ created")
	respondJSON(w, http.StatusCreated, faq)
}

// EditFaq handles PUT /api/faqs/{id}
func (h *DashboardHandler) EditFaq(w http.ResponseWriter, r *http.Request) {
	var req editFaqRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := mux.Vars(r)["id"]
	updated, ok := h.service.EditFaq(r.Context(), models.Faq{
		ID:       id,
		Question: req.Question,
		Answer:   req.Answer,
		Category: req.Category,
		Status:   req.Status,
	})
	if !ok {
		respondError(w, http.StatusNotFound, "faq not found")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// DeleteFaq handles DELETE /api/faqs/{id}. The two-phase request/confirm
// flow collapses into one call here; the client performs the confirmation.
func (h *DashboardHandler) DeleteFaq(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if h.service.DeleteFaq(r.Context(), id) {
		h.logger.WithField("faq", id).Info("FAQ deleted")
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// SetLanguages handles PUT /api/faqs/{id}/languages
func (h *DashboardHandler) SetLanguages(w http.ResponseWriter, r *http.Request) {
	var req setLanguagesRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, ok := h.service.SetFaqLanguages(r.Context(), mux.Vars(r)["id"], req.Languages)
	if !ok {
		respondError(w, http.StatusNotFound, "faq not found")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// ListCategories handles GET /api/categories
func (h *DashboardHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Categories())
}

// AddCategory handles POST /api/categories
func (h *DashboardHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req addCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	category := h.service.AddCategory(r.Context(), req.Name, req.Icon)
	respondJSON(w, http.StatusCreated, category)
}
