package handlers

import (
	"encoding/base64"
	"io"
	"net/http"
	"time"

	"github.com/campus-assistant-go/internal/i18n"
	"github.com/campus-assistant-go/internal/middleware"
	"github.com/campus-assistant-go/internal/models"
	"github.com/campus-assistant-go/internal/services/ai"
	"github.com/campus-assistant-go/internal/services/translation"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// maxUploadBytes bounds uploaded documents.
const maxUploadBytes = 10 << 20

// allowedUploadTypes is the MIME whitelist checked before any file read or
// network call.
var allowedUploadTypes = map[string]bool{
	"text/plain":      true,
	"application/pdf": true,
}

// TranslationHandler serves the document translation API
type TranslationHandler struct {
	history     *translation.Manager
	gateway     ai.Service
	rateLimiter middleware.RateLimiter
	localizer   *i18n.Localizer
	metrics     *middleware.Metrics
	logger      *logrus.Logger
}

// NewTranslationHandler creates a new translation handler
func NewTranslationHandler(
	history *translation.Manager,
	gateway ai.Service,
	rateLimiter middleware.RateLimiter,
	localizer *i18n.Localizer,
	metrics *middleware.Metrics,
	logger *logrus.Logger,
) *TranslationHandler {
	return &TranslationHandler{
		history:     history,
		gateway:     gateway,
		rateLimiter: rateLimiter,
		localizer:   localizer,
		metrics:     metrics,
		logger:      logger,
	}
}

type translateTextRequest struct {
	Text         string `json:"text" validate:"required"`
	Instructions string `json:"instructions"`
}

type translateResponse struct {
	Record models.TranslationRecord `json:"record"`
	Result ai.TranslationResult     `json:"result"`
}

type historyResponse struct {
	Records  []models.TranslationRecord `json:"records"`
	ActiveID string                     `json:"activeId,omitempty"`
}

// TranslateText handles POST /api/translations/text
func (h *TranslationHandler) TranslateText(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := middleware.UserFrom(ctx)

	var req translateTextRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.rateLimiter.Allow(user.Name) {
		h.metrics.RecordRateLimitExceeded(user.Name)
		respondError(w, http.StatusTooManyRequests, h.localizer.Get("en", i18n.MsgRateLimitReached, nil))
		return
	}

	start := time.Now()
	result, err := h.gateway.TranslateText(ctx, req.Text, req.Instructions)
	if err != nil {
		h.metrics.RecordAIRequest("translate_text", "error", time.Since(start))
		h.logger.WithError(err).Error("Text translation failed")
		respondError(w, http.StatusBadGateway, h.localizer.Get("en", i18n.MsgTranslateError, nil))
		return
	}
	h.metrics.RecordAIRequest("translate_text", "success", time.Since(start))

	record := h.history.RecordResult(ctx, user, result, translation.Source{Text: req.Text}, req.Instructions)
	respondJSON(w, http.StatusOK, translateResponse{Record: record, Result: result})
}

// TranslateFile handles POST /api/translations/file. Unsupported MIME types
// are rejected before the file content is read and before any network call.
func (h *TranslationHandler) TranslateFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := middleware.UserFrom(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !allowedUploadTypes[mimeType] {
		respondError(w, http.StatusBadRequest, h.localizer.Get("en", i18n.MsgUnsupportedFile, nil))
		return
	}

	if !h.rateLimiter.Allow(user.Name) {
		h.metrics.RecordRateLimitExceeded(user.Name)
		respondError(w, http.StatusTooManyRequests, h.localizer.Get("en", i18n.MsgRateLimitReached, nil))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, h.localizer.Get("en", i18n.MsgFileReadError, nil))
		return
	}

	instructions := r.FormValue("instructions")

	start := time.Now()
	result, err := h.gateway.TranslateFile(ctx, base64.StdEncoding.EncodeToString(data), mimeType, instructions)
	if err != nil {
		h.metrics.RecordAIRequest("translate_file", "error", time.Since(start))
		h.logger.WithError(err).Error("File translation failed")
		respondError(w, http.StatusBadGateway, h.localizer.Get("en", i18n.MsgTranslateError, nil))
		return
	}
	h.metrics.RecordAIRequest("translate_file", "success", time.Since(start))

	record := h.history.RecordResult(ctx, user, result, translation.Source{FileName: header.Filename}, instructions)
	respondJSON(w, http.StatusOK, translateResponse{Record: record, Result: result})
}

// ListRecords handles GET /api/translations
func (h *TranslationHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	respondJSON(w, http.StatusOK, historyResponse{
		Records:  h.history.Records(r.Context(), user),
		ActiveID: h.history.ActiveRecordID(user),
	})
}

// DeleteRecord handles DELETE /api/translations/{id}
func (h *TranslationHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	h.history.DeleteRecord(r.Context(), user, mux.Vars(r)["id"])
	respondJSON(w, http.StatusNoContent, nil)
}
