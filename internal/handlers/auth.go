package handlers

import (
	"errors"
	"net/http"

	"github.com/campus-assistant-go/internal/models"
	"github.com/campus-assistant-go/internal/services/auth"
	"github.com/sirupsen/logrus"
)

// AuthHandler serves the mock login flows
type AuthHandler struct {
	authService *auth.Service
	logger      *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

type providerLoginRequest struct {
	Provider string `json:"provider" validate:"required,oneof=google facebook"`
}

type sendOTPRequest struct {
	Mobile string `json:"mobile" validate:"required"`
}

type verifyOTPRequest struct {
	Mobile string `json:"mobile" validate:"required"`
	OTP    string `json:"otp" validate:"required,len=6"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// LoginWithProvider handles POST /api/auth/provider
func (h *AuthHandler) LoginWithProvider(w http.ResponseWriter, r *http.Request) {
	var req providerLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.authService.LoginWithProvider(r.Context(), req.Provider)
	if err != nil {
		h.logger.WithError(err).Warn("Provider login failed")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// SendOTP handles POST /api/auth/otp/send
func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.SendOTP(r.Context(), req.Mobile); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, auth.ErrInvalidMobile) {
			status = http.StatusBadRequest
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusAccepted, nil)
}

// VerifyOTP handles POST /api/auth/otp/verify
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.authService.VerifyOTP(r.Context(), req.Mobile, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidOTP), errors.Is(err, auth.ErrNoPendingOTP):
			respondError(w, http.StatusUnauthorized, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.Logout(r.Context())
	respondJSON(w, http.StatusNoContent, nil)
}
