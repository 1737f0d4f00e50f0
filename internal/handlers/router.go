package handlers

import (
	"net/http"

	"github.com/campus-assistant-go/internal/middleware"
	"github.com/campus-assistant-go/internal/services/auth"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the API routes. Auth routes are open; everything else
// requires a valid session token.
func NewRouter(
	authHandler *AuthHandler,
	chatHandler *ChatHandler,
	translationHandler *TranslationHandler,
	dashboardHandler *DashboardHandler,
	authService *auth.Service,
	metrics *middleware.Metrics,
	logger *logrus.Logger,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(metrics.Instrument)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/provider", authHandler.LoginWithProvider).Methods("POST")
	api.HandleFunc("/auth/otp/send", authHandler.SendOTP).Methods("POST")
	api.HandleFunc("/auth/otp/verify", authHandler.VerifyOTP).Methods("POST")

	authed := api.NewRoute().Subrouter()
	authed.Use(middleware.RequireUser(authService, logger))

	authed.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")

	authed.HandleFunc("/chat/sessions", chatHandler.ListSessions).Methods("GET")
	authed.HandleFunc("/chat/sessions", chatHandler.CreateSession).Methods("POST")
	authed.HandleFunc("/chat/sessions/{id}/activate", chatHandler.ActivateSession).Methods("PUT")
	authed.HandleFunc("/chat/sessions/{id}/messages", chatHandler.SendMessage).Methods("POST")

	authed.HandleFunc("/translations/text", translationHandler.TranslateText).Methods("POST")
	authed.HandleFunc("/translations/file", translationHandler.TranslateFile).Methods("POST")
	authed.HandleFunc("/translations", translationHandler.ListRecords).Methods("GET")
	authed.HandleFunc("/translations/{id}", translationHandler.DeleteRecord).Methods("DELETE")

	authed.HandleFunc("/faqs", dashboardHandler.ListFaqs).Methods("GET")
	authed.HandleFunc("/faqs", dashboardHandler.CreateFaq).Methods("POST")
	authed.HandleFunc("/faqs/summary", dashboardHandler.Summary).Methods("GET")
	authed.HandleFunc("/faqs/{id}", dashboardHandler.EditFaq).Methods("PUT")
	authed.HandleFunc("/faqs/{id}", dashboardHandler.DeleteFaq).Methods("DELETE")
	authed.HandleFunc("/faqs/{id}/languages", dashboardHandler.SetLanguages).Methods("PUT")
	authed.HandleFunc("/categories", dashboardHandler.ListCategories).Methods("GET")
	authed.HandleFunc("/categories", dashboardHandler.AddCategory).Methods("POST")

	return router
}
