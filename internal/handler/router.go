package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(
	authHandler *AuthHandler,
	workflowHandler *WorkflowHandler,
	invoiceHandler *InvoiceHandler,
	profileHandler *ProfileHandler,
	authMiddleware func(http.Handler) http.Handler,
	allowedOrigins []string,
) http.Handler {
	router := mux.NewRouter()

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "notafiscal-server"})
	}).Methods(http.MethodGet)

	// Protected routes (require authentication)
	protected := router.PathPrefix("/api/v1").Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet)

	// Capture workflow
	protected.HandleFunc("/workflow", workflowHandler.GetState).Methods(http.MethodGet)
	protected.HandleFunc("/workflow/file", workflowHandler.SelectFile).Methods(http.MethodPost)
	protected.HandleFunc("/workflow/file", workflowHandler.ClearFile).Methods(http.MethodDelete)
	protected.HandleFunc("/workflow/extract", workflowHandler.Extract).Methods(http.MethodPost)
	protected.HandleFunc("/workflow/draft", workflowHandler.OpenDraft).Methods(http.MethodPost)
	protected.HandleFunc("/workflow/draft", workflowHandler.UpdateDraft).Methods(http.MethodPatch)
	protected.HandleFunc("/workflow/close", workflowHandler.RequestClose).Methods(http.MethodPost)
	protected.HandleFunc("/workflow/close/confirm", workflowHandler.ConfirmClose).Methods(http.MethodPost)
	protected.HandleFunc("/workflow/close/cancel", workflowHandler.CancelClose).Methods(http.MethodPost)
	protected.HandleFunc("/workflow/save", workflowHandler.Save).Methods(http.MethodPost)
	protected.HandleFunc("/workflow/save/confirm", workflowHandler.ConfirmSave).Methods(http.MethodPost)
	protected.HandleFunc("/workflow/save/cancel", workflowHandler.CancelSave).Methods(http.MethodPost)

	// Saved invoices
	protected.HandleFunc("/invoices", invoiceHandler.ListInvoices).Methods(http.MethodGet)
	protected.HandleFunc("/invoices/{id}", invoiceHandler.GetInvoice).Methods(http.MethodGet)
	protected.HandleFunc("/dashboard", invoiceHandler.Dashboard).Methods(http.MethodGet)

	// Profile
	protected.HandleFunc("/profile", profileHandler.GetProfile).Methods(http.MethodGet)
	protected.HandleFunc("/profile", profileHandler.UpdateProfile).Methods(http.MethodPut)

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-CSRF-Token",
		},
		ExposedHeaders: []string{
			"Link",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
