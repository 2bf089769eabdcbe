package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notafiscal-server/internal/config"
	"notafiscal-server/internal/handler"

	"github.com/joho/godotenv"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}
	// Wiring
	container, err := config.NewContainer()
	if err != nil {
		log.Fatalf("failed to build container: %v", err)
	}

	// Handlers
	authHandler := handler.NewAuthHandler()

	workflowHandler := handler.NewWorkflowHandler(
		container.WorkflowRegistry,
		container.Config.GetMaxFileSize(),
		container.Logger,
	)

	invoiceHandler := handler.NewInvoiceHandler(
		container.InvoiceService,
		container.Logger,
	)

	profileHandler := handler.NewProfileHandler(
		container.ProfileService,
		container.Logger,
	)

	authMiddleware := handler.NewAuthMiddleware(
		container.AuthService,
		container.Logger,
	)

	// Router
	router := handler.NewRouter(
		authHandler,
		workflowHandler,
		invoiceHandler,
		profileHandler,
		authMiddleware.Middleware,
		container.Config.GetAllowedOrigins(),
	)

	// start server
	server := &http.Server{
		Addr:              ":" + container.Config.GetServerPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server
	go func() {
		container.Logger.Info("Server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Error("Server failed to start", err)
			os.Exit(1)
		}
	}()
	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	container.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		container.Logger.Error("Forced shutdown", err)
		_ = server.Close()
	}

	container.Logger.Info("Server exited")
}
