package config

import (
	"net/http"

	"notafiscal-server/internal/domain"
	"notafiscal-server/internal/infra/supabase"
	"notafiscal-server/internal/infra/webhook"
	"notafiscal-server/internal/repository"
	"notafiscal-server/internal/service"
	"notafiscal-server/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config            domain.Config
	Logger            domain.Logger
	SupabaseClient    domain.SupabaseClient
	AuthService       domain.AuthService
	InvoiceRepository domain.InvoiceRepository
	ProfileRepository domain.ProfileRepository
	Storage           domain.ObjectStorage
	WorkflowRegistry  domain.WorkflowRegistry
	InvoiceService    domain.InvoiceService
	ProfileService    domain.ProfileService
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel())

	supabaseClient := supabase.NewSupabaseClient(config, appLogger)
	if err := supabaseClient.Initialize(); err != nil {
		appLogger.Error("Supabase client not initialized", err)
	}

	authService := service.NewAuthService(supabaseClient, appLogger)

	invoiceRepo := repository.NewSupabaseInvoiceRepository(supabaseClient, appLogger)
	profileRepo := repository.NewSupabaseProfileRepository(supabaseClient, appLogger)
	storage := service.NewStorageService(supabaseClient, config.GetInvoiceBucket(), config.GetSignedURLTTL(), appLogger)

	// The webhook can take minutes on large PDFs; requests are bounded by the caller's context.
	extractionClient := webhook.NewClient(config.GetExtractionWebhookURL(), &http.Client{}, appLogger)
	gateway, err := service.NewExtractionGateway(extractionClient, appLogger)
	if err != nil {
		return nil, err
	}

	intake := service.NewIntake(config.GetMaxFileSize())
	submitter := service.NewSubmitter(invoiceRepo, storage, appLogger)

	registry := service.NewWorkflowRegistry(func() domain.InvoiceWorkflow {
		return service.NewWorkflow(service.WorkflowDeps{
			Intake:    intake,
			Extractor: gateway,
			Submitter: submitter,
			Logger:    appLogger,
		})
	})

	return &Container{
		Config:            config,
		Logger:            appLogger,
		SupabaseClient:    supabaseClient,
		AuthService:       authService,
		InvoiceRepository: invoiceRepo,
		ProfileRepository: profileRepo,
		Storage:           storage,
		WorkflowRegistry:  registry,
		InvoiceService:    service.NewInvoiceService(invoiceRepo, storage, appLogger),
		ProfileService:    service.NewProfileService(profileRepo, appLogger),
	}, nil
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}

// GetSupabaseClient returns the Supabase client instance
func (c *Container) GetSupabaseClient() domain.SupabaseClient {
	return c.SupabaseClient
}

// GetInvoiceRepository returns the invoice repository instance
func (c *Container) GetInvoiceRepository() domain.InvoiceRepository {
	return c.InvoiceRepository
}

// GetProfileRepository returns the profile repository instance
func (c *Container) GetProfileRepository() domain.ProfileRepository {
	return c.ProfileRepository
}
