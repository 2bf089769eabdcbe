package config

import (
	"strings"

	"notafiscal-server/internal/domain"

	"github.com/spf13/viper"
)

const (
	defaultPort          = "8080"
	defaultBucket        = "invoices"
	defaultSignedURLTTL  = 3600
	defaultAllowedOrigin = "http://localhost:5173,http://localhost:4173,http://localhost:3000"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort        string
	LogLevel          string
	MaxFileSize       int64
	SupabaseURL       string
	SupabaseKey       string
	ExtractionWebhook string
	InvoiceBucket     string
	SignedURLTTL      int
	AllowedOrigins    []string
}

// NewConfig reads the configuration from the environment
func NewConfig() domain.Config {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	// PORT is what Cloud Run and most PaaS set; SERVER_PORT is kept for local runs.
	port := v.GetString("PORT")
	if port == "" {
		port = v.GetString("SERVER_PORT")
	}

	maxFileSize := v.GetInt64("MAX_FILE_SIZE")
	if maxFileSize <= 0 {
		maxFileSize = domain.MaxUploadSize
	}

	ttl := v.GetInt("SIGNED_URL_TTL_SECONDS")
	if ttl <= 0 {
		ttl = defaultSignedURLTTL
	}

	return &AppConfig{
		ServerPort:        port,
		LogLevel:          v.GetString("LOG_LEVEL"),
		MaxFileSize:       maxFileSize,
		SupabaseURL:       v.GetString("SUPABASE_URL"),
		SupabaseKey:       v.GetString("SUPABASE_ANON_KEY"),
		ExtractionWebhook: v.GetString("EXTRACTION_WEBHOOK_URL"),
		InvoiceBucket:     v.GetString("INVOICE_BUCKET"),
		SignedURLTTL:      ttl,
		AllowedOrigins:    splitList(v.GetString("ALLOWED_ORIGINS")),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", defaultPort)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_FILE_SIZE", domain.MaxUploadSize)
	v.SetDefault("INVOICE_BUCKET", defaultBucket)
	v.SetDefault("SIGNED_URL_TTL_SECONDS", defaultSignedURLTTL)
	v.SetDefault("ALLOWED_ORIGINS", defaultAllowedOrigin)
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetMaxFileSize returns the maximum accepted upload size in bytes
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetExtractionWebhookURL returns the endpoint documents are posted to for extraction
func (c *AppConfig) GetExtractionWebhookURL() string {
	return c.ExtractionWebhook
}

// GetInvoiceBucket returns the storage bucket holding invoice attachments
func (c *AppConfig) GetInvoiceBucket() string {
	return c.InvoiceBucket
}

// GetSignedURLTTL returns the signed URL lifetime in seconds
func (c *AppConfig) GetSignedURLTTL() int {
	return c.SignedURLTTL
}

// GetAllowedOrigins returns the CORS origins
func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
