package models

import "time"

// Config represents the application configuration
type Config struct {
	Database    DatabaseConfig
	Categorizer CategorizerConfig
	Exporter    ExporterConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// CategorizerConfig holds settings for the external AI categorization service
type CategorizerConfig struct {
	ServiceURL          string
	Timeout             time.Duration
	ConfidenceThreshold float64
	CategoriesFile      string
}

// ExporterConfig holds feedback exporter settings
type ExporterConfig struct {
	AmqpURL         string
	Exchange        string
	Queue           string
	PollingInterval time.Duration
	BatchSize       int
}
