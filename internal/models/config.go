package models

import "time"

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Provider ProviderConfig
	Server   ServerConfig
	Chain    ChainConfig
	Enricher EnricherConfig
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

// ProviderConfig holds settings for the custodial trading provider.
type ProviderConfig struct {
	BaseURL     string
	APIKey      string
	Chain       string // chain identifier sent with every order, e.g. "eth"
	AccountType string // wallet account type the snapshot is filtered to, e.g. "evm"
	Timeout     time.Duration
	RetryCount  int
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr         string
	JWTSecret    string
	TokenExpiry  time.Duration
	PairsFile    string
	CookieSecure bool
}

// ChainConfig holds blockchain RPC settings
type ChainConfig struct {
	RPCEndpoint string
}

// EnricherConfig holds settings for the periodic enrichment listener
type EnricherConfig struct {
	PollingInterval time.Duration
	CleanupInterval time.Duration
	MaxPending      int
}
