/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"peoplebot-go/internal/models"
)

func Load() (*models.Config, error) {
	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	providerTimeout, err := getEnvDuration("PROVIDER_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	tokenExpiry, err := getEnvDuration("TOKEN_EXPIRY", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	pollingInterval, err := getEnvDuration("ENRICHER_POLLING_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cleanupInterval, err := getEnvDuration("ENRICHER_CLEANUP_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	return &models.Config{
		Database: models.DatabaseConfig{
			Path:            getEnvString("DATABASE_PATH", "peoplebot.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
		},
		Provider: models.ProviderConfig{
			BaseURL:     getEnvString("PROVIDER_BASE_URL", "https://api.dbotx.com"),
			APIKey:      os.Getenv("PROVIDER_API_KEY"),
			Chain:       getEnvString("PROVIDER_CHAIN", "eth"),
			AccountType: getEnvString("PROVIDER_ACCOUNT_TYPE", "evm"),
			Timeout:     providerTimeout,
			RetryCount:  getEnvInt("PROVIDER_RETRY_COUNT", 3),
		},
		Server: models.ServerConfig{
			Addr:         getEnvString("SERVER_ADDR", ":5000"),
			JWTSecret:    os.Getenv("JWT_SECRET"),
			TokenExpiry:  tokenExpiry,
			PairsFile:    getEnvString("PAIRS_FILE", ""),
			CookieSecure: getEnvBool("COOKIE_SECURE", false),
		},
		Chain: models.ChainConfig{
			RPCEndpoint: os.Getenv("RPC_ENDPOINT"),
		},
		Enricher: models.EnricherConfig{
			PollingInterval: pollingInterval,
			CleanupInterval: cleanupInterval,
			MaxPending:      getEnvInt("ENRICHER_MAX_PENDING", 100),
		},
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
