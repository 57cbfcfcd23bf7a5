/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures server parameters by reading operating system environment variables,
including the running environment, port, CORS allowed origins, the empty-room grace
period, and the chat history capacity.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Security Settings
	AllowedOrigins []string

	// Engine Settings
	GracePeriod      time.Duration
	ChatHistoryLimit int
}

// LoadConfig reads and parses the application configuration from environment variables.
// It provides default values for each configuration item and performs necessary type
// conversions and validation. It returns a pointer to the AppConfig struct and any
// error encountered.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	// Environment
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Port
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// --- Security Settings ---
	// AllowedOrigins
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for _, origin := range origins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	// --- Engine Settings ---
	// GracePeriod: how long an empty room survives before teardown.
	graceStr := os.Getenv("GRACE_PERIOD_SECONDS")
	if graceStr == "" {
		graceStr = "60"
	}
	graceSeconds, err := strconv.Atoi(graceStr)
	if err != nil {
		return nil, fmt.Errorf("invalid GRACE_PERIOD_SECONDS environment variable: %w", err)
	}
	if graceSeconds < 1 {
		return nil, fmt.Errorf("GRACE_PERIOD_SECONDS must be at least 1, got %d", graceSeconds)
	}
	cfg.GracePeriod = time.Duration(graceSeconds) * time.Second

	// ChatHistoryLimit: capacity of each room's chat history buffer.
	limitStr := os.Getenv("CHAT_HISTORY_LIMIT")
	if limitStr == "" {
		limitStr = "100"
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return nil, fmt.Errorf("invalid CHAT_HISTORY_LIMIT environment variable: %w", err)
	}
	if limit < 1 {
		return nil, fmt.Errorf("CHAT_HISTORY_LIMIT must be at least 1, got %d", limit)
	}
	cfg.ChatHistoryLimit = limit

	return cfg, nil
}
