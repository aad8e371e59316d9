// Copyright (c) Microsoft. All rights reserved.

// Package config loads process configuration from a .env file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// ErrConfig is returned when configuration is missing or unreadable.
var ErrConfig = errors.New("config error")

const (
	DefaultEnvFile    = ".env"
	DefaultListenAddr = ":8501"
)

// Model configures the chat-completion endpoint.
type Model struct {
	APIKey  string
	BaseURL string
	Name    string

	// AzureEndpoint, when set, selects an Azure-hosted OpenAI deployment
	// authenticated with Azure AD instead of an API key.
	AzureEndpoint string
}

// Twilio holds the messaging credentials and numbers.
type Twilio struct {
	AccountSID     string
	AuthToken      string
	WhatsAppNumber string
	AdminNumber    string
	Region         string
	Edge           string
}

// Config is the process configuration. It is read once at startup and not
// modified afterwards.
type Config struct {
	Model      Model
	Twilio     Twilio
	ListenAddr string
	LogLevel   string
}

// Load reads envFile (if it exists) and the process environment. Environment
// variables that are set and non-empty take precedence over the file. An empty envFile means
// [DefaultEnvFile].
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}

	fileVars, err := godotenv.Read(envFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: reading %s: %w", ErrConfig, envFile, err)
		}
		fileVars = nil
	} else {
		slog.Debug("loaded env file", "path", envFile, "vars", len(fileVars))
	}

	return FromEnv(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}), nil
}

// FromEnv builds a Config from a lookup function such as os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) *Config {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	logLevel := get("LOG_LEVEL", "info")
	if get("DEBUG", "") != "" {
		logLevel = "debug"
	}

	return &Config{
		Model: Model{
			APIKey:        get("GEMINI_API_KEY", ""),
			BaseURL:       get("MODEL_BASE_URL", ""),
			Name:          get("MODEL", ""),
			AzureEndpoint: get("AZURE_OPENAI_ENDPOINT", ""),
		},
		Twilio: Twilio{
			AccountSID:     get("TWILIO_ACCOUNT_SID", ""),
			AuthToken:      get("TWILIO_AUTH_TOKEN", ""),
			WhatsAppNumber: get("TWILIO_WHATSAPP_NUMBER", ""),
			AdminNumber:    get("ADMIN_WHATSAPP_NUMBER", ""),
			Region:         get("TWILIO_REGION", ""),
			Edge:           get("TWILIO_EDGE", ""),
		},
		ListenAddr: get("LISTEN_ADDR", DefaultListenAddr),
		LogLevel:   logLevel,
	}
}

// Validate reports every missing required setting in one error wrapping
// [ErrConfig].
func (c *Config) Validate() error {
	var missing []string
	if c.Model.APIKey == "" && c.Model.AzureEndpoint == "" {
		missing = append(missing, "GEMINI_API_KEY (or AZURE_OPENAI_ENDPOINT)")
	}
	if c.Twilio.AccountSID == "" {
		missing = append(missing, "TWILIO_ACCOUNT_SID")
	}
	if c.Twilio.AuthToken == "" {
		missing = append(missing, "TWILIO_AUTH_TOKEN")
	}
	if c.Twilio.WhatsAppNumber == "" {
		missing = append(missing, "TWILIO_WHATSAPP_NUMBER")
	}
	if c.Twilio.AdminNumber == "" {
		missing = append(missing, "ADMIN_WHATSAPP_NUMBER")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrConfig, strings.Join(missing, ", "))
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
