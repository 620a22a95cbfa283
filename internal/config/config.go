package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"tracker-alert-sync/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// DefaultAllowedOrigins are the dashboard origins always accepted by CORS
var DefaultAllowedOrigins = []string{
	"https://tracker-dashboard-2.preview.emergentagent.com",
	"https://tracker4th.netlify.app",
	"http://localhost:3000",
}

// Default returns the configuration used when no file or environment overrides exist
func Default() *models.Config {
	origins := make([]string, len(DefaultAllowedOrigins))
	copy(origins, DefaultAllowedOrigins)

	return &models.Config{
		Server: models.ServerConfig{
			Port:           "8001",
			AllowedOrigins: origins,
		},
		Email: models.EmailConfig{
			Imap:         "imap.gmail.com:993",
			MailBox:      "INBOX",
			SenderFilter: "alerts-no-reply@tracking-update.com",
			FetchTimeout: 30 * time.Second,
		},
		Sync: models.SyncConfig{
			DefaultLimit:     100,
			ListDefaultLimit: 5000,
			ListMaxLimit:     10000,
			ExcerptLength:    500,
		},
		LogLevel: "info",
	}
}

// Load reads the configuration from the specified YAML file on top of the defaults,
// then applies .env and environment overrides. A missing file is not an error.
func Load(filepath string) (*models.Config, error) {
	config := Default()

	configFile, err := os.ReadFile(filepath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(configFile, config); err != nil {
			return nil, err
		}
		// the file extends the default origins rather than replacing them
		for _, origin := range DefaultAllowedOrigins {
			config.Server.AllowedOrigins = appendUnique(config.Server.AllowedOrigins, origin)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	// .env is optional
	_ = godotenv.Load()

	applyEnv(config)
	return config, nil
}

func applyEnv(config *models.Config) {
	config.Email.Login = getEnv("GMAIL_EMAIL", config.Email.Login)
	config.Email.Password = getEnv("GMAIL_APP_PASSWORD", config.Email.Password)
	config.Email.Imap = getEnv("IMAP_SERVER", config.Email.Imap)
	config.Email.MailBox = getEnv("IMAP_MAILBOX", config.Email.MailBox)
	config.Email.SenderFilter = getEnv("ALERT_SENDER", config.Email.SenderFilter)
	config.Server.Port = getEnv("PORT", config.Server.Port)
	config.LogLevel = getEnv("LOG_LEVEL", config.LogLevel)

	if extra := os.Getenv("ALLOWED_ORIGINS"); strings.TrimSpace(extra) != "" {
		for _, origin := range strings.Split(extra, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				config.Server.AllowedOrigins = appendUnique(config.Server.AllowedOrigins, origin)
			}
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
