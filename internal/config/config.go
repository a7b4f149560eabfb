package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App        AppConfig
	Mail       MailConfig
	Classifier ClassifierConfig
	Routing    RoutingConfig
	Redis      RedisConfig
	Logger     LoggerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                string
	Env                 string
	Host                string
	Port                string
	Version             string
	PollIntervalSeconds int
}

// MailConfig holds credentials for the monitored mailbox. The address is both
// the IMAP login and the SMTP sender identity.
type MailConfig struct {
	Address     string
	AppPassword string
	IMAPHost    string
	IMAPPort    int
	SMTPHost    string
	SMTPPort    int
}

// ClassifierConfig holds access to the hosted judgment model.
type ClassifierConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// RoutingConfig maps staff roles to their contact addresses.
type RoutingConfig struct {
	SecurityOfficer    string
	HelpdeskManager    string
	HRCoordinator      string
	ProcurementOfficer string
	NetworkAdmin       string
	DefaultAddress     string
}

// RedisConfig holds connection values for the seen-message cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	SeenKey  string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults
// where possible. Mail credentials are validated separately at startup via
// MailConfig.Validate.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                getEnv("APP_NAME", "helpdesk-triage"),
			Env:                 getEnv("APP_ENV", "development"),
			Host:                getEnv("APP_HOST", "0.0.0.0"),
			Port:                getEnv("APP_PORT", "8000"),
			Version:             getEnv("APP_VERSION", "dev"),
			PollIntervalSeconds: getEnvAsInt("POLL_INTERVAL_SECONDS", 30),
		},
		Mail: MailConfig{
			Address:     os.Getenv("MAIL_ADDRESS"),
			AppPassword: os.Getenv("MAIL_APP_PASSWORD"),
			IMAPHost:    getEnv("MAIL_IMAP_HOST", "imap.gmail.com"),
			IMAPPort:    getEnvAsInt("MAIL_IMAP_PORT", 993),
			SMTPHost:    getEnv("MAIL_SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:    getEnvAsInt("MAIL_SMTP_PORT", 465),
		},
		Classifier: ClassifierConfig{
			APIKey:         os.Getenv("CLASSIFIER_API_KEY"),
			BaseURL:        getEnv("CLASSIFIER_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:          getEnv("CLASSIFIER_MODEL", "llama-3.1-70b-versatile"),
			TimeoutSeconds: getEnvAsInt("CLASSIFIER_TIMEOUT_SECONDS", 15),
		},
		Routing: RoutingConfig{
			SecurityOfficer:    getEnv("SOFTWARE_SECURITY_OFFICER", "security@company.com"),
			HelpdeskManager:    getEnv("IT_HELPDESK_MANAGER", "itmanager@company.com"),
			HRCoordinator:      getEnv("HR_COORDINATOR", "hr@company.com"),
			ProcurementOfficer: getEnv("PROCUREMENT_OFFICER", "procurement@company.com"),
			NetworkAdmin:       getEnv("NETWORK_ADMIN", "network@company.com"),
			DefaultAddress:     getEnv("ROUTING_DEFAULT_ADDRESS", "it.manager@company.com"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
			SeenKey:  getEnv("REDIS_SEEN_KEY", "triage:processed_ids"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// PollInterval returns the configured inbox poll interval.
func (a AppConfig) PollInterval() time.Duration {
	if a.PollIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(a.PollIntervalSeconds) * time.Second
}

// Validate checks that mail credentials are present and structurally sound.
// This is the one fatal startup condition: the poll loop must not start with
// absent or malformed credentials.
func (m MailConfig) Validate() error {
	if m.Address == "" {
		return errors.New("MAIL_ADDRESS is required")
	}
	if m.AppPassword == "" {
		return errors.New("MAIL_APP_PASSWORD is required")
	}
	if len(m.AppPassword) != 16 {
		return errors.New("MAIL_APP_PASSWORD must be a 16-character app password")
	}
	return nil
}

// IMAPAddr returns the IMAP dial address.
func (m MailConfig) IMAPAddr() string {
	return fmt.Sprintf("%s:%d", m.IMAPHost, m.IMAPPort)
}

// Timeout returns the bounded timeout for one remote classification call.
func (c ClassifierConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
