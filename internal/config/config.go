package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"call-data-gen/internal/schedule"
)

// Config is the explicit configuration object, constructed once at startup
// and passed by reference into the components that need it. Environment
// variables provide the defaults; an optional yaml file named by
// DATAGEN_CONFIG overrides them.
type Config struct {
	HTTPAddr string `yaml:"http_addr"`

	// PipelineHost is the ingestion pipeline FQDN records are posted to.
	PipelineHost          string        `yaml:"pipeline_host"`
	PipelineAuthorization string        `yaml:"pipeline_authorization"`
	PipelineTimeout       time.Duration `yaml:"pipeline_timeout"`
	// InsecureSkipVerify disables pipeline TLS certificate validation.
	// Surfaced by name so nobody has to dig for it; defaults to false.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`

	WindowStartHour int           `yaml:"window_start_hour"`
	WindowEndHour   int           `yaml:"window_end_hour"`
	IntervalStep    time.Duration `yaml:"interval_step"`

	BasicUsername string `yaml:"basic_username"`
	BasicPassword string `yaml:"basic_password"`
	JWTSecret     string `yaml:"jwt_secret"`

	// AuditDatabaseURL enables the Postgres audit trail when set; audit
	// entries go to the service log otherwise.
	AuditDatabaseURL string `yaml:"audit_database_url"`
}

// Load builds the configuration from the environment and the optional
// config file, then validates it.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:              getenvDefault("HTTP_ADDR", ":8003"),
		PipelineHost:          os.Getenv("DATA_PREPPER_FQDN"),
		PipelineAuthorization: os.Getenv("DATA_PREPPER_AUTH"),
		PipelineTimeout:       getenvDuration("PIPELINE_TIMEOUT", 5*time.Second),
		InsecureSkipVerify:    getenvBool("PIPELINE_INSECURE_SKIP_VERIFY", false),
		WindowStartHour:       getenvIntDefault("WINDOW_START_HOUR", 9),
		WindowEndHour:         getenvIntDefault("WINDOW_END_HOUR", 17),
		IntervalStep:          getenvDuration("INTERVAL_STEP", 15*time.Minute),
		BasicUsername:         os.Getenv("BASIC_AUTH_USERNAME"),
		BasicPassword:         os.Getenv("BASIC_AUTH_PASSWORD"),
		JWTSecret:             os.Getenv("AUTH_JWT_SECRET"),
		AuditDatabaseURL:      os.Getenv("AUDIT_DATABASE_URL"),
	}

	if path := os.Getenv("DATAGEN_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.PipelineHost == "" {
		return errors.New("config: DATA_PREPPER_FQDN is required")
	}
	if (c.BasicUsername == "" || c.BasicPassword == "") && c.JWTSecret == "" {
		return errors.New("config: basic credentials or AUTH_JWT_SECRET required")
	}
	if c.WindowStartHour < 0 || c.WindowEndHour > 23 || c.WindowStartHour >= c.WindowEndHour {
		return errors.New("config: generation window hours out of order")
	}
	if c.IntervalStep <= 0 {
		return errors.New("config: interval step must be positive")
	}
	return nil
}

// Window returns the generation window the scheduler runs over.
func (c Config) Window() schedule.Window {
	return schedule.Window{
		StartHour: c.WindowStartHour,
		EndHour:   c.WindowEndHour,
		Step:      c.IntervalStep,
	}
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
