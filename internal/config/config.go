package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Google    GoogleConfig    `yaml:"google" mapstructure:"google"`
	Sender    SenderConfig    `yaml:"sender" mapstructure:"sender"`
	Pacing    PacingConfig    `yaml:"pacing" mapstructure:"pacing"`
	Journal   JournalConfig   `yaml:"journal" mapstructure:"journal"`
	Templates TemplatesConfig `yaml:"templates" mapstructure:"templates"`
	Retry     RetryConfig     `yaml:"retry" mapstructure:"retry"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// GoogleConfig holds Google API credentials and spreadsheet ids.
type GoogleConfig struct {
	CredentialsFile   string `yaml:"credentials_file" mapstructure:"credentials_file"`
	RegistrySheetID   string `yaml:"registry_sheet_id" mapstructure:"registry_sheet_id"`
	InvoiceSheetID    string `yaml:"invoice_sheet_id" mapstructure:"invoice_sheet_id"`
	RequestsPerMinute int    `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// SenderConfig describes the operator sending the messages.
type SenderConfig struct {
	Name           string `yaml:"name" mapstructure:"name"`
	Phone          string `yaml:"phone" mapstructure:"phone"`
	Email          string `yaml:"email" mapstructure:"email"`
	AttachmentPath string `yaml:"attachment_path" mapstructure:"attachment_path"`
	AttachmentName string `yaml:"attachment_name" mapstructure:"attachment_name"`
}

// PacingConfig controls the waits around each outreach action.
type PacingConfig struct {
	SendMinSecs   int `yaml:"send_min_secs" mapstructure:"send_min_secs"`
	SendMaxSecs   int `yaml:"send_max_secs" mapstructure:"send_max_secs"`
	DraftSecs     int `yaml:"draft_secs" mapstructure:"draft_secs"`
	AfterSendSecs int `yaml:"after_send_secs" mapstructure:"after_send_secs"`
}

// JournalConfig configures the action journal backend.
type JournalConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

// TemplatesConfig points at an optional message templates file.
type TemplatesConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// RetryConfig configures retries of idempotent spreadsheet calls.
type RetryConfig struct {
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from ./config.yaml, if present, and environment.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom reads configuration from path and environment. An empty path
// falls back to an optional ./config.yaml; an explicit path must exist.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("OUTREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("google.credentials_file", "")
	v.SetDefault("google.registry_sheet_id", "")
	v.SetDefault("google.invoice_sheet_id", "")
	v.SetDefault("google.requests_per_minute", 60)
	v.SetDefault("sender.name", "")
	v.SetDefault("sender.phone", "")
	v.SetDefault("sender.email", "")
	v.SetDefault("sender.attachment_path", "attachment.pdf")
	v.SetDefault("sender.attachment_name", "Carte_pro.pdf")
	v.SetDefault("pacing.send_min_secs", 120)
	v.SetDefault("pacing.send_max_secs", 180)
	v.SetDefault("pacing.draft_secs", 20)
	v.SetDefault("pacing.after_send_secs", 5)
	v.SetDefault("journal.driver", "sqlite")
	v.SetDefault("journal.dsn", "outreach.db")
	v.SetDefault("templates.path", "")
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_backoff_ms", 500)
	v.SetDefault("retry.max_backoff_ms", 30000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the settings needed by the given command are present
// and consistent. Mode is one of notary, client, invoice, history or
// offline (workbook runs, no spreadsheet ids needed).
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "notary":
		if c.Google.RegistrySheetID == "" {
			errs = append(errs, "google.registry_sheet_id is required")
		}
	case "client", "invoice":
		if c.Google.InvoiceSheetID == "" {
			errs = append(errs, "google.invoice_sheet_id is required")
		}
	case "history", "offline":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Pacing.SendMinSecs < 0 || c.Pacing.SendMaxSecs < 0 || c.Pacing.DraftSecs < 0 || c.Pacing.AfterSendSecs < 0 {
		errs = append(errs, "pacing values must be >= 0")
	}
	if c.Pacing.SendMinSecs > c.Pacing.SendMaxSecs {
		errs = append(errs, "pacing.send_min_secs must be <= pacing.send_max_secs")
	}

	switch c.Journal.Driver {
	case "sqlite", "postgres":
		if c.Journal.DSN == "" {
			errs = append(errs, "journal.dsn is required")
		}
	case "none":
	default:
		errs = append(errs, "journal.driver must be one of sqlite, postgres, none")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
