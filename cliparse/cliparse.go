package cliparse

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Database types
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

const (
	defaultPort     = 3318
	defaultBaseURL  = "https://drawjoy.app"
	defaultMailFrom = "santa@drawjoy.app"
)

type Config struct {
	Port            int
	DatabaseURL     string
	DatabaseType    string
	AdminKeySalt    string
	ParticipantSalt string
	BaseURL         string
	ResendAPIKey    string
	MailFrom        string
	LogLevel        slog.Level
	ConfigFile      string
}

// fileConfig is the YAML layout accepted by --config.
type fileConfig struct {
	Port     int    `yaml:"port"`
	BaseURL  string `yaml:"base_url"`
	LogLevel string `yaml:"log_level"`
	Database struct {
		URL  string `yaml:"url"`
		Type string `yaml:"type"`
	} `yaml:"database"`
	Secrets struct {
		AdminKeySalt    string `yaml:"admin_key_salt"`
		ParticipantSalt string `yaml:"participant_salt"`
	} `yaml:"secrets"`
	Mail struct {
		From         string `yaml:"from"`
		ResendAPIKey string `yaml:"resend_api_key"`
	} `yaml:"mail"`
}

// Flags holds raw flag values before env and file fallbacks are applied.
type Flags struct {
	Port            int
	DatabaseURL     string
	DatabaseType    string
	AdminKeySalt    string
	ParticipantSalt string
	BaseURL         string
	MailFrom        string
	LogLevel        string
	ConfigFile      string
}

// BindFlags registers all configuration flags on fs.
func BindFlags(fs *pflag.FlagSet, f *Flags) {
	// Network config (can be CLI args or env)
	fs.IntVarP(&f.Port, "port", "p", 0, "Server port")
	fs.StringVarP(&f.DatabaseURL, "database-url", "d", "", "Database URL")
	fs.StringVarP(&f.DatabaseType, "database-type", "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&f.BaseURL, "base-url", "", "Public base URL used in share links")
	fs.StringVar(&f.MailFrom, "mail-from", "", "Sender address for draw emails")
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVarP(&f.ConfigFile, "config", "c", "", "Path to YAML config file")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&f.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")
	fs.StringVar(&f.ParticipantSalt, "participant-salt", "", "Participant token salt (prefer env)")
}

// ParseFlags parses args and resolves the final configuration.
func ParseFlags(args []string) (Config, error) {
	var f Flags

	fs := pflag.NewFlagSet("drawjoy", pflag.ContinueOnError)
	BindFlags(fs, &f)

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	return Resolve(f)
}

// LoadDotEnv loads variables from a .env file without overriding the
// environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Resolve applies fallbacks to f. Precedence: flags, environment, config
// file, defaults.
func Resolve(f Flags) (Config, error) {
	var file fileConfig

	cfg := Config{ConfigFile: first(f.ConfigFile, os.Getenv("DRAWJOY_CONFIG"))}
	if cfg.ConfigFile != "" {
		data, err := os.ReadFile(cfg.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Port
	cfg.Port = f.Port
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		}
	}
	if cfg.Port == 0 {
		cfg.Port = file.Port
	}
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}

	cfg.DatabaseURL = first(f.DatabaseURL, os.Getenv("DATABASE_URL"), file.Database.URL)
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	cfg.DatabaseType = first(f.DatabaseType, os.Getenv("DATABASE_TYPE"), file.Database.Type)
	if cfg.DatabaseType == "" {
		if strings.HasPrefix(cfg.DatabaseURL, "postgres://") || strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
			cfg.DatabaseType = DatabasePostgres
		} else {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	cfg.BaseURL = strings.TrimRight(first(f.BaseURL, os.Getenv("BASE_URL"), file.BaseURL, defaultBaseURL), "/")
	cfg.MailFrom = first(f.MailFrom, os.Getenv("MAIL_FROM"), file.Mail.From, defaultMailFrom)
	cfg.ResendAPIKey = first(os.Getenv("RESEND_API_KEY"), file.Mail.ResendAPIKey)

	level := first(f.LogLevel, os.Getenv("LOG_LEVEL"), file.LogLevel)
	if level != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return Config{}, fmt.Errorf("invalid log level: %w", err)
		}
	}

	// Secrets - MUST be provided
	cfg.AdminKeySalt = first(f.AdminKeySalt, os.Getenv("ADMIN_KEY_SALT"), file.Secrets.AdminKeySalt)
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	cfg.ParticipantSalt = first(f.ParticipantSalt, os.Getenv("PARTICIPANT_SALT"), file.Secrets.ParticipantSalt)
	if cfg.ParticipantSalt == "" {
		return Config{}, errors.New("PARTICIPANT_SALT required")
	}

	return cfg, nil
}

// first returns the first non-empty value.
func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
