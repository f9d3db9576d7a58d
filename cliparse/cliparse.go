package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort          = 3318
	DefaultPublicBaseURL = "https://worldstaffingawards.com"
	DefaultUploader      = "admin@worldstaffingawards.com"
)

type Config struct {
	Port            int
	DatabaseURL     string
	DatabaseType    string
	AdminKey        string
	CronSecret      string
	PublicBaseURL   string
	HubSpotToken    string
	HubSpotBaseURL  string
	LoopsAPIKey     string
	LoopsBaseURL    string
	SyncInterval    time.Duration
	DefaultUploader string
	IPHashSalt      string
}

// LoadEnvFile loads a .env file into the process environment if one exists.
// Variables already set in the environment win.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// ParseFlags validates flags and falls back to the environment
func ParseFlags(args []string) (Config, error) {
	return parse(args, true)
}

// ParseToolFlags is ParseFlags for operator tools that talk to the database
// directly and never serve the admin API, so ADMIN_KEY is optional.
func ParseToolFlags(args []string) (Config, error) {
	return parse(args, false)
}

func parse(args []string, requireAdminKey bool) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("wsa2026", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (postgres or sqlite)")
	fs.StringVar(&cfg.PublicBaseURL, "base-url", "", "Public site base URL for live nominee pages")
	fs.DurationVar(&cfg.SyncInterval, "sync-interval", -1, "Background outbox sync interval (0 disables)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKey, "admin-key", "", "Admin API key (prefer env)")
	fs.StringVar(&cfg.CronSecret, "cron-secret", "", "Sync runner secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "postgres"
		}
	}
	if cfg.DatabaseType != "postgres" && cfg.DatabaseType != "sqlite" {
		return Config{}, errors.New("DATABASE_TYPE must be postgres or sqlite")
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType != "sqlite" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "wsa2026.db"
	}

	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = getenv("PUBLIC_BASE_URL", DefaultPublicBaseURL)
	}

	if cfg.SyncInterval < 0 {
		cfg.SyncInterval = 0
		if v := os.Getenv("SYNC_INTERVAL"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, errors.New("invalid SYNC_INTERVAL env variable")
			}
			cfg.SyncInterval = d
		}
	}

	cfg.HubSpotToken = os.Getenv("HUBSPOT_TOKEN")
	cfg.HubSpotBaseURL = os.Getenv("HUBSPOT_API_URL")
	cfg.LoopsAPIKey = os.Getenv("LOOPS_API_KEY")
	cfg.LoopsBaseURL = os.Getenv("LOOPS_API_URL")
	cfg.DefaultUploader = getenv("DEFAULT_UPLOADER", DefaultUploader)
	cfg.IPHashSalt = os.Getenv("IP_HASH_SALT")

	if cfg.CronSecret == "" {
		cfg.CronSecret = os.Getenv("CRON_SECRET")
	}

	// Secrets - MUST be provided
	if cfg.AdminKey == "" {
		cfg.AdminKey = os.Getenv("ADMIN_KEY")
	}
	if cfg.AdminKey == "" && requireAdminKey {
		return Config{}, errors.New("ADMIN_KEY required")
	}
	if cfg.IPHashSalt == "" {
		cfg.IPHashSalt = cfg.AdminKey
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
