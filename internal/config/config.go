package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Reader
		Generation
		Remote
		Documents
		Auth
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Reader struct {
		InitialBook    string
		InitialChapter int
	}
	Generation struct {
		APIKey  string
		BaseURL string // Empty means the provider's default endpoint
		Model   string
		Timeout time.Duration
	}
	Remote struct {
		URL      string // Document server base URL; empty keeps every identity on the local backend
		Username string
		Password string
		Timeout  time.Duration
	}
	Documents struct {
		Enabled bool // Serve the document API so other readers can use this instance as their remote backend
	}
	Auth struct {
		BcryptCost    int
		TokenExpiry   time.Duration
		CSRFSecret    string // CSRF protection for reader routes is on when set
		SecureCookies bool   // Set to false for local dev without HTTPS

		// Rate limiting for token issuance
		MaxLoginAttempts int
		RateLimitWindow  time.Duration
		LockoutDuration  time.Duration
	}
)

// Configured reports whether a remote document backend was configured at startup.
func (r Remote) Configured() bool {
	return r.URL != ""
}

// Configured reports whether the text-generation service has credentials.
func (g Generation) Configured() bool {
	return g.APIKey != ""
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Reader defaults
	v.SetDefault("reader_initial_book", DefaultInitialBook)
	v.SetDefault("reader_initial_chapter", DefaultInitialChapter)

	// Generation defaults
	v.SetDefault("generation_api_key", "")
	v.SetDefault("generation_base_url", "")
	v.SetDefault("generation_model", DefaultGenerationModel)
	v.SetDefault("generation_timeout", "60s")

	// Remote document backend defaults (empty URL = local only)
	v.SetDefault("remote_url", "")
	v.SetDefault("remote_username", "")
	v.SetDefault("remote_password", "")
	v.SetDefault("remote_timeout", "15s")

	v.SetDefault("documents_enabled", true)

	// Auth defaults
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_token_expiry", "720h") // 30 days
	v.SetDefault("auth_csrf_secret", "")
	v.SetDefault("auth_secure_cookies", true)
	v.SetDefault("auth_max_login_attempts", 5)
	v.SetDefault("auth_rate_limit_window", "15m")
	v.SetDefault("auth_lockout_duration", "30m")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Reader: Reader{
			InitialBook:    v.GetString("READER_INITIAL_BOOK"),
			InitialChapter: v.GetInt("READER_INITIAL_CHAPTER"),
		},
		Generation: Generation{
			APIKey:  v.GetString("GENERATION_API_KEY"),
			BaseURL: v.GetString("GENERATION_BASE_URL"),
			Model:   v.GetString("GENERATION_MODEL"),
			Timeout: v.GetDuration("GENERATION_TIMEOUT"),
		},
		Remote: Remote{
			URL:      v.GetString("REMOTE_URL"),
			Username: v.GetString("REMOTE_USERNAME"),
			Password: v.GetString("REMOTE_PASSWORD"),
			Timeout:  v.GetDuration("REMOTE_TIMEOUT"),
		},
		Documents: Documents{
			Enabled: v.GetBool("DOCUMENTS_ENABLED"),
		},
		Auth: Auth{
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			TokenExpiry:      v.GetDuration("AUTH_TOKEN_EXPIRY"),
			CSRFSecret:       v.GetString("AUTH_CSRF_SECRET"),
			SecureCookies:    v.GetBool("AUTH_SECURE_COOKIES"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
	}
}
