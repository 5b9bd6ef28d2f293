package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
	OpenAIBaseURL     = "https://api.openai.com/v1"

	DefaultPort         = "3000"
	DefaultMaxBodyBytes = 50 << 20
	DefaultUpstreamWait = 60 * time.Second
)

var ErrMissingVisionCredential = errors.New("OPEN_ROUTER_KEY or OPENAI_API_KEY environment variable is not set")

type Config struct {
	Port         string
	Env          string
	MaxBodyBytes int64
	CORSOrigins  []string
	JWTSecret    string

	Vision   Vision
	Database Database
	Photos   Photos
}

// Vision holds everything needed to reach the chat-completion gateway.
type Vision struct {
	BaseURL  string
	APIKey   string
	Model    string
	Referer  string
	AppName  string
	Timeout  time.Duration
	MaxReply int
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Photos struct {
	Bucket  string
	Region  string
	BaseURL string
}

func (p Photos) Enabled() bool {
	return p.Bucket != ""
}

func (v Vision) Configured() bool {
	return v.APIKey != ""
}

func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s "+
			"application_name=calsnap TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

// Load reads the process environment. Call godotenv.Load first if a .env
// file should be honoured.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", DefaultPort),
		Env:          getEnv("APP_ENV", "production"),
		MaxBodyBytes: DefaultMaxBodyBytes,
		JWTSecret:    os.Getenv("JWT_SECRET_KEY"),
		Database: Database{
			Host:     os.Getenv("DB_HOST"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Photos: Photos{
			Bucket:  os.Getenv("S3_BUCKET"),
			Region:  getEnv("S3_REGION", os.Getenv("AWS_REGION")),
			BaseURL: strings.TrimRight(os.Getenv("PHOTO_BASE_URL"), "/"),
		},
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if raw := os.Getenv("MAX_BODY_BYTES"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid MAX_BODY_BYTES %q", raw)
		}
		cfg.MaxBodyBytes = n
	}

	vision, err := loadVision()
	if err != nil {
		return nil, err
	}
	cfg.Vision = vision

	return cfg, nil
}

func loadVision() (Vision, error) {
	v := Vision{
		Referer:  os.Getenv("OPEN_ROUTER_REFERER"),
		AppName:  os.Getenv("OPEN_ROUTER_APP_NAME"),
		Timeout:  DefaultUpstreamWait,
		MaxReply: 300,
	}

	// OpenRouter is preferred; a bare OpenAI key talks to OpenAI directly.
	if key := os.Getenv("OPEN_ROUTER_KEY"); key != "" {
		v.APIKey = key
		v.BaseURL = OpenRouterBaseURL
		v.Model = "openai/gpt-4o-mini"
	} else {
		v.APIKey = os.Getenv("OPENAI_API_KEY")
		if v.APIKey != "" {
			v.BaseURL = OpenAIBaseURL
			v.Model = "gpt-4o-mini"
		} else {
			v.BaseURL = OpenRouterBaseURL
			v.Model = "openai/gpt-4o-mini"
		}
	}

	v.BaseURL = strings.TrimRight(getEnv("VISION_BASE_URL", v.BaseURL), "/")
	v.Model = getEnv("VISION_MODEL", v.Model)

	if raw := os.Getenv("UPSTREAM_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return v, fmt.Errorf("invalid UPSTREAM_TIMEOUT %q", raw)
		}
		v.Timeout = d
	}

	return v, nil
}

// Validate reports configuration problems. A missing vision credential is
// returned as ErrMissingVisionCredential so callers can keep serving and
// fail analysis requests instead of exiting.
func (c *Config) Validate() []error {
	var problems []error
	if !c.Vision.Configured() {
		problems = append(problems, ErrMissingVisionCredential)
	}
	if c.Database.Host == "" || c.Database.User == "" || c.Database.Name == "" {
		problems = append(problems, errors.New("DB_HOST, DB_USER and DB_NAME must be set"))
	}
	if c.JWTSecret == "" {
		problems = append(problems, errors.New("JWT_SECRET_KEY environment variable is not set"))
	}
	return problems
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
