package config

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string
	WorkDir  string

	LLM      LLMConfig
	Archive  ArchiveConfig
	Document DocumentConfig
}

type LLMConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

type ArchiveConfig struct {
	APIBase  string
	Ref      string
	Token    string
	Timeout  time.Duration
	MaxBytes int64
}

type DocumentConfig struct {
	DatabaseURL string
	CacheSize   int
	S3          S3Config
}

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// CanUseS3 reports whether enough settings are present to build an S3 store.
func (c S3Config) CanUseS3() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != "" && c.Bucket != ""
}

var ErrMissingAPIKey = errors.New("GEMINI_API_KEY (or GOOGLE_API_KEY) is required")

// Load reads .env (if present), the command line and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.Getenv)
}

// LoadEnv is Load without command-line parsing, for callers that own their flags.
func LoadEnv() (*Config, error) {
	_ = godotenv.Load()
	return load(nil, os.Getenv)
}

func load(args []string, getenv func(string) string) (*Config, error) {
	fs := flag.NewFlagSet("gateway", flag.ContinueOnError)
	port := fs.String("port", ":3000", "server port")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	env := func(key string) string { return strings.TrimSpace(getenv(key)) }

	if envPort := env("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	cfg := &Config{
		Port:     *port,
		Env:      firstNonEmpty(env("APP_ENV"), "production"),
		LogLevel: firstNonEmpty(env("LOG_LEVEL"), "info"),
		WorkDir:  env("WORK_DIR"),
		LLM: LLMConfig{
			APIKey:  firstNonEmpty(env("GEMINI_API_KEY"), env("GOOGLE_API_KEY")),
			Model:   firstNonEmpty(env("GEMINI_MODEL"), "gemini-2.5-flash"),
			Timeout: parseDuration(env("LLM_TIMEOUT"), 60*time.Second),
			RPS:     parseFloat(firstNonEmpty(env("LLM_RPS"), env("GEMINI_RPS")), 0),
			Burst:   parseInt(firstNonEmpty(env("LLM_BURST"), env("GEMINI_BURST")), 1),
		},
		Archive: ArchiveConfig{
			APIBase:  firstNonEmpty(env("GITHUB_API_BASE"), "https://api.github.com"),
			Ref:      firstNonEmpty(env("GITHUB_ARCHIVE_REF"), "main"),
			Token:    env("GITHUB_TOKEN"),
			Timeout:  parseDuration(env("ARCHIVE_TIMEOUT"), 60*time.Second),
			MaxBytes: int64(parseInt(env("ARCHIVE_MAX_BYTES"), 100<<20)),
		},
		Document: DocumentConfig{
			DatabaseURL: env("DATABASE_URL"),
			CacheSize:   parseInt(env("DOCUMENT_CACHE_SIZE"), 256),
			S3: S3Config{
				Endpoint:  env("DOCUMENT_S3_ENDPOINT"),
				Region:    firstNonEmpty(env("DOCUMENT_S3_REGION"), "us-east-1"),
				AccessKey: firstNonEmpty(env("DOCUMENT_S3_ACCESS_KEY"), env("MINIO_ROOT_USER")),
				SecretKey: firstNonEmpty(env("DOCUMENT_S3_SECRET_KEY"), env("MINIO_ROOT_PASSWORD")),
				Bucket:    firstNonEmpty(env("DOCUMENT_S3_BUCKET"), "readmegen-documents"),
				UseSSL:    parseBool(env("DOCUMENT_S3_USE_SSL"), true),
			},
		},
	}
	return cfg, nil
}

// Validate reports settings the gateway cannot start without.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func parseDuration(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func parseInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func parseFloat(raw string, def float64) float64 {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func parseBool(raw string, def bool) bool {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
