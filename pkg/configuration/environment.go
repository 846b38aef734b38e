package configuration

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/order-explorer/pkg/logging"
)

const Production = "production"

// PageSizeOptions are the page sizes offered by the order list.
var PageSizeOptions = []int{5, 10, 20, 50, 100, 200, 500, 1000}

var singleton = sync.OnceValue(func() *Configuration {
	c, err := Load([]string{".env", ".env.local"})
	if err != nil {
		panic(err)
	}
	return c
})

func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			existingFiles = append(existingFiles, file)
		}
	}
	if len(existingFiles) == 0 {
		return 0, nil
	}
	return len(existingFiles), godotenv.Load(existingFiles...)
}

type APIOptions struct {
	URL        string        `env:"ORDERS_API_URL" envDefault:"http://localhost:3000/api"`
	Token      string        `env:"ORDERS_API_TOKEN"`
	Timeout    time.Duration `env:"ORDERS_API_TIMEOUT" envDefault:"30s"`
	BaseFilter string        `env:"ORDERS_BASE_FILTER" envDefault:"state=ordered"`
}

type AuthzOptions struct {
	ModelPath      string `env:"AUTHZ_MODEL_PATH" envDefault:"config/access/model.conf"`
	PolicyPath     string `env:"AUTHZ_POLICY_PATH" envDefault:"config/access/policy.csv"`
	FlagConfigPath string `env:"AUTHZ_FLAG_CONFIG" envDefault:"config/access/authz_flags.yaml"`
	Mode           string `env:"AUTHZ_MODE" envDefault:"enforce"`
}

type HTTPOptions struct {
	AllowedOrigins   []string `env:"HTTP_ALLOWED_ORIGINS" envSeparator:","`
	RateLimitEnabled bool     `env:"HTTP_RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimit        string   `env:"HTTP_RATE_LIMIT" envDefault:"10-S"`
	// RateLimitStorage is memory or redis.
	RateLimitStorage string `env:"HTTP_RATE_LIMIT_STORAGE" envDefault:"memory"`
	RedisURL         string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
}

type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"false"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/debug/prometheus"`
}

type OpenTelemetryOptions struct {
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"false"`
	TempoURL    string `env:"OTEL_TEMPO_URL" envDefault:"localhost:4318"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"order-explorer"`
}

type Configuration struct {
	API           APIOptions
	Authz         AuthzOptions
	HTTP          HTTPOptions
	Prometheus    PrometheusOptions
	OpenTelemetry OpenTelemetryOptions

	PageSize int    `env:"PAGE_SIZE" envDefault:"20"`
	Locale   string `env:"LOCALE" envDefault:"en"`
	// Languages restricts the offered locales; empty offers all.
	Languages        []string `env:"LANGUAGES" envSeparator:","`
	CurrentUser      string   `env:"CURRENT_USER" envDefault:"admin"`
	LogLevel         string   `env:"LOG_LEVEL" envDefault:"error"`
	LogPath          string   `env:"LOG_PATH"`
	GoAppEnvironment string   `env:"GO_APP_ENV" envDefault:"development"`
	// Header carrying a per-call request id on API requests.
	RequestIDHeader string `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`

	logFile *os.File
	logger  *logrus.Logger
}

func Use() *Configuration {
	return singleton()
}

// Load reads the given env files (missing ones are skipped) and parses the
// environment into a validated Configuration.
func Load(envFiles []string) (*Configuration, error) {
	c := &Configuration{}
	if err := c.load(envFiles); err != nil {
		c.Unload()
		return nil, err
	}
	return c, nil
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	return logging.ParseLevel(c.LogLevel)
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 && len(envFiles) > 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}
	if err := c.validate(); err != nil {
		return err
	}

	if c.LogPath != "" {
		f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
		if err != nil {
			return err
		}
		c.logFile = f
		c.logger = logger
	} else {
		c.logger = logging.ConsoleLogger(c.LogrusLogLevel())
	}
	return nil
}

func (c *Configuration) validate() error {
	if !slices.Contains(PageSizeOptions, c.PageSize) {
		return fmt.Errorf("invalid PAGE_SIZE=%d (expected one of %v)", c.PageSize, PageSizeOptions)
	}
	if strings.TrimSpace(c.API.URL) == "" {
		return fmt.Errorf("ORDERS_API_URL is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("invalid ORDERS_API_TIMEOUT=%s (must be positive)", c.API.Timeout)
	}
	switch c.HTTP.RateLimitStorage {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid HTTP_RATE_LIMIT_STORAGE=%q (expected memory|redis)", c.HTTP.RateLimitStorage)
	}
	mode := strings.ToLower(strings.TrimSpace(c.Authz.Mode))
	switch mode {
	case "disabled", "shadow", "enforce":
	default:
		return fmt.Errorf("invalid AUTHZ_MODE=%q (expected disabled|shadow|enforce)", c.Authz.Mode)
	}
	c.Authz.Mode = mode
	return nil
}

// Unload closes the log file, if any.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
	}
}
