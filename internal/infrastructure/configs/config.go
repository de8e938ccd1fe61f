package configs

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rsvshop/rsvshop/internal/infrastructure/env"
	"github.com/rsvshop/rsvshop/internal/infrastructure/validate"
)

type Config struct {
	App         AppConfig         `koanf:"app"`
	HTTP        HTTPConfig        `koanf:"http"`
	RateLimiter RateLimiterConfig `koanf:"rateLimiter"`
	Logger      LoggerConfig      `koanf:"logger"`
	Tracing     TracingConfig     `koanf:"tracing"`
	UI          UIConfig          `koanf:"ui"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type HTTPConfig struct {
	Host            string        `koanf:"host"`
	Port            uint16        `koanf:"port"`
	AllowedOrigins  []string      `koanf:"allowed_origins"`
	AllowedHeaders  []string      `koanf:"allowed_headers"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// friends. Only enable behind a proxy that overwrites them.
	TrustProxyHeaders bool `koanf:"trust_proxy_headers"`
}

func (c HTTPConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(int(c.Port))
}

type RateLimiterConfig struct {
	Enabled          bool          `koanf:"enabled"`
	MaxRatePerSecond int           `koanf:"maxRatePerSecond"`
	MaxBurst         int           `koanf:"maxBurst"`
	CacheTTL         time.Duration `koanf:"cacheTTL"`
	SourceHeaderKey  string        `koanf:"sourceHeaderKey"`
}

type LoggerConfig struct {
	FilePath string `koanf:"file_path"`
	Encoding string `koanf:"encoding"`
	Level    string `koanf:"level"`
	Logger   string `koanf:"logger"`
}

type TracingConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Endpoint string `koanf:"endpoint"`
}

// UIConfig feeds the admin page layout.
type UIConfig struct {
	Title       string `koanf:"title"`
	Description string `koanf:"description"`
	FontFamily  string `koanf:"font_family"`
	FontURL     string `koanf:"font_url"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// An empty path means defaults plus environment only.
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyDefaults(k)
	applyEnvOverrides(k)

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate reports every invalid field, not just the first one.
func (c *Config) Validate() error {
	checks := []struct {
		value string
		check validate.Validator
	}{
		{c.App.Name, validate.Field("app.name", validate.Required(), validate.MaxLength(64))},
		{c.HTTP.Host, validate.Field("http.host", validate.Required())},
		{c.Logger.Logger, validate.Field("logger.logger", validate.OneOf("zap", "zerolog"))},
		{c.Logger.Level, validate.Field("logger.level", validate.Lowercase(), validate.OneOf("debug", "info", "warn", "error", "fatal"))},
		{c.Logger.Encoding, validate.Field("logger.encoding", validate.OneOf("json", "console"))},
		{c.UI.FontURL, validate.Field("ui.font_url", validate.Optional(validate.AbsoluteURL()))},
	}

	var errs []error
	for _, ch := range checks {
		if err := ch.check(ch.value); err != nil {
			errs = append(errs, err)
		}
	}

	if c.Tracing.Enabled {
		if err := validate.Field("tracing.endpoint", validate.Required(), validate.AbsoluteURL())(c.Tracing.Endpoint); err != nil {
			errs = append(errs, err)
		}
	}

	if c.HTTP.Port == 0 {
		errs = append(errs, errors.New("http.port: must be greater than zero"))
	}

	if c.RateLimiter.Enabled && c.RateLimiter.MaxRatePerSecond <= 0 {
		errs = append(errs, errors.New("rateLimiter.maxRatePerSecond: must be greater than zero"))
	}

	return errors.Join(errs...)
}

func applyDefaults(k *koanf.Koanf) {
	// App defaults
	setDefault(k, "app.name", "rsvshop-admin")
	setDefault(k, "app.version", "dev")
	setDefault(k, "app.environment", "development")

	// HTTP defaults
	setDefault(k, "http.host", "0.0.0.0")
	setDefault(k, "http.port", 8080)
	setDefault(k, "http.read_timeout", 10*time.Second)
	setDefault(k, "http.write_timeout", 30*time.Second)
	setDefault(k, "http.idle_timeout", time.Minute)
	setDefault(k, "http.request_timeout", 60*time.Second)
	setDefault(k, "http.shutdown_timeout", 5*time.Second)
	setDefault(k, "http.allowed_origins", []string{"*"})
	setDefault(k, "http.allowed_headers", []string{"Content-Type", "Authorization"})
	setDefault(k, "http.trust_proxy_headers", false)

	// Rate limiter defaults
	setDefault(k, "rateLimiter.enabled", true)
	setDefault(k, "rateLimiter.maxRatePerSecond", 10)
	setDefault(k, "rateLimiter.maxBurst", 20)
	setDefault(k, "rateLimiter.cacheTTL", 5*time.Minute)
	setDefault(k, "rateLimiter.sourceHeaderKey", "")

	// Logger defaults
	setDefault(k, "logger.file_path", "")
	setDefault(k, "logger.encoding", "json")
	setDefault(k, "logger.level", "info")
	setDefault(k, "logger.logger", "zap")

	// Tracing defaults
	setDefault(k, "tracing.enabled", false)
	setDefault(k, "tracing.endpoint", "http://localhost:4318/v1/traces")

	// UI defaults
	setDefault(k, "ui.title", "RSVShop 관리자")
	setDefault(k, "ui.description", "RSVShop 호텔 예약 관리 시스템")
	setDefault(k, "ui.font_family", "Inter")
	setDefault(k, "ui.font_url", "https://fonts.googleapis.com/css2?family=Inter:wght@400;500;600&display=swap")
}

func applyEnvOverrides(k *koanf.Koanf) {
	// App config from env
	if version := env.GetString("APP_VERSION", ""); version != "" {
		k.Set("app.version", version)
	}
	if environment := env.GetString("ENVIRONMENT", ""); environment != "" {
		k.Set("app.environment", environment)
	}

	// HTTP config from env
	if host := env.GetString("HTTP_HOST", ""); host != "" {
		k.Set("http.host", host)
	}
	if port := env.GetInt("HTTP_PORT", 0); port > 0 {
		k.Set("http.port", port)
	}
	if readTimeout := env.GetInt("HTTP_READ_TIMEOUT_SECONDS", 0); readTimeout > 0 {
		k.Set("http.read_timeout", time.Duration(readTimeout)*time.Second)
	}
	if writeTimeout := env.GetInt("HTTP_WRITE_TIMEOUT_SECONDS", 0); writeTimeout > 0 {
		k.Set("http.write_timeout", time.Duration(writeTimeout)*time.Second)
	}
	if shutdownTimeout := env.GetInt("HTTP_SHUTDOWN_TIMEOUT_SECONDS", 0); shutdownTimeout > 0 {
		k.Set("http.shutdown_timeout", time.Duration(shutdownTimeout)*time.Second)
	}
	k.Set("http.trust_proxy_headers", env.GetBool("HTTP_TRUST_PROXY_HEADERS", k.Bool("http.trust_proxy_headers")))

	// Rate limiter config from env
	if maxRate := env.GetInt("RATE_LIMIT_MAX_RATE_PER_SECOND", 0); maxRate > 0 {
		k.Set("rateLimiter.maxRatePerSecond", maxRate)
	}
	if maxBurst := env.GetInt("RATE_LIMIT_MAX_BURST", 0); maxBurst > 0 {
		k.Set("rateLimiter.maxBurst", maxBurst)
	}
	if cacheTTL := env.GetInt("RATE_LIMIT_CACHE_TTL_MINUTES", 0); cacheTTL > 0 {
		k.Set("rateLimiter.cacheTTL", time.Duration(cacheTTL)*time.Minute)
	}
	if sourceKey := env.GetString("RATE_LIMIT_SOURCE_HEADER_KEY", ""); sourceKey != "" {
		k.Set("rateLimiter.sourceHeaderKey", sourceKey)
	}

	// Logger config from env
	if filePath := env.GetString("LOGGER_FILE_PATH", ""); filePath != "" {
		k.Set("logger.file_path", filePath)
	}
	if encoding := env.GetString("LOGGER_ENCODING", ""); encoding != "" {
		k.Set("logger.encoding", encoding)
	}
	if level := env.GetString("LOGGER_LEVEL", ""); level != "" {
		k.Set("logger.level", level)
	}
	if logger := env.GetString("LOGGER_LOGGER", ""); logger != "" {
		k.Set("logger.logger", logger)
	}

	// Tracing config from env
	k.Set("tracing.enabled", env.GetBool("TRACING_ENABLED", k.Bool("tracing.enabled")))
	if endpoint := env.GetString("TRACING_ENDPOINT", ""); endpoint != "" {
		k.Set("tracing.endpoint", endpoint)
	}

	// UI config from env
	if fontFamily := env.GetString("UI_FONT_FAMILY", ""); fontFamily != "" {
		k.Set("ui.font_family", fontFamily)
	}
	if fontURL := env.GetString("UI_FONT_URL", ""); fontURL != "" {
		k.Set("ui.font_url", fontURL)
	}
}

// setDefault only sets the value if the key doesn't already exist
func setDefault(k *koanf.Koanf, key string, value any) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}
