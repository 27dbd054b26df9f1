package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	LLM      LLMConfig      `yaml:"llm"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	Insights InsightsConfig `yaml:"insights"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// TwilioConfig holds messaging-carrier credentials. All three values are
// required for outbound dispatch and webhook signature verification; the
// carrier client constructor rejects absent or placeholder values.
type TwilioConfig struct {
	AccountSID   string `yaml:"account_sid"    env:"TWILIO_ACCOUNT_SID"`
	AuthToken    string `yaml:"auth_token"     env:"TWILIO_AUTH_TOKEN"`
	WhatsAppFrom string `yaml:"whatsapp_from"  env:"TWILIO_WHATSAPP_FROM"`

	// WebhookBaseURL is the public base URL Twilio signs requests against.
	WebhookBaseURL string `yaml:"webhook_base_url" env:"WEBHOOK_BASE_URL"`
}

// LLMConfig holds language-model API settings for insight synthesis.
type LLMConfig struct {
	APIKey  string        `yaml:"api_key"  env:"LLM_API_KEY"`
	Model   string        `yaml:"model"    env:"LLM_MODEL"    env-default:"claude-sonnet-4-20250514"`
	BaseURL string        `yaml:"base_url" env:"LLM_BASE_URL"`
	Timeout time.Duration `yaml:"timeout"  env:"LLM_TIMEOUT"  env-default:"45s"`
}

// DispatchConfig bounds the bulk-send fan-out.
type DispatchConfig struct {
	MaxConcurrency int           `yaml:"max_concurrency" env:"DISPATCH_MAX_CONCURRENCY" env-default:"8"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout" env:"DISPATCH_ATTEMPT_TIMEOUT" env-default:"15s"`
}

// InsightsConfig holds generation settings.
type InsightsConfig struct {
	// AnalysisWorkers and AnalysisQueueSize bound the post-webhook
	// per-employee analysis pool.
	AnalysisWorkers   int `yaml:"analysis_workers"    env:"INSIGHTS_ANALYSIS_WORKERS"    env-default:"4"`
	AnalysisQueueSize int `yaml:"analysis_queue_size" env:"INSIGHTS_ANALYSIS_QUEUE_SIZE" env-default:"256"`

	// WindowDays is the trailing window for department and response-rate
	// aggregation during batch generation.
	WindowDays int `yaml:"window_days" env:"INSIGHTS_WINDOW_DAYS" env-default:"7"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings for the insight API.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PATCH,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
