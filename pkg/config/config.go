package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	SMS           SMSConfig
	Email         EmailConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RELIEF_APP_ENV" required:"true"`
	Port         string `envconfig:"RELIEF_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"RELIEF_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RELIEF_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"RELIEF_DB_DSN"`
	Driver string `envconfig:"RELIEF_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"RELIEF_DB_HOST"`
	Port     int    `envconfig:"RELIEF_DB_PORT" default:"5432"`
	User     string `envconfig:"RELIEF_DB_USER"`
	Password string `envconfig:"RELIEF_DB_PASSWORD"`
	Name     string `envconfig:"RELIEF_DB_NAME"`
	SSLMode  string `envconfig:"RELIEF_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RELIEF_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RELIEF_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RELIEF_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RELIEF_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("database DSN or host/user/name settings are required")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"RELIEF_REDIS_URL"`
	Address      string        `envconfig:"RELIEF_REDIS_ADDR"`
	Password     string        `envconfig:"RELIEF_REDIS_PASSWORD"`
	DB           int           `envconfig:"RELIEF_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RELIEF_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RELIEF_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RELIEF_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RELIEF_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RELIEF_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"RELIEF_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"RELIEF_JWT_ISSUER" default:"relief-backend"`
	ExpirationMinutes int    `envconfig:"RELIEF_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"RELIEF_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"RELIEF_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"RELIEF_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"RELIEF_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"RELIEF_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"RELIEF_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginContactLimit  int           `envconfig:"RELIEF_AUTH_RATE_LIMIT_LOGIN_CONTACT_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"RELIEF_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow       time.Duration `envconfig:"RELIEF_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupContactLimit int           `envconfig:"RELIEF_AUTH_RATE_LIMIT_SIGNUP_CONTACT_LIMIT" default:"3"`
	SignupIPLimit      int           `envconfig:"RELIEF_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

// SMSConfig carries the Twilio credentials plus the sandbox gating rules.
type SMSConfig struct {
	AccountSID      string        `envconfig:"RELIEF_TWILIO_ACCOUNT_SID"`
	AuthToken       string        `envconfig:"RELIEF_TWILIO_AUTH_TOKEN"`
	FromNumber      string        `envconfig:"RELIEF_TWILIO_PHONE_NUMBER"`
	TrialMode       bool          `envconfig:"RELIEF_TWILIO_TRIAL_MODE" default:"false"`
	VerifiedNumbers []string      `envconfig:"RELIEF_TWILIO_VERIFIED_NUMBERS"`
	CountryCode     string        `envconfig:"RELIEF_DEFAULT_COUNTRY_CODE" default:"91"`
	BulkSendDelay   time.Duration `envconfig:"RELIEF_SMS_BULK_SEND_DELAY" default:"1s"`
	CallTimeout     time.Duration `envconfig:"RELIEF_SMS_CALL_TIMEOUT" default:"10s"`
	MaxRetries      int           `envconfig:"RELIEF_SMS_MAX_RETRIES" default:"2"`
}

// Configured reports whether the provider credentials are present; without
// them the gateway falls back to link generation and logging.
func (s SMSConfig) Configured() bool {
	return s.AccountSID != "" && s.AuthToken != "" && s.FromNumber != ""
}

type EmailConfig struct {
	Host           string `envconfig:"RELIEF_SMTP_HOST"`
	Port           int    `envconfig:"RELIEF_SMTP_PORT" default:"587"`
	Username       string `envconfig:"RELIEF_SMTP_USERNAME"`
	Password       string `envconfig:"RELIEF_SMTP_PASSWORD"`
	From           string `envconfig:"RELIEF_SMTP_FROM"`
	OversightEmail string `envconfig:"RELIEF_OVERSIGHT_EMAIL" default:"government@example.com"`
}

func (e EmailConfig) Configured() bool {
	return e.Host != "" && e.Username != "" && e.Password != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RELIEF_AUTO_MIGRATE" default:"false"`
}
