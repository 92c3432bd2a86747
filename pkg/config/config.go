package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Gate          GateConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Cron          CronConfig
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
	Env          string `envconfig:"SCHOLARBRIDGE_APP_ENV" required:"true"`
	Port         string `envconfig:"SCHOLARBRIDGE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SCHOLARBRIDGE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SCHOLARBRIDGE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// ServiceConfig identifies which binary is running; set at startup, not via env.
type ServiceConfig struct {
	Kind string `ignored:"true"`
}

type DBConfig struct {
	DSN    string `envconfig:"SCHOLARBRIDGE_DB_DSN"`
	Driver string `envconfig:"SCHOLARBRIDGE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SCHOLARBRIDGE_DB_HOST"`
	LegacyPort     int    `envconfig:"SCHOLARBRIDGE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SCHOLARBRIDGE_DB_USER"`
	LegacyPassword string `envconfig:"SCHOLARBRIDGE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SCHOLARBRIDGE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SCHOLARBRIDGE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SCHOLARBRIDGE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SCHOLARBRIDGE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SCHOLARBRIDGE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SCHOLARBRIDGE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SCHOLARBRIDGE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SCHOLARBRIDGE_REDIS_ADDR"`
	Password     string        `envconfig:"SCHOLARBRIDGE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SCHOLARBRIDGE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SCHOLARBRIDGE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SCHOLARBRIDGE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SCHOLARBRIDGE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SCHOLARBRIDGE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SCHOLARBRIDGE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SCHOLARBRIDGE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SCHOLARBRIDGE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SCHOLARBRIDGE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"SCHOLARBRIDGE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SCHOLARBRIDGE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SCHOLARBRIDGE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SCHOLARBRIDGE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SCHOLARBRIDGE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SCHOLARBRIDGE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	SigninWindow     time.Duration `envconfig:"SCHOLARBRIDGE_AUTH_RATE_LIMIT_SIGNIN_WINDOW" default:"1m"`
	SigninEmailLimit int           `envconfig:"SCHOLARBRIDGE_AUTH_RATE_LIMIT_SIGNIN_EMAIL_LIMIT" default:"5"`
	SigninIPLimit    int           `envconfig:"SCHOLARBRIDGE_AUTH_RATE_LIMIT_SIGNIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"SCHOLARBRIDGE_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"SCHOLARBRIDGE_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"SCHOLARBRIDGE_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SCHOLARBRIDGE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SCHOLARBRIDGE_AUTO_MIGRATE" default:"false"`
}

// GateConfig controls the page-navigation gate sitting in front of the
// server-rendered presentation layer.
type GateConfig struct {
	SessionCookie string `envconfig:"SCHOLARBRIDGE_GATE_SESSION_COOKIE" default:"sb_session"`
	UpstreamURL   string `envconfig:"SCHOLARBRIDGE_GATE_UPSTREAM_URL"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SCHOLARBRIDGE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"SCHOLARBRIDGE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SCHOLARBRIDGE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	ScholarshipTopic        string `envconfig:"SCHOLARBRIDGE_PUBSUB_SCHOLARSHIP_TOPIC" default:"sb-scholarship-events"`
	ScholarshipSubscription string `envconfig:"SCHOLARBRIDGE_PUBSUB_SCHOLARSHIP_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"SCHOLARBRIDGE_OUTBOX_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"SCHOLARBRIDGE_OUTBOX_POLL_INTERVAL_MS" default:"500"`
	MaxAttempts    int `envconfig:"SCHOLARBRIDGE_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type CronConfig struct {
	Interval             time.Duration `envconfig:"SCHOLARBRIDGE_CRON_INTERVAL" default:"24h"`
	DeadlineReminderDays int           `envconfig:"SCHOLARBRIDGE_CRON_DEADLINE_REMINDER_DAYS" default:"7"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
