package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix scopes every environment variable the service reads.
const EnvPrefix = "CASEWHR"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "CASEWHR_DB_DSN"
	EnvDBHost = "CASEWHR_DB_HOST"
	EnvDBUser = "CASEWHR_DB_USER"
	EnvDBName = "CASEWHR_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Internal     InternalConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"CASEWHR_APP_ENV" required:"true"`
	Port         string `envconfig:"CASEWHR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CASEWHR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CASEWHR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"CASEWHR_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"CASEWHR_DB_DSN"`
	Driver string `envconfig:"CASEWHR_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CASEWHR_DB_HOST"`
	LegacyPort     int    `envconfig:"CASEWHR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CASEWHR_DB_USER"`
	LegacyPassword string `envconfig:"CASEWHR_DB_PASSWORD"`
	LegacyName     string `envconfig:"CASEWHR_DB_NAME"`
	LegacySSLMode  string `envconfig:"CASEWHR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CASEWHR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CASEWHR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CASEWHR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CASEWHR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CASEWHR_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CASEWHR_REDIS_ADDR"`
	Password     string        `envconfig:"CASEWHR_REDIS_PASSWORD"`
	DB           int           `envconfig:"CASEWHR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CASEWHR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CASEWHR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CASEWHR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CASEWHR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CASEWHR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CASEWHR_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CASEWHR_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CASEWHR_JWT_EXPIRATION_MINUTES" default:"60"`
}

// InternalConfig guards the service-to-service surface. The subscription
// check route must never be reachable without this token; keep the route off
// any public ingress as well.
type InternalConfig struct {
	ServiceToken string `envconfig:"CASEWHR_INTERNAL_SERVICE_TOKEN" required:"true"`
}

type CronConfig struct {
	Interval         time.Duration `envconfig:"CASEWHR_CRON_INTERVAL" default:"1h"`
	ExpireSweepLimit int           `envconfig:"CASEWHR_CRON_EXPIRE_SWEEP_LIMIT" default:"500"`
	LockTTL          time.Duration `envconfig:"CASEWHR_CRON_LOCK_TTL" default:"2h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CASEWHR_AUTO_MIGRATE" default:"false"`
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
