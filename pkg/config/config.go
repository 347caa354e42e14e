package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Queue    QueueConfig
	JWT      JWTConfig
	Password PasswordConfig
	Features FeaturesConfig
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
	Env          string `envconfig:"STAYSUPPLY_APP_ENV" default:"dev"`
	Port         string `envconfig:"STAYSUPPLY_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STAYSUPPLY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STAYSUPPLY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STAYSUPPLY_DB_DSN"`
	Driver string `envconfig:"STAYSUPPLY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STAYSUPPLY_DB_HOST"`
	LegacyPort     int    `envconfig:"STAYSUPPLY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STAYSUPPLY_DB_USER"`
	LegacyPassword string `envconfig:"STAYSUPPLY_DB_PASSWORD"`
	LegacyName     string `envconfig:"STAYSUPPLY_DB_NAME"`
	LegacySSLMode  string `envconfig:"STAYSUPPLY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STAYSUPPLY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STAYSUPPLY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STAYSUPPLY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STAYSUPPLY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STAYSUPPLY_REDIS_URL" default:"redis://localhost:6379"`
	Address      string        `envconfig:"STAYSUPPLY_REDIS_ADDR"`
	Password     string        `envconfig:"STAYSUPPLY_REDIS_PASSWORD"`
	DB           int           `envconfig:"STAYSUPPLY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STAYSUPPLY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STAYSUPPLY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STAYSUPPLY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STAYSUPPLY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STAYSUPPLY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type QueueConfig struct {
	Name           string        `envconfig:"STAYSUPPLY_QUEUE_NAME" default:"agent"`
	Attempts       int           `envconfig:"STAYSUPPLY_QUEUE_ATTEMPTS" default:"3"`
	BackoffDelayMS int           `envconfig:"STAYSUPPLY_QUEUE_BACKOFF_DELAY_MS" default:"1000"`
	JobTimeout     time.Duration `envconfig:"STAYSUPPLY_QUEUE_JOB_TIMEOUT" default:"60s"`
	PollInterval   time.Duration `envconfig:"STAYSUPPLY_QUEUE_POLL_INTERVAL" default:"2s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"STAYSUPPLY_JWT_SECRET"`
	Issuer            string `envconfig:"STAYSUPPLY_JWT_ISSUER" default:"staysupply"`
	ExpirationMinutes int    `envconfig:"STAYSUPPLY_JWT_EXPIRATION_MINUTES" default:"60"`
	SessionTTLMinutes int    `envconfig:"STAYSUPPLY_SESSION_TTL_MINUTES" default:"1440"`
}

// SessionTTL returns the redis session TTL configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STAYSUPPLY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STAYSUPPLY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STAYSUPPLY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STAYSUPPLY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STAYSUPPLY_ARGON_KEY_LEN" default:"32"`
}

type FeaturesConfig struct {
	UseSQLite   bool `envconfig:"STAYSUPPLY_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"STAYSUPPLY_AUTO_MIGRATE" default:"false"`
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
