package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/infra/setup"
)

// Config holds everything read from the environment.
type Config struct {
	DB              setup.DBConfig
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	KeyPrefix       string
	JWTSecret       string
	JWTExpiryHours  int
	ServerPort      string
	LogLevel        string
	AppEnv          string
	RateLimitMax    int
	RateLimitWindow time.Duration
	CORSOrigin      string

	RoomIdleTimeout   time.Duration
	RoomSweepSchedule string
	BombTimeLimit     time.Duration
	BombMaxTimeLimit  time.Duration
}

// LoadConfig reads an optional .env file and then the environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	return loadConfig(os.Getenv)
}

func loadConfig(getenv func(string) string) (*Config, error) {
	env := envReader(getenv)
	cfg := &Config{
		DB: setup.DBConfig{
			User:     getenv("DB_USER"),
			Password: getenv("DB_PASSWORD"),
			Host:     getenv("DB_HOST"),
			Port:     getenv("DB_PORT"),
			Name:     getenv("DB_NAME"),
		},
		RedisAddr:         getenv("REDIS_ADDR"),
		RedisPassword:     getenv("REDIS_PASSWORD"),
		RedisDB:           env.intVal("REDIS_DB", 0),
		KeyPrefix:         env.str("REDIS_KEY_PREFIX", "prysms:"),
		JWTSecret:         getenv("JWT_SECRET"),
		JWTExpiryHours:    env.intVal("JWT_EXPIRY_HOURS", 24),
		ServerPort:        env.str("SERVER_PORT", "8080"),
		LogLevel:          env.str("LOG_LEVEL", "info"),
		AppEnv:            env.str("APP_ENV", "development"),
		RateLimitMax:      env.intVal("RATE_LIMIT_MAX", 100),
		RateLimitWindow:   env.duration("RATE_LIMIT_WINDOW", time.Second),
		CORSOrigin:        getenv("CORS_ALLOWED_ORIGIN"),
		RoomIdleTimeout:   env.duration("ROOM_IDLE_TIMEOUT", 5*time.Minute),
		RoomSweepSchedule: env.str("ROOM_SWEEP_SCHEDULE", "@every 1m"),
		BombTimeLimit:     time.Duration(env.intVal("BOMB_DEFAULT_TIME_LIMIT", 60)) * time.Second,
		BombMaxTimeLimit:  time.Duration(env.intVal("BOMB_MAX_TIME_LIMIT", 600)) * time.Second,
	}

	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("environment variable REDIS_ADDR must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("environment variable JWT_SECRET must be set")
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}
	if cfg.BombMaxTimeLimit < cfg.BombTimeLimit {
		logrus.Warnf("BOMB_MAX_TIME_LIMIT %s is below BOMB_DEFAULT_TIME_LIMIT %s, raising it", cfg.BombMaxTimeLimit, cfg.BombTimeLimit)
		cfg.BombMaxTimeLimit = cfg.BombTimeLimit
	}
	return cfg, nil
}

type envReader func(string) string

func (e envReader) str(key, def string) string {
	if v := e(key); v != "" {
		return v
	}
	return def
}

// intVal keeps def for missing, malformed or non-positive values. REDIS_DB may be zero.
func (e envReader) intVal(key string, def int) int {
	raw := e(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 || (v == 0 && key != "REDIS_DB") {
		logrus.Warnf("Invalid %s '%s', using default %d", key, raw, def)
		return def
	}
	return v
}

// duration accepts Go durations ("1s", "5m") or a bare number of seconds.
func (e envReader) duration(key string, def time.Duration) time.Duration {
	raw := e(key)
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	logrus.Warnf("Invalid %s '%s', using default %s", key, raw, def)
	return def
}
