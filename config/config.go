package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET is not set")

type Config struct {
	Port          string
	GinMode       string
	DBDriver      string
	DBDSN         string
	JWTSecret     string
	TokenTTL      time.Duration
	BcryptCost    int
	UploadDir     string
	PublicBaseURL string
	AMQPURL       string
	AMQPExchange  string
	LogLevel      string
	CORSOrigin    string
	AuthRateLimit float64
	AuthRateBurst int
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: error loading .env file: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:          withDefault(getenv("PORT"), "8080"),
		GinMode:       getenv("GIN_MODE"),
		DBDriver:      strings.ToLower(withDefault(getenv("DB_DRIVER"), "sqlite")),
		DBDSN:         withDefault(getenv("DB_DSN"), "restaurant.db"),
		JWTSecret:     getenv("JWT_SECRET"),
		UploadDir:     withDefault(getenv("UPLOAD_DIR"), "public/uploads"),
		AMQPURL:       getenv("AMQP_URL"),
		AMQPExchange:  withDefault(getenv("AMQP_EXCHANGE"), "restaurant_events"),
		LogLevel:      withDefault(getenv("LOG_LEVEL"), "info"),
		CORSOrigin:    withDefault(getenv("CORS_ORIGIN"), "*"),
		TokenTTL:      time.Hour,
		BcryptCost:    12,
		AuthRateLimit: 5,
		AuthRateBurst: 10,
	}
	cfg.PublicBaseURL = withDefault(getenv("PUBLIC_BASE_URL"), "http://localhost:"+cfg.Port)

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	if v := getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL %q: %w", v, err)
		}
		cfg.TokenTTL = ttl
	}
	if v := getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_COST %q: %w", v, err)
		}
		cfg.BcryptCost = cost
	}
	if v := getenv("AUTH_RATE_LIMIT"); v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid AUTH_RATE_LIMIT %q: %w", v, err)
		}
		cfg.AuthRateLimit = limit
	}
	if v := getenv("AUTH_RATE_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid AUTH_RATE_BURST %q: %w", v, err)
		}
		cfg.AuthRateBurst = burst
	}

	switch cfg.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

// InitDB opens the configured database.
func InitDB(cfg *Config, log *logrus.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(cfg.DBDSN)
	case "postgres":
		dialector = postgres.Open(cfg.DBDSN)
	default:
		dialector = sqlite.Open(cfg.DBDSN)
	}

	gormLog := logger.New(log, logger.Config{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      logger.Warn,
	})

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog, TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect to %s database: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DBDriver == "sqlite" {
		// sqlite serializes writers; a single connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
