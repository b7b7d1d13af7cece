package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Lock backends supported by the assignment engine.
const (
	LockBackendMemory = "memory"
	LockBackendRedis  = "redis"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Workload WorkloadConfig
	Engine   EngineConfig
	Cache    CacheConfig
	Audit    AuditConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
	// ConnMaxLifetime recycles pooled connections.
	ConnMaxLifetime time.Duration
	// StatementTimeout bounds every statement server-side; zero leaves the server default.
	StatementTimeout time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// WorkloadConfig holds the teaching-load policy table.
type WorkloadConfig struct {
	BaseHoursRegular     float64
	BaseHoursCommon      float64
	BaseHoursExtension   float64
	BaseHoursSummer      float64
	LectureWeight        float64
	TutorialWeight       float64
	LabMultiplier        float64
	DividedLabMultiplier float64
}

// EngineConfig tunes commit serialization of the assignment engine.
type EngineConfig struct {
	LockBackend  string
	LockTTL      time.Duration
	LockWait     time.Duration
	WriteRetries int
}

// CacheConfig governs caching of scope reads.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// AuditConfig sizes the asynchronous audit writer.
type AuditConfig struct {
	Workers int
	Retries int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),

		ConnMaxLifetime:  parseDuration(v.GetString("DB_CONN_MAX_LIFETIME"), time.Hour),
		StatementTimeout: parseDuration(v.GetString("DB_STATEMENT_TIMEOUT"), 0),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
		Issuer: v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Workload = WorkloadConfig{
		BaseHoursRegular:     v.GetFloat64("WORKLOAD_BASE_HOURS_REGULAR"),
		BaseHoursCommon:      v.GetFloat64("WORKLOAD_BASE_HOURS_COMMON"),
		BaseHoursExtension:   v.GetFloat64("WORKLOAD_BASE_HOURS_EXTENSION"),
		BaseHoursSummer:      v.GetFloat64("WORKLOAD_BASE_HOURS_SUMMER"),
		LectureWeight:        v.GetFloat64("WORKLOAD_LECTURE_WEIGHT"),
		TutorialWeight:       v.GetFloat64("WORKLOAD_TUTORIAL_WEIGHT"),
		LabMultiplier:        v.GetFloat64("WORKLOAD_LAB_MULTIPLIER"),
		DividedLabMultiplier: v.GetFloat64("WORKLOAD_DIVIDED_LAB_MULTIPLIER"),
	}

	backend := strings.ToLower(v.GetString("ENGINE_LOCK_BACKEND"))
	if backend != LockBackendRedis {
		backend = LockBackendMemory
	}
	retries := v.GetInt("ENGINE_WRITE_RETRIES")
	if retries <= 0 {
		retries = 3
	}
	cfg.Engine = EngineConfig{
		LockBackend:  backend,
		LockTTL:      parseDuration(v.GetString("ENGINE_LOCK_TTL"), 10*time.Second),
		LockWait:     parseDuration(v.GetString("ENGINE_LOCK_WAIT"), 2*time.Second),
		WriteRetries: retries,
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_ASSIGNMENT_CACHE"),
		TTL:     parseDuration(v.GetString("ASSIGNMENT_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Audit = AuditConfig{
		Workers: v.GetInt("AUDIT_WORKERS"),
		Retries: v.GetInt("AUDIT_RETRIES"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "teaching_load")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "1h")
	v.SetDefault("DB_STATEMENT_TIMEOUT", "10s")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("WORKLOAD_BASE_HOURS_REGULAR", 12)
	v.SetDefault("WORKLOAD_BASE_HOURS_COMMON", 12)
	v.SetDefault("WORKLOAD_BASE_HOURS_EXTENSION", 9)
	v.SetDefault("WORKLOAD_BASE_HOURS_SUMMER", 6)
	v.SetDefault("WORKLOAD_LECTURE_WEIGHT", 1)
	v.SetDefault("WORKLOAD_TUTORIAL_WEIGHT", 1)
	v.SetDefault("WORKLOAD_LAB_MULTIPLIER", 1)
	v.SetDefault("WORKLOAD_DIVIDED_LAB_MULTIPLIER", 2)

	v.SetDefault("ENGINE_LOCK_BACKEND", LockBackendMemory)
	v.SetDefault("ENGINE_LOCK_TTL", "10s")
	v.SetDefault("ENGINE_LOCK_WAIT", "2s")
	v.SetDefault("ENGINE_WRITE_RETRIES", 3)

	v.SetDefault("ENABLE_ASSIGNMENT_CACHE", false)
	v.SetDefault("ASSIGNMENT_CACHE_TTL", "5m")

	v.SetDefault("AUDIT_WORKERS", 1)
	v.SetDefault("AUDIT_RETRIES", 3)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
