package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/memo-backend/internal/data/db"
	"github.com/yungbote/memo-backend/internal/events/bus"
	"github.com/yungbote/memo-backend/internal/modules/scheduling"
	"github.com/yungbote/memo-backend/internal/observability"
	"github.com/yungbote/memo-backend/internal/platform/envutil"
	"github.com/yungbote/memo-backend/internal/platform/neo4jdb"
)

const defaultConfigPath = "config/config.yaml"

type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MetricsEnabled bool     `yaml:"metrics_enabled"`
}

type Config struct {
	LogMode     string `yaml:"log_mode"`
	EventBuffer int    `yaml:"event_buffer"`

	HTTP       HTTPConfig               `yaml:"http"`
	DB         db.Config                `yaml:"db"`
	Redis      bus.RedisConfig          `yaml:"redis"`
	Neo4j      neo4jdb.Config           `yaml:"neo4j"`
	Otel       observability.OtelConfig `yaml:"otel"`
	Scheduling scheduling.Config        `yaml:"scheduling"`
}

func DefaultConfig() Config {
	return Config{
		LogMode:     "development",
		EventBuffer: 256,
		HTTP: HTTPConfig{
			Addr:           ":8080",
			MetricsEnabled: true,
		},
		DB: db.Config{
			Driver:     db.DriverPostgres,
			Host:       "localhost",
			Port:       "5432",
			User:       "postgres",
			Name:       "memo",
			SSLMode:    "disable",
			SQLitePath: "memo.db",
			SlowQuery:  200 * time.Millisecond,
		},
		Neo4j: neo4jdb.Config{
			Timeout: 10 * time.Second,
		},
		Otel: observability.OtelConfig{
			ServiceName: "memo-backend",
			SampleRatio: 1,
		},
		Scheduling: scheduling.DefaultConfig(),
	}
}

// LoadConfig reads MEMO_CONFIG_PATH (or ./config/config.yaml when present),
// layers environment overrides on top and validates the result.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	path := envutil.String("MEMO_CONFIG_PATH", "")
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	if err := readConfigFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readConfigFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.EventBuffer = envutil.Int("EVENT_BUFFER", cfg.EventBuffer)

	cfg.HTTP.Addr = envutil.String("HTTP_ADDR", cfg.HTTP.Addr)
	if port := envutil.String("PORT", ""); port != "" {
		cfg.HTTP.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	if raw := envutil.String("CORS_ALLOWED_ORIGINS", ""); raw != "" {
		cfg.HTTP.AllowedOrigins = splitList(raw)
	}
	cfg.HTTP.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.HTTP.MetricsEnabled)

	cfg.DB.Driver = envutil.String("DB_DRIVER", cfg.DB.Driver)
	cfg.DB.Host = envutil.String("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = envutil.String("POSTGRES_PORT", cfg.DB.Port)
	cfg.DB.User = envutil.String("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Password = envutil.String("POSTGRES_PASSWORD", cfg.DB.Password)
	cfg.DB.Name = envutil.String("POSTGRES_NAME", cfg.DB.Name)
	cfg.DB.SSLMode = envutil.String("POSTGRES_SSLMODE", cfg.DB.SSLMode)
	cfg.DB.MaxOpenConns = envutil.Int("POSTGRES_MAX_OPEN_CONNS", cfg.DB.MaxOpenConns)
	cfg.DB.MaxIdleConns = envutil.Int("POSTGRES_MAX_IDLE_CONNS", cfg.DB.MaxIdleConns)
	cfg.DB.SlowQuery = envutil.Duration("POSTGRES_SLOW_QUERY", cfg.DB.SlowQuery)
	cfg.DB.SQLitePath = envutil.String("SQLITE_PATH", cfg.DB.SQLitePath)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.Channel = envutil.String("REDIS_CHANNEL", cfg.Redis.Channel)

	cfg.Neo4j.URI = envutil.String("NEO4J_URI", cfg.Neo4j.URI)
	cfg.Neo4j.User = envutil.String("NEO4J_USER", cfg.Neo4j.User)
	cfg.Neo4j.Password = envutil.String("NEO4J_PASSWORD", cfg.Neo4j.Password)
	cfg.Neo4j.Database = envutil.String("NEO4J_DATABASE", cfg.Neo4j.Database)
	cfg.Neo4j.Timeout = envutil.Duration("NEO4J_TIMEOUT", cfg.Neo4j.Timeout)

	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Otel.ServiceName)
	cfg.Otel.Environment = envutil.String("OTEL_ENVIRONMENT", cfg.Otel.Environment)
	cfg.Otel.Version = envutil.String("OTEL_SERVICE_VERSION", cfg.Otel.Version)
	cfg.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint)
	if raw := envutil.String("OTEL_EXPORTER_OTLP_HEADERS", ""); raw != "" {
		cfg.Otel.Headers = observability.ParseHeaders(raw)
	}
	cfg.Otel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Otel.Insecure)
	cfg.Otel.SampleRatio = envutil.Float("OTEL_SAMPLE_RATIO", cfg.Otel.SampleRatio)

	s := &cfg.Scheduling
	s.CoverageWeight = envutil.Float("SCHEDULING_COVERAGE_WEIGHT", s.CoverageWeight)
	s.PoolSize = envutil.Int("SCHEDULING_POOL_SIZE", s.PoolSize)
	s.CandidateLimit = envutil.Int("SCHEDULING_CANDIDATE_LIMIT", s.CandidateLimit)
	s.MinVotes = envutil.Int("SCHEDULING_MIN_VOTES", s.MinVotes)
	s.MaxVotes = envutil.Int("SCHEDULING_MAX_VOTES", s.MaxVotes)
	s.MinEntropy = envutil.Float("SCHEDULING_MIN_ENTROPY", s.MinEntropy)
	s.Seed = envutil.Int64("SCHEDULING_SEED", s.Seed)
}

func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.DB.Driver)) {
	case db.DriverPostgres, db.DriverSQLite, "":
	default:
		return fmt.Errorf("config: unknown db driver %q", c.DB.Driver)
	}
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return fmt.Errorf("config: http addr is required")
	}
	if err := c.Scheduling.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
