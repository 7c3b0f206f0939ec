package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MEMO_CONFIG_PATH", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" || cfg.DB.Driver != "postgres" {
		t.Fatalf("defaults: %+v", cfg)
	}
	if cfg.Scheduling.CoverageWeight != 0.7 || cfg.Scheduling.PoolSize != 20 || cfg.Scheduling.MinEntropy != 0.5 {
		t.Fatalf("scheduling defaults: %+v", cfg.Scheduling)
	}
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
log_mode: production
http:
  addr: ":9000"
  allowed_origins: ["https://memo.example"]
db:
  driver: sqlite
  sqlite_path: /tmp/memo.db
  slow_query: 1s
neo4j:
  uri: bolt://graph:7687
  timeout: 3s
scheduling:
  coverage_weight: 0.5
  pool_size: 8
`)
	t.Setenv("MEMO_CONFIG_PATH", path)
	t.Setenv("PORT", "7000")
	t.Setenv("SCHEDULING_MIN_VOTES", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LogMode != "production" || cfg.DB.Driver != "sqlite" || cfg.DB.SQLitePath != "/tmp/memo.db" {
		t.Fatalf("file values: %+v", cfg)
	}
	if cfg.DB.SlowQuery != time.Second || cfg.Neo4j.Timeout != 3*time.Second {
		t.Fatalf("durations: slow=%v neo4j=%v", cfg.DB.SlowQuery, cfg.Neo4j.Timeout)
	}
	if cfg.HTTP.Addr != ":7000" {
		t.Fatalf("addr: want=:7000 got=%s", cfg.HTTP.Addr)
	}
	if got := strings.Join(cfg.HTTP.AllowedOrigins, "|"); got != "https://a.example|https://b.example" {
		t.Fatalf("origins: %s", got)
	}
	if cfg.Scheduling.CoverageWeight != 0.5 || cfg.Scheduling.PoolSize != 8 || cfg.Scheduling.MinVotes != 2 {
		t.Fatalf("scheduling: %+v", cfg.Scheduling)
	}
	// Unset keys keep their defaults.
	if cfg.Scheduling.MaxVotes != 20 || cfg.Scheduling.CandidateLimit != 20 {
		t.Fatalf("scheduling defaults lost: %+v", cfg.Scheduling)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		body string
		env  map[string]string
	}{
		{"weight", "scheduling:\n  coverage_weight: 1.5\n", nil},
		{"votes", "scheduling:\n  min_votes: 30\n", nil},
		{"driver", "db:\n  driver: mysql\n", nil},
		{"env pool", "", map[string]string{"SCHEDULING_POOL_SIZE": "1"}},
		{"yaml", "scheduling: [", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("MEMO_CONFIG_PATH", writeConfig(t, tc.body))
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	t.Run("missing explicit file", func(t *testing.T) {
		t.Setenv("MEMO_CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
		if _, err := LoadConfig(); err == nil {
			t.Fatalf("expected error")
		}
	})
}
