package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	originalEnv := make(map[string]string)
	envVars := []string{
		"SERVER_PORT",
		"BASE_URL",
		"SHARD_DSNS",
		"SHARD_QUERY_TIMEOUT",
		"DB_MAX_CONNS",
		"DB_MIN_CONNS",
		"ADMIN_TOKEN",
		"LOG_LEVEL",
	}

	for _, env := range envVars {
		originalEnv[env] = os.Getenv(env)
	}

	defer func() {
		for env, val := range originalEnv {
			if val == "" {
				os.Unsetenv(env)
			} else {
				os.Setenv(env, val)
			}
		}
	}()

	for _, env := range envVars {
		os.Unsetenv(env)
	}

	// SHARD_DSNS and ADMIN_TOKEN have no defaults; set the minimum viable env.
	setRequired := func() {
		os.Setenv("SHARD_DSNS", "postgres://localhost:5432/shard0")
		os.Setenv("ADMIN_TOKEN", "secret")
	}

	t.Run("default values", func(t *testing.T) {
		setRequired()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.ServerPort != "8080" {
			t.Errorf("ServerPort = %v, want 8080", cfg.ServerPort)
		}
		if cfg.BaseURL != "http://localhost:8080" {
			t.Errorf("BaseURL = %v, want http://localhost:8080", cfg.BaseURL)
		}
		if len(cfg.ShardDSNs) != 1 {
			t.Errorf("ShardDSNs has %d entries, want 1", len(cfg.ShardDSNs))
		}
		if cfg.ShardQueryTimeout != 5*time.Second {
			t.Errorf("ShardQueryTimeout = %v, want 5s", cfg.ShardQueryTimeout)
		}
		if cfg.DBMaxConns != 10 {
			t.Errorf("DBMaxConns = %v, want 10", cfg.DBMaxConns)
		}
		if cfg.DBMinConns != 2 {
			t.Errorf("DBMinConns = %v, want 2", cfg.DBMinConns)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
		}
	})

	t.Run("custom values from environment", func(t *testing.T) {
		os.Setenv("SERVER_PORT", "9090")
		os.Setenv("BASE_URL", "https://blog.example.com")
		os.Setenv("SHARD_DSNS", "postgres://db1/shard0, postgres://db2/shard1 ,postgres://db3/shard2")
		os.Setenv("SHARD_QUERY_TIMEOUT", "2s")
		os.Setenv("DB_MAX_CONNS", "50")
		os.Setenv("DB_MIN_CONNS", "10")
		os.Setenv("ADMIN_TOKEN", "hunter2")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.ServerPort != "9090" {
			t.Errorf("ServerPort = %v, want 9090", cfg.ServerPort)
		}
		if cfg.BaseURL != "https://blog.example.com" {
			t.Errorf("BaseURL = %v, want https://blog.example.com", cfg.BaseURL)
		}
		if len(cfg.ShardDSNs) != 3 {
			t.Fatalf("ShardDSNs has %d entries, want 3", len(cfg.ShardDSNs))
		}
		// Whitespace around entries must be trimmed, and order preserved.
		if cfg.ShardDSNs[1] != "postgres://db2/shard1" {
			t.Errorf("ShardDSNs[1] = %v, want postgres://db2/shard1", cfg.ShardDSNs[1])
		}
		if cfg.ShardQueryTimeout != 2*time.Second {
			t.Errorf("ShardQueryTimeout = %v, want 2s", cfg.ShardQueryTimeout)
		}
		if cfg.DBMaxConns != 50 {
			t.Errorf("DBMaxConns = %v, want 50", cfg.DBMaxConns)
		}
		if cfg.DBMinConns != 10 {
			t.Errorf("DBMinConns = %v, want 10", cfg.DBMinConns)
		}
		if cfg.AdminToken != "hunter2" {
			t.Errorf("AdminToken = %v, want hunter2", cfg.AdminToken)
		}
	})

	t.Run("missing shard DSNs fails", func(t *testing.T) {
		for _, env := range envVars {
			os.Unsetenv(env)
		}
		os.Setenv("ADMIN_TOKEN", "secret")

		if _, err := Load(); err == nil {
			t.Error("Load() with no SHARD_DSNS should fail")
		}
	})

	t.Run("missing admin token fails", func(t *testing.T) {
		for _, env := range envVars {
			os.Unsetenv(env)
		}
		os.Setenv("SHARD_DSNS", "postgres://localhost:5432/shard0")

		if _, err := Load(); err == nil {
			t.Error("Load() with no ADMIN_TOKEN should fail")
		}
	})

	t.Run("duration fields have correct defaults", func(t *testing.T) {
		for _, env := range envVars {
			os.Unsetenv(env)
		}
		setRequired()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.DBMaxConnLifetime != time.Hour {
			t.Errorf("DBMaxConnLifetime = %v, want 1h", cfg.DBMaxConnLifetime)
		}
		if cfg.DBMaxConnIdleTime != 30*time.Minute {
			t.Errorf("DBMaxConnIdleTime = %v, want 30m", cfg.DBMaxConnIdleTime)
		}
		if cfg.DBHealthCheckPeriod != time.Minute {
			t.Errorf("DBHealthCheckPeriod = %v, want 1m", cfg.DBHealthCheckPeriod)
		}
	})
}
