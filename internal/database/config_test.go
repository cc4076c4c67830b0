package database

import (
	"strings"
	"testing"

	"spendwise/internal/config"
)

func TestConfigFromApp(t *testing.T) {
	cfg := NewConfig(&config.Config{
		DBHost:        "db.internal",
		DBPort:        "5433",
		DBUser:        "app",
		DBPassword:    "p@ss word",
		DBName:        "ledger",
		DBSSLMode:     "require",
		MigrationsDir: "db/migrations",
	})

	dsn := cfg.DSN()
	for _, part := range []string{"host=db.internal", "port=5433", "user=app", "dbname=ledger", "sslmode=require"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("DSN %q missing %q", dsn, part)
		}
	}

	u := cfg.URL()
	if !strings.HasPrefix(u, "postgres://app:") {
		t.Errorf("unexpected URL prefix: %s", u)
	}
	if !strings.Contains(u, "@db.internal:5433/ledger?sslmode=require") {
		t.Errorf("unexpected URL: %s", u)
	}
	if strings.Contains(u, "p@ss word") {
		t.Errorf("password should be escaped in URL: %s", u)
	}

	if got := cfg.MigrationsSource(); got != "file://db/migrations" {
		t.Errorf("unexpected migrations source: %s", got)
	}
}
