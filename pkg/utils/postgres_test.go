package utils

import (
	"testing"
	"time"
)

func TestPostgresPoolConfig_Defaults(t *testing.T) {
	cfg := PostgresPoolConfig{}.withDefaults()
	if cfg.MaxOpenConns != 25 || cfg.MaxIdleConns != 25 {
		t.Fatalf("unexpected pool sizing: %+v", cfg)
	}
	if cfg.PingTimeout != 5*time.Second {
		t.Fatalf("unexpected ping timeout: %v", cfg.PingTimeout)
	}

	cfg = PostgresPoolConfig{MaxOpenConns: 5, PingTimeout: time.Second}.withDefaults()
	if cfg.MaxOpenConns != 5 || cfg.PingTimeout != time.Second {
		t.Fatalf("explicit values overridden: %+v", cfg)
	}
}
