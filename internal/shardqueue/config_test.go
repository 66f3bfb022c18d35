package shardqueue

import (
	"testing"
	"time"
)

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SQ_SHARDS", "8")
	t.Setenv("SQ_QUEUE_SIZE", "256")
	t.Setenv("SQ_ENQUEUE_TIMEOUT", "250ms")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Shards != 8 || cfg.QueueSize != 256 {
		t.Fatalf("unexpected Shards/QueueSize: %+v", cfg)
	}
	if cfg.EnqueueTimeout != 250*time.Millisecond {
		t.Fatalf("unexpected EnqueueTimeout: %v", cfg.EnqueueTimeout)
	}
}

func TestConfig_ZeroValueDefaults(t *testing.T) {
	t.Parallel()
	cfg := Config{}.withDefaults()
	if cfg.Shards != 4 || cfg.QueueSize != 128 || cfg.EnqueueTimeout != 100*time.Millisecond {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}
