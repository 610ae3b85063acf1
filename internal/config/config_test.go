package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ListenAddr != ":7777" {
		t.Errorf("ListenAddr = %q, want :7777", cfg.ListenAddr)
	}
	if cfg.BufferSize != 8192 {
		t.Errorf("BufferSize = %d, want 8192", cfg.BufferSize)
	}
	if cfg.SnapshotBackend != BackendFile {
		t.Errorf("SnapshotBackend = %q, want %q", cfg.SnapshotBackend, BackendFile)
	}
	if cfg.SnapshotInterval != time.Minute {
		t.Errorf("SnapshotInterval = %v, want 1m", cfg.SnapshotInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STASH_LISTEN_ADDR", ":9999")
	t.Setenv("STASH_BUFFER_SIZE", "4096")
	t.Setenv("STASH_PRETTY_LOG", "false")
	t.Setenv("STASH_SNAPSHOT_INTERVAL", "30s")

	cfg := Load()

	if cfg.ListenAddr != ":9999" {
		t.Errorf("ListenAddr = %q, want :9999", cfg.ListenAddr)
	}
	if cfg.BufferSize != 4096 {
		t.Errorf("BufferSize = %d, want 4096", cfg.BufferSize)
	}
	if cfg.PrettyLog {
		t.Error("PrettyLog = true, want false")
	}
	if cfg.SnapshotInterval != 30*time.Second {
		t.Errorf("SnapshotInterval = %v, want 30s", cfg.SnapshotInterval)
	}
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("STASH_BUFFER_SIZE", "not-a-number")
	t.Setenv("STASH_SNAPSHOT_INTERVAL", "soon")

	cfg := Load()

	if cfg.BufferSize != 8192 {
		t.Errorf("BufferSize = %d, want the default on a bad value", cfg.BufferSize)
	}
	if cfg.SnapshotInterval != time.Minute {
		t.Errorf("SnapshotInterval = %v, want the default on a bad value", cfg.SnapshotInterval)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STASH_SNAPSHOT_BACKEND", "carrier-pigeon")

	defer func() {
		if recover() == nil {
			t.Error("Load() with an unknown backend should panic")
		}
	}()
	Load()
}
