package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.log")
	log := New(path, true)
	log.Named("engine").Debugw("round started", "match", "abc")
	Sync(log)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "round started") || !strings.Contains(out, "engine") {
		t.Errorf("unexpected log output: %q", out)
	}
}

func TestNewWithoutPathDiscards(t *testing.T) {
	log := New("", false)
	log.Infow("dropped")
	Sync(log)
}
