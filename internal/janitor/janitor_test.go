package janitor_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"hhscout/collector-service/internal/janitor"
)

func writeAged(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", name, err)
	}
	stamp := time.Now().Add(-age)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatalf("Chtimes(%s): %v", name, err)
	}
	return path
}

// ─────────────────────────── Sweep ───────────────────────────

func TestSweep_RemovesOnlyStaleFiles(t *testing.T) {
	dir := t.TempDir()
	stale := writeAged(t, dir, "старый_вакансии.xlsx", 48*time.Hour)
	fresh := writeAged(t, dir, "свежий_вакансии.xlsx", time.Hour)

	j, err := janitor.New(dir, 24*time.Hour, 6, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	j.Sweep()

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale report should be removed, stat err = %v", err)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("fresh report should survive, stat err = %v", err)
	}
}

func TestSweep_SkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "archive")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	stamp := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(sub, stamp, stamp); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	j, err := janitor.New(dir, 24*time.Hour, 6, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	j.Sweep()

	if _, err := os.Stat(sub); err != nil {
		t.Errorf("directories should never be swept, stat err = %v", err)
	}
}

func TestSweep_MissingDirIsFine(t *testing.T) {
	j, err := janitor.New(filepath.Join(t.TempDir(), "nope"), 24*time.Hour, 6, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	// Must not panic or create the directory.
	j.Sweep()
}
