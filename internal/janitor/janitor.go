// Package janitor removes stale report files. Reports are deleted right
// after delivery, so anything still on disk was orphaned by a crash or a
// failed upload.
package janitor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Janitor periodically sweeps the report directory.
type Janitor struct {
	cron   *cron.Cron
	dir    string
	maxAge time.Duration
	log    *zap.Logger
}

// New creates a janitor that sweeps dir every intervalHours, removing
// files older than maxAge.
func New(dir string, maxAge time.Duration, intervalHours int, log *zap.Logger) (*Janitor, error) {
	j := &Janitor{
		cron:   cron.New(),
		dir:    dir,
		maxAge: maxAge,
		log:    log.Named("janitor"),
	}

	spec := fmt.Sprintf("@every %dh", intervalHours)
	if _, err := j.cron.AddFunc(spec, j.Sweep); err != nil {
		return nil, fmt.Errorf("failed to register cleanup job: %w", err)
	}
	return j, nil
}

// Start launches the schedule and runs one sweep immediately.
func (j *Janitor) Start() {
	j.log.Info("janitor started",
		zap.String("dir", j.dir),
		zap.Duration("max_age", j.maxAge))
	j.cron.Start()
	go j.Sweep()
}

// Stop halts the schedule. A sweep already in flight finishes on its own.
func (j *Janitor) Stop() {
	j.cron.Stop()
	j.log.Info("janitor stopped")
}

// Sweep removes files in the report directory older than maxAge.
func (j *Janitor) Sweep() {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		// A missing directory just means no report was ever written.
		if !errors.Is(err, fs.ErrNotExist) {
			j.log.Warn("failed to read report dir", zap.String("dir", j.dir), zap.Error(err))
		}
		return
	}

	cutoff := time.Now().Add(-j.maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(j.dir, entry.Name())); err != nil {
			j.log.Warn("failed to remove stale report",
				zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		removed++
	}

	if removed > 0 {
		j.log.Info("removed stale reports", zap.Int("count", removed))
	}
}
