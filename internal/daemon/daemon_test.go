package daemon

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"platterd/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Drives.IDs = []string{"/dev/sr-test"}
	root := t.TempDir()
	cfg.Paths.WorkspaceRoot = root
	cfg.Paths.StagingDir = root + "/staging"
	cfg.Paths.EncodingDir = root + "/encoding"
	cfg.Paths.LogDir = root + "/logs"
	cfg.Paths.DataDir = root + "/data"
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Library.MoviesDir = root + "/movies"
	cfg.Workflow.DrivePollInterval = 1
	cfg.Workflow.WorkerIdleSleep = 1
	cfg.Workflow.ShutdownTimeout = 5
	cfg.Workflow.OversightInterval = 1
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config invalid: %v", err)
	}
	return &cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDaemonStartStopLifecycle(t *testing.T) {
	cfg := testConfig(t)
	d, err := New(cfg, discardLogger())
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	defer d.Close()

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	d.Stop()
}

func TestDaemonRejectsSecondInstance(t *testing.T) {
	cfg := testConfig(t)

	first, err := New(cfg, discardLogger())
	if err != nil {
		t.Fatalf("new first daemon: %v", err)
	}
	defer first.Close()
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("start first: %v", err)
	}
	defer first.Stop()

	second, err := New(cfg, discardLogger())
	if err != nil {
		t.Fatalf("new second daemon: %v", err)
	}
	defer second.Close()
	if err := second.Start(context.Background()); err == nil {
		t.Fatal("expected second instance to fail to acquire lock")
	}
}
