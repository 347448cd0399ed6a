package schedule

import (
	"context"
	"testing"

	"github.com/LvcidPsyche/swarm-janitor/internal/config"
	"github.com/LvcidPsyche/swarm-janitor/internal/janitor"
	"github.com/LvcidPsyche/swarm-janitor/internal/liveness"
)

func testJanitor(t *testing.T) *janitor.Janitor {
	t.Helper()
	cfg := &config.Config{
		SessionsDir: t.TempDir(),
		Retention:   config.RetentionYAML{MinAgeDays: 3, MinKeep: 10},
	}
	return janitor.New(cfg, liveness.Fake{Default: liveness.Dead}, nil, nil, nil)
}

func TestStartRejectsEmptySchedule(t *testing.T) {
	s := New(testJanitor(t), "", nil)
	if err := s.Start(context.Background()); err == nil {
		t.Error("expected error for empty schedule")
	}
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	s := New(testJanitor(t), "not a cron line", nil)
	if err := s.Start(context.Background()); err == nil {
		t.Error("expected error for invalid schedule")
	}
}

func TestStartStop(t *testing.T) {
	s := New(testJanitor(t), "0 3 * * *", nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Stop()

	// Stop again is a no-op.
	s.Stop()
}
