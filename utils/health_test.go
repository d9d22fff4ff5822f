package utils

import (
	"context"
	"errors"
	"testing"
)

func staticProbe(err error) Probe {
	return func(ctx context.Context) error { return err }
}

func TestHealthMonitorRefresh(t *testing.T) {
	m := &HealthMonitor{
		mongo: staticProbe(nil),
		cache: staticProbe(nil),
		queue: staticProbe(errors.New("broker down")),
	}

	m.refresh(context.Background())

	status := m.Status()
	if !status.Mongo || !status.Cache {
		t.Errorf("status = %+v, want mongo and cache healthy", status)
	}
	if status.Queue {
		t.Errorf("status = %+v, want queue broker down", status)
	}
	if status.CheckedAt.IsZero() {
		t.Error("CheckedAt must be stamped on every refresh")
	}
}

func TestHealthMonitorTracksRecovery(t *testing.T) {
	queueErr := errors.New("down")
	m := &HealthMonitor{
		mongo: staticProbe(nil),
		cache: staticProbe(nil),
		queue: func(ctx context.Context) error { return queueErr },
	}

	m.refresh(context.Background())
	if m.Status().Queue {
		t.Fatal("queue must start unhealthy")
	}

	queueErr = nil
	m.refresh(context.Background())
	if !m.Status().Queue {
		t.Error("queue must report healthy after the broker recovers")
	}
}

func TestHealthMonitorProbeContextBounded(t *testing.T) {
	m := &HealthMonitor{
		mongo: func(ctx context.Context) error {
			if _, ok := ctx.Deadline(); !ok {
				t.Error("probe context must carry a deadline")
			}
			return nil
		},
		cache: staticProbe(nil),
		queue: staticProbe(nil),
	}

	m.refresh(context.Background())
}
