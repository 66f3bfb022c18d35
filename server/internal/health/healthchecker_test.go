package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeChecker struct {
	name    string
	healthy atomic.Int32
}

func (f *fakeChecker) Name() string                               { return f.name }
func (f *fakeChecker) IsHealthy() bool                            { return f.healthy.Load() == 1 }
func (f *fakeChecker) Start(ctx context.Context, _ time.Duration) {}

type fakePinger struct{ fail atomic.Bool }

func (p *fakePinger) HealthPing(context.Context) error {
	if p.fail.Load() {
		return errors.New("db unreachable")
	}
	return nil
}

func TestServiceHealthChecker_Transitions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := &fakeChecker{name: "a"}
	b := &fakeChecker{name: "b"}
	a.healthy.Store(1)
	b.healthy.Store(1)

	svc := NewServiceHealthChecker(zerolog.Nop(), a, b)
	go svc.Start(ctx, 10*time.Millisecond)

	waitTrue(t, func() bool { return svc.IsHealthy() })

	b.healthy.Store(0)
	waitTrue(t, func() bool { return !svc.IsHealthy() })

	b.healthy.Store(1)
	waitTrue(t, func() bool { return svc.IsHealthy() })
}

func TestPingChecker(t *testing.T) {
	p := &fakePinger{}
	c := NewPingChecker("store", p, zerolog.Nop(), 0)
	if c.IsHealthy() {
		t.Fatal("must start unhealthy")
	}
	if !c.Check(context.Background()) || !c.IsHealthy() {
		t.Fatal("expected healthy after a good probe")
	}
	p.fail.Store(true)
	if c.Check(context.Background()) || c.IsHealthy() {
		t.Fatal("expected unhealthy after a failed probe")
	}
}

func waitTrue(t *testing.T, pred func() bool) {
	t.Helper()
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if pred() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met before timeout")
}
