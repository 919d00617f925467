package scheduler_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrportal/finance_ledger/internal/dto"
	"github.com/hrportal/finance_ledger/internal/platform/scheduler"
)

type stubRecurringSvc struct {
	calls atomic.Int64
	err   error
}

func (s *stubRecurringSvc) MaterializeDueRules(ctx context.Context, asOf time.Time, runAsUserID string) (*dto.MaterializationReport, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &dto.MaterializationReport{}, nil
}

func TestScheduler_RunsImmediatelyOnStart(t *testing.T) {
	svc := &stubRecurringSvc{}
	sched := scheduler.NewRecurringScheduler(svc, time.Hour, nil)

	sched.Start()
	defer sched.Stop()

	require.Eventually(t, func() bool {
		return svc.calls.Load() >= 1
	}, time.Second, 10*time.Millisecond)
}

func TestScheduler_TicksOnInterval(t *testing.T) {
	svc := &stubRecurringSvc{}
	sched := scheduler.NewRecurringScheduler(svc, 20*time.Millisecond, nil)

	sched.Start()
	defer sched.Stop()

	require.Eventually(t, func() bool {
		return svc.calls.Load() >= 3
	}, time.Second, 10*time.Millisecond)
}

func TestScheduler_StopHaltsPasses(t *testing.T) {
	svc := &stubRecurringSvc{}
	sched := scheduler.NewRecurringScheduler(svc, 20*time.Millisecond, nil)

	sched.Start()
	require.Eventually(t, func() bool {
		return svc.calls.Load() >= 1
	}, time.Second, 10*time.Millisecond)

	sched.Stop()
	after := svc.calls.Load()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, after, svc.calls.Load())
}

func TestScheduler_StartTwiceIsIdempotent(t *testing.T) {
	svc := &stubRecurringSvc{}
	sched := scheduler.NewRecurringScheduler(svc, time.Hour, nil)

	sched.Start()
	sched.Start()
	sched.Stop()
	sched.Stop()
}

func TestScheduler_RunNowTriggersPass(t *testing.T) {
	svc := &stubRecurringSvc{}
	sched := scheduler.NewRecurringScheduler(svc, time.Hour, nil)

	sched.RunNow()
	assert.Equal(t, int64(1), svc.calls.Load())
}
