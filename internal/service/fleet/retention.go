package fleet

import (
	"context"
	"fmt"
	"time"

	cron "github.com/robfig/cron/v3"

	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
	"github.com/Temutjin2k/bus-tracker/pkg/metrics"
)

// Prune deletes reports older than the retention window. Each bus keeps its current report.
func (s *Service) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	ctx = wrap.WithAction(ctx, types.ActionRetentionPrune)

	cutoff := s.now().Add(-retention)
	deleted, err := s.locations.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	metrics.RetentionPrunedTotal.Add(float64(deleted))
	s.l.Info(ctx, "old location reports pruned", "deleted", deleted, "cutoff", cutoff.Format(time.RFC3339))

	return deleted, nil
}

// Retention runs Prune on a cron schedule.
type Retention struct {
	cron *cron.Cron
}

// StartRetention schedules pruning. schedule is a standard five-field cron spec or a
// descriptor such as @daily. Zero retention disables the job and returns nil.
func (s *Service) StartRetention(ctx context.Context, schedule string, retention time.Duration) (*Retention, error) {
	if retention <= 0 {
		return nil, nil
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if _, err := s.Prune(ctx, retention); err != nil {
			s.l.Error(wrap.ErrorCtx(ctx, err), "retention prune failed", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid retention schedule %q: %w", schedule, err)
	}
	c.Start()

	s.l.Info(wrap.WithAction(ctx, types.ActionRetentionPrune), "retention job scheduled",
		"schedule", schedule,
		"retention", retention.String(),
	)

	return &Retention{cron: c}, nil
}

func (r *Retention) Stop() {
	if r != nil && r.cron != nil {
		r.cron.Stop()
	}
}
