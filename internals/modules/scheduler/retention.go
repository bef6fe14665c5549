package scheduler

import (
	"context"
	"errors"
	"fmt"
	"pulsewatch/internals/modules/plan"
	"time"

	"github.com/rs/zerolog"
)

type Purger interface {
	PurgeExpired(ctx context.Context, tier string, cutoff time.Time) (int64, error)
	PurgeUnknownTiers(ctx context.Context, known []string, cutoff time.Time) (int64, error)
}

// RetentionJob deletes check results older than each tier's retention
// window. Organizations on a tier outside plan.Tiers use defaultDays.
type RetentionJob struct {
	purger      Purger
	defaultDays int
	logger      *zerolog.Logger
	now         func() time.Time
}

func NewRetentionJob(purger Purger, defaultDays int, logger *zerolog.Logger) *RetentionJob {
	return &RetentionJob{
		purger:      purger,
		defaultDays: defaultDays,
		logger:      logger,
		now:         time.Now,
	}
}

func (j *RetentionJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	known := make([]string, 0, len(plan.Tiers()))

	var errs []error
	var total int64

	for _, tier := range plan.Tiers() {
		known = append(known, string(tier))

		limits, err := plan.GetLimits(tier)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		cutoff := now.AddDate(0, 0, -limits.RetentionDays)

		n, err := j.purger.PurgeExpired(ctx, string(tier), cutoff)
		if err != nil {
			errs = append(errs, fmt.Errorf("purge %s: %w", tier, err))
			continue
		}
		total += n
		j.logger.Debug().Str("tier", string(tier)).Int64("deleted", n).Time("cutoff", cutoff).Msg("retention purge")
	}

	cutoff := now.AddDate(0, 0, -j.defaultDays)
	n, err := j.purger.PurgeUnknownTiers(ctx, known, cutoff)
	if err != nil {
		errs = append(errs, fmt.Errorf("purge unknown tiers: %w", err))
	}
	total += n

	j.logger.Info().Int64("deleted", total).Msg("retention cleanup finished")
	return errors.Join(errs...)
}
