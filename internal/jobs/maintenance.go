package jobs

import (
	"context"
	"errors"

	"commerce/internal/config"
	applog "commerce/internal/log"
	"commerce/internal/search"
	"commerce/internal/services"
)

const (
	JobStatsRefresh  = "stats:refresh"
	JobReviewsIndex  = "reviews:reindex"
	reindexBatchSize = 500
)

// Maintenance registers the storefront's standing jobs: the hourly statistics
// rollup and the nightly review reindex.
func Maintenance(cfg config.Config, stats *services.StatisticsService, reviews *services.ReviewService) (*Registry, error) {
	r := NewRegistry()
	err := r.Register(JobStatsRefresh, cfg.CronStats, func(ctx context.Context) error {
		_, err := stats.Refresh(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	err = r.Register(JobReviewsIndex, cfg.CronReindex, func(ctx context.Context) error {
		n, err := reviews.IndexAll(ctx, reindexBatchSize)
		if errors.Is(err, search.ErrDisabled) {
			applog.Info(nil, "job.skip", map[string]any{"job": JobReviewsIndex, "reason": "search disabled"})
			return nil
		}
		if err != nil {
			return err
		}
		applog.Info(nil, "reviews.indexed", map[string]any{"count": n})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}
