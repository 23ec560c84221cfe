package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"commerce/internal/cache"
	"commerce/internal/domain"
	applog "commerce/internal/log"
	"commerce/internal/repos"
)

// daysPerMonth is the average Gregorian month length used for review velocity.
const daysPerMonth = 30.44

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// parseTimestamp accepts the layouts the two databases hand back.
func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range []string{repos.TimeLayout, time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ReviewVelocity is reviews per month between the first and last review. The
// span counts whole days and is never shorter than one month. Fewer than two
// reviews give 0.
func ReviewVelocity(dates []time.Time) float64 {
	if len(dates) < 2 {
		return 0
	}
	first, last := dates[0], dates[0]
	for _, d := range dates[1:] {
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}
	days := math.Floor(last.Sub(first).Hours() / 24)
	months := math.Max(1, days/daysPerMonth)
	return round(float64(len(dates))/months, 2)
}

// RatingDistribution counts whole-star ratings as a JSON object keyed "1".."5",
// e.g. {"1": 0, "2": 0, "3": 1, "4": 2, "5": 4}. Fractional ratings are not counted.
func RatingDistribution(ratings []float64) string {
	var counts [6]int
	for _, r := range ratings {
		if r >= 1 && r <= 5 && r == math.Trunc(r) {
			counts[int(r)]++
		}
	}
	parts := make([]string, 0, 5)
	for star := 1; star <= 5; star++ {
		parts = append(parts, fmt.Sprintf(`"%d": %d`, star, counts[star]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ComputeStatistics rolls up one product's reviews. Ratings outside 1..5 and
// undated reviews are skipped.
func ComputeStatistics(productNo string, points []repos.RatingPoint) domain.ProductStatistics {
	var (
		ratings []float64
		dates   []time.Time
		sum     float64
	)
	for _, p := range points {
		if p.Rating < 1 || p.Rating > 5 {
			continue
		}
		t, ok := parseTimestamp(p.CreatedAt)
		if !ok {
			continue
		}
		ratings = append(ratings, p.Rating)
		dates = append(dates, t)
		sum += p.Rating
	}

	st := domain.ProductStatistics{
		ProductNo:          productNo,
		TotalReviews:       len(ratings),
		RatingDistribution: RatingDistribution(ratings),
		ReviewVelocity:     ReviewVelocity(dates),
	}
	if len(ratings) > 0 {
		st.AverageRating = round(sum/float64(len(ratings)), 2)
		last := dates[0]
		for _, d := range dates {
			if d.After(last) {
				last = d
			}
		}
		st.LastReviewDate = last.Format("2006-01-02")
	}
	return st
}

type StatisticsService struct {
	Reviews *repos.ReviewRepo
	Prods   *repos.ProductRepo
	Cache   *cache.Cache
}

func NewStatisticsService(reviews *repos.ReviewRepo, prods *repos.ProductRepo, c *cache.Cache) *StatisticsService {
	return &StatisticsService{Reviews: reviews, Prods: prods, Cache: c}
}

// ForProducts returns one rollup per requested product, in request order.
// Lookups go cache, then the stored rollups, then a live computation.
func (s *StatisticsService) ForProducts(ctx context.Context, nos []string) ([]domain.ProductStatistics, error) {
	found := make(map[string]domain.ProductStatistics, len(nos))
	var missing []string
	for _, no := range nos {
		var st domain.ProductStatistics
		if s.Cache.Get(ctx, cache.ProductStatisticsKey(no), &st) {
			found[no] = st
			continue
		}
		missing = append(missing, no)
	}

	if len(missing) > 0 {
		stored, err := s.Reviews.StoredStatistics(missing)
		if err != nil {
			return nil, fmt.Errorf("stored statistics: %w", err)
		}
		for _, st := range stored {
			found[st.ProductNo] = st
		}

		var live []string
		for _, no := range missing {
			if _, ok := found[no]; !ok {
				live = append(live, no)
			}
		}
		if len(live) > 0 {
			points, err := s.Reviews.RatingPoints(live)
			if err != nil {
				return nil, fmt.Errorf("rating points: %w", err)
			}
			byProduct := groupPoints(points)
			for _, no := range live {
				found[no] = ComputeStatistics(no, byProduct[no])
			}
		}
		for _, no := range missing {
			s.Cache.Set(ctx, cache.ProductStatisticsKey(no), found[no], cache.StatsTTL)
		}
	}

	out := make([]domain.ProductStatistics, 0, len(nos))
	for _, no := range nos {
		out = append(out, found[no])
	}
	return out, nil
}

func groupPoints(points []repos.RatingPoint) map[string][]repos.RatingPoint {
	by := map[string][]repos.RatingPoint{}
	for _, p := range points {
		by[p.ProductNo] = append(by[p.ProductNo], p)
	}
	return by
}

// Refresh recomputes and stores every product's rollup, updates the product
// rating columns, and drops the cached copies. It returns the product count.
func (s *StatisticsService) Refresh(ctx context.Context) (int, error) {
	nos, err := s.Prods.ProductNos()
	if err != nil {
		return 0, err
	}
	points, err := s.Reviews.RatingPoints(nil)
	if err != nil {
		return 0, err
	}
	byProduct := groupPoints(points)
	stats := make([]domain.ProductStatistics, 0, len(nos))
	for _, no := range nos {
		stats = append(stats, ComputeStatistics(no, byProduct[no]))
	}
	if err := s.Reviews.SaveStatistics(stats); err != nil {
		return 0, fmt.Errorf("save statistics: %w", err)
	}
	if err := s.Prods.RollupRatings(); err != nil {
		return 0, fmt.Errorf("rollup ratings: %w", err)
	}
	n := s.Cache.DeleteByPrefix(ctx, cache.ProductStatisticsKey(""))
	s.Cache.Delete(ctx, cache.KeyStats)
	applog.Info(nil, "statistics.refresh", map[string]any{"products": len(stats), "cache_dropped": n})
	return len(stats), nil
}
