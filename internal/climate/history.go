package climate

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AdiKsOnDev/climatetime-sub000/internal/cache"
	"github.com/AdiKsOnDev/climatetime-sub000/internal/observability"
)

// MinArchiveYear is the first year the upstream archive has data for.
const MinArchiveYear = 1940

// HistoryService drives the archive client one year at a time, paced by the
// rate limiter, and reduces the results into yearly, decadal and trend views.
// Expensive multi-year results are memoized in the shared cache.
type HistoryService struct {
	archive ArchiveClient
	pacer   Pacer
	cache   *cache.Cache
	metrics *observability.Metrics
	log     *zap.SugaredLogger
	ttl     time.Duration
}

// NewHistoryService creates a HistoryService. ttl bounds how long cached
// multi-year results are served.
func NewHistoryService(
	archive ArchiveClient,
	pacer Pacer,
	c *cache.Cache,
	metrics *observability.Metrics,
	log *zap.SugaredLogger,
	ttl time.Duration,
) *HistoryService {
	return &HistoryService{
		archive: archive,
		pacer:   pacer,
		cache:   c,
		metrics: metrics,
		log:     log,
		ttl:     ttl,
	}
}

// FetchYears retrieves and aggregates one YearlySummary per requested year,
// preserving input order. Each year costs exactly one upstream request for
// the full calendar-year range, with a pacer permit acquired before it.
// A failed or empty year is skipped, recorded in the result and never
// retried. The only fatal error is context cancellation while waiting for a
// permit.
func (s *HistoryService) FetchYears(ctx context.Context, loc Location, years []int) (YearlyResult, error) {
	key := cache.Key(loc.Latitude, loc.Longitude, "years:"+joinYears(years))
	if v, ok := s.lookup(key); ok {
		return v.(YearlyResult), nil
	}

	var result YearlyResult
	for _, year := range years {
		if err := s.pacer.Wait(ctx); err != nil {
			return result, err
		}

		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

		days, err := s.archive.FetchDaily(ctx, loc, start, end)
		if err != nil {
			s.log.Warnw("skipping year after fetch failure",
				"year", year, "lat", loc.Latitude, "lon", loc.Longitude, "error", err)
			s.metrics.YearsSkipped.Inc()
			result.Skipped = append(result.Skipped, SkippedYear{Year: year, Reason: err.Error()})
			continue
		}

		summary, ok := AggregateYear(year, days)
		if !ok {
			s.log.Warnw("skipping year without valid daily records", "year", year)
			s.metrics.YearsSkipped.Inc()
			result.Skipped = append(result.Skipped, SkippedYear{Year: year, Reason: "no valid daily records"})
			continue
		}
		result.Summaries = append(result.Summaries, summary)
	}

	s.cache.Set(key, result, s.ttl)
	return result, nil
}

// DecadalData aggregates the years spanned by [startDecade, endDecade+9],
// clamped to the archive's coverage, into decade buckets.
func (s *HistoryService) DecadalData(ctx context.Context, loc Location, startDecade, endDecade int) (DecadalReport, error) {
	key := cache.Key(loc.Latitude, loc.Longitude, fmt.Sprintf("decades:%d-%d", startDecade, endDecade))
	if v, ok := s.lookup(key); ok {
		return v.(DecadalReport), nil
	}

	years := yearRange(startDecade, endDecade+9)
	fetched, err := s.FetchYears(ctx, loc, years)
	if err != nil {
		return DecadalReport{}, err
	}

	requested := make([]int, 0, (endDecade-startDecade)/10+1)
	for d := startDecade; d <= endDecade; d += 10 {
		requested = append(requested, d)
	}

	report := DecadalReport{
		Location:         loc,
		RequestedDecades: requested,
		DecadalData:      AggregateDecades(fetched.Summaries),
		Skipped:          fetched.Skipped,
	}
	s.cache.Set(key, report, s.ttl)
	return report, nil
}

// Trends fetches the requested span and fits least-squares trends over every
// tracked metric. Fewer than ten retrievable years yields an empty trend
// list, not an error.
func (s *HistoryService) Trends(ctx context.Context, loc Location, startYear, endYear int) (TrendReport, error) {
	key := cache.Key(loc.Latitude, loc.Longitude, fmt.Sprintf("trends:%d-%d", startYear, endYear))
	if v, ok := s.lookup(key); ok {
		return v.(TrendReport), nil
	}

	fetched, err := s.FetchYears(ctx, loc, yearRange(startYear, endYear))
	if err != nil {
		return TrendReport{}, err
	}

	report := TrendReport{
		Location:   loc,
		Period:     PeriodLabel(startYear, endYear),
		DataYears:  len(fetched.Summaries),
		Trends:     AnalyzeAllTrends(fetched.Summaries),
		YearlyData: fetched.Summaries,
		Skipped:    fetched.Skipped,
	}
	s.cache.Set(key, report, s.ttl)
	return report, nil
}

func (s *HistoryService) lookup(key string) (any, bool) {
	v, ok := s.cache.Get(key)
	if ok {
		s.metrics.CacheLookups.WithLabelValues("hit").Inc()
	} else {
		s.metrics.CacheLookups.WithLabelValues("miss").Inc()
	}
	return v, ok
}

// yearRange enumerates [start, end] clamped to the archive's coverage
// window: nothing before MinArchiveYear, nothing after last year.
func yearRange(start, end int) []int {
	lastComplete := time.Now().UTC().Year() - 1
	if start < MinArchiveYear {
		start = MinArchiveYear
	}
	if end > lastComplete {
		end = lastComplete
	}
	if end < start {
		return nil
	}
	years := make([]int, 0, end-start+1)
	for y := start; y <= end; y++ {
		years = append(years, y)
	}
	return years
}

func joinYears(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, ",")
}
