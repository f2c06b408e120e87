package climate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/AdiKsOnDev/climatetime-sub000/internal/cache"
	"github.com/AdiKsOnDev/climatetime-sub000/internal/observability"
)

// ProjectionService produces forward-looking scenario projections: decade
// buckets computed from the upstream climate-model API where it has
// coverage, deterministic extrapolation beyond it, and a fully synthetic
// fallback set when any upstream period fails. A response is never a mix of
// real and synthetic periods.
type ProjectionService struct {
	model   ModelClient
	cache   *cache.Cache
	metrics *observability.Metrics
	log     *zap.SugaredLogger
	ttl     time.Duration
}

// NewProjectionService creates a ProjectionService.
func NewProjectionService(
	model ModelClient,
	c *cache.Cache,
	metrics *observability.Metrics,
	log *zap.SugaredLogger,
	ttl time.Duration,
) *ProjectionService {
	return &ProjectionService{
		model:   model,
		cache:   c,
		metrics: metrics,
		log:     log,
		ttl:     ttl,
	}
}

// Project computes the four-period projection for one scenario. The four
// period computations run concurrently; they are independent upstream calls
// with no ordering requirement.
func (s *ProjectionService) Project(ctx context.Context, loc Location, scenario Scenario) (ProjectionResponse, error) {
	params, ok := scenarioTable[scenario]
	if !ok {
		return ProjectionResponse{}, fmt.Errorf("unknown scenario %q", scenario)
	}

	key := cache.Key(loc.Latitude, loc.Longitude, "proj:"+string(scenario))
	if v, ok := s.lookup(key); ok {
		return v.(ProjectionResponse), nil
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		periods = make([]ProjectionPeriod, len(projectionPeriods))
		failed  bool
	)

	for i, def := range projectionPeriods {
		i, def := i, def
		wg.Add(1)
		go func() {
			defer wg.Done()

			p, err := s.computePeriod(ctx, loc, def.Label, def.StartYear, def.EndYear, params)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.log.Warnw("projection period failed",
					"period", def.Label, "scenario", scenario, "error", err)
				failed = true
				return
			}
			periods[i] = p
		}()
	}
	wg.Wait()

	resp := ProjectionResponse{
		Location: loc,
		Scenario: scenario,
		Model:    params.Model,
		Source:   SourceReal,
		Baseline: DefaultBaseline,
		Periods:  periods,
	}

	if failed {
		// Callers never see half-real data: one bad period poisons the
		// whole set, which is replaced wholesale by the synthetic one.
		s.metrics.SyntheticFallbacks.Inc()
		s.log.Warnw("falling back to synthetic projection set",
			"scenario", scenario, "lat", loc.Latitude, "lon", loc.Longitude)
		resp = s.syntheticProjection(loc, scenario, params)
	}

	s.cache.Set(key, resp, s.ttl)
	return resp, nil
}

// CompareScenarios computes projections for all three scenarios, fanning the
// scenario computations out concurrently.
func (s *ProjectionService) CompareScenarios(ctx context.Context, loc Location) (ScenarioSet, error) {
	key := cache.Key(loc.Latitude, loc.Longitude, "proj:all-scenarios")
	if v, ok := s.lookup(key); ok {
		return v.(ScenarioSet), nil
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		set      ScenarioSet
		firstErr error
	)

	for _, scenario := range Scenarios {
		scenario := scenario
		wg.Add(1)
		go func() {
			defer wg.Done()

			resp, err := s.Project(ctx, loc, scenario)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			switch scenario {
			case ScenarioOptimistic:
				set.Optimistic = resp
			case ScenarioModerate:
				set.Moderate = resp
			case ScenarioPessimistic:
				set.Pessimistic = resp
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return ScenarioSet{}, firstErr
	}
	s.cache.Set(key, set, s.ttl)
	return set, nil
}

// computePeriod builds one decade bucket, either from upstream model data or
// by extrapolation when the period starts beyond model coverage.
func (s *ProjectionService) computePeriod(ctx context.Context, loc Location, label string, startYear, endYear int, params scenarioParams) (ProjectionPeriod, error) {
	if startYear > maxModelYear {
		return extrapolatePeriod(label, startYear, endYear, params), nil
	}

	start := time.Date(startYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(endYear, time.December, 31, 0, 0, 0, 0, time.UTC)

	days, err := s.model.FetchProjected(ctx, loc, start, end, params.Model)
	if err != nil {
		return ProjectionPeriod{}, err
	}

	summary, ok := reducePeriod(startYear, days)
	if !ok {
		return ProjectionPeriod{}, fmt.Errorf("no valid model days for period %s", label)
	}

	p := ProjectionPeriod{
		Period:             label,
		StartYear:          startYear,
		EndYear:            endYear,
		TemperatureMaxAvg:  summary.TemperatureMaxAvg,
		TemperatureMinAvg:  summary.TemperatureMinAvg,
		TemperatureMeanAvg: summary.TemperatureMeanAvg,
		PrecipitationTotal: summary.PrecipitationTotal,
		PrecipitationAvg:   summary.PrecipitationAvg,
	}
	finishPeriod(&p, params)
	return p, nil
}

// reducePeriod reduces a multi-year daily series the same way yearly
// aggregation does, then averages the years into one decade-level summary.
// PrecipitationTotal comes out annualized, comparable with the baseline's
// yearly total.
func reducePeriod(decadeStart int, days []DailyRecord) (DecadalSummary, bool) {
	byYear := make(map[int][]DailyRecord)
	for _, d := range days {
		y := d.Date.Year()
		byYear[y] = append(byYear[y], d)
	}

	var years []YearlySummary
	for y, group := range byYear {
		if summary, ok := AggregateYear(y, group); ok {
			years = append(years, summary)
		}
	}
	if len(years) == 0 {
		return DecadalSummary{}, false
	}

	for _, d := range AggregateDecades(years) {
		if d.DecadeStart == decadeStart {
			return d, true
		}
	}
	// Model coverage can end mid-period; whatever years came back still
	// belong to this bucket, so a mismatch here means no usable data.
	return DecadalSummary{}, false
}

// extrapolatePeriod projects a period beyond model coverage from the fixed
// baseline: 0.8 degC and 5% precipitation per decade, scaled by the scenario
// multiplier, measured from 2020 at the period midpoint.
func extrapolatePeriod(label string, startYear, endYear int, params scenarioParams) ProjectionPeriod {
	yearsFromBaseline := float64(startYear + 5 - baselineYear)
	tempIncrease := yearsFromBaseline / 10 * 0.8 * params.Multiplier
	precipChangePct := yearsFromBaseline / 10 * 5 * params.Multiplier

	tempMean := DefaultBaseline.TemperatureMean + tempIncrease
	precipTotal := DefaultBaseline.Precipitation * (1 + precipChangePct/100)

	p := ProjectionPeriod{
		Period:             label,
		StartYear:          startYear,
		EndYear:            endYear,
		TemperatureMaxAvg:  tempMean + 5,
		TemperatureMinAvg:  tempMean - 5,
		TemperatureMeanAvg: tempMean,
		PrecipitationTotal: precipTotal,
		PrecipitationAvg:   precipTotal / 365,
	}
	finishPeriod(&p, params)
	return p
}

// finishPeriod attaches the baseline delta and the scenario's uncertainty
// band to a period whose raw values are already set.
func finishPeriod(p *ProjectionPeriod, params scenarioParams) {
	p.ChangeFromBaseline = ChangeFromBaseline{
		Temperature:      p.TemperatureMeanAvg - DefaultBaseline.TemperatureMean,
		PrecipitationPct: (p.PrecipitationTotal - DefaultBaseline.Precipitation) / DefaultBaseline.Precipitation * 100,
	}
	p.UncertaintyRange = UncertaintyRange{
		TemperatureLow:    p.TemperatureMeanAvg - params.TempUncertainty,
		TemperatureHigh:   p.TemperatureMeanAvg + params.TempUncertainty,
		PrecipitationLow:  p.PrecipitationTotal * (1 - params.PrecipUncPct/100),
		PrecipitationHigh: p.PrecipitationTotal * (1 + params.PrecipUncPct/100),
	}
}

// syntheticProjection builds the full fallback set by extrapolating every
// period, tagged so callers can tell it apart from model data.
func (s *ProjectionService) syntheticProjection(loc Location, scenario Scenario, params scenarioParams) ProjectionResponse {
	periods := make([]ProjectionPeriod, 0, len(projectionPeriods))
	for _, def := range projectionPeriods {
		periods = append(periods, extrapolatePeriod(def.Label, def.StartYear, def.EndYear, params))
	}
	return ProjectionResponse{
		Location: loc,
		Scenario: scenario,
		Model:    params.Model,
		Source:   SourceSynthetic,
		Baseline: DefaultBaseline,
		Periods:  periods,
	}
}

func (s *ProjectionService) lookup(key string) (any, bool) {
	v, ok := s.cache.Get(key)
	if ok {
		s.metrics.CacheLookups.WithLabelValues("hit").Inc()
	} else {
		s.metrics.CacheLookups.WithLabelValues("miss").Inc()
	}
	return v, ok
}
