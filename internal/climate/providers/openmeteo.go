package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/AdiKsOnDev/climatetime-sub000/internal/climate"
	"github.com/AdiKsOnDev/climatetime-sub000/internal/observability"
)

const (
	// DefaultArchiveBaseURL is the Open-Meteo era5 daily-history endpoint.
	DefaultArchiveBaseURL = "https://archive-api.open-meteo.com/v1/archive"
	// DefaultClimateBaseURL is the Open-Meteo climate-model endpoint.
	DefaultClimateBaseURL = "https://climate-api.open-meteo.com/v1/climate"
)

const dateLayout = "2006-01-02"

// ErrMissingSeries is returned when the upstream payload lacks the expected
// daily series. It is handled like any other fetch failure: the affected
// year or period is skipped.
var ErrMissingSeries = errors.New("upstream payload missing daily series")

// dailyMetrics is the metric list requested from both endpoints. Humidity,
// wind and pressure are best-effort; the model endpoint does not return all
// of them for every model.
var dailyMetrics = []string{
	"temperature_2m_max",
	"temperature_2m_min",
	"temperature_2m_mean",
	"precipitation_sum",
	"relative_humidity_2m_mean",
	"wind_speed_10m_max",
	"surface_pressure_mean",
}

// dailyPayload mirrors Open-Meteo's parallel-array daily response. Metric
// slices hold nil for days without a valid sample.
type dailyPayload struct {
	Daily struct {
		Time            []string   `json:"time"`
		TemperatureMax  []*float64 `json:"temperature_2m_max"`
		TemperatureMin  []*float64 `json:"temperature_2m_min"`
		TemperatureMean []*float64 `json:"temperature_2m_mean"`
		Precipitation   []*float64 `json:"precipitation_sum"`
		Humidity        []*float64 `json:"relative_humidity_2m_mean"`
		WindSpeed       []*float64 `json:"wind_speed_10m_max"`
		Pressure        []*float64 `json:"surface_pressure_mean"`
	} `json:"daily"`
}

// decodeDailyRecords turns the parallel arrays into per-day records. The
// time series is authoritative; metric slices shorter than it yield nil for
// the missing tail.
func decodeDailyRecords(resp *http.Response) ([]climate.DailyRecord, error) {
	var payload dailyPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	if len(payload.Daily.Time) == 0 {
		return nil, ErrMissingSeries
	}

	at := func(s []*float64, i int) *float64 {
		if i < len(s) {
			return s[i]
		}
		return nil
	}

	records := make([]climate.DailyRecord, 0, len(payload.Daily.Time))
	for i, ts := range payload.Daily.Time {
		date, err := time.Parse(dateLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q in daily series: %w", ts, err)
		}
		records = append(records, climate.DailyRecord{
			Date:            date.UTC(),
			TemperatureMax:  at(payload.Daily.TemperatureMax, i),
			TemperatureMin:  at(payload.Daily.TemperatureMin, i),
			TemperatureMean: at(payload.Daily.TemperatureMean, i),
			Precipitation:   at(payload.Daily.Precipitation, i),
			Humidity:        at(payload.Daily.Humidity, i),
			WindSpeed:       at(payload.Daily.WindSpeed, i),
			Pressure:        at(payload.Daily.Pressure, i),
		})
	}
	return records, nil
}

func baseQuery(loc climate.Location, start, end time.Time) url.Values {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", loc.Latitude))
	values.Set("longitude", fmt.Sprintf("%f", loc.Longitude))
	values.Set("start_date", start.Format(dateLayout))
	values.Set("end_date", end.Format(dateLayout))
	values.Set("daily", strings.Join(dailyMetrics, ","))
	values.Set("timezone", "UTC")
	return values
}

// ArchiveProvider implements climate.ArchiveClient against Open-Meteo's
// archive endpoint.
type ArchiveProvider struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	metrics *observability.Metrics
}

// NewArchiveProvider creates an archive client. The archive is quota-bound,
// so no retries are configured; pacing between calls is the caller's job.
func NewArchiveProvider(client *http.Client, baseURL string, metrics *observability.Metrics) *ArchiveProvider {
	if baseURL == "" {
		baseURL = DefaultArchiveBaseURL
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo-archive",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &ArchiveProvider{
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: BackoffConfig{MaxRetries: 0, InitialInterval: 500 * time.Millisecond},
		},
		circuit: cb,
		metrics: metrics,
	}
}

// FetchDaily retrieves observed daily records for the given date range.
func (p *ArchiveProvider) FetchDaily(ctx context.Context, loc climate.Location, start, end time.Time) ([]climate.DailyRecord, error) {
	return p.fetch(ctx, "archive", func() (*http.Request, error) {
		u := fmt.Sprintf("%s?%s", p.baseURL, baseQuery(loc, start, end).Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	})
}

func (p *ArchiveProvider) fetch(ctx context.Context, endpoint string, buildRequest func() (*http.Request, error)) ([]climate.DailyRecord, error) {
	started := time.Now()
	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	p.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
	if err != nil {
		p.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, err
	}
	defer resp.Body.Close()

	records, err := decodeDailyRecords(resp)
	if err != nil {
		p.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, err
	}
	p.metrics.UpstreamRequests.WithLabelValues(endpoint, "success").Inc()
	return records, nil
}

// ClimateModelProvider implements climate.ModelClient against Open-Meteo's
// climate endpoint.
type ClimateModelProvider struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	metrics *observability.Metrics
}

// NewClimateModelProvider creates a climate-model client with a small retry
// budget; model queries are not quota-bound the way the archive is.
func NewClimateModelProvider(client *http.Client, baseURL string, metrics *observability.Metrics) *ClimateModelProvider {
	if baseURL == "" {
		baseURL = DefaultClimateBaseURL
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo-climate",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &ClimateModelProvider{
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      2,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
		metrics: metrics,
	}
}

// FetchProjected retrieves model-simulated daily records for the given date
// range under the named model.
func (p *ClimateModelProvider) FetchProjected(ctx context.Context, loc climate.Location, start, end time.Time, model string) ([]climate.DailyRecord, error) {
	started := time.Now()
	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, func() (*http.Request, error) {
		values := baseQuery(loc, start, end)
		values.Set("models", model)
		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	})
	p.metrics.UpstreamDuration.WithLabelValues("model").Observe(time.Since(started).Seconds())
	if err != nil {
		p.metrics.UpstreamRequests.WithLabelValues("model", "error").Inc()
		return nil, err
	}
	defer resp.Body.Close()

	records, err := decodeDailyRecords(resp)
	if err != nil {
		p.metrics.UpstreamRequests.WithLabelValues("model", "error").Inc()
		return nil, err
	}
	p.metrics.UpstreamRequests.WithLabelValues("model", "success").Inc()
	return records, nil
}
