package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdiKsOnDev/climatetime-sub000/internal/climate"
	"github.com/AdiKsOnDev/climatetime-sub000/internal/observability"
)

const archivePayload = `{
	"daily": {
		"time": ["2000-01-01", "2000-01-02", "2000-01-03"],
		"temperature_2m_max": [5.1, null, 7.3],
		"temperature_2m_min": [-2.0, 0.5, 1.1],
		"temperature_2m_mean": [1.5, 2.0, 4.2],
		"precipitation_sum": [0.0, 3.2, null],
		"relative_humidity_2m_mean": [80, 75, null],
		"wind_speed_10m_max": [12.0, 8.5, 9.9],
		"surface_pressure_mean": [1013.2, 1009.8, 1011.0]
	}
}`

func testDates(t *testing.T) (time.Time, time.Time) {
	t.Helper()
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2000, 12, 31, 0, 0, 0, 0, time.UTC)
	return start, end
}

func TestArchiveFetchDailyParsesParallelArrays(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(archivePayload))
	}))
	defer srv.Close()

	p := NewArchiveProvider(srv.Client(), srv.URL, observability.NewMetricsForTesting())
	start, end := testDates(t)

	records, err := p.FetchDaily(context.Background(), climate.Location{Latitude: 40, Longitude: -74}, start, end)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "2000-01-01", gotQuery["start_date"][0])
	assert.Equal(t, "2000-12-31", gotQuery["end_date"][0])
	assert.Equal(t, "UTC", gotQuery["timezone"][0])
	assert.Contains(t, gotQuery["daily"][0], "temperature_2m_mean")

	first := records[0]
	require.NotNil(t, first.TemperatureMax)
	assert.InDelta(t, 5.1, *first.TemperatureMax, 1e-9)
	require.NotNil(t, first.Humidity)
	assert.InDelta(t, 80.0, *first.Humidity, 1e-9)

	// Upstream nulls survive as nil so aggregation can filter them.
	assert.Nil(t, records[1].TemperatureMax)
	assert.Nil(t, records[2].Precipitation)
	assert.Nil(t, records[2].Humidity)
}

func TestArchiveFetchDailyMissingSeriesIsAnError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no daily object", `{"latitude": 40.0}`},
		{"empty time series", `{"daily": {"time": []}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewArchiveProvider(srv.Client(), srv.URL, observability.NewMetricsForTesting())
			start, end := testDates(t)

			_, err := p.FetchDaily(context.Background(), climate.Location{}, start, end)
			assert.ErrorIs(t, err, ErrMissingSeries)
		})
	}
}

func TestArchiveFetchDailyUpstreamErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	p := NewArchiveProvider(srv.Client(), srv.URL, observability.NewMetricsForTesting())
	start, end := testDates(t)

	_, err := p.FetchDaily(context.Background(), climate.Location{}, start, end)
	assert.Error(t, err)
}

func TestClimateModelFetchProjectedSendsModelParam(t *testing.T) {
	var gotModels string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotModels = r.URL.Query().Get("models")
		_, _ = w.Write([]byte(archivePayload))
	}))
	defer srv.Close()

	p := NewClimateModelProvider(srv.Client(), srv.URL, observability.NewMetricsForTesting())
	start, end := testDates(t)

	records, err := p.FetchProjected(context.Background(), climate.Location{}, start, end, "MRI_AGCM3_2_S")
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, "MRI_AGCM3_2_S", gotModels)
}
