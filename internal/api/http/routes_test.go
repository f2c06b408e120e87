package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/AdiKsOnDev/climatetime-sub000/internal/cache"
	"github.com/AdiKsOnDev/climatetime-sub000/internal/climate"
	"github.com/AdiKsOnDev/climatetime-sub000/internal/observability"
)

func newTestApp() *fiber.App {
	app := fiber.New()

	c := cache.New()
	metrics := observability.NewMetricsForTesting()
	log := zap.NewNop().Sugar()

	// Validation failures must reject before the core runs, so the
	// services never reach their upstream clients in these tests.
	history := climate.NewHistoryService(nil, nil, c, metrics, log, time.Hour)
	projections := climate.NewProjectionService(nil, c, metrics, log, time.Hour)
	RegisterRoutes(app, history, projections)
	return app
}

// expectStatus issues a GET and checks the response code.
func expectStatus(t *testing.T, app *fiber.App, url string, want int) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != want {
		t.Fatalf("%s: expected status %d, got %d", url, want, resp.StatusCode)
	}
}

func TestYearlyValidation(t *testing.T) {
	app := newTestApp()

	// Missing coordinates.
	expectStatus(t, app, "/api/v1/climate/history/yearly?years=2000", http.StatusBadRequest)

	// Out-of-range coordinates.
	expectStatus(t, app, "/api/v1/climate/history/yearly?lat=91&lon=0&years=2000", http.StatusBadRequest)
	expectStatus(t, app, "/api/v1/climate/history/yearly?lat=0&lon=-181&years=2000", http.StatusBadRequest)

	// Missing, malformed, out-of-range and oversized year lists.
	expectStatus(t, app, "/api/v1/climate/history/yearly?lat=40&lon=-74", http.StatusBadRequest)
	expectStatus(t, app, "/api/v1/climate/history/yearly?lat=40&lon=-74&years=abc", http.StatusBadRequest)
	expectStatus(t, app, "/api/v1/climate/history/yearly?lat=40&lon=-74&years=1939", http.StatusBadRequest)
	expectStatus(t, app, "/api/v1/climate/history/yearly?lat=40&lon=-74&years=2000,2001,2002,2003,2004,2005,2006,2007,2008,2009,2010",
		http.StatusBadRequest)
}

func TestDecadalValidation(t *testing.T) {
	app := newTestApp()

	// Not multiples of ten.
	expectStatus(t, app, "/api/v1/climate/history/decadal?lat=40&lon=-74&startDecade=1995&endDecade=2000", http.StatusBadRequest)

	// Reversed range.
	expectStatus(t, app, "/api/v1/climate/history/decadal?lat=40&lon=-74&startDecade=2000&endDecade=1990", http.StatusBadRequest)

	// Before archive coverage.
	expectStatus(t, app, "/api/v1/climate/history/decadal?lat=40&lon=-74&startDecade=1930&endDecade=1950", http.StatusBadRequest)

	// Missing parameters.
	expectStatus(t, app, "/api/v1/climate/history/decadal?lat=40&lon=-74&startDecade=1990", http.StatusBadRequest)
}

func TestTrendsValidation(t *testing.T) {
	app := newTestApp()

	// Span below the ten-year significance floor.
	expectStatus(t, app, "/api/v1/climate/trends?lat=40&lon=-74&startYear=2000&endYear=2005", http.StatusBadRequest)

	// Span above the fifty-year cap.
	expectStatus(t, app, "/api/v1/climate/trends?lat=40&lon=-74&startYear=1940&endYear=2010", http.StatusBadRequest)

	// Outside archive coverage.
	expectStatus(t, app, "/api/v1/climate/trends?lat=40&lon=-74&startYear=1920&endYear=1980", http.StatusBadRequest)
}

func TestProjectionScenarioValidation(t *testing.T) {
	app := newTestApp()

	expectStatus(t, app, "/api/v1/climate/projections?lat=40&lon=-74&scenario=catastrophic", http.StatusBadRequest)
	expectStatus(t, app, "/api/v1/climate/projections?lat=200&lon=-74&scenario=moderate", http.StatusBadRequest)
	expectStatus(t, app, "/api/v1/climate/projections/compare?lat=40&lon=abc", http.StatusBadRequest)
}
