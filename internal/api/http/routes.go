package httpapi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/AdiKsOnDev/climatetime-sub000/internal/climate"
)

var validate = validator.New()

const (
	maxYearsPerCall = 10
	minTrendSpan    = 10
	maxTrendSpan    = 50
	maxDecadeSpan   = 40 // inclusive decade starts, i.e. at most 5 decades
)

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, history *climate.HistoryService, projections *climate.ProjectionService) {
	v1 := app.Group("/api/v1/climate")

	v1.Get("/history/yearly", func(c *fiber.Ctx) error {
		loc, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		years, err := parseYearsQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result, err := history.FetchYears(c.Context(), loc, years)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch yearly data")
		}

		retrieved := make([]int, 0, len(result.Summaries))
		for _, y := range result.Summaries {
			retrieved = append(retrieved, y.Year)
		}
		return c.JSON(fiber.Map{
			"location":       loc,
			"requestedYears": years,
			"retrievedYears": retrieved,
			"yearlyData":     result.Summaries,
			"skippedYears":   result.Skipped,
		})
	})

	v1.Get("/history/decadal", func(c *fiber.Ctx) error {
		var req decadalQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		report, err := history.DecadalData(c.Context(), req.Location, req.StartDecade, req.EndDecade)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch decadal data")
		}
		return c.JSON(report)
	})

	v1.Get("/trends", func(c *fiber.Ctx) error {
		var req trendQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		report, err := history.Trends(c.Context(), req.Location, req.StartYear, req.EndYear)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to compute trends")
		}
		return c.JSON(report)
	})

	v1.Get("/projections", func(c *fiber.Ctx) error {
		loc, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		scenario, err := climate.ParseScenario(c.Query("scenario", string(climate.ScenarioModerate)))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		resp, err := projections.Project(c.Context(), loc, scenario)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to compute projection")
		}
		return c.JSON(resp)
	})

	v1.Get("/projections/compare", func(c *fiber.Ctx) error {
		loc, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		set, err := projections.CompareScenarios(c.Context(), loc)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to compare scenarios")
		}
		return c.JSON(set)
	})
}

// locationQuery holds the coordinate query parameters.
type locationQuery struct {
	Lat float64 `validate:"min=-90,max=90"`
	Lon float64 `validate:"min=-180,max=180"`
}

func parseLocationQuery(c *fiber.Ctx) (climate.Location, error) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		return climate.Location{}, errors.New("lat and lon query parameters are required")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return climate.Location{}, fmt.Errorf("invalid lat: %q", latStr)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return climate.Location{}, fmt.Errorf("invalid lon: %q", lonStr)
	}

	if err := validate.Struct(locationQuery{Lat: lat, Lon: lon}); err != nil {
		return climate.Location{}, errors.New("coordinates out of range: lat must be in [-90,90], lon in [-180,180]")
	}
	return climate.Location{Latitude: lat, Longitude: lon}, nil
}

// parseYearsQuery parses the comma-separated years list: 1 to 10 distinct
// years, each inside the archive's coverage window.
func parseYearsQuery(c *fiber.Ctx) ([]int, error) {
	raw := c.Query("years")
	if raw == "" {
		return nil, errors.New("years query parameter is required (comma-separated list)")
	}

	lastComplete := time.Now().UTC().Year() - 1
	seen := make(map[int]bool)
	var years []int
	for _, part := range strings.Split(raw, ",") {
		year, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		if year < climate.MinArchiveYear || year > lastComplete {
			return nil, fmt.Errorf("year %d out of range [%d, %d]", year, climate.MinArchiveYear, lastComplete)
		}
		if seen[year] {
			continue
		}
		seen[year] = true
		years = append(years, year)
	}

	if len(years) == 0 {
		return nil, errors.New("at least one year is required")
	}
	if len(years) > maxYearsPerCall {
		return nil, fmt.Errorf("at most %d years per call", maxYearsPerCall)
	}
	return years, nil
}

// decadalQuery holds parameters for the decadal endpoint.
type decadalQuery struct {
	Location    climate.Location
	StartDecade int
	EndDecade   int
}

func (q *decadalQuery) bind(c *fiber.Ctx) error {
	loc, err := parseLocationQuery(c)
	if err != nil {
		return err
	}
	q.Location = loc

	if q.StartDecade, err = intQuery(c, "startDecade"); err != nil {
		return err
	}
	if q.EndDecade, err = intQuery(c, "endDecade"); err != nil {
		return err
	}

	if q.StartDecade%10 != 0 || q.EndDecade%10 != 0 {
		return errors.New("startDecade and endDecade must be multiples of 10")
	}
	if q.StartDecade < climate.MinArchiveYear {
		return fmt.Errorf("startDecade must be %d or later", climate.MinArchiveYear)
	}
	if q.EndDecade < q.StartDecade {
		return errors.New("endDecade must not precede startDecade")
	}
	if q.EndDecade-q.StartDecade > maxDecadeSpan {
		return fmt.Errorf("at most %d decades per call", maxDecadeSpan/10+1)
	}
	return nil
}

// trendQuery holds parameters for the trends endpoint.
type trendQuery struct {
	Location  climate.Location
	StartYear int
	EndYear   int
}

func (q *trendQuery) bind(c *fiber.Ctx) error {
	loc, err := parseLocationQuery(c)
	if err != nil {
		return err
	}
	q.Location = loc

	if q.StartYear, err = intQuery(c, "startYear"); err != nil {
		return err
	}
	if q.EndYear, err = intQuery(c, "endYear"); err != nil {
		return err
	}

	lastComplete := time.Now().UTC().Year() - 1
	if q.StartYear < climate.MinArchiveYear || q.EndYear > lastComplete {
		return fmt.Errorf("years must be in [%d, %d]", climate.MinArchiveYear, lastComplete)
	}
	span := q.EndYear - q.StartYear
	if span < minTrendSpan {
		return fmt.Errorf("trend analysis needs a span of at least %d years", minTrendSpan)
	}
	if span > maxTrendSpan {
		return fmt.Errorf("trend span is limited to %d years", maxTrendSpan)
	}
	return nil
}

func intQuery(c *fiber.Ctx, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, fmt.Errorf("%s query parameter is required", name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return n, nil
}
