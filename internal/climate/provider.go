package climate

import (
	"context"
	"time"
)

// ArchiveClient fetches observed daily weather history for a bounded date
// range (e.g. the Open-Meteo era5 archive).
type ArchiveClient interface {
	FetchDaily(ctx context.Context, loc Location, start, end time.Time) ([]DailyRecord, error)
}

// ModelClient fetches model-simulated daily weather for a bounded date range
// under a named climate model.
type ModelClient interface {
	FetchProjected(ctx context.Context, loc Location, start, end time.Time, model string) ([]DailyRecord, error)
}

// Pacer hands out permits for upstream calls. Wait blocks until the next
// permit is due or the context is cancelled.
type Pacer interface {
	Wait(ctx context.Context) error
}
