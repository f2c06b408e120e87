package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AdiKsOnDev/climatetime-sub000/internal/cache"
)

func TestSweeperEvictsExpiredEntries(t *testing.T) {
	c := cache.New()
	c.Set("stale", 1, time.Nanosecond)
	c.Set("live", 2, time.Hour)

	s := New(c, 50*time.Millisecond, zap.NewNop().Sugar())
	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool {
		return c.Len() == 1
	}, 2*time.Second, 20*time.Millisecond, "sweep should drop the expired entry")
}

func TestSweeperStopIsIdempotent(t *testing.T) {
	s := New(cache.New(), time.Minute, zap.NewNop().Sugar())
	require.NoError(t, s.Start())
	s.Stop()
	s.Stop()
}
