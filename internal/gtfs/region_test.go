package gtfs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nextstop.transit.dev/gtfsdb"
	"nextstop.transit.dev/internal/appconf"
)

func TestManager_RegionBounds(t *testing.T) {
	manager := newSampleManager(t)

	region, ok, err := manager.RegionBounds(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 49.05, region.Lat, 1e-9)
	assert.InDelta(t, -123.05, region.Lon, 1e-9)
	assert.InDelta(t, 0.1, region.LatSpan, 1e-9)
	assert.InDelta(t, 0.1, region.LonSpan, 1e-9)
}

func TestManager_RegionBounds_Empty(t *testing.T) {
	client, err := gtfsdb.NewClient(gtfsdb.NewConfig(":memory:", appconf.Test, false))
	require.NoError(t, err)
	manager := NewManager(client, Config{})
	t.Cleanup(manager.Shutdown)

	_, ok, err := manager.RegionBounds(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}
