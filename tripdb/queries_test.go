package tripdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeflow.bluebikes.org/internal/models"
)

func TestTripsForStation(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	trips := []models.Trip{
		{RideID: "early", StartStationID: "A32000", EndStationID: "B32001", StartedAt: at(t, 7, 0), EndedAt: at(t, 7, 15)},
		{RideID: "edge", StartStationID: "B32001", EndStationID: "A32000", StartedAt: at(t, 10, 0), EndedAt: at(t, 10, 30)},
		{RideID: "late", StartStationID: "A32000", EndStationID: "C32002", StartedAt: at(t, 18, 0), EndedAt: at(t, 18, 5)},
		{RideID: "elsewhere", StartStationID: "B32001", EndStationID: "C32002", StartedAt: at(t, 9, 0), EndedAt: at(t, 9, 5)},
	}
	require.NoError(t, client.ReplaceDataset(ctx, nil, trips))

	t.Run("no filter returns every trip touching the station", func(t *testing.T) {
		got, more, err := client.TripsForStation(ctx, "A32000", models.NoFilter, 10)
		require.NoError(t, err)
		assert.False(t, more)
		require.Len(t, got, 3)
		assert.Equal(t, "early", got[0].RideID)
		assert.Equal(t, "late", got[2].RideID)
		assert.True(t, got[0].StartedAt.Equal(at(t, 7, 0)))
		assert.Equal(t, "America/New_York", got[0].StartedAt.Location().String())
	})

	t.Run("window is sixty minutes inclusive", func(t *testing.T) {
		got, _, err := client.TripsForStation(ctx, "A32000", models.TimeFilter(9*60+30), 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "edge", got[0].RideID)

		// "early" ends at 7:15.
		got, _, err = client.TripsForStation(ctx, "A32000", models.TimeFilter(8*60+15), 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "early", got[0].RideID)

		got, _, err = client.TripsForStation(ctx, "A32000", models.TimeFilter(8*60+16), 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("limit reports more results", func(t *testing.T) {
		got, more, err := client.TripsForStation(ctx, "A32000", models.NoFilter, 2)
		require.NoError(t, err)
		assert.True(t, more)
		assert.Len(t, got, 2)
	})

	t.Run("unknown station has no trips", func(t *testing.T) {
		got, more, err := client.TripsForStation(ctx, "Z99999", models.NoFilter, 10)
		require.NoError(t, err)
		assert.False(t, more)
		assert.Empty(t, got)
	})
}
