package repository

import (
	"database/sql"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeoPointToLocation(t *testing.T) {
	loc := GeoPointToLocation(&GeoPoint{Type: "Point", Coordinates: []float64{3.88, 7.36}})
	require.NotNil(t, loc)
	assert.Equal(t, 7.36, loc.Latitude)
	assert.Equal(t, 3.88, loc.Longitude)

	assert.Nil(t, GeoPointToLocation(nil))
	assert.Nil(t, GeoPointToLocation(&GeoPoint{Type: "Point"}))
}

func TestEnvelope(t *testing.T) {
	minLng, minLat, maxLng, maxLat := envelope(orb.Bound{Min: orb.Point{3.1, 6.4}, Max: orb.Point{3.5, 6.6}})
	assert.Equal(t, []float64{3.1, 6.4, 3.5, 6.6}, []float64{minLng, minLat, maxLng, maxLat})
}

func TestPollingUnitResult_ToPollingUnit(t *testing.T) {
	t.Run("GeoJSONの位置を変換する", func(t *testing.T) {
		result := pollingUnitResult{
			ID:       "pu-1",
			Code:     "08-001",
			Name:     "Oke Ado Primary School",
			WardName: sql.NullString{String: "Oke Ado", Valid: true},
			Location: `{"type":"Point","coordinates":[3.88,7.365]}`,
		}
		unit, err := result.toPollingUnit()
		require.NoError(t, err)

		assert.Equal(t, "Oke Ado", unit.WardName)
		assert.Empty(t, unit.LGA)
		require.True(t, unit.HasLocation())
		assert.Equal(t, 7.365, unit.ToLatLng().Lat)
	})

	t.Run("不正なGeoJSONはエラー", func(t *testing.T) {
		result := pollingUnitResult{ID: "pu-1", Location: "POINT(3.88 7.365)"}
		_, err := result.toPollingUnit()
		assert.Error(t, err)
	})
}
