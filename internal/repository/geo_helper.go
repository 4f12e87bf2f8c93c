package repository

import (
	"github.com/paulmach/orb"

	"PollingNav-App/internal/domain/model"
)

// GeoPoint PostGIS POINT 型の JSON 表現
type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// GeoPointToLocation PostGIS POINT を model.Location に変換
func GeoPointToLocation(geoPoint *GeoPoint) *model.Location {
	if geoPoint == nil || len(geoPoint.Coordinates) < 2 {
		return nil
	}

	point := orb.Point{geoPoint.Coordinates[0], geoPoint.Coordinates[1]}

	return &model.Location{
		Latitude:  point.Lat(),
		Longitude: point.Lon(),
	}
}

// envelope は ST_MakeEnvelope に渡す (minLng, minLat, maxLng, maxLat) を返す
func envelope(bound orb.Bound) (float64, float64, float64, float64) {
	return bound.Min.Lon(), bound.Min.Lat(), bound.Max.Lon(), bound.Max.Lat()
}
