package repository

import (
	"context"

	"PollingNav-App/internal/domain/model"
)

// LandmarksRepository はルート周辺のランドマーク検索の責務を持つリポジトリインターフェース
type LandmarksRepository interface {
	// FindAlongRoute はサンプリング済みのルート座標それぞれから半径 radiusMeters 以内のランドマークを返す
	FindAlongRoute(ctx context.Context, samples []model.LatLng, radiusMeters float64) ([]model.LandmarkPOI, error)
}
