package helper

import (
	"context"
	"fmt"

	"PollingNav-App/internal/domain/model"
	"PollingNav-App/internal/domain/repository"
)

// POISearchHelper はルート沿いのランドマーク検索に関するヘルパー
type POISearchHelper struct {
	landmarkRepo   repository.LandmarksRepository
	sampleInterval float64
	searchRadius   float64
}

// NewPOISearchHelper は新しいPOISearchHelperインスタンスを作成する
func NewPOISearchHelper(repo repository.LandmarksRepository, sampleIntervalMeters, searchRadiusMeters float64) *POISearchHelper {
	return &POISearchHelper{
		landmarkRepo:   repo,
		sampleInterval: sampleIntervalMeters,
		searchRadius:   searchRadiusMeters,
	}
}

// FindLandmarksAlongRoute はルートを間引いた各地点の周辺からランドマークを探し、ルート上の距離を付与して返す
func (h *POISearchHelper) FindLandmarksAlongRoute(ctx context.Context, route []model.LatLng) ([]model.Landmark, error) {
	if h.landmarkRepo == nil || len(route) == 0 {
		return nil, nil
	}

	samples := SamplePoints(route, h.sampleInterval)
	pois, err := h.landmarkRepo.FindAlongRoute(ctx, samples, h.searchRadius)
	if err != nil {
		return nil, fmt.Errorf("ランドマーク検索に失敗: %w", err)
	}

	return ToLandmarks(route, DedupePOIs(pois)), nil
}
