package helper

import (
	"sort"

	"PollingNav-App/internal/domain/model"
)

// DedupePOIs はIDが重複するランドマークを除外する（先に現れたものを優先）
func DedupePOIs(pois []model.LandmarkPOI) []model.LandmarkPOI {
	seen := make(map[string]struct{}, len(pois))
	var result []model.LandmarkPOI
	for _, p := range pois {
		key := p.ID
		if key == "" {
			key = p.Name
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, p)
	}
	return result
}

// ToLandmarks はPOIをルート上の距離付きランドマークに変換し、距離順に並べる
func ToLandmarks(route []model.LatLng, pois []model.LandmarkPOI) []model.Landmark {
	landmarks := make([]model.Landmark, 0, len(pois))
	for _, p := range pois {
		if p.Name == "" {
			continue
		}
		landmarks = append(landmarks, model.Landmark{
			Name:               p.Name,
			Category:           model.ParseLandmarkCategory(p.Category),
			DistanceAlongRoute: DistanceAlongRoute(route, p.ToLatLng()),
		})
	}
	SortLandmarksByDistance(landmarks)
	return landmarks
}

// SortLandmarksByDistance はルート上の距離が近い順にソートする
func SortLandmarksByDistance(landmarks []model.Landmark) {
	sort.SliceStable(landmarks, func(i, j int) bool {
		return landmarks[i].DistanceAlongRoute < landmarks[j].DistanceAlongRoute
	})
}
