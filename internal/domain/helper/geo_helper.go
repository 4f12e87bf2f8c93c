package helper

import (
	"math"

	"github.com/paulmach/orb"

	"PollingNav-App/internal/domain/model"
)

// EarthRadiusMeters はハバーサイン距離で使用する地球半径
const EarthRadiusMeters = 6371000.0

// metersPerDegreeLat は緯度1度あたりの距離（概算）
const metersPerDegreeLat = 111320.0

// Distance は2地点間の大円距離を計算する (m)
func Distance(a, b model.LatLng) float64 {
	phi1 := a.Lat * math.Pi / 180
	phi2 := b.Lat * math.Pi / 180
	dPhi := (b.Lat - a.Lat) * math.Pi / 180
	dLambda := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMeters * c
}

// PathLength は座標列に沿った総距離を計算する (m)
func PathLength(points []model.LatLng) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1], points[i])
	}
	return total
}

// SamplePoints は座標列を intervalMeters 以上の間隔に間引く
// 先頭と末尾の点は必ず含まれる
func SamplePoints(points []model.LatLng, intervalMeters float64) []model.LatLng {
	if len(points) < 2 {
		return points
	}

	sampled := []model.LatLng{points[0]}
	var accumulated float64
	for i := 1; i < len(points); i++ {
		accumulated += Distance(points[i-1], points[i])
		if accumulated >= intervalMeters {
			sampled = append(sampled, points[i])
			accumulated = 0
		}
	}

	last := points[len(points)-1]
	if sampled[len(sampled)-1] != last {
		sampled = append(sampled, last)
	}
	return sampled
}

// DistanceAlongRoute は地点 p をルートの最寄り区間に射影し、始点からの累積距離を返す (m)
// 区間外への射影は区間の端点に丸める
func DistanceAlongRoute(route []model.LatLng, p model.LatLng) float64 {
	if len(route) < 2 {
		return 0
	}

	var best, travelled float64
	bestOffset := math.Inf(1)
	for i := 1; i < len(route); i++ {
		a, b := route[i-1], route[i]
		segment := Distance(a, b)
		t := projectOntoSegment(a, b, p)
		foot := model.LatLng{Lat: a.Lat + t*(b.Lat-a.Lat), Lng: a.Lng + t*(b.Lng-a.Lng)}
		if offset := Distance(foot, p); offset < bestOffset {
			bestOffset = offset
			best = travelled + t*segment
		}
		travelled += segment
	}
	return best
}

// projectOntoSegment は a→b 上で p に最も近い点の媒介変数 t (0〜1) を返す
// 区間の中点の緯度で経度を補正した平面近似を使う
func projectOntoSegment(a, b, p model.LatLng) float64 {
	cos := math.Cos((a.Lat + b.Lat) / 2 * math.Pi / 180)
	dx := (b.Lng - a.Lng) * cos
	dy := b.Lat - a.Lat
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return 0
	}
	t := ((p.Lng-a.Lng)*cos*dx + (p.Lat-a.Lat)*dy) / lengthSq
	return math.Max(0, math.Min(1, t))
}

// ToLineString は座標列を orb.LineString に変換する
func ToLineString(points []model.LatLng) orb.LineString {
	ls := make(orb.LineString, 0, len(points))
	for _, p := range points {
		ls = append(ls, orb.Point{p.Lng, p.Lat})
	}
	return ls
}

// RouteBound はルート全体を囲む境界ボックスを padMeters だけ広げて返す
func RouteBound(points []model.LatLng, padMeters float64) orb.Bound {
	if len(points) == 0 {
		return orb.Bound{}
	}
	bound := ToLineString(points).Bound()

	// 経度方向は緯度に応じて縮むため、中心緯度で補正する
	center := bound.Center()
	latPad := padMeters / metersPerDegreeLat
	lngPad := latPad
	if cos := math.Cos(center.Lat() * math.Pi / 180); cos > 1e-6 {
		lngPad = latPad / cos
	}

	return orb.Bound{
		Min: orb.Point{bound.Min.Lon() - lngPad, bound.Min.Lat() - latPad},
		Max: orb.Point{bound.Max.Lon() + lngPad, bound.Max.Lat() + latPad},
	}
}

// MetersToDegrees は距離を緯度方向の度数に換算する（概算）
func MetersToDegrees(meters float64) float64 {
	return meters / metersPerDegreeLat
}
