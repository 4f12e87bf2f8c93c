package model

// LatLng 緯度経度を表す基本的な型（経路検索や距離計算で使用）
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LngLat は外部プロバイダの [lng, lat] 形式に変換する
func (l LatLng) LngLat() [2]float64 {
	return [2]float64{l.Lng, l.Lat}
}

// Geometry PostGIS GEOMETRY型に対応する構造体
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [longitude, latitude]
}

// ToLatLng Geometry を LatLng に変換する（座標が無い場合はゼロ値）
func (g *Geometry) ToLatLng() LatLng {
	if g != nil && len(g.Coordinates) >= 2 {
		return LatLng{Lat: g.Coordinates[1], Lng: g.Coordinates[0]}
	}
	return LatLng{}
}

type Location struct {
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
}

// ToLatLng Location を LatLng に変換
func (l *Location) ToLatLng() LatLng {
	return LatLng{Lat: l.Latitude, Lng: l.Longitude}
}

// ToGeometry Location を PostGIS GEOMETRY 型に変換
func (l *Location) ToGeometry() *Geometry {
	return &Geometry{
		Type:        "Point",
		Coordinates: []float64{l.Longitude, l.Latitude},
	}
}

// LandmarkPOI 外部のPOI検索が返すランドマーク情報（ルート上の距離は未計算）
type LandmarkPOI struct {
	ID        string  `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
	Category  string  `json:"category" db:"category"`
}

// ToLatLng ランドマークの位置をLatLng型に変換
func (p *LandmarkPOI) ToLatLng() LatLng {
	return LatLng{Lat: p.Latitude, Lng: p.Longitude}
}

// Landmark ルート上の距離が確定したランドマーク
type Landmark struct {
	Name               string           `json:"name"`
	Category           LandmarkCategory `json:"category"`
	DistanceAlongRoute float64          `json:"distance_along_route"` // ルート始点からの距離（m, 0以上）
}
