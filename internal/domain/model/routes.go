package model

import "time"

// Maneuver は経路ステップの操作情報
type Maneuver struct {
	Type        string     `json:"type" firestore:"type"`
	Modifier    string     `json:"modifier,omitempty" firestore:"modifier"`
	Instruction string     `json:"instruction,omitempty" firestore:"instruction"`
	Location    [2]float64 `json:"location" firestore:"location"` // [longitude, latitude]
}

// RouteStep はルートの1ステップ
type RouteStep struct {
	DistanceMeters           float64  `json:"distance_meters" firestore:"distance_meters"`
	DurationSeconds          float64  `json:"duration_seconds" firestore:"duration_seconds"`
	CumulativeDistanceMeters float64  `json:"cumulative_distance_meters" firestore:"cumulative_distance_meters"`
	Maneuver                 Maneuver `json:"maneuver" firestore:"maneuver"`
}

// RouteLeg は経路プロバイダから返される1区間のルート
type RouteLeg struct {
	DistanceMeters  float64     `json:"distance_meters"`
	DurationSeconds float64     `json:"duration_seconds"`
	Geometry        string      `json:"geometry"` // エンコード済みポリライン（精度1e-5）
	Steps           []RouteStep `json:"steps"`
}

// AccumulateDistances は各ステップの累積距離を埋める
func (l *RouteLeg) AccumulateDistances() {
	var total float64
	for i := range l.Steps {
		total += l.Steps[i].DistanceMeters
		l.Steps[i].CumulativeDistanceMeters = total
	}
}

// HasDuration はプロバイダの距離・時間が揃っているかを判定する
func (l *RouteLeg) HasDuration() bool {
	return l != nil && l.DistanceMeters > 0 && l.DurationSeconds > 0
}

// TravelEstimate は利用者に提示する距離・所要時間の見積もり
type TravelEstimate struct {
	DistanceMeters float64 `json:"distance_meters"`
	TimeMinutes    int     `json:"time_minutes"` // 1以上
	IsRouteBased   bool    `json:"is_route_based"`
	IsStraightLine bool    `json:"is_straight_line"` // 常に !IsRouteBased
	DistanceText   string  `json:"distance_text"`
	TimeText       string  `json:"time_text"`
}

// Direction は案内ステップの進行方向
type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionLeft     Direction = "left"
	DirectionRight    Direction = "right"
	DirectionStraight Direction = "straight"
)

// NavigationStep はランドマーク基準の案内ステップ
type NavigationStep struct {
	Instruction    string    `json:"instruction"`
	Landmark       string    `json:"landmark,omitempty"`
	DistanceMeters float64   `json:"distance_meters"`
	Direction      Direction `json:"direction,omitempty"`
}

// RoutePlan は目的地までの案内に必要な計算結果一式
type RoutePlan struct {
	Origin      LatLng           `json:"origin"`
	Destination LatLng           `json:"destination"`
	Mode        TravelMode       `json:"mode"`
	Language    LanguageCode     `json:"language"`
	Estimate    TravelEstimate   `json:"estimate"`
	Steps       []NavigationStep `json:"steps"`
	Landmarks   []Landmark       `json:"landmarks"`
	Path        []LatLng         `json:"-"`
	Polyline    string           `json:"route_polyline,omitempty"`
	TotalMeters float64          `json:"total_distance_meters"`
}

// CachedRoute はFirestoreにキャッシュするルート
type CachedRoute struct {
	DistanceMeters  float64     `firestore:"distance_meters"`
	DurationSeconds float64     `firestore:"duration_seconds"`
	Geometry        string      `firestore:"geometry"`
	Steps           []RouteStep `firestore:"steps"`
	Provider        string      `firestore:"provider"`
	ExpireAt        time.Time   `firestore:"expireAt"`
}

// ToCachedRoute は RouteLeg をキャッシュ用の構造体に変換する
func (l *RouteLeg) ToCachedRoute(provider string, ttlHours int) *CachedRoute {
	return &CachedRoute{
		DistanceMeters:  l.DistanceMeters,
		DurationSeconds: l.DurationSeconds,
		Geometry:        l.Geometry,
		Steps:           l.Steps,
		Provider:        provider,
		ExpireAt:        time.Now().Add(time.Duration(ttlHours) * time.Hour),
	}
}

// ToRouteLeg はキャッシュから RouteLeg を復元する
func (c *CachedRoute) ToRouteLeg() *RouteLeg {
	return &RouteLeg{
		DistanceMeters:  c.DistanceMeters,
		DurationSeconds: c.DurationSeconds,
		Geometry:        c.Geometry,
		Steps:           c.Steps,
	}
}

// IsExpired はキャッシュの有効期限切れを判定する
func (c *CachedRoute) IsExpired(now time.Time) bool {
	return !c.ExpireAt.IsZero() && now.After(c.ExpireAt)
}
