package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"PollingNav-App/internal/domain/model"
)

// OSRMDirectionsProvider はOSRM互換のルーティングAPIを使用した経路検索の実装
type OSRMDirectionsProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewOSRMDirectionsProvider は新しいプロバイダを生成する
func NewOSRMDirectionsProvider(baseURL string) *OSRMDirectionsProvider {
	return &OSRMDirectionsProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Name はプロバイダ名を返す
func (o *OSRMDirectionsProvider) Name() string {
	return "osrm"
}

// GetRoute はOSRMのrouteサービスを呼び出してルート情報を取得する
func (o *OSRMDirectionsProvider) GetRoute(ctx context.Context, origin, destination model.LatLng, mode model.TravelMode) (*model.RouteLeg, error) {
	// 1. APIリクエストURLを構築
	reqURL := o.buildURL(origin, destination, mode)

	// 2. HTTPリクエストを作成・実行
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("APIからエラーステータスが返されました: %s", resp.Status)
	}

	// 3. JSONレスポンスをパース
	var apiResp osrmRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
	}
	if apiResp.Code != "Ok" || len(apiResp.Routes) == 0 {
		return nil, fmt.Errorf("APIから有効なルートが返されませんでした: %s %s", apiResp.Code, apiResp.Message)
	}

	// 4. ドメインモデルに変換して返す
	first := apiResp.Routes[0]
	if first.Geometry == "" {
		return nil, errors.New("ルートのジオメトリが空です")
	}
	leg := &model.RouteLeg{
		DistanceMeters:  first.Distance,
		DurationSeconds: first.Duration,
		Geometry:        first.Geometry,
	}
	for _, l := range first.Legs {
		for _, s := range l.Steps {
			instruction := s.Maneuver.Instruction
			if instruction == "" {
				instruction = describeManeuver(s.Maneuver.Type, s.Maneuver.Modifier, s.Name)
			}
			leg.Steps = append(leg.Steps, model.RouteStep{
				DistanceMeters:  s.Distance,
				DurationSeconds: s.Duration,
				Maneuver: model.Maneuver{
					Type:        s.Maneuver.Type,
					Modifier:    s.Maneuver.Modifier,
					Instruction: instruction,
					Location:    s.Maneuver.Location,
				},
			})
		}
	}
	leg.AccumulateDistances()
	return leg, nil
}

func (o *OSRMDirectionsProvider) buildURL(origin, destination model.LatLng, mode model.TravelMode) string {
	profile := "foot"
	if mode == model.TravelModeDriving {
		profile = "driving"
	}
	from, to := origin.LngLat(), destination.LngLat()
	coords := fmt.Sprintf("%f,%f;%f,%f", from[0], from[1], to[0], to[1])

	params := url.Values{}
	params.Set("overview", "full")
	params.Set("geometries", "polyline")
	params.Set("steps", "true")

	return fmt.Sprintf("%s/route/v1/%s/%s?%s", o.baseURL, profile, coords, params.Encode())
}

// describeManeuver は案内文が無いステップ用の簡易的な説明を作る
func describeManeuver(maneuverType, modifier, name string) string {
	parts := []string{maneuverType}
	if modifier != "" {
		parts = append(parts, modifier)
	}
	desc := strings.Join(parts, " ")
	if name != "" {
		desc += " onto " + name
	}
	return desc
}

// --- OSRM APIのレスポンスをパースするための構造体 ---

type osrmRouteResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message,omitempty"`
	Routes  []osrmRoute `json:"routes"`
}
type osrmRoute struct {
	Distance float64   `json:"distance"` // meters
	Duration float64   `json:"duration"` // seconds
	Geometry string    `json:"geometry"`
	Legs     []osrmLeg `json:"legs"`
}
type osrmLeg struct {
	Steps []osrmStep `json:"steps"`
}
type osrmStep struct {
	Distance float64      `json:"distance"`
	Duration float64      `json:"duration"`
	Name     string       `json:"name"`
	Maneuver osrmManeuver `json:"maneuver"`
}
type osrmManeuver struct {
	Type        string     `json:"type"`
	Modifier    string     `json:"modifier"`
	Instruction string     `json:"instruction"`
	Location    [2]float64 `json:"location"` // [lng, lat]
}
