package maps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	gmaps "googlemaps.github.io/maps"

	"PollingNav-App/internal/domain/model"
)

// GoogleDirectionsProvider はGoogle Maps Directions APIを使用した経路検索の実装
type GoogleDirectionsProvider struct {
	client   *gmaps.Client
	language string
}

// NewGoogleDirectionsProvider は新しいプロバイダを生成する
func NewGoogleDirectionsProvider(apiKey string, opts ...gmaps.ClientOption) (*GoogleDirectionsProvider, error) {
	if apiKey == "" {
		return nil, errors.New("GOOGLE_MAPS_API_KEYが設定されていません")
	}
	options := append([]gmaps.ClientOption{gmaps.WithAPIKey(apiKey)}, opts...)
	client, err := gmaps.NewClient(options...)
	if err != nil {
		return nil, fmt.Errorf("Google Mapsクライアントの初期化に失敗: %w", err)
	}
	return &GoogleDirectionsProvider{client: client, language: "en"}, nil
}

// Name はプロバイダ名を返す
func (g *GoogleDirectionsProvider) Name() string {
	return "google"
}

// GetRoute はGoogle Maps Directions APIを呼び出してルート情報を取得する
func (g *GoogleDirectionsProvider) GetRoute(ctx context.Context, origin, destination model.LatLng, mode model.TravelMode) (*model.RouteLeg, error) {
	req := &gmaps.DirectionsRequest{
		Origin:      formatLatLng(origin),
		Destination: formatLatLng(destination),
		Mode:        toGoogleMode(mode),
		Language:    g.language,
	}

	routes, _, err := g.client.Directions(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return nil, errors.New("APIから有効なルートが返されませんでした")
	}

	// 経由地は指定しないため最初のルートの区間を合算する
	first := routes[0]
	leg := &model.RouteLeg{Geometry: first.OverviewPolyline.Points}
	for _, l := range first.Legs {
		leg.DistanceMeters += float64(l.Distance.Meters)
		leg.DurationSeconds += l.Duration.Seconds()
		for _, s := range l.Steps {
			// クライアントのStepは maneuver を持たないため案内文から推定する
			instruction := stripHTML(s.HTMLInstructions)
			maneuverType, modifier := maneuverFromInstruction(instruction)
			leg.Steps = append(leg.Steps, model.RouteStep{
				DistanceMeters:  float64(s.Distance.Meters),
				DurationSeconds: s.Duration.Seconds(),
				Maneuver: model.Maneuver{
					Type:        maneuverType,
					Modifier:    modifier,
					Instruction: instruction,
					Location:    [2]float64{s.StartLocation.Lng, s.StartLocation.Lat},
				},
			})
		}
	}
	leg.AccumulateDistances()
	return leg, nil
}

func formatLatLng(p model.LatLng) string {
	return fmt.Sprintf("%f,%f", p.Lat, p.Lng)
}

func toGoogleMode(mode model.TravelMode) gmaps.Mode {
	if mode == model.TravelModeDriving {
		return gmaps.TravelModeDriving
	}
	return gmaps.TravelModeWalking
}

// maneuverFromInstruction は案内文の書き出しから操作の種別と修飾子を推定する
// 種別と修飾子はOSRMの語彙に揃える
func maneuverFromInstruction(instruction string) (string, string) {
	words := strings.Fields(strings.ToLower(instruction))
	if len(words) == 0 {
		return "continue", ""
	}

	switch words[0] {
	case "head":
		return "depart", ""
	case "turn":
		return "turn", sideOf(words[1:])
	case "slight", "sharp":
		if side := sideOf(words[1:2]); side != "" {
			return "turn", words[0] + " " + side
		}
	case "keep":
		return "fork", sideOf(words[1:])
	case "make":
		for _, w := range words[1:] {
			if strings.HasPrefix(w, "u-turn") {
				return "turn", "uturn"
			}
		}
	case "enter":
		return "roundabout", ""
	case "merge":
		return "merge", sideOf(words[1:])
	}
	return "continue", ""
}

// sideOf は最初に現れる left/right を返す
func sideOf(words []string) string {
	for _, w := range words {
		switch strings.Trim(w, ".,;:") {
		case "left":
			return "left"
		case "right":
			return "right"
		}
	}
	return ""
}

// blockTags の前後は単語の区切りとして扱う
var blockTags = map[string]bool{"div": true, "br": true, "p": true, "li": true}

// stripHTML はHTML形式の案内文からタグを取り除き、文字参照を展開する
func stripHTML(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var sb strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(sb.String()), " ")
		case html.TextToken:
			sb.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); blockTags[string(name)] {
				sb.WriteByte(' ')
			}
		}
	}
}
