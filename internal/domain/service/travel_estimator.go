package service

import (
	"fmt"
	"math"

	"PollingNav-App/internal/domain/helper"
	"PollingNav-App/internal/domain/model"
)

const (
	walkingSpeedKmh     = 4.0
	drivingSlowSpeedKmh = 20.0 // 2km未満
	drivingFastSpeedKmh = 30.0 // 2km以上
	drivingTierMeters   = 2000.0

	// regionalCorrection は外部プロバイダの所要時間に掛ける地域補正（渋滞・歩道状況）
	regionalCorrection = 1.15

	shortWalkMeters        = 500.0
	shortWalkMetersPerMin  = 60.0
	minRangeMinutes        = 2
	rangeRatio             = 0.15
	straightLineRangeWidth = 2
)

// EstimateRequest は所要時間見積もりの入力
type EstimateRequest struct {
	Origin                model.LatLng
	Destination           model.LatLng
	Mode                  model.TravelMode
	RoutedDistanceMeters  *float64 // プロバイダの距離（無い場合は直線距離で代替）
	RoutedDurationSeconds *float64 // プロバイダの所要時間
	Language              model.LanguageCode
}

// TravelEstimator はルートまたは2地点から距離・所要時間の見積もりを作る
type TravelEstimator interface {
	Estimate(req EstimateRequest) model.TravelEstimate
}

type travelEstimator struct{}

// NewTravelEstimator は新しいTravelEstimatorを生成する
func NewTravelEstimator() TravelEstimator {
	return &travelEstimator{}
}

// NewEstimateRequest はプロバイダのルートがあればその距離・時間を使うリクエストを作る
func NewEstimateRequest(origin, destination model.LatLng, mode model.TravelMode, leg *model.RouteLeg, lang model.LanguageCode) EstimateRequest {
	req := EstimateRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        mode,
		Language:    lang,
	}
	if leg.HasDuration() {
		distance := leg.DistanceMeters
		duration := leg.DurationSeconds
		req.RoutedDistanceMeters = &distance
		req.RoutedDurationSeconds = &duration
	}
	return req
}

// Estimate は見積もりを計算する
func (e *travelEstimator) Estimate(req EstimateRequest) model.TravelEstimate {
	p := phrasesFor(req.Language)

	if req.RoutedDistanceMeters != nil && req.RoutedDurationSeconds != nil {
		adjusted := *req.RoutedDurationSeconds * regionalCorrection
		minutes := atLeastOne(int(math.Round(adjusted / 60)))
		return model.TravelEstimate{
			DistanceMeters: *req.RoutedDistanceMeters,
			TimeMinutes:    minutes,
			IsRouteBased:   true,
			IsStraightLine: false,
			DistanceText:   FormatDistance(*req.RoutedDistanceMeters),
			TimeText:       formatRange(p, minutes),
		}
	}

	distance := helper.Distance(req.Origin, req.Destination)
	minutes := straightLineMinutes(distance, req.Mode)
	return model.TravelEstimate{
		DistanceMeters: distance,
		TimeMinutes:    minutes,
		IsRouteBased:   false,
		IsStraightLine: true,
		DistanceText:   fmt.Sprintf(p.straightLine, FormatDistance(distance)),
		TimeText:       fmt.Sprintf(p.aboutRange, minutes, minutes+straightLineRangeWidth),
	}
}

// straightLineMinutes は直線距離から所要時間を推定する
func straightLineMinutes(distanceMeters float64, mode model.TravelMode) int {
	if mode != model.TravelModeDriving && distanceMeters < shortWalkMeters {
		return atLeastOne(int(math.Ceil(distanceMeters / shortWalkMetersPerMin)))
	}

	speed := walkingSpeedKmh
	if mode == model.TravelModeDriving {
		speed = drivingFastSpeedKmh
		if distanceMeters < drivingTierMeters {
			speed = drivingSlowSpeedKmh
		}
	}
	return atLeastOne(int(math.Round(distanceMeters / 1000 / speed * 60)))
}

// formatRange は ±max(2, round(0.15·分)) の幅を持つ所要時間の文字列を作る
func formatRange(p phrases, minutes int) string {
	spread := int(math.Round(rangeRatio * float64(minutes)))
	if spread < minRangeMinutes {
		spread = minRangeMinutes
	}
	low := atLeastOne(minutes - spread)
	high := minutes + spread
	if low >= high {
		return fmt.Sprintf(p.aboutSingle, minutes)
	}
	if high >= 60 {
		return fmt.Sprintf(p.aboutRangeText, FormatDuration(low), FormatDuration(high))
	}
	return fmt.Sprintf(p.aboutRange, low, high)
}

// FormatDistance は距離を "850m" / "1.2km" 形式で返す
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%dm", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1fkm", meters/1000)
}

// FormatDuration は分数を "45 min" / "1 hr" / "1 hr 5 min" 形式で返す
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	hours := minutes / 60
	rest := minutes % 60
	if rest == 0 {
		return fmt.Sprintf("%d hr", hours)
	}
	return fmt.Sprintf("%d hr %d min", hours, rest)
}

func atLeastOne(minutes int) int {
	if minutes < 1 {
		return 1
	}
	return minutes
}
