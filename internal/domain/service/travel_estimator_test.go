package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"PollingNav-App/internal/domain/helper"
	"PollingNav-App/internal/domain/model"
)

// pointNorthOf は origin から真北に meters 離れた地点を返す
func pointNorthOf(origin model.LatLng, meters float64) model.LatLng {
	return model.LatLng{
		Lat: origin.Lat + meters/(helper.EarthRadiusMeters*math.Pi/180),
		Lng: origin.Lng,
	}
}

func TestTravelEstimator_RouteBased(t *testing.T) {
	estimator := NewTravelEstimator()
	origin := model.LatLng{Lat: 6.4541, Lng: 3.3947}
	destination := model.LatLng{Lat: 6.4610, Lng: 3.3990}

	t.Run("補正係数を掛けた分数と幅", func(t *testing.T) {
		leg := &model.RouteLeg{DistanceMeters: 1000, DurationSeconds: 600}
		est := estimator.Estimate(NewEstimateRequest(origin, destination, model.TravelModeWalking, leg, model.LanguageEnglish))

		assert.True(t, est.IsRouteBased)
		assert.False(t, est.IsStraightLine)
		assert.Equal(t, 1000.0, est.DistanceMeters)
		assert.Equal(t, 12, est.TimeMinutes)
		assert.Equal(t, "1.0km", est.DistanceText)
		assert.Equal(t, "about 10–14 minutes", est.TimeText)
	})

	t.Run("ごく短いルートでも1分以上", func(t *testing.T) {
		leg := &model.RouteLeg{DistanceMeters: 15, DurationSeconds: 10}
		est := estimator.Estimate(NewEstimateRequest(origin, destination, model.TravelModeWalking, leg, model.LanguageEnglish))

		assert.Equal(t, 1, est.TimeMinutes)
		assert.Equal(t, "15m", est.DistanceText)
		assert.Equal(t, "about 1–3 minutes", est.TimeText)
	})

	t.Run("1時間を超える場合は時間表記", func(t *testing.T) {
		leg := &model.RouteLeg{DistanceMeters: 4800, DurationSeconds: 3600}
		est := estimator.Estimate(NewEstimateRequest(origin, destination, model.TravelModeWalking, leg, model.LanguageEnglish))

		assert.Equal(t, 69, est.TimeMinutes)
		assert.Equal(t, "4.8km", est.DistanceText)
		assert.Equal(t, "about 59 min–1 hr 19 min", est.TimeText)
	})

	t.Run("所要時間が無いルートは直線距離にフォールバック", func(t *testing.T) {
		leg := &model.RouteLeg{DistanceMeters: 1000}
		est := estimator.Estimate(NewEstimateRequest(origin, destination, model.TravelModeWalking, leg, model.LanguageEnglish))

		assert.True(t, est.IsStraightLine)
		assert.False(t, est.IsRouteBased)
	})
}

func TestTravelEstimator_StraightLine(t *testing.T) {
	estimator := NewTravelEstimator()
	origin := model.LatLng{Lat: 7.3775, Lng: 3.9470}

	cases := []struct {
		name         string
		meters       float64
		mode         model.TravelMode
		minutes      int
		distanceText string
		timeText     string
	}{
		{"短い徒歩は1分60m", 290, model.TravelModeWalking, 5, "~290m (straight line)", "about 5–7 minutes"},
		{"徒歩は時速4km", 2000, model.TravelModeWalking, 30, "~2.0km (straight line)", "about 30–32 minutes"},
		{"2km未満の車は時速20km", 1000, model.TravelModeDriving, 3, "~1.0km (straight line)", "about 3–5 minutes"},
		{"2km以上の車は時速30km", 3000, model.TravelModeDriving, 6, "~3.0km (straight line)", "about 6–8 minutes"},
		{"短距離の車は最低1分", 100, model.TravelModeDriving, 1, "~100m (straight line)", "about 1–3 minutes"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			destination := pointNorthOf(origin, tc.meters)
			est := estimator.Estimate(NewEstimateRequest(origin, destination, tc.mode, nil, model.LanguageEnglish))

			assert.True(t, est.IsStraightLine)
			assert.False(t, est.IsRouteBased)
			assert.InDelta(t, tc.meters, est.DistanceMeters, 0.01)
			assert.Equal(t, tc.minutes, est.TimeMinutes)
			assert.Equal(t, tc.distanceText, est.DistanceText)
			assert.Equal(t, tc.timeText, est.TimeText)
		})
	}

	t.Run("同一地点でも1分", func(t *testing.T) {
		est := estimator.Estimate(NewEstimateRequest(origin, origin, model.TravelModeWalking, nil, model.LanguageEnglish))
		assert.Equal(t, 1, est.TimeMinutes)
		assert.Equal(t, "~0m (straight line)", est.DistanceText)
	})

	t.Run("ヨルバ語の文言", func(t *testing.T) {
		destination := pointNorthOf(origin, 290)
		est := estimator.Estimate(NewEstimateRequest(origin, destination, model.TravelModeWalking, nil, model.LanguageYoruba))
		assert.Equal(t, "~290m (ní títọ́)", est.DistanceText)
		assert.Equal(t, "nǹkan bí ìṣẹ́jú 5–7", est.TimeText)
	})
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "0m", FormatDistance(0))
	assert.Equal(t, "850m", FormatDistance(849.6))
	assert.Equal(t, "999m", FormatDistance(999.4))
	assert.Equal(t, "1.0km", FormatDistance(1000))
	assert.Equal(t, "1.2km", FormatDistance(1234))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45 min", FormatDuration(45))
	assert.Equal(t, "1 hr", FormatDuration(60))
	assert.Equal(t, "1 hr 5 min", FormatDuration(65))
	assert.Equal(t, "2 hr 30 min", FormatDuration(150))
}
