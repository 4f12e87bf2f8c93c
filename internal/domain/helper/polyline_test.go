package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmaps "googlemaps.github.io/maps"

	"PollingNav-App/internal/domain/model"
)

const googleSamplePolyline = "_p~iF~ps|U_ulLnnqC_mqNvxq`@"

func TestDecodePolyline(t *testing.T) {
	t.Run("Googleのサンプルを復元できる", func(t *testing.T) {
		points, err := DecodePolyline(googleSamplePolyline)
		require.NoError(t, err)
		require.Len(t, points, 3)

		expected := []model.LatLng{
			{Lat: 38.5, Lng: -120.2},
			{Lat: 40.7, Lng: -120.95},
			{Lat: 43.252, Lng: -126.453},
		}
		for i, e := range expected {
			assert.InDelta(t, e.Lat, points[i].Lat, 1e-9)
			assert.InDelta(t, e.Lng, points[i].Lng, 1e-9)
		}
	})

	t.Run("空文字列は空の座標列", func(t *testing.T) {
		points, err := DecodePolyline("")
		require.NoError(t, err)
		assert.Empty(t, points)
	})

	t.Run("途中で途切れた値はエラー", func(t *testing.T) {
		points, err := DecodePolyline(googleSamplePolyline + "_")
		assert.ErrorIs(t, err, ErrMalformedPolyline)
		assert.Nil(t, points)
	})

	t.Run("経度が欠けている場合はエラー", func(t *testing.T) {
		points, err := DecodePolyline("_p~iF")
		assert.ErrorIs(t, err, ErrMalformedPolyline)
		assert.Nil(t, points)
	})

	t.Run("範囲外の文字はエラー", func(t *testing.T) {
		_, err := DecodePolyline("_p~iF ps|U")
		assert.ErrorIs(t, err, ErrMalformedPolyline)
	})
}

func TestEncodePolyline(t *testing.T) {
	t.Run("Googleのサンプルにエンコードできる", func(t *testing.T) {
		points := []model.LatLng{
			{Lat: 38.5, Lng: -120.2},
			{Lat: 40.7, Lng: -120.95},
			{Lat: 43.252, Lng: -126.453},
		}
		assert.Equal(t, googleSamplePolyline, EncodePolyline(points))
	})

	t.Run("Google Mapsクライアントのエンコード結果を復元できる", func(t *testing.T) {
		path := []gmaps.LatLng{
			{Lat: 6.45407, Lng: 3.39467},
			{Lat: 6.45512, Lng: 3.39601},
			{Lat: 6.45398, Lng: 3.39822},
			{Lat: 6.44911, Lng: 3.38755},
		}
		points, err := DecodePolyline(gmaps.Encode(path))
		require.NoError(t, err)
		require.Len(t, points, len(path))
		for i, p := range path {
			assert.InDelta(t, p.Lat, points[i].Lat, 1e-5)
			assert.InDelta(t, p.Lng, points[i].Lng, 1e-5)
		}
	})

	t.Run("エンコードした結果を復元すると元に戻る", func(t *testing.T) {
		original := []model.LatLng{{Lat: 9.0765, Lng: 7.3986}, {Lat: 9.0801, Lng: 7.4012}, {Lat: -0.00001, Lng: 0}}
		points, err := DecodePolyline(EncodePolyline(original))
		require.NoError(t, err)
		for i, p := range original {
			assert.InDelta(t, p.Lat, points[i].Lat, 1e-9)
			assert.InDelta(t, p.Lng, points[i].Lng, 1e-9)
		}
	})
}
