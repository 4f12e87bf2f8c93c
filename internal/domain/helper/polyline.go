package helper

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"PollingNav-App/internal/domain/model"
)

// ErrMalformedPolyline はエンコード済みポリラインが不正な場合のエラー
var ErrMalformedPolyline = errors.New("malformed encoded polyline")

const polylinePrecision = 1e5

// DecodePolyline はエンコード済みポリライン（精度1e-5）を座標列に復元する
// 途中で途切れた入力や範囲外の文字はエラーとし、部分的な座標は返さない
func DecodePolyline(encoded string) ([]model.LatLng, error) {
	points := make([]model.LatLng, 0, len(encoded)/4)
	var lat, lng int64

	pos := 0
	for pos < len(encoded) {
		dLat, next, err := decodeValue(encoded, pos)
		if err != nil {
			return nil, err
		}
		if next >= len(encoded) {
			return nil, fmt.Errorf("%w: missing longitude at offset %d", ErrMalformedPolyline, next)
		}
		dLng, next, err := decodeValue(encoded, next)
		if err != nil {
			return nil, err
		}
		pos = next

		lat += dLat
		lng += dLng
		points = append(points, model.LatLng{
			Lat: float64(lat) / polylinePrecision,
			Lng: float64(lng) / polylinePrecision,
		})
	}
	return points, nil
}

// decodeValue は pos から1つの符号付き値を読み取り、次の読み取り位置を返す
func decodeValue(encoded string, pos int) (int64, int, error) {
	var result int64
	var shift uint
	for {
		if pos >= len(encoded) {
			return 0, pos, fmt.Errorf("%w: truncated value at offset %d", ErrMalformedPolyline, pos)
		}
		b := int64(encoded[pos]) - 63
		if b < 0 || b > 0x3f {
			return 0, pos, fmt.Errorf("%w: invalid character %q at offset %d", ErrMalformedPolyline, encoded[pos], pos)
		}
		pos++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
		if shift > 60 {
			return 0, pos, fmt.Errorf("%w: value overflow at offset %d", ErrMalformedPolyline, pos)
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), pos, nil
	}
	return result >> 1, pos, nil
}

// EncodePolyline は座標列を精度1e-5のポリライン文字列にエンコードする
func EncodePolyline(points []model.LatLng) string {
	var sb strings.Builder
	var prevLat, prevLng int64
	for _, p := range points {
		lat := int64(math.Round(p.Lat * polylinePrecision))
		lng := int64(math.Round(p.Lng * polylinePrecision))
		encodeValue(&sb, lat-prevLat)
		encodeValue(&sb, lng-prevLng)
		prevLat, prevLng = lat, lng
	}
	return sb.String()
}

func encodeValue(sb *strings.Builder, v int64) {
	u := v << 1
	if v < 0 {
		u = ^u
	}
	for u >= 0x20 {
		sb.WriteByte(byte((0x20 | (u & 0x1f)) + 63))
		u >>= 5
	}
	sb.WriteByte(byte(u + 63))
}
