package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PollingNav-App/internal/domain/model"
)

// straightRoute は経度0を北へ進む、約111m間隔の頂点を持つルート
func straightRoute(n int) []model.LatLng {
	points := make([]model.LatLng, n)
	for i := range points {
		points[i] = model.LatLng{Lat: float64(i) * 0.001, Lng: 0}
	}
	return points
}

func TestDistance(t *testing.T) {
	t.Run("同一地点は0", func(t *testing.T) {
		p := model.LatLng{Lat: 6.5244, Lng: 3.3792}
		assert.Equal(t, 0.0, Distance(p, p))
	})

	t.Run("緯度1度はおよそ111195m", func(t *testing.T) {
		d := Distance(model.LatLng{Lat: 0, Lng: 0}, model.LatLng{Lat: 1, Lng: 0})
		assert.InDelta(t, 111195, d, 1)
	})

	t.Run("対称性", func(t *testing.T) {
		lagos := model.LatLng{Lat: 6.5244, Lng: 3.3792}
		ibadan := model.LatLng{Lat: 7.3775, Lng: 3.9470}
		assert.InDelta(t, Distance(lagos, ibadan), Distance(ibadan, lagos), 1e-9)
		assert.InDelta(t, 113000, Distance(lagos, ibadan), 3000)
	})
}

func TestPathLength(t *testing.T) {
	assert.Equal(t, 0.0, PathLength(nil))
	assert.Equal(t, 0.0, PathLength(straightRoute(1)))
	assert.InDelta(t, 1111.95, PathLength(straightRoute(11)), 0.5)
}

func TestSamplePoints(t *testing.T) {
	t.Run("先頭と末尾を必ず含む", func(t *testing.T) {
		route := straightRoute(11)
		samples := SamplePoints(route, 250)

		require.Len(t, samples, 5)
		assert.Equal(t, route[0], samples[0])
		assert.Equal(t, route[3], samples[1])
		assert.Equal(t, route[6], samples[2])
		assert.Equal(t, route[9], samples[3])
		assert.Equal(t, route[10], samples[4])
	})

	t.Run("間隔がルート長より長い場合は両端のみ", func(t *testing.T) {
		route := straightRoute(4)
		samples := SamplePoints(route, 10000)
		assert.Equal(t, []model.LatLng{route[0], route[3]}, samples)
	})

	t.Run("末尾がちょうどサンプルされた場合は重複しない", func(t *testing.T) {
		route := straightRoute(4)
		samples := SamplePoints(route, 300)
		assert.Equal(t, []model.LatLng{route[0], route[3]}, samples)
	})

	t.Run("2点未満はそのまま返す", func(t *testing.T) {
		assert.Empty(t, SamplePoints(nil, 100))
		single := straightRoute(1)
		assert.Equal(t, single, SamplePoints(single, 100))
	})
}

func TestDistanceAlongRoute(t *testing.T) {
	route := straightRoute(5)

	t.Run("最寄り区間に射影した累積距離", func(t *testing.T) {
		p := model.LatLng{Lat: 0.0021, Lng: 0.0002}
		assert.InDelta(t, 233.51, DistanceAlongRoute(route, p), 0.5)
	})

	t.Run("始点より手前は0", func(t *testing.T) {
		assert.Equal(t, 0.0, DistanceAlongRoute(route, model.LatLng{Lat: -0.0001, Lng: 0}))
	})

	t.Run("終点より先は全長", func(t *testing.T) {
		assert.InDelta(t, PathLength(route), DistanceAlongRoute(route, model.LatLng{Lat: 0.0050, Lng: 0}), 1e-6)
	})

	t.Run("2頂点だけのルートでも途中の位置を返す", func(t *testing.T) {
		origin := model.LatLng{Lat: 7.3600, Lng: 3.8800}
		destination := model.LatLng{Lat: 7.3690, Lng: 3.8800}
		path := []model.LatLng{origin, destination}
		total := PathLength(path)
		require.InDelta(t, 1001, total, 1)

		for _, fraction := range []float64{0.25, 0.45, 0.55, 0.9} {
			p := model.LatLng{Lat: origin.Lat + fraction*(destination.Lat-origin.Lat), Lng: 3.8801}
			assert.InDelta(t, fraction*total, DistanceAlongRoute(path, p), 1, fraction)
		}
	})

	t.Run("斜めの区間", func(t *testing.T) {
		path := []model.LatLng{{Lat: 7.36, Lng: 3.88}, {Lat: 7.364, Lng: 3.884}}
		mid := model.LatLng{Lat: 7.362, Lng: 3.882}
		assert.InDelta(t, PathLength(path)/2, DistanceAlongRoute(path, mid), 1)
	})

	t.Run("1点以下のルートは0", func(t *testing.T) {
		assert.Equal(t, 0.0, DistanceAlongRoute(nil, model.LatLng{Lat: 1, Lng: 1}))
		assert.Equal(t, 0.0, DistanceAlongRoute(straightRoute(1), model.LatLng{Lat: 1, Lng: 1}))
	})
}

func TestRouteBound(t *testing.T) {
	route := []model.LatLng{{Lat: 6.50, Lng: 3.30}, {Lat: 6.52, Lng: 3.35}}
	bound := RouteBound(route, 100)

	assert.Less(t, bound.Min.Lat(), 6.50)
	assert.Less(t, bound.Min.Lon(), 3.30)
	assert.Greater(t, bound.Max.Lat(), 6.52)
	assert.Greater(t, bound.Max.Lon(), 3.35)
	assert.InDelta(t, MetersToDegrees(100), 6.50-bound.Min.Lat(), 1e-9)

	// 赤道付近でも経度方向の余白は緯度方向以上になる
	assert.GreaterOrEqual(t, 3.30-bound.Min.Lon(), 6.50-bound.Min.Lat())
}

func TestToLineString(t *testing.T) {
	ls := ToLineString([]model.LatLng{{Lat: 6.5, Lng: 3.3}})
	require.Len(t, ls, 1)
	assert.Equal(t, 3.3, ls[0].Lon())
	assert.Equal(t, 6.5, ls[0].Lat())
}
