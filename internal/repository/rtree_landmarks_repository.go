package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/dhconnelly/rtreego"

	"PollingNav-App/internal/domain/helper"
	"PollingNav-App/internal/domain/model"
	"PollingNav-App/internal/domain/repository"
)

const (
	rtreeDimensions  = 2
	rtreeMinChildren = 25
	rtreeMaxChildren = 50
	rtreeTolerance   = 1e-6
)

// landmarkItem は rtreego.Spatial を実装するランドマークのラッパー
type landmarkItem struct {
	poi  model.LandmarkPOI
	rect *rtreego.Rect
}

func (li *landmarkItem) Bounds() *rtreego.Rect {
	return li.rect
}

// RTreeLandmarksRepository はメモリ上のR-Treeでランドマークを検索するリポジトリ
// DBに接続できない環境やオフライン地域データの配布に使用する
type RTreeLandmarksRepository struct {
	mu    sync.RWMutex
	tree  *rtreego.Rtree
	count int
}

// NewRTreeLandmarksRepository は与えられたランドマークでインデックスを構築する
func NewRTreeLandmarksRepository(pois []model.LandmarkPOI) *RTreeLandmarksRepository {
	r := &RTreeLandmarksRepository{
		tree: rtreego.NewTree(rtreeDimensions, rtreeMinChildren, rtreeMaxChildren),
	}
	r.Index(pois)
	return r
}

// NewRTreeLandmarksRepositoryFromFile はJSONファイル（[]LandmarkPOI）からインデックスを構築する
func NewRTreeLandmarksRepositoryFromFile(path string) (*RTreeLandmarksRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ランドマークファイルの読み込みに失敗: %w", err)
	}
	var pois []model.LandmarkPOI
	if err := json.Unmarshal(data, &pois); err != nil {
		return nil, fmt.Errorf("ランドマークファイルのJSONアンマーシャル失敗: %w", err)
	}
	return NewRTreeLandmarksRepository(pois), nil
}

// Index はランドマークをインデックスに追加する
func (r *RTreeLandmarksRepository) Index(pois []model.LandmarkPOI) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pois {
		point := rtreego.Point{p.Latitude, p.Longitude}
		r.tree.Insert(&landmarkItem{poi: p, rect: point.ToRect(rtreeTolerance)})
		r.count++
	}
}

// Size はインデックス済みのランドマーク数を返す
func (r *RTreeLandmarksRepository) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// FindAlongRoute は各サンプル地点から半径 radiusMeters 以内のランドマークを返す
func (r *RTreeLandmarksRepository) FindAlongRoute(ctx context.Context, samples []model.LatLng, radiusMeters float64) ([]model.LandmarkPOI, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []model.LandmarkPOI
	for _, s := range samples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// 半径を度に換算した矩形で候補を絞り、ハバーサイン距離で確定する
		deg := helper.MetersToDegrees(radiusMeters) * 2
		bounds, err := rtreego.NewRect(
			rtreego.Point{s.Lat - deg, s.Lng - deg},
			[]float64{2 * deg, 2 * deg},
		)
		if err != nil {
			return nil, fmt.Errorf("検索範囲の作成に失敗: %w", err)
		}

		for _, item := range r.tree.SearchIntersect(bounds) {
			li, ok := item.(*landmarkItem)
			if !ok {
				continue
			}
			if helper.Distance(s, li.poi.ToLatLng()) <= radiusMeters {
				result = append(result, li.poi)
			}
		}
	}

	return helper.DedupePOIs(result), nil
}

var _ repository.LandmarksRepository = (*RTreeLandmarksRepository)(nil)
