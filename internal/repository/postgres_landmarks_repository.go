package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"PollingNav-App/internal/domain/helper"
	"PollingNav-App/internal/domain/model"
	"PollingNav-App/internal/domain/repository"
	"PollingNav-App/internal/infrastructure/database"
)

// maxLandmarksPerQuery は1回の検索で取得するランドマークの上限
const maxLandmarksPerQuery = 200

type PostgresLandmarksRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresLandmarksRepository(client *database.PostgreSQLClient) repository.LandmarksRepository {
	return &PostgresLandmarksRepository{
		client: client,
	}
}

// FindAlongRoute サンプル地点ごとに ST_DWithin で周辺のランドマークを検索する
func (r *PostgresLandmarksRepository) FindAlongRoute(ctx context.Context, samples []model.LatLng, radiusMeters float64) ([]model.LandmarkPOI, error) {
	if len(samples) == 0 {
		return nil, nil
	}

	lngs := make([]float64, len(samples))
	lats := make([]float64, len(samples))
	for i, s := range samples {
		lngs[i] = s.Lng
		lats[i] = s.Lat
	}

	// ルート全体の境界ボックスで先に絞り込み、インデックスを効かせる
	minLng, minLat, maxLng, maxLat := envelope(helper.RouteBound(samples, radiusMeters))

	query := `
		WITH samples AS (
			SELECT unnest($1::float8[]) AS lng, unnest($2::float8[]) AS lat
		)
		SELECT DISTINCT ON (l.id)
			l.id, l.name,
			ST_Y(l.location::geometry) AS latitude,
			ST_X(l.location::geometry) AS longitude,
			l.category
		FROM landmarks l
		JOIN samples s ON ST_DWithin(
			l.location::geography,
			ST_SetSRID(ST_MakePoint(s.lng, s.lat), 4326)::geography,
			$3
		)
		WHERE l.location && ST_MakeEnvelope($4, $5, $6, $7, 4326)
		LIMIT $8
	`

	rows, err := r.client.DB.QueryContext(ctx, query,
		pq.Array(lngs), pq.Array(lats), radiusMeters,
		minLng, minLat, maxLng, maxLat, maxLandmarksPerQuery)
	if err != nil {
		return nil, fmt.Errorf("ルート周辺のランドマーク検索失敗: %w", err)
	}
	defer rows.Close()

	var landmarks []model.LandmarkPOI
	for rows.Next() {
		var lm model.LandmarkPOI
		if err := rows.Scan(&lm.ID, &lm.Name, &lm.Latitude, &lm.Longitude, &lm.Category); err != nil {
			return nil, fmt.Errorf("ランドマークデータスキャンエラー: %w", err)
		}
		landmarks = append(landmarks, lm)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("行イテレーション中のエラー: %w", err)
	}

	return landmarks, nil
}
