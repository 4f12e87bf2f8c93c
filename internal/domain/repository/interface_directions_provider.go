package repository

import (
	"context"

	"PollingNav-App/internal/domain/model"
)

// DirectionsProvider は外部の経路検索サービスを表すインターフェース
type DirectionsProvider interface {
	// Name はキャッシュキーやログに使うプロバイダ名
	Name() string
	// GetRoute は出発地から目的地までのルートを取得する
	GetRoute(ctx context.Context, origin, destination model.LatLng, mode model.TravelMode) (*model.RouteLeg, error)
}

// RouteCacheRepository はプロバイダから取得したルートのキャッシュ
type RouteCacheRepository interface {
	// GetRoute はキャッシュ済みのルートを返す（存在しない・期限切れの場合は ErrNotFound）
	GetRoute(ctx context.Context, key string) (*model.RouteLeg, error)
	// SaveRoute はルートを ttlHours 時間キャッシュする
	SaveRoute(ctx context.Context, key string, provider string, leg *model.RouteLeg, ttlHours int) error
}
