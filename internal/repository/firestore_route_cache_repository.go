package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"PollingNav-App/internal/domain/model"
	"PollingNav-App/internal/domain/repository"
)

const routeCacheCollection = "routeCache"

// FirestoreRouteCacheRepository Firestoreを使用したルートキャッシュリポジトリ
// ドキュメントの expireAt はFirestoreのTTLポリシーで自動削除される
type FirestoreRouteCacheRepository struct {
	client *firestore.Client
	now    func() time.Time
}

// NewFirestoreRouteCacheRepository 新しいFirestoreRouteCacheRepositoryインスタンスを作成
func NewFirestoreRouteCacheRepository(client *firestore.Client) repository.RouteCacheRepository {
	return &FirestoreRouteCacheRepository{
		client: client,
		now:    time.Now,
	}
}

// SaveRoute はルートをキャッシュに保存する
func (r *FirestoreRouteCacheRepository) SaveRoute(ctx context.Context, key string, provider string, leg *model.RouteLeg, ttlHours int) error {
	if leg == nil {
		return fmt.Errorf("保存するルートがありません")
	}

	_, err := r.client.Collection(routeCacheCollection).Doc(key).Set(ctx, leg.ToCachedRoute(provider, ttlHours))
	if err != nil {
		log.Printf("❌ Failed to save route cache %s: %v", key, err)
		return fmt.Errorf("ルートキャッシュの保存に失敗しました: %w", err)
	}

	log.Printf("✅ Route cached: %s (expires in %d hours)", key, ttlHours)
	return nil
}

// GetRoute はキャッシュ済みのルートを取得する
func (r *FirestoreRouteCacheRepository) GetRoute(ctx context.Context, key string) (*model.RouteLeg, error) {
	doc, err := r.client.Collection(routeCacheCollection).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("ルートキャッシュ %s: %w", key, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("ルートキャッシュの取得に失敗しました: %w", err)
	}

	var cached model.CachedRoute
	if err := doc.DataTo(&cached); err != nil {
		return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
	}

	// TTLによる削除は即時ではないため期限をここでも確認する
	if cached.IsExpired(r.now()) {
		return nil, fmt.Errorf("ルートキャッシュ %s は有効期限切れ: %w", key, repository.ErrNotFound)
	}

	return cached.ToRouteLeg(), nil
}
