package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"PollingNav-App/internal/domain/model"
	"PollingNav-App/internal/domain/repository"
)

// ParallelRouteFetcher は複数の経路プロバイダに並行で問い合わせ、優先順位の最も高い成功結果を返す
// 1つのプロバイダが落ちていても他のプロバイダのルートで案内を続けられる
type ParallelRouteFetcher struct {
	providers     []repository.DirectionsProvider
	maxGoroutines int
}

// NewParallelRouteFetcher は providers の並び順を優先順位とするフェッチャーを作成
func NewParallelRouteFetcher(providers ...repository.DirectionsProvider) *ParallelRouteFetcher {
	return &ParallelRouteFetcher{
		providers:     providers,
		maxGoroutines: 3, // 同時実行数を制限
	}
}

// routeCandidate はプロバイダごとの取得結果
type routeCandidate struct {
	priority int
	provider string
	leg      *model.RouteLeg
	err      error
}

// Name はキャッシュキーに使う名前（例: "google+osrm"）
func (p *ParallelRouteFetcher) Name() string {
	names := make([]string, len(p.providers))
	for i, provider := range p.providers {
		names[i] = provider.Name()
	}
	return strings.Join(names, "+")
}

// GetRoute は全プロバイダに並行で問い合わせる
func (p *ParallelRouteFetcher) GetRoute(ctx context.Context, origin, destination model.LatLng, mode model.TravelMode) (*model.RouteLeg, error) {
	if len(p.providers) == 0 {
		return nil, errors.New("経路プロバイダが設定されていません")
	}

	log.Printf("🚀 並行ルート取得開始: %d プロバイダ", len(p.providers))
	start := time.Now()

	// セマフォを使用して同時実行数を制限
	semaphore := make(chan struct{}, p.maxGoroutines)
	results := make(chan routeCandidate, len(p.providers))
	var wg sync.WaitGroup

	for i, provider := range p.providers {
		wg.Add(1)
		go func(priority int, provider repository.DirectionsProvider) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			candidate := routeCandidate{priority: priority, provider: provider.Name()}
			leg, err := provider.GetRoute(ctx, origin, destination, mode)
			switch {
			case err != nil:
				candidate.err = fmt.Errorf("%s: %w", provider.Name(), err)
			case leg == nil || leg.Geometry == "":
				candidate.err = fmt.Errorf("%s: ジオメトリのないルート", provider.Name())
			default:
				candidate.leg = leg
			}
			results <- candidate
		}(i, provider)
	}

	// 別のgoroutineでwaitしてチャンネルを閉じる
	go func() {
		wg.Wait()
		close(results)
	}()

	var best *routeCandidate
	var errs []error
	for candidate := range results {
		if candidate.err != nil {
			log.Printf("⚠️  ルート取得エラー: %v", candidate.err)
			errs = append(errs, candidate.err)
			continue
		}
		if best == nil || candidate.priority < best.priority {
			c := candidate
			best = &c
		}
	}

	log.Printf("✅ 並行ルート取得完了: %v (成功:%d, 失敗:%d)", time.Since(start), len(p.providers)-len(errs), len(errs))

	if best == nil {
		return nil, fmt.Errorf("すべてのプロバイダでルート取得に失敗しました: %w", errors.Join(errs...))
	}

	log.Printf("🏆 採用ルート: %s (%.0fm, %.0f秒)", best.provider, best.leg.DistanceMeters, best.leg.DurationSeconds)
	return best.leg, nil
}

var _ repository.DirectionsProvider = (*ParallelRouteFetcher)(nil)
