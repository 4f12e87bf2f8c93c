package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"PollingNav-App/internal/config"
	"PollingNav-App/internal/domain/helper"
	"PollingNav-App/internal/domain/repository"
	"PollingNav-App/internal/domain/service"
	"PollingNav-App/internal/handler"
	"PollingNav-App/internal/infrastructure/database"
	"PollingNav-App/internal/infrastructure/firestore"
	"PollingNav-App/internal/infrastructure/maps"
	repoimpl "PollingNav-App/internal/repository"
	"PollingNav-App/internal/usecase"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ 設定エラー: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	ctx := context.Background()

	// Database connections
	var postgresClient *database.PostgreSQLClient
	if cfg.PollingUnits.SupabasePassword != "" {
		client, err := database.NewPostgreSQLClientWithRetry(cfg.PollingUnits.SupabaseURL, cfg.PollingUnits.SupabasePassword, 3, 2*time.Second)
		if err != nil {
			log.Fatalf("❌ PostgreSQL初期化失敗: %v", err)
		}
		defer client.Close()
		postgresClient = client
	}

	pollingUnitRepo := newPollingUnitsRepository(cfg, postgresClient)
	landmarksRepo := newLandmarksRepository(cfg, postgresClient)
	directionsProvider := newDirectionsProvider(cfg)

	var routeCache repository.RouteCacheRepository
	if cfg.RouteCacheEnabled() {
		firestoreClient, err := firestore.NewFirestoreClient(ctx, cfg.RouteCache.FirestoreProjectID)
		if err != nil {
			log.Printf("⚠️ Firestore初期化失敗、ルートキャッシュなしで起動します: %v", err)
		} else {
			defer firestoreClient.Close()
			routeCache = repoimpl.NewFirestoreRouteCacheRepository(firestoreClient.GetClient())
		}
	}

	var poiSearchHelper *helper.POISearchHelper
	if landmarksRepo != nil {
		poiSearchHelper = helper.NewPOISearchHelper(landmarksRepo, cfg.Landmarks.SampleIntervalMeters, cfg.Landmarks.SearchRadiusMeters)
	}

	// Dependency injection
	navigationUseCase := usecase.NewNavigationUseCase(
		usecase.NewSessionStore(),
		pollingUnitRepo,
		directionsProvider,
		routeCache,
		poiSearchHelper,
		usecase.NavigationUseCaseConfig{
			RouteTimeout:  cfg.Directions.Timeout,
			CacheTTLHours: cfg.RouteCache.TTLHours,
		},
	)
	navigationHandler := handler.NewNavigationHandler(navigationUseCase)

	// Ginルーターのセットアップ
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.GET("/api/health", navigationHandler.HealthCheck)
	navigationHandler.RegisterRoutes(r)

	log.Printf("🚀 PollingNav-App server starting on :%s (directions: %s)", cfg.Server.Port, directionsProvider.Name())
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("❌ サーバー起動失敗: %v", err)
	}
}

func newPollingUnitsRepository(cfg *config.Config, postgresClient *database.PostgreSQLClient) repository.PollingUnitsRepository {
	if cfg.PollingUnits.Backend == "supabase" {
		supabaseClient, err := database.NewSupabaseClient(cfg.PollingUnits.SupabaseURL, cfg.PollingUnits.SupabaseAnonKey)
		if err != nil {
			log.Fatalf("❌ Supabaseクライアント初期化失敗: %v", err)
		}
		return repoimpl.NewSupabasePollingUnitsRepository(supabaseClient)
	}
	return repoimpl.NewPostgresPollingUnitsRepository(postgresClient)
}

// newLandmarksRepository はシードファイルがあればR-Tree、なければPostGISを使う
func newLandmarksRepository(cfg *config.Config, postgresClient *database.PostgreSQLClient) repository.LandmarksRepository {
	if cfg.Landmarks.SeedFile != "" {
		repo, err := repoimpl.NewRTreeLandmarksRepositoryFromFile(cfg.Landmarks.SeedFile)
		if err != nil {
			log.Fatalf("❌ ランドマークの読み込み失敗: %v", err)
		}
		log.Printf("✅ ランドマーク %d 件をインデックスしました", repo.Size())
		return repo
	}
	if postgresClient != nil {
		return repoimpl.NewPostgresLandmarksRepository(postgresClient)
	}
	log.Printf("⚠️ ランドマークのデータソースがありません。汎用案内のみ提供します")
	return nil
}

func newDirectionsProvider(cfg *config.Config) repository.DirectionsProvider {
	var providers []repository.DirectionsProvider
	for _, name := range cfg.DirectionsProviders() {
		switch name {
		case "osrm":
			providers = append(providers, maps.NewOSRMDirectionsProvider(cfg.Directions.OSRMBaseURL))
		case "google":
			provider, err := maps.NewGoogleDirectionsProvider(cfg.Directions.GoogleMapsAPIKey)
			if err != nil {
				log.Fatalf("❌ Google Maps クライアント初期化失敗: %v", err)
			}
			providers = append(providers, provider)
		}
	}
	if len(providers) == 1 {
		return providers[0]
	}
	return service.NewParallelRouteFetcher(providers...)
}
