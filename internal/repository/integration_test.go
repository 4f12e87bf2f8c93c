package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PollingNav-App/internal/domain/helper"
	"PollingNav-App/internal/domain/model"
	"PollingNav-App/internal/domain/repository"
	"PollingNav-App/internal/infrastructure/database"
	"PollingNav-App/internal/infrastructure/firestore"
)

// 実サービスに接続するテストは環境変数が揃っている場合のみ実行する
func requireEnv(t *testing.T, keys ...string) map[string]string {
	t.Helper()
	_ = godotenv.Load("../../.env")

	values := make(map[string]string, len(keys))
	for _, key := range keys {
		v := os.Getenv(key)
		if v == "" {
			t.Skipf("%s が設定されていないためスキップします", key)
		}
		values[key] = v
	}
	return values
}

func TestFirestoreRouteCacheRepository_Integration(t *testing.T) {
	env := requireEnv(t, "FIRESTORE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS")

	ctx := context.Background()
	client, err := firestore.NewFirestoreClient(ctx, env["FIRESTORE_PROJECT_ID"])
	require.NoError(t, err)
	defer client.Close()

	repo := NewFirestoreRouteCacheRepository(client.GetClient())
	key := fmt.Sprintf("integration_test_%d", time.Now().UnixNano())
	defer client.GetClient().Collection(routeCacheCollection).Doc(key).Delete(ctx)

	t.Run("未保存のキーはErrNotFound", func(t *testing.T) {
		_, err := repo.GetRoute(ctx, key)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("保存したルートを取得できる", func(t *testing.T) {
		leg := &model.RouteLeg{DistanceMeters: 600, DurationSeconds: 420, Geometry: "_p~iF~ps|U_ulLnnqC"}
		require.NoError(t, repo.SaveRoute(ctx, key, "osrm", leg, 1))

		got, err := repo.GetRoute(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, leg.Geometry, got.Geometry)
		assert.Equal(t, leg.DistanceMeters, got.DistanceMeters)
	})
}

func TestPostgresPollingUnitsRepository_Integration(t *testing.T) {
	env := requireEnv(t, "SUPABASE_URL", "SUPABASE_DB_PASSWORD", "TEST_POLLING_UNIT_CODE")

	client, err := database.NewPostgreSQLClientWithRetry(env["SUPABASE_URL"], env["SUPABASE_DB_PASSWORD"], 5, time.Second)
	require.NoError(t, err)
	defer client.Close()

	code, err := helper.ValidatePollingUnitCode(env["TEST_POLLING_UNIT_CODE"])
	require.NoError(t, err)

	unit, err := NewPostgresPollingUnitsRepository(client).FindByCode(context.Background(), *code)
	require.NoError(t, err)
	log.Printf("📍 %s: %s (%v)", code.Normalized(), unit.Name, unit.ToLatLng())
	assert.True(t, unit.HasLocation())
}
