package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定
type Config struct {
	Server struct {
		Port    string
		GinMode string
	}

	Directions struct {
		Provider         string // "google", "osrm" またはカンマ区切り（例: "google,osrm"）
		GoogleMapsAPIKey string
		OSRMBaseURL      string
		Timeout          time.Duration
	}

	PollingUnits struct {
		Backend          string // "postgres" or "supabase"
		SupabaseURL      string
		SupabaseAnonKey  string
		SupabasePassword string
	}

	RouteCache struct {
		FirestoreProjectID string
		TTLHours           int
	}

	Landmarks struct {
		SeedFile             string
		SearchRadiusMeters   float64
		SampleIntervalMeters float64
	}
}

// Load は .env（存在すれば）と環境変数から設定を読み込む
func Load(envFiles ...string) *Config {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Printf("⚠️ .envファイルが見つかりません。システムの環境変数を使用します")
	}
	return FromEnv(os.Getenv)
}

// FromEnv は getenv から設定を組み立てる
func FromEnv(getenv func(string) string) *Config {
	var c Config

	c.Server.Port = withDefault(getenv("PORT"), "8080")
	c.Server.GinMode = withDefault(getenv("GIN_MODE"), "release")

	c.Directions.Provider = strings.ToLower(withDefault(getenv("DIRECTIONS_PROVIDER"), "google"))
	c.Directions.GoogleMapsAPIKey = getenv("GOOGLE_MAPS_API_KEY")
	c.Directions.OSRMBaseURL = withDefault(getenv("OSRM_BASE_URL"), "https://router.project-osrm.org")
	c.Directions.Timeout = time.Duration(intOr(getenv("ROUTE_TIMEOUT_SECONDS"), 8)) * time.Second

	c.PollingUnits.Backend = strings.ToLower(withDefault(getenv("POLLING_UNIT_BACKEND"), "postgres"))
	c.PollingUnits.SupabaseURL = getenv("SUPABASE_URL")
	c.PollingUnits.SupabaseAnonKey = getenv("SUPABASE_ANON_KEY")
	c.PollingUnits.SupabasePassword = getenv("SUPABASE_DB_PASSWORD")

	c.RouteCache.FirestoreProjectID = getenv("FIRESTORE_PROJECT_ID")
	c.RouteCache.TTLHours = intOr(getenv("ROUTE_CACHE_TTL_HOURS"), 6)

	c.Landmarks.SeedFile = getenv("LANDMARK_SEED_FILE")
	c.Landmarks.SearchRadiusMeters = floatOr(getenv("LANDMARK_SEARCH_RADIUS_METERS"), 60)
	c.Landmarks.SampleIntervalMeters = floatOr(getenv("LANDMARK_SAMPLE_INTERVAL_METERS"), 100)

	return &c
}

// Validate は必須の環境変数が揃っているかを確認する
func (c *Config) Validate() error {
	var missing []string

	providers := c.DirectionsProviders()
	if len(providers) == 0 {
		return fmt.Errorf("DIRECTIONS_PROVIDERが不正です: %q", c.Directions.Provider)
	}
	for _, provider := range providers {
		switch provider {
		case "google":
			if c.Directions.GoogleMapsAPIKey == "" {
				missing = append(missing, "GOOGLE_MAPS_API_KEY")
			}
		case "osrm":
			if c.Directions.OSRMBaseURL == "" {
				missing = append(missing, "OSRM_BASE_URL")
			}
		default:
			return fmt.Errorf("DIRECTIONS_PROVIDERが不正です: %s", provider)
		}
	}

	switch c.PollingUnits.Backend {
	case "postgres":
		if c.PollingUnits.SupabasePassword == "" {
			missing = append(missing, "SUPABASE_DB_PASSWORD")
		}
	case "supabase":
		if c.PollingUnits.SupabaseAnonKey == "" {
			missing = append(missing, "SUPABASE_ANON_KEY")
		}
	default:
		return fmt.Errorf("POLLING_UNIT_BACKENDが不正です: %s", c.PollingUnits.Backend)
	}
	if c.PollingUnits.SupabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("必要な環境変数が設定されていません: %s", strings.Join(missing, ", "))
	}
	return nil
}

// DirectionsProviders は DIRECTIONS_PROVIDER を優先順のリストに分解する（重複は除外）
func (c *Config) DirectionsProviders() []string {
	var providers []string
	seen := make(map[string]bool)
	for _, p := range strings.Split(c.Directions.Provider, ",") {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		providers = append(providers, p)
	}
	return providers
}

// RouteCacheEnabled はFirestoreのルートキャッシュを使うかどうか
func (c *Config) RouteCacheEnabled() bool {
	return c.RouteCache.FirestoreProjectID != ""
}

// TimeTrack は処理時間をログ出力する（defer で使用）
func TimeTrack(start time.Time, name string) {
	log.Printf("⏱️ %s: %s", name, time.Since(start))
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intOr(v string, def int) int {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func floatOr(v string, def float64) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return def
	}
	return f
}
