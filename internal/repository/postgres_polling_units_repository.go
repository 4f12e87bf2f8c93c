package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"PollingNav-App/internal/domain/model"
	"PollingNav-App/internal/domain/repository"
	"PollingNav-App/internal/infrastructure/database"
)

type PostgresPollingUnitsRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresPollingUnitsRepository(client *database.PostgreSQLClient) repository.PollingUnitsRepository {
	return &PostgresPollingUnitsRepository{
		client: client,
	}
}

// pollingUnitResult PostGIS関数の結果を受け取るための構造体
type pollingUnitResult struct {
	ID       string
	Code     string
	Name     string
	WardName sql.NullString
	LGA      sql.NullString
	Location string
}

// toPollingUnit pollingUnitResultをmodel.PollingUnitに変換
func (pr *pollingUnitResult) toPollingUnit() (*model.PollingUnit, error) {
	var location model.Geometry
	if err := json.Unmarshal([]byte(pr.Location), &location); err != nil {
		return nil, fmt.Errorf("location JSONBパースエラー: %w", err)
	}

	return &model.PollingUnit{
		ID:       pr.ID,
		Code:     pr.Code,
		Name:     pr.Name,
		WardName: pr.WardName.String,
		LGA:      pr.LGA.String,
		Location: &location,
	}, nil
}

func (r *PostgresPollingUnitsRepository) FindByCode(ctx context.Context, code model.PollingUnitCode) (*model.PollingUnit, error) {
	query := `
		SELECT id, code, name, ward_name, lga, ST_AsGeoJSON(location)::text AS location
		FROM polling_units
		WHERE code = $1
		LIMIT 1
	`

	var result pollingUnitResult
	err := r.client.DB.QueryRowContext(ctx, query, code.Normalized()).Scan(
		&result.ID, &result.Code, &result.Name, &result.WardName, &result.LGA, &result.Location)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("投票所 %s: %w", code.Normalized(), repository.ErrNotFound)
		}
		return nil, fmt.Errorf("投票所データの取得失敗: %w", err)
	}

	return result.toPollingUnit()
}
