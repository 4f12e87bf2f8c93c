package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"PollingNav-App/internal/domain/model"
	"PollingNav-App/internal/domain/repository"
	"PollingNav-App/internal/infrastructure/database"
)

type SupabasePollingUnitsRepository struct {
	client *database.SupabaseClient
}

func NewSupabasePollingUnitsRepository(client *database.SupabaseClient) repository.PollingUnitsRepository {
	return &SupabasePollingUnitsRepository{
		client: client,
	}
}

// pollingUnitRow Supabase（PostgREST）が返す行
type pollingUnitRow struct {
	ID       string    `json:"id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	WardName string    `json:"ward_name"`
	LGA      string    `json:"lga"`
	Location *GeoPoint `json:"location"`
}

func (r *SupabasePollingUnitsRepository) FindByCode(ctx context.Context, code model.PollingUnitCode) (*model.PollingUnit, error) {
	var rows []pollingUnitRow
	data, _, err := r.client.GetClient().From("polling_units").
		Select("id,code,name,ward_name,lga,location", "exact", false).
		Eq("code", code.Normalized()).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("投票所データの取得失敗: %w", err)
	}

	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("投票所データのJSONアンマーシャル失敗: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("投票所 %s: %w", code.Normalized(), repository.ErrNotFound)
	}

	row := rows[0]
	unit := &model.PollingUnit{
		ID:       row.ID,
		Code:     row.Code,
		Name:     row.Name,
		WardName: row.WardName,
		LGA:      row.LGA,
	}
	if loc := GeoPointToLocation(row.Location); loc != nil {
		unit.Location = loc.ToGeometry()
	}
	return unit, nil
}
