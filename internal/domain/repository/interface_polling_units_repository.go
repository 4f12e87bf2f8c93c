package repository

import (
	"context"
	"errors"

	"PollingNav-App/internal/domain/model"
)

// ErrNotFound は対象のデータが存在しない場合のエラー
var ErrNotFound = errors.New("not found")

// PollingUnitsRepository は投票所の検索を行うリポジトリインターフェース
type PollingUnitsRepository interface {
	// FindByCode は正規化済みコードに一致する投票所を返す（存在しない場合は ErrNotFound）
	FindByCode(ctx context.Context, code model.PollingUnitCode) (*model.PollingUnit, error)
}
