package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/herbolario-backend/internal/logger"
	"github.com/yungbote/herbolario-backend/internal/types"
)

type UsageMethodRepo interface {
	Create(ctx context.Context, tx *gorm.DB, methods []*types.UsageMethod) ([]*types.UsageMethod, error)
	GetByPlantIDs(ctx context.Context, tx *gorm.DB, plantIDs []uuid.UUID) ([]*types.UsageMethod, error)
	DeleteByPlantIDs(ctx context.Context, tx *gorm.DB, plantIDs []uuid.UUID) (int64, error)
}

type usageMethodRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUsageMethodRepo(db *gorm.DB, baseLog *logger.Logger) UsageMethodRepo {
	repoLog := baseLog.With("repo", "UsageMethodRepo")
	return &usageMethodRepo{db: db, log: repoLog}
}

func (ur *usageMethodRepo) Create(ctx context.Context, tx *gorm.DB, methods []*types.UsageMethod) ([]*types.UsageMethod, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	if len(methods) == 0 {
		return []*types.UsageMethod{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}

func (ur *usageMethodRepo) GetByPlantIDs(ctx context.Context, tx *gorm.DB, plantIDs []uuid.UUID) ([]*types.UsageMethod, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*types.UsageMethod
	if len(plantIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("plant_id IN ?", plantIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *usageMethodRepo) DeleteByPlantIDs(ctx context.Context, tx *gorm.DB, plantIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	if len(plantIDs) == 0 {
		return 0, nil
	}

	res := transaction.WithContext(ctx).
		Where("plant_id IN ?", plantIDs).
		Delete(&types.UsageMethod{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
