package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/herbolario-backend/internal/logger"
	"github.com/yungbote/herbolario-backend/internal/types"
)

type ScientificBackingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, backings []*types.ScientificBacking) ([]*types.ScientificBacking, error)
	GetByPlantIDs(ctx context.Context, tx *gorm.DB, plantIDs []uuid.UUID) ([]*types.ScientificBacking, error)
	DeleteByPlantIDs(ctx context.Context, tx *gorm.DB, plantIDs []uuid.UUID) (int64, error)
}

type scientificBackingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScientificBackingRepo(db *gorm.DB, baseLog *logger.Logger) ScientificBackingRepo {
	repoLog := baseLog.With("repo", "ScientificBackingRepo")
	return &scientificBackingRepo{db: db, log: repoLog}
}

func (sr *scientificBackingRepo) Create(ctx context.Context, tx *gorm.DB, backings []*types.ScientificBacking) ([]*types.ScientificBacking, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if len(backings) == 0 {
		return []*types.ScientificBacking{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&backings).Error; err != nil {
		return nil, err
	}
	return backings, nil
}

func (sr *scientificBackingRepo) GetByPlantIDs(ctx context.Context, tx *gorm.DB, plantIDs []uuid.UUID) ([]*types.ScientificBacking, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.ScientificBacking
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

func (sr *scientificBackingRepo) DeleteByPlantIDs(ctx context.Context, tx *gorm.DB, plantIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if len(plantIDs) == 0 {
		return 0, nil
	}

	res := transaction.WithContext(ctx).
		Where("plant_id IN ?", plantIDs).
		Delete(&types.ScientificBacking{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
