package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/herbolario-backend/internal/logger"
	"github.com/yungbote/herbolario-backend/internal/types"
)

type BenefitRepo interface {
	Create(ctx context.Context, tx *gorm.DB, benefits []*types.Benefit) ([]*types.Benefit, error)
	GetByPlantIDs(ctx context.Context, tx *gorm.DB, plantIDs []uuid.UUID) ([]*types.Benefit, error)
	DeleteByPlantIDs(ctx context.Context, tx *gorm.DB, plantIDs []uuid.UUID) (int64, error)
}

type benefitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBenefitRepo(db *gorm.DB, baseLog *logger.Logger) BenefitRepo {
	repoLog := baseLog.With("repo", "BenefitRepo")
	return &benefitRepo{db: db, log: repoLog}
}

func (br *benefitRepo) Create(ctx context.Context, tx *gorm.DB, benefits []*types.Benefit) ([]*types.Benefit, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	if len(benefits) == 0 {
		return []*types.Benefit{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&benefits).Error; err != nil {
		return nil, err
	}
	return benefits, nil
}

func (br *benefitRepo) GetByPlantIDs(ctx context.Context, tx *gorm.DB, plantIDs []uuid.UUID) ([]*types.Benefit, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	var results []*types.Benefit
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

func (br *benefitRepo) DeleteByPlantIDs(ctx context.Context, tx *gorm.DB, plantIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	if len(plantIDs) == 0 {
		return 0, nil
	}

	res := transaction.WithContext(ctx).
		Where("plant_id IN ?", plantIDs).
		Delete(&types.Benefit{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
