package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/herbolario-backend/internal/logger"
	"github.com/yungbote/herbolario-backend/internal/types"
)

type PlantRepo interface {
	Create(ctx context.Context, tx *gorm.DB, plants []*types.Plant) ([]*types.Plant, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, withChildren bool) ([]*types.Plant, error)
	GetBySlugs(ctx context.Context, tx *gorm.DB, slugs []string, withChildren bool) ([]*types.Plant, error)
	List(ctx context.Context, tx *gorm.DB, withChildren bool) ([]*types.Plant, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
	SlugExists(ctx context.Context, tx *gorm.DB, slug string) (bool, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type plantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlantRepo(db *gorm.DB, baseLog *logger.Logger) PlantRepo {
	repoLog := baseLog.With("repo", "PlantRepo")
	return &plantRepo{db: db, log: repoLog}
}

func (pr *plantRepo) Create(ctx context.Context, tx *gorm.DB, plants []*types.Plant) ([]*types.Plant, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(plants) == 0 {
		return []*types.Plant{}, nil
	}

	// Children are inserted through their own repos inside the same
	// transaction, never through association writes.
	if err := transaction.WithContext(ctx).Omit("Benefits", "UsageMethods", "ScientificBackings").Create(&plants).Error; err != nil {
		return nil, err
	}
	return plants, nil
}

func (pr *plantRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, withChildren bool) ([]*types.Plant, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Plant
	if len(ids) == 0 {
		return results, nil
	}

	q := transaction.WithContext(ctx)
	if withChildren {
		q = withChildPreloads(q)
	}
	if err := q.Where("id IN ?", ids).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *plantRepo) GetBySlugs(ctx context.Context, tx *gorm.DB, slugs []string, withChildren bool) ([]*types.Plant, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Plant
	if len(slugs) == 0 {
		return results, nil
	}

	q := transaction.WithContext(ctx)
	if withChildren {
		q = withChildPreloads(q)
	}
	if err := q.Where("slug IN ?", slugs).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *plantRepo) List(ctx context.Context, tx *gorm.DB, withChildren bool) ([]*types.Plant, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Plant
	q := transaction.WithContext(ctx)
	if withChildren {
		q = withChildPreloads(q)
	}
	if err := q.Order("created_at, id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *plantRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Plant{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (pr *plantRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	res := transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Plant{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (pr *plantRepo) SlugExists(ctx context.Context, tx *gorm.DB, slug string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Plant{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (pr *plantRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Plant{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func withChildPreloads(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Benefits").
		Preload("UsageMethods").
		Preload("ScientificBackings")
}
