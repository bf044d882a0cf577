package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/voxera-dev/voxera-api/internal/models"
)

// TestRepository exposes persistence helpers for tests and their questions.
type TestRepository interface {
	Create(ctx context.Context, test *models.Test) error
	GetByID(ctx context.Context, id uint) (models.Test, error)
	GetByAccessCode(ctx context.Context, code string) (models.Test, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Test, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

// NewTestRepository constructs a test repository.
func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

type testRepository struct {
	db *gorm.DB
}

func (r *testRepository) Create(ctx context.Context, test *models.Test) error {
	return r.db.WithContext(ctx).Create(test).Error
}

func (r *testRepository) GetByID(ctx context.Context, id uint) (models.Test, error) {
	var test models.Test
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		First(&test, id).Error
	if err != nil {
		return models.Test{}, err
	}
	return test, nil
}

func (r *testRepository) GetByAccessCode(ctx context.Context, code string) (models.Test, error) {
	var test models.Test
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Where("access_code = ?", code).
		First(&test).Error
	if err != nil {
		return models.Test{}, err
	}
	return test, nil
}

func (r *testRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Test, error) {
	var tests []models.Test
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Where("created_by_id = ?", ownerID).
		Order("created_at DESC").
		Find(&tests).Error
	return tests, err
}

func (r *testRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Test{}).
		Where("id = ?", id).
		Update("status", status).Error
}
