package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/voxera-dev/voxera-api/internal/models"
)

// RecordingRepository persists metadata about uploaded audio.
type RecordingRepository interface {
	Create(ctx context.Context, recording *models.Recording) error
}

// NewRecordingRepository constructs a repository for recording metadata.
func NewRecordingRepository(db *gorm.DB) RecordingRepository {
	return &recordingRepository{db: db}
}

type recordingRepository struct {
	db *gorm.DB
}

func (r *recordingRepository) Create(ctx context.Context, recording *models.Recording) error {
	return r.db.WithContext(ctx).Create(recording).Error
}
