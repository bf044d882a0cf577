package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/voxera-dev/voxera-api/internal/models"
)

// ResponseRepository exposes persistence helpers for recorded answers.
type ResponseRepository interface {
	Create(ctx context.Context, response *models.Response) error
	Exists(ctx context.Context, interviewID, questionID uint) (bool, error)
	ListByInterview(ctx context.Context, interviewID uint) ([]models.Response, error)
}

// NewResponseRepository constructs a response repository.
func NewResponseRepository(db *gorm.DB) ResponseRepository {
	return &responseRepository{db: db}
}

type responseRepository struct {
	db *gorm.DB
}

func (r *responseRepository) Create(ctx context.Context, response *models.Response) error {
	return r.db.WithContext(ctx).Create(response).Error
}

func (r *responseRepository) Exists(ctx context.Context, interviewID, questionID uint) (bool, error) {
	var response models.Response
	err := r.db.WithContext(ctx).
		Where("interview_id = ? AND question_id = ?", interviewID, questionID).
		First(&response).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *responseRepository) ListByInterview(ctx context.Context, interviewID uint) ([]models.Response, error) {
	var responses []models.Response
	err := r.db.WithContext(ctx).
		Joins("JOIN questions ON questions.id = responses.question_id").
		Where("responses.interview_id = ?", interviewID).
		Order("questions.order_index ASC").
		Preload("Question").
		Find(&responses).Error
	return responses, err
}
