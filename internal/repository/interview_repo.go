package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/voxera-dev/voxera-api/internal/models"
)

// InterviewRepository exposes persistence helpers for interview sessions.
type InterviewRepository interface {
	Create(ctx context.Context, interview *models.Interview) error
	Update(ctx context.Context, interview *models.Interview) error
	GetByID(ctx context.Context, id uint) (models.Interview, error)
	// GetWithResponses loads an interview with its responses ordered by the owning
	// question's order index, the order the evaluation pipeline expects.
	GetWithResponses(ctx context.Context, id uint) (models.Interview, error)
}

// NewInterviewRepository constructs an interview repository.
func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

type interviewRepository struct {
	db *gorm.DB
}

func (r *interviewRepository) Create(ctx context.Context, interview *models.Interview) error {
	return r.db.WithContext(ctx).Create(interview).Error
}

func (r *interviewRepository) Update(ctx context.Context, interview *models.Interview) error {
	return r.db.WithContext(ctx).Save(interview).Error
}

func (r *interviewRepository) GetByID(ctx context.Context, id uint) (models.Interview, error) {
	var interview models.Interview
	err := r.db.WithContext(ctx).First(&interview, id).Error
	if err != nil {
		return models.Interview{}, err
	}
	return interview, nil
}

func (r *interviewRepository) GetWithResponses(ctx context.Context, id uint) (models.Interview, error) {
	var interview models.Interview
	err := r.db.WithContext(ctx).
		Preload("Test").
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Joins("JOIN questions ON questions.id = responses.question_id").
				Order("questions.order_index ASC")
		}).
		Preload("Responses.Question").
		First(&interview, id).Error
	if err != nil {
		return models.Interview{}, err
	}
	return interview, nil
}
