package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/voxera-dev/voxera-api/internal/models"
)

// ReportRepository exposes persistence helpers for evaluation reports.
type ReportRepository interface {
	// CreateWithScores writes the report and its scores in one transaction:
	// both land or neither does.
	CreateWithScores(ctx context.Context, report *models.Report) error
	GetByInterview(ctx context.Context, interviewID uint) (models.Report, error)
	ExistsForInterview(ctx context.Context, interviewID uint) (bool, error)
	ListByTest(ctx context.Context, testID uint) ([]models.Report, []models.Interview, error)
}

// NewReportRepository constructs a report repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

type reportRepository struct {
	db *gorm.DB
}

func (r *reportRepository) CreateWithScores(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(report).Error
	})
}

func (r *reportRepository) GetByInterview(ctx context.Context, interviewID uint) (models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).
		Preload("Scores").
		Where("interview_id = ?", interviewID).
		First(&report).Error
	if err != nil {
		return models.Report{}, err
	}
	return report, nil
}

func (r *reportRepository) ExistsForInterview(ctx context.Context, interviewID uint) (bool, error) {
	var report models.Report
	err := r.db.WithContext(ctx).
		Select("id").
		Where("interview_id = ?", interviewID).
		First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *reportRepository) ListByTest(ctx context.Context, testID uint) ([]models.Report, []models.Interview, error) {
	var interviews []models.Interview
	err := r.db.WithContext(ctx).
		Preload("Responses").
		Where("test_id = ? AND status = ?", testID, models.InterviewStatusCompleted).
		Order("completed_at DESC").
		Find(&interviews).Error
	if err != nil {
		return nil, nil, err
	}

	ids := make([]uint, 0, len(interviews))
	for _, interview := range interviews {
		ids = append(ids, interview.ID)
	}

	var reports []models.Report
	if len(ids) > 0 {
		err = r.db.WithContext(ctx).
			Preload("Scores").
			Where("interview_id IN ?", ids).
			Find(&reports).Error
		if err != nil {
			return nil, nil, err
		}
	}

	return reports, interviews, nil
}
