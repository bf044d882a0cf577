package models

import (
	"time"

	"gorm.io/datatypes"
)

// Report is the terminal, immutable output of evaluating one completed interview.
// The unique index on InterviewID enforces at-most-one report per interview at the
// persistence boundary; a report and its scores are always created together.
type Report struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	InterviewID uint              `gorm:"not null;uniqueIndex" json:"interview_id"`
	TotalScore  float64           `gorm:"not null" json:"total_score"`
	Feedback    string            `gorm:"type:text;not null" json:"feedback"`
	Provider    string            `gorm:"size:32" json:"provider"`
	Raw         datatypes.JSONMap `json:"raw"`
	CreatedAt   time.Time         `json:"created_at"`
	Scores      []Score           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"scores"`
}

// Score is one per-question grade inside a report.
type Score struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ReportID   uint      `gorm:"not null;index" json:"report_id"`
	QuestionID uint      `gorm:"not null" json:"question_id"`
	Score      float64   `gorm:"not null" json:"score"`
	Feedback   string    `gorm:"type:text;not null" json:"feedback"`
	CreatedAt  time.Time `json:"created_at"`
}
