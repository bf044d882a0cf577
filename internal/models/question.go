package models

import "time"

// Question is one timed prompt inside a test. OrderIndex defines presentation and
// grading order; questions are immutable once interviews exist for the test.
type Question struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TestID     uint      `gorm:"not null;index" json:"test_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	TimeLimit  int       `gorm:"not null" json:"time_limit"`
	OrderIndex int       `gorm:"not null" json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
