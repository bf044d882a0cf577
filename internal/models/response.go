package models

import "time"

// Response is a candidate's recorded answer to one question. The composite unique
// index enforces exactly one response per (interview, question) pair.
type Response struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	InterviewID uint      `gorm:"not null;uniqueIndex:idx_interview_question" json:"interview_id"`
	QuestionID  uint      `gorm:"not null;uniqueIndex:idx_interview_question" json:"question_id"`
	Transcript  string    `gorm:"type:text" json:"transcript"`
	AudioURL    string    `gorm:"size:512" json:"audio_url"`
	CreatedAt   time.Time `json:"created_at"`
	Question    Question  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"question"`
}
