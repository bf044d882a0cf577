package models

import "time"

// Recording stores metadata about an uploaded audio answer.
type Recording struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FileName    string    `gorm:"size:255;not null" json:"file_name"`
	URL         string    `gorm:"size:512;not null" json:"url"`
	SHA256      string    `gorm:"size:64;index" json:"sha256"`
	SizeBytes   int64     `gorm:"not null" json:"size_bytes"`
	ContentType string    `gorm:"size:64" json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}
