package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question is a multiple-choice item. Ownership is never stored here; it is
// always resolved through the parent quiz.
type Question struct {
	ID        string                      `json:"id" gorm:"type:varchar(36);primaryKey"`
	QuizID    string                      `json:"quizId" gorm:"type:varchar(36);not null;index"`
	Question  string                      `json:"question" gorm:"not null"`
	Options   datatypes.JSONSlice[string] `json:"options" gorm:"not null"`
	Answer    string                      `json:"answer" gorm:"not null"`
	CreatedAt time.Time                   `json:"createdAt"`
	UpdatedAt time.Time                   `json:"updatedAt"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}
