package models

import (
	"time"

	"gorm.io/gorm"
)

// UserProgress tracks gamified progression for each user (denormalized for performance).
// One row per user; created lazily on first touch and only ever mutated through
// ProgressionService.RecordAnswer, the single writer.
type UserProgress struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"userId"`

	// Core counters
	TotalCards     int `json:"totalCards" gorm:"default:0"`
	TotalQuestions int `json:"totalQuestions" gorm:"default:0"`
	TotalCorrect   int `json:"totalCorrect" gorm:"default:0"`

	// Current answer streak; reset to 0 on a wrong answer.
	Streak int `json:"streak" gorm:"default:0"`

	Exp   int `json:"exp" gorm:"default:0"`
	Level int `json:"level" gorm:"default:1"`

	Timestamps
}

// StockProgress counts answered questions per (user, stock). AnsweredIDs keeps
// per-question dedupe so replaying a question never re-counts.
type StockProgress struct {
	ID                string   `gorm:"primaryKey;type:uuid" json:"id"`
	UserID            string   `gorm:"uniqueIndex:idx_user_stock;not null" json:"userId"`
	StockCode         string   `gorm:"uniqueIndex:idx_user_stock;not null" json:"stockCode"`
	QuestionsAnswered int      `json:"questionsAnswered" gorm:"default:0"`
	CorrectCount      int      `json:"correctCount" gorm:"default:0"`
	AnsweredIDs       []string `gorm:"serializer:json" json:"answeredIds"`

	Timestamps
}

// Answered reports whether the question was already counted for this stock.
func (p *StockProgress) Answered(questionID string) bool {
	for _, id := range p.AnsweredIDs {
		if id == questionID {
			return true
		}
	}
	return false
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
