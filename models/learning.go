package models

import "time"

// Task kinds. The closed set matches the curriculum templates.
const (
	TaskReading = "reading"
	TaskChoice  = "choice"
	TaskPuzzle  = "puzzle"
	TaskFill    = "fill"
)

// LearningTask is one graded activity inside a session. Content is an opaque
// payload whose shape depends on Type (section reference, question/options,
// puzzle pieces).
type LearningTask struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Content   map[string]interface{} `json:"content"`
	Points    int                    `json:"points"`
	Completed bool                   `json:"completed"`
	Score     *int                   `json:"score,omitempty"`
}

// LearningSession is one user's guided walk through the fixed curriculum for
// one stock. Tasks live on the session row as a serialized document so a
// session is always read and written as a unit.
type LearningSession struct {
	ID           string         `gorm:"primaryKey" json:"id"`
	UserID       string         `gorm:"index;not null" json:"userId"`
	StockCode    string         `gorm:"index" json:"stockCode"`
	StartTime    time.Time      `json:"startTime"`
	EndTime      *time.Time     `json:"endTime,omitempty"`
	Progress     int            `json:"progress"`
	TotalScore   int            `json:"totalScore"`
	Tasks        []LearningTask `gorm:"serializer:json" json:"tasks"`
	Achievements []string       `gorm:"serializer:json" json:"achievements"`
	Completed    bool           `json:"completed"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
