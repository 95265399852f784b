package models

import "time"

// Prediction directions and game results.
const (
	PredictionUp   = "up"
	PredictionDown = "down"

	ResultPending = "pending"
	ResultWin     = "win"
	ResultLose    = "lose"
)

// PredictGame is a short-lived up/down guessing round. Lifecycle:
// created pending → prediction attached → resolved exactly once.
type PredictGame struct {
	ID         string     `gorm:"primaryKey" json:"id"`
	UserID     string     `gorm:"index;not null" json:"userId"`
	StockCode  string     `json:"stockCode"`
	StockName  string     `json:"stockName"`
	StartPrice float64    `json:"startPrice"`
	StartTime  time.Time  `json:"startTime"`
	Prediction string     `json:"prediction,omitempty"`
	EndPrice   *float64   `json:"endPrice,omitempty"`
	EndTime    *time.Time `json:"endTime,omitempty"`
	Result     string     `json:"result"`
	Points     int        `json:"points"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Resolved reports whether the game already has a final outcome.
func (g *PredictGame) Resolved() bool {
	return g.Result == ResultWin || g.Result == ResultLose
}
