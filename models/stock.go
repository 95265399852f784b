package models

import (
	"time"
)

// BasicInfo describes the company behind a stock.
type BasicInfo struct {
	Established  string `json:"established"`
	Headquarters string `json:"headquarters"`
	Employees    int    `json:"employees"`
	MainBusiness string `json:"mainBusiness"`
}

// Financials holds the headline figures shown on the learning cards.
// Revenue/profit/market cap are in 亿元.
type Financials struct {
	Revenue    float64 `json:"revenue"`
	Profit     float64 `json:"profit"`
	GrowthRate float64 `json:"growthRate"`
	ROE        float64 `json:"roe"`
}

type Valuation struct {
	PE        float64 `json:"pe"`
	PB        float64 `json:"pb"`
	MarketCap float64 `json:"marketCap"`
	Analysis  string  `json:"analysis"`
}

// Stock is seeded reference data: created once at startup, read-only afterwards.
type Stock struct {
	Code          string  `gorm:"primaryKey" json:"code"`
	Name          string  `gorm:"not null" json:"name"`
	CurrentPrice  float64 `json:"currentPrice"`
	ChangePercent float64 `json:"changePercent"`
	Market        string  `json:"market"`
	Industry      string  `json:"industry"`
	Description   string  `json:"description"`

	BasicInfo  BasicInfo  `gorm:"serializer:json" json:"basicInfo"`
	Financials Financials `gorm:"serializer:json" json:"financials"`
	Valuation  Valuation  `gorm:"serializer:json" json:"valuation"`

	WhyHot         string `json:"whyHot"`
	FutureAnalysis string `json:"futureAnalysis"`

	// FeaturedRank orders the "today" selection; rotated daily by the scheduler.
	FeaturedRank int `gorm:"index" json:"-"`

	// ArtworkURL is derived from the asset store config, never persisted.
	ArtworkURL string `gorm:"-" json:"artworkUrl,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
