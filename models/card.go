package models

import "time"

// Card rarity tiers, ordered N < R < SR < SSR.
const (
	RarityN   = "N"
	RarityR   = "R"
	RaritySR  = "SR"
	RaritySSR = "SSR"
)

// StockCard is the collectible reward for mastering one stock. At most one per
// (user, stock code); rarity is fixed from accuracy at the moment the card is
// earned and never recomputed.
type StockCard struct {
	ID                string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID            string    `gorm:"uniqueIndex:idx_user_card;not null" json:"userId"`
	Code              string    `gorm:"uniqueIndex:idx_user_card;not null" json:"code"`
	Name              string    `json:"name"`
	Industry          string    `json:"industry"`
	Rarity            string    `json:"rarity"`
	QuestionsAnswered int       `json:"questionsAnswered"`
	CorrectCount      int       `json:"correctCount"`
	ObtainedAt        time.Time `json:"obtainedAt"`
	Theme             string    `json:"theme"`

	// ArtworkURL comes from the asset store config when available.
	ArtworkURL string `gorm:"-" json:"artworkUrl,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Theme groups cards into a collection set. Completion is evaluated on demand
// from owned card codes, not persisted.
type Theme struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Icon          string   `json:"icon"`
	Description   string   `json:"description"`
	RequiredCards []string `json:"requiredCards"`
	Reward        string   `json:"reward"`
}

// Themes is the static theme catalog.
var Themes = []Theme{
	{
		ID:            "new-energy",
		Name:          "新能源赛道",
		Icon:          "⚡",
		Description:   "集齐新能源产业链核心公司",
		RequiredCards: []string{"002594", "300750"},
		Reward:        "「新能源研究员」称号",
	},
	{
		ID:            "tech",
		Name:          "科技先锋",
		Icon:          "🚀",
		Description:   "集齐硬核科技公司",
		RequiredCards: []string{"688666"},
		Reward:        "「科技猎手」称号",
	},
	{
		ID:            "consumer",
		Name:          "消费龙头",
		Icon:          "🍷",
		Description:   "集齐消费行业龙头",
		RequiredCards: []string{"600519"},
		Reward:        "「消费专家」称号",
	},
	{
		ID:            "finance",
		Name:          "金融巨头",
		Icon:          "🏦",
		Description:   "集齐金融行业核心标的",
		RequiredCards: []string{"000001"},
		Reward:        "「金融达人」称号",
	},
	{
		ID:            "military",
		Name:          "军工力量",
		Icon:          "🛡️",
		Description:   "集齐军工国防概念股",
		RequiredCards: []string{"600118"},
		Reward:        "「军工专家」称号",
	},
}

// ThemeForStock maps a stock code to its theme tag; "other" when unmapped.
func ThemeForStock(code string) string {
	for _, t := range Themes {
		for _, c := range t.RequiredCards {
			if c == code {
				return t.ID
			}
		}
	}
	return "other"
}
