package models

import "time"

// AchievementType: static registry entry (the single source of truth for both
// the per-answer reward path and session completion).
type AchievementType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	Condition   string `json:"condition"`
	Target      int    `json:"target"`
}

// UserAchievement: per-user tracked instance. Progress only increases and
// Unlocked is sticky once true.
type UserAchievement struct {
	ID            string     `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string     `gorm:"uniqueIndex:idx_user_achievement;not null" json:"userId"`
	AchievementID string     `gorm:"uniqueIndex:idx_user_achievement;not null" json:"achievementId"`
	Progress      int        `json:"progress" gorm:"default:0"`
	Target        int        `json:"target"`
	Unlocked      bool       `json:"unlocked" gorm:"default:false"`
	UnlockedAt    *time.Time `json:"unlockedAt,omitempty"`

	Timestamps
}

// AchievementTypes is the full registry. theme-complete exists in
// configuration but has no evaluation rule yet; it stays locked.
var AchievementTypes = []AchievementType{
	{ID: "first-card", Name: "初入股海", Icon: "🎯", Description: "获得第一张公司卡片", Condition: "完成任意股票3道题", Target: 1},
	{ID: "five-cards", Name: "小有收获", Icon: "📚", Description: "收集5张公司卡片", Condition: "学习5家不同公司", Target: 5},
	{ID: "first-sr", Name: "稀有收藏", Icon: "💎", Description: "获得第一张SR卡片", Condition: "答对率超过70%", Target: 1},
	{ID: "first-ssr", Name: "传说降临", Icon: "👑", Description: "获得第一张SSR卡片", Condition: "答对率超过90%", Target: 1},
	{ID: "streak-3", Name: "小试牛刀", Icon: "🔥", Description: "连续答对3题", Condition: "连续答对3题", Target: 3},
	{ID: "streak-7", Name: "势如破竹", Icon: "⚡", Description: "连续答对7题", Condition: "连续答对7题", Target: 7},
	{ID: "theme-complete", Name: "主题大师", Icon: "🏆", Description: "点亮第一个主题", Condition: "集齐一个主题的所有卡片", Target: 1},
	{ID: "questions-50", Name: "求知若渴", Icon: "📖", Description: "累计回答50道题", Condition: "回答50道题目", Target: 50},
	{ID: "questions-100", Name: "学海无涯", Icon: "🎓", Description: "累计回答100道题", Condition: "回答100道题目", Target: 100},
	{ID: "perfect-stock", Name: "满分股神", Icon: "💯", Description: "某只股票全部答对", Condition: "一只股票10题全对", Target: 1},
}

// AchievementTypeByID looks up a registry entry.
func AchievementTypeByID(id string) (AchievementType, bool) {
	for _, a := range AchievementTypes {
		if a.ID == id {
			return a, true
		}
	}
	return AchievementType{}, false
}
