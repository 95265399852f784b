package services

import (
	"errors"
	"log"
	"time"

	"stock-learning-system/models"
	"stock-learning-system/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Experience rewards.
const (
	expCorrectAnswer = 15
	expWrongAnswer   = 5
)

// levelThresholds maps total experience to a level: the level is the highest
// index whose threshold is ≤ exp.
var levelThresholds = []int{0, 100, 300, 600, 1000, 1500, 2100, 2800, 3600, 4500, 5500}

// cardThreshold: a stock's card is issued when its answered-question count
// first reaches this value.
const cardThreshold = 3

type ProgressionService struct {
	DB *gorm.DB
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{DB: db}
}

// LevelInfo is the derived level view returned alongside progress.
type LevelInfo struct {
	Level      int     `json:"level"`
	Title      string  `json:"title"`
	CurrentExp int     `json:"currentExp"`
	NeedExp    int     `json:"needExp"`
	Progress   float64 `json:"progress"`
}

// ComputeLevel maps total experience to a level plus fractional progress
// toward the next threshold.
func ComputeLevel(exp int) LevelInfo {
	level := 1
	for i, threshold := range levelThresholds {
		if exp >= threshold {
			level = i + 1
		}
	}
	currentLevelExp := levelThresholds[len(levelThresholds)-1]
	if level-1 < len(levelThresholds) {
		currentLevelExp = levelThresholds[level-1]
	}
	nextLevelExp := levelThresholds[len(levelThresholds)-1]
	if level < len(levelThresholds) {
		nextLevelExp = levelThresholds[level]
	}

	info := LevelInfo{
		Level:      level,
		Title:      levelTitle(level),
		CurrentExp: exp - currentLevelExp,
		NeedExp:    nextLevelExp - currentLevelExp,
	}
	if info.NeedExp > 0 {
		info.Progress = float64(info.CurrentExp) / float64(info.NeedExp)
	} else {
		info.Progress = 1
	}
	return info
}

func levelTitle(level int) string {
	switch {
	case level >= 10:
		return "股市大师"
	case level >= 7:
		return "资深股民"
	case level >= 4:
		return "进阶学员"
	default:
		return "新手上路"
	}
}

// EnsureProgressRecord guarantees a UserProgress row and the full set of
// achievement rows exist for the user (idempotent).
func (s *ProgressionService) EnsureProgressRecord(userID string) (*models.UserProgress, error) {
	var prog models.UserProgress
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		p, err := ensureProgress(tx, userID)
		if err != nil {
			return err
		}
		if err := ensureAchievements(tx, userID); err != nil {
			return err
		}
		prog = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &prog, nil
}

func ensureProgress(tx *gorm.DB, userID string) (*models.UserProgress, error) {
	var prog models.UserProgress
	err := tx.Where("user_id = ?", userID).First(&prog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		prog = models.UserProgress{
			ID:     uuid.NewString(),
			UserID: userID,
			Level:  1,
		}
		if err := tx.Create(&prog).Error; err != nil {
			return nil, err
		}
		return &prog, nil
	}
	if err != nil {
		return nil, err
	}
	return &prog, nil
}

func ensureAchievements(tx *gorm.DB, userID string) error {
	var existing []models.UserAchievement
	if err := tx.Where("user_id = ?", userID).Find(&existing).Error; err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, ua := range existing {
		have[ua.AchievementID] = true
	}
	for _, at := range models.AchievementTypes {
		if have[at.ID] {
			continue
		}
		ua := models.UserAchievement{
			ID:            uuid.NewString(),
			UserID:        userID,
			AchievementID: at.ID,
			Target:        at.Target,
		}
		if err := tx.Create(&ua).Error; err != nil {
			return err
		}
	}
	return nil
}

// AnswerResult is what one RecordAnswer call produced.
type AnswerResult struct {
	Progress      models.UserProgress  `json:"progress"`
	LevelInfo     LevelInfo            `json:"levelInfo"`
	StockProgress models.StockProgress `json:"stockProgress"`
	NewCard       *models.StockCard    `json:"newCard,omitempty"`
	Duplicate     bool                 `json:"duplicate"`
}

// RecordAnswer is the single writer over the reward state: one transactional
// read-modify-write covering totals, streak, experience, achievement
// re-evaluation and card issuance. A question id that was already counted for
// the stock leaves every aggregate untouched.
func (s *ProgressionService) RecordAnswer(userID, stockCode, questionID string, correct bool) (*AnswerResult, error) {
	var result AnswerResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		prog, err := ensureProgress(tx, userID)
		if err != nil {
			return err
		}
		if err := ensureAchievements(tx, userID); err != nil {
			return err
		}

		stockProg, err := ensureStockProgress(tx, userID, stockCode)
		if err != nil {
			return err
		}

		if stockProg.Answered(questionID) {
			result = AnswerResult{
				Progress:      *prog,
				LevelInfo:     ComputeLevel(prog.Exp),
				StockProgress: *stockProg,
				Duplicate:     true,
			}
			return nil
		}

		stockProg.QuestionsAnswered++
		if correct {
			stockProg.CorrectCount++
		}
		stockProg.AnsweredIDs = append(stockProg.AnsweredIDs, questionID)
		if err := tx.Save(stockProg).Error; err != nil {
			return err
		}

		prog.TotalQuestions++
		if correct {
			prog.TotalCorrect++
			prog.Streak++
			prog.Exp += expCorrectAnswer
		} else {
			prog.Streak = 0
			prog.Exp += expWrongAnswer
		}

		var newCard *models.StockCard
		if stockProg.QuestionsAnswered == cardThreshold {
			newCard, err = issueCard(tx, prog, stockProg)
			if err != nil {
				return err
			}
		}

		prog.Level = ComputeLevel(prog.Exp).Level
		if err := tx.Save(prog).Error; err != nil {
			return err
		}

		snap := RewardSnapshot{
			TotalCards:     prog.TotalCards,
			TotalQuestions: prog.TotalQuestions,
			Streak:         prog.Streak,
		}
		if err := evaluateAchievements(tx, userID, snap); err != nil {
			return err
		}

		result = AnswerResult{
			Progress:      *prog,
			LevelInfo:     ComputeLevel(prog.Exp),
			StockProgress: *stockProg,
			NewCard:       newCard,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func ensureStockProgress(tx *gorm.DB, userID, stockCode string) (*models.StockProgress, error) {
	var sp models.StockProgress
	err := tx.Where("user_id = ? AND stock_code = ?", userID, stockCode).First(&sp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sp = models.StockProgress{
			ID:          uuid.NewString(),
			UserID:      userID,
			StockCode:   stockCode,
			AnsweredIDs: []string{},
		}
		if err := tx.Create(&sp).Error; err != nil {
			return nil, err
		}
		return &sp, nil
	}
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

// issueCard creates the stock's card exactly once, with rarity frozen from
// accuracy at this moment, and applies the rarity experience bonus plus the
// first-card/first-sr/first-ssr unlocks. Re-triggering the threshold for a
// stock that already has a card does nothing.
func issueCard(tx *gorm.DB, prog *models.UserProgress, sp *models.StockProgress) (*models.StockCard, error) {
	var count int64
	if err := tx.Model(&models.StockCard{}).
		Where("user_id = ? AND code = ?", prog.UserID, sp.StockCode).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil
	}

	accuracy := float64(sp.CorrectCount) / float64(sp.QuestionsAnswered)
	rarity := RarityForAccuracy(accuracy)

	name, industry := cardIdentity(tx, sp.StockCode)
	card := models.StockCard{
		ID:                uuid.NewString(),
		UserID:            prog.UserID,
		Code:              sp.StockCode,
		Name:              name,
		Industry:          industry,
		Rarity:            rarity,
		QuestionsAnswered: sp.QuestionsAnswered,
		CorrectCount:      sp.CorrectCount,
		ObtainedAt:        time.Now(),
		Theme:             models.ThemeForStock(sp.StockCode),
	}
	if err := tx.Create(&card).Error; err != nil {
		return nil, err
	}

	prog.TotalCards++
	prog.Exp += expBonusForRarity(rarity)

	if err := forceUnlock(tx, prog.UserID, "first-card"); err != nil {
		return nil, err
	}
	if rarity == models.RaritySR || rarity == models.RaritySSR {
		if err := forceUnlock(tx, prog.UserID, "first-sr"); err != nil {
			return nil, err
		}
	}
	if rarity == models.RaritySSR {
		if err := forceUnlock(tx, prog.UserID, "first-ssr"); err != nil {
			return nil, err
		}
	}

	log.Printf("🎴 Card issued: %s → %s (%s)", prog.UserID, sp.StockCode, rarity)
	card.ArtworkURL = utils.CardArtworkURL(card.Name)
	return &card, nil
}

func cardIdentity(tx *gorm.DB, code string) (name, industry string) {
	var stock models.Stock
	if err := tx.Where("code = ?", code).First(&stock).Error; err != nil {
		return "未知股票", "未知行业"
	}
	if stock.Industry == "" {
		return stock.Name, "未知行业"
	}
	return stock.Name, stock.Industry
}

// RarityForAccuracy maps answer accuracy to a rarity tier. Thresholds are
// inclusive: exactly 0.9 is SSR, 0.7 is SR, 0.5 is R.
func RarityForAccuracy(accuracy float64) string {
	switch {
	case accuracy >= 0.9:
		return models.RaritySSR
	case accuracy >= 0.7:
		return models.RaritySR
	case accuracy >= 0.5:
		return models.RarityR
	default:
		return models.RarityN
	}
}

func expBonusForRarity(rarity string) int {
	switch rarity {
	case models.RaritySSR:
		return 100
	case models.RaritySR:
		return 50
	case models.RarityR:
		return 25
	default:
		return 10
	}
}

// evaluateAchievements applies the registry rules to all not-yet-unlocked
// achievements. Progress never regresses and an unlocked achievement is never
// touched again.
func evaluateAchievements(tx *gorm.DB, userID string, snap RewardSnapshot) error {
	var achievements []models.UserAchievement
	if err := tx.Where("user_id = ? AND unlocked = ?", userID, false).Find(&achievements).Error; err != nil {
		return err
	}
	for i := range achievements {
		ua := &achievements[i]
		next := progressForAchievement(ua.AchievementID, ua.Progress, snap)
		if next < 0 || next == ua.Progress {
			continue
		}
		if next < ua.Progress {
			next = ua.Progress
		}
		ua.Progress = next
		if ua.Progress >= ua.Target {
			now := time.Now()
			ua.Unlocked = true
			ua.UnlockedAt = &now
			log.Printf("🎖️ Achievement unlocked: %s → %s", ua.AchievementID, userID)
		}
		if err := tx.Save(ua).Error; err != nil {
			return err
		}
	}
	return nil
}

// forceUnlock marks an achievement unlocked regardless of its rule, used by
// card issuance events. No-op if already unlocked.
func forceUnlock(tx *gorm.DB, userID, achievementID string) error {
	var ua models.UserAchievement
	err := tx.Where("user_id = ? AND achievement_id = ?", userID, achievementID).First(&ua).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if ua.Unlocked {
		return nil
	}
	now := time.Now()
	if ua.Progress < ua.Target {
		ua.Progress = ua.Target
	}
	ua.Unlocked = true
	ua.UnlockedAt = &now
	log.Printf("🎖️ Achievement unlocked: %s → %s", achievementID, userID)
	return tx.Save(&ua).Error
}

// GetProgress returns the aggregate with derived level info.
func (s *ProgressionService) GetProgress(userID string) (*models.UserProgress, LevelInfo, error) {
	prog, err := s.EnsureProgressRecord(userID)
	if err != nil {
		return nil, LevelInfo{}, err
	}
	return prog, ComputeLevel(prog.Exp), nil
}

// GetCards returns the user's collection, newest first.
func (s *ProgressionService) GetCards(userID string) ([]models.StockCard, error) {
	var cards []models.StockCard
	if err := s.DB.Where("user_id = ?", userID).Order("obtained_at DESC").Find(&cards).Error; err != nil {
		return nil, err
	}
	for i := range cards {
		cards[i].ArtworkURL = utils.CardArtworkURL(cards[i].Name)
	}
	return cards, nil
}

// GetAchievements returns the user's achievement rows merged with registry
// metadata, in registry order.
func (s *ProgressionService) GetAchievements(userID string) ([]map[string]interface{}, error) {
	if _, err := s.EnsureProgressRecord(userID); err != nil {
		return nil, err
	}
	var rows []models.UserAchievement
	if err := s.DB.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]models.UserAchievement, len(rows))
	for _, ua := range rows {
		byID[ua.AchievementID] = ua
	}

	out := make([]map[string]interface{}, 0, len(models.AchievementTypes))
	for _, at := range models.AchievementTypes {
		ua := byID[at.ID]
		out = append(out, map[string]interface{}{
			"id":          at.ID,
			"name":        at.Name,
			"icon":        at.Icon,
			"description": at.Description,
			"condition":   at.Condition,
			"progress":    ua.Progress,
			"target":      at.Target,
			"unlocked":    ua.Unlocked,
			"unlockedAt":  ua.UnlockedAt,
		})
	}
	return out, nil
}

// ThemeStatus is one theme's completion view, computed on demand.
type ThemeStatus struct {
	Theme    models.Theme `json:"theme"`
	Owned    []string     `json:"owned"`
	Progress float64      `json:"progress"`
	Complete bool         `json:"complete"`
}

// GetThemes evaluates theme completion from owned card codes.
func (s *ProgressionService) GetThemes(userID string) ([]ThemeStatus, error) {
	cards, err := s.GetCards(userID)
	if err != nil {
		return nil, err
	}
	ownedCodes := make(map[string]bool, len(cards))
	for _, c := range cards {
		ownedCodes[c.Code] = true
	}

	statuses := make([]ThemeStatus, 0, len(models.Themes))
	for _, theme := range models.Themes {
		status := ThemeStatus{Theme: theme, Owned: []string{}}
		for _, code := range theme.RequiredCards {
			if ownedCodes[code] {
				status.Owned = append(status.Owned, code)
			}
		}
		if len(theme.RequiredCards) > 0 {
			status.Progress = float64(len(status.Owned)) / float64(len(theme.RequiredCards))
		}
		status.Complete = len(status.Owned) == len(theme.RequiredCards)
		statuses = append(statuses, status)
	}
	return statuses, nil
}
