package services

import (
	"fmt"
	"testing"
	"time"

	"stock-learning-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProgressionService(t *testing.T) *ProgressionService {
	db := newTestDB(t)
	seedTestCatalog(t, db)
	return NewProgressionService(db)
}

func TestRarityThresholds(t *testing.T) {
	// Thresholds are inclusive; boundary values matter.
	assert.Equal(t, models.RarityN, RarityForAccuracy(0.0))
	assert.Equal(t, models.RarityN, RarityForAccuracy(0.49))
	assert.Equal(t, models.RarityR, RarityForAccuracy(0.5))
	assert.Equal(t, models.RarityR, RarityForAccuracy(0.69))
	assert.Equal(t, models.RaritySR, RarityForAccuracy(0.7))
	assert.Equal(t, models.RaritySR, RarityForAccuracy(0.89))
	assert.Equal(t, models.RaritySSR, RarityForAccuracy(0.9))
	assert.Equal(t, models.RaritySSR, RarityForAccuracy(1.0))
}

func TestComputeLevel(t *testing.T) {
	info := ComputeLevel(0)
	assert.Equal(t, 1, info.Level)
	assert.Equal(t, 0, info.CurrentExp)
	assert.Equal(t, 100, info.NeedExp)
	assert.Equal(t, "新手上路", info.Title)

	info = ComputeLevel(100)
	assert.Equal(t, 2, info.Level)
	assert.Equal(t, 0, info.CurrentExp)
	assert.Equal(t, 200, info.NeedExp)

	info = ComputeLevel(299)
	assert.Equal(t, 2, info.Level)
	assert.Equal(t, 199, info.CurrentExp)

	info = ComputeLevel(1000)
	assert.Equal(t, 5, info.Level)
	assert.Equal(t, "进阶学员", info.Title)

	info = ComputeLevel(5500)
	assert.Equal(t, 11, info.Level)
	assert.Equal(t, "股市大师", info.Title)
	assert.Equal(t, float64(1), info.Progress)
}

func TestEnsureProgressRecordIsIdempotent(t *testing.T) {
	svc := newTestProgressionService(t)

	first, err := svc.EnsureProgressRecord("u1")
	require.NoError(t, err)
	second, err := svc.EnsureProgressRecord("u1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	var count int64
	svc.DB.Model(&models.UserAchievement{}).Where("user_id = ?", "u1").Count(&count)
	assert.Equal(t, int64(len(models.AchievementTypes)), count)
}

func TestRecordAnswerUpdatesTotalsAndExp(t *testing.T) {
	svc := newTestProgressionService(t)

	result, err := svc.RecordAnswer("u1", "000001", "q1", true)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Progress.TotalQuestions)
	assert.Equal(t, 1, result.Progress.TotalCorrect)
	assert.Equal(t, 1, result.Progress.Streak)
	assert.Equal(t, 15, result.Progress.Exp)

	result, err = svc.RecordAnswer("u1", "000001", "q2", false)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Progress.TotalQuestions)
	assert.Equal(t, 1, result.Progress.TotalCorrect)
	assert.Equal(t, 0, result.Progress.Streak) // reset on wrong answer
	assert.Equal(t, 20, result.Progress.Exp)
}

func TestRecordAnswerDeduplicatesQuestions(t *testing.T) {
	svc := newTestProgressionService(t)

	first, err := svc.RecordAnswer("u1", "000001", "q1", true)
	require.NoError(t, err)
	second, err := svc.RecordAnswer("u1", "000001", "q1", true)
	require.NoError(t, err)

	assert.True(t, second.Duplicate)
	assert.Equal(t, first.Progress.TotalQuestions, second.Progress.TotalQuestions)
	assert.Equal(t, first.Progress.Exp, second.Progress.Exp)
	assert.Equal(t, first.StockProgress.QuestionsAnswered, second.StockProgress.QuestionsAnswered)
}

func TestCardIssuedAtThirdAnswerWithFrozenRarity(t *testing.T) {
	svc := newTestProgressionService(t)

	r1, err := svc.RecordAnswer("u1", "600519", "q1", true)
	require.NoError(t, err)
	assert.Nil(t, r1.NewCard)

	r2, err := svc.RecordAnswer("u1", "600519", "q2", true)
	require.NoError(t, err)
	assert.Nil(t, r2.NewCard)

	r3, err := svc.RecordAnswer("u1", "600519", "q3", true)
	require.NoError(t, err)
	require.NotNil(t, r3.NewCard)

	// 3/3 correct → accuracy 1.0 → SSR, frozen at issuance.
	card := r3.NewCard
	assert.Equal(t, "600519", card.Code)
	assert.Equal(t, "贵州茅台", card.Name)
	assert.Equal(t, "白酒", card.Industry)
	assert.Equal(t, models.RaritySSR, card.Rarity)
	assert.Equal(t, 3, card.QuestionsAnswered)
	assert.Equal(t, 3, card.CorrectCount)
	assert.Equal(t, "consumer", card.Theme)

	// Experience: 3 correct answers + SSR bonus.
	assert.Equal(t, 3*15+100, r3.Progress.Exp)
	assert.Equal(t, 1, r3.Progress.TotalCards)

	// More answers never change the stored rarity.
	_, err = svc.RecordAnswer("u1", "600519", "q4", false)
	require.NoError(t, err)
	var stored models.StockCard
	require.NoError(t, svc.DB.Where("user_id = ? AND code = ?", "u1", "600519").First(&stored).Error)
	assert.Equal(t, models.RaritySSR, stored.Rarity)
	assert.Equal(t, 3, stored.QuestionsAnswered)
}

func TestCardRarityFromMixedAccuracy(t *testing.T) {
	svc := newTestProgressionService(t)

	// 2/3 correct → accuracy ≈ 0.67 → R.
	_, err := svc.RecordAnswer("u1", "000001", "q1", true)
	require.NoError(t, err)
	_, err = svc.RecordAnswer("u1", "000001", "q2", false)
	require.NoError(t, err)
	r3, err := svc.RecordAnswer("u1", "000001", "q3", true)
	require.NoError(t, err)

	require.NotNil(t, r3.NewCard)
	assert.Equal(t, models.RarityR, r3.NewCard.Rarity)
}

func TestCardIssuedOnlyOncePerStock(t *testing.T) {
	svc := newTestProgressionService(t)

	// A card for the stock already exists (e.g., replayed progress).
	require.NoError(t, svc.DB.Create(&models.StockCard{
		ID:         uuid.NewString(),
		UserID:     "u1",
		Code:       "600519",
		Name:       "贵州茅台",
		Rarity:     models.RaritySR,
		ObtainedAt: time.Now(),
	}).Error)

	_, err := svc.RecordAnswer("u1", "600519", "q1", true)
	require.NoError(t, err)
	_, err = svc.RecordAnswer("u1", "600519", "q2", true)
	require.NoError(t, err)
	r3, err := svc.RecordAnswer("u1", "600519", "q3", true)
	require.NoError(t, err)

	// Threshold re-triggered but no duplicate card.
	assert.Nil(t, r3.NewCard)
	var count int64
	svc.DB.Model(&models.StockCard{}).Where("user_id = ? AND code = ?", "u1", "600519").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestFirstCardAchievementsForcedOnIssue(t *testing.T) {
	svc := newTestProgressionService(t)

	for i := 1; i <= 3; i++ {
		_, err := svc.RecordAnswer("u1", "600519", fmt.Sprintf("q%d", i), true)
		require.NoError(t, err)
	}

	var firstCard, firstSR, firstSSR models.UserAchievement
	require.NoError(t, svc.DB.Where("user_id = ? AND achievement_id = ?", "u1", "first-card").First(&firstCard).Error)
	require.NoError(t, svc.DB.Where("user_id = ? AND achievement_id = ?", "u1", "first-sr").First(&firstSR).Error)
	require.NoError(t, svc.DB.Where("user_id = ? AND achievement_id = ?", "u1", "first-ssr").First(&firstSSR).Error)

	assert.True(t, firstCard.Unlocked)
	assert.True(t, firstSR.Unlocked) // SSR implies the SR unlock too
	assert.True(t, firstSSR.Unlocked)
	assert.NotNil(t, firstCard.UnlockedAt)
}

func TestStreakAchievementIsMonotonic(t *testing.T) {
	svc := newTestProgressionService(t)

	for i := 1; i <= 3; i++ {
		_, err := svc.RecordAnswer("u1", "000001", fmt.Sprintf("q%d", i), true)
		require.NoError(t, err)
	}

	var streak3 models.UserAchievement
	require.NoError(t, svc.DB.Where("user_id = ? AND achievement_id = ?", "u1", "streak-3").First(&streak3).Error)
	assert.True(t, streak3.Unlocked)
	unlockedAt := streak3.UnlockedAt
	progress := streak3.Progress

	// A wrong answer breaks the live streak but the unlock is sticky and the
	// recorded progress never regresses.
	_, err := svc.RecordAnswer("u1", "000001", "q4", false)
	require.NoError(t, err)

	require.NoError(t, svc.DB.Where("user_id = ? AND achievement_id = ?", "u1", "streak-3").First(&streak3).Error)
	assert.True(t, streak3.Unlocked)
	assert.Equal(t, progress, streak3.Progress)
	assert.True(t, streak3.UnlockedAt.Equal(*unlockedAt))
}

func TestStreakProgressKeepsHighWaterMarkBeforeUnlock(t *testing.T) {
	svc := newTestProgressionService(t)

	// Streak reaches 2, then breaks: streak-7 progress must stay at 2.
	_, err := svc.RecordAnswer("u1", "000001", "q1", true)
	require.NoError(t, err)
	_, err = svc.RecordAnswer("u1", "000001", "q2", true)
	require.NoError(t, err)
	_, err = svc.RecordAnswer("u1", "000001", "q3", false)
	require.NoError(t, err)

	var streak7 models.UserAchievement
	require.NoError(t, svc.DB.Where("user_id = ? AND achievement_id = ?", "u1", "streak-7").First(&streak7).Error)
	assert.False(t, streak7.Unlocked)
	assert.Equal(t, 2, streak7.Progress)
}

func TestQuestionCountAchievementProgress(t *testing.T) {
	svc := newTestProgressionService(t)

	for i := 1; i <= 5; i++ {
		_, err := svc.RecordAnswer("u1", "000001", fmt.Sprintf("q%d", i), i%2 == 0)
		require.NoError(t, err)
	}

	var q50 models.UserAchievement
	require.NoError(t, svc.DB.Where("user_id = ? AND achievement_id = ?", "u1", "questions-50").First(&q50).Error)
	assert.Equal(t, 5, q50.Progress)
	assert.False(t, q50.Unlocked)
}

func TestGetThemesComputesCompletion(t *testing.T) {
	svc := newTestProgressionService(t)

	// Earn the finance theme's only card.
	for i := 1; i <= 3; i++ {
		_, err := svc.RecordAnswer("u1", "000001", fmt.Sprintf("q%d", i), true)
		require.NoError(t, err)
	}

	themes, err := svc.GetThemes("u1")
	require.NoError(t, err)

	byID := map[string]ThemeStatus{}
	for _, status := range themes {
		byID[status.Theme.ID] = status
	}
	assert.True(t, byID["finance"].Complete)
	assert.Equal(t, float64(1), byID["finance"].Progress)
	assert.False(t, byID["new-energy"].Complete)
	assert.Equal(t, float64(0), byID["new-energy"].Progress)
}

func TestGetAchievementsMergesRegistry(t *testing.T) {
	svc := newTestProgressionService(t)

	list, err := svc.GetAchievements("u1")
	require.NoError(t, err)
	require.Len(t, list, len(models.AchievementTypes))

	assert.Equal(t, "first-card", list[0]["id"])
	assert.Equal(t, "初入股海", list[0]["name"])
	assert.Equal(t, false, list[0]["unlocked"])
}
