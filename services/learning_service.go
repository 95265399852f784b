package services

import (
	"errors"
	"math"
	"time"

	"stock-learning-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrSessionNotFound is returned for unknown session ids.
var ErrSessionNotFound = errors.New("学习会话不存在")

type LearningService struct {
	DB *gorm.DB
}

func NewLearningService(db *gorm.DB) *LearningService {
	return &LearningService{DB: db}
}

// generateTasks builds the fixed 8-task curriculum. The template is the same
// for every stock; per-stock content comes from the referenced catalog sections.
func generateTasks(stockCode string) []models.LearningTask {
	return []models.LearningTask{
		{
			ID:    "task-1",
			Type:  models.TaskReading,
			Title: "了解公司基本情况",
			Content: map[string]interface{}{
				"section":     "basicInfo",
				"description": "阅读公司基本信息，了解其成立时间、总部位置、主营业务等。",
			},
			Points: 10,
		},
		{
			ID:    "task-2",
			Type:  models.TaskChoice,
			Title: "公司基本情况测试",
			Content: map[string]interface{}{
				"question":      "这家公司的主要业务是什么？",
				"options":       []string{"选项A", "选项B", "选项C", "选项D"},
				"correctAnswer": 0,
			},
			Points: 20,
		},
		{
			ID:    "task-3",
			Type:  models.TaskReading,
			Title: "了解公司经营情况",
			Content: map[string]interface{}{
				"section":     "financials",
				"description": "学习公司的财务数据，包括营收、利润、增长率等关键指标。",
			},
			Points: 10,
		},
		{
			ID:    "task-4",
			Type:  models.TaskPuzzle,
			Title: "财务数据拼图",
			Content: map[string]interface{}{
				"pieces":      []string{"营收", "利润", "ROE", "增长率"},
				"description": "将财务指标与其数值进行匹配",
			},
			Points: 25,
		},
		{
			ID:    "task-5",
			Type:  models.TaskReading,
			Title: "了解公司估值情况",
			Content: map[string]interface{}{
				"section":     "valuation",
				"description": "学习公司的估值指标和分析。",
			},
			Points: 10,
		},
		{
			ID:    "task-6",
			Type:  models.TaskChoice,
			Title: "估值分析测试",
			Content: map[string]interface{}{
				"question":      "当前估值水平如何？",
				"options":       []string{"高估", "合理", "低估", "无法判断"},
				"correctAnswer": 1,
			},
			Points: 20,
		},
		{
			ID:    "task-7",
			Type:  models.TaskReading,
			Title: "了解为什么热门",
			Content: map[string]interface{}{
				"section":     "whyHot",
				"description": "了解该股票近期受到关注的原因。",
			},
			Points: 10,
		},
		{
			ID:    "task-8",
			Type:  models.TaskReading,
			Title: "未来分析",
			Content: map[string]interface{}{
				"section":     "futureAnalysis",
				"description": "学习对该股票未来发展的分析。",
			},
			Points: 10,
		},
	}
}

// StartLearning creates and persists a fresh session for (user, stock).
// The stock code is not validated against the catalog: an unknown code still
// gets the generic curriculum.
func (s *LearningService) StartLearning(userID, stockCode string) (*models.LearningSession, error) {
	session := &models.LearningSession{
		ID:           "session-" + uuid.NewString(),
		UserID:       userID,
		StockCode:    stockCode,
		StartTime:    time.Now(),
		Tasks:        generateTasks(stockCode),
		Achievements: []string{},
	}
	if err := s.DB.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// GetProgress returns the session or ErrSessionNotFound.
func (s *LearningService) GetProgress(sessionID string) (*models.LearningSession, error) {
	var session models.LearningSession
	if err := s.DB.Where("id = ?", sessionID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// CompleteTask marks a task completed and adds its score to the session total.
// Completing an unknown or already-completed task id is a silent no-op, so a
// score can never be counted twice. Progress is recomputed on every call.
func (s *LearningService) CompleteTask(sessionID, taskType, taskID string, score int) (*models.LearningSession, error) {
	var session *models.LearningSession
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var sess models.LearningSession
		if err := tx.Where("id = ?", sessionID).First(&sess).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}

		for i := range sess.Tasks {
			if sess.Tasks[i].ID == taskID && !sess.Tasks[i].Completed {
				sess.Tasks[i].Completed = true
				sc := score
				sess.Tasks[i].Score = &sc
				sess.TotalScore += score
				break
			}
		}

		completed := 0
		for _, t := range sess.Tasks {
			if t.Completed {
				completed++
			}
		}
		sess.Progress = int(math.Round(float64(completed) / float64(len(sess.Tasks)) * 100))

		if err := tx.Save(&sess).Error; err != nil {
			return err
		}
		session = &sess
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// CompleteLearning finalizes the session: sets the completed flag, stamps the
// end time and evaluates the session achievement rules against final state.
// Calling it again re-derives the same achievement list, never appends twice.
func (s *LearningService) CompleteLearning(sessionID string) (*models.LearningSession, error) {
	var session *models.LearningSession
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var sess models.LearningSession
		if err := tx.Where("id = ?", sessionID).First(&sess).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}

		now := time.Now()
		sess.Completed = true
		sess.EndTime = &now
		sess.Achievements = EvaluateSessionAchievements(&sess)

		if err := tx.Save(&sess).Error; err != nil {
			return err
		}
		session = &sess
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}
