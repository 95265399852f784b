package services

import (
	"stock-learning-system/models"
)

// One achievement registry feeds both reward paths: session completion labels
// and the persistent per-user achievements. Both evaluate an ordered rule list
// against a state snapshot.

type sessionRule struct {
	Name string
	Met  func(*models.LearningSession) bool
}

// sessionRules grade a finished session. Labels are session-local; they do not
// touch the persistent UserAchievement records.
var sessionRules = []sessionRule{
	{
		Name: "学习之星",
		Met:  func(s *models.LearningSession) bool { return s.TotalScore >= 100 },
	},
	{
		Name: "优秀学员",
		Met:  func(s *models.LearningSession) bool { return s.TotalScore >= 80 },
	},
	{
		Name: "完美完成",
		Met:  func(s *models.LearningSession) bool { return s.Progress == 100 },
	},
	{
		Name: "全对达人",
		Met: func(s *models.LearningSession) bool {
			for _, t := range s.Tasks {
				if t.Score == nil || *t.Score <= 0 {
					return false
				}
			}
			return len(s.Tasks) > 0
		},
	},
}

// EvaluateSessionAchievements derives the label list from final session state.
// Deriving rather than appending keeps CompleteLearning idempotent.
func EvaluateSessionAchievements(sess *models.LearningSession) []string {
	achievements := []string{}
	for _, rule := range sessionRules {
		if rule.Met(sess) {
			achievements = append(achievements, rule.Name)
		}
	}
	return achievements
}

// RewardSnapshot is the per-user state the persistent achievement rules read.
type RewardSnapshot struct {
	TotalCards     int
	TotalQuestions int
	Streak         int
}

// progressForAchievement returns the new progress value for one achievement,
// or -1 when the registry has no per-answer rule for that id (first-sr,
// first-ssr and first-card are force-unlocked at card issuance instead;
// theme-complete and perfect-stock are configuration without a rule yet).
// Streak progress keeps its high-water mark so a broken streak never regresses
// the achievement.
func progressForAchievement(id string, current int, snap RewardSnapshot) int {
	switch id {
	case "first-card", "five-cards":
		return snap.TotalCards
	case "streak-3", "streak-7":
		if snap.Streak > current {
			return snap.Streak
		}
		return current
	case "questions-50", "questions-100":
		return snap.TotalQuestions
	}
	return -1
}
