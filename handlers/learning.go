// handlers/learning.go
package handlers

import (
	"errors"

	"stock-learning-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLearningRoutes(app *fiber.App, learningService *services.LearningService) {
	learning := app.Group("/api/learning")

	// 开始学习某个股票
	learning.Post("/start/:stockCode", func(c *fiber.Ctx) error {
		var body struct {
			UserID string `json:"userId"`
		}
		_ = c.BodyParser(&body) // empty body is fine, userId is optional
		if body.UserID == "" {
			body.UserID = c.Locals("user_id").(string)
		}

		session, err := learningService.StartLearning(body.UserID, c.Params("stockCode"))
		if err != nil {
			return fail(c, fiber.StatusInternalServerError, "开始学习失败")
		}
		return ok(c, session)
	})

	// 获取学习进度
	learning.Get("/progress/:sessionId", func(c *fiber.Ctx) error {
		session, err := learningService.GetProgress(c.Params("sessionId"))
		if err != nil {
			if errors.Is(err, services.ErrSessionNotFound) {
				return fail(c, fiber.StatusNotFound, "学习会话不存在")
			}
			return fail(c, fiber.StatusInternalServerError, "获取进度失败")
		}
		return ok(c, session)
	})

	// 完成一个学习任务
	learning.Post("/complete-task", func(c *fiber.Ctx) error {
		var body struct {
			SessionID string `json:"sessionId"`
			TaskType  string `json:"taskType"`
			TaskID    string `json:"taskId"`
			Score     int    `json:"score"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fail(c, fiber.StatusBadRequest, "请求参数无效")
		}

		session, err := learningService.CompleteTask(body.SessionID, body.TaskType, body.TaskID, body.Score)
		if err != nil {
			if errors.Is(err, services.ErrSessionNotFound) {
				return fail(c, fiber.StatusNotFound, "学习会话不存在")
			}
			return fail(c, fiber.StatusInternalServerError, "完成任务失败")
		}
		return ok(c, session)
	})

	// 完成学习
	learning.Post("/complete/:sessionId", func(c *fiber.Ctx) error {
		session, err := learningService.CompleteLearning(c.Params("sessionId"))
		if err != nil {
			if errors.Is(err, services.ErrSessionNotFound) {
				return fail(c, fiber.StatusNotFound, "学习会话不存在")
			}
			return fail(c, fiber.StatusInternalServerError, "完成学习失败")
		}
		return ok(c, session)
	})
}
