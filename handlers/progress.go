// handlers/progress.go
package handlers

import (
	"stock-learning-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressRoutes(app *fiber.App, progressionService *services.ProgressionService) {
	progress := app.Group("/api/progress")

	// 记录一次答题（唯一的奖励状态写入口）
	progress.Post("/answer", func(c *fiber.Ctx) error {
		var body struct {
			UserID     string `json:"userId"`
			StockCode  string `json:"stockCode"`
			QuestionID string `json:"questionId"`
			Correct    bool   `json:"correct"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fail(c, fiber.StatusBadRequest, "请求参数无效")
		}
		if body.StockCode == "" || body.QuestionID == "" {
			return fail(c, fiber.StatusBadRequest, "股票代码和题目不能为空")
		}
		if body.UserID == "" {
			body.UserID = c.Locals("user_id").(string)
		}

		result, err := progressionService.RecordAnswer(body.UserID, body.StockCode, body.QuestionID, body.Correct)
		if err != nil {
			return fail(c, fiber.StatusInternalServerError, "记录答题失败")
		}
		return ok(c, result)
	})

	// 用户总进度
	progress.Get("/:userId", func(c *fiber.Ctx) error {
		prog, levelInfo, err := progressionService.GetProgress(c.Params("userId"))
		if err != nil {
			return fail(c, fiber.StatusInternalServerError, "获取进度失败")
		}
		return ok(c, fiber.Map{"progress": prog, "levelInfo": levelInfo})
	})

	// 卡片收藏
	progress.Get("/:userId/cards", func(c *fiber.Ctx) error {
		cards, err := progressionService.GetCards(c.Params("userId"))
		if err != nil {
			return fail(c, fiber.StatusInternalServerError, "获取卡片失败")
		}
		return ok(c, cards)
	})

	// 成就列表
	progress.Get("/:userId/achievements", func(c *fiber.Ctx) error {
		achievements, err := progressionService.GetAchievements(c.Params("userId"))
		if err != nil {
			return fail(c, fiber.StatusInternalServerError, "获取成就失败")
		}
		return ok(c, achievements)
	})

	// 主题收集进度
	progress.Get("/:userId/themes", func(c *fiber.Ctx) error {
		themes, err := progressionService.GetThemes(c.Params("userId"))
		if err != nil {
			return fail(c, fiber.StatusInternalServerError, "获取主题失败")
		}
		return ok(c, themes)
	})
}
