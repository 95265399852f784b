// handlers/ai.go
package handlers

import (
	"stock-learning-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAIRoutes(app *fiber.App, aiService *services.AIService) {
	ai := app.Group("/api/ai")

	// AI问答
	ai.Post("/ask", func(c *fiber.Ctx) error {
		var body struct {
			Question  string                 `json:"question"`
			StockCode string                 `json:"stockCode"`
			Context   map[string]interface{} `json:"context"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fail(c, fiber.StatusBadRequest, "请求参数无效")
		}
		if body.Question == "" {
			return fail(c, fiber.StatusBadRequest, "问题不能为空")
		}

		answer := aiService.Ask(c.Context(), body.Question, body.StockCode)
		return ok(c, fiber.Map{"answer": answer})
	})
}
