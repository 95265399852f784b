// handlers/game.go
package handlers

import (
	"errors"

	"stock-learning-system/models"
	"stock-learning-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGameRoutes(app *fiber.App, gameService *services.GameService) {
	game := app.Group("/api/game")

	// 开始猜涨跌游戏
	game.Post("/predict/start", func(c *fiber.Ctx) error {
		var body struct {
			StockCode string `json:"stockCode"`
			UserID    string `json:"userId"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fail(c, fiber.StatusBadRequest, "请求参数无效")
		}
		if body.UserID == "" {
			body.UserID = c.Locals("user_id").(string)
		}

		g, err := gameService.StartPredictGame(body.StockCode, body.UserID)
		if err != nil {
			return fail(c, fiber.StatusInternalServerError, "开始游戏失败")
		}
		return ok(c, g)
	})

	// 提交预测
	game.Post("/predict/submit", func(c *fiber.Ctx) error {
		var body struct {
			GameID     string `json:"gameId"`
			Prediction string `json:"prediction"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fail(c, fiber.StatusBadRequest, "请求参数无效")
		}
		if body.Prediction != models.PredictionUp && body.Prediction != models.PredictionDown {
			return fail(c, fiber.StatusBadRequest, "预测方向无效")
		}

		g, err := gameService.SubmitPrediction(body.GameID, body.Prediction)
		if err != nil {
			if errors.Is(err, services.ErrGameNotFound) {
				return fail(c, fiber.StatusNotFound, "游戏不存在")
			}
			return fail(c, fiber.StatusInternalServerError, "提交预测失败")
		}
		return ok(c, g)
	})

	// 获取游戏结果
	game.Get("/predict/:gameId", func(c *fiber.Ctx) error {
		g, err := gameService.GetGameResult(c.Params("gameId"))
		if err != nil {
			if errors.Is(err, services.ErrGameNotFound) {
				return fail(c, fiber.StatusNotFound, "游戏不存在")
			}
			return fail(c, fiber.StatusInternalServerError, "获取结果失败")
		}
		return ok(c, g)
	})
}
