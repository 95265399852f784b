// handlers/stock.go
package handlers

import (
	"errors"

	"stock-learning-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupStockRoutes(app *fiber.App, stockService *services.StockService) {
	stocks := app.Group("/api/stocks")

	// 今日热门股票列表
	stocks.Get("/today", func(c *fiber.Ctx) error {
		list, err := stockService.GetTodayStocks()
		if err != nil {
			return fail(c, fiber.StatusInternalServerError, "获取股票列表失败")
		}
		return ok(c, list)
	})

	// 单个股票详情
	stocks.Get("/:code", func(c *fiber.Ctx) error {
		stock, err := stockService.GetStockByCode(c.Params("code"))
		if err != nil {
			if errors.Is(err, services.ErrStockNotFound) {
				return fail(c, fiber.StatusNotFound, "股票不存在")
			}
			return fail(c, fiber.StatusInternalServerError, "获取股票详情失败")
		}
		return ok(c, stock)
	})
}
