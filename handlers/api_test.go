package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"stock-learning-system/middleware"
	"stock-learning-system/models"
	"stock-learning-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestApp wires the full route surface over an in-memory database.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "")
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Stock{},
		&models.LearningSession{},
		&models.PredictGame{},
		&models.UserProgress{},
		&models.StockProgress{},
		&models.StockCard{},
		&models.UserAchievement{},
	))

	stockService := services.NewStockService(db)
	require.NoError(t, stockService.SeedCatalog())

	app := fiber.New()
	app.Use(middleware.UserContextMiddleware())

	SetupStockRoutes(app, stockService)
	SetupLearningRoutes(app, services.NewLearningService(db))
	SetupGameRoutes(app, services.NewGameService(db, stockService))
	SetupProgressRoutes(app, services.NewProgressionService(db))
	SetupAIRoutes(app, services.NewAIService(stockService))

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && (raw[0] == '{' || raw[0] == '[') {
		_ = json.Unmarshal(raw, &env)
	}
	return resp.StatusCode, env
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTodayStocksReturnsFive(t *testing.T) {
	app := newTestApp(t)
	status, env := doJSON(t, app, http.MethodGet, "/api/stocks/today", nil)
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)

	var stocks []models.Stock
	require.NoError(t, json.Unmarshal(env.Data, &stocks))
	assert.Len(t, stocks, 5)
	assert.Equal(t, "000001", stocks[0].Code)
}

func TestStockDetailAndNotFound(t *testing.T) {
	app := newTestApp(t)

	status, env := doJSON(t, app, http.MethodGet, "/api/stocks/600519", nil)
	require.Equal(t, http.StatusOK, status)
	var stock models.Stock
	require.NoError(t, json.Unmarshal(env.Data, &stock))
	assert.Equal(t, "贵州茅台", stock.Name)
	assert.Equal(t, "白酒", stock.Industry)

	status, env = doJSON(t, app, http.MethodGet, "/api/stocks/999999", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
	assert.Equal(t, "股票不存在", env.Error)
}

func TestLearningFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)

	status, env := doJSON(t, app, http.MethodPost, "/api/learning/start/000001", fiber.Map{"userId": "u1"})
	require.Equal(t, http.StatusOK, status)
	var session models.LearningSession
	require.NoError(t, json.Unmarshal(env.Data, &session))
	require.Len(t, session.Tasks, 8)

	status, env = doJSON(t, app, http.MethodPost, "/api/learning/complete-task", fiber.Map{
		"sessionId": session.ID,
		"taskType":  "choice",
		"taskId":    "task-2",
		"score":     20,
	})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &session))
	assert.Equal(t, 13, session.Progress)
	assert.Equal(t, 20, session.TotalScore)

	for _, id := range []string{"task-1", "task-3", "task-4", "task-5", "task-6", "task-7", "task-8"} {
		status, _ = doJSON(t, app, http.MethodPost, "/api/learning/complete-task", fiber.Map{
			"sessionId": session.ID,
			"taskId":    id,
			"score":     10,
		})
		require.Equal(t, http.StatusOK, status)
	}

	status, env = doJSON(t, app, http.MethodPost, "/api/learning/complete/"+session.ID, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &session))
	assert.True(t, session.Completed)
	assert.Contains(t, session.Achievements, "完美完成")

	// Unknown session → 404 with the uniform envelope.
	status, env = doJSON(t, app, http.MethodGet, "/api/learning/progress/session-missing", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
}

func TestPredictGameFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)

	status, env := doJSON(t, app, http.MethodPost, "/api/game/predict/start", fiber.Map{"stockCode": "600519"})
	require.Equal(t, http.StatusOK, status)
	var game models.PredictGame
	require.NoError(t, json.Unmarshal(env.Data, &game))
	assert.Equal(t, "default", game.UserID) // identity fell back to the shared user
	assert.Equal(t, models.ResultPending, game.Result)

	status, env = doJSON(t, app, http.MethodPost, "/api/game/predict/submit", fiber.Map{
		"gameId":     game.ID,
		"prediction": "sideways",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = doJSON(t, app, http.MethodPost, "/api/game/predict/submit", fiber.Map{
		"gameId":     game.ID,
		"prediction": "up",
	})
	require.Equal(t, http.StatusOK, status)

	status, env = doJSON(t, app, http.MethodGet, "/api/game/predict/"+game.ID, nil)
	require.Equal(t, http.StatusOK, status)
	var first models.PredictGame
	require.NoError(t, json.Unmarshal(env.Data, &first))
	assert.Contains(t, []string{models.ResultWin, models.ResultLose}, first.Result)

	status, env = doJSON(t, app, http.MethodGet, "/api/game/predict/"+game.ID, nil)
	require.Equal(t, http.StatusOK, status)
	var second models.PredictGame
	require.NoError(t, json.Unmarshal(env.Data, &second))
	assert.Equal(t, first.Result, second.Result)
	assert.Equal(t, *first.EndPrice, *second.EndPrice)
}

func TestProgressAnswerFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)

	for i := 1; i <= 3; i++ {
		status, env := doJSON(t, app, http.MethodPost, "/api/progress/answer", fiber.Map{
			"userId":     "u1",
			"stockCode":  "000001",
			"questionId": fmt.Sprintf("q%d", i),
			"correct":    true,
		})
		require.Equal(t, http.StatusOK, status)
		require.True(t, env.Success)
	}

	status, env := doJSON(t, app, http.MethodGet, "/api/progress/u1/cards", nil)
	require.Equal(t, http.StatusOK, status)
	var cards []models.StockCard
	require.NoError(t, json.Unmarshal(env.Data, &cards))
	require.Len(t, cards, 1)
	assert.Equal(t, "000001", cards[0].Code)
	assert.Equal(t, models.RaritySSR, cards[0].Rarity)

	status, env = doJSON(t, app, http.MethodGet, "/api/progress/u1", nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	// Missing required fields → 400.
	status, _ = doJSON(t, app, http.MethodPost, "/api/progress/answer", fiber.Map{"userId": "u1"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAIAskValidation(t *testing.T) {
	app := newTestApp(t)

	status, env := doJSON(t, app, http.MethodPost, "/api/ai/ask", fiber.Map{"question": ""})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "问题不能为空", env.Error)

	status, env = doJSON(t, app, http.MethodPost, "/api/ai/ask", fiber.Map{
		"question":  "什么是PE",
		"stockCode": "600519",
	})
	require.Equal(t, http.StatusOK, status)
	var data struct {
		Answer string `json:"answer"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Contains(t, data.Answer, "市盈率")
}
