package services

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"stock-learning-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrGameNotFound is returned for unknown game ids.
var ErrGameNotFound = errors.New("游戏不存在")

type GameService struct {
	DB     *gorm.DB
	stocks *StockService

	// rng is guarded by rngMu: handlers resolve games concurrently and
	// rand.Rand is not goroutine-safe. Seeded per test for determinism.
	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewGameService(db *gorm.DB, stocks *StockService) *GameService {
	return &GameService{
		DB:     db,
		stocks: stocks,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// StartPredictGame opens a pending round. The start price comes from the
// catalog; unknown codes get the 10.00 default rather than an error.
func (s *GameService) StartPredictGame(stockCode, userID string) (*models.PredictGame, error) {
	game := &models.PredictGame{
		ID:         "game-" + uuid.NewString(),
		UserID:     userID,
		StockCode:  stockCode,
		StockName:  s.stocks.NameForCode(stockCode),
		StartPrice: s.stocks.PriceForCode(stockCode),
		StartTime:  time.Now(),
		Result:     models.ResultPending,
	}
	if err := s.DB.Create(game).Error; err != nil {
		return nil, err
	}
	return game, nil
}

// SubmitPrediction attaches up/down to an existing game. A repeated submission
// overwrites the previous one silently.
func (s *GameService) SubmitPrediction(gameID, prediction string) (*models.PredictGame, error) {
	var game models.PredictGame
	if err := s.DB.Where("id = ?", gameID).First(&game).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	game.Prediction = prediction
	if err := s.DB.Save(&game).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

// GetGameResult resolves a pending game that has a prediction: the end price
// is a uniform ±5% perturbation of the start price and the actual direction is
// the sign of the delta (a zero delta counts as down). Resolution is a
// transactional read-modify-write keyed on the pending status, so it happens
// at most once; later calls return the stored record untouched.
func (s *GameService) GetGameResult(gameID string) (*models.PredictGame, error) {
	var game models.PredictGame
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", gameID).First(&game).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGameNotFound
			}
			return err
		}

		if game.Result != models.ResultPending || game.Prediction == "" {
			return nil
		}

		endPrice := s.perturb(game.StartPrice)
		now := time.Now()

		game.EndPrice = &endPrice
		game.EndTime = &now
		game.Result = models.ResultLose
		if game.Prediction == actualDirection(game.StartPrice, endPrice) {
			game.Result = models.ResultWin
			game.Points = 100
		}

		return tx.Save(&game).Error
	})
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// perturb applies a uniform random change in (-5%, +5%).
func (s *GameService) perturb(basePrice float64) float64 {
	s.rngMu.Lock()
	changePercent := (s.rng.Float64() - 0.5) * 0.1
	s.rngMu.Unlock()
	return basePrice * (1 + changePercent)
}

func actualDirection(startPrice, endPrice float64) string {
	if endPrice-startPrice > 0 {
		return models.PredictionUp
	}
	return models.PredictionDown
}
