// services/scheduler.go
package services

import (
	"log"
	"time"

	"stock-learning-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartRotationScheduler rotates the catalog's featured ranking once a day so
// the "today" selection cycles through the catalog.
func (s *StockService) StartRotationScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			if err := s.RotateFeatured(); err != nil {
				log.Printf("[Scheduler] Failed to rotate featured stocks: %v", err)
			} else {
				log.Println("✅ Rotated featured stock ranking")
			}
		}),
	)
}

// RotateFeatured moves the top-ranked stock to the back of the ranking.
func (s *StockService) RotateFeatured() error {
	var stocks []models.Stock
	if err := s.DB.Order("featured_rank ASC").Find(&stocks).Error; err != nil {
		return err
	}
	if len(stocks) < 2 {
		return nil
	}
	for i := range stocks {
		rank := i // shift everyone up, head wraps to the tail
		if i == 0 {
			rank = len(stocks)
		}
		if err := s.DB.Model(&models.Stock{}).
			Where("code = ?", stocks[i].Code).
			Update("featured_rank", rank).Error; err != nil {
			return err
		}
	}
	return nil
}
