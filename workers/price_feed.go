package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"time"

	"stock-learning-system/models"
	"stock-learning-system/utils"

	"gorm.io/gorm"
)

// PriceFeedClient keeps catalog prices moving. With MARKET_FEED_URL set it
// pulls quotes from an external feed; without one it applies a small random
// walk so the "today" cards still look alive. Either way it only touches the
// catalog: games sample prices at call time, never from here.
type PriceFeedClient struct {
	BaseURL    string
	HTTPClient *http.Client
	DB         *gorm.DB
	rng        *rand.Rand
}

func NewPriceFeedClient(db *gorm.DB) *PriceFeedClient {
	return &PriceFeedClient{
		BaseURL:    os.Getenv("MARKET_FEED_URL"),
		HTTPClient: utils.HTTPClient,
		DB:         db,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

type quote struct {
	Code          string  `json:"code"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"changePercent"`
}

// FetchQuotes asks the external feed for quotes on the given codes.
func (c *PriceFeedClient) FetchQuotes(ctx context.Context, codes []string) ([]quote, error) {
	u, err := url.Parse(fmt.Sprintf("%s/quotes", c.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed URL: %w", err)
	}

	q := u.Query()
	for _, code := range codes {
		q.Add("code", code)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call market feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("market feed returned status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Quotes []quote `json:"quotes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode feed response: %w", err)
	}
	return response.Quotes, nil
}

// SyncOnce refreshes every catalog price once.
func (c *PriceFeedClient) SyncOnce(ctx context.Context) error {
	var stocks []models.Stock
	if err := c.DB.Find(&stocks).Error; err != nil {
		return err
	}
	if len(stocks) == 0 {
		return nil
	}

	if c.BaseURL != "" {
		codes := make([]string, 0, len(stocks))
		for _, s := range stocks {
			codes = append(codes, s.Code)
		}
		quotes, err := c.FetchQuotes(ctx, codes)
		if err != nil {
			return err
		}
		for _, q := range quotes {
			if err := c.DB.Model(&models.Stock{}).Where("code = ?", q.Code).
				Updates(map[string]interface{}{
					"current_price":  q.Price,
					"change_percent": q.ChangePercent,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	}

	// Simulated walk: ±1% per tick.
	for _, s := range stocks {
		change := (c.rng.Float64() - 0.5) * 0.02
		price := s.CurrentPrice * (1 + change)
		if err := c.DB.Model(&models.Stock{}).Where("code = ?", s.Code).
			Updates(map[string]interface{}{
				"current_price":  price,
				"change_percent": s.ChangePercent + change*100,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}

// PollPrices runs the feed loop until ctx is cancelled.
func PollPrices(ctx context.Context, client *PriceFeedClient, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Price feed stopped")
			return
		case <-ticker.C:
			if err := client.SyncOnce(ctx); err != nil {
				log.Printf("[PriceFeed] Sync failed: %v", err)
			}
		}
	}
}
