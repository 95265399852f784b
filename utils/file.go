package utils

import (
	"encoding/json"
	"os"
	"path/filepath"

	"stock-learning-system/models"
)

const dataDir = "data"

// EnsureDataDir creates the data directory if it doesn't exist
func EnsureDataDir() error {
	return os.MkdirAll(dataDir, os.ModePerm)
}

// DataPath returns the full path for a file inside the data directory
func DataPath(filename string) string {
	return filepath.Join(dataDir, filename)
}

// LoadStockSeed reads an optional catalog override from data/stocks.json.
// A missing file is not an error; it just means the built-in catalog applies.
func LoadStockSeed() ([]models.Stock, error) {
	path := DataPath("stocks.json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var stocks []models.Stock
	if err := json.Unmarshal(raw, &stocks); err != nil {
		return nil, err
	}
	return stocks, nil
}
