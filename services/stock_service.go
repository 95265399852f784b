package services

import (
	"errors"
	"log"

	"stock-learning-system/models"
	"stock-learning-system/utils"

	"gorm.io/gorm"
)

// ErrStockNotFound is returned for unknown stock codes.
var ErrStockNotFound = errors.New("股票不存在")

type StockService struct {
	DB *gorm.DB
}

func NewStockService(db *gorm.DB) *StockService {
	return &StockService{DB: db}
}

// SeedCatalog loads the stock catalog on first boot. If data/stocks.json
// exists it wins; otherwise the built-in five-stock catalog is used.
// Idempotent: an already-seeded catalog is left alone.
func (s *StockService) SeedCatalog() error {
	var count int64
	if err := s.DB.Model(&models.Stock{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	stocks := defaultStocks
	if override, err := utils.LoadStockSeed(); err != nil {
		log.Printf("⚠️  Failed to read stock seed file, using built-in catalog: %v", err)
	} else if len(override) > 0 {
		stocks = override
	}

	for i := range stocks {
		stocks[i].FeaturedRank = i + 1
	}
	if err := s.DB.Create(&stocks).Error; err != nil {
		return err
	}
	log.Printf("✅ Seeded stock catalog with %d stocks", len(stocks))
	return nil
}

// GetTodayStocks returns the first five stocks by featured rank.
func (s *StockService) GetTodayStocks() ([]models.Stock, error) {
	var stocks []models.Stock
	if err := s.DB.Order("featured_rank ASC").Limit(5).Find(&stocks).Error; err != nil {
		return nil, err
	}
	for i := range stocks {
		stocks[i].ArtworkURL = utils.CardArtworkURL(stocks[i].Name)
	}
	return stocks, nil
}

// GetStockByCode returns one stock or ErrStockNotFound.
func (s *StockService) GetStockByCode(code string) (*models.Stock, error) {
	var stock models.Stock
	if err := s.DB.Where("code = ?", code).First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStockNotFound
		}
		return nil, err
	}
	stock.ArtworkURL = utils.CardArtworkURL(stock.Name)
	return &stock, nil
}

// PriceForCode returns the catalog price for a code, or 10.00 when the code is
// unknown. The prediction game deliberately accepts unknown codes.
func (s *StockService) PriceForCode(code string) float64 {
	stock, err := s.GetStockByCode(code)
	if err != nil {
		return 10.00
	}
	return stock.CurrentPrice
}

// NameForCode returns the catalog name for a code, or 未知股票 when unknown.
func (s *StockService) NameForCode(code string) string {
	stock, err := s.GetStockByCode(code)
	if err != nil {
		return "未知股票"
	}
	return stock.Name
}

var defaultStocks = []models.Stock{
	{
		Code:          "000001",
		Name:          "平安银行",
		CurrentPrice:  12.50,
		ChangePercent: 3.2,
		Market:        "深交所",
		Industry:      "银行",
		Description:   "中国平安集团旗下银行，专注于零售银行和财富管理业务。",
		BasicInfo: models.BasicInfo{
			Established:  "1987年",
			Headquarters: "深圳",
			Employees:    45000,
			MainBusiness: "零售银行、财富管理、企业金融",
		},
		Financials: models.Financials{Revenue: 1800, Profit: 360, GrowthRate: 8.5, ROE: 12.3},
		Valuation: models.Valuation{
			PE: 6.5, PB: 0.8, MarketCap: 2400,
			Analysis: "估值处于历史低位，PB低于1，具有较高安全边际。",
		},
		WhyHot:         "近期银行板块估值修复，平安银行零售转型成效显著，业绩稳健增长。",
		FutureAnalysis: "随着经济复苏，银行业基本面改善，估值有望持续修复。零售银行转型持续推进，长期成长性可期。",
	},
	{
		Code:          "600519",
		Name:          "贵州茅台",
		CurrentPrice:  1850.00,
		ChangePercent: 2.1,
		Market:        "上交所",
		Industry:      "白酒",
		Description:   "中国白酒行业龙头企业，以茅台酒闻名于世。",
		BasicInfo: models.BasicInfo{
			Established:  "1999年",
			Headquarters: "贵州茅台镇",
			Employees:    35000,
			MainBusiness: "白酒生产与销售",
		},
		Financials: models.Financials{Revenue: 1200, Profit: 600, GrowthRate: 15.2, ROE: 28.5},
		Valuation: models.Valuation{
			PE: 35.2, PB: 12.5, MarketCap: 23000,
			Analysis: "估值相对较高，但考虑到品牌价值和盈利能力，仍具投资价值。",
		},
		WhyHot:         "消费复苏预期，高端白酒需求回暖，茅台作为行业龙头受益明显。",
		FutureAnalysis: "消费升级趋势下，高端白酒市场空间广阔。茅台品牌护城河深厚，长期价值稳定。",
	},
	{
		Code:          "000858",
		Name:          "五粮液",
		CurrentPrice:  145.50,
		ChangePercent: 1.8,
		Market:        "深交所",
		Industry:      "白酒",
		Description:   "中国著名白酒品牌，浓香型白酒代表。",
		BasicInfo: models.BasicInfo{
			Established:  "1998年",
			Headquarters: "四川宜宾",
			Employees:    28000,
			MainBusiness: "白酒生产与销售",
		},
		Financials: models.Financials{Revenue: 800, Profit: 300, GrowthRate: 12.5, ROE: 22.3},
		Valuation: models.Valuation{
			PE: 28.5, PB: 8.2, MarketCap: 5600,
			Analysis: "估值合理，品牌力强，盈利能力稳定。",
		},
		WhyHot:         "白酒板块整体回暖，五粮液作为次高端龙头，受益于消费升级。",
		FutureAnalysis: "产品结构持续优化，高端产品占比提升，盈利能力有望进一步增强。",
	},
	{
		Code:          "300750",
		Name:          "宁德时代",
		CurrentPrice:  185.30,
		ChangePercent: -1.2,
		Market:        "创业板",
		Industry:      "新能源",
		Description:   "全球领先的锂离子电池制造商，动力电池行业龙头。",
		BasicInfo: models.BasicInfo{
			Established:  "2011年",
			Headquarters: "福建宁德",
			Employees:    95000,
			MainBusiness: "动力电池、储能系统",
		},
		Financials: models.Financials{Revenue: 3200, Profit: 300, GrowthRate: 25.3, ROE: 18.5},
		Valuation: models.Valuation{
			PE: 22.5, PB: 4.2, MarketCap: 8100,
			Analysis: "估值相对合理，考虑到行业高增长性，仍有上升空间。",
		},
		WhyHot:         "新能源汽车市场持续增长，电池技术不断突破，行业前景广阔。",
		FutureAnalysis: "全球电动化趋势明确，公司技术领先，市场份额有望进一步提升。储能业务成为新的增长点。",
	},
	{
		Code:          "002415",
		Name:          "海康威视",
		CurrentPrice:  38.50,
		ChangePercent: 2.5,
		Market:        "深交所",
		Industry:      "安防",
		Description:   "全球领先的以视频为核心的智能物联网解决方案提供商。",
		BasicInfo: models.BasicInfo{
			Established:  "2001年",
			Headquarters: "杭州",
			Employees:    52000,
			MainBusiness: "视频监控产品、智能家居、机器人",
		},
		Financials: models.Financials{Revenue: 840, Profit: 128, GrowthRate: 5.2, ROE: 15.8},
		Valuation: models.Valuation{
			PE: 18.5, PB: 3.2, MarketCap: 3600,
			Analysis: "估值处于合理区间，AI和物联网业务带来新的增长动力。",
		},
		WhyHot:         "AI技术应用加速，智能安防需求增长，公司技术实力领先。",
		FutureAnalysis: "AI+物联网深度融合，公司从硬件制造商向解决方案提供商转型，长期成长空间打开。",
	},
}
