package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// AIService answers free-text questions. When OPENAI_API_KEY is configured it
// calls the chat completion API; otherwise, or on any API error, it degrades
// to the canned keyword table and then the rule-based assistant. "Answer
// unavailable" is a valid outcome, never an error to the caller.
type AIService struct {
	client *openai.Client
	chat   *ChatAssistant
	stocks *StockService
}

func NewAIService(stocks *StockService) *AIService {
	svc := &AIService{
		chat:   NewChatAssistant(),
		stocks: stocks,
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		svc.client = openai.NewClient(key)
		log.Println("✅ OpenAI client configured for AI answers")
	}
	return svc
}

// Ask returns an answer string for the question, scoped to a stock when
// stockCode is set.
func (s *AIService) Ask(ctx context.Context, question, stockCode string) string {
	if s.client == nil {
		return s.mockAnswer(question, stockCode)
	}

	systemPrompt := "你是一位专业的股票分析师，请用简洁、易懂的方式回答用户关于股票的问题。"
	if stockCode != "" {
		systemPrompt = fmt.Sprintf("你是一位专业的股票分析师，正在帮助用户学习股票代码为%s的公司。请用简洁、易懂的方式回答问题。", stockCode)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT3Dot5Turbo,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil {
		log.Printf("⚠️  OpenAI API error, falling back to canned answers: %v", err)
		return s.mockAnswer(question, stockCode)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "抱歉，我无法回答这个问题。"
	}
	return resp.Choices[0].Message.Content
}

// mockAnswers is the fixed keyword-to-answer table tried before the rule chain.
var mockAnswers = map[string]string{
	"什么是pe":    "PE（市盈率）是股价与每股收益的比值，用来衡量股票的估值水平。PE越低，通常表示股票越便宜。",
	"什么是pb":    "PB（市净率）是股价与每股净资产的比值，PB小于1表示股价低于净资产，可能被低估。",
	"什么是roe":   "ROE（净资产收益率）反映公司使用股东资金创造利润的能力，ROE越高说明公司盈利能力越强。",
	"为什么这只股票会涨": "股票价格上涨通常受到多种因素影响，包括公司业绩改善、行业景气度提升、市场情绪好转等。",
}

func (s *AIService) mockAnswer(question, stockCode string) string {
	q := strings.ToLower(question)
	for key, answer := range mockAnswers {
		if strings.Contains(q, key) {
			return answer
		}
	}

	var stockName string
	var knowledge *Knowledge
	if stockCode != "" {
		if stock, err := s.stocks.GetStockByCode(stockCode); err == nil {
			stockName = stock.Name
			knowledge = KnowledgeForStock(stock)
		}
	}
	return s.chat.Reply(question, stockName, knowledge)
}
