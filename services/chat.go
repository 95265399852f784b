package services

import (
	"fmt"
	"strings"

	"stock-learning-system/models"
)

// The chat assistant is an ordered list of (predicate, response-template)
// pairs evaluated first-match-wins. It is a deliberate stand-in for a real
// NLU/LLM integration; AIService only falls back here when the LLM path is
// unconfigured or failing.

// Knowledge is the per-stock snippet the stock-scoped rules interpolate.
type Knowledge struct {
	BasicInfo        string
	InvestmentAdvice string
	RiskWarning      string
	FAQ              []FAQEntry
}

type FAQEntry struct {
	Q string
	A string
}

// KnowledgeForStock derives the chat snippet from catalog data.
func KnowledgeForStock(stock *models.Stock) *Knowledge {
	return &Knowledge{
		BasicInfo:        stock.Description + stock.WhyHot,
		InvestmentAdvice: stock.Valuation.Analysis,
		RiskWarning:      fmt.Sprintf("%s属于%s行业，需关注行业政策变化、市场竞争加剧以及业绩不及预期的风险。", stock.Name, stock.Industry),
		FAQ: []FAQEntry{
			{Q: "为什么这只股票最近热门", A: stock.WhyHot},
			{Q: "未来发展前景怎么样", A: stock.FutureAnalysis},
			{Q: "估值情况如何分析", A: stock.Valuation.Analysis},
		},
	}
}

type chatRule struct {
	// needsKnowledge rules only fire in the stock-scoped variant.
	needsKnowledge bool
	keywords       []string
	respond        func(q, stockName string, k *Knowledge) string
}

var chatRules = []chatRule{
	{
		needsKnowledge: true,
		keywords:       []string{"买", "入手", "投资", "适合"},
		respond: func(q, name string, k *Knowledge) string {
			return fmt.Sprintf("💡 关于%s是否适合买入：\n\n%s\n\n⚠️ **温馨提示**：投资有风险，建议根据自己的风险承受能力做决定，不要盲目追涨杀跌哦～", name, k.InvestmentAdvice)
		},
	},
	{
		needsKnowledge: true,
		keywords:       []string{"风险", "危险", "亏", "跌"},
		respond: func(q, name string, k *Knowledge) string {
			return fmt.Sprintf("⚠️ %s的主要风险：\n\n%s\n\n🛡️ **建议**：控制好仓位，分批建仓，不要把鸡蛋放在一个篮子里！", name, k.RiskWarning)
		},
	},
	{
		needsKnowledge: true,
		keywords:       []string{"竞争", "优势", "核心", "护城河"},
		respond: func(q, name string, k *Knowledge) string {
			return fmt.Sprintf("🏆 %s的核心竞争力：\n\n%s\n\n这些优势让%s在行业中保持领先地位。", name, k.BasicInfo, name)
		},
	},
	{
		needsKnowledge: true,
		keywords:       []string{"前景", "未来", "发展", "趋势"},
		respond: func(q, name string, k *Knowledge) string {
			return fmt.Sprintf("🔮 %s的发展前景：\n\n%s\n\n%s\n\n📈 长期来看，行业发展趋势是关键！", name, k.BasicInfo, k.InvestmentAdvice)
		},
	},
	{
		needsKnowledge: true,
		keywords:       []string{"新手", "小白", "入门", "怎么看"},
		respond: func(q, name string, k *Knowledge) string {
			return fmt.Sprintf("📚 给新手的%s分析指南：\n\n**1. 先了解公司基本面**\n%s\n\n**2. 关注风险点**\n%s\n\n**3. 投资建议**\n%s\n\n💪 建议先用模拟盘练练手，熟悉后再实盘操作！", name, k.BasicInfo, k.RiskWarning, k.InvestmentAdvice)
		},
	},
	{
		keywords: []string{"估值", "贵不贵"},
		respond: func(q, name string, k *Knowledge) string {
			return fmt.Sprintf("📊 关于%s的估值：\n\n估值是个复杂的话题，需要综合考虑PE、PB、PEG等多个指标。\n\n**简单判断方法**：\n• 对比历史PE分位\n• 对比同行业估值\n• 考虑未来增长预期\n\n建议结合「综合画像」里的估值安全指标来判断！", name)
		},
	},
	{
		keywords: []string{"业绩", "财报", "利润"},
		respond: func(q, name string, k *Knowledge) string {
			return fmt.Sprintf("📈 关于%s的业绩：\n\n查看业绩要关注几个核心指标：\n• **营收增速**：反映公司成长性\n• **净利润增速**：反映盈利能力\n• **毛利率变化**：反映竞争力\n\n建议去看看最新的财报解读！", name)
		},
	},
	{
		keywords: []string{"机构", "主力"},
		respond: func(q, name string, k *Knowledge) string {
			return fmt.Sprintf("🏦 关于%s的机构动向：\n\n机构持仓是重要参考：\n• 北向资金流入/流出\n• 基金持仓变化\n• 研报评级\n\n可以参考页面上的「机构关注」指标！", name)
		},
	},
	// General (non-stock-scoped) topics.
	{
		keywords: []string{"开户", "怎么买股票", "怎么开始"},
		respond: func(q, name string, k *Knowledge) string {
			return "🚀 新手入市三步走：\n\n1. 选择一家正规券商线上开户（身份证+银行卡即可）\n2. 先用模拟盘熟悉交易规则（T+1、涨跌停等）\n3. 从小资金、指数基金开始，逐步建立自己的投资体系\n\n切记：先学习，再投资！"
		},
	},
	{
		keywords: []string{"多少钱", "本金", "多少资金"},
		respond: func(q, name string, k *Knowledge) string {
			return "💰 关于入市资金：\n\nA股一手是100股，几百元就能买入低价股。建议新手：\n• 用不影响生活的闲钱投资\n• 初期投入控制在总资产的10%以内\n• 重要的是积累经验，不是金额大小"
		},
	},
	{
		keywords: []string{"pe", "pb", "市盈率", "市净率"},
		respond: func(q, name string, k *Knowledge) string {
			return "📖 PE和PB小课堂：\n\n• **PE（市盈率）** = 股价 ÷ 每股收益，衡量回本年限，越低通常越便宜\n• **PB（市净率）** = 股价 ÷ 每股净资产，PB<1说明股价低于净资产\n\n注意：不同行业的合理区间差异很大，要和同行业比！"
		},
	},
	{
		keywords: []string{"选股", "挑股票"},
		respond: func(q, name string, k *Knowledge) string {
			return "🎯 选股的基本思路：\n\n1. 选自己看得懂的行业\n2. 看基本面：营收利润增长、ROE、负债率\n3. 看估值：PE/PB处于什么水平\n4. 分散持仓，不要押注单一标的\n\n慢慢建立自己的选股清单！"
		},
	},
	{
		keywords: []string{"亏损", "被套", "割肉"},
		respond: func(q, name string, k *Knowledge) string {
			return "💪 被套了怎么办：\n\n1. 先判断当初买入的逻辑还在不在\n2. 逻辑还在 → 耐心持有或分批补仓\n3. 逻辑破坏 → 及时止损，保住本金\n\n亏损是投资的学费，复盘比懊悔更有价值。"
		},
	},
	{
		keywords: []string{"技术分析", "k线", "均线"},
		respond: func(q, name string, k *Knowledge) string {
			return "📉 技术分析入门：\n\n• K线记录价格走势，均线反映趋势方向\n• 成交量配合价格看，放量突破更可信\n• 技术指标是辅助，不能替代基本面研究\n\n建议先掌握趋势线和支撑/压力位这两个概念。"
		},
	},
}

type ChatAssistant struct{}

func NewChatAssistant() *ChatAssistant {
	return &ChatAssistant{}
}

// Reply runs the rule chain over the lower-cased question. knowledge may be
// nil (general variant); stock-scoped rules are then skipped. FAQ matching is
// naive substring prefix comparison, then the generic deflection.
func (a *ChatAssistant) Reply(question, stockName string, knowledge *Knowledge) string {
	q := strings.ToLower(question)

	for _, rule := range chatRules {
		if rule.needsKnowledge && knowledge == nil {
			continue
		}
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				return rule.respond(q, stockName, knowledge)
			}
		}
	}

	if knowledge != nil {
		if answer, ok := matchFAQ(q, knowledge.FAQ); ok {
			return answer
		}
	}

	if stockName != "" {
		return fmt.Sprintf("🤔 关于\"%s\"这个问题...\n\n这是个好问题！建议你：\n\n1. 📖 先看看上面的热门问答，里面有很多干货\n2. 📊 参考综合画像的各项指标\n3. 💬 也可以换个方式问我，比如问\"%s的风险\"或\"%s能不能买\"\n\n我会尽力帮你解答！", question, stockName, stockName)
	}
	return fmt.Sprintf("关于\"%s\"这个问题，我需要更多信息来给出准确回答。建议您查看公司的财务报告、行业分析报告等资料，或者向我提出更具体的问题。", question)
}

// matchFAQ compares the question against each FAQ entry by short prefixes in
// both directions.
func matchFAQ(q string, faq []FAQEntry) (string, bool) {
	for _, entry := range faq {
		entryQ := strings.ToLower(entry.Q)
		if strings.Contains(q, firstRunes(entryQ, 4)) || strings.Contains(entryQ, firstRunes(q, 6)) {
			return "📖 关于这个问题：\n\n" + entry.A, true
		}
	}
	return "", false
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
