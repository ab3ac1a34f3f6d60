package model

// Quote 单个交易所返回的标记价格
type Quote struct {
	Venue      string  `json:"venue"`
	Instrument string  `json:"instrument"`
	Price      float64 `json:"price"`
}

// Snapshot 一轮抓取中某个交易对的各所报价
// Quotes 按交易所注册顺序排列，抓取失败的交易所直接缺席
type Snapshot struct {
	Instrument string  `json:"instrument"`
	Quotes     []Quote `json:"quotes"`
}

// QuoteFor 按交易所名查找报价
func (s Snapshot) QuoteFor(venue string) (Quote, bool) {
	for _, q := range s.Quotes {
		if q.Venue == venue {
			return q, true
		}
	}
	return Quote{}, false
}

// Spread 跨所价差机会：低价所买入、高价所卖出，费用按双边往返计
type Spread struct {
	Instrument     string  `json:"instrument"`
	CheapVenue     string  `json:"cheap_venue"`
	ExpensiveVenue string  `json:"expensive_venue"`
	CheapPrice     float64 `json:"cheap_price"`
	ExpensivePrice float64 `json:"expensive_price"`
	Gross          float64 `json:"gross"`     // 毛利（美元）
	GrossPct       float64 `json:"gross_pct"` // 毛价差百分比
	Fees           float64 `json:"fees"`      // 双边往返手续费（美元）
	Net            float64 `json:"net"`       // 净利 = 毛利 - 手续费
}

// ScanResult 一轮扫描的完整结果
type ScanResult struct {
	Best      *Spread    `json:"best,omitempty"` // 净利最高的达标机会，nil 表示没有
	Spreads   []Spread   `json:"spreads"`        // 全部达标机会
	Snapshots []Snapshot `json:"snapshots"`      // 各交易对的原始报价，按配置顺序
	Threshold float64    `json:"threshold"`      // 本轮生效的最低净利门槛（美元）
}

// Found 是否存在达标机会
func (r ScanResult) Found() bool { return r.Best != nil }

// DealID 展示用编号，取达标机会数量
func (r ScanResult) DealID() int { return len(r.Spreads) }

// Alert 已推送给用户的价差提醒
type Alert struct {
	ID        string  `json:"id"`
	ChatID    int64   `json:"chat_id"`
	DealID    int     `json:"deal_id"`
	Spread    Spread  `json:"spread"`
	Notional  float64 `json:"notional"`
	Threshold float64 `json:"threshold"`
	Timestamp int64   `json:"ts_ms"`
}
