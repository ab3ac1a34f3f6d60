package service

import (
	"dexspread/internal/domain/model"
)

// Calculator 纯价差计算：不做网络请求，也不按门槛过滤
type Calculator struct {
	notional float64            // 单边名义下单金额（美元）
	fees     map[string]float64 // 交易所 -> 单边 taker 费率
}

func NewCalculator(notional float64, fees map[string]float64) *Calculator {
	f := make(map[string]float64, len(fees))
	for venue, rate := range fees {
		f[venue] = rate
	}
	return &Calculator{notional: notional, fees: f}
}

// ComputeSpreads 对快照内所有无序交易所对计算价差
// i<j 枚举保证每对只出现一次；价格 <= 0 的组合被跳过
func (c *Calculator) ComputeSpreads(snap model.Snapshot) []model.Spread {
	quotes := snap.Quotes
	if len(quotes) < 2 {
		return nil
	}

	spreads := make([]model.Spread, 0, len(quotes)*(len(quotes)-1)/2)
	for i := 0; i < len(quotes); i++ {
		for j := i + 1; j < len(quotes); j++ {
			if sp, ok := c.compare(snap.Instrument, quotes[i], quotes[j]); ok {
				spreads = append(spreads, sp)
			}
		}
	}
	return spreads
}

// compare 计算一对报价的毛利、手续费与净利，先归一为低价/高价
func (c *Calculator) compare(instrument string, a, b model.Quote) (model.Spread, bool) {
	if a.Price <= 0 || b.Price <= 0 {
		return model.Spread{}, false
	}

	cheap, expensive := a, b
	if cheap.Price > expensive.Price {
		cheap, expensive = expensive, cheap
	}

	// 以名义金额在低价所能买到的数量
	units := c.notional / cheap.Price
	gross := units * (expensive.Price - cheap.Price)
	grossPct := (expensive.Price - cheap.Price) / cheap.Price * 100

	// 每所开仓平仓各收一次 taker，共两次
	fees := 2*c.fees[cheap.Venue]*c.notional + 2*c.fees[expensive.Venue]*c.notional

	return model.Spread{
		Instrument:     instrument,
		CheapVenue:     cheap.Venue,
		ExpensiveVenue: expensive.Venue,
		CheapPrice:     cheap.Price,
		ExpensivePrice: expensive.Price,
		Gross:          gross,
		GrossPct:       grossPct,
		Fees:           fees,
		Net:            gross - fees,
	}, true
}
