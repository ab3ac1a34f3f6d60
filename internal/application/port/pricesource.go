package port

import (
	"context"
	"net/http"
)

// PriceSource 单个交易所的行情来源：构造请求 + 解析标记价格
// 每个交易所一个实现，上层不感知具体 API 差异
type PriceSource interface {
	Name() string
	// Fee 单边 taker 费率
	Fee() float64
	BuildRequest(ctx context.Context, instrument string) (*http.Request, error)
	ParsePrice(body []byte) (float64, error)
}
