package venue

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"dexspread/internal/application/port"

	"github.com/rs/zerolog/log"
)

// Factory 交易所适配器工厂函数
// baseURL 和 fee 传零值时使用各所内置默认
type Factory func(baseURL string, fee float64) port.PriceSource

// registry 交易所名称 -> 工厂函数映射
// 各适配器通过 init() 自注册，避免硬编码
var registry = make(map[string]Factory)

// Register 注册一个交易所适配器工厂
func Register(name string, factory Factory) {
	if factory == nil {
		log.Warn().Str("venue", name).Msg("invalid venue factory")
		return
	}
	if _, exists := registry[name]; exists {
		log.Warn().Str("venue", name).Msg("venue factory already registered, overwriting")
	}
	registry[name] = factory
	log.Debug().Str("venue", name).Msg("venue factory registered")
}

// Build 按名字构造交易所适配器
func Build(name, baseURL string, fee float64) (port.PriceSource, error) {
	factory, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown venue %q", name)
	}
	return factory(baseURL, fee), nil
}

// Names 已注册的交易所名，按字母序
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// statsResponse 两家交易所的 stats 接口返回同一结构
// markPrice 可能是数字也可能是字符串，json.Number 两者都收
type statsResponse struct {
	Data struct {
		MarkPrice json.Number `json:"markPrice"`
	} `json:"data"`
}

// parseMarkPrice 从 stats 响应中取 data.markPrice
func parseMarkPrice(body []byte) (float64, error) {
	var resp statsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, err
	}
	if resp.Data.MarkPrice == "" {
		return 0, errors.New("missing markPrice")
	}
	price, err := resp.Data.MarkPrice.Float64()
	if err != nil {
		return 0, fmt.Errorf("invalid markPrice %q: %w", resp.Data.MarkPrice, err)
	}
	return price, nil
}
