package venue

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"dexspread/internal/application/port"
)

const (
	// ExtendedName extended.exchange（StarkNet 永续）
	ExtendedName = "extended"

	extendedBaseURL    = "https://api.starknet.extended.exchange"
	extendedDefaultFee = 0.00025
)

// Extended extended.exchange 行情适配器
type Extended struct {
	baseURL string
	fee     float64
}

var _ port.PriceSource = (*Extended)(nil)

func init() {
	Register(ExtendedName, func(baseURL string, fee float64) port.PriceSource {
		return NewExtended(baseURL, fee)
	})
}

func NewExtended(baseURL string, fee float64) *Extended {
	if baseURL == "" {
		baseURL = extendedBaseURL
	}
	if fee <= 0 {
		fee = extendedDefaultFee
	}
	return &Extended{baseURL: strings.TrimRight(baseURL, "/"), fee: fee}
}

func (e *Extended) Name() string { return ExtendedName }

func (e *Extended) Fee() float64 { return e.fee }

// BuildRequest GET /api/v1/info/markets/{instrument}/stats
func (e *Extended) BuildRequest(ctx context.Context, instrument string) (*http.Request, error) {
	url := fmt.Sprintf("%s/api/v1/info/markets/%s/stats", e.baseURL, instrument)
	return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
}

func (e *Extended) ParsePrice(body []byte) (float64, error) {
	return parseMarkPrice(body)
}
