package venue

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"dexspread/internal/application/port"
)

const (
	// NadoName nado.xyz（Ink 永续）
	NadoName = "nado"

	nadoBaseURL    = "https://gateway.nado.xyz"
	nadoDefaultFee = 0.00035
)

// Nado nado.xyz 行情适配器
type Nado struct {
	baseURL string
	fee     float64
}

var _ port.PriceSource = (*Nado)(nil)

func init() {
	Register(NadoName, func(baseURL string, fee float64) port.PriceSource {
		return NewNado(baseURL, fee)
	})
}

func NewNado(baseURL string, fee float64) *Nado {
	if baseURL == "" {
		baseURL = nadoBaseURL
	}
	if fee <= 0 {
		fee = nadoDefaultFee
	}
	return &Nado{baseURL: strings.TrimRight(baseURL, "/"), fee: fee}
}

func (n *Nado) Name() string { return NadoName }

func (n *Nado) Fee() float64 { return n.fee }

// BuildRequest GET /api/v1/markets/{instrument}/stats
func (n *Nado) BuildRequest(ctx context.Context, instrument string) (*http.Request, error) {
	url := fmt.Sprintf("%s/api/v1/markets/%s/stats", n.baseURL, instrument)
	return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
}

func (n *Nado) ParsePrice(body []byte) (float64, error) {
	return parseMarkPrice(body)
}
