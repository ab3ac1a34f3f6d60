package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"dexspread/internal/application/port"
	"dexspread/internal/domain/model"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// 单次响应体读取上限
const maxBodyBytes = 1 << 20

// Fetcher 并发抓取所有交易所的标记价格
// 单所超时、非 200、解析失败只会让该所缺席本轮快照
type Fetcher struct {
	client  *http.Client
	timeout time.Duration // 单个请求的超时
	sources []port.PriceSource
}

var _ port.SnapshotFetcher = (*Fetcher)(nil)

func NewFetcher(sources []port.PriceSource, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		client:  &http.Client{},
		timeout: timeout,
		sources: sources,
	}
}

// Snapshot 抓取单个交易对在全部交易所的报价
// 报价按交易所注册顺序排列，失败的交易所直接缺席
func (f *Fetcher) Snapshot(ctx context.Context, instrument string) model.Snapshot {
	results := make([]*model.Quote, len(f.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range f.sources {
		i, src := i, src
		g.Go(func() error {
			quote, err := f.fetchQuote(gctx, src, instrument)
			if err != nil {
				log.Warn().Err(err).
					Str("venue", src.Name()).
					Str("instrument", instrument).
					Msg("quote fetch failed")
				return nil // 缺席即可，不中断其他交易所
			}
			results[i] = &quote
			return nil
		})
	}
	_ = g.Wait()

	snap := model.Snapshot{Instrument: instrument}
	for _, q := range results {
		if q != nil {
			snap.Quotes = append(snap.Quotes, *q)
		}
	}
	return snap
}

// SnapshotAll 并发抓取全部交易对，结果按入参顺序返回
func (f *Fetcher) SnapshotAll(ctx context.Context, instruments []string) []model.Snapshot {
	snaps := make([]model.Snapshot, len(instruments))

	g, gctx := errgroup.WithContext(ctx)
	for i, instrument := range instruments {
		i, instrument := i, instrument
		g.Go(func() error {
			snaps[i] = f.Snapshot(gctx, instrument)
			return nil
		})
	}
	_ = g.Wait()

	return snaps
}

// fetchQuote 单次请求，带独立超时
func (f *Fetcher) fetchQuote(ctx context.Context, src port.PriceSource, instrument string) (model.Quote, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := src.BuildRequest(reqCtx, instrument)
	if err != nil {
		return model.Quote{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return model.Quote{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return model.Quote{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return model.Quote{}, fmt.Errorf("%s api error: %d %s", src.Name(), resp.StatusCode, string(body))
	}

	price, err := src.ParsePrice(body)
	if err != nil {
		return model.Quote{}, fmt.Errorf("parse price: %w", err)
	}

	log.Debug().
		Str("venue", src.Name()).
		Str("instrument", instrument).
		Float64("price", price).
		Msg("quote fetched")

	return model.Quote{Venue: src.Name(), Instrument: instrument, Price: price}, nil
}
