package service

import (
	"context"

	"dexspread/internal/application/port"
	"dexspread/internal/domain"
	"dexspread/internal/domain/model"
	dsvc "dexspread/internal/domain/service"

	"github.com/rs/zerolog/log"
)

// Scanner 扫描编排：抓取 -> 计算 -> 按门槛过滤 -> 选净利最高
type Scanner struct {
	fetcher     port.SnapshotFetcher
	calc        *dsvc.Calculator
	prefs       *domain.PrefStore
	instruments []string
}

func NewScanner(fetcher port.SnapshotFetcher, calc *dsvc.Calculator, prefs *domain.PrefStore, instruments []string) *Scanner {
	return &Scanner{
		fetcher:     fetcher,
		calc:        calc,
		prefs:       prefs,
		instruments: instruments,
	}
}

// Scan 按给定门槛执行一轮全量扫描
// 交易所失败不会让扫描出错，最坏情况是结果为空
func (s *Scanner) Scan(ctx context.Context, minNet float64) model.ScanResult {
	snaps := s.fetcher.SnapshotAll(ctx, s.instruments)

	var qualified []model.Spread
	for _, snap := range snaps {
		for _, sp := range s.calc.ComputeSpreads(snap) {
			if sp.Net >= minNet {
				qualified = append(qualified, sp)
			}
		}
	}

	result := model.ScanResult{
		Spreads:   qualified,
		Snapshots: snaps,
		Threshold: minNet,
	}

	// 严格大于保证并列时保留先遇到的
	for i := range qualified {
		if result.Best == nil || qualified[i].Net > result.Best.Net {
			result.Best = &qualified[i]
		}
	}

	if result.Best != nil {
		log.Info().
			Str("instrument", result.Best.Instrument).
			Str("cheap", result.Best.CheapVenue).
			Str("expensive", result.Best.ExpensiveVenue).
			Float64("net", result.Best.Net).
			Int("qualifying", len(qualified)).
			Msg("spread opportunity detected")
	} else {
		log.Debug().Float64("threshold", minNet).Msg("scan found no qualifying spread")
	}

	return result
}

// ScanFor 以调用者自己的门槛执行扫描
func (s *Scanner) ScanFor(ctx context.Context, callerID int64) model.ScanResult {
	return s.Scan(ctx, s.prefs.Threshold(callerID))
}
