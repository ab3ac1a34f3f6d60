package service

import (
	"context"

	"dexspread/internal/application/port"
	"dexspread/internal/domain/model"

	"github.com/rs/zerolog/log"
)

// AlertService 提醒落库 + 广播
// 任何后端失败都不阻塞其余后端，返回第一个错误供上层记日志
type AlertService struct {
	journal    port.AlertJournal
	publishers []port.AlertPublisher
}

func NewAlertService(journal port.AlertJournal, publishers ...port.AlertPublisher) *AlertService {
	out := make([]port.AlertPublisher, 0, len(publishers))
	for _, p := range publishers {
		if p != nil {
			out = append(out, p)
		}
	}
	return &AlertService{journal: journal, publishers: out}
}

// Record 先写流水，再逐个广播
func (a *AlertService) Record(ctx context.Context, alert model.Alert) error {
	var firstErr error

	if a.journal != nil {
		if err := a.journal.Record(ctx, alert); err != nil {
			log.Error().Err(err).Str("alert_id", alert.ID).Msg("journal record failed")
			firstErr = err
		}
	}

	for _, pub := range a.publishers {
		if err := pub.PublishAlert(ctx, alert); err != nil {
			log.Error().Err(err).Str("alert_id", alert.ID).Msg("alert publish failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
