package port

import (
	"context"

	"dexspread/internal/domain/model"
)

// AlertJournal 已推送提醒的流水仓储
type AlertJournal interface {
	Record(ctx context.Context, alert model.Alert) error
	Recent(ctx context.Context, limit int) ([]model.Alert, error)

	// Connection management
	Close() error
}
