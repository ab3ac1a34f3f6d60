package port

import (
	"context"

	"dexspread/internal/domain/model"
)

// AlertPublisher 把提醒广播给下游消费者
type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert model.Alert) error
}
