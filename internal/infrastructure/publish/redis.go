package publish

import (
	"context"
	"encoding/json"
	"strings"

	"dexspread/internal/application/port"
	"dexspread/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// Redis 把提醒写入 stream 并广播到 pub/sub 频道
type Redis struct {
	rdb     *redis.Client
	stream  string
	channel string
}

var _ port.AlertPublisher = (*Redis)(nil)

func NewRedis(rdb *redis.Client, stream, channel string) *Redis {
	if strings.TrimSpace(stream) == "" {
		stream = "dexspread:alerts"
	}
	if strings.TrimSpace(channel) == "" {
		channel = "dexspread:alerts:pub"
	}
	return &Redis{rdb: rdb, stream: stream, channel: channel}
}

func (p *Redis) PublishAlert(ctx context.Context, alert model.Alert) error {
	// 完整提醒用 JSON 存 payload，便于消费者
	payload, err := json.Marshal(alert)
	if err != nil {
		return err
	}

	// 1) Stream: XADD <stream> * id ts_ms instrument net payload
	_, err = p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"id":         alert.ID,
			"ts_ms":      alert.Timestamp,
			"instrument": alert.Spread.Instrument,
			"net":        alert.Spread.Net,
			"payload":    string(payload),
		},
	}).Result()
	if err != nil {
		return err
	}

	// 2) PubSub: PUBLISH <channel> json
	return p.rdb.Publish(ctx, p.channel, payload).Err()
}
