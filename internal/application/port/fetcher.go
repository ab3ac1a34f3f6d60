package port

import (
	"context"

	"dexspread/internal/domain/model"
)

// SnapshotFetcher 并发抓取一轮各所报价
// 单所失败只表现为该所缺席，不返回错误
type SnapshotFetcher interface {
	Snapshot(ctx context.Context, instrument string) model.Snapshot
	SnapshotAll(ctx context.Context, instruments []string) []model.Snapshot
}
