package memory

import (
	"context"
	"sync"

	"dexspread/internal/application/port"
	"dexspread/internal/domain/model"
)

// Journal is a simple in-memory alert journal, used when no
// persistent backend is enabled. Keeps the most recent entries only.
type Journal struct {
	mu     sync.RWMutex
	alerts []model.Alert
	max    int
}

var _ port.AlertJournal = (*Journal)(nil)

// New creates a new in-memory journal holding at most max entries.
func New(max int) *Journal {
	if max <= 0 {
		max = 256
	}
	return &Journal{max: max}
}

func (j *Journal) Record(ctx context.Context, alert model.Alert) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.alerts = append(j.alerts, alert)
	if len(j.alerts) > j.max {
		j.alerts = j.alerts[len(j.alerts)-j.max:]
	}
	return nil
}

// Recent returns up to limit alerts, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]model.Alert, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if limit <= 0 || limit > len(j.alerts) {
		limit = len(j.alerts)
	}
	out := make([]model.Alert, 0, limit)
	for i := len(j.alerts) - 1; i >= len(j.alerts)-limit; i-- {
		out = append(out, j.alerts[i])
	}
	return out, nil
}

func (j *Journal) Close() error { return nil }
