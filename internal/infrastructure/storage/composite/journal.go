package composite

import (
	"context"

	"dexspread/internal/application/port"
	"dexspread/internal/domain/model"
)

// Journal fans writes out to every configured backend.
// Reads are served by the first backend.
type Journal struct {
	journals []port.AlertJournal
}

var _ port.AlertJournal = (*Journal)(nil)

func New(journals ...port.AlertJournal) *Journal {
	// nil journals are allowed; filter in constructor for safety
	out := make([]port.AlertJournal, 0, len(journals))
	for _, j := range journals {
		if j != nil {
			out = append(out, j)
		}
	}
	return &Journal{journals: out}
}

func (c *Journal) Record(ctx context.Context, alert model.Alert) error {
	var firstErr error
	for _, j := range c.journals {
		if err := j.Record(ctx, alert); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *Journal) Recent(ctx context.Context, limit int) ([]model.Alert, error) {
	if len(c.journals) == 0 {
		return nil, nil
	}
	return c.journals[0].Recent(ctx, limit)
}

func (c *Journal) Close() error {
	var firstErr error
	for _, j := range c.journals {
		if err := j.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
