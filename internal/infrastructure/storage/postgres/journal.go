package postgres

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"

	"dexspread/internal/application/port"
	"dexspread/internal/domain/model"
)

// Journal stores sent alerts in Postgres.
type Journal struct {
	db *sql.DB
}

var _ port.AlertJournal = (*Journal)(nil)

func New(dsn string) (*Journal, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	j := &Journal{db: db}
	if err := j.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) Close() error { return j.db.Close() }

func (j *Journal) migrate(ctx context.Context) error {
	_, err := j.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS alerts (
  id TEXT PRIMARY KEY,
  ts_ms BIGINT NOT NULL,
  chat_id BIGINT NOT NULL,
  deal_id INTEGER NOT NULL,
  instrument TEXT NOT NULL,
  cheap_venue TEXT NOT NULL,
  cheap_price DOUBLE PRECISION NOT NULL,
  expensive_venue TEXT NOT NULL,
  expensive_price DOUBLE PRECISION NOT NULL,
  gross DOUBLE PRECISION NOT NULL,
  gross_pct DOUBLE PRECISION NOT NULL,
  fees DOUBLE PRECISION NOT NULL,
  net DOUBLE PRECISION NOT NULL,
  notional DOUBLE PRECISION NOT NULL,
  threshold DOUBLE PRECISION NOT NULL,
  created_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_alerts_ts ON alerts(ts_ms);
CREATE INDEX IF NOT EXISTS idx_alerts_instrument ON alerts(instrument);
`)
	return err
}

func (j *Journal) Record(ctx context.Context, a model.Alert) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO alerts(id, ts_ms, chat_id, deal_id, instrument,
			cheap_venue, cheap_price, expensive_venue, expensive_price,
			gross, gross_pct, fees, net, notional, threshold, created_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT(id) DO NOTHING
	`, a.ID, a.Timestamp, a.ChatID, a.DealID, a.Spread.Instrument,
		a.Spread.CheapVenue, a.Spread.CheapPrice, a.Spread.ExpensiveVenue, a.Spread.ExpensivePrice,
		a.Spread.Gross, a.Spread.GrossPct, a.Spread.Fees, a.Spread.Net, a.Notional, a.Threshold, a.Timestamp)
	return err
}

func (j *Journal) Recent(ctx context.Context, limit int) ([]model.Alert, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, ts_ms, chat_id, deal_id, instrument,
			cheap_venue, cheap_price, expensive_venue, expensive_price,
			gross, gross_pct, fees, net, notional, threshold
		FROM alerts ORDER BY ts_ms DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []model.Alert
	for rows.Next() {
		var a model.Alert
		if err := rows.Scan(&a.ID, &a.Timestamp, &a.ChatID, &a.DealID, &a.Spread.Instrument,
			&a.Spread.CheapVenue, &a.Spread.CheapPrice, &a.Spread.ExpensiveVenue, &a.Spread.ExpensivePrice,
			&a.Spread.Gross, &a.Spread.GrossPct, &a.Spread.Fees, &a.Spread.Net, &a.Notional, &a.Threshold); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
