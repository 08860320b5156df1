package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"DemandCast/internal/domain/models"
	pkgch "DemandCast/pkg/clickhouse"
	applogger "DemandCast/pkg/logger"
	"DemandCast/pkg/util"
)

// CHSalesStore persists and loads sales records in ClickHouse. It serves
// both as the startup HistoryStore and as the sink for ingested events.
type CHSalesStore struct {
	ch    *pkgch.Client
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHSalesStore(ch *pkgch.Client, table string) *CHSalesStore {
	if table == "" {
		table = "sales_daily"
	}
	return &CHSalesStore{ch: ch, db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHSalesStore) SetLogger(l *applogger.Logger) { s.l = l }

// SchemaStatements returns the DDL needed by this store.
func (s *CHSalesStore) SchemaStatements() []string {
	return []string{fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            date Date,
            category LowCardinality(String),
            quantity Float64,
            unit_price Float64
        ) ENGINE = MergeTree()
        ORDER BY (category, date)
    `, s.table)}
}

func (s *CHSalesStore) LoadAll(ctx context.Context) ([]models.SalesRecord, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT date, category, sum(quantity) AS quantity, anyLast(unit_price) AS unit_price
        FROM %s
        GROUP BY category, date
        ORDER BY category ASC, date ASC
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse load_all query error",
				applogger.String("table", s.table),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("load sales history: %w", err)
	}
	defer rows.Close()

	out := make([]models.SalesRecord, 0, 1024)
	for rows.Next() {
		var r models.SalesRecord
		if err := rows.Scan(&r.Date, &r.Category, &r.Quantity, &r.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan sales record: %w", err)
		}
		r.Date = util.Day(r.Date)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse load_all ok",
			applogger.String("table", s.table),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHSalesStore) Store(ctx context.Context, r *models.SalesRecord) error {
	return s.StoreBatch(ctx, []*models.SalesRecord{r})
}

func (s *CHSalesStore) StoreBatch(ctx context.Context, records []*models.SalesRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	q := fmt.Sprintf("INSERT INTO %s (date, category, quantity, unit_price) VALUES (?, ?, ?, ?)", s.table)
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, util.Day(r.Date), r.Category, r.Quantity, r.UnitPrice); err != nil {
			tx.Rollback()
			if s.l != nil {
				s.l.Error("clickhouse insert error",
					applogger.String("table", s.table),
					applogger.String("category", r.Category),
					applogger.Error(err),
				)
			}
			return fmt.Errorf("insert sales record: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func (s *CHSalesStore) Health(ctx context.Context) error {
	return s.ch.Health(ctx)
}

func (s *CHSalesStore) Close() error {
	return s.ch.Close()
}
