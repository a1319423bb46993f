package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"MarketBoard/internal/domain/models"
	domrepo "MarketBoard/internal/domain/repository"
	pkgch "MarketBoard/pkg/clickhouse"
	applogger "MarketBoard/pkg/logger"
)

const insertChunkSize = 2000

// ClickHouseActivityStore implements ActivityStorage for ClickHouse.
type ClickHouseActivityStore struct {
	client *pkgch.Client
	db     *sql.DB
	table  string
	l      *applogger.Logger
}

func NewClickHouseActivityStore(client *pkgch.Client, table string) *ClickHouseActivityStore {
	return &ClickHouseActivityStore{client: client, db: client.DB(), table: table}
}

var _ domrepo.ActivityStorage = (*ClickHouseActivityStore)(nil)

// SetLogger injects a structured logger.
func (s *ClickHouseActivityStore) SetLogger(l *applogger.Logger) { s.l = l }

// Init creates the events table if missing.
func (s *ClickHouseActivityStore) Init(ctx context.Context) error {
	return s.client.InitSchema(ctx, activitySchema(s.table))
}

func activitySchema(table string) []string {
	return []string{fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            ts       DateTime64(3, 'UTC'),
            event_id String,
            type     LowCardinality(String),
            symbol   LowCardinality(String)
        )
        ENGINE = ReplacingMergeTree
        PARTITION BY toYYYYMM(ts)
        ORDER BY (symbol, ts, event_id)
        TTL toDateTime(ts) + INTERVAL 90 DAY`, table)}
}

func (s *ClickHouseActivityStore) Store(ctx context.Context, a *models.Activity) error {
	return s.StoreBatch(ctx, []*models.Activity{a})
}

// StoreBatch inserts events using multi-row VALUES in chunks.
func (s *ClickHouseActivityStore) StoreBatch(ctx context.Context, events []*models.Activity) error {
	for start := 0; start < len(events); start += insertChunkSize {
		end := min(start+insertChunkSize, len(events))
		q, args := buildInsert(s.table, events[start:end])
		if q == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			s.logError("clickhouse insert activity error", err)
			return fmt.Errorf("insert activity: %w", err)
		}
	}
	return nil
}

func buildInsert(table string, events []*models.Activity) (string, []interface{}) {
	values := make([]string, 0, len(events))
	args := make([]interface{}, 0, len(events)*4)
	for _, a := range events {
		if a == nil || a.Symbol == "" || a.At.IsZero() {
			continue
		}
		values = append(values, "(?, ?, ?, ?)")
		args = append(args, a.At.UTC(), a.ID, a.Type, a.Symbol)
	}
	if len(values) == 0 {
		return "", nil
	}
	q := fmt.Sprintf("INSERT INTO %s (ts, event_id, type, symbol) VALUES %s", table, strings.Join(values, ","))
	return q, args
}

// Popular returns symbols ordered by view count since the given time.
func (s *ClickHouseActivityStore) Popular(ctx context.Context, since time.Time, limit int) ([]models.PopularSymbol, error) {
	q := fmt.Sprintf(`
        SELECT symbol, count() AS views
        FROM %s FINAL
        WHERE ts >= ?
        GROUP BY symbol
        ORDER BY views DESC, symbol ASC
        LIMIT ?`, s.table)
	rows, err := s.db.QueryContext(ctx, q, since.UTC(), limit)
	if err != nil {
		s.logError("clickhouse popular query error", err)
		return nil, fmt.Errorf("popular: %w", err)
	}
	defer rows.Close()

	out := make([]models.PopularSymbol, 0, limit)
	for rows.Next() {
		var p models.PopularSymbol
		if err := rows.Scan(&p.Symbol, &p.Views); err != nil {
			return nil, fmt.Errorf("scan popular: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *ClickHouseActivityStore) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

func (s *ClickHouseActivityStore) Close() error {
	return nil // client lifecycle is owned by the app
}

func (s *ClickHouseActivityStore) logError(msg string, err error) {
	if s.l != nil {
		s.l.Error(msg, applogger.String("table", s.table), applogger.Error(err))
	}
}
