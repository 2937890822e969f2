package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/HyeongmoKim/BidAssistance-BE/models"
)

// PostgresStore persists bid announcements to PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use store.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS bid_announcements (
			bid_id           BIGSERIAL PRIMARY KEY,
			real_id          TEXT NOT NULL UNIQUE,
			name             TEXT NOT NULL DEFAULT '',
			organization     TEXT NOT NULL DEFAULT '',
			region           TEXT NOT NULL DEFAULT '전국',
			detail_url       TEXT NOT NULL DEFAULT '',
			report_url       TEXT NOT NULL DEFAULT '',
			report_file      TEXT NOT NULL DEFAULT '',
			start_date       TIMESTAMPTZ,
			end_date         TIMESTAMPTZ,
			open_date        TIMESTAMPTZ,
			estimate_price   NUMERIC(19,0) NOT NULL DEFAULT 0,
			basic_price      NUMERIC(19,0) NOT NULL DEFAULT 0,
			minimum_bid_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			bid_range        DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_bid_announcements_end_date ON bid_announcements(end_date);
		CREATE INDEX IF NOT EXISTS idx_bid_announcements_incomplete
			ON bid_announcements(end_date) WHERE bid_range = 0;
	`)
	return err
}

// FindExistingRealIDs answers the dedup question with a single keyed-set query.
func (ps *PostgresStore) FindExistingRealIDs(ctx context.Context, realIDs []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	if len(realIDs) == 0 {
		return existing, nil
	}

	rows, err := ps.db.QueryContext(ctx, `
		SELECT real_id FROM bid_announcements WHERE real_id = ANY($1)
	`, pq.Array(realIDs))
	if err != nil {
		return nil, fmt.Errorf("postgres: find existing: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("postgres: scan real_id: %w", err)
		}
		existing[id] = struct{}{}
	}
	return existing, rows.Err()
}

const insertColumns = 14

// InsertBatch writes all announcements in one statement so the batch
// commits or fails as a unit. Rows racing a concurrent batch on the same
// natural key are silently skipped and excluded from the returned set.
func (ps *PostgresStore) InsertBatch(ctx context.Context, bids []*models.BidAnnouncement) ([]*models.BidAnnouncement, error) {
	if len(bids) == 0 {
		return nil, nil
	}

	valueStrings := make([]string, 0, len(bids))
	valueArgs := make([]interface{}, 0, len(bids)*insertColumns)

	for idx, b := range bids {
		base := idx * insertColumns
		placeholders := make([]string, insertColumns)
		for i := range placeholders {
			placeholders[i] = fmt.Sprintf("$%d", base+i+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			b.RealID, b.Name, b.Organization, b.Region,
			b.DetailURL, b.ReportURL, b.ReportFile,
			b.StartDate, b.EndDate, b.OpenDate,
			numericArg(b.EstimatePrice), numericArg(b.BasicPrice),
			b.MinimumBidRate, b.BidRange)
	}

	query := fmt.Sprintf(`
		INSERT INTO bid_announcements
			(real_id, name, organization, region,
			 detail_url, report_url, report_file,
			 start_date, end_date, open_date,
			 estimate_price, basic_price, minimum_bid_rate, bid_range)
		VALUES %s
		ON CONFLICT (real_id) DO NOTHING
		RETURNING bid_id, real_id
	`, strings.Join(valueStrings, ","))

	rows, err := ps.db.QueryContext(ctx, query, valueArgs...)
	if err != nil {
		return nil, fmt.Errorf("postgres: insert batch: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]int64, len(bids))
	for rows.Next() {
		var (
			id     int64
			realID string
		)
		if err := rows.Scan(&id, &realID); err != nil {
			return nil, fmt.Errorf("postgres: scan inserted id: %w", err)
		}
		ids[realID] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: insert batch: %w", err)
	}

	saved := make([]*models.BidAnnouncement, 0, len(ids))
	for _, b := range bids {
		if id, ok := ids[b.RealID]; ok {
			b.ID = id
			saved = append(saved, b)
		}
	}
	return saved, nil
}

// FindIncomplete selects repair candidates: deadline still ahead, bid range
// still at its default.
func (ps *PostgresStore) FindIncomplete(ctx context.Context, now time.Time) ([]*models.BidAnnouncement, error) {
	rows, err := ps.db.QueryContext(ctx, selectBidColumns+`
		WHERE end_date > $1 AND bid_range = 0
		ORDER BY bid_id
	`, now)
	if err != nil {
		return nil, fmt.Errorf("postgres: find incomplete: %w", err)
	}
	defer rows.Close()
	return scanBids(rows)
}

// UpdateBasePrice applies a repair result. The bid_range guard makes a
// concurrent duplicate update degrade to a zero-row no-op.
func (ps *PostgresStore) UpdateBasePrice(ctx context.Context, id int64, basicPrice *big.Int, bidRange float64) (bool, error) {
	res, err := ps.db.ExecContext(ctx, `
		UPDATE bid_announcements
		SET basic_price = $2, bid_range = $3
		WHERE bid_id = $1 AND bid_range = 0
	`, id, numericArg(basicPrice), bidRange)
	if err != nil {
		return false, fmt.Errorf("postgres: update base price: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("postgres: update base price: %w", err)
	}
	return n > 0, nil
}

// FetchAll retrieves all stored announcements, used by the summary report.
func (ps *PostgresStore) FetchAll(ctx context.Context) ([]*models.BidAnnouncement, error) {
	rows, err := ps.db.QueryContext(ctx, selectBidColumns+` ORDER BY bid_id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()
	return scanBids(rows)
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

const selectBidColumns = `
	SELECT bid_id, real_id, name, organization, region,
	       detail_url, report_url, report_file,
	       start_date, end_date, open_date,
	       estimate_price, basic_price, minimum_bid_rate, bid_range, created_at
	FROM bid_announcements
`

func scanBids(rows *sql.Rows) ([]*models.BidAnnouncement, error) {
	var bids []*models.BidAnnouncement
	for rows.Next() {
		var (
			b                     models.BidAnnouncement
			start, end, open      sql.NullTime
			estimateStr, basicStr string
		)
		if err := rows.Scan(
			&b.ID, &b.RealID, &b.Name, &b.Organization, &b.Region,
			&b.DetailURL, &b.ReportURL, &b.ReportFile,
			&start, &end, &open,
			&estimateStr, &basicStr, &b.MinimumBidRate, &b.BidRange, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		b.StartDate = nullableTime(start)
		b.EndDate = nullableTime(end)
		b.OpenDate = nullableTime(open)
		b.EstimatePrice = parseNumeric(estimateStr)
		b.BasicPrice = parseNumeric(basicStr)
		bids = append(bids, &b)
	}
	return bids, rows.Err()
}

// numericArg renders a big.Int for a NUMERIC column; nil becomes 0.
func numericArg(n *big.Int) string {
	if n == nil {
		return "0"
	}
	return n.String()
}

func parseNumeric(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return new(big.Int)
	}
	return n
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
