package clickhouse

import (
	"context"
	"fmt"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage"
)

// DailyComplianceStore implements storage.ComplianceStore using ClickHouse.
type DailyComplianceStore struct {
	conn *Conn
}

// NewDailyComplianceStore creates a new DailyComplianceStore.
func NewDailyComplianceStore(conn *Conn) *DailyComplianceStore {
	return &DailyComplianceStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ComplianceStore = (*DailyComplianceStore)(nil)

// Insert adds one day. Returns ErrDuplicateKey if (account_id, date) exists.
func (s *DailyComplianceStore) Insert(ctx context.Context, d *domain.DailyComplianceRecord) error {
	if d == nil || d.AccountID == "" || d.Date == "" {
		return storage.ErrInvalidInput
	}
	return s.InsertBulk(ctx, []*domain.DailyComplianceRecord{d})
}

// InsertBulk adds multiple days. Fails entire batch on duplicate.
func (s *DailyComplianceStore) InsertBulk(ctx context.Context, days []*domain.DailyComplianceRecord) error {
	if len(days) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		accountID string
		date      string
	}
	seen := make(map[key]struct{})
	for _, d := range days {
		if d == nil || d.AccountID == "" || d.Date == "" {
			return storage.ErrInvalidInput
		}
		k := key{d.AccountID, d.Date}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// MergeTree doesn't enforce uniqueness, so check against existing rows.
	for _, d := range days {
		exists, err := s.exists(ctx, d.AccountID, d.Date)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO daily_compliance (
			account_id, date, respected, not_respected, legacy_rate, legacy_total
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, d := range days {
		err = batch.Append(
			d.AccountID, d.Date,
			uint32(max(d.Respected, 0)), uint32(max(d.NotRespected, 0)),
			d.LegacyRate, legacyTotal32(d.LegacyTotal),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByAccount retrieves all days for an account, ordered by date ASC.
func (s *DailyComplianceStore) GetByAccount(ctx context.Context, accountID string) ([]*domain.DailyComplianceRecord, error) {
	return s.GetByAccountDateRange(ctx, accountID, "", "")
}

// GetByAccountDateRange retrieves days within [from, to] (inclusive).
// An empty bound leaves that side open.
func (s *DailyComplianceStore) GetByAccountDateRange(ctx context.Context, accountID, from, to string) ([]*domain.DailyComplianceRecord, error) {
	if accountID == "" {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT account_id, date, respected, not_respected, legacy_rate, legacy_total
		FROM daily_compliance FINAL
		WHERE account_id = ?
	`
	args := []any{accountID}
	if from != "" {
		query += " AND date >= ?"
		args = append(args, from)
	}
	if to != "" {
		query += " AND date <= ?"
		args = append(args, to)
	}
	query += " ORDER BY date ASC"

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query daily compliance: %w", err)
	}
	defer rows.Close()

	return scanDailyCompliance(rows)
}

// exists checks if a day with the given key exists.
func (s *DailyComplianceStore) exists(ctx context.Context, accountID, date string) (bool, error) {
	query := `
		SELECT count(*) FROM daily_compliance
		WHERE account_id = ? AND date = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, accountID, date).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanDailyCompliance scans multiple rows.
func scanDailyCompliance(rows chRows) ([]*domain.DailyComplianceRecord, error) {
	var days []*domain.DailyComplianceRecord

	for rows.Next() {
		var d domain.DailyComplianceRecord
		var respected, notRespected uint32
		var legacyTotal *int32

		err := rows.Scan(
			&d.AccountID, &d.Date, &respected, &notRespected,
			&d.LegacyRate, &legacyTotal,
		)
		if err != nil {
			return nil, fmt.Errorf("scan daily compliance row: %w", err)
		}

		d.Respected = int(respected)
		d.NotRespected = int(notRespected)
		if legacyTotal != nil {
			v := int(*legacyTotal)
			d.LegacyTotal = &v
		}
		days = append(days, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily compliance rows: %w", err)
	}

	return days, nil
}

func legacyTotal32(v *int) *int32 {
	if v == nil {
		return nil
	}
	t := int32(*v)
	return &t
}
