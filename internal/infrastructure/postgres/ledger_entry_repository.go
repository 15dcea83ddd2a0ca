package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.LedgerEntryRepository = (*LedgerEntryRepo)(nil)

// LedgerEntryRepo filas del ledger por ejecución sobre PostgreSQL (pool o tx).
type LedgerEntryRepo struct {
	q Querier
}

// NewLedgerEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerEntryRepository(q Querier) *LedgerEntryRepo {
	return &LedgerEntryRepo{q: q}
}

// CreateBatch inserta las filas en un solo viaje (pgx.Batch).
func (r *LedgerEntryRepo) CreateBatch(ctx context.Context, runID string, entries []entity.LedgerEntry) (int64, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	const query = `
		INSERT INTO ledger_entries (run_id, location, date, opening_balance, inbound, transfer_out, final_out, total_outbound, closing_balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(query, runID, e.Location, e.Date, e.OpeningBalance, e.Inbound,
			e.TransferOut, e.FinalOut, e.TotalOutbound, e.ClosingBalance)
	}
	results := r.q.SendBatch(ctx, batch)
	var n int64
	for range entries {
		tag, err := results.Exec()
		if err != nil {
			_ = results.Close()
			return n, fmt.Errorf("insert ledger entry: %w", err)
		}
		n += tag.RowsAffected()
	}
	return n, results.Close()
}

// ListByRun filas de una ejecución ordenadas por (ubicación, fecha).
func (r *LedgerEntryRepo) ListByRun(ctx context.Context, runID, location string) ([]entity.LedgerEntry, error) {
	query := `
		SELECT location, date, opening_balance, inbound, transfer_out, final_out, total_outbound, closing_balance
		FROM ledger_entries WHERE run_id = $1`
	args := []any{runID}
	if location != "" {
		query += " AND location = $2"
		args = append(args, location)
	}
	query += " ORDER BY location, date"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()
	var list []entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(&e.Location, &e.Date, &e.OpeningBalance, &e.Inbound,
			&e.TransferOut, &e.FinalOut, &e.TotalOutbound, &e.ClosingBalance); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.Date = e.Date.UTC()
		list = append(list, e)
	}
	return list, rows.Err()
}
