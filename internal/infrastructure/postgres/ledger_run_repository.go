package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.LedgerRunRepository = (*LedgerRunRepo)(nil)

// LedgerRunRepo instantáneas de ejecución sobre PostgreSQL (pool o tx).
type LedgerRunRepo struct {
	q Querier
}

// NewLedgerRunRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRunRepository(q Querier) *LedgerRunRepo {
	return &LedgerRunRepo{q: q}
}

// Create persiste una ejecución.
func (r *LedgerRunRepo) Create(ctx context.Context, run *entity.LedgerRun) error {
	query := `
		INSERT INTO ledger_runs (id, input_hash, source, record_count, passed, ledger_built, payload, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		run.ID, run.InputHash, run.Source, run.RecordCount, run.Passed, run.LedgerBuilt,
		run.Payload, nullableString(run.CreatedBy), run.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ejecución %s", domain.ErrDuplicate, run.ID)
		}
		return fmt.Errorf("insert ledger run: %w", err)
	}
	return nil
}

// GetByID obtiene una ejecución por ID. nil, nil si no existe.
func (r *LedgerRunRepo) GetByID(ctx context.Context, id string) (*entity.LedgerRun, error) {
	query := `
		SELECT id, input_hash, source, record_count, passed, ledger_built, payload, created_by, created_at
		FROM ledger_runs WHERE id = $1`
	run, err := scanRun(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger run: %w", err)
	}
	return run, nil
}

// List lista ejecuciones de la más reciente a la más antigua, sin payload.
func (r *LedgerRunRepo) List(ctx context.Context, limit, offset int) ([]*entity.LedgerRun, error) {
	query := `
		SELECT id, input_hash, source, record_count, passed, ledger_built, NULL::jsonb, created_by, created_at
		FROM ledger_runs ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ledger runs: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger run: %w", err)
		}
		list = append(list, run)
	}
	return list, rows.Err()
}

// Count número total de ejecuciones guardadas.
func (r *LedgerRunRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM ledger_runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count ledger runs: %w", err)
	}
	return n, nil
}

func scanRun(row pgx.Row) (*entity.LedgerRun, error) {
	var run entity.LedgerRun
	var createdBy *string
	err := row.Scan(&run.ID, &run.InputHash, &run.Source, &run.RecordCount, &run.Passed,
		&run.LedgerBuilt, &run.Payload, &createdBy, &run.CreatedAt)
	if err != nil {
		return nil, err
	}
	run.CreatedBy = derefString(createdBy)
	return &run, nil
}
