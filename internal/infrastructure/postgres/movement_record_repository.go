package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRecordRepository = (*MovementRecordRepo)(nil)

// MovementRecordRepo registros de movimiento normalizados sobre PostgreSQL (pool o tx).
type MovementRecordRepo struct {
	q Querier
}

// NewMovementRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRecordRepository(q Querier) *MovementRecordRepo {
	return &MovementRecordRepo{q: q}
}

var movementColumns = []string{
	"id", "case_id", "date", "quantity", "kind", "location", "counterpart_location", "provenance",
}

// CreateBatch inserta con COPY. El orden de inserción se conserva en seq.
func (r *MovementRecordRepo) CreateBatch(ctx context.Context, records []entity.TransactionRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	n, err := r.q.CopyFrom(ctx, pgx.Identifier{"movement_records"}, movementColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			rec := records[i]
			return []any{
				uuid.New(), rec.CaseID, nullableDate(rec.Date), rec.Quantity, string(rec.Kind),
				rec.Location, nullableString(rec.CounterpartLocation), nullableString(string(rec.Provenance)),
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy movement records: %w", err)
	}
	return n, nil
}

// List devuelve los registros en [from, to]; los de fecha desconocida siempre se incluyen.
func (r *MovementRecordRepo) List(ctx context.Context, from, to *time.Time) ([]entity.TransactionRecord, error) {
	query := `
		SELECT case_id, date, quantity, kind, location, counterpart_location, provenance
		FROM movement_records WHERE TRUE`
	var args []any
	pos := 1
	if from != nil {
		query += fmt.Sprintf(" AND (date IS NULL OR date >= $%d)", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND (date IS NULL OR date <= $%d)", pos)
		args = append(args, *to)
	}
	query += " ORDER BY seq"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movement records: %w", err)
	}
	defer rows.Close()
	var list []entity.TransactionRecord
	for rows.Next() {
		var (
			rec                     entity.TransactionRecord
			date                    *time.Time
			kind                    string
			counterpart, provenance *string
		)
		if err := rows.Scan(&rec.CaseID, &date, &rec.Quantity, &kind, &rec.Location, &counterpart, &provenance); err != nil {
			return nil, fmt.Errorf("scan movement record: %w", err)
		}
		rec.Date = derefTime(date)
		rec.Kind = entity.Kind(kind)
		rec.CounterpartLocation = derefString(counterpart)
		rec.Provenance = entity.Provenance(derefString(provenance))
		list = append(list, rec)
	}
	return list, rows.Err()
}
