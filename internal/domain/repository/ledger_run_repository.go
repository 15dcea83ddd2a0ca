package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// LedgerRunRepository puerto de persistencia para las instantáneas de ejecución.
type LedgerRunRepository interface {
	Create(ctx context.Context, run *entity.LedgerRun) error
	GetByID(ctx context.Context, id string) (*entity.LedgerRun, error)
	List(ctx context.Context, limit, offset int) ([]*entity.LedgerRun, error)
	Count(ctx context.Context) (int, error)
}

// LedgerEntryRepository puerto de persistencia de las filas del ledger de una ejecución.
type LedgerEntryRepository interface {
	CreateBatch(ctx context.Context, runID string, entries []entity.LedgerEntry) (int64, error)
	// ListByRun filtra por ubicación si location no es vacío.
	ListByRun(ctx context.Context, runID, location string) ([]entity.LedgerEntry, error)
}
