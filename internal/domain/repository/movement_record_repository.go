package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MovementRecordRepository puerto de lectura/escritura de los registros normalizados de origen.
type MovementRecordRepository interface {
	// List devuelve los registros en el rango [from, to]. Los registros con fecha desconocida
	// se incluyen siempre. Orden de inserción.
	List(ctx context.Context, from, to *time.Time) ([]entity.TransactionRecord, error)
	// CreateBatch inserta los registros y devuelve cuántos se guardaron.
	CreateBatch(ctx context.Context, records []entity.TransactionRecord) (int64, error)
}
