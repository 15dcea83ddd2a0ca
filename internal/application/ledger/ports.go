package ledger

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// LocationClassifier normaliza nombres de ubicación crudos al nombre canónico
// o a entity.UnknownLocation cuando no se reconoce.
type LocationClassifier interface {
	Canonical(raw string) string
	// StorageType tipo de almacenamiento del nombre canónico (Indoor, Outdoor, Site...).
	StorageType(canonical string) string
	// IsWarehouse indica si el canónico es una bodega de la red (no un sitio final).
	IsWarehouse(canonical string) bool
}

// ResultCache caché de respuestas serializadas. ok=false indica ausencia (no es error).
type ResultCache interface {
	Get(ctx context.Context, key string) (payload []byte, ok bool, err error)
	Set(ctx context.Context, key string, payload []byte) error
}

// TxRunner ejecuta fn dentro de una transacción de BD con repositorios atados a esa tx.
// La instantánea y sus filas se guardan de forma atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		runRepo repository.LedgerRunRepository,
		entryRepo repository.LedgerEntryRepository,
	) error) error
}
