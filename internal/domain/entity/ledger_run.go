package entity

import "time"

// LedgerRun instantánea de una ejecución del pipeline.
// Payload es la respuesta serializada (JSON) tal como se entregó al cliente.
type LedgerRun struct {
	ID          string
	InputHash   string
	Source      string // "request" o "store"
	RecordCount int
	Passed      bool
	LedgerBuilt bool
	Payload     []byte
	CreatedBy   string
	CreatedAt   time.Time
}

const (
	RunSourceRequest = "request"
	RunSourceStore   = "store"
)
