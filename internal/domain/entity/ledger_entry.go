package entity

import "time"

// LedgerEntry fila (ubicación, día) del ledger de inventario.
// ClosingBalance = OpeningBalance + Inbound - TotalOutbound.
type LedgerEntry struct {
	Location       string
	Date           time.Time
	OpeningBalance int
	Inbound        int
	TransferOut    int
	FinalOut       int
	TotalOutbound  int
	ClosingBalance int
}

// Balanced verifica la identidad del ledger para la fila.
func (e LedgerEntry) Balanced() bool {
	return e.TotalOutbound == e.TransferOut+e.FinalOut &&
		e.ClosingBalance == e.OpeningBalance+e.Inbound-e.TotalOutbound
}
