package ledger

import "github.com/jhoicas/stock-ledger/internal/domain/entity"

// transferKey clave estructural de un tramo de traslado para la deduplicación.
type transferKey struct {
	caseID      string
	quantity    int
	location    string
	counterpart string
	kind        entity.Kind
}

// Deduplicate colapsa los tramos de traslado estructuralmente idénticos
// (case, cantidad, ubicación, contraparte, tipo) en su primera aparición.
// IN y FINAL_OUT pasan sin cambios aunque estén repetidos. Conserva el orden de entrada.
func Deduplicate(records []entity.TransactionRecord) []entity.TransactionRecord {
	out := make([]entity.TransactionRecord, 0, len(records))
	seen := make(map[transferKey]struct{})
	for _, r := range records {
		if !r.Kind.IsTransfer() {
			out = append(out, r)
			continue
		}
		k := transferKey{
			caseID:      r.CaseID,
			quantity:    r.Quantity,
			location:    r.Location,
			counterpart: r.CounterpartLocation,
			kind:        r.Kind,
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}
