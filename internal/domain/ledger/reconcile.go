package ledger

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// pairKey agrupa los tramos de un mismo traslado: (case, ubicación, contraparte).
type pairKey struct {
	caseID      string
	location    string
	counterpart string
}

type pairTotals struct {
	in  int
	out int
}

// Reconciler sintetiza el tramo faltante de los traslados registrados de un solo lado.
type Reconciler struct {
	now func() time.Time
}

// NewReconciler construye el conciliador. now se usa como fecha cuando el case no tiene ninguna fecha conocida;
// si es nil se usa time.Now.
func NewReconciler(now func() time.Time) *Reconciler {
	if now == nil {
		now = time.Now
	}
	return &Reconciler{now: now}
}

// Reconcile devuelve los registros de entrada seguidos de los tramos sintéticos necesarios.
// Nunca modifica ni elimina registros existentes.
//
// Por grupo (case, ubicación, contraparte):
//   - solo IN  -> TRANSFER_OUT en la ubicación con AUTO_FIX_IN_TO_OUT
//   - solo OUT -> TRANSFER_IN en la contraparte con AUTO_FIX_OUT_TO_IN
//
// Los grupos con ambos lados positivos quedan intactos aunque no cuadren.
func (rc *Reconciler) Reconcile(records []entity.TransactionRecord) []entity.TransactionRecord {
	totals := make(map[pairKey]*pairTotals)
	var order []pairKey
	earliest := make(map[string]time.Time)

	for _, r := range records {
		if r.HasKnownDate() {
			if cur, ok := earliest[r.CaseID]; !ok || r.Date.Before(cur) {
				earliest[r.CaseID] = r.Date
			}
		}
		if !r.Kind.IsTransfer() {
			continue
		}
		k := groupKey(r)
		t, ok := totals[k]
		if !ok {
			t = &pairTotals{}
			totals[k] = t
			order = append(order, k)
		}
		if r.Kind == entity.KindTransferIn {
			t.in += r.Quantity
		} else {
			t.out += r.Quantity
		}
	}

	out := make([]entity.TransactionRecord, len(records), len(records)+len(order))
	copy(out, records)

	for _, k := range order {
		t := totals[k]
		date, ok := earliest[k.caseID]
		if !ok {
			date = rc.now()
		}
		switch {
		case t.in > 0 && t.out == 0:
			out = append(out, entity.TransactionRecord{
				CaseID:              k.caseID,
				Date:                date,
				Quantity:            t.in,
				Kind:                entity.KindTransferOut,
				Location:            k.location,
				CounterpartLocation: k.counterpart,
				Provenance:          entity.ProvenanceAutoFixInToOut,
			})
		case t.out > 0 && t.in == 0:
			out = append(out, entity.TransactionRecord{
				CaseID:              k.caseID,
				Date:                date,
				Quantity:            t.out,
				Kind:                entity.KindTransferIn,
				Location:            k.counterpart,
				CounterpartLocation: k.location,
				Provenance:          entity.ProvenanceAutoFixOutToIn,
			})
		}
	}
	return out
}

// groupKey clave del grupo al que pertenece un tramo. Un TRANSFER_IN sintetizado vive en la
// contraparte del grupo que lo originó y se imputa a ese grupo.
func groupKey(r entity.TransactionRecord) pairKey {
	if r.Provenance == entity.ProvenanceAutoFixOutToIn {
		return pairKey{caseID: r.CaseID, location: r.CounterpartLocation, counterpart: r.Location}
	}
	return pairKey{caseID: r.CaseID, location: r.Location, counterpart: r.CounterpartLocation}
}

// Reconcile atajo con reloj del sistema.
func Reconcile(records []entity.TransactionRecord) []entity.TransactionRecord {
	return NewReconciler(nil).Reconcile(records)
}

// CountSynthetic cuenta los registros sintéticos por dirección de la corrección.
func CountSynthetic(records []entity.TransactionRecord) (inToOut, outToIn int) {
	for _, r := range records {
		switch r.Provenance {
		case entity.ProvenanceAutoFixInToOut:
			inToOut++
		case entity.ProvenanceAutoFixOutToIn:
			outToIn++
		}
	}
	return inToOut, outToIn
}
