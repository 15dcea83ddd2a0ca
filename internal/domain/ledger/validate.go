package ledger

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// FindingKind clasifica un hallazgo de validación.
type FindingKind string

const (
	FindingUnbalancedTransfer  FindingKind = "UNBALANCED_TRANSFER"  // fatal
	FindingChronology          FindingKind = "CHRONOLOGY"           // fatal
	FindingSyntheticChronology FindingKind = "SYNTHETIC_CHRONOLOGY" // advertencia
	FindingNegativeBalance     FindingKind = "NEGATIVE_BALANCE"     // advertencia
)

// UnbalancedTransferError el total TRANSFER_IN de un case no coincide con su total TRANSFER_OUT.
type UnbalancedTransferError struct {
	CaseID      string
	TransferIn  int
	TransferOut int
	Records     []entity.TransactionRecord
}

// Difference diferencia con signo: TRANSFER_IN - TRANSFER_OUT.
func (e *UnbalancedTransferError) Difference() int {
	return e.TransferIn - e.TransferOut
}

func (e *UnbalancedTransferError) Error() string {
	return fmt.Sprintf("case %s: traslados desbalanceados (in=%d, out=%d, diferencia=%+d)",
		e.CaseID, e.TransferIn, e.TransferOut, e.Difference())
}

// ChronologyError registros reales de un case fuera de orden cronológico.
// Records contiene los registros cuya fecha es anterior a una fecha ya vista en el case.
type ChronologyError struct {
	CaseID  string
	Records []entity.TransactionRecord
}

func (e *ChronologyError) Error() string {
	return fmt.Sprintf("case %s: %d registro(s) con fecha fuera de orden", e.CaseID, len(e.Records))
}

// Warning hallazgo no fatal: se informa al llamador pero no detiene el pipeline.
type Warning struct {
	Kind     FindingKind
	CaseID   string
	Location string
	Date     time.Time
	Message  string
}

// Violation par (case, tipo) de un hallazgo fatal.
type Violation struct {
	CaseID string
	Kind   FindingKind
}

// ValidationReport resultado del validador. No es un booleano: lleva el detalle para que el llamador decida.
type ValidationReport struct {
	Unbalanced []*UnbalancedTransferError
	Chronology []*ChronologyError
	Warnings   []Warning
}

// Passed indica si no hay hallazgos fatales.
func (r ValidationReport) Passed() bool {
	return len(r.Unbalanced) == 0 && len(r.Chronology) == 0
}

// HasUnbalanced indica si algún case viola la conservación. En ese caso no se debe construir el ledger.
func (r ValidationReport) HasUnbalanced() bool {
	return len(r.Unbalanced) > 0
}

// Violations lista los cases con hallazgos fatales y su tipo.
func (r ValidationReport) Violations() []Violation {
	out := make([]Violation, 0, len(r.Unbalanced)+len(r.Chronology))
	for _, e := range r.Unbalanced {
		out = append(out, Violation{CaseID: e.CaseID, Kind: FindingUnbalancedTransfer})
	}
	for _, e := range r.Chronology {
		out = append(out, Violation{CaseID: e.CaseID, Kind: FindingChronology})
	}
	return out
}

// Err une los hallazgos fatales en un único error (nil si pasó).
// Se puede inspeccionar con errors.As contra *UnbalancedTransferError o *ChronologyError.
func (r ValidationReport) Err() error {
	if r.Passed() {
		return nil
	}
	errs := make([]error, 0, len(r.Unbalanced)+len(r.Chronology))
	for _, e := range r.Unbalanced {
		errs = append(errs, e)
	}
	for _, e := range r.Chronology {
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

// Validate ejecuta las comprobaciones de conservación y cronología sobre los registros conciliados.
func Validate(records []entity.TransactionRecord) ValidationReport {
	var report ValidationReport
	byCase, order := groupByCase(records)
	for _, caseID := range order {
		recs := byCase[caseID]
		if e := checkConservation(caseID, recs); e != nil {
			report.Unbalanced = append(report.Unbalanced, e)
		}
		offending := outOfOrder(recs)
		if len(offending) == 0 {
			continue
		}
		if allSynthetic(offending) {
			report.Warnings = append(report.Warnings, Warning{
				Kind:    FindingSyntheticChronology,
				CaseID:  caseID,
				Message: fmt.Sprintf("%d registro(s) sintético(s) con fecha aproximada fuera de orden", len(offending)),
			})
			continue
		}
		report.Chronology = append(report.Chronology, &ChronologyError{CaseID: caseID, Records: offending})
	}
	return report
}

func groupByCase(records []entity.TransactionRecord) (map[string][]entity.TransactionRecord, []string) {
	byCase := make(map[string][]entity.TransactionRecord)
	var order []string
	for _, r := range records {
		if _, ok := byCase[r.CaseID]; !ok {
			order = append(order, r.CaseID)
		}
		byCase[r.CaseID] = append(byCase[r.CaseID], r)
	}
	return byCase, order
}

func checkConservation(caseID string, recs []entity.TransactionRecord) *UnbalancedTransferError {
	var in, out int
	var transfers []entity.TransactionRecord
	for _, r := range recs {
		switch r.Kind {
		case entity.KindTransferIn:
			in += r.Quantity
		case entity.KindTransferOut:
			out += r.Quantity
		default:
			continue
		}
		transfers = append(transfers, r)
	}
	if in == out {
		return nil
	}
	return &UnbalancedTransferError{CaseID: caseID, TransferIn: in, TransferOut: out, Records: transfers}
}

// outOfOrder devuelve los registros cuya fecha conocida es anterior a la máxima vista antes en el case.
// Las fechas desconocidas no participan.
func outOfOrder(recs []entity.TransactionRecord) []entity.TransactionRecord {
	var latest time.Time
	var offending []entity.TransactionRecord
	for _, r := range recs {
		if !r.HasKnownDate() {
			continue
		}
		if r.Date.Before(latest) {
			offending = append(offending, r)
			continue
		}
		latest = r.Date
	}
	return offending
}

func allSynthetic(recs []entity.TransactionRecord) bool {
	for _, r := range recs {
		if !r.IsSynthetic() {
			return false
		}
	}
	return true
}

// NegativeBalanceWarnings advierte cada día con saldo de cierre negativo. No se corrige el valor.
func NegativeBalanceWarnings(l Ledger) []Warning {
	var out []Warning
	for _, loc := range l.Locations() {
		for _, e := range l[loc] {
			if e.ClosingBalance < 0 {
				out = append(out, Warning{
					Kind:     FindingNegativeBalance,
					Location: loc,
					Date:     e.Date,
					Message:  fmt.Sprintf("saldo de cierre negativo: %d", e.ClosingBalance),
				})
			}
		}
	}
	return out
}

// sortedKeys helper para iterar mapas de forma determinista.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
