package ledger

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Stats contadores de cada etapa del pipeline.
type Stats struct {
	InputRecords      int
	DuplicatesRemoved int
	SyntheticInToOut  int
	SyntheticOutToIn  int
	OutputRecords     int
	LedgerBuilt       bool
	Build             BuildStats
}

// Result salida del pipeline: registros conciliados, reporte de validación y ledger.
// Ledger es nil cuando no se construyó.
type Result struct {
	Records []entity.TransactionRecord
	Report  ValidationReport
	Ledger  Ledger
	Stats   Stats
}

// BuildFunc construye el ledger a partir de registros validados.
type BuildFunc func(records []entity.TransactionRecord) (Ledger, BuildStats, error)

// Options ajustes del pipeline.
type Options struct {
	// Now reloj para las fechas sintéticas sin referencia. nil = time.Now.
	Now func() time.Time
	// BuildOnFatal construye el ledger aunque haya errores de cronología.
	// Los traslados desbalanceados siempre detienen la construcción.
	BuildOnFatal bool
	// Build reemplaza la construcción secuencial (p. ej. recorrido paralelo por ubicación).
	Build BuildFunc
}

// Process ejecuta deduplicación -> conciliación -> validación -> ledger.
// Solo devuelve error si falla Build; los hallazgos de validación van en el reporte.
func Process(records []entity.TransactionRecord, opts Options) (Result, error) {
	res := Result{Stats: Stats{InputRecords: len(records)}}

	deduped := Deduplicate(records)
	res.Stats.DuplicatesRemoved = len(records) - len(deduped)

	reconciled := NewReconciler(opts.Now).Reconcile(deduped)
	res.Stats.SyntheticInToOut, res.Stats.SyntheticOutToIn = CountSynthetic(reconciled[len(deduped):])
	res.Stats.OutputRecords = len(reconciled)
	res.Records = reconciled

	res.Report = Validate(reconciled)
	if res.Report.HasUnbalanced() || (!res.Report.Passed() && !opts.BuildOnFatal) {
		return res, nil
	}

	build := opts.Build
	if build == nil {
		build = func(recs []entity.TransactionRecord) (Ledger, BuildStats, error) {
			l, s := Build(recs)
			return l, s, nil
		}
	}
	l, bs, err := build(reconciled)
	if err != nil {
		return res, err
	}
	res.Ledger = l
	res.Stats.Build = bs
	res.Stats.LedgerBuilt = true
	res.Report.Warnings = append(res.Report.Warnings, NegativeBalanceWarnings(l)...)
	return res, nil
}
