package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
)

var fixedNow = time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func synthetic(rs []entity.TransactionRecord) []entity.TransactionRecord {
	var out []entity.TransactionRecord
	for _, r := range rs {
		if r.IsSynthetic() {
			out = append(out, r)
		}
	}
	return out
}

// IN huérfano: se sintetiza el TRANSFER_OUT en la misma ubicación.
func TestReconcile_OrphanInGetsOut(t *testing.T) {
	records := []entity.TransactionRecord{transferIn("C1", 40, "B", "A", day(10))}

	out := ledger.NewReconciler(clock).Reconcile(records)

	require.Len(t, out, 2)
	assert.Equal(t, records[0], out[0], "el registro original no se modifica")
	fix := out[1]
	assert.Equal(t, entity.KindTransferOut, fix.Kind)
	assert.Equal(t, "B", fix.Location)
	assert.Equal(t, "A", fix.CounterpartLocation)
	assert.Equal(t, 40, fix.Quantity)
	assert.Equal(t, entity.ProvenanceAutoFixInToOut, fix.Provenance)
	assert.Equal(t, day(10), fix.Date)

	report := ledger.Validate(out)
	assert.True(t, report.Passed())
	assert.Empty(t, report.Unbalanced)
}

// OUT huérfano: se sintetiza el TRANSFER_IN en la contraparte con la fecha más temprana del case.
func TestReconcile_OrphanOutGetsInAtCounterpart(t *testing.T) {
	records := []entity.TransactionRecord{
		inbound("C2", 25, "DSV Indoor", day(1)),
		transferOut("C2", 25, "DSV Indoor", "MOSB", day(5)),
	}

	out := ledger.NewReconciler(clock).Reconcile(records)

	fixes := synthetic(out)
	require.Len(t, fixes, 1)
	fix := fixes[0]
	assert.Equal(t, entity.KindTransferIn, fix.Kind)
	assert.Equal(t, "MOSB", fix.Location)
	assert.Equal(t, "DSV Indoor", fix.CounterpartLocation)
	assert.Equal(t, 25, fix.Quantity)
	assert.Equal(t, entity.ProvenanceAutoFixOutToIn, fix.Provenance)
	assert.Equal(t, day(1), fix.Date, "fecha más temprana conocida del case")
}

func TestReconcile_SumsGroupQuantities(t *testing.T) {
	records := []entity.TransactionRecord{
		transferIn("C3", 10, "B", "A", day(4)),
		transferIn("C3", 15, "B", "A", day(6)),
	}

	fixes := synthetic(ledger.NewReconciler(clock).Reconcile(records))

	require.Len(t, fixes, 1)
	assert.Equal(t, 25, fixes[0].Quantity)
	assert.Equal(t, day(4), fixes[0].Date)
}

func TestReconcile_FallsBackToNowWithoutKnownDates(t *testing.T) {
	r := transferOut("C4", 3, "A", "B", time.Time{})

	fixes := synthetic(ledger.NewReconciler(clock).Reconcile([]entity.TransactionRecord{r}))

	require.Len(t, fixes, 1)
	assert.Equal(t, fixedNow, fixes[0].Date)
}

func TestReconcile_IgnoresUnknownDatesWhenPickingEarliest(t *testing.T) {
	records := []entity.TransactionRecord{
		inbound("C5", 1, "A", time.Time{}),
		transferIn("C5", 1, "B", "A", day(20)),
	}

	fixes := synthetic(ledger.NewReconciler(clock).Reconcile(records))

	require.Len(t, fixes, 1)
	assert.Equal(t, day(20), fixes[0].Date)
}

// Ambos lados positivos pero distintos: el conciliador no interviene.
func TestReconcile_PartialImbalanceUntouched(t *testing.T) {
	records := []entity.TransactionRecord{
		transferIn("C6", 50, "A", "B", day(1)),
		transferOut("C6", 30, "A", "B", day(2)),
	}

	out := ledger.NewReconciler(clock).Reconcile(records)

	assert.Equal(t, records, out)
}

func TestReconcile_NonTransferKindsIgnored(t *testing.T) {
	records := []entity.TransactionRecord{
		inbound("C7", 5, "A", day(1)),
		finalOut("C7", 5, "A", day(2)),
	}

	assert.Equal(t, records, ledger.Reconcile(records))
}

func TestReconcile_IdempotentOnOwnOutput(t *testing.T) {
	records := []entity.TransactionRecord{
		transferIn("C1", 40, "B", "A", day(10)),
		inbound("C2", 25, "DSV Indoor", day(1)),
		transferOut("C2", 25, "DSV Indoor", "MOSB", day(5)),
		transferIn("C3", 50, "A", "B", day(1)),
		transferOut("C3", 30, "A", "B", day(2)),
	}
	rc := ledger.NewReconciler(clock)

	once := rc.Reconcile(records)
	twice := rc.Reconcile(once)

	assert.Equal(t, once, twice)
	assert.Len(t, once, len(records)+2)
}

// Tras conciliar, todo case con grupos de un solo lado queda balanceado.
func TestReconcile_ConservationHolds(t *testing.T) {
	records := []entity.TransactionRecord{
		transferIn("C1", 40, "B", "A", day(10)),
		transferOut("C1", 12, "B", "C", day(11)),
		transferOut("C2", 7, "A", "B", day(2)),
		transferOut("C2", 3, "A", "B", day(3)),
		transferIn("C2", 9, "C", "B", day(4)),
	}

	out := ledger.NewReconciler(clock).Reconcile(records)

	in := map[string]int{}
	outQty := map[string]int{}
	for _, r := range out {
		switch r.Kind {
		case entity.KindTransferIn:
			in[r.CaseID] += r.Quantity
		case entity.KindTransferOut:
			outQty[r.CaseID] += r.Quantity
		}
	}
	for caseID := range in {
		assert.Equal(t, in[caseID], outQty[caseID], "case %s", caseID)
	}
	assert.Empty(t, ledger.Validate(out).Unbalanced)
}

func TestCountSynthetic(t *testing.T) {
	records := []entity.TransactionRecord{
		transferIn("C1", 40, "B", "A", day(10)),
		transferOut("C2", 25, "A", "B", day(5)),
		transferOut("C3", 5, "A", "B", day(5)),
	}

	inToOut, outToIn := ledger.CountSynthetic(ledger.NewReconciler(clock).Reconcile(records))

	assert.Equal(t, 1, inToOut)
	assert.Equal(t, 2, outToIn)
}
