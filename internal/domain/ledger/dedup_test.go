package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
)

func day(n int) time.Time {
	return time.Date(2025, time.June, n, 0, 0, 0, 0, time.UTC)
}

func transferOut(caseID string, qty int, from, to string, d time.Time) entity.TransactionRecord {
	return entity.TransactionRecord{CaseID: caseID, Date: d, Quantity: qty, Kind: entity.KindTransferOut,
		Location: from, CounterpartLocation: to, Provenance: "hitachi.xlsx"}
}

func transferIn(caseID string, qty int, at, from string, d time.Time) entity.TransactionRecord {
	return entity.TransactionRecord{CaseID: caseID, Date: d, Quantity: qty, Kind: entity.KindTransferIn,
		Location: at, CounterpartLocation: from, Provenance: "hitachi.xlsx"}
}

func inbound(caseID string, qty int, at string, d time.Time) entity.TransactionRecord {
	return entity.TransactionRecord{CaseID: caseID, Date: d, Quantity: qty, Kind: entity.KindInbound,
		Location: at, Provenance: "siemens.xlsx"}
}

func finalOut(caseID string, qty int, at string, d time.Time) entity.TransactionRecord {
	return entity.TransactionRecord{CaseID: caseID, Date: d, Quantity: qty, Kind: entity.KindFinalOut,
		Location: at, Provenance: "siemens.xlsx"}
}

func TestDeduplicate_TransferDuplicatesCollapse(t *testing.T) {
	a := transferOut("C1", 10, "DSV Indoor", "DSV Al Markaz", day(3))
	b := a
	b.Provenance = "siemens.xlsx" // misma clave estructural, otra hoja

	out := ledger.Deduplicate([]entity.TransactionRecord{a, b})

	require.Len(t, out, 1)
	assert.Equal(t, a, out[0], "se conserva la primera aparición")
}

func TestDeduplicate_InboundDuplicatesAreKept(t *testing.T) {
	a := inbound("C1", 10, "DSV Indoor", day(1))
	f := finalOut("C1", 5, "DSV Indoor", day(2))

	out := ledger.Deduplicate([]entity.TransactionRecord{a, a, f, f})

	assert.Len(t, out, 4, "IN y FINAL_OUT no se deduplican")
}

func TestDeduplicate_DistinctMovementsSurvive(t *testing.T) {
	records := []entity.TransactionRecord{
		transferOut("C1", 10, "DSV Indoor", "MOSB", day(3)),
		// otra cantidad
		transferOut("C1", 12, "DSV Indoor", "MOSB", day(3)),
		// otra contraparte
		transferOut("C1", 10, "DSV Indoor", "DSV Outdoor", day(3)),
		// otro tipo
		transferIn("C1", 10, "DSV Indoor", "MOSB", day(3)),
		// otro case
		transferOut("C2", 10, "DSV Indoor", "MOSB", day(3)),
	}

	out := ledger.Deduplicate(records)

	assert.Equal(t, records, out)
}

func TestDeduplicate_Idempotent(t *testing.T) {
	records := []entity.TransactionRecord{
		transferOut("C1", 10, "A", "B", day(1)),
		inbound("C1", 10, "A", day(1)),
		transferOut("C1", 10, "A", "B", day(2)),
		inbound("C1", 10, "A", day(1)),
		transferIn("C1", 10, "B", "A", day(2)),
		transferIn("C1", 10, "B", "A", day(2)),
	}

	once := ledger.Deduplicate(records)
	twice := ledger.Deduplicate(once)

	assert.Equal(t, once, twice)
	assert.Len(t, once, 4)
}

func TestDeduplicate_NeverIncreasesCaseTotals(t *testing.T) {
	records := []entity.TransactionRecord{
		transferOut("C1", 10, "A", "B", day(1)),
		transferOut("C1", 10, "A", "B", day(1)),
		inbound("C1", 7, "A", day(1)),
	}
	total := func(rs []entity.TransactionRecord) int {
		sum := 0
		for _, r := range rs {
			sum += r.Quantity
		}
		return sum
	}

	out := ledger.Deduplicate(records)

	assert.LessOrEqual(t, total(out), total(records))
	assert.Equal(t, 17, total(out))
}

func TestDeduplicate_Empty(t *testing.T) {
	assert.Empty(t, ledger.Deduplicate(nil))
}
