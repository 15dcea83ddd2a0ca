package ledger

import (
	"sort"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Ledger mapa ubicación -> filas diarias ordenadas por fecha.
type Ledger map[string][]entity.LedgerEntry

// Locations devuelve las ubicaciones en orden alfabético.
func (l Ledger) Locations() []string {
	return sortedKeys(l)
}

// Closing saldo de cierre del último día de la ubicación (0 si no tiene filas).
func (l Ledger) Closing(location string) int {
	rows := l[location]
	if len(rows) == 0 {
		return 0
	}
	return rows[len(rows)-1].ClosingBalance
}

// DayTotals totales de movimientos de una ubicación en un día.
type DayTotals struct {
	Date        time.Time
	Inbound     int
	TransferOut int
	FinalOut    int
}

// BuildStats contadores de la construcción del ledger.
type BuildStats struct {
	Locations       int
	Entries         int
	UnknownLocation int // registros descartados por ubicación no identificada
	UnknownDate     int // registros descartados por fecha desconocida
}

// Aggregate agrupa los registros por (ubicación, día) y suma IN, TRANSFER_OUT y FINAL_OUT.
// TRANSFER_IN no afecta el ledger: es solo la contraparte de conciliación.
// Los días de cada ubicación quedan ordenados ascendentemente.
func Aggregate(records []entity.TransactionRecord) (map[string][]DayTotals, BuildStats) {
	var stats BuildStats
	type dayKey struct {
		location string
		day      time.Time
	}
	sums := make(map[dayKey]*DayTotals)
	for _, r := range records {
		if r.Location == "" || r.Location == entity.UnknownLocation {
			stats.UnknownLocation++
			continue
		}
		if !r.HasKnownDate() {
			stats.UnknownDate++
			continue
		}
		k := dayKey{location: r.Location, day: r.Day()}
		t, ok := sums[k]
		if !ok {
			t = &DayTotals{Date: k.day}
			sums[k] = t
		}
		switch r.Kind {
		case entity.KindInbound:
			t.Inbound += r.Quantity
		case entity.KindTransferOut:
			t.TransferOut += r.Quantity
		case entity.KindFinalOut:
			t.FinalOut += r.Quantity
		case entity.KindTransferIn:
			// registra el día pero no mueve saldo
		}
	}

	byLocation := make(map[string][]DayTotals)
	for k, t := range sums {
		byLocation[k.location] = append(byLocation[k.location], *t)
	}
	for loc := range byLocation {
		days := byLocation[loc]
		sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	}
	stats.Locations = len(byLocation)
	return byLocation, stats
}

// WalkLocation recorre los días ordenados de una ubicación con saldo corrido desde 0.
// Cada ubicación es independiente, por lo que se puede ejecutar en paralelo.
func WalkLocation(location string, days []DayTotals) []entity.LedgerEntry {
	entries := make([]entity.LedgerEntry, 0, len(days))
	running := 0
	for _, d := range days {
		outbound := d.TransferOut + d.FinalOut
		e := entity.LedgerEntry{
			Location:       location,
			Date:           d.Date,
			OpeningBalance: running,
			Inbound:        d.Inbound,
			TransferOut:    d.TransferOut,
			FinalOut:       d.FinalOut,
			TotalOutbound:  outbound,
			ClosingBalance: running + d.Inbound - outbound,
		}
		entries = append(entries, e)
		running = e.ClosingBalance
	}
	return entries
}

// Build construye el ledger diario de todas las ubicaciones de forma secuencial.
func Build(records []entity.TransactionRecord) (Ledger, BuildStats) {
	byLocation, stats := Aggregate(records)
	l := make(Ledger, len(byLocation))
	for _, loc := range sortedKeys(byLocation) {
		l[loc] = WalkLocation(loc, byLocation[loc])
		stats.Entries += len(l[loc])
	}
	return l, stats
}
