package ledger

import (
	"sort"
	"time"
)

// LocationSummary resumen por ubicación del ledger completo.
type LocationSummary struct {
	Location      string
	Days          int
	Inbound       int
	TotalOutbound int
	Closing       int
	NegativeDays  int
	LastDate      time.Time
}

// MonthlySummary totales de una ubicación en un mes con el saldo al cierre del mes.
type MonthlySummary struct {
	Location      string
	Month         time.Time // primer día del mes, UTC
	Inbound       int
	TransferOut   int
	FinalOut      int
	TotalOutbound int
	Closing       int
}

// SummarizeLocations devuelve un resumen por ubicación ordenado por saldo final descendente
// (empates por nombre).
func SummarizeLocations(l Ledger) []LocationSummary {
	out := make([]LocationSummary, 0, len(l))
	for _, loc := range l.Locations() {
		rows := l[loc]
		s := LocationSummary{Location: loc, Days: len(rows)}
		for _, e := range rows {
			s.Inbound += e.Inbound
			s.TotalOutbound += e.TotalOutbound
			if e.ClosingBalance < 0 {
				s.NegativeDays++
			}
		}
		if len(rows) > 0 {
			last := rows[len(rows)-1]
			s.Closing = last.ClosingBalance
			s.LastDate = last.Date
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Closing > out[j].Closing })
	return out
}

// SummarizeMonthly agrupa las filas diarias por ubicación y mes.
func SummarizeMonthly(l Ledger) []MonthlySummary {
	var out []MonthlySummary
	for _, loc := range l.Locations() {
		var cur *MonthlySummary
		for _, e := range l[loc] {
			month := time.Date(e.Date.Year(), e.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
			if cur == nil || !cur.Month.Equal(month) {
				out = append(out, MonthlySummary{Location: loc, Month: month})
				cur = &out[len(out)-1]
			}
			cur.Inbound += e.Inbound
			cur.TransferOut += e.TransferOut
			cur.FinalOut += e.FinalOut
			cur.TotalOutbound += e.TotalOutbound
			cur.Closing = e.ClosingBalance
		}
	}
	return out
}
