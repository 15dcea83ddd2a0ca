package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domledger "github.com/jhoicas/stock-ledger/internal/domain/ledger"
)

// ParseDate acepta YYYY-MM-DD o RFC3339. Vacío devuelve la fecha desconocida (cero).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(dto.DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, s)
	}
	return t.UTC(), nil
}

// formatDate día (YYYY-MM-DD) o RFC3339 si la fecha trae hora.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.UTC()
	if t.Equal(t.Truncate(24 * time.Hour)) {
		return t.Format(dto.DateLayout)
	}
	return t.Format(time.RFC3339)
}

// RecordFromDTO convierte el registro de la API en un TransactionRecord.
func RecordFromDTO(in dto.RecordDTO) (entity.TransactionRecord, error) {
	kind, err := entity.ParseKind(in.Kind)
	if err != nil {
		return entity.TransactionRecord{}, err
	}
	date, err := ParseDate(in.Date)
	if err != nil {
		return entity.TransactionRecord{}, err
	}
	return entity.TransactionRecord{
		CaseID:              strings.TrimSpace(in.CaseID),
		Date:                date,
		Quantity:            in.Quantity,
		Kind:                kind,
		Location:            strings.TrimSpace(in.Location),
		CounterpartLocation: strings.TrimSpace(in.CounterpartLocation),
		Provenance:          entity.Provenance(in.Provenance),
	}, nil
}

// RecordsFromDTO convierte una lista; el error indica la posición del registro inválido.
func RecordsFromDTO(in []dto.RecordDTO) ([]entity.TransactionRecord, error) {
	out := make([]entity.TransactionRecord, 0, len(in))
	for i, r := range in {
		rec, err := RecordFromDTO(r)
		if err != nil {
			return nil, fmt.Errorf("registro %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func toRecordDTO(r entity.TransactionRecord) dto.RecordDTO {
	return dto.RecordDTO{
		CaseID:              r.CaseID,
		Date:                formatDate(r.Date),
		Quantity:            r.Quantity,
		Kind:                r.Kind.String(),
		Location:            r.Location,
		CounterpartLocation: r.CounterpartLocation,
		Provenance:          string(r.Provenance),
	}
}

func toRecordDTOs(rs []entity.TransactionRecord) []dto.RecordDTO {
	out := make([]dto.RecordDTO, 0, len(rs))
	for _, r := range rs {
		out = append(out, toRecordDTO(r))
	}
	return out
}

func toEntryDTO(e entity.LedgerEntry) dto.LedgerEntryDTO {
	return dto.LedgerEntryDTO{
		Location:       e.Location,
		Date:           formatDate(e.Date),
		OpeningBalance: e.OpeningBalance,
		Inbound:        e.Inbound,
		TransferOut:    e.TransferOut,
		FinalOut:       e.FinalOut,
		TotalOutbound:  e.TotalOutbound,
		ClosingBalance: e.ClosingBalance,
	}
}

func toReportDTO(r domledger.ValidationReport) dto.ValidationReportDTO {
	out := dto.ValidationReportDTO{
		Passed:     r.Passed(),
		Violations: []dto.ViolationDTO{},
		Unbalanced: []dto.UnbalancedTransferDTO{},
		Chronology: []dto.ChronologyErrorDTO{},
		Warnings:   []dto.WarningDTO{},
	}
	for _, v := range r.Violations() {
		out.Violations = append(out.Violations, dto.ViolationDTO{CaseID: v.CaseID, Kind: string(v.Kind)})
	}
	for _, u := range r.Unbalanced {
		out.Unbalanced = append(out.Unbalanced, dto.UnbalancedTransferDTO{
			CaseID:      u.CaseID,
			TransferIn:  u.TransferIn,
			TransferOut: u.TransferOut,
			Difference:  u.Difference(),
			Records:     toRecordDTOs(u.Records),
		})
	}
	for _, c := range r.Chronology {
		out.Chronology = append(out.Chronology, dto.ChronologyErrorDTO{CaseID: c.CaseID, Records: toRecordDTOs(c.Records)})
	}
	for _, w := range r.Warnings {
		out.Warnings = append(out.Warnings, dto.WarningDTO{
			Kind:     string(w.Kind),
			CaseID:   w.CaseID,
			Location: w.Location,
			Date:     formatDate(w.Date),
			Message:  w.Message,
		})
	}
	return out
}

// toRunResponse arma la respuesta sin identidad (ID, hash, autor); el caso de uso la completa.
func toRunResponse(res domledger.Result) *dto.LedgerRunResponse {
	out := &dto.LedgerRunResponse{
		Stats: dto.RunStatsDTO{
			InputRecords:      res.Stats.InputRecords,
			DuplicatesRemoved: res.Stats.DuplicatesRemoved,
			SyntheticInToOut:  res.Stats.SyntheticInToOut,
			SyntheticOutToIn:  res.Stats.SyntheticOutToIn,
			OutputRecords:     res.Stats.OutputRecords,
			LedgerBuilt:       res.Stats.LedgerBuilt,
			Locations:         res.Stats.Build.Locations,
			Entries:           res.Stats.Build.Entries,
			UnknownLocation:   res.Stats.Build.UnknownLocation,
			UnknownDate:       res.Stats.Build.UnknownDate,
		},
		Report:  toReportDTO(res.Report),
		Records: toRecordDTOs(res.Records),
	}
	if !res.Stats.LedgerBuilt {
		return out
	}
	out.Ledger = make(map[string][]dto.LedgerEntryDTO, len(res.Ledger))
	for _, loc := range res.Ledger.Locations() {
		rows := make([]dto.LedgerEntryDTO, 0, len(res.Ledger[loc]))
		for _, e := range res.Ledger[loc] {
			rows = append(rows, toEntryDTO(e))
		}
		out.Ledger[loc] = rows
	}
	for _, s := range domledger.SummarizeLocations(res.Ledger) {
		out.Locations = append(out.Locations, dto.LocationSummaryDTO{
			Location:      s.Location,
			Days:          s.Days,
			Inbound:       s.Inbound,
			TotalOutbound: s.TotalOutbound,
			Closing:       s.Closing,
			NegativeDays:  s.NegativeDays,
			LastDate:      formatDate(s.LastDate),
		})
	}
	for _, m := range domledger.SummarizeMonthly(res.Ledger) {
		out.Monthly = append(out.Monthly, dto.MonthlySummaryDTO{
			Location:      m.Location,
			Month:         m.Month.Format("2006-01"),
			Inbound:       m.Inbound,
			TransferOut:   m.TransferOut,
			FinalOut:      m.FinalOut,
			TotalOutbound: m.TotalOutbound,
			Closing:       m.Closing,
		})
	}
	return out
}

// flattenLedger filas del ledger en orden (ubicación, fecha) para persistirlas.
func flattenLedger(l domledger.Ledger) []entity.LedgerEntry {
	var out []entity.LedgerEntry
	for _, loc := range l.Locations() {
		out = append(out, l[loc]...)
	}
	return out
}
