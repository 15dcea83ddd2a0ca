package dto

import "time"

// DateLayout formato de fecha (día) en la API.
const DateLayout = "2006-01-02"

// RecordDTO registro de movimiento en la API. Date vacío = fecha desconocida.
type RecordDTO struct {
	CaseID              string `json:"case_id" validate:"required,max=100"`
	Date                string `json:"date,omitempty"`
	Quantity            int    `json:"quantity" validate:"gt=0"`
	Kind                string `json:"kind" validate:"required,oneof=IN TRANSFER_IN TRANSFER_OUT FINAL_OUT"`
	Location            string `json:"location" validate:"required,max=200"`
	CounterpartLocation string `json:"counterpart_location,omitempty" validate:"required_if=Kind TRANSFER_IN,required_if=Kind TRANSFER_OUT,excluded_if=Kind IN,excluded_if=Kind FINAL_OUT,max=200"`
	Provenance          string `json:"provenance,omitempty" validate:"max=100"`
}

// RunLedgerRequest entrada para ejecutar el pipeline sobre registros enviados en el cuerpo.
type RunLedgerRequest struct {
	Records      []RecordDTO `json:"records" validate:"required,min=1,dive"`
	BuildOnFatal bool        `json:"build_on_fatal"`
}

// RunFromStoreRequest entrada para ejecutar el pipeline sobre los registros guardados.
type RunFromStoreRequest struct {
	From         string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To           string `json:"to" validate:"omitempty,datetime=2006-01-02"`
	BuildOnFatal bool   `json:"build_on_fatal"`
}

// ImportRecordsRequest entrada para cargar registros normalizados al almacén.
type ImportRecordsRequest struct {
	Records []RecordDTO `json:"records" validate:"required,min=1,dive"`
}

// ImportRecordsResponse salida de la carga de registros.
type ImportRecordsResponse struct {
	Imported int64 `json:"imported"`
}

// RunStatsDTO contadores del pipeline.
type RunStatsDTO struct {
	InputRecords      int  `json:"input_records"`
	DuplicatesRemoved int  `json:"duplicates_removed"`
	SyntheticInToOut  int  `json:"synthetic_in_to_out"`
	SyntheticOutToIn  int  `json:"synthetic_out_to_in"`
	OutputRecords     int  `json:"output_records"`
	LedgerBuilt       bool `json:"ledger_built"`
	Locations         int  `json:"locations"`
	Entries           int  `json:"entries"`
	UnknownLocation   int  `json:"unknown_location"`
	UnknownDate       int  `json:"unknown_date"`
}

// ViolationDTO case con hallazgo fatal.
type ViolationDTO struct {
	CaseID string `json:"case_id"`
	Kind   string `json:"kind"`
}

// UnbalancedTransferDTO traslado desbalanceado de un case.
type UnbalancedTransferDTO struct {
	CaseID      string      `json:"case_id"`
	TransferIn  int         `json:"transfer_in"`
	TransferOut int         `json:"transfer_out"`
	Difference  int         `json:"difference"`
	Records     []RecordDTO `json:"records"`
}

// ChronologyErrorDTO registros fuera de orden de un case.
type ChronologyErrorDTO struct {
	CaseID  string      `json:"case_id"`
	Records []RecordDTO `json:"records"`
}

// WarningDTO hallazgo no fatal.
type WarningDTO struct {
	Kind     string `json:"kind"`
	CaseID   string `json:"case_id,omitempty"`
	Location string `json:"location,omitempty"`
	Date     string `json:"date,omitempty"`
	Message  string `json:"message"`
}

// ValidationReportDTO reporte de validación.
type ValidationReportDTO struct {
	Passed     bool                    `json:"passed"`
	Violations []ViolationDTO          `json:"violations"`
	Unbalanced []UnbalancedTransferDTO `json:"unbalanced_transfers"`
	Chronology []ChronologyErrorDTO    `json:"chronology_errors"`
	Warnings   []WarningDTO            `json:"warnings"`
}

// LedgerEntryDTO fila diaria del ledger.
type LedgerEntryDTO struct {
	Location       string `json:"location"`
	Date           string `json:"date"`
	OpeningBalance int    `json:"opening_balance"`
	Inbound        int    `json:"inbound"`
	TransferOut    int    `json:"transfer_out"`
	FinalOut       int    `json:"final_out"`
	TotalOutbound  int    `json:"total_outbound"`
	ClosingBalance int    `json:"closing_balance"`
}

// LocationSummaryDTO resumen por ubicación.
type LocationSummaryDTO struct {
	Location      string `json:"location"`
	StorageType   string `json:"storage_type,omitempty"`
	IsWarehouse   bool   `json:"is_warehouse"` // false si no hay clasificador configurado
	Days          int    `json:"days"`
	Inbound       int    `json:"inbound"`
	TotalOutbound int    `json:"total_outbound"`
	Closing       int    `json:"closing"`
	NegativeDays  int    `json:"negative_days"`
	LastDate      string `json:"last_date,omitempty"`
}

// MonthlySummaryDTO totales mensuales por ubicación.
type MonthlySummaryDTO struct {
	Location      string `json:"location"`
	Month         string `json:"month"` // YYYY-MM
	Inbound       int    `json:"inbound"`
	TransferOut   int    `json:"transfer_out"`
	FinalOut      int    `json:"final_out"`
	TotalOutbound int    `json:"total_outbound"`
	Closing       int    `json:"closing"`
}

// LedgerRunResponse salida de una ejecución del pipeline.
type LedgerRunResponse struct {
	ID        string                      `json:"id"`
	InputHash string                      `json:"input_hash"`
	Source    string                      `json:"source"`
	CreatedBy string                      `json:"created_by,omitempty"`
	CreatedAt time.Time                   `json:"created_at"`
	Cached    bool                        `json:"cached"`
	Stats     RunStatsDTO                 `json:"stats"`
	Report    ValidationReportDTO         `json:"report"`
	Records   []RecordDTO                 `json:"records"`
	Ledger    map[string][]LedgerEntryDTO `json:"ledger,omitempty"`
	Locations []LocationSummaryDTO        `json:"locations,omitempty"`
	Monthly   []MonthlySummaryDTO         `json:"monthly,omitempty"`
}

// LedgerRunSummary elemento del listado de ejecuciones.
type LedgerRunSummary struct {
	ID          string    `json:"id"`
	InputHash   string    `json:"input_hash"`
	Source      string    `json:"source"`
	RecordCount int       `json:"record_count"`
	Passed      bool      `json:"passed"`
	LedgerBuilt bool      `json:"ledger_built"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// LedgerRunListResponse lista paginada de ejecuciones.
type LedgerRunListResponse struct {
	Items []LedgerRunSummary `json:"items"`
	Page  PageResponse       `json:"page"`
}

// LedgerEntryListResponse filas del ledger de una ejecución.
type LedgerEntryListResponse struct {
	RunID string           `json:"run_id"`
	Items []LedgerEntryDTO `json:"items"`
}
