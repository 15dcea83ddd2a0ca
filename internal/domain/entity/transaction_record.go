package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// Kind tipo de movimiento de un registro. Enumeración cerrada: cualquier otro valor es inválido.
type Kind string

const (
	KindInbound     Kind = "IN"           // entrada desde fuera de la red de bodegas
	KindTransferIn  Kind = "TRANSFER_IN"  // tramo de llegada de un traslado entre bodegas
	KindTransferOut Kind = "TRANSFER_OUT" // tramo de salida de un traslado entre bodegas
	KindFinalOut    Kind = "FINAL_OUT"    // salida definitiva (sitio final, fuera de la red)
)

// Kinds lista todos los tipos válidos en orden estable.
var Kinds = []Kind{KindInbound, KindTransferIn, KindTransferOut, KindFinalOut}

// ParseKind convierte un string al tipo cerrado. Solo acepta los valores canónicos (sin heurísticas).
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidKind, s)
	}
	return k, nil
}

// Valid indica si el tipo pertenece a la enumeración.
func (k Kind) Valid() bool {
	switch k {
	case KindInbound, KindTransferIn, KindTransferOut, KindFinalOut:
		return true
	}
	return false
}

// IsTransfer indica si el tipo es un tramo de traslado (TRANSFER_IN o TRANSFER_OUT).
func (k Kind) IsTransfer() bool {
	return k == KindTransferIn || k == KindTransferOut
}

// String implementa fmt.Stringer.
func (k Kind) String() string { return string(k) }

// Provenance etiqueta de origen del registro: identificador de la fuente externa
// o una de las etiquetas sintéticas que genera el conciliador.
type Provenance string

const (
	ProvenanceAutoFixInToOut Provenance = "AUTO_FIX_IN_TO_OUT" // TRANSFER_OUT sintetizado para un IN huérfano
	ProvenanceAutoFixOutToIn Provenance = "AUTO_FIX_OUT_TO_IN" // TRANSFER_IN sintetizado para un OUT huérfano
)

// IsSynthetic indica si la procedencia corresponde a un registro generado por el conciliador.
func (p Provenance) IsSynthetic() bool {
	return p == ProvenanceAutoFixInToOut || p == ProvenanceAutoFixOutToIn
}

// UnknownLocation placeholder de ubicaciones no identificadas; nunca aparece en el ledger.
const UnknownLocation = "UNKNOWN"

// TransactionRecord un movimiento registrado en una ubicación. Inmutable una vez normalizado.
//
// Date en cero (time.Time{}) representa la fecha desconocida.
// CounterpartLocation es el origen para TRANSFER_IN y el destino para TRANSFER_OUT; vacío en IN/FINAL_OUT.
type TransactionRecord struct {
	CaseID              string
	Date                time.Time
	Quantity            int
	Kind                Kind
	Location            string
	CounterpartLocation string
	Provenance          Provenance
}

// HasKnownDate indica si el registro tiene una fecha concreta.
func (r TransactionRecord) HasKnownDate() bool {
	return !r.Date.IsZero()
}

// Day devuelve la fecha truncada al día (UTC). Para fechas desconocidas devuelve cero.
func (r TransactionRecord) Day() time.Time {
	if !r.HasKnownDate() {
		return time.Time{}
	}
	y, m, d := r.Date.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsSynthetic indica si el registro fue generado por el conciliador.
func (r TransactionRecord) IsSynthetic() bool {
	return r.Provenance.IsSynthetic()
}

// Validate comprueba las invariantes de un registro normalizado.
// Los traslados exigen contraparte; IN y FINAL_OUT no la admiten.
func (r TransactionRecord) Validate() error {
	if strings.TrimSpace(r.CaseID) == "" {
		return fmt.Errorf("%w: case_id vacío", domain.ErrInvalidInput)
	}
	if r.Quantity <= 0 {
		return fmt.Errorf("%w: cantidad debe ser > 0 (case %s)", domain.ErrInvalidInput, r.CaseID)
	}
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: %q (case %s)", domain.ErrInvalidKind, r.Kind, r.CaseID)
	}
	if strings.TrimSpace(r.Location) == "" {
		return fmt.Errorf("%w: ubicación vacía (case %s)", domain.ErrInvalidInput, r.CaseID)
	}
	hasCounterpart := strings.TrimSpace(r.CounterpartLocation) != ""
	if r.Kind.IsTransfer() && !hasCounterpart {
		return fmt.Errorf("%w: %s sin ubicación de contraparte (case %s)", domain.ErrInvalidInput, r.Kind, r.CaseID)
	}
	if !r.Kind.IsTransfer() && hasCounterpart {
		return fmt.Errorf("%w: %s no admite ubicación de contraparte (case %s)", domain.ErrInvalidInput, r.Kind, r.CaseID)
	}
	return nil
}
