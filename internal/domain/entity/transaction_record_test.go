package entity_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    entity.Kind
		wantErr bool
	}{
		{"IN", entity.KindInbound, false},
		{" transfer_out ", entity.KindTransferOut, false},
		{"TRANSFER_IN", entity.KindTransferIn, false},
		{"FINAL_OUT", entity.KindFinalOut, false},
		{"OUT", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := entity.ParseKind(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, domain.ErrInvalidKind))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKind_IsTransfer(t *testing.T) {
	assert.True(t, entity.KindTransferIn.IsTransfer())
	assert.True(t, entity.KindTransferOut.IsTransfer())
	assert.False(t, entity.KindInbound.IsTransfer())
	assert.False(t, entity.KindFinalOut.IsTransfer())
}

func TestTransactionRecord_Validate(t *testing.T) {
	ok := entity.TransactionRecord{CaseID: "C1", Quantity: 1, Kind: entity.KindInbound, Location: "MOSB"}
	require.NoError(t, ok.Validate())

	noCase := ok
	noCase.CaseID = " "
	assert.ErrorIs(t, noCase.Validate(), domain.ErrInvalidInput)

	zero := ok
	zero.Quantity = 0
	assert.ErrorIs(t, zero.Validate(), domain.ErrInvalidInput)

	badKind := ok
	badKind.Kind = "MOVE"
	assert.ErrorIs(t, badKind.Validate(), domain.ErrInvalidKind)

	noLoc := ok
	noLoc.Location = ""
	assert.ErrorIs(t, noLoc.Validate(), domain.ErrInvalidInput)
}

func TestTransactionRecord_ValidateCounterpart(t *testing.T) {
	tests := []struct {
		name        string
		kind        entity.Kind
		counterpart string
		wantErr     bool
	}{
		{"traslado salida con contraparte", entity.KindTransferOut, "MOSB", false},
		{"traslado entrada con contraparte", entity.KindTransferIn, "DSV Indoor", false},
		{"traslado salida sin contraparte", entity.KindTransferOut, "", true},
		{"traslado entrada contraparte en blanco", entity.KindTransferIn, "  ", true},
		{"entrada con contraparte", entity.KindInbound, "MOSB", true},
		{"salida final con contraparte", entity.KindFinalOut, "DAS", true},
		{"salida final sin contraparte", entity.KindFinalOut, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := entity.TransactionRecord{CaseID: "C9", Quantity: 10, Kind: tt.kind, Location: "DSV Indoor", CounterpartLocation: tt.counterpart}
			err := r.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTransactionRecord_Day(t *testing.T) {
	r := entity.TransactionRecord{Date: time.Date(2025, 6, 3, 23, 15, 0, 0, time.UTC)}
	assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), r.Day())
	assert.True(t, r.HasKnownDate())

	var unknown entity.TransactionRecord
	assert.False(t, unknown.HasKnownDate())
	assert.True(t, unknown.Day().IsZero())
}

func TestProvenance_IsSynthetic(t *testing.T) {
	assert.True(t, entity.ProvenanceAutoFixInToOut.IsSynthetic())
	assert.True(t, entity.ProvenanceAutoFixOutToIn.IsSynthetic())
	assert.False(t, entity.Provenance("HITACHI").IsSynthetic())
}

func TestLedgerEntry_Balanced(t *testing.T) {
	e := entity.LedgerEntry{OpeningBalance: 10, Inbound: 5, TransferOut: 2, FinalOut: 1, TotalOutbound: 3, ClosingBalance: 12}
	assert.True(t, e.Balanced())
	e.ClosingBalance = 11
	assert.False(t, e.Balanced())
}
