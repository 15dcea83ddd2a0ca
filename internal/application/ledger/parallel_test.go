package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appledger "github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domledger "github.com/jhoicas/stock-ledger/internal/domain/ledger"
)

func parallelRecords() []entity.TransactionRecord {
	var out []entity.TransactionRecord
	for i := 0; i < 40; i++ {
		out = append(out, entity.TransactionRecord{
			CaseID:   "C",
			Date:     time.Date(2025, time.June, 1+i%15, 0, 0, 0, 0, time.UTC),
			Quantity: 1 + i,
			Kind:     entity.KindInbound,
			Location: []string{"A", "B", "C", "D"}[i%4],
		})
	}
	return out
}

func TestParallelBuild_EqualsSequential(t *testing.T) {
	records := parallelRecords()

	want, wantStats := domledger.Build(records)
	got, gotStats, err := appledger.ParallelBuild(context.Background(), 3)(records)

	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, wantStats, gotStats)
}

func TestParallelBuild_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := appledger.ParallelBuild(ctx, 2)(parallelRecords())

	assert.ErrorIs(t, err, context.Canceled)
}
