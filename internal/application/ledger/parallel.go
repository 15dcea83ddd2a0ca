package ledger

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domledger "github.com/jhoicas/stock-ledger/internal/domain/ledger"
)

// ParallelBuild devuelve un BuildFunc que recorre cada ubicación en su propia goroutine,
// con a lo sumo workers recorridos simultáneos. El resultado es idéntico a domledger.Build.
func ParallelBuild(ctx context.Context, workers int) domledger.BuildFunc {
	return func(records []entity.TransactionRecord) (domledger.Ledger, domledger.BuildStats, error) {
		byLocation, stats := domledger.Aggregate(records)
		locations := make([]string, 0, len(byLocation))
		for loc := range byLocation {
			locations = append(locations, loc)
		}
		sort.Strings(locations)

		walked := make([][]entity.LedgerEntry, len(locations))
		g, gctx := errgroup.WithContext(ctx)
		if workers > 0 {
			g.SetLimit(workers)
		}
		for i, loc := range locations {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				walked[i] = domledger.WalkLocation(loc, byLocation[loc])
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, domledger.BuildStats{}, err
		}

		l := make(domledger.Ledger, len(locations))
		for i, loc := range locations {
			l[loc] = walked[i]
			stats.Entries += len(walked[i])
		}
		return l, stats, nil
	}
}
