package runtime

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/fenceline-io/fenceline/log"
)

// Pool runs document runners with bounded parallelism. Documents are
// the unit of parallelism; blocks within a document stay sequential
// unless the document's rule says otherwise.
type Pool struct {
	parallel   int
	aggregator *Aggregator
	logger     *log.Logger
}

// NewPool creates a pool recording results into agg.
func NewPool(parallel int, agg *Aggregator, logger *log.Logger) *Pool {
	if parallel < 1 {
		parallel = 1
	}
	return &Pool{parallel: parallel, aggregator: agg, logger: logger}
}

// Run executes every runner and records each document report into the
// aggregator. Runners themselves never fail; per-block problems become
// errored or failed records. Run returns early only when ctx is done,
// and even then each started runner finishes its report first.
func (p *Pool) Run(ctx context.Context, runners []*DocumentRunner) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallel)

	for _, runner := range runners {
		g.Go(func() error {
			report := runner.Run(gctx)
			p.aggregator.Record(report)
			p.logger.Debug("document complete", map[string]any{
				"document": report.Document,
				"blocks":   len(report.Blocks),
			})
			return nil
		})
	}
	return g.Wait()
}
