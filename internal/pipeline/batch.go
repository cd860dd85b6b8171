// Package pipeline assembles finished reports: it parses plan text, resolves
// exercise videos, lays the report out and serializes it.
package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/coach-report/internal/types"
)

// BatchResult is the outcome of one request in a batch.
type BatchResult struct {
	Request  Request
	Artifact *types.Artifact
	Err      error
}

// GenerateBatch renders reqs concurrently, at most limit at a time (limit <= 0
// means no limit). Each report gets its own session. A failed report does not
// stop the others; results are in request order. The returned error is only
// set when ctx was cancelled.
func (g *Generator) GenerateBatch(ctx context.Context, reqs []Request, limit int) ([]BatchResult, error) {
	results := make([]BatchResult, len(reqs))
	eg, egCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}

	for i, req := range reqs {
		results[i].Request = req
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				results[i].Err = err
				return err
			}
			artifact, err := g.Generate(egCtx, req)
			results[i].Artifact = artifact
			results[i].Err = err
			if err != nil {
				g.log.Warn("batch report failed", "index", i, "kind", string(req.Kind), "error", err)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
