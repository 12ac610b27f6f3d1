package review

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/veldt/simaudit/internal/normalize"
	"github.com/veldt/simaudit/internal/record"
)

// BatchInput is one raw document submitted for batch review. Name labels the
// document in failure reports when its id cannot be read (typically the
// source path, treated as opaque).
type BatchInput struct {
	Name string
	Data []byte
}

// BatchFailure reports a document excluded from the results because it
// failed schema validation.
type BatchFailure struct {
	Name string                           `json:"name"`
	Err  *normalize.SchemaValidationError `json:"error"`
}

// BatchResult collects a batch's outcomes. Results and Failures each
// preserve input order; a document appears in exactly one of the two.
type BatchResult struct {
	Results  []*record.ReviewResult `json:"results"`
	Failures []BatchFailure         `json:"failures,omitempty"`
}

// ReviewBatch reviews documents across a bounded worker pool.
//
// Records are independent, so workers share nothing but the read-only
// engine; each writes into its own slot and the slots are compacted in input
// order afterwards, keeping batch output deterministic regardless of
// scheduling. A schema-invalid document is reported in Failures and never
// blocks or cancels its siblings. The only error returned is the context's,
// when the caller cancels mid-batch.
func (e *Engine) ReviewBatch(ctx context.Context, inputs []BatchInput) (*BatchResult, error) {
	results := make([]*record.ReviewResult, len(inputs))
	failures := make([]*BatchFailure, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.ReviewDocument(input.Name, input.Data)
			if err != nil {
				var sve *normalize.SchemaValidationError
				if errors.As(err, &sve) {
					e.logger.Warn("record skipped",
						"input", input.Name,
						"error", sve,
					)
					failures[i] = &BatchFailure{Name: input.Name, Err: sve}
					return nil
				}
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &BatchResult{}
	for i := range inputs {
		if results[i] != nil {
			out.Results = append(out.Results, results[i])
		}
		if failures[i] != nil {
			out.Failures = append(out.Failures, *failures[i])
		}
	}

	e.logger.Info("batch reviewed",
		"inputs", len(inputs),
		"results", len(out.Results),
		"failures", len(out.Failures),
	)

	return out, nil
}
