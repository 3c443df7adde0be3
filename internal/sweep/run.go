package sweep

import (
	"context"
	"runtime"

	"github.com/tacogips/drvgen/internal/debug"
	"golang.org/x/sync/errgroup"
)

// Outcome is the result of processing one file.
type Outcome[T any] struct {
	Path  string
	Value T
	Err   error
}

// Failed returns the outcomes that carry an error.
func Failed[T any](outcomes []Outcome[T]) []Outcome[T] {
	var failed []Outcome[T]
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Run calls fn for every file with at most jobs calls in flight. A failing
// file does not stop the others; its error is recorded in its Outcome.
// Outcomes are returned in the order of files. The returned error is only
// set when ctx is cancelled.
func Run[T any](ctx context.Context, files []string, jobs int, fn func(ctx context.Context, path string) (T, error)) ([]Outcome[T], error) {
	outcomes := make([]Outcome[T], len(files))
	if len(files) == 0 {
		return outcomes, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			// Each goroutine owns index i, no lock needed.
			value, err := fn(gctx, path)
			outcomes[i] = Outcome[T]{Path: path, Value: value, Err: err}
			if err != nil {
				debug.Debug("[sweep] %s: %v", path, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}
