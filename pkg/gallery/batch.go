package gallery

import (
	"context"
	"sync"

	"github.com/photogrid/gallery-loader/pkg/store"
)

// fetchWindow fetches every id in the window concurrently using a
// bounded worker pool and joins the results in request order: the
// returned slice is index-aligned with ids regardless of which remote
// call resolves first.
//
// A single failed fetch fails the whole window; the caller discards the
// batch and leaves the cursor untouched.
func (s *Session) fetchWindow(ctx context.Context, ids []string) ([]store.PhotoRecord, error) {
	records := make([]store.PhotoRecord, len(ids))

	jobs := make(chan int, len(ids))
	for i := range ids {
		jobs <- i
	}
	close(jobs)

	workers := s.cfg.MaxConcurrency
	if workers > len(ids) {
		workers = len(ids)
	}

	// Buffered so every worker can report a failure without blocking.
	errs := make(chan error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go s.fetchWorker(ctx, ids, jobs, records, errs, &wg, w)
	}
	wg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		return nil, err
	}
	return records, nil
}

// fetchWorker processes window positions from the queue. Each position
// is written by exactly one worker, so the shared result slice needs no
// locking.
func (s *Session) fetchWorker(ctx context.Context, ids []string, jobs <-chan int, out []store.PhotoRecord, errs chan<- error, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()

	for i := range jobs {
		select {
		case <-ctx.Done():
			errs <- ctx.Err()
			return
		default:
		}

		fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
		rec, err := s.store.GetRecord(fetchCtx, s.cfg.Collection, ids[i])
		cancel()

		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("record_id", ids[i]).
				Int("worker_id", workerID).
				Msg("Record fetch failed")
			errs <- err
			return
		}

		out[i] = *rec
	}
}
