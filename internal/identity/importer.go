package identity

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/vanshika/fedfinger/internal/domain"
)

// Upserter persists identity records.
type Upserter interface {
	Upsert(ctx context.Context, ident domain.Identity) error
}

// ImportError accumulates the per-identity failures of a bulk import.
type ImportError struct {
	Errors []error
}

func (e *ImportError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return "multiple errors: " + strings.Join(msgs, "; ")
}

// Importer writes identities to a store with a fixed pool of workers.
type Importer struct {
	store   Upserter
	workers int
}

// NewImporter creates an Importer. Non-positive worker counts default to 4.
func NewImporter(store Upserter, workers int) *Importer {
	if workers <= 0 {
		workers = 4
	}
	return &Importer{store: store, workers: workers}
}

// Import normalizes and upserts every identity. Failures of individual
// records are collected into an *ImportError; cancellation aborts the run.
func (im *Importer) Import(ctx context.Context, identities []domain.Identity) error {
	if len(identities) == 0 {
		return nil
	}

	indexCh := make(chan int)
	errCh := make(chan error, len(identities))
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			ident := identities[idx]
			normalized, err := NormalizeUsername(ident.Username)
			if err == nil {
				ident.Username = normalized
				err = im.store.Upsert(ctx, ident)
			}
			if err != nil {
				errCh <- err
			}
		}
	}

	for i := 0; i < im.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := range identities {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	if err := ctx.Err(); err != nil {
		return err
	}

	var importErr ImportError
	for err := range errCh {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		importErr.Errors = append(importErr.Errors, err)
	}
	if len(importErr.Errors) == 0 {
		return nil
	}
	return &importErr
}
