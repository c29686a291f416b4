package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dlr1251/chimeneasluque/internal/domain"
	"github.com/dlr1251/chimeneasluque/internal/export"

	"github.com/rs/zerolog"
)

const defaultQueueSize = 64

// ExportWorker keeps an xlsx snapshot of the reservation collection on
// disk. Refreshes are funneled through a single goroutine so the file is
// never written concurrently.
type ExportWorker struct {
	repo   domain.ReservationRepository
	path   string
	retry  RetryPolicy
	tasks  chan struct{}
	logger *zerolog.Logger
	wg     sync.WaitGroup
}

func NewExportWorker(repo domain.ReservationRepository, path string, retry RetryPolicy, logger *zerolog.Logger) *ExportWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 3
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = time.Second
	}
	return &ExportWorker{
		repo:   repo,
		path:   path,
		retry:  retry,
		tasks:  make(chan struct{}, defaultQueueSize),
		logger: logger,
	}
}

// Start launches the worker loop; it drains until ctx is cancelled.
func (w *ExportWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.tasks:
				w.refresh(ctx)
			}
		}
	}()
}

// Wait blocks until the worker loop has exited.
func (w *ExportWorker) Wait() {
	w.wg.Wait()
}

// EnqueueExport requests a snapshot refresh. Duplicate pending requests
// collapse into the queued one; a full queue is reported to the caller.
func (w *ExportWorker) EnqueueExport(ctx context.Context) error {
	select {
	case w.tasks <- struct{}{}:
		return nil
	default:
		return fmt.Errorf("export queue is full")
	}
}

func (w *ExportWorker) refresh(ctx context.Context) {
	// Collapse any requests that piled up behind this one.
	for {
		select {
		case <-w.tasks:
			continue
		default:
		}
		break
	}

	for attempt := 1; attempt <= w.retry.MaxRetries; attempt++ {
		err := w.refreshOnce(ctx)
		if err == nil {
			w.logger.Debug().Str("path", w.path).Msg("reservation export refreshed")
			return
		}

		w.logger.Error().Err(err).Int("attempt", attempt).Msg("export refresh failed")
		if attempt == w.retry.MaxRetries {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.retry.NextDelay(attempt)):
		}
	}
}

func (w *ExportWorker) refreshOnce(ctx context.Context) error {
	reservations, err := w.repo.ListReservations(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to list reservations for export: %w", err)
	}
	return export.WriteWorkbook(w.path, reservations)
}
