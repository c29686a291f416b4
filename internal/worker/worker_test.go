package worker

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dlr1251/chimeneasluque/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubRepo struct {
	mu           sync.Mutex
	reservations []models.Reservation
	err          error
	listCalls    int
}

func (s *stubRepo) ListReservations(ctx context.Context, date string) ([]models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.reservations, nil
}

func (s *stubRepo) HasReservation(ctx context.Context, date, slot string) (bool, error) {
	return false, nil
}

func (s *stubRepo) CreateReservationTx(ctx context.Context, r *models.Reservation) error {
	return nil
}

func TestRetryPolicy_NextDelay(t *testing.T) {
	p := RetryPolicy{InitialDelay: time.Second, BackoffFactor: 2, MaxDelay: 5 * time.Second}

	assert.Equal(t, time.Second, p.NextDelay(1))
	assert.Equal(t, 2*time.Second, p.NextDelay(2))
	assert.Equal(t, 4*time.Second, p.NextDelay(3))
	assert.Equal(t, 5*time.Second, p.NextDelay(4), "clamped to MaxDelay")
	assert.Equal(t, time.Second, p.NextDelay(0), "attempt below 1 is treated as 1")
}

func TestRetryPolicy_Defaults(t *testing.T) {
	var p RetryPolicy
	assert.Equal(t, time.Second, p.NextDelay(1))
	assert.Equal(t, 2*time.Second, p.NextDelay(2))
}

func TestExportWorker_RefreshesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reservations.xlsx")
	repo := &stubRepo{reservations: []models.Reservation{
		{ID: "res-1", Date: "2025-06-02", Time: "06:00", ContactName: "Ana"},
	}}
	logger := zerolog.Nop()

	w := NewExportWorker(repo, path, RetryPolicy{MaxRetries: 1}, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	require.NoError(t, w.EnqueueExport(ctx))

	require.Eventually(t, func() bool {
		_, err := excelize.OpenFile(path)
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	w.Wait()

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Reservas")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "res-1", rows[1][0])
}

func TestExportWorker_RetriesOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reservations.xlsx")
	repo := &stubRepo{err: errors.New("db down")}
	logger := zerolog.Nop()

	w := NewExportWorker(repo, path, RetryPolicy{
		MaxRetries:   2,
		InitialDelay: 5 * time.Millisecond,
	}, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	require.NoError(t, w.EnqueueExport(ctx))

	require.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return repo.listCalls >= 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	w.Wait()
	assert.NoFileExists(t, path)
}

func TestExportWorker_QueueFull(t *testing.T) {
	repo := &stubRepo{}
	logger := zerolog.Nop()
	w := NewExportWorker(repo, "unused.xlsx", RetryPolicy{MaxRetries: 1}, &logger)

	// Worker not started, so the channel fills up.
	for i := 0; i < defaultQueueSize; i++ {
		require.NoError(t, w.EnqueueExport(context.Background()))
	}
	assert.Error(t, w.EnqueueExport(context.Background()))
}
