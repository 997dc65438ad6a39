package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lagreelink/marketplace-server/internal/database"
	"github.com/lagreelink/marketplace-server/internal/model"
)

type stubSessionRepo struct {
	deleted atomic.Int64
}

func (s *stubSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.Session, error) {
	return nil, nil
}

func (s *stubSessionRepo) Create(ctx context.Context, tokenHash, profileID string, expiresAt time.Time) error {
	return nil
}

func (s *stubSessionRepo) Delete(ctx context.Context, tokenHash string) error {
	return nil
}

func (s *stubSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	s.deleted.Add(1)
	return 2, nil
}

type stubAvailabilityRepo struct {
	expired atomic.Int64
}

func (s *stubAvailabilityRepo) FindByID(ctx context.Context, id string) (*model.AvailabilitySlot, error) {
	return nil, nil
}

func (s *stubAvailabilityRepo) FindByInstructorID(ctx context.Context, instructorID string, limit, offset int) ([]model.AvailabilitySlot, error) {
	return nil, nil
}

func (s *stubAvailabilityRepo) FindByBatchID(ctx context.Context, batchID string) ([]model.AvailabilitySlot, error) {
	return nil, nil
}

func (s *stubAvailabilityRepo) ListOpen(ctx context.Context, filter model.SlotFilter) ([]model.AvailabilitySlot, error) {
	return nil, nil
}

func (s *stubAvailabilityRepo) InsertBatch(ctx context.Context, q database.DBTX, slots []model.CreateSlotParams) ([]model.AvailabilitySlot, error) {
	return nil, nil
}

func (s *stubAvailabilityRepo) ExpirePast(ctx context.Context) (int64, error) {
	s.expired.Add(1)
	return 1, nil
}

func (s *stubAvailabilityRepo) CountByInstructorID(ctx context.Context, instructorID string) (int, error) {
	return 0, nil
}

func TestCleanupJob(t *testing.T) {
	t.Run("runs immediately on start", func(t *testing.T) {
		sessions := &stubSessionRepo{}
		availability := &stubAvailabilityRepo{}

		job := NewCleanupJob(sessions, availability, time.Hour)
		job.Start()
		defer job.Stop()

		assert.Eventually(t, func() bool {
			return sessions.deleted.Load() == 1 && availability.expired.Load() == 1
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("stops cleanly", func(t *testing.T) {
		sessions := &stubSessionRepo{}
		availability := &stubAvailabilityRepo{}

		job := NewCleanupJob(sessions, availability, 10*time.Millisecond)
		job.Start()
		time.Sleep(30 * time.Millisecond)
		job.Stop()

		after := sessions.deleted.Load()
		time.Sleep(30 * time.Millisecond)
		assert.Equal(t, after, sessions.deleted.Load())
	})
}
