package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lagreelink/marketplace-server/internal/database"
	apperrors "github.com/lagreelink/marketplace-server/internal/errors"
	"github.com/lagreelink/marketplace-server/internal/model"
)

// fakeTxRunner runs the transaction body directly; repository mocks ignore
// the handle.
type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn database.TxFunc) error {
	return fn(nil)
}

type mockAvailabilityRepo struct {
	mock.Mock
}

func (m *mockAvailabilityRepo) FindByID(ctx context.Context, id string) (*model.AvailabilitySlot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AvailabilitySlot), args.Error(1)
}

func (m *mockAvailabilityRepo) FindByInstructorID(ctx context.Context, instructorID string, limit, offset int) ([]model.AvailabilitySlot, error) {
	args := m.Called(ctx, instructorID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AvailabilitySlot), args.Error(1)
}

func (m *mockAvailabilityRepo) FindByBatchID(ctx context.Context, batchID string) ([]model.AvailabilitySlot, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AvailabilitySlot), args.Error(1)
}

func (m *mockAvailabilityRepo) ListOpen(ctx context.Context, filter model.SlotFilter) ([]model.AvailabilitySlot, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AvailabilitySlot), args.Error(1)
}

func (m *mockAvailabilityRepo) InsertBatch(ctx context.Context, q database.DBTX, slots []model.CreateSlotParams) ([]model.AvailabilitySlot, error) {
	args := m.Called(ctx, q, slots)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AvailabilitySlot), args.Error(1)
}

func (m *mockAvailabilityRepo) ExpirePast(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAvailabilityRepo) CountByInstructorID(ctx context.Context, instructorID string) (int, error) {
	args := m.Called(ctx, instructorID)
	return args.Int(0), args.Error(1)
}

func TestGenerateSlots(t *testing.T) {
	t.Run("expands monday and wednesday mornings", func(t *testing.T) {
		// 2025-01-06 is a Monday, 2025-01-12 a Sunday.
		preview, err := GenerateSlots(GenerateParams{
			RangeStart: "2025-01-06",
			RangeEnd:   "2025-01-12",
			Weekdays:   []int{1, 3},
			DailyStart: "06:00",
			DailyEnd:   "10:00",
		}, time.UTC)
		require.NoError(t, err)
		require.Len(t, preview.Slots, 2)

		assert.Equal(t, time.Date(2025, 1, 6, 6, 0, 0, 0, time.UTC), preview.Slots[0].Start)
		assert.Equal(t, time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC), preview.Slots[0].End)
		assert.Equal(t, time.Date(2025, 1, 8, 6, 0, 0, 0, time.UTC), preview.Slots[1].Start)
		assert.Equal(t, time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC), preview.Slots[1].End)
		assert.Equal(t, 8.0, preview.TotalHours)
		assert.Empty(t, preview.Warning)
	})

	t.Run("reversed daily window yields empty preview without error", func(t *testing.T) {
		preview, err := GenerateSlots(GenerateParams{
			RangeStart: "2025-01-06",
			RangeEnd:   "2025-01-12",
			Weekdays:   []int{1, 3},
			DailyStart: "10:00",
			DailyEnd:   "06:00",
		}, time.UTC)
		require.NoError(t, err)
		assert.Empty(t, preview.Slots)
		assert.Equal(t, 0.0, preview.TotalHours)
		assert.NotEmpty(t, preview.Warning)
	})

	t.Run("slot count matches matching weekdays in range", func(t *testing.T) {
		// Four full weeks, three weekdays selected.
		preview, err := GenerateSlots(GenerateParams{
			RangeStart: "2025-03-03",
			RangeEnd:   "2025-03-30",
			Weekdays:   []int{1, 3, 5},
			DailyStart: "09:00",
			DailyEnd:   "11:30",
		}, time.UTC)
		require.NoError(t, err)
		assert.Len(t, preview.Slots, 12)
		assert.Equal(t, 30.0, preview.TotalHours)
	})

	t.Run("output is chronologically ordered", func(t *testing.T) {
		preview, err := GenerateSlots(GenerateParams{
			RangeStart: "2025-01-01",
			RangeEnd:   "2025-02-28",
			Weekdays:   []int{0, 2, 4, 6},
			DailyStart: "07:15",
			DailyEnd:   "08:45",
		}, time.UTC)
		require.NoError(t, err)
		require.NotEmpty(t, preview.Slots)
		for i := 1; i < len(preview.Slots); i++ {
			assert.True(t, preview.Slots[i-1].Start.Before(preview.Slots[i].Start))
		}
		for _, s := range preview.Slots {
			assert.True(t, s.End.After(s.Start))
		}
	})

	t.Run("is deterministic", func(t *testing.T) {
		params := GenerateParams{
			RangeStart: "2025-06-01",
			RangeEnd:   "2025-06-30",
			Weekdays:   []int{2, 4},
			DailyStart: "18:00",
			DailyEnd:   "19:00",
		}
		first, err := GenerateSlots(params, time.UTC)
		require.NoError(t, err)
		second, err := GenerateSlots(params, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("single day range with matching weekday", func(t *testing.T) {
		preview, err := GenerateSlots(GenerateParams{
			RangeStart: "2025-01-06",
			RangeEnd:   "2025-01-06",
			Weekdays:   []int{1},
			DailyStart: "06:00",
			DailyEnd:   "07:00",
		}, time.UTC)
		require.NoError(t, err)
		assert.Len(t, preview.Slots, 1)
	})

	t.Run("single day range with non-matching weekday", func(t *testing.T) {
		preview, err := GenerateSlots(GenerateParams{
			RangeStart: "2025-01-06",
			RangeEnd:   "2025-01-06",
			Weekdays:   []int{2},
			DailyStart: "06:00",
			DailyEnd:   "07:00",
		}, time.UTC)
		require.NoError(t, err)
		assert.Empty(t, preview.Slots)
	})

	t.Run("empty weekday selection yields empty preview", func(t *testing.T) {
		preview, err := GenerateSlots(GenerateParams{
			RangeStart: "2025-01-06",
			RangeEnd:   "2025-01-12",
			Weekdays:   nil,
			DailyStart: "06:00",
			DailyEnd:   "10:00",
		}, time.UTC)
		require.NoError(t, err)
		assert.Empty(t, preview.Slots)
	})

	t.Run("duplicate weekday indices are collapsed", func(t *testing.T) {
		preview, err := GenerateSlots(GenerateParams{
			RangeStart: "2025-01-06",
			RangeEnd:   "2025-01-12",
			Weekdays:   []int{1, 1, 1},
			DailyStart: "06:00",
			DailyEnd:   "10:00",
		}, time.UTC)
		require.NoError(t, err)
		assert.Len(t, preview.Slots, 1)
	})

	t.Run("rejects end date before start date", func(t *testing.T) {
		_, err := GenerateSlots(GenerateParams{
			RangeStart: "2025-01-12",
			RangeEnd:   "2025-01-06",
			Weekdays:   []int{1},
			DailyStart: "06:00",
			DailyEnd:   "10:00",
		}, time.UTC)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeInvalidRange, appErr.Code)
	})

	t.Run("rejects unparseable dates", func(t *testing.T) {
		_, err := GenerateSlots(GenerateParams{
			RangeStart: "06/01/2025",
			RangeEnd:   "2025-01-12",
			Weekdays:   []int{1},
			DailyStart: "06:00",
			DailyEnd:   "10:00",
		}, time.UTC)
		assert.Equal(t, apperrors.ErrCodeInvalidRange, apperrors.GetCode(err))
	})

	t.Run("rejects missing dates", func(t *testing.T) {
		_, err := GenerateSlots(GenerateParams{
			Weekdays:   []int{1},
			DailyStart: "06:00",
			DailyEnd:   "10:00",
		}, time.UTC)
		assert.Equal(t, apperrors.ErrCodeInvalidRange, apperrors.GetCode(err))
	})

	t.Run("rejects out-of-range weekday index", func(t *testing.T) {
		_, err := GenerateSlots(GenerateParams{
			RangeStart: "2025-01-06",
			RangeEnd:   "2025-01-12",
			Weekdays:   []int{7},
			DailyStart: "06:00",
			DailyEnd:   "10:00",
		}, time.UTC)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
	})

	t.Run("rejects unparseable time of day", func(t *testing.T) {
		_, err := GenerateSlots(GenerateParams{
			RangeStart: "2025-01-06",
			RangeEnd:   "2025-01-12",
			Weekdays:   []int{1},
			DailyStart: "6am",
			DailyEnd:   "10:00",
		}, time.UTC)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
	})
}

func TestComposeNotes(t *testing.T) {
	t.Run("joins all parts", func(t *testing.T) {
		notes := ComposeNotes("L1", []string{"M3K", "Micro"}, "prefer mornings")
		require.NotNil(t, notes)
		assert.Equal(t, "Level: L1 • Equipment: M3K, Micro • Notes: prefer mornings", *notes)
	})

	t.Run("omits empty parts", func(t *testing.T) {
		notes := ComposeNotes("L2", nil, "")
		require.NotNil(t, notes)
		assert.Equal(t, "Level: L2", *notes)
	})

	t.Run("nil when everything empty", func(t *testing.T) {
		assert.Nil(t, ComposeNotes("", nil, ""))
	})
}

func TestAvailabilityService_PersistSlots(t *testing.T) {
	params := GenerateParams{
		RangeStart: "2025-01-06",
		RangeEnd:   "2025-01-12",
		Weekdays:   []int{1, 3},
		DailyStart: "06:00",
		DailyEnd:   "10:00",
	}

	t.Run("persists generated batch in one transaction", func(t *testing.T) {
		repo := new(mockAvailabilityRepo)
		svc := NewAvailabilityService(fakeTxRunner{}, repo, time.UTC)
		ctx := context.Background()

		created := []model.AvailabilitySlot{
			{ID: "slot-1", InstructorID: "inst-1"},
			{ID: "slot-2", InstructorID: "inst-1"},
		}

		repo.On("InsertBatch", ctx, mock.Anything, mock.MatchedBy(func(rows []model.CreateSlotParams) bool {
			if len(rows) != 2 {
				return false
			}
			sameBatch := rows[0].BatchID == rows[1].BatchID && rows[0].BatchID != ""
			return sameBatch && rows[0].InstructorID == "inst-1" && rows[0].Kind == model.KindCover
		})).Return(created, nil)

		result, err := svc.PersistSlots(ctx, "inst-1", params, SlotMetadata{
			Level:     "L1",
			Equipment: []string{"M3K"},
		})

		require.NoError(t, err)
		assert.Equal(t, created, result.Slots)
		assert.NotEmpty(t, result.BatchID)
		assert.Equal(t, 8.0, result.TotalHours)
		repo.AssertExpectations(t)
	})

	t.Run("rejects empty generation result", func(t *testing.T) {
		repo := new(mockAvailabilityRepo)
		svc := NewAvailabilityService(fakeTxRunner{}, repo, time.UTC)

		empty := params
		empty.Weekdays = nil
		_, err := svc.PersistSlots(context.Background(), "inst-1", empty, SlotMetadata{})

		assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
		repo.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		repo := new(mockAvailabilityRepo)
		svc := NewAvailabilityService(fakeTxRunner{}, repo, time.UTC)

		_, err := svc.PersistSlots(context.Background(), "inst-1", params, SlotMetadata{Kind: "Workshop"})
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
	})

	t.Run("rejects negative rate", func(t *testing.T) {
		repo := new(mockAvailabilityRepo)
		svc := NewAvailabilityService(fakeTxRunner{}, repo, time.UTC)

		rate := -5.0
		_, err := svc.PersistSlots(context.Background(), "inst-1", params, SlotMetadata{RateMin: &rate})
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
	})
}
