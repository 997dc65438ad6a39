package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/lagreelink/marketplace-server/internal/database"
	"github.com/lagreelink/marketplace-server/internal/model"
)

type AvailabilityRepository interface {
	FindByID(ctx context.Context, id string) (*model.AvailabilitySlot, error)
	FindByInstructorID(ctx context.Context, instructorID string, limit, offset int) ([]model.AvailabilitySlot, error)
	FindByBatchID(ctx context.Context, batchID string) ([]model.AvailabilitySlot, error)
	ListOpen(ctx context.Context, filter model.SlotFilter) ([]model.AvailabilitySlot, error)
	InsertBatch(ctx context.Context, q database.DBTX, slots []model.CreateSlotParams) ([]model.AvailabilitySlot, error)
	ExpirePast(ctx context.Context) (int64, error)
	CountByInstructorID(ctx context.Context, instructorID string) (int, error)
}

type availabilityRepo struct {
	db *sqlx.DB
}

func NewAvailabilityRepository(db *sqlx.DB) AvailabilityRepository {
	return &availabilityRepo{db: db}
}

func (r *availabilityRepo) FindByID(ctx context.Context, id string) (*model.AvailabilitySlot, error) {
	var slot model.AvailabilitySlot
	err := r.db.GetContext(ctx, &slot, `SELECT * FROM availability WHERE id = $1`, id)
	return HandleNotFound(&slot, err)
}

func (r *availabilityRepo) FindByInstructorID(ctx context.Context, instructorID string, limit, offset int) ([]model.AvailabilitySlot, error) {
	var slots []model.AvailabilitySlot
	err := r.db.SelectContext(ctx, &slots, `
		SELECT * FROM availability
		WHERE instructor_id = $1
		ORDER BY start_ts ASC
		LIMIT $2 OFFSET $3
	`, instructorID, limit, offset)
	return slots, err
}

func (r *availabilityRepo) FindByBatchID(ctx context.Context, batchID string) ([]model.AvailabilitySlot, error) {
	var slots []model.AvailabilitySlot
	err := r.db.SelectContext(ctx, &slots, `
		SELECT * FROM availability
		WHERE batch_id = $1
		ORDER BY start_ts ASC
	`, batchID)
	return slots, err
}

func (r *availabilityRepo) ListOpen(ctx context.Context, filter model.SlotFilter) ([]model.AvailabilitySlot, error) {
	var slots []model.AvailabilitySlot
	err := r.db.SelectContext(ctx, &slots, `
		SELECT a.* FROM availability a
		JOIN instructors i ON i.id = a.instructor_id
		WHERE a.status = 'open'
		AND ($1 = '' OR a.kind = $1)
		AND ($2 = '' OR i.state = $2)
		AND ($3::timestamptz IS NULL OR a.start_ts >= $3)
		AND ($4::timestamptz IS NULL OR a.end_ts <= $4)
		ORDER BY a.start_ts ASC
		LIMIT $5 OFFSET $6
	`, string(filter.Kind), filter.State, filter.From, filter.To, filter.Limit, filter.Offset)
	return slots, err
}

// InsertBatch writes one row per slot through q, which is expected to be a
// transaction so the batch lands fully or not at all.
func (r *availabilityRepo) InsertBatch(ctx context.Context, q database.DBTX, slots []model.CreateSlotParams) ([]model.AvailabilitySlot, error) {
	created := make([]model.AvailabilitySlot, 0, len(slots))
	for _, s := range slots {
		var row model.AvailabilitySlot
		err := q.GetContext(ctx, &row, `
			INSERT INTO availability
				(instructor_id, batch_id, start_ts, end_ts, kind, location, notes, rate_min, rate_unit)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING *
		`, s.InstructorID, s.BatchID, s.StartTS, s.EndTS, s.Kind,
			s.Location, s.Notes, s.RateMin, s.RateUnit)
		if err != nil {
			return nil, err
		}
		created = append(created, row)
	}
	return created, nil
}

func (r *availabilityRepo) ExpirePast(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE availability SET status = 'expired'
		WHERE status = 'open' AND end_ts < NOW()
	`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *availabilityRepo) CountByInstructorID(ctx context.Context, instructorID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM availability WHERE instructor_id = $1
	`, instructorID)
	return count, err
}
