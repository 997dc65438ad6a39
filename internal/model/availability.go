package model

import "time"

// AvailabilitySlot is one bookable interval offered by an instructor. Slots
// are immutable once written; a whole batch shares a batch_id.
type AvailabilitySlot struct {
	ID           string           `db:"id" json:"id"`
	InstructorID string           `db:"instructor_id" json:"instructorId"`
	BatchID      string           `db:"batch_id" json:"batchId"`
	StartTS      time.Time        `db:"start_ts" json:"startTs"`
	EndTS        time.Time        `db:"end_ts" json:"endTs"`
	Kind         AvailabilityKind `db:"kind" json:"kind"`
	Location     *string          `db:"location" json:"location,omitempty"`
	Notes        *string          `db:"notes" json:"notes,omitempty"`
	RateMin      *float64         `db:"rate_min" json:"rateMin,omitempty"`
	RateUnit     RateUnit         `db:"rate_unit" json:"rateUnit"`
	Status       SlotStatus       `db:"status" json:"status"`
	CreatedAt    time.Time        `db:"created_at" json:"createdAt"`
}

type CreateSlotParams struct {
	InstructorID string
	BatchID      string
	StartTS      time.Time
	EndTS        time.Time
	Kind         AvailabilityKind
	Location     *string
	Notes        *string
	RateMin      *float64
	RateUnit     RateUnit
}

type SlotFilter struct {
	Kind   AvailabilityKind
	State  string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
