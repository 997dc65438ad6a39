package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/teambition/rrule-go"

	"github.com/lagreelink/marketplace-server/internal/config"
	"github.com/lagreelink/marketplace-server/internal/database"
	apperrors "github.com/lagreelink/marketplace-server/internal/errors"
	"github.com/lagreelink/marketplace-server/internal/model"
	"github.com/lagreelink/marketplace-server/internal/repository"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Spec weekday indices are 0=Sunday..6=Saturday.
var rruleWeekdays = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// GenerateParams is the compact recurring-availability description supplied
// by the client. Dates are calendar dates, times are local wall clock.
type GenerateParams struct {
	RangeStart string `json:"rangeStart" validate:"required"`
	RangeEnd   string `json:"rangeEnd" validate:"required"`
	Weekdays   []int  `json:"weekdays"`
	DailyStart string `json:"dailyStart" validate:"required"`
	DailyEnd   string `json:"dailyEnd" validate:"required"`
}

type SlotCandidate struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Preview struct {
	Slots      []SlotCandidate `json:"slots"`
	TotalHours float64         `json:"totalHours"`
	Warning    string          `json:"warning,omitempty"`
}

// GenerateSlots expands params into concrete slots, ascending by start time.
// It is a pure function: identical input yields an identical sequence.
//
// An empty weekday selection and a daily window whose end is not after its
// start both yield an empty preview without error; the latter carries a
// warning so the client can tell the user why nothing was generated.
func GenerateSlots(params GenerateParams, loc *time.Location) (*Preview, error) {
	if loc == nil {
		loc = time.Local
	}

	if params.RangeStart == "" || params.RangeEnd == "" {
		return nil, apperrors.InvalidRange("start and end dates are required")
	}
	rangeStart, err := time.ParseInLocation(dateLayout, params.RangeStart, loc)
	if err != nil {
		return nil, apperrors.InvalidRange(fmt.Sprintf("unparseable start date %q", params.RangeStart))
	}
	rangeEnd, err := time.ParseInLocation(dateLayout, params.RangeEnd, loc)
	if err != nil {
		return nil, apperrors.InvalidRange(fmt.Sprintf("unparseable end date %q", params.RangeEnd))
	}
	if rangeEnd.Before(rangeStart) {
		return nil, apperrors.InvalidRange("end date before start date")
	}

	startMinute, err := parseWallClock(params.DailyStart)
	if err != nil {
		return nil, apperrors.InvalidInput("dailyStart", err.Error())
	}
	endMinute, err := parseWallClock(params.DailyEnd)
	if err != nil {
		return nil, apperrors.InvalidInput("dailyEnd", err.Error())
	}

	byweekday := make([]rrule.Weekday, 0, len(params.Weekdays))
	seen := [7]bool{}
	for _, d := range params.Weekdays {
		if d < 0 || d > 6 {
			return nil, apperrors.InvalidInput("weekdays", fmt.Sprintf("%d is not a weekday index", d))
		}
		if !seen[d] {
			seen[d] = true
			byweekday = append(byweekday, rruleWeekdays[d])
		}
	}
	if len(byweekday) == 0 {
		return &Preview{}, nil
	}

	// Reversed or zero-width daily windows drop every candidate rather than
	// failing the whole range.
	window := time.Duration(endMinute-startMinute) * time.Minute
	if window <= 0 {
		return &Preview{Warning: "daily end time is not after start time; no slots generated"}, nil
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: byweekday,
		Dtstart:   rangeStart.Add(time.Duration(startMinute) * time.Minute),
		Until:     rangeEnd.Add(time.Duration(startMinute) * time.Minute),
	})
	if err != nil {
		return nil, apperrors.InvalidRange(err.Error())
	}

	occurrences := rule.All()
	if len(occurrences) > config.MaxSlotsPerBatch {
		return nil, apperrors.BatchTooLarge(config.MaxSlotsPerBatch)
	}

	slots := make([]SlotCandidate, 0, len(occurrences))
	for _, start := range occurrences {
		slots = append(slots, SlotCandidate{Start: start, End: start.Add(window)})
	}

	return &Preview{
		Slots:      slots,
		TotalHours: roundHours(time.Duration(len(slots)) * window),
	}, nil
}

func parseWallClock(s string) (int, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return 0, fmt.Errorf("unparseable time of day %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// roundHours reports a duration in fractional hours to one decimal place.
// Display only; persistence keeps full timestamps.
func roundHours(d time.Duration) float64 {
	return math.Round(d.Minutes()/60*10) / 10
}

// ComposeNotes folds the structured tags and free-form remarks into the
// single notes column the slot rows carry.
func ComposeNotes(level string, equipment []string, notes string) *string {
	var parts []string
	if level != "" {
		parts = append(parts, "Level: "+level)
	}
	if len(equipment) > 0 {
		parts = append(parts, "Equipment: "+strings.Join(equipment, ", "))
	}
	if notes != "" {
		parts = append(parts, "Notes: "+notes)
	}
	if len(parts) == 0 {
		return nil
	}
	joined := strings.Join(parts, " • ")
	return &joined
}

// SlotMetadata describes the generated batch: what is offered, where, and at
// what rate.
type SlotMetadata struct {
	Kind      model.AvailabilityKind `json:"kind"`
	Location  string                 `json:"location"`
	RateMin   *float64               `json:"rateMin"`
	RateUnit  model.RateUnit         `json:"rateUnit"`
	Level     string                 `json:"level"`
	Equipment []string               `json:"equipment"`
	Notes     string                 `json:"notes"`
}

type BatchResult struct {
	BatchID    string                   `json:"batchId"`
	Slots      []model.AvailabilitySlot `json:"slots"`
	TotalHours float64                  `json:"totalHours"`
}

// TxRunner runs a function inside a database transaction. *database.DB
// satisfies it.
type TxRunner interface {
	WithTx(ctx context.Context, fn database.TxFunc) error
}

type AvailabilityService struct {
	db   TxRunner
	repo repository.AvailabilityRepository
	loc  *time.Location
}

func NewAvailabilityService(db TxRunner, repo repository.AvailabilityRepository, loc *time.Location) *AvailabilityService {
	return &AvailabilityService{db: db, repo: repo, loc: loc}
}

func (s *AvailabilityService) Preview(params GenerateParams) (*Preview, error) {
	return GenerateSlots(params, s.loc)
}

// PersistSlots generates and commits a batch in a single transaction: every
// row lands or none do. All rows share one batch id.
func (s *AvailabilityService) PersistSlots(
	ctx context.Context,
	instructorID string,
	params GenerateParams,
	meta SlotMetadata,
) (*BatchResult, error) {
	preview, err := GenerateSlots(params, s.loc)
	if err != nil {
		return nil, err
	}
	if len(preview.Slots) == 0 {
		return nil, apperrors.ValidationError("Select a valid date range, times, and repeat days")
	}

	if meta.Kind == "" {
		meta.Kind = model.KindCover
	}
	if !model.ValidKind(meta.Kind) {
		return nil, apperrors.InvalidInput("kind", string(meta.Kind))
	}
	if meta.RateUnit == "" {
		meta.RateUnit = model.RateUnitClass
	}
	if !model.ValidRateUnit(meta.RateUnit) {
		return nil, apperrors.InvalidInput("rateUnit", string(meta.RateUnit))
	}
	if meta.RateMin != nil && *meta.RateMin < 0 {
		return nil, apperrors.InvalidInput("rateMin", "must not be negative")
	}

	batchID := uuid.NewString()
	notes := ComposeNotes(meta.Level, meta.Equipment, meta.Notes)
	var location *string
	if meta.Location != "" {
		location = &meta.Location
	}

	rows := make([]model.CreateSlotParams, 0, len(preview.Slots))
	for _, c := range preview.Slots {
		rows = append(rows, model.CreateSlotParams{
			InstructorID: instructorID,
			BatchID:      batchID,
			StartTS:      c.Start,
			EndTS:        c.End,
			Kind:         meta.Kind,
			Location:     location,
			Notes:        notes,
			RateMin:      meta.RateMin,
			RateUnit:     meta.RateUnit,
		})
	}

	var created []model.AvailabilitySlot
	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var txErr error
		created, txErr = s.repo.InsertBatch(ctx, tx, rows)
		return txErr
	})
	if err != nil {
		return nil, fmt.Errorf("persist slot batch: %w", err)
	}

	log.Info().
		Str("instructorId", instructorID).
		Str("batchId", batchID).
		Int("slots", len(created)).
		Msg("availability batch created")

	return &BatchResult{
		BatchID:    batchID,
		Slots:      created,
		TotalHours: preview.TotalHours,
	}, nil
}

func (s *AvailabilityService) ListOpen(ctx context.Context, filter model.SlotFilter) ([]model.AvailabilitySlot, error) {
	if filter.Kind != "" && !model.ValidKind(filter.Kind) {
		return nil, apperrors.InvalidInput("kind", string(filter.Kind))
	}
	return s.repo.ListOpen(ctx, filter)
}

func (s *AvailabilityService) ListMine(ctx context.Context, instructorID string, limit, offset int) ([]model.AvailabilitySlot, error) {
	return s.repo.FindByInstructorID(ctx, instructorID, limit, offset)
}
