package model

type Role string

const (
	RoleStudio     Role = "STUDIO"
	RoleInstructor Role = "INSTRUCTOR"
)

type StudioSize string

const (
	StudioSizeSmall  StudioSize = "SMALL"
	StudioSizeMedium StudioSize = "MEDIUM"
	StudioSizeLarge  StudioSize = "LARGE"
)

// AvailabilityKind describes the nature of offered time.
type AvailabilityKind string

const (
	KindCover          AvailabilityKind = "Cover"
	KindRecurringClass AvailabilityKind = "Recurring Class"
	KindPrivate        AvailabilityKind = "Private"
)

type RateUnit string

const (
	RateUnitClass   RateUnit = "class"
	RateUnitSession RateUnit = "session"
	RateUnitHour    RateUnit = "hour"
)

type SlotStatus string

const (
	SlotStatusOpen    SlotStatus = "open"
	SlotStatusExpired SlotStatus = "expired"
)

type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusDeclined ApplicationStatus = "declined"
)

func ValidKind(k AvailabilityKind) bool {
	switch k {
	case KindCover, KindRecurringClass, KindPrivate:
		return true
	}
	return false
}

func ValidRateUnit(u RateUnit) bool {
	switch u {
	case RateUnitClass, RateUnitSession, RateUnitHour:
		return true
	}
	return false
}

func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusDeclined:
		return true
	}
	return false
}
