package model

import (
	"time"

	"github.com/lib/pq"
)

type Job struct {
	ID          string         `db:"id" json:"id"`
	StudioID    string         `db:"studio_id" json:"studioId"`
	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	Location    *string        `db:"location" json:"location,omitempty"`
	State       string         `db:"state" json:"state"`
	RateMin     *float64       `db:"rate_min" json:"rateMin,omitempty"`
	RateUnit    RateUnit       `db:"rate_unit" json:"rateUnit"`
	Equipment   pq.StringArray `db:"equipment" json:"equipment"`
	Status      JobStatus      `db:"status" json:"status"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
}

type CreateJobParams struct {
	StudioID    string
	Title       string
	Description string
	Location    *string
	State       string
	RateMin     *float64
	RateUnit    RateUnit
	Equipment   []string
}

type JobFilter struct {
	State     string
	RateUnit  RateUnit
	Equipment string
	Status    JobStatus
	Limit     int
	Offset    int
}

type Application struct {
	ID          string            `db:"id" json:"id"`
	JobID       string            `db:"job_id" json:"jobId"`
	ApplicantID string            `db:"applicant_id" json:"applicantId"`
	CoverLetter *string           `db:"cover_letter" json:"coverLetter,omitempty"`
	Status      ApplicationStatus `db:"status" json:"status"`
	CreatedAt   time.Time         `db:"created_at" json:"createdAt"`
}

type CreateApplicationParams struct {
	JobID       string
	ApplicantID string
	CoverLetter *string
}

type SavedJob struct {
	ProfileID string    `db:"profile_id" json:"profileId"`
	JobID     string    `db:"job_id" json:"jobId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
