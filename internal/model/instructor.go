package model

import (
	"time"

	"github.com/lib/pq"
)

type Instructor struct {
	ID              string         `db:"id" json:"id"`
	ProfileID       string         `db:"profile_id" json:"profileId"`
	Bio             *string        `db:"bio" json:"bio,omitempty"`
	ExperienceYears *int           `db:"experience_years" json:"experienceYears,omitempty"`
	Skills          pq.StringArray `db:"skills" json:"skills"`
	State           string         `db:"state" json:"state"`
	CreatedAt       time.Time      `db:"created_at" json:"createdAt"`
}

type CreateInstructorParams struct {
	ProfileID       string
	Bio             *string
	ExperienceYears *int
	Skills          []string
	State           string
}

type InstructorFilter struct {
	State string
	Skill string
}

type Studio struct {
	ID        string     `db:"id" json:"id"`
	ProfileID string     `db:"profile_id" json:"profileId"`
	Name      string     `db:"name" json:"name"`
	Size      StudioSize `db:"size" json:"size"`
	Address   *string    `db:"address" json:"address,omitempty"`
	State     string     `db:"state" json:"state"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
}

type CreateStudioParams struct {
	ProfileID string
	Name      string
	Size      StudioSize
	Address   *string
	State     string
}
