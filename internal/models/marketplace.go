package models

import "encoding/json"

// Rows of the marketplace tables. Nullable columns are pointers.

type FreelancerProfile struct {
	ID              string
	Bio             *string
	HourlyRate      *float64
	ExperienceLevel *string
	PortfolioURL    *string
	// Projects is the raw JSON value of the projects column: either an
	// array or a string holding an encoded array.
	Projects json.RawMessage
}

type Profile struct {
	ID            string
	UserType      *string
	FullName      *string
	Email         *string
	Education     *string
	Certification *string
	Projects      json.RawMessage
	CreatedAt     *string
	UpdatedAt     *string
}

type FreelancerSkill struct {
	FreelancerID     string
	SkillID          string
	ProficiencyLevel *int
	YearsExperience  *int
}

type Skill struct {
	ID   string
	Name *string
}

type MatchRow struct {
	JobID *string
}

type JobPost struct {
	ID          string
	Title       *string
	Description *string
}

type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
