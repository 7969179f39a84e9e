package collector

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/xhad/kbase/internal/models"
)

// Metadata categories.
const (
	CategoryFreelancer = "freelancer"
	CategoryProfile    = "profile"
)

// FreelancerDetails is a freelancer profile joined with the rows that
// describe it.
type FreelancerDetails struct {
	Profile models.FreelancerProfile
	Name    *string
	// Skills are rendered "name (Proficiency: p, Years: y)".
	Skills []string
	// Jobs are rendered "title: description".
	Jobs []string
}

func FreelancerDocument(d FreelancerDetails) models.Document {
	f := d.Profile
	hourlyRate := "N/A"
	if f.HourlyRate != nil {
		hourlyRate = strconv.FormatFloat(*f.HourlyRate, 'f', -1, 64)
	}

	lines := []string{
		"Freelancer Name: " + orNA(d.Name),
		"ID: " + f.ID,
		"Skills: " + joinOrNA(d.Skills, ", "),
		"Projects: " + FormatProjects(ParseProjects(f.Projects)),
		"Jobs Done: " + joinOrNA(d.Jobs, "; "),
		"Hourly Rate: " + hourlyRate,
		"Experience Level: " + orNA(f.ExperienceLevel),
		"Bio: " + orNA(f.Bio),
		"Portfolio URL: " + orNA(f.PortfolioURL),
	}

	return models.Document{
		Content:  strings.Join(lines, "\n"),
		Metadata: models.Metadata{"category": CategoryFreelancer, "id": f.ID},
	}
}

func ProfileDocument(p models.Profile) models.Document {
	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\n")
	}

	line("Profile ID", p.ID)
	line("User Type", orNA(p.UserType))
	line("Full Name", orNA(p.FullName))
	line("Email", orNA(p.Email))
	line("Education", orNA(p.Education))
	line("Certification", orNA(p.Certification))
	line("Projects", FormatProjects(ParseProjects(p.Projects)))
	line("Created At", orNA(p.CreatedAt))
	line("Updated At", orNA(p.UpdatedAt))

	var userType interface{}
	if p.UserType != nil {
		userType = *p.UserType
	}

	return models.Document{
		Content:  b.String(),
		Metadata: models.Metadata{"category": CategoryProfile, "id": p.ID, "user_type": userType},
	}
}

// ParseProjects decodes a projects column holding either a JSON array or
// a JSON string that encodes one. Anything unparseable yields no projects.
func ParseProjects(raw json.RawMessage) []models.Project {
	if len(raw) == 0 {
		return nil
	}

	var projects []models.Project
	if err := json.Unmarshal(raw, &projects); err == nil {
		return projects
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil
	}
	if err := json.Unmarshal([]byte(encoded), &projects); err != nil {
		return nil
	}
	return projects
}

func FormatProjects(projects []models.Project) string {
	if len(projects) == 0 {
		return "N/A"
	}
	parts := make([]string, 0, len(projects))
	for _, p := range projects {
		parts = append(parts, p.Title+": "+p.Description)
	}
	return strings.Join(parts, "; ")
}
