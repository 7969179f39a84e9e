package collector

import (
	"context"
	"fmt"
	"strings"

	"github.com/xhad/kbase/internal/models"
	"github.com/xhad/kbase/internal/types"
	"github.com/xhad/kbase/pkg/logger"
	"github.com/xhad/kbase/pkg/processor"
)

type CollectorConfig struct {
	// Static documents are emitted first, in order.
	Static []models.Document
	Source types.Source
}

// Collector assembles the documents to embed: curated documents followed
// by one document per freelancer and one per profile.
type Collector struct {
	config CollectorConfig
	log    *logger.Logger
}

func NewWithConfig(config CollectorConfig) *Collector {
	return &Collector{
		config: config,
		log:    logger.New("collector"),
	}
}

func (c *Collector) Collect(ctx context.Context) ([]models.Document, error) {
	documents := make([]models.Document, 0, len(c.config.Static))
	documents = append(documents, c.config.Static...)

	if c.config.Source == nil {
		return sanitize(documents), nil
	}

	c.log.Info("Fetching freelancer profiles")
	freelancers, err := c.config.Source.ListFreelancerProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch freelancer profiles: %w", err)
	}
	for _, f := range freelancers {
		doc, err := c.freelancerDocument(ctx, f)
		if err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}

	c.log.Info("Fetching all profiles")
	profiles, err := c.config.Source.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profiles: %w", err)
	}
	for _, p := range profiles {
		documents = append(documents, ProfileDocument(p))
	}

	c.log.Info("Collected documents", "total", len(documents), "freelancers", len(freelancers), "profiles", len(profiles))
	return sanitize(documents), nil
}

// sanitize drops invalid UTF-8 so a document's content is exactly the key
// it is stored under.
func sanitize(documents []models.Document) []models.Document {
	for i := range documents {
		documents[i].Content = processor.SanitizeUTF8(documents[i].Content)
	}
	return documents
}

func (c *Collector) freelancerDocument(ctx context.Context, f models.FreelancerProfile) (models.Document, error) {
	src := c.config.Source
	details := FreelancerDetails{Profile: f}

	profile, err := src.GetProfile(ctx, f.ID)
	if err != nil {
		return models.Document{}, err
	}
	if profile != nil {
		details.Name = profile.FullName
	}

	skills, err := src.ListFreelancerSkills(ctx, f.ID)
	if err != nil {
		return models.Document{}, err
	}
	for _, s := range skills {
		skill, err := src.GetSkill(ctx, s.SkillID)
		if err != nil {
			return models.Document{}, err
		}
		if skill == nil {
			continue
		}
		details.Skills = append(details.Skills, fmt.Sprintf("%s (Proficiency: %s, Years: %s)",
			orNA(skill.Name), intOrNA(s.ProficiencyLevel), intOrNA(s.YearsExperience)))
	}

	matches, err := src.ListMatches(ctx, f.ID)
	if err != nil {
		return models.Document{}, err
	}
	for _, m := range matches {
		if m.JobID == nil {
			continue
		}
		job, err := src.GetJobPost(ctx, *m.JobID)
		if err != nil {
			return models.Document{}, err
		}
		if job == nil {
			continue
		}
		details.Jobs = append(details.Jobs, orNA(job.Title)+": "+orEmpty(job.Description))
	}

	return FreelancerDocument(details), nil
}

func orNA(s *string) string {
	if s == nil {
		return "N/A"
	}
	return *s
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrNA(v *int) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprint(*v)
}

func joinOrNA(items []string, sep string) string {
	if len(items) == 0 {
		return "N/A"
	}
	return strings.Join(items, sep)
}
