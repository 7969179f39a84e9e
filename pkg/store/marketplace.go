package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xhad/kbase/internal/models"
)

// Marketplace reads the marketplace tables the collector draws on.
// Ids are compared as text so uuid and text keys both work. Columns that
// not every deployment has (projects, education, certification) are read
// through to_jsonb so a missing column comes back as NULL.
type Marketplace struct {
	pool *pgxpool.Pool
}

func NewMarketplace(pool *pgxpool.Pool) *Marketplace {
	return &Marketplace{pool: pool}
}

func (m *Marketplace) ListFreelancerProfiles(ctx context.Context) ([]models.FreelancerProfile, error) {
	rows, err := m.pool.Query(ctx, `
		SELECT fp.id::text, fp.bio, fp.hourly_rate::float8, fp.experience_level::text,
			fp.portfolio_url, to_jsonb(fp) -> 'projects'
		FROM freelancer_profiles fp`)
	if err != nil {
		return nil, fmt.Errorf("failed to query freelancer_profiles: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.FreelancerProfile, error) {
		var f models.FreelancerProfile
		var projects []byte
		err := row.Scan(&f.ID, &f.Bio, &f.HourlyRate, &f.ExperienceLevel, &f.PortfolioURL, &projects)
		f.Projects = projects
		return f, err
	})
}

const profileColumns = `
	p.id::text, p.user_type::text, p.full_name, p.email,
	to_jsonb(p) ->> 'education', to_jsonb(p) ->> 'certification', to_jsonb(p) -> 'projects',
	p.created_at::text, p.updated_at::text`

func scanProfile(row pgx.Row) (models.Profile, error) {
	var p models.Profile
	var projects []byte
	err := row.Scan(&p.ID, &p.UserType, &p.FullName, &p.Email,
		&p.Education, &p.Certification, &projects, &p.CreatedAt, &p.UpdatedAt)
	p.Projects = projects
	return p, err
}

func (m *Marketplace) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	rows, err := m.pool.Query(ctx, `SELECT `+profileColumns+` FROM profiles p`)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Profile, error) {
		return scanProfile(row)
	})
}

func (m *Marketplace) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	p, err := scanProfile(m.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles p WHERE p.id::text = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %s: %w", id, err)
	}
	return &p, nil
}

func (m *Marketplace) ListFreelancerSkills(ctx context.Context, freelancerID string) ([]models.FreelancerSkill, error) {
	rows, err := m.pool.Query(ctx, `
		SELECT freelancer_id::text, skill_id::text, proficiency_level::int, years_experience::int
		FROM freelancer_skills
		WHERE freelancer_id::text = $1`, freelancerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query freelancer_skills: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.FreelancerSkill, error) {
		var s models.FreelancerSkill
		err := row.Scan(&s.FreelancerID, &s.SkillID, &s.ProficiencyLevel, &s.YearsExperience)
		return s, err
	})
}

func (m *Marketplace) GetSkill(ctx context.Context, id string) (*models.Skill, error) {
	var s models.Skill
	err := m.pool.QueryRow(ctx, `SELECT id::text, name FROM skills WHERE id::text = $1`, id).Scan(&s.ID, &s.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get skill %s: %w", id, err)
	}
	return &s, nil
}

func (m *Marketplace) ListMatches(ctx context.Context, freelancerID string) ([]models.MatchRow, error) {
	rows, err := m.pool.Query(ctx, `SELECT job_id::text FROM matches WHERE freelancer_id::text = $1`, freelancerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.MatchRow, error) {
		var mr models.MatchRow
		err := row.Scan(&mr.JobID)
		return mr, err
	})
}

func (m *Marketplace) GetJobPost(ctx context.Context, id string) (*models.JobPost, error) {
	var j models.JobPost
	err := m.pool.QueryRow(ctx, `SELECT id::text, title, description FROM job_posts WHERE id::text = $1`, id).
		Scan(&j.ID, &j.Title, &j.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job post %s: %w", id, err)
	}
	return &j, nil
}
