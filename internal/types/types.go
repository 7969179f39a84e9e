package types

import (
	"context"

	"github.com/xhad/kbase/internal/models"
)

// Core interfaces

// Source reads the marketplace tables. Single-row getters return a nil row
// and a nil error when nothing matches.
type Source interface {
	ListFreelancerProfiles(ctx context.Context) ([]models.FreelancerProfile, error)
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	ListFreelancerSkills(ctx context.Context, freelancerID string) ([]models.FreelancerSkill, error)
	GetSkill(ctx context.Context, id string) (*models.Skill, error)
	ListMatches(ctx context.Context, freelancerID string) ([]models.MatchRow, error)
	GetJobPost(ctx context.Context, id string) (*models.JobPost, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type KnowledgeStore interface {
	Upsert(ctx context.Context, record models.Record) error
	List(ctx context.Context) ([]models.Row, error)
	Match(ctx context.Context, embedding []float32, limit int) ([]models.Match, error)
}

// ExternalFetcher looks a query up outside the knowledge base.
type ExternalFetcher interface {
	Fetch(ctx context.Context, query string) ([]models.Row, error)
}

// Generator produces an answer to a question given retrieved context.
type Generator interface {
	Generate(ctx context.Context, question string, context []string) (string, error)
}
