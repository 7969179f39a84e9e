package query

import (
	"context"
	"strings"

	"github.com/xhad/kbase/internal/models"
	"github.com/xhad/kbase/internal/types"
	"github.com/xhad/kbase/pkg/metrics"
)

// Source labels for FormatAnswer.
const (
	SourceInternal = "internal"
	SourceExternal = "external"
)

const (
	NoResults                = "No relevant information found."
	NoNegativeInfoInternal   = "No negative information about competitors found in our records."
	NoNegativeInfoExternal   = "No negative information about competitors found externally."
	externalSourceAnnotation = "\n\n(Source: external data)"
)

// Competitors are the names that mark a query as being about a competitor.
var Competitors = []string{"CompetitorA", "CompetitorB", "OtherShop"}

// SearchKnowledgeBase returns the rows whose content contains query,
// ignoring case, in their original order.
func SearchKnowledgeBase(query string, rows []models.Row) []models.Row {
	needle := strings.ToLower(query)
	var results []models.Row
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.Content), needle) {
			results = append(results, row)
		}
	}
	return results
}

// IsCompetitorQuery reports whether query names a known competitor.
func IsCompetitorQuery(query string) bool {
	q := strings.ToLower(query)
	for _, comp := range Competitors {
		if strings.Contains(q, strings.ToLower(comp)) {
			return true
		}
	}
	return false
}

// FilterNegativeCompetitorInfo keeps rows tagged "negative" or whose
// content mentions "bad".
func FilterNegativeCompetitorInfo(rows []models.Row) []models.Row {
	var results []models.Row
	for _, row := range rows {
		if hasTag(row.Metadata, "negative") || strings.Contains(strings.ToLower(row.Content), "bad") {
			results = append(results, row)
		}
	}
	return results
}

func hasTag(m models.Metadata, tag string) bool {
	for _, t := range m.Strings("tags") {
		if t == tag {
			return true
		}
	}
	return false
}

// FormatAnswer joins row contents one per line, marking external results.
func FormatAnswer(rows []models.Row, source string) string {
	if len(rows) == 0 {
		return NoResults
	}
	contents := make([]string, len(rows))
	for i, r := range rows {
		contents[i] = r.Content
	}
	answer := strings.Join(contents, "\n")
	if source == SourceExternal {
		answer += externalSourceAnnotation
	}
	return answer
}

// NoopFetcher finds nothing outside the knowledge base.
type NoopFetcher struct{}

func (NoopFetcher) Fetch(context.Context, string) ([]models.Row, error) {
	return nil, nil
}

// Answerer answers a query from stored rows, falling back to an external
// fetcher when nothing internal matches.
type Answerer struct {
	external types.ExternalFetcher
}

// NewAnswerer uses NoopFetcher when external is nil.
func NewAnswerer(external types.ExternalFetcher) *Answerer {
	if external == nil {
		external = NoopFetcher{}
	}
	return &Answerer{external: external}
}

// Answer searches rows first and asks the external fetcher only when
// nothing internal matches. Competitor queries return negative findings only.
func (a *Answerer) Answer(ctx context.Context, query string, rows []models.Row) (string, error) {
	competitor := IsCompetitorQuery(query)

	internal := SearchKnowledgeBase(query, rows)
	if len(internal) > 0 {
		metrics.QueriesTotal.WithLabelValues("naive", SourceInternal).Inc()
		if !competitor {
			return FormatAnswer(internal, SourceInternal), nil
		}
		if negative := FilterNegativeCompetitorInfo(internal); len(negative) > 0 {
			return FormatAnswer(negative, SourceInternal), nil
		}
		return NoNegativeInfoInternal, nil
	}

	external, err := a.external.Fetch(ctx, query)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("naive", "error").Inc()
		return "", err
	}
	metrics.QueriesTotal.WithLabelValues("naive", SourceExternal).Inc()
	if !competitor {
		return FormatAnswer(external, SourceExternal), nil
	}
	if negative := FilterNegativeCompetitorInfo(external); len(negative) > 0 {
		return FormatAnswer(negative, SourceExternal), nil
	}
	return NoNegativeInfoExternal, nil
}

const fullNamePrefix = "Full Name:"

// FreelancerExistsByName looks for a stored freelancer profile whose full
// name contains name, ignoring case. It returns the lowercased full name.
func FreelancerExistsByName(rows []models.Row, name string) (bool, string) {
	needle := strings.ToLower(name)
	for _, row := range rows {
		if row.Metadata.String("category") != "profile" || row.Metadata.String("user_type") != "freelancer" {
			continue
		}
		for _, line := range strings.Split(row.Content, "\n") {
			if !strings.HasPrefix(line, fullNamePrefix) {
				continue
			}
			fullName := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, fullNamePrefix)))
			if strings.Contains(fullName, needle) {
				return true, fullName
			}
		}
	}
	return false, ""
}
