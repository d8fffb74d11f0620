package profile

import (
	"time"

	"github.com/scholarfinder/engine/internal/domain/author"
	"github.com/scholarfinder/engine/internal/infrastructure/monitoring/logging"
	"github.com/scholarfinder/engine/pkg/errors"
)

// completenessWeights drives the overall score. Fields absent from the author
// record subtract their weight from the score.
var completenessWeights = map[string]float64{
	"email":            0.15,
	"affiliations":     0.20,
	"researchAreas":    0.25,
	"meshTerms":        0.20,
	"publicationCount": 0.20,
}

// freshnessHorizon is the age at which an author record counts as fully stale.
const freshnessHorizon = 2 * 365 * 24 * time.Hour

// CompletenessAssessor scores how much of an author record is populated and
// how trustworthy each field is.
type CompletenessAssessor struct {
	logger logging.Logger
	now    func() time.Time
}

// NewCompletenessAssessor constructs an assessor. A nil logger falls back to
// the no-op logger.
func NewCompletenessAssessor(logger logging.Logger) *CompletenessAssessor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CompletenessAssessor{
		logger: logger.Named("completeness"),
		now:    time.Now,
	}
}

// Assess scores the author record. lastUpdated is the enrichment timestamp
// when known; the zero value means the record age is unknown and freshness
// defaults to "now".
func (c *CompletenessAssessor) Assess(a *author.Author, lastUpdated time.Time) (*ProfileCompleteness, error) {
	if a == nil {
		return nil, errors.New(errors.ErrCodeAuthorRequired, "author is required for completeness assessment")
	}

	missing := []string{}
	score := 1.0

	deduct := func(field string) {
		missing = append(missing, field)
		score -= completenessWeights[field]
	}

	if !a.HasEmail() {
		deduct("email")
	}
	if len(a.Affiliations) == 0 {
		deduct("affiliations")
	}
	if len(a.ResearchAreas) == 0 {
		deduct("researchAreas")
	}
	if len(a.MeshTerms) == 0 {
		deduct("meshTerms")
	}
	if a.PublicationCount == 0 {
		score -= completenessWeights["publicationCount"]
	}
	if score < 0 {
		score = 0
	}

	if lastUpdated.IsZero() {
		lastUpdated = c.now()
	}

	return &ProfileCompleteness{
		OverallScore:  score,
		MissingFields: missing,
		DataQuality:   c.rateFields(a),
		LastUpdated:   lastUpdated,
		DataFreshness: c.freshness(lastUpdated),
	}, nil
}

// rateFields grades the volume-sensitive fields.
func (c *CompletenessAssessor) rateFields(a *author.Author) []FieldQuality {
	ratings := []FieldQuality{
		{Field: "publicationCount", Quality: volumeQuality(a.PublicationCount, 5, 20)},
		{Field: "meshTerms", Quality: volumeQuality(len(a.MeshTerms), 2, 8)},
		{Field: "researchAreas", Quality: volumeQuality(len(a.ResearchAreas), 1, 3)},
		{Field: "affiliations", Quality: volumeQuality(len(a.Affiliations), 1, 2)},
	}
	return ratings
}

// volumeQuality scales a count into low/medium/high against two thresholds.
func volumeQuality(count, mediumAt, highAt int) Quality {
	switch {
	case count >= highAt:
		return QualityHigh
	case count >= mediumAt:
		return QualityMedium
	default:
		return QualityLow
	}
}

// freshness maps record age linearly onto [0,1], bottoming out at the
// freshness horizon.
func (c *CompletenessAssessor) freshness(lastUpdated time.Time) float64 {
	age := c.now().Sub(lastUpdated)
	if age <= 0 {
		return 1.0
	}
	if age >= freshnessHorizon {
		return 0.0
	}
	return 1.0 - float64(age)/float64(freshnessHorizon)
}
