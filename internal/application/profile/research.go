package profile

import (
	"math"
	"strings"

	"github.com/scholarfinder/engine/internal/domain/author"
	"github.com/scholarfinder/engine/internal/infrastructure/monitoring/logging"
	"github.com/scholarfinder/engine/pkg/errors"
)

// ---------------------------------------------------------------------------
// MeSH categorization table
// ---------------------------------------------------------------------------

// meshCategoryRule maps keyword fragments to a category. Rules are evaluated
// in order and the first match wins, so more specific fragments come first.
type meshCategoryRule struct {
	Category MeshCategory
	Keywords []string
}

// meshCategoryRules is the default categorization table. Terms matching none
// of the fragments fall through to CategoryGeneral.
var meshCategoryRules = []meshCategoryRule{
	{CategoryDiseases, []string{
		"disease", "disorder", "syndrome", "cancer", "carcinoma", "tumor",
		"neoplasm", "infection", "inflammation", "pathology", "lesion",
	}},
	{CategoryTherapeutics, []string{
		"therapy", "therapeutic", "treatment", "surgery", "surgical",
		"intervention", "rehabilitation", "transplant", "radiotherapy",
	}},
	{CategoryChemicals, []string{
		"drug", "pharmaceutical", "pharmacology", "compound", "inhibitor",
		"antibody", "antigen", "protein", "enzyme", "chemical",
	}},
	{CategoryAnatomy, []string{
		"anatomy", "anatomical", "tissue", "organ", "cell", "membrane",
		"vascular", "neural", "muscle", "bone", "cardiac",
	}},
}

// categorizeMeshTerm assigns a term to exactly one category by case-insensitive
// keyword containment.
func categorizeMeshTerm(term string) MeshCategory {
	lower := strings.ToLower(term)
	for _, rule := range meshCategoryRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category
			}
		}
	}
	return CategoryGeneral
}

// ---------------------------------------------------------------------------
// Research profile builder
// ---------------------------------------------------------------------------

const (
	maxPrimaryAreas     = 3
	maxResearchKeywords = 20
)

// ResearchProfileBuilder derives a ResearchProfile from an author record.
type ResearchProfileBuilder struct {
	logger logging.Logger
}

// NewResearchProfileBuilder constructs a builder. A nil logger falls back to
// the no-op logger.
func NewResearchProfileBuilder(logger logging.Logger) *ResearchProfileBuilder {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ResearchProfileBuilder{logger: logger.Named("research_profile")}
}

// Build derives the research profile for the given author. The author is the
// one required input of the profile pipeline; a nil author is a hard error.
func (b *ResearchProfileBuilder) Build(a *author.Author) (*ResearchProfile, error) {
	if a == nil {
		return nil, errors.New(errors.ErrCodeAuthorRequired, "author is required to build a research profile")
	}

	primary := a.ResearchAreas
	if len(primary) > maxPrimaryAreas {
		primary = primary[:maxPrimaryAreas]
	}
	primaryAreas := make([]string, len(primary))
	copy(primaryAreas, primary)

	meshTerms := make([]CategorizedMeshTerm, 0, len(a.MeshTerms))
	for _, term := range a.MeshTerms {
		meshTerms = append(meshTerms, CategorizedMeshTerm{
			Term:     term,
			Category: categorizeMeshTerm(term),
		})
	}

	return &ResearchProfile{
		PrimaryResearchAreas: primaryAreas,
		MeshTerms:            meshTerms,
		ExpertiseDomains:     b.deriveExpertiseDomains(primaryAreas, a.PublicationCount),
		ResearchKeywords:     extractKeywords(a.ResearchAreas, a.MeshTerms),
	}, nil
}

// deriveExpertiseDomains allocates the author's publication count across the
// primary research areas with a front-loaded split, so the first-listed area
// always receives the largest share.
func (b *ResearchProfileBuilder) deriveExpertiseDomains(areas []string, publicationCount int) []ExpertiseDomain {
	domains := make([]ExpertiseDomain, 0, len(areas))
	if len(areas) == 0 {
		return domains
	}

	// Shares sum to 1.0 for each possible area count.
	shares := [][]float64{
		{1.0},
		{0.6, 0.4},
		{0.5, 0.3, 0.2},
	}[len(areas)-1]

	// Confidence grows with volume and saturates at 1.0; a profile with no
	// recorded publications still gets a small positive floor.
	confidence := math.Min(1.0, 0.3+0.1*math.Log1p(float64(publicationCount)))

	for i, area := range areas {
		allocated := int(math.Ceil(float64(publicationCount) * shares[i]))
		if publicationCount > 0 && allocated == 0 {
			allocated = 1
		}
		domains = append(domains, ExpertiseDomain{
			Domain:           area,
			Confidence:       confidence,
			PublicationCount: allocated,
			RecentActivity:   allocated > 0,
		})
	}
	return domains
}

// extractKeywords tokenizes research areas and MeSH terms into a deduplicated,
// lower-cased keyword list capped at maxResearchKeywords.
func extractKeywords(areas, meshTerms []string) []string {
	seen := make(map[string]struct{})
	keywords := make([]string, 0, maxResearchKeywords)

	add := func(source []string) {
		for _, entry := range source {
			for _, token := range strings.Fields(strings.ToLower(entry)) {
				token = strings.Trim(token, ".,;:()[]")
				if token == "" {
					continue
				}
				if _, ok := seen[token]; ok {
					continue
				}
				if len(keywords) >= maxResearchKeywords {
					return
				}
				seen[token] = struct{}{}
				keywords = append(keywords, token)
			}
		}
	}

	add(areas)
	add(meshTerms)
	return keywords
}
