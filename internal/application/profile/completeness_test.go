package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarfinder/engine/internal/domain/author"
)

func fixedAssessor() *CompletenessAssessor {
	c := NewCompletenessAssessor(nil)
	c.now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }
	return c
}

func TestAssessRequiresAuthor(t *testing.T) {
	_, err := fixedAssessor().Assess(nil, time.Time{})
	assert.Error(t, err)
}

func TestAssessFullRecord(t *testing.T) {
	a := &author.Author{
		ID:               "a-1",
		Name:             "Jane Smith",
		Email:            "jane@example.org",
		Affiliations:     []author.Affiliation{{InstitutionName: "MIT"}, {InstitutionName: "Broad"}},
		PublicationCount: 40,
		ResearchAreas:    []string{"oncology", "genetics", "immunology"},
		MeshTerms:        []string{"Neoplasms", "Genomics", "T-Lymphocytes", "Mutation", "Exome", "Immunity", "Antibodies", "Cytokines"},
	}
	pc, err := fixedAssessor().Assess(a, time.Time{})
	require.NoError(t, err)

	assert.Empty(t, pc.MissingFields)
	assert.Equal(t, 1.0, pc.OverallScore)
	for _, q := range pc.DataQuality {
		assert.Equalf(t, QualityHigh, q.Quality, "field %s", q.Field)
	}
	assert.Equal(t, 1.0, pc.DataFreshness)
}

func TestAssessSparseRecord(t *testing.T) {
	a := &author.Author{ID: "a-1", Name: "Jane Smith"}
	pc, err := fixedAssessor().Assess(a, time.Time{})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"email", "affiliations", "researchAreas", "meshTerms"}, pc.MissingFields)
	assert.LessOrEqual(t, pc.OverallScore, 0.5)
	assert.GreaterOrEqual(t, pc.OverallScore, 0.0)
}

func TestSingleMeshTermIsLowQuality(t *testing.T) {
	a := &author.Author{ID: "a-1", Name: "Jane Smith", MeshTerms: []string{"Neoplasms"}}
	pc, err := fixedAssessor().Assess(a, time.Time{})
	require.NoError(t, err)

	for _, q := range pc.DataQuality {
		if q.Field == "meshTerms" {
			assert.Equal(t, QualityLow, q.Quality)
		}
	}
}

func TestZeroPublicationsIsLowQuality(t *testing.T) {
	a := &author.Author{ID: "a-1", Name: "Jane Smith"}
	pc, err := fixedAssessor().Assess(a, time.Time{})
	require.NoError(t, err)

	for _, q := range pc.DataQuality {
		if q.Field == "publicationCount" {
			assert.Equal(t, QualityLow, q.Quality)
		}
	}
}

func TestFreshnessDecaysWithAge(t *testing.T) {
	c := fixedAssessor()
	a := &author.Author{ID: "a-1", Name: "Jane Smith"}

	recent, err := c.Assess(a, c.now().Add(-24*time.Hour))
	require.NoError(t, err)
	stale, err := c.Assess(a, c.now().Add(-3*365*24*time.Hour))
	require.NoError(t, err)

	assert.Greater(t, recent.DataFreshness, stale.DataFreshness)
	assert.Equal(t, 0.0, stale.DataFreshness)
	assert.Equal(t, c.now().Add(-24*time.Hour), recent.LastUpdated)
}
