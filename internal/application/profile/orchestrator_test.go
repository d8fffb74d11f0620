package profile

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarfinder/engine/internal/domain/author"
	"github.com/scholarfinder/engine/pkg/types/common"
)

type mockEnricher struct {
	profile *author.Author
	err     error
	calls   int
}

func (m *mockEnricher) GetAuthorProfile(_ context.Context, _ common.ID) (*author.Author, error) {
	m.calls++
	return m.profile, m.err
}

func testAuthor() *author.Author {
	return &author.Author{
		ID:               "a-1",
		Name:             "Jane Smith",
		Email:            "jane@example.org",
		Affiliations:     []author.Affiliation{{InstitutionName: "MIT"}},
		PublicationCount: 30,
		ResearchAreas:    []string{"oncology", "genetics"},
		MeshTerms:        []string{"Neoplasms", "Genomics"},
	}
}

func TestGetDetailedProfileRequiresAuthor(t *testing.T) {
	o := NewDefaultOrchestrator(nil, nil, nil, nil)
	_, err := o.GetDetailedProfile(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestGetDetailedProfileAllSections(t *testing.T) {
	o := NewDefaultOrchestrator(nil, nil, nil, nil)
	opts := DefaultProfileOptions()
	opts.ManuscriptAuthors = []author.Author{netAuthor("m-1", "Jane Smith", "")}

	p, err := o.GetDetailedProfile(context.Background(), testAuthor(), opts)
	require.NoError(t, err)

	assert.Equal(t, common.ID("a-1"), p.Author.ID)
	require.NotNil(t, p.ResearchProfile)
	assert.Equal(t, []string{"oncology", "genetics"}, p.ResearchProfile.PrimaryResearchAreas)
	require.NotNil(t, p.NetworkAnalysis)
	require.NotNil(t, p.PublicationHistory)
	assert.Equal(t, 30, p.PublicationHistory.TotalPublications)
	require.NotNil(t, p.ProfileCompleteness)
	require.Len(t, p.ConflictIndicators, 1) // name match with m-1
}

func TestGetDetailedProfileSectionsDisabled(t *testing.T) {
	o := NewDefaultOrchestrator(nil, nil, nil, nil)
	opts := &ProfileOptions{TimeframeYears: 10}

	p, err := o.GetDetailedProfile(context.Background(), testAuthor(), opts)
	require.NoError(t, err)

	// Disabled sections come back empty but well formed, never nil.
	require.NotNil(t, p.NetworkAnalysis)
	assert.Equal(t, 0, p.NetworkAnalysis.NetworkMetrics.TotalCoAuthors)
	require.NotNil(t, p.PublicationHistory)
	assert.Equal(t, 0, p.PublicationHistory.TotalPublications)
	assert.Empty(t, p.PublicationHistory.PublicationsByYear)
	require.NotNil(t, p.ConflictIndicators)
	assert.Empty(t, p.ConflictIndicators)

	// Research profile and completeness are always built.
	require.NotNil(t, p.ResearchProfile)
	require.NotNil(t, p.ProfileCompleteness)
}

func TestConflictDetectionNeedsManuscriptAuthors(t *testing.T) {
	o := NewDefaultOrchestrator(nil, nil, nil, nil)
	opts := DefaultProfileOptions() // conflicts enabled but no manuscript authors

	p, err := o.GetDetailedProfile(context.Background(), testAuthor(), opts)
	require.NoError(t, err)
	assert.Empty(t, p.ConflictIndicators)
}

func TestEnrichmentRefreshesAuthor(t *testing.T) {
	refreshed := testAuthor()
	refreshed.PublicationCount = 99
	enricher := &mockEnricher{profile: refreshed}

	o := NewDefaultOrchestrator(nil, enricher, nil, nil)
	p, err := o.GetDetailedProfile(context.Background(), testAuthor(), DefaultProfileOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, enricher.calls)
	assert.Equal(t, 99, p.Author.PublicationCount)
	assert.Equal(t, 99, p.PublicationHistory.TotalPublications)
}

func TestEnrichmentFailureDegradesGracefully(t *testing.T) {
	enricher := &mockEnricher{err: fmt.Errorf("upstream timeout")}

	o := NewDefaultOrchestrator(nil, enricher, nil, nil)
	p, err := o.GetDetailedProfile(context.Background(), testAuthor(), DefaultProfileOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, enricher.calls)
	assert.Equal(t, 30, p.Author.PublicationCount, "falls back to the supplied record")
}

func TestBatchEntryPoints(t *testing.T) {
	o := NewDefaultOrchestrator(nil, nil, nil, nil)
	authors := []author.Author{*testAuthor(), netAuthor("a-2", "John Doe", "Oxford")}

	networks, err := o.AnalyzeNetworks(context.Background(), authors)
	require.NoError(t, err)
	assert.Len(t, networks, 2)

	conflicts, err := o.DetectConflicts(context.Background(), authors, []author.Author{netAuthor("m-1", "Jane Smith", "")}, nil)
	require.NoError(t, err)
	assert.Len(t, conflicts, 2)
	assert.NotEmpty(t, conflicts["a-1"])
}
