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

type mockGraph struct {
	edges map[common.ID][]common.ID
	err   error
}

func (m *mockGraph) CoAuthorsOf(_ context.Context, id common.ID) ([]common.ID, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.edges[id], nil
}

func netAuthor(id, name, institution string, areas ...string) author.Author {
	a := author.Author{ID: common.ID(id), Name: name, ResearchAreas: areas}
	if institution != "" {
		a.Affiliations = []author.Affiliation{{InstitutionName: institution}}
	}
	return a
}

func TestAnalyzeOneRequiresAuthor(t *testing.T) {
	_, err := NewNetworkAnalyzer(nil, nil).AnalyzeOne(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestAnalyzeOneNoSignalIsEmpty(t *testing.T) {
	subject := netAuthor("a-1", "Jane Smith", "MIT", "oncology")
	pool := []author.Author{netAuthor("a-2", "John Doe", "Oxford", "linguistics")}

	analysis, err := NewNetworkAnalyzer(nil, nil).AnalyzeOne(context.Background(), &subject, pool)
	require.NoError(t, err)

	assert.Empty(t, analysis.CoAuthors)
	assert.Equal(t, 0, analysis.NetworkMetrics.TotalCoAuthors)
	assert.NotNil(t, analysis.CollaborationPatterns)
	assert.NotNil(t, analysis.InstitutionalConnections)
}

func TestAnalyzeOneOverlapSignals(t *testing.T) {
	subject := netAuthor("a-1", "Jane Smith", "MIT", "oncology")
	pool := []author.Author{
		netAuthor("a-2", "Shared Inst", "mit"),                // institution, case-insensitive
		netAuthor("a-3", "Shared Area", "Oxford", "Oncology"), // research area
		netAuthor("a-4", "No Overlap", "Yale", "history"),
	}

	analysis, err := NewNetworkAnalyzer(nil, nil).AnalyzeOne(context.Background(), &subject, pool)
	require.NoError(t, err)

	assert.Equal(t, 2, analysis.NetworkMetrics.TotalCoAuthors)
	assert.Equal(t, 1, analysis.NetworkMetrics.SharedInstitutions)
	assert.Equal(t, 1, analysis.NetworkMetrics.SharedResearchAreas)
}

func TestAnalyzeOneExplicitGraphEdge(t *testing.T) {
	subject := netAuthor("a-1", "Jane Smith", "MIT")
	other := netAuthor("a-2", "John Doe", "Oxford") // no heuristic overlap
	graph := &mockGraph{edges: map[common.ID][]common.ID{"a-1": {"a-2"}}}

	analysis, err := NewNetworkAnalyzer(graph, nil).AnalyzeOne(context.Background(), &subject, []author.Author{other})
	require.NoError(t, err)
	assert.Equal(t, 1, analysis.NetworkMetrics.TotalCoAuthors)
}

func TestAnalyzeOneGraphErrorDegrades(t *testing.T) {
	subject := netAuthor("a-1", "Jane Smith", "MIT", "oncology")
	other := netAuthor("a-2", "John Doe", "MIT")
	graph := &mockGraph{err: fmt.Errorf("neo4j down")}

	analysis, err := NewNetworkAnalyzer(graph, nil).AnalyzeOne(context.Background(), &subject, []author.Author{other})
	require.NoError(t, err)
	// The heuristic still sees the shared institution.
	assert.Equal(t, 1, analysis.NetworkMetrics.TotalCoAuthors)
}

func TestAnalyzeOneExcludesSelf(t *testing.T) {
	subject := netAuthor("a-1", "Jane Smith", "MIT", "oncology")

	analysis, err := NewNetworkAnalyzer(nil, nil).AnalyzeOne(context.Background(), &subject, []author.Author{subject})
	require.NoError(t, err)
	assert.Empty(t, analysis.CoAuthors)
}

func TestAnalyzeManyCoversEveryAuthor(t *testing.T) {
	authors := []author.Author{
		netAuthor("a-1", "A", "MIT", "oncology"),
		netAuthor("a-2", "B", "MIT"),
		netAuthor("a-3", "C", "Oxford", "history"),
	}

	out, err := NewNetworkAnalyzer(nil, nil).AnalyzeMany(context.Background(), authors)
	require.NoError(t, err)

	require.Len(t, out, 3)
	for _, a := range authors {
		require.NotNilf(t, out[a.ID], "missing entry for %s", a.ID)
	}
	assert.Equal(t, 1, out["a-1"].NetworkMetrics.TotalCoAuthors)
	assert.Equal(t, 0, out["a-3"].NetworkMetrics.TotalCoAuthors)
}

func TestAnalyzeManyCancelledContextStillReturnsEntries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	authors := []author.Author{netAuthor("a-1", "A", "MIT"), netAuthor("a-2", "B", "MIT")}
	out, err := NewNetworkAnalyzer(nil, nil).AnalyzeMany(ctx, authors)
	require.NoError(t, err)

	// Abandoned authors still get an empty-but-valid entry.
	require.Len(t, out, 2)
	for _, analysis := range out {
		assert.NotNil(t, analysis.CoAuthors)
	}
}
