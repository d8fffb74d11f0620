package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarfinder/engine/internal/domain/author"
)

func fixedSynthesizer() *PublicationSynthesizer {
	s := NewPublicationSynthesizer(nil)
	s.now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestPublicationHistoryRequiresAuthor(t *testing.T) {
	_, err := fixedSynthesizer().Build(nil, 10)
	assert.Error(t, err)
}

func TestYearBucketCount(t *testing.T) {
	a := &author.Author{ID: "a-1", Name: "Jane Smith", PublicationCount: 42}
	for _, years := range []int{1, 5, 10} {
		h, err := fixedSynthesizer().Build(a, years)
		require.NoError(t, err)
		assert.Lenf(t, h.PublicationsByYear, years+1, "timeframe %d", years)
		assert.Equal(t, 2026, h.PublicationsByYear[years].Year)
		assert.Equal(t, 2026-years, h.PublicationsByYear[0].Year)
	}
}

func TestYearBucketsBounded(t *testing.T) {
	a := &author.Author{ID: "a-1", Name: "Jane Smith", PublicationCount: 42}
	h, err := fixedSynthesizer().Build(a, 10)
	require.NoError(t, err)

	sum := 0
	for _, b := range h.PublicationsByYear {
		assert.GreaterOrEqual(t, b.Count, 0)
		sum += b.Count
	}
	assert.LessOrEqual(t, sum, 2*a.PublicationCount)
}

func TestCitationMetricsInvariants(t *testing.T) {
	for _, count := range []int{0, 1, 7, 120} {
		a := &author.Author{ID: "a-1", Name: "Jane Smith", PublicationCount: count}
		h, err := fixedSynthesizer().Build(a, 10)
		require.NoError(t, err)

		m := h.CitationMetrics
		assert.Greater(t, m.TotalCitations, 0)
		assert.LessOrEqual(t, m.HIndex, count)
		assert.GreaterOrEqual(t, m.I10Index, 0)
		assert.Greater(t, m.AverageCitationsPerPaper, 0.0)
		assert.Contains(t, []Trend{TrendIncreasing, TrendStable, TrendDecreasing}, m.RecentCitationTrend)
	}
}

func TestJournalDistributionShape(t *testing.T) {
	a := &author.Author{ID: "a-1", Name: "Jane Smith", PublicationCount: 30}
	h, err := fixedSynthesizer().Build(a, 10)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(h.JournalDistribution), 1)
	require.LessOrEqual(t, len(h.JournalDistribution), 5)
	for _, j := range h.JournalDistribution {
		assert.Greater(t, j.PublicationCount, 0)
		assert.Greater(t, j.ImpactFactor, 0.0)
		assert.Contains(t, []string{"Q1", "Q2", "Q3"}, j.Quartile)
		assert.Greater(t, j.FieldRelevance, 0.0)
		assert.LessOrEqual(t, j.FieldRelevance, 1.0)
	}
}

func TestRecentTrendsWellFormed(t *testing.T) {
	a := &author.Author{ID: "a-1", Name: "Jane Smith", PublicationCount: 30}
	h, err := fixedSynthesizer().Build(a, 5)
	require.NoError(t, err)

	for _, tr := range h.RecentTrends {
		assert.Greater(t, tr.Confidence, 0.0)
		assert.LessOrEqual(t, tr.Confidence, 1.0)
		assert.NotEmpty(t, tr.Timeframe)
	}
}

func TestHistoryDeterministicPerAuthor(t *testing.T) {
	a := &author.Author{ID: "a-1", Name: "Jane Smith", PublicationCount: 30}
	h1, err := fixedSynthesizer().Build(a, 10)
	require.NoError(t, err)
	h2, err := fixedSynthesizer().Build(a, 10)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}
