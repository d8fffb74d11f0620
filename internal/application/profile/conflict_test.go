package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarfinder/engine/internal/domain/author"
)

func TestDetectForOneRequiresCandidate(t *testing.T) {
	_, err := NewConflictDetector(nil).DetectForOne(nil, nil, nil)
	assert.Error(t, err)
}

func TestDetectNameMatchIsHighConfidence(t *testing.T) {
	cand := netAuthor("c-1", "Jane Smith", "")
	ms := []author.Author{netAuthor("m-1", "jane smith", "")}

	indicators, err := NewConflictDetector(nil).DetectForOne(&cand, ms, nil)
	require.NoError(t, err)

	require.Len(t, indicators, 1)
	assert.Equal(t, ConflictCoAuthorship, indicators[0].Type)
	assert.Equal(t, SeverityHigh, indicators[0].Severity)
	assert.Equal(t, 1.0, indicators[0].Confidence)
}

func TestDetectEmailMatch(t *testing.T) {
	cand := netAuthor("c-1", "J. Smith", "")
	cand.Email = "JSMITH@example.org"
	ms := netAuthor("m-1", "Jane Smith", "")
	ms.Email = "jsmith@example.org"

	indicators, err := NewConflictDetector(nil).DetectForOne(&cand, []author.Author{ms}, nil)
	require.NoError(t, err)

	require.Len(t, indicators, 1)
	assert.Equal(t, ConflictCoAuthorship, indicators[0].Type)
	assert.Equal(t, 1.0, indicators[0].Confidence)
}

func TestDetectMissingEmailSkipsCheck(t *testing.T) {
	cand := netAuthor("c-1", "J. Smith", "")
	ms := netAuthor("m-1", "Jane Smith", "")
	ms.Email = "jsmith@example.org"

	indicators, err := NewConflictDetector(nil).DetectForOne(&cand, []author.Author{ms}, nil)
	require.NoError(t, err)
	assert.Empty(t, indicators)
	assert.NotNil(t, indicators, "no conflicts must still be an empty slice")
}

func TestDetectInstitutionalConflict(t *testing.T) {
	cand := netAuthor("c-1", "J. Smith", "Stanford University")

	t.Run("from manuscript author affiliation", func(t *testing.T) {
		ms := netAuthor("m-1", "Jane Doe", "stanford university")
		indicators, err := NewConflictDetector(nil).DetectForOne(&cand, []author.Author{ms}, nil)
		require.NoError(t, err)
		require.Len(t, indicators, 1)
		assert.Equal(t, ConflictInstitutional, indicators[0].Type)
		assert.Equal(t, SeverityMedium, indicators[0].Severity)
	})

	t.Run("from explicit affiliation list", func(t *testing.T) {
		indicators, err := NewConflictDetector(nil).DetectForOne(&cand, nil, []string{" Stanford University "})
		require.NoError(t, err)
		require.Len(t, indicators, 1)
		assert.Equal(t, ConflictInstitutional, indicators[0].Type)
	})
}

func TestDetectMultipleIndicators(t *testing.T) {
	cand := netAuthor("c-1", "Jane Smith", "MIT")
	ms := netAuthor("m-1", "Jane Smith", "MIT")

	indicators, err := NewConflictDetector(nil).DetectForOne(&cand, []author.Author{ms}, nil)
	require.NoError(t, err)
	assert.Len(t, indicators, 2)
}

func TestDetectForManyKeysEveryCandidate(t *testing.T) {
	candidates := []author.Author{
		netAuthor("c-1", "Jane Smith", "MIT"),
		netAuthor("c-2", "John Doe", "Oxford"),
	}
	ms := []author.Author{netAuthor("m-1", "Jane Smith", "")}

	out, err := NewConflictDetector(nil).DetectForMany(context.Background(), candidates, ms, nil)
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Len(t, out["c-1"], 1)
	require.NotNil(t, out["c-2"])
	assert.Empty(t, out["c-2"])
}
