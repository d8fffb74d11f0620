package profile

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/scholarfinder/engine/internal/domain/author"
	"github.com/scholarfinder/engine/internal/infrastructure/monitoring/logging"
	"github.com/scholarfinder/engine/pkg/errors"
	"github.com/scholarfinder/engine/pkg/types/common"
)

// ConflictDetector scans reviewer candidates for conflict-of-interest signals
// against the manuscript's authors and institutions.
type ConflictDetector struct {
	logger      logging.Logger
	concurrency int
}

// NewConflictDetector constructs a detector. A nil logger falls back to the
// no-op logger.
func NewConflictDetector(logger logging.Logger) *ConflictDetector {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ConflictDetector{
		logger:      logger.Named("conflict_detector"),
		concurrency: defaultBatchConcurrency,
	}
}

// DetectForOne scans one candidate. Missing fields on either side skip the
// corresponding check; the result is always a non-nil slice.
func (d *ConflictDetector) DetectForOne(candidate *author.Author, manuscriptAuthors []author.Author, institutionalAffiliations []string) ([]ConflictIndicator, error) {
	if candidate == nil {
		return nil, errors.New(errors.ErrCodeAuthorRequired, "candidate author is required for conflict detection")
	}

	indicators := []ConflictIndicator{}

	for i := range manuscriptAuthors {
		ms := &manuscriptAuthors[i]
		candName := strings.TrimSpace(candidate.Name)
		msName := strings.TrimSpace(ms.Name)
		if msName != "" && strings.EqualFold(candName, msName) {
			indicators = append(indicators, ConflictIndicator{
				Type:        ConflictCoAuthorship,
				Severity:    SeverityHigh,
				Confidence:  1.0,
				Description: fmt.Sprintf("candidate name matches manuscript author %q", ms.Name),
			})
			continue
		}
		if candidate.HasEmail() && ms.HasEmail() && candidate.NormalizedEmail() == ms.NormalizedEmail() {
			indicators = append(indicators, ConflictIndicator{
				Type:        ConflictCoAuthorship,
				Severity:    SeverityHigh,
				Confidence:  1.0,
				Description: fmt.Sprintf("candidate email matches manuscript author %q", ms.Name),
			})
		}
	}

	conflicted := manuscriptInstitutions(manuscriptAuthors, institutionalAffiliations)
	for inst := range candidate.InstitutionSet() {
		if _, ok := conflicted[inst]; ok {
			indicators = append(indicators, ConflictIndicator{
				Type:        ConflictInstitutional,
				Severity:    SeverityMedium,
				Confidence:  0.8,
				Description: fmt.Sprintf("candidate shares institution %q with the manuscript", inst),
			})
		}
	}

	return indicators, nil
}

// DetectForMany scans each candidate independently. A failure on one
// candidate is logged and yields an empty indicator list for that candidate;
// the batch always completes for the candidates it reached. Cancelling the
// context abandons the remaining candidates.
func (d *ConflictDetector) DetectForMany(ctx context.Context, candidates []author.Author, manuscriptAuthors []author.Author, institutionalAffiliations []string) (map[common.ID][]ConflictIndicator, error) {
	results := make([][]ConflictIndicator, len(candidates))

	sem := make(chan struct{}, d.concurrency)
	var wg sync.WaitGroup

	for i := range candidates {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			indicators, err := d.DetectForOne(&candidates[idx], manuscriptAuthors, institutionalAffiliations)
			if err != nil {
				d.logger.Warn("conflict detection failed for candidate in batch",
					logging.String("candidate_id", candidates[idx].ID.String()),
					logging.Err(err))
				indicators = []ConflictIndicator{}
			}
			results[idx] = indicators
		}(i)
	}
	wg.Wait()

	out := make(map[common.ID][]ConflictIndicator, len(candidates))
	for i, c := range candidates {
		if results[i] == nil {
			results[i] = []ConflictIndicator{}
		}
		out[c.ID] = results[i]
	}
	return out, nil
}

// manuscriptInstitutions collects the normalized institution names the
// manuscript is associated with, from both its authors and any explicitly
// supplied affiliations.
func manuscriptInstitutions(manuscriptAuthors []author.Author, extra []string) map[string]struct{} {
	set := make(map[string]struct{})
	for i := range manuscriptAuthors {
		for inst := range manuscriptAuthors[i].InstitutionSet() {
			set[inst] = struct{}{}
		}
	}
	for _, name := range extra {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized != "" {
			set[normalized] = struct{}{}
		}
	}
	return set
}
