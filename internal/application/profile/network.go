package profile

import (
	"context"
	"fmt"
	"sync"

	"github.com/scholarfinder/engine/internal/domain/author"
	"github.com/scholarfinder/engine/internal/infrastructure/monitoring/logging"
	"github.com/scholarfinder/engine/pkg/errors"
	"github.com/scholarfinder/engine/pkg/types/common"
)

// defaultBatchConcurrency bounds the worker pool used by batch analysis.
const defaultBatchConcurrency = 10

// CoAuthorGraph resolves explicit co-authorship edges from the collaboration
// graph. Implementations live in the infrastructure layer; a nil graph means
// the analyzer relies on overlap heuristics alone.
type CoAuthorGraph interface {
	// CoAuthorsOf returns the ids of authors with a recorded co-authorship
	// edge to the given author.
	CoAuthorsOf(ctx context.Context, id common.ID) ([]common.ID, error)
}

// NetworkAnalyzer derives an author's collaboration neighborhood from overlap
// signals against a set of context authors, optionally corroborated by the
// co-authorship graph.
type NetworkAnalyzer struct {
	graph       CoAuthorGraph
	logger      logging.Logger
	concurrency int
}

// NewNetworkAnalyzer constructs an analyzer. graph may be nil; a nil logger
// falls back to the no-op logger.
func NewNetworkAnalyzer(graph CoAuthorGraph, logger logging.Logger) *NetworkAnalyzer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &NetworkAnalyzer{
		graph:       graph,
		logger:      logger.Named("network_analyzer"),
		concurrency: defaultBatchConcurrency,
	}
}

// AnalyzeOne builds the network analysis for one author against the given
// context authors. An author with no overlap signal yields an empty analysis,
// never an error.
func (n *NetworkAnalyzer) AnalyzeOne(ctx context.Context, a *author.Author, contextAuthors []author.Author) (*NetworkAnalysis, error) {
	if a == nil {
		return nil, errors.New(errors.ErrCodeAuthorRequired, "author is required for network analysis")
	}

	explicit := n.explicitCoAuthorIDs(ctx, a)

	analysis := EmptyNetworkAnalysis()
	institutions := make(map[string]struct{})
	sharedInstitutions := 0
	sharedAreas := 0
	international := 0

	for _, other := range contextAuthors {
		if a.SameIdentity(&other) {
			continue
		}
		_, hasEdge := explicit[other.ID]
		sharesInst := a.SharesInstitution(&other)
		sharesArea := a.SharesResearchArea(&other)
		if !hasEdge && !sharesInst && !sharesArea {
			continue
		}

		analysis.CoAuthors = append(analysis.CoAuthors, other)
		if sharesInst {
			sharedInstitutions++
			for inst := range other.InstitutionSet() {
				institutions[inst] = struct{}{}
			}
		}
		if sharesArea {
			sharedAreas++
		}
		if differentCountry(a, &other) {
			international++
		}
	}

	for inst := range institutions {
		analysis.InstitutionalConnections = append(analysis.InstitutionalConnections, inst)
	}
	analysis.CollaborationPatterns = describePatterns(sharedInstitutions, sharedAreas, international)
	analysis.NetworkMetrics = NetworkMetrics{
		TotalCoAuthors:        len(analysis.CoAuthors),
		SharedInstitutions:    sharedInstitutions,
		SharedResearchAreas:   sharedAreas,
		CollaborationDensity:  density(len(analysis.CoAuthors), len(contextAuthors)),
		InternationalPartners: international,
	}
	return analysis, nil
}

// AnalyzeMany analyzes each author independently against the rest of the
// batch. A failure on one author is logged and yields an empty analysis for
// that author; it never aborts the batch. Cancelling the context abandons
// the remaining authors; entries already computed stay valid.
func (n *NetworkAnalyzer) AnalyzeMany(ctx context.Context, authors []author.Author) (map[common.ID]*NetworkAnalysis, error) {
	results := make([]*NetworkAnalysis, len(authors))

	sem := make(chan struct{}, n.concurrency)
	var wg sync.WaitGroup

	for i := range authors {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			analysis, err := n.AnalyzeOne(ctx, &authors[idx], authors)
			if err != nil {
				n.logger.Warn("network analysis failed for author in batch",
					logging.String("author_id", authors[idx].ID.String()),
					logging.Err(err))
				analysis = EmptyNetworkAnalysis()
			}
			results[idx] = analysis
		}(i)
	}
	wg.Wait()

	out := make(map[common.ID]*NetworkAnalysis, len(authors))
	for i, a := range authors {
		if results[i] == nil {
			// Abandoned before scheduling; still return a valid entry.
			results[i] = EmptyNetworkAnalysis()
		}
		out[a.ID] = results[i]
	}
	return out, nil
}

// explicitCoAuthorIDs consults the collaboration graph; a graph error is
// logged and degrades to the heuristic-only path.
func (n *NetworkAnalyzer) explicitCoAuthorIDs(ctx context.Context, a *author.Author) map[common.ID]struct{} {
	if n.graph == nil {
		return nil
	}
	ids, err := n.graph.CoAuthorsOf(ctx, a.ID)
	if err != nil {
		n.logger.Warn("co-authorship graph lookup failed, using overlap heuristics only",
			logging.String("author_id", a.ID.String()),
			logging.Err(err))
		return nil
	}
	set := make(map[common.ID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func differentCountry(a, b *author.Author) bool {
	countryOf := func(x *author.Author) string {
		for _, aff := range x.Affiliations {
			if aff.Country != "" {
				return aff.Country
			}
		}
		return ""
	}
	ca, cb := countryOf(a), countryOf(b)
	return ca != "" && cb != "" && ca != cb
}

func density(coAuthors, poolSize int) float64 {
	if poolSize <= 1 {
		return 0
	}
	return float64(coAuthors) / float64(poolSize-1)
}

func describePatterns(sharedInstitutions, sharedAreas, international int) []string {
	patterns := []string{}
	if sharedInstitutions > 0 {
		patterns = append(patterns, fmt.Sprintf("%d intra-institutional collaborations", sharedInstitutions))
	}
	if sharedAreas > 0 {
		patterns = append(patterns, fmt.Sprintf("%d same-field collaborations", sharedAreas))
	}
	if international > 0 {
		patterns = append(patterns, fmt.Sprintf("%d international collaborations", international))
	}
	return patterns
}
