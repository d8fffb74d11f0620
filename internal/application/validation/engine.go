// Package validation implements the reviewer exclusion rule engine: the
// multi-criteria filter that decides which candidates from a pool may serve as
// peer reviewers for a manuscript, with independent per-rule diagnostics.
package validation

import (
	"context"
	"time"

	"github.com/scholarfinder/engine/internal/domain/author"
	"github.com/scholarfinder/engine/internal/infrastructure/monitoring/logging"
	"github.com/scholarfinder/engine/pkg/errors"
	"github.com/scholarfinder/engine/pkg/types/common"
)

// ---------------------------------------------------------------------------
// Rule identifiers
// ---------------------------------------------------------------------------

// StepName identifies one exclusion rule in the validation funnel report.
type StepName string

const (
	StepManuscriptAuthors      StepName = "manuscript_authors"
	StepCoAuthors              StepName = "co_authors"
	StepMinimumPublications    StepName = "minimum_publications"
	StepMaxRetractions         StepName = "max_retractions"
	StepInstitutionalConflicts StepName = "institutional_conflicts"
)

// ---------------------------------------------------------------------------
// Rules configuration
// ---------------------------------------------------------------------------

// Rules is the per-call exclusion configuration.  A Rules value is supplied
// fresh on every Validate call and treated as immutable for its duration.
type Rules struct {
	// ExcludeManuscriptAuthors removes candidates whose identity matches a
	// manuscript author (by id, name, or email).
	ExcludeManuscriptAuthors bool `json:"exclude_manuscript_authors"`

	// ExcludeCoAuthors removes candidates with a prior co-authorship signal
	// against any manuscript author.  Absent an explicit co-authorship edge,
	// shared research areas or shared affiliations are used as a heuristic
	// approximation; the rule is no stronger than those signals.
	ExcludeCoAuthors bool `json:"exclude_co_authors"`

	// MinimumPublications removes candidates with fewer publications than the
	// threshold.  Zero disables the threshold (every candidate passes).
	MinimumPublications int `json:"minimum_publications"`

	// MaxRetractions removes candidates with strictly more retractions than
	// the threshold.
	MaxRetractions int `json:"max_retractions"`

	// ExcludeInstitutionalConflicts removes candidates sharing an institution
	// (case-insensitive) with any manuscript author or manuscript affiliation.
	ExcludeInstitutionalConflicts bool `json:"exclude_institutional_conflicts"`
}

// Validate checks the numeric thresholds.
func (r Rules) Validate() error {
	if r.MinimumPublications < 0 {
		return errors.New(errors.ErrCodeRulesInvalid, "minimum_publications must not be negative")
	}
	if r.MaxRetractions < 0 {
		return errors.New(errors.ErrCodeRulesInvalid, "max_retractions must not be negative")
	}
	return nil
}

// DefaultRules returns the screening configuration used when a caller supplies
// none: manuscript authors and their co-authors are excluded, institutional
// conflicts are excluded, and no publication floor is applied.
func DefaultRules() Rules {
	return Rules{
		ExcludeManuscriptAuthors:      true,
		ExcludeCoAuthors:              true,
		ExcludeInstitutionalConflicts: true,
	}
}

// ---------------------------------------------------------------------------
// Request / Response DTOs
// ---------------------------------------------------------------------------

// Request carries one validation call: the candidate pool, the manuscript's
// authors, optional extra manuscript institutions, and the rules to apply.
type Request struct {
	Candidates             []author.Author `json:"candidates"`
	ManuscriptAuthors      []author.Author `json:"manuscript_authors"`
	ManuscriptInstitutions []string        `json:"manuscript_institutions,omitempty"`
	Rules                  Rules           `json:"rules"`
}

// StepOutcome records the independent diagnostic for a single rule evaluated
// against the full candidate pool.  Excluded + Passed always equals the total
// candidate count; steps are not a shrinking funnel.
type StepOutcome struct {
	Excluded int `json:"excluded"`
	Passed   int `json:"passed"`
}

// Result is the aggregate validation report.
// Invariant: ValidatedReviewers + ExcludedReviewers == TotalCandidates.
type Result struct {
	TotalCandidates    int                      `json:"total_candidates"`
	ValidatedReviewers int                      `json:"validated_reviewers"`
	ExcludedReviewers  int                      `json:"excluded_reviewers"`
	Steps              map[StepName]StepOutcome `json:"validation_steps"`
}

// Response bundles the report with the surviving candidates.  A candidate
// survives iff it satisfies every enabled rule; disabled rules are vacuously
// satisfied.
type Response struct {
	Result    Result          `json:"result"`
	Survivors []author.Author `json:"validated_candidates"`
}

// ---------------------------------------------------------------------------
// Ports
// ---------------------------------------------------------------------------

// CoAuthorshipSource supplies explicit co-authorship edges, typically backed
// by the co-author graph store.  A nil source leaves the co-author rule on its
// heuristic signals alone.
type CoAuthorshipSource interface {
	// HaveCoAuthored reports whether the two authors share at least one
	// publication.
	HaveCoAuthored(ctx context.Context, a, b common.ID) (bool, error)
}

// MetricsCollector records operational metrics for the engine.
type MetricsCollector interface {
	ObserveValidationDuration(d time.Duration, candidates int)
	IncExcluded(rule string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveValidationDuration(time.Duration, int) {}
func (noopMetrics) IncExcluded(string)                           {}

// ---------------------------------------------------------------------------
// Engine
// ---------------------------------------------------------------------------

// Engine applies a Rules configuration to a candidate pool.  It is stateless
// between calls and safe for concurrent use.
type Engine struct {
	coAuthorship CoAuthorshipSource
	logger       logging.Logger
	metrics      MetricsCollector
}

// NewEngine constructs an Engine.  coAuthorship may be nil; logger and metrics
// fall back to inert implementations when nil.
func NewEngine(coAuthorship CoAuthorshipSource, logger logging.Logger, metrics MetricsCollector) *Engine {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Engine{
		coAuthorship: coAuthorship,
		logger:       logger.Named("validation"),
		metrics:      metrics,
	}
}

// Validate evaluates every enabled rule against every candidate in the pool
// and returns the funnel report plus the surviving candidates.
//
// Each enabled rule is evaluated independently over the full pool, so a
// candidate failing several rules is counted in each rule's Excluded tally.
// An empty candidate pool yields an all-zero Result, not an error.
func (e *Engine) Validate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	defer func() {
		e.metrics.ObserveValidationDuration(time.Since(start), len(req.Candidates))
	}()

	if err := req.Rules.Validate(); err != nil {
		return nil, err
	}

	rules := e.enabledRules(req)

	total := len(req.Candidates)
	result := Result{
		TotalCandidates: total,
		Steps:           make(map[StepName]StepOutcome, len(rules)),
	}
	for _, r := range rules {
		result.Steps[r.name] = StepOutcome{}
	}

	// failed[i] marks candidate i as excluded by at least one rule.
	failed := make([]bool, total)

	for _, r := range rules {
		outcome := StepOutcome{}
		for i := range req.Candidates {
			if r.excludes(ctx, &req.Candidates[i]) {
				outcome.Excluded++
				failed[i] = true
				e.metrics.IncExcluded(string(r.name))
			} else {
				outcome.Passed++
			}
		}
		result.Steps[r.name] = outcome
	}

	survivors := make([]author.Author, 0, total)
	for i := range req.Candidates {
		if !failed[i] {
			survivors = append(survivors, req.Candidates[i])
		}
	}

	result.ValidatedReviewers = len(survivors)
	result.ExcludedReviewers = total - len(survivors)

	e.logger.Info("candidate pool validated",
		logging.Int("total", total),
		logging.Int("validated", result.ValidatedReviewers),
		logging.Int("excluded", result.ExcludedReviewers),
		logging.Int("rules", len(rules)),
	)
	return &Response{Result: result, Survivors: survivors}, nil
}

// ---------------------------------------------------------------------------
// Rule construction
// ---------------------------------------------------------------------------

// rule pairs a step name with its exclusion predicate.  The predicate returns
// true when the candidate must be excluded by this rule.
type rule struct {
	name     StepName
	excludes func(ctx context.Context, c *author.Author) bool
}

// enabledRules materialises the predicates for every enabled rule.  Missing
// candidate fields (no affiliations, no email) resolve to "rule not
// triggered", never an error.
func (e *Engine) enabledRules(req Request) []rule {
	var rules []rule

	if req.Rules.ExcludeManuscriptAuthors {
		rules = append(rules, rule{
			name: StepManuscriptAuthors,
			excludes: func(_ context.Context, c *author.Author) bool {
				for i := range req.ManuscriptAuthors {
					if c.SameIdentity(&req.ManuscriptAuthors[i]) {
						return true
					}
				}
				return false
			},
		})
	}

	if req.Rules.ExcludeCoAuthors {
		rules = append(rules, rule{
			name: StepCoAuthors,
			excludes: func(ctx context.Context, c *author.Author) bool {
				return e.hasCoAuthorshipSignal(ctx, c, req.ManuscriptAuthors)
			},
		})
	}

	if req.Rules.MinimumPublications > 0 {
		minPubs := req.Rules.MinimumPublications
		rules = append(rules, rule{
			name: StepMinimumPublications,
			excludes: func(_ context.Context, c *author.Author) bool {
				return c.PublicationCount < minPubs
			},
		})
	}

	rules = append(rules, rule{
		name: StepMaxRetractions,
		excludes: func(_ context.Context, c *author.Author) bool {
			return c.Retractions > req.Rules.MaxRetractions
		},
	})

	if req.Rules.ExcludeInstitutionalConflicts {
		manuscriptInstitutions := collectInstitutions(req.ManuscriptAuthors, req.ManuscriptInstitutions)
		rules = append(rules, rule{
			name: StepInstitutionalConflicts,
			excludes: func(_ context.Context, c *author.Author) bool {
				for inst := range c.InstitutionSet() {
					if _, ok := manuscriptInstitutions[inst]; ok {
						return true
					}
				}
				return false
			},
		})
	}

	return rules
}

// hasCoAuthorshipSignal checks the explicit co-authorship source first, then
// falls back to the heuristic overlap signals.  Source errors degrade to "no
// explicit signal" so a graph outage never aborts a validation run.
func (e *Engine) hasCoAuthorshipSignal(ctx context.Context, c *author.Author, manuscriptAuthors []author.Author) bool {
	for i := range manuscriptAuthors {
		ma := &manuscriptAuthors[i]
		if e.coAuthorship != nil && !c.ID.IsZero() && !ma.ID.IsZero() {
			coAuthored, err := e.coAuthorship.HaveCoAuthored(ctx, c.ID, ma.ID)
			if err != nil {
				e.logger.Warn("co-authorship lookup failed, falling back to overlap heuristic",
					logging.String("candidate_id", c.ID.String()),
					logging.String("author_id", ma.ID.String()),
					logging.Err(err),
				)
			} else if coAuthored {
				return true
			}
		}
		if c.SharesResearchArea(ma) || c.SharesInstitution(ma) {
			return true
		}
	}
	return false
}

// collectInstitutions unions institutions from the manuscript authors with any
// explicitly supplied manuscript affiliations, case-normalized.
func collectInstitutions(authors []author.Author, extra []string) map[string]struct{} {
	set := make(map[string]struct{})
	for i := range authors {
		for inst := range authors[i].InstitutionSet() {
			set[inst] = struct{}{}
		}
	}
	for _, inst := range extra {
		if norm := (author.Affiliation{InstitutionName: inst}).NormalizedInstitution(); norm != "" {
			set[norm] = struct{}{}
		}
	}
	return set
}
