package profile

import (
	"context"
	"time"

	"github.com/scholarfinder/engine/internal/domain/author"
	"github.com/scholarfinder/engine/internal/infrastructure/monitoring/logging"
	"github.com/scholarfinder/engine/pkg/errors"
	"github.com/scholarfinder/engine/pkg/types/common"
)

// MetricsCollector receives orchestrator timing and outcome signals.
type MetricsCollector interface {
	ObserveProfileDuration(d time.Duration)
	IncEnrichmentFailure()
}

type noopMetrics struct{}

func (noopMetrics) ObserveProfileDuration(time.Duration) {}
func (noopMetrics) IncEnrichmentFailure()                {}

// Orchestrator composes the analysis components into detailed profiles. The
// enrichment lookup is the only step that leaves process memory; everything
// else is a pure function of the author record.
type Orchestrator struct {
	research     *ResearchProfileBuilder
	publications *PublicationSynthesizer
	network      *NetworkAnalyzer
	conflicts    *ConflictDetector
	completeness *CompletenessAssessor
	enricher     Enricher
	logger       logging.Logger
	metrics      MetricsCollector
}

// NewOrchestrator wires the analysis components together. enricher may be nil
// (profiles are then built from the caller-supplied record only); nil logger
// and metrics fall back to no-ops.
func NewOrchestrator(
	research *ResearchProfileBuilder,
	publications *PublicationSynthesizer,
	network *NetworkAnalyzer,
	conflicts *ConflictDetector,
	completeness *CompletenessAssessor,
	enricher Enricher,
	logger logging.Logger,
	metrics MetricsCollector,
) *Orchestrator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Orchestrator{
		research:     research,
		publications: publications,
		network:      network,
		conflicts:    conflicts,
		completeness: completeness,
		enricher:     enricher,
		logger:       logger.Named("profile_orchestrator"),
		metrics:      metrics,
	}
}

// NewDefaultOrchestrator builds an orchestrator with freshly constructed
// components sharing one logger.
func NewDefaultOrchestrator(graph CoAuthorGraph, enricher Enricher, logger logging.Logger, metrics MetricsCollector) *Orchestrator {
	return NewOrchestrator(
		NewResearchProfileBuilder(logger),
		NewPublicationSynthesizer(logger),
		NewNetworkAnalyzer(graph, logger),
		NewConflictDetector(logger),
		NewCompletenessAssessor(logger),
		enricher,
		logger,
		metrics,
	)
}

// GetDetailedProfile builds the composite profile for one author. A nil
// author fails the call; every other failure degrades to a smaller but valid
// result. nil options select DefaultProfileOptions.
func (o *Orchestrator) GetDetailedProfile(ctx context.Context, a *author.Author, opts *ProfileOptions) (*DetailedProfile, error) {
	if a == nil {
		return nil, errors.New(errors.ErrCodeAuthorRequired, "author is required")
	}
	if opts == nil {
		opts = DefaultProfileOptions()
	}
	start := time.Now()
	defer func() { o.metrics.ObserveProfileDuration(time.Since(start)) }()

	subject, enrichedAt := o.enrich(ctx, a)

	researchProfile, err := o.research.Build(subject)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeProfileBuildFailed, "building research profile")
	}

	networkAnalysis := EmptyNetworkAnalysis()
	if opts.IncludeNetworkAnalysis {
		networkAnalysis, err = o.network.AnalyzeOne(ctx, subject, opts.ManuscriptAuthors)
		if err != nil {
			o.logger.Warn("network analysis failed, returning empty analysis",
				logging.String("author_id", subject.ID.String()),
				logging.Err(err))
			networkAnalysis = EmptyNetworkAnalysis()
		}
	}

	publicationHistory := EmptyPublicationHistory()
	if opts.IncludePublicationHistory {
		publicationHistory, err = o.publications.Build(subject, opts.TimeframeYears)
		if err != nil {
			o.logger.Warn("publication history synthesis failed, returning empty history",
				logging.String("author_id", subject.ID.String()),
				logging.Err(err))
			publicationHistory = EmptyPublicationHistory()
		}
	}

	conflictIndicators := []ConflictIndicator{}
	if opts.IncludeConflictDetection && len(opts.ManuscriptAuthors) > 0 {
		conflictIndicators, err = o.conflicts.DetectForOne(subject, opts.ManuscriptAuthors, nil)
		if err != nil {
			o.logger.Warn("conflict detection failed, returning no indicators",
				logging.String("author_id", subject.ID.String()),
				logging.Err(err))
			conflictIndicators = []ConflictIndicator{}
		}
	}

	profileCompleteness, err := o.completeness.Assess(subject, enrichedAt)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeProfileBuildFailed, "assessing profile completeness")
	}

	return &DetailedProfile{
		Author:              *subject,
		ResearchProfile:     researchProfile,
		NetworkAnalysis:     networkAnalysis,
		PublicationHistory:  publicationHistory,
		ConflictIndicators:  conflictIndicators,
		ProfileCompleteness: profileCompleteness,
	}, nil
}

// AnalyzeNetworks is the batch network entry point.
func (o *Orchestrator) AnalyzeNetworks(ctx context.Context, authors []author.Author) (map[common.ID]*NetworkAnalysis, error) {
	return o.network.AnalyzeMany(ctx, authors)
}

// DetectConflicts is the batch conflict entry point.
func (o *Orchestrator) DetectConflicts(ctx context.Context, candidates, manuscriptAuthors []author.Author, institutionalAffiliations []string) (map[common.ID][]ConflictIndicator, error) {
	return o.conflicts.DetectForMany(ctx, candidates, manuscriptAuthors, institutionalAffiliations)
}

// enrich refreshes the author via the external collaborator. Any failure
// degrades to the caller-supplied record; a successful refresh also dates the
// record for the freshness computation.
func (o *Orchestrator) enrich(ctx context.Context, a *author.Author) (*author.Author, time.Time) {
	if o.enricher == nil {
		return a, time.Time{}
	}
	refreshed, err := o.enricher.GetAuthorProfile(ctx, a.ID)
	if err != nil || refreshed == nil {
		o.metrics.IncEnrichmentFailure()
		o.logger.Warn("profile enrichment failed, continuing with supplied record",
			logging.String("author_id", a.ID.String()),
			logging.Err(err))
		return a, time.Time{}
	}
	return refreshed, time.Now()
}
