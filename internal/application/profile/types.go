// Package profile implements the reviewer profile analysis subsystem:
// research profile construction, publication history synthesis, co-author
// network analysis, conflict-of-interest detection, and completeness
// assessment, composed by the detailed-profile orchestrator.
package profile

import (
	"context"
	"time"

	"github.com/scholarfinder/engine/internal/domain/author"
	"github.com/scholarfinder/engine/pkg/types/common"
)

// ---------------------------------------------------------------------------
// Enumerations
// ---------------------------------------------------------------------------

// MeshCategory classifies a MeSH term into a coarse subject bucket.
type MeshCategory string

const (
	CategoryDiseases     MeshCategory = "Diseases"
	CategoryTherapeutics MeshCategory = "Therapeutics"
	CategoryChemicals    MeshCategory = "Chemicals and Drugs"
	CategoryAnatomy      MeshCategory = "Anatomy"
	CategoryGeneral      MeshCategory = "General"
)

// ConflictType enumerates the kinds of conflict-of-interest indicators.
type ConflictType string

const (
	ConflictCoAuthorship  ConflictType = "co_authorship"
	ConflictInstitutional ConflictType = "institutional"
)

// Severity grades how disqualifying a conflict indicator is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Trend describes the direction of a time-series metric.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendStable     Trend = "stable"
	TrendDecreasing Trend = "decreasing"
)

// Quality grades the reliability of a single profile field.
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

// ---------------------------------------------------------------------------
// Research profile
// ---------------------------------------------------------------------------

// CategorizedMeshTerm is a MeSH term with its assigned category.
type CategorizedMeshTerm struct {
	Term     string       `json:"term"`
	Category MeshCategory `json:"category"`
}

// ExpertiseDomain describes one area the author is considered expert in.
type ExpertiseDomain struct {
	Domain           string  `json:"domain"`
	Confidence       float64 `json:"confidence"`
	PublicationCount int     `json:"publicationCount"`
	RecentActivity   bool    `json:"recentActivity"`
}

// ResearchProfile summarizes what an author works on.
type ResearchProfile struct {
	PrimaryResearchAreas []string              `json:"primaryResearchAreas"`
	MeshTerms            []CategorizedMeshTerm `json:"meshTerms"`
	ExpertiseDomains     []ExpertiseDomain     `json:"expertiseDomains"`
	ResearchKeywords     []string              `json:"researchKeywords"`
}

// ---------------------------------------------------------------------------
// Network analysis
// ---------------------------------------------------------------------------

// NetworkMetrics carries aggregate statistics about an author's network.
type NetworkMetrics struct {
	TotalCoAuthors        int     `json:"totalCoAuthors"`
	SharedInstitutions    int     `json:"sharedInstitutions"`
	SharedResearchAreas   int     `json:"sharedResearchAreas"`
	CollaborationDensity  float64 `json:"collaborationDensity"`
	InternationalPartners int     `json:"internationalPartners"`
}

// NetworkAnalysis describes an author's collaboration neighborhood.
type NetworkAnalysis struct {
	CoAuthors                []author.Author `json:"coAuthors"`
	CollaborationPatterns    []string        `json:"collaborationPatterns"`
	InstitutionalConnections []string        `json:"institutionalConnections"`
	NetworkMetrics           NetworkMetrics  `json:"networkMetrics"`
}

// EmptyNetworkAnalysis returns a well-formed zero-valued analysis.
func EmptyNetworkAnalysis() *NetworkAnalysis {
	return &NetworkAnalysis{
		CoAuthors:                []author.Author{},
		CollaborationPatterns:    []string{},
		InstitutionalConnections: []string{},
	}
}

// ---------------------------------------------------------------------------
// Publication history
// ---------------------------------------------------------------------------

// YearCount is one bucket of the publications-by-year series.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// JournalEntry describes the author's footprint in one journal.
type JournalEntry struct {
	JournalName      string  `json:"journalName"`
	PublicationCount int     `json:"publicationCount"`
	ImpactFactor     float64 `json:"impactFactor"`
	Quartile         string  `json:"quartile"`
	FieldRelevance   float64 `json:"fieldRelevance"`
}

// CitationMetrics aggregates citation-derived indicators.
type CitationMetrics struct {
	TotalCitations           int     `json:"totalCitations"`
	HIndex                   int     `json:"hIndex"`
	I10Index                 int     `json:"i10Index"`
	AverageCitationsPerPaper float64 `json:"averageCitationsPerPaper"`
	RecentCitationTrend      Trend   `json:"recentCitationTrend"`
}

// TrendEntry describes the recent direction of one productivity metric.
type TrendEntry struct {
	Metric     string  `json:"metric"`
	Trend      Trend   `json:"trend"`
	Confidence float64 `json:"confidence"`
	Timeframe  string  `json:"timeframe"`
}

// PublicationHistory is the synthesized publication record of an author.
type PublicationHistory struct {
	TotalPublications   int             `json:"totalPublications"`
	PublicationsByYear  []YearCount     `json:"publicationsByYear"`
	JournalDistribution []JournalEntry  `json:"journalDistribution"`
	CitationMetrics     CitationMetrics `json:"citationMetrics"`
	RecentTrends        []TrendEntry    `json:"recentTrends"`
}

// EmptyPublicationHistory returns a well-formed zero-valued history.
func EmptyPublicationHistory() *PublicationHistory {
	return &PublicationHistory{
		PublicationsByYear:  []YearCount{},
		JournalDistribution: []JournalEntry{},
		RecentTrends:        []TrendEntry{},
	}
}

// ---------------------------------------------------------------------------
// Conflicts and completeness
// ---------------------------------------------------------------------------

// ConflictIndicator is one detected conflict-of-interest signal.
type ConflictIndicator struct {
	Type        ConflictType `json:"type"`
	Severity    Severity     `json:"severity"`
	Confidence  float64      `json:"confidence"`
	Description string       `json:"description"`
}

// FieldQuality rates the reliability of one author field.
type FieldQuality struct {
	Field   string  `json:"field"`
	Quality Quality `json:"quality"`
}

// ProfileCompleteness scores how much of an author record is populated.
type ProfileCompleteness struct {
	OverallScore  float64        `json:"overallScore"`
	MissingFields []string       `json:"missingFields"`
	DataQuality   []FieldQuality `json:"dataQuality"`
	LastUpdated   time.Time      `json:"lastUpdated"`
	DataFreshness float64        `json:"dataFreshness"`
}

// ---------------------------------------------------------------------------
// Detailed profile
// ---------------------------------------------------------------------------

// DetailedProfile composes every analysis result for one author.
type DetailedProfile struct {
	Author              author.Author        `json:"author"`
	ResearchProfile     *ResearchProfile     `json:"researchProfile"`
	NetworkAnalysis     *NetworkAnalysis     `json:"networkAnalysis"`
	PublicationHistory  *PublicationHistory  `json:"publicationHistory"`
	ConflictIndicators  []ConflictIndicator  `json:"conflictIndicators"`
	ProfileCompleteness *ProfileCompleteness `json:"profileCompleteness"`
}

// ProfileOptions controls which sections of a DetailedProfile are built.
type ProfileOptions struct {
	IncludeNetworkAnalysis    bool            `json:"includeNetworkAnalysis"`
	IncludePublicationHistory bool            `json:"includePublicationHistory"`
	IncludeConflictDetection  bool            `json:"includeConflictDetection"`
	ManuscriptAuthors         []author.Author `json:"manuscriptAuthors,omitempty"`
	TimeframeYears            int             `json:"timeframeYears"`
}

// DefaultProfileOptions enables every section over a ten-year window.
func DefaultProfileOptions() *ProfileOptions {
	return &ProfileOptions{
		IncludeNetworkAnalysis:    true,
		IncludePublicationHistory: true,
		IncludeConflictDetection:  true,
		TimeframeYears:            10,
	}
}

// Enricher refreshes an author record from an external profile source.
type Enricher interface {
	GetAuthorProfile(ctx context.Context, id common.ID) (*author.Author, error)
}
