package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ReviewersClient serves the reviewer resource: CRUD, pool validation, and
// profile analysis.
type ReviewersClient struct {
	client *Client
}

// Affiliation mirrors the engine's affiliation wire shape.
type Affiliation struct {
	ID              string `json:"id,omitempty"`
	InstitutionName string `json:"institution_name"`
	Department      string `json:"department,omitempty"`
	Address         string `json:"address,omitempty"`
	Country         string `json:"country,omitempty"`
}

// Reviewer mirrors the engine's author wire shape.
type Reviewer struct {
	ID               string                 `json:"id,omitempty"`
	Name             string                 `json:"name"`
	Email            string                 `json:"email,omitempty"`
	Affiliations     []Affiliation          `json:"affiliations,omitempty"`
	PublicationCount int                    `json:"publication_count"`
	ClinicalTrials   int                    `json:"clinical_trials"`
	Retractions      int                    `json:"retractions"`
	ResearchAreas    []string               `json:"research_areas,omitempty"`
	MeshTerms        []string               `json:"mesh_terms,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

// ValidationRules selects and tunes the exclusion rules for one run.
type ValidationRules struct {
	ExcludeManuscriptAuthors      bool `json:"exclude_manuscript_authors"`
	ExcludeCoAuthors              bool `json:"exclude_co_authors"`
	MinimumPublications           int  `json:"minimum_publications"`
	MaxRetractions                int  `json:"max_retractions"`
	ExcludeInstitutionalConflicts bool `json:"exclude_institutional_conflicts"`
}

// ValidateRequest carries one validation call. A nil Rules block applies the
// engine's default screening configuration.
type ValidateRequest struct {
	Candidates             []Reviewer       `json:"candidates"`
	ManuscriptAuthors      []Reviewer       `json:"manuscript_authors,omitempty"`
	ManuscriptInstitutions []string         `json:"manuscript_institutions,omitempty"`
	Rules                  *ValidationRules `json:"rules,omitempty"`
}

// StepOutcome is the independent diagnostic for a single rule.
type StepOutcome struct {
	Excluded int `json:"excluded"`
	Passed   int `json:"passed"`
}

// ValidationResult is the aggregate report of a validation run.
type ValidationResult struct {
	TotalCandidates    int                    `json:"total_candidates"`
	ValidatedReviewers int                    `json:"validated_reviewers"`
	ExcludedReviewers  int                    `json:"excluded_reviewers"`
	Steps              map[string]StepOutcome `json:"validation_steps"`
}

// ValidateResponse bundles the report with the surviving candidates.
type ValidateResponse struct {
	Result    ValidationResult `json:"result"`
	Survivors []Reviewer       `json:"validated_candidates"`
}

// DetailedProfile carries a reviewer's full analysis. Section payloads are
// kept raw so SDK consumers decode only the parts they use.
type DetailedProfile struct {
	Author              Reviewer        `json:"author"`
	ResearchProfile     json.RawMessage `json:"researchProfile,omitempty"`
	NetworkAnalysis     json.RawMessage `json:"networkAnalysis,omitempty"`
	PublicationHistory  json.RawMessage `json:"publicationHistory,omitempty"`
	ConflictIndicators  json.RawMessage `json:"conflictIndicators,omitempty"`
	ProfileCompleteness json.RawMessage `json:"profileCompleteness,omitempty"`
}

// ConflictIndicator is one detected conflict-of-interest signal.
type ConflictIndicator struct {
	Type        string  `json:"type"`
	Severity    string  `json:"severity"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description"`
}

// BatchCreateResult reports per-item outcomes of a batch registration.
type BatchCreateResult struct {
	Created []Reviewer `json:"created"`
	Errors  []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors,omitempty"`
}

// Create registers one reviewer.
func (rc *ReviewersClient) Create(ctx context.Context, reviewer Reviewer) (*Reviewer, error) {
	var out Reviewer
	if err := rc.client.post(ctx, "/api/v1/reviewers", reviewer, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BatchCreate registers several reviewers in one call; malformed entries are
// reported per item without aborting the batch.
func (rc *ReviewersClient) BatchCreate(ctx context.Context, reviewers []Reviewer) (*BatchCreateResult, error) {
	body := struct {
		Reviewers []Reviewer `json:"reviewers"`
	}{Reviewers: reviewers}

	var out BatchCreateResult
	if err := rc.client.post(ctx, "/api/v1/reviewers/batch", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches one reviewer by id.
func (rc *ReviewersClient) Get(ctx context.Context, id string) (*Reviewer, error) {
	var out Reviewer
	if _, err := rc.client.get(ctx, "/api/v1/reviewers/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search lists reviewers whose names match query; an empty query lists all.
func (rc *ReviewersClient) Search(ctx context.Context, query string, page, pageSize int) ([]Reviewer, *Pagination, error) {
	q := url.Values{}
	if query != "" {
		q.Set("q", query)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	path := "/api/v1/reviewers"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out []Reviewer
	pg, err := rc.client.get(ctx, path, &out)
	if err != nil {
		return nil, nil, err
	}
	return out, pg, nil
}

// Update replaces one reviewer record; updating an unknown id registers it.
func (rc *ReviewersClient) Update(ctx context.Context, id string, reviewer Reviewer) (*Reviewer, error) {
	var out Reviewer
	if _, err := rc.client.do(ctx, http.MethodPut, "/api/v1/reviewers/"+url.PathEscape(id), reviewer, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes one reviewer.
func (rc *ReviewersClient) Delete(ctx context.Context, id string) error {
	return rc.client.delete(ctx, "/api/v1/reviewers/"+url.PathEscape(id))
}

// Validate runs the exclusion rule engine over a candidate pool.
func (rc *ReviewersClient) Validate(ctx context.Context, req ValidateRequest) (*ValidateResponse, error) {
	var out ValidateResponse
	if err := rc.client.post(ctx, "/api/v1/reviewers/validate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile fetches the detailed analysis for one reviewer. includeNetwork and
// includePublications switch the corresponding sections off when false.
func (rc *ReviewersClient) Profile(ctx context.Context, id string, includeNetwork, includePublications bool) (*DetailedProfile, error) {
	path := fmt.Sprintf("/api/v1/reviewers/%s/profile?include_network=%t&include_publications=%t",
		url.PathEscape(id), includeNetwork, includePublications)

	var out DetailedProfile
	if _, err := rc.client.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeNetworks runs batch co-authorship network analysis over a pool.
// The result is keyed by reviewer id.
func (rc *ReviewersClient) AnalyzeNetworks(ctx context.Context, authors []Reviewer) (map[string]json.RawMessage, error) {
	body := struct {
		Authors []Reviewer `json:"authors"`
	}{Authors: authors}

	var out map[string]json.RawMessage
	if err := rc.client.post(ctx, "/api/v1/reviewers/networks", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DetectConflicts runs batch conflict-of-interest detection, keyed by
// candidate id.
func (rc *ReviewersClient) DetectConflicts(ctx context.Context, candidates, manuscriptAuthors []Reviewer, institutions []string) (map[string][]ConflictIndicator, error) {
	body := struct {
		Candidates                []Reviewer `json:"candidates"`
		ManuscriptAuthors         []Reviewer `json:"manuscript_authors"`
		InstitutionalAffiliations []string   `json:"institutional_affiliations,omitempty"`
	}{Candidates: candidates, ManuscriptAuthors: manuscriptAuthors, InstitutionalAffiliations: institutions}

	var out map[string][]ConflictIndicator
	if err := rc.client.post(ctx, "/api/v1/reviewers/conflicts", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}
