package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scholarfinder/engine/internal/application/profile"
	"github.com/scholarfinder/engine/internal/application/validation"
	"github.com/scholarfinder/engine/internal/domain/author"
	"github.com/scholarfinder/engine/internal/infrastructure/messaging/kafka"
	"github.com/scholarfinder/engine/internal/infrastructure/monitoring/logging"
	"github.com/scholarfinder/engine/pkg/errors"
	"github.com/scholarfinder/engine/pkg/types/common"
)

// ---------------------------------------------------------------------------
// Ports
// ---------------------------------------------------------------------------

// Validator runs the exclusion rule engine over a candidate pool.
type Validator interface {
	Validate(ctx context.Context, req validation.Request) (*validation.Response, error)
}

// Profiler builds detailed reviewer profiles and batch analyses.
type Profiler interface {
	GetDetailedProfile(ctx context.Context, a *author.Author, opts *profile.ProfileOptions) (*profile.DetailedProfile, error)
	AnalyzeNetworks(ctx context.Context, authors []author.Author) (map[common.ID]*profile.NetworkAnalysis, error)
	DetectConflicts(ctx context.Context, candidates, manuscriptAuthors []author.Author, institutionalAffiliations []string) (map[common.ID][]profile.ConflictIndicator, error)
}

// AuthorStore is the persistence port the reviewer endpoints read and write.
type AuthorStore interface {
	Save(ctx context.Context, a *author.Author) error
	FindByID(ctx context.Context, id common.ID) (*author.Author, error)
	Search(ctx context.Context, nameQuery string, p common.Pagination) ([]*author.Author, int64, error)
	Delete(ctx context.Context, id common.ID) error
}

// EventPublisher emits audit events; publishing is best-effort and never
// fails a request.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, eventType string, payload interface{}) error
}

// ProfileCacheInvalidator drops a reviewer's cached enrichment record so the
// next profile build reloads from the store. The enrichment service
// satisfies it.
type ProfileCacheInvalidator interface {
	Invalidate(ctx context.Context, id common.ID) error
}

// ---------------------------------------------------------------------------
// Handler
// ---------------------------------------------------------------------------

// ReviewerHandler serves the reviewer resource: CRUD, pool validation, and
// profile analysis endpoints.
type ReviewerHandler struct {
	validator   Validator
	profiler    Profiler
	store       AuthorStore
	events      EventPublisher
	invalidator ProfileCacheInvalidator
	logger      logging.Logger
}

// NewReviewerHandler wires the reviewer endpoints. events may be nil, which
// disables audit publication; a nil invalidator skips cache invalidation on
// writes.
func NewReviewerHandler(validator Validator, profiler Profiler, store AuthorStore, events EventPublisher, invalidator ProfileCacheInvalidator, logger logging.Logger) *ReviewerHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ReviewerHandler{
		validator:   validator,
		profiler:    profiler,
		store:       store,
		events:      events,
		invalidator: invalidator,
		logger:      logger.Named("reviewer_handler"),
	}
}

// dropCachedProfile evicts the enrichment cache entry after a write so
// profile reads see the stored record instead of the pre-write copy. Eviction
// failure is logged, not surfaced: the entry expires on its own TTL.
func (h *ReviewerHandler) dropCachedProfile(ctx context.Context, id common.ID) {
	if h.invalidator == nil {
		return
	}
	if err := h.invalidator.Invalidate(ctx, id); err != nil {
		h.logger.Warn("failed to invalidate cached profile",
			logging.String("author_id", id.String()),
			logging.Err(err))
	}
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

// ValidateRequest is the wire form of a validation call. Rules is a pointer
// so an omitted block falls back to the default screening configuration.
type ValidateRequest struct {
	Candidates             []author.Author   `json:"candidates" binding:"required"`
	ManuscriptAuthors      []author.Author   `json:"manuscript_authors"`
	ManuscriptInstitutions []string          `json:"manuscript_institutions"`
	Rules                  *validation.Rules `json:"rules"`
}

// Validate handles POST /reviewers/validate.
func (h *ReviewerHandler) Validate(c *gin.Context) {
	var body ValidateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, errors.NewInvalidParam("invalid validation request: "+err.Error()))
		return
	}

	rules := validation.DefaultRules()
	if body.Rules != nil {
		rules = *body.Rules
	}

	resp, err := h.validator.Validate(c.Request.Context(), validation.Request{
		Candidates:             body.Candidates,
		ManuscriptAuthors:      body.ManuscriptAuthors,
		ManuscriptInstitutions: body.ManuscriptInstitutions,
		Rules:                  rules,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.publishValidated(c.Request.Context(), resp)
	respondOK(c, http.StatusOK, resp)
}

func (h *ReviewerHandler) publishValidated(ctx context.Context, resp *validation.Response) {
	if h.events == nil {
		return
	}
	applied := make([]string, 0, len(resp.Result.Steps))
	for name := range resp.Result.Steps {
		applied = append(applied, string(name))
	}
	payload := kafka.ReviewerValidatedPayload{
		TotalCandidates:    resp.Result.TotalCandidates,
		ValidatedReviewers: resp.Result.ValidatedReviewers,
		ExcludedReviewers:  resp.Result.ExcludedReviewers,
		RulesApplied:       applied,
		ValidatedAt:        time.Now().UTC(),
	}
	if err := h.events.PublishEvent(ctx, kafka.TopicReviewerValidated, "reviewer.validated", payload); err != nil {
		h.logger.Warn("failed to publish validation audit event", logging.Err(err))
	}
}

// ---------------------------------------------------------------------------
// Profiles
// ---------------------------------------------------------------------------

// Profile handles GET /reviewers/:id/profile. Sections default to enabled
// and can be switched off per request via query parameters.
func (h *ReviewerHandler) Profile(c *gin.Context) {
	id := common.ID(c.Param("id"))
	rec, err := h.store.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	opts := profile.DefaultProfileOptions()
	opts.IncludeNetworkAnalysis = parseBoolQuery(c, "include_network", true)
	opts.IncludePublicationHistory = parseBoolQuery(c, "include_publications", true)
	// Conflict detection needs manuscript authors, which a GET cannot carry.
	opts.IncludeConflictDetection = false

	detail, err := h.profiler.GetDetailedProfile(c.Request.Context(), rec, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, detail)
}

// NetworksRequest carries a pool for batch co-authorship network analysis.
type NetworksRequest struct {
	Authors []author.Author `json:"authors" binding:"required"`
}

// AnalyzeNetworks handles POST /reviewers/networks.
func (h *ReviewerHandler) AnalyzeNetworks(c *gin.Context) {
	var body NetworksRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, errors.NewInvalidParam("invalid network analysis request: "+err.Error()))
		return
	}
	analyses, err := h.profiler.AnalyzeNetworks(c.Request.Context(), body.Authors)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, analyses)
}

// ConflictsRequest carries candidates and manuscript context for batch
// conflict-of-interest detection.
type ConflictsRequest struct {
	Candidates                []author.Author `json:"candidates" binding:"required"`
	ManuscriptAuthors         []author.Author `json:"manuscript_authors" binding:"required"`
	InstitutionalAffiliations []string        `json:"institutional_affiliations"`
}

// DetectConflicts handles POST /reviewers/conflicts.
func (h *ReviewerHandler) DetectConflicts(c *gin.Context) {
	var body ConflictsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, errors.NewInvalidParam("invalid conflict detection request: "+err.Error()))
		return
	}
	conflicts, err := h.profiler.DetectConflicts(c.Request.Context(), body.Candidates, body.ManuscriptAuthors, body.InstitutionalAffiliations)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, conflicts)
}

// ---------------------------------------------------------------------------
// CRUD
// ---------------------------------------------------------------------------

// CreateReviewerRequest is the wire form for registering one reviewer.
type CreateReviewerRequest struct {
	ID               common.ID            `json:"id"`
	Name             string               `json:"name" binding:"required"`
	Email            string               `json:"email"`
	Affiliations     []author.Affiliation `json:"affiliations"`
	PublicationCount int                  `json:"publication_count"`
	ClinicalTrials   int                  `json:"clinical_trials"`
	Retractions      int                  `json:"retractions"`
	ResearchAreas    []string             `json:"research_areas"`
	MeshTerms        []string             `json:"mesh_terms"`
	Metadata         common.Metadata      `json:"metadata"`
}

func (r CreateReviewerRequest) toAuthor() (*author.Author, error) {
	id := r.ID
	if id.IsZero() {
		id = common.NewID()
	}
	a, err := author.New(id, r.Name)
	if err != nil {
		return nil, err
	}
	a.Email = r.Email
	a.Affiliations = r.Affiliations
	a.ResearchAreas = r.ResearchAreas
	a.MeshTerms = r.MeshTerms
	a.Metadata = r.Metadata
	a.PublicationCount = r.PublicationCount
	a.ClinicalTrials = r.ClinicalTrials
	a.Retractions = r.Retractions
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Create handles POST /reviewers.
func (h *ReviewerHandler) Create(c *gin.Context) {
	var body CreateReviewerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, errors.NewInvalidParam("invalid reviewer payload: "+err.Error()))
		return
	}
	a, err := body.toAuthor()
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.store.Save(c.Request.Context(), a); err != nil {
		respondError(c, err)
		return
	}
	h.dropCachedProfile(c.Request.Context(), a.ID)
	respondOK(c, http.StatusCreated, a)
}

// BatchCreateRequest registers several reviewers in one call.
type BatchCreateRequest struct {
	Reviewers []CreateReviewerRequest `json:"reviewers" binding:"required"`
}

// BatchCreateResult reports per-item outcomes; a malformed entry does not
// abort the rest of the batch.
type BatchCreateResult struct {
	Created []author.Author      `json:"created"`
	Errors  []common.ErrorDetail `json:"errors,omitempty"`
}

// BatchCreate handles POST /reviewers/batch.
func (h *ReviewerHandler) BatchCreate(c *gin.Context) {
	var body BatchCreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, errors.NewInvalidParam("invalid batch payload: "+err.Error()))
		return
	}

	result := BatchCreateResult{Created: []author.Author{}}
	for _, item := range body.Reviewers {
		a, err := item.toAuthor()
		if err == nil {
			err = h.store.Save(c.Request.Context(), a)
		}
		if err != nil {
			result.Errors = append(result.Errors, common.ErrorDetail{
				Code:    string(errors.GetCode(err)),
				Message: err.Error(),
			})
			continue
		}
		h.dropCachedProfile(c.Request.Context(), a.ID)
		result.Created = append(result.Created, *a)
	}
	respondOK(c, http.StatusCreated, result)
}

// Update handles PUT /reviewers/:id. The path id wins over any id in the
// body; the store upserts, so updating an unknown reviewer registers it.
func (h *ReviewerHandler) Update(c *gin.Context) {
	var body CreateReviewerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, errors.NewInvalidParam("invalid reviewer payload: "+err.Error()))
		return
	}
	body.ID = common.ID(c.Param("id"))

	a, err := body.toAuthor()
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.store.Save(c.Request.Context(), a); err != nil {
		respondError(c, err)
		return
	}
	h.dropCachedProfile(c.Request.Context(), a.ID)
	respondOK(c, http.StatusOK, a)
}

// Get handles GET /reviewers/:id.
func (h *ReviewerHandler) Get(c *gin.Context) {
	rec, err := h.store.FindByID(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, rec)
}

// List handles GET /reviewers with optional ?q= name search.
func (h *ReviewerHandler) List(c *gin.Context) {
	pg := parsePagination(c)
	records, total, err := h.store.Search(c.Request.Context(), c.Query("q"), pg)
	if err != nil {
		respondError(c, err)
		return
	}
	pg.Total = total
	resp := common.OK(records)
	resp.Pagination = &pg
	c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /reviewers/:id.
func (h *ReviewerHandler) Delete(c *gin.Context) {
	id := common.ID(c.Param("id"))
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.dropCachedProfile(c.Request.Context(), id)
	c.Status(http.StatusNoContent)
}
