package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholarfinder/engine/internal/domain/author"
	"github.com/scholarfinder/engine/internal/domain/paper"
	"github.com/scholarfinder/engine/internal/infrastructure/monitoring/logging"
	"github.com/scholarfinder/engine/pkg/errors"
	"github.com/scholarfinder/engine/pkg/types/common"
)

// PaperStore is the persistence port behind the papers resource.
type PaperStore interface {
	Save(ctx context.Context, p *paper.ResearchPaper) error
	FindByID(ctx context.Context, id common.ID) (*paper.ResearchPaper, error)
	List(ctx context.Context, pg common.Pagination) ([]*paper.ResearchPaper, int64, error)
	Delete(ctx context.Context, id common.ID) error
}

// AuthorDirectory resolves stored reviewer records for the author ids a
// manuscript submission references. The PostgreSQL author repository
// satisfies it; unknown ids are simply absent from the result.
type AuthorDirectory interface {
	FindByIDs(ctx context.Context, ids []common.ID) (map[common.ID]*author.Author, error)
}

// CoAuthorshipRecorder upserts co-authorship edges into the graph store as
// manuscripts come in. The neo4j co-author repository satisfies it.
type CoAuthorshipRecorder interface {
	RecordCoAuthorship(ctx context.Context, a, b common.ID, paperID common.ID) error
}

// PaperHandler serves manuscript CRUD endpoints.
type PaperHandler struct {
	store   PaperStore
	authors AuthorDirectory
	graph   CoAuthorshipRecorder
	logger  logging.Logger
}

// NewPaperHandler wires the paper endpoints. authors and graph may be nil:
// submissions are then stored without resolved author records or graph edges.
func NewPaperHandler(store PaperStore, authors AuthorDirectory, graph CoAuthorshipRecorder, logger logging.Logger) *PaperHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &PaperHandler{
		store:   store,
		authors: authors,
		graph:   graph,
		logger:  logger.Named("paper_handler"),
	}
}

// CreatePaperRequest is the wire form for submitting one manuscript.
// AuthorIDs optionally names stored reviewer records for the listed authors;
// resolved records are attached to the paper and their pairings recorded as
// co-authorship edges.
type CreatePaperRequest struct {
	Title       string          `json:"title" binding:"required"`
	AuthorNames []string        `json:"authors" binding:"required"`
	AuthorIDs   []common.ID     `json:"author_ids"`
	Abstract    string          `json:"abstract"`
	Keywords    []string        `json:"keywords"`
	Metadata    common.Metadata `json:"metadata"`
}

// resolveAuthors attaches the stored records for the submission's author ids.
// Resolution is best-effort: a directory failure is logged and the paper is
// stored with names only.
func (h *PaperHandler) resolveAuthors(ctx context.Context, p *paper.ResearchPaper, ids []common.ID) {
	if h.authors == nil || len(ids) == 0 {
		return
	}
	records, err := h.authors.FindByIDs(ctx, ids)
	if err != nil {
		h.logger.Warn("failed to resolve paper authors", logging.Err(err))
		return
	}
	for _, id := range ids {
		if rec, ok := records[id]; ok {
			p.AttachAuthor(*rec)
		}
	}
}

// recordCoAuthorships writes an edge for every pair of resolved authors.
// Best-effort, like the audit publish: a graph failure never fails the
// submission.
func (h *PaperHandler) recordCoAuthorships(ctx context.Context, p *paper.ResearchPaper) {
	if h.graph == nil || len(p.Authors) < 2 {
		return
	}
	for i := 0; i < len(p.Authors); i++ {
		for j := i + 1; j < len(p.Authors); j++ {
			if err := h.graph.RecordCoAuthorship(ctx, p.Authors[i].ID, p.Authors[j].ID, p.ID); err != nil {
				h.logger.Warn("failed to record co-authorship edge",
					logging.String("author_a", p.Authors[i].ID.String()),
					logging.String("author_b", p.Authors[j].ID.String()),
					logging.Err(err))
			}
		}
	}
}

// Create handles POST /papers.
func (h *PaperHandler) Create(c *gin.Context) {
	var body CreatePaperRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, errors.NewInvalidParam("invalid paper payload: "+err.Error()))
		return
	}

	p, err := paper.New(body.Title, body.AuthorNames)
	if err != nil {
		respondError(c, err)
		return
	}
	p.Abstract = body.Abstract
	p.Keywords = body.Keywords
	p.Metadata = body.Metadata
	h.resolveAuthors(c.Request.Context(), p, body.AuthorIDs)

	if err := h.store.Save(c.Request.Context(), p); err != nil {
		respondError(c, err)
		return
	}
	h.recordCoAuthorships(c.Request.Context(), p)
	respondOK(c, http.StatusCreated, p)
}

// Update handles PUT /papers/:id. The existing record must be present; its
// audit fields carry over and the version bumps on save.
func (h *PaperHandler) Update(c *gin.Context) {
	var body CreatePaperRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, errors.NewInvalidParam("invalid paper payload: "+err.Error()))
		return
	}

	existing, err := h.store.FindByID(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := paper.New(body.Title, body.AuthorNames)
	if err != nil {
		respondError(c, err)
		return
	}
	h.resolveAuthors(c.Request.Context(), updated, body.AuthorIDs)
	updated.BaseEntity = existing.BaseEntity
	updated.Abstract = body.Abstract
	updated.Keywords = body.Keywords
	updated.Metadata = body.Metadata
	updated.Touch()

	if err := h.store.Save(c.Request.Context(), updated); err != nil {
		respondError(c, err)
		return
	}
	h.recordCoAuthorships(c.Request.Context(), updated)
	respondOK(c, http.StatusOK, updated)
}

// Get handles GET /papers/:id.
func (h *PaperHandler) Get(c *gin.Context) {
	p, err := h.store.FindByID(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, p)
}

// List handles GET /papers.
func (h *PaperHandler) List(c *gin.Context) {
	pg := parsePagination(c)
	papers, total, err := h.store.List(c.Request.Context(), pg)
	if err != nil {
		respondError(c, err)
		return
	}
	pg.Total = total
	resp := common.OK(papers)
	resp.Pagination = &pg
	c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /papers/:id.
func (h *PaperHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), common.ID(c.Param("id"))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
