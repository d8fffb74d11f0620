package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarfinder/engine/internal/domain/author"
	"github.com/scholarfinder/engine/internal/domain/paper"
	"github.com/scholarfinder/engine/pkg/errors"
	"github.com/scholarfinder/engine/pkg/types/common"
)

type fakePaperStore struct {
	records map[common.ID]*paper.ResearchPaper
}

func newFakePaperStore() *fakePaperStore {
	return &fakePaperStore{records: map[common.ID]*paper.ResearchPaper{}}
}

func (s *fakePaperStore) Save(_ context.Context, p *paper.ResearchPaper) error {
	s.records[p.ID] = p
	return nil
}

func (s *fakePaperStore) FindByID(_ context.Context, id common.ID) (*paper.ResearchPaper, error) {
	if p, ok := s.records[id]; ok {
		return p, nil
	}
	return nil, errors.New(errors.CodePaperNotFound, "paper not found")
}

func (s *fakePaperStore) List(_ context.Context, _ common.Pagination) ([]*paper.ResearchPaper, int64, error) {
	out := make([]*paper.ResearchPaper, 0, len(s.records))
	for _, p := range s.records {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (s *fakePaperStore) Delete(_ context.Context, id common.ID) error {
	if _, ok := s.records[id]; !ok {
		return errors.New(errors.CodePaperNotFound, "paper not found")
	}
	delete(s.records, id)
	return nil
}

type fakeDirectory struct {
	records map[common.ID]*author.Author
}

func (d *fakeDirectory) FindByIDs(_ context.Context, ids []common.ID) (map[common.ID]*author.Author, error) {
	out := map[common.ID]*author.Author{}
	for _, id := range ids {
		if a, ok := d.records[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

type coAuthorEdge struct {
	a, b  common.ID
	paper common.ID
}

type fakeGraph struct {
	edges []coAuthorEdge
	err   error
}

func (g *fakeGraph) RecordCoAuthorship(_ context.Context, a, b common.ID, paperID common.ID) error {
	if g.err != nil {
		return g.err
	}
	g.edges = append(g.edges, coAuthorEdge{a: a, b: b, paper: paperID})
	return nil
}

func newPaperRouter(h *PaperHandler) *gin.Engine {
	r := gin.New()
	pg := r.Group("/api/v1/papers")
	pg.POST("", h.Create)
	pg.GET("", h.List)
	pg.GET("/:id", h.Get)
	pg.PUT("/:id", h.Update)
	pg.DELETE("/:id", h.Delete)
	return r
}

func TestCreatePaper(t *testing.T) {
	store := newFakePaperStore()
	h := NewPaperHandler(store, nil, nil, nil)
	r := newPaperRouter(h)

	w := doJSON(t, r, http.MethodPost, "/api/v1/papers", CreatePaperRequest{
		Title:       "Machine Learning in Oncology",
		AuthorNames: []string{"Ada Lovelace"},
		Keywords:    []string{"oncology", "ml"},
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, store.records, 1)
}

func TestCreatePaperRequiresTitle(t *testing.T) {
	h := NewPaperHandler(newFakePaperStore(), nil, nil, nil)
	r := newPaperRouter(h)

	w := doJSON(t, r, http.MethodPost, "/api/v1/papers", CreatePaperRequest{
		AuthorNames: []string{"Ada Lovelace"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPaperNotFound(t *testing.T) {
	h := NewPaperHandler(newFakePaperStore(), nil, nil, nil)
	r := newPaperRouter(h)

	w := doJSON(t, r, http.MethodGet, "/api/v1/papers/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatePaperRecordsCoAuthorshipEdges(t *testing.T) {
	store := newFakePaperStore()
	directory := &fakeDirectory{records: map[common.ID]*author.Author{
		"a1": {ID: "a1", Name: "Ada Lovelace"},
		"a2": {ID: "a2", Name: "Grace Hopper"},
		"a3": {ID: "a3", Name: "Barbara Liskov"},
	}}
	graph := &fakeGraph{}
	h := NewPaperHandler(store, directory, graph, nil)
	r := newPaperRouter(h)

	w := doJSON(t, r, http.MethodPost, "/api/v1/papers", CreatePaperRequest{
		Title:       "Distributed Systems Verification",
		AuthorNames: []string{"Ada Lovelace", "Grace Hopper", "Barbara Liskov"},
		AuthorIDs:   []common.ID{"a1", "a2", "a3", "ghost"},
	})

	require.Equal(t, http.StatusCreated, w.Code)

	require.Len(t, store.records, 1)
	for _, p := range store.records {
		assert.Len(t, p.Authors, 3, "unknown ids are skipped, not attached")
	}
	assert.Len(t, graph.edges, 3, "three resolved authors produce three pairings")
	for _, e := range graph.edges {
		assert.False(t, e.paper.IsZero())
		assert.NotEqual(t, e.a, e.b)
	}
}

func TestCreatePaperSurvivesGraphFailure(t *testing.T) {
	store := newFakePaperStore()
	directory := &fakeDirectory{records: map[common.ID]*author.Author{
		"a1": {ID: "a1", Name: "Ada Lovelace"},
		"a2": {ID: "a2", Name: "Grace Hopper"},
	}}
	graph := &fakeGraph{err: errors.New(errors.CodeDatabaseError, "graph down")}
	h := NewPaperHandler(store, directory, graph, nil)
	r := newPaperRouter(h)

	w := doJSON(t, r, http.MethodPost, "/api/v1/papers", CreatePaperRequest{
		Title:       "Fault Tolerance",
		AuthorNames: []string{"Ada Lovelace", "Grace Hopper"},
		AuthorIDs:   []common.ID{"a1", "a2"},
	})

	require.Equal(t, http.StatusCreated, w.Code, "edge recording is best-effort")
	assert.Len(t, store.records, 1)
}

func TestUpdatePaperReRecordsCoAuthorshipEdges(t *testing.T) {
	store := newFakePaperStore()
	existing, err := paper.New("Fault Tolerance", []string{"Ada Lovelace"})
	require.NoError(t, err)
	store.records[existing.ID] = existing

	directory := &fakeDirectory{records: map[common.ID]*author.Author{
		"a1": {ID: "a1", Name: "Ada Lovelace"},
		"a2": {ID: "a2", Name: "Grace Hopper"},
	}}
	graph := &fakeGraph{}
	h := NewPaperHandler(store, directory, graph, nil)
	r := newPaperRouter(h)

	w := doJSON(t, r, http.MethodPut, "/api/v1/papers/"+existing.ID.String(), CreatePaperRequest{
		Title:       "Fault Tolerance",
		AuthorNames: []string{"Ada Lovelace", "Grace Hopper"},
		AuthorIDs:   []common.ID{"a1", "a2"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, graph.edges, 1)
	assert.Equal(t, existing.ID, graph.edges[0].paper)
}
