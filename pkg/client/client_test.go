package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(t *testing.T, w http.ResponseWriter, status int, body interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func okEnvelope(data interface{}) map[string]interface{} {
	return map[string]interface{}{"success": true, "data": data}
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)

	_, err = NewClient("ftp://example.org")
	assert.Error(t, err)
}

func TestValidateDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/reviewers/validate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		respond(t, w, http.StatusOK, okEnvelope(ValidateResponse{
			Result: ValidationResult{
				TotalCandidates:    2,
				ValidatedReviewers: 1,
				ExcludedReviewers:  1,
				Steps: map[string]StepOutcome{
					"manuscript_authors": {Excluded: 1, Passed: 1},
				},
			},
			Survivors: []Reviewer{{ID: "r2", Name: "Grace"}},
		}))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	resp, err := c.Reviewers().Validate(context.Background(), ValidateRequest{
		Candidates: []Reviewer{{ID: "r1", Name: "Ada"}, {ID: "r2", Name: "Grace"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Result.ValidatedReviewers)
	require.Len(t, resp.Survivors, 1)
	assert.Equal(t, "r2", resp.Survivors[0].ID)
}

func TestGetReviewerNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"error":   map[string]string{"code": "PRF_002", "message": "author not found"},
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.Reviewers().Get(context.Background(), "ghost")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "PRF_002", apiErr.Code)
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			respond(t, w, http.StatusInternalServerError, map[string]interface{}{
				"success": false,
				"error":   map[string]string{"code": "COMMON_001", "message": "boom"},
			})
			return
		}
		respond(t, w, http.StatusOK, okEnvelope(Reviewer{ID: "r1", Name: "Ada"}))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithRetryMax(3), WithRetryWait(time.Millisecond, 2*time.Millisecond))
	require.NoError(t, err)

	rec, err := c.Reviewers().Get(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", rec.Name)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		respond(t, w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   map[string]string{"code": "VAL_002", "message": "invalid rules"},
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithRetryMax(3), WithRetryWait(time.Millisecond, 2*time.Millisecond))
	require.NoError(t, err)

	_, err = c.Reviewers().Validate(context.Background(), ValidateRequest{})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSearchCarriesPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ada", r.URL.Query().Get("q"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		respond(t, w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"data":       []Reviewer{{ID: "r1", Name: "Ada"}},
			"pagination": Pagination{Page: 2, PageSize: 5, Total: 11},
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	reviewers, pg, err := c.Reviewers().Search(context.Background(), "ada", 2, 5)
	require.NoError(t, err)
	assert.Len(t, reviewers, 1)
	require.NotNil(t, pg)
	assert.Equal(t, int64(11), pg.Total)
}

func TestDeletePaper(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/papers/p1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)
	assert.NoError(t, c.Papers().Delete(context.Background(), "p1"))
}

func TestAPIKeyHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sekrit", r.Header.Get("Authorization"))
		respond(t, w, http.StatusOK, okEnvelope(Reviewer{ID: "r1"}))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithAPIKey("sekrit"))
	require.NoError(t, err)
	_, err = c.Reviewers().Get(context.Background(), "r1")
	require.NoError(t, err)
}
