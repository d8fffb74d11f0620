package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// PapersClient serves the manuscript resource.
type PapersClient struct {
	client *Client
}

// Paper mirrors the engine's research paper wire shape.
type Paper struct {
	ID          string                 `json:"id,omitempty"`
	Title       string                 `json:"title"`
	AuthorNames []string               `json:"authors"`
	AuthorIDs   []string               `json:"author_ids,omitempty"`
	Abstract    string                 `json:"abstract,omitempty"`
	Keywords    []string               `json:"keywords,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at,omitempty"`
	UpdatedAt   time.Time              `json:"updated_at,omitempty"`
}

// Create submits one manuscript.
func (pc *PapersClient) Create(ctx context.Context, paper Paper) (*Paper, error) {
	var out Paper
	if err := pc.client.post(ctx, "/api/v1/papers", paper, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches one manuscript by id.
func (pc *PapersClient) Get(ctx context.Context, id string) (*Paper, error) {
	var out Paper
	if _, err := pc.client.get(ctx, "/api/v1/papers/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces one manuscript.
func (pc *PapersClient) Update(ctx context.Context, id string, paper Paper) (*Paper, error) {
	var out Paper
	if _, err := pc.client.do(ctx, http.MethodPut, "/api/v1/papers/"+url.PathEscape(id), paper, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List pages through manuscripts.
func (pc *PapersClient) List(ctx context.Context, page, pageSize int) ([]Paper, *Pagination, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	path := "/api/v1/papers"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out []Paper
	pg, err := pc.client.get(ctx, path, &out)
	if err != nil {
		return nil, nil, err
	}
	return out, pg, nil
}

// Delete removes one manuscript.
func (pc *PapersClient) Delete(ctx context.Context, id string) error {
	return pc.client.delete(ctx, "/api/v1/papers/"+url.PathEscape(id))
}
