// Package paper implements the ResearchPaper bounded context: the manuscript
// records whose author lists drive reviewer validation.
package paper

import (
	"strings"
	"time"

	"github.com/scholarfinder/engine/internal/domain/author"
	"github.com/scholarfinder/engine/pkg/errors"
	"github.com/scholarfinder/engine/pkg/types/common"
)

// ResearchPaper is the aggregate root for manuscripts submitted to the
// platform.  The bibliographic fields mirror the upstream papers API: title,
// author names, abstract, keywords, and an open metadata bag.
type ResearchPaper struct {
	common.BaseEntity

	Title       string          `json:"title"`
	AuthorNames []string        `json:"authors"`
	Abstract    string          `json:"abstract,omitempty"`
	Keywords    []string        `json:"keywords,omitempty"`
	Metadata    common.Metadata `json:"metadata,omitempty"`

	// Authors holds the resolved author records for the names above, when the
	// repository has linked them.  Validation requests read this list; an
	// unresolved name simply has no entry here.
	Authors []author.Author `json:"resolved_authors,omitempty"`
}

// New constructs a ResearchPaper, enforcing that a manuscript carries a title
// and at least one author name.
func New(title string, authorNames []string) (*ResearchPaper, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.NewInvalidParam("paper title must not be empty")
	}
	if len(authorNames) == 0 {
		return nil, errors.NewInvalidParam("paper must list at least one author")
	}
	now := time.Now().UTC()
	return &ResearchPaper{
		BaseEntity: common.BaseEntity{
			ID:        common.NewID(),
			CreatedAt: now,
			UpdatedAt: now,
			Version:   1,
		},
		Title:       title,
		AuthorNames: authorNames,
		Keywords:    make([]string, 0),
	}, nil
}

// AttachAuthor links a resolved author record to the paper.  Duplicate ids are
// ignored so repeated resolution runs stay idempotent.
func (p *ResearchPaper) AttachAuthor(a author.Author) {
	for _, existing := range p.Authors {
		if existing.ID == a.ID {
			return
		}
	}
	p.Authors = append(p.Authors, a)
	p.Touch()
}

// InstitutionNames returns the case-normalized set of institutions across all
// resolved authors, the manuscript-side input to institutional conflict
// checks.
func (p *ResearchPaper) InstitutionNames() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, a := range p.Authors {
		for _, aff := range a.Affiliations {
			name := aff.NormalizedInstitution()
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}
