// Package author implements the Author bounded context for the ScholarFinder
// platform: the shared entity describing a reviewer candidate or manuscript
// author, and the comparison helpers every analysis component builds on.
// The analysis engine never mutates an Author; it only reads and derives new
// structures, so all methods here are side-effect free.
package author

import (
	"strings"

	"github.com/scholarfinder/engine/pkg/errors"
	"github.com/scholarfinder/engine/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Affiliation value object
// ─────────────────────────────────────────────────────────────────────────────

// Affiliation describes one institutional affiliation of an author.  It is
// used only for equality/overlap comparison, keyed by the case-normalized
// institution name.
type Affiliation struct {
	ID              common.ID `json:"id"`
	InstitutionName string    `json:"institution_name"`
	Department      string    `json:"department,omitempty"`
	Address         string    `json:"address,omitempty"`
	Country         string    `json:"country,omitempty"`
}

// NormalizedInstitution returns the institution name lower-cased with
// surrounding whitespace removed, the canonical form used for all
// institutional overlap checks.
func (a Affiliation) NormalizedInstitution() string {
	return strings.ToLower(strings.TrimSpace(a.InstitutionName))
}

// ─────────────────────────────────────────────────────────────────────────────
// Author entity
// ─────────────────────────────────────────────────────────────────────────────

// Author is the shared entity consumed by the exclusion rule engine and every
// profile-analysis component.  Records are constructed by the upstream
// repository/import process and passed by value into analysis calls; this
// package never persists them.
type Author struct {
	ID               common.ID       `json:"id"`
	Name             string          `json:"name"`
	Email            string          `json:"email,omitempty"`
	Affiliations     []Affiliation   `json:"affiliations,omitempty"`
	PublicationCount int             `json:"publication_count"`
	ClinicalTrials   int             `json:"clinical_trials"`
	Retractions      int             `json:"retractions"`
	ResearchAreas    []string        `json:"research_areas,omitempty"`
	MeshTerms        []string        `json:"mesh_terms,omitempty"`
	Metadata         common.Metadata `json:"metadata,omitempty"`
}

// New constructs an Author, enforcing the construction invariants relied on by
// the analysis engine: a non-empty id and name, and non-negative counters.
// Import pipelines should always go through New so malformed upstream records
// are rejected at the boundary rather than inside an analysis batch.
func New(id common.ID, name string) (*Author, error) {
	if id.IsZero() {
		return nil, errors.NewInvalidParam("author id must not be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.NewInvalidParam("author name must not be empty")
	}
	return &Author{ID: id, Name: name}, nil
}

// Validate checks the numeric invariants on an already-constructed Author.
// Rehydrated records (database rows, API payloads) are validated here before
// entering the engine.
func (a *Author) Validate() error {
	if a.ID.IsZero() {
		return errors.NewInvalidParam("author id must not be empty")
	}
	if strings.TrimSpace(a.Name) == "" {
		return errors.NewInvalidParam("author name must not be empty")
	}
	if a.PublicationCount < 0 {
		return errors.NewInvalidParam("publication count must not be negative")
	}
	if a.ClinicalTrials < 0 {
		return errors.NewInvalidParam("clinical trials count must not be negative")
	}
	if a.Retractions < 0 {
		return errors.NewInvalidParam("retractions count must not be negative")
	}
	return nil
}

// HasEmail reports whether the author carries a usable email address.
func (a *Author) HasEmail() bool {
	return strings.TrimSpace(a.Email) != ""
}

// NormalizedEmail returns the lower-cased, trimmed email, or "" when absent.
func (a *Author) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(a.Email))
}

// ─────────────────────────────────────────────────────────────────────────────
// Identity and overlap comparison
// ─────────────────────────────────────────────────────────────────────────────

// SameIdentity reports whether two author records refer to the same person:
// matching ids, matching names, or matching non-empty emails.  Missing emails
// on either side simply skip the email comparison.
func (a *Author) SameIdentity(other *Author) bool {
	if other == nil {
		return false
	}
	if !a.ID.IsZero() && a.ID == other.ID {
		return true
	}
	if a.Name != "" && strings.EqualFold(strings.TrimSpace(a.Name), strings.TrimSpace(other.Name)) {
		return true
	}
	if a.HasEmail() && other.HasEmail() && a.NormalizedEmail() == other.NormalizedEmail() {
		return true
	}
	return false
}

// InstitutionSet returns the set of the author's case-normalized institution
// names.  Authors with no affiliations yield an empty set, never nil handling
// burdens for callers.
func (a *Author) InstitutionSet() map[string]struct{} {
	set := make(map[string]struct{}, len(a.Affiliations))
	for _, aff := range a.Affiliations {
		if name := aff.NormalizedInstitution(); name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}

// SharesInstitution reports whether the two authors have at least one
// case-insensitively matching institution name.  Absent affiliations on
// either side mean no overlap, not an error.
func (a *Author) SharesInstitution(other *Author) bool {
	if other == nil || len(a.Affiliations) == 0 || len(other.Affiliations) == 0 {
		return false
	}
	theirs := other.InstitutionSet()
	for _, aff := range a.Affiliations {
		if _, ok := theirs[aff.NormalizedInstitution()]; ok {
			return true
		}
	}
	return false
}

// SharesResearchArea reports whether the two authors list at least one common
// research area (case-insensitive).
func (a *Author) SharesResearchArea(other *Author) bool {
	if other == nil || len(a.ResearchAreas) == 0 || len(other.ResearchAreas) == 0 {
		return false
	}
	theirs := make(map[string]struct{}, len(other.ResearchAreas))
	for _, area := range other.ResearchAreas {
		theirs[strings.ToLower(strings.TrimSpace(area))] = struct{}{}
	}
	for _, area := range a.ResearchAreas {
		if _, ok := theirs[strings.ToLower(strings.TrimSpace(area))]; ok {
			return true
		}
	}
	return false
}
