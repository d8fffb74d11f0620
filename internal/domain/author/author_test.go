package author

import (
	"testing"

	"github.com/scholarfinder/engine/pkg/types/common"
)

func TestNew(t *testing.T) {
	a, err := New("a-1", "Dr. Emily Johnson")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Name != "Dr. Emily Johnson" {
		t.Errorf("expected name preserved, got %s", a.Name)
	}

	if _, err := New("", "anyone"); err == nil {
		t.Error("expected error for empty id")
	}
	if _, err := New("a-2", "   "); err == nil {
		t.Error("expected error for blank name")
	}
}

func TestValidateCounters(t *testing.T) {
	a := Author{ID: "a-1", Name: "x", PublicationCount: -1}
	if err := a.Validate(); err == nil {
		t.Error("expected error for negative publication count")
	}
	a.PublicationCount = 0
	a.Retractions = -3
	if err := a.Validate(); err == nil {
		t.Error("expected error for negative retractions")
	}
	a.Retractions = 0
	if err := a.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSameIdentity(t *testing.T) {
	base := &Author{ID: "a-1", Name: "Jane Smith", Email: "jane@uni.edu"}

	byID := &Author{ID: "a-1", Name: "different"}
	if !base.SameIdentity(byID) {
		t.Error("expected identity match by id")
	}

	byName := &Author{ID: "a-9", Name: "jane smith"}
	if !base.SameIdentity(byName) {
		t.Error("expected case-insensitive identity match by name")
	}

	byEmail := &Author{ID: "a-9", Name: "J. Smith", Email: "JANE@uni.edu"}
	if !base.SameIdentity(byEmail) {
		t.Error("expected identity match by email")
	}

	noMatch := &Author{ID: "a-9", Name: "John Doe"}
	if base.SameIdentity(noMatch) {
		t.Error("expected no identity match")
	}

	// Missing email on one side must skip the email comparison, not match.
	noEmail := &Author{ID: "a-9", Name: "John Doe", Email: ""}
	if base.SameIdentity(noEmail) {
		t.Error("expected no match when other has no email")
	}
	if base.SameIdentity(nil) {
		t.Error("expected no match against nil")
	}
}

func TestSharesInstitution(t *testing.T) {
	stanford := Affiliation{ID: common.NewID(), InstitutionName: "Stanford University"}
	mit := Affiliation{ID: common.NewID(), InstitutionName: "MIT"}

	a := &Author{ID: "a-1", Name: "A", Affiliations: []Affiliation{stanford}}
	b := &Author{ID: "a-2", Name: "B", Affiliations: []Affiliation{{InstitutionName: "  stanford university "}}}
	c := &Author{ID: "a-3", Name: "C", Affiliations: []Affiliation{mit}}
	d := &Author{ID: "a-4", Name: "D"}

	if !a.SharesInstitution(b) {
		t.Error("expected case-insensitive institutional overlap")
	}
	if a.SharesInstitution(c) {
		t.Error("expected no overlap between Stanford and MIT")
	}
	if a.SharesInstitution(d) || d.SharesInstitution(a) {
		t.Error("missing affiliations must mean no overlap")
	}
}

func TestSharesResearchArea(t *testing.T) {
	a := &Author{ID: "a-1", Name: "A", ResearchAreas: []string{"Machine Learning", "NLP"}}
	b := &Author{ID: "a-2", Name: "B", ResearchAreas: []string{"nlp"}}
	c := &Author{ID: "a-3", Name: "C", ResearchAreas: []string{"Robotics"}}

	if !a.SharesResearchArea(b) {
		t.Error("expected case-insensitive research area overlap")
	}
	if a.SharesResearchArea(c) {
		t.Error("expected no overlap")
	}
	if a.SharesResearchArea(nil) {
		t.Error("expected no overlap against nil")
	}
}

func TestInstitutionSetSkipsBlankNames(t *testing.T) {
	a := &Author{ID: "a-1", Name: "A", Affiliations: []Affiliation{
		{InstitutionName: "Oxford University"},
		{InstitutionName: "   "},
	}}
	set := a.InstitutionSet()
	if len(set) != 1 {
		t.Fatalf("expected 1 institution, got %d", len(set))
	}
	if _, ok := set["oxford university"]; !ok {
		t.Error("expected normalized key")
	}
}
