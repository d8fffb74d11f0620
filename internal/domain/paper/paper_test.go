package paper

import (
	"testing"

	"github.com/scholarfinder/engine/internal/domain/author"
)

func TestNew(t *testing.T) {
	p, err := New("Deep Learning for NLP", []string{"John Doe", "Jane Smith"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID.IsZero() {
		t.Error("expected generated id")
	}
	if p.Version != 1 {
		t.Errorf("expected version 1, got %d", p.Version)
	}

	if _, err := New("", []string{"x"}); err == nil {
		t.Error("expected error for empty title")
	}
	if _, err := New("title", nil); err == nil {
		t.Error("expected error for missing authors")
	}
}

func TestAttachAuthorIdempotent(t *testing.T) {
	p, _ := New("T", []string{"A"})
	a := author.Author{ID: "a-1", Name: "A"}

	p.AttachAuthor(a)
	p.AttachAuthor(a)

	if len(p.Authors) != 1 {
		t.Fatalf("expected 1 resolved author, got %d", len(p.Authors))
	}
}

func TestInstitutionNames(t *testing.T) {
	p, _ := New("T", []string{"A", "B"})
	p.AttachAuthor(author.Author{ID: "a-1", Name: "A", Affiliations: []author.Affiliation{
		{InstitutionName: "Stanford University"},
	}})
	p.AttachAuthor(author.Author{ID: "a-2", Name: "B", Affiliations: []author.Affiliation{
		{InstitutionName: "stanford university"},
		{InstitutionName: "MIT"},
	}})

	names := p.InstitutionNames()
	if len(names) != 2 {
		t.Fatalf("expected 2 distinct institutions, got %v", names)
	}
}
