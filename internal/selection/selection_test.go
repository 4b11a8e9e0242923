package selection_test

import (
	"testing"

	"letterdesk/internal/selection"
)

func ent(label, text string) selection.Entity {
	return selection.Entity{Label: label, Text: text}
}

func TestSelectionEqualOrderSignificant(t *testing.T) {
	a := selection.Selection{"skill": {ent("skill", "Go"), ent("skill", "SQL")}}
	b := selection.Selection{"skill": {ent("skill", "SQL"), ent("skill", "Go")}}

	if a.Equal(b) {
		t.Fatalf("expected selections with different order to be unequal")
	}
	if !a.Equal(a.Clone()) {
		t.Fatalf("expected a selection to equal its clone")
	}
}

func TestSelectionEqualDifferentLabels(t *testing.T) {
	a := selection.Selection{"skill": {ent("skill", "Go")}}
	b := selection.Selection{"location": {ent("location", "Berlin")}}

	if a.Equal(b) {
		t.Fatalf("expected selections under different labels to be unequal")
	}
}

func TestSelectionCloneIsDeep(t *testing.T) {
	orig := selection.Selection{"skill": {ent("skill", "Go")}}
	clone := orig.Clone()
	clone["skill"][0].Text = "Rust"

	if orig["skill"][0].Text != "Go" {
		t.Fatalf("mutating the clone changed the original")
	}
}

func TestSelectionContainsAndCount(t *testing.T) {
	sel := selection.Selection{
		"skill":    {ent("skill", "Go"), ent("skill", "SQL")},
		"location": {ent("location", "Berlin")},
	}

	if !sel.Contains("skill", "SQL") {
		t.Errorf("expected SQL to be contained under skill")
	}
	if sel.Contains("location", "Go") {
		t.Errorf("Go should not be contained under location")
	}
	if got := sel.Count(); got != 3 {
		t.Errorf("expected count 3, got %d", got)
	}
	if got := (selection.Selection{}).Count(); got != 0 {
		t.Errorf("expected empty selection count 0, got %d", got)
	}
}
