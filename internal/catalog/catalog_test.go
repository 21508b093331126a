package catalog

import (
	"errors"
	"testing"

	"github.com/glebk/lunch-buddy/internal/domain"
)

func TestDefaultCatalogOrder(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	want := []domain.Stage{
		domain.StageOffice,
		domain.StageCuisine,
		domain.StageRestrictions,
		domain.StageBudget,
		domain.StageWalkTime,
	}
	if len(c.Questions) != len(want) {
		t.Fatalf("questions = %d, want %d", len(c.Questions), len(want))
	}
	for i, stage := range want {
		if c.Questions[i].Stage != stage {
			t.Fatalf("question %d = %s, want %s", i, c.Questions[i].Stage, stage)
		}
	}

	if c.First() != domain.StageOffice {
		t.Fatalf("First() = %s, want office", c.First())
	}
	if next, _ := c.Next(domain.StageWalkTime); next != domain.StageFinish {
		t.Fatalf("Next(walk_time) = %s, want finish", next)
	}
	if prev, _ := c.Prev(domain.StageFinish); prev != domain.StageWalkTime {
		t.Fatalf("Prev(finish) = %s, want walk_time", prev)
	}
	if _, ok := c.Prev(domain.StageOffice); ok {
		t.Fatal("expected office to have no predecessor")
	}
}

func TestSelectionKinds(t *testing.T) {
	c := MustDefault()
	tests := map[domain.Stage]domain.SelectionKind{
		domain.StageOffice:       domain.SelectionSingle,
		domain.StageCuisine:      domain.SelectionMulti,
		domain.StageRestrictions: domain.SelectionMulti,
		domain.StageBudget:       domain.SelectionSingle,
		domain.StageWalkTime:     domain.SelectionSingle,
	}
	for stage, kind := range tests {
		q, ok := c.Question(stage)
		if !ok {
			t.Fatalf("missing stage %s", stage)
		}
		if q.Kind != kind {
			t.Fatalf("%s kind = %s, want %s", stage, q.Kind, kind)
		}
	}
}

func TestOptionBounds(t *testing.T) {
	c := MustDefault()

	if _, err := c.Option(domain.StageCuisine, 0); err != nil {
		t.Fatalf("Option(cuisine, 0) error = %v", err)
	}
	if _, err := c.Option(domain.StageCuisine, 99); !errors.Is(err, domain.ErrInvalidSelection) {
		t.Fatalf("Option(cuisine, 99) error = %v, want ErrInvalidSelection", err)
	}
	if _, err := c.Option(domain.StageCuisine, -1); !errors.Is(err, domain.ErrInvalidSelection) {
		t.Fatalf("Option(cuisine, -1) error = %v, want ErrInvalidSelection", err)
	}
	if _, err := c.Option("dessert", 0); !errors.Is(err, domain.ErrUnknownStage) {
		t.Fatalf("Option(dessert, 0) error = %v, want ErrUnknownStage", err)
	}
}

func TestValueMapping(t *testing.T) {
	c := MustDefault()

	if v, ok := c.Value(domain.StageBudget, "💵 Up to 1000 RUB"); !ok || v != 1000 {
		t.Fatalf("budget value = %d, %v, want 1000, true", v, ok)
	}
	if v, ok := c.Value(domain.StageWalkTime, "🚶 Up to 15 minutes"); !ok || v != 15 {
		t.Fatalf("walk time value = %d, %v, want 15, true", v, ok)
	}
	if _, ok := c.Value(domain.StageCuisine, "🍜 Asian"); ok {
		t.Fatal("cuisine options should have no numeric value")
	}
}

func TestParseRejectsBrokenDocuments(t *testing.T) {
	tests := map[string]string{
		"empty":     "version: 1\n",
		"bad kind":  "questions:\n  - stage: office\n    kind: maybe\n    options: [{label: a}]\n",
		"no office": "questions:\n  - stage: cuisine\n    kind: multi\n    options: [{label: a}]\n",
		"duplicate": "questions:\n  - stage: office\n    kind: single\n    options: [{label: a}]\n  - stage: office\n    kind: single\n    options: [{label: b}]\n",
		"no option": "questions:\n  - stage: office\n    kind: single\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestPlainLabel(t *testing.T) {
	tests := map[string]string{
		"🍜 Asian":          "Asian",
		"🍽️ European":      "European",
		"💵 Up to 500 RUB":  "Up to 500 RUB",
		"No restrictions":  "No restrictions",
		"14A Vilensky Lane": "14A Vilensky Lane",
		"  ✅ Vegan ":        "Vegan",
	}
	for in, want := range tests {
		if got := PlainLabel(in); got != want {
			t.Fatalf("PlainLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
