package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/glebk/lunch-buddy/internal/domain"
)

type fakeRecommender struct {
	ranked []domain.RankedVenue
	err    error
	got    domain.UserAnswers
}

func (r *fakeRecommender) Recommend(ctx context.Context, answers domain.UserAnswers) ([]domain.RankedVenue, error) {
	r.got = answers
	return r.ranked, r.err
}

func TestSummaryUnknownGroup(t *testing.T) {
	f := newFixture(t)
	svc := NewSummaryService(f.store, f.catalog, nil, "en")

	if _, err := svc.Summary(context.Background(), 404); !errors.Is(err, domain.ErrGroupNotFound) {
		t.Fatalf("Summary() error = %v, want ErrGroupNotFound", err)
	}
}

func TestSummaryWithoutParticipants(t *testing.T) {
	f := newFixture(t)
	f.invitations.Register(testGroup, testOrganizer, "organizer")
	svc := NewSummaryService(f.store, f.catalog, nil, "en")

	summary, err := svc.Summary(context.Background(), testGroup)
	if !errors.Is(err, domain.ErrNoParticipants) {
		t.Fatalf("Summary() error = %v, want ErrNoParticipants", err)
	}
	if summary.Answers.Office != domain.NotSelected {
		t.Fatalf("Office = %q, want %q", summary.Answers.Office, domain.NotSelected)
	}
}

func TestSummaryText(t *testing.T) {
	f := newFixture(t)
	invitationID := f.invite(t, 0, 2, 3)
	f.accept(t, invitationID, 2, 3)
	f.survey.Select(2, domain.StageCuisine, 2)
	f.survey.Select(3, domain.StageCuisine, 2)
	f.survey.Select(3, domain.StageBudget, 1)

	recommender := &fakeRecommender{ranked: []domain.RankedVenue{
		{Venue: domain.Venue{Name: "Wok", Address: "1 Main St"}, Score: 3},
	}}
	svc := NewSummaryService(f.store, f.catalog, recommender, "en")

	summary, err := svc.Summary(context.Background(), testGroup)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	// the organizer picked the office and counts as a participant
	if summary.Answers.Participants != 3 {
		t.Fatalf("Participants = %d, want 3", summary.Answers.Participants)
	}
	if recommender.got.Office != f.label(t, domain.StageOffice, 0) {
		t.Fatalf("recommender got office %q", recommender.got.Office)
	}

	for _, want := range []string{
		"Group preferences (3 participants)",
		"Office: 14A Vilensky Lane",
		"• Asian: 67%",
		"• Up to 1000 RUB: 33%",
		"1. Wok (1 Main St)",
		`"wanted_cuisines": {`,
		`"1000": 0.33`,
	} {
		if !strings.Contains(summary.Text, want) {
			t.Errorf("summary lacks %q:\n%s", want, summary.Text)
		}
	}
}

func TestSummaryWithoutRecommendations(t *testing.T) {
	f := newFixture(t)
	invitationID := f.invite(t, 0, 2)
	f.accept(t, invitationID, 2)

	recommender := &fakeRecommender{err: domain.ErrRecommendationUnavailable}
	for _, svc := range []*SummaryService{
		NewSummaryService(f.store, f.catalog, nil, "en"),
		NewSummaryService(f.store, f.catalog, recommender, "not a language"),
	} {
		summary, err := svc.Summary(context.Background(), testGroup)
		if err != nil {
			t.Fatalf("Summary() error = %v", err)
		}
		if !strings.Contains(summary.Text, "recommendations not available") {
			t.Fatalf("summary should note missing recommendations:\n%s", summary.Text)
		}
	}
}
