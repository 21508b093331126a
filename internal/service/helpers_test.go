package service

import (
	"strings"
	"testing"

	"github.com/glebk/lunch-buddy/internal/catalog"
	"github.com/glebk/lunch-buddy/internal/domain"
	"github.com/glebk/lunch-buddy/internal/store"
)

const (
	testGroup     int64 = -1001
	testOrganizer int64 = 1
)

type fixture struct {
	store       *store.Store
	catalog     *catalog.Catalog
	survey      *SurveyService
	invitations *InvitationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.New()
	cat := catalog.MustDefault()
	survey := NewSurveyService(st, store.NewCursors(), cat)
	return &fixture{
		store:       st,
		catalog:     cat,
		survey:      survey,
		invitations: NewInvitationService(st, cat, survey),
	}
}

// invite registers members, runs an invitation round with the organizer's
// office at officeIndex and returns the invitation id
func (f *fixture) invite(t *testing.T, officeIndex int, invitees ...int64) string {
	t.Helper()
	if err := f.invitations.Register(testGroup, testOrganizer, "organizer"); err != nil {
		t.Fatalf("Register(organizer) error = %v", err)
	}
	for _, id := range invitees {
		if err := f.invitations.Register(testGroup, id, "member"); err != nil {
			t.Fatalf("Register(%d) error = %v", id, err)
		}
	}

	if _, err := f.invitations.StartInvitation(testGroup, testOrganizer, "organizer"); err != nil {
		t.Fatalf("StartInvitation() error = %v", err)
	}
	if _, err := f.invitations.SelectOrganizerOffice(testGroup, testOrganizer, officeIndex); err != nil {
		t.Fatalf("SelectOrganizerOffice() error = %v", err)
	}
	for _, id := range invitees {
		if _, err := f.invitations.ToggleInvitee(testGroup, testOrganizer, id); err != nil {
			t.Fatalf("ToggleInvitee(%d) error = %v", id, err)
		}
	}
	d, err := f.invitations.ConfirmInvitation(testGroup, testOrganizer)
	if err != nil {
		t.Fatalf("ConfirmInvitation() error = %v", err)
	}
	return d.InvitationID
}

// accept makes every user accept the invitation, entering the survey
func (f *fixture) accept(t *testing.T, invitationID string, users ...int64) {
	t.Helper()
	for _, id := range users {
		if _, err := f.invitations.Respond(invitationID, id, domain.ResponseAccepted); err != nil {
			t.Fatalf("Respond(%d, accepted) error = %v", id, err)
		}
	}
}

// toFinish advances the user stage by stage into the free-form step
func (f *fixture) toFinish(t *testing.T, userID int64) domain.Prompt {
	t.Helper()
	for {
		cursor, ok := f.survey.Cursor(userID)
		if !ok {
			t.Fatalf("user %d has no cursor", userID)
		}
		next, ok := f.catalog.Next(cursor.Stage)
		if !ok {
			t.Fatalf("no stage after %s", cursor.Stage)
		}
		prompt, err := f.survey.Advance(userID, next)
		if err != nil {
			t.Fatalf("Advance(%s) error = %v", next, err)
		}
		if next == domain.StageFinish {
			return prompt
		}
	}
}

// lastStage is the final button stage of the catalog
func (f *fixture) lastStage(t *testing.T) domain.Stage {
	t.Helper()
	stage, ok := f.catalog.Prev(domain.StageFinish)
	if !ok {
		t.Fatal("catalog has no stages")
	}
	return stage
}

func (f *fixture) state(t *testing.T) *domain.GroupState {
	t.Helper()
	session, ok := f.store.Get(testGroup)
	if !ok {
		t.Fatal("group session missing")
	}
	return session.Snapshot()
}

func (f *fixture) label(t *testing.T, stage domain.Stage, index int) string {
	t.Helper()
	o, err := f.catalog.Option(stage, index)
	if err != nil {
		t.Fatalf("Option(%s, %d) error = %v", stage, index, err)
	}
	return o.Label
}

// marked returns the labels of buttons carrying the selection mark
func marked(p domain.Prompt) []string {
	var out []string
	for _, row := range p.Keyboard {
		for _, b := range row {
			if strings.HasPrefix(b.Label, selectedMark) {
				out = append(out, strings.TrimPrefix(b.Label, selectedMark))
			}
		}
	}
	return out
}

func hasAction(p domain.Prompt, token string) bool {
	for _, row := range p.Keyboard {
		for _, b := range row {
			if b.Action == token {
				return true
			}
		}
	}
	return false
}
