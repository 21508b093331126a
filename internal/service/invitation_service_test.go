package service

import (
	"errors"
	"testing"

	"github.com/glebk/lunch-buddy/internal/domain"
)

func TestConfirmInvitationRequiresInvitees(t *testing.T) {
	f := newFixture(t)
	f.invitations.Register(testGroup, testOrganizer, "organizer")
	f.invitations.Register(testGroup, 2, "member")

	if _, err := f.invitations.StartInvitation(testGroup, testOrganizer, "organizer"); err != nil {
		t.Fatalf("StartInvitation() error = %v", err)
	}
	if _, err := f.invitations.ConfirmInvitation(testGroup, testOrganizer); !errors.Is(err, domain.ErrEmptySelection) {
		t.Fatalf("ConfirmInvitation() error = %v, want ErrEmptySelection", err)
	}

	// toggling twice leaves the selection empty
	f.invitations.ToggleInvitee(testGroup, testOrganizer, 2)
	f.invitations.ToggleInvitee(testGroup, testOrganizer, 2)
	if _, err := f.invitations.ConfirmInvitation(testGroup, testOrganizer); !errors.Is(err, domain.ErrEmptySelection) {
		t.Fatalf("ConfirmInvitation() error = %v, want ErrEmptySelection", err)
	}
}

func TestInvitationRequiresOrganizer(t *testing.T) {
	f := newFixture(t)
	f.invitations.Register(testGroup, testOrganizer, "organizer")
	f.invitations.Register(testGroup, 2, "member")
	f.invitations.StartInvitation(testGroup, testOrganizer, "organizer")

	if _, err := f.invitations.ToggleInvitee(testGroup, 2, 2); !errors.Is(err, domain.ErrNotOrganizer) {
		t.Fatalf("ToggleInvitee() by member error = %v, want ErrNotOrganizer", err)
	}
	if _, err := f.invitations.SelectOrganizerOffice(testGroup, 2, 0); !errors.Is(err, domain.ErrNotOrganizer) {
		t.Fatalf("SelectOrganizerOffice() by member error = %v, want ErrNotOrganizer", err)
	}
	if _, err := f.invitations.ConfirmInvitation(testGroup, 2); !errors.Is(err, domain.ErrNotOrganizer) {
		t.Fatalf("ConfirmInvitation() by member error = %v, want ErrNotOrganizer", err)
	}
}

func TestToggleInviteeRequiresRegistration(t *testing.T) {
	f := newFixture(t)
	f.invitations.Register(testGroup, testOrganizer, "organizer")
	f.invitations.StartInvitation(testGroup, testOrganizer, "organizer")

	if _, err := f.invitations.ToggleInvitee(testGroup, testOrganizer, 42); !errors.Is(err, domain.ErrNotRegistered) {
		t.Fatalf("ToggleInvitee(stranger) error = %v, want ErrNotRegistered", err)
	}
	if _, err := f.invitations.ToggleInvitee(testGroup, testOrganizer, testOrganizer); !errors.Is(err, domain.ErrNotRegistered) {
		t.Fatalf("ToggleInvitee(organizer) error = %v, want ErrNotRegistered", err)
	}
}

func TestPickerListsMembers(t *testing.T) {
	f := newFixture(t)
	f.invitations.Register(testGroup, testOrganizer, "organizer")
	f.invitations.Register(testGroup, 3, "Bob")
	f.invitations.Register(testGroup, 2, "Alice")
	f.invitations.StartInvitation(testGroup, testOrganizer, "organizer")

	prompt, err := f.invitations.SelectOrganizerOffice(testGroup, testOrganizer, 0)
	if err != nil {
		t.Fatalf("SelectOrganizerOffice() error = %v", err)
	}
	if len(prompt.Keyboard) != 3 {
		t.Fatalf("picker rows = %d, want two members and confirm", len(prompt.Keyboard))
	}
	if got := prompt.Keyboard[0][0]; got.Label != "Alice" || got.Action != "invite_2" {
		t.Fatalf("first row = %+v", got)
	}
	if !hasAction(prompt, "invite_done") {
		t.Fatal("picker lacks the confirm button")
	}

	prompt, _ = f.invitations.ToggleInvitee(testGroup, testOrganizer, 3)
	if got := marked(prompt); len(got) != 1 || got[0] != "Bob" {
		t.Fatalf("marked = %v, want [Bob]", got)
	}
}

func TestPickerWithoutMembers(t *testing.T) {
	f := newFixture(t)
	f.invitations.Register(testGroup, testOrganizer, "organizer")
	f.invitations.StartInvitation(testGroup, testOrganizer, "organizer")

	prompt, err := f.invitations.SelectOrganizerOffice(testGroup, testOrganizer, 2)
	if err != nil {
		t.Fatalf("SelectOrganizerOffice() error = %v", err)
	}
	if prompt.Text != noMembersText || prompt.HasKeyboard() {
		t.Fatalf("prompt = %+v, want the no-members notice", prompt)
	}
}

func TestConfirmInvitationMarksPending(t *testing.T) {
	f := newFixture(t)
	f.invite(t, 0, 2, 3)

	responses, err := f.invitations.Responses(testGroup)
	if err != nil {
		t.Fatalf("Responses() error = %v", err)
	}
	if len(responses) != 2 || responses[2] != domain.ResponsePending || responses[3] != domain.ResponsePending {
		t.Fatalf("responses = %v, want both pending", responses)
	}

	// the invitee list is frozen once dispatched
	if _, err := f.invitations.ToggleInvitee(testGroup, testOrganizer, 2); !errors.Is(err, domain.ErrInvitationNotFound) {
		t.Fatalf("ToggleInvitee() after dispatch error = %v, want ErrInvitationNotFound", err)
	}
}

func TestRespondDeclineAndOverwrite(t *testing.T) {
	f := newFixture(t)
	invitationID := f.invite(t, 0, 2)

	decision, err := f.invitations.Respond(invitationID, 2, domain.ResponseDeclined)
	if err != nil {
		t.Fatalf("Respond(declined) error = %v", err)
	}
	if decision.Survey != nil || decision.OrganizerID != testOrganizer || decision.GroupID != testGroup {
		t.Fatalf("decision = %+v", decision)
	}
	if _, err := f.survey.Enter(testGroup, 2); !errors.Is(err, domain.ErrNotInvited) {
		t.Fatalf("Enter() after declining error = %v, want ErrNotInvited", err)
	}

	if _, err := f.invitations.Respond(invitationID, 2, domain.ResponseAccepted); err != nil {
		t.Fatalf("Respond(accepted) error = %v", err)
	}
	responses, _ := f.invitations.Responses(testGroup)
	if responses[2] != domain.ResponseAccepted {
		t.Fatalf("response = %q, want accepted", responses[2])
	}
}

func TestRespondRejectsStrangers(t *testing.T) {
	f := newFixture(t)
	invitationID := f.invite(t, 0, 2)
	f.invitations.Register(testGroup, 3, "late")

	if _, err := f.invitations.Respond(invitationID, 3, domain.ResponseAccepted); !errors.Is(err, domain.ErrNotInvited) {
		t.Fatalf("Respond() by non-invitee error = %v, want ErrNotInvited", err)
	}
	if _, err := f.invitations.Respond("no-such-invitation", 2, domain.ResponseAccepted); !errors.Is(err, domain.ErrInvitationNotFound) {
		t.Fatalf("Respond(unknown) error = %v, want ErrInvitationNotFound", err)
	}
}

func TestReinvitationSupersedesPrevious(t *testing.T) {
	f := newFixture(t)
	first := f.invite(t, 0, 2)
	second := f.invite(t, 0, 2)

	if first == second {
		t.Fatal("invitation ids must differ")
	}
	if _, err := f.invitations.Respond(first, 2, domain.ResponseAccepted); !errors.Is(err, domain.ErrInvitationNotFound) {
		t.Fatalf("Respond(old) error = %v, want ErrInvitationNotFound", err)
	}
	if _, err := f.invitations.Respond(second, 2, domain.ResponseAccepted); err != nil {
		t.Fatalf("Respond(current) error = %v", err)
	}
}

func TestInvitationPrompt(t *testing.T) {
	prompt := InvitationPrompt(Dispatch{InvitationID: "abc-123", OrganizerName: "Kate"})

	if !hasAction(prompt, "accept_abc-123") || !hasAction(prompt, "decline_abc-123") {
		t.Fatalf("keyboard = %+v", prompt.Keyboard)
	}
}
