package domain

import (
	"errors"
	"testing"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		token string
		want  Action
	}{
		{"cuisine_2", Action{Kind: ActionSelect, Stage: StageCuisine, Index: 2}},
		{"walk_time_0", Action{Kind: ActionSelect, Stage: StageWalkTime, Index: 0}},
		{"next_walk_time", Action{Kind: ActionAdvance, Stage: StageWalkTime}},
		{"prev_office", Action{Kind: ActionRetreat, Stage: StageOffice}},
		{"next_finish", Action{Kind: ActionAdvance, Stage: StageFinish}},
		{"orgoffice_1", Action{Kind: ActionOrganizerOffice, Stage: StageOffice, Index: 1}},
		{"invite_42", Action{Kind: ActionInviteToggle, UserID: 42}},
		{"invite_done", Action{Kind: ActionInviteConfirm}},
		{"accept_3f2a-11", Action{Kind: ActionRespondAccept, InvitationID: "3f2a-11"}},
		{"decline_3f2a-11", Action{Kind: ActionRespondDecline, InvitationID: "3f2a-11"}},
		{"freeform_positive", Action{Kind: ActionFreeformPositive}},
		{"freeform_negative", Action{Kind: ActionFreeformNegative}},
		{"freeform_skip", Action{Kind: ActionFreeformSkip}},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseAction(tt.token)
			if err != nil {
				t.Fatalf("ParseAction(%q) error = %v", tt.token, err)
			}
			if got != tt.want {
				t.Fatalf("ParseAction(%q) = %+v, want %+v", tt.token, got, tt.want)
			}
			if token := got.Token(); token != tt.token {
				t.Fatalf("Token() = %q, want %q", token, tt.token)
			}
		})
	}
}

func TestParseActionErrors(t *testing.T) {
	tests := []struct {
		token string
		want  error
	}{
		{"", ErrUnknownAction},
		{"cuisine", ErrUnknownAction},
		{"dessert_1", ErrUnknownAction},
		{"freeform_maybe", ErrUnknownAction},
		{"cuisine_", ErrUnknownAction},
		{"cuisine_x", ErrInvalidSelection},
		{"cuisine_-1", ErrInvalidSelection},
		{"orgoffice_x", ErrInvalidSelection},
		{"invite_bob", ErrInvalidSelection},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			_, err := ParseAction(tt.token)
			if !errors.Is(err, tt.want) {
				t.Fatalf("ParseAction(%q) error = %v, want %v", tt.token, err, tt.want)
			}
		})
	}
}
