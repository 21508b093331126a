package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ActionKind enumerates the callback actions the bot understands
type ActionKind int

const (
	ActionSelect ActionKind = iota + 1
	ActionAdvance
	ActionRetreat
	ActionOrganizerOffice
	ActionInviteToggle
	ActionInviteConfirm
	ActionRespondAccept
	ActionRespondDecline
	ActionFreeformPositive
	ActionFreeformNegative
	ActionFreeformSkip
)

const (
	prefixNext      = "next"
	prefixPrev      = "prev"
	prefixOrgOffice = "orgoffice"
	prefixInvite    = "invite"
	prefixAccept    = "accept"
	prefixDecline   = "decline"
	prefixFreeform  = "freeform"

	inviteDone = "done"
	skip       = "skip"
)

// selectable lists the stages whose options are picked with "<stage>_<index>"
var selectable = map[Stage]bool{
	StageOffice:       true,
	StageCuisine:      true,
	StageRestrictions: true,
	StageBudget:       true,
	StageWalkTime:     true,
}

// Action is a parsed callback token. Only the fields relevant to Kind are set.
type Action struct {
	Kind         ActionKind
	Stage        Stage
	Index        int
	UserID       int64
	InvitationID string
}

// ParseAction decodes a callback token. Unrecognized prefixes yield
// ErrUnknownAction, malformed indices ErrInvalidSelection.
func ParseAction(token string) (Action, error) {
	// stage names may contain underscores
	if stage, ok := strings.CutPrefix(token, prefixNext+"_"); ok && stage != "" {
		return Action{Kind: ActionAdvance, Stage: Stage(stage)}, nil
	}
	if stage, ok := strings.CutPrefix(token, prefixPrev+"_"); ok && stage != "" {
		return Action{Kind: ActionRetreat, Stage: Stage(stage)}, nil
	}

	sep := strings.LastIndex(token, "_")
	if sep <= 0 || sep == len(token)-1 {
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, token)
	}
	prefix, arg := token[:sep], token[sep+1:]

	switch prefix {
	case prefixOrgOffice:
		index, err := parseIndex(token, arg)
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: ActionOrganizerOffice, Stage: StageOffice, Index: index}, nil

	case prefixInvite:
		if arg == inviteDone {
			return Action{Kind: ActionInviteConfirm}, nil
		}
		userID, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return Action{}, fmt.Errorf("%w: %q", ErrInvalidSelection, token)
		}
		return Action{Kind: ActionInviteToggle, UserID: userID}, nil

	case prefixAccept:
		return Action{Kind: ActionRespondAccept, InvitationID: arg}, nil

	case prefixDecline:
		return Action{Kind: ActionRespondDecline, InvitationID: arg}, nil

	case prefixFreeform:
		switch arg {
		case string(FreeformPositive):
			return Action{Kind: ActionFreeformPositive}, nil
		case string(FreeformNegative):
			return Action{Kind: ActionFreeformNegative}, nil
		case skip:
			return Action{Kind: ActionFreeformSkip}, nil
		}
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, token)
	}

	if selectable[Stage(prefix)] {
		index, err := parseIndex(token, arg)
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: ActionSelect, Stage: Stage(prefix), Index: index}, nil
	}

	return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, token)
}

func parseIndex(token, arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSelection, token)
	}
	return index, nil
}

// Token encodes the action back into a callback token
func (a Action) Token() string {
	switch a.Kind {
	case ActionSelect:
		return fmt.Sprintf("%s_%d", a.Stage, a.Index)
	case ActionAdvance:
		return prefixNext + "_" + string(a.Stage)
	case ActionRetreat:
		return prefixPrev + "_" + string(a.Stage)
	case ActionOrganizerOffice:
		return fmt.Sprintf("%s_%d", prefixOrgOffice, a.Index)
	case ActionInviteToggle:
		return fmt.Sprintf("%s_%d", prefixInvite, a.UserID)
	case ActionInviteConfirm:
		return prefixInvite + "_" + inviteDone
	case ActionRespondAccept:
		return prefixAccept + "_" + a.InvitationID
	case ActionRespondDecline:
		return prefixDecline + "_" + a.InvitationID
	case ActionFreeformPositive:
		return prefixFreeform + "_" + string(FreeformPositive)
	case ActionFreeformNegative:
		return prefixFreeform + "_" + string(FreeformNegative)
	case ActionFreeformSkip:
		return prefixFreeform + "_" + skip
	}
	return ""
}
