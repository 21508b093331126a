package domain

import (
	"sort"
	"strings"
	"time"
)

// ResponseStatus represents how an invitee answered an invitation
type ResponseStatus string

const (
	ResponsePending  ResponseStatus = "pending"
	ResponseAccepted ResponseStatus = "accepted"
	ResponseDeclined ResponseStatus = "declined"
)

// InvitationState tracks whether the organizer is still picking invitees
type InvitationState string

const (
	InvitationComposing  InvitationState = "composing"
	InvitationDispatched InvitationState = "dispatched"
)

// Invitation is the live invitation round of a group
type Invitation struct {
	ID            string
	OrganizerID   int64
	OrganizerName string
	State         InvitationState
	Invitees      map[int64]struct{}
	Responses     map[int64]ResponseStatus
	CreatedAt     time.Time
}

// FreeformLine is one open-text answer
type FreeformLine struct {
	UserID int64
	Text   string
}

// GroupState holds everything recorded for one group.
// It is guarded by the owning store session and must not be shared
// outside of a lock.
type GroupState struct {
	GroupID      int64
	SingleChoice map[Stage]map[int64]string
	MultiChoice  map[Stage]map[string]map[int64]struct{}
	Participants map[int64]struct{}
	Freeform     map[FreeformKind][]FreeformLine
	Invitation   *Invitation
	Members      map[int64]string
}

// NewGroupState creates an empty group state
func NewGroupState(groupID int64) *GroupState {
	return &GroupState{
		GroupID:      groupID,
		SingleChoice: make(map[Stage]map[int64]string),
		MultiChoice:  make(map[Stage]map[string]map[int64]struct{}),
		Participants: make(map[int64]struct{}),
		Freeform:     make(map[FreeformKind][]FreeformLine),
		Members:      make(map[int64]string),
	}
}

// AddParticipant records that a user interacted with the survey
func (g *GroupState) AddParticipant(userID int64) {
	g.Participants[userID] = struct{}{}
}

// SetSingle overwrites the user's answer to a single-select question
func (g *GroupState) SetSingle(stage Stage, userID int64, option string) {
	answers, ok := g.SingleChoice[stage]
	if !ok {
		answers = make(map[int64]string)
		g.SingleChoice[stage] = answers
	}
	answers[userID] = option
	g.AddParticipant(userID)
}

// Single returns the user's answer to a single-select question
func (g *GroupState) Single(stage Stage, userID int64) (string, bool) {
	option, ok := g.SingleChoice[stage][userID]
	return option, ok
}

// ToggleMulti flips the user's vote for an option and reports whether the
// user is selected afterwards. Empty option sets are pruned.
func (g *GroupState) ToggleMulti(stage Stage, userID int64, option string) bool {
	g.AddParticipant(userID)

	options, ok := g.MultiChoice[stage]
	if !ok {
		options = make(map[string]map[int64]struct{})
		g.MultiChoice[stage] = options
	}

	voters, ok := options[option]
	if ok {
		if _, voted := voters[userID]; voted {
			delete(voters, userID)
			if len(voters) == 0 {
				delete(options, option)
			}
			if len(options) == 0 {
				delete(g.MultiChoice, stage)
			}
			return false
		}
	} else {
		voters = make(map[int64]struct{})
		options[option] = voters
	}

	voters[userID] = struct{}{}
	return true
}

// SelectedBy returns the options the user picked at a stage
func (g *GroupState) SelectedBy(stage Stage, userID int64) map[string]bool {
	selected := make(map[string]bool)
	if option, ok := g.Single(stage, userID); ok {
		selected[option] = true
	}
	for option, voters := range g.MultiChoice[stage] {
		if _, ok := voters[userID]; ok {
			selected[option] = true
		}
	}
	return selected
}

// AppendFreeform stores one open-text line
func (g *GroupState) AppendFreeform(kind FreeformKind, userID int64, text string) {
	g.AddParticipant(userID)
	g.Freeform[kind] = append(g.Freeform[kind], FreeformLine{UserID: userID, Text: text})
}

// FreeformText joins all lines of a category with newlines
func (g *GroupState) FreeformText(kind FreeformKind) string {
	lines := make([]string, 0, len(g.Freeform[kind]))
	for _, line := range g.Freeform[kind] {
		lines = append(lines, line.Text)
	}
	return strings.Join(lines, "\n")
}

// ResetUser removes the user's answers. Stages listed in keep are left
// untouched. The user stays a participant.
func (g *GroupState) ResetUser(userID int64, keep ...Stage) {
	kept := make(map[Stage]bool, len(keep))
	for _, stage := range keep {
		kept[stage] = true
	}

	for stage, answers := range g.SingleChoice {
		if kept[stage] {
			continue
		}
		delete(answers, userID)
		if len(answers) == 0 {
			delete(g.SingleChoice, stage)
		}
	}

	for stage, options := range g.MultiChoice {
		if kept[stage] {
			continue
		}
		for option, voters := range options {
			delete(voters, userID)
			if len(voters) == 0 {
				delete(options, option)
			}
		}
		if len(options) == 0 {
			delete(g.MultiChoice, stage)
		}
	}

	for kind, lines := range g.Freeform {
		remaining := lines[:0]
		for _, line := range lines {
			if line.UserID != userID {
				remaining = append(remaining, line)
			}
		}
		g.Freeform[kind] = remaining
	}
}

// OrganizerID returns the organizer of the live invitation
func (g *GroupState) OrganizerID() (int64, bool) {
	if g.Invitation == nil {
		return 0, false
	}
	return g.Invitation.OrganizerID, true
}

// Member is a registered group member
type Member struct {
	ID   int64
	Name string
}

// SortedMembers lists registered members ordered by name
func (g *GroupState) SortedMembers() []Member {
	members := make([]Member, 0, len(g.Members))
	for id, name := range g.Members {
		members = append(members, Member{ID: id, Name: name})
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].Name == members[j].Name {
			return members[i].ID < members[j].ID
		}
		return members[i].Name < members[j].Name
	})
	return members
}
