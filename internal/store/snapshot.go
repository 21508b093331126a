package store

import (
	"maps"

	"github.com/glebk/lunch-buddy/internal/domain"
)

// Snapshot returns a deep copy of the group state taken under the read lock
func (s *Session) Snapshot() *domain.GroupState {
	var cp *domain.GroupState
	s.View(func(st *domain.GroupState) {
		cp = Clone(st)
	})
	return cp
}

// Clone deep-copies a group state
func Clone(st *domain.GroupState) *domain.GroupState {
	cp := domain.NewGroupState(st.GroupID)

	for stage, answers := range st.SingleChoice {
		cp.SingleChoice[stage] = maps.Clone(answers)
	}
	for stage, options := range st.MultiChoice {
		copied := make(map[string]map[int64]struct{}, len(options))
		for option, voters := range options {
			copied[option] = maps.Clone(voters)
		}
		cp.MultiChoice[stage] = copied
	}
	cp.Participants = maps.Clone(st.Participants)
	for kind, lines := range st.Freeform {
		cp.Freeform[kind] = append([]domain.FreeformLine(nil), lines...)
	}
	cp.Members = maps.Clone(st.Members)

	if inv := st.Invitation; inv != nil {
		copied := *inv
		copied.Invitees = maps.Clone(inv.Invitees)
		copied.Responses = maps.Clone(inv.Responses)
		cp.Invitation = &copied
	}
	return cp
}
