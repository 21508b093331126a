package service

import (
	"fmt"
	"time"

	"github.com/glebk/lunch-buddy/internal/catalog"
	"github.com/glebk/lunch-buddy/internal/domain"
	"github.com/glebk/lunch-buddy/internal/store"
	"github.com/google/uuid"
)

const (
	confirmLabel = "📨 Send invitations"

	invitePickerText = "👥 Who should get the survey? Tap the members to invite and press \"Send invitations\"."
	noMembersText    = "👥 Nobody else has registered yet. Members join with /register, then run /invite again."
)

// Dispatch is what the transport needs to deliver a confirmed invitation
type Dispatch struct {
	InvitationID  string
	GroupID       int64
	OrganizerID   int64
	OrganizerName string
	Invitees      []domain.Member
	Summary       domain.Prompt
}

// Decision is the outcome of an invitee's reply
type Decision struct {
	GroupID     int64
	OrganizerID int64
	Status      domain.ResponseStatus
	// Survey is the first survey prompt, set when the invitee accepted
	Survey *domain.Prompt
}

// InvitationService handles group registration and invitation rounds
type InvitationService struct {
	store   *store.Store
	catalog *catalog.Catalog
	survey  *SurveyService
	now     func() time.Time
}

// NewInvitationService creates a new InvitationService
func NewInvitationService(st *store.Store, cat *catalog.Catalog, survey *SurveyService) *InvitationService {
	return &InvitationService{
		store:   st,
		catalog: cat,
		survey:  survey,
		now:     time.Now,
	}
}

// Register adds the user to the group's registered members or refreshes
// their display name
func (s *InvitationService) Register(groupID, userID int64, name string) error {
	session := s.store.GetOrCreate(groupID)
	return session.Update(func(st *domain.GroupState) error {
		st.Members[userID] = name
		return nil
	})
}

// StartInvitation opens a new invitation round in the group, replacing any
// previous one, and returns the organizer's office question
func (s *InvitationService) StartInvitation(groupID, organizerID int64, organizerName string) (domain.Prompt, error) {
	q, ok := s.catalog.Question(domain.StageOffice)
	if !ok {
		return domain.Prompt{}, fmt.Errorf("%w: %q", domain.ErrUnknownStage, domain.StageOffice)
	}

	inv := &domain.Invitation{
		ID:            uuid.NewString(),
		OrganizerID:   organizerID,
		OrganizerName: organizerName,
		State:         domain.InvitationComposing,
		Invitees:      make(map[int64]struct{}),
		CreatedAt:     s.now(),
	}

	var superseded string
	session := s.store.GetOrCreate(groupID)
	_ = session.Update(func(st *domain.GroupState) error {
		if st.Invitation != nil {
			superseded = st.Invitation.ID
		}
		st.Invitation = inv
		return nil
	})
	s.store.IndexInvitation(inv.ID, groupID, superseded)

	current, _ := s.currentOffice(session, organizerID)
	keyboard := make([][]domain.Button, 0, len(q.Options))
	for i, option := range q.Options {
		label := option.Label
		if option.Label == current {
			label = selectedMark + label
		}
		action := domain.Action{Kind: domain.ActionOrganizerOffice, Index: i}
		keyboard = append(keyboard, []domain.Button{{Label: label, Action: action.Token()}})
	}

	return domain.Prompt{
		Text:     fmt.Sprintf("%s, %s", organizerName, q.Prompt),
		Keyboard: keyboard,
	}, nil
}

// SelectOrganizerOffice records the organizer's office for the group and
// moves on to the invitee picker
func (s *InvitationService) SelectOrganizerOffice(groupID, actorID int64, index int) (domain.Prompt, error) {
	option, err := s.catalog.Option(domain.StageOffice, index)
	if err != nil {
		return domain.Prompt{}, err
	}
	session, ok := s.store.Get(groupID)
	if !ok {
		return domain.Prompt{}, fmt.Errorf("%w: %d", domain.ErrGroupNotFound, groupID)
	}

	var prompt domain.Prompt
	err = session.Update(func(st *domain.GroupState) error {
		inv, err := composing(st, actorID)
		if err != nil {
			return err
		}
		st.SetSingle(domain.StageOffice, actorID, option.Label)
		prompt = renderPicker(st, inv)
		return nil
	})
	return prompt, err
}

// ToggleInvitee adds or removes a registered member from the invitation
func (s *InvitationService) ToggleInvitee(groupID, actorID, inviteeID int64) (domain.Prompt, error) {
	session, ok := s.store.Get(groupID)
	if !ok {
		return domain.Prompt{}, fmt.Errorf("%w: %d", domain.ErrGroupNotFound, groupID)
	}

	var prompt domain.Prompt
	err := session.Update(func(st *domain.GroupState) error {
		inv, err := composing(st, actorID)
		if err != nil {
			return err
		}
		if _, ok := st.Members[inviteeID]; !ok || inviteeID == inv.OrganizerID {
			return fmt.Errorf("%w: user %d", domain.ErrNotRegistered, inviteeID)
		}

		if _, ok := inv.Invitees[inviteeID]; ok {
			delete(inv.Invitees, inviteeID)
		} else {
			inv.Invitees[inviteeID] = struct{}{}
		}
		prompt = renderPicker(st, inv)
		return nil
	})
	return prompt, err
}

// ConfirmInvitation freezes the invitee list, marks every invitee as
// pending and returns the list of private invitations to send
func (s *InvitationService) ConfirmInvitation(groupID, actorID int64) (Dispatch, error) {
	session, ok := s.store.Get(groupID)
	if !ok {
		return Dispatch{}, fmt.Errorf("%w: %d", domain.ErrGroupNotFound, groupID)
	}

	var d Dispatch
	err := session.Update(func(st *domain.GroupState) error {
		inv, err := composing(st, actorID)
		if err != nil {
			return err
		}
		if len(inv.Invitees) == 0 {
			return domain.ErrEmptySelection
		}

		inv.Responses = make(map[int64]domain.ResponseStatus, len(inv.Invitees))
		for id := range inv.Invitees {
			inv.Responses[id] = domain.ResponsePending
		}
		inv.State = domain.InvitationDispatched

		d = Dispatch{
			InvitationID:  inv.ID,
			GroupID:       groupID,
			OrganizerID:   inv.OrganizerID,
			OrganizerName: inv.OrganizerName,
		}
		for _, m := range st.SortedMembers() {
			if _, ok := inv.Invitees[m.ID]; ok {
				d.Invitees = append(d.Invitees, m)
			}
		}
		d.Summary = domain.Prompt{Text: fmt.Sprintf("📨 Invitations sent to %d member(s). Use /results any time to see the summary.", len(d.Invitees))}
		return nil
	})
	return d, err
}

// InvitationPrompt is the private message an invitee receives
func InvitationPrompt(d Dispatch) domain.Prompt {
	return domain.Prompt{
		Text: fmt.Sprintf("🍽 %s invites you to choose a place for lunch together. Will you take the survey?", d.OrganizerName),
		Keyboard: [][]domain.Button{{
			{Label: "✅ Yes", Action: domain.Action{Kind: domain.ActionRespondAccept, InvitationID: d.InvitationID}.Token()},
			{Label: "❌ No", Action: domain.Action{Kind: domain.ActionRespondDecline, InvitationID: d.InvitationID}.Token()},
		}},
	}
}

// Respond records an invitee's decision. Accepting enters the survey.
func (s *InvitationService) Respond(invitationID string, userID int64, status domain.ResponseStatus) (Decision, error) {
	if status != domain.ResponseAccepted && status != domain.ResponseDeclined {
		return Decision{}, fmt.Errorf("%w: response %q", domain.ErrUnknownAction, status)
	}

	groupID, ok := s.store.InvitationGroup(invitationID)
	if !ok {
		return Decision{}, fmt.Errorf("%w: %s", domain.ErrInvitationNotFound, invitationID)
	}
	session, ok := s.store.Get(groupID)
	if !ok {
		return Decision{}, fmt.Errorf("%w: %d", domain.ErrGroupNotFound, groupID)
	}

	decision := Decision{GroupID: groupID, Status: status}
	err := session.Update(func(st *domain.GroupState) error {
		inv := st.Invitation
		if inv == nil || inv.ID != invitationID {
			return fmt.Errorf("%w: %s", domain.ErrInvitationNotFound, invitationID)
		}
		if _, ok := inv.Responses[userID]; !ok {
			return fmt.Errorf("%w: user %d", domain.ErrNotInvited, userID)
		}
		inv.Responses[userID] = status
		decision.OrganizerID = inv.OrganizerID
		return nil
	})
	if err != nil {
		return Decision{}, err
	}

	if status == domain.ResponseAccepted {
		prompt, err := s.survey.Enter(groupID, userID)
		if err != nil {
			return decision, err
		}
		decision.Survey = &prompt
	}
	return decision, nil
}

// Responses returns a copy of the live invitation's responses
func (s *InvitationService) Responses(groupID int64) (map[int64]domain.ResponseStatus, error) {
	session, ok := s.store.Get(groupID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrGroupNotFound, groupID)
	}
	st := session.Snapshot()
	if st.Invitation == nil {
		return nil, fmt.Errorf("%w: group %d", domain.ErrInvitationNotFound, groupID)
	}
	return st.Invitation.Responses, nil
}

func (s *InvitationService) currentOffice(session *store.Session, userID int64) (string, bool) {
	var office string
	var ok bool
	session.View(func(st *domain.GroupState) {
		office, ok = st.Single(domain.StageOffice, userID)
	})
	return office, ok
}

// composing returns the invitation the actor may still edit
func composing(st *domain.GroupState, actorID int64) (*domain.Invitation, error) {
	inv := st.Invitation
	if inv == nil || inv.State != domain.InvitationComposing {
		return nil, fmt.Errorf("%w: no invitation is being composed", domain.ErrInvitationNotFound)
	}
	if inv.OrganizerID != actorID {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotOrganizer, actorID)
	}
	return inv, nil
}

func renderPicker(st *domain.GroupState, inv *domain.Invitation) domain.Prompt {
	var keyboard [][]domain.Button
	for _, m := range st.SortedMembers() {
		if m.ID == inv.OrganizerID {
			continue
		}
		label := m.Name
		if _, ok := inv.Invitees[m.ID]; ok {
			label = selectedMark + label
		}
		action := domain.Action{Kind: domain.ActionInviteToggle, UserID: m.ID}
		keyboard = append(keyboard, []domain.Button{{Label: label, Action: action.Token()}})
	}
	if len(keyboard) == 0 {
		return domain.Prompt{Text: noMembersText}
	}

	keyboard = append(keyboard, []domain.Button{{
		Label:  confirmLabel,
		Action: domain.Action{Kind: domain.ActionInviteConfirm}.Token(),
	}})
	return domain.Prompt{Text: invitePickerText, Keyboard: keyboard}
}
