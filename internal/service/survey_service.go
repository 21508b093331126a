package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/glebk/lunch-buddy/internal/catalog"
	"github.com/glebk/lunch-buddy/internal/domain"
	"github.com/glebk/lunch-buddy/internal/store"
)

const (
	selectedMark = "✅ "
	backLabel    = "⬅️ Back"
	nextLabel    = "➡️ Next"
	skipLabel    = "⏭ Skip"

	positivePrompt = "✍️ Anything you would especially like? Describe it in one message."
	negativePrompt = "🙅 Anything you would rather avoid? Describe it in one message."
	finishedText   = "The survey is finished, thank you!\n\nGo back to the group and use /results to see the summary."
)

// SurveyService drives each respondent through the survey stages
type SurveyService struct {
	store   *store.Store
	cursors *store.Cursors
	catalog *catalog.Catalog
}

// NewSurveyService creates a new SurveyService
func NewSurveyService(st *store.Store, cursors *store.Cursors, cat *catalog.Catalog) *SurveyService {
	return &SurveyService{
		store:   st,
		cursors: cursors,
		catalog: cat,
	}
}

// Enter starts (or restarts) the survey of a group for a user. Invitees
// must have accepted the live invitation; the organizer is always let in.
// Previous answers are reset except the organizer's office.
func (s *SurveyService) Enter(groupID, userID int64) (domain.Prompt, error) {
	session, ok := s.store.Get(groupID)
	if !ok {
		return domain.Prompt{}, fmt.Errorf("%w: %d", domain.ErrGroupNotFound, groupID)
	}

	var cursor domain.Cursor
	var prompt domain.Prompt
	err := session.Update(func(st *domain.GroupState) error {
		organizer, allowed := mayTakePart(st, userID)
		if !allowed {
			return fmt.Errorf("%w: user %d in group %d", domain.ErrNotInvited, userID, groupID)
		}

		if organizer {
			st.ResetUser(userID, domain.StageOffice)
		} else {
			st.ResetUser(userID)
		}
		st.AddParticipant(userID)

		cursor = domain.Cursor{GroupID: groupID, Stage: s.catalog.First()}
		if _, hasOffice := st.Single(domain.StageOffice, userID); organizer && hasOffice {
			cursor.SkipOffice = true
			cursor.Stage, _ = s.catalog.Next(domain.StageOffice)
		}

		var err error
		prompt, err = s.renderStage(st, cursor, userID, cursor.Stage)
		return err
	})
	if err != nil {
		return domain.Prompt{}, err
	}

	s.cursors.Set(userID, cursor)
	return prompt, nil
}

// Select records an option for the user at a button stage and re-renders
// that stage. The cursor does not move.
func (s *SurveyService) Select(userID int64, stage domain.Stage, index int) (domain.Prompt, error) {
	q, ok := s.catalog.Question(stage)
	if !ok {
		return domain.Prompt{}, fmt.Errorf("%w: %q", domain.ErrUnknownStage, stage)
	}
	option, err := s.catalog.Option(stage, index)
	if err != nil {
		return domain.Prompt{}, err
	}

	var prompt domain.Prompt
	err = s.withCursor(userID, func(cursor *domain.Cursor, st *domain.GroupState) (bool, error) {
		if cursor.Awaiting != "" {
			return true, fmt.Errorf("%w: %q while a free-form answer is expected", domain.ErrUnknownStage, stage)
		}
		if stage == domain.StageOffice && cursor.SkipOffice {
			return true, fmt.Errorf("%w: office is set by the organizer", domain.ErrUnknownStage)
		}

		switch q.Kind {
		case domain.SelectionSingle:
			st.SetSingle(stage, userID, option.Label)
		case domain.SelectionMulti:
			st.ToggleMulti(stage, userID, option.Label)
		}

		var err error
		prompt, err = s.renderStage(st, *cursor, userID, stage)
		return true, err
	})
	return prompt, err
}

// Advance moves the user forward to the stage after the current one
func (s *SurveyService) Advance(userID int64, target domain.Stage) (domain.Prompt, error) {
	return s.navigate(userID, target, true)
}

// Retreat moves the user back to the stage before the current one
func (s *SurveyService) Retreat(userID int64, target domain.Stage) (domain.Prompt, error) {
	return s.navigate(userID, target, false)
}

func (s *SurveyService) navigate(userID int64, target domain.Stage, forward bool) (domain.Prompt, error) {
	if _, ok := s.catalog.Question(target); !ok && target != domain.StageFinish {
		return domain.Prompt{}, fmt.Errorf("%w: %q", domain.ErrUnknownStage, target)
	}

	var prompt domain.Prompt
	err := s.withCursor(userID, func(cursor *domain.Cursor, st *domain.GroupState) (bool, error) {
		if !s.adjacent(cursor.Stage, target, forward) {
			return true, fmt.Errorf("%w: %q is not next to %q", domain.ErrUnknownStage, target, cursor.Stage)
		}
		if target == domain.StageOffice && cursor.SkipOffice {
			return true, fmt.Errorf("%w: office is set by the organizer", domain.ErrUnknownStage)
		}

		if target == domain.StageFinish {
			prompt = s.openFreeform(cursor, domain.FreeformPositive)
			return true, nil
		}

		var err error
		prompt, err = s.renderStage(st, *cursor, userID, target)
		if err != nil {
			return true, err
		}
		cursor.Stage = target
		cursor.Awaiting = ""
		return true, nil
	})
	return prompt, err
}

// adjacent reports whether to is the stage right after (or before) from.
// Both free-form prompts sit at the finish stage.
func (s *SurveyService) adjacent(from, to domain.Stage, forward bool) bool {
	if from == domain.StageFreeformPositive || from == domain.StageFreeformNegative {
		from = domain.StageFinish
	}
	step := s.catalog.Prev
	if forward {
		step = s.catalog.Next
	}
	stage, ok := step(from)
	return ok && stage == to
}

// OpenFreeform switches between the free-form prompts
func (s *SurveyService) OpenFreeform(userID int64, kind domain.FreeformKind) (domain.Prompt, error) {
	var prompt domain.Prompt
	err := s.withCursor(userID, func(cursor *domain.Cursor, _ *domain.GroupState) (bool, error) {
		if cursor.Awaiting == "" {
			return true, fmt.Errorf("%w: %q outside the free-form step", domain.ErrUnknownStage, freeformStage(kind))
		}
		prompt = s.openFreeform(cursor, kind)
		return true, nil
	})
	return prompt, err
}

// SkipFreeform leaves the current free-form prompt without an answer
func (s *SurveyService) SkipFreeform(userID int64) (domain.Prompt, error) {
	var prompt domain.Prompt
	err := s.withCursor(userID, func(cursor *domain.Cursor, _ *domain.GroupState) (bool, error) {
		switch cursor.Awaiting {
		case domain.FreeformPositive:
			prompt = s.openFreeform(cursor, domain.FreeformNegative)
			return true, nil
		case domain.FreeformNegative:
			prompt = domain.Prompt{Text: finishedText}
			return false, nil
		}
		return true, fmt.Errorf("%w: skip outside the free-form step", domain.ErrUnknownStage)
	})
	return prompt, err
}

// AnswerFreeform stores a plain-text message if the user is in the
// free-form sub-dialog. handled is false when the message is not expected.
func (s *SurveyService) AnswerFreeform(userID int64, text string) (prompt domain.Prompt, handled bool, err error) {
	if cursor, ok := s.cursors.Get(userID); !ok || cursor.Awaiting == "" {
		return domain.Prompt{}, false, nil
	}

	text = strings.TrimSpace(text)
	err = s.withCursor(userID, func(cursor *domain.Cursor, st *domain.GroupState) (bool, error) {
		kind := cursor.Awaiting
		if kind == "" {
			return true, nil
		}
		handled = true
		if text != "" {
			st.AppendFreeform(kind, userID, text)
		}
		if kind == domain.FreeformPositive {
			prompt = s.openFreeform(cursor, domain.FreeformNegative)
			return true, nil
		}
		prompt = domain.Prompt{Text: finishedText}
		return false, nil
	})
	if errors.Is(err, domain.ErrNoActiveSurvey) {
		return domain.Prompt{}, false, nil
	}
	if err != nil {
		return domain.Prompt{}, true, err
	}
	return prompt, handled, nil
}

// Cursor exposes the user's cursor
func (s *SurveyService) Cursor(userID int64) (domain.Cursor, bool) {
	return s.cursors.Get(userID)
}

// withCursor runs fn with the user's cursor and the state of its group
// while holding both. A user who may no longer take part in the group's
// survey loses the cursor and gets ErrNotInvited.
func (s *SurveyService) withCursor(userID int64, fn func(cursor *domain.Cursor, st *domain.GroupState) (keep bool, err error)) error {
	found, err := s.cursors.Update(userID, func(cursor *domain.Cursor) (bool, error) {
		session, ok := s.store.Get(cursor.GroupID)
		if !ok {
			return false, fmt.Errorf("%w: %d", domain.ErrGroupNotFound, cursor.GroupID)
		}

		keep := true
		err := session.Update(func(st *domain.GroupState) error {
			if _, allowed := mayTakePart(st, userID); !allowed {
				keep = false
				return fmt.Errorf("%w: user %d in group %d", domain.ErrNotInvited, userID, cursor.GroupID)
			}
			var err error
			keep, err = fn(cursor, st)
			return err
		})
		return keep, err
	})
	if !found {
		return fmt.Errorf("%w: user %d", domain.ErrNoActiveSurvey, userID)
	}
	return err
}

// mayTakePart reports whether the user is the organizer of the live
// invitation or has accepted it
func mayTakePart(st *domain.GroupState, userID int64) (organizer, allowed bool) {
	if id, ok := st.OrganizerID(); ok && id == userID {
		return true, true
	}
	inv := st.Invitation
	return false, inv != nil && inv.Responses[userID] == domain.ResponseAccepted
}

// openFreeform arms capture of the next plain-text message for a category
func (s *SurveyService) openFreeform(cursor *domain.Cursor, kind domain.FreeformKind) domain.Prompt {
	cursor.Awaiting = kind
	cursor.Stage = freeformStage(kind)
	return s.freeformPrompt(kind)
}

// renderStage builds the prompt of a button stage with the user's
// recorded selections marked
func (s *SurveyService) renderStage(st *domain.GroupState, cursor domain.Cursor, userID int64, stage domain.Stage) (domain.Prompt, error) {
	q, ok := s.catalog.Question(stage)
	if !ok {
		return domain.Prompt{}, fmt.Errorf("%w: %q", domain.ErrUnknownStage, stage)
	}

	selected := st.SelectedBy(stage, userID)
	keyboard := make([][]domain.Button, 0, len(q.Options)+1)
	for i, option := range q.Options {
		label := option.Label
		if selected[option.Label] {
			label = selectedMark + label
		}
		action := domain.Action{Kind: domain.ActionSelect, Stage: stage, Index: i}
		keyboard = append(keyboard, []domain.Button{{Label: label, Action: action.Token()}})
	}

	var nav []domain.Button
	if prev, ok := s.catalog.Prev(stage); ok && !(prev == domain.StageOffice && cursor.SkipOffice) {
		nav = append(nav, domain.Button{Label: backLabel, Action: domain.Action{Kind: domain.ActionRetreat, Stage: prev}.Token()})
	}
	if next, ok := s.catalog.Next(stage); ok {
		nav = append(nav, domain.Button{Label: nextLabel, Action: domain.Action{Kind: domain.ActionAdvance, Stage: next}.Token()})
	}
	if len(nav) > 0 {
		keyboard = append(keyboard, nav)
	}

	return domain.Prompt{Text: q.Prompt, Keyboard: keyboard}, nil
}

func freeformStage(kind domain.FreeformKind) domain.Stage {
	if kind == domain.FreeformNegative {
		return domain.StageFreeformNegative
	}
	return domain.StageFreeformPositive
}

// freeformPrompt offers a skip button and a way back to the previous step
func (s *SurveyService) freeformPrompt(kind domain.FreeformKind) domain.Prompt {
	text := positivePrompt
	back := domain.Action{Kind: domain.ActionRetreat}
	back.Stage, _ = s.catalog.Prev(domain.StageFinish)
	if kind == domain.FreeformNegative {
		text = negativePrompt
		back = domain.Action{Kind: domain.ActionFreeformPositive}
	}
	return domain.Prompt{
		Text: text,
		Keyboard: [][]domain.Button{{
			{Label: backLabel, Action: back.Token()},
			{Label: skipLabel, Action: domain.Action{Kind: domain.ActionFreeformSkip}.Token()},
		}},
	}
}
