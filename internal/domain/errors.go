package domain

import "errors"

// Errors returned by the survey, invitation and summary services.
// None of them leaves shared state modified.
var (
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrUnknownStage       = errors.New("unknown stage")
	ErrUnknownAction      = errors.New("unknown action")
	ErrEmptySelection     = errors.New("no invitees selected")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrNotInvited         = errors.New("user is not invited")
	ErrWrongChatContext   = errors.New("command used in the wrong chat")
	ErrGroupNotFound      = errors.New("group not found")
	ErrNoParticipants     = errors.New("no participants yet")
	ErrNotOrganizer       = errors.New("only the organizer can do this")
	ErrNotRegistered      = errors.New("user is not registered in the group")
	ErrNoActiveSurvey     = errors.New("no active survey")

	ErrRecommendationUnavailable = errors.New("recommendations not available")
)
