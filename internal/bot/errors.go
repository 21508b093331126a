package bot

import (
	"errors"
	"log"

	"github.com/glebk/lunch-buddy/internal/domain"
)

var userMessages = []struct {
	err  error
	text string
}{
	{domain.ErrInvalidSelection, "⚠️ This option is not available"},
	{domain.ErrUnknownStage, "⚠️ This step is not available"},
	{domain.ErrUnknownAction, "⚠️ Unknown button"},
	{domain.ErrEmptySelection, "⚠️ Pick at least one member first"},
	{domain.ErrInvitationNotFound, "⌛ This invitation is no longer active"},
	{domain.ErrNotInvited, "⛔️ You are not invited to this survey"},
	{domain.ErrWrongChatContext, "⚠️ This is not available in this chat"},
	{domain.ErrGroupNotFound, "📭 There is no lunch survey in this group yet. Start one with /invite"},
	{domain.ErrNoParticipants, "📭 Nobody has answered the survey yet"},
	{domain.ErrNotOrganizer, "⛔️ Only the organizer can do this"},
	{domain.ErrNotRegistered, "⚠️ Only registered members can be invited"},
	{domain.ErrNoActiveSurvey, "⚠️ You have no survey in progress. Open it again from the invitation"},
}

// userMessage turns a service error into the text shown to the user.
// Unexpected errors are logged.
func userMessage(err error) string {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.text
		}
	}
	log.Printf("Error handling update: %v", err)
	return "❌ Something went wrong. Please try again later"
}
