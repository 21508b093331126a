package bot

import (
	"context"
	"fmt"
	"log"

	"github.com/glebk/lunch-buddy/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	action, err := domain.ParseAction(query.Data)
	if err != nil {
		b.answerCallback(query.ID, userMessage(err))
		return
	}
	if query.From == nil || query.Message == nil || query.Message.Chat == nil {
		b.answerCallback(query.ID, userMessage(domain.ErrWrongChatContext))
		return
	}

	switch action.Kind {
	case domain.ActionSelect, domain.ActionAdvance, domain.ActionRetreat,
		domain.ActionFreeformPositive, domain.ActionFreeformNegative, domain.ActionFreeformSkip:
		err = b.handleSurveyAction(query, action)
	case domain.ActionOrganizerOffice, domain.ActionInviteToggle:
		err = b.handlePickerAction(query, action)
	case domain.ActionInviteConfirm:
		err = b.handleInviteConfirm(ctx, query)
	case domain.ActionRespondAccept, domain.ActionRespondDecline:
		err = b.handleResponse(query, action)
	default:
		err = fmt.Errorf("%w: %q", domain.ErrUnknownAction, query.Data)
	}

	if err != nil {
		b.answerCallback(query.ID, userMessage(err))
		return
	}
	b.answerCallback(query.ID, "")
}

// handleSurveyAction moves a respondent through the survey in the private chat
func (b *Bot) handleSurveyAction(query *tgbotapi.CallbackQuery, action domain.Action) error {
	if !query.Message.Chat.IsPrivate() {
		return domain.ErrWrongChatContext
	}

	userID := query.From.ID
	var prompt domain.Prompt
	var err error
	switch action.Kind {
	case domain.ActionSelect:
		prompt, err = b.survey.Select(userID, action.Stage, action.Index)
	case domain.ActionAdvance:
		prompt, err = b.survey.Advance(userID, action.Stage)
	case domain.ActionRetreat:
		prompt, err = b.survey.Retreat(userID, action.Stage)
	case domain.ActionFreeformPositive:
		prompt, err = b.survey.OpenFreeform(userID, domain.FreeformPositive)
	case domain.ActionFreeformNegative:
		prompt, err = b.survey.OpenFreeform(userID, domain.FreeformNegative)
	case domain.ActionFreeformSkip:
		prompt, err = b.survey.SkipFreeform(userID)
	}
	if err != nil {
		return err
	}

	b.editPrompt(query.Message, prompt)
	return nil
}

// handlePickerAction edits the organizer's office and invitee picker in the group
func (b *Bot) handlePickerAction(query *tgbotapi.CallbackQuery, action domain.Action) error {
	if !isGroup(query.Message.Chat) {
		return domain.ErrWrongChatContext
	}

	groupID := query.Message.Chat.ID
	var prompt domain.Prompt
	var err error
	switch action.Kind {
	case domain.ActionOrganizerOffice:
		prompt, err = b.invitations.SelectOrganizerOffice(groupID, query.From.ID, action.Index)
	case domain.ActionInviteToggle:
		prompt, err = b.invitations.ToggleInvitee(groupID, query.From.ID, action.UserID)
	}
	if err != nil {
		return err
	}

	b.editPrompt(query.Message, prompt)
	return nil
}

func (b *Bot) handleInviteConfirm(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if !isGroup(query.Message.Chat) {
		return domain.ErrWrongChatContext
	}

	d, err := b.invitations.ConfirmInvitation(query.Message.Chat.ID, query.From.ID)
	if err != nil {
		return err
	}
	b.editPrompt(query.Message, d.Summary)

	delivered := b.dispatch(ctx, d)
	if missed := len(d.Invitees) - delivered; missed > 0 {
		b.sendMessage(d.GroupID, fmt.Sprintf(
			"⚠️ %d member(s) could not be reached. They need to press Start in a private chat with me: https://t.me/%s",
			missed, b.config.BotUsername))
	}
	return nil
}

// handleResponse records an invitee's answer and starts the survey on accept
func (b *Bot) handleResponse(query *tgbotapi.CallbackQuery, action domain.Action) error {
	if !query.Message.Chat.IsPrivate() {
		return domain.ErrWrongChatContext
	}

	status := domain.ResponseDeclined
	if action.Kind == domain.ActionRespondAccept {
		status = domain.ResponseAccepted
	}

	decision, err := b.invitations.Respond(action.InvitationID, query.From.ID, status)
	if err != nil {
		return err
	}

	name := displayName(query.From)
	log.Printf("User %d responded %s in group %d", query.From.ID, decision.Status, decision.GroupID)

	switch status {
	case domain.ResponseAccepted:
		b.editPrompt(query.Message, domain.Prompt{Text: "✅ You accepted the invitation"})
		if decision.Survey != nil {
			b.sendPrompt(query.Message.Chat.ID, *decision.Survey)
		}
		b.sendMessage(decision.GroupID, fmt.Sprintf("✅ %s is taking the lunch survey", name))
	case domain.ResponseDeclined:
		b.editPrompt(query.Message, domain.Prompt{Text: "❌ You declined the invitation"})
		b.sendMessage(decision.GroupID, fmt.Sprintf("❌ %s will skip lunch this time", name))
	}
	return nil
}
