package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/glebk/lunch-buddy/internal/config"
	"github.com/glebk/lunch-buddy/internal/domain"
	"github.com/glebk/lunch-buddy/internal/service"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Messenger is the part of the Telegram API the bot uses
type Messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Services are the application services the bot routes updates to
type Services struct {
	Survey      *service.SurveyService
	Invitations *service.InvitationService
	Summaries   *service.SummaryService
}

// Bot represents the Telegram bot
type Bot struct {
	api         Messenger
	survey      *service.SurveyService
	invitations *service.InvitationService
	summaries   *service.SummaryService
	config      *config.Config
}

// New creates a new Bot instance
func New(cfg *config.Config, services Services) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	log.Printf("Authorized on account %s", api.Self.UserName)
	if api.Self.UserName != "" {
		cfg.BotUsername = api.Self.UserName
	}

	return NewWithMessenger(api, cfg, services), nil
}

// NewWithMessenger creates a Bot on top of an existing API client
func NewWithMessenger(api Messenger, cfg *config.Config, services Services) *Bot {
	return &Bot{
		api:         api,
		survey:      services.Survey,
		invitations: services.Invitations,
		summaries:   services.Summaries,
		config:      cfg,
	}
}

// Start polls for updates until ctx is cancelled. Updates are handled
// concurrently.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.config.UpdateTimeout

	updates := b.api.GetUpdatesChan(u)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.HandleUpdate(ctx, update)
			}()
		}
	}
}

// HandleUpdate routes a single update
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message != nil {
		b.handleMessage(ctx, update.Message)
	} else if update.CallbackQuery != nil {
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	}
}

// handleMessage handles incoming messages
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil {
		return
	}

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	// plain text only matters inside the free-form sub-dialog
	if !message.Chat.IsPrivate() {
		return
	}
	prompt, handled, err := b.survey.AnswerFreeform(message.From.ID, message.Text)
	if !handled {
		return
	}
	if err != nil {
		b.sendMessage(message.Chat.ID, userMessage(err))
		return
	}
	b.sendPrompt(message.Chat.ID, prompt)
}

// handleCommand handles bot commands
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "register":
		b.handleRegister(message)
	case "invite":
		b.handleInvite(message)
	case "results", "summary":
		b.handleResults(ctx, message)
	case "help":
		b.handleHelp(message)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to learn more")
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	if isGroup(message.Chat) {
		b.sendMessage(message.Chat.ID, fmt.Sprintf(
			"🍽 Answer the lunch survey in a private chat with me:\n%s", b.config.StartLink(message.Chat.ID)))
		return
	}

	arg := strings.TrimSpace(message.CommandArguments())
	if groupID, ok := parseStartArgument(arg); ok {
		prompt, err := b.survey.Enter(groupID, message.From.ID)
		if err != nil {
			b.sendMessage(message.Chat.ID, userMessage(err))
			return
		}
		b.sendPrompt(message.Chat.ID, prompt)
		return
	}

	text := fmt.Sprintf(
		"👋 Hi, %s!\n\n"+
			"I help colleagues pick a place for lunch together.\n\n"+
			"Add me to your team's group, register there with /register "+
			"and start a survey with /invite. Invitations arrive in this chat.",
		message.From.FirstName,
	)
	b.sendMessage(message.Chat.ID, text)
}

// parseStartArgument decodes the "g<groupId>" deep-link payload
func parseStartArgument(arg string) (int64, bool) {
	raw, ok := strings.CutPrefix(arg, "g")
	if !ok || raw == "" {
		return 0, false
	}
	groupID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return groupID, true
}

func (b *Bot) handleRegister(message *tgbotapi.Message) {
	if !isGroup(message.Chat) {
		b.sendMessage(message.Chat.ID, userMessage(domain.ErrWrongChatContext))
		return
	}

	name := displayName(message.From)
	if err := b.invitations.Register(message.Chat.ID, message.From.ID, name); err != nil {
		log.Printf("Error registering user %d in group %d: %v", message.From.ID, message.Chat.ID, err)
		b.sendMessage(message.Chat.ID, userMessage(err))
		return
	}
	b.sendMessage(message.Chat.ID, fmt.Sprintf(
		"✅ %s is registered for lunch surveys. Press Start in a private chat with me to receive invitations: https://t.me/%s",
		name, b.config.BotUsername))
}

func (b *Bot) handleInvite(message *tgbotapi.Message) {
	if !isGroup(message.Chat) {
		b.sendMessage(message.Chat.ID, userMessage(domain.ErrWrongChatContext))
		return
	}
	if !b.config.IsWorkingHours() {
		b.sendMessage(message.Chat.ID, fmt.Sprintf(
			"⏰ Lunch surveys can only be started between %02d:00 and %02d:00.",
			b.config.WorkingHours.StartHour, b.config.WorkingHours.EndHour))
		return
	}

	prompt, err := b.invitations.StartInvitation(message.Chat.ID, message.From.ID, displayName(message.From))
	if err != nil {
		log.Printf("Error starting invitation in group %d: %v", message.Chat.ID, err)
		b.sendMessage(message.Chat.ID, userMessage(err))
		return
	}
	b.sendPrompt(message.Chat.ID, prompt)
}

func (b *Bot) handleResults(ctx context.Context, message *tgbotapi.Message) {
	if !isGroup(message.Chat) {
		b.sendMessage(message.Chat.ID, userMessage(domain.ErrWrongChatContext))
		return
	}

	summary, err := b.summaries.Summary(ctx, message.Chat.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrNoParticipants) && !errors.Is(err, domain.ErrGroupNotFound) {
			log.Printf("Error building summary for group %d: %v", message.Chat.ID, err)
		}
		b.sendMessage(message.Chat.ID, userMessage(err))
		return
	}
	b.sendMessage(message.Chat.ID, summary.Text)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	text := `Lunch Buddy - Help

In the group:
/register - Join the list of members who can be invited
/invite - Choose your office and invite colleagues to a lunch survey
/results - Show the group's preferences and recommended places
/start - Get a link to the survey

In a private chat:
Answer the invitation, then go through the questions with the buttons. ` +
		`At the end you can describe what you would like or rather avoid in your own words.`

	b.sendMessage(message.Chat.ID, text)
}

// sendMessage sends a simple text message
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

// answerCallback answers a callback query
func (b *Bot) answerCallback(callbackID string, text string) {
	callback := tgbotapi.NewCallback(callbackID, text)
	if _, err := b.api.Request(callback); err != nil {
		log.Printf("Error answering callback: %v", err)
	}
}

func isGroup(chat *tgbotapi.Chat) bool {
	return chat != nil && (chat.IsGroup() || chat.IsSuperGroup())
}

func displayName(user *tgbotapi.User) string {
	if user.UserName != "" {
		return "@" + user.UserName
	}
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		name = fmt.Sprintf("user%d", user.ID)
	}
	return name
}
