package bot

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabot/internal/database"
	"github.com/example/vocabot/internal/excel"
	"github.com/example/vocabot/internal/i18n"
	"github.com/example/vocabot/internal/translation"
	"github.com/example/vocabot/pkg/models"
)

// Bot represents the Telegram bot application
type Bot struct {
	api         *tgbotapi.BotAPI
	users       *database.UserRepository
	words       *database.WordRepository
	reviews     *database.ReviewRepository
	sessions    *database.SessionRepository
	coordinator *Coordinator
	translator  *translation.Client
	importer    *excel.Importer

	adminUserIDs map[int64]bool

	mu             sync.Mutex
	awaitingImport map[int64]bool
}

// New connects to Telegram and builds the bot over the shared
// repositories. The client must exist before Start: the worker starts
// ticking right away and sends through this bot.
func New(words *database.WordRepository, translator *translation.Client) (*Bot, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}
	if database.DB == nil {
		return nil, fmt.Errorf("database connection is not established")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %v", err)
	}
	log.Printf("Authorized on account %s", api.Self.UserName)

	users := database.NewUserRepository()
	reviews := database.NewReviewRepository()
	sessions := database.NewSessionRepository()

	bot := &Bot{
		api:            api,
		users:          users,
		words:          words,
		reviews:        reviews,
		sessions:       sessions,
		coordinator:    NewCoordinator(reviews, sessions, users),
		translator:     translator,
		importer:       excel.NewImporter(words),
		adminUserIDs:   make(map[int64]bool),
		awaitingImport: make(map[int64]bool),
	}

	adminIDs := os.Getenv("ADMIN_USER_IDS")
	if adminIDs != "" {
		for _, idStr := range strings.Split(adminIDs, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
			if err != nil {
				log.Printf("Warning: Invalid admin user ID: %s", idStr)
				continue
			}
			bot.adminUserIDs[id] = true
		}
	}

	return bot, nil
}

// Start processes updates until the channel closes.
func (b *Bot) Start() error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	for update := range updates {
		go b.handleUpdate(update)
	}
	return nil
}

// Stop gracefully stops the bot
func (b *Bot) Stop() {
	if b.api != nil {
		b.api.StopReceivingUpdates()
	}
	log.Println("Bot stopped")
}

// SendText implements the worker's outbound channel. The error must reach
// the caller so a failed prompt can release its session claim.
func (b *Bot) SendText(userID int64, text string) error {
	if b.api == nil {
		return fmt.Errorf("telegram client is not connected")
	}
	msg := tgbotapi.NewMessage(userID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message to %d: %v", chatID, err)
	}
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message to %d: %v", chatID, err)
	}
}

func (b *Bot) isAdmin(userID int64) bool {
	return b.adminUserIDs[userID]
}

// awaitingImport is touched from per-update goroutines, hence the lock.
func (b *Bot) setAwaitingImport(userID int64, waiting bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if waiting {
		b.awaitingImport[userID] = true
		return
	}
	delete(b.awaitingImport, userID)
}

func (b *Bot) isAwaitingImport(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.awaitingImport[userID]
}

// lang resolves the interface language: session payload first, then the
// stored user preference, then Russian.
func (b *Bot) lang(user *models.User, session *models.UserSession) i18n.Lang {
	if session != nil && i18n.HasLang(session.Payload.Lang) {
		return i18n.Lang(session.Payload.Lang)
	}
	if user != nil && i18n.HasLang(user.Language) {
		return i18n.Lang(user.Language)
	}
	return i18n.LangRu
}

func langKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇷🇺 Русский", "lang:ru"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇺🇿 O‘zbek tili", "lang:uz"),
		),
	)
}

func nextKeyboard(lang i18n.Lang) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "btn.next"), "onboarding:next"),
		),
	)
}

func gradeKeyboard(lang i18n.Lang) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "btn.gradeHard"), "grade:HARD"),
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "btn.gradeGood"), "grade:GOOD"),
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "btn.gradeEasy"), "grade:EASY"),
		),
	)
}

func confirmKeyboard(lang i18n.Lang) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "btn.confirmOk"), "add:confirm"),
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "btn.confirmEdit"), "add:edit"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "btn.cancel"), "add:cancel"),
		),
	)
}

func settingsKeyboard(lang i18n.Lang, user *models.User) tgbotapi.InlineKeyboardMarkup {
	notifyLabel := i18n.T(lang, "btn.notifyOff")
	if user.NotificationsEnabled {
		notifyLabel = i18n.T(lang, "btn.notifyOn")
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "btn.interval"), "settings:interval"),
			tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, "btn.limit"), "settings:limit"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(notifyLabel, "settings:notify"),
		),
	)
}

// showSettings renders the settings card with the current values.
func (b *Bot) showSettings(chatID int64, user *models.User, lang i18n.Lang) {
	notifyLine := i18n.T(lang, "settings.notificationsOff")
	if user.NotificationsEnabled {
		notifyLine = i18n.T(lang, "settings.notificationsOn")
	}
	text := i18n.T(lang, "settings.title") + "\n\n" +
		notifyLine + "\n" +
		i18n.T(lang, "settings.intervalLine", i18n.Params{"value": user.NotificationIntervalMinutes}) + "\n" +
		i18n.T(lang, "settings.limitLine", i18n.Params{"value": user.MaxNotificationsPerDay})
	b.sendWithKeyboard(chatID, text, settingsKeyboard(lang, user))
}
