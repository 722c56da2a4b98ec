package bot

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabot/internal/database"
	"github.com/example/vocabot/internal/i18n"
	"github.com/example/vocabot/internal/spaced_repetition"
	"github.com/example/vocabot/pkg/models"
)

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message != nil {
		b.handleMessage(update.Message)
		return
	}
	if update.CallbackQuery != nil {
		b.handleCallback(update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID

	user, err := b.users.EnsureUser(userID)
	if err != nil {
		log.Printf("Error ensuring user %d: %v", userID, err)
		return
	}
	session, err := b.sessions.Ensure(userID)
	if err != nil {
		log.Printf("Error ensuring session for %d: %v", userID, err)
		return
	}
	lang := b.lang(user, session)

	if message.Document != nil && b.isAwaitingImport(userID) {
		b.handleImportDocument(message, user, lang)
		return
	}

	if message.IsCommand() {
		switch message.Command() {
		case "start":
			b.handleStart(chatID, userID)
		case "add":
			b.startAddFlow(chatID, userID, lang)
		case "settings":
			b.showSettings(chatID, user, lang)
		case "stats":
			b.handleStats(chatID, user, lang)
		case "cancel":
			if err := b.sessions.Reset(userID); err != nil {
				log.Printf("Error resetting session for %d: %v", userID, err)
			}
			b.send(chatID, i18n.T(lang, "add.cancelled"))
		case "import":
			if !b.isAdmin(userID) {
				return
			}
			b.setAwaitingImport(userID, true)
			b.send(chatID, i18n.T(lang, "import.ask"))
		default:
			b.send(chatID, i18n.T(lang, "session.lost"))
		}
		return
	}

	text := strings.TrimSpace(message.Text)
	if text == "" {
		return
	}

	// Кнопки нижнего меню приходят обычным текстом
	switch text {
	case i18n.T(i18n.LangRu, "btn.settings"), i18n.T(i18n.LangUz, "btn.settings"):
		b.showSettings(chatID, user, lang)
		return
	case i18n.T(i18n.LangRu, "btn.stats"), i18n.T(i18n.LangUz, "btn.stats"):
		b.handleStats(chatID, user, lang)
		return
	}

	b.handleText(chatID, user, session, lang, text)
}

// handleText dispatches free text on the session state machine.
func (b *Bot) handleText(chatID int64, user *models.User, session *models.UserSession, lang i18n.Lang, text string) {
	switch session.State {
	case models.StateWaitingAnswer:
		b.handleAnswerText(chatID, user, session, lang, text)
	case models.StateWaitingGrade:
		// The round cannot move on until the user grades it.
		b.sendWithKeyboard(chatID, i18n.T(lang, "answer.pickGrade"), gradeKeyboard(lang))
	case models.StateSettingsInterval:
		b.handleIntervalInput(chatID, user, session, lang, text)
	case models.StateSettingsLimit:
		b.handleLimitInput(chatID, user, lang, text)
	case models.StateAddWaitEn:
		b.handleNewWordText(chatID, user, lang, text)
	case models.StateAddWaitRuManual:
		b.handleManualTranslation(chatID, user, session, lang, text)
	case models.StateAddConfirm:
		b.sendWithKeyboard(chatID, i18n.T(lang, "add.confirmPrompt"), confirmKeyboard(lang))
	default:
		// Idle: a bare message is the fast path for adding a word.
		b.handleNewWordText(chatID, user, lang, text)
	}
}

// handleStart begins language onboarding.
func (b *Bot) handleStart(chatID, userID int64) {
	if err := b.sessions.Reset(userID); err != nil {
		log.Printf("Error resetting session for %d: %v", userID, err)
	}
	b.sendWithKeyboard(chatID, i18n.T(i18n.LangRu, "chooseLang"), langKeyboard())
}

func (b *Bot) startAddFlow(chatID, userID int64, lang i18n.Lang) {
	err := b.sessions.SetState(userID, models.StateAddWaitEn, database.SessionData{
		Payload: models.SessionPayload{Lang: string(lang)},
	})
	if err != nil {
		log.Printf("Error starting add flow for %d: %v", userID, err)
		return
	}
	b.send(chatID, i18n.T(lang, "add.enter"))
}

func (b *Bot) handleStats(chatID int64, user *models.User, lang i18n.Lang) {
	now := time.Now()
	if err := b.users.ResetProgressIfNeeded(user, now); err != nil {
		log.Printf("Error rolling progress for %d: %v", user.ID, err)
	}
	total, err := b.words.CountForUser(user.ID)
	if err != nil {
		log.Printf("Error counting words for %d: %v", user.ID, err)
		return
	}
	due, err := b.reviews.CountDueNow(user.ID, now)
	if err != nil {
		log.Printf("Error counting due reviews for %d: %v", user.ID, err)
		return
	}
	text := i18n.T(lang, "stats.title") + "\n\n" +
		i18n.T(lang, "stats.words", i18n.Params{"count": total}) + "\n" +
		i18n.T(lang, "stats.due", i18n.Params{"count": due}) + "\n" +
		i18n.T(lang, "stats.streak", i18n.Params{"days": user.StreakCount})
	b.send(chatID, text)
}

// handleAnswerText resolves a free-text answer to an outstanding card.
func (b *Bot) handleAnswerText(chatID int64, user *models.User, session *models.UserSession, lang i18n.Lang, text string) {
	outcome, err := b.coordinator.HandleAnswer(user, session, text, time.Now())
	if err != nil {
		log.Printf("Error handling answer from %d: %v", user.ID, err)
		return
	}
	if outcome.SessionLost {
		b.send(chatID, i18n.T(lang, "session.lost"))
		return
	}
	verdict := i18n.T(lang, "answer.correct")
	if !outcome.Correct {
		verdict = i18n.T(lang, "answer.incorrect") + "\n" +
			i18n.T(lang, "answer.correctIs", i18n.Params{"answer": outcome.Expected})
	}
	b.send(chatID, verdict)
	b.sendWithKeyboard(chatID, i18n.T(lang, "answer.pickGrade"), gradeKeyboard(lang))
}

func (b *Bot) handleIntervalInput(chatID int64, user *models.User, session *models.UserSession, lang i18n.Lang, text string) {
	value, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		b.send(chatID, i18n.T(lang, "settings.interval.needNumber"))
		return
	}
	if value < models.MinNotificationInterval || value > models.MaxNotificationInterval {
		b.send(chatID, i18n.T(lang, "settings.interval.outRange", i18n.Params{
			"min": models.MinNotificationInterval,
			"max": models.MaxNotificationInterval,
		}))
		return
	}
	if err := b.users.SetNotificationInterval(user.ID, value); err != nil {
		log.Printf("Error saving interval for %d: %v", user.ID, err)
		return
	}
	user.NotificationIntervalMinutes = value

	onboarding := session.Payload.Onboarding != nil
	if err := b.sessions.Reset(user.ID); err != nil {
		log.Printf("Error resetting session for %d: %v", user.ID, err)
	}
	if onboarding {
		b.send(chatID, i18n.T(lang, "onboarding.finished", i18n.Params{"value": value}))
		b.sendMenuTip(chatID, lang)
		return
	}
	b.send(chatID, i18n.T(lang, "settings.interval.saved", i18n.Params{"value": value}))
	b.showSettings(chatID, user, lang)
}

func (b *Bot) handleLimitInput(chatID int64, user *models.User, lang i18n.Lang, text string) {
	value, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		b.send(chatID, i18n.T(lang, "settings.limit.needNumber"))
		return
	}
	if value < models.MinDailyLimit || value > models.MaxDailyLimit {
		b.send(chatID, i18n.T(lang, "settings.limit.outRange", i18n.Params{
			"min": models.MinDailyLimit,
			"max": models.MaxDailyLimit,
		}))
		return
	}
	if err := b.users.SetNotificationLimit(user.ID, value); err != nil {
		log.Printf("Error saving limit for %d: %v", user.ID, err)
		return
	}
	user.MaxNotificationsPerDay = value
	if err := b.sessions.Reset(user.ID); err != nil {
		log.Printf("Error resetting session for %d: %v", user.ID, err)
	}
	b.send(chatID, i18n.T(lang, "settings.limit.saved", i18n.Params{"value": value}))
	b.showSettings(chatID, user, lang)
}

// sendMenuTip shows the persistent bottom menu after onboarding.
func (b *Bot) sendMenuTip(chatID int64, lang i18n.Lang) {
	msg := tgbotapi.NewMessage(chatID, i18n.T(lang, "onboarding.menuTip"))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(i18n.T(lang, "btn.settings")),
			tgbotapi.NewKeyboardButton(i18n.T(lang, "btn.stats")),
		),
	)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending menu tip to %d: %v", chatID, err)
	}
}

// handleNewWordText takes an English word and either suggests a
// translation or asks for a manual one.
func (b *Bot) handleNewWordText(chatID int64, user *models.User, lang i18n.Lang, text string) {
	word := strings.TrimSpace(text)
	existing, err := b.words.FindByText(user.ID, word)
	if err != nil {
		log.Printf("Error looking up word for %d: %v", user.ID, err)
		return
	}
	if existing != nil {
		b.send(chatID, i18n.T(lang, "add.exists", i18n.Params{
			"en": existing.WordEn,
			"ru": existing.TranslationRu,
		}))
		return
	}

	var suggestion string
	if b.translator != nil {
		suggestion = b.translator.Translate(word)
	}
	if suggestion == "" {
		err = b.sessions.SetState(user.ID, models.StateAddWaitRuManual, database.SessionData{
			Payload: models.SessionPayload{
				Lang:  string(lang),
				Draft: &models.WordDraft{WordEn: word},
			},
		})
		if err != nil {
			log.Printf("Error stashing word draft for %d: %v", user.ID, err)
			return
		}
		b.send(chatID, i18n.T(lang, "add.noSuggest", i18n.Params{"en": word}))
		return
	}

	err = b.sessions.SetState(user.ID, models.StateAddConfirm, database.SessionData{
		Payload: models.SessionPayload{
			Lang:  string(lang),
			Draft: &models.WordDraft{WordEn: word, TranslationRu: suggestion},
		},
	})
	if err != nil {
		log.Printf("Error stashing word draft for %d: %v", user.ID, err)
		return
	}
	b.sendWithKeyboard(chatID, i18n.T(lang, "add.suggest", i18n.Params{"tr": suggestion}), confirmKeyboard(lang))
}

func (b *Bot) handleManualTranslation(chatID int64, user *models.User, session *models.UserSession, lang i18n.Lang, text string) {
	draft := session.Payload.Draft
	if draft == nil {
		if err := b.sessions.Reset(user.ID); err != nil {
			log.Printf("Error resetting session for %d: %v", user.ID, err)
		}
		b.send(chatID, i18n.T(lang, "add.failSave"))
		return
	}
	b.saveWord(chatID, user, lang, draft.WordEn, text)
}

// saveWord persists the pair and reports the business outcome to the user.
func (b *Bot) saveWord(chatID int64, user *models.User, lang i18n.Lang, wordEn, translationRu string) {
	word, _, err := b.words.AddWordForUser(user, wordEn, translationRu, time.Now())

	if resetErr := b.sessions.Reset(user.ID); resetErr != nil {
		log.Printf("Error resetting session for %d: %v", user.ID, resetErr)
	}

	if err != nil {
		var limitErr *database.DailyWordLimitError
		switch {
		case errors.Is(err, database.ErrDuplicateWord):
			b.send(chatID, i18n.T(lang, "add.duplicate", i18n.Params{"en": strings.TrimSpace(wordEn)}))
		case errors.As(err, &limitErr):
			b.send(chatID, i18n.T(lang, "add.dailyLimit", i18n.Params{"limit": limitErr.Limit}))
		default:
			log.Printf("Error saving word for %d: %v", user.ID, err)
			b.send(chatID, i18n.T(lang, "add.error"))
		}
		return
	}
	b.send(chatID, i18n.T(lang, "add.saved", i18n.Params{
		"en": word.WordEn,
		"ru": word.TranslationRu,
	}))
}

// handleCallback handles callback queries from inline buttons
func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) {
	userID := callback.From.ID
	chatID := callback.Message.Chat.ID

	user, err := b.users.EnsureUser(userID)
	if err != nil {
		log.Printf("Error ensuring user %d: %v", userID, err)
		return
	}
	session, err := b.sessions.Ensure(userID)
	if err != nil {
		log.Printf("Error ensuring session for %d: %v", userID, err)
		return
	}
	lang := b.lang(user, session)

	// Снимаем "часики" с кнопки
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Printf("Error answering callback for %d: %v", userID, err)
	}

	data := callback.Data
	switch {
	case strings.HasPrefix(data, "lang:"):
		b.handleLanguageChoice(chatID, user, strings.TrimPrefix(data, "lang:"))
	case data == "onboarding:next":
		b.askOnboardingInterval(chatID, user, lang)
	case data == "settings:interval":
		b.askSettingsInterval(chatID, user, lang)
	case data == "settings:limit":
		b.askSettingsLimit(chatID, user, lang)
	case data == "settings:notify":
		b.toggleNotifications(chatID, user, lang)
	case strings.HasPrefix(data, "grade:"):
		b.handleGradeCallback(chatID, user, session, lang, strings.TrimPrefix(data, "grade:"))
	case data == "add:confirm":
		draft := session.Payload.Draft
		if draft == nil {
			if err := b.sessions.Reset(userID); err != nil {
				log.Printf("Error resetting session for %d: %v", userID, err)
			}
			b.send(chatID, i18n.T(lang, "add.failSave"))
			return
		}
		b.saveWord(chatID, user, lang, draft.WordEn, draft.TranslationRu)
	case data == "add:edit":
		draft := session.Payload.Draft
		if draft == nil {
			if err := b.sessions.Reset(userID); err != nil {
				log.Printf("Error resetting session for %d: %v", userID, err)
			}
			b.send(chatID, i18n.T(lang, "add.failSave"))
			return
		}
		err := b.sessions.SetState(userID, models.StateAddWaitRuManual, database.SessionData{
			Payload: models.SessionPayload{
				Lang:  string(lang),
				Draft: &models.WordDraft{WordEn: draft.WordEn},
			},
		})
		if err != nil {
			log.Printf("Error switching to manual translation for %d: %v", userID, err)
			return
		}
		b.send(chatID, i18n.T(lang, "add.manual"))
	case data == "add:cancel":
		if err := b.sessions.Reset(userID); err != nil {
			log.Printf("Error resetting session for %d: %v", userID, err)
		}
		b.send(chatID, i18n.T(lang, "add.cancelled"))
	}
}

func (b *Bot) handleLanguageChoice(chatID int64, user *models.User, code string) {
	if !i18n.HasLang(code) {
		return
	}
	if err := b.users.SetLanguage(user.ID, code); err != nil {
		log.Printf("Error saving language for %d: %v", user.ID, err)
		return
	}
	user.Language = code
	err := b.sessions.SetState(user.ID, models.StateIdle, database.SessionData{
		Payload: models.SessionPayload{Lang: code},
	})
	if err != nil {
		log.Printf("Error saving session lang for %d: %v", user.ID, err)
		return
	}
	lang := i18n.Lang(code)
	b.sendWithKeyboard(chatID, i18n.T(lang, "hint"), nextKeyboard(lang))
}

func (b *Bot) askOnboardingInterval(chatID int64, user *models.User, lang i18n.Lang) {
	err := b.sessions.SetState(user.ID, models.StateSettingsInterval, database.SessionData{
		Payload: models.SessionPayload{
			Lang:       string(lang),
			Onboarding: &models.OnboardingContext{Step: "interval", Lang: string(lang)},
		},
	})
	if err != nil {
		log.Printf("Error starting onboarding interval for %d: %v", user.ID, err)
		return
	}
	b.send(chatID, i18n.T(lang, "askInterval", i18n.Params{
		"min": models.MinNotificationInterval,
		"max": models.MaxNotificationInterval,
	}))
}

func (b *Bot) askSettingsInterval(chatID int64, user *models.User, lang i18n.Lang) {
	err := b.sessions.SetState(user.ID, models.StateSettingsInterval, database.SessionData{
		Payload: models.SessionPayload{Lang: string(lang)},
	})
	if err != nil {
		log.Printf("Error starting interval input for %d: %v", user.ID, err)
		return
	}
	b.send(chatID, i18n.T(lang, "settings.interval.ask", i18n.Params{
		"current": user.NotificationIntervalMinutes,
		"min":     models.MinNotificationInterval,
		"max":     models.MaxNotificationInterval,
	}))
}

func (b *Bot) askSettingsLimit(chatID int64, user *models.User, lang i18n.Lang) {
	err := b.sessions.SetState(user.ID, models.StateSettingsLimit, database.SessionData{
		Payload: models.SessionPayload{Lang: string(lang)},
	})
	if err != nil {
		log.Printf("Error starting limit input for %d: %v", user.ID, err)
		return
	}
	b.send(chatID, i18n.T(lang, "settings.limit.ask", i18n.Params{
		"current": user.MaxNotificationsPerDay,
		"min":     models.MinDailyLimit,
		"max":     models.MaxDailyLimit,
	}))
}

func (b *Bot) toggleNotifications(chatID int64, user *models.User, lang i18n.Lang) {
	enabled := !user.NotificationsEnabled
	if err := b.users.SetNotificationsEnabled(user.ID, enabled); err != nil {
		log.Printf("Error toggling notifications for %d: %v", user.ID, err)
		return
	}
	user.NotificationsEnabled = enabled
	b.showSettings(chatID, user, lang)
}

func (b *Bot) handleGradeCallback(chatID int64, user *models.User, session *models.UserSession, lang i18n.Lang, value string) {
	if !spaced_repetition.IsValidRating(value) {
		return
	}
	outcome, err := b.coordinator.HandleGrade(user, session, spaced_repetition.Rating(value), time.Now())
	if err != nil {
		log.Printf("Error handling grade from %d: %v", user.ID, err)
		return
	}
	if outcome.NoActive {
		b.send(chatID, i18n.T(lang, "grade.noActive"))
		return
	}
	if outcome.SessionLost {
		b.send(chatID, i18n.T(lang, "session.lost"))
		return
	}

	text := i18n.T(lang, "grade.accepted")
	if p := outcome.Progress; p != nil {
		if p.GoalReached {
			text += "\n" + i18n.T(lang, "grade.limitReached")
		} else {
			text += "\n" + i18n.T(lang, "grade.progress", i18n.Params{
				"done":  p.TodayCompleted,
				"limit": models.StreakDailyTarget,
				"left":  models.StreakDailyTarget - p.TodayCompleted,
			})
		}
	}
	b.send(chatID, text)
}
