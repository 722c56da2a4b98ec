package worker

import (
	"log"
	"math/rand"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/vocabot/internal/database"
	"github.com/example/vocabot/internal/i18n"
	"github.com/example/vocabot/internal/timeutil"
	"github.com/example/vocabot/pkg/models"
)

const (
	// ReminderAfterMinutes — через столько минут без ответа шлем напоминание
	ReminderAfterMinutes = 5
	// SkipAfterMinutes — через столько минут карточка считается пропущенной
	SkipAfterMinutes = 20
)

// Sender delivers outbound messages. Failures must be returned, not
// swallowed, so the worker can revert the session claim.
type Sender interface {
	SendText(userID int64, text string) error
}

type userStore interface {
	GetAll() ([]models.User, error)
	ResetNotificationCountersIfNeeded(user *models.User, now time.Time) error
	RegisterNotification(user *models.User, now time.Time) error
}

type reviewStore interface {
	FindDueReview(userID int64, now time.Time) (*models.ReviewWithWord, error)
	LoadReviewWithWord(reviewID int64) (*models.ReviewWithWord, error)
	MarkSkipped(review *models.Review, now time.Time) error
}

type sessionStore interface {
	Get(userID int64) (*models.UserSession, error)
	SetState(userID int64, state models.SessionState, data database.SessionData) error
	SetActiveIfIdle(userID int64, state models.SessionState, data database.SessionData) (bool, error)
	Reset(userID int64) error
}

// Worker is the delivery loop: each tick it walks all users and decides,
// per user, whether to send a fresh review prompt, remind about an
// unanswered one, or time the current round out.
type Worker struct {
	users    userStore
	reviews  reviewStore
	sessions sessionStore
	sender   Sender

	now           func() time.Time
	pickDirection func() models.CardDirection

	scheduler *gocron.Scheduler
}

// New creates a worker over the real repositories.
func New(users *database.UserRepository, reviews *database.ReviewRepository, sessions *database.SessionRepository, sender Sender) *Worker {
	return newWorker(users, reviews, sessions, sender)
}

func newWorker(users userStore, reviews reviewStore, sessions sessionStore, sender Sender) *Worker {
	return &Worker{
		users:    users,
		reviews:  reviews,
		sessions: sessions,
		sender:   sender,
		now:      time.Now,
		pickDirection: func() models.CardDirection {
			if rand.Intn(2) == 0 {
				return models.DirectionEnToRu
			}
			return models.DirectionRuToEn
		},
	}
}

// Start runs the tick on a fixed period in the background.
func (w *Worker) Start(tickSeconds int) {
	if tickSeconds <= 0 {
		tickSeconds = 60
	}
	w.scheduler = gocron.NewScheduler(time.UTC)
	w.scheduler.Every(tickSeconds).Seconds().Do(w.Tick)
	w.scheduler.StartAsync()
	log.Printf("Worker started, tick every %d seconds", tickSeconds)
}

// Stop halts the background scheduler.
func (w *Worker) Stop() {
	if w.scheduler != nil {
		w.scheduler.Stop()
	}
}

// Tick processes every user once. One user's failure is logged and never
// aborts the pass for the others.
func (w *Worker) Tick() {
	users, err := w.users.GetAll()
	if err != nil {
		log.Printf("Worker: failed to load users: %v", err)
		return
	}
	now := w.now()
	for i := range users {
		if err := w.ProcessUser(&users[i], now); err != nil {
			log.Printf("Worker: user %d: %v", users[i].ID, err)
		}
	}
}

// ProcessUser runs the per-user decision tree for a single tick.
func (w *Worker) ProcessUser(user *models.User, now time.Time) error {
	// Сначала откатываем суточный счетчик, потом проверяем лимиты
	if err := w.users.ResetNotificationCountersIfNeeded(user, now); err != nil {
		return err
	}

	session, err := w.sessions.Get(user.ID)
	if err != nil {
		return err
	}

	switch session.State {
	case models.StateWaitingAnswer:
		return w.handleOutstandingPrompt(user, session, now)
	case models.StateWaitingGrade:
		// Grading resolves through the chat handler, not the clock.
		return nil
	case models.StateIdle:
		return w.trySendPrompt(user, session, now)
	default:
		// User is busy with another flow (adding a word, settings).
		return nil
	}
}

// handleOutstandingPrompt reminds about or times out a prompt that is
// still waiting for an answer.
func (w *Worker) handleOutstandingPrompt(user *models.User, session *models.UserSession, now time.Time) error {
	if session.SentAt == nil || session.ReviewID == nil {
		// Inconsistent round, drop it.
		return w.sessions.Reset(user.ID)
	}
	elapsed := now.Sub(*session.SentAt)

	if elapsed >= SkipAfterMinutes*time.Minute {
		review, err := w.reviews.LoadReviewWithWord(*session.ReviewID)
		if err != nil {
			return err
		}
		if review != nil {
			if err := w.reviews.MarkSkipped(&review.Review, now); err != nil {
				return err
			}
		}
		if err := w.sessions.Reset(user.ID); err != nil {
			return err
		}
		if w.notificationsPermitted(user, now) {
			if err := w.sender.SendText(user.ID, i18n.T(w.lang(user, session), "worker.skipped")); err != nil {
				log.Printf("Worker: user %d: failed to send skip notice: %v", user.ID, err)
			}
		}
		return nil
	}

	if elapsed >= ReminderAfterMinutes*time.Minute && session.ReminderStep == 0 && w.notificationsPermitted(user, now) {
		if err := w.sender.SendText(user.ID, i18n.T(w.lang(user, session), "worker.reminder")); err != nil {
			return err
		}
		// Напоминание шлем один раз за раунд
		return w.sessions.SetState(user.ID, models.StateWaitingAnswer, database.SessionData{
			ReviewID:     session.ReviewID,
			WordID:       session.WordID,
			Direction:    session.Direction,
			SentAt:       session.SentAt,
			ReminderStep: 1,
			Payload:      session.Payload,
		})
	}
	return nil
}

// trySendPrompt delivers the next due review if every gate allows it.
func (w *Worker) trySendPrompt(user *models.User, session *models.UserSession, now time.Time) error {
	if !w.notificationsPermitted(user, now) {
		return nil
	}
	if user.NotificationsSentToday >= user.MaxNotificationsPerDay {
		return nil
	}
	if user.LastNotificationAt != nil {
		spacing := user.NotificationIntervalMinutes
		if spacing < models.MinNotificationInterval {
			spacing = models.MinNotificationInterval
		}
		if now.Sub(*user.LastNotificationAt) < time.Duration(spacing)*time.Minute {
			return nil
		}
	}

	due, err := w.reviews.FindDueReview(user.ID, now)
	if err != nil {
		return err
	}
	if due == nil {
		log.Printf("Worker: user %d: no due reviews", user.ID)
		return nil
	}

	direction := w.pickDirection()
	sentAt := now.UTC()
	claimed, err := w.sessions.SetActiveIfIdle(user.ID, models.StateWaitingAnswer, database.SessionData{
		ReviewID:  &due.ID,
		WordID:    &due.WordID,
		Direction: &direction,
		SentAt:    &sentAt,
	})
	if err != nil {
		return err
	}
	if !claimed {
		// Кто-то успел занять сессию между проверкой и записью
		return nil
	}

	if err := w.sender.SendText(user.ID, w.promptText(w.lang(user, session), due, direction)); err != nil {
		// Do not leave the user stuck waiting for a message that never
		// arrived.
		if resetErr := w.sessions.Reset(user.ID); resetErr != nil {
			log.Printf("Worker: user %d: failed to revert session: %v", user.ID, resetErr)
		}
		return err
	}
	return w.users.RegisterNotification(user, now)
}

// notificationsPermitted checks the on/off flag and the local-time window.
func (w *Worker) notificationsPermitted(user *models.User, now time.Time) bool {
	if !user.NotificationsEnabled {
		return false
	}
	local := timeutil.UserNow(user.Timezone, now)
	return timeutil.IsWithinWindow(local, user.QuietHoursStartMinutes, user.QuietHoursEndMinutes)
}

func (w *Worker) promptText(lang i18n.Lang, due *models.ReviewWithWord, direction models.CardDirection) string {
	phrase := due.WordEn
	if direction == models.DirectionRuToEn {
		phrase = due.TranslationRu
	}
	return i18n.T(lang, "worker.verifyPrompt", i18n.Params{"phrase": phrase}) +
		"\n\n" + i18n.T(lang, "worker.answerPrompt")
}

func (w *Worker) lang(user *models.User, session *models.UserSession) i18n.Lang {
	if session != nil && session.Payload.Lang != "" {
		return i18n.Lang(session.Payload.Lang)
	}
	if user.Language != "" {
		return i18n.Lang(user.Language)
	}
	return i18n.LangRu
}
