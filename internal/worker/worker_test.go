package worker

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabot/internal/database"
	"github.com/example/vocabot/pkg/models"
)

type fakeUsers struct {
	all           []models.User
	registered    int
	resetErrForID int64
}

func (f *fakeUsers) GetAll() ([]models.User, error) { return f.all, nil }

func (f *fakeUsers) ResetNotificationCountersIfNeeded(user *models.User, now time.Time) error {
	if f.resetErrForID != 0 && user.ID == f.resetErrForID {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeUsers) RegisterNotification(user *models.User, now time.Time) error {
	f.registered++
	user.NotificationsSentToday++
	nowUTC := now.UTC()
	user.LastNotificationAt = &nowUTC
	return nil
}

type fakeReviews struct {
	due     *models.ReviewWithWord
	skipped []int64
}

func (f *fakeReviews) FindDueReview(userID int64, now time.Time) (*models.ReviewWithWord, error) {
	return f.due, nil
}

func (f *fakeReviews) LoadReviewWithWord(reviewID int64) (*models.ReviewWithWord, error) {
	if f.due != nil && f.due.ID == reviewID {
		return f.due, nil
	}
	return nil, nil
}

func (f *fakeReviews) MarkSkipped(review *models.Review, now time.Time) error {
	f.skipped = append(f.skipped, review.ID)
	review.Stage = 0
	review.IntervalMinutes = 60
	return nil
}

type fakeSessions struct {
	sessions map[int64]*models.UserSession
	claimRef bool
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: map[int64]*models.UserSession{}}
}

func (f *fakeSessions) Get(userID int64) (*models.UserSession, error) {
	if s, ok := f.sessions[userID]; ok {
		return s, nil
	}
	s := &models.UserSession{UserID: userID, State: models.StateIdle}
	f.sessions[userID] = s
	return s, nil
}

func (f *fakeSessions) SetState(userID int64, state models.SessionState, data database.SessionData) error {
	s, _ := f.Get(userID)
	lang := s.Payload.Lang
	s.State = state
	s.ReviewID = data.ReviewID
	s.WordID = data.WordID
	s.Direction = data.Direction
	s.SentAt = data.SentAt
	s.ReminderStep = data.ReminderStep
	s.AnswerText = data.AnswerText
	s.Payload = data.Payload
	if s.Payload.Lang == "" {
		s.Payload.Lang = lang
	}
	return nil
}

func (f *fakeSessions) SetActiveIfIdle(userID int64, state models.SessionState, data database.SessionData) (bool, error) {
	if f.claimRef {
		return false, nil
	}
	s, _ := f.Get(userID)
	if s.State != models.StateIdle {
		return false, nil
	}
	return true, f.SetState(userID, state, data)
}

func (f *fakeSessions) Reset(userID int64) error {
	return f.SetState(userID, models.StateIdle, database.SessionData{})
}

type fakeSender struct {
	sent    []string
	failAll bool
}

func (f *fakeSender) SendText(userID int64, text string) error {
	if f.failAll {
		return errors.New("telegram down")
	}
	f.sent = append(f.sent, text)
	return nil
}

func activeUser(id int64) *models.User {
	return &models.User{
		ID:                          id,
		Timezone:                    "UTC",
		NotificationsEnabled:        true,
		NotificationIntervalMinutes: 30,
		MaxNotificationsPerDay:      20,
		// start == end: window is always open
		QuietHoursStartMinutes: 0,
		QuietHoursEndMinutes:   0,
	}
}

func dueReview(id, wordID int64) *models.ReviewWithWord {
	r := &models.ReviewWithWord{}
	r.ID = id
	r.UserID = 1
	r.WordID = wordID
	r.Stage = 0
	r.WordEn = "cat"
	r.TranslationRu = "кот"
	return r
}

func newTestWorker(users *fakeUsers, reviews *fakeReviews, sessions *fakeSessions, sender *fakeSender) *Worker {
	w := newWorker(users, reviews, sessions, sender)
	w.pickDirection = func() models.CardDirection { return models.DirectionEnToRu }
	return w
}

// Noon UTC keeps every default window open.
var tickTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNoDueReviewsIsANoOp(t *testing.T) {
	users := &fakeUsers{}
	sessions := newFakeSessions()
	sender := &fakeSender{}
	w := newTestWorker(users, &fakeReviews{}, sessions, sender)

	require.NoError(t, w.ProcessUser(activeUser(1), tickTime))

	assert.Empty(t, sender.sent)
	assert.Equal(t, 0, users.registered)
	session, _ := sessions.Get(1)
	assert.Equal(t, models.StateIdle, session.State)
}

func TestDuePromptClaimsSessionAndSends(t *testing.T) {
	users := &fakeUsers{}
	reviews := &fakeReviews{due: dueReview(5, 9)}
	sessions := newFakeSessions()
	sender := &fakeSender{}
	w := newTestWorker(users, reviews, sessions, sender)
	user := activeUser(1)

	require.NoError(t, w.ProcessUser(user, tickTime))

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "cat")
	assert.Equal(t, 1, users.registered)
	assert.Equal(t, 1, user.NotificationsSentToday)

	session, _ := sessions.Get(1)
	assert.Equal(t, models.StateWaitingAnswer, session.State)
	require.NotNil(t, session.ReviewID)
	assert.Equal(t, int64(5), *session.ReviewID)
	assert.Equal(t, 0, session.ReminderStep)
	require.NotNil(t, session.SentAt)
	assert.Equal(t, tickTime, *session.SentAt)
}

func TestReminderFiresOnceThenSkipTimesOut(t *testing.T) {
	users := &fakeUsers{}
	reviews := &fakeReviews{due: dueReview(5, 9)}
	sessions := newFakeSessions()
	sender := &fakeSender{}
	w := newTestWorker(users, reviews, sessions, sender)
	user := activeUser(1)

	sentAt := tickTime.Add(-6 * time.Minute)
	reviewID, wordID := int64(5), int64(9)
	direction := models.DirectionEnToRu
	require.NoError(t, sessions.SetState(1, models.StateWaitingAnswer, database.SessionData{
		ReviewID: &reviewID, WordID: &wordID, Direction: &direction, SentAt: &sentAt,
	}))

	// 6 minutes in: one reminder, reminderStep moves to 1.
	require.NoError(t, w.ProcessUser(user, tickTime))
	require.Len(t, sender.sent, 1)
	session, _ := sessions.Get(1)
	assert.Equal(t, models.StateWaitingAnswer, session.State)
	assert.Equal(t, 1, session.ReminderStep)

	// Next tick, still under the skip threshold: nothing more.
	require.NoError(t, w.ProcessUser(user, tickTime.Add(time.Minute)))
	assert.Len(t, sender.sent, 1)

	// 25 minutes in: the round times out.
	require.NoError(t, w.ProcessUser(user, sentAt.Add(25*time.Minute)))
	assert.Equal(t, []int64{5}, reviews.skipped)
	session, _ = sessions.Get(1)
	assert.Equal(t, models.StateIdle, session.State)
	assert.Nil(t, session.ReviewID)
	require.Len(t, sender.sent, 2)
}

func TestReminderRespectsQuietHours(t *testing.T) {
	reviews := &fakeReviews{due: dueReview(5, 9)}
	sessions := newFakeSessions()
	sender := &fakeSender{}
	w := newTestWorker(&fakeUsers{}, reviews, sessions, sender)

	user := activeUser(1)
	user.QuietHoursStartMinutes = 8 * 60
	user.QuietHoursEndMinutes = 23 * 60

	sentAt := time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)
	reviewID := int64(5)
	require.NoError(t, sessions.SetState(1, models.StateWaitingAnswer, database.SessionData{
		ReviewID: &reviewID, SentAt: &sentAt,
	}))

	// 6 minutes elapsed but it is 02:06 local: no reminder.
	require.NoError(t, w.ProcessUser(user, sentAt.Add(6*time.Minute)))
	assert.Empty(t, sender.sent)
	session, _ := sessions.Get(1)
	assert.Equal(t, 0, session.ReminderStep)

	// The skip still happens, silently.
	require.NoError(t, w.ProcessUser(user, sentAt.Add(25*time.Minute)))
	assert.Empty(t, sender.sent)
	assert.Equal(t, []int64{5}, reviews.skipped)
}

func TestGatesBlockNewPrompts(t *testing.T) {
	cases := []struct {
		name  string
		setup func(u *models.User)
	}{
		{"notifications disabled", func(u *models.User) {
			u.NotificationsEnabled = false
		}},
		{"outside allowed window", func(u *models.User) {
			// 13:00..11:00 wraps; noon falls in the closed gap.
			u.QuietHoursStartMinutes = 13 * 60
			u.QuietHoursEndMinutes = 11 * 60
		}},
		{"daily cap reached", func(u *models.User) {
			u.NotificationsSentToday = u.MaxNotificationsPerDay
		}},
		{"too soon after last prompt", func(u *models.User) {
			last := tickTime.Add(-10 * time.Minute)
			u.LastNotificationAt = &last
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := &fakeUsers{}
			sessions := newFakeSessions()
			sender := &fakeSender{}
			w := newTestWorker(users, &fakeReviews{due: dueReview(5, 9)}, sessions, sender)

			user := activeUser(1)
			tc.setup(user)

			require.NoError(t, w.ProcessUser(user, tickTime))
			assert.Empty(t, sender.sent)
			assert.Equal(t, 0, users.registered)
			session, _ := sessions.Get(1)
			assert.Equal(t, models.StateIdle, session.State)
		})
	}
}

func TestSpacingFloorAppliesToTinyIntervals(t *testing.T) {
	users := &fakeUsers{}
	sessions := newFakeSessions()
	sender := &fakeSender{}
	w := newTestWorker(users, &fakeReviews{due: dueReview(5, 9)}, sessions, sender)

	user := activeUser(1)
	user.NotificationIntervalMinutes = 0
	last := tickTime.Add(-2 * time.Minute)
	user.LastNotificationAt = &last

	require.NoError(t, w.ProcessUser(user, tickTime))
	assert.Empty(t, sender.sent)

	// Past the 5-minute floor the prompt goes out.
	require.NoError(t, w.ProcessUser(user, tickTime.Add(4*time.Minute)))
	assert.Len(t, sender.sent, 1)
}

func TestRefusedClaimAbortsSilently(t *testing.T) {
	users := &fakeUsers{}
	sessions := newFakeSessions()
	sessions.claimRef = true
	sender := &fakeSender{}
	w := newTestWorker(users, &fakeReviews{due: dueReview(5, 9)}, sessions, sender)

	require.NoError(t, w.ProcessUser(activeUser(1), tickTime))
	assert.Empty(t, sender.sent)
	assert.Equal(t, 0, users.registered)
}

func TestSendFailureRevertsClaim(t *testing.T) {
	users := &fakeUsers{}
	sessions := newFakeSessions()
	sender := &fakeSender{failAll: true}
	w := newTestWorker(users, &fakeReviews{due: dueReview(5, 9)}, sessions, sender)
	user := activeUser(1)

	err := w.ProcessUser(user, tickTime)
	require.Error(t, err)

	session, _ := sessions.Get(1)
	assert.Equal(t, models.StateIdle, session.State)
	assert.Nil(t, session.ReviewID)
	assert.Equal(t, 0, users.registered)
	assert.Equal(t, 0, user.NotificationsSentToday)
}

func TestWaitingGradeIsLeftAlone(t *testing.T) {
	sessions := newFakeSessions()
	sender := &fakeSender{}
	w := newTestWorker(&fakeUsers{}, &fakeReviews{due: dueReview(5, 9)}, sessions, sender)

	reviewID := int64(5)
	sentAt := tickTime.Add(-40 * time.Minute)
	require.NoError(t, sessions.SetState(1, models.StateWaitingGrade, database.SessionData{
		ReviewID: &reviewID, SentAt: &sentAt,
	}))

	require.NoError(t, w.ProcessUser(activeUser(1), tickTime))
	assert.Empty(t, sender.sent)
	session, _ := sessions.Get(1)
	assert.Equal(t, models.StateWaitingGrade, session.State)
}

func TestBusyFlowStatesAreSkipped(t *testing.T) {
	sessions := newFakeSessions()
	sender := &fakeSender{}
	w := newTestWorker(&fakeUsers{}, &fakeReviews{due: dueReview(5, 9)}, sessions, sender)

	require.NoError(t, sessions.SetState(1, models.StateAddWaitEn, database.SessionData{}))
	require.NoError(t, w.ProcessUser(activeUser(1), tickTime))

	assert.Empty(t, sender.sent)
	session, _ := sessions.Get(1)
	assert.Equal(t, models.StateAddWaitEn, session.State)
}

func TestPromptUsesDirectionPhrase(t *testing.T) {
	sessions := newFakeSessions()
	sender := &fakeSender{}
	w := newTestWorker(&fakeUsers{}, &fakeReviews{due: dueReview(5, 9)}, sessions, sender)
	w.pickDirection = func() models.CardDirection { return models.DirectionRuToEn }

	require.NoError(t, w.ProcessUser(activeUser(1), tickTime))
	require.Len(t, sender.sent, 1)
	assert.True(t, strings.Contains(sender.sent[0], "кот"))
	assert.False(t, strings.Contains(sender.sent[0], "cat"))
}

func TestTickIsolatesPerUserErrors(t *testing.T) {
	users := &fakeUsers{
		all:           []models.User{*activeUser(1), *activeUser(2)},
		resetErrForID: 1,
	}
	sessions := newFakeSessions()
	sender := &fakeSender{}
	w := newTestWorker(users, &fakeReviews{due: dueReview(5, 9)}, sessions, sender)
	w.now = func() time.Time { return tickTime }

	w.Tick()

	// User 1 failed, user 2 still got a prompt.
	assert.Len(t, sender.sent, 1)
	session, _ := sessions.Get(2)
	assert.Equal(t, models.StateWaitingAnswer, session.State)
}
