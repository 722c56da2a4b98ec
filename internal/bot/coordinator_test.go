package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabot/internal/database"
	"github.com/example/vocabot/internal/spaced_repetition"
	"github.com/example/vocabot/pkg/models"
)

type fakeReviews struct {
	review *models.ReviewWithWord

	appliedRating    spaced_repetition.Rating
	appliedResult    models.ReviewResult
	appliedDirection models.CardDirection
	appliedAnswer    string
	applyCalls       int
}

func (f *fakeReviews) LoadReviewWithWord(reviewID int64) (*models.ReviewWithWord, error) {
	if f.review != nil && f.review.ID == reviewID {
		return f.review, nil
	}
	return nil, nil
}

func (f *fakeReviews) ApplyRating(review *models.Review, rating spaced_repetition.Rating, result models.ReviewResult, direction models.CardDirection, answerText string, now time.Time) error {
	f.applyCalls++
	f.appliedRating = rating
	f.appliedResult = result
	f.appliedDirection = direction
	f.appliedAnswer = answerText
	return nil
}

type fakeSessions struct {
	sessions map[int64]*models.UserSession
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: map[int64]*models.UserSession{}}
}

func (f *fakeSessions) get(userID int64) *models.UserSession {
	if s, ok := f.sessions[userID]; ok {
		return s
	}
	s := &models.UserSession{UserID: userID, State: models.StateIdle}
	f.sessions[userID] = s
	return s
}

func (f *fakeSessions) SetState(userID int64, state models.SessionState, data database.SessionData) error {
	s := f.get(userID)
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

func (f *fakeSessions) Reset(userID int64) error {
	return f.SetState(userID, models.StateIdle, database.SessionData{})
}

type fakeProgress struct {
	completions int
	progress    *database.DailyProgress
}

func (f *fakeProgress) RecordCompletion(user *models.User, now time.Time) (*database.DailyProgress, error) {
	f.completions++
	if f.progress != nil {
		return f.progress, nil
	}
	return &database.DailyProgress{TodayCompleted: f.completions}, nil
}

func catReview() *models.ReviewWithWord {
	r := &models.ReviewWithWord{}
	r.ID = 5
	r.UserID = 1
	r.WordID = 9
	r.Stage = 0
	r.WordEn = "the cat"
	r.TranslationRu = "кот"
	return r
}

func waitingAnswerSession(direction models.CardDirection) *models.UserSession {
	reviewID, wordID := int64(5), int64(9)
	sentAt := time.Now().UTC().Add(-time.Minute)
	return &models.UserSession{
		UserID:    1,
		State:     models.StateWaitingAnswer,
		ReviewID:  &reviewID,
		WordID:    &wordID,
		Direction: &direction,
		SentAt:    &sentAt,
		Payload:   models.SessionPayload{Lang: "ru"},
	}
}

func TestAnswerCorrectMovesToGrading(t *testing.T) {
	reviews := &fakeReviews{review: catReview()}
	sessions := newFakeSessions()
	c := NewCoordinator(reviews, sessions, &fakeProgress{})
	user := &models.User{ID: 1, Timezone: "UTC"}
	session := waitingAnswerSession(models.DirectionEnToRu)
	sessions.sessions[1] = session

	outcome, err := c.HandleAnswer(user, session, "  Кот! ", time.Now())
	require.NoError(t, err)
	assert.True(t, outcome.Correct)
	assert.False(t, outcome.SessionLost)

	stored := sessions.get(1)
	assert.Equal(t, models.StateWaitingGrade, stored.State)
	require.NotNil(t, stored.Payload.Verdict)
	assert.True(t, stored.Payload.Verdict.Correct)
	require.NotNil(t, stored.AnswerText)
	assert.Equal(t, "  Кот! ", *stored.AnswerText)
	// Lang rides through the transition.
	assert.Equal(t, "ru", stored.Payload.Lang)
}

func TestAnswerEnglishIgnoresLeadingArticle(t *testing.T) {
	reviews := &fakeReviews{review: catReview()}
	sessions := newFakeSessions()
	c := NewCoordinator(reviews, sessions, &fakeProgress{})
	user := &models.User{ID: 1}
	session := waitingAnswerSession(models.DirectionRuToEn)
	sessions.sessions[1] = session

	outcome, err := c.HandleAnswer(user, session, "cat", time.Now())
	require.NoError(t, err)
	assert.True(t, outcome.Correct)
	assert.Equal(t, "the cat", outcome.Expected)
}

func TestAnswerWrongKeepsExpected(t *testing.T) {
	reviews := &fakeReviews{review: catReview()}
	sessions := newFakeSessions()
	c := NewCoordinator(reviews, sessions, &fakeProgress{})
	user := &models.User{ID: 1}
	session := waitingAnswerSession(models.DirectionEnToRu)
	sessions.sessions[1] = session

	outcome, err := c.HandleAnswer(user, session, "собака", time.Now())
	require.NoError(t, err)
	assert.False(t, outcome.Correct)
	assert.Equal(t, "кот", outcome.Expected)

	stored := sessions.get(1)
	require.NotNil(t, stored.Payload.Verdict)
	assert.False(t, stored.Payload.Verdict.Correct)
}

func TestAnswerWithVanishedReviewLosesSession(t *testing.T) {
	reviews := &fakeReviews{} // review 5 is gone
	sessions := newFakeSessions()
	c := NewCoordinator(reviews, sessions, &fakeProgress{})
	user := &models.User{ID: 1}
	session := waitingAnswerSession(models.DirectionEnToRu)
	sessions.sessions[1] = session

	outcome, err := c.HandleAnswer(user, session, "кот", time.Now())
	require.NoError(t, err)
	assert.True(t, outcome.SessionLost)
	assert.Equal(t, models.StateIdle, sessions.get(1).State)
}

func TestGradeAppliesStashedVerdict(t *testing.T) {
	reviews := &fakeReviews{review: catReview()}
	sessions := newFakeSessions()
	progress := &fakeProgress{progress: &database.DailyProgress{StreakCount: 1, TodayCompleted: 3, GoalReached: true}}
	c := NewCoordinator(reviews, sessions, progress)
	user := &models.User{ID: 1}

	answer := "кот"
	session := waitingAnswerSession(models.DirectionEnToRu)
	session.State = models.StateWaitingGrade
	session.AnswerText = &answer
	session.Payload.Verdict = &models.GradeVerdict{Correct: true}
	sessions.sessions[1] = session

	outcome, err := c.HandleGrade(user, session, spaced_repetition.RatingGood, time.Now())
	require.NoError(t, err)
	assert.False(t, outcome.NoActive)
	require.NotNil(t, outcome.Progress)
	assert.True(t, outcome.Progress.GoalReached)

	assert.Equal(t, 1, reviews.applyCalls)
	assert.Equal(t, spaced_repetition.RatingGood, reviews.appliedRating)
	assert.Equal(t, models.ResultCorrect, reviews.appliedResult)
	assert.Equal(t, models.DirectionEnToRu, reviews.appliedDirection)
	assert.Equal(t, "кот", reviews.appliedAnswer)
	assert.Equal(t, 1, progress.completions)
	assert.Equal(t, models.StateIdle, sessions.get(1).State)
}

func TestGradeWithoutVerdictCountsIncorrect(t *testing.T) {
	reviews := &fakeReviews{review: catReview()}
	sessions := newFakeSessions()
	c := NewCoordinator(reviews, sessions, &fakeProgress{})
	user := &models.User{ID: 1}

	session := waitingAnswerSession(models.DirectionEnToRu)
	session.State = models.StateWaitingGrade
	sessions.sessions[1] = session

	_, err := c.HandleGrade(user, session, spaced_repetition.RatingHard, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.ResultIncorrect, reviews.appliedResult)
}

func TestGradeWithNoActiveRound(t *testing.T) {
	reviews := &fakeReviews{review: catReview()}
	sessions := newFakeSessions()
	c := NewCoordinator(reviews, sessions, &fakeProgress{})
	user := &models.User{ID: 1}
	session := &models.UserSession{UserID: 1, State: models.StateIdle}

	outcome, err := c.HandleGrade(user, session, spaced_repetition.RatingGood, time.Now())
	require.NoError(t, err)
	assert.True(t, outcome.NoActive)
	assert.Equal(t, 0, reviews.applyCalls)
}

func TestGradeWithVanishedReviewLosesSession(t *testing.T) {
	reviews := &fakeReviews{}
	sessions := newFakeSessions()
	c := NewCoordinator(reviews, sessions, &fakeProgress{})
	user := &models.User{ID: 1}

	session := waitingAnswerSession(models.DirectionEnToRu)
	session.State = models.StateWaitingGrade
	sessions.sessions[1] = session

	outcome, err := c.HandleGrade(user, session, spaced_repetition.RatingGood, time.Now())
	require.NoError(t, err)
	assert.True(t, outcome.SessionLost)
	assert.Equal(t, models.StateIdle, sessions.get(1).State)
}
