package bot

import (
	"time"

	"github.com/example/vocabot/internal/database"
	"github.com/example/vocabot/internal/spaced_repetition"
	"github.com/example/vocabot/internal/textutil"
	"github.com/example/vocabot/pkg/models"
)

type reviewStore interface {
	LoadReviewWithWord(reviewID int64) (*models.ReviewWithWord, error)
	ApplyRating(review *models.Review, rating spaced_repetition.Rating, result models.ReviewResult, direction models.CardDirection, answerText string, now time.Time) error
}

type sessionStore interface {
	SetState(userID int64, state models.SessionState, data database.SessionData) error
	Reset(userID int64) error
}

type progressStore interface {
	RecordCompletion(user *models.User, now time.Time) (*database.DailyProgress, error)
}

// Coordinator resolves the answer and grade halves of a review round. It
// shares the session state machine with the delivery worker: the worker
// opens a round, the coordinator closes it.
type Coordinator struct {
	reviews  reviewStore
	sessions sessionStore
	users    progressStore
}

// NewCoordinator wires the coordinator over the given stores.
func NewCoordinator(reviews reviewStore, sessions sessionStore, users progressStore) *Coordinator {
	return &Coordinator{reviews: reviews, sessions: sessions, users: users}
}

// AnswerOutcome describes what happened to a free-text answer.
type AnswerOutcome struct {
	SessionLost bool
	Correct     bool
	Expected    string
}

// GradeOutcome describes what happened to a grade selection.
type GradeOutcome struct {
	NoActive    bool
	SessionLost bool
	Progress    *database.DailyProgress
}

// HandleAnswer compares the user's text against the expected side of the
// card and moves the session to the grading step. The correctness verdict
// is stashed in the payload; the schedule does not move until the user
// grades.
func (c *Coordinator) HandleAnswer(user *models.User, session *models.UserSession, text string, now time.Time) (*AnswerOutcome, error) {
	if session.ReviewID == nil {
		if err := c.sessions.Reset(user.ID); err != nil {
			return nil, err
		}
		return &AnswerOutcome{SessionLost: true}, nil
	}
	review, err := c.reviews.LoadReviewWithWord(*session.ReviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		// Слово удалили, пока карточка была в пути
		if err := c.sessions.Reset(user.ID); err != nil {
			return nil, err
		}
		return &AnswerOutcome{SessionLost: true}, nil
	}

	direction := models.DirectionEnToRu
	if session.Direction != nil {
		direction = *session.Direction
	}

	var expected string
	var correct bool
	if direction == models.DirectionRuToEn {
		expected = review.WordEn
		correct = textutil.AnswersEqualEnglish(expected, text)
	} else {
		expected = review.TranslationRu
		correct = textutil.AnswersEqual(expected, text)
	}

	err = c.sessions.SetState(user.ID, models.StateWaitingGrade, database.SessionData{
		ReviewID:   session.ReviewID,
		WordID:     session.WordID,
		Direction:  &direction,
		SentAt:     session.SentAt,
		AnswerText: &text,
		Payload: models.SessionPayload{
			Lang:    session.Payload.Lang,
			Verdict: &models.GradeVerdict{Correct: correct},
		},
	})
	if err != nil {
		return nil, err
	}
	return &AnswerOutcome{Correct: correct, Expected: expected}, nil
}

// HandleGrade applies the chosen rating to the pending review using the
// verdict stashed by HandleAnswer, advances the daily completion
// bookkeeping and closes the round.
func (c *Coordinator) HandleGrade(user *models.User, session *models.UserSession, rating spaced_repetition.Rating, now time.Time) (*GradeOutcome, error) {
	if session.State != models.StateWaitingGrade || session.ReviewID == nil {
		return &GradeOutcome{NoActive: true}, nil
	}
	review, err := c.reviews.LoadReviewWithWord(*session.ReviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		if err := c.sessions.Reset(user.ID); err != nil {
			return nil, err
		}
		return &GradeOutcome{SessionLost: true}, nil
	}

	result := models.ResultIncorrect
	if session.Payload.Verdict != nil && session.Payload.Verdict.Correct {
		result = models.ResultCorrect
	}
	direction := models.DirectionEnToRu
	if session.Direction != nil {
		direction = *session.Direction
	}
	answerText := ""
	if session.AnswerText != nil {
		answerText = *session.AnswerText
	}

	if err := c.reviews.ApplyRating(&review.Review, rating, result, direction, answerText, now); err != nil {
		return nil, err
	}
	progress, err := c.users.RecordCompletion(user, now)
	if err != nil {
		return nil, err
	}
	if err := c.sessions.Reset(user.ID); err != nil {
		return nil, err
	}
	return &GradeOutcome{Progress: progress}, nil
}
