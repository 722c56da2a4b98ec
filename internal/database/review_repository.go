package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/example/vocabot/internal/spaced_repetition"
	"github.com/example/vocabot/pkg/models"
)

// ReviewRepository handles database operations for review schedules
type ReviewRepository struct {
	ladder *spaced_repetition.Ladder
}

// NewReviewRepository creates a new repository instance
func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{ladder: spaced_repetition.NewLadder()}
}

const reviewWithWordColumns = `
	r.id, r.user_id, r.word_id, r.stage, r.interval_minutes,
	r.next_review_at, r.last_review_at, r.last_direction, r.last_result, r.last_answer_text,
	w.word_en, w.translation_ru
`

// FindDueReview returns the user's earliest-due review joined with its
// word, or nil when nothing is due. Ties on next_review_at break on id so
// the order is stable within a tick.
func (r *ReviewRepository) FindDueReview(userID int64, now time.Time) (*models.ReviewWithWord, error) {
	var review models.ReviewWithWord
	query := `
		SELECT ` + reviewWithWordColumns + `
		FROM reviews r
		JOIN words w ON w.id = r.word_id
		WHERE r.user_id = ? AND r.next_review_at <= ?
		ORDER BY r.next_review_at ASC, r.id ASC
		LIMIT 1
	`
	err := DB.Get(&review, DB.Rebind(query), userID, now.UTC())
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find due review: %v", err)
	}
	return &review, nil
}

// LoadReviewWithWord returns a review joined with its word, or nil if
// either was deleted concurrently.
func (r *ReviewRepository) LoadReviewWithWord(reviewID int64) (*models.ReviewWithWord, error) {
	var review models.ReviewWithWord
	query := `
		SELECT ` + reviewWithWordColumns + `
		FROM reviews r
		JOIN words w ON w.id = r.word_id
		WHERE r.id = ?
	`
	err := DB.Get(&review, DB.Rebind(query), reviewID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load review: %v", err)
	}
	return &review, nil
}

// ApplyRating advances the review schedule by the ladder and records the
// attempt's direction, result and answer text.
func (r *ReviewRepository) ApplyRating(review *models.Review, rating spaced_repetition.Rating, result models.ReviewResult, direction models.CardDirection, answerText string, now time.Time) error {
	schedule := r.ladder.NextByRating(review.Stage, rating, now)
	return r.persistSchedule(review, schedule, result, &direction, &answerText)
}

// MarkSkipped persists the skip schedule: stage 0 with the fixed skip
// interval, lastResult = SKIPPED.
func (r *ReviewRepository) MarkSkipped(review *models.Review, now time.Time) error {
	schedule := r.ladder.ScheduleSkipped(now)
	return r.persistSchedule(review, schedule, models.ResultSkipped, nil, nil)
}

func (r *ReviewRepository) persistSchedule(review *models.Review, schedule spaced_repetition.Schedule, result models.ReviewResult, direction *models.CardDirection, answerText *string) error {
	query := `
		UPDATE reviews SET
			stage = ?,
			interval_minutes = ?,
			next_review_at = ?,
			last_review_at = ?,
			last_direction = COALESCE(?, last_direction),
			last_result = ?,
			last_answer_text = ?
		WHERE id = ?
	`
	lastReview := schedule.LastReviewAt.UTC()
	_, err := DB.Exec(DB.Rebind(query),
		schedule.Stage,
		schedule.IntervalMinutes,
		schedule.NextReviewAt.UTC(),
		lastReview,
		direction,
		result,
		answerText,
		review.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update review %d: %v", review.ID, err)
	}

	review.Stage = schedule.Stage
	review.IntervalMinutes = schedule.IntervalMinutes
	review.NextReviewAt = schedule.NextReviewAt.UTC()
	review.LastReviewAt = &lastReview
	if direction != nil {
		review.LastDirection = direction
	}
	review.LastResult = &result
	review.LastAnswerText = answerText
	return nil
}

// CountDueBetween returns how many reviews fall due in [from, to).
func (r *ReviewRepository) CountDueBetween(userID int64, from, to time.Time) (int, error) {
	var count int
	err := DB.QueryRow(
		DB.Rebind("SELECT COUNT(*) FROM reviews WHERE user_id = ? AND next_review_at >= ? AND next_review_at < ?"),
		userID, from.UTC(), to.UTC(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count due reviews: %v", err)
	}
	return count, nil
}

// CountDueNow returns how many reviews are already due.
func (r *ReviewRepository) CountDueNow(userID int64, now time.Time) (int, error) {
	var count int
	err := DB.QueryRow(
		DB.Rebind("SELECT COUNT(*) FROM reviews WHERE user_id = ? AND next_review_at <= ?"),
		userID, now.UTC(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count due reviews: %v", err)
	}
	return count, nil
}
