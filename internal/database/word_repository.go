package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/example/vocabot/internal/spaced_repetition"
	"github.com/example/vocabot/internal/timeutil"
	"github.com/example/vocabot/pkg/models"
)

// ErrDuplicateWord is returned when the user already has this English word
// (case-insensitive).
var ErrDuplicateWord = errors.New("duplicate word")

// DailyWordLimitError is returned when a user hits the per-day cap on new
// words.
type DailyWordLimitError struct {
	Limit int
}

func (e *DailyWordLimitError) Error() string {
	return fmt.Sprintf("daily word limit of %d exceeded", e.Limit)
}

// ExemptFunc decides whether a user bypasses the daily word cap. The
// allow-list comes from process configuration, not from user rows.
type ExemptFunc func(userID int64) bool

// WordRepository handles database operations for words and creates the
// paired review rows.
type WordRepository struct {
	ladder     *spaced_repetition.Ladder
	dailyLimit int
	isExempt   ExemptFunc
}

// NewWordRepository creates a new repository instance. dailyLimit <= 0
// disables the cap entirely.
func NewWordRepository(dailyLimit int, isExempt ExemptFunc) *WordRepository {
	if isExempt == nil {
		isExempt = func(int64) bool { return false }
	}
	return &WordRepository{
		ladder:     spaced_repetition.NewLadder(),
		dailyLimit: dailyLimit,
		isExempt:   isExempt,
	}
}

// AddWordForUser creates a word together with its stage-0 review in one
// transaction. Returns ErrDuplicateWord or *DailyWordLimitError on
// business failures; the word is not created in either case.
func (r *WordRepository) AddWordForUser(user *models.User, wordEn, translationRu string, now time.Time) (*models.Word, *models.Review, error) {
	wordEn = strings.TrimSpace(wordEn)
	translationRu = strings.TrimSpace(translationRu)

	var existingID int64
	err := DB.QueryRow(
		DB.Rebind("SELECT id FROM words WHERE user_id = ? AND lower(word_en) = lower(?)"),
		user.ID, wordEn,
	).Scan(&existingID)
	if err == nil {
		return nil, nil, ErrDuplicateWord
	}
	if err != sql.ErrNoRows {
		return nil, nil, fmt.Errorf("failed to check for duplicate: %v", err)
	}

	// Лимит считаем по календарному дню пользователя
	if r.dailyLimit > 0 && !r.isExempt(user.ID) {
		dayStart := timeutil.StartOfUserDay(user.Timezone, now)
		added, err := r.CountAddedSince(user.ID, dayStart.UTC())
		if err != nil {
			return nil, nil, err
		}
		if added >= r.dailyLimit {
			return nil, nil, &DailyWordLimitError{Limit: r.dailyLimit}
		}
	}

	schedule := r.ladder.InitialSchedule(now)

	tx, err := DB.Beginx()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	word := &models.Word{
		UserID:        user.ID,
		WordEn:        wordEn,
		TranslationRu: translationRu,
		CreatedAt:     now.UTC(),
	}
	wordID, err := insertReturningID(tx,
		"INSERT INTO words (user_id, word_en, translation_ru, created_at) VALUES (?, ?, ?, ?)",
		user.ID, wordEn, translationRu, now.UTC(),
	)
	if err != nil {
		// Гонка двух одинаковых добавлений проходит пре-чек и упирается
		// в уникальный индекс
		if isUniqueViolation(err) {
			return nil, nil, ErrDuplicateWord
		}
		return nil, nil, fmt.Errorf("failed to insert word: %v", err)
	}
	word.ID = wordID

	review := &models.Review{
		UserID:          user.ID,
		WordID:          wordID,
		Stage:           schedule.Stage,
		IntervalMinutes: schedule.IntervalMinutes,
		NextReviewAt:    schedule.NextReviewAt.UTC(),
	}
	reviewID, err := insertReturningID(tx,
		"INSERT INTO reviews (user_id, word_id, stage, interval_minutes, next_review_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, wordID, schedule.Stage, schedule.IntervalMinutes, schedule.NextReviewAt.UTC(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert review: %v", err)
	}
	review.ID = reviewID

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit word: %v", err)
	}
	return word, review, nil
}

// isUniqueViolation recognizes a unique-constraint error from either
// driver.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// insertReturningID hides the LastInsertId/RETURNING split between the
// sqlite and postgres drivers.
func insertReturningID(tx *sqlx.Tx, query string, args ...interface{}) (int64, error) {
	if DB.DriverName() == "postgres" {
		var id int64
		err := tx.QueryRow(DB.Rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}
	result, err := tx.Exec(DB.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// FindByText returns the user's word matching the English text
// case-insensitively, or nil.
func (r *WordRepository) FindByText(userID int64, wordEn string) (*models.Word, error) {
	var word models.Word
	err := DB.Get(&word,
		DB.Rebind("SELECT * FROM words WHERE user_id = ? AND lower(word_en) = lower(?)"),
		userID, strings.TrimSpace(wordEn),
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find word: %v", err)
	}
	return &word, nil
}

// GetByID returns a word by its ID
func (r *WordRepository) GetByID(wordID int64) (*models.Word, error) {
	var word models.Word
	err := DB.Get(&word, DB.Rebind("SELECT * FROM words WHERE id = ?"), wordID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %v", err)
	}
	return &word, nil
}

// GetAllForUser returns the user's words, newest first.
func (r *WordRepository) GetAllForUser(userID int64) ([]models.Word, error) {
	var words []models.Word
	err := DB.Select(&words, DB.Rebind("SELECT * FROM words WHERE user_id = ? ORDER BY created_at DESC, id DESC"), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get words: %v", err)
	}
	return words, nil
}

// Delete removes a user's word; the review goes with it via the cascade.
func (r *WordRepository) Delete(userID, wordID int64) (bool, error) {
	result, err := DB.Exec(DB.Rebind("DELETE FROM words WHERE id = ? AND user_id = ?"), wordID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete word: %v", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountForUser returns how many words the user has.
func (r *WordRepository) CountForUser(userID int64) (int, error) {
	var count int
	err := DB.QueryRow(DB.Rebind("SELECT COUNT(*) FROM words WHERE user_id = ?"), userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count words: %v", err)
	}
	return count, nil
}

// CountAddedSince returns how many words the user created at or after the
// given UTC instant.
func (r *WordRepository) CountAddedSince(userID int64, since time.Time) (int, error) {
	var count int
	err := DB.QueryRow(
		DB.Rebind("SELECT COUNT(*) FROM words WHERE user_id = ? AND created_at >= ?"),
		userID, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count today's words: %v", err)
	}
	return count, nil
}
