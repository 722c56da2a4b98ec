package models

import "time"

// CardDirection is which way a review prompt asks the user to translate.
type CardDirection string

const (
	DirectionRuToEn CardDirection = "RU_TO_EN"
	DirectionEnToRu CardDirection = "EN_TO_RU"
)

// ReviewResult is the outcome of the most recent attempt at a review.
type ReviewResult string

const (
	ResultCorrect   ReviewResult = "CORRECT"
	ResultIncorrect ReviewResult = "INCORRECT"
	ResultSkipped   ReviewResult = "SKIPPED"
)

// Review tracks the repetition schedule for a single word.
// next_review_at is always derived from the stage's ladder interval at the
// time of the last schedule update, never set on its own.
type Review struct {
	ID              int64          `json:"id" db:"id"`
	UserID          int64          `json:"user_id" db:"user_id"`
	WordID          int64          `json:"word_id" db:"word_id"`
	Stage           int            `json:"stage" db:"stage"`
	IntervalMinutes int            `json:"interval_minutes" db:"interval_minutes"`
	NextReviewAt    time.Time      `json:"next_review_at" db:"next_review_at"`
	LastReviewAt    *time.Time     `json:"last_review_at" db:"last_review_at"`
	LastDirection   *CardDirection `json:"last_direction" db:"last_direction"`
	LastResult      *ReviewResult  `json:"last_result" db:"last_result"`
	LastAnswerText  *string        `json:"last_answer_text" db:"last_answer_text"`
}

// ReviewWithWord is a review joined with its word, as the worker and the
// chat handler consume it.
type ReviewWithWord struct {
	Review
	WordEn        string `json:"word_en" db:"word_en"`
	TranslationRu string `json:"translation_ru" db:"translation_ru"`
}
