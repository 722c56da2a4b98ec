package models

import "time"

// Word represents an English/Russian pair added by a user.
// Words are immutable after creation; removing one also removes its review.
type Word struct {
	ID            int64     `json:"id" db:"id"`
	UserID        int64     `json:"user_id" db:"user_id"`
	WordEn        string    `json:"word_en" db:"word_en"`
	TranslationRu string    `json:"translation_ru" db:"translation_ru"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
