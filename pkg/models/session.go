package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SessionState enumerates the per-user conversation states.
type SessionState string

const (
	StateIdle              SessionState = "IDLE"
	StateWaitingAnswer     SessionState = "WAITING_ANSWER"
	StateWaitingGrade      SessionState = "WAITING_GRADE"
	StateAddWaitEn         SessionState = "ADDING_WORD_WAIT_EN"
	StateAddWaitRuManual   SessionState = "ADDING_WORD_WAIT_RU_MANUAL"
	StateAddConfirm        SessionState = "ADDING_WORD_CONFIRM_TRANSLATION"
	StateSettingsInterval  SessionState = "SETTINGS_WAIT_INTERVAL"
	StateSettingsLimit     SessionState = "SETTINGS_WAIT_GOAL"
)

// OnboardingContext survives across the language/interval onboarding steps.
type OnboardingContext struct {
	Step string `json:"step,omitempty"`
	Lang string `json:"lang,omitempty"`
}

// WordDraft is an in-progress /add flow: the English word plus the
// suggested translation awaiting confirmation.
type WordDraft struct {
	WordEn        string `json:"word_en"`
	TranslationRu string `json:"translation_ru,omitempty"`
}

// GradeVerdict stashes the correctness check between the user's free-text
// answer and their explicit grade.
type GradeVerdict struct {
	Correct bool `json:"correct"`
}

// SessionPayload carries small cross-step context. Lang must survive every
// state transition unless explicitly cleared; the other variants belong to
// the state that set them.
type SessionPayload struct {
	Lang       string             `json:"lang,omitempty"`
	Onboarding *OnboardingContext `json:"onboarding,omitempty"`
	Draft      *WordDraft         `json:"draft,omitempty"`
	Verdict    *GradeVerdict      `json:"verdict,omitempty"`
}

// IsEmpty reports whether the payload carries nothing worth persisting.
func (p SessionPayload) IsEmpty() bool {
	return p.Lang == "" && p.Onboarding == nil && p.Draft == nil && p.Verdict == nil
}

// Value serializes the payload as JSON for storage; empty payloads are
// stored as NULL.
func (p SessionPayload) Value() (driver.Value, error) {
	if p.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(p)
}

// Scan restores the payload from its JSON column.
func (p *SessionPayload) Scan(src interface{}) error {
	if src == nil {
		*p = SessionPayload{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported payload type %T", src)
	}
}

// UserSession is the live cross-turn conversation state for one user.
// ReviewID/Direction/SentAt are set only while a review round is active.
type UserSession struct {
	UserID       int64          `json:"user_id" db:"user_id"`
	State        SessionState   `json:"state" db:"state"`
	ReviewID     *int64         `json:"review_id" db:"review_id"`
	WordID       *int64         `json:"word_id" db:"word_id"`
	Direction    *CardDirection `json:"direction" db:"direction"`
	SentAt       *time.Time     `json:"sent_at" db:"sent_at"`
	ReminderStep int            `json:"reminder_step" db:"reminder_step"`
	AnswerText   *string        `json:"answer_text" db:"answer_text"`
	Payload      SessionPayload `json:"payload" db:"payload"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}
