package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/example/vocabot/pkg/models"
)

// SessionData carries the fields written alongside a state transition.
// Anything left nil/zero is cleared in the row.
type SessionData struct {
	ReviewID     *int64
	WordID       *int64
	Direction    *models.CardDirection
	SentAt       *time.Time
	ReminderStep int
	AnswerText   *string
	Payload      models.SessionPayload
}

// SessionRepository handles the per-user conversation state
type SessionRepository struct{}

// NewSessionRepository creates a new repository instance
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

// Ensure idempotently creates an IDLE session for the user and returns the
// current row.
func (r *SessionRepository) Ensure(userID int64) (*models.UserSession, error) {
	_, err := DB.Exec(
		DB.Rebind("INSERT INTO user_sessions (user_id, state) VALUES (?, 'IDLE') ON CONFLICT (user_id) DO NOTHING"),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure session: %v", err)
	}
	return r.Get(userID)
}

// Get returns the user's session.
func (r *SessionRepository) Get(userID int64) (*models.UserSession, error) {
	var session models.UserSession
	err := DB.Get(&session, DB.Rebind("SELECT * FROM user_sessions WHERE user_id = ?"), userID)
	if err == sql.ErrNoRows {
		return r.Ensure(userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %v", err)
	}
	return &session, nil
}

// existingLang reads the lang stashed in the current payload, if any.
func (r *SessionRepository) existingLang(userID int64) string {
	var payload models.SessionPayload
	err := DB.QueryRow(DB.Rebind("SELECT payload FROM user_sessions WHERE user_id = ?"), userID).Scan(&payload)
	if err != nil {
		return ""
	}
	return payload.Lang
}

// mergeLang keeps the stored lang alive across state transitions unless
// the new payload already carries one.
func (r *SessionRepository) mergeLang(userID int64, payload models.SessionPayload) models.SessionPayload {
	if payload.Lang == "" {
		payload.Lang = r.existingLang(userID)
	}
	return payload
}

// SetState unconditionally overwrites the session state and fields. The
// payload's lang survives the transition (merged from the previous row) —
// the one cross-cutting value every step depends on.
func (r *SessionRepository) SetState(userID int64, state models.SessionState, data SessionData) error {
	if _, err := r.Ensure(userID); err != nil {
		return err
	}
	payload := r.mergeLang(userID, data.Payload)
	query := `
		UPDATE user_sessions SET
			state = ?,
			review_id = ?,
			word_id = ?,
			direction = ?,
			sent_at = ?,
			reminder_step = ?,
			answer_text = ?,
			payload = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ?
	`
	_, err := DB.Exec(DB.Rebind(query),
		state, data.ReviewID, data.WordID, data.Direction, utcOrNil(data.SentAt),
		data.ReminderStep, data.AnswerText, payload, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set session state: %v", err)
	}
	return nil
}

// SetActiveIfIdle claims the session for a new round: the write succeeds
// only if the row is IDLE at that exact moment. This is a single
// conditional UPDATE checked by affected-row count, not a read-then-write,
// so the worker and an incoming message cannot both win.
func (r *SessionRepository) SetActiveIfIdle(userID int64, state models.SessionState, data SessionData) (bool, error) {
	if _, err := r.Ensure(userID); err != nil {
		return false, err
	}
	payload := r.mergeLang(userID, data.Payload)
	query := `
		UPDATE user_sessions SET
			state = ?,
			review_id = ?,
			word_id = ?,
			direction = ?,
			sent_at = ?,
			reminder_step = ?,
			answer_text = ?,
			payload = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND state = 'IDLE'
	`
	result, err := DB.Exec(DB.Rebind(query),
		state, data.ReviewID, data.WordID, data.Direction, utcOrNil(data.SentAt),
		data.ReminderStep, data.AnswerText, payload, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim session: %v", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Reset returns the session to IDLE, clearing all round fields and keeping
// only the lang.
func (r *SessionRepository) Reset(userID int64) error {
	return r.SetState(userID, models.StateIdle, SessionData{})
}

func utcOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}
