package database

import (
	"fmt"
	"time"

	"github.com/example/vocabot/internal/timeutil"
	"github.com/example/vocabot/pkg/models"
)

// UserRepository handles database operations for users
type UserRepository struct{}

// NewUserRepository creates a new repository instance
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// EnsureUser creates the user row with defaults on first contact and
// returns it.
func (r *UserRepository) EnsureUser(telegramID int64) (*models.User, error) {
	query := `
		INSERT INTO users (
			id, timezone, notifications_enabled, notification_interval_minutes,
			max_notifications_per_day, quiet_hours_start_minutes, quiet_hours_end_minutes
		) VALUES (?, ?, true, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := DB.Exec(DB.Rebind(query),
		telegramID, timeutil.DefaultTimezone,
		models.DefaultNotificationInterval, models.DefaultDailyLimit,
		models.DefaultQuietStartMinutes, models.DefaultQuietEndMinutes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user: %v", err)
	}
	return r.GetByID(telegramID)
}

// GetByID returns a user by Telegram ID
func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	var user models.User
	err := DB.Get(&user, DB.Rebind("SELECT * FROM users WHERE id = ?"), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %v", id, err)
	}
	return &user, nil
}

// GetAll returns all users
func (r *UserRepository) GetAll() ([]models.User, error) {
	var users []models.User
	err := DB.Select(&users, "SELECT * FROM users ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %v", err)
	}
	return users, nil
}

func (r *UserRepository) update(id int64, set string, args ...interface{}) error {
	args = append(args, id)
	_, err := DB.Exec(DB.Rebind("UPDATE users SET "+set+", updated_at = CURRENT_TIMESTAMP WHERE id = ?"), args...)
	if err != nil {
		return fmt.Errorf("failed to update user %d: %v", id, err)
	}
	return nil
}

// SetLanguage stores the interface language.
func (r *UserRepository) SetLanguage(id int64, language string) error {
	return r.update(id, "language = ?", language)
}

// SetTimezone stores the user's IANA timezone name.
func (r *UserRepository) SetTimezone(id int64, timezone string) error {
	return r.update(id, "timezone = ?", timezone)
}

// SetNotificationsEnabled toggles prompt delivery.
func (r *UserRepository) SetNotificationsEnabled(id int64, enabled bool) error {
	return r.update(id, "notifications_enabled = ?", enabled)
}

// SetDirectionMode stores the quiz-direction preference. The value is not
// honored by the worker (direction stays random); kept for compatibility.
func (r *UserRepository) SetDirectionMode(id int64, mode models.DirectionMode) error {
	return r.update(id, "direction_mode = ?", mode)
}

// SetNotificationInterval clamps and stores the minimum minutes between
// prompts.
func (r *UserRepository) SetNotificationInterval(id int64, minutes int) error {
	if minutes < models.MinNotificationInterval {
		minutes = models.MinNotificationInterval
	}
	if minutes > models.MaxNotificationInterval {
		minutes = models.MaxNotificationInterval
	}
	return r.update(id, "notification_interval_minutes = ?", minutes)
}

// SetNotificationLimit clamps and stores the per-day prompt cap.
func (r *UserRepository) SetNotificationLimit(id int64, maxPerDay int) error {
	if maxPerDay < models.MinDailyLimit {
		maxPerDay = models.MinDailyLimit
	}
	if maxPerDay > models.MaxDailyLimit {
		maxPerDay = models.MaxDailyLimit
	}
	return r.update(id, "max_notifications_per_day = ?", maxPerDay)
}

// SetQuietHours normalizes both bounds into [0, 1440) and widens the
// allowed window to the minimum span if the requested one is too narrow.
func (r *UserRepository) SetQuietHours(id int64, startMinutes, endMinutes int) error {
	normStart := ((startMinutes % 1440) + 1440) % 1440
	normEnd := ((endMinutes % 1440) + 1440) % 1440
	span := 1440
	if normStart != normEnd {
		if normStart < normEnd {
			span = normEnd - normStart
		} else {
			span = 1440 - (normStart - normEnd)
		}
	}
	if span < models.MinQuietSpanMinutes {
		normEnd = (normStart + models.MinQuietSpanMinutes) % 1440
	}
	return r.update(id, "quiet_hours_start_minutes = ?, quiet_hours_end_minutes = ?", normStart, normEnd)
}

// ResetNotificationCountersIfNeeded zeroes the per-day counter once the
// stored date no longer matches the user's current local day. Must run
// before any rate-limit check.
func (r *UserRepository) ResetNotificationCountersIfNeeded(user *models.User, now time.Time) error {
	today := timeutil.StartOfUserDay(user.Timezone, now)
	if user.NotificationsDate != nil {
		lastDay := timeutil.StartOfUserDay(user.Timezone, *user.NotificationsDate)
		if timeutil.DiffInDays(today, lastDay) == 0 {
			return nil
		}
	}
	todayUTC := today.UTC()
	if err := r.update(user.ID, "notifications_sent_today = 0, notifications_date = ?", todayUTC); err != nil {
		return err
	}
	user.NotificationsSentToday = 0
	user.NotificationsDate = &todayUTC
	return nil
}

// RegisterNotification bumps the daily counter and stamps the send time
// after a prompt went out.
func (r *UserRepository) RegisterNotification(user *models.User, now time.Time) error {
	today := timeutil.StartOfUserDay(user.Timezone, now).UTC()
	nowUTC := now.UTC()
	err := r.update(user.ID,
		"notifications_sent_today = notifications_sent_today + 1, notifications_date = ?, last_notification_at = ?",
		today, nowUTC,
	)
	if err != nil {
		return err
	}
	user.NotificationsSentToday++
	user.NotificationsDate = &today
	user.LastNotificationAt = &nowUTC
	return nil
}

// DailyProgress summarizes the streak state after a completed round.
type DailyProgress struct {
	StreakCount    int
	TodayCompleted int
	GoalReached    bool
}

// ResetProgressIfNeeded zeroes the daily completion counter on the first
// interaction of a new local day.
func (r *UserRepository) ResetProgressIfNeeded(user *models.User, now time.Time) error {
	today := timeutil.StartOfUserDay(user.Timezone, now)
	if user.LastDoneDate != nil {
		lastDay := timeutil.StartOfUserDay(user.Timezone, *user.LastDoneDate)
		if timeutil.DiffInDays(today, lastDay) == 0 {
			return nil
		}
	}
	todayUTC := today.UTC()
	if err := r.update(user.ID, "done_today_count = 0, last_done_date = ?", todayUTC); err != nil {
		return err
	}
	user.DoneTodayCount = 0
	user.LastDoneDate = &todayUTC
	return nil
}

// RecordCompletion counts a graded round toward the daily goal and
// advances the streak when the goal is reached.
func (r *UserRepository) RecordCompletion(user *models.User, now time.Time) (*DailyProgress, error) {
	today := timeutil.StartOfUserDay(user.Timezone, now)

	doneToday := 0
	if user.LastDoneDate != nil {
		lastDay := timeutil.StartOfUserDay(user.Timezone, *user.LastDoneDate)
		if timeutil.DiffInDays(today, lastDay) == 0 {
			doneToday = user.DoneTodayCount
		}
	}
	doneToday++

	streak := user.StreakCount
	var lastStreakDay *time.Time
	if user.LastStreakDate != nil {
		d := timeutil.StartOfUserDay(user.Timezone, *user.LastStreakDate)
		lastStreakDay = &d
		if timeutil.DiffInDays(today, d) > 1 {
			// Пропущен день — серия обнуляется
			streak = 0
		}
	}

	goalReached := false
	if doneToday >= models.StreakDailyTarget {
		goalReached = true
		if lastStreakDay == nil {
			streak = 1
		} else {
			switch diff := timeutil.DiffInDays(today, *lastStreakDay); {
			case diff == 1:
				streak++
			case diff > 1:
				streak = 1
			}
		}
	}

	todayUTC := today.UTC()
	lastStreakDate := user.LastStreakDate
	if goalReached {
		lastStreakDate = &todayUTC
	}
	err := r.update(user.ID,
		"done_today_count = ?, last_done_date = ?, streak_count = ?, last_streak_date = ?",
		doneToday, todayUTC, streak, lastStreakDate,
	)
	if err != nil {
		return nil, err
	}

	user.DoneTodayCount = doneToday
	user.LastDoneDate = &todayUTC
	user.StreakCount = streak
	user.LastStreakDate = lastStreakDate

	return &DailyProgress{
		StreakCount:    streak,
		TodayCompleted: doneToday,
		GoalReached:    goalReached,
	}, nil
}
