package models

import "time"

// Default notification preferences applied to new users.
const (
	DefaultQuietStartMinutes    = 480  // 08:00
	DefaultQuietEndMinutes      = 1380 // 23:00
	DefaultDailyLimit           = 20
	DefaultNotificationInterval = 30 // minutes
	MinNotificationInterval     = 5
	MaxNotificationInterval     = 240
	MinDailyLimit               = 5
	MaxDailyLimit               = 40
	MinQuietSpanMinutes         = 480 // окно тишины не короче 8 часов
	StreakDailyTarget           = 3
)

// DirectionMode is a stored per-user preference for quiz direction.
// The worker currently picks a direction at random regardless of this
// value; the column is kept for compatibility with older clients.
type DirectionMode string

const (
	DirectionModeRandom DirectionMode = "RANDOM"
	DirectionModeRuEn   DirectionMode = "RU_TO_EN"
	DirectionModeEnRu   DirectionMode = "EN_TO_RU"
)

// User represents a Telegram user with scheduling preferences
type User struct {
	ID                          int64         `json:"id" db:"id"` // Telegram user ID
	Language                    string        `json:"language" db:"language"`
	Timezone                    string        `json:"timezone" db:"timezone"`
	DirectionMode               DirectionMode `json:"direction_mode" db:"direction_mode"`
	NotificationsEnabled        bool          `json:"notifications_enabled" db:"notifications_enabled"`
	NotificationIntervalMinutes int           `json:"notification_interval_minutes" db:"notification_interval_minutes"`
	MaxNotificationsPerDay      int           `json:"max_notifications_per_day" db:"max_notifications_per_day"`
	QuietHoursStartMinutes      int           `json:"quiet_hours_start_minutes" db:"quiet_hours_start_minutes"`
	QuietHoursEndMinutes        int           `json:"quiet_hours_end_minutes" db:"quiet_hours_end_minutes"`
	NotificationsSentToday      int           `json:"notifications_sent_today" db:"notifications_sent_today"`
	NotificationsDate           *time.Time    `json:"notifications_date" db:"notifications_date"`
	LastNotificationAt          *time.Time    `json:"last_notification_at" db:"last_notification_at"`
	StreakCount                 int           `json:"streak_count" db:"streak_count"`
	DoneTodayCount              int           `json:"done_today_count" db:"done_today_count"`
	LastDoneDate                *time.Time    `json:"last_done_date" db:"last_done_date"`
	LastStreakDate              *time.Time    `json:"last_streak_date" db:"last_streak_date"`
	CreatedAt                   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt                   time.Time     `json:"updated_at" db:"updated_at"`
}
