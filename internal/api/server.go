package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/vocabot/internal/database"
	"github.com/example/vocabot/pkg/models"
)

const userKey = "user"

// Server exposes the web mini-app API: vocabulary browsing, stats and
// notification settings. Caller identity arrives as X-Telegram-User-Id,
// set by the auth layer in front of this service.
type Server struct {
	users   *database.UserRepository
	words   *database.WordRepository
	reviews *database.ReviewRepository
	engine  *gin.Engine
}

// NewServer builds the router over the shared repositories.
func NewServer(words *database.WordRepository) *Server {
	s := &Server{
		users:   database.NewUserRepository(),
		words:   words,
		reviews: database.NewReviewRepository(),
	}

	r := gin.Default()
	r.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(s.identify())
	{
		api.GET("/words", s.listWords)
		api.DELETE("/words/:id", s.deleteWord)
		api.GET("/stats", s.getStats)
		api.GET("/settings", s.getSettings)
		api.PUT("/settings", s.updateSettings)
	}

	s.engine = r
	return s
}

// Run serves the API on the given address, blocking.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// identify resolves the caller from the X-Telegram-User-Id header.
func (s *Server) identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-Telegram-User-Id")
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid user id"})
			return
		}
		user, err := s.users.EnsureUser(id)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	return c.MustGet(userKey).(*models.User)
}

func (s *Server) listWords(c *gin.Context) {
	user := currentUser(c)
	words, err := s.words.GetAllForUser(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list words"})
		return
	}
	if words == nil {
		words = []models.Word{}
	}
	c.JSON(http.StatusOK, gin.H{"words": words})
}

func (s *Server) deleteWord(c *gin.Context) {
	user := currentUser(c)
	wordID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid word id"})
		return
	}
	deleted, err := s.words.Delete(user.ID, wordID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete word"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "word not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (s *Server) getStats(c *gin.Context) {
	user := currentUser(c)
	now := time.Now()

	total, err := s.words.CountForUser(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count words"})
		return
	}
	dueNow, err := s.reviews.CountDueNow(user.ID, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count due reviews"})
		return
	}
	dueToday, err := s.reviews.CountDueBetween(user.ID, now, now.Add(24*time.Hour))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count due reviews"})
		return
	}
	if err := s.users.ResetProgressIfNeeded(user, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_words":      total,
		"due_now":          dueNow,
		"due_next_24h":     dueToday,
		"streak_count":     user.StreakCount,
		"done_today_count": user.DoneTodayCount,
		"daily_target":     models.StreakDailyTarget,
	})
}

type settingsResponse struct {
	Language                    string `json:"language"`
	Timezone                    string `json:"timezone"`
	NotificationsEnabled        bool   `json:"notifications_enabled"`
	NotificationIntervalMinutes int    `json:"notification_interval_minutes"`
	MaxNotificationsPerDay      int    `json:"max_notifications_per_day"`
	QuietHoursStartMinutes      int    `json:"quiet_hours_start_minutes"`
	QuietHoursEndMinutes        int    `json:"quiet_hours_end_minutes"`
}

func settingsOf(user *models.User) settingsResponse {
	return settingsResponse{
		Language:                    user.Language,
		Timezone:                    user.Timezone,
		NotificationsEnabled:        user.NotificationsEnabled,
		NotificationIntervalMinutes: user.NotificationIntervalMinutes,
		MaxNotificationsPerDay:      user.MaxNotificationsPerDay,
		QuietHoursStartMinutes:      user.QuietHoursStartMinutes,
		QuietHoursEndMinutes:        user.QuietHoursEndMinutes,
	}
}

func (s *Server) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, settingsOf(currentUser(c)))
}

type settingsRequest struct {
	Timezone                    *string `json:"timezone"`
	NotificationsEnabled        *bool   `json:"notifications_enabled"`
	NotificationIntervalMinutes *int    `json:"notification_interval_minutes"`
	MaxNotificationsPerDay      *int    `json:"max_notifications_per_day"`
	QuietHoursStartMinutes      *int    `json:"quiet_hours_start_minutes"`
	QuietHoursEndMinutes        *int    `json:"quiet_hours_end_minutes"`
}

// updateSettings applies a partial update; omitted fields keep their
// current values. Values pass through the same clamps the bot uses.
func (s *Server) updateSettings(c *gin.Context) {
	user := currentUser(c)
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown timezone"})
			return
		}
		if err := s.users.SetTimezone(user.ID, *req.Timezone); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save timezone"})
			return
		}
	}
	if req.NotificationsEnabled != nil {
		if err := s.users.SetNotificationsEnabled(user.ID, *req.NotificationsEnabled); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save notifications flag"})
			return
		}
	}
	if req.NotificationIntervalMinutes != nil {
		if err := s.users.SetNotificationInterval(user.ID, *req.NotificationIntervalMinutes); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save interval"})
			return
		}
	}
	if req.MaxNotificationsPerDay != nil {
		if err := s.users.SetNotificationLimit(user.ID, *req.MaxNotificationsPerDay); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save limit"})
			return
		}
	}
	if req.QuietHoursStartMinutes != nil || req.QuietHoursEndMinutes != nil {
		start := user.QuietHoursStartMinutes
		end := user.QuietHoursEndMinutes
		if req.QuietHoursStartMinutes != nil {
			start = *req.QuietHoursStartMinutes
		}
		if req.QuietHoursEndMinutes != nil {
			end = *req.QuietHoursEndMinutes
		}
		if err := s.users.SetQuietHours(user.ID, start, end); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save quiet hours"})
			return
		}
	}

	updated, err := s.users.GetByID(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reload settings"})
		return
	}
	c.JSON(http.StatusOK, settingsOf(updated))
}
