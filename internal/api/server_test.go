package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabot/internal/database"
	"github.com/example/vocabot/pkg/models"
)

func setupServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("SQLITE_PATH", "file::memory:")
	require.NoError(t, database.Connect())
	t.Cleanup(func() { database.Close() })
	return NewServer(database.NewWordRepository(0, nil))
}

func doRequest(s *Server, method, path, userID, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set("X-Telegram-User-Id", userID)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestIdentityHeaderIsRequired(t *testing.T) {
	s := setupServer(t)

	rec := doRequest(s, http.MethodGet, "/api/words", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(s, http.MethodGet, "/api/words", "not-a-number", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListAndDeleteWords(t *testing.T) {
	s := setupServer(t)
	user, err := s.users.EnsureUser(100)
	require.NoError(t, err)
	word, _, err := s.words.AddWordForUser(user, "cat", "кот", time.Now())
	require.NoError(t, err)

	rec := doRequest(s, http.MethodGet, "/api/words", "100", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	words := body["words"].([]interface{})
	require.Len(t, words, 1)
	assert.Equal(t, "cat", words[0].(map[string]interface{})["word_en"])

	// Another user cannot delete it.
	rec = doRequest(s, http.MethodDelete, fmt.Sprintf("/api/words/%d", word.ID), "200", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(s, http.MethodDelete, fmt.Sprintf("/api/words/%d", word.ID), "100", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(s, http.MethodGet, "/api/words", "100", "")
	body = decode(t, rec)
	assert.Empty(t, body["words"])
}

func TestStatsCountsDueReviews(t *testing.T) {
	s := setupServer(t)
	user, err := s.users.EnsureUser(100)
	require.NoError(t, err)
	_, _, err = s.words.AddWordForUser(user, "cat", "кот", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, _, err = s.words.AddWordForUser(user, "dog", "собака", time.Now())
	require.NoError(t, err)

	rec := doRequest(s, http.MethodGet, "/api/stats", "100", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(2), body["total_words"])
	// The hour-old word is already due, the fresh one is due in 5 minutes.
	assert.Equal(t, float64(1), body["due_now"])
	assert.Equal(t, float64(1), body["due_next_24h"])
}

func TestSettingsRoundTrip(t *testing.T) {
	s := setupServer(t)

	rec := doRequest(s, http.MethodGet, "/api/settings", "100", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(models.DefaultNotificationInterval), body["notification_interval_minutes"])
	assert.Equal(t, true, body["notifications_enabled"])

	rec = doRequest(s, http.MethodPut, "/api/settings", "100",
		`{"notification_interval_minutes": 45, "notifications_enabled": false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, float64(45), body["notification_interval_minutes"])
	assert.Equal(t, false, body["notifications_enabled"])
	// Untouched fields keep their values.
	assert.Equal(t, float64(models.DefaultDailyLimit), body["max_notifications_per_day"])

	// Out-of-range values are clamped, not rejected.
	rec = doRequest(s, http.MethodPut, "/api/settings", "100",
		`{"notification_interval_minutes": 1000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, float64(models.MaxNotificationInterval), body["notification_interval_minutes"])
}

func TestSettingsRejectsUnknownTimezone(t *testing.T) {
	s := setupServer(t)
	rec := doRequest(s, http.MethodPut, "/api/settings", "100", `{"timezone": "Mars/Olympus"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
