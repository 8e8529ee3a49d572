package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/GalihRensuke/GalyarderOS-sub001/internal/config"
	"github.com/GalihRensuke/GalyarderOS-sub001/internal/database"
	"github.com/GalihRensuke/GalyarderOS-sub001/internal/handlers"
	"github.com/GalihRensuke/GalyarderOS-sub001/internal/ritual"
	"github.com/GalihRensuke/GalyarderOS-sub001/internal/routes"
)

type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{JWTSecret: "test-secret"}
	h := handlers.New(db, ritual.NewService(db), cfg)
	app := fiber.New()
	routes.Setup(app, h, cfg.JWTSecret)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func registerUser(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, env := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var auth struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	require.NotEmpty(t, auth.Token)
	return auth.Token
}

func createRitual(t *testing.T, app *fiber.App, token string) string {
	t.Helper()
	resp, env := doJSON(t, app, http.MethodPost, "/api/rituals/", token, map[string]interface{}{
		"name":      "Morning pages",
		"category":  "morning",
		"type":      "habit",
		"frequency": "daily",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var r struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &r))
	return r.ID
}

func TestAuthRequired(t *testing.T) {
	app := newTestApp(t)
	resp, env := doJSON(t, app, http.MethodGet, "/api/rituals/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestCreateAndGetRitual(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app, "a@example.com")
	id := createRitual(t, app, token)

	resp, env := doJSON(t, app, http.MethodGet, "/api/rituals/"+id, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)

	var r struct {
		Name        string `json:"name"`
		StreakCount int    `json:"streakCount"`
		IsActive    bool   `json:"isActive"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &r))
	assert.Equal(t, "Morning pages", r.Name)
	assert.Zero(t, r.StreakCount)
	assert.True(t, r.IsActive)
}

func TestCreateRitual_MissingFields(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app, "a@example.com")

	resp, env := doJSON(t, app, http.MethodPost, "/api/rituals/", token, map[string]string{
		"name": "No category",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestForeignRitualLooksAbsent(t *testing.T) {
	app := newTestApp(t)
	ownerToken := registerUser(t, app, "owner@example.com")
	otherToken := registerUser(t, app, "other@example.com")
	id := createRitual(t, app, ownerToken)

	respMissing, _ := doJSON(t, app, http.MethodGet, "/api/rituals/"+id, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, respMissing.StatusCode)

	respAbsent, _ := doJSON(t, app, http.MethodGet, "/api/rituals/00000000-0000-0000-0000-000000000001", otherToken, nil)
	assert.Equal(t, http.StatusNotFound, respAbsent.StatusCode)
}

func TestListRituals_EmptyPage(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app, "a@example.com")

	resp, env := doJSON(t, app, http.MethodGet, "/api/rituals/?page=1&limit=10", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var page struct {
		Items      []json.RawMessage `json:"items"`
		Total      int64             `json:"total"`
		TotalPages int               `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Total)
	assert.Zero(t, page.TotalPages)
}

func TestCompleteAndAnalytics(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app, "a@example.com")
	id := createRitual(t, app, token)

	mood := map[string]interface{}{"moodBefore": 5, "moodAfter": 9}
	resp, env := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/rituals/%s/complete", id), token, mood)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, env.Success)

	resp, env = doJSON(t, app, http.MethodGet, "/api/rituals/"+id, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var r struct {
		StreakCount      int `json:"streakCount"`
		TotalCompletions int `json:"totalCompletions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &r))
	assert.Equal(t, 1, r.StreakCount)
	assert.Equal(t, 1, r.TotalCompletions)

	resp, env = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/rituals/%s/analytics?days=7", id), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary struct {
		TotalCompletions int      `json:"totalCompletions"`
		MoodImprovement  *float64 `json:"moodImprovement"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 1, summary.TotalCompletions)
	require.NotNil(t, summary.MoodImprovement)
	assert.InDelta(t, 4.0, *summary.MoodImprovement, 1e-9)
}

func TestStepLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app, "a@example.com")
	id := createRitual(t, app, token)

	resp, env := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/rituals/%s/steps", id), token, map[string]interface{}{
		"name":  "Open notebook",
		"order": 0,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var step struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &step))

	resp, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/rituals/%s/steps/%s", id, step.ID), token, map[string]interface{}{
		"name": "Open the notebook",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/rituals/%s/steps/%s", id, step.ID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDeleteRitual_LogicalThenComplete(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app, "a@example.com")
	id := createRitual(t, app, token)

	resp, _ := doJSON(t, app, http.MethodDelete, "/api/rituals/"+id, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// still queryable, but no longer completable
	resp, _ = doJSON(t, app, http.MethodGet, "/api/rituals/"+id, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/rituals/%s/complete", id), token, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
