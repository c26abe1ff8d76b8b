package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"orbit/internal/config"
	"orbit/internal/database"
	"orbit/internal/repository"
	"orbit/internal/service"
	"orbit/internal/token"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServer builds a Server against a fresh in-memory SQLite database
// with an ephemeral signing key and no Redis. Prometheus middleware stays
// nil so repeated test setups don't re-register collectors.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	key, err := token.GenerateDevKey()
	require.NoError(t, err)

	s := &Server{
		config: &config.Config{Env: "test", Port: "0", TokenTTL: "1h"},
		db:     db,
		codec:  token.NewCodec(key, time.Hour),
	}
	s.userRepo = repository.NewUserRepository(db)
	s.postRepo = repository.NewPostRepository(db)
	s.engagementRepo = repository.NewEngagementRepository(db)
	s.followRepo = repository.NewFollowRepository(db)
	s.postService = service.NewPostService(s.postRepo, s.followRepo)
	s.engagementService = service.NewEngagementService(s.engagementRepo, s.postRepo)
	s.userService = service.NewUserService(s.userRepo, s.followRepo)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

// doJSON performs a request with an optional JSON body and bearer token,
// returning the response and its decoded JSON body.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any, bearer string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	decoded := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

// registerUser creates an account through the API and returns its token
// and user ID.
func registerUser(t *testing.T, app *fiber.App, username string) (string, uint) {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/register", fiber.Map{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, "register %s: %v", username, body)

	tok, _ := body["token"].(string)
	require.NotEmpty(t, tok)
	user := body["user"].(map[string]any)
	return tok, uint(user["id"].(float64))
}

// promoteTier upgrades a user's tier directly in the store and re-issues a
// token through login so the claims reflect the new tier.
func promoteTier(t *testing.T, s *Server, app *fiber.App, username, tier string) string {
	t.Helper()
	require.NoError(t, s.db.Exec("UPDATE users SET tier = ? WHERE username = ?", tier, username).Error)

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/login", fiber.Map{
		"email":    username + "@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return body["token"].(string)
}
