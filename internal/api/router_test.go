package api_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/linkup-social/linkup-be/internal/api"
	"github.com/linkup-social/linkup-be/internal/auth"
	"github.com/linkup-social/linkup-be/internal/cache"
	"github.com/linkup-social/linkup-be/internal/database"
	"github.com/linkup-social/linkup-be/internal/models"
	"github.com/linkup-social/linkup-be/internal/ratelimit"
	"github.com/linkup-social/linkup-be/internal/services"
	ws "github.com/linkup-social/linkup-be/internal/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (http.Handler, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	redisCache := &cache.RedisCache{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}

	userSvc := services.NewUserService(db)
	notifSvc := services.NewNotificationService(db, redisCache, nil)
	followSvc := services.NewFollowService(db, notifSvc)
	postSvc := services.NewPostService(db, followSvc, notifSvc)
	storySvc := services.NewStoryService(db, followSvc)
	messageSvc := services.NewMessageService(db, notifSvc, nil)
	reportSvc := services.NewReportService(db, userSvc, notifSvc)

	// high limit so throttling does not interfere with status-code checks
	limiter := ratelimit.NewLimiter(redisCache, "follow", 1000, time.Minute)

	router := api.NewRouter(ws.NewHub(), api.Services{
		Users:         userSvc,
		Follows:       followSvc,
		Notifications: notifSvc,
		Posts:         postSvc,
		Stories:       storySvc,
		Messages:      messageSvc,
		Reports:       reportSvc,
	}, limiter)
	return router, db
}

// seedUser inserts an account and returns its id plus a valid bearer token.
func seedUser(t *testing.T, db *sql.DB, username string, isPrivate bool) (string, string) {
	t.Helper()
	id := uuid.New().String()
	_, err := db.Exec(
		"INSERT INTO users (id, username, email, password_hash, is_private, role) VALUES (?, ?, ?, ?, ?, ?)",
		id, username, username+"@test.com", "x", isPrivate, models.RoleUser,
	)
	require.NoError(t, err)

	token, err := auth.GenerateJWT(models.User{ID: id, Username: username, Role: models.RoleUser})
	require.NoError(t, err)
	return id, token
}

func doRequest(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestFollowEndpointStatusCodes(t *testing.T) {
	router, db := setupRouter(t)
	aliceID, aliceToken := seedUser(t, db, "alice", false)
	bobID, _ := seedUser(t, db, "bob", false)
	carolID, carolToken := seedUser(t, db, "carol", true)

	// no token
	rr := doRequest(t, router, http.MethodPost, "/profile/follow/"+bobID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// following yourself
	rr = doRequest(t, router, http.MethodPost, "/profile/follow/"+aliceID, aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// unknown target
	rr = doRequest(t, router, http.MethodPost, "/profile/follow/no-such-user", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// first follow succeeds, repeating it conflicts
	rr = doRequest(t, router, http.MethodPost, "/profile/follow/"+bobID, aliceToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = doRequest(t, router, http.MethodPost, "/profile/follow/"+bobID, aliceToken, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.JSONEq(t, `{"error":"already following this user"}`, rr.Body.String())

	// a stranger cannot read a private account's followers
	rr = doRequest(t, router, http.MethodGet, "/profile/followers/"+carolID, aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// accepting a request that does not exist
	rr = doRequest(t, router, http.MethodPut, "/profile/follow-requests/"+uuid.New().String()+"/accept", carolToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// unfollowing someone you never followed
	rr = doRequest(t, router, http.MethodDelete, "/profile/unfollow/"+aliceID, carolToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestNotificationListCapsLimit(t *testing.T) {
	router, db := setupRouter(t)
	bobID, bobToken := seedUser(t, db, "bob", false)

	for i := 0; i < 150; i++ {
		_, err := db.Exec(
			"INSERT INTO notifications (id, user_id, type, content) VALUES (?, ?, ?, ?)",
			uuid.New().String(), bobID, models.NotifLike, fmt.Sprintf("like %d", i),
		)
		require.NoError(t, err)
	}

	var body struct {
		Notifications []models.Notification `json:"notifications"`
	}

	rr := doRequest(t, router, http.MethodGet, "/notifications?limit=1000000", bobToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Len(t, body.Notifications, 100)

	// default page size without an explicit limit
	rr = doRequest(t, router, http.MethodGet, "/notifications", bobToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body.Notifications = nil
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Len(t, body.Notifications, 20)
}
