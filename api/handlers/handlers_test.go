package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"atlas/api/routes"
	"atlas/db"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	router := gin.New()
	routes.Setup(router, routes.NewServices(routes.Deps{DB: conn}))
	return router
}

// do issues one request against the router and decodes the JSON body.
func do(t *testing.T, router *gin.Engine, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	decoded := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec.Code, decoded
}

func register(t *testing.T, router *gin.Engine, code, name string) map[string]any {
	t.Helper()
	status, body := do(t, router, http.MethodPost, "/auth/register", "", gin.H{
		"friend_code": code,
		"username":    name,
	})
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, body["auth_token"])
	return body
}

func linkedPair(t *testing.T, router *gin.Engine) (tokenA, tokenB string) {
	t.Helper()
	a := register(t, router, "ATLAS-AAAAAA", "Alice")
	b := register(t, router, "ATLAS-BBBBBB", "Bob")
	tokenA = a["auth_token"].(string)
	tokenB = b["auth_token"].(string)

	status, body := do(t, router, http.MethodPost, "/auth/link-partner", tokenA, gin.H{
		"friend_code": "ATLAS-BBBBBB",
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["success"])
	return tokenA, tokenB
}

func TestRegisterUpsertsByFriendCode(t *testing.T) {
	router := newTestRouter(t)

	first := register(t, router, "atlas-aaaaaa", "Alice")
	assert.Equal(t, "ATLAS-AAAAAA", first["friend_code"], "code is normalized")
	assert.Nil(t, first["partner_id"])

	// Same code again: same identity and token, fresh display name.
	second := register(t, router, "ATLAS-AAAAAA", "Alicia")
	assert.Equal(t, first["id"], second["id"])
	assert.Equal(t, first["auth_token"], second["auth_token"])
	assert.Equal(t, "Alicia", second["username"])
}

func TestValidateNeverLeaksToken(t *testing.T) {
	router := newTestRouter(t)
	register(t, router, "ATLAS-AAAAAA", "Alice")

	status, body := do(t, router, http.MethodGet, "/auth/validate/ATLAS-AAAAAA", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["valid"])
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Alice", user["username"])
	assert.NotContains(t, user, "auth_token")
	assert.NotContains(t, user, "token")

	status, body = do(t, router, http.MethodGet, "/auth/validate/ATLAS-ZZZZZZ", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["valid"])
	assert.Nil(t, body["user"])
}

func TestValidateStoreFailureIsNotANegative(t *testing.T) {
	gin.SetMode(gin.TestMode)
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	router := gin.New()
	routes.Setup(router, routes.NewServices(routes.Deps{DB: conn}))

	// Kill the store underneath the handler: the lookup must surface as an
	// error, never as "code does not exist".
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	status, body := do(t, router, http.MethodGet, "/auth/validate/ATLAS-AAAAAA", "", nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.NotContains(t, body, "valid")
	assert.NotEmpty(t, body["error"])
}

func TestBearerAuthRequired(t *testing.T) {
	router := newTestRouter(t)

	status, _ := do(t, router, http.MethodGet, "/sync/poll?since=0", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, router, http.MethodGet, "/sync/poll?since=0", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestPairLifecycle(t *testing.T) {
	router := newTestRouter(t)
	tokenA, tokenB := linkedPair(t, router)

	// Both sides resolve each other's presence.
	status, body := do(t, router, http.MethodGet, "/presence/partner", tokenA, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Bob", body["username"])
	assert.Equal(t, "offline", body["status"])

	status, body = do(t, router, http.MethodGet, "/presence/partner", tokenB, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Alice", body["username"])

	// Alice sends a message; Bob's poll from zero carries it, unread.
	status, body = do(t, router, http.MethodPost, "/messages", tokenA, gin.H{"content": "hi"})
	require.Equal(t, http.StatusCreated, status)
	messageID := body["id"].(string)

	status, body = do(t, router, http.MethodGet, "/sync/poll?since=0", tokenB, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["has_partner"])
	assert.Equal(t, true, body["has_new_data"])
	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]any)
	assert.Equal(t, "hi", msg["content"])
	assert.Nil(t, msg["read_at"])

	status, body = do(t, router, http.MethodPost, "/messages/read", tokenB, gin.H{
		"message_ids": []string{messageID},
	})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["updated_count"])

	status, body = do(t, router, http.MethodGet, "/messages/unread-count", tokenB, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, body["unread_count"])
}

func TestUnpairedRoutesFailClosed(t *testing.T) {
	router := newTestRouter(t)
	solo := register(t, router, "ATLAS-SOLO11", "Solo")
	token := solo["auth_token"].(string)

	status, _ := do(t, router, http.MethodGet, "/presence/partner", token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, router, http.MethodPost, "/messages", token, gin.H{"content": "hello?"})
	assert.Equal(t, http.StatusNotFound, status)

	// Poll stays a success with the empty shape.
	status, body := do(t, router, http.MethodGet, "/sync/poll?since=0", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["has_partner"])
	assert.Equal(t, false, body["has_new_data"])
	assert.NotNil(t, body["messages"])
}

func TestUnlinkDropsBothSides(t *testing.T) {
	router := newTestRouter(t)
	tokenA, tokenB := linkedPair(t, router)

	status, body := do(t, router, http.MethodPost, "/auth/unlink-partner", tokenB, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	status, _ = do(t, router, http.MethodGet, "/presence/partner", tokenA, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, router, http.MethodPost, "/auth/unlink-partner", tokenA, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCountdownMemoryRequiresTargetDate(t *testing.T) {
	router := newTestRouter(t)
	tokenA, _ := linkedPair(t, router)

	status, body := do(t, router, http.MethodPost, "/memories", tokenA, gin.H{
		"memory_type":  "countdown",
		"content_text": "anniversary",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, body["error"])

	status, body = do(t, router, http.MethodPost, "/memories", tokenA, gin.H{
		"memory_type":  "countdown",
		"content_text": "anniversary",
		"target_date":  2000000000000,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.EqualValues(t, 2000000000000, body["target_date"])
}

func TestCalendarEventWireShape(t *testing.T) {
	router := newTestRouter(t)
	tokenA, tokenB := linkedPair(t, router)

	status, body := do(t, router, http.MethodPost, "/calendar", tokenA, gin.H{
		"title":    "bad time",
		"datetime": -1,
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = do(t, router, http.MethodPost, "/calendar", tokenA, gin.H{
		"title":        "raid night",
		"datetime":     1700000000000,
		"timezone":     "UTC",
		"is_recurring": true,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["is_recurring"], "recurrence is a JSON boolean")
	assert.EqualValues(t, 30, body["reminder_minutes"])
	eventID := body["id"].(string)

	// The partner patches it; explicit null clears the reminder.
	status, body = do(t, router, http.MethodPut, "/calendar/"+eventID, tokenB, gin.H{
		"title":            "raid night (moved)",
		"reminder_minutes": nil,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "raid night (moved)", body["title"])
	assert.Nil(t, body["reminder_minutes"])
	assert.Equal(t, true, body["is_recurring"])
}

func TestPartnerGachaStats(t *testing.T) {
	router := newTestRouter(t)
	tokenA, tokenB := linkedPair(t, router)

	status, _ := do(t, router, http.MethodPost, "/gacha-stats", tokenA, gin.H{
		"game":            "genshin",
		"total_pulls":     180,
		"five_star_count": 2,
		"current_pity":    3,
	})
	require.Equal(t, http.StatusOK, status)

	status, body := do(t, router, http.MethodGet, "/gacha-stats/partner", tokenB, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Alice", body["partner_username"])
	stats, ok := body["stats"].([]any)
	require.True(t, ok)
	require.Len(t, stats, 1)
	stat := stats[0].(map[string]any)
	assert.Equal(t, "genshin", stat["game"])
	assert.EqualValues(t, 180, stat["total_pulls"])

	status, body = do(t, router, http.MethodGet, "/gacha-stats/partner/genshin", tokenB, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Alice", body["username"])
	assert.Equal(t, "genshin", body["game"])
	assert.EqualValues(t, 180, body["total_pulls"])
	assert.EqualValues(t, 2, body["five_star_count"])

	status, _ = do(t, router, http.MethodGet, "/gacha-stats/partner/starrail", tokenB, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRelinkRequiresUnlink(t *testing.T) {
	router := newTestRouter(t)
	tokenA, _ := linkedPair(t, router)
	register(t, router, "ATLAS-CCCCCC", "Carol")

	status, body := do(t, router, http.MethodPost, "/auth/link-partner", tokenA, gin.H{
		"friend_code": "ATLAS-CCCCCC",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, fmt.Sprint(body["error"]), "unlink")
}
