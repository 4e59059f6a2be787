package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YF-George/rosterd/internal/adapters/relay"
	"github.com/YF-George/rosterd/internal/app"
	"github.com/YF-George/rosterd/internal/auth"
	"github.com/YF-George/rosterd/internal/config"
	"github.com/YF-George/rosterd/internal/store"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Mode:           "release",
		Secret:         "test-secret",
		MaxEditors:     2,
		IdleTimeout:    3 * time.Minute,
		EditRateLimit:  3,
		RateWindow:     time.Minute,
		AdminWhitelist: `{"boss":"pw123"}`,
		PseudonymSalt:  "test-salt",
	}

	reg := app.NewRegistry(store.NewMemory())
	admission := app.NewAdmission(reg, cfg.MaxEditors, cfg.IdleTimeout)
	roster := app.NewRoster(reg, auth.NewHasher(cfg.PseudonymSalt))
	return SetupRouter(cfg, admission, roster, relay.NewHub())
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func roomCall(t *testing.T, r *gin.Engine, body map[string]any) (int, map[string]any) {
	t.Helper()
	w, resp := postJSON(t, r, "/api/room", body)
	return w.Code, resp
}

func TestRoomMissingSessionID(t *testing.T) {
	r := setupTestRouter(t)

	code, resp := roomCall(t, r, map[string]any{"action": "register"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "missing sessionId", resp["error"])

	// malformed body behaves like an empty one
	req := httptest.NewRequest(http.MethodPost, "/api/room", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoomUnknownAction(t *testing.T) {
	r := setupTestRouter(t)

	code, resp := roomCall(t, r, map[string]any{"action": "explode", "sessionId": "A"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "unknown action", resp["error"])
}

func TestRoomRegisterFlow(t *testing.T) {
	r := setupTestRouter(t)

	code, resp := roomCall(t, r, map[string]any{"action": "register", "sessionId": "A"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "editor", resp["role"])

	code, resp = roomCall(t, r, map[string]any{"action": "register", "sessionId": "B"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "editor", resp["role"])

	code, resp = roomCall(t, r, map[string]any{"action": "register", "sessionId": "C"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "observer", resp["role"])
	assert.Equal(t, float64(0), resp["queuePos"])

	// admin joins a full room
	code, resp = roomCall(t, r, map[string]any{"action": "register", "sessionId": "Z", "isAdmin": true})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "editor", resp["role"])

	// A leaves, C is promoted and sees it on the next ping
	code, resp = roomCall(t, r, map[string]any{"action": "leave", "sessionId": "A"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp["ok"])

	code, resp = roomCall(t, r, map[string]any{"action": "ping", "sessionId": "C"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "editor", resp["role"])
}

func TestRoomPingUnknown(t *testing.T) {
	r := setupTestRouter(t)

	code, resp := roomCall(t, r, map[string]any{"action": "ping", "sessionId": "ghost"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "unknown", resp["role"])
}

func TestRoomHousekeeping(t *testing.T) {
	r := setupTestRouter(t)

	_, _ = roomCall(t, r, map[string]any{"action": "register", "sessionId": "A"})
	_, _ = roomCall(t, r, map[string]any{"action": "register", "sessionId": "B"})

	code, resp := roomCall(t, r, map[string]any{"action": "housekeeping", "sessionId": "ops"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp["ok"])
	assert.Equal(t, float64(2), resp["editors"])
	assert.Equal(t, float64(0), resp["queue"])
}

func TestRoomsSeparateByName(t *testing.T) {
	r := setupTestRouter(t)

	// default room and a named room do not share slots
	for _, sid := range []string{"A", "B"} {
		code, resp := roomCall(t, r, map[string]any{"action": "register", "sessionId": sid})
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, "editor", resp["role"])
	}

	code, resp := roomCall(t, r, map[string]any{"action": "register", "sessionId": "C", "room": "other"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "editor", resp["role"])
}

func TestAuthHandler(t *testing.T) {
	r := setupTestRouter(t)

	w, resp := postJSON(t, r, "/api/auth", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, resp["success"])

	w, resp = postJSON(t, r, "/api/auth", map[string]any{"gameId": "boss", "uid": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, resp["success"])

	w, resp = postJSON(t, r, "/api/auth", map[string]any{"gameId": "boss", "uid": "pw123"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["isAdmin"])

	// no uid means a plain participant login
	w, resp = postJSON(t, r, "/api/auth", map[string]any{"gameId": "newbie"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, resp["isAdmin"])
}

func TestCheckAdminHandler(t *testing.T) {
	r := setupTestRouter(t)

	w, resp := postJSON(t, r, "/api/check-admin", map[string]any{"gameId": "boss"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["isAdmin"])

	w, resp = postJSON(t, r, "/api/check-admin", map[string]any{"gameId": "nobody"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, resp["isAdmin"])

	w, resp = postJSON(t, r, "/api/check-admin", map[string]any{})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, resp["isAdmin"])
}

func TestEditsEndpoint(t *testing.T) {
	r := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/edits", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := map[string]any{
		"formId":    "winter-raid",
		"pseudonym": "secret",
		"action":    map[string]any{"type": "edit", "content": "hello"},
	}
	w2, resp := postJSON(t, r, "/api/edits", body)
	assert.Equal(t, http.StatusCreated, w2.Code)
	assert.Equal(t, true, resp["ok"])
	assert.NotEmpty(t, resp["id"])

	req = httptest.NewRequest(http.MethodGet, "/api/edits?formId=winter-raid", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var listResp struct {
		Edits []map[string]any `json:"edits"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Len(t, listResp.Edits, 1)
	assert.NotContains(t, listResp.Edits[0], "pseudonym_hash")
}

func TestEditsRateLimit(t *testing.T) {
	r := setupTestRouter(t)

	body := map[string]any{
		"formId":    "f",
		"pseudonym": "secret",
		"action":    map[string]any{"type": "edit", "content": "x"},
	}

	// limit is 3 per window in the test config
	for i := 0; i < 3; i++ {
		w, _ := postJSON(t, r, "/api/edits", body)
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w, resp := postJSON(t, r, "/api/edits", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate limit exceeded", resp["error"])
}

func TestGroupsEndpoint(t *testing.T) {
	r := setupTestRouter(t)

	members := make([]map[string]any, 10)
	for i := range members {
		members[i] = map[string]any{"name": "m", "profession": "mage", "weapon": "staff", "gearScore": 5000}
	}

	w, resp := postJSON(t, r, "/api/groups", map[string]any{"formId": "f", "members": members})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, resp["ok"])

	w, resp = postJSON(t, r, "/api/groups", map[string]any{"formId": "f", "members": members[:4]})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, resp["error"])

	req := httptest.NewRequest(http.MethodGet, "/api/groups?formId=f", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
