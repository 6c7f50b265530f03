package auth

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Sreehari-M-dev/LOGI-tests/caching"
	"github.com/Sreehari-M-dev/LOGI-tests/config"
	"github.com/Sreehari-M-dev/LOGI-tests/database"
	"github.com/Sreehari-M-dev/LOGI-tests/util/token"
	"github.com/Sreehari-M-dev/LOGI-tests/web/middleware"
	"github.com/Sreehari-M-dev/LOGI-tests/web/service"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type client struct {
	t       *testing.T
	handler http.Handler
	issuer  *token.Issuer
}

func setup(t *testing.T) *client {
	t.Helper()
	cfg := config.GetDatabaseConfig()
	cfg.Path = filepath.Join(t.TempDir(), "auth.db")
	require.NoError(t, database.InitDB(cfg))
	t.Cleanup(func() { _ = database.CloseDB() })

	store := caching.NewCache()
	require.NoError(t, store.Init(time.Minute))
	t.Cleanup(func() { _ = store.Flush() })

	issuer := token.NewIssuer("auth-test-secret", time.Hour)
	return &client{t: t, handler: NewServer(issuer, store).Handler(), issuer: issuer}
}

func (cl *client) do(method, path, tok, body string) (int, map[string]any) {
	cl.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	cl.handler.ServeHTTP(w, req)
	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(cl.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func TestRegisterLoginVerify(t *testing.T) {
	cl := setup(t)

	code, body := cl.do(http.MethodPost, "/api/auth/register", "",
		`{"name":"Asha","rgno":"1001","rollno":7,"password":"s3cret","email":"asha@example.edu"}`)
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "Registration successful", body["message"])
	user := body["user"].(map[string]any)
	assert.Equal(t, float64(1001), user["rgno"])
	assert.Equal(t, "student", user["role"])
	assert.NotEmpty(t, user["id"])
	assert.NotContains(t, user, "email")

	claims, err := cl.issuer.Verify(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, int64(1001), claims.Rgno)

	code, body = cl.do(http.MethodPost, "/api/auth/register", "", `{"name":"Dup","rgno":1001,"password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Register number already registered", body["error"])

	code, body = cl.do(http.MethodPost, "/api/auth/register", "", `{"name":"NoPw","rgno":1002}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Name, register number, and password are required", body["error"])

	code, body = cl.do(http.MethodPost, "/api/auth/login", "", `{"rgno":1001,"password":"s3cret"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Login successful", body["message"])
	assert.Equal(t, "asha@example.edu", body["user"].(map[string]any)["email"])
	tok := body["token"].(string)

	code, body = cl.do(http.MethodPost, "/api/auth/login", "", `{"rgno":1001,"password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid register number or password", body["error"])

	code, body = cl.do(http.MethodPost, "/api/auth/login", "", `{"rgno":1001}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Register number and password are required", body["error"])

	code, _ = cl.do(http.MethodPost, "/api/auth/login", "", `{"rgno":`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = cl.do(http.MethodPost, "/api/auth/verify", tok, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1001), body["user"].(map[string]any)["rgno"])

	code, body = cl.do(http.MethodPost, "/api/auth/verify", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "No token provided", body["error"])

	code, body = cl.do(http.MethodPost, "/api/auth/verify", tok+"x", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid or expired token", body["error"])

	code, body = cl.do(http.MethodGet, "/api/auth/profile", tok, "")
	require.Equal(t, http.StatusOK, code)
	profile := body["user"].(map[string]any)
	assert.Equal(t, "Asha", profile["name"])
	assert.NotContains(t, profile, "password")

	code, body = cl.do(http.MethodPost, "/api/auth/logout", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Logout successful", body["message"])
}

func TestInactiveLogin(t *testing.T) {
	cl := setup(t)
	code, _ := cl.do(http.MethodPost, "/api/auth/register", "", `{"name":"Ravi","rgno":2002,"password":"pw","role":"faculty"}`)
	require.Equal(t, http.StatusCreated, code)
	require.NoError(t, (&service.UserService{}).SetActive(2002, false))

	code, body := cl.do(http.MethodPost, "/api/auth/login", "", `{"rgno":2002,"password":"pw"}`)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Account is inactive", body["error"])
}

func TestChangePassword(t *testing.T) {
	cl := setup(t)
	_, body := cl.do(http.MethodPost, "/api/auth/register", "", `{"name":"Asha","rgno":1001,"password":"old"}`)
	tok := body["token"].(string)

	code, body := cl.do(http.MethodPost, "/api/auth/change-password", tok, `{"currentPassword":"bad","newPassword":"new"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Current password is incorrect", body["error"])

	code, _ = cl.do(http.MethodPost, "/api/auth/change-password", tok, `{"currentPassword":"old","newPassword":""}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = cl.do(http.MethodPost, "/api/auth/change-password", tok, `{"currentPassword":"old","newPassword":"new"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Password changed successfully", body["message"])

	code, _ = cl.do(http.MethodPost, "/api/auth/login", "", `{"rgno":1001,"password":"new"}`)
	assert.Equal(t, http.StatusOK, code)
}

func TestUsersAdminOnly(t *testing.T) {
	cl := setup(t)
	_, body := cl.do(http.MethodPost, "/api/auth/register", "", `{"name":"S","rgno":1,"password":"pw"}`)
	student := body["token"].(string)
	_, body = cl.do(http.MethodPost, "/api/auth/register", "", `{"name":"A","rgno":2,"password":"pw","role":"admin"}`)
	admin := body["token"].(string)

	code, body := cl.do(http.MethodGet, "/api/auth/users", student, "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Access denied", body["error"])

	code, body = cl.do(http.MethodGet, "/api/auth/users", admin, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), body["count"])
	for _, u := range body["users"].([]any) {
		assert.NotContains(t, u.(map[string]any), "password")
	}
}

func TestHealth(t *testing.T) {
	cl := setup(t)
	code, body := cl.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Auth Server running on port 3002", body["status"])
}

func TestRateLimitKeysOnSocketAddress(t *testing.T) {
	t.Setenv("LOGI_RATE_LIMIT_MAX", "2")
	t.Setenv("LOGI_TRUSTED_PROXIES", "")
	cl := setup(t)

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req.RemoteAddr = "198.51.100.7:5000"
		req.Header.Set("X-Forwarded-For", "10.9.0."+strconv.Itoa(i+1))
		w := httptest.NewRecorder()
		cl.handler.ServeHTTP(w, req)
		last = w.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestBodyLimit(t *testing.T) {
	cl := setup(t)
	big := `{"password":"` + strings.Repeat("a", middleware.MaxBodyBytes) + `"}`
	code, body := cl.do(http.MethodPost, "/api/auth/login", "", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, code)
	assert.Equal(t, "Request body too large", body["error"])
}
