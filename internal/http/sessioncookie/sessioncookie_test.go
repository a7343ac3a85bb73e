package sessioncookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	m := New("", true, 7*24*time.Hour)
	rec := httptest.NewRecorder()

	m.Set(rec, "token-value")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, DefaultName, c.Name)
	assert.Equal(t, "token-value", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 604800, c.MaxAge)
}

func TestSet_NotSecureLocally(t *testing.T) {
	m := New("sid", false, time.Hour)
	rec := httptest.NewRecorder()

	m.Set(rec, "v")

	c := rec.Result().Cookies()[0]
	assert.Equal(t, "sid", c.Name)
	assert.False(t, c.Secure)
	assert.Equal(t, 3600, c.MaxAge)
}

func TestClear(t *testing.T) {
	m := New("session", false, time.Hour)
	rec := httptest.NewRecorder()

	m.Clear(rec)

	header := rec.Header().Get("Set-Cookie")
	assert.Contains(t, header, "session=;")
	assert.Contains(t, header, "Max-Age=0")
	assert.Contains(t, header, "HttpOnly")
	assert.Contains(t, header, "SameSite=Lax")
}

func TestRead(t *testing.T) {
	m := New("session", false, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := m.Read(req)
	assert.False(t, ok)

	req.AddCookie(&http.Cookie{Name: "session", Value: "abc"})
	token, ok := m.Read(req)
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	empty := httptest.NewRequest(http.MethodGet, "/", nil)
	empty.AddCookie(&http.Cookie{Name: "session", Value: ""})
	_, ok = m.Read(empty)
	assert.False(t, ok)
}
