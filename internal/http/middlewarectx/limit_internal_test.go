package middlewarectx

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientLimiters_ForgetsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newClientLimiters(0.001, 1)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"))
	assert.Len(t, l.clients, 1)

	now = now.Add(limiterIdleTTL + time.Second)
	assert.True(t, l.allow("10.0.0.2"))
	assert.Len(t, l.clients, 1)
	assert.NotContains(t, l.clients, "10.0.0.1")
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.7:4321"
	assert.Equal(t, "203.0.113.7", clientKey(req))

	req.RemoteAddr = "203.0.113.7"
	assert.Equal(t, "203.0.113.7", clientKey(req))
}
