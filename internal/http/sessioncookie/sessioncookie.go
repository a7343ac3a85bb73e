// Package sessioncookie записывает и читает cookie с сессионным токеном.
package sessioncookie

import (
	"net/http"
	"time"
)

// DefaultName имя cookie по умолчанию.
const DefaultName = "session"

// Manager хранит атрибуты сессионной cookie.
type Manager struct {
	name   string
	secure bool
	maxAge time.Duration
}

// New создаёт Manager. Пустое имя заменяется на DefaultName.
func New(name string, secure bool, maxAge time.Duration) *Manager {
	if name == "" {
		name = DefaultName
	}
	return &Manager{name: name, secure: secure, maxAge: maxAge}
}

// Name возвращает имя cookie.
func (m *Manager) Name() string {
	return m.name
}

// Set устанавливает cookie с токеном.
func (m *Manager) Set(w http.ResponseWriter, token string) {
	c := m.cookie(token)
	c.MaxAge = int(m.maxAge / time.Second)
	c.Expires = time.Now().Add(m.maxAge).UTC()
	http.SetCookie(w, c)
}

// Clear перезаписывает cookie пустым значением с истёкшим сроком.
func (m *Manager) Clear(w http.ResponseWriter) {
	c := m.cookie("")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0).UTC()
	http.SetCookie(w, c)
}

// Read возвращает токен из запроса.
func (m *Manager) Read(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func (m *Manager) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
