// Package logout реализует HTTP-обработчик выхода: сессионная cookie перезаписывается истёкшей.
package logout

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
)

// CookieClearer удаляет сессионную cookie.
type CookieClearer interface {
	Clear(w http.ResponseWriter)
}

// Handler обрабатывает выход пользователя.
type Handler struct {
	cookies CookieClearer
}

// New создает новый Handler.
func New(cookies CookieClearer) *Handler {
	return &Handler{cookies: cookies}
}

// ServeHTTP godoc
// @Summary Выход
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.OKResponse
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	render.JSON(w, r, response.OK())
}
