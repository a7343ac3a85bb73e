// Package me реализует HTTP-обработчик, сообщающий о текущей сессии.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Response ответ о состоянии сессии.
type Response struct {
	Authenticated bool           `json:"authenticated"`
	User          *response.User `json:"user,omitempty"`
}

// Service проверяет сессионный токен.
type Service interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// TokenReader достаёт токен из запроса.
type TokenReader interface {
	Read(r *http.Request) (string, bool)
}

// Handler возвращает текущего пользователя, если сессия действительна.
type Handler struct {
	log     *slog.Logger
	service Service
	tokens  TokenReader
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, tokens TokenReader) *Handler {
	return &Handler{log: log, service: service, tokens: tokens}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Description Всегда отвечает 200; при отсутствии сессии authenticated=false.
// @Tags Auth
// @Produce  json
// @Success 200 {object} Response
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

	token, ok := h.tokens.Read(r)
	if !ok {
		render.JSON(w, r, Response{})
		return
	}

	user, err := h.service.Authenticate(r.Context(), token)
	if err != nil {
		h.log.Debug("session rejected",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		render.JSON(w, r, Response{})
		return
	}

	u := response.FromUser(user)
	render.JSON(w, r, Response{Authenticated: true, User: &u})
}
