// Package health реализует HTTP-обработчик проверки готовности сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
)

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Response ответ health-check.
type Response struct {
	Status  string `json:"status" example:"ok"`
	Storage string `json:"storage" example:"memory"`
}

// Handler отвечает на health-check.
type Handler struct {
	log     *slog.Logger
	storage Pinger
	backend string
}

// New создает новый Handler для хранилища backend.
func New(log *slog.Logger, storage Pinger, backend string) *Handler {
	return &Handler{
		log:     log,
		storage: storage,
		backend: backend,
	}
}

// ServeHTTP godoc
// @Summary Проверка состояния
// @Tags Health
// @Produce  json
// @Success 200 {object} Response
// @Failure 503 {object} Response
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.health"

	if err := h.storage.Ping(r.Context()); err != nil {
		h.log.Error("storage is unavailable", slog.String("op", op), sl.Err(err))
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, Response{Status: "unavailable", Storage: h.backend})
		return
	}
	render.JSON(w, r, Response{Status: "ok", Storage: h.backend})
}
