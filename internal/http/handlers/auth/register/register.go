// Package register реализует HTTP-обработчик регистрации пользователя.
//
// Handler принимает email и пароль, создаёт учётную запись и сразу открывает сессию,
// выставляя сессионную cookie.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	authservice "github.com/magabrotheeeer/subscription-tracker/internal/services/auth"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

// Request входные данные для регистрации.
type Request struct {
	Email    string `json:"email" validate:"required,email" example:"user@example.com"`
	Password string `json:"password" validate:"required" example:"secret"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, email, password string) (*models.User, string, error)
}

// CookieSetter выставляет сессионную cookie.
type CookieSetter interface {
	Set(w http.ResponseWriter, token string)
}

// Handler обрабатывает HTTP-запросы на регистрацию.
type Handler struct {
	log      *slog.Logger
	service  Service
	cookies  CookieSetter
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, cookies CookieSetter) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		cookies:  cookies,
		validate: response.NewValidator(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация нового пользователя
// @Description Создаёт пользователя и открывает сессию (cookie session).
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Email и пароль"
// @Success 201 {object} response.User
// @Failure 400 {object} response.ErrorResponse "Некорректные данные или email уже занят"
// @Failure 500 {object} response.ErrorResponse
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidBody))
		return
	}
	req.Email = authservice.NormalizeEmail(req.Email)

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		render.JSON(w, r, response.Error(response.MsgInvalidBody))
		return
	}

	user, token, err := h.service.Register(r.Context(), req.Email, req.Password)
	if errors.Is(err, storage.ErrUserExists) {
		log.Info("user already exists")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(storage.ErrUserExists.Error()))
		return
	}
	if err != nil {
		log.Error("registration failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	h.cookies.Set(w, token)
	log.Info("user registered", slog.String("user_id", user.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.FromUser(user))
}
