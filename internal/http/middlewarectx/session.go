// Package middlewarectx содержит HTTP middleware проверки сессии и ограничения частоты запросов.
//
// SessionMiddleware читает сессионную cookie, проверяет токен через Authenticator
// и кладёт id и email пользователя в контекст запроса.
// При ошибке проверки возвращает HTTP 401 Unauthorized.
package middlewarectx

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

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID ключ для id пользователя в контексте.
	UserUID Key = "user_uid"
	// Email ключ для email пользователя в контексте.
	Email Key = "email"
)

// Authenticator проверяет сессионный токен.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// TokenReader достаёт токен из запроса.
type TokenReader interface {
	Read(r *http.Request) (string, bool)
}

// SessionMiddleware пропускает дальше только запросы с действующей сессией.
func SessionMiddleware(auth Authenticator, tokens TokenReader, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token, ok := tokens.Read(r)
			if !ok {
				log.Debug("session cookie missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error(response.MsgUnauthorized))
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				log.Info("invalid or expired session", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error(response.MsgUnauthorized))
				return
			}

			ctx := context.WithValue(r.Context(), UserUID, user.ID)
			ctx = context.WithValue(ctx, Email, user.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserUIDFromContext возвращает id пользователя, положенный SessionMiddleware.
func UserUIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(UserUID).(string)
	return uid, ok && uid != ""
}
