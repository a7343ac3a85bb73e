// Package response содержит типы и функции для формирования JSON‑ответов
// HTTP‑обработчиков в едином формате {"error": "..."}.
package response

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Сообщения об ошибках, общие для нескольких обработчиков.
const (
	MsgInternal     = "internal error"
	MsgUnauthorized = "unauthorized"
	MsgNotFound     = "not found"
	MsgInvalidBody  = "invalid request body"
)

// ErrorResponse тело ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// OKResponse тело ответа без данных.
type OKResponse struct {
	OK bool `json:"ok" example:"true"`
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// OK возвращает {"ok": true}.
func OK() OKResponse {
	return OKResponse{OK: true}
}

// ValidationError формирует ErrorResponse из ошибок валидации.
// Имена полей берутся из json-тегов, если валидатор создан через NewValidator.
// Каждое нарушение превращается в человеко‑читаемый текст, тексты объединяются через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	msgs := make([]string, 0, len(errs))

	for _, err := range errs {
		field := err.Field()
		switch err.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is a required field", field))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid email", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field %s must be one of: %s", field, err.Param()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("field %s must be greater than or equal to %s", field, err.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", field))
		}
	}
	return ErrorResponse{Error: strings.Join(msgs, ", ")}
}

// NewValidator создаёт валидатор, который называет поля в ошибках
// так же, как они названы в JSON.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// User публичное представление пользователя.
type User struct {
	ID    string `json:"id" example:"2b1f0a7e-4c1d-4b8e-9a57-1f3c5d7e9b20"`
	Email string `json:"email" example:"user@example.com"`
}

// FromUser строит публичное представление пользователя.
func FromUser(u *models.User) User {
	return User{ID: u.ID, Email: u.Email}
}
