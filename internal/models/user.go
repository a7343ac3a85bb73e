// Package models содержит доменные структуры сервиса: пользователя,
// подписку, параметры выборки и страницу результатов.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           string    `json:"id"`         // Уникальный идентификатор пользователя
	Email        string    `json:"email"`      // Электронная почта в нижнем регистре
	PasswordHash string    `json:"-"`          // Хэш пароля в формате salt:hash
	CreatedAt    time.Time `json:"created_at"` // Дата регистрации
}
