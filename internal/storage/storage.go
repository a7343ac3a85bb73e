// Package storage объединяет ошибки, общие для всех реализаций хранилища.
// Конкретные реализации находятся в подпакетах memory и postgresql.
package storage

import "errors"

var (
	// ErrUserExists пользователь с таким email уже зарегистрирован.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrSubscriptionNotFound подписка не найдена или принадлежит другому пользователю.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// Backend имена поддерживаемых реализаций хранилища.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)
