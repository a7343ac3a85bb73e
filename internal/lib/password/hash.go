// Package password реализует функции для безопасного хеширования и проверки паролей.
//
// GetHash создает scrypt-хеш пароля со случайной солью в формате "salt:hash".
// Verify пересчитывает хеш с сохранённой солью и сравнивает за постоянное время.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	saltLen = 16
	keyLen  = 64

	scryptN = 1 << 14
	scryptR = 8
	scryptP = 1
)

// GetHash принимает пароль пользователя и возвращает его scrypt‑хэш вместе с солью.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	hash, err := derive(password, salt)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(hash), nil
}

// Verify сообщает, соответствует ли пароль сохранённому хэшу.
//
// Некорректный формат хэша не приводит к панике, а возвращает false.
func Verify(stored, password string) bool {
	saltHex, hashHex, ok := strings.Cut(stored, ":")
	if !ok {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) == 0 {
		return false
	}
	hash, err := hex.DecodeString(hashHex)
	if err != nil || len(hash) != keyLen {
		return false
	}
	candidate, err := derive(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(hash, candidate) == 1
}

func derive(password string, salt []byte) ([]byte, error) {
	return scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLen)
}
