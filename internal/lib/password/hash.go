// Package password реализует хеширование и проверку ключа администратора.
//
// В конфигурации хранится только bcrypt-хеш ключа; сам ключ приходит
// в заголовке x-admin-key или в запросе на открытие сессии.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// GetHash возвращает bcrypt-хеш секрета. Используется для подготовки конфигурации.
func GetHash(secret string) (string, error) {
	const op = "password.GetHash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// CompareHash сравнивает bcrypt-хеш с переданным секретом.
//
// Возвращает nil, если секрет соответствует хешу, иначе — ошибку.
func CompareHash(originalHash, secret string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(secret)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
