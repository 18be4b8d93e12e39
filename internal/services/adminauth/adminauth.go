// Package adminauth проверяет ключ администратора и выдаёт токены административной сессии.
package adminauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/commacards/card-subscriptions/internal/lib/jwt"
	"github.com/commacards/card-subscriptions/internal/lib/password"
)

// ErrUnauthorized возвращается при неверном ключе или токене.
var ErrUnauthorized = errors.New("unauthorized")

// Service проверяет учётные данные администратора.
type Service struct {
	keyHash string
	maker   jwt.Maker
}

// New создаёт сервис по bcrypt-хешу ключа. С пустым хешем ни один ключ не подходит.
func New(keyHash string, maker jwt.Maker) *Service {
	return &Service{keyHash: keyHash, maker: maker}
}

// CheckKey сверяет ключ из заголовка x-admin-key с хешем из конфигурации.
func (s *Service) CheckKey(key string) error {
	const op = "adminauth.CheckKey"
	if s.keyHash == "" || key == "" {
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}
	if err := password.CompareHash(s.keyHash, key); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrUnauthorized, err)
	}
	return nil
}

// CheckToken проверяет токен сессии и роль администратора.
func (s *Service) CheckToken(token string) error {
	const op = "adminauth.CheckToken"
	claims, err := s.maker.ParseToken(token)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrUnauthorized, err)
	}
	if !claims.IsAdmin() {
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}
	return nil
}

// OpenSession обменивает ключ администратора на токен сессии.
func (s *Service) OpenSession(key string) (string, time.Time, error) {
	const op = "adminauth.OpenSession"
	if err := s.CheckKey(key); err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	token, expiresAt, err := s.maker.GenerateToken("admin", jwt.RoleAdmin)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return token, expiresAt, nil
}
