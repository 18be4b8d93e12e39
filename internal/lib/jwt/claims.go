package jwt

import "github.com/golang-jwt/jwt/v5"

// SessionClaims — данные административной сессии в токене.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin сообщает, выдан ли токен администратору.
func (c *SessionClaims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}
