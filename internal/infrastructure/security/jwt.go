package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenManager — коллаборатор идентификации: из bearer-токена достаёт
// стабильный id пользователя и флаг администратора.
type TokenManager struct {
	accessSecret []byte
}

func NewTokenManager(accessSecret string) *TokenManager {
	return &TokenManager{accessSecret: []byte(accessSecret)}
}

type Identity struct {
	UserID      string
	DisplayName string
	Admin       bool
}

func (m *TokenManager) Generate(userID, displayName string, admin bool, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"name":  displayName,
		"admin": admin,
		"exp":   time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(m.accessSecret)
}

func (m *TokenManager) Validate(tokenStr string) (Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.accessSecret, nil
	})
	if err != nil {
		return Identity{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Identity{}, errors.New("invalid token")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Identity{}, errors.New("invalid token")
	}
	name, _ := claims["name"].(string)
	admin, _ := claims["admin"].(bool)

	return Identity{UserID: sub, DisplayName: name, Admin: admin}, nil
}
