package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mirola777/order-capture-service/internal/domain"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carry the acting user, the shops they may act for and their
// permissions.
type Claims struct {
	jwt.RegisteredClaims
	ShopIDs     []string `json:"shop_ids"`
	Permissions []string `json:"permissions"`
}

func (c *Claims) Actor() domain.Actor {
	return domain.Actor{
		UserID:      c.Subject,
		ShopIDs:     c.ShopIDs,
		Permissions: c.Permissions,
	}
}

type TokenCodec struct {
	key []byte
}

func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{key: []byte(secret)}
}

func (c *TokenCodec) Sign(actor domain.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		ShopIDs:     actor.ShopIDs,
		Permissions: actor.Permissions,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
}

func (c *TokenCodec) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return c.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
