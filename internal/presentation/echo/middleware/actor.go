package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mirola777/order-capture-service/internal/domain"
	apperrors "github.com/mirola777/order-capture-service/internal/domain/errors"
	"github.com/mirola777/order-capture-service/internal/infrastructure/auth"
)

const actorKey = "actor"

// Actor resolves who is calling. A bearer token must be valid; without one the
// X-User-Id header names the caller, and requests with neither are anonymous.
// A nil codec rejects every bearer token.
func Actor(codec *auth.TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := domain.Actor{UserID: c.Request().Header.Get("X-User-Id")}

			if header := c.Request().Header.Get(echo.HeaderAuthorization); header != "" {
				token, ok := strings.CutPrefix(header, "Bearer ")
				if !ok || codec == nil {
					return apperrors.ErrUnauthenticated()
				}
				claims, err := codec.Parse(token)
				if err != nil {
					return apperrors.ErrUnauthenticated()
				}
				actor = claims.Actor()
			}

			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

func ActorFrom(c echo.Context) domain.Actor {
	actor, _ := c.Get(actorKey).(domain.Actor)
	return actor
}
