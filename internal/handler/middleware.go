package handler

import (
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sumire/jobboard/internal/domain"
	"github.com/sumire/jobboard/internal/service"
)

const (
	contextKeyClaims = "claims"
)

// RequestLogger logs each HTTP request with structured fields.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			level := slog.LevelInfo
			if c.Response().Status >= 500 {
				level = slog.LevelError
			}
			logger.Log(c.Request().Context(), level, "http request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"route", c.Path(),
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)

			return nil
		}
	}
}

// JWTAuth validates the Bearer token and injects the caller's claims into echo context.
func JWTAuth(tokens TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return domain.ErrUnauthorized
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				return domain.ErrUnauthorized
			}

			claims, err := tokens.ValidateToken(parts[1])
			if err != nil {
				return domain.ErrUnauthorized
			}

			c.Set(contextKeyClaims, claims)
			return next(c)
		}
	}
}

// OptionalAuth attaches the caller's claims when a Bearer token is present
// and lets anonymous requests through. A malformed or invalid token is still
// rejected.
func OptionalAuth(tokens TokenValidator) echo.MiddlewareFunc {
	strict := JWTAuth(tokens)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		withClaims := strict(next)
		return func(c echo.Context) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return next(c)
			}
			return withClaims(c)
		}
	}
}

// RequireAdmin rejects callers whose token does not carry the admin role.
// It must run after JWTAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := GetClaims(c)
			if !ok {
				return domain.ErrUnauthorized
			}
			if !claims.IsAdmin() {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// GetClaims extracts the authenticated caller from echo context.
func GetClaims(c echo.Context) (service.Claims, bool) {
	claims, ok := c.Get(contextKeyClaims).(service.Claims)
	return claims, ok
}
