package auth

import (
	"fmt"
	"strings"

	"generus-backend/internal/config"
	"generus-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey     = "user_id"
	CtxUserNameKey   = "user_name"
	CtxUserRoleKey   = "user_role"
	CtxDesaIDKey     = "desa_id"
	CtxKelompokIDKey = "kelompok_id"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Header Authorization tidak ada")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Format Authorization harus 'Bearer <token>'")
		}

		token, err := jwt.ParseWithClaims(parts[1], &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("metode signing tidak valid")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Token tidak valid atau kedaluwarsa")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Token tidak dapat dibaca")
		}

		SetIdentity(c, Identity{
			UserID:     claims.UserID,
			Name:       claims.Name,
			Role:       claims.Role,
			DesaID:     claims.DesaID,
			KelompokID: claims.KelompokID,
		})

		return c.Next()
	}
}

// RequireCapability menolak request bila role di token tidak punya aksi tsb.
func RequireCapability(action Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Informasi role tidak ditemukan")
		}
		if !Can(role, action) {
			return fiber.NewError(fiber.StatusForbidden, "Anda tidak berwenang untuk aksi ini")
		}
		return c.Next()
	}
}
