// Package authtest berisi helper test untuk handler yang membaca identitas dari locals.
package authtest

import (
	"generus-backend/internal/auth"
	"generus-backend/internal/httpx"
	"generus-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

func Uint(v uint) *uint { return &v }

// WithIdentity menggantikan JWTMiddleware di test.
func WithIdentity(id auth.Identity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth.SetIdentity(c, id)
		return c.Next()
	}
}

func SuperAdmin() auth.Identity {
	return auth.Identity{UserID: 1, Name: "Super", Role: models.RoleSuperAdmin}
}

func AdminDesa(desaID uint) auth.Identity {
	return auth.Identity{UserID: 2, Name: "Admin Desa", Role: models.RoleAdminDesa, DesaID: Uint(desaID)}
}

func AdminKelompok(desaID, kelompokID uint) auth.Identity {
	return auth.Identity{
		UserID:     3,
		Name:       "Admin Kelompok",
		Role:       models.RoleAdminKelompok,
		DesaID:     Uint(desaID),
		KelompokID: Uint(kelompokID),
	}
}

func User(desaID, kelompokID uint) auth.Identity {
	return auth.Identity{
		UserID:     4,
		Name:       "Pengguna",
		Role:       models.RoleUser,
		DesaID:     Uint(desaID),
		KelompokID: Uint(kelompokID),
	}
}

// NewApp: fiber app dengan ErrorHandler yang sama seperti server.
func NewApp(id auth.Identity) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler})
	app.Use(WithIdentity(id))
	return app
}
