package auth

import (
	"generus-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Identity: data pemanggil yang diambil dari token
type Identity struct {
	UserID     uint
	Name       string
	Role       models.UserRole
	DesaID     *uint
	KelompokID *uint
}

func SetIdentity(c *fiber.Ctx, id Identity) {
	c.Locals(CtxUserIDKey, id.UserID)
	c.Locals(CtxUserNameKey, id.Name)
	c.Locals(CtxUserRoleKey, id.Role)
	c.Locals(CtxDesaIDKey, id.DesaID)
	c.Locals(CtxKelompokIDKey, id.KelompokID)
}

func CurrentIdentity(c *fiber.Ctx) (Identity, error) {
	role, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
	if !ok {
		return Identity{}, fiber.NewError(fiber.StatusForbidden, "Informasi role tidak ditemukan")
	}
	userID, ok := c.Locals(CtxUserIDKey).(uint)
	if !ok {
		return Identity{}, fiber.NewError(fiber.StatusForbidden, "Informasi pengguna tidak ditemukan")
	}
	name, _ := c.Locals(CtxUserNameKey).(string)
	desaID, _ := c.Locals(CtxDesaIDKey).(*uint)
	kelompokID, _ := c.Locals(CtxKelompokIDKey).(*uint)

	return Identity{
		UserID:     userID,
		Name:       name,
		Role:       role,
		DesaID:     desaID,
		KelompokID: kelompokID,
	}, nil
}
