package auth

import (
	"context"
	"errors"
	"fmt"

	"generus-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var ErrKelompokNotFound = errors.New("kelompok tidak ditemukan")

type KelompokLookup interface {
	DesaOfKelompok(ctx context.Context, kelompokID uint) (uint, error)
}

type GormKelompokLookup struct {
	DB *gorm.DB
}

func (l GormKelompokLookup) DesaOfKelompok(ctx context.Context, kelompokID uint) (uint, error) {
	var k models.Kelompok
	err := l.DB.WithContext(ctx).Select("id", "desa_id").First(&k, kelompokID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrKelompokNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("kelompok %d: %w", kelompokID, err)
	}
	return k.DesaID, nil
}

// ResolveTarget menentukan desa & kelompok pemilik data baru.
//   - admin_kelompok / user: selalu dari token, body diabaikan
//   - admin_desa: desa dari token, kelompok dari body (harus milik desanya)
//   - superadmin: kelompok dari body menentukan desa; tanpa kelompok, desa_id wajib
func ResolveTarget(c *fiber.Ctx, lookup KelompokLookup, bodyDesaID, bodyKelompokID *uint, requireKelompok bool) (uint, *uint, error) {
	id, err := CurrentIdentity(c)
	if err != nil {
		return 0, nil, err
	}

	switch id.Role {
	case models.RoleAdminKelompok, models.RoleUser:
		if id.DesaID == nil || id.KelompokID == nil {
			return 0, nil, fiber.NewError(fiber.StatusForbidden, "Informasi kelompok tidak ditemukan")
		}
		return *id.DesaID, id.KelompokID, nil

	case models.RoleAdminDesa:
		if id.DesaID == nil {
			return 0, nil, fiber.NewError(fiber.StatusForbidden, "Informasi desa tidak ditemukan")
		}
		if bodyKelompokID == nil {
			if requireKelompok {
				return 0, nil, fiber.NewError(fiber.StatusBadRequest, "kelompok_id wajib diisi")
			}
			return *id.DesaID, nil, nil
		}
		desaID, err := desaOf(c, lookup, *bodyKelompokID)
		if err != nil {
			return 0, nil, err
		}
		if desaID != *id.DesaID {
			return 0, nil, fiber.NewError(fiber.StatusForbidden, "Kelompok di luar desa Anda")
		}
		return desaID, bodyKelompokID, nil

	case models.RoleSuperAdmin:
		if bodyKelompokID == nil {
			if requireKelompok {
				return 0, nil, fiber.NewError(fiber.StatusBadRequest, "kelompok_id wajib diisi")
			}
			if bodyDesaID == nil {
				return 0, nil, fiber.NewError(fiber.StatusBadRequest, "desa_id wajib diisi")
			}
			return *bodyDesaID, nil, nil
		}
		desaID, err := desaOf(c, lookup, *bodyKelompokID)
		if err != nil {
			return 0, nil, err
		}
		if bodyDesaID != nil && *bodyDesaID != desaID {
			return 0, nil, fiber.NewError(fiber.StatusBadRequest, "kelompok_id tidak termasuk desa_id")
		}
		return desaID, bodyKelompokID, nil
	}

	return 0, nil, fiber.NewError(fiber.StatusForbidden, "Role tidak dikenal")
}

func desaOf(c *fiber.Ctx, lookup KelompokLookup, kelompokID uint) (uint, error) {
	desaID, err := lookup.DesaOfKelompok(c.UserContext(), kelompokID)
	if errors.Is(err, ErrKelompokNotFound) {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Kelompok tidak ditemukan")
	}
	if err != nil {
		return 0, fiber.NewError(fiber.StatusInternalServerError, "Gagal memeriksa kelompok")
	}
	return desaID, nil
}
