package auth

import (
	"strconv"

	"generus-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Scope: batas organisasi yang boleh dibaca/ditulis pemanggil.
// Field nil berarti tidak dibatasi pada level itu.
type Scope struct {
	DesaID     *uint
	KelompokID *uint
}

func (s Scope) Unrestricted() bool {
	return s.DesaID == nil && s.KelompokID == nil
}

// Apply dipakai sebagai GORM scope: db.Scopes(scope.Apply("desa_id", "kelompok_id"))
func (s Scope) Apply(desaCol, kelompokCol string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if s.DesaID != nil && desaCol != "" {
			db = db.Where(desaCol+" = ?", *s.DesaID)
		}
		if s.KelompokID != nil && kelompokCol != "" {
			db = db.Where(kelompokCol+" = ?", *s.KelompokID)
		}
		return db
	}
}

// Allows: apakah satu baris (desa, kelompok) masuk scope.
// kelompokID nil = baris tingkat desa, hanya terlihat bila scope tidak dikunci ke kelompok.
func (s Scope) Allows(desaID uint, kelompokID *uint) bool {
	if s.DesaID != nil && *s.DesaID != desaID {
		return false
	}
	if s.KelompokID != nil {
		if kelompokID == nil || *kelompokID != *s.KelompokID {
			return false
		}
	}
	return true
}

// ResolveScope menentukan scope dari role di token dan query (desa_id, kelompok_id).
//   - superadmin: bebas, query boleh mempersempit
//   - admin_desa: desa dari token, kelompok_id boleh mempersempit
//   - admin_kelompok / user: desa & kelompok dari token
func ResolveScope(c *fiber.Ctx) (Scope, error) {
	id, err := CurrentIdentity(c)
	if err != nil {
		return Scope{}, err
	}

	queryDesa, err := queryUintPtr(c, "desa_id")
	if err != nil {
		return Scope{}, err
	}
	queryKelompok, err := queryUintPtr(c, "kelompok_id")
	if err != nil {
		return Scope{}, err
	}

	switch id.Role {
	case models.RoleSuperAdmin:
		return Scope{DesaID: queryDesa, KelompokID: queryKelompok}, nil

	case models.RoleAdminDesa:
		if id.DesaID == nil {
			return Scope{}, fiber.NewError(fiber.StatusForbidden, "Informasi desa tidak ditemukan")
		}
		return Scope{DesaID: id.DesaID, KelompokID: queryKelompok}, nil

	case models.RoleAdminKelompok, models.RoleUser:
		if id.DesaID == nil || id.KelompokID == nil {
			return Scope{}, fiber.NewError(fiber.StatusForbidden, "Informasi kelompok tidak ditemukan")
		}
		return Scope{DesaID: id.DesaID, KelompokID: id.KelompokID}, nil
	}

	return Scope{}, fiber.NewError(fiber.StatusForbidden, "Role tidak dikenal")
}

func queryUintPtr(c *fiber.Ctx, key string) (*uint, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, key+" tidak valid")
	}
	u := uint(v)
	return &u, nil
}
