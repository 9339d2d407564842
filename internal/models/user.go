package models

import "time"

type UserRole string

const (
	RoleSuperAdmin    UserRole = "superadmin"
	RoleAdminDesa     UserRole = "admin_desa"
	RoleAdminKelompok UserRole = "admin_kelompok"
	RoleUser          UserRole = "user"
)

// Rank: makin besar makin tinggi. Dipakai untuk membatasi pembuatan akun.
func (r UserRole) Rank() int {
	switch r {
	case RoleSuperAdmin:
		return 3
	case RoleAdminDesa:
		return 2
	case RoleAdminKelompok:
		return 1
	case RoleUser:
		return 0
	default:
		return -1
	}
}

func (r UserRole) Valid() bool {
	return r.Rank() >= 0
}

type User struct {
	ID           uint `gorm:"primaryKey"`
	DesaID       *uint
	Desa         *Desa
	KelompokID   *uint
	Kelompok     *Kelompok
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
