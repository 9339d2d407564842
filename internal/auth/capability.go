package auth

import "generus-backend/internal/models"

type Action string

const (
	ActionManageDesa     Action = "manage_desa"
	ActionManageKelompok Action = "manage_kelompok"
	ActionManageKategori Action = "manage_kategori"
	ActionManageUsers    Action = "manage_users"
	ActionViewGenerus    Action = "view_generus"
	ActionManageGenerus  Action = "manage_generus"
	ActionViewReport     Action = "view_report"
	ActionWriteReport    Action = "write_report"
	ActionViewProker     Action = "view_proker"
	ActionManageProker   Action = "manage_proker"
	ActionViewAudit      Action = "view_audit"
)

var capabilities = map[models.UserRole]map[Action]bool{
	models.RoleAdminDesa: {
		ActionManageKelompok: true,
		ActionManageUsers:    true,
		ActionViewGenerus:    true,
		ActionManageGenerus:  true,
		ActionViewReport:     true,
		ActionWriteReport:    true,
		ActionViewProker:     true,
		ActionManageProker:   true,
		ActionViewAudit:      true,
	},
	models.RoleAdminKelompok: {
		ActionViewGenerus:   true,
		ActionManageGenerus: true,
		ActionViewReport:    true,
		ActionWriteReport:   true,
		ActionViewProker:    true,
		ActionManageProker:  true,
	},
	models.RoleUser: {
		ActionViewGenerus: true,
		ActionViewReport:  true,
		ActionViewProker:  true,
	},
}

// Can adalah satu-satunya tempat aturan role -> aksi.
// superadmin boleh semua aksi.
func Can(role models.UserRole, action Action) bool {
	if role == models.RoleSuperAdmin {
		return true
	}
	return capabilities[role][action]
}
