package admin

import (
	"errors"
	"log"
	"strings"

	"generus-backend/internal/auth"
	"generus-backend/internal/httpx"
	"generus-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,email,max=100"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	Role       string `json:"role" validate:"required"`
	DesaID     *uint  `json:"desa_id"`
	KelompokID *uint  `json:"kelompok_id"`
}

type UserResponse struct {
	ID         uint            `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Role       models.UserRole `json:"role"`
	DesaID     *uint           `json:"desa_id"`
	KelompokID *uint           `json:"kelompok_id"`
	CreatedAt  string          `json:"created_at"`
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		DesaID:     u.DesaID,
		KelompokID: u.KelompokID,
		CreatedAt:  u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// userVisible: akun tanpa desa (superadmin) hanya terlihat oleh scope tanpa batas.
func userVisible(scope auth.Scope, u models.User) bool {
	if u.DesaID == nil {
		return scope.Unrestricted()
	}
	return scope.Allows(*u.DesaID, u.KelompokID)
}

// GET /api/admin/users
func ListUsersHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ResolveScope(c)
		if err != nil {
			return err
		}
		rows, err := store.ListUsers(c.UserContext(), scope)
		if err != nil {
			return storeError(err, "Pengguna")
		}
		res := make([]UserResponse, 0, len(rows))
		for _, u := range rows {
			res = append(res, toUserResponse(u))
		}
		return c.JSON(res)
	}
}

// POST /api/admin/users
// Pemanggil hanya boleh membuat role di bawah role-nya sendiri:
// superadmin -> admin_desa/admin_kelompok/user, admin_desa -> admin_kelompok/user di desanya.
func CreateUserHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := httpx.ParseAndValidate(c, &body); err != nil {
			return err
		}
		actor, err := auth.CurrentIdentity(c)
		if err != nil {
			return err
		}

		role := models.UserRole(body.Role)
		if !role.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "Role tidak dikenal")
		}
		if role.Rank() >= actor.Role.Rank() {
			return fiber.NewError(fiber.StatusForbidden, "Tidak boleh membuat akun dengan role "+string(role))
		}

		user := models.User{
			Name:  strings.TrimSpace(body.Name),
			Email: strings.ToLower(strings.TrimSpace(body.Email)),
			Role:  role,
		}

		if role == models.RoleAdminDesa {
			desaID, _, err := auth.ResolveTarget(c, store, body.DesaID, nil, false)
			if err != nil {
				return err
			}
			if _, err := store.GetDesa(c.UserContext(), desaID); err != nil {
				return storeError(err, "Desa")
			}
			user.DesaID = &desaID
		} else {
			desaID, kelompokID, err := auth.ResolveTarget(c, store, body.DesaID, body.KelompokID, true)
			if err != nil {
				return err
			}
			user.DesaID = &desaID
			user.KelompokID = kelompokID
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[ERROR] bcrypt: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat akun")
		}
		user.PasswordHash = string(hash)

		if err := store.CreateUser(c.UserContext(), &user); err != nil {
			if errors.Is(err, ErrDuplicate) {
				return fiber.NewError(fiber.StatusConflict, "Email sudah terdaftar")
			}
			return storeError(err, "Pengguna")
		}

		log.Printf("akun %s (%s) dibuat oleh user %d", user.Email, user.Role, actor.UserID)
		return c.Status(fiber.StatusCreated).JSON(toUserResponse(user))
	}
}

// DELETE /api/admin/users/:id
func DeleteUserHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParseIDParam(c, "id")
		if err != nil {
			return err
		}
		actor, err := auth.CurrentIdentity(c)
		if err != nil {
			return err
		}
		if id == actor.UserID {
			return fiber.NewError(fiber.StatusBadRequest, "Tidak dapat menghapus akun sendiri")
		}
		scope, err := auth.ResolveScope(c)
		if err != nil {
			return err
		}

		user, err := store.GetUser(c.UserContext(), id)
		if err != nil {
			return storeError(err, "Pengguna")
		}
		if !userVisible(scope, *user) {
			return fiber.NewError(fiber.StatusNotFound, "Pengguna tidak ditemukan")
		}
		if user.Role.Rank() >= actor.Role.Rank() {
			return fiber.NewError(fiber.StatusForbidden, "Tidak boleh menghapus akun dengan role "+string(user.Role))
		}

		if err := store.DeleteUser(c.UserContext(), id); err != nil {
			return storeError(err, "Pengguna")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
