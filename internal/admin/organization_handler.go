package admin

import (
	"errors"
	"log"
	"strings"

	"generus-backend/internal/auth"
	"generus-backend/internal/httpx"
	"generus-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type DesaRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Address string `json:"address" validate:"max=255"`
}

type DesaResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	CreatedAt string `json:"created_at"`
}

type KelompokRequest struct {
	DesaID  *uint  `json:"desa_id"` // superadmin
	Name    string `json:"name" validate:"required,max=100"`
	Address string `json:"address" validate:"max=255"`
}

type KelompokResponse struct {
	ID        uint   `json:"id"`
	DesaID    uint   `json:"desa_id"`
	DesaName  string `json:"desa_name,omitempty"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	CreatedAt string `json:"created_at"`
}

func toDesaResponse(d models.Desa) DesaResponse {
	return DesaResponse{
		ID:        d.ID,
		Name:      d.Name,
		Address:   d.Address,
		CreatedAt: d.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func toKelompokResponse(k models.Kelompok) KelompokResponse {
	return KelompokResponse{
		ID:        k.ID,
		DesaID:    k.DesaID,
		DesaName:  k.Desa.Name,
		Name:      k.Name,
		Address:   k.Address,
		CreatedAt: k.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// storeError: error store -> fiber.Error dengan pesan untuk entitas tsb.
func storeError(err error, entity string) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, entity+" tidak ditemukan")
	case errors.Is(err, ErrDuplicate):
		return fiber.NewError(fiber.StatusConflict, entity+" dengan nama tersebut sudah ada")
	case errors.Is(err, ErrInUse):
		return fiber.NewError(fiber.StatusConflict, entity+" masih dipakai data lain")
	}
	log.Printf("[ERROR] %s: %v", strings.ToLower(entity), err)
	return fiber.NewError(fiber.StatusInternalServerError, "Gagal memproses "+strings.ToLower(entity))
}

// ----------------------------------------
// DESA (superadmin)
// ----------------------------------------

func ListDesaHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := store.ListDesa(c.UserContext())
		if err != nil {
			return storeError(err, "Desa")
		}
		res := make([]DesaResponse, 0, len(rows))
		for _, d := range rows {
			res = append(res, toDesaResponse(d))
		}
		return c.JSON(res)
	}
}

func GetDesaHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParseIDParam(c, "id")
		if err != nil {
			return err
		}
		desa, err := store.GetDesa(c.UserContext(), id)
		if err != nil {
			return storeError(err, "Desa")
		}
		return c.JSON(toDesaResponse(*desa))
	}
}

func CreateDesaHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body DesaRequest
		if err := httpx.ParseAndValidate(c, &body); err != nil {
			return err
		}
		name := strings.TrimSpace(body.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nama desa tidak boleh kosong")
		}

		desa := models.Desa{Name: name, Address: strings.TrimSpace(body.Address)}
		if err := store.SaveDesa(c.UserContext(), &desa); err != nil {
			return storeError(err, "Desa")
		}
		return c.Status(fiber.StatusCreated).JSON(toDesaResponse(desa))
	}
}

func UpdateDesaHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParseIDParam(c, "id")
		if err != nil {
			return err
		}
		desa, err := store.GetDesa(c.UserContext(), id)
		if err != nil {
			return storeError(err, "Desa")
		}

		var body DesaRequest
		if err := httpx.ParseAndValidate(c, &body); err != nil {
			return err
		}
		name := strings.TrimSpace(body.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nama desa tidak boleh kosong")
		}
		desa.Name = name
		desa.Address = strings.TrimSpace(body.Address)

		if err := store.SaveDesa(c.UserContext(), desa); err != nil {
			return storeError(err, "Desa")
		}
		return c.JSON(toDesaResponse(*desa))
	}
}

func DeleteDesaHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParseIDParam(c, "id")
		if err != nil {
			return err
		}
		if _, err := store.GetDesa(c.UserContext(), id); err != nil {
			return storeError(err, "Desa")
		}
		if err := store.DeleteDesa(c.UserContext(), id); err != nil {
			return storeError(err, "Desa")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ----------------------------------------
// KELOMPOK (superadmin, admin_desa di desanya sendiri)
// ----------------------------------------

// GET /api/admin/kelompok[?desa_id=]
// admin_kelompok / user hanya melihat kelompoknya sendiri.
func ListKelompokHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ResolveScope(c)
		if err != nil {
			return err
		}
		rows, err := store.ListKelompok(c.UserContext(), scope)
		if err != nil {
			return storeError(err, "Kelompok")
		}
		res := make([]KelompokResponse, 0, len(rows))
		for _, k := range rows {
			res = append(res, toKelompokResponse(k))
		}
		return c.JSON(res)
	}
}

func CreateKelompokHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body KelompokRequest
		if err := httpx.ParseAndValidate(c, &body); err != nil {
			return err
		}
		name := strings.TrimSpace(body.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nama kelompok tidak boleh kosong")
		}

		// kelompok baru belum punya id, jadi target cukup tingkat desa
		desaID, _, err := auth.ResolveTarget(c, store, body.DesaID, nil, false)
		if err != nil {
			return err
		}
		desa, err := store.GetDesa(c.UserContext(), desaID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusBadRequest, "Desa tidak ditemukan")
			}
			return storeError(err, "Desa")
		}

		k := models.Kelompok{DesaID: desa.ID, Name: name, Address: strings.TrimSpace(body.Address)}
		if err := store.SaveKelompok(c.UserContext(), &k); err != nil {
			return storeError(err, "Kelompok")
		}
		k.Desa = *desa
		return c.Status(fiber.StatusCreated).JSON(toKelompokResponse(k))
	}
}

func UpdateKelompokHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		k, err := loadKelompokInScope(c, store)
		if err != nil {
			return err
		}

		var body KelompokRequest
		if err := httpx.ParseAndValidate(c, &body); err != nil {
			return err
		}
		name := strings.TrimSpace(body.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nama kelompok tidak boleh kosong")
		}
		k.Name = name
		k.Address = strings.TrimSpace(body.Address)

		if err := store.SaveKelompok(c.UserContext(), k); err != nil {
			return storeError(err, "Kelompok")
		}
		return c.JSON(toKelompokResponse(*k))
	}
}

func DeleteKelompokHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		k, err := loadKelompokInScope(c, store)
		if err != nil {
			return err
		}
		if err := store.DeleteKelompok(c.UserContext(), k.ID); err != nil {
			return storeError(err, "Kelompok")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func loadKelompokInScope(c *fiber.Ctx, store Store) (*models.Kelompok, error) {
	id, err := httpx.ParseIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	scope, err := auth.ResolveScope(c)
	if err != nil {
		return nil, err
	}
	k, err := store.GetKelompok(c.UserContext(), id)
	if err != nil {
		return nil, storeError(err, "Kelompok")
	}
	if !scope.Allows(k.DesaID, &k.ID) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Kelompok tidak ditemukan")
	}
	return k, nil
}
