package admin

import (
	"strings"

	"generus-backend/internal/httpx"
	"generus-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type KategoriRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=255"`
	SortOrder   int    `json:"sort_order"`
}

type KategoriResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

func toKategoriResponse(k models.Kategori) KategoriResponse {
	return KategoriResponse{ID: k.ID, Name: k.Name, Description: k.Description, SortOrder: k.SortOrder}
}

// GET /api/kategori (semua pengguna login)
func ListKategoriHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := store.ListKategori(c.UserContext())
		if err != nil {
			return storeError(err, "Kategori")
		}
		res := make([]KategoriResponse, 0, len(rows))
		for _, k := range rows {
			res = append(res, toKategoriResponse(k))
		}
		return c.JSON(res)
	}
}

func CreateKategoriHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body KategoriRequest
		if err := httpx.ParseAndValidate(c, &body); err != nil {
			return err
		}
		name := strings.TrimSpace(body.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nama kategori tidak boleh kosong")
		}

		k := models.Kategori{Name: name, Description: strings.TrimSpace(body.Description), SortOrder: body.SortOrder}
		if err := store.SaveKategori(c.UserContext(), &k); err != nil {
			return storeError(err, "Kategori")
		}
		return c.Status(fiber.StatusCreated).JSON(toKategoriResponse(k))
	}
}

func UpdateKategoriHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParseIDParam(c, "id")
		if err != nil {
			return err
		}
		k, err := store.GetKategori(c.UserContext(), id)
		if err != nil {
			return storeError(err, "Kategori")
		}

		var body KategoriRequest
		if err := httpx.ParseAndValidate(c, &body); err != nil {
			return err
		}
		name := strings.TrimSpace(body.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nama kategori tidak boleh kosong")
		}
		k.Name = name
		k.Description = strings.TrimSpace(body.Description)
		k.SortOrder = body.SortOrder

		if err := store.SaveKategori(c.UserContext(), k); err != nil {
			return storeError(err, "Kategori")
		}
		return c.JSON(toKategoriResponse(*k))
	}
}

func DeleteKategoriHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParseIDParam(c, "id")
		if err != nil {
			return err
		}
		if _, err := store.GetKategori(c.UserContext(), id); err != nil {
			return storeError(err, "Kategori")
		}
		if err := store.DeleteKategori(c.UserContext(), id); err != nil {
			return storeError(err, "Kategori")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
