package generus

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"generus-backend/internal/audit"
	"generus-backend/internal/auth"
	"generus-backend/internal/httpx"
	"generus-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const entityGenerus = "generus"

func parseCriteria(c *fiber.Ctx) (Criteria, error) {
	crit := Criteria{Query: c.Query("q")}

	kategoriID, err := httpx.QueryUint(c, "kategori_id")
	if err != nil {
		return crit, err
	}
	crit.KategoriID = kategoriID

	if raw := c.Query("gender"); raw != "" {
		g, ok := ParseGender(raw)
		if !ok {
			return crit, fiber.NewError(fiber.StatusBadRequest, "gender harus L atau P")
		}
		crit.Gender = g
	}

	if raw := c.Query("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return crit, fiber.NewError(fiber.StatusBadRequest, "active tidak valid")
		}
		crit.Active = &v
	}
	return crit, nil
}

// GET /api/generus?q=&kategori_id=&gender=&active=[&desa_id=&kelompok_id=]
// kelompok_id sudah disaring lewat ResolveScope.
func ListHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ResolveScope(c)
		if err != nil {
			return err
		}
		crit, err := parseCriteria(c)
		if err != nil {
			return err
		}

		rows, err := store.List(c.UserContext(), scope)
		if err != nil {
			log.Printf("[ERROR] %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memuat data generus")
		}

		filtered := Filter(rows, crit)
		resp := make([]GenerusResponse, 0, len(filtered))
		for _, g := range filtered {
			resp = append(resp, toResponse(g))
		}
		return c.JSON(resp)
	}
}

// GET /api/generus/:id
func GetHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		row, _, err := loadInScope(c, store)
		if err != nil {
			return err
		}
		return c.JSON(toResponse(*row))
	}
}

// POST /api/generus
func CreateHandler(store Store, rec audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body GenerusRequest
		if err := httpx.ParseAndValidate(c, &body); err != nil {
			return err
		}

		desaID, kelompokID, err := auth.ResolveTarget(c, store, body.DesaID, body.KelompokID, true)
		if err != nil {
			return err
		}
		actor, err := auth.CurrentIdentity(c)
		if err != nil {
			return err
		}

		row := models.Generus{DesaID: desaID, KelompokID: *kelompokID, Active: true}
		if err := apply(&row, body); err != nil {
			return err
		}

		if err := store.Create(c.UserContext(), &row); err != nil {
			log.Printf("[ERROR] generus gagal dibuat: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal menambah generus")
		}

		audit.Log(c.UserContext(), rec, audit.Entry{
			Actor:       actor,
			DesaID:      &row.DesaID,
			KelompokID:  &row.KelompokID,
			EntityType:  entityGenerus,
			EntityID:    row.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Generus %s ditambahkan", row.Name),
			After:       row,
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(row))
	}
}

// PUT /api/generus/:id
// Pindah kelompok tidak lewat endpoint ini.
func UpdateHandler(store Store, rec audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		row, actor, err := loadInScope(c, store)
		if err != nil {
			return err
		}

		var body GenerusRequest
		if err := httpx.ParseAndValidate(c, &body); err != nil {
			return err
		}

		before := *row
		if err := apply(row, body); err != nil {
			return err
		}

		if err := store.Update(c.UserContext(), row); err != nil {
			log.Printf("[ERROR] generus %d gagal diubah: %v", row.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengubah data generus")
		}

		audit.Log(c.UserContext(), rec, audit.Entry{
			Actor:       actor,
			DesaID:      &row.DesaID,
			KelompokID:  &row.KelompokID,
			EntityType:  entityGenerus,
			EntityID:    row.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Data generus %s diubah", row.Name),
			Before:      before,
			After:       row,
		})

		return c.JSON(toResponse(*row))
	}
}

// DELETE /api/generus/:id
func DeleteHandler(store Store, rec audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		row, actor, err := loadInScope(c, store)
		if err != nil {
			return err
		}

		if err := store.Delete(c.UserContext(), row.ID); err != nil {
			log.Printf("[ERROR] generus %d gagal dihapus: %v", row.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus generus")
		}

		audit.Log(c.UserContext(), rec, audit.Entry{
			Actor:       actor,
			DesaID:      &row.DesaID,
			KelompokID:  &row.KelompokID,
			EntityType:  entityGenerus,
			EntityID:    row.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Generus %s dihapus", row.Name),
			Before:      row,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func loadInScope(c *fiber.Ctx, store Store) (*models.Generus, auth.Identity, error) {
	id, err := httpx.ParseIDParam(c, "id")
	if err != nil {
		return nil, auth.Identity{}, err
	}
	scope, err := auth.ResolveScope(c)
	if err != nil {
		return nil, auth.Identity{}, err
	}
	actor, err := auth.CurrentIdentity(c)
	if err != nil {
		return nil, auth.Identity{}, err
	}

	row, err := store.Get(c.UserContext(), id)
	if errors.Is(err, ErrNotFound) {
		return nil, actor, fiber.NewError(fiber.StatusNotFound, "Generus tidak ditemukan")
	}
	if err != nil {
		log.Printf("[ERROR] generus %d: %v", id, err)
		return nil, actor, fiber.NewError(fiber.StatusInternalServerError, "Gagal memuat data generus")
	}
	if !scope.Allows(row.DesaID, &row.KelompokID) {
		return nil, actor, fiber.NewError(fiber.StatusNotFound, "Generus tidak ditemukan")
	}
	return row, actor, nil
}

func apply(row *models.Generus, body GenerusRequest) error {
	row.KategoriID = body.KategoriID
	row.Kategori = models.Kategori{}
	row.Name = strings.TrimSpace(body.Name)
	row.Gender = models.Gender(body.Gender)
	row.ParentName = strings.TrimSpace(body.ParentName)
	row.Phone = strings.TrimSpace(body.Phone)
	if body.Active != nil {
		row.Active = *body.Active
	}

	row.BirthDate = nil
	if body.BirthDate != "" {
		d, err := time.Parse("2006-01-02", body.BirthDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "birth_date tidak valid")
		}
		row.BirthDate = &d
	}
	return nil
}
