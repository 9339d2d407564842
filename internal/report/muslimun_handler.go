package report

import (
	"errors"
	"fmt"
	"log"
	"time"

	"generus-backend/internal/audit"
	"generus-backend/internal/auth"
	"generus-backend/internal/httpx"
	"generus-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

const entityMuslimun = "laporan_muslimun"

// GET /api/laporan-muslimun?year=2026
func ListMuslimunHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ResolveScope(c)
		if err != nil {
			return err
		}
		f, err := parseFilter(c)
		if err != nil {
			return err
		}

		rows, err := store.ListMuslimun(c.UserContext(), scope, f)
		if err != nil {
			log.Printf("[ERROR] %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memuat laporan muslimun")
		}

		resp := make([]MuslimunResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, toMuslimunResponse(r))
		}
		return c.JSON(resp)
	}
}

// GET /api/laporan-muslimun/summary
func MuslimunSummaryHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ResolveScope(c)
		if err != nil {
			return err
		}
		f, err := parseFilter(c)
		if err != nil {
			return err
		}

		rows, err := store.ListMuslimun(c.UserContext(), scope, f)
		if err != nil {
			log.Printf("[WARN] rekap muslimun memakai data kosong: %v", err)
			resp := buildSummary([]models.LaporanMuslimun(nil), toMuslimunResponse)
			resp.Degraded = true
			return c.JSON(resp)
		}

		return c.JSON(buildSummary(rows, toMuslimunResponse))
	}
}

// GET /api/laporan-muslimun/:id
func GetMuslimunHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		row, _, err := loadMuslimunInScope(c, store)
		if err != nil {
			return err
		}
		return c.JSON(toMuslimunResponse(*row))
	}
}

// POST /api/laporan-muslimun
// Tanpa kelompok_id = musyawarah tingkat desa (hanya admin desa / superadmin).
func CreateMuslimunHandler(store Store, rec audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body MuslimunRequest
		if err := httpx.ParseAndValidate(c, &body); err != nil {
			return err
		}
		meetingDate, err := time.Parse("2006-01-02", body.MeetingDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "meeting_date tidak valid")
		}

		desaID, kelompokID, err := auth.ResolveTarget(c, store, body.DesaID, body.KelompokID, false)
		if err != nil {
			return err
		}
		actor, err := auth.CurrentIdentity(c)
		if err != nil {
			return err
		}

		row := models.LaporanMuslimun{
			DesaID:     desaID,
			KelompokID: kelompokID,
			CreatedBy:  actor.UserID,
		}
		applyMuslimun(&row, body, meetingDate)

		if err := store.CreateMuslimun(c.UserContext(), &row); err != nil {
			log.Printf("[ERROR] laporan muslimun gagal dibuat: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat laporan muslimun")
		}

		audit.Log(c.UserContext(), rec, audit.Entry{
			Actor:       actor,
			DesaID:      &row.DesaID,
			KelompokID:  row.KelompokID,
			EntityType:  entityMuslimun,
			EntityID:    row.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Notulen muslimun %s dibuat", body.MeetingDate),
			After:       row,
		})

		return c.Status(fiber.StatusCreated).JSON(toMuslimunResponse(row))
	}
}

// PUT /api/laporan-muslimun/:id
func UpdateMuslimunHandler(store Store, rec audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		row, actor, err := loadMuslimunInScope(c, store)
		if err != nil {
			return err
		}

		var body MuslimunRequest
		if err := httpx.ParseAndValidate(c, &body); err != nil {
			return err
		}
		meetingDate, err := time.Parse("2006-01-02", body.MeetingDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "meeting_date tidak valid")
		}

		before := *row
		applyMuslimun(row, body, meetingDate)

		if err := store.UpdateMuslimun(c.UserContext(), row); err != nil {
			log.Printf("[ERROR] laporan muslimun %d gagal diubah: %v", row.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengubah laporan muslimun")
		}

		audit.Log(c.UserContext(), rec, audit.Entry{
			Actor:       actor,
			DesaID:      &row.DesaID,
			KelompokID:  row.KelompokID,
			EntityType:  entityMuslimun,
			EntityID:    row.ID,
			Action:      models.AuditActionUpdate,
			Description: "Notulen muslimun diubah",
			Before:      before,
			After:       row,
		})

		return c.JSON(toMuslimunResponse(*row))
	}
}

// DELETE /api/laporan-muslimun/:id
func DeleteMuslimunHandler(store Store, rec audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		row, actor, err := loadMuslimunInScope(c, store)
		if err != nil {
			return err
		}

		if err := store.DeleteMuslimun(c.UserContext(), row.ID); err != nil {
			log.Printf("[ERROR] laporan muslimun %d gagal dihapus: %v", row.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus laporan muslimun")
		}

		audit.Log(c.UserContext(), rec, audit.Entry{
			Actor:       actor,
			DesaID:      &row.DesaID,
			KelompokID:  row.KelompokID,
			EntityType:  entityMuslimun,
			EntityID:    row.ID,
			Action:      models.AuditActionDelete,
			Description: "Notulen muslimun dihapus",
			Before:      row,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func loadMuslimunInScope(c *fiber.Ctx, store Store) (*models.LaporanMuslimun, auth.Identity, error) {
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

	row, err := store.GetMuslimun(c.UserContext(), id)
	if errors.Is(err, ErrNotFound) {
		return nil, actor, fiber.NewError(fiber.StatusNotFound, "Laporan muslimun tidak ditemukan")
	}
	if err != nil {
		return nil, actor, fiber.NewError(fiber.StatusInternalServerError, "Gagal memuat laporan muslimun")
	}
	if !scope.Allows(row.DesaID, row.KelompokID) {
		return nil, actor, fiber.NewError(fiber.StatusNotFound, "Laporan muslimun tidak ditemukan")
	}
	return row, actor, nil
}

func applyMuslimun(row *models.LaporanMuslimun, body MuslimunRequest, meetingDate time.Time) {
	row.PeriodYear = intPtr(body.PeriodYear)
	row.PeriodMonth = intPtr(body.PeriodMonth)
	row.MeetingDate = meetingDate
	row.Tempat = body.Tempat
	row.JumlahPeserta = body.JumlahPeserta
	row.Notulen = body.Notulen
	if len(body.Payload) > 0 {
		row.Payload = datatypes.JSON(body.Payload)
	}
}
