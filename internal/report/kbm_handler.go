package report

import (
	"errors"
	"fmt"
	"log"

	"generus-backend/internal/audit"
	"generus-backend/internal/auth"
	"generus-backend/internal/httpx"
	"generus-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const entityKBM = "laporan_kbm"

// unique index idx_laporan_kbm_period: satu laporan per kategori per kelompok per bulan
var errDuplicateKBM = fiber.NewError(fiber.StatusConflict, "Laporan KBM untuk kategori dan periode ini sudah ada")

func parseFilter(c *fiber.Ctx) (Filter, error) {
	var f Filter
	kategoriID, err := httpx.QueryUint(c, "kategori_id")
	if err != nil {
		return f, err
	}
	f.KategoriID = kategoriID

	if c.Query("year") != "" {
		year, err := httpx.QueryInt(c, "year", 0)
		if err != nil || year < 2000 {
			return f, fiber.NewError(fiber.StatusBadRequest, "year tidak valid")
		}
		f.Year = &year
	}
	return f, nil
}

// GET /api/laporan-kbm?kategori_id=1&year=2026[&desa_id=&kelompok_id=]
func ListKBMHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ResolveScope(c)
		if err != nil {
			return err
		}
		f, err := parseFilter(c)
		if err != nil {
			return err
		}

		rows, err := store.ListKBM(c.UserContext(), scope, f)
		if err != nil {
			log.Printf("[ERROR] %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memuat laporan KBM")
		}

		resp := make([]KBMResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, toKBMResponse(r))
		}
		return c.JSON(resp)
	}
}

// GET /api/laporan-kbm/summary
// Rekap jumlah laporan per periode. Gagal baca data -> rekap kosong, degraded=true.
func KBMSummaryHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ResolveScope(c)
		if err != nil {
			return err
		}
		f, err := parseFilter(c)
		if err != nil {
			return err
		}

		rows, err := store.ListKBM(c.UserContext(), scope, f)
		if err != nil {
			log.Printf("[WARN] rekap KBM memakai data kosong: %v", err)
			resp := buildSummary([]models.LaporanKBM(nil), toKBMResponse)
			resp.Degraded = true
			return c.JSON(resp)
		}

		return c.JSON(buildSummary(rows, toKBMResponse))
	}
}

// GET /api/laporan-kbm/:id
func GetKBMHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		row, _, err := loadKBMInScope(c, store)
		if err != nil {
			return err
		}
		return c.JSON(toKBMResponse(*row))
	}
}

// POST /api/laporan-kbm
func CreateKBMHandler(store Store, rec audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body KBMRequest
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

		row := models.LaporanKBM{
			DesaID:     desaID,
			KelompokID: *kelompokID,
			CreatedBy:  actor.UserID,
		}
		applyKBM(&row, body)

		if err := store.CreateKBM(c.UserContext(), &row); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errDuplicateKBM
			}
			log.Printf("[ERROR] laporan KBM gagal dibuat: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat laporan KBM")
		}

		audit.Log(c.UserContext(), rec, audit.Entry{
			Actor:       actor,
			DesaID:      &row.DesaID,
			KelompokID:  &row.KelompokID,
			EntityType:  entityKBM,
			EntityID:    row.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Laporan KBM %02d/%d dibuat", body.PeriodMonth, body.PeriodYear),
			After:       row,
		})

		return c.Status(fiber.StatusCreated).JSON(toKBMResponse(row))
	}
}

// PUT /api/laporan-kbm/:id
func UpdateKBMHandler(store Store, rec audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		row, actor, err := loadKBMInScope(c, store)
		if err != nil {
			return err
		}

		var body KBMRequest
		if err := httpx.ParseAndValidate(c, &body); err != nil {
			return err
		}

		before := *row
		applyKBM(row, body)

		if err := store.UpdateKBM(c.UserContext(), row); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errDuplicateKBM
			}
			log.Printf("[ERROR] laporan KBM %d gagal diubah: %v", row.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengubah laporan KBM")
		}
		// muat ulang supaya nama kategori ikut kategori_id yang baru
		if fresh, err := store.GetKBM(c.UserContext(), row.ID); err == nil {
			row = fresh
		}

		audit.Log(c.UserContext(), rec, audit.Entry{
			Actor:       actor,
			DesaID:      &row.DesaID,
			KelompokID:  &row.KelompokID,
			EntityType:  entityKBM,
			EntityID:    row.ID,
			Action:      models.AuditActionUpdate,
			Description: "Laporan KBM diubah",
			Before:      before,
			After:       row,
		})

		return c.JSON(toKBMResponse(*row))
	}
}

// DELETE /api/laporan-kbm/:id
func DeleteKBMHandler(store Store, rec audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		row, actor, err := loadKBMInScope(c, store)
		if err != nil {
			return err
		}

		if err := store.DeleteKBM(c.UserContext(), row.ID); err != nil {
			log.Printf("[ERROR] laporan KBM %d gagal dihapus: %v", row.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus laporan KBM")
		}

		audit.Log(c.UserContext(), rec, audit.Entry{
			Actor:       actor,
			DesaID:      &row.DesaID,
			KelompokID:  &row.KelompokID,
			EntityType:  entityKBM,
			EntityID:    row.ID,
			Action:      models.AuditActionDelete,
			Description: "Laporan KBM dihapus",
			Before:      row,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func loadKBMInScope(c *fiber.Ctx, store Store) (*models.LaporanKBM, auth.Identity, error) {
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

	row, err := store.GetKBM(c.UserContext(), id)
	if errors.Is(err, ErrNotFound) {
		return nil, actor, fiber.NewError(fiber.StatusNotFound, "Laporan KBM tidak ditemukan")
	}
	if err != nil {
		return nil, actor, fiber.NewError(fiber.StatusInternalServerError, "Gagal memuat laporan KBM")
	}
	if !scope.Allows(row.DesaID, &row.KelompokID) {
		// sama dengan tidak ada, supaya id di luar scope tidak bocor
		return nil, actor, fiber.NewError(fiber.StatusNotFound, "Laporan KBM tidak ditemukan")
	}
	return row, actor, nil
}

func applyKBM(row *models.LaporanKBM, body KBMRequest) {
	if row.KategoriID != body.KategoriID {
		row.Kategori = models.Kategori{}
	}
	row.KategoriID = body.KategoriID
	row.PeriodYear = intPtr(body.PeriodYear)
	row.PeriodMonth = intPtr(body.PeriodMonth)
	row.Hadir = body.Hadir
	row.Izin = body.Izin
	row.Sakit = body.Sakit
	row.Alpa = body.Alpa
	row.Materi = body.Materi
	row.Evaluasi = body.Evaluasi
	if len(body.Payload) > 0 {
		row.Payload = datatypes.JSON(body.Payload)
	}
}
