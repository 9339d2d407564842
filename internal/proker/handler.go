package proker

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"generus-backend/internal/audit"
	"generus-backend/internal/auth"
	"generus-backend/internal/httpx"
	"generus-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

const entityProker = "proker"

// listParams: ?year=2026&level=desa|kelompok (+ desa_id / kelompok_id dari ResolveScope)
func listParams(c *fiber.Ctx) (int, models.ProkerLevel, auth.Scope, error) {
	year, err := httpx.QueryInt(c, "year", time.Now().Year())
	if err != nil {
		return 0, "", auth.Scope{}, err
	}
	if year < 2000 || year > 2100 {
		return 0, "", auth.Scope{}, fiber.NewError(fiber.StatusBadRequest, "year tidak valid")
	}

	level := models.ProkerLevel(strings.ToLower(c.Query("level")))
	if level != "" && !level.Valid() {
		return 0, "", auth.Scope{}, fiber.NewError(fiber.StatusBadRequest, "level harus desa atau kelompok")
	}

	scope, err := auth.ResolveScope(c)
	if err != nil {
		return 0, "", auth.Scope{}, err
	}
	return year, level, scope, nil
}

// GET /api/proker?year=2026&level=desa
func ListHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, level, scope, err := listParams(c)
		if err != nil {
			return err
		}

		rows, err := store.ListByYear(c.UserContext(), year, scope, level)
		if err != nil {
			log.Printf("[ERROR] %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memuat program kerja")
		}
		return c.JSON(toResponses(rows))
	}
}

// GET /api/proker/recap?year=2026
func RecapHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, level, scope, err := listParams(c)
		if err != nil {
			return err
		}

		// rekap tetap dikirim utuh (12 bulan kosong) kalau data gagal dimuat
		rows, err := store.ListByYear(c.UserContext(), year, scope, level)
		if err != nil {
			log.Printf("[WARN] rekap proker %d: %v", year, err)
			resp := toRecapResponse(year, level, BuildMonthlyRecap(nil, Months, Teams))
			resp.Degraded = true
			return c.JSON(resp)
		}

		recap := BuildMonthlyRecap(rows, Months, Teams)
		return c.JSON(toRecapResponse(year, level, recap))
	}
}

// GET /api/proker/recap/export?year=2026 -> rekap-proker-2026.xlsx
func ExportRecapHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, level, scope, err := listParams(c)
		if err != nil {
			return err
		}

		rows, err := store.ListByYear(c.UserContext(), year, scope, level)
		if err != nil {
			log.Printf("[ERROR] %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memuat program kerja")
		}

		var buf bytes.Buffer
		if err := WriteRecapXLSX(&buf, year, BuildMonthlyRecap(rows, Months, Teams)); err != nil {
			log.Printf("[ERROR] export rekap proker %d: %v", year, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat file rekap")
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="rekap-proker-%d.xlsx"`, year))
		return c.Send(buf.Bytes())
	}
}

// GET /api/proker/meta
func MetaHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"teams":  Teams,
			"months": Months,
			"levels": []models.ProkerLevel{models.ProkerLevelDesa, models.ProkerLevelKelompok},
		})
	}
}

// GET /api/proker/:id
func GetHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		row, _, err := loadInScope(c, store)
		if err != nil {
			return err
		}
		return c.JSON(toResponse(*row))
	}
}

// POST /api/proker
// Tanpa kelompok_id = proker tingkat desa.
func CreateHandler(store Store, rec audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProkerRequest
		if err := parseRequest(c, &body); err != nil {
			return err
		}

		desaID, kelompokID, err := auth.ResolveTarget(c, store, body.DesaID, body.KelompokID, false)
		if err != nil {
			return err
		}
		actor, err := auth.CurrentIdentity(c)
		if err != nil {
			return err
		}

		row := models.Proker{
			Level:      models.ProkerLevelDesa,
			DesaID:     desaID,
			KelompokID: kelompokID,
			CreatedBy:  actor.UserID,
		}
		if kelompokID != nil {
			row.Level = models.ProkerLevelKelompok
		}
		apply(&row, body)

		if err := store.Create(c.UserContext(), &row); err != nil {
			log.Printf("[ERROR] proker gagal dibuat: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat program kerja")
		}

		audit.Log(c.UserContext(), rec, audit.Entry{
			Actor:       actor,
			DesaID:      &row.DesaID,
			KelompokID:  row.KelompokID,
			EntityType:  entityProker,
			EntityID:    row.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Proker %q (%s %d) dibuat", row.Kegiatan, row.Team, row.Year),
			After:       row,
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(row))
	}
}

// PUT /api/proker/:id
// Level, desa dan kelompok tidak berubah lewat update.
func UpdateHandler(store Store, rec audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		row, actor, err := loadInScope(c, store)
		if err != nil {
			return err
		}

		var body ProkerRequest
		if err := parseRequest(c, &body); err != nil {
			return err
		}

		before := *row
		apply(row, body)

		if err := store.Update(c.UserContext(), row); err != nil {
			log.Printf("[ERROR] proker %d gagal diubah: %v", row.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengubah program kerja")
		}

		audit.Log(c.UserContext(), rec, audit.Entry{
			Actor:       actor,
			DesaID:      &row.DesaID,
			KelompokID:  row.KelompokID,
			EntityType:  entityProker,
			EntityID:    row.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Proker %q diubah", row.Kegiatan),
			Before:      before,
			After:       row,
		})

		return c.JSON(toResponse(*row))
	}
}

// DELETE /api/proker/:id
func DeleteHandler(store Store, rec audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		row, actor, err := loadInScope(c, store)
		if err != nil {
			return err
		}

		if err := store.Delete(c.UserContext(), row.ID); err != nil {
			log.Printf("[ERROR] proker %d gagal dihapus: %v", row.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus program kerja")
		}

		audit.Log(c.UserContext(), rec, audit.Entry{
			Actor:       actor,
			DesaID:      &row.DesaID,
			KelompokID:  row.KelompokID,
			EntityType:  entityProker,
			EntityID:    row.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Proker %q dihapus", row.Kegiatan),
			Before:      row,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func parseRequest(c *fiber.Ctx, body *ProkerRequest) error {
	if err := httpx.ParseAndValidate(c, body); err != nil {
		return err
	}
	if !ValidTeam(body.Team) {
		return fiber.NewError(fiber.StatusBadRequest, "Tim tidak dikenal: "+body.Team)
	}

	var unknown []string
	for month := range body.Timeline {
		if !ValidMonth(month) {
			unknown = append(unknown, month)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fiber.NewError(fiber.StatusBadRequest, "Bulan tidak dikenal: "+strings.Join(unknown, ", "))
	}
	return nil
}

func loadInScope(c *fiber.Ctx, store Store) (*models.Proker, auth.Identity, error) {
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
		return nil, actor, fiber.NewError(fiber.StatusNotFound, "Program kerja tidak ditemukan")
	}
	if err != nil {
		log.Printf("[ERROR] proker %d: %v", id, err)
		return nil, actor, fiber.NewError(fiber.StatusInternalServerError, "Gagal memuat program kerja")
	}
	if !scope.Allows(row.DesaID, row.KelompokID) {
		return nil, actor, fiber.NewError(fiber.StatusNotFound, "Program kerja tidak ditemukan")
	}
	return row, actor, nil
}

func apply(row *models.Proker, body ProkerRequest) {
	row.Team = body.Team
	row.Year = body.Year
	row.Kegiatan = strings.TrimSpace(body.Kegiatan)
	row.Tujuan = body.Tujuan
	row.Tempat = body.Tempat
	row.Sasaran = body.Sasaran

	items := make([]models.LineItem, 0, len(body.LineItems))
	for _, it := range body.LineItems {
		items = append(items, models.LineItem{
			ItemName:  strings.TrimSpace(it.ItemName),
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}
	row.LineItems = datatypes.NewJSONType(items)

	tl := models.Timeline{}
	for month, weeks := range body.Timeline {
		var kept []string
		for _, w := range weeks {
			if w = strings.TrimSpace(w); w != "" {
				kept = append(kept, w)
			}
		}
		if len(kept) > 0 {
			tl[month] = kept
		}
	}
	row.Timeline = datatypes.NewJSONType(tl)
}
