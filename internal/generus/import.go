package generus

import (
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"

	"generus-backend/internal/audit"
	"generus-backend/internal/auth"
	"generus-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// Kolom file impor: nama | jenis kelamin | kategori | orang tua | telepon
const (
	colName = iota
	colGender
	colKategori
	colParent
	colPhone
)

// ParseSheet membaca sheet pertama .xlsx menjadi daftar generus untuk satu kelompok.
// Baris header (sel pertama berisi "nama") dilewati; baris kosong diabaikan.
// kategori dicocokkan dengan nama, tanpa beda huruf besar/kecil.
func ParseSheet(r io.Reader, kategori []models.Kategori, desaID, kelompokID uint) ([]models.Generus, ImportResult, error) {
	result := ImportResult{Skipped: []ImportIssue{}, UnknownKategori: []string{}}

	xl, err := excelize.OpenReader(r)
	if err != nil {
		return nil, result, fiber.NewError(fiber.StatusBadRequest, "File Excel tidak dapat dibaca: "+err.Error())
	}
	defer xl.Close()

	sheets := xl.GetSheetList()
	if len(sheets) == 0 {
		return nil, result, fiber.NewError(fiber.StatusBadRequest, "File Excel tidak memiliki sheet")
	}
	rows, err := xl.GetRows(sheets[0])
	if err != nil {
		return nil, result, fiber.NewError(fiber.StatusBadRequest, "Sheet tidak dapat dibaca: "+err.Error())
	}
	if len(rows) == 0 {
		return nil, result, fiber.NewError(fiber.StatusBadRequest, "File Excel kosong")
	}

	byName := make(map[string]uint, len(kategori))
	for _, k := range kategori {
		byName[strings.ToLower(strings.TrimSpace(k.Name))] = k.ID
	}

	start := 0
	if len(rows[0]) > 0 && strings.Contains(strings.ToLower(rows[0][0]), "nama") {
		start = 1
	}

	unknown := map[string]bool{}
	var out []models.Generus
	for i := start; i < len(rows); i++ {
		row := rows[i]
		name := cell(row, colName)
		if name == "" {
			continue
		}
		line := i + 1

		gender, ok := ParseGender(cell(row, colGender))
		if !ok {
			result.Skipped = append(result.Skipped, ImportIssue{Row: line, Name: name, Reason: "jenis kelamin tidak dikenal"})
			continue
		}

		katName := cell(row, colKategori)
		katID, ok := byName[strings.ToLower(katName)]
		if !ok {
			result.Skipped = append(result.Skipped, ImportIssue{Row: line, Name: name, Reason: "kategori tidak dikenal: " + katName})
			if katName != "" && !unknown[katName] {
				unknown[katName] = true
				result.UnknownKategori = append(result.UnknownKategori, katName)
			}
			continue
		}

		out = append(out, models.Generus{
			DesaID:     desaID,
			KelompokID: kelompokID,
			KategoriID: katID,
			Name:       name,
			Gender:     gender,
			ParentName: cell(row, colParent),
			Phone:      normalizePhone(cell(row, colPhone)),
			Active:     true,
		})
	}

	sort.Strings(result.UnknownKategori)
	result.Imported = len(out)
	return out, result, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Excel sering menyimpan nomor telepon sebagai angka: 81234567890 -> 081234567890
func normalizePhone(s string) string {
	if s == "" {
		return ""
	}
	if _, err := strconv.ParseUint(s, 10, 64); err == nil && strings.HasPrefix(s, "8") {
		return "0" + s
	}
	return s
}

// POST /api/generus/import (multipart: file=.xlsx, kelompok_id untuk admin desa / superadmin)
func ImportHandler(store Store, rec audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kelompokID, err := formUint(c, "kelompok_id")
		if err != nil {
			return err
		}
		desaID, target, err := auth.ResolveTarget(c, store, nil, kelompokID, true)
		if err != nil {
			return err
		}
		actor, err := auth.CurrentIdentity(c)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "File tidak ditemukan")
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Hanya file .xlsx yang dapat diunggah")
		}
		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "File tidak dapat dibuka")
		}
		defer file.Close()

		kategori, err := store.ListKategori(c.UserContext())
		if err != nil {
			log.Printf("[ERROR] %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memuat kategori")
		}

		list, result, err := ParseSheet(file, kategori, desaID, *target)
		if err != nil {
			return err
		}

		if err := store.CreateBatch(c.UserContext(), list); err != nil {
			log.Printf("[ERROR] impor generus (kelompok=%d): %v", *target, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan data impor")
		}

		if result.Imported > 0 {
			audit.Log(c.UserContext(), rec, audit.Entry{
				Actor:       actor,
				DesaID:      &desaID,
				KelompokID:  target,
				EntityType:  entityGenerus,
				Action:      models.AuditActionImport,
				Description: fmt.Sprintf("%d generus diimpor dari %s, %d baris dilewati", result.Imported, fileHeader.Filename, len(result.Skipped)),
			})
		}

		return c.JSON(result)
	}
}

func formUint(c *fiber.Ctx, key string) (*uint, error) {
	raw := strings.TrimSpace(c.FormValue(key))
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
