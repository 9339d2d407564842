package dashboard

import (
	"log"

	"generus-backend/internal/auth"
	"generus-backend/internal/generus"

	"github.com/gofiber/fiber/v2"
)

type StatsResponse struct {
	TotalGenerus int64                   `json:"total_generus"`
	PerKategori  []generus.KategoriCount `json:"per_kategori"`
}

// GET /api/dashboard/stats: jumlah generus aktif per kategori dalam scope pemanggil.
func StatsHandler(store generus.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ResolveScope(c)
		if err != nil {
			return err
		}

		counts, err := store.CountByKategori(c.UserContext(), scope)
		if err != nil {
			log.Printf("[ERROR] statistik generus: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memuat statistik")
		}

		resp := StatsResponse{PerKategori: make([]generus.KategoriCount, 0, len(counts))}
		for _, k := range counts {
			resp.TotalGenerus += k.Total
			resp.PerKategori = append(resp.PerKategori, k)
		}
		return c.JSON(resp)
	}
}
