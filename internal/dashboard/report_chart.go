package dashboard

import (
	"log"
	"time"

	"generus-backend/internal/auth"
	"generus-backend/internal/httpx"
	"generus-backend/internal/report"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultMonths = 12
	maxMonths     = 36
)

type ReportChartPoint struct {
	Label    string `json:"label"` // YYYY-MM
	Year     int    `json:"period_year"`
	Month    int    `json:"period_month"`
	KBM      int    `json:"kbm"`
	Muslimun int    `json:"muslimun"`
	Total    int    `json:"total"`
}

type ReportChartTotals struct {
	KBM      int `json:"kbm"`
	Muslimun int `json:"muslimun"`
	Total    int `json:"total"`
}

type ReportChartResponse struct {
	From        string             `json:"from"`
	To          string             `json:"to"`
	Points      []ReportChartPoint `json:"points"`
	GrandTotals ReportChartTotals  `json:"grand_totals"`
	Degraded    bool               `json:"degraded"`
}

// BuildReportChart: count bulan berakhir di `last`, urut dari yang terlama.
// Bulan tanpa laporan tetap muncul dengan nilai 0.
func BuildReportChart(last report.Period, count int, kbm, muslimun map[report.Period]int) ReportChartResponse {
	first := last.AddMonths(-(count - 1))
	resp := ReportChartResponse{
		From:   first.Label(),
		To:     last.Label(),
		Points: make([]ReportChartPoint, 0, count),
	}

	for i := 0; i < count; i++ {
		p := first.AddMonths(i)
		point := ReportChartPoint{
			Label:    p.Label(),
			Year:     p.Year,
			Month:    p.Month,
			KBM:      kbm[p],
			Muslimun: muslimun[p],
		}
		point.Total = point.KBM + point.Muslimun
		resp.Points = append(resp.Points, point)

		resp.GrandTotals.KBM += point.KBM
		resp.GrandTotals.Muslimun += point.Muslimun
		resp.GrandTotals.Total += point.Total
	}
	return resp
}

// GET /api/dashboard/report-chart?months=12[&desa_id=&kelompok_id=]
func ReportChartHandler(store report.Store, now func() time.Time) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ResolveScope(c)
		if err != nil {
			return err
		}

		count, err := httpx.QueryInt(c, "months", defaultMonths)
		if err != nil {
			return err
		}
		if count <= 0 || count > maxMonths {
			return fiber.NewError(fiber.StatusBadRequest, "months harus 1-36")
		}

		// data gagal dimuat: grafik tetap utuh dengan nilai 0
		var kbmCounts, muslimunCounts map[report.Period]int
		degraded := false
		kbm, err := store.ListKBM(c.UserContext(), scope, report.Filter{})
		if err != nil {
			log.Printf("[WARN] grafik laporan KBM: %v", err)
			degraded = true
		} else {
			kbmCounts = report.CountsByPeriod(kbm)
		}
		muslimun, err := store.ListMuslimun(c.UserContext(), scope, report.Filter{})
		if err != nil {
			log.Printf("[WARN] grafik laporan muslimun: %v", err)
			degraded = true
		} else {
			muslimunCounts = report.CountsByPeriod(muslimun)
		}

		resp := BuildReportChart(report.PeriodOf(now()), count, kbmCounts, muslimunCounts)
		resp.Degraded = degraded
		return c.JSON(resp)
	}
}
