package proker

import (
	"strings"

	"generus-backend/internal/models"
)

// Teams: tim penyusun program kerja, urutan ini dipakai di rekap dan export.
var Teams = []string{
	"Kurikulum",
	"Pengajar",
	"Sarana Prasarana",
	"Keputrian",
	"Olahraga",
	"Kemandirian",
	"Seni Budaya",
	"Sekretariat",
	"Bendahara",
}

// Months: kunci timeline proker.
var Months = []string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

func ValidTeam(team string) bool {
	return contains(Teams, team)
}

func ValidMonth(month string) bool {
	return contains(Months, month)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// BudgetTotal: Σ unit_price × quantity (RAB satu kegiatan)
func BudgetTotal(items []models.LineItem) int64 {
	var total int64
	for _, it := range items {
		total += it.UnitPrice * it.Quantity
	}
	return total
}

// IsScheduledIn: true bila bulan punya minimal satu label minggu yang tidak kosong.
func IsScheduledIn(tl models.Timeline, month string) bool {
	for _, week := range tl[month] {
		if strings.TrimSpace(week) != "" {
			return true
		}
	}
	return false
}

type TeamGroup struct {
	Team  string
	Items []models.Proker
}

type MonthRecap struct {
	Month       string
	Items       []models.Proker
	TotalBudget int64
}

type Recap struct {
	GroupedByTeam []TeamGroup
	MonthlyRecap  []MonthRecap
	// GrandTotal = Σ MonthlyRecap[].TotalBudget. Kegiatan yang terjadwal di
	// beberapa bulan terhitung di setiap bulannya.
	GrandTotal int64
}

// BuildMonthlyRecap mengelompokkan proker per tim (tim tanpa kegiatan tidak
// ditampilkan) dan menjumlahkan RAB per bulan sesuai timeline.
func BuildMonthlyRecap(entries []models.Proker, months, teams []string) Recap {
	recap := Recap{
		GroupedByTeam: make([]TeamGroup, 0, len(teams)),
		MonthlyRecap:  make([]MonthRecap, 0, len(months)),
	}

	for _, team := range teams {
		var items []models.Proker
		for _, e := range entries {
			if e.Team == team {
				items = append(items, e)
			}
		}
		if len(items) == 0 {
			continue
		}
		recap.GroupedByTeam = append(recap.GroupedByTeam, TeamGroup{Team: team, Items: items})
	}

	for _, month := range months {
		mr := MonthRecap{Month: month, Items: []models.Proker{}}
		for _, e := range entries {
			if !IsScheduledIn(e.Timeline.Data(), month) {
				continue
			}
			mr.Items = append(mr.Items, e)
			mr.TotalBudget += BudgetTotal(e.LineItems.Data())
		}
		recap.MonthlyRecap = append(recap.MonthlyRecap, mr)
		recap.GrandTotal += mr.TotalBudget
	}

	return recap
}
