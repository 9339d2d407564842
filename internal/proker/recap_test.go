package proker

import (
	"testing"

	"generus-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func entry(id uint, team string, items []models.LineItem, tl models.Timeline) models.Proker {
	return models.Proker{
		ID:        id,
		Team:      team,
		Year:      2026,
		Kegiatan:  "Kegiatan " + team,
		LineItems: datatypes.NewJSONType(items),
		Timeline:  datatypes.NewJSONType(tl),
	}
}

func monthTotals(r Recap) map[string]int64 {
	out := map[string]int64{}
	for _, m := range r.MonthlyRecap {
		out[m.Month] = m.TotalBudget
	}
	return out
}

func TestBudgetTotal(t *testing.T) {
	assert.Equal(t, int64(0), BudgetTotal(nil))
	assert.Equal(t, int64(2_000_000), BudgetTotal([]models.LineItem{{ItemName: "Snack", UnitPrice: 20_000, Quantity: 100}}))
	assert.Equal(t, int64(350_000), BudgetTotal([]models.LineItem{
		{ItemName: "Konsumsi", UnitPrice: 15_000, Quantity: 10},
		{ItemName: "Sewa sound", UnitPrice: 200_000, Quantity: 1},
		{ItemName: "Hadiah", UnitPrice: 0, Quantity: 5},
	}))
}

func TestIsScheduledIn(t *testing.T) {
	tl := models.Timeline{
		"Januari":  {"M1"},
		"Februari": {"", "  "},
		"Maret":    {},
	}
	assert.True(t, IsScheduledIn(tl, "Januari"))
	assert.False(t, IsScheduledIn(tl, "Februari"), "blank week labels do not count")
	assert.False(t, IsScheduledIn(tl, "Maret"))
	assert.False(t, IsScheduledIn(tl, "April"))
	assert.False(t, IsScheduledIn(nil, "Januari"))
}

func TestBuildMonthlyRecapSingleMonth(t *testing.T) {
	e := entry(1, "Kurikulum", []models.LineItem{{ItemName: "Snack", UnitPrice: 20_000, Quantity: 100}},
		models.Timeline{"Januari": {"M2"}})

	r := BuildMonthlyRecap([]models.Proker{e}, Months, Teams)

	require.Len(t, r.MonthlyRecap, 12)
	for _, m := range r.MonthlyRecap {
		if m.Month == "Januari" {
			assert.Equal(t, int64(2_000_000), m.TotalBudget)
			require.Len(t, m.Items, 1)
			assert.Equal(t, uint(1), m.Items[0].ID)
			continue
		}
		assert.Zero(t, m.TotalBudget, m.Month)
		assert.Empty(t, m.Items, m.Month)
	}
	assert.Equal(t, int64(2_000_000), r.GrandTotal)
}

func TestBuildMonthlyRecapCountsEveryScheduledMonth(t *testing.T) {
	e := entry(1, "Kurikulum", []models.LineItem{{ItemName: "Snack", UnitPrice: 20_000, Quantity: 100}},
		models.Timeline{"Januari": {"M1"}, "Juli": {"M3"}})

	r := BuildMonthlyRecap([]models.Proker{e}, Months, Teams)

	totals := monthTotals(r)
	assert.Equal(t, int64(2_000_000), totals["Januari"])
	assert.Equal(t, int64(2_000_000), totals["Juli"])
	// kegiatan dua bulan terhitung dua kali di grand total
	assert.Equal(t, int64(4_000_000), r.GrandTotal)
	assert.NotEqual(t, BudgetTotal(e.LineItems.Data()), r.GrandTotal)
}

func TestBuildMonthlyRecapWithoutTimeline(t *testing.T) {
	e := entry(1, "Olahraga", []models.LineItem{{ItemName: "Bola", UnitPrice: 150_000, Quantity: 4}}, nil)
	blank := entry(2, "Olahraga", []models.LineItem{{ItemName: "Net", UnitPrice: 90_000, Quantity: 1}},
		models.Timeline{"Mei": {""}})

	r := BuildMonthlyRecap([]models.Proker{e, blank}, Months, Teams)

	assert.Zero(t, r.GrandTotal)
	for _, m := range r.MonthlyRecap {
		assert.Empty(t, m.Items)
	}
	require.Len(t, r.GroupedByTeam, 1, "still listed under its team")
	assert.Len(t, r.GroupedByTeam[0].Items, 2)
}

func TestBuildMonthlyRecapEmpty(t *testing.T) {
	r := BuildMonthlyRecap(nil, Months, Teams)

	assert.Empty(t, r.GroupedByTeam)
	assert.NotNil(t, r.GroupedByTeam)
	require.Len(t, r.MonthlyRecap, 12)
	for i, m := range r.MonthlyRecap {
		assert.Equal(t, Months[i], m.Month)
		assert.Zero(t, m.TotalBudget)
		assert.NotNil(t, m.Items)
	}
	assert.Zero(t, r.GrandTotal)
}

func TestBuildMonthlyRecapGroupsByTeamInOrder(t *testing.T) {
	entries := []models.Proker{
		entry(1, "Olahraga", nil, nil),
		entry(2, "Kurikulum", nil, nil),
		entry(3, "Olahraga", nil, nil),
		entry(4, "Tim Lain", nil, models.Timeline{"Maret": {"M1"}}),
	}

	r := BuildMonthlyRecap(entries, Months, Teams)

	require.Len(t, r.GroupedByTeam, 2)
	assert.Equal(t, "Kurikulum", r.GroupedByTeam[0].Team)
	assert.Equal(t, "Olahraga", r.GroupedByTeam[1].Team)
	assert.Equal(t, []uint{1, 3}, []uint{r.GroupedByTeam[1].Items[0].ID, r.GroupedByTeam[1].Items[1].ID})

	// tim di luar daftar tidak dikelompokkan tetapi tetap masuk rekap bulan
	for _, m := range r.MonthlyRecap {
		if m.Month == "Maret" {
			require.Len(t, m.Items, 1)
			assert.Equal(t, uint(4), m.Items[0].ID)
		}
	}
}

func TestBuildMonthlyRecapGrandTotalIsSumOfMonths(t *testing.T) {
	entries := []models.Proker{
		entry(1, "Kurikulum", []models.LineItem{{UnitPrice: 10_000, Quantity: 3}}, models.Timeline{"Januari": {"M1"}, "Februari": {"M2"}}),
		entry(2, "Pengajar", []models.LineItem{{UnitPrice: 5_000, Quantity: 7}}, models.Timeline{"Februari": {"M4"}}),
		entry(3, "Bendahara", []models.LineItem{{UnitPrice: 1_000, Quantity: 1}}, models.Timeline{"Desember": {"M1", "M2"}}),
	}

	r := BuildMonthlyRecap(entries, Months, Teams)

	var sum int64
	for _, m := range r.MonthlyRecap {
		assert.GreaterOrEqual(t, m.TotalBudget, int64(0))
		sum += m.TotalBudget
	}
	assert.Equal(t, sum, r.GrandTotal)
	assert.Equal(t, int64(30_000+30_000+35_000+1_000), r.GrandTotal)
}

func TestValidTeamAndMonth(t *testing.T) {
	assert.True(t, ValidTeam("Sarana Prasarana"))
	assert.False(t, ValidTeam("sarana prasarana"))
	assert.True(t, ValidMonth("Desember"))
	assert.False(t, ValidMonth("December"))
	assert.Len(t, Months, 12)
}
