package proker

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	sheetMonthly = "Rekap Bulanan"
	sheetTeams   = "Per Tim"
)

// WriteRecapXLSX menulis rekap ke workbook dua sheet: rekap per bulan dan
// daftar kegiatan per tim.
func WriteRecapXLSX(w io.Writer, year int, recap Recap) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetMonthly); err != nil {
		return err
	}
	if _, err := f.NewSheet(sheetTeams); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	// Sheet rekap bulanan
	title := fmt.Sprintf("Rekap RAB Program Kerja %d", year)
	if err := f.SetCellValue(sheetMonthly, "A1", title); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetMonthly, "A3", &[]any{"Bulan", "Jumlah Kegiatan", "Kegiatan", "Total RAB"}); err != nil {
		return err
	}
	row := 4
	for _, m := range recap.MonthlyRecap {
		names := ""
		for i, it := range m.Items {
			if i > 0 {
				names += ", "
			}
			names += it.Kegiatan
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheetMonthly, cell, &[]any{m.Month, len(m.Items), names, m.TotalBudget}); err != nil {
			return err
		}
		row++
	}
	totalCell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(sheetMonthly, totalCell, &[]any{"Total", "", "", recap.GrandTotal}); err != nil {
		return err
	}
	endCell, _ := excelize.CoordinatesToCellName(4, row)
	_ = f.SetCellStyle(sheetMonthly, "A1", "A1", bold)
	_ = f.SetCellStyle(sheetMonthly, "A3", "D3", bold)
	_ = f.SetCellStyle(sheetMonthly, totalCell, endCell, bold)
	_ = f.SetColWidth(sheetMonthly, "A", "B", 16)
	_ = f.SetColWidth(sheetMonthly, "C", "C", 60)
	_ = f.SetColWidth(sheetMonthly, "D", "D", 18)

	// Sheet per tim
	if err := f.SetSheetRow(sheetTeams, "A1", &[]any{"Tim", "Kegiatan", "Tujuan", "Tempat", "Sasaran", "Total RAB"}); err != nil {
		return err
	}
	row = 2
	for _, g := range recap.GroupedByTeam {
		for _, it := range g.Items {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			values := []any{g.Team, it.Kegiatan, it.Tujuan, it.Tempat, it.Sasaran, BudgetTotal(it.LineItems.Data())}
			if err := f.SetSheetRow(sheetTeams, cell, &values); err != nil {
				return err
			}
			row++
		}
	}
	_ = f.SetCellStyle(sheetTeams, "A1", "F1", bold)
	_ = f.SetColWidth(sheetTeams, "A", "A", 18)
	_ = f.SetColWidth(sheetTeams, "B", "E", 30)
	_ = f.SetColWidth(sheetTeams, "F", "F", 18)

	return f.Write(w)
}
