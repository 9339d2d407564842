package generus

import (
	"bytes"
	"testing"

	"generus-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var kategoriFixture = []models.Kategori{
	{ID: 1, Name: "Caberawit"},
	{ID: 2, Name: "Pra Remaja"},
	{ID: 3, Name: "Remaja"},
}

func buildSheet(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := r
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestParseSheet(t *testing.T) {
	buf := buildSheet(t, [][]any{
		{"Nama", "Jenis Kelamin", "Kategori", "Orang Tua", "Telepon"},
		{"Ahmad Fauzi", "L", "caberawit", "Bapak Fauzi", "81234567890"},
		{"Aisyah", "Perempuan", "Pra Remaja"},
		{"", "", ""},
		{"Budi", "X", "Remaja"},
		{"Citra", "P", "Usia Mandiri"},
		{"Dewi", "P", "Usia Mandiri"},
		{"Eko", "L", "Remaja", "", "021-555"},
	})

	list, res, err := ParseSheet(buf, kategoriFixture, 1, 10)
	require.NoError(t, err)

	require.Len(t, list, 3)
	assert.Equal(t, 3, res.Imported)

	assert.Equal(t, "Ahmad Fauzi", list[0].Name)
	assert.Equal(t, models.GenderMale, list[0].Gender)
	assert.Equal(t, uint(1), list[0].KategoriID)
	assert.Equal(t, "Bapak Fauzi", list[0].ParentName)
	assert.Equal(t, "081234567890", list[0].Phone)
	assert.Equal(t, uint(1), list[0].DesaID)
	assert.Equal(t, uint(10), list[0].KelompokID)
	assert.True(t, list[0].Active)

	assert.Equal(t, uint(2), list[1].KategoriID)
	assert.Equal(t, "", list[1].Phone)
	assert.Equal(t, "021-555", list[2].Phone)

	require.Len(t, res.Skipped, 3)
	assert.Equal(t, ImportIssue{Row: 5, Name: "Budi", Reason: "jenis kelamin tidak dikenal"}, res.Skipped[0])
	assert.Equal(t, 6, res.Skipped[1].Row)
	assert.Equal(t, []string{"Usia Mandiri"}, res.UnknownKategori)
}

func TestParseSheetWithoutHeader(t *testing.T) {
	buf := buildSheet(t, [][]any{
		{"Ahmad", "L", "Remaja"},
	})

	list, res, err := ParseSheet(buf, kategoriFixture, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, res.Skipped)
	assert.NotNil(t, res.UnknownKategori)
}

func TestParseSheetRejectsGarbage(t *testing.T) {
	_, _, err := ParseSheet(bytes.NewBufferString("bukan excel"), kategoriFixture, 1, 10)
	assert.Error(t, err)
}
