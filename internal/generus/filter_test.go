package generus

import (
	"testing"

	"generus-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func sample() []models.Generus {
	return []models.Generus{
		{ID: 1, Name: "Zahra Putri", Gender: models.GenderFemale, KategoriID: 1, KelompokID: 10, Active: true},
		{ID: 2, Name: "ahmad Fauzi", Gender: models.GenderMale, KategoriID: 2, KelompokID: 10, Active: true},
		{ID: 3, Name: "Budi Santoso", Gender: models.GenderMale, KategoriID: 1, KelompokID: 11, Active: false},
		{ID: 4, Name: "Aisyah", Gender: models.GenderFemale, KategoriID: 2, KelompokID: 11, Active: true},
		{ID: 5, Name: "Ahmad Fauzi", Gender: models.GenderMale, KategoriID: 1, KelompokID: 11, Active: true},
	}
}

func ids(list []models.Generus) []uint {
	out := make([]uint, 0, len(list))
	for _, g := range list {
		out = append(out, g.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	yes, no := true, false
	one, eleven := uint(1), uint(11)

	tests := []struct {
		name string
		crit Criteria
		want []uint
	}{
		{"no criteria sorts by name", Criteria{}, []uint{2, 5, 4, 3, 1}},
		{"name substring ignores case", Criteria{Query: "FAUZ"}, []uint{2, 5}},
		{"query is trimmed", Criteria{Query: "  put "}, []uint{1}},
		{"kategori", Criteria{KategoriID: &one}, []uint{5, 3, 1}},
		{"kelompok", Criteria{KelompokID: &eleven}, []uint{5, 4, 3}},
		{"gender", Criteria{Gender: models.GenderFemale}, []uint{4, 1}},
		{"active only", Criteria{Active: &yes}, []uint{2, 5, 4, 1}},
		{"inactive only", Criteria{Active: &no}, []uint{3}},
		{"combined", Criteria{Query: "a", KategoriID: &one, Gender: models.GenderMale, Active: &yes}, []uint{5}},
		{"no match", Criteria{Query: "xyz"}, []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(sample(), tt.crit)))
		})
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	list := sample()
	_ = Filter(list, Criteria{})
	assert.Equal(t, []uint{1, 2, 3, 4, 5}, ids(list))
}

func TestFilterEmpty(t *testing.T) {
	got := Filter(nil, Criteria{Query: "a"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseGender(t *testing.T) {
	for in, want := range map[string]models.Gender{
		"L":         models.GenderMale,
		"laki-laki": models.GenderMale,
		" Pria ":    models.GenderMale,
		"p":         models.GenderFemale,
		"Perempuan": models.GenderFemale,
	} {
		got, ok := ParseGender(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseGender("x")
	assert.False(t, ok)
	_, ok = ParseGender("")
	assert.False(t, ok)
}
