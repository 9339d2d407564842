package generus

import (
	"sort"
	"strings"

	"generus-backend/internal/models"
)

// Criteria: field kosong/nil tidak ikut menyaring.
type Criteria struct {
	Query      string
	KategoriID *uint
	KelompokID *uint
	Gender     models.Gender
	Active     *bool
}

// Filter menyaring daftar generus di memori, hasil urut nama (tanpa beda huruf besar/kecil).
// Slice input tidak diubah.
func Filter(list []models.Generus, c Criteria) []models.Generus {
	q := strings.ToLower(strings.TrimSpace(c.Query))

	out := make([]models.Generus, 0, len(list))
	for _, g := range list {
		if q != "" && !strings.Contains(strings.ToLower(g.Name), q) {
			continue
		}
		if c.KategoriID != nil && g.KategoriID != *c.KategoriID {
			continue
		}
		if c.KelompokID != nil && g.KelompokID != *c.KelompokID {
			continue
		}
		if c.Gender != "" && g.Gender != c.Gender {
			continue
		}
		if c.Active != nil && g.Active != *c.Active {
			continue
		}
		out = append(out, g)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ParseGender menerima "L"/"P" maupun "laki-laki"/"perempuan".
func ParseGender(s string) (models.Gender, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "lk", "laki-laki", "laki laki", "pria":
		return models.GenderMale, true
	case "p", "pr", "perempuan", "wanita":
		return models.GenderFemale, true
	}
	return "", false
}
