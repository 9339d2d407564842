package generus

import (
	"generus-backend/internal/models"
)

type GenerusRequest struct {
	DesaID     *uint  `json:"desa_id"`
	KelompokID *uint  `json:"kelompok_id"`
	KategoriID uint   `json:"kategori_id" validate:"required"`
	Name       string `json:"name" validate:"required,max=150"`
	Gender     string `json:"gender" validate:"required,oneof=L P"`
	BirthDate  string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	ParentName string `json:"parent_name" validate:"max=150"`
	Phone      string `json:"phone" validate:"max=30"`
	Active     *bool  `json:"active"`
}

type GenerusResponse struct {
	ID           uint          `json:"id"`
	DesaID       uint          `json:"desa_id"`
	KelompokID   uint          `json:"kelompok_id"`
	KelompokName string        `json:"kelompok_name,omitempty"`
	KategoriID   uint          `json:"kategori_id"`
	KategoriName string        `json:"kategori_name,omitempty"`
	Name         string        `json:"name"`
	Gender       models.Gender `json:"gender"`
	BirthDate    *string       `json:"birth_date"`
	ParentName   string        `json:"parent_name"`
	Phone        string        `json:"phone"`
	Active       bool          `json:"active"`
}

func toResponse(g models.Generus) GenerusResponse {
	resp := GenerusResponse{
		ID:           g.ID,
		DesaID:       g.DesaID,
		KelompokID:   g.KelompokID,
		KelompokName: g.Kelompok.Name,
		KategoriID:   g.KategoriID,
		KategoriName: g.Kategori.Name,
		Name:         g.Name,
		Gender:       g.Gender,
		ParentName:   g.ParentName,
		Phone:        g.Phone,
		Active:       g.Active,
	}
	if g.BirthDate != nil {
		s := g.BirthDate.Format("2006-01-02")
		resp.BirthDate = &s
	}
	return resp
}

type ImportIssue struct {
	Row    int    `json:"row"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	Imported        int           `json:"imported"`
	Skipped         []ImportIssue `json:"skipped"`
	UnknownKategori []string      `json:"unknown_kategori"`
}
