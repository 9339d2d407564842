package models

import "time"

type Desa struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	Address   string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Kelompok []Kelompok
}

type Kelompok struct {
	ID        uint   `gorm:"primaryKey"`
	DesaID    uint   `gorm:"not null;uniqueIndex:idx_kelompok_desa_name"`
	Desa      Desa
	Name      string `gorm:"size:100;not null;uniqueIndex:idx_kelompok_desa_name"`
	Address   string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Kategori: kelas/jenjang generus (PAUD, Caberawit, Pra Remaja, dst.)
type Kategori struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null;unique"`
	Description string `gorm:"size:255"`
	SortOrder   int    `gorm:"default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Desa) TableName() string     { return "desa" }
func (Kelompok) TableName() string { return "kelompok" }
func (Kategori) TableName() string { return "kategori" }
