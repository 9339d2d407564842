package models

import "time"

type Gender string

const (
	GenderMale   Gender = "L"
	GenderFemale Gender = "P"
)

type Generus struct {
	ID         uint `gorm:"primaryKey"`
	DesaID     uint `gorm:"index;not null"`
	KelompokID uint `gorm:"index;not null"`
	Kelompok   Kelompok
	KategoriID uint `gorm:"index;not null"`
	Kategori   Kategori
	Name       string     `gorm:"size:150;not null"`
	Gender     Gender     `gorm:"size:1;not null"`
	BirthDate  *time.Time `gorm:"type:date"`
	ParentName string     `gorm:"size:150"`
	Phone      string     `gorm:"size:30"`
	Active     bool       `gorm:"default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Generus) TableName() string { return "generus" }
