package models

import (
	"time"

	"gorm.io/datatypes"
)

type ProkerLevel string

const (
	ProkerLevelDesa     ProkerLevel = "desa"
	ProkerLevelKelompok ProkerLevel = "kelompok"
)

func (l ProkerLevel) Valid() bool {
	return l == ProkerLevelDesa || l == ProkerLevelKelompok
}

// LineItem: satu baris RAB
type LineItem struct {
	ItemName  string `json:"item_name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
}

// Timeline: nama bulan -> label minggu (mis. "Januari": ["M1","M3"])
type Timeline map[string][]string

// Proker: program kerja tahunan
type Proker struct {
	ID         uint        `gorm:"primaryKey"`
	Level      ProkerLevel `gorm:"size:10;index;not null"`
	DesaID     uint        `gorm:"index;not null"`
	KelompokID *uint       `gorm:"index"`
	Team       string      `gorm:"size:50;index;not null"`
	Year       int         `gorm:"index;not null"`

	Kegiatan string `gorm:"size:255;not null"`
	Tujuan   string `gorm:"type:text"`
	Tempat   string `gorm:"size:150"`
	Sasaran  string `gorm:"size:150"`

	LineItems datatypes.JSONType[[]LineItem] `gorm:"type:jsonb"`
	Timeline  datatypes.JSONType[Timeline]   `gorm:"type:jsonb"`

	CreatedBy uint
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Proker) TableName() string { return "proker" }
