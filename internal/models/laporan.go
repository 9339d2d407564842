package models

import (
	"time"

	"gorm.io/datatypes"
)

// LaporanKBM: laporan kehadiran & evaluasi kegiatan belajar mengajar per kategori
type LaporanKBM struct {
	ID         uint `gorm:"primaryKey"`
	DesaID     uint `gorm:"index;not null"`
	KelompokID uint `gorm:"index;not null"`
	KategoriID uint `gorm:"index;not null"`
	Kategori   Kategori

	// Periode boleh kosong pada data lama, laporan seperti itu tidak ikut rekap
	PeriodYear  *int `gorm:"index"`
	PeriodMonth *int `gorm:"index"`

	Hadir    int    `gorm:"default:0"`
	Izin     int    `gorm:"default:0"`
	Sakit    int    `gorm:"default:0"`
	Alpa     int    `gorm:"default:0"`
	Materi   string `gorm:"type:text"`
	Evaluasi string `gorm:"type:text"`

	Payload datatypes.JSON `gorm:"type:jsonb"`

	CreatedBy uint
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (l LaporanKBM) ReportPeriod() (int, int, bool) {
	return periodOf(l.PeriodYear, l.PeriodMonth)
}

func (l LaporanKBM) ReportCreatedAt() time.Time { return l.CreatedAt }

// LaporanMuslimun: notulen musyawarah. KelompokID nil = musyawarah tingkat desa.
type LaporanMuslimun struct {
	ID         uint  `gorm:"primaryKey"`
	DesaID     uint  `gorm:"index;not null"`
	KelompokID *uint `gorm:"index"`

	PeriodYear  *int `gorm:"index"`
	PeriodMonth *int `gorm:"index"`

	MeetingDate   time.Time `gorm:"type:date"`
	Tempat        string    `gorm:"size:150"`
	JumlahPeserta int       `gorm:"default:0"`
	Notulen       string    `gorm:"type:text"`

	Payload datatypes.JSON `gorm:"type:jsonb"`

	CreatedBy uint
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (l LaporanMuslimun) ReportPeriod() (int, int, bool) {
	return periodOf(l.PeriodYear, l.PeriodMonth)
}

func (l LaporanMuslimun) ReportCreatedAt() time.Time { return l.CreatedAt }

func periodOf(year, month *int) (int, int, bool) {
	if year == nil || month == nil {
		return 0, 0, false
	}
	if *year <= 0 || *month < 1 || *month > 12 {
		return 0, 0, false
	}
	return *year, *month, true
}

func (LaporanKBM) TableName() string      { return "laporan_kbm" }
func (LaporanMuslimun) TableName() string { return "laporan_muslimun" }
