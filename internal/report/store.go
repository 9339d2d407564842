package report

import (
	"context"
	"errors"
	"fmt"

	"generus-backend/internal/auth"
	"generus-backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("laporan tidak ditemukan")

type Filter struct {
	KategoriID *uint // hanya KBM
	Year       *int
}

// Store: sumber data laporan. Semua List sudah dibatasi scope.
type Store interface {
	auth.KelompokLookup

	ListKBM(ctx context.Context, scope auth.Scope, f Filter) ([]models.LaporanKBM, error)
	GetKBM(ctx context.Context, id uint) (*models.LaporanKBM, error)
	CreateKBM(ctx context.Context, l *models.LaporanKBM) error
	UpdateKBM(ctx context.Context, l *models.LaporanKBM) error
	DeleteKBM(ctx context.Context, id uint) error

	ListMuslimun(ctx context.Context, scope auth.Scope, f Filter) ([]models.LaporanMuslimun, error)
	GetMuslimun(ctx context.Context, id uint) (*models.LaporanMuslimun, error)
	CreateMuslimun(ctx context.Context, l *models.LaporanMuslimun) error
	UpdateMuslimun(ctx context.Context, l *models.LaporanMuslimun) error
	DeleteMuslimun(ctx context.Context, id uint) error
}

type GormStore struct {
	auth.GormKelompokLookup
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{GormKelompokLookup: auth.GormKelompokLookup{DB: db}, DB: db}
}

func (s *GormStore) ListKBM(ctx context.Context, scope auth.Scope, f Filter) ([]models.LaporanKBM, error) {
	q := s.DB.WithContext(ctx).
		Preload("Kategori").
		Scopes(scope.Apply("desa_id", "kelompok_id"), f.apply)
	if f.KategoriID != nil {
		q = q.Where("kategori_id = ?", *f.KategoriID)
	}

	var rows []models.LaporanKBM
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("laporan KBM gagal dimuat: %w", err)
	}
	return rows, nil
}

func (s *GormStore) GetKBM(ctx context.Context, id uint) (*models.LaporanKBM, error) {
	var row models.LaporanKBM
	if err := s.DB.WithContext(ctx).Preload("Kategori").First(&row, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}

func (s *GormStore) CreateKBM(ctx context.Context, l *models.LaporanKBM) error {
	return s.DB.WithContext(ctx).Create(l).Error
}

func (s *GormStore) UpdateKBM(ctx context.Context, l *models.LaporanKBM) error {
	return s.DB.WithContext(ctx).Omit("Kategori").Save(l).Error
}

func (s *GormStore) DeleteKBM(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Delete(&models.LaporanKBM{}, id).Error
}

func (s *GormStore) ListMuslimun(ctx context.Context, scope auth.Scope, f Filter) ([]models.LaporanMuslimun, error) {
	var rows []models.LaporanMuslimun
	err := s.DB.WithContext(ctx).
		Scopes(scope.Apply("desa_id", "kelompok_id"), f.apply).
		Order("meeting_date DESC, created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("laporan muslimun gagal dimuat: %w", err)
	}
	return rows, nil
}

func (s *GormStore) GetMuslimun(ctx context.Context, id uint) (*models.LaporanMuslimun, error) {
	var row models.LaporanMuslimun
	if err := s.DB.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}

func (s *GormStore) CreateMuslimun(ctx context.Context, l *models.LaporanMuslimun) error {
	return s.DB.WithContext(ctx).Create(l).Error
}

func (s *GormStore) UpdateMuslimun(ctx context.Context, l *models.LaporanMuslimun) error {
	return s.DB.WithContext(ctx).Save(l).Error
}

func (s *GormStore) DeleteMuslimun(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Delete(&models.LaporanMuslimun{}, id).Error
}

func (f Filter) apply(db *gorm.DB) *gorm.DB {
	if f.Year != nil {
		db = db.Where("period_year = ?", *f.Year)
	}
	return db
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
