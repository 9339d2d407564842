package generus

import (
	"context"
	"errors"
	"fmt"

	"generus-backend/internal/auth"
	"generus-backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("generus tidak ditemukan")

type KategoriCount struct {
	KategoriID uint   `json:"kategori_id"`
	Name       string `json:"name"`
	Total      int64  `json:"total"`
}

type Store interface {
	auth.KelompokLookup

	List(ctx context.Context, scope auth.Scope) ([]models.Generus, error)
	Get(ctx context.Context, id uint) (*models.Generus, error)
	Create(ctx context.Context, g *models.Generus) error
	CreateBatch(ctx context.Context, list []models.Generus) error
	Update(ctx context.Context, g *models.Generus) error
	Delete(ctx context.Context, id uint) error

	ListKategori(ctx context.Context) ([]models.Kategori, error)
	// CountByKategori: hanya generus aktif
	CountByKategori(ctx context.Context, scope auth.Scope) ([]KategoriCount, error)
}

type GormStore struct {
	auth.GormKelompokLookup
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{GormKelompokLookup: auth.GormKelompokLookup{DB: db}, DB: db}
}

func (s *GormStore) List(ctx context.Context, scope auth.Scope) ([]models.Generus, error) {
	var rows []models.Generus
	err := s.DB.WithContext(ctx).
		Preload("Kategori").
		Preload("Kelompok").
		Scopes(scope.Apply("desa_id", "kelompok_id")).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("generus gagal dimuat: %w", err)
	}
	return rows, nil
}

func (s *GormStore) Get(ctx context.Context, id uint) (*models.Generus, error) {
	var row models.Generus
	err := s.DB.WithContext(ctx).Preload("Kategori").Preload("Kelompok").First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *GormStore) Create(ctx context.Context, g *models.Generus) error {
	return s.DB.WithContext(ctx).Omit("Kategori", "Kelompok").Create(g).Error
}

func (s *GormStore) CreateBatch(ctx context.Context, list []models.Generus) error {
	if len(list) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).Omit("Kategori", "Kelompok").CreateInBatches(&list, 200).Error
}

func (s *GormStore) Update(ctx context.Context, g *models.Generus) error {
	return s.DB.WithContext(ctx).Omit("Kategori", "Kelompok").Save(g).Error
}

func (s *GormStore) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Delete(&models.Generus{}, id).Error
}

func (s *GormStore) ListKategori(ctx context.Context) ([]models.Kategori, error) {
	var rows []models.Kategori
	if err := s.DB.WithContext(ctx).Order("sort_order ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("kategori gagal dimuat: %w", err)
	}
	return rows, nil
}

func (s *GormStore) CountByKategori(ctx context.Context, scope auth.Scope) ([]KategoriCount, error) {
	var out []KategoriCount
	err := s.DB.WithContext(ctx).
		Model(&models.Generus{}).
		Select("generus.kategori_id, kategori.name, COUNT(*) AS total").
		Joins("JOIN kategori ON kategori.id = generus.kategori_id").
		Where("generus.active = ?", true).
		Scopes(scope.Apply("generus.desa_id", "generus.kelompok_id")).
		Group("generus.kategori_id, kategori.name, kategori.sort_order").
		Order("kategori.sort_order ASC, kategori.name ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("rekap generus per kategori gagal: %w", err)
	}
	return out, nil
}
