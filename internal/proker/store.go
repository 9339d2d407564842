package proker

import (
	"context"
	"errors"
	"fmt"

	"generus-backend/internal/auth"
	"generus-backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("proker tidak ditemukan")

type Store interface {
	auth.KelompokLookup

	// ListByYear: level kosong = semua level
	ListByYear(ctx context.Context, year int, scope auth.Scope, level models.ProkerLevel) ([]models.Proker, error)
	Get(ctx context.Context, id uint) (*models.Proker, error)
	Create(ctx context.Context, p *models.Proker) error
	Update(ctx context.Context, p *models.Proker) error
	Delete(ctx context.Context, id uint) error
}

type GormStore struct {
	auth.GormKelompokLookup
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{GormKelompokLookup: auth.GormKelompokLookup{DB: db}, DB: db}
}

func (s *GormStore) ListByYear(ctx context.Context, year int, scope auth.Scope, level models.ProkerLevel) ([]models.Proker, error) {
	q := s.DB.WithContext(ctx).
		Where("year = ?", year).
		Scopes(scope.Apply("desa_id", "kelompok_id"))
	if level != "" {
		q = q.Where("level = ?", level)
	}

	var rows []models.Proker
	if err := q.Order("team ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("proker %d gagal dimuat: %w", year, err)
	}
	return rows, nil
}

func (s *GormStore) Get(ctx context.Context, id uint) (*models.Proker, error) {
	var row models.Proker
	err := s.DB.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *GormStore) Create(ctx context.Context, p *models.Proker) error {
	return s.DB.WithContext(ctx).Create(p).Error
}

func (s *GormStore) Update(ctx context.Context, p *models.Proker) error {
	return s.DB.WithContext(ctx).Save(p).Error
}

func (s *GormStore) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Delete(&models.Proker{}, id).Error
}
