package admin

import (
	"context"
	"errors"
	"fmt"

	"generus-backend/internal/auth"
	"generus-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("data tidak ditemukan")
	ErrDuplicate = errors.New("data sudah ada")
	// ErrInUse: masih direferensikan data lain (foreign key)
	ErrInUse = errors.New("data masih dipakai")
)

type Store interface {
	auth.KelompokLookup

	ListDesa(ctx context.Context) ([]models.Desa, error)
	GetDesa(ctx context.Context, id uint) (*models.Desa, error)
	SaveDesa(ctx context.Context, d *models.Desa) error
	DeleteDesa(ctx context.Context, id uint) error

	ListKelompok(ctx context.Context, scope auth.Scope) ([]models.Kelompok, error)
	GetKelompok(ctx context.Context, id uint) (*models.Kelompok, error)
	SaveKelompok(ctx context.Context, k *models.Kelompok) error
	DeleteKelompok(ctx context.Context, id uint) error

	ListKategori(ctx context.Context) ([]models.Kategori, error)
	GetKategori(ctx context.Context, id uint) (*models.Kategori, error)
	SaveKategori(ctx context.Context, k *models.Kategori) error
	DeleteKategori(ctx context.Context, id uint) error

	ListUsers(ctx context.Context, scope auth.Scope) ([]models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id uint) error
}

type GormStore struct {
	auth.GormKelompokLookup
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{GormKelompokLookup: auth.GormKelompokLookup{DB: db}, DB: db}
}

// translate memetakan error GORM (TranslateError aktif) ke error paket ini.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrInUse
	}
	return err
}

func (s *GormStore) ListDesa(ctx context.Context) ([]models.Desa, error) {
	var rows []models.Desa
	if err := s.DB.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("desa gagal dimuat: %w", err)
	}
	return rows, nil
}

func (s *GormStore) GetDesa(ctx context.Context, id uint) (*models.Desa, error) {
	var row models.Desa
	if err := s.DB.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (s *GormStore) SaveDesa(ctx context.Context, d *models.Desa) error {
	return translate(s.DB.WithContext(ctx).Omit("Kelompok").Save(d).Error)
}

func (s *GormStore) DeleteDesa(ctx context.Context, id uint) error {
	return translate(s.DB.WithContext(ctx).Delete(&models.Desa{}, id).Error)
}

func (s *GormStore) ListKelompok(ctx context.Context, scope auth.Scope) ([]models.Kelompok, error) {
	var rows []models.Kelompok
	err := s.DB.WithContext(ctx).
		Preload("Desa").
		Scopes(scope.Apply("desa_id", "id")).
		Order("desa_id ASC, name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("kelompok gagal dimuat: %w", err)
	}
	return rows, nil
}

func (s *GormStore) GetKelompok(ctx context.Context, id uint) (*models.Kelompok, error) {
	var row models.Kelompok
	if err := s.DB.WithContext(ctx).Preload("Desa").First(&row, id).Error; err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (s *GormStore) SaveKelompok(ctx context.Context, k *models.Kelompok) error {
	return translate(s.DB.WithContext(ctx).Omit("Desa").Save(k).Error)
}

func (s *GormStore) DeleteKelompok(ctx context.Context, id uint) error {
	return translate(s.DB.WithContext(ctx).Delete(&models.Kelompok{}, id).Error)
}

func (s *GormStore) ListKategori(ctx context.Context) ([]models.Kategori, error) {
	var rows []models.Kategori
	if err := s.DB.WithContext(ctx).Order("sort_order ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("kategori gagal dimuat: %w", err)
	}
	return rows, nil
}

func (s *GormStore) GetKategori(ctx context.Context, id uint) (*models.Kategori, error) {
	var row models.Kategori
	if err := s.DB.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (s *GormStore) SaveKategori(ctx context.Context, k *models.Kategori) error {
	return translate(s.DB.WithContext(ctx).Save(k).Error)
}

func (s *GormStore) DeleteKategori(ctx context.Context, id uint) error {
	return translate(s.DB.WithContext(ctx).Delete(&models.Kategori{}, id).Error)
}

func (s *GormStore) ListUsers(ctx context.Context, scope auth.Scope) ([]models.User, error) {
	var rows []models.User
	err := s.DB.WithContext(ctx).
		Scopes(scope.Apply("desa_id", "kelompok_id")).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("pengguna gagal dimuat: %w", err)
	}
	return rows, nil
}

func (s *GormStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var row models.User
	if err := s.DB.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (s *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.DB.WithContext(ctx).Omit("Desa", "Kelompok").Create(u).Error)
}

func (s *GormStore) DeleteUser(ctx context.Context, id uint) error {
	return translate(s.DB.WithContext(ctx).Delete(&models.User{}, id).Error)
}
