package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"generus-backend/internal/config"
	"generus-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "[GORM] ", log.LstdFlags),
			logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("database tidak dapat dihubungi: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("pool koneksi tidak tersedia: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Desa{},
		&models.Kelompok{},
		&models.Kategori{},
		&models.User{},
		&models.Generus{},
		&models.LaporanKBM{},
		&models.LaporanMuslimun{},
		&models.Proker{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("AutoMigrate gagal: %w", err)
	}

	// Satu laporan KBM per kategori per kelompok per bulan
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_laporan_kbm_period
		ON laporan_kbm (kelompok_id, kategori_id, period_year, period_month)
		WHERE period_year IS NOT NULL AND period_month IS NOT NULL
	`).Error; err != nil {
		log.Printf("[WARN] index idx_laporan_kbm_period tidak dibuat: %v", err)
	}

	log.Println("Koneksi database berhasil. Migrasi selesai.")
	return nil
}
