package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"generus-backend/internal/admin"
	"generus-backend/internal/audit"
	"generus-backend/internal/auth"
	"generus-backend/internal/config"
	"generus-backend/internal/dashboard"
	"generus-backend/internal/database"
	"generus-backend/internal/generus"
	"generus-backend/internal/httpx"
	"generus-backend/internal/proker"
	"generus-backend/internal/report"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("konfigurasi tidak valid: %v", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: httpx.ErrorHandler,
		BodyLimit:    10 * 1024 * 1024, // import xlsx
	})

	app.Use(recover.New())
	app.Use(httpx.RequestID(cfg.RequestTimeout))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:request_id} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.AllowedOrigins(),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + httpx.HeaderRequestID,
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		ExposeHeaders: httpx.HeaderRequestID + ", Content-Disposition",
	}))

	registerRoutes(app, cfg, db)

	go func() {
		log.Println("Server berjalan di port:", cfg.HTTPPort)
		if err := app.Listen(":" + cfg.HTTPPort); err != nil {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Mematikan server...")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Printf("[ERROR] shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func registerRoutes(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	recorder := audit.NewGormRecorder(db)
	adminStore := admin.NewGormStore(db)
	generusStore := generus.NewGormStore(db)
	reportStore := report.NewGormStore(db)
	prokerStore := proker.NewGormStore(db)

	can := auth.RequireCapability

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-superadmin", auth.RegisterSuperAdminHandler(db))
	api.Post("/auth/login", auth.LoginHandler(cfg, db))

	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(db))

	// Master data
	protected.Get("/kategori", admin.ListKategoriHandler(adminStore))

	adminRoutes := protected.Group("/admin")

	adminRoutes.Get("/desa", can(auth.ActionManageDesa), admin.ListDesaHandler(adminStore))
	adminRoutes.Get("/desa/:id", can(auth.ActionManageDesa), admin.GetDesaHandler(adminStore))
	adminRoutes.Post("/desa", can(auth.ActionManageDesa), admin.CreateDesaHandler(adminStore))
	adminRoutes.Put("/desa/:id", can(auth.ActionManageDesa), admin.UpdateDesaHandler(adminStore))
	adminRoutes.Delete("/desa/:id", can(auth.ActionManageDesa), admin.DeleteDesaHandler(adminStore))

	adminRoutes.Get("/kelompok", admin.ListKelompokHandler(adminStore))
	adminRoutes.Post("/kelompok", can(auth.ActionManageKelompok), admin.CreateKelompokHandler(adminStore))
	adminRoutes.Put("/kelompok/:id", can(auth.ActionManageKelompok), admin.UpdateKelompokHandler(adminStore))
	adminRoutes.Delete("/kelompok/:id", can(auth.ActionManageKelompok), admin.DeleteKelompokHandler(adminStore))

	adminRoutes.Post("/kategori", can(auth.ActionManageKategori), admin.CreateKategoriHandler(adminStore))
	adminRoutes.Put("/kategori/:id", can(auth.ActionManageKategori), admin.UpdateKategoriHandler(adminStore))
	adminRoutes.Delete("/kategori/:id", can(auth.ActionManageKategori), admin.DeleteKategoriHandler(adminStore))

	adminRoutes.Get("/users", can(auth.ActionManageUsers), admin.ListUsersHandler(adminStore))
	adminRoutes.Post("/users", can(auth.ActionManageUsers), admin.CreateUserHandler(adminStore))
	adminRoutes.Delete("/users/:id", can(auth.ActionManageUsers), admin.DeleteUserHandler(adminStore))

	// Generus
	protected.Get("/generus", can(auth.ActionViewGenerus), generus.ListHandler(generusStore))
	protected.Post("/generus/import", can(auth.ActionManageGenerus), generus.ImportHandler(generusStore, recorder))
	protected.Get("/generus/:id", can(auth.ActionViewGenerus), generus.GetHandler(generusStore))
	protected.Post("/generus", can(auth.ActionManageGenerus), generus.CreateHandler(generusStore, recorder))
	protected.Put("/generus/:id", can(auth.ActionManageGenerus), generus.UpdateHandler(generusStore, recorder))
	protected.Delete("/generus/:id", can(auth.ActionManageGenerus), generus.DeleteHandler(generusStore, recorder))

	// Laporan KBM
	protected.Get("/laporan-kbm", can(auth.ActionViewReport), report.ListKBMHandler(reportStore))
	protected.Get("/laporan-kbm/summary", can(auth.ActionViewReport), report.KBMSummaryHandler(reportStore))
	protected.Get("/laporan-kbm/:id", can(auth.ActionViewReport), report.GetKBMHandler(reportStore))
	protected.Post("/laporan-kbm", can(auth.ActionWriteReport), report.CreateKBMHandler(reportStore, recorder))
	protected.Put("/laporan-kbm/:id", can(auth.ActionWriteReport), report.UpdateKBMHandler(reportStore, recorder))
	protected.Delete("/laporan-kbm/:id", can(auth.ActionWriteReport), report.DeleteKBMHandler(reportStore, recorder))

	// Laporan muslimun (musyawarah)
	protected.Get("/laporan-muslimun", can(auth.ActionViewReport), report.ListMuslimunHandler(reportStore))
	protected.Get("/laporan-muslimun/summary", can(auth.ActionViewReport), report.MuslimunSummaryHandler(reportStore))
	protected.Get("/laporan-muslimun/:id", can(auth.ActionViewReport), report.GetMuslimunHandler(reportStore))
	protected.Post("/laporan-muslimun", can(auth.ActionWriteReport), report.CreateMuslimunHandler(reportStore, recorder))
	protected.Put("/laporan-muslimun/:id", can(auth.ActionWriteReport), report.UpdateMuslimunHandler(reportStore, recorder))
	protected.Delete("/laporan-muslimun/:id", can(auth.ActionWriteReport), report.DeleteMuslimunHandler(reportStore, recorder))

	// Program kerja
	protected.Get("/proker", can(auth.ActionViewProker), proker.ListHandler(prokerStore))
	protected.Get("/proker/meta", can(auth.ActionViewProker), proker.MetaHandler())
	protected.Get("/proker/recap", can(auth.ActionViewProker), proker.RecapHandler(prokerStore))
	protected.Get("/proker/recap/export", can(auth.ActionViewProker), proker.ExportRecapHandler(prokerStore))
	protected.Get("/proker/:id", can(auth.ActionViewProker), proker.GetHandler(prokerStore))
	protected.Post("/proker", can(auth.ActionManageProker), proker.CreateHandler(prokerStore, recorder))
	protected.Put("/proker/:id", can(auth.ActionManageProker), proker.UpdateHandler(prokerStore, recorder))
	protected.Delete("/proker/:id", can(auth.ActionManageProker), proker.DeleteHandler(prokerStore, recorder))

	// Dashboard
	protected.Get("/dashboard/report-chart", can(auth.ActionViewReport), dashboard.ReportChartHandler(reportStore, time.Now))
	protected.Get("/dashboard/stats", can(auth.ActionViewGenerus), dashboard.StatsHandler(generusStore))

	// Audit logs
	protected.Get("/audit-logs", can(auth.ActionViewAudit), audit.ListAuditLogsHandler(db))
}
