package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultDSN         = "host=localhost user=postgres password=postgres dbname=generus port=5432 sslmode=disable"
	defaultCORSOrigins = "http://localhost:5173"
)

type Config struct {
	HTTPPort       string
	DatabaseDSN    string
	JWTSecret      string
	TokenTTL       time.Duration
	CORSOrigins    string
	RequestTimeout time.Duration
}

// Load membaca .env (kalau ada) lalu environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] .env tidak ditemukan, memakai environment sistem")
	}

	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:    getEnv("DATABASE_DSN", defaultDSN),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		TokenTTL:       getEnvDuration("TOKEN_TTL", 24*time.Hour),
		CORSOrigins:    getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
	}

	if cfg.DatabaseDSN == defaultDSN {
		log.Println("[WARN] DATABASE_DSN memakai nilai default, set koneksi Postgres sendiri untuk production.")
	}
	if cfg.CORSOrigins == defaultCORSOrigins {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS memakai nilai default, set domain sendiri untuk production.")
	}

	return cfg
}

// Validate mengumpulkan semua kesalahan konfigurasi sekaligus.
func (c *Config) Validate() error {
	var problems []string

	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET belum diset")
	} else if len(c.JWTSecret) < 32 {
		problems = append(problems, "JWT_SECRET minimal 32 karakter")
	}

	if port, err := strconv.Atoi(c.HTTPPort); err != nil {
		problems = append(problems, fmt.Sprintf("HTTP_PORT '%s' bukan angka", c.HTTPPort))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("HTTP_PORT %d di luar rentang 1-65535", port))
	}

	if strings.TrimSpace(c.DatabaseDSN) == "" {
		problems = append(problems, "DATABASE_DSN kosong")
	}
	if c.TokenTTL <= 0 {
		problems = append(problems, "TOKEN_TTL harus positif")
	}
	if c.RequestTimeout <= 0 {
		problems = append(problems, "REQUEST_TIMEOUT harus positif")
	}

	if len(problems) > 0 {
		return errors.New("konfigurasi tidak valid: " + strings.Join(problems, "; "))
	}
	return nil
}

// AllowedOrigins: CORS_ALLOWED_ORIGINS dipisah koma, spasi dibuang.
func (c *Config) AllowedOrigins() string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[WARN] %s='%s' tidak valid, memakai default %s", key, v, def)
		return def
	}
	return d
}
