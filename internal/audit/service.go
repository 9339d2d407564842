package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"generus-backend/internal/auth"
	"generus-backend/internal/models"

	"gorm.io/gorm"
)

type Entry struct {
	Actor       auth.Identity
	DesaID      *uint
	KelompokID  *uint
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

type GormRecorder struct {
	DB *gorm.DB
}

func NewGormRecorder(db *gorm.DB) *GormRecorder {
	return &GormRecorder{DB: db}
}

func (r *GormRecorder) Record(ctx context.Context, e Entry) error {
	row := models.AuditLog{
		DesaID:      e.DesaID,
		KelompokID:  e.KelompokID,
		UserID:      e.Actor.UserID,
		UserName:    e.Actor.Name,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Action:      e.Action,
		Description: e.Description,
		BeforeData:  snapshot(e.Before),
		AfterData:   snapshot(e.After),
	}

	if err := r.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("audit log gagal disimpan: %w", err)
	}
	return nil
}

// jsonb tidak menerima string kosong, pakai literal null
func snapshot(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

// Log mencatat entry; kegagalan hanya di-log, tidak menggagalkan request.
func Log(ctx context.Context, rec Recorder, e Entry) {
	if rec == nil {
		return
	}
	if err := rec.Record(ctx, e); err != nil {
		log.Printf("[WARN] %v (entity=%s id=%d action=%s)", err, e.EntityType, e.EntityID, e.Action)
	}
}
