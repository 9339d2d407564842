package audit

import (
	"generus-backend/internal/auth"
	"generus-backend/internal/httpx"
	"generus-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   string             `json:"created_at"`
	DesaID      *uint              `json:"desa_id"`
	KelompokID  *uint              `json:"kelompok_id"`
	UserID      uint               `json:"user_id"`
	UserName    string             `json:"user_name"`
	EntityType  string             `json:"entity_type"`
	EntityID    uint               `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
}

// GET /api/audit-logs?entity_type=generus&entity_id=1&user_id=2&limit=100
func ListAuditLogsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ResolveScope(c)
		if err != nil {
			return err
		}

		entityID, err := httpx.QueryUint(c, "entity_id")
		if err != nil {
			return err
		}
		userID, err := httpx.QueryUint(c, "user_id")
		if err != nil {
			return err
		}
		limit, err := httpx.QueryInt(c, "limit", 200)
		if err != nil {
			return err
		}
		if limit <= 0 || limit > 1000 {
			limit = 200
		}

		q := db.WithContext(c.UserContext()).
			Model(&models.AuditLog{}).
			Scopes(scope.Apply("desa_id", "kelompok_id"))

		if et := c.Query("entity_type"); et != "" {
			q = q.Where("entity_type = ?", et)
		}
		if entityID != nil {
			q = q.Where("entity_id = ?", *entityID)
		}
		if userID != nil {
			q = q.Where("user_id = ?", *userID)
		}

		var logs []models.AuditLog
		if err := q.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memuat log")
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, AuditLogResponse{
				ID:          l.ID,
				CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
				DesaID:      l.DesaID,
				KelompokID:  l.KelompokID,
				UserID:      l.UserID,
				UserName:    l.UserName,
				EntityType:  l.EntityType,
				EntityID:    l.EntityID,
				Action:      l.Action,
				Description: l.Description,
			})
		}

		return c.JSON(resp)
	}
}
