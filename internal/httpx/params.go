package httpx

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func ParseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}
	return uint(id), nil
}

// QueryUint: nil bila parameter tidak ada.
func QueryUint(c *fiber.Ctx, key string) (*uint, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, key+" tidak valid")
	}
	u := uint(v)
	return &u, nil
}

// QueryInt: def bila parameter tidak ada.
func QueryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, key+" tidak valid")
	}
	return v, nil
}
