package health

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	healthsvc "egdc-backend/internal/application/health"
	"egdc-backend/internal/middleware"
	"egdc-backend/internal/pkg/response"
)

// Handlers holds dependencies for the ops endpoints.
type Handlers struct {
	Rdb            *redis.Client
	DB             healthsvc.DBPinger
	HealthAdminKey string
}

// JSON GET /health/json — status, runtime, traffic and dependency health.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := healthsvc.Collect(context.Background(), h.Rdb, h.DB)
	return c.JSON(map[string]interface{}{
		"service":      "egdc-repository-api",
		"status":       result.Status,
		"runtime":      result.Runtime,
		"traffic":      result.Traffic,
		"dependencies": result.Dependencies,
	})
}

// Errors GET /health/errors — the last 50 captured 5xx entries.
func (h *Handlers) Errors(c *fiber.Ctx) error {
	return c.JSON(healthsvc.RecentErrors(context.Background(), h.Rdb, 50))
}

// Reset GET /reset?key= — clears the traffic counters. Requires the admin
// key; no Redis means nothing to clear.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	key := c.Query("key")
	if h.HealthAdminKey == "" || key != h.HealthAdminKey {
		return response.Forbidden(c, "Unauthorized")
	}
	if h.Rdb == nil {
		return c.JSON(fiber.Map{"message": "Stats reset successfully"})
	}
	ctx := context.Background()
	keys := []string{
		middleware.KeyReqTotal, middleware.KeyReqErrors, middleware.KeyResTime,
		middleware.KeyResCount, middleware.KeyStartTime, middleware.KeyLastReq,
		middleware.KeyErrorLog,
	}
	if err := h.Rdb.Del(ctx, keys...).Err(); err != nil {
		return fiber.ErrInternalServerError
	}
	if err := h.Rdb.Set(ctx, middleware.KeyStartTime, strconv.FormatInt(time.Now().UnixMilli(), 10), 0).Err(); err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(fiber.Map{"message": "Stats reset successfully"})
}
