package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// HealthHandler returns an echo handler that pings the database and reports
// service health along with pool statistics.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		status := "ok"
		dbStatus := "ok"
		code := http.StatusOK
		if err := pool.Ping(ctx); err != nil {
			status = "degraded"
			dbStatus = "unreachable"
			code = http.StatusServiceUnavailable
		}

		stats := pool.Stat()
		return c.JSON(code, map[string]interface{}{
			"status":   status,
			"database": dbStatus,
			"pool": map[string]interface{}{
				"total_conns":    stats.TotalConns(),
				"idle_conns":     stats.IdleConns(),
				"acquired_conns": stats.AcquiredConns(),
				"max_conns":      stats.MaxConns(),
			},
		})
	}
}
