package controllers

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/response"
)

type HealthController struct {
	db      *gorm.DB
	started time.Time
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db, started: time.Now()}
}

// Check reports liveness plus a database ping.
func (c *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	status := "OK"
	message := "Service is healthy"

	sqlDB, err := c.db.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		status = "DEGRADED"
		message = "Database is unreachable"
	}

	code := http.StatusOK
	if status != "OK" {
		code = http.StatusServiceUnavailable
	}
	response.JSON(w, code, map[string]any{
		"status":  status,
		"message": message,
		"uptime":  time.Since(c.started).Round(time.Second).String(),
	})
}
