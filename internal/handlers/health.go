package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status      string `json:"status"`
	Backend     string `json:"backend"`
	Cache       string `json:"cache"`
	Environment string `json:"environment"`
}

func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	cacheStatus := "ok"
	if err := h.cache.Ping(ctx).Err(); err != nil {
		cacheStatus = "error"
		h.log.Error().Err(err).Msg("redis ping failed")
	}

	backendStatus := "ok"
	if _, err := h.backend.Doctors.List(ctx); err != nil {
		backendStatus = "error"
		h.log.Error().Err(err).Msg("backend check failed")
	}

	c.JSON(http.StatusOK, healthResponse{
		Status:      "ok",
		Backend:     backendStatus,
		Cache:       cacheStatus,
		Environment: h.cfg.Environment,
	})
}
