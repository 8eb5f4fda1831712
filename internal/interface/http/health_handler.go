package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jyotir-aditya/fullstackAssignment/pkg/response"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ready(ctx context.Context) error
}

type HealthHandler struct {
	Store  Pinger
	Logger *logrus.Logger
}

func NewHealthHandler(store Pinger, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{Store: store, Logger: logger}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.Store.Ready(ctx); err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("health check failed")
		}
		response.Error(c, http.StatusServiceUnavailable, "store unavailable", nil)
		return
	}
	response.Message(c, http.StatusOK, "ok")
}
