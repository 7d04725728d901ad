package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	sharedDB "github.com/davicafu/clientelab/internal/shared/infra/platform/db"
	"github.com/davicafu/clientelab/pkg/utils"
)

// HealthHandler comprueba la base de datos. Con db nil (driver en memoria) siempre responde ok.
type HealthHandler struct {
	db        *sql.DB
	responder *utils.ErrorResponder
}

func NewHealthHandler(db *sql.DB, responder *utils.ErrorResponder) *HealthHandler {
	return &HealthHandler{db: db, responder: responder}
}

func (h *HealthHandler) Health(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := sharedDB.Check(ctx, h.db); err != nil {
			h.responder.HandleError(c, err, http.StatusServiceUnavailable)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func RegisterHealthRoutes(r gin.IRouter, handler *HealthHandler) {
	r.GET("/health", handler.Health)
}
