package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/clientelab/pkg/utils"
)

// Recovery convierte un panic en un 500 con el cuerpo genérico de error.
func Recovery(responder *utils.ErrorResponder) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		responder.HandleError(c, fmt.Errorf("panic: %v", recovered), http.StatusInternalServerError)
		c.Abort()
	})
}
