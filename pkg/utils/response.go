package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/clientelab/internal/shared/domain"
)

// MsgServerError es el mensaje de cualquier fallo que no tiene condición propia.
const MsgServerError = "Se produjo un error en el servidor"

// MessageResponse es el cuerpo de error de una sola condición.
type MessageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"` // solo en desarrollo
}

// ErrorsResponse es el cuerpo de una validación fallida.
type ErrorsResponse struct {
	Errors []string `json:"errors"`
}

// ErrorResponder da forma JSON a los errores. El status siempre lo elige el llamador.
type ErrorResponder struct {
	log   *zap.Logger
	debug bool
}

// NewErrorResponder: con debug=true los fallos opacos incluyen el detalle en "error".
func NewErrorResponder(log *zap.Logger, debug bool) *ErrorResponder {
	return &ErrorResponder{log: log, debug: debug}
}

// HandleError registra err y responde según su forma:
// lista de violaciones -> {"errors": [...]}, condición -> {"message": ...}, resto -> mensaje genérico.
func (r *ErrorResponder) HandleError(c *gin.Context, err error, status int) {
	r.logError(c, err, status)

	var violations sharedDomain.Violations
	var cond *sharedDomain.Condition

	switch {
	case errors.As(err, &violations):
		c.JSON(status, ErrorsResponse{Errors: violations.Messages()})
	case errors.As(err, &cond):
		c.JSON(status, MessageResponse{Message: cond.Message})
	default:
		body := MessageResponse{Message: MsgServerError}
		if r.debug && err != nil {
			body.Error = err.Error()
		}
		c.JSON(status, body)
	}
}

func (r *ErrorResponder) logError(c *gin.Context, err error, status int) {
	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		r.log.Error("Request failed", fields...)
		return
	}
	r.log.Warn("Request rejected", fields...)
}

// SendMessage envía {"message": msg} con el status indicado.
func SendMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, MessageResponse{Message: message})
}
