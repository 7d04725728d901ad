package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/davicafu/clientelab/internal/cliente/application"
	"github.com/davicafu/clientelab/internal/cliente/domain"
	"github.com/davicafu/clientelab/pkg/utils"
)

// ClienteHandler encapsula los endpoints HTTP de Cliente.
type ClienteHandler struct {
	service   *application.ClienteService
	responder *utils.ErrorResponder
	log       *zap.Logger
}

func NewClienteHandler(service *application.ClienteService, responder *utils.ErrorResponder, log *zap.Logger) *ClienteHandler {
	return &ClienteHandler{service: service, responder: responder, log: log}
}

// parseID: un id que no es entero positivo no puede nombrar ningún cliente.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// bindInput lee el body; cualquier JSON que no encaje en ClienteInput es dato inválido.
func (h *ClienteHandler) bindInput(c *gin.Context) (domain.ClienteInput, bool) {
	var in domain.ClienteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.log.Debug("Invalid cliente body", zap.Error(err))
		h.responder.HandleError(c, domain.ErrClienteInvalidData, http.StatusBadRequest)
		return in, false
	}
	return in, true
}

// ---------------- Handlers ----------------

// GetClientes endpoint GET /
func (h *ClienteHandler) GetClientes(c *gin.Context) {
	clientes, err := h.service.GetAllClientes(c.Request.Context())
	if err != nil {
		h.responder.HandleError(c, domain.ErrClientesFetch.With(err), http.StatusInternalServerError)
		return
	}
	if clientes == nil {
		clientes = []*domain.Cliente{}
	}

	c.JSON(http.StatusOK, clientes)
}

// GetClienteByID endpoint GET /:id
func (h *ClienteHandler) GetClienteByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.responder.HandleError(c, domain.ErrClienteNotFound, http.StatusNotFound)
		return
	}

	cliente, err := h.service.GetClienteByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrClienteNotFound) {
			h.responder.HandleError(c, domain.ErrClienteNotFound, http.StatusNotFound)
			return
		}
		h.responder.HandleError(c, domain.ErrClienteFetch.With(err), http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, cliente)
}

// GetClienteByDni endpoint GET /dni/:dni
func (h *ClienteHandler) GetClienteByDni(c *gin.Context) {
	dni := c.Param("dni")
	if v := domain.ValidateDni(dni); v != nil {
		h.responder.HandleError(c, v, http.StatusBadRequest)
		return
	}

	cliente, err := h.service.GetClienteByDni(c.Request.Context(), dni)
	if err != nil {
		if errors.Is(err, domain.ErrClienteNotFound) {
			h.responder.HandleError(c, domain.ErrClienteNotFound, http.StatusNotFound)
			return
		}
		h.responder.HandleError(c, domain.ErrClienteFetch.With(err), http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, cliente)
}

// CreateCliente endpoint POST /
func (h *ClienteHandler) CreateCliente(c *gin.Context) {
	in, ok := h.bindInput(c)
	if !ok {
		return
	}
	if violations := domain.ValidateCliente(in); violations != nil {
		h.responder.HandleError(c, violations, http.StatusBadRequest)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.service.GetClienteByDni(ctx, in.Dni); err == nil {
		h.responder.HandleError(c, domain.ErrClienteAlreadyExists, http.StatusConflict)
		return
	} else if !errors.Is(err, domain.ErrClienteNotFound) {
		h.responder.HandleError(c, domain.ErrClienteCreate.With(err), http.StatusInternalServerError)
		return
	}

	cliente, err := in.ToCliente()
	if err != nil {
		h.responder.HandleError(c, domain.ErrClienteInvalidFecha, http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateCliente(ctx, cliente)
	if err != nil {
		// Otro alta con el mismo DNI ganó la carrera entre la comprobación y el insert.
		if errors.Is(err, domain.ErrClienteAlreadyExists) {
			h.responder.HandleError(c, domain.ErrClienteAlreadyExists, http.StatusConflict)
			return
		}
		h.responder.HandleError(c, domain.ErrClienteCreate.With(err), http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateCliente endpoint PUT /:id
func (h *ClienteHandler) UpdateCliente(c *gin.Context) {
	id, idOK := parseID(c)

	in, ok := h.bindInput(c)
	if !ok {
		return
	}
	if violations := domain.ValidateCliente(in); violations != nil {
		h.responder.HandleError(c, violations, http.StatusBadRequest)
		return
	}
	if !idOK {
		h.responder.HandleError(c, domain.ErrClienteNotFound, http.StatusNotFound)
		return
	}

	ctx := c.Request.Context()
	existing, err := h.service.GetClienteForWrite(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrClienteNotFound) {
			h.responder.HandleError(c, domain.ErrClienteNotFound, http.StatusNotFound)
			return
		}
		h.responder.HandleError(c, domain.ErrClienteUpdate.With(err), http.StatusInternalServerError)
		return
	}

	if in.Dni != existing.Dni {
		other, err := h.service.GetClienteByDni(ctx, in.Dni)
		switch {
		case err == nil && other.ID != id:
			h.responder.HandleError(c, domain.ErrClienteAlreadyExists, http.StatusConflict)
			return
		case err != nil && !errors.Is(err, domain.ErrClienteNotFound):
			h.responder.HandleError(c, domain.ErrClienteUpdate.With(err), http.StatusInternalServerError)
			return
		}
	}

	cliente, err := in.ToCliente()
	if err != nil {
		h.responder.HandleError(c, domain.ErrClienteInvalidFecha, http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateCliente(ctx, id, cliente)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrClienteNotFound):
			h.responder.HandleError(c, domain.ErrClienteNotFound, http.StatusNotFound)
		case errors.Is(err, domain.ErrClienteAlreadyExists):
			h.responder.HandleError(c, domain.ErrClienteAlreadyExists, http.StatusConflict)
		default:
			h.responder.HandleError(c, domain.ErrClienteUpdate.With(err), http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteCliente endpoint DELETE /:id
func (h *ClienteHandler) DeleteCliente(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.responder.HandleError(c, domain.ErrClienteNotFound, http.StatusNotFound)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.service.GetClienteForWrite(ctx, id); err != nil {
		if errors.Is(err, domain.ErrClienteNotFound) {
			h.responder.HandleError(c, domain.ErrClienteNotFound, http.StatusNotFound)
			return
		}
		h.responder.HandleError(c, domain.ErrClienteDelete.With(err), http.StatusInternalServerError)
		return
	}

	if err := h.service.DeleteCliente(ctx, id); err != nil {
		if errors.Is(err, domain.ErrClienteNotFound) {
			h.responder.HandleError(c, domain.ErrClienteNotFound, http.StatusNotFound)
			return
		}
		h.responder.HandleError(c, domain.ErrClienteDelete.With(err), http.StatusInternalServerError)
		return
	}

	utils.SendMessage(c, http.StatusOK, domain.MsgClienteEliminado)
}
