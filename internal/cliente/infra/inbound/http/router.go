package http

import "github.com/gin-gonic/gin"

// RegisterClienteRoutes monta las seis rutas de Cliente bajo prefix (ej. "/api/clientes").
// Listado y alta responden con y sin barra final.
func RegisterClienteRoutes(r gin.IRouter, prefix string, handler *ClienteHandler) {
	clientes := r.Group(prefix)
	{
		clientes.GET("", handler.GetClientes)
		clientes.GET("/", handler.GetClientes)
		clientes.GET("/dni/:dni", handler.GetClienteByDni)
		clientes.GET("/:id", handler.GetClienteByID)
		clientes.POST("", handler.CreateCliente)
		clientes.POST("/", handler.CreateCliente)
		clientes.PUT("/:id", handler.UpdateCliente)
		clientes.DELETE("/:id", handler.DeleteCliente)
	}
}
