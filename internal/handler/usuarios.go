package handler

import (
	"net/http"

	"github.com/TORRES240325/panel-socios-final/internal/dto"
	"github.com/TORRES240325/panel-socios-final/internal/service"

	"github.com/gin-gonic/gin"
)

type UsuariosHandler struct {
	usuarios service.UsuarioService
	saldos   service.SaldoService
}

func NewUsuariosHandler(usuarios service.UsuarioService, saldos service.SaldoService) *UsuariosHandler {
	return &UsuariosHandler{usuarios: usuarios, saldos: saldos}
}

func (h *UsuariosHandler) Crear(c *gin.Context) {
	var req dto.CrearUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.usuarios.CrearUsuario(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UsuariosHandler) Listar(c *gin.Context) {
	resp, err := h.usuarios.ListarUsuarios(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UsuariosHandler) ObtenerPorID(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.usuarios.ObtenerUsuario(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AjustarSaldo godoc
// @Summary      Ajustar saldo de un socio
// @Description  Suma un monto con signo al saldo. No hay piso: el saldo puede quedar negativo.
// @Tags         usuarios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                    true "ID del socio"
// @Param        body body dto.AjustarSaldoRequest   true "Monto con signo, maximo 2 decimales"
// @Success      200  {object} dto.SaldoResponse
// @Failure      404  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/usuarios/{id}/saldo [post]
func (h *UsuariosHandler) AjustarSaldo(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.AjustarSaldoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.saldos.AjustarSaldo(c.Request.Context(), id, req.Monto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
