package handler

import (
	"net/http"
	"strconv"

	"github.com/TORRES240325/panel-socios-final/internal/apierror"
	"github.com/TORRES240325/panel-socios-final/internal/dto"
	"github.com/TORRES240325/panel-socios-final/internal/service"

	"github.com/gin-gonic/gin"
)

type InventarioHandler struct {
	svc           service.InventarioService
	umbralDefecto int
}

func NewInventarioHandler(svc service.InventarioService, umbralDefecto int) *InventarioHandler {
	return &InventarioHandler{svc: svc, umbralDefecto: umbralDefecto}
}

// ListarKeys godoc
// @Summary      Listar keys de un producto
// @Description  Separadas en disponibles y usadas.
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        id  path string true "ID del producto"
// @Success      200 {object} dto.KeysProductoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/productos/{id}/keys [get]
func (h *InventarioHandler) ListarKeys(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarKeys(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AgregarKeys godoc
// @Summary      Cargar keys en bloque
// @Description  Una licencia por linea. Todo o nada: cualquier duplicado rechaza el lote completo.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "ID del producto"
// @Param        body body dto.AgregarKeysRequest  true "Licencias separadas por salto de linea"
// @Success      201  {object} dto.AgregarKeysResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/productos/{id}/keys [post]
func (h *InventarioHandler) AgregarKeys(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.AgregarKeysRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ctx := c.Request.Context()
	n, err := h.svc.AgregarKeys(ctx, id, req.Licencias)
	if err != nil {
		respondError(c, err)
		return
	}
	stock, err := h.svc.StockDisponible(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.AgregarKeysResponse{
		ProductoID:      id.String(),
		Agregadas:       n,
		StockDisponible: stock,
	})
}

// Stock godoc
// @Summary      Stock disponible de un producto
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        id  path string true "ID del producto"
// @Success      200 {object} dto.StockResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/productos/{id}/stock [get]
func (h *InventarioHandler) Stock(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	stock, err := h.svc.StockDisponible(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StockResponse{ProductoID: id.String(), StockDisponible: stock})
}

// MarcarUsada godoc
// @Summary      Consumir una key
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        id  path string true "ID de la key"
// @Success      200 {object} dto.KeyResponse
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/keys/{id}/usar [post]
func (h *InventarioHandler) MarcarUsada(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.MarcarUsada(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerAlertas godoc
// @Summary      Alertas de stock bajo
// @Description  Productos con stock disponible igual o menor al umbral. ?umbral=N reemplaza el valor configurado.
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        umbral query int false "Umbral de stock"
// @Success      200 {array}  dto.AlertaStockResponse
// @Failure      422 {object} apierror.APIError
// @Router       /v1/inventario/alertas [get]
func (h *InventarioHandler) ObtenerAlertas(c *gin.Context) {
	umbral := h.umbralDefecto
	if raw := c.Query("umbral"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusUnprocessableEntity, apierror.WithCode(string(service.KindInvalidInput), "umbral invalido"))
			return
		}
		umbral = n
	}
	alertas, err := h.svc.ObtenerAlertas(c.Request.Context(), umbral)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alertas)
}
