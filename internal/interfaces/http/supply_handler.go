package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
)

// SupplyHandler consultas del catálogo de insumos y su stock (protegido).
type SupplyHandler struct {
	uc *kardex.SupplyUseCase
}

// NewSupplyHandler construye el handler.
func NewSupplyHandler(uc *kardex.SupplyUseCase) *SupplyHandler {
	return &SupplyHandler{uc: uc}
}

// ListStock godoc
// @Summary      Resumen de stock por insumo
// @Description  Aplicaciones disponibles, porcentaje sobre el mínimo, prioridad y kardex abierto.
// @Tags         supplies
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "máximo de filas (default 100)"
// @Success      200  {array}   dto.SupplyStockResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/supplies [get]
func (h *SupplyHandler) ListStock(c *fiber.Ctx) error {
	list, err := h.uc.ListStock(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.SupplyStockResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSupplyStockResponse(s))
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar insumos por código o nombre
// @Tags         supplies
// @Security     Bearer
// @Produce      json
// @Param        q  query  string  true  "término de búsqueda"
// @Success      200  {array}   dto.SupplyResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/supplies/search [get]
func (h *SupplyHandler) Search(c *fiber.Ctx) error {
	list, err := h.uc.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.SupplyResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSupplyResponse(s))
	}
	return c.JSON(out)
}

// Lots godoc
// @Summary      Lotes de un insumo con su estado
// @Tags         supplies
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del insumo"
// @Success      200  {array}   dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supplies/{id}/lots [get]
func (h *SupplyHandler) Lots(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.uc.Lots(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toLotResponses(list))
}
