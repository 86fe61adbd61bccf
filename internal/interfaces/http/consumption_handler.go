package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
)

// ConsumptionHandler consumo FIFO de insumos e historial del operador (protegido).
type ConsumptionHandler struct {
	uc  *kardex.ConsumeUseCase
	loc *time.Location
}

// NewConsumptionHandler construye el handler.
func NewConsumptionHandler(uc *kardex.ConsumeUseCase, loc *time.Location) *ConsumptionHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ConsumptionHandler{uc: uc, loc: loc}
}

// Consume godoc
// @Summary      Registrar consumo de insumos
// @Description  Descuenta aplicaciones por FIFO (vencimiento más próximo primero) en una sola transacción.
// @Description  Si algún insumo no alcanza, no se registra nada.
// @Tags         consumptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConsumeRequest  true  "document_ref, items"
// @Success      201  {object}  dto.ConsumeResponse
// @Failure      400  {object}  dto.ErrorResponse  "INVALID_AMOUNT, VALIDATION"
// @Failure      404  {object}  dto.ErrorResponse  "SUPPLY_NOT_FOUND"
// @Failure      409  {object}  dto.ErrorResponse  "NO_OPEN_LEDGER, NO_STOCK, INSUFFICIENT_STOCK"
// @Router       /api/consumptions [post]
func (h *ConsumptionHandler) Consume(c *fiber.Ctx) error {
	var in dto.ConsumeRequest
	if err := c.BodyParser(&in); err != nil {
		return bodyError(c, err, "quantity")
	}
	items := make([]kardex.ConsumeItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, kardex.ConsumeItem{SupplyID: it.SupplyID, Quantity: it.Quantity})
	}
	res, err := h.uc.Consume(c.UserContext(), kardex.ConsumeInput{
		OperatorID:  GetUserID(c),
		DocumentRef: in.DocumentRef,
		Items:       items,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toConsumeResponse(res))
}

// History godoc
// @Summary      Historial de consumos del operador autenticado
// @Tags         consumptions
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "hasta (YYYY-MM-DD, inclusive)"
// @Success      200  {array}   dto.ConsumptionRecordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/consumptions/history [get]
func (h *ConsumptionHandler) History(c *fiber.Ctx) error {
	from, to, err := dateRange(c, h.loc)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.uc.History(c.UserContext(), GetUserID(c), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toConsumptionRecordResponses(list))
}
