package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
)

// LotHandler ajustes de lotes y alertas de vencimiento (protegido).
type LotHandler struct {
	adjust *kardex.AdjustUseCase
	expiry *kardex.ExpiryUseCase
}

// NewLotHandler construye el handler.
func NewLotHandler(adjust *kardex.AdjustUseCase, expiry *kardex.ExpiryUseCase) *LotHandler {
	return &LotHandler{adjust: adjust, expiry: expiry}
}

// Adjust godoc
// @Summary      Ajustar aplicaciones de un lote
// @Description  Suma delta (con signo) al lote; el resultado nunca baja de cero. Solo admin o almacen.
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                true  "ID del lote"
// @Param        body  body  dto.AdjustRequest  true  "delta, reason"
// @Success      200  {object}  dto.AdjustResponse
// @Failure      400  {object}  dto.ErrorResponse  "INVALID_AMOUNT"
// @Failure      404  {object}  dto.ErrorResponse  "LOT_NOT_FOUND"
// @Failure      409  {object}  dto.ErrorResponse  "NO_OPEN_LEDGER"
// @Router       /api/lots/{id}/adjust [post]
func (h *LotHandler) Adjust(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.AdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return bodyError(c, err, "delta")
	}
	res, err := h.adjust.AdjustBy(c.UserContext(), kardex.AdjustInput{
		LotID:      id,
		Delta:      in.Delta,
		Reason:     in.Reason,
		OperatorID: GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAdjustResponse(res))
}

// ConfirmExhausted godoc
// @Summary      Confirmar lote agotado
// @Description  Lleva el lote a cero y registra el faltante como ajuste. Solo admin o almacen.
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                          true   "ID del lote"
// @Param        body  body  dto.ConfirmExhaustedRequest  false  "reason"
// @Success      200  {object}  dto.AdjustResponse
// @Failure      404  {object}  dto.ErrorResponse  "LOT_NOT_FOUND"
// @Router       /api/lots/{id}/confirm-exhausted [post]
func (h *LotHandler) ConfirmExhausted(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.ConfirmExhaustedRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	res, err := h.adjust.ConfirmExhausted(c.UserContext(), kardex.ConfirmExhaustedInput{
		LotID:      id,
		Reason:     in.Reason,
		OperatorID: GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAdjustResponse(res))
}

// LegacyAdjust godoc
// @Summary      Ajuste desde el formulario de verificación física
// @Description  aplicaciones_sobrantes distinto de cero se suma al lote; cero confirma el lote agotado.
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LegacyAdjustRequest  true  "id_lote, aplicaciones_sobrantes, motivo"
// @Success      200  {object}  dto.AdjustResponse
// @Failure      404  {object}  dto.ErrorResponse  "LOT_NOT_FOUND"
// @Router       /api/adjustments [post]
func (h *LotHandler) LegacyAdjust(c *fiber.Ctx) error {
	var in dto.LegacyAdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return bodyError(c, err, "aplicaciones_sobrantes")
	}
	if in.LotID <= 0 {
		return badRequest(c, "VALIDATION", "id_lote es requerido")
	}
	res, err := h.adjust.Adjust(c.UserContext(), kardex.AdjustInput{
		LotID:      in.LotID,
		Delta:      in.Remaining,
		Reason:     in.Reason,
		OperatorID: GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAdjustResponse(res))
}

// Expired godoc
// @Summary      Lotes vencidos con stock sin notificar
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        supply_id  query  int  false  "filtrar por insumo"
// @Success      200  {array}  dto.LotResponse
// @Router       /api/lots/expired [get]
func (h *LotHandler) Expired(c *fiber.Ctx) error {
	list, err := h.expiry.ListExpired(c.UserContext(), int64(c.QueryInt("supply_id", 0)))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toLotResponses(list))
}

// NotifyExpired godoc
// @Summary      Marcar lotes vencidos como notificados
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.NotifyExpiredRequest  true  "lot_ids"
// @Success      200  {object}  dto.NotifyExpiredResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/lots/expired/notify [post]
func (h *LotHandler) NotifyExpired(c *fiber.Ctx) error {
	var in dto.NotifyExpiredRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	n, err := h.expiry.MarkNotified(c.UserContext(), in.LotIDs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NotifyExpiredResponse{Updated: n})
}

// Expiring godoc
// @Summary      Lotes con stock que vencen dentro de N días
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "ventana en días (default configurado)"
// @Success      200  {array}   dto.LotResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/lots/expiring [get]
func (h *LotHandler) Expiring(c *fiber.Ctx) error {
	list, err := h.expiry.ListExpiring(c.UserContext(), c.QueryInt("days", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toLotResponses(list))
}
