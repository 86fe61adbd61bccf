package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
)

// ReceiptHandler recepción de lotes (protegido).
type ReceiptHandler struct {
	uc *kardex.ReceiveUseCase
}

// NewReceiptHandler construye el handler.
func NewReceiptHandler(uc *kardex.ReceiveUseCase) *ReceiptHandler {
	return &ReceiptHandler{uc: uc}
}

// Receive godoc
// @Summary      Registrar recepción de lotes
// @Description  Crea los lotes, abre el kardex de la gestión si no existe y registra las ENTRADAS.
// @Tags         receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveRequest  true  "document_ref, recibido_de, ubicacion, items"
// @Success      201  {object}  dto.ReceiveResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse  "SUPPLY_NOT_FOUND"
// @Failure      409  {object}  dto.ErrorResponse  "DUPLICATE"
// @Router       /api/receipts [post]
func (h *ReceiptHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveRequest
	if err := c.BodyParser(&in); err != nil {
		return bodyError(c, err, "cantidad")
	}
	items := make([]kardex.ReceiveItem, 0, len(in.Items))
	for _, it := range in.Items {
		exp, err := time.Parse(dateLayout, it.ExpirationDate)
		if err != nil {
			return badRequest(c, "VALIDATION", "fecha_vencimiento inválida en lote "+it.LotNumber+": se espera YYYY-MM-DD")
		}
		items = append(items, kardex.ReceiveItem{
			SupplyID:         it.SupplyID,
			LotNumber:        it.LotNumber,
			ExpirationDate:   exp,
			PhysicalQuantity: it.PhysicalQuantity,
			TotalCost:        it.TotalCost,
		})
	}
	res, err := h.uc.Receive(c.UserContext(), kardex.ReceiveInput{
		OperatorID:   GetUserID(c),
		DocumentRef:  in.DocumentRef,
		ReceivedFrom: in.ReceivedFrom,
		Location:     in.Location,
		Items:        items,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toReceiveResponse(res))
}
