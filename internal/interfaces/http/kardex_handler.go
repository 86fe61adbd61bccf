package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
)

// KardexHandler vistas y acciones sobre los kardex (protegido).
type KardexHandler struct {
	uc  *kardex.LedgerUseCase
	loc *time.Location
}

// NewKardexHandler construye el handler. loc es la zona de la clínica para los filtros por fecha.
func NewKardexHandler(uc *kardex.LedgerUseCase, loc *time.Location) *KardexHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &KardexHandler{uc: uc, loc: loc}
}

// Current godoc
// @Summary      Kardex abierto de un insumo con sus movimientos
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del insumo"
// @Success      200  {object}  dto.LedgerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "NO_OPEN_LEDGER"
// @Router       /api/supplies/{id}/kardex [get]
func (h *KardexHandler) Current(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	view, err := h.uc.Current(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toLedgerResponse(view))
}

// History godoc
// @Summary      Kardex cerrados de un insumo
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del insumo"
// @Success      200  {array}   dto.KardexSummaryResponse
// @Router       /api/supplies/{id}/kardex/history [get]
func (h *KardexHandler) History(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.uc.History(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toKardexSummaryResponses(list))
}

// Years godoc
// @Summary      Gestiones con kardex de un insumo
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del insumo"
// @Success      200  {array}  int
// @Router       /api/supplies/{id}/kardex/years [get]
func (h *KardexHandler) Years(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	years, err := h.uc.Years(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if years == nil {
		years = []int{}
	}
	return c.JSON(years)
}

// Open godoc
// @Summary      Abrir kardex
// @Description  Abre el kardex de un insumo para una gestión. Solo admin o almacen.
// @Tags         kardex
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenKardexRequest  true  "supply_id, gestion, ubicacion"
// @Success      201  {object}  dto.KardexResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "LEDGER_ALREADY_OPEN"
// @Router       /api/kardex [post]
func (h *KardexHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenKardexRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.SupplyID <= 0 {
		return badRequest(c, "VALIDATION", "supply_id es requerido")
	}
	k, err := h.uc.Open(c.UserContext(), kardex.OpenLedgerInput{
		SupplyID: in.SupplyID,
		Gestion:  in.Gestion,
		Location: in.Location,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toKardexResponse(k))
}

// Close godoc
// @Summary      Cerrar kardex
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del kardex"
// @Success      200  {object}  dto.KardexResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kardex/{id}/close [post]
func (h *KardexHandler) Close(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	k, err := h.uc.Close(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toKardexResponse(k))
}

// Movements godoc
// @Summary      Movimientos de un kardex
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        id    path   int     true   "ID del kardex"
// @Param        from  query  string  false  "desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "hasta (YYYY-MM-DD, inclusive)"
// @Success      200  {object}  dto.LedgerResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kardex/{id}/movements [get]
func (h *KardexHandler) Movements(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	from, to, err := dateRange(c, h.loc)
	if err != nil {
		return writeError(c, err)
	}
	view, err := h.uc.Movements(c.UserContext(), id, from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toLedgerResponse(view))
}

// PDF godoc
// @Summary      Exportar kardex a PDF
// @Tags         kardex
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  int  true  "ID del kardex"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kardex/{id}/pdf [get]
func (h *KardexHandler) PDF(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	data, filename, err := h.uc.ExportPDF(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
