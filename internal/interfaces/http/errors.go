package http

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
)

// errorMapping código HTTP y código estable de la API para un error de dominio.
type errorMapping struct {
	target error
	status int
	code   string
}

// errorTable se recorre en orden: los errores específicos antes que los genéricos.
var errorTable = []errorMapping{
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrNoStock, fiber.StatusConflict, "NO_STOCK"},
	{domain.ErrNoOpenLedger, fiber.StatusConflict, "NO_OPEN_LEDGER"},
	{domain.ErrLedgerAlreadyOpen, fiber.StatusConflict, "LEDGER_ALREADY_OPEN"},
	{domain.ErrLedgerClosed, fiber.StatusConflict, "LEDGER_CLOSED"},
	{domain.ErrInvalidAmount, fiber.StatusBadRequest, "INVALID_AMOUNT"},
	{domain.ErrLotNotFound, fiber.StatusNotFound, "LOT_NOT_FOUND"},
	{domain.ErrSupplyNotFound, fiber.StatusNotFound, "SUPPLY_NOT_FOUND"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
}

// writeError traduce un error de la capa de aplicación a dto.ErrorResponse.
// Los errores no mapeados responden 500 INTERNAL.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: message})
}

func invalidBody(c *fiber.Ctx) error {
	return badRequest(c, "INVALID_BODY", "cuerpo inválido")
}

// bodyError responde a un error de BodyParser. Una cantidad no entera en alguno de
// amountFields es INVALID_AMOUNT; cualquier otro problema del JSON es INVALID_BODY.
func bodyError(c *fiber.Ctx, err error, amountFields ...string) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field[strings.LastIndex(typeErr.Field, ".")+1:]
		for _, f := range amountFields {
			if f == field {
				return writeError(c, domain.ErrInvalidAmount)
			}
		}
	}
	return invalidBody(c)
}
