package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/domain"
)

// paramID lee un identificador numérico positivo de la ruta.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidInput
	}
	return id, nil
}

// dateRange lee ?from=&to= (YYYY-MM-DD) en la zona de la clínica.
// to cubre el día completo.
func dateRange(c *fiber.Ctx, loc *time.Location) (from, to *time.Time, err error) {
	if s := c.Query("from"); s != "" {
		d, perr := time.ParseInLocation(dateLayout, s, loc)
		if perr != nil {
			return nil, nil, domain.ErrInvalidInput
		}
		from = &d
	}
	if s := c.Query("to"); s != "" {
		d, perr := time.ParseInLocation(dateLayout, s, loc)
		if perr != nil {
			return nil, nil, domain.ErrInvalidInput
		}
		end := d.AddDate(0, 0, 1).Add(-time.Nanosecond)
		to = &end
	}
	return from, to, nil
}
