package kardex

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// Repos agrupa los repositorios que usa el motor de kardex.
// Dentro de TxRunner.Run todos están atados a la misma transacción.
type Repos struct {
	Supplies  repository.SupplyRepository
	Lots      repository.LotRepository
	Kardex    repository.KardexRepository
	Movements repository.MovementRepository
	Users     repository.UserRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; en otro caso Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

// PDFGenerator genera el reporte PDF de un kardex con sus movimientos.
type PDFGenerator interface {
	GenerateKardexPDF(supply *entity.Supply, k *entity.Kardex, movements []*entity.Movement) ([]byte, error)
}

// Clock devuelve la hora actual en la zona horaria de la clínica.
type Clock func() time.Time

// today trunca la hora del reloj al inicio del día.
func today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
