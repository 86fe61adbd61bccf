package postgres

import "github.com/jhoicas/kardex-api/internal/application/kardex"

// NewRepos arma los repositorios del kardex sobre q (pool o tx).
func NewRepos(q Querier) kardex.Repos {
	return kardex.Repos{
		Supplies:  NewSupplyRepository(q),
		Lots:      NewLotRepository(q),
		Kardex:    NewKardexRepository(q),
		Movements: NewMovementRepository(q),
		Users:     NewUserRepository(q),
	}
}
