package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/auth"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	SupplyUC  *kardex.SupplyUseCase
	LedgerUC  *kardex.LedgerUseCase
	ConsumeUC *kardex.ConsumeUseCase
	ReceiveUC *kardex.ReceiveUseCase
	AdjustUC  *kardex.AdjustUseCase
	ExpiryUC  *kardex.ExpiryUseCase
	JWTSecret string
	Location  *time.Location // zona de la clínica para filtros por fecha
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	stockKeepers := RequireRole(entity.RoleAdmin, entity.RoleAlmacen)

	// Insumos y stock
	supplyHandler := NewSupplyHandler(deps.SupplyUC)
	kardexHandler := NewKardexHandler(deps.LedgerUC, deps.Location)
	supplies := protected.Group("/supplies")
	supplies.Get("/", supplyHandler.ListStock)
	supplies.Get("/search", supplyHandler.Search)
	supplies.Get("/:id/lots", supplyHandler.Lots)
	supplies.Get("/:id/kardex", kardexHandler.Current)
	supplies.Get("/:id/kardex/history", kardexHandler.History)
	supplies.Get("/:id/kardex/years", kardexHandler.Years)

	// Kardex
	kardexGroup := protected.Group("/kardex")
	kardexGroup.Post("/", stockKeepers, kardexHandler.Open)
	kardexGroup.Post("/:id/close", stockKeepers, kardexHandler.Close)
	kardexGroup.Get("/:id/movements", kardexHandler.Movements)
	kardexGroup.Get("/:id/pdf", kardexHandler.PDF)

	// Consumos
	consumptionHandler := NewConsumptionHandler(deps.ConsumeUC, deps.Location)
	consumptions := protected.Group("/consumptions")
	consumptions.Post("/", consumptionHandler.Consume)
	consumptions.Get("/history", consumptionHandler.History)

	// Recepciones
	receiptHandler := NewReceiptHandler(deps.ReceiveUC)
	protected.Post("/receipts", stockKeepers, receiptHandler.Receive)

	// Lotes: ajustes y vencimientos
	lotHandler := NewLotHandler(deps.AdjustUC, deps.ExpiryUC)
	lots := protected.Group("/lots")
	lots.Get("/expired", lotHandler.Expired)
	lots.Post("/expired/notify", stockKeepers, lotHandler.NotifyExpired)
	lots.Get("/expiring", lotHandler.Expiring)
	lots.Post("/:id/adjust", stockKeepers, lotHandler.Adjust)
	lots.Post("/:id/confirm-exhausted", stockKeepers, lotHandler.ConfirmExhausted)
	protected.Post("/adjustments", stockKeepers, lotHandler.LegacyAdjust)
}
