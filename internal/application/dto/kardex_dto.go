package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplyResponse insumo del catálogo.
type SupplyResponse struct {
	ID                  int64           `json:"id"`
	Code                string          `json:"codigo"`
	GenericName         string          `json:"nombre_generico"`
	Presentation        string          `json:"presentacion"`
	UnitMeasure         string          `json:"unidad_medida"`
	MinimumApplications int64           `json:"stock_minimo"`
	Yield               int64           `json:"rendimiento"`
	UnitCost            decimal.Decimal `json:"costo_unitario"`
}

// SupplyStockResponse fila del resumen de stock.
type SupplyStockResponse struct {
	SupplyResponse
	AvailableApplications int64            `json:"aplicaciones_disponibles"`
	StockPercent          decimal.Decimal  `json:"porcentaje_stock"`
	Priority              int              `json:"prioridad"`
	KardexID              *int64           `json:"kardex_id,omitempty"`
	KardexNumber          *string          `json:"numero_kardex,omitempty"`
	KardexBalance         *int64           `json:"saldo,omitempty"`
	KardexValue           *decimal.Decimal `json:"saldo_valorado,omitempty"`
}

// LotResponse lote con su estado derivado.
type LotResponse struct {
	ID               int64           `json:"id"`
	SupplyID         int64           `json:"supply_id"`
	LotNumber        string          `json:"numero_lote"`
	ExpirationDate   string          `json:"fecha_vencimiento"`
	PhysicalQuantity int64           `json:"cantidad_fisica"`
	TotalCost        decimal.Decimal `json:"costo_total"`
	RemainingUnits   int64           `json:"aplicaciones_restantes"`
	ExpiryNotified   bool            `json:"notificado"`
	State            string          `json:"estado"`
	DaysToExpiry     int             `json:"dias_para_vencer"`
}

// KardexResponse cabecera de un kardex.
type KardexResponse struct {
	ID       int64      `json:"id"`
	SupplyID int64      `json:"supply_id"`
	Number   string     `json:"numero"`
	Gestion  int        `json:"gestion"`
	Location string     `json:"ubicacion"`
	OpenedAt time.Time  `json:"fecha_apertura"`
	ClosedAt *time.Time `json:"fecha_cierre,omitempty"`
	Open     bool       `json:"abierto"`
}

// KardexSummaryResponse kardex cerrado del historial.
type KardexSummaryResponse struct {
	KardexResponse
	TotalMovements int64            `json:"total_movimientos"`
	FinalBalance   *int64           `json:"saldo_final,omitempty"`
	FinalValue     *decimal.Decimal `json:"valor_final,omitempty"`
}

// MovementResponse fila del kardex con las columnas entradas/salidas/ajustes.
type MovementResponse struct {
	ID            int64           `json:"id"`
	KardexID      int64           `json:"kardex_id"`
	LotID         *int64          `json:"lot_id,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Date          time.Time       `json:"fecha"`
	Kind          string          `json:"tipo"`
	Quantity      int64           `json:"cantidad"`
	Entradas      int64           `json:"entradas"`
	Salidas       int64           `json:"salidas"`
	Ajustes       int64           `json:"ajustes"`
	Balance       int64           `json:"saldo"`
	UnitCost      decimal.Decimal `json:"costo_unitario"`
	BalanceValue  decimal.Decimal `json:"saldo_valorado"`
	DocumentKey   string          `json:"clave_doc"`
	ReceivedFrom  string          `json:"recibido_de"`
	ReceivedBy    string          `json:"recepcionado_por"`
	Reason        string          `json:"motivo,omitempty"`
}

// LedgerResponse kardex con su insumo y movimientos.
type LedgerResponse struct {
	Supply    SupplyResponse     `json:"insumo"`
	Kardex    KardexResponse     `json:"kardex"`
	Movements []MovementResponse `json:"movimientos"`
}

// OpenKardexRequest apertura de kardex. Gestion 0 toma el año en curso.
type OpenKardexRequest struct {
	SupplyID int64  `json:"supply_id" validate:"required"`
	Gestion  int    `json:"gestion"`
	Location string `json:"ubicacion"`
}

// ConsumeItemRequest insumo y cantidad de aplicaciones a consumir.
type ConsumeItemRequest struct {
	SupplyID int64 `json:"supply_id" validate:"required"`
	Quantity int64 `json:"quantity" validate:"required,min=1"`
}

// ConsumeRequest consumo de uno o varios insumos en una sola transacción.
type ConsumeRequest struct {
	DocumentRef string               `json:"document_ref"`
	Items       []ConsumeItemRequest `json:"items" validate:"required,min=1"`
}

// MovementCreatedResponse movimiento generado por un consumo o recepción.
type MovementCreatedResponse struct {
	MovementID   int64           `json:"movement_id"`
	KardexID     int64           `json:"kardex_id"`
	SupplyID     int64           `json:"supply_id"`
	LotID        int64           `json:"lot_id"`
	LotNumber    string          `json:"numero_lote"`
	Kind         string          `json:"tipo"`
	Quantity     int64           `json:"cantidad"`
	Balance      int64           `json:"saldo"`
	UnitCost     decimal.Decimal `json:"costo_unitario"`
	BalanceValue decimal.Decimal `json:"saldo_valorado"`
}

// ExhaustedLotResponse lote que quedó en cero y debe verificarse físicamente.
type ExhaustedLotResponse struct {
	LotID      int64  `json:"lot_id"`
	LotNumber  string `json:"numero_lote"`
	SupplyID   int64  `json:"supply_id"`
	SupplyCode string `json:"codigo"`
	SupplyName string `json:"nombre_generico"`
}

// ConsumeResponse resultado de un consumo.
type ConsumeResponse struct {
	TransactionID      string                    `json:"transaction_id"`
	Movements          []MovementCreatedResponse `json:"movimientos"`
	ExhaustedLots      []ExhaustedLotResponse    `json:"lotes_agotados"`
	RequiresAdjustment bool                      `json:"requiere_ajuste"`
}

// ConsumptionRecordResponse fila del historial de consumos del operador.
type ConsumptionRecordResponse struct {
	MovementID   int64           `json:"movement_id"`
	Date         time.Time       `json:"fecha"`
	Quantity     int64           `json:"cantidad"`
	DocumentKey  string          `json:"clave_doc"`
	BalanceValue decimal.Decimal `json:"saldo_valorado"`
	SupplyCode   string          `json:"codigo"`
	SupplyName   string          `json:"nombre_generico"`
	LotNumber    *string         `json:"numero_lote,omitempty"`
}

// ReceiveItemRequest lote recibido. ExpirationDate en formato YYYY-MM-DD.
type ReceiveItemRequest struct {
	SupplyID         int64           `json:"supply_id" validate:"required"`
	LotNumber        string          `json:"numero_lote" validate:"required"`
	ExpirationDate   string          `json:"fecha_vencimiento" validate:"required"`
	PhysicalQuantity int64           `json:"cantidad" validate:"required,min=1"`
	TotalCost        decimal.Decimal `json:"costo_total"`
}

// ReceiveRequest recepción de lotes (pipeline de importación).
type ReceiveRequest struct {
	DocumentRef  string               `json:"document_ref"`
	ReceivedFrom string               `json:"recibido_de"`
	Location     string               `json:"ubicacion"`
	Items        []ReceiveItemRequest `json:"items" validate:"required,min=1"`
}

// ReceivedLotResponse lote creado por una recepción.
type ReceivedLotResponse struct {
	LotID        int64           `json:"lot_id"`
	SupplyID     int64           `json:"supply_id"`
	LotNumber    string          `json:"numero_lote"`
	Applications int64           `json:"aplicaciones"`
	UnitCost     decimal.Decimal `json:"costo_unitario"`
}

// ReceiveResponse resultado de una recepción.
type ReceiveResponse struct {
	TransactionID string                    `json:"transaction_id"`
	Lots          []ReceivedLotResponse     `json:"lotes"`
	Movements     []MovementCreatedResponse `json:"movimientos"`
	OpenedKardex  []string                  `json:"kardex_abiertos"`
}

// AdjustRequest ajuste de un lote con delta con signo.
type AdjustRequest struct {
	Delta  int64  `json:"delta" validate:"required"`
	Reason string `json:"reason"`
}

// ConfirmExhaustedRequest confirmación de lote agotado.
type ConfirmExhaustedRequest struct {
	Reason string `json:"reason"`
}

// LegacyAdjustRequest formulario de ajuste: aplicaciones_sobrantes 0 confirma el lote agotado.
type LegacyAdjustRequest struct {
	LotID     int64  `json:"id_lote" validate:"required"`
	Remaining int64  `json:"aplicaciones_sobrantes"`
	Reason    string `json:"motivo"`
}

// AdjustResponse resultado de un ajuste.
type AdjustResponse struct {
	LotID             int64 `json:"lot_id"`
	Applied           int64 `json:"ajuste_aplicado"`
	LotRemaining      int64 `json:"aplicaciones_restantes"`
	NewTotalForSupply int64 `json:"nuevo_total_insumo"`
	MovementID        int64 `json:"movement_id"`
}

// NotifyExpiredRequest lotes vencidos a marcar como notificados.
type NotifyExpiredRequest struct {
	LotIDs []int64 `json:"lot_ids" validate:"required,min=1"`
}

// NotifyExpiredResponse cantidad de lotes marcados.
type NotifyExpiredResponse struct {
	Updated int64 `json:"actualizados"`
}
