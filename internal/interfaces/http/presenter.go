package http

import (
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func toSupplyResponse(s *entity.Supply) dto.SupplyResponse {
	return dto.SupplyResponse{
		ID:                  s.ID,
		Code:                s.Code,
		GenericName:         s.GenericName,
		Presentation:        s.Presentation,
		UnitMeasure:         s.UnitMeasure,
		MinimumApplications: s.MinimumApplications,
		Yield:               s.Yield,
		UnitCost:            s.UnitCost,
	}
}

func toSupplyStockResponse(s *entity.SupplyStock) dto.SupplyStockResponse {
	return dto.SupplyStockResponse{
		SupplyResponse:        toSupplyResponse(&s.Supply),
		AvailableApplications: s.AvailableApplications,
		StockPercent:          s.StockPercent,
		Priority:              s.Priority,
		KardexID:              s.KardexID,
		KardexNumber:          s.KardexNumber,
		KardexBalance:         s.KardexBalance,
		KardexValue:           s.KardexValue,
	}
}

func toLotResponse(l kardex.LotStatus) dto.LotResponse {
	return dto.LotResponse{
		ID:               l.ID,
		SupplyID:         l.SupplyID,
		LotNumber:        l.LotNumber,
		ExpirationDate:   l.ExpirationDate.Format(dateLayout),
		PhysicalQuantity: l.PhysicalQuantity,
		TotalCost:        l.TotalCost,
		RemainingUnits:   l.RemainingUnits,
		ExpiryNotified:   l.ExpiryNotified,
		State:            l.State,
		DaysToExpiry:     l.DaysToExpiry,
	}
}

func toLotResponses(list []kardex.LotStatus) []dto.LotResponse {
	out := make([]dto.LotResponse, 0, len(list))
	for _, l := range list {
		out = append(out, toLotResponse(l))
	}
	return out
}

func toKardexResponse(k *entity.Kardex) dto.KardexResponse {
	return dto.KardexResponse{
		ID:       k.ID,
		SupplyID: k.SupplyID,
		Number:   k.Number,
		Gestion:  k.Gestion,
		Location: k.Location,
		OpenedAt: k.OpenedAt,
		ClosedAt: k.ClosedAt,
		Open:     k.Open,
	}
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		KardexID:      m.KardexID,
		LotID:         m.LotID,
		TransactionID: m.TransactionID,
		Date:          m.Date,
		Kind:          string(m.Kind),
		Quantity:      m.Quantity,
		Entradas:      m.Entradas(),
		Salidas:       m.Salidas(),
		Ajustes:       m.Ajustes(),
		Balance:       m.Balance,
		UnitCost:      m.UnitCost,
		BalanceValue:  m.BalanceValue,
		DocumentKey:   m.DocumentKey,
		ReceivedFrom:  m.ReceivedFrom,
		ReceivedBy:    m.ReceivedBy,
		Reason:        m.Reason,
	}
}

func toLedgerResponse(v *kardex.LedgerView) dto.LedgerResponse {
	movements := make([]dto.MovementResponse, 0, len(v.Movements))
	for _, m := range v.Movements {
		movements = append(movements, toMovementResponse(m))
	}
	return dto.LedgerResponse{
		Supply:    toSupplyResponse(v.Supply),
		Kardex:    toKardexResponse(v.Kardex),
		Movements: movements,
	}
}

func toKardexSummaryResponses(list []*entity.KardexSummary) []dto.KardexSummaryResponse {
	out := make([]dto.KardexSummaryResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.KardexSummaryResponse{
			KardexResponse: toKardexResponse(&s.Kardex),
			TotalMovements: s.TotalMovements,
			FinalBalance:   s.FinalBalance,
			FinalValue:     s.FinalValue,
		})
	}
	return out
}

func toMovementCreatedResponses(list []kardex.MovementCreated) []dto.MovementCreatedResponse {
	out := make([]dto.MovementCreatedResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementCreatedResponse{
			MovementID:   m.MovementID,
			KardexID:     m.KardexID,
			SupplyID:     m.SupplyID,
			LotID:        m.LotID,
			LotNumber:    m.LotNumber,
			Kind:         string(m.Kind),
			Quantity:     m.Quantity,
			Balance:      m.Balance,
			UnitCost:     m.UnitCost,
			BalanceValue: m.BalanceValue,
		})
	}
	return out
}

func toConsumeResponse(r *kardex.ConsumeResult) dto.ConsumeResponse {
	exhausted := make([]dto.ExhaustedLotResponse, 0, len(r.ExhaustedLots))
	for _, l := range r.ExhaustedLots {
		exhausted = append(exhausted, dto.ExhaustedLotResponse{
			LotID:      l.LotID,
			LotNumber:  l.LotNumber,
			SupplyID:   l.SupplyID,
			SupplyCode: l.SupplyCode,
			SupplyName: l.SupplyName,
		})
	}
	return dto.ConsumeResponse{
		TransactionID:      r.TransactionID,
		Movements:          toMovementCreatedResponses(r.Movements),
		ExhaustedLots:      exhausted,
		RequiresAdjustment: r.RequiresAdjustment,
	}
}

func toConsumptionRecordResponses(list []*entity.ConsumptionRecord) []dto.ConsumptionRecordResponse {
	out := make([]dto.ConsumptionRecordResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.ConsumptionRecordResponse{
			MovementID:   r.MovementID,
			Date:         r.Date,
			Quantity:     r.Quantity,
			DocumentKey:  r.DocumentKey,
			BalanceValue: r.BalanceValue,
			SupplyCode:   r.SupplyCode,
			SupplyName:   r.SupplyName,
			LotNumber:    r.LotNumber,
		})
	}
	return out
}

func toReceiveResponse(r *kardex.ReceiveResult) dto.ReceiveResponse {
	lots := make([]dto.ReceivedLotResponse, 0, len(r.Lots))
	for _, l := range r.Lots {
		lots = append(lots, dto.ReceivedLotResponse{
			LotID:        l.LotID,
			SupplyID:     l.SupplyID,
			LotNumber:    l.LotNumber,
			Applications: l.Applications,
			UnitCost:     l.UnitCost,
		})
	}
	opened := r.OpenedKardex
	if opened == nil {
		opened = []string{}
	}
	return dto.ReceiveResponse{
		TransactionID: r.TransactionID,
		Lots:          lots,
		Movements:     toMovementCreatedResponses(r.Movements),
		OpenedKardex:  opened,
	}
}

func toAdjustResponse(r *kardex.AdjustResult) dto.AdjustResponse {
	return dto.AdjustResponse{
		LotID:             r.LotID,
		Applied:           r.Applied,
		LotRemaining:      r.LotRemaining,
		NewTotalForSupply: r.NewTotalForSupply,
		MovementID:        r.MovementID,
	}
}
