package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// Nombres de política aceptados en configuración.
const (
	CostPolicyLastWriteWins   = "last_write_wins"
	CostPolicyWeightedAverage = "weighted_average"
)

// CostPolicy decide el costo que registra el movimiento y el costo que queda en el agregado.
// supplied es el costo unitario enviado por el llamador (nil si no se envió).
type CostPolicy interface {
	Name() string
	Apply(agg *entity.StockAggregate, out Outcome, supplied *decimal.Decimal) (movementCost, aggregateCost decimal.Decimal)
}

// LastWriteWins: una entrada con costo explícito sobrescribe el costo del agregado; sin costo
// hereda el vigente. Las salidas nunca lo modifican y guardan el costo vigente como foto.
type LastWriteWins struct{}

func (LastWriteWins) Name() string { return CostPolicyLastWriteWins }

func (LastWriteWins) Apply(agg *entity.StockAggregate, out Outcome, supplied *decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if out.Direction == entity.DirectionIn && supplied != nil {
		c := NormalizeQuantity(*supplied)
		return c, c
	}
	return agg.UnitCost, agg.UnitCost
}

// WeightedAverage costo promedio ponderado. Solo se usa si se configura explícitamente:
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
type WeightedAverage struct{}

func (WeightedAverage) Name() string { return CostPolicyWeightedAverage }

func (WeightedAverage) Apply(agg *entity.StockAggregate, out Outcome, supplied *decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if out.Direction != entity.DirectionIn || supplied == nil {
		return agg.UnitCost, agg.UnitCost
	}
	entry := NormalizeQuantity(*supplied)
	stock := agg.Quantity
	if stock.IsNegative() {
		stock = decimal.Zero
	}
	sum := stock.Add(out.Quantity)
	if sum.LessThanOrEqual(decimal.Zero) {
		return entry, entry
	}
	num := stock.Mul(agg.UnitCost).Add(out.Quantity.Mul(entry))
	return entry, num.DivRound(sum, QuantityScale)
}

// NewCostPolicy devuelve la política por nombre; vacío equivale a last_write_wins.
func NewCostPolicy(name string) (CostPolicy, error) {
	switch name {
	case "", CostPolicyLastWriteWins:
		return LastWriteWins{}, nil
	case CostPolicyWeightedAverage:
		return WeightedAverage{}, nil
	}
	return nil, domain.Validation("política de costo desconocida: " + name)
}

// ValidateSuppliedCost un costo explícito debe ser >= 0 y con a lo sumo QuantityScale decimales.
func ValidateSuppliedCost(supplied *decimal.Decimal) error {
	if supplied == nil {
		return nil
	}
	if supplied.IsNegative() {
		return domain.Validation("el costo unitario no puede ser negativo")
	}
	return CheckScale("unit_cost", *supplied)
}
