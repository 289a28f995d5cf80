package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// IntentKind tipo de intención de negocio que recibe la calculadora.
type IntentKind int

const (
	IntentAdjustTo IntentKind = iota + 1 // ajustar a una cantidad objetivo
	IntentReceive                        // entrada: cosecha, compra, producción terminada
	IntentConsume                        // salida: consumo de producción, despacho de venta
	IntentExplicit                       // dirección y cantidad dadas por el llamador
)

// Intent intención de negocio. Amount es el objetivo (AdjustTo) o la magnitud (resto).
type Intent struct {
	Kind      IntentKind
	Amount    decimal.Decimal
	Direction entity.Direction // solo IntentExplicit
}

// AdjustTo construye una intención de ajuste a objetivo.
func AdjustTo(target decimal.Decimal) Intent {
	return Intent{Kind: IntentAdjustTo, Amount: target}
}

// Receive construye una intención de entrada.
func Receive(quantity decimal.Decimal) Intent {
	return Intent{Kind: IntentReceive, Amount: quantity}
}

// Consume construye una intención de salida.
func Consume(quantity decimal.Decimal) Intent {
	return Intent{Kind: IntentConsume, Amount: quantity}
}

// Explicit construye una intención con dirección explícita.
func Explicit(direction entity.Direction, quantity decimal.Decimal) Intent {
	return Intent{Kind: IntentExplicit, Amount: quantity, Direction: direction}
}

// Outcome resultado de la calculadora: dirección, magnitud movida (> 0) y saldo resultante.
type Outcome struct {
	Direction entity.Direction
	Quantity  decimal.Decimal
	Balance   decimal.Decimal
}

// Calculate convierte una intención en un movimiento a partir de la cantidad actual.
// No hace I/O. Los saldos negativos en salidas no se rechazan aquí.
func Calculate(current decimal.Decimal, in Intent) (Outcome, error) {
	field := "quantity"
	if in.Kind == IntentAdjustTo {
		field = "target_quantity"
	}
	if err := CheckScale(field, in.Amount); err != nil {
		return Outcome{}, err
	}
	current = NormalizeQuantity(current)
	amount := NormalizeQuantity(in.Amount)

	switch in.Kind {
	case IntentAdjustTo:
		if amount.IsNegative() {
			return Outcome{}, domain.Validation("la cantidad objetivo no puede ser negativa")
		}
		delta := amount.Sub(current)
		if delta.IsZero() {
			return Outcome{}, domain.NoChange(current.String())
		}
		dir := entity.DirectionIn
		if delta.IsNegative() {
			dir = entity.DirectionOut
		}
		return Outcome{Direction: dir, Quantity: delta.Abs(), Balance: amount}, nil

	case IntentReceive:
		if !amount.IsPositive() {
			return Outcome{}, domain.InvalidQuantity("la cantidad debe ser mayor que cero")
		}
		return Outcome{Direction: entity.DirectionIn, Quantity: amount, Balance: current.Add(amount)}, nil

	case IntentConsume:
		if !amount.IsPositive() {
			return Outcome{}, domain.InvalidQuantity("la cantidad debe ser mayor que cero")
		}
		return Outcome{Direction: entity.DirectionOut, Quantity: amount, Balance: current.Sub(amount)}, nil

	case IntentExplicit:
		if !in.Direction.Valid() {
			return Outcome{}, domain.Validation("dirección inválida: use IN u OUT")
		}
		if !amount.IsPositive() {
			return Outcome{}, domain.InvalidQuantity("la cantidad debe ser mayor que cero")
		}
		balance := current.Add(amount)
		if in.Direction == entity.DirectionOut {
			balance = current.Sub(amount)
		}
		return Outcome{Direction: in.Direction, Quantity: amount, Balance: balance}, nil
	}
	return Outcome{}, domain.Validation("tipo de intención desconocido")
}
