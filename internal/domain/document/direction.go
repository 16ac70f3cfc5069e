package document

import "github.com/shopspring/decimal"

// Direction sentido semántico de un asiento del kardex. La cantidad del asiento es siempre
// una magnitud; el signo lo aporta la dirección.
type Direction string

const (
	DirectionIn          Direction = "In"
	DirectionOut         Direction = "Out"
	DirectionTransferIn  Direction = "TransferIn"
	DirectionTransferOut Direction = "TransferOut"
	DirectionAdjustIn    Direction = "AdjustIn"
	DirectionAdjustOut   Direction = "AdjustOut"
)

// InboundDirections direcciones que suman al saldo. Usado también en SQL.
var InboundDirections = []Direction{DirectionIn, DirectionTransferIn, DirectionAdjustIn}

// OutboundDirections direcciones que restan al saldo.
var OutboundDirections = []Direction{DirectionOut, DirectionTransferOut, DirectionAdjustOut}

// Inbound indica si la dirección suma al saldo.
func (d Direction) Inbound() bool {
	for _, in := range InboundDirections {
		if d == in {
			return true
		}
	}
	return false
}

// Decreases indica si la dirección resta al saldo (requiere verificar disponibilidad).
func (d Direction) Decreases() bool {
	for _, out := range OutboundDirections {
		if d == out {
			return true
		}
	}
	return false
}

// Signed devuelve la cantidad con el signo de la dirección.
func (d Direction) Signed(qty decimal.Decimal) decimal.Decimal {
	if d.Decreases() {
		return qty.Abs().Neg()
	}
	return qty.Abs()
}
