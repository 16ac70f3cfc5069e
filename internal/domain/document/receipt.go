package document

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ReceiptStatus estado de recepción de una orden de compra.
type ReceiptStatus string

const (
	ReceiptPending  ReceiptStatus = "pending"
	ReceiptPartial  ReceiptStatus = "partial"
	ReceiptComplete ReceiptStatus = "complete"
)

// ReceiptLine cantidades pedidas y recibidas de un producto de la orden.
type ReceiptLine struct {
	ProductID string
	Ordered   decimal.Decimal
	Received  decimal.Decimal
	Remaining decimal.Decimal
	Status    ReceiptStatus
}

// classify pending si no se recibió nada, complete si lo recibido cubre lo pedido, partial en otro caso.
func classify(ordered, received decimal.Decimal) ReceiptStatus {
	switch {
	case received.LessThanOrEqual(decimal.Zero):
		return ReceiptPending
	case received.GreaterThanOrEqual(ordered):
		return ReceiptComplete
	default:
		return ReceiptPartial
	}
}

// ComputeReceipt cruza lo pedido contra lo recibido por producto. Los productos recibidos que no
// estaban en la orden se ignoran. Remaining nunca es negativo. Las líneas salen ordenadas por producto.
func ComputeReceipt(ordered, received map[string]decimal.Decimal) ([]ReceiptLine, ReceiptStatus) {
	lines := make([]ReceiptLine, 0, len(ordered))
	totalReceived := decimal.Zero
	allComplete := len(ordered) > 0
	for productID, qty := range ordered {
		got := received[productID]
		remaining := qty.Sub(got)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		st := classify(qty, got)
		if st != ReceiptComplete {
			allComplete = false
		}
		totalReceived = totalReceived.Add(got)
		lines = append(lines, ReceiptLine{
			ProductID: productID,
			Ordered:   qty,
			Received:  got,
			Remaining: remaining,
			Status:    st,
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

	switch {
	case totalReceived.LessThanOrEqual(decimal.Zero):
		return lines, ReceiptPending
	case allComplete:
		return lines, ReceiptComplete
	default:
		return lines, ReceiptPartial
	}
}
