// Package document reúne las reglas puras del ciclo de vida de documentos: tipos de documento
// con su regla de contabilización, máquina de estados, dirección de asientos del kardex,
// formato de numeración y cálculo de estado de recepción. No depende de infraestructura.
package document

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DocType tipo de documento de negocio.
type DocType string

const (
	TypePO  DocType = "PO"  // orden de compra
	TypeGRN DocType = "GRN" // recepción de mercancía
	TypePR  DocType = "PR"  // devolución a proveedor
	TypeSO  DocType = "SO"  // orden de venta
	TypeDO  DocType = "DO"  // despacho
	TypeTR  DocType = "TR"  // traslado entre bodegas
	TypeSTK DocType = "STK" // toma física
	TypeADJ DocType = "ADJ" // ajuste
	TypeRM  DocType = "RM"  // devolución de material
)

// AllTypes lista cerrada de tipos válidos.
var AllTypes = []DocType{TypePO, TypeGRN, TypePR, TypeSO, TypeDO, TypeTR, TypeSTK, TypeADJ, TypeRM}

// ParseDocType valida y normaliza un tipo recibido como texto.
func ParseDocType(s string) (DocType, error) {
	for _, t := range AllTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("tipo de documento desconocido: %q", s)
}

// Valid indica si el tipo pertenece a la lista cerrada.
func (t DocType) Valid() bool {
	_, err := ParseDocType(string(t))
	return err == nil
}

// Prefix prefijo usado en el número de documento.
func (t DocType) Prefix() string { return string(t) }

// WarehouseMode bodegas que exige un tipo de documento para contabilizar.
type WarehouseMode int

const (
	WarehouseNone   WarehouseMode = iota // no afecta stock
	WarehouseSingle                      // warehouse_id
	WarehousePair                        // from_warehouse_id + to_warehouse_id
)

// WarehouseSide bodega del documento a la que se imputa un asiento.
type WarehouseSide int

const (
	SideSingle WarehouseSide = iota
	SideFrom
	SideTo
)

type postingKind int

const (
	postNone postingKind = iota
	postIn
	postOut
	postTransfer
	postAdjust
)

// PostingRule regla de contabilización de un tipo de documento.
type PostingRule struct {
	kind       postingKind
	Warehouses WarehouseMode
}

// Rule devuelve la regla de contabilización del tipo. Toda la lógica específica por tipo
// vive en esta tabla.
func (t DocType) Rule() PostingRule {
	switch t {
	case TypeGRN:
		return PostingRule{kind: postIn, Warehouses: WarehouseSingle}
	case TypePR, TypeDO:
		return PostingRule{kind: postOut, Warehouses: WarehouseSingle}
	case TypeTR:
		return PostingRule{kind: postTransfer, Warehouses: WarehousePair}
	case TypeADJ:
		return PostingRule{kind: postAdjust, Warehouses: WarehouseSingle}
	default:
		return PostingRule{kind: postNone, Warehouses: WarehouseNone}
	}
}

// AffectsStock indica si la aprobación genera asientos en el kardex.
func (r PostingRule) AffectsStock() bool { return r.kind != postNone }

// Movement asiento planificado para una línea, antes de resolver la bodega concreta.
type Movement struct {
	Side      WarehouseSide
	Direction Direction
	Quantity  decimal.Decimal // siempre magnitud no negativa
}

// Movements traduce la cantidad de una línea a los asientos que exige la regla.
// ADJ: cantidad positiva => AdjustIn, negativa => AdjustOut por el valor absoluto, cero => nada.
func (r PostingRule) Movements(qty decimal.Decimal) []Movement {
	switch r.kind {
	case postIn:
		return []Movement{{Side: SideSingle, Direction: DirectionIn, Quantity: qty.Abs()}}
	case postOut:
		return []Movement{{Side: SideSingle, Direction: DirectionOut, Quantity: qty.Abs()}}
	case postTransfer:
		return []Movement{
			{Side: SideFrom, Direction: DirectionTransferOut, Quantity: qty.Abs()},
			{Side: SideTo, Direction: DirectionTransferIn, Quantity: qty.Abs()},
		}
	case postAdjust:
		switch qty.Sign() {
		case 1:
			return []Movement{{Side: SideSingle, Direction: DirectionAdjustIn, Quantity: qty}}
		case -1:
			return []Movement{{Side: SideSingle, Direction: DirectionAdjustOut, Quantity: qty.Abs()}}
		}
	}
	return nil
}

// AllowsNegativeLineQuantity solo los ajustes aceptan cantidades negativas en sus líneas.
func (t DocType) AllowsNegativeLineQuantity() bool { return t == TypeADJ }
