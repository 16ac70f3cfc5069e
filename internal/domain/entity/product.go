package entity

import "github.com/shopspring/decimal"

// Product datos maestros del producto que necesita el motor (solo lectura; el CRUD vive fuera).
// SafetyStock y ReorderPoint alimentan la alerta de stock bajo.
type Product struct {
	ID           string
	SKU          string
	Name         string
	UnitMeasure  string
	SafetyStock  decimal.Decimal
	ReorderPoint decimal.Decimal
}

// DisplayName nombre para mensajes: "SKU - Nombre" o lo que exista.
func (p *Product) DisplayName() string {
	switch {
	case p.SKU != "" && p.Name != "":
		return p.SKU + " - " + p.Name
	case p.Name != "":
		return p.Name
	default:
		return p.ID
	}
}
