package repository

import (
	"context"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// ProductRepository consulta de datos maestros de producto (solo lectura; el CRUD es externo).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}
