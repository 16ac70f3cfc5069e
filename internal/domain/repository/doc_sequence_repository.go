package repository

import (
	"context"
	"time"

	"github.com/jhoicas/erp-ledger/internal/domain/document"
)

// DocSequenceRepository contador atómico por (tipo de documento, día).
type DocSequenceRepository interface {
	// Next incrementa y devuelve el siguiente consecutivo (empieza en 1). Dentro de una
	// transacción, el incremento se revierte junto con ella.
	Next(ctx context.Context, docType document.DocType, day time.Time) (int, error)
}
