package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/erp-ledger/internal/domain/document"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

var _ repository.DocSequenceRepository = (*DocSequenceRepo)(nil)

// DocSequenceRepo contador por (tipo, día) en doc_sequences.
type DocSequenceRepo struct {
	q Querier
}

// NewDocSequenceRepository construye el adaptador. Pasar la tx que crea el documento.
func NewDocSequenceRepository(q Querier) *DocSequenceRepo {
	return &DocSequenceRepo{q: q}
}

// Next el upsert bloquea la fila (tipo, día) hasta el fin de la transacción, así dos creaciones
// concurrentes reciben consecutivos distintos.
func (r *DocSequenceRepo) Next(ctx context.Context, docType document.DocType, day time.Time) (int, error) {
	query := `
		INSERT INTO doc_sequences (doc_type, seq_date, last_seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (doc_type, seq_date)
		DO UPDATE SET last_seq = doc_sequences.last_seq + 1
		RETURNING last_seq`
	var seq int
	if err := r.q.QueryRow(ctx, query, string(docType), day.Format(time.DateOnly)).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next doc sequence: %w", err)
	}
	return seq, nil
}
