package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/erp-ledger/internal/domain/document"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

// DocNumberGenerator asigna números {TIPO}-{AAAAMMDD}-{consecutivo:04} a partir de un contador
// atómico por (tipo, día). Debe llamarse con el repo de la transacción que crea el documento,
// así un rollback también devuelve el consecutivo.
type DocNumberGenerator struct{}

// NewDocNumberGenerator construye el generador.
func NewDocNumberGenerator() *DocNumberGenerator { return &DocNumberGenerator{} }

// Next reserva el siguiente número para docType en el día de at.
func (g *DocNumberGenerator) Next(
	ctx context.Context,
	seqs repository.DocSequenceRepository,
	docType document.DocType,
	at time.Time,
) (string, error) {
	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	seq, err := seqs.Next(ctx, docType, day)
	if err != nil {
		return "", fmt.Errorf("consecutivo %s %s: %w", docType, day.Format(document.DocNoDateLayout), err)
	}
	return document.FormatDocNo(docType, day, seq), nil
}
