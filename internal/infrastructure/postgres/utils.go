package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/document"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// fkViolation devuelve el error de Postgres si es una violación de llave foránea (23503).
func fkViolation(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return pgErr, true
	}
	return nil, false
}

// mapWriteErr traduce errores de escritura: único -> ErrConflict, llave foránea -> ValidationError
// con la columna que referencia un registro inexistente. El resto se envuelve tal cual.
func mapWriteErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	}
	if pgErr, ok := fkViolation(err); ok {
		return domain.NewValidation(fkColumn(pgErr.ConstraintName), "referencia a un registro inexistente")
	}
	return fmt.Errorf("%s: %w", op, err)
}

// fkColumn extrae la columna del nombre de constraint por defecto de Postgres
// (<tabla>_<columna>_fkey).
func fkColumn(constraint string) string {
	name := strings.TrimSuffix(constraint, "_fkey")
	for _, table := range []string{"documents_", "document_lines_", "stock_ledger_"} {
		if strings.HasPrefix(name, table) {
			return strings.TrimPrefix(name, table)
		}
	}
	return name
}

// signedQtyExpr expresión SQL de la cantidad con signo de un asiento del kardex con alias alias.
func signedQtyExpr(alias string) string {
	return fmt.Sprintf("CASE WHEN %s.direction IN (%s) THEN %s.quantity ELSE -%s.quantity END",
		alias, inboundList(), alias, alias)
}

// inboundList lista SQL literal de las direcciones que suman. Son constantes del dominio,
// no entrada del usuario.
func inboundList() string {
	parts := make([]string, 0, len(document.InboundDirections))
	for _, d := range document.InboundDirections {
		parts = append(parts, "'"+string(d)+"'")
	}
	return strings.Join(parts, ",")
}

// isContention transacción abortada por espera de lock (55P03), deadlock (40P01) o
// serialización (40001). El cliente puede reintentar.
func isContention(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "55P03", "40P01", "40001":
		return true
	}
	return false
}

// isInvalidText verifica si Postgres rechazó un literal por formato (22P02), por ejemplo un id
// que no es UUID.
func isInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern patrón ILIKE que busca s como texto literal. Usar con ESCAPE '\'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
