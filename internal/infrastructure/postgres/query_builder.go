package postgres

import (
	"fmt"
	"strings"
)

// selectBuilder arma SELECT parametrizados. Las condiciones usan '?' como marcador y el builder
// los numera como $1..$n en el orden en que se agregan. Solo los valores viajan como argumentos;
// columnas y orden salen de listas blancas del caller.
type selectBuilder struct {
	base    string
	where   []string
	groupBy string
	having  []string
	orderBy string
	limit   int
	offset  int
	args    []any
}

func newSelect(base string) *selectBuilder {
	return &selectBuilder{base: base}
}

// Where agrega una condición con AND.
func (b *selectBuilder) Where(cond string, vals ...any) *selectBuilder {
	b.where = append(b.where, b.bind(cond, vals))
	return b
}

// WhereIf agrega la condición solo si ok.
func (b *selectBuilder) WhereIf(ok bool, cond string, vals ...any) *selectBuilder {
	if ok {
		return b.Where(cond, vals...)
	}
	return b
}

func (b *selectBuilder) GroupBy(expr string) *selectBuilder {
	b.groupBy = expr
	return b
}

func (b *selectBuilder) Having(cond string, vals ...any) *selectBuilder {
	b.having = append(b.having, b.bind(cond, vals))
	return b
}

func (b *selectBuilder) OrderBy(expr string) *selectBuilder {
	b.orderBy = expr
	return b
}

// Page limit <= 0 omite LIMIT/OFFSET.
func (b *selectBuilder) Page(limit, offset int) *selectBuilder {
	b.limit, b.offset = limit, offset
	return b
}

// bind reemplaza cada '?' por el siguiente $n y registra el valor.
func (b *selectBuilder) bind(cond string, vals []any) string {
	if strings.Count(cond, "?") != len(vals) {
		panic(fmt.Sprintf("query builder: %q espera %d valores, recibió %d", cond, strings.Count(cond, "?"), len(vals)))
	}
	var sb strings.Builder
	i := 0
	for _, r := range cond {
		if r == '?' {
			b.args = append(b.args, vals[i])
			i++
			fmt.Fprintf(&sb, "$%d", len(b.args))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// filtered SELECT con WHERE/GROUP BY/HAVING, sin orden ni página.
func (b *selectBuilder) filtered() string {
	var sb strings.Builder
	sb.WriteString(b.base)
	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.where, " AND "))
	}
	if b.groupBy != "" {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(b.groupBy)
	}
	if len(b.having) > 0 {
		sb.WriteString(" HAVING ")
		sb.WriteString(strings.Join(b.having, " AND "))
	}
	return sb.String()
}

// SQL consulta final con sus argumentos.
func (b *selectBuilder) SQL() (string, []any) {
	q := b.filtered()
	args := append([]any(nil), b.args...)
	if b.orderBy != "" {
		q += " ORDER BY " + b.orderBy
	}
	if b.limit > 0 {
		args = append(args, b.limit, b.offset)
		q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	return q, args
}

// CountSQL total de filas que cumplen los filtros, ignorando orden y página.
func (b *selectBuilder) CountSQL() (string, []any) {
	return "SELECT COUNT(*) FROM (" + b.filtered() + ") AS filtered", append([]any(nil), b.args...)
}

// orderClause resuelve sort_by contra una lista blanca de columnas. Desconocido usa def.
func orderClause(allowed map[string]string, sortBy, def string, desc bool) string {
	col, ok := allowed[sortBy]
	if !ok {
		col = def
	}
	if desc {
		return col + " DESC"
	}
	return col + " ASC"
}
