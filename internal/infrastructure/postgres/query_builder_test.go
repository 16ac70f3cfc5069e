package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectBuilder_NumeraParametros(t *testing.T) {
	b := newSelect("SELECT d.id FROM documents d").
		Where("d.doc_type = ?", "PO").
		WhereIf(false, "d.status = ?", "Draft").
		WhereIf(true, "(d.warehouse_id = ? OR d.from_warehouse_id = ?)", "w1", "w1").
		OrderBy("d.doc_date DESC").
		Page(20, 40)

	q, args := b.SQL()
	assert.Equal(t,
		"SELECT d.id FROM documents d WHERE d.doc_type = $1 AND (d.warehouse_id = $2 OR d.from_warehouse_id = $3) ORDER BY d.doc_date DESC LIMIT $4 OFFSET $5",
		q)
	assert.Equal(t, []any{"PO", "w1", "w1", 20, 40}, args)

	cq, cargs := b.CountSQL()
	assert.Equal(t,
		"SELECT COUNT(*) FROM (SELECT d.id FROM documents d WHERE d.doc_type = $1 AND (d.warehouse_id = $2 OR d.from_warehouse_id = $3)) AS filtered",
		cq)
	assert.Equal(t, []any{"PO", "w1", "w1"}, cargs)
}

func TestSelectBuilder_ValoresNuncaSeInterpolan(t *testing.T) {
	evil := "x'; DROP TABLE documents; --"
	q, args := newSelect("SELECT 1 FROM documents d").Where("d.doc_no ILIKE ?", "%"+evil+"%").SQL()
	assert.NotContains(t, q, "DROP")
	assert.Equal(t, []any{"%" + evil + "%"}, args)
}

func TestSelectBuilder_GroupByHaving(t *testing.T) {
	q, args := newSelect("SELECT l.product_id, SUM(l.quantity) FROM stock_ledger l").
		Where("l.warehouse_id = ?", "w").
		GroupBy("l.product_id").
		Having("SUM(l.quantity) <> ?", 0).
		SQL()
	assert.Equal(t, "SELECT l.product_id, SUM(l.quantity) FROM stock_ledger l WHERE l.warehouse_id = $1 GROUP BY l.product_id HAVING SUM(l.quantity) <> $2", q)
	assert.Len(t, args, 2)
}

func TestOrderClause_ListaBlanca(t *testing.T) {
	allowed := map[string]string{"doc_no": "d.doc_no"}
	assert.Equal(t, "d.doc_no ASC", orderClause(allowed, "doc_no", "d.created_at", false))
	assert.Equal(t, "d.created_at DESC", orderClause(allowed, "1; DROP TABLE x", "d.created_at", true))
}

func TestSignedQtyExpr(t *testing.T) {
	assert.Equal(t,
		"CASE WHEN l.direction IN ('In','TransferIn','AdjustIn') THEN l.quantity ELSE -l.quantity END",
		signedQtyExpr("l"))
}

func TestFkColumn(t *testing.T) {
	assert.Equal(t, "warehouse_id", fkColumn("documents_warehouse_id_fkey"))
	assert.Equal(t, "product_id", fkColumn("document_lines_product_id_fkey"))
	assert.Equal(t, "custom", fkColumn("custom"))
}
