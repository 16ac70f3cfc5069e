package postgres

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/erp-ledger/internal/domain/document"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/pkg/config"
)

// Un solo contenedor PostgreSQL por paquete; cada test parte de tablas vacías.
var (
	sharedOnce      sync.Once
	sharedPool      *pgxpool.Pool
	sharedContainer *tcpostgres.PostgresContainer
	sharedErr       error
)

func TestMain(m *testing.M) {
	code := m.Run()
	if sharedPool != nil {
		sharedPool.Close()
	}
	if sharedContainer != nil {
		_ = sharedContainer.Terminate(context.Background())
	}
	os.Exit(code)
}

// testDB devuelve el pool del contenedor compartido con el esquema migrado y los datos borrados.
// Se omite con -short o si no hay Docker disponible.
func testDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("integración con PostgreSQL omitida en modo -short")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	sharedOnce.Do(func() {
		sharedPool, sharedContainer, sharedErr = startPostgres(context.Background())
	})
	require.NoError(t, sharedErr, "levantar PostgreSQL de pruebas")

	_, err := sharedPool.Exec(context.Background(), `
		TRUNCATE stock_ledger, document_lines, documents, doc_sequences, products, warehouses, partners
		RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return sharedPool
}

func startPostgres(ctx context.Context) (*pgxpool.Pool, *tcpostgres.PostgresContainer, error) {
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("erp_ledger_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return nil, container, fmt.Errorf("iniciar contenedor: %w", err)
	}
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, container, fmt.Errorf("connection string: %w", err)
	}

	m, err := NewMigrator(dsn, zerolog.Nop())
	if err != nil {
		return nil, container, err
	}
	upErr := m.Up()
	if closeErr := m.Close(); upErr == nil {
		upErr = closeErr
	}
	if upErr != nil {
		return nil, container, fmt.Errorf("migrar: %w", upErr)
	}

	pool, err := NewPool(ctx, config.DBConfig{
		DatabaseURL: dsn,
		MaxConns:    10,
		LockTimeout: 10 * time.Second,
	}, "erp-ledger-test")
	if err != nil {
		return nil, container, err
	}
	return pool, container, nil
}

// Datos maestros de las pruebas.
const (
	whMain   = "10000000-0000-0000-0000-000000000001"
	whSecond = "10000000-0000-0000-0000-000000000002"
	prodA    = "20000000-0000-0000-0000-00000000000a"
	prodB    = "20000000-0000-0000-0000-00000000000b"
	prodC    = "20000000-0000-0000-0000-00000000000c"
)

func seedMasterData(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()
	_, err := pool.Exec(ctx, `INSERT INTO warehouses (id, name) VALUES ($1, 'Principal'), ($2, 'Secundaria')`,
		whMain, whSecond)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `
		INSERT INTO products (id, sku, name, unit_measure, safety_stock, reorder_point) VALUES
			($1, 'A_1', 'Tornillo 100%', 'UND', 10, 20),
			($2, 'AB1', 'Tuerca', 'UND', 5, 10),
			($3, 'C-3', 'Arandela', 'UND', 0, 0)`,
		prodA, prodB, prodC)
	require.NoError(t, err)
}

var docCounter int

// insertDoc crea un documento con el estado indicado directamente en la tabla.
func insertDoc(t *testing.T, pool *pgxpool.Pool, docType document.DocType, status document.Status, sourceID *string,
	lines ...*entity.DocumentLine) *entity.Document {
	t.Helper()
	docCounter++
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	wh := whMain
	doc := &entity.Document{
		ID:          uuidFor(docCounter),
		DocType:     docType,
		DocNo:       fmt.Sprintf("%s-20260301-%04d", docType, docCounter),
		Status:      status,
		WarehouseID: &wh,
		DocDate:     now,
		SourceDocID: sourceID,
		CreatedBy:   "tester",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	repo := NewDocumentRepository(pool)
	require.NoError(t, repo.Create(context.Background(), doc))
	for i, l := range lines {
		l.ID = uuidFor(docCounter*100 + i + 1)
		l.LineNo = i + 1
	}
	require.NoError(t, repo.InsertLines(context.Background(), doc.ID, lines))
	return doc
}

func uuidFor(n int) string {
	return fmt.Sprintf("30000000-0000-0000-0000-%012d", n)
}

func docLine(productID, qty string) *entity.DocumentLine {
	return &entity.DocumentLine{ProductID: productID, Quantity: decimal.RequireFromString(qty), UOM: "UND"}
}

// postEntry escribe un asiento del kardex ligado a doc.
func postEntry(t *testing.T, pool *pgxpool.Pool, doc *entity.Document, wh, prod string, dir document.Direction,
	qty string, at time.Time) {
	t.Helper()
	err := NewStockLedgerRepository(pool).Create(context.Background(), &entity.StockLedgerEntry{
		WarehouseID:   wh,
		ProductID:     prod,
		TransactionAt: at,
		DocType:       doc.DocType,
		DocID:         doc.ID,
		DocNo:         doc.DocNo,
		Direction:     dir,
		Quantity:      decimal.RequireFromString(qty),
		CreatedBy:     "tester",
		CreatedAt:     at,
	})
	require.NoError(t, err)
}
