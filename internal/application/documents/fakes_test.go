package documents_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/application/documents"
	"github.com/jhoicas/erp-ledger/internal/application/inventory"
	"github.com/jhoicas/erp-ledger/internal/domain/document"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

// memStore base de datos en memoria. Implementa todos los puertos que usan los casos de uso.
type memStore struct {
	docs     map[string]*entity.Document
	lines    map[string][]*entity.DocumentLine
	ledger   []*entity.StockLedgerEntry
	seqs     map[string]int
	products map[string]*entity.Product
	whNames  map[string]string
}

var (
	_ repository.DocumentRepository    = (*memStore)(nil)
	_ repository.DocSequenceRepository = (*memStore)(nil)
	_ repository.StockLedgerRepository = memLedger{}
	_ repository.StockRepository       = (*memStore)(nil)
	_ repository.ProductRepository     = memProducts{}
)

func newMemStore() *memStore {
	return &memStore{
		docs:     map[string]*entity.Document{},
		lines:    map[string][]*entity.DocumentLine{},
		seqs:     map[string]int{},
		products: map[string]*entity.Product{},
		whNames:  map[string]string{},
	}
}

type snapshot struct {
	docs   map[string]*entity.Document
	lines  map[string][]*entity.DocumentLine
	ledger []*entity.StockLedgerEntry
	seqs   map[string]int
}

func (s *memStore) snapshot() snapshot {
	snap := snapshot{
		docs:   make(map[string]*entity.Document, len(s.docs)),
		lines:  make(map[string][]*entity.DocumentLine, len(s.lines)),
		ledger: append([]*entity.StockLedgerEntry(nil), s.ledger...),
		seqs:   make(map[string]int, len(s.seqs)),
	}
	for k, d := range s.docs {
		snap.docs[k] = d.Clone()
	}
	for k, ls := range s.lines {
		cp := make([]*entity.DocumentLine, len(ls))
		for i, l := range ls {
			lc := *l
			cp[i] = &lc
		}
		snap.lines[k] = cp
	}
	for k, v := range s.seqs {
		snap.seqs[k] = v
	}
	return snap
}

func (s *memStore) restore(snap snapshot) {
	s.docs, s.lines, s.ledger, s.seqs = snap.docs, snap.lines, snap.ledger, snap.seqs
}

// memTx TxRunner con rollback por snapshot.
type memTx struct{ s *memStore }

func (m memTx) Run(_ context.Context, fn func(repos documents.TxRepos) error) error {
	snap := m.s.snapshot()
	err := fn(documents.TxRepos{
		Documents: m.s,
		Sequences: m.s,
		Ledger:    memLedger{s: m.s},
		Stock:     m.s,
		Products:  memProducts{s: m.s},
	})
	if err != nil {
		m.s.restore(snap)
	}
	return err
}

// --- DocumentRepository ---

func (s *memStore) Create(_ context.Context, doc *entity.Document) error {
	for _, d := range s.docs {
		if d.DocNo == doc.DocNo {
			return fmt.Errorf("doc_no duplicado %s", doc.DocNo)
		}
	}
	c := doc.Clone()
	c.Lines = nil
	s.docs[doc.ID] = c
	return nil
}

func (s *memStore) GetByID(_ context.Context, id string) (*entity.Document, error) {
	d, ok := s.docs[id]
	if !ok {
		return nil, nil
	}
	return d.Clone(), nil
}

func (s *memStore) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return s.GetByID(ctx, id)
}

func (s *memStore) GetView(ctx context.Context, id string) (*entity.DocumentView, error) {
	d, _ := s.GetByID(ctx, id)
	if d == nil {
		return nil, nil
	}
	d.Lines, _ = s.GetLines(ctx, id)
	v := &entity.DocumentView{Document: *d}
	if d.WarehouseID != nil {
		v.WarehouseName = s.whNames[*d.WarehouseID]
	}
	if d.SourceDocID != nil {
		if src, ok := s.docs[*d.SourceDocID]; ok {
			v.SourceDocNo = src.DocNo
		}
	}
	return v, nil
}

func (s *memStore) List(_ context.Context, f repository.DocumentFilter) ([]*entity.DocumentView, int, error) {
	var out []*entity.DocumentView
	for _, d := range s.docs {
		if f.DocType != "" && string(d.DocType) != f.DocType {
			continue
		}
		if f.Status != "" && string(d.Status) != f.Status {
			continue
		}
		if f.SourceDocID != "" && (d.SourceDocID == nil || *d.SourceDocID != f.SourceDocID) {
			continue
		}
		out = append(out, &entity.DocumentView{Document: *d.Clone()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocNo < out[j].DocNo })
	total := len(out)
	if f.Offset < len(out) {
		out = out[f.Offset:]
	} else {
		out = nil
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (s *memStore) UpdateHeader(_ context.Context, doc *entity.Document) error {
	cur, ok := s.docs[doc.ID]
	if !ok {
		return errors.New("no existe")
	}
	c := doc.Clone()
	c.Lines = nil
	c.Status = cur.Status
	s.docs[doc.ID] = c
	return nil
}

func (s *memStore) InsertLines(_ context.Context, docID string, lines []*entity.DocumentLine) error {
	for _, l := range lines {
		lc := *l
		s.lines[docID] = append(s.lines[docID], &lc)
	}
	return nil
}

func (s *memStore) DeleteLines(_ context.Context, docID string) error {
	delete(s.lines, docID)
	return nil
}

func (s *memStore) GetLines(_ context.Context, docID string) ([]*entity.DocumentLine, error) {
	out := make([]*entity.DocumentLine, 0, len(s.lines[docID]))
	for _, l := range s.lines[docID] {
		lc := *l
		if p, ok := s.products[l.ProductID]; ok {
			lc.ProductSKU, lc.ProductName = p.SKU, p.Name
		}
		out = append(out, &lc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LineNo < out[j].LineNo })
	return out, nil
}

func (s *memStore) TransitionStatus(_ context.Context, id string, from []document.Status, to document.Status, at time.Time) (bool, error) {
	d, ok := s.docs[id]
	if !ok {
		return false, nil
	}
	for _, st := range from {
		if d.Status == st {
			d.Status = to
			d.UpdatedAt = at
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) MarkApproved(_ context.Context, id, approvedBy string, at time.Time) (bool, error) {
	d, ok := s.docs[id]
	if !ok || d.Status != document.StatusSubmitted {
		return false, nil
	}
	d.Status = document.StatusApproved
	d.ApprovedBy = &approvedBy
	d.ApprovedAt = &at
	d.UpdatedAt = at
	return true, nil
}

func (s *memStore) SetReceiptStatus(_ context.Context, id string, status document.ReceiptStatus, at time.Time) error {
	d, ok := s.docs[id]
	if !ok {
		return errors.New("no existe")
	}
	d.ReceiptStatus = &status
	d.UpdatedAt = at
	return nil
}

func (s *memStore) ReceivedBySource(_ context.Context, sourceID string) (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{}
	for id, d := range s.docs {
		if d.DocType != document.TypeGRN || d.Status != document.StatusApproved {
			continue
		}
		if d.SourceDocID == nil || *d.SourceDocID != sourceID {
			continue
		}
		for _, l := range s.lines[id] {
			out[l.ProductID] = out[l.ProductID].Add(l.Quantity)
		}
	}
	return out, nil
}

// --- DocSequenceRepository ---

func (s *memStore) Next(_ context.Context, docType document.DocType, day time.Time) (int, error) {
	k := string(docType) + day.Format(document.DocNoDateLayout)
	s.seqs[k]++
	return s.seqs[k], nil
}

// --- StockLedgerRepository / StockRepository ---

// memLedger adaptador del kardex: Create ya lo usa DocumentRepository.
type memLedger struct{ s *memStore }

func (l memLedger) Create(_ context.Context, e *entity.StockLedgerEntry) error {
	l.s.ledger = append(l.s.ledger, e)
	return nil
}

func (l memLedger) ListByDocument(_ context.Context, docID string) ([]*entity.StockLedgerEntry, error) {
	var out []*entity.StockLedgerEntry
	for _, e := range l.s.ledger {
		if e.DocID == docID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *memStore) Lock(context.Context, string, string) error { return nil }

func (s *memStore) OnHand(_ context.Context, warehouseID, productID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range s.ledger {
		if e.WarehouseID == warehouseID && e.ProductID == productID {
			total = total.Add(e.SignedQuantity())
		}
	}
	return total, nil
}

// --- ProductRepository ---

func (s *memStore) productByID(id string) *entity.Product { return s.products[id] }

// GetByID está tomado por DocumentRepository; el puerto de productos se expone con un adaptador.
type memProducts struct{ s *memStore }

func (p memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return p.s.productByID(id), nil
}

// --- fixture ---

const (
	whMain   = "0f0d5a38-8d8e-4a7b-9a55-1f5b8f0a0001"
	whSecond = "0f0d5a38-8d8e-4a7b-9a55-1f5b8f0a0002"
	prodA    = "7b4a6a62-3f1d-4c1e-8b4e-0d6f4a1b000a"
	prodB    = "7b4a6a62-3f1d-4c1e-8b4e-0d6f4a1b000b"
	userID   = "user-1"
)

type fixture struct {
	store    *memStore
	docs     *documents.DocumentUseCase
	approve  *documents.ApproveUseCase
	receipts *documents.ReceiptTracker
}

func newFixture() *fixture {
	s := newMemStore()
	s.products[prodA] = &entity.Product{ID: prodA, SKU: "A-001", Name: "Alcohol"}
	s.products[prodB] = &entity.Product{ID: prodB, SKU: "B-002", Name: "Guantes"}
	s.whNames[whMain] = "Principal"

	tx := memTx{s: s}
	gen := documents.NewDocNumberGenerator()
	log := zerolog.Nop()
	receipts := documents.NewReceiptTracker(s, tx, gen, log)
	return &fixture{
		store:    s,
		docs:     documents.NewDocumentUseCase(s, tx, gen, log),
		approve:  documents.NewApproveUseCase(s, tx, inventory.NewLedgerPoster(nil), receipts, log),
		receipts: receipts,
	}
}

// seedStock registra un saldo inicial directo en el kardex.
func (f *fixture) seedStock(warehouseID, productID, qty string) {
	f.store.ledger = append(f.store.ledger, &entity.StockLedgerEntry{
		ID:          fmt.Sprintf("seed-%d", len(f.store.ledger)),
		WarehouseID: warehouseID,
		ProductID:   productID,
		DocType:     document.TypeGRN,
		DocID:       "seed",
		Direction:   document.DirectionIn,
		Quantity:    dec(qty),
	})
}

func (f *fixture) balance(warehouseID, productID string) decimal.Decimal {
	b, _ := f.store.OnHand(context.Background(), warehouseID, productID)
	return b
}
