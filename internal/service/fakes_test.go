package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"bookerp/internal/model"
	"bookerp/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes. They honor the same contract as the gorm
// implementations: gorm.ErrRecordNotFound on misses, IDs assigned on
// create, copies returned so callers cannot mutate stored state in place.

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeEvents struct {
	published []string
}

func (f *fakeEvents) Publish(event string, data map[string]interface{}) {
	f.published = append(f.published, event)
}

type fakeAuditRepo struct {
	entries []model.AuditLog
}

func (f *fakeAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) List(ctx context.Context, action string, page, limit int) ([]model.AuditLog, int64, error) {
	var out []model.AuditLog
	for _, e := range f.entries {
		if action == "" || e.Action == action {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

type fakeItemRepo struct {
	items map[uuid.UUID]model.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]model.Item)}
}

func (f *fakeItemRepo) Create(ctx context.Context, item *model.Item) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	f.items[item.ID] = *item
	return nil
}

func (f *fakeItemRepo) Update(ctx context.Context, item *model.Item) error {
	f.items[item.ID] = *item
	return nil
}

func (f *fakeItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &item, nil
}

func (f *fakeItemRepo) FindBySKU(ctx context.Context, sku string) (*model.Item, error) {
	for _, item := range f.items {
		if item.SKU == sku {
			found := item
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeItemRepo) List(ctx context.Context, page, limit int, search string) ([]model.Item, int64, error) {
	var out []model.Item
	for _, item := range f.items {
		out = append(out, item)
	}
	return out, int64(len(out)), nil
}

type priceKey struct {
	party uuid.UUID
	item  uuid.UUID
}

type fakePartyRepo struct {
	parties map[uuid.UUID]model.Party
	prices  map[priceKey]model.PartyPrice
}

func newFakePartyRepo() *fakePartyRepo {
	return &fakePartyRepo{
		parties: make(map[uuid.UUID]model.Party),
		prices:  make(map[priceKey]model.PartyPrice),
	}
}

func (f *fakePartyRepo) Create(ctx context.Context, party *model.Party) error {
	if party.ID == uuid.Nil {
		party.ID = uuid.New()
	}
	f.parties[party.ID] = *party
	return nil
}

func (f *fakePartyRepo) Update(ctx context.Context, party *model.Party) error {
	f.parties[party.ID] = *party
	return nil
}

func (f *fakePartyRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Party, error) {
	party, ok := f.parties[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &party, nil
}

func (f *fakePartyRepo) List(ctx context.Context, page, limit int, search string) ([]model.Party, int64, error) {
	var out []model.Party
	for _, party := range f.parties {
		out = append(out, party)
	}
	return out, int64(len(out)), nil
}

func (f *fakePartyRepo) FindPrice(ctx context.Context, partyID, itemID uuid.UUID) (*model.PartyPrice, error) {
	price, ok := f.prices[priceKey{partyID, itemID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &price, nil
}

func (f *fakePartyRepo) UpsertPrice(ctx context.Context, price *model.PartyPrice) error {
	if price.ID == uuid.Nil {
		price.ID = uuid.New()
	}
	f.prices[priceKey{price.PartyID, price.ItemID}] = *price
	return nil
}

type fakeWarehouseRepo struct {
	warehouses map[uuid.UUID]model.Warehouse
}

func newFakeWarehouseRepo() *fakeWarehouseRepo {
	return &fakeWarehouseRepo{warehouses: make(map[uuid.UUID]model.Warehouse)}
}

func (f *fakeWarehouseRepo) add(name string) uuid.UUID {
	id := uuid.New()
	f.warehouses[id] = model.Warehouse{ID: id, Name: name}
	return id
}

func (f *fakeWarehouseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Warehouse, error) {
	wh, ok := f.warehouses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &wh, nil
}

func (f *fakeWarehouseRepo) List(ctx context.Context) ([]model.Warehouse, error) {
	var out []model.Warehouse
	for _, wh := range f.warehouses {
		out = append(out, wh)
	}
	return out, nil
}

type fakeStockRepo struct {
	rows map[uuid.UUID]model.Stock
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{rows: make(map[uuid.UUID]model.Stock)}
}

func (f *fakeStockRepo) seed(warehouseID, itemID uuid.UUID, qty int) {
	id := uuid.New()
	f.rows[id] = model.Stock{ID: id, WarehouseID: warehouseID, ItemID: itemID, Qty: qty}
}

func (f *fakeStockRepo) qty(warehouseID, itemID uuid.UUID) int {
	for _, row := range f.rows {
		if row.WarehouseID == warehouseID && row.ItemID == itemID {
			return row.Qty
		}
	}
	return 0
}

func (f *fakeStockRepo) Create(ctx context.Context, stock *model.Stock) error {
	if stock.ID == uuid.Nil {
		stock.ID = uuid.New()
	}
	f.rows[stock.ID] = *stock
	return nil
}

func (f *fakeStockRepo) Find(ctx context.Context, warehouseID, itemID uuid.UUID) (*model.Stock, error) {
	for _, row := range f.rows {
		if row.WarehouseID == warehouseID && row.ItemID == itemID {
			found := row
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStockRepo) FindForUpdate(ctx context.Context, warehouseID, itemID uuid.UUID) (*model.Stock, error) {
	return f.Find(ctx, warehouseID, itemID)
}

func (f *fakeStockRepo) UpdateQty(ctx context.Context, id uuid.UUID, qty int) error {
	row, ok := f.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.Qty = qty
	f.rows[id] = row
	return nil
}

func (f *fakeStockRepo) ListByWarehouse(ctx context.Context, warehouseID uuid.UUID, page, limit int) ([]model.Stock, int64, error) {
	var out []model.Stock
	for _, row := range f.rows {
		if row.WarehouseID == warehouseID {
			out = append(out, row)
		}
	}
	return out, int64(len(out)), nil
}

type fakeOrderRepo struct {
	orders map[uuid.UUID]model.SalesOrder
	lines  map[uuid.UUID][]model.SalesOrderLine
	items  *fakeItemRepo
}

func newFakeOrderRepo(items *fakeItemRepo) *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[uuid.UUID]model.SalesOrder),
		lines:  make(map[uuid.UUID][]model.SalesOrderLine),
		items:  items,
	}
}

func (f *fakeOrderRepo) Create(ctx context.Context, so *model.SalesOrder) error {
	if so.ID == uuid.Nil {
		so.ID = uuid.New()
	}
	f.orders[so.ID] = *so
	return nil
}

func (f *fakeOrderRepo) Update(ctx context.Context, so *model.SalesOrder) error {
	f.orders[so.ID] = *so
	return nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SalesOrder, error) {
	so, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &so, nil
}

func (f *fakeOrderRepo) FindByIDWithLines(ctx context.Context, id uuid.UUID) (*model.SalesOrder, error) {
	so, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lines := append([]model.SalesOrderLine(nil), f.lines[id]...)
	if f.items != nil {
		for i := range lines {
			if item, findErr := f.items.FindByID(ctx, lines[i].ItemID); findErr == nil {
				lines[i].Item = item
			}
		}
	}
	so.Lines = lines
	return so, nil
}

func (f *fakeOrderRepo) CreateLine(ctx context.Context, line *model.SalesOrderLine) error {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	f.lines[line.SOID] = append(f.lines[line.SOID], *line)
	return nil
}

func (f *fakeOrderRepo) ListLines(ctx context.Context, soID uuid.UUID) ([]model.SalesOrderLine, error) {
	return append([]model.SalesOrderLine(nil), f.lines[soID]...), nil
}

func (f *fakeOrderRepo) List(ctx context.Context, status string, page, limit int) ([]model.SalesOrder, int64, error) {
	var out []model.SalesOrder
	for _, so := range f.orders {
		if status == "" || so.Status == status {
			out = append(out, so)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) ListNosByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var out []string
	for _, so := range f.orders {
		if strings.HasPrefix(so.SONo, prefix) {
			out = append(out, so.SONo)
		}
	}
	sort.Strings(out)
	return out, nil
}

type fakeChallanRepo struct {
	challans map[uuid.UUID]model.Challan
	lines    map[uuid.UUID][]model.ChallanLine
}

func newFakeChallanRepo() *fakeChallanRepo {
	return &fakeChallanRepo{
		challans: make(map[uuid.UUID]model.Challan),
		lines:    make(map[uuid.UUID][]model.ChallanLine),
	}
}

func (f *fakeChallanRepo) Create(ctx context.Context, dc *model.Challan) error {
	if dc.ID == uuid.Nil {
		dc.ID = uuid.New()
	}
	f.challans[dc.ID] = *dc
	return nil
}

func (f *fakeChallanRepo) Update(ctx context.Context, dc *model.Challan) error {
	f.challans[dc.ID] = *dc
	return nil
}

func (f *fakeChallanRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Challan, error) {
	dc, ok := f.challans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &dc, nil
}

func (f *fakeChallanRepo) CreateLine(ctx context.Context, line *model.ChallanLine) error {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	f.lines[line.DCID] = append(f.lines[line.DCID], *line)
	return nil
}

func (f *fakeChallanRepo) ListLines(ctx context.Context, dcID uuid.UUID) ([]model.ChallanLine, error) {
	return append([]model.ChallanLine(nil), f.lines[dcID]...), nil
}

func (f *fakeChallanRepo) List(ctx context.Context, status string, page, limit int) ([]model.Challan, int64, error) {
	var out []model.Challan
	for _, dc := range f.challans {
		if status == "" || dc.Status == status {
			out = append(out, dc)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeChallanRepo) ListNosByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var out []string
	for _, dc := range f.challans {
		if strings.HasPrefix(dc.DCNo, prefix) {
			out = append(out, dc.DCNo)
		}
	}
	sort.Strings(out)
	return out, nil
}

type fakeInvoiceRepo struct {
	invoices   map[uuid.UUID]model.Invoice
	lines      map[uuid.UUID][]model.InvoiceLine
	payments   map[uuid.UUID][]model.Payment
	items      *fakeItemRepo
	parties    *fakePartyRepo
	warehouses *fakeWarehouseRepo
}

func newFakeInvoiceRepo(items *fakeItemRepo, parties *fakePartyRepo, warehouses *fakeWarehouseRepo) *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices:   make(map[uuid.UUID]model.Invoice),
		lines:      make(map[uuid.UUID][]model.InvoiceLine),
		payments:   make(map[uuid.UUID][]model.Payment),
		items:      items,
		parties:    parties,
		warehouses: warehouses,
	}
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, invoice *model.Invoice) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	f.invoices[invoice.ID] = *invoice
	return nil
}

func (f *fakeInvoiceRepo) Update(ctx context.Context, invoice *model.Invoice) error {
	f.invoices[invoice.ID] = *invoice
	return nil
}

func (f *fakeInvoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	invoice, ok := f.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &invoice, nil
}

func (f *fakeInvoiceRepo) FindByIDWithLines(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	invoice, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lines := append([]model.InvoiceLine(nil), f.lines[id]...)
	if f.items != nil {
		for i := range lines {
			if item, findErr := f.items.FindByID(ctx, lines[i].ItemID); findErr == nil {
				lines[i].Item = item
			}
		}
	}
	invoice.Lines = lines
	invoice.Payments = append([]model.Payment(nil), f.payments[id]...)
	if f.parties != nil {
		if party, findErr := f.parties.FindByID(ctx, invoice.PartyID); findErr == nil {
			invoice.Party = party
		}
	}
	if f.warehouses != nil {
		if wh, findErr := f.warehouses.FindByID(ctx, invoice.WarehouseID); findErr == nil {
			invoice.Warehouse = wh
		}
	}
	return invoice, nil
}

func (f *fakeInvoiceRepo) CreateLine(ctx context.Context, line *model.InvoiceLine) error {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	f.lines[line.InvoiceID] = append(f.lines[line.InvoiceID], *line)
	return nil
}

func (f *fakeInvoiceRepo) ListLines(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceLine, error) {
	return append([]model.InvoiceLine(nil), f.lines[invoiceID]...), nil
}

func (f *fakeInvoiceRepo) List(ctx context.Context, filter repository.InvoiceListFilter) ([]model.Invoice, int64, error) {
	var out []model.Invoice
	for _, invoice := range f.invoices {
		if filter.Status != "" && invoice.Status != filter.Status {
			continue
		}
		if filter.InvoiceNo != "" && invoice.InvoiceNo != filter.InvoiceNo {
			continue
		}
		if filter.PartyID != nil && invoice.PartyID != *filter.PartyID {
			continue
		}
		out = append(out, invoice)
	}
	return out, int64(len(out)), nil
}

func (f *fakeInvoiceRepo) ListByParty(ctx context.Context, partyID uuid.UUID, from, to *time.Time) ([]model.Invoice, error) {
	var out []model.Invoice
	for _, invoice := range f.invoices {
		if invoice.PartyID != partyID {
			continue
		}
		if from != nil && invoice.InvoiceDate.Before(*from) {
			continue
		}
		if to != nil && invoice.InvoiceDate.After(*to) {
			continue
		}
		out = append(out, invoice)
	}
	return out, nil
}

func (f *fakeInvoiceRepo) ListNosByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var out []string
	for _, invoice := range f.invoices {
		if strings.HasPrefix(invoice.InvoiceNo, prefix) {
			out = append(out, invoice.InvoiceNo)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeInvoiceRepo) CreatePayment(ctx context.Context, payment *model.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	f.payments[payment.InvoiceID] = append(f.payments[payment.InvoiceID], *payment)
	return nil
}

func (f *fakeInvoiceRepo) ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]model.Payment, error) {
	return append([]model.Payment(nil), f.payments[invoiceID]...), nil
}

type fakeReturnRepo struct {
	returns map[uuid.UUID]model.ReturnNote
	lines   map[uuid.UUID][]model.ReturnLine
}

func newFakeReturnRepo() *fakeReturnRepo {
	return &fakeReturnRepo{
		returns: make(map[uuid.UUID]model.ReturnNote),
		lines:   make(map[uuid.UUID][]model.ReturnLine),
	}
}

func (f *fakeReturnRepo) Create(ctx context.Context, rn *model.ReturnNote) error {
	if rn.ID == uuid.Nil {
		rn.ID = uuid.New()
	}
	f.returns[rn.ID] = *rn
	return nil
}

func (f *fakeReturnRepo) Update(ctx context.Context, rn *model.ReturnNote) error {
	f.returns[rn.ID] = *rn
	return nil
}

func (f *fakeReturnRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ReturnNote, error) {
	rn, ok := f.returns[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &rn, nil
}

func (f *fakeReturnRepo) CreateLine(ctx context.Context, line *model.ReturnLine) error {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	f.lines[line.ReturnID] = append(f.lines[line.ReturnID], *line)
	return nil
}

func (f *fakeReturnRepo) ListLines(ctx context.Context, returnID uuid.UUID) ([]model.ReturnLine, error) {
	return append([]model.ReturnLine(nil), f.lines[returnID]...), nil
}

func (f *fakeReturnRepo) List(ctx context.Context, status string, page, limit int) ([]model.ReturnNote, int64, error) {
	var out []model.ReturnNote
	for _, rn := range f.returns {
		if status == "" || rn.Status == status {
			out = append(out, rn)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeReturnRepo) ListNosByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var out []string
	for _, rn := range f.returns {
		if strings.HasPrefix(rn.RNNo, prefix) {
			out = append(out, rn.RNNo)
		}
	}
	sort.Strings(out)
	return out, nil
}
