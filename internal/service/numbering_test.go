package service

import (
	"context"
	"testing"
	"time"

	"bookerp/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(year int, month time.Month) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, 15, 10, 0, 0, 0, time.UTC)
	}
}

func TestNumberingFirstOfPeriod(t *testing.T) {
	n := NewNumbering()
	n.now = fixedClock(2025, time.January)

	src := newFakeInvoiceRepo(nil, nil, nil)
	no, release, err := n.Next(context.Background(), PrefixInvoice, src)
	require.NoError(t, err)
	defer release()

	assert.Equal(t, "INV-202501-0001", no)
}

func TestNumberingContinuesFromHighestSuffix(t *testing.T) {
	ctx := context.Background()
	n := NewNumbering()
	n.now = fixedClock(2025, time.January)

	src := newFakeInvoiceRepo(nil, nil, nil)
	for _, no := range []string{"INV-202501-0001", "INV-202501-0003", "INV-202412-0009"} {
		require.NoError(t, src.Create(ctx, &model.Invoice{InvoiceNo: no}))
	}

	no, release, err := n.Next(ctx, PrefixInvoice, src)
	require.NoError(t, err)
	release()

	// gaps are not reused and other periods do not bleed in
	assert.Equal(t, "INV-202501-0004", no)
}

func TestNumberingPeriodRollover(t *testing.T) {
	ctx := context.Background()
	n := NewNumbering()
	n.now = fixedClock(2025, time.January)

	src := newFakeInvoiceRepo(nil, nil, nil)
	no, release, err := n.Next(ctx, PrefixInvoice, src)
	require.NoError(t, err)
	release()
	require.NoError(t, src.Create(ctx, &model.Invoice{InvoiceNo: no}))

	n.now = fixedClock(2025, time.February)
	no, release, err = n.Next(ctx, PrefixInvoice, src)
	require.NoError(t, err)
	release()

	assert.Equal(t, "INV-202502-0001", no)
}

func TestNumberingSerializesPerPrefix(t *testing.T) {
	ctx := context.Background()
	n := NewNumbering()
	n.now = fixedClock(2025, time.March)

	src := newFakeInvoiceRepo(nil, nil, nil)

	no, release, err := n.Next(ctx, PrefixInvoice, src)
	require.NoError(t, err)
	require.NoError(t, src.Create(ctx, &model.Invoice{InvoiceNo: no}))

	// a second caller must observe the committed row once released
	done := make(chan string)
	go func() {
		next, rel, nextErr := n.Next(ctx, PrefixInvoice, src)
		require.NoError(t, nextErr)
		rel()
		done <- next
	}()

	release()
	assert.Equal(t, "INV-202503-0002", <-done)
}

// commitRecordingTxManager runs the unit of work inline and records,
// after the closure has returned but before the commit completes,
// whether the given number mutex is still held.
type commitRecordingTxManager struct {
	numbering    *Numbering
	key          string
	heldAtCommit bool
}

func (m *commitRecordingTxManager) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	err := fn(ctx)
	lock := m.numbering.keyLock(m.key)
	if lock.TryLock() {
		lock.Unlock()
	} else {
		m.heldAtCommit = true
	}
	return err
}

func TestNumberingLockCoversCommitWindow(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemRepo()
	parties := newFakePartyRepo()
	warehouses := newFakeWarehouseRepo()
	orders := newFakeOrderRepo(items)
	audit := &fakeAuditRepo{}
	events := &fakeEvents{}

	numbering := NewNumbering()
	numbering.now = fixedClock(2025, time.June)
	tx := &commitRecordingTxManager{numbering: numbering, key: "SO-202506-"}

	pricing := NewPricingService(parties)
	stocks := newFakeStockRepo()
	stockSvc := NewStockService(stocks, audit, tx, events)
	svc := NewOrderService(orders, newFakeChallanRepo(), items, parties, warehouses, audit, tx, pricing, stockSvc, numbering, events)

	party := &model.Party{Name: "Verma Distributors", Type: model.PartyTypeDistributor}
	require.NoError(t, parties.Create(ctx, party))
	whID := warehouses.add("Main Godown")

	so, err := svc.CreateSalesOrder(ctx, "tester", CreateSalesOrderRequest{
		PartyID:     party.ID.String(),
		WarehouseID: whID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "SO-202506-0001", so.SONo)

	// a concurrent creator must not be able to scan before the row commits
	assert.True(t, tx.heldAtCommit, "number mutex must stay held until the transaction commits")

	// and the mutex is free again once the creation has returned
	lock := numbering.keyLock("SO-202506-")
	require.True(t, lock.TryLock())
	lock.Unlock()
}
