package service

import (
	"context"
	"strings"
	"testing"

	"bookerp/internal/apperr"
	"bookerp/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type returnEnv struct {
	*pipelineEnv
	returns   *fakeReturnRepo
	returnSvc ReturnService
}

func newReturnEnv() *returnEnv {
	base := newPipelineEnv()
	returns := newFakeReturnRepo()
	stockSvc := NewStockService(base.stocks, base.audit, fakeTxManager{}, base.events)
	svc := NewReturnService(returns, base.items, base.parties, base.warehouses, base.audit, fakeTxManager{}, stockSvc, NewNumbering(), base.events)
	return &returnEnv{pipelineEnv: base, returns: returns, returnSvc: svc}
}

func TestCreateReturnDefaultsReason(t *testing.T) {
	env := newReturnEnv()
	ctx := context.Background()
	party := env.addParty(t, "Khanna Stores")
	whID := env.warehouses.add("Main Godown")

	rn, err := env.returnSvc.Create(ctx, "tester", CreateReturnRequest{
		PartyID:     party.ID.String(),
		WarehouseID: whID.String(),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rn.RNNo, "RN-"))
	assert.Equal(t, model.ReturnStatusOpen, rn.Status)
	assert.Equal(t, "Unsold", rn.Reason)
}

func TestPostReturnAddsStockBack(t *testing.T) {
	env := newReturnEnv()
	ctx := context.Background()
	party := env.addParty(t, "Khanna Stores")
	item := env.addItem(t, "MATH-9-2025", "100.00", "0")
	whID := env.warehouses.add("Main Godown")
	env.stocks.seed(whID, item.ID, 2)

	rn, err := env.returnSvc.Create(ctx, "tester", CreateReturnRequest{
		PartyID:     party.ID.String(),
		WarehouseID: whID.String(),
		Reason:      "Damaged",
	})
	require.NoError(t, err)

	_, err = env.returnSvc.AddLine(ctx, "tester", rn.ID, AddReturnLineRequest{ItemID: item.ID.String(), Qty: 5})
	require.NoError(t, err)

	posted, err := env.returnSvc.Post(ctx, "tester", rn.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReturnStatusPosted, posted.Status)
	assert.Equal(t, 7, env.stocks.qty(whID, item.ID))
	assert.Contains(t, env.events.published, "return.posted")
}

func TestPostReturnIsTerminal(t *testing.T) {
	env := newReturnEnv()
	ctx := context.Background()
	party := env.addParty(t, "Khanna Stores")
	item := env.addItem(t, "MATH-9-2025", "100.00", "0")
	whID := env.warehouses.add("Main Godown")

	rn, err := env.returnSvc.Create(ctx, "tester", CreateReturnRequest{
		PartyID:     party.ID.String(),
		WarehouseID: whID.String(),
	})
	require.NoError(t, err)
	_, err = env.returnSvc.AddLine(ctx, "tester", rn.ID, AddReturnLineRequest{ItemID: item.ID.String(), Qty: 2})
	require.NoError(t, err)
	_, err = env.returnSvc.Post(ctx, "tester", rn.ID)
	require.NoError(t, err)

	_, err = env.returnSvc.Post(ctx, "tester", rn.ID)
	var invalid *apperr.InvalidStateError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, model.ReturnStatusPosted, invalid.Current)

	// double post must not double the stock
	assert.Equal(t, 2, env.stocks.qty(whID, item.ID))

	_, err = env.returnSvc.AddLine(ctx, "tester", rn.ID, AddReturnLineRequest{ItemID: item.ID.String(), Qty: 1})
	require.ErrorAs(t, err, &invalid)
}

func TestPostReturnAccumulatesRepeatedItemLines(t *testing.T) {
	env := newReturnEnv()
	ctx := context.Background()
	party := env.addParty(t, "Khanna Stores")
	item := env.addItem(t, "MATH-9-2025", "100.00", "0")
	whID := env.warehouses.add("Main Godown")
	env.stocks.seed(whID, item.ID, 2)

	rn, err := env.returnSvc.Create(ctx, "tester", CreateReturnRequest{
		PartyID:     party.ID.String(),
		WarehouseID: whID.String(),
	})
	require.NoError(t, err)
	_, err = env.returnSvc.AddLine(ctx, "tester", rn.ID, AddReturnLineRequest{ItemID: item.ID.String(), Qty: 5})
	require.NoError(t, err)
	_, err = env.returnSvc.AddLine(ctx, "tester", rn.ID, AddReturnLineRequest{ItemID: item.ID.String(), Qty: 5})
	require.NoError(t, err)

	_, err = env.returnSvc.Post(ctx, "tester", rn.ID)
	require.NoError(t, err)

	// both lines of the same item land in stock
	assert.Equal(t, 12, env.stocks.qty(whID, item.ID))
}
