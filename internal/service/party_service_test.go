package service

import (
	"context"
	"testing"

	"bookerp/internal/apperr"
	"bookerp/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPartyFixture() (*fakePartyRepo, *fakeItemRepo, PartyService) {
	parties := newFakePartyRepo()
	items := newFakeItemRepo()
	svc := NewPartyService(parties, items, &fakeAuditRepo{}, fakeTxManager{})
	return parties, items, svc
}

func TestCreatePartyDefaults(t *testing.T) {
	_, _, svc := newPartyFixture()

	res, err := svc.Create(context.Background(), "tester", CreatePartyRequest{Name: "Verma Distributors"})
	require.NoError(t, err)

	assert.Equal(t, model.PartyTypeDistributor, res.Type)
	assert.Equal(t, 30, res.PaymentTermsDays)
	assert.Equal(t, "0.00", res.CreditLimit)
	assert.False(t, res.IsBlocked)
}

func TestUpdatePartySetsBlockedFlag(t *testing.T) {
	_, _, svc := newPartyFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, "tester", CreatePartyRequest{Name: "Verma Distributors"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "tester", created.ID, UpdatePartyRequest{
		Name:        "Verma Distributors",
		CreditLimit: "50000",
		IsBlocked:   true,
	})
	require.NoError(t, err)
	assert.True(t, updated.IsBlocked)
	assert.Equal(t, "50000.00", updated.CreditLimit)
}

func TestSetPriceValidatesPartyAndItem(t *testing.T) {
	parties, items, svc := newPartyFixture()
	ctx := context.Background()

	party := &model.Party{Name: "Verma Distributors"}
	require.NoError(t, parties.Create(ctx, party))
	item := &model.Item{SKU: "MATH-9-2025", Title: "Mathematics Class 9"}
	require.NoError(t, items.Create(ctx, item))

	var notFound *apperr.NotFoundError
	_, err := svc.SetPrice(ctx, "tester", "2b1c6f10-0000-4000-8000-00000000dead", SetPartyPriceRequest{
		ItemID:          item.ID.String(),
		DiscountPercent: "10",
	})
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "party", notFound.Entity)

	_, err = svc.SetPrice(ctx, "tester", party.ID.String(), SetPartyPriceRequest{
		ItemID:          "2b1c6f10-0000-4000-8000-00000000beef",
		DiscountPercent: "10",
	})
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "item", notFound.Entity)
}

func TestSetPriceUpsertsLastWriteWins(t *testing.T) {
	parties, items, svc := newPartyFixture()
	ctx := context.Background()

	party := &model.Party{Name: "Verma Distributors"}
	require.NoError(t, parties.Create(ctx, party))
	item := &model.Item{SKU: "MATH-9-2025", Title: "Mathematics Class 9"}
	require.NoError(t, items.Create(ctx, item))

	_, err := svc.SetPrice(ctx, "tester", party.ID.String(), SetPartyPriceRequest{
		ItemID:          item.ID.String(),
		DiscountPercent: "10",
	})
	require.NoError(t, err)

	res, err := svc.SetPrice(ctx, "tester", party.ID.String(), SetPartyPriceRequest{
		ItemID:          item.ID.String(),
		DiscountPercent: "17.5",
	})
	require.NoError(t, err)
	assert.Equal(t, "17.50", res.DiscountPercent)

	stored, err := parties.FindPrice(ctx, party.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "17.50", stored.DiscountPercent.StringFixed(2))
	assert.Len(t, parties.prices, 1)
}
