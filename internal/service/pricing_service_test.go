package service

import (
	"context"
	"testing"

	"bookerp/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePriceWithoutOverride(t *testing.T) {
	ctx := context.Background()
	parties := newFakePartyRepo()
	items := newFakeItemRepo()

	item := &model.Item{
		SKU:       "MATH-9-2025",
		Title:     "Mathematics Class 9",
		SalePrice: decimal.RequireFromString("250.00"),
	}
	require.NoError(t, items.Create(ctx, item))

	svc := NewPricingService(parties)
	rate, disc, err := svc.ResolvePrice(ctx, uuid.New(), item)
	require.NoError(t, err)

	assert.True(t, rate.Equal(item.SalePrice), "rate = %s", rate)
	assert.True(t, disc.IsZero())
}

func TestResolvePriceAppliesOverrideDiscount(t *testing.T) {
	ctx := context.Background()
	parties := newFakePartyRepo()
	items := newFakeItemRepo()

	item := &model.Item{
		SKU:       "SCI-10-2025",
		Title:     "Science Class 10",
		SalePrice: decimal.RequireFromString("250.00"),
	}
	require.NoError(t, items.Create(ctx, item))

	party := &model.Party{Name: "Gupta Book Depot"}
	require.NoError(t, parties.Create(ctx, party))
	require.NoError(t, parties.UpsertPrice(ctx, &model.PartyPrice{
		PartyID:         party.ID,
		ItemID:          item.ID,
		DiscountPercent: decimal.RequireFromString("12.5"),
	}))

	svc := NewPricingService(parties)
	rate, disc, err := svc.ResolvePrice(ctx, party.ID, item)
	require.NoError(t, err)

	assert.Equal(t, "218.75", rate.StringFixed(2))
	assert.Equal(t, "12.50", disc.StringFixed(2))
}

func TestResolvePriceClampsDiscount(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemRepo()

	item := &model.Item{
		SKU:       "ENG-8-2025",
		Title:     "English Class 8",
		SalePrice: decimal.RequireFromString("100.00"),
	}
	require.NoError(t, items.Create(ctx, item))

	tests := []struct {
		name     string
		discount string
		wantRate string
		wantDisc string
	}{
		{"negative clamps to zero", "-5", "100.00", "0.00"},
		{"over hundred clamps to hundred", "150", "0.00", "100.00"},
		{"boundary hundred", "100", "0.00", "100.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parties := newFakePartyRepo()
			party := &model.Party{Name: "Sharma Traders"}
			require.NoError(t, parties.Create(ctx, party))
			require.NoError(t, parties.UpsertPrice(ctx, &model.PartyPrice{
				PartyID:         party.ID,
				ItemID:          item.ID,
				DiscountPercent: decimal.RequireFromString(tt.discount),
			}))

			svc := NewPricingService(parties)
			rate, disc, err := svc.ResolvePrice(ctx, party.ID, item)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRate, rate.StringFixed(2))
			assert.Equal(t, tt.wantDisc, disc.StringFixed(2))
		})
	}
}
