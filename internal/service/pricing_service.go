package service

import (
	"context"
	"errors"
	"fmt"

	"bookerp/internal/model"
	"bookerp/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	decZero    = decimal.Zero
	decHundred = decimal.NewFromInt(100)
)

// PricingService resolves the effective unit rate and discount for a
// (party,item) pair. No side effects; callers re-resolve at each pipeline
// stage, so overrides changed between stages take effect at the later stage.
type PricingService interface {
	ResolvePrice(ctx context.Context, partyID uuid.UUID, item *model.Item) (rate, discountPercent decimal.Decimal, err error)
}

type pricingService struct {
	partyRepo repository.PartyRepository
}

func NewPricingService(partyRepo repository.PartyRepository) PricingService {
	return &pricingService{partyRepo: partyRepo}
}

// ResolvePrice applies the PartyPrice override when one exists, clamping
// the discount to [0,100] before use; otherwise the item list price with
// zero discount. Rates are rounded to 2 decimal places.
func (s *pricingService) ResolvePrice(ctx context.Context, partyID uuid.UUID, item *model.Item) (decimal.Decimal, decimal.Decimal, error) {
	override, err := s.partyRepo.FindPrice(ctx, partyID, item.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item.SalePrice, decZero, nil
		}
		return decZero, decZero, fmt.Errorf("failed to look up party price: %w", err)
	}

	disc := override.DiscountPercent
	if disc.LessThan(decZero) {
		disc = decZero
	}
	if disc.GreaterThan(decHundred) {
		disc = decHundred
	}

	factor := decimal.NewFromInt(1).Sub(disc.Div(decHundred))
	rate := item.SalePrice.Mul(factor).Round(2)
	return rate, disc, nil
}
