package repository

import (
	"context"
	"errors"

	"bookerp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PartyRepository interface {
	Create(ctx context.Context, party *model.Party) error
	Update(ctx context.Context, party *model.Party) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Party, error)
	List(ctx context.Context, page, limit int, search string) ([]model.Party, int64, error)
	FindPrice(ctx context.Context, partyID, itemID uuid.UUID) (*model.PartyPrice, error)
	UpsertPrice(ctx context.Context, price *model.PartyPrice) error
}

type partyRepository struct {
	db *gorm.DB
}

func NewPartyRepository(db *gorm.DB) PartyRepository {
	return &partyRepository{db: db}
}

func (r *partyRepository) Create(ctx context.Context, party *model.Party) error {
	return GetDB(ctx, r.db).Create(party).Error
}

func (r *partyRepository) Update(ctx context.Context, party *model.Party) error {
	return GetDB(ctx, r.db).Save(party).Error
}

func (r *partyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Party, error) {
	var party model.Party
	if err := GetDB(ctx, r.db).First(&party, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &party, nil
}

func (r *partyRepository) List(ctx context.Context, page, limit int, search string) ([]model.Party, int64, error) {
	var parties []model.Party
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Party{})
	if search != "" {
		db = db.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&parties).Error; err != nil {
		return nil, 0, err
	}

	return parties, total, nil
}

func (r *partyRepository) FindPrice(ctx context.Context, partyID, itemID uuid.UUID) (*model.PartyPrice, error) {
	var price model.PartyPrice
	if err := GetDB(ctx, r.db).
		Where("party_id = ? AND item_id = ?", partyID, itemID).
		First(&price).Error; err != nil {
		return nil, err
	}
	return &price, nil
}

// UpsertPrice replaces any existing override for the (party,item) pair.
func (r *partyRepository) UpsertPrice(ctx context.Context, price *model.PartyPrice) error {
	db := GetDB(ctx, r.db)

	var existing model.PartyPrice
	err := db.Where("party_id = ? AND item_id = ?", price.PartyID, price.ItemID).First(&existing).Error
	if err == nil {
		existing.DiscountPercent = price.DiscountPercent
		*price = existing
		return db.Save(&existing).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Create(price).Error
}
