package repository

import (
	"context"

	"bookerp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StockRepository interface {
	Create(ctx context.Context, stock *model.Stock) error
	Find(ctx context.Context, warehouseID, itemID uuid.UUID) (*model.Stock, error)
	// FindForUpdate takes a row lock so the check-then-write of a quantity
	// adjustment is serialized per (warehouse,item).
	FindForUpdate(ctx context.Context, warehouseID, itemID uuid.UUID) (*model.Stock, error)
	UpdateQty(ctx context.Context, id uuid.UUID, qty int) error
	ListByWarehouse(ctx context.Context, warehouseID uuid.UUID, page, limit int) ([]model.Stock, int64, error)
}

type stockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) Create(ctx context.Context, stock *model.Stock) error {
	return GetDB(ctx, r.db).Create(stock).Error
}

func (r *stockRepository) Find(ctx context.Context, warehouseID, itemID uuid.UUID) (*model.Stock, error) {
	var stock model.Stock
	if err := GetDB(ctx, r.db).
		Where("warehouse_id = ? AND item_id = ?", warehouseID, itemID).
		First(&stock).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *stockRepository) FindForUpdate(ctx context.Context, warehouseID, itemID uuid.UUID) (*model.Stock, error) {
	var stock model.Stock
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("warehouse_id = ? AND item_id = ?", warehouseID, itemID).
		First(&stock).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *stockRepository) UpdateQty(ctx context.Context, id uuid.UUID, qty int) error {
	return GetDB(ctx, r.db).Model(&model.Stock{}).Where("id = ?", id).Update("qty", qty).Error
}

func (r *stockRepository) ListByWarehouse(ctx context.Context, warehouseID uuid.UUID, page, limit int) ([]model.Stock, int64, error) {
	var stocks []model.Stock
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Stock{}).Where("warehouse_id = ?", warehouseID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at").Offset(offset).Limit(limit).Find(&stocks).Error; err != nil {
		return nil, 0, err
	}

	return stocks, total, nil
}
