package repository

import (
	"context"

	"bookerp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WarehouseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Warehouse, error)
	List(ctx context.Context) ([]model.Warehouse, error)
}

type warehouseRepository struct {
	db *gorm.DB
}

func NewWarehouseRepository(db *gorm.DB) WarehouseRepository {
	return &warehouseRepository{db: db}
}

func (r *warehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Warehouse, error) {
	var wh model.Warehouse
	if err := GetDB(ctx, r.db).First(&wh, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &wh, nil
}

func (r *warehouseRepository) List(ctx context.Context) ([]model.Warehouse, error) {
	var whs []model.Warehouse
	if err := GetDB(ctx, r.db).Order("name").Find(&whs).Error; err != nil {
		return nil, err
	}
	return whs, nil
}
