package repository

import (
	"context"

	"bookerp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SalesOrderRepository interface {
	Create(ctx context.Context, so *model.SalesOrder) error
	Update(ctx context.Context, so *model.SalesOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SalesOrder, error)
	FindByIDWithLines(ctx context.Context, id uuid.UUID) (*model.SalesOrder, error)
	CreateLine(ctx context.Context, line *model.SalesOrderLine) error
	ListLines(ctx context.Context, soID uuid.UUID) ([]model.SalesOrderLine, error)
	List(ctx context.Context, status string, page, limit int) ([]model.SalesOrder, int64, error)
	ListNosByPrefix(ctx context.Context, prefix string) ([]string, error)
}

type salesOrderRepository struct {
	db *gorm.DB
}

func NewSalesOrderRepository(db *gorm.DB) SalesOrderRepository {
	return &salesOrderRepository{db: db}
}

func (r *salesOrderRepository) Create(ctx context.Context, so *model.SalesOrder) error {
	return GetDB(ctx, r.db).Create(so).Error
}

func (r *salesOrderRepository) Update(ctx context.Context, so *model.SalesOrder) error {
	return GetDB(ctx, r.db).Save(so).Error
}

func (r *salesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SalesOrder, error) {
	var so model.SalesOrder
	if err := GetDB(ctx, r.db).First(&so, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &so, nil
}

func (r *salesOrderRepository) FindByIDWithLines(ctx context.Context, id uuid.UUID) (*model.SalesOrder, error) {
	var so model.SalesOrder
	if err := GetDB(ctx, r.db).
		Preload("Lines").
		Preload("Lines.Item").
		Preload("Party").
		Preload("Warehouse").
		First(&so, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &so, nil
}

func (r *salesOrderRepository) CreateLine(ctx context.Context, line *model.SalesOrderLine) error {
	return GetDB(ctx, r.db).Create(line).Error
}

func (r *salesOrderRepository) ListLines(ctx context.Context, soID uuid.UUID) ([]model.SalesOrderLine, error) {
	var lines []model.SalesOrderLine
	if err := GetDB(ctx, r.db).Where("so_id = ?", soID).Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *salesOrderRepository) List(ctx context.Context, status string, page, limit int) ([]model.SalesOrder, int64, error) {
	var sos []model.SalesOrder
	var total int64

	db := GetDB(ctx, r.db).Model(&model.SalesOrder{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Party").Preload("Warehouse").
		Order("created_at desc").Offset(offset).Limit(limit).Find(&sos).Error; err != nil {
		return nil, 0, err
	}

	return sos, total, nil
}

func (r *salesOrderRepository) ListNosByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var nos []string
	if err := GetDB(ctx, r.db).Model(&model.SalesOrder{}).
		Where("so_no LIKE ?", prefix+"%").
		Pluck("so_no", &nos).Error; err != nil {
		return nil, err
	}
	return nos, nil
}
