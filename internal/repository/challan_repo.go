package repository

import (
	"context"

	"bookerp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChallanRepository interface {
	Create(ctx context.Context, dc *model.Challan) error
	Update(ctx context.Context, dc *model.Challan) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Challan, error)
	CreateLine(ctx context.Context, line *model.ChallanLine) error
	ListLines(ctx context.Context, dcID uuid.UUID) ([]model.ChallanLine, error)
	List(ctx context.Context, status string, page, limit int) ([]model.Challan, int64, error)
	ListNosByPrefix(ctx context.Context, prefix string) ([]string, error)
}

type challanRepository struct {
	db *gorm.DB
}

func NewChallanRepository(db *gorm.DB) ChallanRepository {
	return &challanRepository{db: db}
}

func (r *challanRepository) Create(ctx context.Context, dc *model.Challan) error {
	return GetDB(ctx, r.db).Create(dc).Error
}

func (r *challanRepository) Update(ctx context.Context, dc *model.Challan) error {
	return GetDB(ctx, r.db).Save(dc).Error
}

func (r *challanRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Challan, error) {
	var dc model.Challan
	if err := GetDB(ctx, r.db).First(&dc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &dc, nil
}

func (r *challanRepository) CreateLine(ctx context.Context, line *model.ChallanLine) error {
	return GetDB(ctx, r.db).Create(line).Error
}

func (r *challanRepository) ListLines(ctx context.Context, dcID uuid.UUID) ([]model.ChallanLine, error) {
	var lines []model.ChallanLine
	if err := GetDB(ctx, r.db).Where("dc_id = ?", dcID).Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *challanRepository) List(ctx context.Context, status string, page, limit int) ([]model.Challan, int64, error) {
	var dcs []model.Challan
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Challan{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("SalesOrder").Preload("SalesOrder.Party").
		Order("created_at desc").Offset(offset).Limit(limit).Find(&dcs).Error; err != nil {
		return nil, 0, err
	}

	return dcs, total, nil
}

func (r *challanRepository) ListNosByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var nos []string
	if err := GetDB(ctx, r.db).Model(&model.Challan{}).
		Where("dc_no LIKE ?", prefix+"%").
		Pluck("dc_no", &nos).Error; err != nil {
		return nil, err
	}
	return nos, nil
}
