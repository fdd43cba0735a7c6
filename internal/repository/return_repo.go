package repository

import (
	"context"

	"bookerp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReturnRepository interface {
	Create(ctx context.Context, rn *model.ReturnNote) error
	Update(ctx context.Context, rn *model.ReturnNote) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ReturnNote, error)
	CreateLine(ctx context.Context, line *model.ReturnLine) error
	ListLines(ctx context.Context, returnID uuid.UUID) ([]model.ReturnLine, error)
	List(ctx context.Context, status string, page, limit int) ([]model.ReturnNote, int64, error)
	ListNosByPrefix(ctx context.Context, prefix string) ([]string, error)
}

type returnRepository struct {
	db *gorm.DB
}

func NewReturnRepository(db *gorm.DB) ReturnRepository {
	return &returnRepository{db: db}
}

func (r *returnRepository) Create(ctx context.Context, rn *model.ReturnNote) error {
	return GetDB(ctx, r.db).Create(rn).Error
}

func (r *returnRepository) Update(ctx context.Context, rn *model.ReturnNote) error {
	return GetDB(ctx, r.db).Save(rn).Error
}

func (r *returnRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ReturnNote, error) {
	var rn model.ReturnNote
	if err := GetDB(ctx, r.db).First(&rn, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rn, nil
}

func (r *returnRepository) CreateLine(ctx context.Context, line *model.ReturnLine) error {
	return GetDB(ctx, r.db).Create(line).Error
}

func (r *returnRepository) ListLines(ctx context.Context, returnID uuid.UUID) ([]model.ReturnLine, error) {
	var lines []model.ReturnLine
	if err := GetDB(ctx, r.db).Where("return_id = ?", returnID).Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *returnRepository) List(ctx context.Context, status string, page, limit int) ([]model.ReturnNote, int64, error) {
	var rns []model.ReturnNote
	var total int64

	db := GetDB(ctx, r.db).Model(&model.ReturnNote{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Party").Preload("Warehouse").
		Order("created_at desc").Offset(offset).Limit(limit).Find(&rns).Error; err != nil {
		return nil, 0, err
	}

	return rns, total, nil
}

func (r *returnRepository) ListNosByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var nos []string
	if err := GetDB(ctx, r.db).Model(&model.ReturnNote{}).
		Where("rn_no LIKE ?", prefix+"%").
		Pluck("rn_no", &nos).Error; err != nil {
		return nil, err
	}
	return nos, nil
}
