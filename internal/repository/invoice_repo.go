package repository

import (
	"context"
	"time"

	"bookerp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceListFilter narrows invoice listings.
type InvoiceListFilter struct {
	Status    string
	InvoiceNo string
	PartyID   *uuid.UUID
	Page      int
	Limit     int
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	Update(ctx context.Context, invoice *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	FindByIDWithLines(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	CreateLine(ctx context.Context, line *model.InvoiceLine) error
	ListLines(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceLine, error)
	List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error)
	ListByParty(ctx context.Context, partyID uuid.UUID, from, to *time.Time) ([]model.Invoice, error)
	ListNosByPrefix(ctx context.Context, prefix string) ([]string, error)
	CreatePayment(ctx context.Context, payment *model.Payment) error
	ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]model.Payment, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Create(invoice).Error
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Save(invoice).Error
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByIDWithLines(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).
		Preload("Lines").
		Preload("Lines.Item").
		Preload("Payments").
		Preload("Party").
		Preload("Warehouse").
		First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) CreateLine(ctx context.Context, line *model.InvoiceLine) error {
	return GetDB(ctx, r.db).Create(line).Error
}

func (r *invoiceRepository) ListLines(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceLine, error) {
	var lines []model.InvoiceLine
	if err := GetDB(ctx, r.db).Where("invoice_id = ?", invoiceID).Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Invoice{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.InvoiceNo != "" {
		db = db.Where("invoice_no ILIKE ?", "%"+filter.InvoiceNo+"%")
	}
	if filter.PartyID != nil {
		db = db.Where("party_id = ?", *filter.PartyID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := db.Preload("Party").
		Order("created_at desc").Offset(offset).Limit(filter.Limit).Find(&invoices).Error; err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

func (r *invoiceRepository) ListByParty(ctx context.Context, partyID uuid.UUID, from, to *time.Time) ([]model.Invoice, error) {
	db := GetDB(ctx, r.db).Where("party_id = ?", partyID)
	if from != nil {
		db = db.Where("invoice_date >= ?", *from)
	}
	if to != nil {
		db = db.Where("invoice_date <= ?", *to)
	}

	var invoices []model.Invoice
	if err := db.Order("invoice_date desc").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) ListNosByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var nos []string
	if err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("invoice_no LIKE ?", prefix+"%").
		Pluck("invoice_no", &nos).Error; err != nil {
		return nil, err
	}
	return nos, nil
}

func (r *invoiceRepository) CreatePayment(ctx context.Context, payment *model.Payment) error {
	return GetDB(ctx, r.db).Create(payment).Error
}

func (r *invoiceRepository) ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	if err := GetDB(ctx, r.db).Where("invoice_id = ?", invoiceID).Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}
