package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bookerp/internal/apperr"
	"bookerp/internal/model"
	"bookerp/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs
type CreateItemRequest struct {
	SKU        string `json:"sku" binding:"required"`
	Title      string `json:"title" binding:"required"`
	ClassName  string `json:"class_name"`
	Subject    string `json:"subject"`
	Board      string `json:"board"`
	Year       int    `json:"year"`
	Edition    string `json:"edition"`
	ISBN       string `json:"isbn"`
	HSN        string `json:"hsn"`
	Barcode    string `json:"barcode"`
	GSTPercent string `json:"gst_percent"`
	MRP        string `json:"mrp"`
	SalePrice  string `json:"sale_price"`
}

type UpdateItemRequest struct {
	Title      string `json:"title" binding:"required"`
	ClassName  string `json:"class_name"`
	Subject    string `json:"subject"`
	Board      string `json:"board"`
	Year       int    `json:"year"`
	Edition    string `json:"edition"`
	ISBN       string `json:"isbn"`
	HSN        string `json:"hsn"`
	Barcode    string `json:"barcode"`
	GSTPercent string `json:"gst_percent"`
	MRP        string `json:"mrp"`
	SalePrice  string `json:"sale_price"`
}

type ItemResponse struct {
	ID         string `json:"id"`
	SKU        string `json:"sku"`
	Title      string `json:"title"`
	ClassName  string `json:"class_name"`
	Subject    string `json:"subject"`
	Board      string `json:"board"`
	Year       int    `json:"year"`
	Edition    string `json:"edition"`
	ISBN       string `json:"isbn"`
	HSN        string `json:"hsn"`
	Barcode    string `json:"barcode"`
	GSTPercent string `json:"gst_percent"`
	MRP        string `json:"mrp"`
	SalePrice  string `json:"sale_price"`
}

type ItemService interface {
	Create(ctx context.Context, userID string, req CreateItemRequest) (ItemResponse, error)
	Update(ctx context.Context, userID, id string, req UpdateItemRequest) (ItemResponse, error)
	Get(ctx context.Context, id string) (ItemResponse, error)
	List(ctx context.Context, page, limit int, search string) ([]ItemResponse, int64, error)
}

type itemService struct {
	itemRepo  repository.ItemRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewItemService(
	itemRepo repository.ItemRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) ItemService {
	return &itemService{itemRepo: itemRepo, auditRepo: auditRepo, txManager: txManager}
}

func parseMoney(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", field, err)
	}
	return d, nil
}

// Create registers a catalog item. SKU is immutable identity: a second
// item with the same SKU fails with DuplicateKeyError.
func (s *itemService) Create(ctx context.Context, userID string, req CreateItemRequest) (ItemResponse, error) {
	gst, err := parseMoney("gst_percent", req.GSTPercent)
	if err != nil {
		return ItemResponse{}, err
	}
	mrp, err := parseMoney("mrp", req.MRP)
	if err != nil {
		return ItemResponse{}, err
	}
	salePrice, err := parseMoney("sale_price", req.SalePrice)
	if err != nil {
		return ItemResponse{}, err
	}

	if _, err := s.itemRepo.FindBySKU(ctx, req.SKU); err == nil {
		return ItemResponse{}, &apperr.DuplicateKeyError{Key: "sku", Value: req.SKU}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ItemResponse{}, fmt.Errorf("failed to check sku: %w", err)
	}

	edition := req.Edition
	if edition == "" {
		edition = "1st"
	}

	item := model.Item{
		SKU:        req.SKU,
		Title:      req.Title,
		ClassName:  req.ClassName,
		Subject:    req.Subject,
		Board:      req.Board,
		Year:       req.Year,
		Edition:    edition,
		ISBN:       req.ISBN,
		HSN:        req.HSN,
		Barcode:    req.Barcode,
		GSTPercent: gst,
		MRP:        mrp,
		SalePrice:  salePrice,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.itemRepo.Create(txCtx, &item); createErr != nil {
			return fmt.Errorf("failed to create item: %w", createErr)
		}

		var uid *uuid.UUID
		if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
			uid = &parsed
		}
		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     uid,
			Action:     model.ActionCreateItem,
			EntityID:   item.ID.String(),
			EntityName: item.Title,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return ItemResponse{}, err
	}

	return toItemResponse(&item), nil
}

func (s *itemService) Update(ctx context.Context, userID, id string, req UpdateItemRequest) (ItemResponse, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return ItemResponse{}, fmt.Errorf("invalid item id: %w", err)
	}

	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ItemResponse{}, &apperr.NotFoundError{Entity: "item", Ref: id}
		}
		return ItemResponse{}, fmt.Errorf("failed to find item: %w", err)
	}

	gst, err := parseMoney("gst_percent", req.GSTPercent)
	if err != nil {
		return ItemResponse{}, err
	}
	mrp, err := parseMoney("mrp", req.MRP)
	if err != nil {
		return ItemResponse{}, err
	}
	salePrice, err := parseMoney("sale_price", req.SalePrice)
	if err != nil {
		return ItemResponse{}, err
	}

	// SKU stays as-is; price and GST edits do not touch issued document lines.
	item.Title = req.Title
	item.ClassName = req.ClassName
	item.Subject = req.Subject
	item.Board = req.Board
	item.Year = req.Year
	item.Edition = req.Edition
	item.ISBN = req.ISBN
	item.HSN = req.HSN
	item.Barcode = req.Barcode
	item.GSTPercent = gst
	item.MRP = mrp
	item.SalePrice = salePrice

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.itemRepo.Update(txCtx, item); updateErr != nil {
			return fmt.Errorf("failed to update item: %w", updateErr)
		}

		var uid *uuid.UUID
		if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
			uid = &parsed
		}
		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     uid,
			Action:     model.ActionUpdateItem,
			EntityID:   item.ID.String(),
			EntityName: item.Title,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return ItemResponse{}, err
	}

	return toItemResponse(item), nil
}

func (s *itemService) Get(ctx context.Context, id string) (ItemResponse, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return ItemResponse{}, fmt.Errorf("invalid item id: %w", err)
	}

	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ItemResponse{}, &apperr.NotFoundError{Entity: "item", Ref: id}
		}
		return ItemResponse{}, fmt.Errorf("failed to find item: %w", err)
	}
	return toItemResponse(item), nil
}

func (s *itemService) List(ctx context.Context, page, limit int, search string) ([]ItemResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	items, total, err := s.itemRepo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, err
	}

	res := make([]ItemResponse, 0, len(items))
	for i := range items {
		res = append(res, toItemResponse(&items[i]))
	}
	return res, total, nil
}

func toItemResponse(item *model.Item) ItemResponse {
	return ItemResponse{
		ID:         item.ID.String(),
		SKU:        item.SKU,
		Title:      item.Title,
		ClassName:  item.ClassName,
		Subject:    item.Subject,
		Board:      item.Board,
		Year:       item.Year,
		Edition:    item.Edition,
		ISBN:       item.ISBN,
		HSN:        item.HSN,
		Barcode:    item.Barcode,
		GSTPercent: item.GSTPercent.StringFixed(2),
		MRP:        item.MRP.StringFixed(2),
		SalePrice:  item.SalePrice.StringFixed(2),
	}
}
