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
	"gorm.io/gorm"
)

// DTOs
type AdjustStockRequest struct {
	WarehouseID string `json:"warehouse_id" binding:"required"`
	ItemID      string `json:"item_id" binding:"required"`
	Delta       int    `json:"delta" binding:"required"`
}

type StockResponse struct {
	ID          string `json:"id"`
	WarehouseID string `json:"warehouse_id"`
	ItemID      string `json:"item_id"`
	Qty         int    `json:"qty"`
}

// StockDelta is one quantity change within a batch adjustment.
type StockDelta struct {
	ItemID uuid.UUID
	Delta  int
}

// StockService is the stock ledger: the only owner of Stock.qty mutation.
// Every adjustment holds the row lock for the duration of the
// check-then-write so concurrent dispatches cannot lose updates.
type StockService interface {
	GetOrCreate(ctx context.Context, warehouseID, itemID uuid.UUID) (*model.Stock, error)
	Adjust(ctx context.Context, warehouseID, itemID uuid.UUID, delta int) (*model.Stock, error)
	// AdjustBatch folds deltas per item, locks every touched row,
	// validates the net change, then applies. If any item would go
	// negative nothing is applied.
	AdjustBatch(ctx context.Context, warehouseID uuid.UUID, deltas []StockDelta) error
	AdjustManual(ctx context.Context, userID string, req AdjustStockRequest) (StockResponse, error)
	ListByWarehouse(ctx context.Context, warehouseID string, page, limit int) ([]StockResponse, int64, error)
}

type stockService struct {
	stockRepo repository.StockRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	events    EventPublisher
}

func NewStockService(
	stockRepo repository.StockRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	events EventPublisher,
) StockService {
	return &stockService{
		stockRepo: stockRepo,
		auditRepo: auditRepo,
		txManager: txManager,
		events:    events,
	}
}

// GetOrCreate returns the stock row for (warehouse,item), creating a
// zero-qty row if absent. Idempotent: a concurrent create losing the
// unique-index race falls back to reading the winner's row.
func (s *stockService) GetOrCreate(ctx context.Context, warehouseID, itemID uuid.UUID) (*model.Stock, error) {
	stock, err := s.stockRepo.Find(ctx, warehouseID, itemID)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to read stock: %w", err)
	}

	fresh := &model.Stock{WarehouseID: warehouseID, ItemID: itemID, Qty: 0}
	if createErr := s.stockRepo.Create(ctx, fresh); createErr != nil {
		stock, err = s.stockRepo.Find(ctx, warehouseID, itemID)
		if err != nil {
			return nil, fmt.Errorf("failed to create stock row: %w", createErr)
		}
		return stock, nil
	}
	return fresh, nil
}

func (s *stockService) Adjust(ctx context.Context, warehouseID, itemID uuid.UUID, delta int) (*model.Stock, error) {
	if _, err := s.GetOrCreate(ctx, warehouseID, itemID); err != nil {
		return nil, err
	}

	stock, err := s.stockRepo.FindForUpdate(ctx, warehouseID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock stock row: %w", err)
	}

	newQty := stock.Qty + delta
	if newQty < 0 {
		return nil, &apperr.InsufficientStockError{
			ItemID:    itemID,
			Available: stock.Qty,
			Requested: -delta,
		}
	}

	if err := s.stockRepo.UpdateQty(ctx, stock.ID, newQty); err != nil {
		return nil, fmt.Errorf("failed to update stock qty: %w", err)
	}
	stock.Qty = newQty
	return stock, nil
}

func (s *stockService) AdjustBatch(ctx context.Context, warehouseID uuid.UUID, deltas []StockDelta) error {
	// A document can carry the same item on several lines. Fold those
	// into one net delta per item so each row is read and written once.
	order := make([]uuid.UUID, 0, len(deltas))
	net := make(map[uuid.UUID]int, len(deltas))
	for _, d := range deltas {
		if _, seen := net[d.ItemID]; !seen {
			order = append(order, d.ItemID)
		}
		net[d.ItemID] += d.Delta
	}

	type pending struct {
		stockID uuid.UUID
		newQty  int
	}
	updates := make([]pending, 0, len(order))

	for _, itemID := range order {
		delta := net[itemID]
		if _, err := s.GetOrCreate(ctx, warehouseID, itemID); err != nil {
			return err
		}
		stock, err := s.stockRepo.FindForUpdate(ctx, warehouseID, itemID)
		if err != nil {
			return fmt.Errorf("failed to lock stock row: %w", err)
		}

		newQty := stock.Qty + delta
		if newQty < 0 {
			return &apperr.InsufficientStockError{
				ItemID:    itemID,
				Available: stock.Qty,
				Requested: -delta,
			}
		}
		updates = append(updates, pending{stockID: stock.ID, newQty: newQty})
	}

	for _, u := range updates {
		if err := s.stockRepo.UpdateQty(ctx, u.stockID, u.newQty); err != nil {
			return fmt.Errorf("failed to update stock qty: %w", err)
		}
	}
	return nil
}

func (s *stockService) AdjustManual(ctx context.Context, userID string, req AdjustStockRequest) (StockResponse, error) {
	warehouseID, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		return StockResponse{}, fmt.Errorf("invalid warehouse_id: %w", err)
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return StockResponse{}, fmt.Errorf("invalid item_id: %w", err)
	}

	var stock *model.Stock
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var adjErr error
		stock, adjErr = s.Adjust(txCtx, warehouseID, itemID, req.Delta)
		if adjErr != nil {
			return adjErr
		}

		var uid *uuid.UUID
		if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
			uid = &parsed
		}
		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:   uid,
			Action:   model.ActionAdjustStock,
			EntityID: stock.ID.String(),
			Details:  string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return StockResponse{}, err
	}

	publish(s.events, "stock.adjusted", map[string]interface{}{
		"warehouse_id": warehouseID.String(),
		"item_id":      itemID.String(),
		"qty":          stock.Qty,
	})

	return toStockResponse(stock), nil
}

func (s *stockService) ListByWarehouse(ctx context.Context, warehouseID string, page, limit int) ([]StockResponse, int64, error) {
	whID, err := uuid.Parse(warehouseID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid warehouse_id: %w", err)
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	stocks, total, err := s.stockRepo.ListByWarehouse(ctx, whID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]StockResponse, 0, len(stocks))
	for i := range stocks {
		res = append(res, toStockResponse(&stocks[i]))
	}
	return res, total, nil
}

func toStockResponse(stock *model.Stock) StockResponse {
	return StockResponse{
		ID:          stock.ID.String(),
		WarehouseID: stock.WarehouseID.String(),
		ItemID:      stock.ItemID.String(),
		Qty:         stock.Qty,
	}
}
