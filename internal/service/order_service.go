package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bookerp/internal/apperr"
	"bookerp/internal/model"
	"bookerp/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DTOs
type CreateSalesOrderRequest struct {
	PartyID     string `json:"party_id" binding:"required"`
	WarehouseID string `json:"warehouse_id" binding:"required"`
	SODate      string `json:"so_date"` // ISO date, defaults to today
	Notes       string `json:"notes"`
}

type AddOrderLineRequest struct {
	ItemID string `json:"item_id" binding:"required"`
	Qty    int    `json:"qty" binding:"required,gt=0"`
}

type CreateChallanRequest struct {
	SOID        string `json:"so_id" binding:"required"`
	Transporter string `json:"transporter"`
	LRNo        string `json:"lr_no"`
}

type OrderLineResponse struct {
	ID              string `json:"id"`
	ItemID          string `json:"item_id"`
	SKU             string `json:"sku,omitempty"`
	Title           string `json:"title,omitempty"`
	Qty             int    `json:"qty"`
	Rate            string `json:"rate"`
	GSTPercent      string `json:"gst_percent"`
	DiscountPercent string `json:"discount_percent"`
}

type SalesOrderResponse struct {
	ID          string              `json:"id"`
	SONo        string              `json:"so_no"`
	PartyID     string              `json:"party_id"`
	PartyName   string              `json:"party_name,omitempty"`
	WarehouseID string              `json:"warehouse_id"`
	SODate      string              `json:"so_date"`
	Status      string              `json:"status"`
	Notes       string              `json:"notes"`
	Lines       []OrderLineResponse `json:"lines,omitempty"`
}

type ChallanResponse struct {
	ID          string `json:"id"`
	DCNo        string `json:"dc_no"`
	SOID        string `json:"so_id"`
	SONo        string `json:"so_no,omitempty"`
	DCDate      string `json:"dc_date"`
	Transporter string `json:"transporter"`
	LRNo        string `json:"lr_no"`
	Status      string `json:"status"`
}

// OrderService drives the SalesOrder -> Challan half of the pipeline.
// Stock is deducted at challan creation (dispatch), never at invoicing.
type OrderService interface {
	CreateSalesOrder(ctx context.Context, userID string, req CreateSalesOrderRequest) (SalesOrderResponse, error)
	AddLine(ctx context.Context, userID, soID string, req AddOrderLineRequest) (SalesOrderResponse, error)
	Approve(ctx context.Context, userID, soID string) (SalesOrderResponse, error)
	Cancel(ctx context.Context, userID, soID string) (SalesOrderResponse, error)
	GetSalesOrder(ctx context.Context, soID string) (SalesOrderResponse, error)
	ListSalesOrders(ctx context.Context, status string, page, limit int) ([]SalesOrderResponse, int64, error)
	CreateChallan(ctx context.Context, userID string, req CreateChallanRequest) (ChallanResponse, error)
	ListChallans(ctx context.Context, status string, page, limit int) ([]ChallanResponse, int64, error)
}

type orderService struct {
	orderRepo     repository.SalesOrderRepository
	challanRepo   repository.ChallanRepository
	itemRepo      repository.ItemRepository
	partyRepo     repository.PartyRepository
	warehouseRepo repository.WarehouseRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	pricing       PricingService
	stock         StockService
	numbering     *Numbering
	events        EventPublisher
}

func NewOrderService(
	orderRepo repository.SalesOrderRepository,
	challanRepo repository.ChallanRepository,
	itemRepo repository.ItemRepository,
	partyRepo repository.PartyRepository,
	warehouseRepo repository.WarehouseRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	pricing PricingService,
	stock StockService,
	numbering *Numbering,
	events EventPublisher,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		challanRepo:   challanRepo,
		itemRepo:      itemRepo,
		partyRepo:     partyRepo,
		warehouseRepo: warehouseRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		pricing:       pricing,
		stock:         stock,
		numbering:     numbering,
		events:        events,
	}
}

func (s *orderService) CreateSalesOrder(ctx context.Context, userID string, req CreateSalesOrderRequest) (SalesOrderResponse, error) {
	partyID, err := uuid.Parse(req.PartyID)
	if err != nil {
		return SalesOrderResponse{}, fmt.Errorf("invalid party_id: %w", err)
	}
	warehouseID, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		return SalesOrderResponse{}, fmt.Errorf("invalid warehouse_id: %w", err)
	}

	soDate := time.Now()
	if req.SODate != "" {
		soDate, err = time.Parse("2006-01-02", req.SODate)
		if err != nil {
			return SalesOrderResponse{}, fmt.Errorf("invalid so_date: %w", err)
		}
	}

	if _, err := s.partyRepo.FindByID(ctx, partyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SalesOrderResponse{}, &apperr.NotFoundError{Entity: "party", Ref: req.PartyID}
		}
		return SalesOrderResponse{}, fmt.Errorf("failed to find party: %w", err)
	}
	if _, err := s.warehouseRepo.FindByID(ctx, warehouseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SalesOrderResponse{}, &apperr.NotFoundError{Entity: "warehouse", Ref: req.WarehouseID}
		}
		return SalesOrderResponse{}, fmt.Errorf("failed to find warehouse: %w", err)
	}

	so := model.SalesOrder{
		PartyID:     partyID,
		WarehouseID: warehouseID,
		SODate:      soDate,
		Status:      model.SOStatusOpen,
		Notes:       req.Notes,
	}

	// release is called only after RunInTx returns so the number mutex
	// stays held across the commit.
	var release func()
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		soNo, rel, numErr := s.numbering.Next(txCtx, PrefixSalesOrder, s.orderRepo)
		if numErr != nil {
			return numErr
		}
		release = rel
		so.SONo = soNo

		if createErr := s.orderRepo.Create(txCtx, &so); createErr != nil {
			return fmt.Errorf("failed to create sales order: %w", createErr)
		}
		return s.audit(txCtx, userID, model.ActionCreateSO, so.ID.String(), so.SONo, req)
	})
	if release != nil {
		release()
	}
	if err != nil {
		return SalesOrderResponse{}, err
	}

	return toSalesOrderResponse(&so), nil
}

// AddLine captures rate, GST and discount at add-time; later item or
// override edits do not touch existing lines.
func (s *orderService) AddLine(ctx context.Context, userID, soID string, req AddOrderLineRequest) (SalesOrderResponse, error) {
	orderID, err := uuid.Parse(soID)
	if err != nil {
		return SalesOrderResponse{}, fmt.Errorf("invalid sales order id: %w", err)
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return SalesOrderResponse{}, fmt.Errorf("invalid item_id: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		so, findErr := s.orderRepo.FindByID(txCtx, orderID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return &apperr.NotFoundError{Entity: "sales order", Ref: soID}
			}
			return fmt.Errorf("failed to find sales order: %w", findErr)
		}
		if so.Status != model.SOStatusOpen {
			return &apperr.InvalidStateError{Entity: "sales order", Current: so.Status, Action: "add line"}
		}

		item, findErr := s.itemRepo.FindByID(txCtx, itemID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return &apperr.NotFoundError{Entity: "item", Ref: req.ItemID}
			}
			return fmt.Errorf("failed to find item: %w", findErr)
		}

		rate, disc, priceErr := s.pricing.ResolvePrice(txCtx, so.PartyID, item)
		if priceErr != nil {
			return priceErr
		}

		line := model.SalesOrderLine{
			SOID:            so.ID,
			ItemID:          item.ID,
			Qty:             req.Qty,
			Rate:            rate,
			GSTPercent:      item.GSTPercent,
			DiscountPercent: disc,
		}
		if createErr := s.orderRepo.CreateLine(txCtx, &line); createErr != nil {
			return fmt.Errorf("failed to create order line: %w", createErr)
		}
		return s.audit(txCtx, userID, model.ActionAddSOLine, so.ID.String(), item.SKU, req)
	})
	if err != nil {
		return SalesOrderResponse{}, err
	}

	return s.GetSalesOrder(ctx, soID)
}

func (s *orderService) Approve(ctx context.Context, userID, soID string) (SalesOrderResponse, error) {
	return s.transition(ctx, userID, soID, model.SOStatusApproved, model.ActionApproveSO, []string{model.SOStatusOpen})
}

func (s *orderService) Cancel(ctx context.Context, userID, soID string) (SalesOrderResponse, error) {
	return s.transition(ctx, userID, soID, model.SOStatusCancelled, model.ActionCancelSO, []string{model.SOStatusOpen, model.SOStatusApproved})
}

func (s *orderService) transition(ctx context.Context, userID, soID, target, action string, from []string) (SalesOrderResponse, error) {
	orderID, err := uuid.Parse(soID)
	if err != nil {
		return SalesOrderResponse{}, fmt.Errorf("invalid sales order id: %w", err)
	}

	var so *model.SalesOrder
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		so, findErr = s.orderRepo.FindByID(txCtx, orderID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return &apperr.NotFoundError{Entity: "sales order", Ref: soID}
			}
			return fmt.Errorf("failed to find sales order: %w", findErr)
		}

		allowed := false
		for _, st := range from {
			if so.Status == st {
				allowed = true
				break
			}
		}
		if !allowed {
			return &apperr.InvalidStateError{Entity: "sales order", Current: so.Status, Action: action}
		}

		so.Status = target
		if updateErr := s.orderRepo.Update(txCtx, so); updateErr != nil {
			return fmt.Errorf("failed to update sales order: %w", updateErr)
		}
		return s.audit(txCtx, userID, action, so.ID.String(), so.SONo, nil)
	})
	if err != nil {
		return SalesOrderResponse{}, err
	}

	return toSalesOrderResponse(so), nil
}

func (s *orderService) GetSalesOrder(ctx context.Context, soID string) (SalesOrderResponse, error) {
	orderID, err := uuid.Parse(soID)
	if err != nil {
		return SalesOrderResponse{}, fmt.Errorf("invalid sales order id: %w", err)
	}

	so, err := s.orderRepo.FindByIDWithLines(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SalesOrderResponse{}, &apperr.NotFoundError{Entity: "sales order", Ref: soID}
		}
		return SalesOrderResponse{}, fmt.Errorf("failed to find sales order: %w", err)
	}

	return toSalesOrderResponse(so), nil
}

func (s *orderService) ListSalesOrders(ctx context.Context, status string, page, limit int) ([]SalesOrderResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	sos, total, err := s.orderRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch sales orders: %w", err)
	}

	res := make([]SalesOrderResponse, 0, len(sos))
	for i := range sos {
		res = append(res, toSalesOrderResponse(&sos[i]))
	}
	return res, total, nil
}

// CreateChallan dispatches an APPROVED sales order: it copies line
// quantities onto a new challan and deducts stock, all-or-nothing. Any
// insufficient line aborts the whole dispatch with no stock kept.
func (s *orderService) CreateChallan(ctx context.Context, userID string, req CreateChallanRequest) (ChallanResponse, error) {
	orderID, err := uuid.Parse(req.SOID)
	if err != nil {
		return ChallanResponse{}, fmt.Errorf("invalid so_id: %w", err)
	}

	var dc model.Challan
	var release func()
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		so, findErr := s.orderRepo.FindByID(txCtx, orderID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return &apperr.NotFoundError{Entity: "sales order", Ref: req.SOID}
			}
			return fmt.Errorf("failed to find sales order: %w", findErr)
		}
		if so.Status != model.SOStatusApproved {
			return &apperr.InvalidStateError{Entity: "sales order", Current: so.Status, Action: "create challan"}
		}

		lines, linesErr := s.orderRepo.ListLines(txCtx, so.ID)
		if linesErr != nil {
			return fmt.Errorf("failed to fetch order lines: %w", linesErr)
		}

		deltas := make([]StockDelta, 0, len(lines))
		for _, ln := range lines {
			deltas = append(deltas, StockDelta{ItemID: ln.ItemID, Delta: -ln.Qty})
		}
		if adjErr := s.stock.AdjustBatch(txCtx, so.WarehouseID, deltas); adjErr != nil {
			return adjErr
		}

		dcNo, rel, numErr := s.numbering.Next(txCtx, PrefixChallan, s.challanRepo)
		if numErr != nil {
			return numErr
		}
		release = rel

		dc = model.Challan{
			DCNo:        dcNo,
			SOID:        so.ID,
			DCDate:      time.Now(),
			Transporter: req.Transporter,
			LRNo:        req.LRNo,
			Status:      model.ChallanStatusOpen,
		}
		if createErr := s.challanRepo.Create(txCtx, &dc); createErr != nil {
			return fmt.Errorf("failed to create challan: %w", createErr)
		}

		for _, ln := range lines {
			// qty only; pricing is re-resolved at invoice time
			dcLine := model.ChallanLine{DCID: dc.ID, ItemID: ln.ItemID, Qty: ln.Qty}
			if lineErr := s.challanRepo.CreateLine(txCtx, &dcLine); lineErr != nil {
				return fmt.Errorf("failed to create challan line: %w", lineErr)
			}
		}

		so.Status = model.SOStatusDispatched
		if updateErr := s.orderRepo.Update(txCtx, so); updateErr != nil {
			return fmt.Errorf("failed to update sales order: %w", updateErr)
		}
		return s.audit(txCtx, userID, model.ActionCreateChallan, dc.ID.String(), dc.DCNo, req)
	})
	if release != nil {
		release()
	}
	if err != nil {
		return ChallanResponse{}, err
	}

	publish(s.events, "challan.created", map[string]interface{}{
		"dc_no": dc.DCNo,
		"so_id": dc.SOID.String(),
	})

	return toChallanResponse(&dc), nil
}

func (s *orderService) ListChallans(ctx context.Context, status string, page, limit int) ([]ChallanResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	dcs, total, err := s.challanRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch challans: %w", err)
	}

	res := make([]ChallanResponse, 0, len(dcs))
	for i := range dcs {
		res = append(res, toChallanResponse(&dcs[i]))
	}
	return res, total, nil
}

func (s *orderService) audit(ctx context.Context, userID, action, entityID, entityName string, payload interface{}) error {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		uid = &parsed
	}
	details := ""
	if payload != nil {
		raw, _ := json.Marshal(payload)
		details = string(raw)
	}
	entry := &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    details,
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func toSalesOrderResponse(so *model.SalesOrder) SalesOrderResponse {
	res := SalesOrderResponse{
		ID:          so.ID.String(),
		SONo:        so.SONo,
		PartyID:     so.PartyID.String(),
		WarehouseID: so.WarehouseID.String(),
		SODate:      so.SODate.Format("2006-01-02"),
		Status:      so.Status,
		Notes:       so.Notes,
	}
	if so.Party != nil {
		res.PartyName = so.Party.Name
	}
	for i := range so.Lines {
		ln := &so.Lines[i]
		lineRes := OrderLineResponse{
			ID:              ln.ID.String(),
			ItemID:          ln.ItemID.String(),
			Qty:             ln.Qty,
			Rate:            ln.Rate.StringFixed(2),
			GSTPercent:      ln.GSTPercent.StringFixed(2),
			DiscountPercent: ln.DiscountPercent.StringFixed(2),
		}
		if ln.Item != nil {
			lineRes.SKU = ln.Item.SKU
			lineRes.Title = ln.Item.Title
		}
		res.Lines = append(res.Lines, lineRes)
	}
	return res
}

func toChallanResponse(dc *model.Challan) ChallanResponse {
	res := ChallanResponse{
		ID:          dc.ID.String(),
		DCNo:        dc.DCNo,
		SOID:        dc.SOID.String(),
		DCDate:      dc.DCDate.Format("2006-01-02"),
		Transporter: dc.Transporter,
		LRNo:        dc.LRNo,
		Status:      dc.Status,
	}
	if dc.SalesOrder != nil {
		res.SONo = dc.SalesOrder.SONo
	}
	return res
}
