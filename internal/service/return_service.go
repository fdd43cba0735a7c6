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
type CreateReturnRequest struct {
	PartyID     string `json:"party_id" binding:"required"`
	WarehouseID string `json:"warehouse_id" binding:"required"`
	ReturnDate  string `json:"return_date"` // ISO date, defaults to today
	Reason      string `json:"reason"`
	Notes       string `json:"notes"`
}

type AddReturnLineRequest struct {
	ItemID string `json:"item_id" binding:"required"`
	Qty    int    `json:"qty" binding:"required,gt=0"`
}

type ReturnLineResponse struct {
	ID     string `json:"id"`
	ItemID string `json:"item_id"`
	SKU    string `json:"sku,omitempty"`
	Qty    int    `json:"qty"`
}

type ReturnNoteResponse struct {
	ID          string               `json:"id"`
	RNNo        string               `json:"rn_no"`
	PartyID     string               `json:"party_id"`
	PartyName   string               `json:"party_name,omitempty"`
	WarehouseID string               `json:"warehouse_id"`
	ReturnDate  string               `json:"return_date"`
	Reason      string               `json:"reason"`
	Notes       string               `json:"notes"`
	Status      string               `json:"status"`
	Lines       []ReturnLineResponse `json:"lines,omitempty"`
}

// ReturnService manages return notes. Independent of the sales pipeline;
// posting adds quantities back to stock and is terminal.
type ReturnService interface {
	Create(ctx context.Context, userID string, req CreateReturnRequest) (ReturnNoteResponse, error)
	AddLine(ctx context.Context, userID, returnID string, req AddReturnLineRequest) (ReturnNoteResponse, error)
	Post(ctx context.Context, userID, returnID string) (ReturnNoteResponse, error)
	Get(ctx context.Context, returnID string) (ReturnNoteResponse, error)
	List(ctx context.Context, status string, page, limit int) ([]ReturnNoteResponse, int64, error)
}

type returnService struct {
	returnRepo    repository.ReturnRepository
	itemRepo      repository.ItemRepository
	partyRepo     repository.PartyRepository
	warehouseRepo repository.WarehouseRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	stock         StockService
	numbering     *Numbering
	events        EventPublisher
}

func NewReturnService(
	returnRepo repository.ReturnRepository,
	itemRepo repository.ItemRepository,
	partyRepo repository.PartyRepository,
	warehouseRepo repository.WarehouseRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	stock StockService,
	numbering *Numbering,
	events EventPublisher,
) ReturnService {
	return &returnService{
		returnRepo:    returnRepo,
		itemRepo:      itemRepo,
		partyRepo:     partyRepo,
		warehouseRepo: warehouseRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		stock:         stock,
		numbering:     numbering,
		events:        events,
	}
}

func (s *returnService) Create(ctx context.Context, userID string, req CreateReturnRequest) (ReturnNoteResponse, error) {
	partyID, err := uuid.Parse(req.PartyID)
	if err != nil {
		return ReturnNoteResponse{}, fmt.Errorf("invalid party_id: %w", err)
	}
	warehouseID, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		return ReturnNoteResponse{}, fmt.Errorf("invalid warehouse_id: %w", err)
	}

	returnDate := time.Now()
	if req.ReturnDate != "" {
		returnDate, err = time.Parse("2006-01-02", req.ReturnDate)
		if err != nil {
			return ReturnNoteResponse{}, fmt.Errorf("invalid return_date: %w", err)
		}
	}
	reason := req.Reason
	if reason == "" {
		reason = "Unsold"
	}

	if _, err := s.partyRepo.FindByID(ctx, partyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReturnNoteResponse{}, &apperr.NotFoundError{Entity: "party", Ref: req.PartyID}
		}
		return ReturnNoteResponse{}, fmt.Errorf("failed to find party: %w", err)
	}
	if _, err := s.warehouseRepo.FindByID(ctx, warehouseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReturnNoteResponse{}, &apperr.NotFoundError{Entity: "warehouse", Ref: req.WarehouseID}
		}
		return ReturnNoteResponse{}, fmt.Errorf("failed to find warehouse: %w", err)
	}

	rn := model.ReturnNote{
		PartyID:     partyID,
		WarehouseID: warehouseID,
		ReturnDate:  returnDate,
		Reason:      reason,
		Notes:       req.Notes,
		Status:      model.ReturnStatusOpen,
	}

	var release func()
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		rnNo, rel, numErr := s.numbering.Next(txCtx, PrefixReturn, s.returnRepo)
		if numErr != nil {
			return numErr
		}
		release = rel
		rn.RNNo = rnNo

		if createErr := s.returnRepo.Create(txCtx, &rn); createErr != nil {
			return fmt.Errorf("failed to create return note: %w", createErr)
		}
		return s.audit(txCtx, userID, model.ActionCreateReturn, rn.ID.String(), rn.RNNo, req)
	})
	if release != nil {
		release()
	}
	if err != nil {
		return ReturnNoteResponse{}, err
	}

	return toReturnResponse(&rn, nil), nil
}

func (s *returnService) AddLine(ctx context.Context, userID, returnID string, req AddReturnLineRequest) (ReturnNoteResponse, error) {
	rnID, err := uuid.Parse(returnID)
	if err != nil {
		return ReturnNoteResponse{}, fmt.Errorf("invalid return note id: %w", err)
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return ReturnNoteResponse{}, fmt.Errorf("invalid item_id: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		rn, findErr := s.returnRepo.FindByID(txCtx, rnID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return &apperr.NotFoundError{Entity: "return note", Ref: returnID}
			}
			return fmt.Errorf("failed to find return note: %w", findErr)
		}
		if rn.Status != model.ReturnStatusOpen {
			return &apperr.InvalidStateError{Entity: "return note", Current: rn.Status, Action: "add line"}
		}

		item, findErr := s.itemRepo.FindByID(txCtx, itemID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return &apperr.NotFoundError{Entity: "item", Ref: req.ItemID}
			}
			return fmt.Errorf("failed to find item: %w", findErr)
		}

		line := model.ReturnLine{ReturnID: rn.ID, ItemID: item.ID, Qty: req.Qty}
		if createErr := s.returnRepo.CreateLine(txCtx, &line); createErr != nil {
			return fmt.Errorf("failed to create return line: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return ReturnNoteResponse{}, err
	}

	return s.Get(ctx, returnID)
}

// Post adds every line's quantity back to stock and marks the note
// POSTED. Terminal; there is no un-post.
func (s *returnService) Post(ctx context.Context, userID, returnID string) (ReturnNoteResponse, error) {
	rnID, err := uuid.Parse(returnID)
	if err != nil {
		return ReturnNoteResponse{}, fmt.Errorf("invalid return note id: %w", err)
	}

	var rn *model.ReturnNote
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		rn, findErr = s.returnRepo.FindByID(txCtx, rnID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return &apperr.NotFoundError{Entity: "return note", Ref: returnID}
			}
			return fmt.Errorf("failed to find return note: %w", findErr)
		}
		if rn.Status != model.ReturnStatusOpen {
			return &apperr.InvalidStateError{Entity: "return note", Current: rn.Status, Action: "post"}
		}

		lines, linesErr := s.returnRepo.ListLines(txCtx, rn.ID)
		if linesErr != nil {
			return fmt.Errorf("failed to fetch return lines: %w", linesErr)
		}

		deltas := make([]StockDelta, 0, len(lines))
		for _, ln := range lines {
			deltas = append(deltas, StockDelta{ItemID: ln.ItemID, Delta: ln.Qty})
		}
		if adjErr := s.stock.AdjustBatch(txCtx, rn.WarehouseID, deltas); adjErr != nil {
			return adjErr
		}

		rn.Status = model.ReturnStatusPosted
		if updateErr := s.returnRepo.Update(txCtx, rn); updateErr != nil {
			return fmt.Errorf("failed to update return note: %w", updateErr)
		}
		return s.audit(txCtx, userID, model.ActionPostReturn, rn.ID.String(), rn.RNNo, nil)
	})
	if err != nil {
		return ReturnNoteResponse{}, err
	}

	publish(s.events, "return.posted", map[string]interface{}{
		"rn_no":        rn.RNNo,
		"warehouse_id": rn.WarehouseID.String(),
	})

	return s.Get(ctx, returnID)
}

func (s *returnService) Get(ctx context.Context, returnID string) (ReturnNoteResponse, error) {
	rnID, err := uuid.Parse(returnID)
	if err != nil {
		return ReturnNoteResponse{}, fmt.Errorf("invalid return note id: %w", err)
	}

	rn, err := s.returnRepo.FindByID(ctx, rnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReturnNoteResponse{}, &apperr.NotFoundError{Entity: "return note", Ref: returnID}
		}
		return ReturnNoteResponse{}, fmt.Errorf("failed to find return note: %w", err)
	}

	lines, err := s.returnRepo.ListLines(ctx, rn.ID)
	if err != nil {
		return ReturnNoteResponse{}, fmt.Errorf("failed to fetch return lines: %w", err)
	}

	return toReturnResponse(rn, lines), nil
}

func (s *returnService) List(ctx context.Context, status string, page, limit int) ([]ReturnNoteResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	rns, total, err := s.returnRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch return notes: %w", err)
	}

	res := make([]ReturnNoteResponse, 0, len(rns))
	for i := range rns {
		res = append(res, toReturnResponse(&rns[i], nil))
	}
	return res, total, nil
}

func (s *returnService) audit(ctx context.Context, userID, action, entityID, entityName string, payload interface{}) error {
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

func toReturnResponse(rn *model.ReturnNote, lines []model.ReturnLine) ReturnNoteResponse {
	res := ReturnNoteResponse{
		ID:          rn.ID.String(),
		RNNo:        rn.RNNo,
		PartyID:     rn.PartyID.String(),
		WarehouseID: rn.WarehouseID.String(),
		ReturnDate:  rn.ReturnDate.Format("2006-01-02"),
		Reason:      rn.Reason,
		Notes:       rn.Notes,
		Status:      rn.Status,
	}
	if rn.Party != nil {
		res.PartyName = rn.Party.Name
	}
	for i := range lines {
		ln := &lines[i]
		lineRes := ReturnLineResponse{
			ID:     ln.ID.String(),
			ItemID: ln.ItemID.String(),
			Qty:    ln.Qty,
		}
		if ln.Item != nil {
			lineRes.SKU = ln.Item.SKU
		}
		res.Lines = append(res.Lines, lineRes)
	}
	return res
}
