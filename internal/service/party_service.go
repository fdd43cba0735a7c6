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

type CreatePartyRequest struct {
	Name             string `json:"name" binding:"required"`
	Type             string `json:"type"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	GSTIN            string `json:"gstin"`
	BillingAddress   string `json:"billing_address"`
	ShippingAddress  string `json:"shipping_address"`
	State            string `json:"state"`
	CreditLimit      string `json:"credit_limit"`
	PaymentTermsDays int    `json:"payment_terms_days"`
}

type UpdatePartyRequest struct {
	Name             string `json:"name" binding:"required"`
	Type             string `json:"type"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	GSTIN            string `json:"gstin"`
	BillingAddress   string `json:"billing_address"`
	ShippingAddress  string `json:"shipping_address"`
	State            string `json:"state"`
	CreditLimit      string `json:"credit_limit"`
	PaymentTermsDays int    `json:"payment_terms_days"`
	IsBlocked        bool   `json:"is_blocked"`
}

type SetPartyPriceRequest struct {
	ItemID          string `json:"item_id" binding:"required"`
	DiscountPercent string `json:"discount_percent" binding:"required"`
}

type PartyResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	GSTIN            string `json:"gstin"`
	BillingAddress   string `json:"billing_address"`
	ShippingAddress  string `json:"shipping_address"`
	State            string `json:"state"`
	CreditLimit      string `json:"credit_limit"`
	PaymentTermsDays int    `json:"payment_terms_days"`
	IsBlocked        bool   `json:"is_blocked"`
}

type PartyPriceResponse struct {
	PartyID         string `json:"party_id"`
	ItemID          string `json:"item_id"`
	DiscountPercent string `json:"discount_percent"`
}

type PartyService interface {
	Create(ctx context.Context, userID string, req CreatePartyRequest) (PartyResponse, error)
	Update(ctx context.Context, userID, id string, req UpdatePartyRequest) (PartyResponse, error)
	Get(ctx context.Context, id string) (PartyResponse, error)
	List(ctx context.Context, page, limit int, search string) ([]PartyResponse, int64, error)
	SetPrice(ctx context.Context, userID, partyID string, req SetPartyPriceRequest) (PartyPriceResponse, error)
}

type partyService struct {
	partyRepo repository.PartyRepository
	itemRepo  repository.ItemRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewPartyService(
	partyRepo repository.PartyRepository,
	itemRepo repository.ItemRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) PartyService {
	return &partyService{
		partyRepo: partyRepo,
		itemRepo:  itemRepo,
		auditRepo: auditRepo,
		txManager: txManager,
	}
}

func (s *partyService) Create(ctx context.Context, userID string, req CreatePartyRequest) (PartyResponse, error) {
	creditLimit, err := parseMoney("credit_limit", req.CreditLimit)
	if err != nil {
		return PartyResponse{}, err
	}

	partyType := req.Type
	if partyType == "" {
		partyType = "DISTRIBUTOR"
	}
	terms := req.PaymentTermsDays
	if terms == 0 {
		terms = 30
	}

	party := model.Party{
		Name:             req.Name,
		Type:             partyType,
		Phone:            req.Phone,
		Email:            req.Email,
		GSTIN:            req.GSTIN,
		BillingAddress:   req.BillingAddress,
		ShippingAddress:  req.ShippingAddress,
		State:            req.State,
		CreditLimit:      creditLimit,
		PaymentTermsDays: terms,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.partyRepo.Create(txCtx, &party); createErr != nil {
			return fmt.Errorf("failed to create party: %w", createErr)
		}
		return s.audit(txCtx, userID, model.ActionCreateParty, party.ID.String(), party.Name, req)
	})
	if err != nil {
		return PartyResponse{}, err
	}

	return toPartyResponse(&party), nil
}

func (s *partyService) Update(ctx context.Context, userID, id string, req UpdatePartyRequest) (PartyResponse, error) {
	partyID, err := uuid.Parse(id)
	if err != nil {
		return PartyResponse{}, fmt.Errorf("invalid party id: %w", err)
	}

	party, err := s.partyRepo.FindByID(ctx, partyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PartyResponse{}, &apperr.NotFoundError{Entity: "party", Ref: id}
		}
		return PartyResponse{}, fmt.Errorf("failed to find party: %w", err)
	}

	creditLimit, err := parseMoney("credit_limit", req.CreditLimit)
	if err != nil {
		return PartyResponse{}, err
	}

	party.Name = req.Name
	if req.Type != "" {
		party.Type = req.Type
	}
	party.Phone = req.Phone
	party.Email = req.Email
	party.GSTIN = req.GSTIN
	party.BillingAddress = req.BillingAddress
	party.ShippingAddress = req.ShippingAddress
	party.State = req.State
	party.CreditLimit = creditLimit
	party.PaymentTermsDays = req.PaymentTermsDays
	party.IsBlocked = req.IsBlocked

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.partyRepo.Update(txCtx, party); updateErr != nil {
			return fmt.Errorf("failed to update party: %w", updateErr)
		}
		return s.audit(txCtx, userID, model.ActionUpdateParty, party.ID.String(), party.Name, req)
	})
	if err != nil {
		return PartyResponse{}, err
	}

	return toPartyResponse(party), nil
}

func (s *partyService) Get(ctx context.Context, id string) (PartyResponse, error) {
	partyID, err := uuid.Parse(id)
	if err != nil {
		return PartyResponse{}, fmt.Errorf("invalid party id: %w", err)
	}

	party, err := s.partyRepo.FindByID(ctx, partyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PartyResponse{}, &apperr.NotFoundError{Entity: "party", Ref: id}
		}
		return PartyResponse{}, fmt.Errorf("failed to find party: %w", err)
	}
	return toPartyResponse(party), nil
}

func (s *partyService) List(ctx context.Context, page, limit int, search string) ([]PartyResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	parties, total, err := s.partyRepo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, err
	}

	res := make([]PartyResponse, 0, len(parties))
	for i := range parties {
		res = append(res, toPartyResponse(&parties[i]))
	}
	return res, total, nil
}

// SetPrice upserts the per-party discount for one item. Setting the same
// pair again overwrites the previous discount; existing document lines
// keep their snapshots.
func (s *partyService) SetPrice(ctx context.Context, userID, partyID string, req SetPartyPriceRequest) (PartyPriceResponse, error) {
	pid, err := uuid.Parse(partyID)
	if err != nil {
		return PartyPriceResponse{}, fmt.Errorf("invalid party id: %w", err)
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return PartyPriceResponse{}, fmt.Errorf("invalid item id: %w", err)
	}
	discount, err := decimal.NewFromString(req.DiscountPercent)
	if err != nil {
		return PartyPriceResponse{}, fmt.Errorf("invalid discount_percent: %w", err)
	}

	party, err := s.partyRepo.FindByID(ctx, pid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PartyPriceResponse{}, &apperr.NotFoundError{Entity: "party", Ref: partyID}
		}
		return PartyPriceResponse{}, fmt.Errorf("failed to find party: %w", err)
	}
	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PartyPriceResponse{}, &apperr.NotFoundError{Entity: "item", Ref: req.ItemID}
		}
		return PartyPriceResponse{}, fmt.Errorf("failed to find item: %w", err)
	}

	price := model.PartyPrice{
		PartyID:         pid,
		ItemID:          itemID,
		DiscountPercent: discount,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if upsertErr := s.partyRepo.UpsertPrice(txCtx, &price); upsertErr != nil {
			return fmt.Errorf("failed to upsert party price: %w", upsertErr)
		}
		return s.audit(txCtx, userID, model.ActionSetPartyPrice, pid.String(), party.Name, req)
	})
	if err != nil {
		return PartyPriceResponse{}, err
	}

	return PartyPriceResponse{
		PartyID:         pid.String(),
		ItemID:          itemID.String(),
		DiscountPercent: discount.StringFixed(2),
	}, nil
}

func (s *partyService) audit(ctx context.Context, userID, action, entityID, entityName string, details interface{}) error {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		uid = &parsed
	}
	raw, _ := json.Marshal(details)
	entry := &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(raw),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func toPartyResponse(party *model.Party) PartyResponse {
	return PartyResponse{
		ID:               party.ID.String(),
		Name:             party.Name,
		Type:             party.Type,
		Phone:            party.Phone,
		Email:            party.Email,
		GSTIN:            party.GSTIN,
		BillingAddress:   party.BillingAddress,
		ShippingAddress:  party.ShippingAddress,
		State:            party.State,
		CreditLimit:      party.CreditLimit.StringFixed(2),
		PaymentTermsDays: party.PaymentTermsDays,
		IsBlocked:        party.IsBlocked,
	}
}
