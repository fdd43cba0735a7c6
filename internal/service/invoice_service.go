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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// balanceEpsilon absorbs rounding noise in paid-off detection. A balance
// at or below this is treated as fully paid.
var balanceEpsilon = decimal.RequireFromString("0.001")

// DTOs
type CreateInvoiceRequest struct {
	DCID        string `json:"dc_id" binding:"required"`
	InvoiceDate string `json:"invoice_date"` // ISO date, defaults to today
	Notes       string `json:"notes"`
}

type RecordPaymentRequest struct {
	Amount  string `json:"amount" binding:"required"`
	Mode    string `json:"mode"`
	Ref     string `json:"ref"`
	PayDate string `json:"pay_date"` // ISO date, defaults to today
}

// InvoiceTotals is the derived financial summary of one invoice. All
// values carry 2-decimal rounding applied at the aggregate level only.
type InvoiceTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	GST      decimal.Decimal `json:"gst"`
	Total    decimal.Decimal `json:"total"`
	Paid     decimal.Decimal `json:"paid"`
	Balance  decimal.Decimal `json:"balance"`
}

// PartySummary is the party-level receivables position.
type PartySummary struct {
	Outstanding decimal.Decimal `json:"outstanding"`
	Overdue     decimal.Decimal `json:"overdue"`
}

type InvoiceLineResponse struct {
	ID              string `json:"id"`
	ItemID          string `json:"item_id"`
	SKU             string `json:"sku,omitempty"`
	Title           string `json:"title,omitempty"`
	Qty             int    `json:"qty"`
	Rate            string `json:"rate"`
	GSTPercent      string `json:"gst_percent"`
	DiscountPercent string `json:"discount_percent"`
}

type InvoiceResponse struct {
	ID                 string                `json:"id"`
	InvoiceNo          string                `json:"invoice_no"`
	DCID               string                `json:"dc_id"`
	PartyID            string                `json:"party_id"`
	PartyName          string                `json:"party_name,omitempty"`
	WarehouseID        string                `json:"warehouse_id"`
	InvoiceDate        string                `json:"invoice_date"`
	PlaceOfSupplyState string                `json:"place_of_supply_state"`
	Status             string                `json:"status"`
	Notes              string                `json:"notes"`
	IRN                string                `json:"irn,omitempty"`
	Lines              []InvoiceLineResponse `json:"lines,omitempty"`
	Totals             *InvoiceTotals        `json:"totals,omitempty"`
}

type StatementRow struct {
	InvoiceID   string          `json:"invoice_id"`
	InvoiceNo   string          `json:"invoice_no"`
	InvoiceDate string          `json:"invoice_date"`
	MonthKey    string          `json:"month_key"`
	Total       decimal.Decimal `json:"total"`
	Paid        decimal.Decimal `json:"paid"`
	Balance     decimal.Decimal `json:"balance"`
}

type StatementResponse struct {
	PartyID   string                    `json:"party_id"`
	PartyName string                    `json:"party_name"`
	Buckets   map[string][]StatementRow `json:"buckets"`
	Summary   PartySummary              `json:"summary"`
}

// InvoiceDocument is the fully-resolved payload handed to rendering and
// delivery collaborators. The core does not know their output formats.
type InvoiceDocument struct {
	InvoiceNo     string
	InvoiceDate   string
	PartyName     string
	PartyGSTIN    string
	PartyEmail    string
	PartyPhone    string
	PlaceOfSupply string
	Warehouse     string
	Lines         []InvoiceDocumentLine
	Totals        InvoiceTotals
}

type InvoiceDocumentLine struct {
	SKU        string
	Title      string
	Qty        int
	Rate       decimal.Decimal
	GSTPercent decimal.Decimal
	LineTotal  decimal.Decimal
}

// InvoiceService drives the Challan -> Invoice -> Payment half of the
// pipeline plus the derived financials read by credit control.
type InvoiceService interface {
	// CreateInvoice issues an invoice against an OPEN challan. Pricing is
	// re-resolved per challan line at invoice time (explicit policy: an
	// override changed between dispatch and invoicing changes the
	// invoiced amount). Credit control runs before any row is written.
	CreateInvoice(ctx context.Context, userID string, req CreateInvoiceRequest) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter repository.InvoiceListFilter) ([]InvoiceResponse, int64, error)
	RecordPayment(ctx context.Context, userID, invoiceID string, req RecordPaymentRequest) (InvoiceResponse, error)
	Totals(ctx context.Context, invoiceID uuid.UUID) (InvoiceTotals, error)
	SummaryForParty(ctx context.Context, party *model.Party) (PartySummary, error)
	Statement(ctx context.Context, partyID string, from, to *time.Time) (StatementResponse, error)
	BuildDocument(ctx context.Context, invoiceID string) (InvoiceDocument, error)
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	challanRepo repository.ChallanRepository
	orderRepo   repository.SalesOrderRepository
	partyRepo   repository.PartyRepository
	itemRepo    repository.ItemRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	pricing     PricingService
	numbering   *Numbering
	events      EventPublisher
	today       func() time.Time
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	challanRepo repository.ChallanRepository,
	orderRepo repository.SalesOrderRepository,
	partyRepo repository.PartyRepository,
	itemRepo repository.ItemRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	pricing PricingService,
	numbering *Numbering,
	events EventPublisher,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		challanRepo: challanRepo,
		orderRepo:   orderRepo,
		partyRepo:   partyRepo,
		itemRepo:    itemRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		pricing:     pricing,
		numbering:   numbering,
		events:      events,
		today:       time.Now,
	}
}

// Totals derives subtotal/gst/total/paid/balance for an invoice from its
// lines and payments. Rounding happens at the aggregate level only, not
// per line, to avoid compounding rounding error.
func (s *invoiceService) Totals(ctx context.Context, invoiceID uuid.UUID) (InvoiceTotals, error) {
	lines, err := s.invoiceRepo.ListLines(ctx, invoiceID)
	if err != nil {
		return InvoiceTotals{}, fmt.Errorf("failed to fetch invoice lines: %w", err)
	}

	subtotal := decZero
	gst := decZero
	for _, ln := range lines {
		taxable, lineGST := lineAmounts(ln.Qty, ln.Rate, ln.DiscountPercent, ln.GSTPercent)
		subtotal = subtotal.Add(taxable)
		gst = gst.Add(lineGST)
	}

	payments, err := s.invoiceRepo.ListPayments(ctx, invoiceID)
	if err != nil {
		return InvoiceTotals{}, fmt.Errorf("failed to fetch payments: %w", err)
	}
	paid := decZero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}

	total := subtotal.Add(gst)
	return InvoiceTotals{
		Subtotal: subtotal.Round(2),
		GST:      gst.Round(2),
		Total:    total.Round(2),
		Paid:     paid.Round(2),
		Balance:  total.Sub(paid).Round(2),
	}, nil
}

// lineAmounts computes the taxable value and GST of one line without any
// rounding.
func lineAmounts(qty int, rate, discountPercent, gstPercent decimal.Decimal) (taxable, gst decimal.Decimal) {
	amount := rate.Mul(decimal.NewFromInt(int64(qty)))
	discount := amount.Mul(discountPercent.Div(decHundred))
	taxable = amount.Sub(discount)
	gst = taxable.Mul(gstPercent.Div(decHundred))
	return taxable, gst
}

// deriveStatus maps balance to lifecycle status after a totals-affecting
// mutation. Zero-balance detection uses the epsilon tolerance, not strict
// equality.
func deriveStatus(t InvoiceTotals) string {
	if t.Total.LessThanOrEqual(decZero) {
		return model.InvoiceStatusOpen
	}
	if t.Balance.LessThanOrEqual(balanceEpsilon) {
		return model.InvoiceStatusPaid
	}
	if t.Paid.GreaterThan(decZero) {
		return model.InvoiceStatusPartial
	}
	return model.InvoiceStatusOpen
}

// SummaryForParty accumulates outstanding and overdue balances over all
// of a party's invoices. Due dates use ordinal-day arithmetic: overdue
// when today is strictly past invoice_date + terms days.
func (s *invoiceService) SummaryForParty(ctx context.Context, party *model.Party) (PartySummary, error) {
	invoices, err := s.invoiceRepo.ListByParty(ctx, party.ID, nil, nil)
	if err != nil {
		return PartySummary{}, fmt.Errorf("failed to fetch party invoices: %w", err)
	}

	outstanding := decZero
	overdue := decZero
	today := dateOnly(s.today())

	for _, inv := range invoices {
		totals, totErr := s.Totals(ctx, inv.ID)
		if totErr != nil {
			return PartySummary{}, totErr
		}
		if totals.Balance.LessThanOrEqual(decZero) {
			continue
		}
		outstanding = outstanding.Add(totals.Balance)

		if party.PaymentTermsDays > 0 {
			due := dateOnly(inv.InvoiceDate).AddDate(0, 0, party.PaymentTermsDays)
			if today.After(due) {
				overdue = overdue.Add(totals.Balance)
			}
		}
	}

	return PartySummary{
		Outstanding: outstanding.Round(2),
		Overdue:     overdue.Round(2),
	}, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *invoiceService) CreateInvoice(ctx context.Context, userID string, req CreateInvoiceRequest) (InvoiceResponse, error) {
	dcID, err := uuid.Parse(req.DCID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid dc_id: %w", err)
	}

	invoiceDate := s.today()
	if req.InvoiceDate != "" {
		invoiceDate, err = time.Parse("2006-01-02", req.InvoiceDate)
		if err != nil {
			return InvoiceResponse{}, fmt.Errorf("invalid invoice_date: %w", err)
		}
	}

	var invoice model.Invoice
	var release func()
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		dc, findErr := s.challanRepo.FindByID(txCtx, dcID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return &apperr.NotFoundError{Entity: "challan", Ref: req.DCID}
			}
			return fmt.Errorf("failed to find challan: %w", findErr)
		}
		if dc.Status != model.ChallanStatusOpen {
			return &apperr.InvalidStateError{Entity: "challan", Current: dc.Status, Action: "create invoice"}
		}

		so, findErr := s.orderRepo.FindByID(txCtx, dc.SOID)
		if findErr != nil {
			return fmt.Errorf("failed to find sales order for challan: %w", findErr)
		}
		party, findErr := s.partyRepo.FindByID(txCtx, so.PartyID)
		if findErr != nil {
			return fmt.Errorf("failed to find party: %w", findErr)
		}

		// Credit control, short-circuit on first failure. Nothing is
		// written until all checks pass; the challan stays OPEN on
		// failure, so the operation is retryable after remediation.
		if party.IsBlocked {
			return &apperr.PartyBlockedError{PartyName: party.Name}
		}
		summary, sumErr := s.SummaryForParty(txCtx, party)
		if sumErr != nil {
			return sumErr
		}
		if summary.Overdue.GreaterThan(decZero) {
			return &apperr.OverdueBalanceError{Overdue: summary.Overdue}
		}

		dcLines, linesErr := s.challanRepo.ListLines(txCtx, dc.ID)
		if linesErr != nil {
			return fmt.Errorf("failed to fetch challan lines: %w", linesErr)
		}

		projectedSub := decZero
		projectedGST := decZero
		invoiceLines := make([]model.InvoiceLine, 0, len(dcLines))
		for _, dln := range dcLines {
			item, itemErr := s.itemRepo.FindByID(txCtx, dln.ItemID)
			if itemErr != nil {
				return fmt.Errorf("failed to find item for challan line: %w", itemErr)
			}
			rate, disc, priceErr := s.pricing.ResolvePrice(txCtx, party.ID, item)
			if priceErr != nil {
				return priceErr
			}
			taxable, lineGST := lineAmounts(dln.Qty, rate, disc, item.GSTPercent)
			projectedSub = projectedSub.Add(taxable)
			projectedGST = projectedGST.Add(lineGST)

			invoiceLines = append(invoiceLines, model.InvoiceLine{
				ItemID:          item.ID,
				Qty:             dln.Qty,
				Rate:            rate,
				GSTPercent:      item.GSTPercent,
				DiscountPercent: disc,
			})
		}
		projectedTotal := projectedSub.Add(projectedGST).Round(2)

		if party.CreditLimit.GreaterThan(decZero) &&
			summary.Outstanding.Add(projectedTotal).GreaterThan(party.CreditLimit) {
			return &apperr.CreditLimitExceededError{
				Limit:       party.CreditLimit,
				Outstanding: summary.Outstanding,
				NewInvoice:  projectedTotal,
			}
		}

		invoiceNo, rel, numErr := s.numbering.Next(txCtx, PrefixInvoice, s.invoiceRepo)
		if numErr != nil {
			return numErr
		}
		release = rel

		invoice = model.Invoice{
			InvoiceNo:          invoiceNo,
			DCID:               dc.ID,
			PartyID:            party.ID,
			WarehouseID:        so.WarehouseID,
			InvoiceDate:        invoiceDate,
			PlaceOfSupplyState: party.State,
			Status:             model.InvoiceStatusOpen,
			Notes:              req.Notes,
		}
		if createErr := s.invoiceRepo.Create(txCtx, &invoice); createErr != nil {
			return fmt.Errorf("failed to create invoice: %w", createErr)
		}

		for i := range invoiceLines {
			invoiceLines[i].InvoiceID = invoice.ID
			if lineErr := s.invoiceRepo.CreateLine(txCtx, &invoiceLines[i]); lineErr != nil {
				return fmt.Errorf("failed to create invoice line: %w", lineErr)
			}
		}

		// Stock was already deducted at dispatch; the challan just
		// transitions to its terminal state.
		dc.Status = model.ChallanStatusInvoiced
		if updateErr := s.challanRepo.Update(txCtx, dc); updateErr != nil {
			return fmt.Errorf("failed to update challan: %w", updateErr)
		}
		return s.audit(txCtx, userID, model.ActionCreateInvoice, invoice.ID.String(), invoice.InvoiceNo, req)
	})
	if release != nil {
		release()
	}
	if err != nil {
		return InvoiceResponse{}, err
	}

	publish(s.events, "invoice.created", map[string]interface{}{
		"invoice_no": invoice.InvoiceNo,
		"party_id":   invoice.PartyID.String(),
	})

	return s.GetInvoice(ctx, invoice.ID.String())
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	invoice, err := s.invoiceRepo.FindByIDWithLines(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceResponse{}, &apperr.NotFoundError{Entity: "invoice", Ref: id}
		}
		return InvoiceResponse{}, fmt.Errorf("failed to find invoice: %w", err)
	}

	totals, err := s.Totals(ctx, invoice.ID)
	if err != nil {
		return InvoiceResponse{}, err
	}

	res := toInvoiceResponse(invoice)
	res.Totals = &totals
	return res, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter repository.InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	invoices, total, err := s.invoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	res := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		res = append(res, toInvoiceResponse(&invoices[i]))
	}
	return res, total, nil
}

// RecordPayment applies a payment against one invoice. The amount is not
// validated against the balance; over-payment drives the balance negative
// and the status clamps to PAID.
func (s *invoiceService) RecordPayment(ctx context.Context, userID, invoiceID string, req RecordPaymentRequest) (InvoiceResponse, error) {
	invID, err := uuid.Parse(invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid amount: %w", err)
	}

	payDate := s.today()
	if req.PayDate != "" {
		payDate, err = time.Parse("2006-01-02", req.PayDate)
		if err != nil {
			return InvoiceResponse{}, fmt.Errorf("invalid pay_date: %w", err)
		}
	}
	mode := req.Mode
	if mode == "" {
		mode = model.PayModeUPI
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, findErr := s.invoiceRepo.FindByID(txCtx, invID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return &apperr.NotFoundError{Entity: "invoice", Ref: invoiceID}
			}
			return fmt.Errorf("failed to find invoice: %w", findErr)
		}

		payment := model.Payment{
			PartyID:   invoice.PartyID,
			InvoiceID: invoice.ID,
			PayDate:   payDate,
			Amount:    amount,
			Mode:      mode,
			Ref:       req.Ref,
		}
		if createErr := s.invoiceRepo.CreatePayment(txCtx, &payment); createErr != nil {
			return fmt.Errorf("failed to record payment: %w", createErr)
		}

		totals, totErr := s.Totals(txCtx, invoice.ID)
		if totErr != nil {
			return totErr
		}
		if invoice.Status != model.InvoiceStatusCancelled {
			invoice.Status = deriveStatus(totals)
			if updateErr := s.invoiceRepo.Update(txCtx, invoice); updateErr != nil {
				return fmt.Errorf("failed to update invoice status: %w", updateErr)
			}
		}
		return s.audit(txCtx, userID, model.ActionRecordPayment, invoice.ID.String(), invoice.InvoiceNo, req)
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	return s.GetInvoice(ctx, invoiceID)
}

// Statement buckets a party's invoices by month with per-invoice totals
// and an outstanding/overdue summary over the selected date range.
func (s *invoiceService) Statement(ctx context.Context, partyID string, from, to *time.Time) (StatementResponse, error) {
	pID, err := uuid.Parse(partyID)
	if err != nil {
		return StatementResponse{}, fmt.Errorf("invalid party id: %w", err)
	}

	party, err := s.partyRepo.FindByID(ctx, pID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StatementResponse{}, &apperr.NotFoundError{Entity: "party", Ref: partyID}
		}
		return StatementResponse{}, fmt.Errorf("failed to find party: %w", err)
	}

	invoices, err := s.invoiceRepo.ListByParty(ctx, party.ID, from, to)
	if err != nil {
		return StatementResponse{}, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	buckets := make(map[string][]StatementRow)
	outstanding := decZero
	overdue := decZero
	today := dateOnly(s.today())

	for _, inv := range invoices {
		totals, totErr := s.Totals(ctx, inv.ID)
		if totErr != nil {
			return StatementResponse{}, totErr
		}

		if totals.Balance.GreaterThan(decZero) {
			outstanding = outstanding.Add(totals.Balance)
			if party.PaymentTermsDays > 0 {
				due := dateOnly(inv.InvoiceDate).AddDate(0, 0, party.PaymentTermsDays)
				if today.After(due) {
					overdue = overdue.Add(totals.Balance)
				}
			}
		}

		monthKey := inv.InvoiceDate.Format("Jan 2006")
		buckets[monthKey] = append(buckets[monthKey], StatementRow{
			InvoiceID:   inv.ID.String(),
			InvoiceNo:   inv.InvoiceNo,
			InvoiceDate: inv.InvoiceDate.Format("2006-01-02"),
			MonthKey:    monthKey,
			Total:       totals.Total,
			Paid:        totals.Paid,
			Balance:     totals.Balance,
		})
	}

	return StatementResponse{
		PartyID:   party.ID.String(),
		PartyName: party.Name,
		Buckets:   buckets,
		Summary: PartySummary{
			Outstanding: outstanding.Round(2),
			Overdue:     overdue.Round(2),
		},
	}, nil
}

// BuildDocument resolves the header+lines+totals payload handed to the
// PDF renderer and delivery senders.
func (s *invoiceService) BuildDocument(ctx context.Context, invoiceID string) (InvoiceDocument, error) {
	invID, err := uuid.Parse(invoiceID)
	if err != nil {
		return InvoiceDocument{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	invoice, err := s.invoiceRepo.FindByIDWithLines(ctx, invID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceDocument{}, &apperr.NotFoundError{Entity: "invoice", Ref: invoiceID}
		}
		return InvoiceDocument{}, fmt.Errorf("failed to find invoice: %w", err)
	}

	totals, err := s.Totals(ctx, invoice.ID)
	if err != nil {
		return InvoiceDocument{}, err
	}

	doc := InvoiceDocument{
		InvoiceNo:     invoice.InvoiceNo,
		InvoiceDate:   invoice.InvoiceDate.Format("2006-01-02"),
		PlaceOfSupply: invoice.PlaceOfSupplyState,
		Totals:        totals,
	}
	if invoice.Party != nil {
		doc.PartyName = invoice.Party.Name
		doc.PartyGSTIN = invoice.Party.GSTIN
		doc.PartyEmail = invoice.Party.Email
		doc.PartyPhone = invoice.Party.Phone
	}
	if invoice.Warehouse != nil {
		doc.Warehouse = invoice.Warehouse.Name
	}

	for i := range invoice.Lines {
		ln := &invoice.Lines[i]
		taxable, lineGST := lineAmounts(ln.Qty, ln.Rate, ln.DiscountPercent, ln.GSTPercent)
		docLine := InvoiceDocumentLine{
			Qty:        ln.Qty,
			Rate:       ln.Rate,
			GSTPercent: ln.GSTPercent,
			LineTotal:  taxable.Add(lineGST).Round(2),
		}
		if ln.Item != nil {
			docLine.SKU = ln.Item.SKU
			docLine.Title = ln.Item.Title
		}
		doc.Lines = append(doc.Lines, docLine)
	}

	return doc, nil
}

func (s *invoiceService) audit(ctx context.Context, userID, action, entityID, entityName string, payload interface{}) error {
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

func toInvoiceResponse(invoice *model.Invoice) InvoiceResponse {
	res := InvoiceResponse{
		ID:                 invoice.ID.String(),
		InvoiceNo:          invoice.InvoiceNo,
		DCID:               invoice.DCID.String(),
		PartyID:            invoice.PartyID.String(),
		WarehouseID:        invoice.WarehouseID.String(),
		InvoiceDate:        invoice.InvoiceDate.Format("2006-01-02"),
		PlaceOfSupplyState: invoice.PlaceOfSupplyState,
		Status:             invoice.Status,
		Notes:              invoice.Notes,
		IRN:                invoice.IRN,
	}
	if invoice.Party != nil {
		res.PartyName = invoice.Party.Name
	}
	for i := range invoice.Lines {
		ln := &invoice.Lines[i]
		lineRes := InvoiceLineResponse{
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
