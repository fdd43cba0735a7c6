package apperr

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NotFoundError indicates a referenced entity id does not exist.
type NotFoundError struct {
	Entity string
	Ref    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Ref)
}

// InvalidStateError indicates an operation attempted on an entity in the
// wrong lifecycle state (e.g. challan from a non-approved sales order).
type InvalidStateError struct {
	Entity  string
	Current string
	Action  string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s: %s is %s", e.Action, e.Entity, e.Current)
}

// InsufficientStockError indicates an adjustment would drive stock negative.
// Available is the quantity on hand at the time of the failed adjustment.
type InsufficientStockError struct {
	ItemID    uuid.UUID
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %s: available=%d requested=%d",
		e.ItemID, e.Available, e.Requested)
}

// PartyBlockedError indicates invoicing was attempted against a blocked party.
type PartyBlockedError struct {
	PartyName string
}

func (e *PartyBlockedError) Error() string {
	return fmt.Sprintf("party %q is blocked", e.PartyName)
}

// OverdueBalanceError carries the overdue amount the operator must clear
// before new invoices can be issued.
type OverdueBalanceError struct {
	Overdue decimal.Decimal
}

func (e *OverdueBalanceError) Error() string {
	return fmt.Sprintf("overdue balance pending: %s (clear overdue to continue)", e.Overdue.StringFixed(2))
}

// CreditLimitExceededError reports limit, current outstanding, and the
// projected new-invoice amount for operator display.
type CreditLimitExceededError struct {
	Limit       decimal.Decimal
	Outstanding decimal.Decimal
	NewInvoice  decimal.Decimal
}

func (e *CreditLimitExceededError) Error() string {
	return fmt.Sprintf("credit limit exceeded: limit=%s outstanding=%s new_invoice=%s",
		e.Limit.StringFixed(2), e.Outstanding.StringFixed(2), e.NewInvoice.StringFixed(2))
}

// DuplicateKeyError indicates a unique-key collision (sku, document number).
type DuplicateKeyError struct {
	Key   string
	Value string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Key, e.Value)
}

// ConfigurationError indicates a delivery collaborator is not configured.
type ConfigurationError struct {
	Component string
	Missing   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s not configured: missing %s", e.Component, e.Missing)
}
