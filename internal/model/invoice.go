package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice status constants. Status is derived from balance after every
// totals-affecting mutation; CANCELLED is terminal.
const (
	InvoiceStatusOpen      = "OPEN"
	InvoiceStatusPartial   = "PARTIAL"
	InvoiceStatusPaid      = "PAID"
	InvoiceStatusCancelled = "CANCELLED"
)

// Payment mode constants
const (
	PayModeUPI    = "UPI"
	PayModeNEFT   = "NEFT"
	PayModeCheque = "CHEQUE"
	PayModeCash   = "CASH"
)

// Invoice is the tax invoice issued against an OPEN challan. Lines are
// re-priced at creation time; totals are derived, never stored.
type Invoice struct {
	ID                 uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNo          string        `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_no"`
	DCID               uuid.UUID     `gorm:"type:uuid;not null;index" json:"dc_id"`
	Challan            *Challan      `gorm:"foreignKey:DCID" json:"challan,omitempty"`
	PartyID            uuid.UUID     `gorm:"type:uuid;not null;index" json:"party_id"`
	Party              *Party        `gorm:"foreignKey:PartyID" json:"party,omitempty"`
	WarehouseID        uuid.UUID     `gorm:"type:uuid;not null;index" json:"warehouse_id"`
	Warehouse          *Warehouse    `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
	InvoiceDate        time.Time     `gorm:"type:date;not null;index" json:"invoice_date"`
	PlaceOfSupplyState string        `gorm:"type:varchar(100)" json:"place_of_supply_state"`
	Status             string        `gorm:"type:varchar(20);not null;default:'OPEN';index" json:"status"` // OPEN, PARTIAL, PAID, CANCELLED
	Notes              string        `gorm:"type:text" json:"notes"`
	IRN                string        `gorm:"type:varchar(100)" json:"irn"` // external e-invoice reference, stored opaquely
	Lines              []InvoiceLine `gorm:"foreignKey:InvoiceID" json:"lines"`
	Payments           []Payment     `gorm:"foreignKey:InvoiceID" json:"payments"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// InvoiceLine is an immutable pricing snapshot taken at invoice creation.
type InvoiceLine struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Item            *Item           `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Qty             int             `gorm:"type:int;not null" json:"qty"`
	Rate            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"rate"`
	GSTPercent      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"gst_percent"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percent"`
}

// Payment is applied against exactly one invoice and its party. Amount is
// not validated against the invoice balance; over-payment clamps the
// invoice to PAID.
type Payment struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PartyID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"party_id"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	PayDate   time.Time       `gorm:"type:date;not null" json:"pay_date"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"amount"`
	Mode      string          `gorm:"type:varchar(20);not null;default:'UPI'" json:"mode"`
	Ref       string          `gorm:"type:varchar(100)" json:"ref"`
	CreatedAt time.Time       `json:"created_at"`
}
