package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesOrder status constants. DISPATCHED and CANCELLED are terminal.
const (
	SOStatusOpen       = "OPEN"
	SOStatusApproved   = "APPROVED"
	SOStatusDispatched = "DISPATCHED"
	SOStatusCancelled  = "CANCELLED"
)

// Challan status constants. INVOICED is terminal.
const (
	ChallanStatusOpen     = "OPEN"
	ChallanStatusInvoiced = "INVOICED"
)

// SalesOrder is the first stage of the order-to-cash pipeline.
type SalesOrder struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SONo        string           `gorm:"type:varchar(30);uniqueIndex;not null" json:"so_no"`
	PartyID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"party_id"`
	Party       *Party           `gorm:"foreignKey:PartyID" json:"party,omitempty"`
	WarehouseID uuid.UUID        `gorm:"type:uuid;not null;index" json:"warehouse_id"`
	Warehouse   *Warehouse       `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
	SODate      time.Time        `gorm:"type:date;not null" json:"so_date"`
	Status      string           `gorm:"type:varchar(20);not null;default:'OPEN';index" json:"status"` // OPEN, APPROVED, DISPATCHED, CANCELLED
	Notes       string           `gorm:"type:text" json:"notes"`
	Lines       []SalesOrderLine `gorm:"foreignKey:SOID" json:"lines"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// SalesOrderLine captures rate, GST and discount at add-time. Once copied
// forward a stage the values are immutable snapshots.
type SalesOrderLine struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SOID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"so_id"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Item            *Item           `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Qty             int             `gorm:"type:int;not null" json:"qty"`
	Rate            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"rate"`
	GSTPercent      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"gst_percent"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percent"`
}

// Challan (delivery challan, DC) evidences goods leaving the warehouse.
// One-to-one successor of an APPROVED sales order; stock is deducted at
// challan creation, not at invoicing.
type Challan struct {
	ID          uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DCNo        string        `gorm:"type:varchar(30);uniqueIndex;not null" json:"dc_no"`
	SOID        uuid.UUID     `gorm:"type:uuid;not null;index" json:"so_id"`
	SalesOrder  *SalesOrder   `gorm:"foreignKey:SOID" json:"sales_order,omitempty"`
	DCDate      time.Time     `gorm:"type:date;not null" json:"dc_date"`
	Transporter string        `gorm:"type:varchar(255)" json:"transporter"`
	LRNo        string        `gorm:"type:varchar(100)" json:"lr_no"`
	Status      string        `gorm:"type:varchar(20);not null;default:'OPEN';index" json:"status"` // OPEN, INVOICED
	Lines       []ChallanLine `gorm:"foreignKey:DCID" json:"lines"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ChallanLine carries quantity only; pricing is re-resolved at invoice time.
type ChallanLine struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DCID   uuid.UUID `gorm:"type:uuid;not null;index" json:"dc_id"`
	ItemID uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`
	Item   *Item     `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Qty    int       `gorm:"type:int;not null" json:"qty"`
}
