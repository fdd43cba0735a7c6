package model

import (
	"time"

	"github.com/google/uuid"
)

// ReturnNote status constants. POSTED is terminal; there is no un-post.
const (
	ReturnStatusOpen   = "OPEN"
	ReturnStatusPosted = "POSTED"
)

// ReturnNote records goods coming back from a party (unsold copies,
// damages). Independent of the sales pipeline; posting adds quantities
// back to stock.
type ReturnNote struct {
	ID          uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RNNo        string       `gorm:"type:varchar(30);uniqueIndex;not null" json:"rn_no"`
	PartyID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"party_id"`
	Party       *Party       `gorm:"foreignKey:PartyID" json:"party,omitempty"`
	WarehouseID uuid.UUID    `gorm:"type:uuid;not null;index" json:"warehouse_id"`
	Warehouse   *Warehouse   `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
	ReturnDate  time.Time    `gorm:"type:date;not null" json:"return_date"`
	Reason      string       `gorm:"type:varchar(100);default:'Unsold'" json:"reason"`
	Notes       string       `gorm:"type:text" json:"notes"`
	Status      string       `gorm:"type:varchar(20);not null;default:'OPEN';index" json:"status"` // OPEN, POSTED
	Lines       []ReturnLine `gorm:"foreignKey:ReturnID" json:"lines"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ReturnLine is a quantity-only line on a return note.
type ReturnLine struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReturnID uuid.UUID `gorm:"type:uuid;not null;index" json:"return_id"`
	ItemID   uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`
	Item     *Item     `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Qty      int       `gorm:"type:int;not null" json:"qty"`
}
