package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock is the per-(warehouse,item) quantity counter. Rows are created
// lazily with qty=0 on first access. Qty never goes negative; mutations
// must hold the row lock for the duration of the check-then-write.
type Stock struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WarehouseID uuid.UUID `gorm:"type:uuid;not null;index:idx_warehouse_item,unique" json:"warehouse_id"`
	ItemID      uuid.UUID `gorm:"type:uuid;not null;index:idx_warehouse_item,unique" json:"item_id"`
	Qty         int       `gorm:"type:int;not null;default:0" json:"qty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
