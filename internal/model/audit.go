package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateItem    = "CREATE_ITEM"
	ActionUpdateItem    = "UPDATE_ITEM"
	ActionCreateParty   = "CREATE_PARTY"
	ActionUpdateParty   = "UPDATE_PARTY"
	ActionSetPartyPrice = "SET_PARTY_PRICE"
	ActionAdjustStock   = "ADJUST_STOCK"
	ActionCreateSO      = "CREATE_SALES_ORDER"
	ActionAddSOLine     = "ADD_SO_LINE"
	ActionApproveSO     = "APPROVE_SALES_ORDER"
	ActionCancelSO      = "CANCEL_SALES_ORDER"
	ActionCreateChallan = "CREATE_CHALLAN"
	ActionCreateInvoice = "CREATE_INVOICE"
	ActionRecordPayment = "RECORD_PAYMENT"
	ActionCreateReturn  = "CREATE_RETURN"
	ActionPostReturn    = "POST_RETURN"
)

// AuditLog tracks who did what and when for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
