package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PartyType enum constants
const (
	PartyTypeDistributor = "DISTRIBUTOR"
	PartyTypeRetailer    = "RETAILER"
	PartyTypeSchool      = "SCHOOL"
)

// Party is a customer account (distributor, retailer, school). Credit limit
// and payment terms drive the credit-control checks at invoice time.
type Party struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name             string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Type             string          `gorm:"type:varchar(20);not null;default:'DISTRIBUTOR'" json:"type"`
	Phone            string          `gorm:"type:varchar(50)" json:"phone"`
	Email            string          `gorm:"type:varchar(255)" json:"email"`
	GSTIN            string          `gorm:"type:varchar(20)" json:"gstin"`
	BillingAddress   string          `gorm:"type:text" json:"billing_address"`
	ShippingAddress  string          `gorm:"type:text" json:"shipping_address"`
	State            string          `gorm:"type:varchar(100)" json:"state"` // place of supply
	CreditLimit      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"credit_limit"`
	PaymentTermsDays int             `gorm:"type:int;not null;default:0" json:"payment_terms_days"`
	IsBlocked        bool            `gorm:"default:false" json:"is_blocked"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
}

// PartyPrice is a per-(party,item) discount override. At most one row per
// pair; writes replace the existing override (last-write-wins).
type PartyPrice struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PartyID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_party_item,unique" json:"party_id"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_party_item,unique" json:"item_id"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percent"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
