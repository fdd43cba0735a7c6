package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Warehouse is a physical stocking location.
type Warehouse struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	City      string    `gorm:"type:varchar(100);default:'Noida'" json:"city"`
	State     string    `gorm:"type:varchar(100);default:'Uttar Pradesh'" json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is a published title in the catalog. SKU is immutable identity;
// price and GST rate are mutable, but issued document lines keep the
// values captured at copy time.
type Item struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SKU        string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Title      string          `gorm:"type:varchar(255);not null" json:"title"`
	ClassName  string          `gorm:"type:varchar(50)" json:"class_name"`
	Subject    string          `gorm:"type:varchar(100)" json:"subject"`
	Board      string          `gorm:"type:varchar(50)" json:"board"`
	Year       int             `gorm:"type:int" json:"year"`
	Edition    string          `gorm:"type:varchar(20);default:'1st'" json:"edition"`
	ISBN       string          `gorm:"type:varchar(20)" json:"isbn"`
	HSN        string          `gorm:"type:varchar(20)" json:"hsn"`
	Barcode    string          `gorm:"type:varchar(50)" json:"barcode"`
	GSTPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"gst_percent"`
	MRP        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"mrp"`
	SalePrice  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"sale_price"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`
}
