package database

import (
	"log"

	"bookerp/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Warehouse{},
		&model.Item{},
		&model.Party{},
		&model.PartyPrice{},
		&model.Stock{},
		&model.SalesOrder{},
		&model.SalesOrderLine{},
		&model.Challan{},
		&model.ChallanLine{},
		&model.Invoice{},
		&model.InvoiceLine{},
		&model.Payment{},
		&model.ReturnNote{},
		&model.ReturnLine{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// Seed creates the default admin user and warehouses on first run.
func Seed(db *gorm.DB) error {
	var adminCount int64
	if err := db.Model(&model.User{}).Where("username = ?", "admin").Count(&adminCount).Error; err != nil {
		return err
	}
	if adminCount == 0 {
		hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := model.User{
			Username: "admin",
			Password: string(hashed),
			Role:     model.RoleAdmin,
			IsActive: true,
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
		log.Println("Seeded default admin user")
	}

	var whCount int64
	if err := db.Model(&model.Warehouse{}).Count(&whCount).Error; err != nil {
		return err
	}
	if whCount == 0 {
		warehouses := []model.Warehouse{
			{Name: "Noida WH-1", City: "Noida", State: "Uttar Pradesh"},
			{Name: "Noida WH-2", City: "Noida", State: "Uttar Pradesh"},
			{Name: "Noida WH-3", City: "Noida", State: "Uttar Pradesh"},
		}
		if err := db.Create(&warehouses).Error; err != nil {
			return err
		}
		log.Println("Seeded default warehouses")
	}

	return nil
}
