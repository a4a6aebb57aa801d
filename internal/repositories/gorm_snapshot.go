package repositories

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"pasartani/internal/models"
)

// UserRecord is the database row shape for customers and farmers.
type UserRecord struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	Role         string `gorm:"type:varchar(16)"`
	Name         string `gorm:"type:varchar(100)"`
	Email        string `gorm:"type:varchar(255)"`
	PasswordHash string `gorm:"type:varchar(255)"`
	Location     string `gorm:"type:varchar(64)"`
}

// ProductRecord is the database row shape for catalog products.
type ProductRecord struct {
	ID                string `gorm:"primaryKey;type:varchar(36)"`
	Name              string `gorm:"type:varchar(100)"`
	Description       string `gorm:"type:varchar(500)"`
	Price             float64
	QuantityAvailable int
	HarvestDate       time.Time
	FarmerID          string `gorm:"type:varchar(36)"`
}

// OrderRecord is the database row shape for orders. Items are stored in the
// same product:quantity:price encoding the flat files use, so both adapters
// round-trip identically.
type OrderRecord struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	CustomerID  string `gorm:"type:varchar(36)"`
	OrderDate   time.Time
	Items       string `gorm:"type:text"`
	TotalAmount float64
	Status      string `gorm:"type:varchar(16)"`
}

// SubscriptionRecord is the database row shape for subscriptions.
type SubscriptionRecord struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	CustomerID string `gorm:"type:varchar(36)"`
	FarmerID   string `gorm:"type:varchar(36)"`
	StartDate  time.Time
	Status     string `gorm:"type:varchar(16)"`
	Type       string `gorm:"type:varchar(100)"`
}

// GormSnapshotRepository persists the marketplace state to a relational
// database via GORM. The driver (SQLite or PostgreSQL) is chosen by the
// caller when opening the *gorm.DB.
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSnapshotRepository migrates the snapshot tables and returns the
// repository.
func NewGormSnapshotRepository(db *gorm.DB) (*GormSnapshotRepository, error) {
	err := db.AutoMigrate(&UserRecord{}, &ProductRecord{}, &OrderRecord{}, &SubscriptionRecord{})
	if err != nil {
		return nil, fmt.Errorf("failed to migrate snapshot tables: %w", err)
	}
	return &GormSnapshotRepository{db: db}, nil
}

// LoadAll reads every table into a snapshot. Rows that fail entity validation
// are skipped with a logged warning.
func (r *GormSnapshotRepository) LoadAll() (*Snapshot, error) {
	snap := &Snapshot{}

	var userRecords []UserRecord
	if err := r.db.Find(&userRecords).Error; err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	for _, rec := range userRecords {
		switch models.Role(rec.Role) {
		case models.RoleCustomer:
			customer, err := models.NewCustomer(rec.ID, rec.Name, rec.Email, rec.PasswordHash, rec.Location)
			if err != nil {
				log.Printf("Skipping malformed user record %s: %v", rec.ID, err)
				continue
			}
			snap.Customers = append(snap.Customers, *customer)
		case models.RoleFarmer:
			farmer, err := models.NewFarmer(rec.ID, rec.Name, rec.Email, rec.PasswordHash, rec.Location)
			if err != nil {
				log.Printf("Skipping malformed user record %s: %v", rec.ID, err)
				continue
			}
			snap.Farmers = append(snap.Farmers, *farmer)
		default:
			log.Printf("Skipping user record %s with unknown role %q", rec.ID, rec.Role)
		}
	}

	var productRecords []ProductRecord
	if err := r.db.Find(&productRecords).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	for _, rec := range productRecords {
		product, err := models.NewProduct(rec.ID, rec.Name, rec.Description, rec.Price, rec.QuantityAvailable, rec.HarvestDate, rec.FarmerID)
		if err != nil {
			log.Printf("Skipping malformed product record %s: %v", rec.ID, err)
			continue
		}
		snap.Products = append(snap.Products, *product)
	}

	var orderRecords []OrderRecord
	if err := r.db.Find(&orderRecords).Error; err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	for _, rec := range orderRecords {
		items, err := decodeOrderItems(rec.Items)
		if err != nil {
			log.Printf("Skipping malformed order record %s: %v", rec.ID, err)
			continue
		}
		snap.Orders = append(snap.Orders, models.Order{
			ID:          rec.ID,
			CustomerID:  rec.CustomerID,
			OrderDate:   rec.OrderDate,
			Items:       items,
			TotalAmount: rec.TotalAmount,
			Status:      models.OrderStatus(rec.Status),
		})
	}

	var subRecords []SubscriptionRecord
	if err := r.db.Find(&subRecords).Error; err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	for _, rec := range subRecords {
		snap.Subscriptions = append(snap.Subscriptions, models.Subscription{
			ID:         rec.ID,
			CustomerID: rec.CustomerID,
			FarmerID:   rec.FarmerID,
			StartDate:  rec.StartDate,
			Status:     models.SubscriptionStatus(rec.Status),
			Type:       rec.Type,
		})
	}

	return snap, nil
}

// SaveAll replaces the table contents with the snapshot in one transaction.
func (r *GormSnapshotRepository) SaveAll(snap *Snapshot) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&UserRecord{}, &ProductRecord{}, &OrderRecord{}, &SubscriptionRecord{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return fmt.Errorf("failed to clear snapshot table: %w", err)
			}
		}

		userRecords := make([]UserRecord, 0, len(snap.Customers)+len(snap.Farmers))
		for _, c := range snap.Customers {
			userRecords = append(userRecords, UserRecord{
				ID: c.ID, Role: string(c.Role), Name: c.Name, Email: c.Email,
				PasswordHash: c.PasswordHash, Location: c.Location,
			})
		}
		for _, f := range snap.Farmers {
			userRecords = append(userRecords, UserRecord{
				ID: f.ID, Role: string(f.Role), Name: f.Name, Email: f.Email,
				PasswordHash: f.PasswordHash, Location: f.Location,
			})
		}
		if len(userRecords) > 0 {
			if err := tx.Create(&userRecords).Error; err != nil {
				return fmt.Errorf("failed to save users: %w", err)
			}
		}

		productRecords := make([]ProductRecord, 0, len(snap.Products))
		for _, p := range snap.Products {
			productRecords = append(productRecords, ProductRecord{
				ID: p.ID, Name: p.Name, Description: p.Description, Price: p.Price,
				QuantityAvailable: p.QuantityAvailable, HarvestDate: p.HarvestDate, FarmerID: p.FarmerID,
			})
		}
		if len(productRecords) > 0 {
			if err := tx.Create(&productRecords).Error; err != nil {
				return fmt.Errorf("failed to save products: %w", err)
			}
		}

		orderRecords := make([]OrderRecord, 0, len(snap.Orders))
		for _, o := range snap.Orders {
			orderRecords = append(orderRecords, OrderRecord{
				ID: o.ID, CustomerID: o.CustomerID, OrderDate: o.OrderDate,
				Items: encodeOrderItems(o.Items), TotalAmount: o.TotalAmount, Status: string(o.Status),
			})
		}
		if len(orderRecords) > 0 {
			if err := tx.Create(&orderRecords).Error; err != nil {
				return fmt.Errorf("failed to save orders: %w", err)
			}
		}

		subRecords := make([]SubscriptionRecord, 0, len(snap.Subscriptions))
		for _, s := range snap.Subscriptions {
			subRecords = append(subRecords, SubscriptionRecord{
				ID: s.ID, CustomerID: s.CustomerID, FarmerID: s.FarmerID,
				StartDate: s.StartDate, Status: string(s.Status), Type: s.Type,
			})
		}
		if len(subRecords) > 0 {
			if err := tx.Create(&subRecords).Error; err != nil {
				return fmt.Errorf("failed to save subscriptions: %w", err)
			}
		}

		return nil
	})
}
