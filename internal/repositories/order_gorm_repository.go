package repositories

import (
	"fmt"

	"eltetu/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

func (r *GORMOrderRepository) session(tx Tx) *gorm.DB {
	if g, ok := tx.(*gorm.DB); ok && g != nil {
		return g
	}
	return r.db
}

// GetAll retrieves orders matching the filter, newest first.
func (r *GORMOrderRepository) GetAll(filter OrderFilter) ([]models.Order, error) {
	query := r.db.Preload("Items").Preload("Customer")
	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.CourierID != "" {
		query = query.Where("courier_id = ?", filter.CourierID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order with its items.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").Preload("Customer").Preload("Courier").
		First(&order, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetByIDTx re-reads the bare order row inside tx with an exclusive row
// lock, so two transactions transitioning the same order serialize on it.
func (r *GORMOrderRepository) GetByIDTx(tx Tx, id string) (*models.Order, error) {
	session := r.session(tx)
	// SQLite has no FOR UPDATE; its single-writer model already excludes
	// the concurrent transaction.
	if session.Dialector.Name() != "sqlite" {
		session = session.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var order models.Order
	if err := session.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to lock order %s: %w", id, err)
	}
	return &order, nil
}

// Create persists the order together with its items.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Save updates the order row without rewriting items.
func (r *GORMOrderRepository) Save(order *models.Order) error {
	return r.SaveTx(nil, order)
}

// SaveTx updates the order row inside tx.
func (r *GORMOrderRepository) SaveTx(tx Tx, order *models.Order) error {
	res := r.session(tx).Omit(clause.Associations).Save(order)
	if res.Error != nil {
		return fmt.Errorf("failed to save order %s: %w", order.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found for update", order.ID)
	}
	return nil
}
