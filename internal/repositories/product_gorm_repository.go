package repositories

import (
	"fmt"
	"sort"

	"eltetu/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// session returns the transactional handle when one is given, the base
// connection otherwise.
func (r *GORMProductRepository) session(tx Tx) *gorm.DB {
	if g, ok := tx.(*gorm.DB); ok && g != nil {
		return g
	}
	return r.db
}

// GetAll retrieves products from the database, optionally only active ones.
func (r *GORMProductRepository) GetAll(onlyActive bool) ([]models.Product, error) {
	var products []models.Product
	query := r.db.Order("name")
	if onlyActive {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for update", product.ID)
	}
	return nil
}

// Delete soft-deletes a product by its ID. Order lines referencing it fall
// back to their snapshot fields.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for deletion", id)
	}
	return nil
}

// HasAvailability reports whether the product currently has stock. The read
// is not locked; the authoritative check happens under LockProducts.
func (r *GORMProductRepository) HasAvailability(id string) (bool, error) {
	product, err := r.GetByID(id)
	if err != nil {
		return false, err
	}
	return product.Active && product.HasStock(), nil
}

// LockProducts acquires exclusive row locks (SELECT ... FOR UPDATE) on the
// given product rows within tx, in ascending id order, and returns their
// locked, current state.
func (r *GORMProductRepository) LockProducts(tx Tx, ids []string) ([]models.Product, error) {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	session := r.session(tx)
	// SQLite has no FOR UPDATE; its single-writer model already gives the
	// transaction exclusive access to the rows.
	if session.Dialector.Name() != "sqlite" {
		session = session.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var products []models.Product
	err := session.
		Where("id IN ?", sorted).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to lock products: %w", err)
	}
	return products, nil
}

// ReserveStock decrements the stock counter with an atomic delta update.
// The guard makes the decrement fail without mutation on a shortfall even if
// something outside tx touched the row.
func (r *GORMProductRepository) ReserveStock(tx Tx, id string, quantity int) error {
	res := r.session(tx).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to reserve stock for product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("insufficient stock for product %s", id)
	}
	return nil
}

// ReleaseStock increments the stock counter with an atomic delta update.
func (r *GORMProductRepository) ReleaseStock(tx Tx, id string, quantity int) error {
	res := r.session(tx).Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to release stock for product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for stock release", id)
	}
	return nil
}
