package repositories

import "gorm.io/gorm"

// Tx is an opaque transaction handle. Repository methods that take one
// execute inside that transaction; row locks acquired through it live until
// the transaction commits or rolls back.
type Tx any

// TxManager runs a function inside a single database transaction. Returning
// an error from fn rolls everything back.
type TxManager interface {
	InTransaction(fn func(tx Tx) error) error
}

// GORMTxManager is a GORM implementation of TxManager.
type GORMTxManager struct {
	db *gorm.DB
}

// NewGORMTxManager creates a new instance of GORMTxManager.
func NewGORMTxManager(db *gorm.DB) *GORMTxManager {
	return &GORMTxManager{db: db}
}

// InTransaction runs fn inside a database transaction; the Tx it passes is
// the transactional *gorm.DB understood by the GORM repositories.
func (m *GORMTxManager) InTransaction(fn func(tx Tx) error) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}
