package models

import "gorm.io/gorm"

// Role is the access level of an account.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleVendedor      Role = "vendedor"
	RoleCliente       Role = "cliente"
	RoleTransportador Role = "transportador"
)

// Staff reports whether the role may manage catalog and orders.
func (r Role) Staff() bool {
	return r == RoleAdmin || r == RoleVendedor
}

// User represents an account: customer, salesperson, courier or admin.
type User struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email       string  `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password    string  `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	Nombre      string  `json:"nombre" validate:"required,max=100"`
	Apellido    string  `json:"apellido" validate:"required,max=100"`
	Rol         Role    `json:"rol" gorm:"type:varchar(20);default:'cliente'" validate:"omitempty,oneof=admin vendedor cliente transportador"`
	Telefono    string  `json:"telefono" validate:"omitempty,max=20"`
	Direccion   string  `json:"direccion"`
	// Default price list applied to the customer's orders; nil means base prices.
	PriceListID *string `json:"lista_precio_id" gorm:"type:varchar(36)"`
	Active      bool    `json:"activo" gorm:"default:true"`
	gorm.Model          // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// FullName returns the display name of the account.
func (u *User) FullName() string {
	return u.Nombre + " " + u.Apellido
}
