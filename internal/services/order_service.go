package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"eltetu/internal/models"
	"eltetu/internal/repositories"
	"eltetu/pkg/rabbitmq"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderService owns the order lifecycle: creation with price snapshots,
// the status state machine, and the stock reserve/release protocol.
type OrderService struct {
	orderRepo     repositories.OrderRepository
	productRepo   repositories.ProductRepository
	userRepo      repositories.UserRepository
	priceListRepo repositories.PriceListRepository
	tx            repositories.TxManager
	flow          models.StatusFlow
	mqClient      *rabbitmq.Client // RabbitMQ client, may be nil
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
	priceListRepo repositories.PriceListRepository,
	tx repositories.TxManager,
	flow models.StatusFlow,
	mqClient *rabbitmq.Client,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		userRepo:      userRepo,
		priceListRepo: priceListRepo,
		tx:            tx,
		flow:          flow,
		mqClient:      mqClient,
	}
}

// Flow returns the status flow the service was configured with.
func (s *OrderService) Flow() models.StatusFlow {
	return s.flow
}

// CreateOrderItemInput is one requested order line.
type CreateOrderItemInput struct {
	ProductID string `json:"producto_id" validate:"required"`
	Quantity  int    `json:"cantidad" validate:"gt=0"`
}

// CreateOrderInput is the request to create an order.
type CreateOrderInput struct {
	CustomerID  string                 `json:"cliente_id" validate:"required"`
	PriceListID *string                `json:"lista_precio_id"`
	Notes       string                 `json:"notas"`
	Items       []CreateOrderItemInput `json:"items" validate:"required,min=1,dive"`
}

// CreateOrder validates every line, snapshots prices and creates the order
// with computed totals. All lines are validated before anything is
// persisted, so a multi-line order either fully succeeds or writes nothing.
// The availability check here is unlocked; the authoritative check happens
// under row locks when the order is committed for fulfillment.
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, &BusinessValidationError{Message: "el pedido debe tener al menos un item", Field: "items"}
	}

	customer, err := s.userRepo.GetByID(input.CustomerID)
	if err != nil {
		return nil, &BusinessValidationError{Message: "cliente no encontrado", Field: "cliente_id"}
	}

	// Without an explicit list the customer's assigned list applies; nil
	// means base prices.
	listID := input.PriceListID
	if listID == nil {
		listID = customer.PriceListID
	}
	var list *models.PriceList
	if listID != nil {
		list, err = s.priceListRepo.GetByID(*listID)
		if err != nil {
			return nil, &BusinessValidationError{Message: "lista de precios no encontrada", Field: "lista_precio_id"}
		}
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	for _, in := range input.Items {
		if in.Quantity <= 0 {
			return nil, &BusinessValidationError{Message: "la cantidad debe ser mayor a 0", Field: "cantidad"}
		}
		product, err := s.productRepo.GetByID(in.ProductID)
		if err != nil {
			return nil, &ProductNotAvailableError{ProductID: in.ProductID, Reason: "no existe o fue eliminado"}
		}
		if !product.Active {
			return nil, &ProductNotAvailableError{ProductID: in.ProductID, Reason: "inactivo"}
		}
		if product.Stock < in.Quantity {
			return nil, &ProductNotAvailableError{
				ProductID: in.ProductID,
				Reason:    fmt.Sprintf("stock insuficiente (disponible: %d)", product.Stock),
			}
		}

		productID := product.ID
		item := models.OrderItem{
			ProductID:   &productID,
			ProductName: product.Name,
			ProductCode: product.Code,
			Quantity:    in.Quantity,
			UnitPrice:   ResolvePrice(product, list),
			Discount:    decimal.Zero,
		}
		item.RecomputeSubtotal()
		items = append(items, item)
	}

	order := &models.Order{
		ID:         uuid.New().String(),
		CustomerID: customer.ID,
		Status:     s.flow.Initial,
		Notes:      input.Notes,
		Items:      items,
	}
	if list != nil && list.Active {
		name := list.Name
		discount := list.DiscountPct
		order.PriceListID = &list.ID
		order.PriceListName = &name
		order.PriceListDiscount = &discount
	}
	order.RecomputeTotals()

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	s.publishEvent("order.created", map[string]interface{}{
		"pedido_id":  order.ID,
		"cliente_id": order.CustomerID,
		"estado":     order.Status,
		"total":      order.Total,
	})

	return order, nil
}

// GetOrders retrieves orders matching the filter.
func (s *OrderService) GetOrders(filter repositories.OrderFilter) ([]models.Order, error) {
	return s.orderRepo.GetAll(filter)
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// UpdateStatus executes a status transition. The reserving transition
// commits stock under row locks; the releasing transition restores it with
// the same discipline; every other legal transition only updates status and
// timestamps. Either status and stock counters change together or neither
// does.
func (s *OrderService) UpdateStatus(id string, target models.Status) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !s.flow.Allowed(order.Status, target) {
		return nil, &InvalidStateTransitionError{Current: order.Status, Target: target}
	}

	switch {
	case s.flow.ReservesStock(order.Status, target):
		err = s.commitStock(order, target)
	case s.flow.ReleasesStock(order.Status, target):
		err = s.restoreStock(order, target)
	default:
		order.Status = target
		if target != "" && target == s.flow.Delivered() {
			now := time.Now()
			order.DeliveredAt = &now
		}
		err = s.orderRepo.Save(order)
	}
	if err != nil {
		return nil, err
	}

	s.publishEvent("order.status_changed", map[string]interface{}{
		"pedido_id": order.ID,
		"estado":    order.Status,
	})

	return order, nil
}

// commitStock runs the reserving transition: lock the distinct product rows
// in ascending id order, re-verify availability against the locked values,
// decrement, and persist the status change, all in one transaction.
func (s *OrderService) commitStock(order *models.Order, target models.Status) error {
	required := order.QuantityByProduct()
	ids := order.DistinctProductIDs()
	if len(ids) == 0 {
		return &BusinessValidationError{Message: "no quedan productos válidos en el pedido", Field: "items"}
	}

	return s.tx.InTransaction(func(tx repositories.Tx) error {
		// The legality check in UpdateStatus ran outside this transaction
		// and may be stale; lock the order row and re-validate so two
		// concurrent transitions on the same order can never both reserve.
		current, err := s.orderRepo.GetByIDTx(tx, order.ID)
		if err != nil {
			return err
		}
		if !s.flow.ReservesStock(current.Status, target) {
			return &InvalidStateTransitionError{Current: current.Status, Target: target}
		}

		// Never trust a pre-lock read; the creation-time check may be
		// arbitrarily stale by now.
		products, err := s.productRepo.LockProducts(tx, ids)
		if err != nil {
			return err
		}
		if len(products) != len(ids) {
			return &BusinessValidationError{Message: "no quedan productos válidos en el pedido", Field: "items"}
		}
		for _, p := range products {
			if p.Stock < required[p.ID] {
				return &InsufficientStockError{
					ProductName: p.Name,
					Requested:   required[p.ID],
					Available:   p.Stock,
				}
			}
		}
		for _, p := range products {
			if err := s.productRepo.ReserveStock(tx, p.ID, required[p.ID]); err != nil {
				return err
			}
		}

		now := time.Now()
		order.Status = target
		order.ConfirmedAt = &now
		return s.orderRepo.SaveTx(tx, order)
	})
}

// restoreStock runs the releasing transition: same locking discipline as
// commitStock, incrementing instead; no availability check is needed. Only
// the rows the lock still finds are restored, so products deleted after the
// reservation cannot wedge the transition.
func (s *OrderService) restoreStock(order *models.Order, target models.Status) error {
	required := order.QuantityByProduct()
	ids := order.DistinctProductIDs()
	if len(ids) == 0 {
		// Every product was deleted after confirmation; nothing to
		// restore.
		order.Status = target
		order.ConfirmedAt = nil
		return s.orderRepo.Save(order)
	}

	return s.tx.InTransaction(func(tx repositories.Tx) error {
		current, err := s.orderRepo.GetByIDTx(tx, order.ID)
		if err != nil {
			return err
		}
		if !s.flow.ReleasesStock(current.Status, target) {
			return &InvalidStateTransitionError{Current: current.Status, Target: target}
		}

		products, err := s.productRepo.LockProducts(tx, ids)
		if err != nil {
			return err
		}
		for _, p := range products {
			if err := s.productRepo.ReleaseStock(tx, p.ID, required[p.ID]); err != nil {
				return err
			}
		}
		order.Status = target
		// ConfirmedAt marks stock being held; releasing it undoes the
		// confirmation.
		order.ConfirmedAt = nil
		return s.orderRepo.SaveTx(tx, order)
	})
}

// RejectOrder is a convenience wrapper over the rejection transition.
func (s *OrderService) RejectOrder(id string) (*models.Order, error) {
	return s.UpdateStatus(id, s.flow.Rejected())
}

// AssignCourier sets the order's courier. The target account must hold the
// transportador role; the order status does not change.
func (s *OrderService) AssignCourier(orderID, courierID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	courier, err := s.userRepo.GetByID(courierID)
	if err != nil {
		return nil, &BusinessValidationError{Message: "transportador no encontrado", Field: "transportador_id"}
	}
	if courier.Rol != models.RoleTransportador {
		return nil, &BusinessValidationError{Message: "el usuario no tiene rol de transportador", Field: "transportador_id"}
	}

	id := courier.ID
	order.CourierID = &id
	if err := s.orderRepo.Save(order); err != nil {
		return nil, err
	}
	return order, nil
}

// MarkDelivered confirms delivery of an order. Only the assigned courier may
// do it; it delegates to the delivery transition of the flow.
func (s *OrderService) MarkDelivered(orderID, courierID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.CourierID == nil || *order.CourierID != courierID {
		return nil, &BusinessValidationError{Message: "el pedido no está asignado a este transportador", Field: "transportador_id"}
	}
	return s.UpdateStatus(orderID, s.flow.Delivered())
}

// ListCouriers returns the active courier accounts available for
// assignment.
func (s *OrderService) ListCouriers() ([]models.User, error) {
	return s.userRepo.GetByRole(models.RoleTransportador)
}

// OrderStats summarizes the order book for the dashboard.
type OrderStats struct {
	TotalOrders int                   `json:"total_pedidos"`
	ByStatus    map[models.Status]int `json:"por_estado"`
	Revenue     decimal.Decimal       `json:"facturacion_total"`
}

// Stats computes counts by status and total revenue over non-rejected
// orders.
func (s *OrderService) Stats() (*OrderStats, error) {
	orders, err := s.orderRepo.GetAll(repositories.OrderFilter{})
	if err != nil {
		return nil, err
	}

	stats := &OrderStats{
		TotalOrders: len(orders),
		ByStatus:    make(map[models.Status]int),
		Revenue:     decimal.Zero,
	}
	for _, order := range orders {
		stats.ByStatus[order.Status]++
		if order.Status != s.flow.Rejected() {
			stats.Revenue = stats.Revenue.Add(order.Total)
		}
	}
	return stats, nil
}

// publishEvent publishes an order lifecycle event; failures are logged,
// never surfaced to the caller.
func (s *OrderService) publishEvent(eventType string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", eventType, err)
		return
	}
	if err := s.mqClient.Publish(eventType, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}
