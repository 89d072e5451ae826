package services_test

import (
	"sync"
	"testing"

	"eltetu/internal/models"
	"eltetu/internal/repositories"
	"eltetu/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// orderFixture wires an OrderService against the in-memory repositories with
// a seeded customer, so each test only declares the data it cares about.
type orderFixture struct {
	svc        *services.OrderService
	orders     *repositories.MockOrderRepository
	products   *repositories.MockProductRepository
	users      *repositories.MockUserRepository
	priceLists *repositories.MockPriceListRepository
	customer   *models.User
}

func newOrderFixture(t *testing.T, flow models.StatusFlow) *orderFixture {
	t.Helper()

	f := &orderFixture{
		orders:     repositories.NewMockOrderRepository(),
		products:   repositories.NewMockProductRepository(),
		users:      repositories.NewMockUserRepository(),
		priceLists: repositories.NewMockPriceListRepository(),
	}
	f.svc = services.NewOrderService(
		f.orders, f.products, f.users, f.priceLists,
		repositories.NewMockTxManager(), flow, nil,
	)

	f.customer = &models.User{
		Email:    "almacen.donjose@example.com",
		Password: "hashed",
		Nombre:   "José",
		Apellido: "Pérez",
		Rol:      models.RoleCliente,
		Active:   true,
	}
	require.NoError(t, f.users.Create(f.customer))
	return f
}

func (f *orderFixture) addProduct(t *testing.T, code, name string, price float64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Code:   code,
		Name:   name,
		Price:  decimal.NewFromFloat(price),
		Stock:  stock,
		Active: true,
	}
	require.NoError(t, f.products.Create(p))
	return p
}

func (f *orderFixture) stockOf(t *testing.T, id string) int {
	t.Helper()
	p, err := f.products.GetByID(id)
	require.NoError(t, err)
	return p.Stock
}

func TestOrderService_CreateOrder(t *testing.T) {
	f := newOrderFixture(t, models.DefaultFlow)
	yerba := f.addProduct(t, "YM-001", "Yerba Amanda 1kg", 150.50, 10)
	harina := f.addProduct(t, "HA-002", "Harina Pureza 1kg", 80.00, 5)

	order, err := f.svc.CreateOrder(services.CreateOrderInput{
		CustomerID: f.customer.ID,
		Notes:      "entregar por la mañana",
		Items: []services.CreateOrderItemInput{
			{ProductID: yerba.ID, Quantity: 3},
			{ProductID: harina.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, models.StatusPendiente, order.Status)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "Yerba Amanda 1kg", order.Items[0].ProductName)
	assert.Equal(t, "YM-001", order.Items[0].ProductCode)
	assert.True(t, order.Items[0].Subtotal.Equal(decimal.NewFromFloat(451.50)), "3 x 150.50")
	assert.True(t, order.Total.Equal(decimal.NewFromFloat(611.50)))

	// Creation must not move stock; only the reserving transition does.
	assert.Equal(t, 10, f.stockOf(t, yerba.ID))
	assert.Equal(t, 5, f.stockOf(t, harina.ID))
}

func TestOrderService_CreateOrder_ValidationFailures(t *testing.T) {
	f := newOrderFixture(t, models.DefaultFlow)
	yerba := f.addProduct(t, "YM-001", "Yerba Amanda 1kg", 150.50, 10)

	inactive := f.addProduct(t, "VI-003", "Vino viejo", 500.00, 3)
	inactive.Active = false
	require.NoError(t, f.products.Update(inactive))

	t.Run("sin items", func(t *testing.T) {
		_, err := f.svc.CreateOrder(services.CreateOrderInput{CustomerID: f.customer.ID})
		var vErr *services.BusinessValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "items", vErr.Field)
	})

	t.Run("cliente inexistente", func(t *testing.T) {
		_, err := f.svc.CreateOrder(services.CreateOrderInput{
			CustomerID: "no-such-customer",
			Items:      []services.CreateOrderItemInput{{ProductID: yerba.ID, Quantity: 1}},
		})
		var vErr *services.BusinessValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "cliente_id", vErr.Field)
	})

	t.Run("producto inexistente", func(t *testing.T) {
		_, err := f.svc.CreateOrder(services.CreateOrderInput{
			CustomerID: f.customer.ID,
			Items:      []services.CreateOrderItemInput{{ProductID: "no-such-product", Quantity: 1}},
		})
		var pErr *services.ProductNotAvailableError
		require.ErrorAs(t, err, &pErr)
		assert.Contains(t, pErr.Reason, "no existe")
	})

	t.Run("producto inactivo", func(t *testing.T) {
		_, err := f.svc.CreateOrder(services.CreateOrderInput{
			CustomerID: f.customer.ID,
			Items:      []services.CreateOrderItemInput{{ProductID: inactive.ID, Quantity: 1}},
		})
		var pErr *services.ProductNotAvailableError
		require.ErrorAs(t, err, &pErr)
		assert.Equal(t, "inactivo", pErr.Reason)
	})

	t.Run("stock insuficiente al crear", func(t *testing.T) {
		_, err := f.svc.CreateOrder(services.CreateOrderInput{
			CustomerID: f.customer.ID,
			Items:      []services.CreateOrderItemInput{{ProductID: yerba.ID, Quantity: 11}},
		})
		var pErr *services.ProductNotAvailableError
		require.ErrorAs(t, err, &pErr)
		assert.Contains(t, pErr.Reason, "stock insuficiente")
	})

	t.Run("una linea invalida no persiste nada", func(t *testing.T) {
		before, err := f.orders.GetAll(repositories.OrderFilter{})
		require.NoError(t, err)

		_, err = f.svc.CreateOrder(services.CreateOrderInput{
			CustomerID: f.customer.ID,
			Items: []services.CreateOrderItemInput{
				{ProductID: yerba.ID, Quantity: 1},
				{ProductID: "no-such-product", Quantity: 1},
			},
		})
		require.Error(t, err)

		after, err := f.orders.GetAll(repositories.OrderFilter{})
		require.NoError(t, err)
		assert.Len(t, after, len(before), "a failed creation must not leave a partial order behind")
	})
}

func TestOrderService_CreateOrder_PriceListSnapshot(t *testing.T) {
	f := newOrderFixture(t, models.DefaultFlow)
	yerba := f.addProduct(t, "YM-001", "Yerba Amanda 1kg", 100.00, 10)

	mayorista := &models.PriceList{
		Name:        "Mayorista",
		DiscountPct: decimal.NewFromFloat(10),
		Active:      true,
	}
	require.NoError(t, f.priceLists.Create(mayorista))

	order, err := f.svc.CreateOrder(services.CreateOrderInput{
		CustomerID:  f.customer.ID,
		PriceListID: &mayorista.ID,
		Items:       []services.CreateOrderItemInput{{ProductID: yerba.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.NewFromFloat(90.00)), "10 pct off 100.00")
	require.NotNil(t, order.PriceListName)
	assert.Equal(t, "Mayorista", *order.PriceListName)
	require.NotNil(t, order.PriceListDiscount)
	assert.True(t, order.PriceListDiscount.Equal(decimal.NewFromFloat(10)))

	// Editing the list afterwards must not touch the snapshots.
	mayorista.Name = "Mayorista Plus"
	mayorista.DiscountPct = decimal.NewFromFloat(25)
	require.NoError(t, f.priceLists.Update(mayorista))

	reread, err := f.svc.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mayorista", *reread.PriceListName)
	assert.True(t, reread.PriceListDiscount.Equal(decimal.NewFromFloat(10)))
	assert.True(t, reread.Items[0].UnitPrice.Equal(decimal.NewFromFloat(90.00)))
}

func TestOrderService_CreateOrder_CustomerDefaultPriceList(t *testing.T) {
	f := newOrderFixture(t, models.DefaultFlow)
	yerba := f.addProduct(t, "YM-001", "Yerba Amanda 1kg", 100.00, 10)

	lista := &models.PriceList{
		Name:        "Minorista",
		DiscountPct: decimal.NewFromFloat(5),
		Active:      true,
	}
	require.NoError(t, f.priceLists.Create(lista))

	customerWithList := &models.User{
		Email:       "cliente.lista@example.com",
		Rol:         models.RoleCliente,
		Active:      true,
		PriceListID: &lista.ID,
	}
	require.NoError(t, f.users.Create(customerWithList))

	order, err := f.svc.CreateOrder(services.CreateOrderInput{
		CustomerID: customerWithList.ID,
		Items:      []services.CreateOrderItemInput{{ProductID: yerba.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.NewFromFloat(95.00)), "customer's assigned list applies when none is given")
}

func TestOrderService_ReserveOnPreparation(t *testing.T) {
	f := newOrderFixture(t, models.DefaultFlow)
	yerba := f.addProduct(t, "YM-001", "Yerba Amanda 1kg", 150.50, 10)
	harina := f.addProduct(t, "HA-002", "Harina Pureza 1kg", 80.00, 5)

	order, err := f.svc.CreateOrder(services.CreateOrderInput{
		CustomerID: f.customer.ID,
		Items: []services.CreateOrderItemInput{
			{ProductID: yerba.ID, Quantity: 3},
			{ProductID: harina.ID, Quantity: 5},
		},
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(order.ID, models.StatusEnPreparacion)
	require.NoError(t, err)

	assert.Equal(t, models.StatusEnPreparacion, updated.Status)
	assert.NotNil(t, updated.ConfirmedAt)
	assert.Equal(t, 7, f.stockOf(t, yerba.ID))
	assert.Equal(t, 0, f.stockOf(t, harina.ID))
}

func TestOrderService_ReserveShortfallIsAtomic(t *testing.T) {
	f := newOrderFixture(t, models.DefaultFlow)
	yerba := f.addProduct(t, "YM-001", "Yerba Amanda 1kg", 150.50, 10)
	harina := f.addProduct(t, "HA-002", "Harina Pureza 1kg", 80.00, 4)

	order, err := f.svc.CreateOrder(services.CreateOrderInput{
		CustomerID: f.customer.ID,
		Items: []services.CreateOrderItemInput{
			{ProductID: yerba.ID, Quantity: 3},
			{ProductID: harina.ID, Quantity: 4},
		},
	})
	require.NoError(t, err)

	// Another order drains the flour before this one is prepared.
	drain, err := f.svc.CreateOrder(services.CreateOrderInput{
		CustomerID: f.customer.ID,
		Items:      []services.CreateOrderItemInput{{ProductID: harina.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(drain.ID, models.StatusEnPreparacion)
	require.NoError(t, err)
	require.Equal(t, 2, f.stockOf(t, harina.ID))

	_, err = f.svc.UpdateStatus(order.ID, models.StatusEnPreparacion)
	var stockErr *services.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Harina Pureza 1kg", stockErr.ProductName)
	assert.Equal(t, 4, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)

	// Shortfall on the second line must not have touched the first.
	assert.Equal(t, 10, f.stockOf(t, yerba.ID))
	assert.Equal(t, 2, f.stockOf(t, harina.ID))

	reread, err := f.svc.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendiente, reread.Status, "a failed reservation leaves the order where it was")
}

func TestOrderService_ConcurrentReservationsNeverOversell(t *testing.T) {
	f := newOrderFixture(t, models.DefaultFlow)
	yerba := f.addProduct(t, "YM-001", "Yerba Amanda 1kg", 150.50, 10)

	makeOrder := func() *models.Order {
		order, err := f.svc.CreateOrder(services.CreateOrderInput{
			CustomerID: f.customer.ID,
			Items:      []services.CreateOrderItemInput{{ProductID: yerba.ID, Quantity: 6}},
		})
		require.NoError(t, err)
		return order
	}
	first := makeOrder()
	second := makeOrder()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.svc.UpdateStatus(id, models.StatusEnPreparacion)
		}(i, id)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			var stockErr *services.InsufficientStockError
			assert.ErrorAs(t, err, &stockErr)
		}
	}
	assert.Equal(t, 1, succeeded, "two 6-unit reservations against 10 units: exactly one wins")
	assert.Equal(t, 4, f.stockOf(t, yerba.ID))
}

func TestOrderService_RejectReleasesReservedStock(t *testing.T) {
	f := newOrderFixture(t, models.DefaultFlow)
	yerba := f.addProduct(t, "YM-001", "Yerba Amanda 1kg", 150.50, 10)

	order, err := f.svc.CreateOrder(services.CreateOrderInput{
		CustomerID: f.customer.ID,
		Items:      []services.CreateOrderItemInput{{ProductID: yerba.ID, Quantity: 4}},
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(order.ID, models.StatusEnPreparacion)
	require.NoError(t, err)
	require.Equal(t, 6, f.stockOf(t, yerba.ID))

	rejected, err := f.svc.RejectOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRechazado, rejected.Status)
	assert.Equal(t, 10, f.stockOf(t, yerba.ID), "rejecting a preparing order returns its stock")
	assert.Nil(t, rejected.ConfirmedAt, "releasing the stock undoes the confirmation")
}

// gateTxManager delays every transaction until the expected number of
// callers have passed their pre-transaction checks, then serializes them.
// This forces the interleaving where both callers read the same order
// status before either transaction runs.
type gateTxManager struct {
	mu      sync.Mutex
	arrived sync.WaitGroup
}

func newGateTxManager(parties int) *gateTxManager {
	g := &gateTxManager{}
	g.arrived.Add(parties)
	return g
}

func (g *gateTxManager) InTransaction(fn func(tx repositories.Tx) error) error {
	g.arrived.Done()
	g.arrived.Wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(nil)
}

func TestOrderService_ConcurrentTransitionsOnSameOrderReserveOnce(t *testing.T) {
	f := newOrderFixture(t, models.DefaultFlow)
	yerba := f.addProduct(t, "YM-001", "Yerba Amanda 1kg", 150.50, 10)

	order, err := f.svc.CreateOrder(services.CreateOrderInput{
		CustomerID: f.customer.ID,
		Items:      []services.CreateOrderItemInput{{ProductID: yerba.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	gate := newGateTxManager(2)
	racySvc := services.NewOrderService(
		f.orders, f.products, f.users, f.priceLists, gate, models.DefaultFlow, nil,
	)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = racySvc.UpdateStatus(order.ID, models.StatusEnPreparacion)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			var transErr *services.InvalidStateTransitionError
			assert.ErrorAs(t, err, &transErr)
			assert.Equal(t, models.StatusEnPreparacion, transErr.Current)
		}
	}
	assert.Equal(t, 1, succeeded, "the same order must only ever reserve once")
	assert.Equal(t, 7, f.stockOf(t, yerba.ID), "the reservation is applied exactly once")
}

func TestOrderService_RejectAfterProductDeletedRestoresSurvivors(t *testing.T) {
	f := newOrderFixture(t, models.DefaultFlow)
	yerba := f.addProduct(t, "YM-001", "Yerba Amanda 1kg", 150.50, 10)
	harina := f.addProduct(t, "HA-002", "Harina Pureza 1kg", 80.00, 5)

	order, err := f.svc.CreateOrder(services.CreateOrderInput{
		CustomerID: f.customer.ID,
		Items: []services.CreateOrderItemInput{
			{ProductID: yerba.ID, Quantity: 3},
			{ProductID: harina.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(order.ID, models.StatusEnPreparacion)
	require.NoError(t, err)
	require.Equal(t, 7, f.stockOf(t, yerba.ID))
	require.Equal(t, 3, f.stockOf(t, harina.ID))

	// The flour is removed from the catalog while the order holds its stock.
	require.NoError(t, f.products.Delete(harina.ID))

	rejected, err := f.svc.RejectOrder(order.ID)
	require.NoError(t, err, "a deleted line must not wedge the rejection")
	assert.Equal(t, models.StatusRechazado, rejected.Status)
	assert.Equal(t, 10, f.stockOf(t, yerba.ID), "the surviving product is restored")
}

func TestOrderService_RejectPendingReleasesNothing(t *testing.T) {
	f := newOrderFixture(t, models.DefaultFlow)
	yerba := f.addProduct(t, "YM-001", "Yerba Amanda 1kg", 150.50, 10)

	order, err := f.svc.CreateOrder(services.CreateOrderInput{
		CustomerID: f.customer.ID,
		Items:      []services.CreateOrderItemInput{{ProductID: yerba.ID, Quantity: 4}},
	})
	require.NoError(t, err)

	// Nothing was reserved yet, so nothing may be released.
	rejected, err := f.svc.RejectOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRechazado, rejected.Status)
	assert.Equal(t, 10, f.stockOf(t, yerba.ID))
}

func TestOrderService_IllegalTransitions(t *testing.T) {
	f := newOrderFixture(t, models.DefaultFlow)
	yerba := f.addProduct(t, "YM-001", "Yerba Amanda 1kg", 150.50, 10)

	order, err := f.svc.CreateOrder(services.CreateOrderInput{
		CustomerID: f.customer.ID,
		Items:      []services.CreateOrderItemInput{{ProductID: yerba.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// PENDIENTE cannot jump straight to FACTURADO.
	_, err = f.svc.UpdateStatus(order.ID, models.StatusFacturado)
	var transErr *services.InvalidStateTransitionError
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, models.StatusPendiente, transErr.Current)
	assert.Equal(t, models.StatusFacturado, transErr.Target)

	// RECHAZADO is terminal.
	_, err = f.svc.RejectOrder(order.ID)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(order.ID, models.StatusEnPreparacion)
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, models.StatusRechazado, transErr.Current)
}

func TestOrderService_FullLifecycleToDelivery(t *testing.T) {
	f := newOrderFixture(t, models.DefaultFlow)
	yerba := f.addProduct(t, "YM-001", "Yerba Amanda 1kg", 150.50, 10)

	courier := &models.User{
		Email:  "fletes.ruta8@example.com",
		Rol:    models.RoleTransportador,
		Active: true,
	}
	require.NoError(t, f.users.Create(courier))

	order, err := f.svc.CreateOrder(services.CreateOrderInput{
		CustomerID: f.customer.ID,
		Items:      []services.CreateOrderItemInput{{ProductID: yerba.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(order.ID, models.StatusEnPreparacion)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(order.ID, models.StatusFacturado)
	require.NoError(t, err)

	assigned, err := f.svc.AssignCourier(order.ID, courier.ID)
	require.NoError(t, err)
	require.NotNil(t, assigned.CourierID)
	assert.Equal(t, courier.ID, *assigned.CourierID)
	assert.Equal(t, models.StatusFacturado, assigned.Status, "assignment does not advance the lifecycle")

	delivered, err := f.svc.MarkDelivered(order.ID, courier.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEntregado, delivered.Status)
	assert.NotNil(t, delivered.DeliveredAt)

	// Delivery holds the reservation; the stock stays committed.
	assert.Equal(t, 8, f.stockOf(t, yerba.ID))
}

func TestOrderService_AssignCourier_RequiresCourierRole(t *testing.T) {
	f := newOrderFixture(t, models.DefaultFlow)
	yerba := f.addProduct(t, "YM-001", "Yerba Amanda 1kg", 150.50, 10)

	order, err := f.svc.CreateOrder(services.CreateOrderInput{
		CustomerID: f.customer.ID,
		Items:      []services.CreateOrderItemInput{{ProductID: yerba.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.svc.AssignCourier(order.ID, f.customer.ID)
	var vErr *services.BusinessValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "transportador_id", vErr.Field)

	_, err = f.svc.AssignCourier(order.ID, "no-such-user")
	require.ErrorAs(t, err, &vErr)
}

func TestOrderService_MarkDelivered_OnlyAssignedCourier(t *testing.T) {
	f := newOrderFixture(t, models.DefaultFlow)
	yerba := f.addProduct(t, "YM-001", "Yerba Amanda 1kg", 150.50, 10)

	assigned := &models.User{Email: "c1@example.com", Rol: models.RoleTransportador, Active: true}
	other := &models.User{Email: "c2@example.com", Rol: models.RoleTransportador, Active: true}
	require.NoError(t, f.users.Create(assigned))
	require.NoError(t, f.users.Create(other))

	order, err := f.svc.CreateOrder(services.CreateOrderInput{
		CustomerID: f.customer.ID,
		Items:      []services.CreateOrderItemInput{{ProductID: yerba.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(order.ID, models.StatusEnPreparacion)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(order.ID, models.StatusFacturado)
	require.NoError(t, err)
	_, err = f.svc.AssignCourier(order.ID, assigned.ID)
	require.NoError(t, err)

	_, err = f.svc.MarkDelivered(order.ID, other.ID)
	var vErr *services.BusinessValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "transportador_id", vErr.Field)

	_, err = f.svc.MarkDelivered(order.ID, assigned.ID)
	require.NoError(t, err)
}

func TestOrderService_DuplicateProductLinesReserveTheSum(t *testing.T) {
	f := newOrderFixture(t, models.DefaultFlow)
	yerba := f.addProduct(t, "YM-001", "Yerba Amanda 1kg", 150.50, 10)

	order, err := f.svc.CreateOrder(services.CreateOrderInput{
		CustomerID: f.customer.ID,
		Items: []services.CreateOrderItemInput{
			{ProductID: yerba.ID, Quantity: 4},
			{ProductID: yerba.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(order.ID, models.StatusEnPreparacion)
	require.NoError(t, err)
	assert.Equal(t, 3, f.stockOf(t, yerba.ID), "both lines of the same product reserve together")
}

func TestOrderService_LegacyFlowConfirmAndCancel(t *testing.T) {
	f := newOrderFixture(t, models.LegacyFlow)
	yerba := f.addProduct(t, "YM-001", "Yerba Amanda 1kg", 150.50, 10)

	order, err := f.svc.CreateOrder(services.CreateOrderInput{
		CustomerID: f.customer.ID,
		Items:      []services.CreateOrderItemInput{{ProductID: yerba.ID, Quantity: 6}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendiente, order.Status)

	confirmed, err := f.svc.UpdateStatus(order.ID, models.StatusConfirmado)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmado, confirmed.Status)
	assert.Equal(t, 4, f.stockOf(t, yerba.ID))

	cancelled, err := f.svc.UpdateStatus(order.ID, models.StatusCancelado)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelado, cancelled.Status)
	assert.Equal(t, 10, f.stockOf(t, yerba.ID))

	// The five-state statuses are not part of this flow.
	fresh, err := f.svc.CreateOrder(services.CreateOrderInput{
		CustomerID: f.customer.ID,
		Items:      []services.CreateOrderItemInput{{ProductID: yerba.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(fresh.ID, models.StatusEnPreparacion)
	var transErr *services.InvalidStateTransitionError
	assert.ErrorAs(t, err, &transErr)
}

func TestOrderService_Stats(t *testing.T) {
	f := newOrderFixture(t, models.DefaultFlow)
	yerba := f.addProduct(t, "YM-001", "Yerba Amanda 1kg", 100.00, 100)

	mk := func(qty int) *models.Order {
		order, err := f.svc.CreateOrder(services.CreateOrderInput{
			CustomerID: f.customer.ID,
			Items:      []services.CreateOrderItemInput{{ProductID: yerba.ID, Quantity: qty}},
		})
		require.NoError(t, err)
		return order
	}

	mk(1)                      // stays PENDIENTE, total 100
	prep := mk(2)              // EN_PREPARACION, total 200
	rejected := mk(3)          // RECHAZADO, excluded from revenue
	_, err := f.svc.UpdateStatus(prep.ID, models.StatusEnPreparacion)
	require.NoError(t, err)
	_, err = f.svc.RejectOrder(rejected.ID)
	require.NoError(t, err)

	stats, err := f.svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, 1, stats.ByStatus[models.StatusPendiente])
	assert.Equal(t, 1, stats.ByStatus[models.StatusEnPreparacion])
	assert.Equal(t, 1, stats.ByStatus[models.StatusRechazado])
	assert.True(t, stats.Revenue.Equal(decimal.NewFromFloat(300.00)), "rejected orders do not count as revenue")
}

func TestOrderService_ListCouriers(t *testing.T) {
	f := newOrderFixture(t, models.DefaultFlow)

	active := &models.User{Email: "c1@example.com", Rol: models.RoleTransportador, Active: true}
	inactive := &models.User{Email: "c2@example.com", Rol: models.RoleTransportador, Active: false}
	require.NoError(t, f.users.Create(active))
	require.NoError(t, f.users.Create(inactive))

	couriers, err := f.svc.ListCouriers()
	require.NoError(t, err)
	require.Len(t, couriers, 1)
	assert.Equal(t, active.ID, couriers[0].ID)
}
