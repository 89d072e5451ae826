package models

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPendiente     Status = "PENDIENTE"
	StatusEnPreparacion Status = "EN_PREPARACION"
	StatusFacturado     Status = "FACTURADO"
	StatusEntregado     Status = "ENTREGADO"
	StatusRechazado     Status = "RECHAZADO"

	// Legacy flow statuses.
	StatusConfirmado Status = "CONFIRMADO"
	StatusCancelado  Status = "CANCELADO"
)

// StatusFlow defines which status transitions are legal and which single
// transition commits stock and which single transition restores it.
// Stock is only ever held by an order between those two transitions.
type StatusFlow struct {
	Name        string
	Initial     Status
	transitions map[Status][]Status

	reserveFrom, reserveTo Status
	releaseFrom, releaseTo Status

	rejected  Status
	delivered Status
}

// DefaultFlow is the five-state lifecycle. Stock is committed when the order
// enters preparation and restored if a preparing order is rejected. Rejecting
// an already invoiced order does not restore stock; invoiced goods are
// reconciled outside the order lifecycle.
var DefaultFlow = StatusFlow{
	Name:    "default",
	Initial: StatusPendiente,
	transitions: map[Status][]Status{
		StatusPendiente:     {StatusEnPreparacion, StatusRechazado},
		StatusEnPreparacion: {StatusFacturado, StatusRechazado},
		StatusFacturado:     {StatusEntregado, StatusRechazado},
		StatusEntregado:     {},
		StatusRechazado:     {},
	},
	reserveFrom: StatusPendiente,
	reserveTo:   StatusEnPreparacion,
	releaseFrom: StatusEnPreparacion,
	releaseTo:   StatusRechazado,
	rejected:    StatusRechazado,
	delivered:   StatusEntregado,
}

// LegacyFlow is the earlier three-state lifecycle: confirmation commits stock
// and cancelling a confirmed order restores it.
var LegacyFlow = StatusFlow{
	Name:    "legacy",
	Initial: StatusPendiente,
	transitions: map[Status][]Status{
		StatusPendiente:  {StatusConfirmado, StatusCancelado},
		StatusConfirmado: {StatusCancelado},
		StatusCancelado:  {},
	},
	reserveFrom: StatusPendiente,
	reserveTo:   StatusConfirmado,
	releaseFrom: StatusConfirmado,
	releaseTo:   StatusCancelado,
	rejected:    StatusCancelado,
}

// FlowByName returns the flow for a configuration value, defaulting to the
// five-state flow for unknown names.
func FlowByName(name string) StatusFlow {
	if name == LegacyFlow.Name {
		return LegacyFlow
	}
	return DefaultFlow
}

// Allowed reports whether the transition from -> to is legal.
func (f StatusFlow) Allowed(from, to Status) bool {
	for _, t := range f.transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// ReservesStock reports whether the transition is the one that commits stock.
func (f StatusFlow) ReservesStock(from, to Status) bool {
	return from == f.reserveFrom && to == f.reserveTo
}

// ReleasesStock reports whether the transition restores previously
// committed stock.
func (f StatusFlow) ReleasesStock(from, to Status) bool {
	return from == f.releaseFrom && to == f.releaseTo
}

// Terminal reports whether no transition leaves the given status.
func (f StatusFlow) Terminal(s Status) bool {
	ts, ok := f.transitions[s]
	return ok && len(ts) == 0
}

// Rejected is the flow's rejection/cancellation status.
func (f StatusFlow) Rejected() Status { return f.rejected }

// Delivered is the flow's delivered status, empty if the flow has none.
func (f StatusFlow) Delivered() Status { return f.delivered }

// Statuses returns every status known to the flow.
func (f StatusFlow) Statuses() []Status {
	statuses := make([]Status, 0, len(f.transitions))
	for s := range f.transitions {
		statuses = append(statuses, s)
	}
	return statuses
}

// Valid reports whether s is a status of this flow.
func (f StatusFlow) Valid(s Status) bool {
	_, ok := f.transitions[s]
	return ok
}
