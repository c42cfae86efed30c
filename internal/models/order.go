package models

import "time"

// OrderStatus is the canonical order state shared across brokers. Raw
// broker codes are mapped into this set by the orders package.
type OrderStatus string

const (
	StatusCompleted       OrderStatus = "COMPLETED"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusPending         OrderStatus = "PENDING"
	StatusCancelled       OrderStatus = "CANCELLED"
	StatusRejected        OrderStatus = "REJECTED"
	StatusExpired         OrderStatus = "EXPIRED"
	StatusOpen            OrderStatus = "OPEN"
	StatusTriggerPending  OrderStatus = "TRIGGER_PENDING"
	StatusUnknown         OrderStatus = "UNKNOWN"
)

// Order represents an order at rest in the order book.
// RemainingQty = Quantity - FilledQty holds for every well-formed order.
type Order struct {
	ID           string
	Instrument   Instrument
	Side         OrderSide
	Type         OrderType
	Product      ProductType
	Quantity     int
	FilledQty    int
	RemainingQty int
	LimitPrice   float64
	StopPrice    float64
	RawStatus    string // broker-native status code or word, kept verbatim
	Status       OrderStatus
	Tag          string
	Modifiable   bool // broker reports the order as open for modify/cancel
	PlacedAt     time.Time
}

// Trade represents an executed fill from the trade book.
type Trade struct {
	OrderID    string
	TradeID    string
	Instrument Instrument
	Side       OrderSide
	Product    ProductType
	Quantity   int
	Price      float64
	Value      float64
	Tag        string
	ExecutedAt time.Time
}

// TriggerDirection states which way price must cross to fire a
// conditional order.
type TriggerDirection string

const (
	TriggerAbove TriggerDirection = "LTP_ABOVE"
	TriggerBelow TriggerDirection = "LTP_BELOW"
)

// ConditionalOrder represents a GTT order: a trigger condition bound to an
// order template. The broker owns trigger evaluation; this system only
// models the request and response.
type ConditionalOrder struct {
	ID           string
	Instrument   Instrument
	Side         OrderSide
	Product      ProductType
	Quantity     int
	TriggerPrice float64
	LimitPrice   float64
	Direction    TriggerDirection
	Status       string
	CreatedAt    time.Time
}

// OCOOrder represents a one-cancels-other conditional pair. Firing one leg
// voids the other broker-side; the legs carry independent quantities and
// prices.
type OCOOrder struct {
	ID            string
	Instrument    Instrument
	Side          OrderSide
	Product       ProductType
	TargetQty     int
	TargetPrice   float64
	StoplossQty   int
	StoplossPrice float64
	Remarks       string
	Status        string
	CreatedAt     time.Time
}
