// Package models provides the canonical domain records shared by all
// broker integrations. Broker-native field names never appear here; each
// client maps its raw JSON into these types at its own boundary.
package models

import (
	"time"
)

// Exchange represents a stock exchange.
type Exchange string

const (
	NSE Exchange = "NSE"
	BSE Exchange = "BSE"
	NFO Exchange = "NFO" // F&O
	MCX Exchange = "MCX" // Commodity
)

// OrderSide represents the side of an order.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// OrderType represents the type of an order.
type OrderType string

const (
	OrderTypeMarket    OrderType = "MARKET"
	OrderTypeLimit     OrderType = "LIMIT"
	OrderTypeStopMkt   OrderType = "SL-M"
	OrderTypeStopLimit OrderType = "SL-L"
)

// ProductType represents the product type of an order.
type ProductType string

const (
	ProductCNC      ProductType = "CNC"      // Delivery
	ProductIntraday ProductType = "INTRADAY" // Same-day square-off (MIS)
	ProductNRML     ProductType = "NRML"     // F&O Normal
)

// Instrument identifies a tradeable instrument. Immutable once resolved;
// looked up per call, never cached beyond a single resolver pass.
type Instrument struct {
	Symbol   string // exchange-qualified trading symbol
	Exchange Exchange
	Token    string // broker-assigned token, empty when the symbol alone suffices
	ISIN     string
}

// Candle represents OHLC data for a trading day.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// Quote represents a market quote.
type Quote struct {
	Symbol    string
	LTP       float64
	Timestamp time.Time
}

// Funds represents account fund limits.
type Funds struct {
	Available       float64
	UsedMargin      float64
	Net             float64
	TotalCollateral float64
}
