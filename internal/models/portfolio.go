package models

// Holding represents a delivery holding. LTP is refreshed per view, never
// persisted. ExitedQty and SellAmount come from broker-reported traded/sell
// fields and feed the best-effort realized-P&L estimate for partial exits.
type Holding struct {
	Instrument   Instrument
	Quantity     int
	AveragePrice float64
	LTP          float64
	LTPKnown     bool
	PnL          float64
	ExitedQty    int
	SellAmount   float64
}

// Position represents an open position. NetQty is signed: negative means
// net short. Positions flatten to zero intraday, unlike holdings.
type Position struct {
	Instrument    Instrument
	Product       ProductType
	NetQty        int
	BuyQty        int
	SellQty       int
	BuyAvg        float64
	SellAvg       float64
	LTP           float64
	LTPKnown      bool
	RealizedPnL   float64
	UnrealizedPnL float64
}
