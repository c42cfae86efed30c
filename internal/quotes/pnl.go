package quotes

import (
	"context"
	"time"

	"github.com/gopalmandloi007/tradedeck/internal/models"
)

// HoldingRow is one dashboard row: the raw holding plus every derived
// metric. Each metric that depends on market data carries its own Known
// or Valid flag; a false flag renders as N/A, never as zero.
type HoldingRow struct {
	Holding models.Holding

	Investment float64 // AveragePrice * Quantity, always computable

	CurrentValue      float64
	CurrentValueKnown bool

	UnrealizedPnL   float64
	UnrealizedKnown bool
	UnrealizedPct   float64
	UnrealizedValid bool // false when investment is zero or LTP unknown

	PrevClose      float64
	PrevCloseKnown bool

	TodayPnL   float64
	TodayKnown bool
	TodayPct   float64
	TodayValid bool // false when previous close is zero or unknown

	RealizedPnL   float64
	RealizedKnown bool // true only when the holding records exited quantity
}

// ComputeHoldingRow derives the per-row metrics. prevClose applies only
// when prevCloseKnown is true; a zero close with the flag set is a real
// price and the percentage guard handles it separately.
func ComputeHoldingRow(h models.Holding, prevClose float64, prevCloseKnown bool) HoldingRow {
	row := HoldingRow{
		Holding:    h,
		Investment: h.AveragePrice * float64(h.Quantity),
	}

	if h.LTPKnown {
		row.CurrentValue = h.LTP * float64(h.Quantity)
		row.CurrentValueKnown = true
		row.UnrealizedPnL = (h.LTP - h.AveragePrice) * float64(h.Quantity)
		row.UnrealizedKnown = true
		if row.Investment != 0 {
			row.UnrealizedPct = row.UnrealizedPnL / row.Investment * 100
			row.UnrealizedValid = true
		}
	}

	if prevCloseKnown {
		row.PrevClose = prevClose
		row.PrevCloseKnown = true
		if h.LTPKnown && h.Quantity > 0 {
			row.TodayPnL = (h.LTP - prevClose) * float64(h.Quantity)
			row.TodayKnown = true
			if prevClose != 0 {
				row.TodayPct = (h.LTP - prevClose) / prevClose * 100
				row.TodayValid = true
			}
		}
	}

	if realized, ok := EstimateRealizedPnL(h); ok {
		row.RealizedPnL = realized
		row.RealizedKnown = true
	}

	return row
}

// EstimateRealizedPnL estimates booked profit on the exited part of a
// holding from the recorded sell turnover. It assumes the remaining and
// exited quantities share the same average buy price, which the holdings
// feed cannot distinguish, so this is a best-effort figure and is kept
// out of the unrealized totals.
func EstimateRealizedPnL(h models.Holding) (float64, bool) {
	if h.ExitedQty <= 0 || h.SellAmount <= 0 {
		return 0, false
	}
	avgSell := h.SellAmount / float64(h.ExitedQty)
	return (avgSell - h.AveragePrice) * float64(h.ExitedQty), true
}

// PortfolioSummary aggregates rows by exact column sums. The Complete
// flags are false when any row lacked the underlying price, in which case
// the corresponding total covers only the rows that had one.
type PortfolioSummary struct {
	Investment float64

	CurrentValue    float64
	CurrentKnown    bool // at least one row contributed
	CurrentAllKnown bool

	UnrealizedPnL   float64
	UnrealizedPct   float64
	UnrealizedValid bool

	TodayPnL      float64
	TodayKnown    bool
	TodayAllKnown bool

	RealizedPnL   float64
	RealizedKnown bool
}

// Summarize folds rows into portfolio totals.
func Summarize(rows []HoldingRow) PortfolioSummary {
	s := PortfolioSummary{CurrentAllKnown: true, TodayAllKnown: true}
	for _, row := range rows {
		s.Investment += row.Investment

		if row.CurrentValueKnown {
			s.CurrentValue += row.CurrentValue
			s.UnrealizedPnL += row.UnrealizedPnL
			s.CurrentKnown = true
		} else {
			s.CurrentAllKnown = false
		}

		if row.TodayKnown {
			s.TodayPnL += row.TodayPnL
			s.TodayKnown = true
		} else {
			s.TodayAllKnown = false
		}

		if row.RealizedKnown {
			s.RealizedPnL += row.RealizedPnL
			s.RealizedKnown = true
		}
	}

	if s.CurrentKnown && s.Investment != 0 {
		s.UnrealizedPct = s.UnrealizedPnL / s.Investment * 100
		s.UnrealizedValid = true
	}
	return s
}

// Engine ties the resolver to the holdings feed: it fetches holdings,
// resolves each previous close and derives the full dashboard rows.
type Engine struct {
	holdings HoldingsSource
	resolver *Resolver
}

// HoldingsSource is the slice of the broker client the engine needs.
type HoldingsSource interface {
	GetHoldings(ctx context.Context) ([]models.Holding, error)
}

// NewEngine builds a P&L engine sharing the resolver's memoization for
// the lifetime of one refresh.
func NewEngine(holdings HoldingsSource, resolver *Resolver) *Engine {
	return &Engine{holdings: holdings, resolver: resolver}
}

// HoldingRows fetches holdings and derives a row per holding as of the
// given time. A failed previous-close lookup degrades that row's today
// metrics to unknown instead of failing the whole view.
func (e *Engine) HoldingRows(ctx context.Context, asOf time.Time) ([]HoldingRow, error) {
	holdings, err := e.holdings.GetHoldings(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]HoldingRow, 0, len(holdings))
	for _, h := range holdings {
		prev, err := e.resolver.Resolve(ctx, h.Instrument, asOf)
		known := err == nil
		rows = append(rows, ComputeHoldingRow(h, prev.Price, known))
	}
	return rows, nil
}
