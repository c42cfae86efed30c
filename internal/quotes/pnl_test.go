package quotes

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"

	"github.com/gopalmandloi007/tradedeck/internal/models"
	"github.com/gopalmandloi007/tradedeck/pkg/utils"
)

func TestComputeHoldingRowAllKnown(t *testing.T) {
	h := models.Holding{
		Instrument:   testInst,
		Quantity:     10,
		AveragePrice: 500,
		LTP:          612.4,
		LTPKnown:     true,
	}

	row := ComputeHoldingRow(h, 600, true)

	if row.Investment != 5000 {
		t.Fatalf("Investment = %v", row.Investment)
	}
	if !row.CurrentValueKnown || row.CurrentValue != 6124 {
		t.Fatalf("CurrentValue = %v known=%v", row.CurrentValue, row.CurrentValueKnown)
	}
	if !row.UnrealizedKnown || math.Abs(row.UnrealizedPnL-1124) > 1e-9 {
		t.Fatalf("UnrealizedPnL = %v", row.UnrealizedPnL)
	}
	if !row.UnrealizedValid || math.Abs(row.UnrealizedPct-22.48) > 1e-9 {
		t.Fatalf("UnrealizedPct = %v", row.UnrealizedPct)
	}
	if !row.TodayKnown || math.Abs(row.TodayPnL-124) > 1e-9 {
		t.Fatalf("TodayPnL = %v", row.TodayPnL)
	}
	if !row.TodayValid {
		t.Fatal("TodayPct must be valid with a nonzero previous close")
	}
}

func TestComputeHoldingRowUnknownLTP(t *testing.T) {
	h := models.Holding{Instrument: testInst, Quantity: 10, AveragePrice: 500}

	row := ComputeHoldingRow(h, 600, true)

	if row.Investment != 5000 {
		t.Fatalf("Investment = %v, must not depend on market data", row.Investment)
	}
	if row.CurrentValueKnown || row.UnrealizedKnown || row.UnrealizedValid {
		t.Fatal("metrics derived from an unknown LTP must stay unknown")
	}
	if row.TodayKnown || row.TodayValid {
		t.Fatal("today metrics need both LTP and previous close")
	}
	if !row.PrevCloseKnown {
		t.Fatal("previous close is known independently of LTP")
	}
}

func TestComputeHoldingRowNoPreviousClose(t *testing.T) {
	h := models.Holding{Instrument: testInst, Quantity: 10, AveragePrice: 500, LTP: 550, LTPKnown: true}

	row := ComputeHoldingRow(h, 0, false)

	if row.PrevCloseKnown || row.TodayKnown || row.TodayValid {
		t.Fatal("today metrics must be unknown without a previous close")
	}
	if !row.UnrealizedKnown {
		t.Fatal("unrealized P&L does not depend on the previous close")
	}
}

func TestComputeHoldingRowZeroPreviousClose(t *testing.T) {
	h := models.Holding{Instrument: testInst, Quantity: 4, AveragePrice: 2, LTP: 3, LTPKnown: true}

	row := ComputeHoldingRow(h, 0, true)

	if !row.TodayKnown || row.TodayPnL != 12 {
		t.Fatalf("TodayPnL = %v known=%v, a zero close is a real price", row.TodayPnL, row.TodayKnown)
	}
	if row.TodayValid {
		t.Fatal("percentage against a zero close must be invalid, not infinite")
	}
}

func TestComputeHoldingRowZeroQuantity(t *testing.T) {
	h := models.Holding{Instrument: testInst, Quantity: 0, AveragePrice: 500, LTP: 550, LTPKnown: true}

	row := ComputeHoldingRow(h, 540, true)

	if row.TodayKnown {
		t.Fatal("today P&L applies only to a positive quantity")
	}
	if row.UnrealizedValid {
		t.Fatal("percent of a zero investment must be invalid")
	}
}

func TestEstimateRealizedPnL(t *testing.T) {
	cases := []struct {
		name    string
		holding models.Holding
		want    float64
		ok      bool
	}{
		{
			name:    "partial exit at a profit",
			holding: models.Holding{Quantity: 30, AveragePrice: 500, ExitedQty: 10, SellAmount: 6100},
			want:    1100, // (610 - 500) * 10
			ok:      true,
		},
		{
			name:    "partial exit at a loss",
			holding: models.Holding{Quantity: 30, AveragePrice: 500, ExitedQty: 10, SellAmount: 4500},
			want:    -500,
			ok:      true,
		},
		{
			name:    "no exits",
			holding: models.Holding{Quantity: 30, AveragePrice: 500},
			ok:      false,
		},
		{
			name:    "exit recorded without turnover",
			holding: models.Holding{Quantity: 30, AveragePrice: 500, ExitedQty: 10},
			ok:      false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := EstimateRealizedPnL(c.holding)
			if ok != c.ok {
				t.Fatalf("ok = %v, want %v", ok, c.ok)
			}
			if ok && math.Abs(got-c.want) > 1e-9 {
				t.Fatalf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestSummarizePartialCoverage(t *testing.T) {
	rows := []HoldingRow{
		ComputeHoldingRow(models.Holding{Quantity: 10, AveragePrice: 100, LTP: 110, LTPKnown: true}, 105, true),
		ComputeHoldingRow(models.Holding{Quantity: 5, AveragePrice: 200}, 0, false),
	}

	s := Summarize(rows)

	if s.Investment != 2000 {
		t.Fatalf("Investment = %v", s.Investment)
	}
	if !s.CurrentKnown || s.CurrentAllKnown {
		t.Fatalf("coverage flags = known %v all %v", s.CurrentKnown, s.CurrentAllKnown)
	}
	if s.CurrentValue != 1100 {
		t.Fatalf("CurrentValue = %v, must cover only priced rows", s.CurrentValue)
	}
	if !s.TodayKnown || s.TodayAllKnown {
		t.Fatalf("today flags = known %v all %v", s.TodayKnown, s.TodayAllKnown)
	}
	if math.Abs(s.TodayPnL-50) > 1e-9 {
		t.Fatalf("TodayPnL = %v", s.TodayPnL)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.CurrentKnown || s.TodayKnown || s.UnrealizedValid {
		t.Fatalf("empty summary must carry no known metrics: %+v", s)
	}
}

func TestEngineDegradesRowOnMissingClose(t *testing.T) {
	asOf := time.Date(2024, 6, 14, 11, 0, 0, 0, utils.IndiaLocation)
	prevDay := asOf.AddDate(0, 0, -1)

	// perSymbolSource serves a candle only for the first symbol, so the
	// second row's close lookup exhausts the window.
	source := &perSymbolSource{
		symbol: testInst.Symbol,
		inner:  &fakeCandleSource{candles: map[string]*models.Candle{dayKey(prevDay): {Close: 600}}},
	}
	holdings := holdingsStub{
		{Instrument: testInst, Quantity: 10, AveragePrice: 500, LTP: 612.4, LTPKnown: true},
		{Instrument: models.Instrument{Symbol: "NSE:GHOST-EQ", Exchange: models.NSE}, Quantity: 5, AveragePrice: 90, LTP: 95, LTPKnown: true},
	}

	engine := NewEngine(holdings, NewResolver(source, 0, zerolog.Nop()))

	rows, err := engine.HoldingRows(context.Background(), asOf)
	if err != nil {
		t.Fatalf("HoldingRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d", len(rows))
	}
	if !rows[0].TodayKnown {
		t.Fatal("first row must carry today P&L")
	}
	if rows[1].TodayKnown || rows[1].PrevCloseKnown {
		t.Fatal("a missing close must degrade the row, not fail the view")
	}
	if !rows[1].UnrealizedKnown {
		t.Fatal("unrealized P&L survives a missing close")
	}
}

// perSymbolSource serves candles only for one symbol; other symbols see
// an empty calendar.
type perSymbolSource struct {
	symbol string
	inner  *fakeCandleSource
}

func (p *perSymbolSource) GetDailyCandle(ctx context.Context, inst models.Instrument, day time.Time) (*models.Candle, error) {
	if inst.Symbol != p.symbol {
		return nil, nil
	}
	return p.inner.GetDailyCandle(ctx, inst, day)
}

type holdingsStub []models.Holding

func (h holdingsStub) GetHoldings(context.Context) ([]models.Holding, error) {
	return []models.Holding(h), nil
}

// Property: investment and unrealized P&L are exact column sums, and the
// reconstruction investment + unrealized equals current value for fully
// priced portfolios.
func TestProperty_SummaryIsExactColumnSum(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	holdingGen := gopter.CombineGens(
		gen.IntRange(1, 1000),
		gen.Float64Range(0.05, 5000),
		gen.Float64Range(0.05, 5000),
	).Map(func(vals []interface{}) models.Holding {
		return models.Holding{
			Quantity:     vals[0].(int),
			AveragePrice: vals[1].(float64),
			LTP:          vals[2].(float64),
			LTPKnown:     true,
		}
	})

	properties.Property("totals equal the sum over rows", prop.ForAll(
		func(holdings []models.Holding) bool {
			rows := make([]HoldingRow, 0, len(holdings))
			var wantInvestment, wantCurrent, wantUnrealized float64
			for _, h := range holdings {
				row := ComputeHoldingRow(h, 0, false)
				rows = append(rows, row)
				wantInvestment += row.Investment
				wantCurrent += row.CurrentValue
				wantUnrealized += row.UnrealizedPnL
			}

			s := Summarize(rows)
			if s.Investment != wantInvestment || s.CurrentValue != wantCurrent {
				return false
			}
			if s.UnrealizedPnL != wantUnrealized {
				return false
			}
			// Identity within float tolerance: current = investment + unrealized.
			return math.Abs(s.CurrentValue-(s.Investment+s.UnrealizedPnL)) < 1e-6*(math.Abs(s.CurrentValue)+1)
		},
		gen.SliceOf(holdingGen),
	))

	properties.Property("today P&L sign follows the price move", prop.ForAll(
		func(qty int, prevClose, move float64) bool {
			h := models.Holding{
				Quantity:     qty,
				AveragePrice: prevClose,
				LTP:          prevClose + move,
				LTPKnown:     true,
			}
			row := ComputeHoldingRow(h, prevClose, true)
			if !row.TodayKnown {
				return false
			}
			diff := h.LTP - prevClose
			switch {
			case diff > 0:
				return row.TodayPnL > 0
			case diff < 0:
				return row.TodayPnL < 0
			default:
				return row.TodayPnL == 0
			}
		},
		gen.IntRange(1, 10000),
		gen.Float64Range(1, 10000),
		gen.Float64Range(-0.99, 100),
	))

	properties.TestingRun(t)
}
