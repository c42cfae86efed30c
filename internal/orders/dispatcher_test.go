package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/gopalmandloi007/tradedeck/internal/broker"
	apperrors "github.com/gopalmandloi007/tradedeck/internal/errors"
	"github.com/gopalmandloi007/tradedeck/internal/models"
)

// fakeClient scripts broker responses and records every order it was
// asked to place.
type fakeClient struct {
	placed    []broker.OrderSpec
	modified  []broker.OrderSpec
	cancelled []string

	quote      *models.Quote
	quoteErr   error
	placeErr   func(spec broker.OrderSpec) error
	placeResp  *broker.ActionResult
	orders     []models.Order
	networkHit int
}

func (f *fakeClient) Name() string { return "fake" }

func (f *fakeClient) QualifySymbol(symbol string) models.Instrument {
	return models.Instrument{Symbol: symbol, Exchange: models.NSE}
}

func (f *fakeClient) GetQuote(context.Context, models.Instrument) (*models.Quote, error) {
	f.networkHit++
	return f.quote, f.quoteErr
}

func (f *fakeClient) PlaceOrder(_ context.Context, spec broker.OrderSpec) (*broker.ActionResult, error) {
	f.networkHit++
	if f.placeErr != nil {
		if err := f.placeErr(spec); err != nil {
			return nil, err
		}
	}
	f.placed = append(f.placed, spec)
	if f.placeResp != nil {
		return f.placeResp, nil
	}
	return &broker.ActionResult{OK: true, OrderID: "OID1", Message: "placed"}, nil
}

func (f *fakeClient) ModifyOrder(_ context.Context, _ string, spec broker.OrderSpec) (*broker.ActionResult, error) {
	f.networkHit++
	f.modified = append(f.modified, spec)
	return &broker.ActionResult{OK: true, OrderID: "OID1"}, nil
}

func (f *fakeClient) CancelOrder(_ context.Context, orderID string) (*broker.ActionResult, error) {
	f.networkHit++
	f.cancelled = append(f.cancelled, orderID)
	return &broker.ActionResult{OK: true, OrderID: orderID}, nil
}

func (f *fakeClient) GetOrders(context.Context) ([]models.Order, error) { return f.orders, nil }

func (f *fakeClient) GetHoldings(context.Context) ([]models.Holding, error)   { return nil, nil }
func (f *fakeClient) GetPositions(context.Context) ([]models.Position, error) { return nil, nil }
func (f *fakeClient) GetTrades(context.Context) ([]models.Trade, error)       { return nil, nil }
func (f *fakeClient) GetFunds(context.Context) (*models.Funds, error)         { return nil, nil }
func (f *fakeClient) GetDailyCandle(context.Context, models.Instrument, time.Time) (*models.Candle, error) {
	return nil, nil
}
func (f *fakeClient) PlaceGTT(context.Context, broker.GTTSpec) (*broker.ActionResult, error) {
	return &broker.ActionResult{OK: true, OrderID: "GTT1"}, nil
}
func (f *fakeClient) ModifyGTT(context.Context, string, broker.GTTSpec) (*broker.ActionResult, error) {
	return &broker.ActionResult{OK: true}, nil
}
func (f *fakeClient) CancelGTT(context.Context, string) (*broker.ActionResult, error) {
	return &broker.ActionResult{OK: true}, nil
}
func (f *fakeClient) PlaceOCO(context.Context, broker.OCOSpec) (*broker.ActionResult, error) {
	return &broker.ActionResult{OK: true, OrderID: "OCO1"}, nil
}
func (f *fakeClient) ModifyOCO(context.Context, string, broker.OCOSpec) (*broker.ActionResult, error) {
	return &broker.ActionResult{OK: true}, nil
}
func (f *fakeClient) CancelOCO(context.Context, string) (*broker.ActionResult, error) {
	return &broker.ActionResult{OK: true}, nil
}
func (f *fakeClient) RefreshSession(context.Context) error { return nil }

var _ broker.Client = (*fakeClient)(nil)

func newDispatcher(client *fakeClient) *Dispatcher {
	return NewDispatcher(client, nil, zerolog.Nop())
}

func TestPlaceRejectsOutOfSetEnums(t *testing.T) {
	client := &fakeClient{}
	d := newDispatcher(client)

	cases := []PlaceRequest{
		{Symbol: "SBIN", Side: "HOLD", Type: models.OrderTypeMarket, Product: models.ProductCNC, Quantity: 1},
		{Symbol: "SBIN", Side: models.OrderSideBuy, Type: "ICEBERG", Product: models.ProductCNC, Quantity: 1},
		{Symbol: "SBIN", Side: models.OrderSideBuy, Type: models.OrderTypeMarket, Product: "BO", Quantity: 1},
	}
	for _, req := range cases {
		if _, err := d.Place(context.Background(), req); !errors.Is(err, apperrors.ErrInvalidParameter) {
			t.Fatalf("req %+v: want ErrInvalidParameter, got %v", req, err)
		}
	}
	if client.networkHit != 0 {
		t.Fatal("validation failures must not reach the network")
	}
}

func TestPlaceAmountSizing(t *testing.T) {
	cases := []struct {
		name    string
		amount  float64
		price   float64
		wantQty int
	}{
		{"even division", 10000, 250, 40},
		{"floors the remainder", 10100, 250, 40},
		{"amount below price still buys one", 100, 250, 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			client := &fakeClient{quote: &models.Quote{Symbol: "SBIN", LTP: c.price}}
			d := newDispatcher(client)

			_, err := d.Place(context.Background(), PlaceRequest{
				Symbol:  "SBIN",
				Side:    models.OrderSideBuy,
				Type:    models.OrderTypeMarket,
				Product: models.ProductCNC,
				Amount:  c.amount,
			})
			if err != nil {
				t.Fatalf("Place: %v", err)
			}
			if got := client.placed[0].Quantity; got != c.wantQty {
				t.Fatalf("quantity = %d, want %d", got, c.wantQty)
			}
		})
	}
}

func TestPlaceAmountSizingUsesLimitPriceForLimitOrders(t *testing.T) {
	// No quote is scripted: a limit order must size off its own price.
	client := &fakeClient{quoteErr: errors.New("must not be called")}
	d := newDispatcher(client)

	_, err := d.Place(context.Background(), PlaceRequest{
		Symbol:     "SBIN",
		Side:       models.OrderSideBuy,
		Type:       models.OrderTypeLimit,
		Product:    models.ProductCNC,
		Amount:     5000,
		LimitPrice: 500,
	})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if client.placed[0].Quantity != 10 {
		t.Fatalf("quantity = %d", client.placed[0].Quantity)
	}
}

func TestPlaceAmountSizingUnknownPriceRejectsLocally(t *testing.T) {
	client := &fakeClient{quoteErr: apperrors.NewNetworkError("fake", "GET /quotes", errors.New("timeout"))}
	d := newDispatcher(client)

	_, err := d.Place(context.Background(), PlaceRequest{
		Symbol:  "SBIN",
		Side:    models.OrderSideBuy,
		Type:    models.OrderTypeMarket,
		Product: models.ProductCNC,
		Amount:  10000,
	})
	if !errors.Is(err, apperrors.ErrInvalidQuantity) {
		t.Fatalf("want ErrInvalidQuantity, got %v", err)
	}
	if len(client.placed) != 0 {
		t.Fatal("no order may be placed without a sizing price")
	}
}

func TestPlaceZeroQuantityRejected(t *testing.T) {
	client := &fakeClient{}
	d := newDispatcher(client)

	_, err := d.Place(context.Background(), PlaceRequest{
		Symbol: "SBIN", Side: models.OrderSideBuy,
		Type: models.OrderTypeMarket, Product: models.ProductCNC,
	})
	if !errors.Is(err, apperrors.ErrInvalidQuantity) {
		t.Fatalf("want ErrInvalidQuantity, got %v", err)
	}
	if client.networkHit != 0 {
		t.Fatal("zero quantity must fail before the network")
	}
}

func TestPlacePricesApplyOnlyToMatchingTypes(t *testing.T) {
	client := &fakeClient{}
	d := newDispatcher(client)

	_, err := d.Place(context.Background(), PlaceRequest{
		Symbol: "SBIN", Side: models.OrderSideBuy,
		Type: models.OrderTypeMarket, Product: models.ProductCNC,
		Quantity: 10, LimitPrice: 600, StopPrice: 590,
	})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	spec := client.placed[0]
	if spec.LimitPrice != 0 || spec.StopPrice != 0 {
		t.Fatalf("market order carried prices: %+v", spec)
	}
}

func TestPlaceRejectedOutcomeIsNotAnError(t *testing.T) {
	client := &fakeClient{placeResp: &broker.ActionResult{OK: false, Code: "-99", Message: "RED:Margin Shortfall"}}
	d := newDispatcher(client)

	outcome, err := d.Place(context.Background(), PlaceRequest{
		Symbol: "SBIN", Side: models.OrderSideBuy,
		Type: models.OrderTypeMarket, Product: models.ProductCNC, Quantity: 1,
	})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if outcome.Accepted {
		t.Fatal("broker rejection must classify as not accepted")
	}
	if outcome.Message != "RED:Margin Shortfall" {
		t.Fatalf("message = %q", outcome.Message)
	}
}

func TestModifyDerivesDisclosedQty(t *testing.T) {
	client := &fakeClient{}
	d := newDispatcher(client)

	_, err := d.Modify(context.Background(), "OID1", ModifyRequest{
		Symbol: "SBIN", Side: models.OrderSideBuy,
		Type: models.OrderTypeLimit, Product: models.ProductCNC,
		Quantity: 100, LimitPrice: 600,
	})
	if err != nil {
		t.Fatalf("Modify: %v", err)
	}
	if client.modified[0].DisclosedQty != 10 {
		t.Fatalf("DisclosedQty = %d", client.modified[0].DisclosedQty)
	}
}

func TestDisclosedQty(t *testing.T) {
	cases := []struct{ qty, want int }{
		{1, 1},
		{9, 1},
		{10, 1},
		{25, 2},
		{100, 10},
		{999, 99},
	}
	for _, c := range cases {
		if got := DisclosedQty(c.qty); got != c.want {
			t.Errorf("DisclosedQty(%d) = %d, want %d", c.qty, got, c.want)
		}
	}
}

func TestExitLongSellsAtMarket(t *testing.T) {
	client := &fakeClient{}
	d := newDispatcher(client)

	_, err := d.Exit(context.Background(), ExitTarget{
		Instrument: models.Instrument{Symbol: "NSE:SBIN-EQ", Exchange: models.NSE},
		Quantity:   40,
		Product:    models.ProductCNC,
	})
	if err != nil {
		t.Fatalf("Exit: %v", err)
	}
	spec := client.placed[0]
	if spec.Side != models.OrderSideSell || spec.Type != models.OrderTypeMarket {
		t.Fatalf("spec = %+v", spec)
	}
	if spec.Quantity != 40 || spec.Product != models.ProductCNC {
		t.Fatalf("spec = %+v", spec)
	}
	if spec.Tag != "exitorder" {
		t.Fatalf("tag = %q", spec.Tag)
	}
}

func TestExitShortBuysBack(t *testing.T) {
	client := &fakeClient{}
	d := newDispatcher(client)

	_, err := d.Exit(context.Background(), ExitTarget{
		Instrument: models.Instrument{Symbol: "NSE:SBIN-EQ", Exchange: models.NSE},
		Quantity:   -50,
		Product:    models.ProductIntraday,
	})
	if err != nil {
		t.Fatalf("Exit: %v", err)
	}
	spec := client.placed[0]
	if spec.Side != models.OrderSideBuy || spec.Quantity != 50 {
		t.Fatalf("short exit placed %v %d", spec.Side, spec.Quantity)
	}
	if spec.Product != models.ProductIntraday {
		t.Fatalf("product not carried over: %v", spec.Product)
	}
}

func TestExitZeroQuantityRejected(t *testing.T) {
	d := newDispatcher(&fakeClient{})
	_, err := d.Exit(context.Background(), ExitTarget{Quantity: 0})
	if !errors.Is(err, apperrors.ErrInvalidQuantity) {
		t.Fatalf("want ErrInvalidQuantity, got %v", err)
	}
}

func TestExitAllContinuesPastFailures(t *testing.T) {
	client := &fakeClient{}
	client.placeErr = func(spec broker.OrderSpec) error {
		if spec.Instrument.Symbol == "NSE:TCS-EQ" {
			return apperrors.NewNetworkError("fake", "POST /orders", errors.New("timeout"))
		}
		return nil
	}
	d := newDispatcher(client)

	targets := []ExitTarget{
		{Instrument: models.Instrument{Symbol: "NSE:SBIN-EQ"}, Quantity: 10, Product: models.ProductCNC},
		{Instrument: models.Instrument{Symbol: "NSE:TCS-EQ"}, Quantity: 5, Product: models.ProductCNC},
		{Instrument: models.Instrument{Symbol: "NSE:INFY-EQ"}, Quantity: 8, Product: models.ProductCNC},
	}
	outcomes := d.ExitAll(context.Background(), targets)

	if len(outcomes) != 3 {
		t.Fatalf("len = %d", len(outcomes))
	}
	if outcomes[0].Err != nil || !outcomes[0].Outcome.Accepted {
		t.Fatalf("first exit failed: %+v", outcomes[0])
	}
	if outcomes[1].Err == nil {
		t.Fatal("second exit must report its failure")
	}
	if outcomes[2].Err != nil || !outcomes[2].Outcome.Accepted {
		t.Fatalf("third exit must proceed despite the second failing: %+v", outcomes[2])
	}
	if len(client.placed) != 2 {
		t.Fatalf("placed %d orders", len(client.placed))
	}
}

func TestPendingOrdersFiltersAndNormalizes(t *testing.T) {
	client := &fakeClient{orders: []models.Order{
		{ID: "1", Quantity: 10, FilledQty: 0, RemainingQty: 10, RawStatus: "OPEN", Modifiable: true},
		{ID: "2", Quantity: 10, FilledQty: 10, RemainingQty: 0, RawStatus: "COMPLETE", Modifiable: false},
		{ID: "3", Quantity: 10, FilledQty: 4, RemainingQty: 6, RawStatus: "OPEN", Modifiable: true},
	}}
	d := newDispatcher(client)

	pending, err := d.PendingOrders(context.Background())
	if err != nil {
		t.Fatalf("PendingOrders: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("len = %d", len(pending))
	}
	if pending[0].Status != models.StatusPending {
		t.Fatalf("order 1 status = %v", pending[0].Status)
	}
	if pending[1].Status != models.StatusPartiallyFilled {
		t.Fatalf("order 3 status = %v", pending[1].Status)
	}
}

type memJournal struct {
	entries []JournalEntry
}

func (m *memJournal) Record(_ context.Context, e JournalEntry) error {
	m.entries = append(m.entries, e)
	return nil
}

func TestDispatcherJournalsOutcomes(t *testing.T) {
	journal := &memJournal{}
	client := &fakeClient{}
	d := NewDispatcher(client, journal, zerolog.Nop())

	if _, err := d.Place(context.Background(), PlaceRequest{
		Symbol: "SBIN", Side: models.OrderSideBuy,
		Type: models.OrderTypeMarket, Product: models.ProductCNC, Quantity: 1,
	}); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if _, err := d.Cancel(context.Background(), "OID1"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if len(journal.entries) != 2 {
		t.Fatalf("journal has %d entries", len(journal.entries))
	}
	if journal.entries[0].Action != "place" || !journal.entries[0].Accepted {
		t.Fatalf("entry 0 = %+v", journal.entries[0])
	}
	if journal.entries[1].Action != "cancel" {
		t.Fatalf("entry 1 = %+v", journal.entries[1])
	}
}

func TestExitAllJournalsEveryItem(t *testing.T) {
	journal := &memJournal{}
	client := &fakeClient{}
	client.placeErr = func(spec broker.OrderSpec) error {
		if spec.Instrument.Symbol == "NSE:TCS-EQ" {
			return apperrors.NewNetworkError("fake", "POST /orders", errors.New("timeout"))
		}
		return nil
	}
	d := NewDispatcher(client, journal, zerolog.Nop())

	d.ExitAll(context.Background(), []ExitTarget{
		{Instrument: models.Instrument{Symbol: "NSE:SBIN-EQ"}, Quantity: 10, Product: models.ProductCNC},
		{Instrument: models.Instrument{Symbol: "NSE:TCS-EQ"}, Quantity: 5, Product: models.ProductCNC},
		{Instrument: models.Instrument{Symbol: "NSE:INFY-EQ"}, Quantity: 8, Product: models.ProductCNC},
	})

	if len(journal.entries) != 3 {
		t.Fatalf("journal has %d entries, want one per exit item", len(journal.entries))
	}
	if !journal.entries[0].Accepted || journal.entries[1].Accepted || !journal.entries[2].Accepted {
		t.Fatalf("entry outcomes = [%v %v %v]",
			journal.entries[0].Accepted, journal.entries[1].Accepted, journal.entries[2].Accepted)
	}
	if journal.entries[1].Symbol != "NSE:TCS-EQ" {
		t.Fatalf("failed entry symbol = %q", journal.entries[1].Symbol)
	}
}
