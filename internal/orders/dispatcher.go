package orders

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/gopalmandloi007/tradedeck/internal/broker"
	apperrors "github.com/gopalmandloi007/tradedeck/internal/errors"
	"github.com/gopalmandloi007/tradedeck/internal/logging"
	"github.com/gopalmandloi007/tradedeck/internal/models"
)

// Outcome is the classified result of one order action. Accepted covers
// success and accepted-with-warning broker responses; Message carries the
// broker's text verbatim either way.
type Outcome struct {
	Accepted bool
	OrderID  string
	Code     string
	Message  string
}

// JournalEntry is one recorded action outcome.
type JournalEntry struct {
	Time     time.Time
	Broker   string
	Action   string
	Symbol   string
	OrderID  string
	Accepted bool
	Message  string
}

// Journal persists action outcomes. Recording failures are logged, never
// propagated; the journal is an audit trail, not part of the action.
type Journal interface {
	Record(ctx context.Context, entry JournalEntry) error
}

// PlaceRequest describes a new order. Quantity and Amount are alternate
// sizing modes: when Amount is positive it is converted to a quantity by
// floor-dividing by the applicable price.
type PlaceRequest struct {
	Symbol     string // bare or fully qualified, resolved by the broker client
	Side       models.OrderSide
	Type       models.OrderType
	Product    models.ProductType
	Quantity   int
	Amount     float64
	LimitPrice float64
	StopPrice  float64
	Tag        string
}

// ModifyRequest carries the replacement fields for a pending order.
type ModifyRequest struct {
	Symbol     string
	Side       models.OrderSide
	Type       models.OrderType
	Product    models.ProductType
	Quantity   int
	LimitPrice float64
	StopPrice  float64
}

// ExitTarget identifies a holding or position to square off. Quantity is
// signed: negative for net-short positions.
type ExitTarget struct {
	Instrument models.Instrument
	Quantity   int
	Product    models.ProductType
}

// ExitOutcome pairs one exit target with its result. Err is set when the
// action failed before or during transport; otherwise Outcome reports the
// broker's verdict.
type ExitOutcome struct {
	Target  ExitTarget
	Outcome *Outcome
	Err     error
}

// Dispatcher validates and sizes order actions and forwards them to the
// broker client. No action is ever retried: placements are not idempotent
// and a duplicate submission is worse than a failed one.
type Dispatcher struct {
	client  broker.Client
	journal Journal
	logger  zerolog.Logger
}

// NewDispatcher creates a dispatcher. journal may be nil.
func NewDispatcher(client broker.Client, journal Journal, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{client: client, journal: journal, logger: logger}
}

// exitTag marks square-off orders in the order book.
const exitTag = "exitorder"

// Place validates, sizes and submits a new order. Validation failures
// return ErrInvalidParameter or ErrInvalidQuantity before any network
// call.
func (d *Dispatcher) Place(ctx context.Context, req PlaceRequest) (*Outcome, error) {
	if err := validateEnums(req.Side, req.Type, req.Product); err != nil {
		return nil, err
	}

	inst := d.client.QualifySymbol(req.Symbol)

	qty := req.Quantity
	if req.Amount > 0 {
		price, err := d.sizingPrice(ctx, inst, req)
		if err != nil {
			return nil, err
		}
		qty = int(math.Max(1, math.Floor(req.Amount/price)))
	}
	if qty <= 0 {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidQuantity, "quantity %d", qty)
	}

	spec := broker.OrderSpec{
		Instrument: inst,
		Side:       req.Side,
		Type:       req.Type,
		Product:    req.Product,
		Quantity:   qty,
		Tag:        req.Tag,
	}
	// Prices apply only to the order types that read them.
	if req.Type == models.OrderTypeLimit || req.Type == models.OrderTypeStopLimit {
		spec.LimitPrice = req.LimitPrice
	}
	if req.Type == models.OrderTypeStopMkt || req.Type == models.OrderTypeStopLimit {
		spec.StopPrice = req.StopPrice
	}

	res, err := d.client.PlaceOrder(ctx, spec)
	return d.finish(ctx, "place", inst.Symbol, res, err)
}

// sizingPrice picks the price that converts a cash amount to a quantity:
// the limit price for limit-type orders, the live price otherwise. An
// unknown or non-positive price rejects the order locally.
func (d *Dispatcher) sizingPrice(ctx context.Context, inst models.Instrument, req PlaceRequest) (float64, error) {
	if req.Type == models.OrderTypeLimit || req.Type == models.OrderTypeStopLimit {
		if req.LimitPrice <= 0 {
			return 0, apperrors.Wrap(apperrors.ErrInvalidQuantity, "amount sizing needs a limit price")
		}
		return req.LimitPrice, nil
	}

	quote, err := d.client.GetQuote(ctx, inst)
	if err != nil || quote == nil || quote.LTP <= 0 {
		return 0, apperrors.Wrapf(apperrors.ErrInvalidQuantity, "no live price for %s to size amount", inst.Symbol)
	}
	return quote.LTP, nil
}

// Modify replaces price and quantity fields on a pending order. The
// disclosed quantity is a tenth of the new quantity, floored at one
// share.
func (d *Dispatcher) Modify(ctx context.Context, orderID string, req ModifyRequest) (*Outcome, error) {
	if err := validateEnums(req.Side, req.Type, req.Product); err != nil {
		return nil, err
	}
	if orderID == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidParameter, "order id required")
	}
	if req.Quantity <= 0 {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidQuantity, "quantity %d", req.Quantity)
	}

	inst := d.client.QualifySymbol(req.Symbol)
	spec := broker.OrderSpec{
		Instrument:   inst,
		Side:         req.Side,
		Type:         req.Type,
		Product:      req.Product,
		Quantity:     req.Quantity,
		DisclosedQty: DisclosedQty(req.Quantity),
		LimitPrice:   req.LimitPrice,
		StopPrice:    req.StopPrice,
	}

	res, err := d.client.ModifyOrder(ctx, orderID, spec)
	return d.finish(ctx, "modify", inst.Symbol, res, err)
}

// DisclosedQty derives the disclosed quantity declared on modified
// orders.
func DisclosedQty(quantity int) int {
	return int(math.Max(1, math.Floor(float64(quantity)*0.1)))
}

// Cancel cancels a pending order.
func (d *Dispatcher) Cancel(ctx context.Context, orderID string) (*Outcome, error) {
	if orderID == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidParameter, "order id required")
	}
	res, err := d.client.CancelOrder(ctx, orderID)
	return d.finish(ctx, "cancel", "", res, err)
}

// Exit squares off one holding or position with a market order for the
// full quantity. Long targets sell; net-short targets buy back. The
// product type travels with the target.
func (d *Dispatcher) Exit(ctx context.Context, target ExitTarget) (*Outcome, error) {
	if target.Quantity == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidQuantity, "nothing to exit")
	}

	side := models.OrderSideSell
	qty := target.Quantity
	if qty < 0 {
		side = models.OrderSideBuy
		qty = -qty
	}

	spec := broker.OrderSpec{
		Instrument: target.Instrument,
		Side:       side,
		Type:       models.OrderTypeMarket,
		Product:    target.Product,
		Quantity:   qty,
		Tag:        exitTag,
	}

	res, err := d.client.PlaceOrder(ctx, spec)
	return d.finish(ctx, "exit", target.Instrument.Symbol, res, err)
}

// ExitAll squares off every target, continuing past failures. Each entry
// in the returned slice reports its own outcome or error.
func (d *Dispatcher) ExitAll(ctx context.Context, targets []ExitTarget) []ExitOutcome {
	outcomes := make([]ExitOutcome, 0, len(targets))
	for _, target := range targets {
		outcome, err := d.Exit(ctx, target)
		outcomes = append(outcomes, ExitOutcome{Target: target, Outcome: outcome, Err: err})
	}
	return outcomes
}

// PlaceGTT submits a conditional order.
func (d *Dispatcher) PlaceGTT(ctx context.Context, spec broker.GTTSpec) (*Outcome, error) {
	if spec.Quantity <= 0 {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidQuantity, "quantity %d", spec.Quantity)
	}
	if spec.TriggerPrice <= 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidParameter, "trigger price required")
	}
	res, err := d.client.PlaceGTT(ctx, spec)
	return d.finish(ctx, "gtt_place", spec.Instrument.Symbol, res, err)
}

// ModifyGTT replaces a conditional order's fields.
func (d *Dispatcher) ModifyGTT(ctx context.Context, triggerID string, spec broker.GTTSpec) (*Outcome, error) {
	if triggerID == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidParameter, "trigger id required")
	}
	res, err := d.client.ModifyGTT(ctx, triggerID, spec)
	return d.finish(ctx, "gtt_modify", spec.Instrument.Symbol, res, err)
}

// CancelGTT removes a conditional order.
func (d *Dispatcher) CancelGTT(ctx context.Context, triggerID string) (*Outcome, error) {
	if triggerID == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidParameter, "trigger id required")
	}
	res, err := d.client.CancelGTT(ctx, triggerID)
	return d.finish(ctx, "gtt_cancel", "", res, err)
}

// PlaceOCO submits a one-cancels-other pair.
func (d *Dispatcher) PlaceOCO(ctx context.Context, spec broker.OCOSpec) (*Outcome, error) {
	if spec.TargetQty <= 0 || spec.StoplossQty <= 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidQuantity, "both legs need a positive quantity")
	}
	res, err := d.client.PlaceOCO(ctx, spec)
	return d.finish(ctx, "oco_place", spec.Instrument.Symbol, res, err)
}

// ModifyOCO replaces an OCO pair's fields.
func (d *Dispatcher) ModifyOCO(ctx context.Context, triggerID string, spec broker.OCOSpec) (*Outcome, error) {
	if triggerID == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidParameter, "trigger id required")
	}
	res, err := d.client.ModifyOCO(ctx, triggerID, spec)
	return d.finish(ctx, "oco_modify", spec.Instrument.Symbol, res, err)
}

// CancelOCO removes an OCO pair.
func (d *Dispatcher) CancelOCO(ctx context.Context, triggerID string) (*Outcome, error) {
	if triggerID == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidParameter, "trigger id required")
	}
	res, err := d.client.CancelOCO(ctx, triggerID)
	return d.finish(ctx, "oco_cancel", "", res, err)
}

// PendingOrders returns the orders the broker still accepts modify or
// cancel for, with normalized status filled in.
func (d *Dispatcher) PendingOrders(ctx context.Context) ([]models.Order, error) {
	all, err := d.client.GetOrders(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]models.Order, 0)
	for _, o := range all {
		if !o.Modifiable {
			continue
		}
		o.Status = NormalizeStatus(o)
		pending = append(pending, o)
	}
	return pending, nil
}

// finish classifies the broker response, journals it and logs it.
func (d *Dispatcher) finish(ctx context.Context, action, symbol string, res *broker.ActionResult, err error) (*Outcome, error) {
	if err != nil {
		logging.LogOrderAction(d.logger, action, symbol, "", false, err.Error())
		d.record(ctx, JournalEntry{
			Time: time.Now(), Broker: d.client.Name(), Action: action,
			Symbol: symbol, Accepted: false, Message: err.Error(),
		})
		return nil, err
	}

	outcome := &Outcome{
		Accepted: res.OK,
		OrderID:  res.OrderID,
		Code:     res.Code,
		Message:  res.Message,
	}
	logging.LogOrderAction(d.logger, action, symbol, outcome.OrderID, outcome.Accepted, outcome.Message)
	d.record(ctx, JournalEntry{
		Time: time.Now(), Broker: d.client.Name(), Action: action,
		Symbol: symbol, OrderID: outcome.OrderID,
		Accepted: outcome.Accepted, Message: outcome.Message,
	})
	return outcome, nil
}

func (d *Dispatcher) record(ctx context.Context, entry JournalEntry) {
	if d.journal == nil {
		return
	}
	if err := d.journal.Record(ctx, entry); err != nil {
		d.logger.Warn().Err(err).Str("action", entry.Action).Msg("journal write failed")
	}
}

func validateEnums(side models.OrderSide, typ models.OrderType, product models.ProductType) error {
	switch side {
	case models.OrderSideBuy, models.OrderSideSell:
	default:
		return apperrors.Wrapf(apperrors.ErrInvalidParameter, "side %q", side)
	}
	switch typ {
	case models.OrderTypeMarket, models.OrderTypeLimit, models.OrderTypeStopMkt, models.OrderTypeStopLimit:
	default:
		return apperrors.Wrapf(apperrors.ErrInvalidParameter, "order type %q", typ)
	}
	switch product {
	case models.ProductCNC, models.ProductIntraday, models.ProductNRML:
	default:
		return apperrors.Wrapf(apperrors.ErrInvalidParameter, "product %q", product)
	}
	return nil
}
