package broker

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/gopalmandloi007/tradedeck/internal/errors"
	"github.com/gopalmandloi007/tradedeck/internal/models"
)

const definedgeBrokerName = "definedge"

// DefinedgeConfig holds construction parameters for the Definedge
// Integrate client.
type DefinedgeConfig struct {
	BaseURL string // defaults to the production Integrate host
	Timeout time.Duration
}

// DefinedgeClient implements Client against the Definedge Integrate REST
// API. The Integrate API quotes every number as a string on the wire, so
// the raw structs below are all string-typed and parsed leniently.
type DefinedgeClient struct {
	cfg  DefinedgeConfig
	core *httpCore
}

// NewDefinedgeClient creates a Definedge Integrate client.
func NewDefinedgeClient(cfg DefinedgeConfig, session Session, logger zerolog.Logger) *DefinedgeClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://integrate.definedgesecurities.com/dart/v1"
	}
	return &DefinedgeClient{
		cfg:  cfg,
		core: newHTTPCore(definedgeBrokerName, session, cfg.Timeout, logger),
	}
}

// DefinedgeSession builds the static session for the Integrate auth scheme.
func DefinedgeSession(sessionKey, apiSecret string) Session {
	return NewStaticSession(definedgeBrokerName, map[string]string{
		"Authorization": sessionKey,
		"x-api-secret":  apiSecret,
	})
}

// Name returns the broker identifier.
func (d *DefinedgeClient) Name() string { return definedgeBrokerName }

// QualifySymbol expands a bare symbol to the NSE equity form Integrate
// expects; the exchange travels as a separate field on every request.
func (d *DefinedgeClient) QualifySymbol(symbol string) models.Instrument {
	s := strings.ToUpper(symbol)
	if !strings.HasSuffix(s, "-EQ") && !strings.Contains(s, "-") {
		s += "-EQ"
	}
	return models.Instrument{Symbol: s, Exchange: models.NSE}
}

// RefreshSession delegates to the session provider.
func (d *DefinedgeClient) RefreshSession(ctx context.Context) error {
	return d.core.session.Refresh(ctx)
}

// definedgeEnvelope is the common response header on Integrate endpoints.
type definedgeEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// checkEnvelope converts a failed envelope into the error taxonomy. A
// failure whose message mentions the session means the key expired.
func (d *DefinedgeClient) checkEnvelope(env definedgeEnvelope) error {
	switch strings.ToUpper(env.Status) {
	case "FAILED", "FAIL", "ERROR":
		if strings.Contains(strings.ToLower(env.Message), "session") {
			return apperrors.NewAuthError(definedgeBrokerName, env.Message)
		}
		return apperrors.NewBrokerError(definedgeBrokerName, env.Status, env.Message)
	}
	return nil
}

func (d *DefinedgeClient) accepted(env definedgeEnvelope) bool {
	switch strings.ToUpper(env.Status) {
	case "FAILED", "FAIL", "ERROR":
		return false
	}
	return true
}

type definedgeHoldingRaw struct {
	TradingSymbol string `json:"tradingsymbol"`
	Exchange      string `json:"exchange"`
	DPQty         string `json:"dp_qty"`
	AvgBuyPrice   string `json:"avg_buy_price"`
	LTP           string `json:"ltp"`
	ISIN          string `json:"isin"`
	TradeQty      string `json:"trade_qty"`
	SellAmt       string `json:"sell_amt"`
}

// GetHoldings fetches delivery holdings. trade_qty/sell_amt feed the
// best-effort realized-P&L estimate for partially exited holdings.
func (d *DefinedgeClient) GetHoldings(ctx context.Context) ([]models.Holding, error) {
	var raw struct {
		definedgeEnvelope
		Data []definedgeHoldingRaw `json:"data"`
	}
	if err := d.core.doJSON(ctx, http.MethodGet, d.cfg.BaseURL+"/holdings", nil, &raw); err != nil {
		return nil, err
	}
	if err := d.checkEnvelope(raw.definedgeEnvelope); err != nil {
		return nil, err
	}

	holdings := make([]models.Holding, 0, len(raw.Data))
	for _, h := range raw.Data {
		ltp, ltpKnown := parseFloatLoose(h.LTP)
		qty, _ := parseIntLoose(h.DPQty)
		avg, _ := parseFloatLoose(h.AvgBuyPrice)
		exitedQty, _ := parseIntLoose(h.TradeQty)
		sellAmt, _ := parseFloatLoose(h.SellAmt)
		holdings = append(holdings, models.Holding{
			Instrument: models.Instrument{
				Symbol:   h.TradingSymbol,
				Exchange: models.Exchange(h.Exchange),
				ISIN:     h.ISIN,
			},
			Quantity:     qty,
			AveragePrice: avg,
			LTP:          ltp,
			LTPKnown:     ltpKnown,
			ExitedQty:    exitedQty,
			SellAmount:   sellAmt,
		})
	}
	return holdings, nil
}

type definedgePositionRaw struct {
	TradingSymbol string `json:"tradingsymbol"`
	Exchange      string `json:"exchange"`
	ProductType   string `json:"product_type"`
	NetQty        string `json:"net_quantity"`
	BuyQty        string `json:"total_buy_quantity"`
	SellQty       string `json:"total_sell_quantity"`
	BuyAvg        string `json:"net_averageprice"`
	SellAvg       string `json:"net_sell_averageprice"`
	LTP           string `json:"last_price"`
	RealizedPnL   string `json:"realized_pnl"`
	UnrealizedPnL string `json:"unrealized_pnl"`
}

// GetPositions fetches net positions.
func (d *DefinedgeClient) GetPositions(ctx context.Context) ([]models.Position, error) {
	var raw struct {
		definedgeEnvelope
		Positions []definedgePositionRaw `json:"positions"`
	}
	if err := d.core.doJSON(ctx, http.MethodGet, d.cfg.BaseURL+"/positions", nil, &raw); err != nil {
		return nil, err
	}
	if err := d.checkEnvelope(raw.definedgeEnvelope); err != nil {
		return nil, err
	}

	positions := make([]models.Position, 0, len(raw.Positions))
	for _, p := range raw.Positions {
		netQty, _ := parseIntLoose(p.NetQty)
		buyQty, _ := parseIntLoose(p.BuyQty)
		sellQty, _ := parseIntLoose(p.SellQty)
		buyAvg, _ := parseFloatLoose(p.BuyAvg)
		sellAvg, _ := parseFloatLoose(p.SellAvg)
		ltp, ltpKnown := parseFloatLoose(p.LTP)
		realized, _ := parseFloatLoose(p.RealizedPnL)
		unrealized, _ := parseFloatLoose(p.UnrealizedPnL)
		positions = append(positions, models.Position{
			Instrument: models.Instrument{
				Symbol:   p.TradingSymbol,
				Exchange: models.Exchange(p.Exchange),
			},
			Product:       definedgeProductToModel(p.ProductType),
			NetQty:        netQty,
			BuyQty:        buyQty,
			SellQty:       sellQty,
			BuyAvg:        buyAvg,
			SellAvg:       sellAvg,
			LTP:           ltp,
			LTPKnown:      ltpKnown,
			RealizedPnL:   realized,
			UnrealizedPnL: unrealized,
		})
	}
	return positions, nil
}

type definedgeOrderRaw struct {
	OrderID       string `json:"order_id"`
	TradingSymbol string `json:"tradingsymbol"`
	Exchange      string `json:"exchange"`
	OrderType     string `json:"order_type"` // BUY / SELL
	PriceType     string `json:"price_type"`
	ProductType   string `json:"product_type"`
	Quantity      string `json:"quantity"`
	PendingQty    string `json:"pending_qty"`
	FilledQty     string `json:"filled_qty"`
	Price         string `json:"price"`
	TriggerPrice  string `json:"trigger_price"`
	OrderStatus   string `json:"order_status"`
	Remarks       string `json:"remarks"`
	EntryTime     string `json:"order_entry_time"`
}

// GetOrders fetches the order book.
func (d *DefinedgeClient) GetOrders(ctx context.Context) ([]models.Order, error) {
	var raw struct {
		definedgeEnvelope
		Orders []definedgeOrderRaw `json:"orders"`
	}
	if err := d.core.doJSON(ctx, http.MethodGet, d.cfg.BaseURL+"/orders", nil, &raw); err != nil {
		return nil, err
	}
	if err := d.checkEnvelope(raw.definedgeEnvelope); err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(raw.Orders))
	for _, o := range raw.Orders {
		qty, _ := parseIntLoose(o.Quantity)
		pending, _ := parseIntLoose(o.PendingQty)
		filled, _ := parseIntLoose(o.FilledQty)
		price, _ := parseFloatLoose(o.Price)
		trigger, _ := parseFloatLoose(o.TriggerPrice)
		status := strings.ToUpper(o.OrderStatus)
		orders = append(orders, models.Order{
			ID: o.OrderID,
			Instrument: models.Instrument{
				Symbol:   o.TradingSymbol,
				Exchange: models.Exchange(o.Exchange),
			},
			Side:         definedgeSideToModel(o.OrderType),
			Type:         definedgePriceTypeToModel(o.PriceType),
			Product:      definedgeProductToModel(o.ProductType),
			Quantity:     qty,
			FilledQty:    filled,
			RemainingQty: pending,
			LimitPrice:   price,
			StopPrice:    trigger,
			RawStatus:    status,
			Tag:          o.Remarks,
			Modifiable:   definedgeModifiable(status, pending),
			PlacedAt:     parseDefinedgeTime(o.EntryTime),
		})
	}
	return orders, nil
}

func definedgeModifiable(status string, pendingQty int) bool {
	switch status {
	case "NEW", "OPEN", "REPLACED":
		return pendingQty > 0
	}
	return false
}

type definedgeTradeRaw struct {
	OrderID       string `json:"order_id"`
	TradeID       string `json:"exchange_trade_id"`
	TradingSymbol string `json:"tradingsymbol"`
	Exchange      string `json:"exchange"`
	OrderType     string `json:"order_type"`
	ProductType   string `json:"product_type"`
	FilledQty     string `json:"filled_qty"`
	TradePrice    string `json:"trade_price"`
	Remarks       string `json:"remarks"`
	TradeTime     string `json:"exchange_time"`
}

// GetTrades fetches the trade book.
func (d *DefinedgeClient) GetTrades(ctx context.Context) ([]models.Trade, error) {
	var raw struct {
		definedgeEnvelope
		Trades []definedgeTradeRaw `json:"trades"`
	}
	if err := d.core.doJSON(ctx, http.MethodGet, d.cfg.BaseURL+"/tradebook", nil, &raw); err != nil {
		return nil, err
	}
	if err := d.checkEnvelope(raw.definedgeEnvelope); err != nil {
		return nil, err
	}

	trades := make([]models.Trade, 0, len(raw.Trades))
	for _, t := range raw.Trades {
		qty, _ := parseIntLoose(t.FilledQty)
		price, _ := parseFloatLoose(t.TradePrice)
		trades = append(trades, models.Trade{
			OrderID: t.OrderID,
			TradeID: t.TradeID,
			Instrument: models.Instrument{
				Symbol:   t.TradingSymbol,
				Exchange: models.Exchange(t.Exchange),
			},
			Side:       definedgeSideToModel(t.OrderType),
			Product:    definedgeProductToModel(t.ProductType),
			Quantity:   qty,
			Price:      price,
			Value:      price * float64(qty),
			Tag:        t.Remarks,
			ExecutedAt: parseDefinedgeTime(t.TradeTime),
		})
	}
	return trades, nil
}

// GetFunds fetches the account cash limits.
func (d *DefinedgeClient) GetFunds(ctx context.Context) (*models.Funds, error) {
	var raw struct {
		definedgeEnvelope
		Cash       string `json:"cash"`
		MarginUsed string `json:"marginused"`
		Net        string `json:"net"`
		Collateral string `json:"collateral"`
	}
	if err := d.core.doJSON(ctx, http.MethodGet, d.cfg.BaseURL+"/limits", nil, &raw); err != nil {
		return nil, err
	}
	if err := d.checkEnvelope(raw.definedgeEnvelope); err != nil {
		return nil, err
	}
	available, _ := parseFloatLoose(raw.Cash)
	used, _ := parseFloatLoose(raw.MarginUsed)
	net, _ := parseFloatLoose(raw.Net)
	collateral, _ := parseFloatLoose(raw.Collateral)
	return &models.Funds{
		Available:       available,
		UsedMargin:      used,
		Net:             net,
		TotalCollateral: collateral,
	}, nil
}

// GetQuote fetches the last traded price for one instrument.
func (d *DefinedgeClient) GetQuote(ctx context.Context, inst models.Instrument) (*models.Quote, error) {
	var raw struct {
		definedgeEnvelope
		LTP string `json:"ltp"`
	}
	endpoint := fmt.Sprintf("%s/quotes/%s/%s", d.cfg.BaseURL, inst.Exchange, inst.Symbol)
	if err := d.core.doJSON(ctx, http.MethodGet, endpoint, nil, &raw); err != nil {
		return nil, err
	}
	if err := d.checkEnvelope(raw.definedgeEnvelope); err != nil {
		return nil, err
	}
	ltp, ok := parseFloatLoose(raw.LTP)
	if !ok {
		return nil, apperrors.NewBrokerError(definedgeBrokerName, "", fmt.Sprintf("no quote for %s", inst.Symbol))
	}
	return &models.Quote{Symbol: inst.Symbol, LTP: ltp, Timestamp: time.Now()}, nil
}

// GetDailyCandle requests the daily bar for one calendar day. An empty
// candle list means no trading happened that day.
func (d *DefinedgeClient) GetDailyCandle(ctx context.Context, inst models.Instrument, day time.Time) (*models.Candle, error) {
	dateStr := day.Format("02012006")
	var raw struct {
		definedgeEnvelope
		Candles []struct {
			DateTime string `json:"datetime"`
			Open     string `json:"open"`
			High     string `json:"high"`
			Low      string `json:"low"`
			Close    string `json:"close"`
			Volume   string `json:"volume"`
		} `json:"candles"`
	}
	endpoint := fmt.Sprintf("%s/history/%s/%s/day/%s/%s",
		d.cfg.BaseURL, inst.Exchange, inst.Symbol, dateStr, dateStr)
	if err := d.core.doJSON(ctx, http.MethodGet, endpoint, nil, &raw); err != nil {
		return nil, err
	}
	if err := d.checkEnvelope(raw.definedgeEnvelope); err != nil {
		return nil, err
	}
	if len(raw.Candles) == 0 {
		return nil, nil
	}

	c := raw.Candles[0]
	open, _ := parseFloatLoose(c.Open)
	high, _ := parseFloatLoose(c.High)
	low, _ := parseFloatLoose(c.Low)
	closePx, _ := parseFloatLoose(c.Close)
	volume, _ := parseIntLoose(c.Volume)
	return &models.Candle{
		Timestamp: parseDefinedgeTime(c.DateTime),
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closePx,
		Volume:    int64(volume),
	}, nil
}

// definedgeActionResp is the response shape on order-action endpoints.
type definedgeActionResp struct {
	definedgeEnvelope
	OrderID string `json:"order_id"`
}

func (d *DefinedgeClient) toActionResult(resp definedgeActionResp) *ActionResult {
	return &ActionResult{
		OK:      d.accepted(resp.definedgeEnvelope),
		OrderID: resp.OrderID,
		Code:    resp.Status,
		Message: resp.Message,
	}
}

// PlaceOrder submits a new order. Integrate expects all numerics as
// strings.
func (d *DefinedgeClient) PlaceOrder(ctx context.Context, spec OrderSpec) (*ActionResult, error) {
	body := map[string]string{
		"tradingsymbol": spec.Instrument.Symbol,
		"exchange":      string(spec.Instrument.Exchange),
		"order_type":    string(spec.Side),
		"quantity":      strconv.Itoa(spec.Quantity),
		"product_type":  definedgeProductFromModel(spec.Product),
		"price_type":    definedgePriceTypeFromModel(spec.Type),
		"price":         formatPrice(spec.LimitPrice),
	}
	if spec.StopPrice > 0 {
		body["trigger_price"] = formatPrice(spec.StopPrice)
	}
	if spec.DisclosedQty > 0 {
		body["disclosed_quantity"] = strconv.Itoa(spec.DisclosedQty)
	}
	if spec.Tag != "" {
		body["remarks"] = spec.Tag
	}

	var resp definedgeActionResp
	if err := d.core.doJSON(ctx, http.MethodPost, d.cfg.BaseURL+"/placeorder", body, &resp); err != nil {
		return nil, err
	}
	return d.toActionResult(resp), nil
}

// ModifyOrder updates price/quantity fields on a pending order. Integrate
// requires the full order context on modify, not just the changed fields.
func (d *DefinedgeClient) ModifyOrder(ctx context.Context, orderID string, spec OrderSpec) (*ActionResult, error) {
	body := map[string]string{
		"order_id":      orderID,
		"tradingsymbol": spec.Instrument.Symbol,
		"exchange":      string(spec.Instrument.Exchange),
		"order_type":    string(spec.Side),
		"quantity":      strconv.Itoa(spec.Quantity),
		"product_type":  definedgeProductFromModel(spec.Product),
		"price_type":    definedgePriceTypeFromModel(spec.Type),
		"price":         formatPrice(spec.LimitPrice),
	}
	if spec.StopPrice > 0 {
		body["trigger_price"] = formatPrice(spec.StopPrice)
	}
	if spec.DisclosedQty > 0 {
		body["disclosed_quantity"] = strconv.Itoa(spec.DisclosedQty)
	}

	var resp definedgeActionResp
	if err := d.core.doJSON(ctx, http.MethodPost, d.cfg.BaseURL+"/modify", body, &resp); err != nil {
		return nil, err
	}
	return d.toActionResult(resp), nil
}

// CancelOrder cancels a pending order.
func (d *DefinedgeClient) CancelOrder(ctx context.Context, orderID string) (*ActionResult, error) {
	var resp definedgeActionResp
	if err := d.core.doJSON(ctx, http.MethodGet, d.cfg.BaseURL+"/cancel/"+orderID, nil, &resp); err != nil {
		return nil, err
	}
	return d.toActionResult(resp), nil
}

// PlaceGTT submits a conditional order.
func (d *DefinedgeClient) PlaceGTT(ctx context.Context, spec GTTSpec) (*ActionResult, error) {
	body := map[string]string{
		"tradingsymbol": spec.Instrument.Symbol,
		"exchange":      string(spec.Instrument.Exchange),
		"order_type":    string(spec.Side),
		"quantity":      strconv.Itoa(spec.Quantity),
		"alert_price":   formatPrice(spec.TriggerPrice),
		"price":         formatPrice(spec.LimitPrice),
		"condition":     string(spec.Direction),
		"product_type":  definedgeProductFromModel(spec.Product),
	}

	var resp definedgeActionResp
	if err := d.core.doJSON(ctx, http.MethodPost, d.cfg.BaseURL+"/gtt", body, &resp); err != nil {
		return nil, err
	}
	return d.toActionResult(resp), nil
}

// ModifyGTT updates a conditional order in place.
func (d *DefinedgeClient) ModifyGTT(ctx context.Context, triggerID string, spec GTTSpec) (*ActionResult, error) {
	body := map[string]string{
		"alert_id":      triggerID,
		"tradingsymbol": spec.Instrument.Symbol,
		"exchange":      string(spec.Instrument.Exchange),
		"order_type":    string(spec.Side),
		"quantity":      strconv.Itoa(spec.Quantity),
		"alert_price":   formatPrice(spec.TriggerPrice),
		"price":         formatPrice(spec.LimitPrice),
		"condition":     string(spec.Direction),
		"product_type":  definedgeProductFromModel(spec.Product),
	}

	var resp definedgeActionResp
	if err := d.core.doJSON(ctx, http.MethodPost, d.cfg.BaseURL+"/gttmodify", body, &resp); err != nil {
		return nil, err
	}
	return d.toActionResult(resp), nil
}

// CancelGTT removes a conditional order.
func (d *DefinedgeClient) CancelGTT(ctx context.Context, triggerID string) (*ActionResult, error) {
	var resp definedgeActionResp
	if err := d.core.doJSON(ctx, http.MethodGet, d.cfg.BaseURL+"/gttcancel/"+triggerID, nil, &resp); err != nil {
		return nil, err
	}
	return d.toActionResult(resp), nil
}

// PlaceOCO submits a one-cancels-other pair. The broker voids the
// surviving leg when one fires.
func (d *DefinedgeClient) PlaceOCO(ctx context.Context, spec OCOSpec) (*ActionResult, error) {
	body := map[string]string{
		"tradingsymbol":     spec.Instrument.Symbol,
		"exchange":          string(spec.Instrument.Exchange),
		"order_type":        string(spec.Side),
		"target_quantity":   strconv.Itoa(spec.TargetQty),
		"stoploss_quantity": strconv.Itoa(spec.StoplossQty),
		"target_price":      formatPrice(spec.TargetPrice),
		"stoploss_price":    formatPrice(spec.StoplossPrice),
		"product_type":      definedgeProductFromModel(spec.Product),
	}
	if spec.Remarks != "" {
		body["remarks"] = spec.Remarks
	}

	var resp definedgeActionResp
	if err := d.core.doJSON(ctx, http.MethodPost, d.cfg.BaseURL+"/oco", body, &resp); err != nil {
		return nil, err
	}
	return d.toActionResult(resp), nil
}

// ModifyOCO updates an OCO pair in place.
func (d *DefinedgeClient) ModifyOCO(ctx context.Context, triggerID string, spec OCOSpec) (*ActionResult, error) {
	body := map[string]string{
		"alert_id":          triggerID,
		"tradingsymbol":     spec.Instrument.Symbol,
		"exchange":          string(spec.Instrument.Exchange),
		"order_type":        string(spec.Side),
		"target_quantity":   strconv.Itoa(spec.TargetQty),
		"stoploss_quantity": strconv.Itoa(spec.StoplossQty),
		"target_price":      formatPrice(spec.TargetPrice),
		"stoploss_price":    formatPrice(spec.StoplossPrice),
		"product_type":      definedgeProductFromModel(spec.Product),
	}

	var resp definedgeActionResp
	if err := d.core.doJSON(ctx, http.MethodPost, d.cfg.BaseURL+"/ocomodify", body, &resp); err != nil {
		return nil, err
	}
	return d.toActionResult(resp), nil
}

// CancelOCO removes an OCO pair.
func (d *DefinedgeClient) CancelOCO(ctx context.Context, triggerID string) (*ActionResult, error) {
	var resp definedgeActionResp
	if err := d.core.doJSON(ctx, http.MethodGet, d.cfg.BaseURL+"/ococancel/"+triggerID, nil, &resp); err != nil {
		return nil, err
	}
	return d.toActionResult(resp), nil
}

func definedgeSideToModel(s string) models.OrderSide {
	if strings.EqualFold(s, "SELL") {
		return models.OrderSideSell
	}
	return models.OrderSideBuy
}

func definedgePriceTypeToModel(p string) models.OrderType {
	switch strings.ToUpper(p) {
	case "LIMIT":
		return models.OrderTypeLimit
	case "SL-LIMIT":
		return models.OrderTypeStopLimit
	case "SL-MARKET":
		return models.OrderTypeStopMkt
	default:
		return models.OrderTypeMarket
	}
}

func definedgePriceTypeFromModel(t models.OrderType) string {
	switch t {
	case models.OrderTypeLimit:
		return "LIMIT"
	case models.OrderTypeStopLimit:
		return "SL-LIMIT"
	case models.OrderTypeStopMkt:
		return "SL-MARKET"
	default:
		return "MARKET"
	}
}

func definedgeProductToModel(p string) models.ProductType {
	switch strings.ToUpper(p) {
	case "CNC":
		return models.ProductCNC
	case "NORMAL":
		return models.ProductNRML
	default:
		return models.ProductIntraday
	}
}

func definedgeProductFromModel(p models.ProductType) string {
	switch p {
	case models.ProductCNC:
		return "CNC"
	case models.ProductNRML:
		return "NORMAL"
	default:
		return "MIS"
	}
}

// parseFloatLoose parses Integrate's string numerics; returns false for
// absent or unparsable values so a missing price never reads as zero.
func parseFloatLoose(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseIntLoose(s string) (int, bool) {
	v, ok := parseFloatLoose(s)
	if !ok {
		return 0, false
	}
	return int(v), true
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}

func parseDefinedgeTime(s string) time.Time {
	for _, layout := range []string{"02-01-2006 15:04:05", "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Ensure DefinedgeClient implements Client.
var _ Client = (*DefinedgeClient)(nil)
