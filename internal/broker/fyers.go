package broker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/gopalmandloi007/tradedeck/internal/errors"
	"github.com/gopalmandloi007/tradedeck/internal/models"
)

const fyersBrokerName = "fyers"

// Fyers wire constants. Order and product types travel as small ints on
// requests; the order book echoes them back the same way.
const (
	fyersTypeLimit     = 1
	fyersTypeMarket    = 2
	fyersTypeStopMkt   = 3
	fyersTypeStopLimit = 4

	fyersSideBuy  = 1
	fyersSideSell = -1

	fyersCodeOK       = 200
	fyersCodeAccepted = 1101 // queued/accepted-with-warning, still a success
)

// FyersConfig holds construction parameters for the Fyers client.
type FyersConfig struct {
	ClientID   string
	APIBaseURL string // defaults to the production API host
	DataURL    string // defaults to the production data host
	Timeout    time.Duration
}

// FyersClient implements Client against the Fyers v3 REST API.
type FyersClient struct {
	cfg  FyersConfig
	core *httpCore
}

// NewFyersClient creates a Fyers client. The session must yield an
// "Authorization: <clientID>:<token>" header value.
func NewFyersClient(cfg FyersConfig, session Session, logger zerolog.Logger) *FyersClient {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "https://api-t1.fyers.in/api/v3"
	}
	if cfg.DataURL == "" {
		cfg.DataURL = "https://api-t1.fyers.in/data"
	}
	return &FyersClient{
		cfg:  cfg,
		core: newHTTPCore(fyersBrokerName, session, cfg.Timeout, logger),
	}
}

// FyersSession builds the static session for the Fyers auth scheme.
func FyersSession(clientID, accessToken string) Session {
	return NewStaticSession(fyersBrokerName, map[string]string{
		"Authorization": clientID + ":" + accessToken,
	})
}

// Name returns the broker identifier.
func (f *FyersClient) Name() string { return fyersBrokerName }

// QualifySymbol expands a bare symbol to the NSE equity form Fyers expects.
func (f *FyersClient) QualifySymbol(symbol string) models.Instrument {
	if strings.Contains(symbol, ":") {
		return models.Instrument{Symbol: symbol, Exchange: exchangeOfQualified(symbol)}
	}
	return models.Instrument{
		Symbol:   fmt.Sprintf("NSE:%s-EQ", strings.ToUpper(symbol)),
		Exchange: models.NSE,
	}
}

func exchangeOfQualified(symbol string) models.Exchange {
	prefix, _, _ := strings.Cut(symbol, ":")
	return models.Exchange(prefix)
}

// RefreshSession delegates to the session provider.
func (f *FyersClient) RefreshSession(ctx context.Context) error {
	return f.core.session.Refresh(ctx)
}

// fyersEnvelope is the common response header on every Fyers endpoint.
type fyersEnvelope struct {
	Code    int    `json:"code"`
	S       string `json:"s"`
	Message string `json:"message"`
}

// checkEnvelope converts a non-success envelope into the error taxonomy.
// A session-related message means the token died mid-day.
func (f *FyersClient) checkEnvelope(env fyersEnvelope) error {
	if env.Code == fyersCodeOK && env.S != "error" {
		return nil
	}
	lower := strings.ToLower(env.Message)
	if strings.Contains(lower, "session") || strings.Contains(lower, "token") {
		return apperrors.NewAuthError(fyersBrokerName, env.Message)
	}
	return apperrors.NewBrokerError(fyersBrokerName, fmt.Sprintf("%d", env.Code), env.Message)
}

type fyersHoldingRaw struct {
	Symbol    string   `json:"symbol"`
	Quantity  int      `json:"quantity"`
	CostPrice float64  `json:"costPrice"`
	LTP       *float64 `json:"ltp"`
	PL        float64  `json:"pl"`
	ISIN      string   `json:"isin"`
}

// GetHoldings fetches delivery holdings.
func (f *FyersClient) GetHoldings(ctx context.Context) ([]models.Holding, error) {
	var raw struct {
		fyersEnvelope
		Holdings []fyersHoldingRaw `json:"holdings"`
	}
	if err := f.core.doJSON(ctx, http.MethodGet, f.cfg.APIBaseURL+"/holdings", nil, &raw); err != nil {
		return nil, err
	}
	if err := f.checkEnvelope(raw.fyersEnvelope); err != nil {
		return nil, err
	}

	holdings := make([]models.Holding, 0, len(raw.Holdings))
	for _, h := range raw.Holdings {
		holding := models.Holding{
			Instrument: models.Instrument{
				Symbol:   h.Symbol,
				Exchange: exchangeOfQualified(h.Symbol),
				ISIN:     h.ISIN,
			},
			Quantity:     h.Quantity,
			AveragePrice: h.CostPrice,
			PnL:          h.PL,
		}
		if h.LTP != nil {
			holding.LTP = *h.LTP
			holding.LTPKnown = true
		}
		holdings = append(holdings, holding)
	}
	return holdings, nil
}

type fyersPositionRaw struct {
	Symbol       string   `json:"symbol"`
	NetQty       int      `json:"netQty"`
	BuyQty       int      `json:"buyQty"`
	SellQty      int      `json:"sellQty"`
	BuyAvg       float64  `json:"buyAvg"`
	SellAvg      float64  `json:"sellAvg"`
	LTP          *float64 `json:"ltp"`
	RealizedPL   float64  `json:"realizedPL"`
	UnrealizedPL float64  `json:"unrealizedPL"`
	ProductType  string   `json:"productType"`
}

// GetPositions fetches net positions.
func (f *FyersClient) GetPositions(ctx context.Context) ([]models.Position, error) {
	var raw struct {
		fyersEnvelope
		NetPositions []fyersPositionRaw `json:"netPositions"`
	}
	if err := f.core.doJSON(ctx, http.MethodGet, f.cfg.APIBaseURL+"/positions", nil, &raw); err != nil {
		return nil, err
	}
	if err := f.checkEnvelope(raw.fyersEnvelope); err != nil {
		return nil, err
	}

	positions := make([]models.Position, 0, len(raw.NetPositions))
	for _, p := range raw.NetPositions {
		pos := models.Position{
			Instrument: models.Instrument{
				Symbol:   p.Symbol,
				Exchange: exchangeOfQualified(p.Symbol),
			},
			Product:       fyersProductToModel(p.ProductType),
			NetQty:        p.NetQty,
			BuyQty:        p.BuyQty,
			SellQty:       p.SellQty,
			BuyAvg:        p.BuyAvg,
			SellAvg:       p.SellAvg,
			RealizedPnL:   p.RealizedPL,
			UnrealizedPnL: p.UnrealizedPL,
		}
		if p.LTP != nil {
			pos.LTP = *p.LTP
			pos.LTPKnown = true
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

type fyersOrderRaw struct {
	ID           string  `json:"id"`
	Symbol       string  `json:"symbol"`
	Qty          int     `json:"qty"`
	RemainingQty int     `json:"remainingQuantity"`
	FilledQty    int     `json:"filledQty"`
	Status       int     `json:"status"`
	LimitPrice   float64 `json:"limitPrice"`
	StopPrice    float64 `json:"stopPrice"`
	Type         int     `json:"type"`
	Side         int     `json:"side"`
	ProductType  string  `json:"productType"`
	OrderTag     string  `json:"orderTag"`
	DateTime     string  `json:"orderDateTime"`
}

// GetOrders fetches the order book.
func (f *FyersClient) GetOrders(ctx context.Context) ([]models.Order, error) {
	var raw struct {
		fyersEnvelope
		OrderBook []fyersOrderRaw `json:"orderBook"`
	}
	if err := f.core.doJSON(ctx, http.MethodGet, f.cfg.APIBaseURL+"/orders", nil, &raw); err != nil {
		return nil, err
	}
	if err := f.checkEnvelope(raw.fyersEnvelope); err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(raw.OrderBook))
	for _, o := range raw.OrderBook {
		orders = append(orders, models.Order{
			ID: o.ID,
			Instrument: models.Instrument{
				Symbol:   o.Symbol,
				Exchange: exchangeOfQualified(o.Symbol),
			},
			Side:         fyersSideToModel(o.Side),
			Type:         fyersTypeToModel(o.Type),
			Product:      fyersProductToModel(o.ProductType),
			Quantity:     o.Qty,
			FilledQty:    o.FilledQty,
			RemainingQty: o.RemainingQty,
			LimitPrice:   o.LimitPrice,
			StopPrice:    o.StopPrice,
			RawStatus:    fyersStatusWord(o.Status),
			Tag:          o.OrderTag,
			Modifiable:   (o.Status == 1 || o.Status == 6) && o.RemainingQty > 0,
			PlacedAt:     parseFyersTime(o.DateTime),
		})
	}
	return orders, nil
}

type fyersTradeRaw struct {
	OrderNumber string  `json:"orderNumber"`
	TradeNumber string  `json:"tradeNumber"`
	Symbol      string  `json:"symbol"`
	TradePrice  float64 `json:"tradePrice"`
	TradedQty   int     `json:"tradedQty"`
	Side        int     `json:"side"`
	ProductType string  `json:"productType"`
	TradeValue  float64 `json:"tradeValue"`
	OrderTag    string  `json:"orderTag"`
	DateTime    string  `json:"orderDateTime"`
}

// GetTrades fetches the trade book.
func (f *FyersClient) GetTrades(ctx context.Context) ([]models.Trade, error) {
	var raw struct {
		fyersEnvelope
		TradeBook []fyersTradeRaw `json:"tradeBook"`
	}
	if err := f.core.doJSON(ctx, http.MethodGet, f.cfg.APIBaseURL+"/tradebook", nil, &raw); err != nil {
		return nil, err
	}
	if err := f.checkEnvelope(raw.fyersEnvelope); err != nil {
		return nil, err
	}

	trades := make([]models.Trade, 0, len(raw.TradeBook))
	for _, t := range raw.TradeBook {
		trades = append(trades, models.Trade{
			OrderID: t.OrderNumber,
			TradeID: t.TradeNumber,
			Instrument: models.Instrument{
				Symbol:   t.Symbol,
				Exchange: exchangeOfQualified(t.Symbol),
			},
			Side:       fyersSideToModel(t.Side),
			Product:    fyersProductToModel(t.ProductType),
			Quantity:   t.TradedQty,
			Price:      t.TradePrice,
			Value:      t.TradeValue,
			Tag:        t.OrderTag,
			ExecutedAt: parseFyersTime(t.DateTime),
		})
	}
	return trades, nil
}

// GetFunds fetches the first fund-limit row, which carries the account
// level numbers.
func (f *FyersClient) GetFunds(ctx context.Context) (*models.Funds, error) {
	var raw struct {
		fyersEnvelope
		FundLimit []struct {
			AvailableFunds  float64 `json:"availableFunds"`
			UsedMargin      float64 `json:"usedMargin"`
			NetFunds        float64 `json:"netFunds"`
			TotalCollateral float64 `json:"totalCollateral"`
		} `json:"fund_limit"`
	}
	if err := f.core.doJSON(ctx, http.MethodGet, f.cfg.APIBaseURL+"/funds", nil, &raw); err != nil {
		return nil, err
	}
	if err := f.checkEnvelope(raw.fyersEnvelope); err != nil {
		return nil, err
	}
	if len(raw.FundLimit) == 0 {
		return nil, apperrors.NewBrokerError(fyersBrokerName, "", "no fund data available")
	}
	fd := raw.FundLimit[0]
	return &models.Funds{
		Available:       fd.AvailableFunds,
		UsedMargin:      fd.UsedMargin,
		Net:             fd.NetFunds,
		TotalCollateral: fd.TotalCollateral,
	}, nil
}

// GetQuote fetches the last traded price for one instrument.
func (f *FyersClient) GetQuote(ctx context.Context, inst models.Instrument) (*models.Quote, error) {
	var raw struct {
		fyersEnvelope
		D []struct {
			N string `json:"n"`
			V struct {
				LP *float64 `json:"lp"`
			} `json:"v"`
		} `json:"d"`
	}
	endpoint := fmt.Sprintf("%s/quotes?symbols=%s", f.cfg.DataURL, url.QueryEscape(inst.Symbol))
	if err := f.core.doJSON(ctx, http.MethodGet, endpoint, nil, &raw); err != nil {
		return nil, err
	}
	if err := f.checkEnvelope(raw.fyersEnvelope); err != nil {
		return nil, err
	}
	if len(raw.D) == 0 || raw.D[0].V.LP == nil {
		return nil, apperrors.NewBrokerError(fyersBrokerName, "", fmt.Sprintf("no quote for %s", inst.Symbol))
	}
	return &models.Quote{
		Symbol:    inst.Symbol,
		LTP:       *raw.D[0].V.LP,
		Timestamp: time.Now(),
	}, nil
}

// GetDailyCandle requests the single daily bar for one calendar day.
// An empty candle list means no trading happened that day.
func (f *FyersClient) GetDailyCandle(ctx context.Context, inst models.Instrument, day time.Time) (*models.Candle, error) {
	dateStr := day.Format("2006-01-02")
	q := url.Values{}
	q.Set("symbol", inst.Symbol)
	q.Set("resolution", "1D")
	q.Set("date_format", "1")
	q.Set("range_from", dateStr)
	q.Set("range_to", dateStr)
	q.Set("cont_flag", "1")

	var raw struct {
		fyersEnvelope
		Candles [][]float64 `json:"candles"`
	}
	endpoint := fmt.Sprintf("%s/history?%s", f.cfg.DataURL, q.Encode())
	if err := f.core.doJSON(ctx, http.MethodGet, endpoint, nil, &raw); err != nil {
		return nil, err
	}
	if err := f.checkEnvelope(raw.fyersEnvelope); err != nil {
		return nil, err
	}
	if len(raw.Candles) == 0 {
		return nil, nil
	}

	c := raw.Candles[0]
	if len(c) < 5 {
		return nil, apperrors.NewBrokerError(fyersBrokerName, "", "malformed candle row")
	}
	candle := &models.Candle{
		Timestamp: time.Unix(int64(c[0]), 0),
		Open:      c[1],
		High:      c[2],
		Low:       c[3],
		Close:     c[4],
	}
	if len(c) > 5 {
		candle.Volume = int64(c[5])
	}
	return candle, nil
}

// fyersActionResp is the response shape on order-action endpoints.
type fyersActionResp struct {
	fyersEnvelope
	ID string `json:"id"`
}

func (f *FyersClient) toActionResult(resp fyersActionResp) *ActionResult {
	return &ActionResult{
		OK:      resp.Code == fyersCodeOK || resp.Code == fyersCodeAccepted,
		OrderID: resp.ID,
		Code:    fmt.Sprintf("%d", resp.Code),
		Message: resp.Message,
	}
}

// PlaceOrder submits a new order.
func (f *FyersClient) PlaceOrder(ctx context.Context, spec OrderSpec) (*ActionResult, error) {
	body := map[string]interface{}{
		"symbol":       spec.Instrument.Symbol,
		"qty":          spec.Quantity,
		"type":         fyersTypeFromModel(spec.Type),
		"side":         fyersSideFromModel(spec.Side),
		"productType":  fyersProductFromModel(spec.Product),
		"limitPrice":   spec.LimitPrice,
		"stopPrice":    spec.StopPrice,
		"disclosedQty": spec.DisclosedQty,
		"validity":     "DAY",
		"offlineOrder": false,
	}
	if spec.Tag != "" {
		body["orderTag"] = spec.Tag
	}

	var resp fyersActionResp
	if err := f.core.doJSON(ctx, http.MethodPost, f.cfg.APIBaseURL+"/orders/sync", body, &resp); err != nil {
		return nil, err
	}
	return f.toActionResult(resp), nil
}

// ModifyOrder updates price/quantity fields on a pending order.
func (f *FyersClient) ModifyOrder(ctx context.Context, orderID string, spec OrderSpec) (*ActionResult, error) {
	body := map[string]interface{}{
		"id":           orderID,
		"type":         fyersTypeFromModel(spec.Type),
		"qty":          spec.Quantity,
		"limitPrice":   spec.LimitPrice,
		"stopPrice":    spec.StopPrice,
		"disclosedQty": spec.DisclosedQty,
	}

	var resp fyersActionResp
	if err := f.core.doJSON(ctx, http.MethodPatch, f.cfg.APIBaseURL+"/orders/sync", body, &resp); err != nil {
		return nil, err
	}
	return f.toActionResult(resp), nil
}

// CancelOrder cancels a pending order.
func (f *FyersClient) CancelOrder(ctx context.Context, orderID string) (*ActionResult, error) {
	body := map[string]interface{}{"id": orderID}

	var resp fyersActionResp
	if err := f.core.doJSON(ctx, http.MethodDelete, f.cfg.APIBaseURL+"/orders/sync", body, &resp); err != nil {
		return nil, err
	}
	return f.toActionResult(resp), nil
}

// Fyers has no GTT/OCO surface in this API version.

func (f *FyersClient) PlaceGTT(ctx context.Context, spec GTTSpec) (*ActionResult, error) {
	return nil, apperrors.ErrUnsupported
}

func (f *FyersClient) ModifyGTT(ctx context.Context, triggerID string, spec GTTSpec) (*ActionResult, error) {
	return nil, apperrors.ErrUnsupported
}

func (f *FyersClient) CancelGTT(ctx context.Context, triggerID string) (*ActionResult, error) {
	return nil, apperrors.ErrUnsupported
}

func (f *FyersClient) PlaceOCO(ctx context.Context, spec OCOSpec) (*ActionResult, error) {
	return nil, apperrors.ErrUnsupported
}

func (f *FyersClient) ModifyOCO(ctx context.Context, triggerID string, spec OCOSpec) (*ActionResult, error) {
	return nil, apperrors.ErrUnsupported
}

func (f *FyersClient) CancelOCO(ctx context.Context, triggerID string) (*ActionResult, error) {
	return nil, apperrors.ErrUnsupported
}

// fyersStatusWord maps Fyers numeric order states into the shared status
// vocabulary. Fill-based classification happens later and wins; only the
// terminal/raw states matter here.
func fyersStatusWord(status int) string {
	switch status {
	case 3:
		return "CANCELLED"
	case 4:
		return "REJECTED"
	case 5:
		return "EXPIRED"
	case 6:
		return "OPEN"
	case 7:
		return "TRIGGER_PENDING"
	default:
		return fmt.Sprintf("%d", status)
	}
}

func fyersSideToModel(side int) models.OrderSide {
	if side == fyersSideSell {
		return models.OrderSideSell
	}
	return models.OrderSideBuy
}

func fyersSideFromModel(side models.OrderSide) int {
	if side == models.OrderSideSell {
		return fyersSideSell
	}
	return fyersSideBuy
}

func fyersTypeToModel(t int) models.OrderType {
	switch t {
	case fyersTypeLimit:
		return models.OrderTypeLimit
	case fyersTypeStopMkt:
		return models.OrderTypeStopMkt
	case fyersTypeStopLimit:
		return models.OrderTypeStopLimit
	default:
		return models.OrderTypeMarket
	}
}

func fyersTypeFromModel(t models.OrderType) int {
	switch t {
	case models.OrderTypeLimit:
		return fyersTypeLimit
	case models.OrderTypeStopMkt:
		return fyersTypeStopMkt
	case models.OrderTypeStopLimit:
		return fyersTypeStopLimit
	default:
		return fyersTypeMarket
	}
}

func fyersProductToModel(p string) models.ProductType {
	switch p {
	case "CNC":
		return models.ProductCNC
	case "MARGIN":
		return models.ProductNRML
	default:
		return models.ProductIntraday
	}
}

func fyersProductFromModel(p models.ProductType) string {
	switch p {
	case models.ProductCNC:
		return "CNC"
	case models.ProductNRML:
		return "MARGIN"
	default:
		return "INTRADAY"
	}
}

func parseFyersTime(s string) time.Time {
	for _, layout := range []string{"02-Jan-2006 15:04:05", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Ensure FyersClient implements Client.
var _ Client = (*FyersClient)(nil)
