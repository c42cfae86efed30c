// Package broker provides broker integration interfaces and the HTTP
// clients for the supported brokerages. Each client maps its broker's raw
// JSON into the canonical models at this boundary; raw field names do not
// escape this package.
package broker

import (
	"context"
	"time"

	apperrors "github.com/gopalmandloi007/tradedeck/internal/errors"
	"github.com/gopalmandloi007/tradedeck/internal/models"
)

// Client defines the uniform verbs against a brokerage API. Every method
// issues one authenticated HTTP call; there are no retries at this layer,
// retry policy belongs to callers.
type Client interface {
	Name() string

	// Account views
	GetHoldings(ctx context.Context) ([]models.Holding, error)
	GetPositions(ctx context.Context) ([]models.Position, error)
	GetOrders(ctx context.Context) ([]models.Order, error)
	GetTrades(ctx context.Context) ([]models.Trade, error)
	GetFunds(ctx context.Context) (*models.Funds, error)

	// Market data
	GetQuote(ctx context.Context, inst models.Instrument) (*models.Quote, error)
	// GetDailyCandle returns the single daily bar for the given calendar
	// day, or (nil, nil) when the broker has no data for that day (weekend,
	// holiday, instrument not traded).
	GetDailyCandle(ctx context.Context, inst models.Instrument, day time.Time) (*models.Candle, error)

	// Order actions
	PlaceOrder(ctx context.Context, spec OrderSpec) (*ActionResult, error)
	ModifyOrder(ctx context.Context, orderID string, spec OrderSpec) (*ActionResult, error)
	CancelOrder(ctx context.Context, orderID string) (*ActionResult, error)

	// Conditional orders. Brokers without a conditional-order surface
	// return errors.ErrUnsupported.
	PlaceGTT(ctx context.Context, spec GTTSpec) (*ActionResult, error)
	ModifyGTT(ctx context.Context, triggerID string, spec GTTSpec) (*ActionResult, error)
	CancelGTT(ctx context.Context, triggerID string) (*ActionResult, error)
	PlaceOCO(ctx context.Context, spec OCOSpec) (*ActionResult, error)
	ModifyOCO(ctx context.Context, triggerID string, spec OCOSpec) (*ActionResult, error)
	CancelOCO(ctx context.Context, triggerID string) (*ActionResult, error)

	// QualifySymbol turns a bare symbol into the broker's exchange-qualified
	// instrument identifier.
	QualifySymbol(symbol string) models.Instrument

	// RefreshSession re-requests a valid credential from the session
	// provider after a call reported an auth failure.
	RefreshSession(ctx context.Context) error
}

// OrderSpec carries a fully validated order request. The dispatcher owns
// validation and derived fields (disclosed quantity, amount sizing); the
// client only translates this into broker wire fields.
type OrderSpec struct {
	Instrument   models.Instrument
	Side         models.OrderSide
	Type         models.OrderType
	Product      models.ProductType
	Quantity     int
	DisclosedQty int
	LimitPrice   float64
	StopPrice    float64
	Tag          string
}

// GTTSpec carries a conditional (good-till-triggered) order request.
type GTTSpec struct {
	Instrument   models.Instrument
	Side         models.OrderSide
	Product      models.ProductType
	Quantity     int
	TriggerPrice float64
	LimitPrice   float64
	Direction    models.TriggerDirection
}

// OCOSpec carries a one-cancels-other conditional order request.
type OCOSpec struct {
	Instrument    models.Instrument
	Side          models.OrderSide
	Product       models.ProductType
	TargetQty     int
	TargetPrice   float64
	StoplossQty   int
	StoplossPrice float64
	Remarks       string
}

// ActionResult is the classified outcome of an order action. OK is true
// when the broker indicated success or accepted-with-warning; Message
// carries the broker's text verbatim either way.
type ActionResult struct {
	OK      bool
	OrderID string
	Code    string
	Message string
}

// Session supplies the per-call auth header values for a broker and can be
// asked to refresh them. Credential acquisition is an external
// collaborator; the clients treat a Session as an opaque provider.
type Session interface {
	Headers() map[string]string
	Refresh(ctx context.Context) error
}

// StaticSession is a Session backed by fixed credential values loaded at
// startup. Refresh fails with an AuthError asking the user to supply fresh
// credentials, since this build has no interactive auth handshake.
type StaticSession struct {
	broker  string
	headers map[string]string
}

// NewStaticSession creates a session with fixed header values.
func NewStaticSession(broker string, headers map[string]string) *StaticSession {
	return &StaticSession{broker: broker, headers: headers}
}

// Headers returns the auth headers attached to every call.
func (s *StaticSession) Headers() map[string]string {
	return s.headers
}

// Refresh cannot mint new credentials for a static session.
func (s *StaticSession) Refresh(ctx context.Context) error {
	return apperrors.NewAuthError(s.broker, "session expired; update credentials and retry")
}
