// Package quotes derives previous-close prices and P&L rows from broker
// market data.
package quotes

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/gopalmandloi007/tradedeck/internal/errors"
	"github.com/gopalmandloi007/tradedeck/internal/models"
	"github.com/gopalmandloi007/tradedeck/pkg/utils"
)

// DefaultLookbackDays bounds the holiday scan. Nine calendar days covers
// the longest NSE holiday cluster plus a weekend on either side.
const DefaultLookbackDays = 9

// PrevClose is the outcome of a previous-close lookup.
type PrevClose struct {
	Price float64
	Date  time.Time // trading day the close belongs to
}

// CandleSource is the slice of the broker client the resolver needs. A
// nil candle with a nil error means the day had no trading.
type CandleSource interface {
	GetDailyCandle(ctx context.Context, inst models.Instrument, day time.Time) (*models.Candle, error)
}

// Resolver finds the most recent trading day's close before a reference
// date by scanning backwards through daily candles. Days with no candle
// are holidays or weekends and are skipped. Results are memoized for the
// resolver's lifetime, so build one per dashboard refresh.
type Resolver struct {
	source   CandleSource
	lookback int
	logger   zerolog.Logger
	cache    map[string]cachedClose
}

type cachedClose struct {
	result PrevClose
	err    error
}

// NewResolver creates a previous-close resolver. lookback <= 0 selects
// DefaultLookbackDays.
func NewResolver(source CandleSource, lookback int, logger zerolog.Logger) *Resolver {
	if lookback <= 0 {
		lookback = DefaultLookbackDays
	}
	return &Resolver{
		source:   source,
		lookback: lookback,
		logger:   logger,
		cache:    make(map[string]cachedClose),
	}
}

// Resolve returns the close of the last trading day strictly before asOf.
// A zero close is a valid price. When no trading day is found within the
// lookback window the error wraps ErrNoPreviousClose; callers render the
// derived metrics as not available rather than failing the view.
func (r *Resolver) Resolve(ctx context.Context, inst models.Instrument, asOf time.Time) (PrevClose, error) {
	key := string(inst.Exchange) + ":" + inst.Symbol
	if cached, ok := r.cache[key]; ok {
		return cached.result, cached.err
	}

	result, err := r.scan(ctx, inst, asOf)
	r.cache[key] = cachedClose{result: result, err: err}
	return result, err
}

func (r *Resolver) scan(ctx context.Context, inst models.Instrument, asOf time.Time) (PrevClose, error) {
	day := utils.DayIST(asOf)

	retryCfg := utils.RetryConfig{
		MaxAttempts:   2,
		InitialDelay:  200 * time.Millisecond,
		MaxDelay:      200 * time.Millisecond,
		BackoffFactor: 1.0,
		ShouldRetry:   apperrors.IsNetwork,
	}

	for i := 1; i <= r.lookback; i++ {
		candidate := day.AddDate(0, 0, -i)

		candle, err := utils.RetryWithResult(ctx, retryCfg, func() (*models.Candle, error) {
			return r.source.GetDailyCandle(ctx, inst, candidate)
		})
		if err != nil {
			if ctx.Err() != nil {
				return PrevClose{}, err
			}
			// Persistent fetch failure for one day; skip it and keep
			// scanning, the view degrades to N/A only if every day fails.
			r.logger.Debug().
				Str("symbol", inst.Symbol).
				Str("day", candidate.Format("2006-01-02")).
				Err(err).
				Msg("daily candle fetch failed, skipping day")
			continue
		}
		if candle == nil {
			// Holiday or weekend.
			continue
		}
		return PrevClose{Price: candle.Close, Date: candidate}, nil
	}

	return PrevClose{}, apperrors.Wrapf(apperrors.ErrNoPreviousClose,
		"no trading day for %s within %d days before %s",
		inst.Symbol, r.lookback, day.Format("2006-01-02"))
}
