package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeWindow is a reference window of fee rates by confirmation target,
// expressed in sats/vbyte.
type FeeWindow struct {
	Id               int64
	FeesByConfTarget map[int]decimal.Decimal
	FetchedAt        time.Time
	ExpiresAt        time.Time
}

// FastestFeeRate returns the rate for the lowest confirmation target of the
// window.
func (w FeeWindow) FastestFeeRate() decimal.Decimal {
	best := -1
	for target := range w.FeesByConfTarget {
		if best < 0 || target < best {
			best = target
		}
	}
	if best < 0 {
		return decimal.Zero
	}
	return w.FeesByConfTarget[best]
}

// ExchangeRateWindow is a reference window of BTC exchange rates by currency
// code.
type ExchangeRateWindow struct {
	Id              int64
	RatesByCurrency map[string]decimal.Decimal
	FetchedAt       time.Time
}

// Rate returns the exchange rate for the given currency code, or zero when
// the window does not quote it.
func (w ExchangeRateWindow) Rate(currency string) decimal.Decimal {
	return w.RatesByCurrency[currency]
}

// RealTimeData is the pair of reference windows the backend returns
// together. Either window being stale forces a refetch of both.
type RealTimeData struct {
	FeeWindow          FeeWindow
	ExchangeRateWindow ExchangeRateWindow
}

// Fresh returns whether both windows were fetched less than ttl ago.
func (d RealTimeData) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(d.FeeWindow.FetchedAt) < ttl &&
		now.Sub(d.ExchangeRateWindow.FetchedAt) < ttl
}
