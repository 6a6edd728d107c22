package checkout

import (
	"context"
	"errors"

	"github.com/angelmondragon/storefront-checkout/pkg/store"
	"github.com/shopspring/decimal"
)

var errNoAppInfo = errors.New("appinfo has no records")

// commissionRate reads the global rate from the first appinfo record. Any
// failure falls back to a zero rate so checkout can proceed.
func (s *service) commissionRate(ctx context.Context) decimal.Decimal {
	records, err := s.appInfo.GetFullList(ctx, store.ListOptions{Sort: []string{"created"}})
	if err == nil && len(records) == 0 {
		err = errNoAppInfo
	}
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "commission rate unavailable, using 0")
		return decimal.Zero
	}
	rate := records[0].Commission
	if rate.IsNegative() {
		s.logg.Warn(s.logg.WithField(ctx, "commission", rate.String()), "negative commission rate ignored")
		return decimal.Zero
	}
	return rate
}
