// Package entity defines the domain models for the kline feature.
package entity

import (
	"fmt"
	"strings"

	"fox_trade/internal/feature/kline/domain"
)

// SecurityCode is a 6-digit instrument code such as "600519" or "002707".
// It is not validated; malformed codes pass through to the upstream call.
type SecurityCode string

// Market is the exchange qualifier understood by the quote provider.
type Market int

const (
	// MarketShenzhen routes Shenzhen stocks and "399" indices.
	MarketShenzhen Market = 0
	// MarketShanghai routes Shanghai stocks and "000" indices.
	MarketShanghai Market = 1
)

// SecID is an exchange-qualified identifier rendered as "{0|1}.{code}".
type SecID struct {
	Market Market
	Code   SecurityCode
}

// Resolve は6桁の銘柄コードから取引所付きのSecIDを導出します。
// ルールは上から順に評価され、最初に一致したものが採用されます。
func Resolve(code SecurityCode) SecID {
	s := string(code)
	switch {
	case strings.HasPrefix(s, "000"):
		// 上海指数
		return SecID{Market: MarketShanghai, Code: code}
	case strings.HasPrefix(s, "399"):
		// 深セン指数
		return SecID{Market: MarketShenzhen, Code: code}
	case !strings.HasPrefix(s, "6"):
		return SecID{Market: MarketShenzhen, Code: code}
	default:
		return SecID{Market: MarketShanghai, Code: code}
	}
}

// Flip returns the same code under the opposite exchange qualifier.
func (s SecID) Flip() SecID {
	if s.Market == MarketShenzhen {
		return SecID{Market: MarketShanghai, Code: s.Code}
	}
	return SecID{Market: MarketShenzhen, Code: s.Code}
}

func (s SecID) String() string {
	return fmt.Sprintf("%d.%s", s.Market, s.Code)
}

// ParseSecID parses the "{0|1}.{code}" form.
func ParseSecID(v string) (SecID, error) {
	prefix, code, ok := strings.Cut(v, ".")
	if !ok || code == "" {
		return SecID{}, fmt.Errorf("%w: %q", domain.ErrInvalidSecID, v)
	}
	switch prefix {
	case "0":
		return SecID{Market: MarketShenzhen, Code: SecurityCode(code)}, nil
	case "1":
		return SecID{Market: MarketShanghai, Code: SecurityCode(code)}, nil
	default:
		return SecID{}, fmt.Errorf("%w: %q", domain.ErrInvalidSecID, v)
	}
}
