package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fox_trade/internal/feature/kline/domain"
)

// FieldCount is the number of comma-separated fields in one K-line record.
const FieldCount = 11

// HandoffKeys are the human-readable keys under which the record fields are handed downstream.
// Their order matches the field order of a record.
var HandoffKeys = []string{
	"date",
	"open",
	"close",
	"high",
	"low",
	"volume",
	"turnover",
	"amplitude",
	"change_pct",
	"change_amount",
	"turnover_rate",
}

// KLine is one parsed OHLCV record for a trading interval.
type KLine struct {
	Date          time.Time       // 日付
	Open          decimal.Decimal // 始値
	Close         decimal.Decimal // 終値
	High          decimal.Decimal // 高値
	Low           decimal.Decimal // 安値
	Volume        int64           // 出来高
	Turnover      decimal.Decimal // 売買代金
	Amplitude     decimal.Decimal // 振幅(%)
	ChangePercent decimal.Decimal // 騰落率(%)
	ChangeAmount  decimal.Decimal // 騰落額
	TurnoverRate  decimal.Decimal // 回転率(%)
	Raw           string
}

// FetchResult is either Found with records or NotFound for the requested code.
type FetchResult struct {
	Code    SecurityCode
	Found   bool
	SecID   SecID    // the qualifier that produced the records
	Records []string // raw comma-delimited records, nil when not found
}

// SplitFields splits a raw record and maps it positionally onto HandoffKeys.
func SplitFields(raw string) (map[string]string, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != FieldCount {
		return nil, fmt.Errorf("%w: got %d fields, want %d", domain.ErrMalformedRecord, len(parts), FieldCount)
	}
	out := make(map[string]string, FieldCount)
	for i, k := range HandoffKeys {
		out[k] = parts[i]
	}
	return out, nil
}

// ParseKLine parses a raw record into a KLine.
func ParseKLine(raw string) (KLine, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != FieldCount {
		return KLine{}, fmt.Errorf("%w: got %d fields, want %d", domain.ErrMalformedRecord, len(parts), FieldCount)
	}

	d, err := parseRecordTime(parts[0])
	if err != nil {
		return KLine{}, err
	}

	vol, err := strconv.ParseInt(parts[5], 10, 64)
	if err != nil {
		return KLine{}, fmt.Errorf("parse volume %q: %w", parts[5], err)
	}

	k := KLine{Date: d, Volume: vol, Raw: raw}
	decimals := []struct {
		name string
		idx  int
		dst  *decimal.Decimal
	}{
		{"open", 1, &k.Open},
		{"close", 2, &k.Close},
		{"high", 3, &k.High},
		{"low", 4, &k.Low},
		{"turnover", 6, &k.Turnover},
		{"amplitude", 7, &k.Amplitude},
		{"change_pct", 8, &k.ChangePercent},
		{"change_amount", 9, &k.ChangeAmount},
		{"turnover_rate", 10, &k.TurnoverRate},
	}
	for _, f := range decimals {
		v, err := decimal.NewFromString(parts[f.idx])
		if err != nil {
			return KLine{}, fmt.Errorf("parse %s %q: %w", f.name, parts[f.idx], err)
		}
		*f.dst = v
	}
	return k, nil
}

// recordTimeLayouts are tried in order. Minute bars carry a time of day.
var recordTimeLayouts = []string{
	MinuteLayout,
	"2006-01-02",
	DateLayout,
}

func parseRecordTime(v string) (time.Time, error) {
	var err error
	for _, layout := range recordTimeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q: %w", v, err)
}
