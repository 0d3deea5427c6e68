package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fox_trade/internal/feature/kline/domain"
)

// DateLayout is the calendar-day form the quote endpoint expects for beg/end.
const DateLayout = "20060102"

// MinuteLayout is the record timestamp of 1-minute and 5-minute bars.
const MinuteLayout = "2006-01-02 15:04"

// Interval is the sampling granularity, valued with the provider's klt code.
type Interval int

const (
	IntervalMinute1 Interval = 1
	IntervalMinute5 Interval = 5
	IntervalDaily   Interval = 101
	IntervalWeekly  Interval = 102
)

var intervalNames = map[Interval]string{
	IntervalMinute1: "1min",
	IntervalMinute5: "5min",
	IntervalDaily:   "daily",
	IntervalWeekly:  "weekly",
}

// Code returns the klt query value.
func (i Interval) Code() string { return strconv.Itoa(int(i)) }

func (i Interval) String() string {
	if n, ok := intervalNames[i]; ok {
		return n
	}
	return "klt" + i.Code()
}

// Intraday reports whether records of this interval carry a time of day.
func (i Interval) Intraday() bool {
	return i == IntervalMinute1 || i == IntervalMinute5
}

// RecordLayout is the layout for rendering a record timestamp of this interval.
func (i Interval) RecordLayout() string {
	if i.Intraday() {
		return MinuteLayout
	}
	return time.DateOnly
}

// ParseInterval accepts either the readable name ("daily") or the raw klt code ("101").
// An empty string yields IntervalDaily.
func ParseInterval(v string) (Interval, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return IntervalDaily, nil
	}
	for i, n := range intervalNames {
		if v == n || v == i.Code() {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", domain.ErrInvalidInterval, v)
}

// Adjustment is the price-adjustment method, valued with the provider's fqt code.
type Adjustment int

const (
	AdjustNone     Adjustment = 0
	AdjustForward  Adjustment = 1
	AdjustBackward Adjustment = 2
)

var adjustmentNames = map[Adjustment]string{
	AdjustNone:     "none",
	AdjustForward:  "forward",
	AdjustBackward: "backward",
}

// Code returns the fqt query value.
func (a Adjustment) Code() string { return strconv.Itoa(int(a)) }

func (a Adjustment) String() string {
	if n, ok := adjustmentNames[a]; ok {
		return n
	}
	return "fqt" + a.Code()
}

// ParseAdjustment accepts "none"/"forward"/"backward" or "0"/"1"/"2".
// An empty string yields AdjustForward.
func ParseAdjustment(v string) (Adjustment, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return AdjustForward, nil
	}
	for a, n := range adjustmentNames {
		if v == n || v == a.Code() {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", domain.ErrInvalidAdjustment, v)
}

// Query describes one K-line request. Start and end date are both Date.
type Query struct {
	Code       SecurityCode
	Date       string // YYYYMMDD
	Interval   Interval
	Adjustment Adjustment
}

// NewDailyQuery returns a daily, forward-adjusted query for a single day.
func NewDailyQuery(code SecurityCode, date string) Query {
	return Query{Code: code, Date: date, Interval: IntervalDaily, Adjustment: AdjustForward}
}

// FormatDate renders t in the YYYYMMDD form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
