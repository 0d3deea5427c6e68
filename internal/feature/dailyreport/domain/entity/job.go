package entity

import (
	"time"

	klineentity "fox_trade/internal/feature/kline/domain/entity"
)

// JobConfig is the per-run input of the daily report job.
// An empty AsOfDate means "today" in the market time zone at the time the run starts.
type JobConfig struct {
	Symbol     klineentity.SecurityCode
	AsOfDate   string
	Interval   klineentity.Interval
	Adjustment klineentity.Adjustment
}

// Query builds the K-line query for the run, resolving an empty AsOfDate against now.
func (c JobConfig) Query(now time.Time, loc *time.Location) klineentity.Query {
	date := c.AsOfDate
	if date == "" {
		date = klineentity.FormatDate(now.In(loc))
	}
	return klineentity.Query{
		Code:       c.Symbol,
		Date:       date,
		Interval:   c.Interval,
		Adjustment: c.Adjustment,
	}
}
