package cache

import (
	"time"
)

// MarketLocation は上海・深センの取引所の時間帯です。
var MarketLocation = loadLocation("Asia/Shanghai", 8*60*60)

func loadLocation(name string, offset int) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, offset)
	}
	return loc
}

// TimeUntilNext は now から次の hour 時（loc の時間帯）までの期間を返します。
// 当日の hour 時を過ぎている場合は翌日の hour 時を使用します。
func TimeUntilNext(now time.Time, hour int, loc *time.Location) time.Duration {
	now = now.In(loc)
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, loc)
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

// TimeUntilNextMarketClose は次の15時（中国時間）までの期間を返します。
// 当日分のK線は引け後に確定するため、キャッシュのTTLに使用します。
func TimeUntilNextMarketClose() time.Duration {
	return TimeUntilNext(time.Now(), 15, MarketLocation)
}
