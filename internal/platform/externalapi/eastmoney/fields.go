package eastmoney

import "strings"

// metadataFields is the fixed fields1 parameter.
const metadataFields = "f1,f2,f3,f4,f5,f6,f7,f8,f9,f10,f11,f12,f13"

// returnType is the fixed rtntype parameter.
const returnType = "6"

// KLineField maps an upstream data field code to a readable label.
type KLineField struct {
	Code  string
	Label string
}

// KLineFields is the data field map sent as fields2.
// The order determines the field order of every returned record.
var KLineFields = []KLineField{
	{"f51", "日期"},
	{"f52", "开盘"},
	{"f53", "收盘"},
	{"f54", "最高"},
	{"f55", "最低"},
	{"f56", "成交量"},
	{"f57", "成交额"},
	{"f58", "振幅"},
	{"f59", "涨跌幅"},
	{"f60", "涨跌额"},
	{"f61", "换手率"},
}

// dataFields joins the KLineFields codes for the fields2 parameter.
func dataFields() string {
	codes := make([]string, 0, len(KLineFields))
	for _, f := range KLineFields {
		codes = append(codes, f.Code)
	}
	return strings.Join(codes, ",")
}
