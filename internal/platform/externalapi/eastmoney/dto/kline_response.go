// Package dto holds the wire shapes of the EastMoney K-line API.
package dto

import "encoding/json"

// KLineResponse is the top-level response body.
// Data stays raw so that an absent key (nil) can be told apart from an explicit null.
type KLineResponse struct {
	RC   int             `json:"rc"`
	Data json.RawMessage `json:"data"`
}

// KLineData is the payload of a recognised secid.
type KLineData struct {
	Code   string    `json:"code"`
	Market int       `json:"market"`
	Name   string    `json:"name"`
	KLines *[]string `json:"klines"`
}
