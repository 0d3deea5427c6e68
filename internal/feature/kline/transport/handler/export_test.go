package handler

import "time"

// SetNow replaces the clock used to resolve an omitted date.
func SetNow(h *KLineHandler, now func() time.Time) { h.now = now }
