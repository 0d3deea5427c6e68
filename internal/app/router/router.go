package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	runhandler "fox_trade/internal/feature/dailyreport/transport/handler"
	klinehandler "fox_trade/internal/feature/kline/transport/handler"
	"fox_trade/internal/platform/http/handler"
)

func NewRouter(health *handler.HealthHandler, klines *klinehandler.KLineHandler,
	runs *runhandler.RunHandler, metrics http.Handler) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)
	// Prometheus
	r.GET("/metrics", gin.WrapH(metrics))

	// K線の取得（DBには保存しない）
	r.GET("/klines/:code", klines.GetKLinesHandler)

	// 日次レポートの実行と履歴
	r.POST("/runs", runs.Trigger)
	r.GET("/runs", runs.List)
	r.GET("/runs/:id", runs.Get)
	r.GET("/runs/:id/report", runs.Report)

	return r
}
