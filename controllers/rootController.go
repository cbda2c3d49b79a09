package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SetupRootRoute registers the health probe, the metrics endpoint and the
// real-time socket endpoint.
func SetupRootRoute(router gin.IRouter, gatherer prometheus.Gatherer, realtime http.Handler) {
	router.GET("/healthz", healthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	if realtime != nil {
		router.GET("/socket.io/", gin.WrapH(realtime))
	}
}
