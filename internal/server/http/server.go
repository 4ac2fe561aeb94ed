// Package httpserver exposes the inventory service over HTTP using gin.
package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/and161185/goalplay-inventory/internal/service"
)

// Pinger reports database reachability for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options wires the router.
type Options struct {
	Inventory service.InventoryService
	Users     service.UserService
	DB        Pinger
	Logger    *zap.Logger

	SignKey        []byte
	Prefix         string
	CORSOrigins    []string
	RequestTimeout time.Duration
	Gatherer       prometheus.Gatherer // defaults to prometheus.DefaultGatherer
}

// Server holds the handler dependencies.
type Server struct {
	inv service.InventoryService
	db  Pinger
	log *zap.Logger
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(o Options) *gin.Engine {
	registerValidators()

	log := o.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 5 * time.Second
	}
	gatherer := o.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	s := &Server{inv: o.Inventory, db: o.DB, log: log}

	r := gin.New()
	r.Use(Recover(log), Logging(log), Metrics(), CORS(o.CORSOrigins))

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := r.Group(o.Prefix, Timeout(o.RequestTimeout), Auth(o.SignKey, o.Users, log))
	owned := api.Group("/owned-players")
	owned.GET("", s.listOwned)
	owned.GET("/:id/kit", s.getKit)
	owned.PUT("/:id/kit", s.updateKit)
	owned.GET("/:id/kits", s.listKits)
	owned.GET("/:id/progression", s.getProgression)
	owned.GET("/:id/farming-status", s.getFarmingStatus)
	owned.POST("/:id/farming", s.processFarming)

	return r
}
