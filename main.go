package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"merchant-yapp/internal/auth"
	"merchant-yapp/internal/bridge"
	"merchant-yapp/internal/config"
	"merchant-yapp/internal/dal"
	"merchant-yapp/internal/event"
	"merchant-yapp/internal/handler"
	"merchant-yapp/internal/idgen"
	"merchant-yapp/internal/logger"
	"merchant-yapp/internal/metrics"
	"merchant-yapp/internal/middleware"
	"merchant-yapp/internal/mq"
	"merchant-yapp/internal/service"
	"merchant-yapp/internal/store"
	"merchant-yapp/internal/yodl"
)

func main() {
	// load config env
	config.Init()
	logger.Init()

	// init infra
	dal.InitRedis()
	dal.InitRabbitMQ()

	// idgen
	idgen.Init(1)

	st := store.NewRedis(dal.RedisClient)
	bus := event.NewBus()
	hub := bridge.NewHub(config.C.Security.AllowedOrigins)
	yc := yodl.NewClient(config.C.Yodl.ApiURL, config.C.Yodl.MerchantAddress, config.C.Yodl.MerchantENS)

	payTimeout := time.Duration(config.C.Payment.TimeoutSec) * time.Second
	fetchTimeout := time.Duration(config.C.Payment.DetailFetchTimeoutSec) * time.Second

	norm := service.NewPaymentNormalizer(st, bus, hub, mq.NewPublisher())
	resolver := service.NewStatusResolver(st, yc, fetchTimeout)
	checkout := service.NewCheckoutService(st, yc, norm, bus, config.C.Server.BaseURL, payTimeout)
	verifier := auth.NewVerifier(config.C.Security)

	// start consumers
	go mq.StartConsumers(norm.HandleMessage)

	// http server
	if config.C.Server.Mode != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Recover(), middleware.Logger())

	ch := handler.NewCheckoutHandler(checkout, payTimeout)
	ph := handler.NewPaymentHandler(norm, resolver)
	oh := handler.NewOrderHandler(resolver)
	vh := handler.NewVerifyHandler(resolver)
	ah := handler.NewAuthHandler(verifier)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/checkout", ch.Create)
		v1.GET("/confirmation", ph.Confirmation)
		v1.POST("/payments/message", ph.Message)
		v1.GET("/orders/:id/status", oh.Status)
		v1.GET("/orders/:id/wait", ch.Wait)
		v1.GET("/bridge", func(c *gin.Context) { hub.Serve(c, norm.HandleMessage) })

		v1.POST("/auth/challenge", ah.Challenge)
		v1.POST("/auth/login", ah.Login)
		v1.POST("/auth/logout", ah.Logout)

		admin := v1.Group("", middleware.AdminAuth(verifier))
		admin.GET("/verify", vh.Scan)
		admin.GET("/verify/:id", vh.ByID)
	}
	r.GET("/metrics", metrics.Handler())

	addr := ":" + config.C.Server.Port
	log.Printf("listening %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
