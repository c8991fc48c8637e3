// Package main MCGP marketplace API.
//
// @title           MCGP Marketplace API
// @version         1.0
// @description     Multi-vendor marketplace (adverts, carts, orders, escrow settlement, withdrawals).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/ojimcy/mcgp-api/app/echoServer"
	accountctrl "github.com/ojimcy/mcgp-api/app/echoServer/controller/account"
	advertctrl "github.com/ojimcy/mcgp-api/app/echoServer/controller/advert"
	authctrl "github.com/ojimcy/mcgp-api/app/echoServer/controller/auth"
	cartctrl "github.com/ojimcy/mcgp-api/app/echoServer/controller/cart"
	orderctrl "github.com/ojimcy/mcgp-api/app/echoServer/controller/order"
	paymentctrl "github.com/ojimcy/mcgp-api/app/echoServer/controller/payment"
	"github.com/ojimcy/mcgp-api/app/echoServer/validation"
	"github.com/ojimcy/mcgp-api/config"
	accountrepo "github.com/ojimcy/mcgp-api/repository/account"
	advertrepo "github.com/ojimcy/mcgp-api/repository/advert"
	cacherepo "github.com/ojimcy/mcgp-api/repository/cache"
	cartrepo "github.com/ojimcy/mcgp-api/repository/cart"
	eventsrepo "github.com/ojimcy/mcgp-api/repository/events"
	orderrepo "github.com/ojimcy/mcgp-api/repository/order"
	storagerepo "github.com/ojimcy/mcgp-api/repository/storage"
	userrepo "github.com/ojimcy/mcgp-api/repository/user"
	accountsvc "github.com/ojimcy/mcgp-api/service/account"
	advertsvc "github.com/ojimcy/mcgp-api/service/advert"
	authsvc "github.com/ojimcy/mcgp-api/service/auth"
	cartsvc "github.com/ojimcy/mcgp-api/service/cart"
	ordersvc "github.com/ojimcy/mcgp-api/service/order"
	paymentsvc "github.com/ojimcy/mcgp-api/service/payment"
	settlementsvc "github.com/ojimcy/mcgp-api/service/settlement"
	"github.com/ojimcy/mcgp-api/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// DB
	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// cache
	var cache cacherepo.Cache = cacherepo.Nop{}
	if cfg.RedisAddr != "" {
		c, err := cacherepo.New(cfg.RedisAddr)
		if err != nil {
			log.Error("redis connect failed", "addr", cfg.RedisAddr, "err", err)
			os.Exit(1)
		}
		defer c.Close()
		cache = c
	}

	// events
	var events eventsrepo.Producer = eventsrepo.Nop{}
	if cfg.KafkaBrokers != "" {
		p := eventsrepo.NewKafka(strings.Split(cfg.KafkaBrokers, ","))
		defer p.Close()
		events = p
	}

	// repos
	ur := userrepo.New(db)
	adr := advertrepo.New(db)
	cr := cartrepo.New(db)
	or := orderrepo.New(db)
	ar := accountrepo.New(db)
	sr := storagerepo.NewHTTP(cfg.UploadURL, cfg.UploadPreset)

	// services
	as := authsvc.New(db, ur, ar, cfg.JWTSecret)
	ads := advertsvc.New(adr, ur, cache)
	cs := cartsvc.New(cr, ads)
	ords := ordersvc.New(db, or, cr, adr, events)
	ps := paymentsvc.New(or, sr)
	ss := settlementsvc.New(db, or, ar, events)
	acs := accountsvc.New(db, ar, events)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	advertC := &advertctrl.Controller{Svc: ads, V: v, Log: log}
	cartC := &cartctrl.Controller{Svc: cs, V: v, Log: log}
	orderC := &orderctrl.Controller{Svc: ords, Settlement: ss, V: v, Log: log}
	paymentC := &paymentctrl.Controller{Svc: ps, Log: log}
	accountC := &accountctrl.Controller{Svc: acs, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})
	e.GET("/metrics", echoServer.MetricsHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:    authC,
		Advert:  advertC,
		Cart:    cartC,
		Order:   orderC,
		Payment: paymentC,
		Account: accountC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
