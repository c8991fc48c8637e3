package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/ojimcy/mcgp-api/app/echoServer/controller/account"
	"github.com/ojimcy/mcgp-api/app/echoServer/controller/advert"
	"github.com/ojimcy/mcgp-api/app/echoServer/controller/auth"
	"github.com/ojimcy/mcgp-api/app/echoServer/controller/cart"
	"github.com/ojimcy/mcgp-api/app/echoServer/controller/order"
	"github.com/ojimcy/mcgp-api/app/echoServer/controller/payment"
)

type C struct {
	Auth    *auth.Controller
	Advert  *advert.Controller
	Cart    *cart.Controller
	Order   *order.Controller
	Payment *payment.Controller
	Account *account.Controller

	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)
	pub.GET("/adverts", c.Advert.List)
	pub.GET("/adverts/:id", c.Advert.Detail)
	pub.GET("/payments/instructions", c.Payment.Instructions)

	// Auth
	authed := e.Group("/v1")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	authed.Use(claimsToContext())

	// Adverts (sellers)
	authed.POST("/adverts", c.Advert.Create)

	// Cart
	authed.GET("/cart", c.Cart.List)
	authed.POST("/cart/items", c.Cart.Add)
	authed.DELETE("/cart", c.Cart.Clear)
	authed.DELETE("/cart/items/:advertId", c.Cart.Remove)
	authed.POST("/cart/items/:advertId/increase", c.Cart.Increase)
	authed.POST("/cart/items/:advertId/decrease", c.Cart.Decrease)

	// Orders
	authed.POST("/orders", c.Order.Create)
	authed.GET("/orders", c.Order.My)
	authed.GET("/orders/:id", c.Order.Get)
	authed.POST("/orders/:id/pay", c.Payment.Submit)
	authed.POST("/orders/:id/release", c.Order.Release)
	authed.POST("/orders/:id/complete", c.Order.Complete)

	// Account / ledger
	authed.GET("/account", c.Account.Get)
	authed.GET("/account/transactions", c.Account.Ledger)
	authed.POST("/account/withdrawals", c.Account.RequestWithdrawal)
	authed.PUT("/account/withdrawal-details", c.Account.UpdateProfiles)

	// Admin
	admin := authed.Group("", RequireAdmin())
	admin.GET("/orders/get-all", c.Order.All)
	admin.POST("/orders/:id/acknowledge", c.Order.AcknowledgePayment)
	admin.POST("/adverts/:id/approve", c.Advert.Approve)
	admin.POST("/adverts/:id/reject", c.Advert.Reject)
	admin.POST("/account/withdrawals/:id/complete", c.Account.CompleteWithdrawal)
	admin.POST("/users/:id/verify-kyc", c.Auth.VerifyKyc)
}

// claimsToContext copies the verified sub and role claims into the echo
// context for handlers.
func claimsToContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			tok, ok := ctx.Get("user").(*jwt.Token)
			if !ok || tok == nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			sub, ok := claims["sub"].(float64)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("user_id", int64(sub))
			if role, ok := claims["role"].(string); ok {
				ctx.Set("role", role)
			}
			return next(ctx)
		}
	}
}
