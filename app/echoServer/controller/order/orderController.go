package order

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/ojimcy/mcgp-api/app/echoServer/httperr"
	"github.com/ojimcy/mcgp-api/model"
	ordersvc "github.com/ojimcy/mcgp-api/service/order"
	settlementsvc "github.com/ojimcy/mcgp-api/service/settlement"
)

type Controller struct {
	Svc        ordersvc.Service
	Settlement settlementsvc.Service
	V          *validator.Validate
	Log        *slog.Logger
}

// @Summary Checkout the cart into an order
// @Success 201 {object} model.Order
// @Failure 400,401,409,500
// @Router  /v1/orders [post]
func (h *Controller) Create(c echo.Context) error {
	var req CreateOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	uid, _ := c.Get("user_id").(int64)

	o, err := h.Svc.Create(c.Request().Context(), uid, ordersvc.CreateOrderInput{
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		DeliveryAddress: model.DeliveryAddress{
			FullName:    req.DeliveryAddress.FullName,
			PhoneNumber: req.DeliveryAddress.PhoneNumber,
			Address:     req.DeliveryAddress.Address,
			City:        req.DeliveryAddress.City,
			State:       req.DeliveryAddress.State,
		},
	})
	if err != nil {
		h.Log.Error("order create", "err", err)
		return c.JSON(httperr.Status(err), echo.Map{"message": httperr.Message(err)})
	}
	return c.JSON(http.StatusCreated, o)
}

// GET /v1/orders
func (h *Controller) My(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.ListByBuyer(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("order list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/orders/get-all (admin)
func (h *Controller) All(c echo.Context) error {
	rows, err := h.Svc.ListAll(c.Request().Context())
	if err != nil {
		h.Log.Error("order list all", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/orders/:id
func (h *Controller) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	o, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("order get", "err", err)
		return c.JSON(httperr.Status(err), echo.Map{"message": httperr.Message(err)})
	}
	return c.JSON(http.StatusOK, o)
}

// POST /v1/orders/:id/acknowledge (admin), settles seller accounts.
func (h *Controller) AcknowledgePayment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req AcknowledgePaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	o, err := h.Settlement.AcknowledgePayment(c.Request().Context(), id, *req.IsPaymentReceived)
	if err != nil {
		h.Log.Error("acknowledge payment", "order_id", id, "err", err)
		return c.JSON(httperr.Status(err), echo.Map{"message": httperr.Message(err)})
	}
	return c.JSON(http.StatusOK, o)
}

// POST /v1/orders/:id/release (seller)
func (h *Controller) Release(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	if err := h.Svc.Release(c.Request().Context(), uid, id); err != nil {
		h.Log.Error("order release", "order_id", id, "err", err)
		return c.JSON(httperr.Status(err), echo.Map{"message": httperr.Message(err)})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "released"})
}

// POST /v1/orders/:id/complete
func (h *Controller) Complete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Complete(c.Request().Context(), id); err != nil {
		h.Log.Error("order complete", "order_id", id, "err", err)
		return c.JSON(httperr.Status(err), echo.Map{"message": httperr.Message(err)})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "completed"})
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.ErrBadRequest
	}
	return id, nil
}
