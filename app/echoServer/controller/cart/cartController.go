package cart

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/ojimcy/mcgp-api/app/echoServer/httperr"
	"github.com/ojimcy/mcgp-api/model"
	cartsvc "github.com/ojimcy/mcgp-api/service/cart"
)

type Controller struct {
	Svc cartsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// @Summary Add an advert to the cart
// @Success 201 {object} model.CartItem
// @Failure 400,401,404,500
// @Router  /v1/cart/items [post]
func (h *Controller) Add(c echo.Context) error {
	var req AddItemReq
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

	item, err := h.Svc.AddItem(c.Request().Context(), uid, req.AdvertID, req.Quantity)
	if err != nil {
		h.Log.Error("cart add", "err", err)
		return c.JSON(httperr.Status(err), echo.Map{"message": httperr.Message(err)})
	}
	return c.JSON(http.StatusCreated, item)
}

// GET /v1/cart
func (h *Controller) List(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.Items(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("cart list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// DELETE /v1/cart/items/:advertId
func (h *Controller) Remove(c echo.Context) error {
	advertID, err := strconv.ParseInt(c.Param("advertId"), 10, 64)
	if err != nil || advertID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	if err := h.Svc.RemoveItem(c.Request().Context(), uid, advertID); err != nil {
		h.Log.Error("cart remove", "err", err)
		return c.JSON(httperr.Status(err), echo.Map{"message": httperr.Message(err)})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "removed"})
}

// DELETE /v1/cart
func (h *Controller) Clear(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	if err := h.Svc.Clear(c.Request().Context(), uid); err != nil {
		h.Log.Error("cart clear", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "cleared"})
}

// POST /v1/cart/items/:advertId/increase
func (h *Controller) Increase(c echo.Context) error {
	return h.adjust(c, h.Svc.Increase)
}

// POST /v1/cart/items/:advertId/decrease
func (h *Controller) Decrease(c echo.Context) error {
	return h.adjust(c, h.Svc.Decrease)
}

func (h *Controller) adjust(c echo.Context, fn func(ctx context.Context, userID, advertID, qty int64) (*model.CartItem, error)) error {
	advertID, err := strconv.ParseInt(c.Param("advertId"), 10, 64)
	if err != nil || advertID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req QuantityReq
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

	item, err := fn(c.Request().Context(), uid, advertID, req.Quantity)
	if err != nil {
		h.Log.Error("cart adjust", "err", err)
		return c.JSON(httperr.Status(err), echo.Map{"message": httperr.Message(err)})
	}
	if item == nil {
		return c.JSON(http.StatusOK, echo.Map{"message": "removed"})
	}
	return c.JSON(http.StatusOK, item)
}
