package advert

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/ojimcy/mcgp-api/app/echoServer/httperr"
	advertsvc "github.com/ojimcy/mcgp-api/service/advert"
)

type Controller struct {
	Svc advertsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// @Summary Create advert (KYC-verified sellers)
// @Success 201 {object} model.Advert
// @Failure 400,401,403,500
// @Router  /v1/adverts [post]
func (h *Controller) Create(c echo.Context) error {
	var req CreateAdvertReq
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

	a, err := h.Svc.Create(c.Request().Context(), uid, advertsvc.CreateAdvertInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Location:      req.Location,
		FeaturedImage: req.FeaturedImage,
	})
	if err != nil {
		h.Log.Error("advert create", "err", err)
		return c.JSON(httperr.Status(err), echo.Map{"message": httperr.Message(err)})
	}
	return c.JSON(http.StatusCreated, a)
}

// @Summary      List approved adverts
// @Tags         adverts
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      500  {object}  map[string]any
// @Router       /v1/adverts [get]
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("advert list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// @Summary      Advert detail
// @Tags         adverts
// @Produce      json
// @Param        id  path  int  true  "Advert id"
// @Success      200  {object}  model.Advert
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /v1/adverts/{id} [get]
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	a, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("advert detail", "err", err)
		return c.JSON(httperr.Status(err), echo.Map{"message": httperr.Message(err)})
	}
	return c.JSON(http.StatusOK, a)
}

// POST /v1/adverts/:id/approve and /v1/adverts/:id/reject (admin)
func (h *Controller) Approve(c echo.Context) error { return h.moderate(c, true) }
func (h *Controller) Reject(c echo.Context) error  { return h.moderate(c, false) }

func (h *Controller) moderate(c echo.Context, approve bool) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	if err := h.Svc.Moderate(c.Request().Context(), uid, id, approve); err != nil {
		h.Log.Error("advert moderate", "err", err)
		return c.JSON(httperr.Status(err), echo.Map{"message": httperr.Message(err)})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
}
