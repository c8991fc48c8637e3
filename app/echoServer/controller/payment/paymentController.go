package payment

import (
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ojimcy/mcgp-api/app/echoServer/httperr"
	"github.com/ojimcy/mcgp-api/model"
	paymentsvc "github.com/ojimcy/mcgp-api/service/payment"
)

type Controller struct {
	Svc paymentsvc.Service
	Log *slog.Logger
}

// @Summary      Payment instructions
// @Description  Collection account buyers transfer into for a payment method
// @Tags         payments
// @Produce      json
// @Param        method  query  string  true  "bank_transfer or crypto"
// @Success      200  {object}  paymentsvc.CollectionAccount
// @Failure      400  {object}  map[string]any
// @Router       /v1/payments/instructions [get]
func (h *Controller) Instructions(c echo.Context) error {
	dest, err := h.Svc.Instructions(model.PaymentMethod(c.QueryParam("method")))
	if err != nil {
		return c.JSON(httperr.Status(err), echo.Map{"message": httperr.Message(err)})
	}
	return c.JSON(http.StatusOK, dest)
}

// @Summary Submit payment proof (multipart "proof" image + "method")
// @Success 200 {object} map[string]any
// @Failure 400,401,404,409,500
// @Router  /v1/orders/{id}/pay [post]
func (h *Controller) Submit(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || orderID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	fh, err := c.FormFile("proof")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "payment proof is required"})
	}
	tmpPath, err := saveTemp(fh)
	if err != nil {
		h.Log.Error("proof save", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	defer os.Remove(tmpPath)

	method := model.PaymentMethod(c.FormValue("method"))
	dest, err := h.Svc.Submit(c.Request().Context(), orderID, tmpPath, method)
	if err != nil {
		h.Log.Error("payment submit", "order_id", orderID, "err", err)
		return c.JSON(httperr.Status(err), echo.Map{"message": httperr.Message(err)})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":            "payment recorded, awaiting confirmation",
		"collection_account": dest,
	})
}

func saveTemp(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "proof-*"+filepath.Ext(fh.Filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}
