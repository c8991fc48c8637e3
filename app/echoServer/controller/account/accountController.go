package account

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/ojimcy/mcgp-api/app/echoServer/httperr"
	"github.com/ojimcy/mcgp-api/model"
	accountsvc "github.com/ojimcy/mcgp-api/service/account"
)

type Controller struct {
	Svc accountsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/account
func (h *Controller) Get(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	acct, profiles, err := h.Svc.Get(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("account get", "err", err)
		return c.JSON(httperr.Status(err), echo.Map{"message": httperr.Message(err)})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"account":            acct,
		"withdrawal_details": profiles,
	})
}

// GET /v1/account/transactions
func (h *Controller) Ledger(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.Ledger(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("account ledger", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// @Summary Request a withdrawal (funds reserved immediately)
// @Success 201 {object} model.Transaction
// @Failure 400,401,500
// @Router  /v1/account/withdrawals [post]
func (h *Controller) RequestWithdrawal(c echo.Context) error {
	var req WithdrawalReq
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

	t, err := h.Svc.RequestWithdrawal(c.Request().Context(), uid, accountsvc.WithdrawalInput{
		Method:  model.PayoutMethod(req.PaymentMethod),
		Details: payoutDetails(req.PaymentDetails),
		Amount:  req.Amount,
	})
	if err != nil {
		h.Log.Error("withdrawal request", "err", err)
		return c.JSON(httperr.Status(err), echo.Map{"message": httperr.Message(err)})
	}
	return c.JSON(http.StatusCreated, t)
}

// POST /v1/account/withdrawals/:id/complete (admin)
func (h *Controller) CompleteWithdrawal(c echo.Context) error {
	txID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || txID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req CompleteWithdrawalReq
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

	t, err := h.Svc.CompleteWithdrawal(c.Request().Context(), uid, txID, *req.IsCompleted)
	if err != nil {
		h.Log.Error("withdrawal complete", "transaction_id", txID, "err", err)
		return c.JSON(httperr.Status(err), echo.Map{"message": httperr.Message(err)})
	}
	return c.JSON(http.StatusOK, t)
}

// PUT /v1/account/withdrawal-details
func (h *Controller) UpdateProfiles(c echo.Context) error {
	var req UpdateProfilesReq
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

	profiles := make([]model.WithdrawalProfile, 0, len(req.WithdrawalDetails))
	for _, p := range req.WithdrawalDetails {
		profiles = append(profiles, model.WithdrawalProfile{
			Method:  model.PayoutMethod(p.Method),
			Details: payoutDetails(p.Details),
		})
	}
	if err := h.Svc.UpdateWithdrawalDetails(c.Request().Context(), uid, profiles); err != nil {
		h.Log.Error("withdrawal details update", "err", err)
		return c.JSON(httperr.Status(err), echo.Map{"message": httperr.Message(err)})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

func payoutDetails(p PayoutDetailsReq) model.PayoutDetails {
	return model.PayoutDetails{
		AccountName:   p.AccountName,
		AccountNumber: p.AccountNumber,
		BankName:      p.BankName,
		WalletAddress: p.WalletAddress,
		Symbol:        p.Symbol,
		Network:       p.Network,
	}
}
