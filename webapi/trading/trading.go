// Package trading exposes the mutation endpoints: trades, fiat deposits and
// withdrawals, and the performance metrics view.
package trading

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/yashpatil27/trading-app-sub000/pkg/currency"
	"github.com/yashpatil27/trading-app-sub000/pkg/service/performance"
	tradingsvc "github.com/yashpatil27/trading-app-sub000/pkg/service/trading"
	"github.com/yashpatil27/trading-app-sub000/webapi/common"
)

// Routes registers the trading endpoints.
func Routes(app *fiber.App, tradingSvc *tradingsvc.Service, perfSvc *performance.Service) {
	app.Post("/users/:id/trades", Trade(tradingSvc))
	app.Post("/users/:id/deposits", Deposit(tradingSvc))
	app.Post("/users/:id/withdrawals", Withdraw(tradingSvc))
	app.Get("/users/:id/performance", Performance(perfSvc))
}

// Trade returns a Fiber handler executing a BUY or SELL.
func Trade(tradingSvc *tradingsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseUserID(c)
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[TradeRequest](c)
		if input == nil {
			return err
		}

		switch input.Side {
		case "buy":
			fiat, ok := parseFiat(input.FiatAmount)
			if !ok {
				return common.ErrorResponseJSON(
					c, fiber.StatusBadRequest, "Invalid amount", "fiat_amount must be a positive number",
				)
			}
			res, err := tradingSvc.Buy(c.Context(), id, fiat)
			if err != nil {
				return common.DomainErrorJSON(c, "Couldn't execute buy", err)
			}
			return common.SuccessResponseJSON(c, fiber.StatusCreated, "Bought", res)

		default: // sell, per validation
			sat, ok := parseBtc(input.BtcAmount)
			if !ok {
				return common.ErrorResponseJSON(
					c, fiber.StatusBadRequest, "Invalid amount", "btc_amount must be a positive number",
				)
			}
			res, err := tradingSvc.Sell(c.Context(), id, sat)
			if err != nil {
				return common.DomainErrorJSON(c, "Couldn't execute sell", err)
			}
			return common.SuccessResponseJSON(c, fiber.StatusCreated, "Sold", res)
		}
	}
}

// Deposit returns a Fiber handler crediting fiat.
func Deposit(tradingSvc *tradingsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseUserID(c)
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[TransferRequest](c)
		if input == nil {
			return err
		}
		amount, ok := parseFiat(input.Amount)
		if !ok {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, "Invalid amount", "amount must be a positive number",
			)
		}
		res, err := tradingSvc.DepositFiat(c.Context(), id, amount, input.Reason)
		if err != nil {
			return common.DomainErrorJSON(c, "Couldn't deposit", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Deposited", res)
	}
}

// Withdraw returns a Fiber handler debiting fiat.
func Withdraw(tradingSvc *tradingsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseUserID(c)
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[TransferRequest](c)
		if input == nil {
			return err
		}
		amount, ok := parseFiat(input.Amount)
		if !ok {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, "Invalid amount", "amount must be a positive number",
			)
		}
		res, err := tradingSvc.WithdrawFiat(c.Context(), id, amount, input.Reason)
		if err != nil {
			return common.DomainErrorJSON(c, "Couldn't withdraw", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Withdrawn", res)
	}
}

// Performance returns a Fiber handler for the FIFO metrics view.
func Performance(perfSvc *performance.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseUserID(c)
		if !ok {
			return err
		}
		m, err := perfSvc.Metrics(c.Context(), id)
		if err != nil {
			return common.DomainErrorJSON(c, "Couldn't compute performance", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Performance", NewPerformanceResponse(m))
	}
}

// parseFiat parses a decimal rupee amount, rounding to the nearest whole
// unit. Returns false for malformed or non-positive input.
func parseFiat(s string) (int64, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil || d.Sign() <= 0 {
		return 0, false
	}
	return d.Round(0).IntPart(), true
}

// parseBtc parses a decimal BTC amount to satoshis.
func parseBtc(s string) (int64, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil || d.Sign() <= 0 {
		return 0, false
	}
	return currency.BtcDecimalToSat(d), true
}
