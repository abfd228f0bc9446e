// Package admin exposes the operator endpoints: account lifecycle, balance
// adjustments in either currency, and the platform rate pair.
package admin

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yashpatil27/trading-app-sub000/pkg/currency"
	"github.com/yashpatil27/trading-app-sub000/pkg/domain"
	balancesvc "github.com/yashpatil27/trading-app-sub000/pkg/service/balance"
	ratessvc "github.com/yashpatil27/trading-app-sub000/pkg/service/rates"
	tradingsvc "github.com/yashpatil27/trading-app-sub000/pkg/service/trading"
	usersvc "github.com/yashpatil27/trading-app-sub000/pkg/service/user"
	"github.com/yashpatil27/trading-app-sub000/webapi/common"
)

// Routes registers the admin endpoints.
func Routes(
	app *fiber.App,
	userSvc *usersvc.Service,
	balanceSvc *balancesvc.Service,
	tradingSvc *tradingsvc.Service,
	ratesSvc *ratessvc.Service,
) {
	app.Post("/admin/users", CreateUser(userSvc))
	app.Get("/admin/users", ListUsers(userSvc, balanceSvc))
	app.Delete("/admin/users/:id", DeleteUser(userSvc))
	app.Put("/admin/users/:id/pin", ResetPin(userSvc))
	app.Post("/admin/users/:id/adjustments", Adjust(tradingSvc))
	app.Get("/admin/rates", GetRates(ratesSvc))
	app.Put("/admin/rates", PutRates(ratesSvc))
}

// UserResponse is one row of the admin user listing.
type UserResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	IsAdmin     bool            `json:"is_admin"`
	FiatBalance decimal.Decimal `json:"fiat_balance"`
	BtcBalance  decimal.Decimal `json:"btc_balance"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateUser creates an account together with its zero-balance ledger
// marker.
func CreateUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[NewUser](c)
		if input == nil {
			return err
		}
		u, err := userSvc.Create(c.Context(), input.Name, input.Email, input.Pin, input.IsAdmin)
		if err != nil {
			return common.DomainErrorJSON(c, "Couldn't create user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Created user", UserResponse{
			ID:        u.ID.String(),
			Name:      u.Name,
			Email:     u.Email,
			IsAdmin:   u.IsAdmin,
			CreatedAt: u.CreatedAt,
		})
	}
}

// ListUsers returns every account with its current balances, resolved with
// one bulk cache lookup and at most one ledger query for the misses.
func ListUsers(userSvc *usersvc.Service, balanceSvc *balancesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := userSvc.List(c.Context())
		if err != nil {
			return common.DomainErrorJSON(c, "Couldn't list users", err)
		}

		ids := make([]uuid.UUID, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		balances, err := balanceSvc.GetBulk(c.Context(), ids)
		if err != nil {
			return common.DomainErrorJSON(c, "Couldn't read balances", err)
		}

		out := make([]UserResponse, len(users))
		for i, u := range users {
			b := balances[u.ID]
			out[i] = UserResponse{
				ID:          u.ID.String(),
				Name:        u.Name,
				Email:       u.Email,
				IsAdmin:     u.IsAdmin,
				FiatBalance: currency.DecimalFiat(b.Fiat),
				BtcBalance:  currency.DecimalBTC(b.Btc),
				CreatedAt:   u.CreatedAt,
			}
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Users", out)
	}
}

// DeleteUser removes a zero-balance account and its ledger.
func DeleteUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseUserID(c)
		if !ok {
			return err
		}
		if err := userSvc.Delete(c.Context(), id); err != nil {
			return common.DomainErrorJSON(c, "Couldn't delete user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Deleted user", nil)
	}
}

// ResetPin replaces a user's PIN and appends the audit marker.
func ResetPin(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseUserID(c)
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[PinReset](c)
		if input == nil {
			return err
		}
		if err := userSvc.ResetPin(c.Context(), id, input.Pin); err != nil {
			return common.DomainErrorJSON(c, "Couldn't reset pin", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Pin reset", nil)
	}
}

// Adjust credits or debits a balance in either currency.
func Adjust(tradingSvc *tradingsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseUserID(c)
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[Adjustment](c)
		if input == nil {
			return err
		}
		amount, err := decimal.NewFromString(input.Amount)
		if err != nil || amount.Sign() <= 0 {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, "Invalid amount", "amount must be a positive number",
			)
		}

		var res *tradingsvc.Result
		switch {
		case input.Currency == "INR" && input.Direction == "credit":
			res, err = tradingSvc.DepositFiat(c.Context(), id, amount.Round(0).IntPart(), input.Reason)
		case input.Currency == "INR" && input.Direction == "debit":
			res, err = tradingSvc.WithdrawFiat(c.Context(), id, amount.Round(0).IntPart(), input.Reason)
		case input.Currency == "BTC" && input.Direction == "credit":
			res, err = tradingSvc.DepositBTC(c.Context(), id, currency.BtcDecimalToSat(amount), input.Reason)
		default: // BTC debit, per validation
			res, err = tradingSvc.WithdrawBTC(c.Context(), id, currency.BtcDecimalToSat(amount), input.Reason)
		}
		if err != nil {
			return common.DomainErrorJSON(c, "Couldn't apply adjustment", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Adjusted", res)
	}
}

// RatesResponse is the decimal view of the platform rate pair.
type RatesResponse struct {
	BuyRate   decimal.Decimal `json:"buy_rate"`
	SellRate  decimal.Decimal `json:"sell_rate"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func newRatesResponse(r *domain.Rates) RatesResponse {
	return RatesResponse{
		BuyRate:   currency.DecimalRate(r.BuyRate),
		SellRate:  currency.DecimalRate(r.SellRate),
		UpdatedAt: r.UpdatedAt,
	}
}

// GetRates returns the current platform rates.
func GetRates(ratesSvc *ratessvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := ratesSvc.Current(c.Context())
		if err != nil {
			return common.DomainErrorJSON(c, "Couldn't read rates", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Rates", newRatesResponse(r))
	}
}

// PutRates replaces the platform rates.
func PutRates(ratesSvc *ratessvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RatesUpdate](c)
		if input == nil {
			return err
		}
		buy, err1 := decimal.NewFromString(input.BuyRate)
		sell, err2 := decimal.NewFromString(input.SellRate)
		if err1 != nil || err2 != nil {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, "Invalid rates", "rates must be decimal numbers",
			)
		}
		r, err := ratesSvc.Update(
			c.Context(),
			buy.Shift(2).Round(0).IntPart(),
			sell.Shift(2).Round(0).IntPart(),
		)
		if err != nil {
			return common.DomainErrorJSON(c, "Couldn't update rates", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Rates updated", newRatesResponse(r))
	}
}
