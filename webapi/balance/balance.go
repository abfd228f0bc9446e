// Package balance exposes the read-only ledger views: current balances and
// transaction history. Satoshi counts never cross this boundary; every
// amount is converted to decimal first.
package balance

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yashpatil27/trading-app-sub000/pkg/repository"
	balancesvc "github.com/yashpatil27/trading-app-sub000/pkg/service/balance"
	"github.com/yashpatil27/trading-app-sub000/webapi/common"
)

// Routes registers the balance and history endpoints.
func Routes(app *fiber.App, balanceSvc *balancesvc.Service, uow repository.UnitOfWork) {
	app.Get("/users/:id/balance", GetBalance(balanceSvc))
	app.Get("/users/:id/transactions", GetTransactions(uow))
}

// GetBalance returns a Fiber handler for reading a user's current balances.
func GetBalance(balanceSvc *balancesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseUserID(c)
		if !ok {
			return err
		}
		b, hit, err := balanceSvc.Get(c.Context(), id)
		if err != nil {
			return common.DomainErrorJSON(c, "Couldn't read balance", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Balance", NewBalanceResponse(b, hit))
	}
}

// GetTransactions returns a Fiber handler for the user's full transaction
// history, newest first.
func GetTransactions(uow repository.UnitOfWork) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseUserID(c)
		if !ok {
			return err
		}
		txRepo, err := repository.Get[repository.TransactionRepository](uow)
		if err != nil {
			return common.DomainErrorJSON(c, "Couldn't read transactions", err)
		}
		txs, err := txRepo.ListByUser(c.Context(), id)
		if err != nil {
			return common.DomainErrorJSON(c, "Couldn't read transactions", err)
		}

		out := make([]TransactionResponse, 0, len(txs))
		for i := len(txs) - 1; i >= 0; i-- {
			out = append(out, NewTransactionResponse(txs[i]))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions", out)
	}
}
