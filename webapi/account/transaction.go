package account

import (
	"strings"

	"github.com/amirasaad/eaglebank/pkg/currency"
	"github.com/amirasaad/eaglebank/pkg/domain/account"
	"github.com/amirasaad/eaglebank/pkg/domain/money"
	accountsvc "github.com/amirasaad/eaglebank/pkg/service/account"
	authsvc "github.com/amirasaad/eaglebank/pkg/service/auth"
	txsvc "github.com/amirasaad/eaglebank/pkg/service/transaction"
	"github.com/amirasaad/eaglebank/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// CreateTransaction posts a deposit or withdrawal against one of the caller's
// accounts.
// @Summary Create a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param accountId path string true "Account ID"
// @Param request body TransactionInput true "Transaction details"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Router /v1/accounts/{accountId}/transactions [post]
// @Security Bearer
func CreateTransaction(
	accountSvc *accountsvc.Service,
	txSvc *txsvc.Service,
	authSvc *authsvc.Service,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID, callerID, ok, err := accountIDs(c, authSvc)
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[TransactionInput](c)
		if input == nil {
			return err // error response already written
		}
		amount, err := money.ParseAmount(input.Amount.String())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid amount", err)
		}

		if input.Currency != "" {
			code, err := currency.Parse(input.Currency)
			if err != nil {
				return common.ProblemDetailsJSON(c, "Invalid currency", err)
			}
			acc, err := accountSvc.FetchAccount(c.UserContext(), accountID, callerID)
			if err != nil {
				return common.ProblemDetailsJSON(c, "Couldn't create transaction", err)
			}
			if acc.Currency != code {
				return common.ProblemDetailsJSON(c, "Currency mismatch", account.ErrCurrencyMismatch)
			}
		}

		post := txSvc.Deposit
		if account.TransactionType(strings.ToUpper(input.Type)) == account.TransactionWithdrawal {
			post = txSvc.Withdraw
		}
		txn, err := post(c.UserContext(), accountID, callerID, amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't create transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transaction created", ToTransactionResponse(txn))
	}
}

// ListTransactions returns the history of one of the caller's accounts, oldest first.
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Param accountId path string true "Account ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /v1/accounts/{accountId}/transactions [get]
// @Security Bearer
func ListTransactions(txSvc *txsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID, callerID, ok, err := accountIDs(c, authSvc)
		if !ok {
			return err
		}
		txns, err := txSvc.ListTransactions(c.UserContext(), accountID, callerID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", toTransactionResponses(txns))
	}
}

// GetTransaction returns one transaction of one of the caller's accounts.
// @Summary Fetch transaction by ID
// @Tags transactions
// @Produce json
// @Param accountId path string true "Account ID"
// @Param transactionId path string true "Transaction ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /v1/accounts/{accountId}/transactions/{transactionId} [get]
// @Security Bearer
func GetTransaction(txSvc *txsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID, callerID, ok, err := accountIDs(c, authSvc)
		if !ok {
			return err
		}
		rawTxnID, ok, err := common.ParseUUIDParam(c, "transactionId")
		if !ok {
			return err
		}
		txn, err := txSvc.FetchTransaction(c.UserContext(), accountID, account.TransactionID(rawTxnID), callerID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't fetch transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction fetched", ToTransactionResponse(txn))
	}
}
