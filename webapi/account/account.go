package account

import (
	"github.com/amirasaad/eaglebank/pkg/config"
	"github.com/amirasaad/eaglebank/pkg/domain/account"
	"github.com/amirasaad/eaglebank/pkg/domain/user"
	"github.com/amirasaad/eaglebank/pkg/middleware"
	accountsvc "github.com/amirasaad/eaglebank/pkg/service/account"
	authsvc "github.com/amirasaad/eaglebank/pkg/service/auth"
	txsvc "github.com/amirasaad/eaglebank/pkg/service/transaction"
	"github.com/amirasaad/eaglebank/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the account and transaction endpoints, all of which require
// a bearer token.
func Routes(
	r fiber.Router,
	accountSvc *accountsvc.Service,
	txSvc *txsvc.Service,
	authSvc *authsvc.Service,
	cfg config.Jwt,
) {
	accounts := r.Group("/accounts", middleware.JwtProtected(cfg))
	accounts.Post("/", CreateAccount(accountSvc, authSvc))
	accounts.Get("/", ListAccounts(accountSvc, authSvc))
	accounts.Get("/:accountId", GetAccount(accountSvc, authSvc))
	accounts.Patch("/:accountId", UpdateAccount(accountSvc, authSvc))
	accounts.Delete("/:accountId", DeleteAccount(accountSvc, authSvc))

	accounts.Post("/:accountId/transactions", CreateTransaction(accountSvc, txSvc, authSvc))
	accounts.Get("/:accountId/transactions", ListTransactions(txSvc, authSvc))
	accounts.Get("/:accountId/transactions/:transactionId", GetTransaction(txSvc, authSvc))
}

// CreateAccount opens an account for the caller.
// @Summary Create a new account
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CreateAccountInput true "Account details"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Router /v1/accounts [post]
// @Security Bearer
func CreateAccount(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		callerID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[CreateAccountInput](c)
		if input == nil {
			return err // error response already written
		}
		typ, err := account.ParseType(input.AccountType)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account type", err)
		}
		name, err := account.NewName(input.Name)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account name", err)
		}
		a, err := accountSvc.CreateAccount(c.UserContext(), callerID, name, typ)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't create account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", ToAccountResponse(a))
	}
}

// ListAccounts returns the caller's accounts.
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Router /v1/accounts [get]
// @Security Bearer
func ListAccounts(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		callerID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		accounts, err := accountSvc.ListAccounts(c.UserContext(), callerID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't list accounts", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts fetched", toAccountResponses(accounts))
	}
}

// GetAccount returns one of the caller's accounts.
// @Summary Fetch account by ID
// @Tags accounts
// @Produce json
// @Param accountId path string true "Account ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /v1/accounts/{accountId} [get]
// @Security Bearer
func GetAccount(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID, callerID, ok, err := accountIDs(c, authSvc)
		if !ok {
			return err
		}
		a, err := accountSvc.FetchAccount(c.UserContext(), accountID, callerID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't fetch account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account fetched", ToAccountResponse(a))
	}
}

// UpdateAccount renames one of the caller's accounts.
// @Summary Update account
// @Tags accounts
// @Accept json
// @Produce json
// @Param accountId path string true "Account ID"
// @Param request body UpdateAccountInput true "New account name"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Router /v1/accounts/{accountId} [patch]
// @Security Bearer
func UpdateAccount(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID, callerID, ok, err := accountIDs(c, authSvc)
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[UpdateAccountInput](c)
		if input == nil {
			return err // error response already written
		}
		// the name is trimmed and checked by the domain after the ownership check
		a, err := accountSvc.UpdateAccount(c.UserContext(), accountID, callerID, account.Name(input.Name))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't update account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account updated", ToAccountResponse(a))
	}
}

// DeleteAccount closes one of the caller's accounts. Its transactions are kept.
// @Summary Delete account
// @Tags accounts
// @Param accountId path string true "Account ID"
// @Success 204
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /v1/accounts/{accountId} [delete]
// @Security Bearer
func DeleteAccount(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID, callerID, ok, err := accountIDs(c, authSvc)
		if !ok {
			return err
		}
		if err = accountSvc.DeleteAccount(c.UserContext(), accountID, callerID); err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't delete account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusNoContent, "Account deleted", nil)
	}
}

func accountIDs(c *fiber.Ctx, authSvc *authsvc.Service) (accountID account.ID, callerID user.ID, ok bool, err error) {
	raw, ok, err := common.ParseUUIDParam(c, "accountId")
	if !ok {
		return accountID, callerID, false, err
	}
	callerID, ok, err = common.CurrentUserID(c, authSvc)
	if !ok {
		return accountID, callerID, false, err
	}
	return account.ID(raw), callerID, true, nil
}
