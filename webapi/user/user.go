package user

import (
	"github.com/amirasaad/eaglebank/pkg/config"
	"github.com/amirasaad/eaglebank/pkg/domain/user"
	"github.com/amirasaad/eaglebank/pkg/middleware"
	authsvc "github.com/amirasaad/eaglebank/pkg/service/auth"
	usersvc "github.com/amirasaad/eaglebank/pkg/service/user"
	"github.com/amirasaad/eaglebank/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the user endpoints. Registration is public, everything
// else requires a bearer token.
func Routes(r fiber.Router, userSvc *usersvc.Service, authSvc *authsvc.Service, cfg config.Jwt) {
	protected := middleware.JwtProtected(cfg)
	r.Post("/users", CreateUser(userSvc))
	r.Get("/users/:userId", protected, GetUser(userSvc, authSvc))
	r.Patch("/users/:userId", protected, UpdateUser(userSvc, authSvc))
	r.Delete("/users/:userId", protected, DeleteUser(userSvc, authSvc))
}

// CreateUser registers a new user.
// @Summary Create a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body NewUser true "User creation data"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Router /v1/users [post]
func CreateUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[NewUser](c)
		if input == nil {
			return err // error response already written
		}
		u, err := userSvc.CreateUser(c.UserContext(), input.toDTO())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't create user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Created user", ToResponse(u))
	}
}

// GetUser returns the caller's own user record.
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /v1/users/{userId} [get]
// @Security Bearer
func GetUser(userSvc *usersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, callerID, ok, err := ids(c, authSvc)
		if !ok {
			return err
		}
		u, err := userSvc.FetchUser(c.UserContext(), id, callerID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't fetch user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User found", ToResponse(u))
	}
}

// UpdateUser applies a partial update to the caller's user record.
// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param request body UpdateUserInput true "User update data"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Router /v1/users/{userId} [patch]
// @Security Bearer
func UpdateUser(userSvc *usersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, callerID, ok, err := ids(c, authSvc)
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[UpdateUserInput](c)
		if input == nil {
			return err // error response already written
		}
		u, err := userSvc.UpdateUser(c.UserContext(), id, callerID, input.toDTO())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't update user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User updated successfully", ToResponse(u))
	}
}

// DeleteUser deletes the caller's user record. Users that still own accounts
// cannot be deleted.
// @Summary Delete user
// @Tags users
// @Param userId path string true "User ID"
// @Success 204
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Router /v1/users/{userId} [delete]
// @Security Bearer
func DeleteUser(userSvc *usersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, callerID, ok, err := ids(c, authSvc)
		if !ok {
			return err
		}
		if err = userSvc.DeleteUser(c.UserContext(), id, callerID); err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't delete user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusNoContent, "User deleted", nil)
	}
}

func ids(c *fiber.Ctx, authSvc *authsvc.Service) (id, callerID user.ID, ok bool, err error) {
	raw, ok, err := common.ParseUUIDParam(c, "userId")
	if !ok {
		return id, callerID, false, err
	}
	callerID, ok, err = common.CurrentUserID(c, authSvc)
	if !ok {
		return id, callerID, false, err
	}
	return user.ID(raw), callerID, true, nil
}
