package auth

import (
	authsvc "github.com/amirasaad/eaglebank/pkg/service/auth"
	"github.com/amirasaad/eaglebank/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the authentication endpoints.
func Routes(r fiber.Router, authSvc *authsvc.Service) {
	r.Post("/auth/login", Login(authSvc))
}

// Login handles user authentication and returns a JWT token.
// @Summary User login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginInput true "Login credentials"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Router /v1/auth/login [post]
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginInput](c)
		if input == nil {
			return err // Error already written by BindAndValidate
		}
		token, err := authSvc.Login(c.UserContext(), input.Email, input.Password)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid email or password", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Login successful", TokenResponse{Token: token})
	}
}
