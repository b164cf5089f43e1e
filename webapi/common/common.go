// Package common holds the response envelopes and request helpers shared by
// the HTTP handlers.
package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amirasaad/eaglebank/pkg/domain"
	"github.com/amirasaad/eaglebank/pkg/domain/user"
	"github.com/amirasaad/eaglebank/pkg/middleware"
	authsvc "github.com/amirasaad/eaglebank/pkg/service/auth"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`     // A URI reference that identifies the problem type
	Title    string `json:"title"`              // Short, human-readable summary
	Status   int    `json:"status"`             // HTTP status code
	Detail   string `json:"detail,omitempty"`   // Human-readable explanation
	Instance string `json:"instance,omitempty"` // URI reference that identifies the specific occurrence
	Errors   any    `json:"errors,omitempty"`   // Optional: additional error details
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrorToStatusCode maps domain error kinds to HTTP status codes.
func ErrorToStatusCode(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	switch domain.KindOf(err) {
	case domain.ErrNotFound:
		return fiber.StatusNotFound
	case domain.ErrForbidden:
		return fiber.StatusForbidden
	case domain.ErrInvalidInput:
		return fiber.StatusUnprocessableEntity
	case domain.ErrConflict:
		return fiber.StatusConflict
	case domain.ErrUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// ProblemDetailsJSON writes an RFC 9457 response. The optional args are a
// detail string, a status code, or validation errors. Without an explicit
// status the code is derived from err.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, args ...any) error {
	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   fiber.StatusInternalServerError,
		Instance: c.OriginalURL(),
	}
	if err != nil {
		pd.Status = ErrorToStatusCode(err)
		if pd.Status == fiber.StatusInternalServerError {
			// internal errors are not echoed to clients
			pd.Detail = "an unexpected error occurred"
		} else {
			pd.Detail = err.Error()
		}
	}
	for _, arg := range args {
		switch v := arg.(type) {
		case string:
			pd.Detail = v
		case int:
			pd.Status = v
		case nil:
		default:
			pd.Errors = v
		}
	}
	return c.Status(pd.Status).JSON(pd, "application/problem+json")
}

// SuccessResponseJSON writes the standard success envelope. A 204 carries no body.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	if status == fiber.StatusNoContent {
		return c.SendStatus(status)
	}
	return c.Status(status).JSON(Response{Status: status, Message: message, Data: data})
}

// BindAndValidate parses the request body and validates it using go-playground/validator.
// Returns a pointer to the struct (populated), or writes an error response and returns nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ProblemDetailsJSON(c, "Invalid request body", nil, err.Error(), fiber.StatusBadRequest)
	}
	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, ProblemDetailsJSON(
				c, "Validation failed", nil, "request body failed validation", fiber.StatusBadRequest, fieldErrors(verrs),
			)
		}
		return nil, ProblemDetailsJSON(c, "Validation failed", nil, err.Error(), fiber.StatusBadRequest)
	}
	return &input, nil
}

func fieldErrors(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg := fe.Tag()
		if fe.Param() != "" {
			msg = fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
		}
		out[strings.ToLower(fe.Field()[:1])+fe.Field()[1:]] = msg
	}
	return out
}

// ParseUUIDParam reads a path parameter that must be a UUID. On failure the
// 400 response is already written and the returned error is the write result.
func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, bool, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false, ProblemDetailsJSON(
			c, "Invalid path parameter", nil, fmt.Sprintf("%s must be a valid UUID", name), fiber.StatusBadRequest,
		)
	}
	return id, true, nil
}

// CurrentUserID resolves the caller from the token placed by middleware.JwtProtected.
func CurrentUserID(c *fiber.Ctx, authSvc *authsvc.Service) (user.ID, bool, error) {
	id, err := authSvc.CurrentUserID(middleware.Token(c))
	if err != nil {
		return user.ID{}, false, ProblemDetailsJSON(c, "Unauthorized", err)
	}
	return id, true, nil
}
