// Package webapi exposes the ledger over HTTP. It is organized into
// sub-packages per resource:
//   - auth: login
//   - user: user registration and self-service
//   - account: accounts and their transactions
package webapi

import (
	"strings"
	"time"

	"github.com/amirasaad/eaglebank/pkg/app"
	"github.com/amirasaad/eaglebank/pkg/config"
	accountweb "github.com/amirasaad/eaglebank/webapi/account"
	authweb "github.com/amirasaad/eaglebank/webapi/auth"
	"github.com/amirasaad/eaglebank/webapi/common"
	userweb "github.com/amirasaad/eaglebank/webapi/user"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(a *app.App) *fiber.App {
	cfg := a.Config
	if cfg == nil {
		cfg = &config.App{}
	}
	jwtCfg := config.Jwt{}
	if cfg.Auth != nil && cfg.Auth.Jwt != nil {
		jwtCfg = *cfg.Auth.Jwt
	}

	fiberApp := fiber.New(fiber.Config{
		AppName: "Eagle Bank",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})

	fiberApp.Use(recover.New())
	fiberApp.Use(limiter.New(limiterConfig(cfg.RateLimit)))
	if cfg.Log == nil || cfg.Log.HTTPAccess {
		fiberApp.Use(logger.New())
	}

	// Health check endpoint
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Eagle Bank API is running")
	})

	v1 := fiberApp.Group("/v1")
	authweb.Routes(v1, a.AuthService)
	userweb.Routes(v1, a.UserService, a.AuthService, jwtCfg)
	accountweb.Routes(v1, a.AccountService, a.TransactionService, a.AuthService, jwtCfg)

	fiberApp.Use(func(c *fiber.Ctx) error {
		return common.ProblemDetailsJSON(c, "Not Found", nil, "no route for "+c.Method()+" "+c.Path(), fiber.StatusNotFound)
	})
	return fiberApp
}

func limiterConfig(rl *config.RateLimit) limiter.Config {
	maxRequests, window := 100, time.Minute
	if rl != nil {
		if rl.MaxRequests > 0 {
			maxRequests = rl.MaxRequests
		}
		if rl.Window > 0 {
			window = rl.Window
		}
	}
	return limiter.Config{
		Max:        maxRequests,
		Expiration: window,
		// Use X-Forwarded-For header if available (for load balancers/proxies)
		// Fall back to X-Real-IP, then to direct IP
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				// Take the first IP in the chain
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				nil,
				"rate limit exceeded",
				fiber.StatusTooManyRequests,
			)
		},
	}
}
