package webapi_test

import (
	"io"
	"log"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/amirasaad/eaglebank/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// TestMain runs before any tests and applies globally for all tests in the package.
func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	log.SetOutput(io.Discard)

	exitVal := m.Run()
	os.Exit(exitVal)
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()
	app, _ := testutils.NewMemoryApp(nil)

	resp := testutils.MakeRequestWithApp(app, fiber.MethodGet, "/", "", "")
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestUnknownRoute_ProblemDetails(t *testing.T) {
	t.Parallel()
	app, _ := testutils.NewMemoryApp(nil)

	resp := testutils.MakeRequestWithApp(app, fiber.MethodGet, "/v2/nothing", "", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	p := testutils.DecodeProblem(t, resp)
	assert.Equal(t, "Not Found", p.Title)
}

type RateLimitTestSuite struct {
	suite.Suite
	app *fiber.App
}

func (s *RateLimitTestSuite) SetupTest() {
	cfg := testutils.TestConfig()
	cfg.RateLimit.MaxRequests = 5
	cfg.RateLimit.Window = time.Second
	s.app, _ = testutils.NewMemoryApp(cfg)
}

func (s *RateLimitTestSuite) TestRateLimit() {
	// Send requests until rate limit is hit
	for i := range [6]int{} {
		resp := testutils.MakeRequestWithApp(s.app, fiber.MethodGet, "/", "", "")
		_ = resp.Body.Close()

		if i < 5 {
			s.Equal(fiber.StatusOK, resp.StatusCode, "Expected OK for request %d", i+1)
		} else {
			s.Equal(fiber.StatusTooManyRequests, resp.StatusCode, "Expected Too Many Requests for request %d", i+1)
		}
	}

	// Wait for the rate limit window to reset
	time.Sleep(1100 * time.Millisecond)

	resp := testutils.MakeRequestWithApp(s.app, fiber.MethodGet, "/", "", "")
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode, "Expected OK after rate limit reset")
}

func TestRateLimitTestSuite(t *testing.T) {
	suite.Run(t, new(RateLimitTestSuite))
}

func TestRateLimit_PerForwardedClient(t *testing.T) {
	t.Parallel()
	cfg := testutils.TestConfig()
	cfg.RateLimit.MaxRequests = 1
	app, _ := testutils.NewMemoryApp(cfg)

	send := func(ip string) int {
		req := httptestRequest(ip)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		_ = resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, send("10.0.0.1"))
	assert.Equal(t, fiber.StatusTooManyRequests, send("10.0.0.1, 172.16.0.1"))
	assert.Equal(t, fiber.StatusOK, send("10.0.0.2"))
}
