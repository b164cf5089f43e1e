// Package testutils builds fully wired HTTP apps for handler and end-to-end
// tests.
package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	infra_eventbus "github.com/amirasaad/eaglebank/infra/eventbus"
	infrarepo "github.com/amirasaad/eaglebank/infra/repository"
	"github.com/amirasaad/eaglebank/infra/repository/memory"
	"github.com/amirasaad/eaglebank/internal/fixtures/pgtest"
	"github.com/amirasaad/eaglebank/pkg/app"
	"github.com/amirasaad/eaglebank/pkg/config"
	"github.com/amirasaad/eaglebank/pkg/lock"
	"github.com/amirasaad/eaglebank/pkg/repository"
	"github.com/amirasaad/eaglebank/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the password every generated test user registers with.
const TestPassword = "password123"

// TestConfig returns a configuration suitable for tests: fast bcrypt, no
// access log and a generous rate limit.
func TestConfig() *config.App {
	return &config.App{
		Env: "test",
		Auth: &config.Auth{
			Jwt:          &config.Jwt{Secret: "test-secret", Expiry: time.Hour},
			PasswordCost: bcrypt.MinCost,
		},
		RateLimit: &config.RateLimit{MaxRequests: 10000, Window: time.Minute},
		Log:       &config.Log{HTTPAccess: false},
		Ledger:    &config.Ledger{MaxRetries: 3, AccountNumberAttempts: 5},
	}
}

// NewApp wires the HTTP app over uow with an in-memory bus and lock.
func NewApp(uow repository.UnitOfWork, cfg *config.App) (*fiber.App, *infra_eventbus.MemoryEventBus) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := infra_eventbus.NewWithMemory(logger)
	a := app.New(config.Deps{
		Uow:      uow,
		Locker:   lock.NewMemory(),
		EventBus: bus,
		Logger:   logger,
		Config:   cfg,
	})
	return webapi.SetupApp(a), bus
}

// NewMemoryApp wires the HTTP app over a fresh in-memory store.
func NewMemoryApp(cfg *config.App) (*fiber.App, *infra_eventbus.MemoryEventBus) {
	if cfg == nil {
		cfg = TestConfig()
	}
	return NewApp(memory.NewUoW(memory.NewStore()), cfg)
}

// MakeRequestWithApp sends a request through app.Test. A non-empty token is
// sent as a bearer token.
func MakeRequestWithApp(app *fiber.App, method, path, body, token string) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		panic(err) // For standalone tests, panic on error
	}
	return resp
}

// Envelope mirrors common.Response with the data left raw.
type Envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Problem mirrors common.ProblemDetails.
type Problem struct {
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail"`
	Errors map[string]string `json:"errors"`
}

// DecodeData reads a success envelope from resp and unmarshals its data into
// out. An omitted data field leaves out untouched.
func DecodeData(tb testing.TB, resp *http.Response, out any) {
	tb.Helper()
	defer resp.Body.Close() //nolint:errcheck
	var env Envelope
	require.NoError(tb, json.NewDecoder(resp.Body).Decode(&env))
	if len(env.Data) == 0 {
		return
	}
	require.NoError(tb, json.Unmarshal(env.Data, out))
}

// DecodeProblem reads a problem details body from resp.
func DecodeProblem(tb testing.TB, resp *http.Response) Problem {
	tb.Helper()
	defer resp.Body.Close() //nolint:errcheck
	require.Equal(tb, "application/problem+json", resp.Header.Get("Content-Type"))
	var p Problem
	require.NoError(tb, json.NewDecoder(resp.Body).Decode(&p))
	return p
}

// TestUser is a user created through the API.
type TestUser struct {
	ID    string
	Email string
	Token string
}

// CreateAndLogin registers a unique user via POST /v1/users and logs it in.
func CreateAndLogin(tb testing.TB, app *fiber.App) TestUser {
	tb.Helper()
	email := fmt.Sprintf("test_%s@example.com", uuid.New().String()[:8])
	body := fmt.Sprintf(
		`{"firstName":"Test","lastName":"User","dateOfBirth":"1990-01-01","email":"%s","password":"%s"}`,
		email, TestPassword,
	)
	resp := MakeRequestWithApp(app, fiber.MethodPost, "/v1/users", body, "")
	require.Equal(tb, fiber.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	DecodeData(tb, resp, &created)

	return TestUser{ID: created.ID, Email: email, Token: Login(tb, app, email, TestPassword)}
}

// Login makes an actual HTTP request to login and returns the JWT token.
func Login(tb testing.TB, app *fiber.App, email, password string) string {
	tb.Helper()
	body := fmt.Sprintf(`{"email":"%s","password":"%s"}`, email, password)
	resp := MakeRequestWithApp(app, fiber.MethodPost, "/v1/auth/login", body, "")
	require.Equal(tb, fiber.StatusOK, resp.StatusCode)
	var out struct {
		Token string `json:"token"`
	}
	DecodeData(tb, resp, &out)
	require.NotEmpty(tb, out.Token)
	return out.Token
}

// E2ETestSuite provides a test suite with a real Postgres database using Testcontainers.
type E2ETestSuite struct {
	suite.Suite
	App *fiber.App
	Bus *infra_eventbus.MemoryEventBus
}

// SetupSuite starts Postgres, applies the migrations and wires the app.
func (s *E2ETestSuite) SetupSuite() {
	db, _ := pgtest.Start(s.T())
	s.App, s.Bus = NewApp(infrarepo.NewUoW(db), TestConfig())
}

// MakeRequest is a helper for making HTTP requests in tests.
func (s *E2ETestSuite) MakeRequest(method, path, body, token string) *http.Response {
	return MakeRequestWithApp(s.App, method, path, body, token)
}

// CreateTestUser creates a unique test user and logs it in.
func (s *E2ETestSuite) CreateTestUser() TestUser {
	return CreateAndLogin(s.T(), s.App)
}
