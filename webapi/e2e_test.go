package webapi_test

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/amirasaad/eaglebank/pkg/domain/events"
	"github.com/amirasaad/eaglebank/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

// LedgerE2ETestSuite drives the full HTTP surface against Postgres.
type LedgerE2ETestSuite struct {
	testutils.E2ETestSuite
}

type accountView struct {
	ID      string      `json:"id"`
	Balance json.Number `json:"balance"`
}

func (s *LedgerE2ETestSuite) createAccount(token string) accountView {
	resp := s.MakeRequest(fiber.MethodPost, "/v1/accounts", `{"name":"Main","accountType":"checking"}`, token)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	var acc accountView
	testutils.DecodeData(s.T(), resp, &acc)
	return acc
}

func (s *LedgerE2ETestSuite) balance(token, id string) string {
	resp := s.MakeRequest(fiber.MethodGet, "/v1/accounts/"+id, "", token)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var acc accountView
	testutils.DecodeData(s.T(), resp, &acc)
	return acc.Balance.String()
}

func (s *LedgerE2ETestSuite) TestUserLifecycle() {
	u := s.CreateTestUser()

	resp := s.MakeRequest(fiber.MethodGet, "/v1/users/"+u.ID, "", u.Token)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = s.MakeRequest(fiber.MethodPatch, "/v1/users/"+u.ID, `{"lastName":"Hopper"}`, u.Token)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	acc := s.createAccount(u.Token)

	resp = s.MakeRequest(fiber.MethodDelete, "/v1/users/"+u.ID, "", u.Token)
	s.Equal(fiber.StatusConflict, resp.StatusCode)
	_ = resp.Body.Close()

	resp = s.MakeRequest(fiber.MethodDelete, "/v1/accounts/"+acc.ID, "", u.Token)
	s.Equal(fiber.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	resp = s.MakeRequest(fiber.MethodDelete, "/v1/users/"+u.ID, "", u.Token)
	s.Equal(fiber.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()
}

func (s *LedgerE2ETestSuite) TestDepositWithdrawFlow() {
	u := s.CreateTestUser()
	acc := s.createAccount(u.Token)
	path := "/v1/accounts/" + acc.ID + "/transactions"

	resp := s.MakeRequest(fiber.MethodPost, path, `{"amount":250.75,"type":"deposit","currency":"GBP"}`, u.Token)
	s.Equal(fiber.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = s.MakeRequest(fiber.MethodPost, path, `{"amount":300,"type":"withdrawal"}`, u.Token)
	s.Equal(fiber.StatusUnprocessableEntity, resp.StatusCode)
	_ = resp.Body.Close()

	resp = s.MakeRequest(fiber.MethodPost, path, `{"amount":50.75,"type":"withdrawal"}`, u.Token)
	s.Equal(fiber.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	s.Equal("200.00", s.balance(u.Token, acc.ID))

	resp = s.MakeRequest(fiber.MethodGet, path, "", u.Token)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var list []map[string]any
	testutils.DecodeData(s.T(), resp, &list)
	s.Len(list, 2)
	s.Equal("DEPOSIT", list[0]["type"])
	s.Equal("WITHDRAWAL", list[1]["type"])

	var posted int
	for _, e := range s.Bus.Published() {
		if p, ok := e.(events.TransactionPosted); ok && p.AccountID.String() == acc.ID {
			posted++
		}
	}
	s.Equal(2, posted)
}

func (s *LedgerE2ETestSuite) TestConcurrentWithdrawalsNeverOverdraw() {
	u := s.CreateTestUser()
	acc := s.createAccount(u.Token)
	path := "/v1/accounts/" + acc.ID + "/transactions"

	resp := s.MakeRequest(fiber.MethodPost, path, `{"amount":100,"type":"deposit"}`, u.Token)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	const workers = 10
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		statuses = map[int]int{}
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := s.MakeRequest(fiber.MethodPost, path, `{"amount":30,"type":"withdrawal"}`, u.Token)
			_ = r.Body.Close()
			mu.Lock()
			statuses[r.StatusCode]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	s.Equal(3, statuses[fiber.StatusCreated])
	s.Equal(workers-3, statuses[fiber.StatusUnprocessableEntity])
	s.Equal("10.00", s.balance(u.Token, acc.ID))
}

func TestLedgerE2ETestSuite(t *testing.T) {
	suite.Run(t, new(LedgerE2ETestSuite))
}
