package admin_test

import (
	"encoding/json"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"

	"github.com/yashpatil27/trading-app-sub000/webapi/common"
	"github.com/yashpatil27/trading-app-sub000/webapi/testutils"
)

type AdminTestSuite struct {
	testutils.E2ETestSuite
}

func (s *AdminTestSuite) TestCreateUserVariants() {
	testCases := []struct {
		desc       string
		body       string
		wantStatus int
	}{
		{
			desc:       "success",
			body:       `{"name":"asha","email":"asha@example.com","pin":"1234"}`,
			wantStatus: fiber.StatusCreated,
		},
		{
			desc:       "missing email",
			body:       `{"name":"asha","pin":"1234"}`,
			wantStatus: fiber.StatusBadRequest,
		},
		{
			desc:       "non-numeric pin",
			body:       `{"name":"asha","email":"asha@example.com","pin":"abcd"}`,
			wantStatus: fiber.StatusBadRequest,
		},
		{
			desc:       "invalid body",
			body:       `{"name":123}`,
			wantStatus: fiber.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.desc, func() {
			resp := s.MakeRequest("POST", "/admin/users", tc.body)
			defer resp.Body.Close() //nolint:errcheck
			s.Equal(tc.wantStatus, resp.StatusCode)
		})
	}
}

func (s *AdminTestSuite) TestAdjustmentThenDeleteGuard() {
	userID := s.SeedUser().String()

	resp := s.MakeRequest(
		"POST", "/admin/users/"+userID+"/adjustments",
		`{"currency":"BTC","direction":"credit","amount":"0.5","reason":"treasury"}`,
	)
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusCreated, resp.StatusCode)

	// A holder cannot be deleted.
	resp = s.MakeRequest("DELETE", "/admin/users/"+userID, "")
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusPreconditionFailed, resp.StatusCode)

	resp = s.MakeRequest(
		"POST", "/admin/users/"+userID+"/adjustments",
		`{"currency":"BTC","direction":"debit","amount":"0.5","reason":"unwind"}`,
	)
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusCreated, resp.StatusCode)

	resp = s.MakeRequest("DELETE", "/admin/users/"+userID, "")
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)
}

func (s *AdminTestSuite) TestListUsersIncludesBalances() {
	userID := s.SeedUser().String()
	resp := s.MakeRequest(
		"POST", "/admin/users/"+userID+"/adjustments",
		`{"currency":"INR","direction":"credit","amount":"2500"}`,
	)
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusCreated, resp.StatusCode)

	resp = s.MakeRequest("GET", "/admin/users", "")
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)

	var out common.Response
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	rows := out.Data.([]any)
	s.Require().Len(rows, 1)
	row := rows[0].(map[string]any)
	s.Equal("2500", row["fiat_balance"])
}

func (s *AdminTestSuite) TestRatesRoundTrip() {
	resp := s.MakeRequest("PUT", "/admin/rates", `{"buy_rate":"91.50","sell_rate":"88.25"}`)
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)

	resp = s.MakeRequest("GET", "/admin/rates", "")
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)

	var out common.Response
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	data := out.Data.(map[string]any)
	s.Equal("91.5", data["buy_rate"])
	s.Equal("88.25", data["sell_rate"])
}

func (s *AdminTestSuite) TestRatesRejectNonPositive() {
	resp := s.MakeRequest("PUT", "/admin/rates", `{"buy_rate":"0","sell_rate":"88.25"}`)
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminTestSuite(t *testing.T) {
	suite.Run(t, new(AdminTestSuite))
}
