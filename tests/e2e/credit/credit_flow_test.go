//go:build e2e

package credit_test

import (
	"net/http"
	"testing"
	"time"

	"studio-booking/internal/handler/dto/request"
	"studio-booking/internal/handler/dto/response"
	"studio-booking/tests/common/authtest"
	"studio-booking/tests/common/dbtest"
	"studio-booking/tests/common/httptest"
	"studio-booking/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	creditsURL     = "/api/credits"
	grantURL       = "/api/admin/credits"
	adjustURL      = "/api/admin/credits/adjust"
	userCreditsURL = "/api/admin/users/"
)

type CreditSuite struct {
	e2e.SharedSuite
}

func TestCreditSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(CreditSuite))
}

func (s *CreditSuite) TestGrantCredit() {
	s.Run("Normal case: admin grants a monthly credit from a package", func() {
		t := s.T()

		memberID := uuid.New()
		packageID := dbtest.CreatePackage(t, s.DB, "Reformer 8", "REFORMER", false, false, 8)
		nextReset := time.Now().AddDate(0, 1, 0)

		adminToken := authtest.AdminToken(t, s.Config, uuid.New())
		var granted response.GrantCreditResponse
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, grantURL,
			request.GrantCreditRequest{UserID: memberID, PackageID: packageID, NextResetAt: &nextReset}, adminToken)
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &granted)
		require.NotEqual(t, uuid.Nil, granted.CreditID)

		memberToken := authtest.MemberToken(t, s.Config, memberID)
		var credits []response.CreditResponse
		lw := httptest.PerformRequest(t, s.Router, http.MethodGet, creditsURL, nil, memberToken)
		httptest.AssertSuccessResponse(t, lw, http.StatusOK, &credits)
		require.Len(t, credits, 1)

		expected := response.CreditResponse{
			ID:               granted.CreditID,
			PackageID:        packageID,
			ClassTypeGroup:   "REFORMER",
			ClassesRemaining: 8,
			Kind:             "monthly",
			Status:           "active",
		}
		opts := []cmp.Option{
			cmpopts.IgnoreFields(response.CreditResponse{}, "ExpiresAt", "NextResetAt"),
		}
		if diff := cmp.Diff(expected, credits[0], opts...); diff != "" {
			t.Errorf("credit response mismatch (-want +got):\n%s", diff)
		}
	})

	s.Run("Normal case: a single-class package grants a fixed credit", func() {
		t := s.T()

		memberID := uuid.New()
		packageID := dbtest.CreatePackage(t, s.DB, "Reformer Drop-in", "REFORMER", false, true, 1)
		expires := time.Now().Add(30 * 24 * time.Hour)

		adminToken := authtest.AdminToken(t, s.Config, uuid.New())
		var granted response.GrantCreditResponse
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, grantURL,
			request.GrantCreditRequest{UserID: memberID, PackageID: packageID, ExpiresAt: &expires}, adminToken)
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &granted)

		require.Equal(t, 1, dbtest.CreditRemaining(t, s.DB, granted.CreditID))
	})

	s.Run("Error case: fixed grant without an expiry is rejected", func() {
		t := s.T()

		packageID := dbtest.CreatePackage(t, s.DB, "Reformer Drop-in", "REFORMER", false, true, 1)
		adminToken := authtest.AdminToken(t, s.Config, uuid.New())

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, grantURL,
			request.GrantCreditRequest{UserID: uuid.New(), PackageID: packageID}, adminToken)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "")
	})

	s.Run("Error case: unknown package is not found", func() {
		t := s.T()

		nextReset := time.Now().AddDate(0, 1, 0)
		adminToken := authtest.AdminToken(t, s.Config, uuid.New())

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, grantURL,
			request.GrantCreditRequest{UserID: uuid.New(), PackageID: uuid.New(), NextResetAt: &nextReset}, adminToken)
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "")
	})

	s.Run("Auth test: member tokens cannot reach the admin surface", func() {
		t := s.T()

		token := authtest.MemberToken(t, s.Config, uuid.New())
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, grantURL,
			request.GrantCreditRequest{UserID: uuid.New(), PackageID: uuid.New()}, token)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}

func (s *CreditSuite) TestAdjustCredit() {
	s.Run("Normal case: a negative delta lowers the balance", func() {
		t := s.T()

		memberID := uuid.New()
		packageID := dbtest.CreatePackage(t, s.DB, "Reformer 5", "REFORMER", false, false, 5)
		creditID := dbtest.GrantFixedCredit(t, s.DB, memberID, packageID, "REFORMER", false, 5, time.Now().Add(30*24*time.Hour))

		adminToken := authtest.AdminToken(t, s.Config, uuid.New())
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, adjustURL,
			request.AdjustCreditRequest{UserID: memberID, Group: "REFORMER", Delta: -2}, adminToken)
		require.Equal(t, http.StatusNoContent, w.Code)

		require.Equal(t, 3, dbtest.CreditRemaining(t, s.DB, creditID))
	})

	s.Run("Error case: a delta that would go negative is rejected", func() {
		t := s.T()

		memberID := uuid.New()
		packageID := dbtest.CreatePackage(t, s.DB, "Reformer 5", "REFORMER", false, false, 5)
		creditID := dbtest.GrantFixedCredit(t, s.DB, memberID, packageID, "REFORMER", false, 5, time.Now().Add(30*24*time.Hour))

		adminToken := authtest.AdminToken(t, s.Config, uuid.New())
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, adjustURL,
			request.AdjustCreditRequest{UserID: memberID, Group: "REFORMER", Delta: -10}, adminToken)
		httptest.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "")

		require.Equal(t, 5, dbtest.CreditRemaining(t, s.DB, creditID))
	})

	s.Run("Error case: a user with no credit in the group is not found", func() {
		t := s.T()

		adminToken := authtest.AdminToken(t, s.Config, uuid.New())
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, adjustURL,
			request.AdjustCreditRequest{UserID: uuid.New(), Group: "REFORMER", Delta: -1}, adminToken)
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "")
	})

	s.Run("Error case: an unknown class type group is rejected", func() {
		t := s.T()

		adminToken := authtest.AdminToken(t, s.Config, uuid.New())
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, adjustURL,
			request.AdjustCreditRequest{UserID: uuid.New(), Group: "AERIAL", Delta: -1}, adminToken)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "")
	})
}

func (s *CreditSuite) TestListUserCredits() {
	s.Run("Normal case: admin lists a member's credits", func() {
		t := s.T()

		memberID := uuid.New()
		packageID := dbtest.CreatePackage(t, s.DB, "Reformer 5", "REFORMER", false, false, 5)
		dbtest.GrantFixedCredit(t, s.DB, memberID, packageID, "REFORMER", false, 5, time.Now().Add(30*24*time.Hour))

		adminToken := authtest.AdminToken(t, s.Config, uuid.New())
		var credits []response.CreditResponse
		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			userCreditsURL+memberID.String()+"/credits", nil, adminToken)
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &credits)
		require.Len(t, credits, 1)
		require.Equal(t, "fixed", credits[0].Kind)
	})

	s.Run("Auth test: members cannot list another user's credits", func() {
		t := s.T()

		token := authtest.MemberToken(t, s.Config, uuid.New())
		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			userCreditsURL+uuid.New().String()+"/credits", nil, token)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}
