package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/paintworks/pw_backend/internal/apperrors"
	"github.com/paintworks/pw_backend/internal/core/domain"
	"github.com/paintworks/pw_backend/internal/core/policy"
	portssvc "github.com/paintworks/pw_backend/internal/core/ports/services"
	"github.com/paintworks/pw_backend/internal/core/services"
	"github.com/paintworks/pw_backend/internal/platform/config"
)

type SessionServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.SessionSvcFacade
}

func (suite *SessionServiceTestSuite) SetupTest() {
	cfg := &config.Config{
		IsProduction:      true,
		OTPExpiryDuration: 5 * time.Minute,
		OTPMaxAttempts:    3,
	}
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewSessionService(cfg, services.NewUserService(suite.mockUserRepo))
}

func (suite *SessionServiceTestSuite) TestStartPhoneVerification_RequiresPhone() {
	sessionID, err := suite.service.StartPhoneVerification(context.Background(), "   ")

	suite.Require().Error(err)
	suite.Empty(sessionID)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SessionServiceTestSuite) TestConfirmPhoneVerification_UnknownSession() {
	phone, err := suite.service.ConfirmPhoneVerification(context.Background(), "no-such-session", "123456")

	suite.Require().Error(err)
	suite.Empty(phone)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *SessionServiceTestSuite) TestConfirmPhoneVerification_WrongCodeBudget() {
	ctx := context.Background()
	sessionID, err := suite.service.StartPhoneVerification(ctx, "+15550001111")
	suite.Require().NoError(err)
	suite.Require().NotEmpty(sessionID)

	// The issued code is six digits; a seven-digit guess is always wrong.
	for i := 0; i < 2; i++ {
		_, err = suite.service.ConfirmPhoneVerification(ctx, sessionID, "0000000")
		suite.Require().Error(err)
		suite.ErrorIs(err, apperrors.ErrUnauthorized)
	}

	// The third wrong attempt burns the session.
	_, err = suite.service.ConfirmPhoneVerification(ctx, sessionID, "0000000")
	suite.Require().Error(err)

	_, err = suite.service.ConfirmPhoneVerification(ctx, sessionID, "0000000")
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *SessionServiceTestSuite) TestSetRoleChoice_Validates() {
	ctx := context.Background()

	suite.Require().NoError(suite.service.SetRoleChoice(ctx, "u1", "Employee"))
	suite.Require().NoError(suite.service.SetRoleChoice(ctx, "u1", "customer"))

	err := suite.service.SetRoleChoice(ctx, "u1", "superuser")
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SessionServiceTestSuite) TestResolveLanding_DualRole() {
	ctx := context.Background()
	user := profileWithTypes("dual", domain.TypePainter)

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Times(3)

	// No choice recorded yet: prompt for one.
	landing, err := suite.service.ResolveLanding(ctx, user.UserID)
	suite.Require().NoError(err)
	suite.Equal(policy.LandingChoose, landing)

	suite.Require().NoError(suite.service.SetRoleChoice(ctx, user.UserID, "employee"))
	landing, err = suite.service.ResolveLanding(ctx, user.UserID)
	suite.Require().NoError(err)
	suite.Equal(policy.LandingEmployee, landing)

	suite.Require().NoError(suite.service.SetRoleChoice(ctx, user.UserID, "customer"))
	landing, err = suite.service.ResolveLanding(ctx, user.UserID)
	suite.Require().NoError(err)
	suite.Equal(policy.LandingCustomer, landing)

	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestResolveLanding_SingleRole() {
	ctx := context.Background()
	customer := profileWithTypes("cust")

	suite.mockUserRepo.On("FindUserByID", ctx, customer.UserID).Return(customer, nil).Once()

	landing, err := suite.service.ResolveLanding(ctx, customer.UserID)

	suite.Require().NoError(err)
	suite.Equal(policy.LandingCustomer, landing)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func TestSessionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceTestSuite))
}
