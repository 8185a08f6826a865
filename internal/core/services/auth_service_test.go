package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/paintworks/pw_backend/internal/apperrors"
	portssvc "github.com/paintworks/pw_backend/internal/core/ports/services"
	"github.com/paintworks/pw_backend/internal/core/services"
	"github.com/paintworks/pw_backend/internal/platform/config"
	"github.com/paintworks/pw_backend/internal/utils"
)

type TokenServiceTestSuite struct {
	suite.Suite
	cfg          *config.Config
	mockUserRepo *MockUserRepository
	service      portssvc.TokenSvcFacade
}

func (suite *TokenServiceTestSuite) SetupTest() {
	suite.cfg = &config.Config{
		JWTSecret:                  "test-secret",
		JWTExpiryDuration:          15 * time.Minute,
		JWTIssuer:                  "pw_backend_test",
		RefreshTokenExpiryDuration: 24 * time.Hour,
	}
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewTokenService(suite.cfg, services.NewUserService(suite.mockUserRepo))
}

func (suite *TokenServiceTestSuite) TestGenerateAccessToken() {
	user := profileWithTypes("user-1")

	token, expiry, err := suite.service.GenerateAccessToken(context.Background(), user)

	suite.Require().NoError(err)
	suite.NotEmpty(token)
	suite.WithinDuration(time.Now().Add(suite.cfg.JWTExpiryDuration), expiry, 5*time.Second)

	claims, err := utils.ParseAndValidateJWT(token, suite.cfg.JWTSecret)
	suite.Require().NoError(err)
	suite.Equal(user.UserID, claims.Subject)
	suite.Equal(suite.cfg.JWTIssuer, claims.Issuer)
}

func (suite *TokenServiceTestSuite) TestGenerateAccessToken_WrongSecretRejected() {
	user := profileWithTypes("user-1")

	token, _, err := suite.service.GenerateAccessToken(context.Background(), user)
	suite.Require().NoError(err)

	_, err = utils.ParseAndValidateJWT(token, "different-secret")
	suite.Require().Error(err)
}

func (suite *TokenServiceTestSuite) TestGenerateRefreshToken_Opaque() {
	user := profileWithTypes("user-1")

	first, expiry, err := suite.service.GenerateRefreshToken(context.Background(), user)
	suite.Require().NoError(err)
	second, _, err := suite.service.GenerateRefreshToken(context.Background(), user)
	suite.Require().NoError(err)

	suite.NotEmpty(first)
	suite.NotEqual(first, second)
	suite.WithinDuration(time.Now().Add(suite.cfg.RefreshTokenExpiryDuration), expiry, 5*time.Second)
}

func (suite *TokenServiceTestSuite) TestValidateAndParseRefreshToken_Success() {
	ctx := context.Background()
	raw := "raw-refresh-token"
	expiry := time.Now().Add(time.Hour)
	user := profileWithTypes("user-1")
	user.RefreshTokenHash = utils.HashRefreshToken(raw)
	user.RefreshTokenExpiryTime = &expiry

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()

	got, err := suite.service.ValidateAndParseRefreshToken(ctx, user.UserID, raw)

	suite.Require().NoError(err)
	suite.Equal(user.UserID, got.UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *TokenServiceTestSuite) TestValidateAndParseRefreshToken_HashMismatch() {
	ctx := context.Background()
	expiry := time.Now().Add(time.Hour)
	user := profileWithTypes("user-1")
	user.RefreshTokenHash = utils.HashRefreshToken("the real token")
	user.RefreshTokenExpiryTime = &expiry

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()

	got, err := suite.service.ValidateAndParseRefreshToken(ctx, user.UserID, "a stolen guess")

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *TokenServiceTestSuite) TestValidateAndParseRefreshToken_Expired() {
	ctx := context.Background()
	raw := "raw-refresh-token"
	expiry := time.Now().Add(-time.Minute)
	user := profileWithTypes("user-1")
	user.RefreshTokenHash = utils.HashRefreshToken(raw)
	user.RefreshTokenExpiryTime = &expiry

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()

	got, err := suite.service.ValidateAndParseRefreshToken(ctx, user.UserID, raw)

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrRefreshTokenExpired)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *TokenServiceTestSuite) TestValidateAndParseRefreshToken_NoneStored() {
	ctx := context.Background()
	user := profileWithTypes("user-1")

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()

	got, err := suite.service.ValidateAndParseRefreshToken(ctx, user.UserID, "anything")

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *TokenServiceTestSuite) TestValidateAndParseRefreshToken_UnknownUser() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByID", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	got, err := suite.service.ValidateAndParseRefreshToken(ctx, "ghost", "anything")

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func TestTokenServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}

func TestGenerateStateString(t *testing.T) {
	svc := services.NewGoogleOAuthHandlerService(&config.Config{GoogleClientID: "client"})

	first, err := svc.GenerateStateString(context.Background())
	if err != nil {
		t.Fatalf("GenerateStateString: %v", err)
	}
	second, err := svc.GenerateStateString(context.Background())
	if err != nil {
		t.Fatalf("GenerateStateString: %v", err)
	}
	if first == "" || first == second {
		t.Fatalf("state strings must be non-empty and unique, got %q and %q", first, second)
	}
}
