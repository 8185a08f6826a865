package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/paintworks/pw_backend/internal/apperrors"
	"github.com/paintworks/pw_backend/internal/core/domain"
	portssvc "github.com/paintworks/pw_backend/internal/core/ports/services"
	"github.com/paintworks/pw_backend/internal/dto"
	"github.com/paintworks/pw_backend/internal/handlers"
	"github.com/paintworks/pw_backend/internal/middleware"
	"github.com/paintworks/pw_backend/internal/utils/costing"
	"github.com/paintworks/pw_backend/internal/utils/listquery"
	"github.com/paintworks/pw_backend/internal/utils/schedule"
)

// --- Mock ProjectService ---
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}
func (m *MockProjectService) ListProjects(ctx context.Context, spec listquery.Spec) (*listquery.Result[domain.Project], error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listquery.Result[domain.Project]), args.Error(1)
}
func (m *MockProjectService) ListProjectsForCustomer(ctx context.Context, email string) ([]domain.Project, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}
func (m *MockProjectService) CreateProject(ctx context.Context, req dto.CreateProjectRequest, requestingUserID string) (*domain.Project, error) {
	args := m.Called(ctx, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}
func (m *MockProjectService) SaveProject(ctx context.Context, projectID string, req dto.SaveProjectRequest, requestingUserID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}
func (m *MockProjectService) PatchProject(ctx context.Context, projectID string, req dto.PatchProjectRequest, requestingUserID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}
func (m *MockProjectService) DeleteProject(ctx context.Context, projectID string, requestingUserID string) error {
	args := m.Called(ctx, projectID, requestingUserID)
	return args.Error(0)
}
func (m *MockProjectService) ComputeTotals(ctx context.Context, projectID string) (*costing.Report, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*costing.Report), args.Error(1)
}
func (m *MockProjectService) EstimateProgress(ctx context.Context, projectID string) (*schedule.Estimate, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schedule.Estimate), args.Error(1)
}
func (m *MockProjectService) SubmitFeedback(ctx context.Context, projectID string, req dto.SubmitFeedbackRequest, requestingUserID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.ProjectSvcFacade = (*MockProjectService)(nil)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}
func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}
func (m *MockUserService) ListUsers(ctx context.Context, spec listquery.Spec, requestingUserID string) (*listquery.Result[domain.UserProfile], error) {
	args := m.Called(ctx, spec, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listquery.Result[domain.UserProfile]), args.Error(1)
}
func (m *MockUserService) RegisterUser(ctx context.Context, req dto.RegisterRequest) (*domain.UserProfile, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}
func (m *MockUserService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}
func (m *MockUserService) UpdateUserRoles(ctx context.Context, userID string, req dto.UpdateRolesRequest, requestingUserID string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}
func (m *MockUserService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
	return args.Error(0)
}
func (m *MockUserService) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockUserService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	args := m.Called(ctx, userID, requestingUserID)
	return args.Error(0)
}
func (m *MockUserService) AuthenticateUser(ctx context.Context, email, password string) (*domain.UserProfile, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}
func (m *MockUserService) GetOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.UserProfile, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}
func (m *MockUserService) CreateGuestUser(ctx context.Context) (*domain.UserProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}
func (m *MockUserService) GetOrCreatePhoneUser(ctx context.Context, phone string) (*domain.UserProfile, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Test Suite ---
type ProjectHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockProjectService *MockProjectService
	mockUserService    *MockUserService
	jwtSecret          string
}

func (suite *ProjectHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	dto.RegisterCustomValidations()
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockProjectService = new(MockProjectService)
	suite.mockUserService = new(MockUserService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterProjectRoutes(v1, suite.mockProjectService, suite.mockUserService)
}

// generateTestToken creates a signed JWT for test requests.
func (suite *ProjectHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "pw-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *ProjectHandlerTestSuite) doRequest(method, url, userID string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *ProjectHandlerTestSuite) TestListProjects_Success() {
	userID := uuid.NewString()
	project := domain.NewProject()
	project.ProjectID = uuid.NewString()
	project.Name = "Roof repaint"
	expected := &listquery.Result[domain.Project]{
		Page:       []domain.Project{project},
		TotalCount: 1,
		TotalPages: 1,
		PageNumber: 1,
	}

	suite.mockProjectService.On("ListProjects",
		mock.Anything,
		mock.MatchedBy(func(spec listquery.Spec) bool {
			return spec.Status == "completed" && spec.SortKey == "modifiedAt" && spec.Page == 1
		}),
	).Return(expected, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/projects?status=completed", userID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ListProjectsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Require().Len(body.Projects, 1)
	suite.Equal("Roof repaint", body.Projects[0].Name)
	suite.Equal(1, body.TotalCount)
	suite.mockProjectService.AssertExpectations(suite.T())
}

func (suite *ProjectHandlerTestSuite) TestListProjects_RequiresToken() {
	w := suite.doRequest(http.MethodGet, "/api/v1/projects", "", nil)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockProjectService.AssertNotCalled(suite.T(), "ListProjects")
}

func (suite *ProjectHandlerTestSuite) TestCreateProject_Success() {
	userID := uuid.NewString()
	created := domain.NewProject()
	created.ProjectID = uuid.NewString()
	created.Name = "New project"

	suite.mockProjectService.On("CreateProject",
		mock.Anything,
		mock.MatchedBy(func(req dto.CreateProjectRequest) bool { return req.Name == "New project" }),
		userID,
	).Return(&created, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/projects", userID, gin.H{"name": "New project"})

	suite.Equal(http.StatusCreated, w.Code)
	var body dto.ProjectResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(created.ProjectID, body.ProjectID)
	suite.mockProjectService.AssertExpectations(suite.T())
}

func (suite *ProjectHandlerTestSuite) TestCreateProject_MissingName() {
	userID := uuid.NewString()

	w := suite.doRequest(http.MethodPost, "/api/v1/projects", userID, gin.H{"location": "nowhere"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockProjectService.AssertNotCalled(suite.T(), "CreateProject")
}

func (suite *ProjectHandlerTestSuite) TestCreateProject_Forbidden() {
	userID := uuid.NewString()

	suite.mockProjectService.On("CreateProject", mock.Anything, mock.AnythingOfType("dto.CreateProjectRequest"), userID).
		Return(nil, fmt.Errorf("no: %w", apperrors.ErrForbidden)).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/projects", userID, gin.H{"name": "Denied"})

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockProjectService.AssertExpectations(suite.T())
}

func (suite *ProjectHandlerTestSuite) TestGetProject_NotFound() {
	userID := uuid.NewString()
	projectID := uuid.NewString()

	suite.mockProjectService.On("GetProjectByID", mock.Anything, projectID).
		Return(nil, fmt.Errorf("lookup: %w", apperrors.ErrNotFound)).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/projects/"+projectID, userID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockProjectService.AssertExpectations(suite.T())
}

func (suite *ProjectHandlerTestSuite) TestListMyProjects_UsesProfileEmail() {
	userID := uuid.NewString()
	user := &domain.UserProfile{UserID: userID, Email: "ann@example.com"}
	project := domain.NewProject()
	project.Name = "Ann's house"

	suite.mockUserService.On("GetUserByID", mock.Anything, userID).Return(user, nil).Once()
	suite.mockProjectService.On("ListProjectsForCustomer", mock.Anything, "ann@example.com").
		Return([]domain.Project{project}, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/projects/mine", userID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var body []dto.ProjectResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Require().Len(body, 1)
	suite.Equal("Ann's house", body[0].Name)
	suite.mockUserService.AssertExpectations(suite.T())
	suite.mockProjectService.AssertExpectations(suite.T())
}

func (suite *ProjectHandlerTestSuite) TestDeleteProject_NoContent() {
	userID := uuid.NewString()
	projectID := uuid.NewString()

	suite.mockProjectService.On("DeleteProject", mock.Anything, projectID, userID).Return(nil).Once()

	w := suite.doRequest(http.MethodDelete, "/api/v1/projects/"+projectID, userID, nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockProjectService.AssertExpectations(suite.T())
}

func (suite *ProjectHandlerTestSuite) TestGetProjectTotals_Success() {
	userID := uuid.NewString()
	projectID := uuid.NewString()
	report := &costing.Report{}

	suite.mockProjectService.On("ComputeTotals", mock.Anything, projectID).Return(report, nil).Once()

	w := suite.doRequest(http.MethodGet, fmt.Sprintf("/api/v1/projects/%s/totals", projectID), userID, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockProjectService.AssertExpectations(suite.T())
}

func (suite *ProjectHandlerTestSuite) TestGetProjectProgress_Success() {
	userID := uuid.NewString()
	projectID := uuid.NewString()
	estimate := &schedule.Estimate{Percent: 50, EstimatedHours: 80, SuggestedStatus: domain.StatusInProgress}

	suite.mockProjectService.On("EstimateProgress", mock.Anything, projectID).Return(estimate, nil).Once()

	w := suite.doRequest(http.MethodGet, fmt.Sprintf("/api/v1/projects/%s/progress", projectID), userID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var body schedule.Estimate
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(50, body.Percent)
	suite.mockProjectService.AssertExpectations(suite.T())
}

func (suite *ProjectHandlerTestSuite) TestSubmitFeedback_InvalidRating() {
	userID := uuid.NewString()
	projectID := uuid.NewString()

	// Binding rejects out-of-range ratings before the service is consulted.
	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/projects/%s/feedback", projectID), userID,
		gin.H{"rating": 9})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockProjectService.AssertNotCalled(suite.T(), "SubmitFeedback")
}

func (suite *ProjectHandlerTestSuite) TestSubmitFeedback_Success() {
	userID := uuid.NewString()
	project := domain.NewProject()
	project.ProjectID = uuid.NewString()
	project.Feedback = &domain.Feedback{Rating: 5, Comments: "Lovely"}

	suite.mockProjectService.On("SubmitFeedback",
		mock.Anything,
		project.ProjectID,
		mock.MatchedBy(func(req dto.SubmitFeedbackRequest) bool { return req.Rating == 5 }),
		userID,
	).Return(&project, nil).Once()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/projects/%s/feedback", project.ProjectID), userID,
		gin.H{"rating": 5, "comments": "Lovely"})

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ProjectResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Require().NotNil(body.Feedback)
	suite.Equal(5, body.Feedback.Rating)
	suite.mockProjectService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestProjectHandler(t *testing.T) {
	suite.Run(t, new(ProjectHandlerTestSuite))
}
