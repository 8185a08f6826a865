package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/paintworks/pw_backend/internal/core/domain"
	portssvc "github.com/paintworks/pw_backend/internal/core/ports/services"
	"github.com/paintworks/pw_backend/internal/dto"
	"github.com/paintworks/pw_backend/internal/middleware"
	"github.com/paintworks/pw_backend/internal/platform/config"
	"github.com/paintworks/pw_backend/internal/utils"
)

const oauthStateCookie = "oauth_state"

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	userService    portssvc.UserSvcFacade
	tokenService   portssvc.TokenSvcFacade
	googleService  portssvc.GoogleOAuthHandlerSvcFacade
	sessionService portssvc.SessionSvcFacade
	cfg            *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg *config.Config, services *portssvc.ServiceContainer) *AuthHandler {
	return &AuthHandler{
		userService:    services.User,
		tokenService:   services.Token,
		googleService:  services.GoogleOAuth,
		sessionService: services.Session,
		cfg:            cfg,
	}
}

// registerAuthRoutes sets up the public authentication routes.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(cfg, services)

	// 5 requests per minute per IP on the credential-guessing surfaces
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", limitMiddleware, h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
		auth.POST("/guest", h.Guest)
		auth.GET("/google/url", h.GoogleLoginURL)
		auth.GET("/google/callback", h.GoogleCallback)
		auth.POST("/google", h.GoogleIDTokenSignIn)
		auth.POST("/phone/start", limitMiddleware, h.PhoneStart)
		auth.POST("/phone/confirm", limitMiddleware, h.PhoneConfirm)
	}
}

// Register godoc
// @Summary Register new user
// @Description Creates a new email/password account seeded with the customer role.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "User Registration Info"
// @Success 201 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to register user", slog.String("error", err.Error()))
		respondWithError(c, err, "Failed to register user")
		return
	}

	h.issueSession(c, user, http.StatusCreated)
}

// Login godoc
// @Summary User login
// @Description Authenticates a user and returns a JWT token plus a refresh cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password"})
		return
	}

	h.issueSession(c, user, http.StatusOK)
}

// Refresh godoc
// @Summary Refresh access token
// @Description Rotates the refresh token cookie and returns a fresh JWT.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.RefreshTokenResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	userID, rawToken, ok := h.readRefreshCookie(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Refresh token missing"})
		return
	}

	user, err := h.tokenService.ValidateAndParseRefreshToken(c.Request.Context(), userID, rawToken)
	if err != nil {
		h.clearRefreshCookie(c)
		respondWithError(c, err, "Failed to refresh token")
		return
	}

	accessToken, _, err := h.tokenService.GenerateAccessToken(c.Request.Context(), user)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to generate access token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	// Rotate the refresh token on every use.
	if err := h.storeRefreshToken(c, user); err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to rotate refresh token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to refresh token"})
		return
	}

	c.JSON(http.StatusOK, dto.RefreshTokenResponse{Token: accessToken})
}

// Logout godoc
// @Summary Log out
// @Description Invalidates the stored refresh token and clears the cookie.
// @Tags auth
// @Produce json
// @Success 204 "No Content"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if userID, _, ok := h.readRefreshCookie(c); ok {
		if err := h.userService.ClearRefreshToken(c.Request.Context(), userID); err != nil {
			logger := middleware.GetLoggerFromCtx(c.Request.Context())
			logger.Warn("Failed to clear stored refresh token", slog.String("error", err.Error()))
		}
	}
	h.clearRefreshCookie(c)
	c.Status(http.StatusNoContent)
}

// Guest godoc
// @Summary Anonymous sign-in
// @Description Creates a guest account with the customer role and no credentials.
// @Tags auth
// @Produce json
// @Success 201 {object} dto.LoginResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/guest [post]
func (h *AuthHandler) Guest(c *gin.Context) {
	user, err := h.userService.CreateGuestUser(c.Request.Context())
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to create guest user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create guest session"})
		return
	}

	h.issueSession(c, user, http.StatusCreated)
}

// GoogleLoginURL godoc
// @Summary Google sign-in URL
// @Description Returns the Google consent-screen URL; the state is also set as a cookie for callback verification.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/url [get]
func (h *AuthHandler) GoogleLoginURL(c *gin.Context) {
	state, err := h.googleService.GenerateStateString(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to start Google sign-in"})
		return
	}

	c.SetCookie(oauthStateCookie, state, int((10 * time.Minute).Seconds()), "/api/v1/auth", "", h.cfg.IsProduction, true)
	c.JSON(http.StatusOK, gin.H{"url": h.googleService.GetGoogleLoginURL(c.Request.Context(), state)})
}

// GoogleCallback godoc
// @Summary Google OAuth callback
// @Description Completes the redirect flow: verifies state, exchanges the code and signs the user in.
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "CSRF state"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	state := c.Query("state")
	cookieState, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != cookieState {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "OAuth state mismatch"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Authorization code is required"})
		return
	}

	token, err := h.googleService.ExchangeCodeForToken(c.Request.Context(), code)
	if err != nil {
		logger.Error("Failed to exchange Google authorization code", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authorization code"})
		return
	}

	info, err := h.googleService.GetUserInfo(c.Request.Context(), token)
	if err != nil {
		logger.Error("Failed to fetch Google user info", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to complete Google sign-in"})
		return
	}

	user, err := h.userService.GetOrCreateGoogleUser(c.Request.Context(), *info)
	if err != nil {
		logger.Error("Failed to resolve Google user", slog.String("error", err.Error()))
		respondWithError(c, err, "Failed to complete Google sign-in")
		return
	}

	h.issueSession(c, user, http.StatusOK)
}

// GoogleIDTokenSignIn godoc
// @Summary Google sign-in with ID token
// @Description Signs in with an ID token obtained by a client-side Google flow.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.GoogleCallbackRequest true "Google ID token"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google [post]
func (h *AuthHandler) GoogleIDTokenSignIn(c *gin.Context) {
	var req dto.GoogleCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	payload, err := h.googleService.ValidateGoogleIDToken(c.Request.Context(), req.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid Google ID token"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	info := domain.GoogleUserInfo{
		ID:    payload.Subject,
		Email: email,
		Name:  name,
	}

	user, err := h.userService.GetOrCreateGoogleUser(c.Request.Context(), info)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to resolve Google user", slog.String("error", err.Error()))
		respondWithError(c, err, "Failed to complete Google sign-in")
		return
	}

	h.issueSession(c, user, http.StatusOK)
}

// PhoneStart godoc
// @Summary Start phone sign-in
// @Description Generates an SMS confirmation code and returns the confirmation session ID.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.PhoneStartRequest true "Phone number in E.164 format"
// @Success 200 {object} dto.PhoneStartResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/phone/start [post]
func (h *AuthHandler) PhoneStart(c *gin.Context) {
	var req dto.PhoneStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "A valid phone number is required"})
		return
	}

	sessionID, err := h.sessionService.StartPhoneVerification(c.Request.Context(), req.Phone)
	if err != nil {
		respondWithError(c, err, "Failed to start phone verification")
		return
	}

	c.JSON(http.StatusOK, dto.PhoneStartResponse{SessionID: sessionID})
}

// PhoneConfirm godoc
// @Summary Confirm phone sign-in
// @Description Checks the SMS code and signs the user in, creating a profile on first use.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.PhoneConfirmRequest true "Session ID and code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/phone/confirm [post]
func (h *AuthHandler) PhoneConfirm(c *gin.Context) {
	var req dto.PhoneConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Session ID and code are required"})
		return
	}

	phone, err := h.sessionService.ConfirmPhoneVerification(c.Request.Context(), req.SessionID, req.Code)
	if err != nil {
		respondWithError(c, err, "Failed to confirm phone verification")
		return
	}

	user, err := h.userService.GetOrCreatePhoneUser(c.Request.Context(), phone)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to resolve phone user", slog.String("error", err.Error()))
		respondWithError(c, err, "Failed to complete phone sign-in")
		return
	}

	h.issueSession(c, user, http.StatusOK)
}

// issueSession generates the access token and the refresh cookie for a
// signed-in user and writes the login response.
func (h *AuthHandler) issueSession(c *gin.Context, user *domain.UserProfile, status int) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accessToken, _, err := h.tokenService.GenerateAccessToken(c.Request.Context(), user)
	if err != nil {
		logger.Error("Failed to generate access token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	if err := h.storeRefreshToken(c, user); err != nil {
		logger.Error("Failed to store refresh token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create session"})
		return
	}

	c.JSON(status, dto.LoginResponse{Token: accessToken, User: dto.ToUserResponse(user)})
}

// storeRefreshToken generates a fresh refresh token, persists its hash and
// sets the cookie. The cookie value carries the user ID so the refresh
// endpoint can look the account up without an access token.
func (h *AuthHandler) storeRefreshToken(c *gin.Context, user *domain.UserProfile) error {
	rawToken, expiry, err := h.tokenService.GenerateRefreshToken(c.Request.Context(), user)
	if err != nil {
		return err
	}
	if err := h.userService.UpdateRefreshToken(c.Request.Context(), user.UserID, utils.HashRefreshToken(rawToken), expiry); err != nil {
		return err
	}

	maxAge := int(time.Until(expiry).Seconds())
	c.SetCookie(h.cfg.RefreshTokenCookieName, user.UserID+"."+rawToken, maxAge, h.cfg.RefreshTokenCookiePath, "", h.cfg.IsProduction, true)
	return nil
}

func (h *AuthHandler) readRefreshCookie(c *gin.Context) (userID string, rawToken string, ok bool) {
	value, err := c.Cookie(h.cfg.RefreshTokenCookieName)
	if err != nil || value == "" {
		return "", "", false
	}
	parts := strings.SplitN(value, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetCookie(h.cfg.RefreshTokenCookieName, "", -1, h.cfg.RefreshTokenCookiePath, "", h.cfg.IsProduction, true)
}
