package dto

// RegisterRequest is the email/password registration body.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the email/password login body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleCallbackRequest carries an ID token obtained by a client-side Google
// sign-in, as an alternative to the redirect flow.
type GoogleCallbackRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// PhoneStartRequest begins the SMS confirmation flow.
type PhoneStartRequest struct {
	Phone string `json:"phone" binding:"required,e164"`
}

// PhoneStartResponse returns the session the confirm call must reference.
type PhoneStartResponse struct {
	SessionID string `json:"sessionID"`
}

// PhoneConfirmRequest completes the SMS confirmation flow.
type PhoneConfirmRequest struct {
	SessionID string `json:"sessionID" binding:"required"`
	Code      string `json:"code" binding:"required"`
}

// LoginResponse represents the response for a successful sign-in.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// RefreshTokenResponse represents the response for a successful token refresh.
type RefreshTokenResponse struct {
	Token string `json:"token"`
}
