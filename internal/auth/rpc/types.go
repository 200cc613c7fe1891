package rpc

// ValidateTokenRequest carries the raw access token to check.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// UserInfo is the identity attached to a valid token.
type UserInfo struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
	IsVerified  bool   `json:"is_verified"`
}

// ValidateTokenResponse reports the verdict. User is nil when the token
// is not valid.
type ValidateTokenResponse struct {
	Valid bool      `json:"valid"`
	User  *UserInfo `json:"user,omitempty"`
}
